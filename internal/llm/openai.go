package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/wethinkt/go-askgpt/internal/session"
)

const defaultAPIBase = "https://api.openai.com/v1"

// Client talks to an OpenAI-compatible chat-completions endpoint.
type Client struct {
	apiKey  string
	apiBase string
	http    *http.Client
}

// NewClient builds a client from the environment. OPENAI_API_KEY must be
// set; OPENAI_API_BASE optionally points at a compatible endpoint.
func NewClient() (*Client, error) {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		return nil, ErrNoAPIKey
	}
	apiBase := os.Getenv("OPENAI_API_BASE")
	if apiBase == "" {
		apiBase = defaultAPIBase
	}
	return &Client{
		apiKey:  apiKey,
		apiBase: strings.TrimSuffix(apiBase, "/"),
		http:    &http.Client{},
	}, nil
}

type chatRequest struct {
	Model    string            `json:"model"`
	Messages []session.Message `json:"messages"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// Complete implements Completer with a blocking request/response call.
// There is no client-side retry; failures surface to the caller.
func (c *Client) Complete(ctx context.Context, model string, messages []session.Message) (string, error) {
	body, err := json.Marshal(chatRequest{Model: model, Messages: messages})
	if err != nil {
		return "", fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.apiBase+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("model call: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	var parsed chatResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return "", fmt.Errorf("parse response (status %s): %w", resp.Status, err)
	}
	if parsed.Error != nil {
		return "", fmt.Errorf("model call failed: %s", parsed.Error.Message)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("model call failed: status %s", resp.Status)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("model call failed: empty choices")
	}
	return parsed.Choices[0].Message.Content, nil
}
