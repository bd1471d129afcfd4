// askgpt manages named conversation sessions with a hosted GPT model.
package main

import (
	"os"

	"github.com/wethinkt/go-askgpt/internal/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
