package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/wethinkt/go-askgpt/internal/config"
)

// Store persists sessions as <name>.json files in the active workspace's
// sessions directory and tracks the current-session pointer.
type Store struct {
	cfg *config.Manager
}

// NewStore creates a store backed by the given configuration manager.
func NewStore(cfg *config.Manager) *Store {
	return &Store{cfg: cfg}
}

func (s *Store) path(name string) (string, error) {
	dir, err := s.cfg.SessionsDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, name+".json"), nil
}

// List returns the names of all sessions in the active workspace, sorted.
func (s *Store) List() ([]string, error) {
	dir, err := s.cfg.SessionsDir()
	if err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read sessions dir: %w", err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), ".json"))
	}
	sort.Strings(names)
	return names, nil
}

// Exists reports whether a session file exists for name.
func (s *Store) Exists(name string) bool {
	path, err := s.path(name)
	if err != nil {
		return false
	}
	_, err = os.Stat(path)
	return err == nil
}

// Create makes a new session seeded with the default system prompt and
// pinned to the effective default model, then switches to it.
func (s *Store) Create(name string) error {
	if s.Exists(name) {
		return fmt.Errorf("%w: %s", ErrExists, name)
	}
	if err := s.create(name); err != nil {
		return err
	}
	return s.cfg.SetCurrentSession(name)
}

// create writes a fresh session file without touching the current pointer.
func (s *Store) create(name string) error {
	sess := &Session{
		Model: s.cfg.EffectiveDefaultModel(),
		Messages: []Message{
			{Role: RoleSystem, Content: DefaultSystemPrompt},
		},
	}
	return s.Save(name, sess)
}

// Load reads a session. A legacy bare-array file is migrated in memory:
// it gets the effective default model.
func (s *Store) Load(name string) (*Session, error) {
	path, err := s.path(name)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	} else if err != nil {
		return nil, fmt.Errorf("read session: %w", err)
	}

	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("parse session %s: %w", name, err)
	}
	if sess.Model == "" {
		sess.Model = s.cfg.EffectiveDefaultModel()
	}
	return &sess, nil
}

// Save writes the session file. Each call persists immediately; exchanges
// are never buffered across the run.
func (s *Store) Save(name string, sess *Session) error {
	path, err := s.path(name)
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(sess, "", "  ")
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	return os.WriteFile(path, append(data, '\n'), 0600)
}

// Append adds messages to the end of the session and persists at once.
func (s *Store) Append(name string, messages ...Message) error {
	sess, err := s.Load(name)
	if err != nil {
		return err
	}
	sess.Messages = append(sess.Messages, messages...)
	return s.Save(name, sess)
}

// Delete removes the session. Deleting the active session clears the
// current-session pointer.
func (s *Store) Delete(name string) error {
	path, err := s.path(name)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		return fmt.Errorf("delete session: %w", err)
	}
	if s.cfg.CurrentSession() == name {
		return s.cfg.ClearCurrentSession()
	}
	return nil
}

// Switch sets name as the active session.
func (s *Store) Switch(name string) error {
	if !s.Exists(name) {
		return fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return s.cfg.SetCurrentSession(name)
}

// CurrentName returns the active session name, or "" when none is set.
func (s *Store) CurrentName() string {
	return s.cfg.CurrentSession()
}

// EnsureCurrent returns the active session name, auto-creating and
// activating master_session when none is set. The second return reports
// whether recovery happened, so callers can surface a notice.
func (s *Store) EnsureCurrent() (string, bool, error) {
	if name := s.cfg.CurrentSession(); name != "" {
		return name, false, nil
	}
	if !s.Exists(MasterSessionName) {
		if err := s.create(MasterSessionName); err != nil {
			return "", false, err
		}
	}
	if err := s.cfg.SetCurrentSession(MasterSessionName); err != nil {
		return "", false, err
	}
	return MasterSessionName, true, nil
}

// SetModel pins the session to a model and persists it.
func (s *Store) SetModel(name, model string) error {
	sess, err := s.Load(name)
	if err != nil {
		return err
	}
	sess.Model = model
	return s.Save(name, sess)
}

// ResolveModel returns the model backing the session: the session's own
// assignment if set, else the persisted global default, else the built-in
// fallback. The order is fixed.
func (s *Store) ResolveModel(sess *Session) string {
	if sess != nil && sess.Model != "" {
		return sess.Model
	}
	return s.cfg.EffectiveDefaultModel()
}
