// Package config manages askgpt's on-disk configuration: the config.toml
// file under ~/.askgpt plus the small plain-text state files the tool has
// always kept (current_session, model.conf).
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
)

// DefaultModel is the built-in fallback model when neither the session
// nor the global default names one.
const DefaultModel = "gpt-4o"

// DefaultEOFWord terminates multi-line input in interactive mode.
const DefaultEOFWord = "EOF"

// Config holds the askgpt configuration persisted in config.toml.
type Config struct {
	// Workspace is the active workspace root. Empty means the default
	// root (~/.askgpt).
	Workspace string `toml:"workspace"`

	// KnownWorkspaces records every workspace path ever activated, so
	// they can be listed and re-selected later.
	KnownWorkspaces []string `toml:"known_workspaces"`

	// EOFWord is the default end-of-input sentinel for interactive mode.
	EOFWord string `toml:"eof_word"`
}

// Dir returns the path to the ~/.askgpt directory.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".askgpt"), nil
}

// Manager resolves paths and loads/saves configuration rooted at a given
// base directory. Production code roots it at Dir(); tests use t.TempDir.
type Manager struct {
	baseDir string
}

// NewManager creates a Manager rooted at baseDir. An empty baseDir means
// the default ~/.askgpt directory.
func NewManager(baseDir string) (*Manager, error) {
	if baseDir == "" {
		dir, err := Dir()
		if err != nil {
			return nil, err
		}
		baseDir = dir
	}
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, fmt.Errorf("create config dir: %w", err)
	}
	return &Manager{baseDir: baseDir}, nil
}

// BaseDir returns the directory holding config and default session state.
func (m *Manager) BaseDir() string {
	return m.baseDir
}

func (m *Manager) configPath() string {
	return filepath.Join(m.baseDir, "config.toml")
}

func (m *Manager) modelConfPath() string {
	return filepath.Join(m.baseDir, "model.conf")
}

func (m *Manager) currentSessionPath() string {
	return filepath.Join(m.baseDir, "current_session")
}

// Default returns a configuration with all defaults set.
func Default() Config {
	return Config{
		EOFWord: DefaultEOFWord,
	}
}

// Load reads config.toml, returning defaults when the file is absent.
func (m *Manager) Load() (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(m.configPath())
	if os.IsNotExist(err) {
		return cfg, nil
	} else if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if cfg.EOFWord == "" {
		cfg.EOFWord = DefaultEOFWord
	}
	return cfg, nil
}

// Save writes config.toml.
func (m *Manager) Save(cfg Config) error {
	var b strings.Builder
	if err := toml.NewEncoder(&b).Encode(cfg); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return os.WriteFile(m.configPath(), []byte(b.String()), 0600)
}

// SessionsDir returns the directory session files resolve under, honoring
// the active workspace, and creates it if needed.
func (m *Manager) SessionsDir() (string, error) {
	cfg, err := m.Load()
	if err != nil {
		return "", err
	}
	root := m.baseDir
	if cfg.Workspace != "" {
		root = filepath.Join(cfg.Workspace, ".askgpt")
	}
	dir := filepath.Join(root, "sessions")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create sessions dir: %w", err)
	}
	return dir, nil
}

// SetWorkspace activates path as the workspace root and records it in the
// known-workspaces list. The path must name an existing directory.
func (m *Manager) SetWorkspace(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolve workspace path: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return fmt.Errorf("workspace path: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("workspace path is not a directory: %s", abs)
	}

	cfg, err := m.Load()
	if err != nil {
		return err
	}
	cfg.Workspace = abs
	if !slices.Contains(cfg.KnownWorkspaces, abs) {
		cfg.KnownWorkspaces = append(cfg.KnownWorkspaces, abs)
	}
	return m.Save(cfg)
}

// ClearWorkspace reverts session resolution to the default root.
func (m *Manager) ClearWorkspace() error {
	cfg, err := m.Load()
	if err != nil {
		return err
	}
	cfg.Workspace = ""
	return m.Save(cfg)
}

// WorkspaceEntry describes one row of the workspace listing.
type WorkspaceEntry struct {
	Path    string
	Default bool
	Current bool
}

// ListWorkspaces returns the default root plus every known workspace,
// marking which one is current.
func (m *Manager) ListWorkspaces() ([]WorkspaceEntry, error) {
	cfg, err := m.Load()
	if err != nil {
		return nil, err
	}
	entries := []WorkspaceEntry{
		{Path: m.baseDir, Default: true, Current: cfg.Workspace == ""},
	}
	for _, ws := range cfg.KnownWorkspaces {
		entries = append(entries, WorkspaceEntry{
			Path:    ws,
			Current: ws == cfg.Workspace,
		})
	}
	return entries, nil
}

// CurrentSession returns the active session name, or "" when none is set.
func (m *Manager) CurrentSession() string {
	data, err := os.ReadFile(m.currentSessionPath())
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

// SetCurrentSession records name as the active session.
func (m *Manager) SetCurrentSession(name string) error {
	return os.WriteFile(m.currentSessionPath(), []byte(name+"\n"), 0600)
}

// ClearCurrentSession removes the active session pointer.
func (m *Manager) ClearCurrentSession() error {
	err := os.Remove(m.currentSessionPath())
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// GlobalModel returns the persisted global default model, or "" when the
// model.conf file is absent.
func (m *Manager) GlobalModel() string {
	data, err := os.ReadFile(m.modelConfPath())
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

// SetGlobalModel persists the global default model to model.conf.
func (m *Manager) SetGlobalModel(model string) error {
	return os.WriteFile(m.modelConfPath(), []byte(model+"\n"), 0600)
}

// ClearGlobalModel removes model.conf; the effective default reverts to
// DefaultModel. Session-level assignments are untouched.
func (m *Manager) ClearGlobalModel() error {
	err := os.Remove(m.modelConfPath())
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// EffectiveDefaultModel resolves the global default for sessions with no
// model of their own: model.conf if present, else DefaultModel.
func (m *Manager) EffectiveDefaultModel() string {
	if model := m.GlobalModel(); model != "" {
		return model
	}
	return DefaultModel
}
