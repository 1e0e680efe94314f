// Package session holds the learner's identity and display preferences. It
// is passed explicitly to the CLI; the progress tracker and quiz engine never
// see it.
package session

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/yungbote/smarttutor-backend/internal/learning/api"
)

type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"

	DefaultBaseURL = "http://localhost:8080"
)

var ErrUnknownTheme = errors.New("unknown theme")

type User struct {
	ID      string `yaml:"id"`
	Email   string `yaml:"email"`
	Name    string `yaml:"name"`
	Picture string `yaml:"picture,omitempty"`
}

// Config is the persisted form of a Session.
type Config struct {
	BaseURL string `yaml:"base_url"`
	Theme   Theme  `yaml:"theme"`
	Token   string `yaml:"session_token,omitempty"`
	User    *User  `yaml:"user,omitempty"`
}

func DefaultConfig() Config {
	return Config{BaseURL: DefaultBaseURL, Theme: ThemeLight}
}

// DefaultPath is $XDG_CONFIG_HOME/smarttutor/session.yaml or the platform
// equivalent.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "smarttutor", "session.yaml"), nil
}

// Load reads path. A missing file yields DefaultConfig.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()
	b, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read session config: %w", err)
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return DefaultConfig(), fmt.Errorf("parse session config %s: %w", path, err)
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if _, err := ParseTheme(string(cfg.Theme)); err != nil {
		cfg.Theme = ThemeLight
	}
	return cfg, nil
}

// Save writes cfg with owner-only permissions since it holds the token.
func Save(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	b, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode session config: %w", err)
	}
	return os.WriteFile(path, b, 0o600)
}

func ParseTheme(s string) (Theme, error) {
	switch Theme(strings.ToLower(strings.TrimSpace(s))) {
	case ThemeLight:
		return ThemeLight, nil
	case ThemeDark:
		return ThemeDark, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownTheme, s)
	}
}

// Session is the in-memory view of Config bound to its file.
type Session struct {
	path string
	cfg  Config
}

func Open(path string) (*Session, error) {
	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}
	return &Session{path: path, cfg: cfg}, nil
}

func (s *Session) Config() Config  { return s.cfg }
func (s *Session) BaseURL() string { return s.cfg.BaseURL }
func (s *Session) Token() string   { return s.cfg.Token }
func (s *Session) Theme() Theme    { return s.cfg.Theme }
func (s *Session) User() *User     { return s.cfg.User }

func (s *Session) Authenticated() bool { return s.cfg.Token != "" && s.cfg.User != nil }

func (s *Session) SetBaseURL(u string) error {
	s.cfg.BaseURL = strings.TrimRight(strings.TrimSpace(u), "/")
	return s.Save()
}

func (s *Session) SetTheme(t Theme) error {
	if _, err := ParseTheme(string(t)); err != nil {
		return err
	}
	s.cfg.Theme = t
	return s.Save()
}

// ToggleTheme flips between light and dark and persists the choice.
func (s *Session) ToggleTheme() (Theme, error) {
	next := ThemeDark
	if s.cfg.Theme == ThemeDark {
		next = ThemeLight
	}
	return next, s.SetTheme(next)
}

// SignIn stores the identity returned by a login flow.
func (s *Session) SignIn(as api.Session) error {
	s.cfg.Token = as.SessionToken
	s.cfg.User = &User{ID: as.ID.String(), Email: as.Email, Name: as.Name, Picture: as.Picture}
	return s.Save()
}

func (s *Session) SignOut() error {
	s.cfg.Token = ""
	s.cfg.User = nil
	return s.Save()
}

func (s *Session) Save() error { return Save(s.path, s.cfg) }
