package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/piwi3910/LoadPlan/internal/model"
)

// DefaultConfigDir returns the default directory for application configuration.
// On all platforms this is ~/.loadplan/
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".loadplan")
}

// DefaultConfigPath returns the default path for the application config file.
func DefaultConfigPath() string {
	return filepath.Join(DefaultConfigDir(), "config.json")
}

// SaveAppConfig persists an AppConfig to the given path as JSON.
// It creates any missing parent directories automatically.
func SaveAppConfig(path string, config model.AppConfig) error {
	if err := config.Validate(); err != nil {
		return err
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}

// LoadAppConfig reads an AppConfig from the given path.
// If the file does not exist, it returns DefaultAppConfig with no error.
// Fields missing from the file keep their defaults.
func LoadAppConfig(path string) (model.AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return model.DefaultAppConfig(), nil
		}
		return model.AppConfig{}, err
	}
	config := model.DefaultAppConfig()
	if err := json.Unmarshal(data, &config); err != nil {
		return model.AppConfig{}, fmt.Errorf("failed to parse config: %w", err)
	}
	// Ensure RecentProjects is never nil
	if config.RecentProjects == nil {
		config.RecentProjects = []string{}
	}
	return config, nil
}

// ConfigStore keeps an AppConfig in memory and writes it back on every change.
type ConfigStore struct {
	mu     sync.RWMutex
	path   string
	config model.AppConfig
}

// OpenConfigStore loads the config at path, or defaults when it is missing.
func OpenConfigStore(path string) (*ConfigStore, error) {
	cfg, err := LoadAppConfig(path)
	if err != nil {
		return nil, err
	}
	return &ConfigStore{path: path, config: cfg}, nil
}

// Path returns the file the store writes to.
func (s *ConfigStore) Path() string { return s.path }

// Config returns a copy of the current config.
func (s *ConfigStore) Config() model.AppConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cfg := s.config
	cfg.RecentProjects = append([]string(nil), s.config.RecentProjects...)
	return cfg
}

// Update applies fn to a copy of the config and persists the result. The
// in-memory config only changes when the write succeeds.
func (s *ConfigStore) Update(fn func(*model.AppConfig)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := s.config
	next.RecentProjects = append([]string(nil), s.config.RecentProjects...)
	fn(&next)
	if err := SaveAppConfig(s.path, next); err != nil {
		return err
	}
	s.config = next
	return nil
}

// BackendURL returns the resolved backend URL.
func (s *ConfigStore) BackendURL() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.config.ResolvedBackendURL()
}

// SetBackendURL persists a new backend URL.
func (s *ConfigStore) SetBackendURL(url string) error {
	return s.Update(func(c *model.AppConfig) { c.BackendURL = url })
}

// Token returns the bearer token, or "".
func (s *ConfigStore) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.config.Token
}

// SetToken persists a new bearer token. An empty token clears it.
func (s *ConfigStore) SetToken(token string) error {
	return s.Update(func(c *model.AppConfig) { c.Token = token })
}
