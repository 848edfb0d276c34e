package model

import "strings"

// DefaultBackendURL is the optimizer backend used until the user configures another.
const DefaultBackendURL = "https://logixmaster-pro-backend.onrender.com"

// AppConfig holds application-wide preferences persisted between sessions.
type AppConfig struct {
	// Backend connection
	BackendURL string `json:"backend_url" validate:"omitempty,url"`
	Token      string `json:"token,omitempty"` // Bearer token; empty means unauthenticated

	// Application preferences
	LogLevel       string   `json:"log_level" validate:"omitempty,oneof=debug info warn error"`
	Theme          string   `json:"theme" validate:"omitempty,oneof=light dark system"`
	RecentProjects []string `json:"recent_projects"`
}

// DefaultAppConfig returns an AppConfig populated with sensible defaults.
func DefaultAppConfig() AppConfig {
	return AppConfig{
		BackendURL:     DefaultBackendURL,
		LogLevel:       "info",
		Theme:          "system",
		RecentProjects: []string{},
	}
}

// ResolvedBackendURL returns the configured backend URL without a trailing
// slash, or DefaultBackendURL when none is set.
func (c AppConfig) ResolvedBackendURL() string {
	u := strings.TrimRight(strings.TrimSpace(c.BackendURL), "/")
	if u == "" {
		return DefaultBackendURL
	}
	return u
}

// AddRecentProject moves path to the front of the recent list, keeping at most max entries.
func (c *AppConfig) AddRecentProject(path string, max int) {
	out := []string{path}
	for _, p := range c.RecentProjects {
		if p != path {
			out = append(out, p)
		}
	}
	if max > 0 && len(out) > max {
		out = out[:max]
	}
	c.RecentProjects = out
}

// Validate checks the config fields.
func (c AppConfig) Validate() error {
	return validateStruct(c)
}
