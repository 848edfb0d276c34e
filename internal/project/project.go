// Package project persists local application data: the config file, saved
// plan projects, the catalog cache and full backups.
package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/piwi3910/LoadPlan/internal/model"
)

// FileExtension is the extension of saved projects.
const FileExtension = ".loadplan"

const projectFormatVersion = 1

// projectFile is the on-disk envelope of a project.
type projectFile struct {
	Version int           `json:"version"`
	SavedAt string        `json:"saved_at"`
	Project model.Project `json:"project"`
}

// WithExtension appends FileExtension unless path already has it.
func WithExtension(path string) string {
	if strings.EqualFold(filepath.Ext(path), FileExtension) {
		return path
	}
	return path + FileExtension
}

// Save writes a project to path as JSON.
func Save(path string, proj model.Project) error {
	if err := proj.Inputs.Validate(); err != nil {
		return fmt.Errorf("project inputs: %w", err)
	}
	data, err := json.MarshalIndent(projectFile{
		Version: projectFormatVersion,
		SavedAt: time.Now().UTC().Format(time.RFC3339),
		Project: proj,
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal project: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create project directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write project: %w", err)
	}
	return nil
}

// Load reads a project written by Save.
func Load(path string) (model.Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.Project{}, fmt.Errorf("failed to read project: %w", err)
	}
	var f projectFile
	if err := json.Unmarshal(data, &f); err != nil {
		return model.Project{}, fmt.Errorf("failed to parse project: %w", err)
	}
	if f.Version == 0 {
		return model.Project{}, fmt.Errorf("invalid project file: missing version field")
	}
	if f.Version > projectFormatVersion {
		return model.Project{}, fmt.Errorf("project file version %d is newer than supported version %d", f.Version, projectFormatVersion)
	}
	if f.Project.Name == "" {
		f.Project.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	if lp := f.Project.LastPlan; lp != nil && lp.Result.Placements == nil {
		lp.Result.Placements = []model.Placement{}
	}
	return f.Project, nil
}
