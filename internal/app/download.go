package app

import (
	"fmt"
	"os"
	"path/filepath"
)

// Downloader receives a generated file. It returns where the file ended up.
type Downloader interface {
	Download(name string, data []byte) (string, error)
}

// DirDownloader writes downloads into Dir, creating it when needed.
type DirDownloader struct {
	Dir string
}

// DefaultDownloadDir returns ~/Downloads, or the working directory when the
// home directory is unknown.
func DefaultDownloadDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, "Downloads")
}

func (d DirDownloader) Download(name string, data []byte) (string, error) {
	if err := os.MkdirAll(d.Dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create download directory: %w", err)
	}
	path := filepath.Join(d.Dir, filepath.Base(name))
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	return path, nil
}
