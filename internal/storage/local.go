// Package storage keeps the raw uploaded files.
package storage

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"github.com/trackrec/records-backend-go/internal/models"
)

// LocalStorage writes raw files to <base>/<user_id>/<track_id>/<filename>.
type LocalStorage struct {
	base string
}

// NewLocalStorage creates the base directory if needed
func NewLocalStorage(base string) (*LocalStorage, error) {
	if err := os.MkdirAll(base, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	return &LocalStorage{base: base}, nil
}

// Path returns where the raw file of a track lives
func (s *LocalStorage) Path(t models.Track) string {
	return filepath.Join(s.base, strconv.FormatInt(t.UserID, 10), t.ID, filepath.Base(t.Filename))
}

// SaveRaw writes the uploaded bytes and returns the file path
func (s *LocalStorage) SaveRaw(t models.Track, blob []byte) (string, error) {
	path := s.Path(t)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("failed to create track directory: %w", err)
	}
	if err := os.WriteFile(path, blob, 0o644); err != nil {
		return "", fmt.Errorf("failed to write raw track: %w", err)
	}
	return path, nil
}

// LoadRaw reads the raw file of a track back
func (s *LocalStorage) LoadRaw(t models.Track) ([]byte, error) {
	blob, err := os.ReadFile(s.Path(t))
	if err != nil {
		return nil, fmt.Errorf("failed to read raw track: %w", err)
	}
	return blob, nil
}

// Exists reports whether a directory for the track id exists under any user
func (s *LocalStorage) Exists(trackID string) (bool, error) {
	users, err := os.ReadDir(s.base)
	if err != nil {
		return false, fmt.Errorf("failed to list upload directory: %w", err)
	}
	for _, u := range users {
		if !u.IsDir() {
			continue
		}
		info, err := os.Stat(filepath.Join(s.base, u.Name(), trackID))
		if err == nil && info.IsDir() {
			return true, nil
		}
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return false, fmt.Errorf("failed to stat track directory: %w", err)
		}
	}
	return false, nil
}
