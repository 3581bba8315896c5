// Package sharestore persists share capabilities as one JSON file per token
// under a spool directory. Tokens are unguessable, so the filename is the
// key; lookup and revocation are single file operations.
package sharestore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"docvault/internal/domain"
	"docvault/internal/domain/models"
	"docvault/internal/domain/repositories"
)

// FileStore implements repositories.ShareStore on a directory of JSON files.
type FileStore struct {
	dir    string
	logger *slog.Logger
}

// NewFileStore creates the spool directory if needed.
func NewFileStore(dir string, logger *slog.Logger) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create share store directory: %w", err)
	}
	return &FileStore{dir: dir, logger: logger}, nil
}

// path maps a token to its backing file. Tokens are base64url, but the
// filename is still validated against separators so a malicious token can
// never escape the spool directory.
func (s *FileStore) path(token string) (string, error) {
	if token == "" || strings.ContainsAny(token, "/\\") || strings.Contains(token, "..") {
		return "", &domain.NotFoundError{Message: "share token not found"}
	}
	return filepath.Join(s.dir, token+".json"), nil
}

// Put writes the capability record.
func (s *FileStore) Put(ctx context.Context, cap *models.ShareCapability) error {
	path, err := s.path(cap.Token)
	if err != nil {
		return err
	}

	data, err := json.Marshal(cap)
	if err != nil {
		return fmt.Errorf("encode share capability: %w", err)
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write share capability: %w", err)
	}
	return nil
}

// Get returns the capability for a token, or NotFoundError if absent. A
// record that cannot be decoded is treated as absent and removed: a corrupt
// capability must fail closed, not open.
func (s *FileStore) Get(ctx context.Context, token string) (*models.ShareCapability, error) {
	path, err := s.path(token)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &domain.NotFoundError{Message: "share token not found"}
		}
		return nil, fmt.Errorf("read share capability: %w", err)
	}

	var cap models.ShareCapability
	if err := json.Unmarshal(data, &cap); err != nil {
		s.logger.Warn("removing corrupt share capability", "token_file", filepath.Base(path), "error", err)
		_ = os.Remove(path)
		return nil, &domain.NotFoundError{Message: "share token not found"}
	}
	return &cap, nil
}

// Delete removes the record; deleting an absent token is not an error.
func (s *FileStore) Delete(ctx context.Context, token string) error {
	path, err := s.path(token)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("delete share capability: %w", err)
	}
	return nil
}

var _ repositories.ShareStore = (*FileStore)(nil)
