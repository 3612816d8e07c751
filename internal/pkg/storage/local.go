package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// FileStore abstracts the blob area so services can be tested without a disk.
type FileStore interface {
	Save(originalName string, content []byte) (storedName string, err error)
	Read(storedName string) ([]byte, error)
	Remove(storedName string) error
}

// LocalStore keeps uploads in a flat directory. Stored names are prefixed with
// a UUID so concurrent uploads of the same original name never collide.
type LocalStore struct {
	dir string
}

func NewLocalStore(dir string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create uploads dir: %w", err)
	}
	return &LocalStore{dir: dir}, nil
}

func (s *LocalStore) Save(originalName string, content []byte) (string, error) {
	storedName := fmt.Sprintf("%s_%s", uuid.New().String(), sanitize(originalName))
	if err := os.WriteFile(filepath.Join(s.dir, storedName), content, 0o644); err != nil {
		return "", err
	}
	return storedName, nil
}

func (s *LocalStore) Read(storedName string) ([]byte, error) {
	// Reject traversal before touching the filesystem.
	if sanitize(storedName) != storedName {
		return nil, os.ErrNotExist
	}
	return os.ReadFile(filepath.Join(s.dir, storedName))
}

func (s *LocalStore) Remove(storedName string) error {
	if sanitize(storedName) != storedName {
		return os.ErrNotExist
	}
	return os.Remove(filepath.Join(s.dir, storedName))
}

func sanitize(name string) string {
	name = filepath.Base(name)
	return strings.ReplaceAll(name, "..", "")
}
