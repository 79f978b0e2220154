// Package filestore persists the session token to a single file so a login
// survives process restarts.
package filestore

import (
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/Tabo-ecom/grandline-go/session"
	"github.com/pkg/errors"
)

var _ session.Repo = (*FileStore)(nil)

// FileStore stores the raw token at a fixed path with 0600 permissions.
// A missing file reads as an absent token.
type FileStore struct {
	path string
	lock sync.Mutex
}

func New(path string) *FileStore {
	return &FileStore{path: path}
}

func (fs *FileStore) Get() (string, error) {
	fs.lock.Lock()
	defer fs.lock.Unlock()

	data, err := os.ReadFile(fs.path)
	if os.IsNotExist(err) {
		return "", nil
	}
	if err != nil {
		return "", errors.Wrap(err, "[FileStore.Get] ReadFile")
	}
	return strings.TrimSpace(string(data)), nil
}

func (fs *FileStore) Set(token string) error {
	fs.lock.Lock()
	defer fs.lock.Unlock()

	if err := os.MkdirAll(filepath.Dir(fs.path), 0o700); err != nil {
		return errors.Wrap(err, "[FileStore.Set] MkdirAll")
	}
	if err := os.WriteFile(fs.path, []byte(token), 0o600); err != nil {
		return errors.Wrap(err, "[FileStore.Set] WriteFile")
	}
	return nil
}

func (fs *FileStore) Clear() error {
	fs.lock.Lock()
	defer fs.lock.Unlock()

	if err := os.Remove(fs.path); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "[FileStore.Clear] Remove")
	}
	return nil
}
