package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

// FileTokenStorage keeps the token in a small JSON file, {"auth_token": "..."}.
// It is the CLI's durable storage.
type FileTokenStorage struct {
	mu   sync.Mutex
	path string
}

// NewFileTokenStorage stores the token at path.
func NewFileTokenStorage(path string) *FileTokenStorage {
	return &FileTokenStorage{path: path}
}

// DefaultCredentialsPath returns ~/.jarvis/credentials.json.
func DefaultCredentialsPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("find home directory: %w", err)
	}
	return filepath.Join(home, ".jarvis", "credentials.json"), nil
}

// Path returns the credentials file location.
func (f *FileTokenStorage) Path() string {
	return f.path
}

func (f *FileTokenStorage) Token(_ context.Context) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	items, err := f.read()
	if err != nil {
		return "", err
	}
	return items[TokenKey], nil
}

func (f *FileTokenStorage) SetToken(_ context.Context, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	items, err := f.read()
	if err != nil {
		items = map[string]string{}
	}
	items[TokenKey] = token
	return f.write(items)
}

func (f *FileTokenStorage) RemoveToken(_ context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	items, err := f.read()
	if err != nil {
		return err
	}
	if _, ok := items[TokenKey]; !ok {
		return nil
	}
	delete(items, TokenKey)
	return f.write(items)
}

func (f *FileTokenStorage) read() (map[string]string, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read credentials: %w", err)
	}
	items := map[string]string{}
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("parse credentials %s: %w", f.path, err)
	}
	return items, nil
}

func (f *FileTokenStorage) write(items map[string]string) error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal credentials: %w", err)
	}
	if err := os.WriteFile(f.path, data, 0o600); err != nil {
		return fmt.Errorf("write credentials: %w", err)
	}
	return nil
}
