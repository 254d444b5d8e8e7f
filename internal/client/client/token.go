package client

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/datalyn/internal/filex"
)

const tokenFileName = "token"

// TokenStore keeps the last session token in a file readable only by the
// current user.
type TokenStore struct {
	path string
}

// NewTokenStore uses dir, creating it if needed. A relative dir is
// resolved against the working directory.
func NewTokenStore(dir string) (*TokenStore, error) {
	abs, err := filex.PrivateDir(dir)
	if err != nil {
		return nil, err
	}
	return &TokenStore{path: filepath.Join(abs, tokenFileName)}, nil
}

func (s *TokenStore) Path() string { return s.path }

func (s *TokenStore) Save(token string) error {
	return filex.WriteFileAtomic(s.path, []byte(token+"\n"), 0o600)
}

// Load returns ErrNoToken when nothing was saved.
func (s *TokenStore) Load() (string, error) {
	b, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return "", ErrNoToken
	}
	if err != nil {
		return "", err
	}
	token := strings.TrimSpace(string(b))
	if token == "" {
		return "", ErrNoToken
	}
	return token, nil
}

func (s *TokenStore) Clear() error {
	err := os.Remove(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}
