package filestore

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

const TypeLocal = "local"

type localConfig struct {
	Root string `json:"root"`
}

type localStore struct {
	root string
}

func init() {
	Register(TypeLocal, func(args interface{}) (Store, error) {
		var cfg localConfig
		if err := decodeConfig(args, &cfg); err != nil {
			return nil, err
		}
		return NewLocalStore(cfg.Root)
	})
}

func NewLocalStore(root string) (Store, error) {
	if strings.TrimSpace(root) == "" {
		return nil, fmt.Errorf("local store root is required")
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve store root: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("create store root: %w", err)
	}
	return &localStore{root: abs}, nil
}

func (s *localStore) Type() string {
	return TypeLocal
}

func (s *localStore) URL(key, baseURL string) string {
	return strings.TrimRight(baseURL, "/") + "/api/v1/files/" + key
}

func (s *localStore) resolve(key string) (string, error) {
	cleaned := filepath.Clean(key)
	if cleaned == "." || strings.HasPrefix(cleaned, "..") || filepath.IsAbs(cleaned) {
		return "", fmt.Errorf("invalid file key: %s", key)
	}
	return filepath.Join(s.root, cleaned), nil
}

func (s *localStore) Save(ctx context.Context, key string, r io.ReadSeeker, size int64) error {
	path, err := s.resolve(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create file dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create file: %w", err)
	}
	defer f.Close()
	if _, err := io.Copy(f, r); err != nil {
		return fmt.Errorf("write file: %w", err)
	}
	return nil
}

func (s *localStore) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	path, err := s.resolve(key)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	return f, nil
}
