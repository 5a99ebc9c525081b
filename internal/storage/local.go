package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// LocalWriter stores objects below a directory on disk, for development
type LocalWriter struct {
	root    string
	baseURL string
}

// NewLocalWriter creates root if needed
func NewLocalWriter(root, baseURL string) (*LocalWriter, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("storage: create %s: %w", root, err)
	}
	return &LocalWriter{root: root, baseURL: baseURL}, nil
}

// Put writes data to root/key. Keys must stay inside root.
func (w *LocalWriter) Put(ctx context.Context, key string, data io.Reader, contentType string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(key))
	if filepath.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("storage: invalid key %q", key)
	}

	target := filepath.Join(w.root, clean)
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return "", fmt.Errorf("storage: create dir for %s: %w", key, err)
	}

	f, err := os.Create(target)
	if err != nil {
		return "", fmt.Errorf("storage: create %s: %w", key, err)
	}
	if _, err := io.Copy(f, data); err != nil {
		f.Close()
		return "", fmt.Errorf("storage: write %s: %w", key, err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("storage: close %s: %w", key, err)
	}

	return publicPath(w.baseURL, filepath.ToSlash(clean)), nil
}
