package blob

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// LocalStore keeps blobs on the local filesystem under a public root
// directory, e.g. ./public/receipts/<name>.pdf served as /receipts/<name>.pdf.
type LocalStore struct {
	root string
}

// NewLocalStore creates a filesystem-backed store rooted at dir.
func NewLocalStore(dir string) (*LocalStore, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve uploads dir: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create uploads dir: %w", err)
	}
	return &LocalStore{root: abs}, nil
}

// Put writes the blob and returns its root-relative URL.
func (s *LocalStore) Put(dir, name string, r io.Reader) (string, error) {
	target := filepath.Join(s.root, dir)
	if err := os.MkdirAll(target, 0o755); err != nil {
		return "", fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	path := filepath.Join(target, name)
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}

	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(path)
		return "", fmt.Errorf("failed to write file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("failed to close file: %w", err)
	}

	return "/" + dir + "/" + name, nil
}

// Open returns the blob contents for a URL.
func (s *LocalStore) Open(url string) (io.ReadCloser, error) {
	path, err := s.resolve(url)
	if err != nil {
		return nil, err
	}
	return os.Open(path)
}

// Delete removes the blob for a URL. A missing file is not an error.
func (s *LocalStore) Delete(url string) error {
	path, err := s.resolve(url)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

// Exists reports whether the blob for a URL is on disk.
func (s *LocalStore) Exists(url string) bool {
	path, err := s.resolve(url)
	if err != nil {
		return false
	}
	_, statErr := os.Stat(path)
	return statErr == nil
}

// Root returns the absolute directory blobs live under.
func (s *LocalStore) Root() string {
	return s.root
}

// resolve maps a public URL back to an absolute path, rejecting anything
// that escapes the root.
func (s *LocalStore) resolve(url string) (string, error) {
	cleaned := filepath.Clean("/" + strings.TrimPrefix(url, "/"))
	path := filepath.Join(s.root, cleaned)
	if !strings.HasPrefix(path, s.root+string(os.PathSeparator)) {
		return "", fmt.Errorf("invalid blob url: %s", url)
	}
	return path, nil
}
