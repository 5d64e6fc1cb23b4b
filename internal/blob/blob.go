package blob

import (
	"io"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Store abstracts the attachment backing store. Blobs are addressed by the
// root-relative URL that gets persisted in the database, so the backend can
// be swapped without touching business logic.
type Store interface {
	// Put writes a blob under dir/name and returns its public URL.
	Put(dir, name string, r io.Reader) (string, error)
	// Open returns the blob for a previously returned URL.
	Open(url string) (io.ReadCloser, error)
	// Delete removes the blob. Deleting a missing blob is not an error.
	Delete(url string) error
	// Exists reports whether a blob is present for the URL.
	Exists(url string) bool
}

// Subdirectories used by the storefront.
const (
	DirProducts   = "products"
	DirCategories = "categories"
	DirHero       = "hero"
	DirReceipts   = "receipts"
)

// Ext returns the lowercase extension of an uploaded filename, falling back
// to the given default when the name has none.
func Ext(filename, fallback string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" {
		return fallback
	}
	return ext
}

// RandomName generates a collision-resistant filename keeping the original
// extension. An optional prefix survives in the name (hero images use "hero-").
func RandomName(prefix, originalName string) string {
	return prefix + uuid.New().String() + Ext(originalName, ".jpg")
}
