package blob

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPutAndOpen(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)

	url, err := store.Put(DirReceipts, "receipt_TRK-1_1.pdf", strings.NewReader("%PDF-1.4 test"))
	require.NoError(t, err)
	assert.Equal(t, "/receipts/receipt_TRK-1_1.pdf", url)
	assert.True(t, store.Exists(url))

	f, err := store.Open(url)
	require.NoError(t, err)
	defer f.Close()

	data, err := io.ReadAll(f)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4 test", string(data))
}

func TestDeleteIsIdempotent(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)

	url, err := store.Put(DirProducts, "a.jpg", strings.NewReader("img"))
	require.NoError(t, err)

	require.NoError(t, store.Delete(url))
	assert.False(t, store.Exists(url))

	// Second delete of the same URL must not fail.
	assert.NoError(t, store.Delete(url))
}

func TestOpenMissingBlob(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)

	_, err = store.Open("/receipts/missing.pdf")
	assert.Error(t, err)
	assert.False(t, store.Exists("/receipts/missing.pdf"))
}

func TestRandomName(t *testing.T) {
	name := RandomName("hero-", "banner.PNG")
	assert.True(t, strings.HasPrefix(name, "hero-"))
	assert.True(t, strings.HasSuffix(name, ".png"))

	// No extension falls back to .jpg.
	assert.True(t, strings.HasSuffix(RandomName("", "photo"), ".jpg"))
}
