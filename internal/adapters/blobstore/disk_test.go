package blobstore

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDisk_PutAndOpen(t *testing.T) {
	store, err := NewDisk(t.TempDir(), "/media", 0)
	require.NoError(t, err)
	ctx := context.Background()

	res, err := store.Put(ctx, "photo.jpg", "image/jpeg", strings.NewReader("fake jpeg bytes"))
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(res.Key, ".jpg"), "key %q should keep the extension", res.Key)
	assert.Equal(t, "/media/"+res.Key, res.URL)
	assert.EqualValues(t, len("fake jpeg bytes"), res.Size)

	rc, contentType, err := store.Open(ctx, res.Key)
	require.NoError(t, err)
	defer rc.Close()
	assert.Equal(t, "image/jpeg", contentType)

	got, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "fake jpeg bytes", string(got))
}

func TestDisk_PutSameContentSameKey(t *testing.T) {
	store, err := NewDisk(t.TempDir(), "/media", 0)
	require.NoError(t, err)
	ctx := context.Background()

	first, err := store.Put(ctx, "a.png", "image/png", strings.NewReader("same bytes"))
	require.NoError(t, err)
	second, err := store.Put(ctx, "b.png", "image/png", strings.NewReader("same bytes"))
	require.NoError(t, err)
	assert.Equal(t, first.Key, second.Key)
}

func TestDisk_PutRejectsOversizeAndEmpty(t *testing.T) {
	store, err := NewDisk(t.TempDir(), "/media", 8)
	require.NoError(t, err)
	ctx := context.Background()

	_, err = store.Put(ctx, "big.bin", "application/octet-stream", strings.NewReader("way more than eight bytes"))
	assert.Error(t, err)

	_, err = store.Put(ctx, "empty.bin", "application/octet-stream", strings.NewReader(""))
	assert.Error(t, err)
}

func TestDisk_OpenRejectsTraversal(t *testing.T) {
	store, err := NewDisk(t.TempDir(), "/media", 0)
	require.NoError(t, err)

	_, _, err = store.Open(context.Background(), "../../etc/passwd")
	assert.Error(t, err)
}
