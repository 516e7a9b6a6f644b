package ports

import (
	"context"
	"io"
)

// BlobStore is a content-addressable blob store returning public URLs.
// Put is idempotent: storing the same bytes twice yields the same URL.
type BlobStore interface {
	// Put stores the content and returns its public URL.
	Put(ctx context.Context, name string, contentType string, r io.Reader) (PutResult, error)

	// Open returns a reader for a previously stored blob key.
	Open(ctx context.Context, key string) (io.ReadCloser, string, error)
}

// PutResult describes a stored blob.
type PutResult struct {
	Key         string // content-derived key
	URL         string // public URL
	Size        int64
	ContentType string
}
