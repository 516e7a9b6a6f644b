// Package blobstore stores uploaded media on local disk, addressed by
// content hash so re-uploading the same file is idempotent.
package blobstore

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"mime"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/harborlight-collective/harborlight/internal/ports"
)

// Disk implements ports.BlobStore under a root directory. Keys are
// "<sha256>.<ext>"; files are immutable once written and are never
// removed when a referencing row is deleted, so stale links keep
// resolving.
type Disk struct {
	root      string
	publicURL string // URL prefix the HTTP layer serves the root under
	maxBytes  int64
}

// NewDisk creates the root directory if needed. maxBytes of zero means
// a 25 MiB default.
func NewDisk(root, publicURL string, maxBytes int64) (*Disk, error) {
	if root == "" {
		return nil, fmt.Errorf("blobstore: root directory is required")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("blobstore: create root: %w", err)
	}
	if maxBytes <= 0 {
		maxBytes = 25 << 20
	}
	return &Disk{
		root:      root,
		publicURL: strings.TrimSuffix(publicURL, "/"),
		maxBytes:  maxBytes,
	}, nil
}

// Put streams the upload to a temp file while hashing, then renames it
// into place under its content key.
func (d *Disk) Put(ctx context.Context, name, contentType string, r io.Reader) (ports.PutResult, error) {
	if err := ctx.Err(); err != nil {
		return ports.PutResult{}, err
	}

	tmp, err := os.CreateTemp(d.root, ".upload-*")
	if err != nil {
		return ports.PutResult{}, fmt.Errorf("blobstore: temp file: %w", err)
	}
	defer func() {
		tmp.Close()
		os.Remove(tmp.Name())
	}()

	hasher := sha256.New()
	size, err := io.Copy(io.MultiWriter(tmp, hasher), io.LimitReader(r, d.maxBytes+1))
	if err != nil {
		return ports.PutResult{}, fmt.Errorf("blobstore: write upload: %w", err)
	}
	if size > d.maxBytes {
		return ports.PutResult{}, fmt.Errorf("blobstore: upload exceeds %d bytes", d.maxBytes)
	}
	if size == 0 {
		return ports.PutResult{}, fmt.Errorf("blobstore: empty upload")
	}

	key := hex.EncodeToString(hasher.Sum(nil)) + extensionFor(name, contentType)
	dst := filepath.Join(d.root, key)

	if _, err := os.Stat(dst); err == nil {
		// same content already stored
		return d.result(key, size, contentType), nil
	}

	if err := tmp.Sync(); err != nil {
		return ports.PutResult{}, fmt.Errorf("blobstore: sync upload: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return ports.PutResult{}, fmt.Errorf("blobstore: close upload: %w", err)
	}
	if err := os.Rename(tmp.Name(), dst); err != nil {
		return ports.PutResult{}, fmt.Errorf("blobstore: store upload: %w", err)
	}
	return d.result(key, size, contentType), nil
}

// Open returns the blob content and its content type.
func (d *Disk) Open(_ context.Context, key string) (io.ReadCloser, string, error) {
	clean := path.Base(path.Clean("/" + key))
	if clean != key || key == "" {
		return nil, "", os.ErrNotExist
	}
	f, err := os.Open(filepath.Join(d.root, key))
	if err != nil {
		return nil, "", err
	}
	contentType := mime.TypeByExtension(filepath.Ext(key))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return f, contentType, nil
}

func (d *Disk) result(key string, size int64, contentType string) ports.PutResult {
	return ports.PutResult{
		Key:         key,
		URL:         d.publicURL + "/" + key,
		Size:        size,
		ContentType: contentType,
	}
}

// extensionFor picks a file extension from the upload name, falling
// back to the declared content type.
func extensionFor(name, contentType string) string {
	if ext := strings.ToLower(filepath.Ext(name)); ext != "" && len(ext) <= 8 {
		return ext
	}
	if exts, err := mime.ExtensionsByType(contentType); err == nil && len(exts) > 0 {
		return exts[0]
	}
	return ""
}

var _ ports.BlobStore = (*Disk)(nil)
