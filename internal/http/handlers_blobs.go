package httpx

import (
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"net/http"

	"github.com/harborlight-collective/harborlight/internal/ports"
)

// BlobHandler serves uploaded media from the blob store.
// Keys are content-addressed, so responses are immutable and cacheable.
type BlobHandler struct {
	Blobs  ports.BlobStore
	Logger *slog.Logger
}

// Serve handles GET /media/{key}.
func (h *BlobHandler) Serve(w http.ResponseWriter, r *http.Request) {
	rc, contentType, err := h.Blobs.Open(r.Context(), r.PathValue("key"))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			http.NotFound(w, r)
			return
		}
		if h.Logger != nil {
			h.Logger.ErrorContext(r.Context(), "blob open failed", "err", err)
		}
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	defer rc.Close()

	if contentType != "" {
		w.Header().Set("Content-Type", contentType)
	}
	w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
	_, _ = io.Copy(w, rc)
}
