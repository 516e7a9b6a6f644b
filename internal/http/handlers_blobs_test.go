package httpx

import (
	"errors"
	"io"
	"io/fs"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/mock/gomock"

	"github.com/harborlight-collective/harborlight/internal/mocks"
)

func TestBlobHandler_Serve(t *testing.T) {
	ctrl := gomock.NewController(t)
	blobs := mocks.NewMockBlobStore(ctrl)
	blobs.EXPECT().
		Open(gomock.Any(), "ab/abcdef.png").
		Return(io.NopCloser(strings.NewReader("png-bytes")), "image/png", nil)

	h := &BlobHandler{Blobs: blobs}
	r := httptest.NewRequest(http.MethodGet, "/media/ab/abcdef.png", nil)
	r.SetPathValue("key", "ab/abcdef.png")
	w := httptest.NewRecorder()
	h.Serve(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if got := w.Header().Get("Content-Type"); got != "image/png" {
		t.Fatalf("Content-Type = %q", got)
	}
	if got := w.Header().Get("Cache-Control"); !strings.Contains(got, "immutable") {
		t.Fatalf("Cache-Control = %q", got)
	}
	if w.Body.String() != "png-bytes" {
		t.Fatalf("body = %q", w.Body.String())
	}
}

func TestBlobHandler_NotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	blobs := mocks.NewMockBlobStore(ctrl)
	blobs.EXPECT().
		Open(gomock.Any(), "missing").
		Return(nil, "", fs.ErrNotExist)

	h := &BlobHandler{Blobs: blobs}
	r := httptest.NewRequest(http.MethodGet, "/media/missing", nil)
	r.SetPathValue("key", "missing")
	w := httptest.NewRecorder()
	h.Serve(w, r)

	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
}

func TestBlobHandler_StoreFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	blobs := mocks.NewMockBlobStore(ctrl)
	blobs.EXPECT().
		Open(gomock.Any(), "ab/abcdef.png").
		Return(nil, "", errors.New("disk: input/output error"))

	h := &BlobHandler{Blobs: blobs}
	r := httptest.NewRequest(http.MethodGet, "/media/ab/abcdef.png", nil)
	r.SetPathValue("key", "ab/abcdef.png")
	w := httptest.NewRecorder()
	h.Serve(w, r)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", w.Code)
	}
}
