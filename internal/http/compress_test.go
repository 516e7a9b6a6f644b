package httpx

import (
	"compress/gzip"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

func servePage(contentType string, body []byte) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", contentType)
		_, _ = w.Write(body)
	})
}

func TestCompression_GzipsHTML(t *testing.T) {
	body := []byte("<html><body>Harborlight Collective serves Portsmouth families.</body></html>")
	h := Compression(CompressionConfig{Level: 6})(servePage("text/html; charset=utf-8", body))

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Accept-Encoding", "gzip")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)

	if got := w.Header().Get("Content-Encoding"); got != "gzip" {
		t.Fatalf("Content-Encoding = %q, want gzip", got)
	}
	if got := w.Header().Get("Vary"); got != "Accept-Encoding" {
		t.Fatalf("Vary = %q", got)
	}
	gr, err := gzip.NewReader(w.Body)
	if err != nil {
		t.Fatalf("body is not gzip: %v", err)
	}
	decoded, err := io.ReadAll(gr)
	if err != nil {
		t.Fatalf("read gzip body: %v", err)
	}
	if string(decoded) != string(body) {
		t.Fatalf("round-trip mismatch: %q", decoded)
	}
}

func TestCompression_SkipsBinaryMedia(t *testing.T) {
	body := []byte{0x89, 0x50, 0x4e, 0x47}
	h := Compression(CompressionConfig{Level: 6})(servePage("image/png", body))

	r := httptest.NewRequest(http.MethodGet, "/media/abc", nil)
	r.Header.Set("Accept-Encoding", "gzip")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)

	if got := w.Header().Get("Content-Encoding"); got != "" {
		t.Fatalf("Content-Encoding = %q, want none", got)
	}
	if w.Body.String() != string(body) {
		t.Fatal("binary body altered")
	}
}

func TestCompression_SkipsClientsWithoutGzip(t *testing.T) {
	h := Compression(CompressionConfig{Level: 6})(servePage("text/html", []byte("plain")))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	if got := w.Header().Get("Content-Encoding"); got != "" {
		t.Fatalf("Content-Encoding = %q, want none", got)
	}
	if w.Body.String() != "plain" {
		t.Fatalf("body = %q", w.Body.String())
	}
}

func TestCompression_SkipsAlreadyEncoded(t *testing.T) {
	h := Compression(CompressionConfig{Level: 6})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Header().Set("Content-Encoding", "br")
		_, _ = w.Write([]byte("already-encoded"))
	}))

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Accept-Encoding", "gzip")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)

	if got := w.Header().Get("Content-Encoding"); got != "br" {
		t.Fatalf("Content-Encoding = %q, want br", got)
	}
	if w.Body.String() != "already-encoded" {
		t.Fatal("pre-encoded body altered")
	}
}

func TestAcceptsGzip(t *testing.T) {
	cases := []struct {
		header string
		want   bool
	}{
		{"", false},
		{"gzip", true},
		{"gzip, deflate, br", true},
		{"deflate, gzip;q=1.0", true},
		{"gzip;q=0", false},
		{"gzip;q=0.0", false},
		{"GZIP", true},
		{"identity", false},
	}
	for _, tc := range cases {
		if got := acceptsGzip(tc.header); got != tc.want {
			t.Errorf("acceptsGzip(%q) = %v, want %v", tc.header, got, tc.want)
		}
	}
}

func TestIsCompressibleContentType(t *testing.T) {
	cases := []struct {
		ct   string
		want bool
	}{
		{"text/html", true},
		{"text/html; charset=utf-8", true},
		{"application/json", true},
		{"image/svg+xml", true},
		{"image/png", false},
		{"application/pdf", false},
		{"", false},
	}
	for _, tc := range cases {
		if got := isCompressibleContentType(tc.ct); got != tc.want {
			t.Errorf("isCompressibleContentType(%q) = %v, want %v", tc.ct, got, tc.want)
		}
	}
}
