package httpx

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
)

func csrfHandler() http.Handler {
	return CSRF(false)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(CSRFTokenFromContext(r.Context())))
	}))
}

func TestCSRF_GetSeedsCookie(t *testing.T) {
	w := httptest.NewRecorder()
	csrfHandler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var cookie *http.Cookie
	for _, c := range w.Result().Cookies() {
		if c.Name == CSRFCookieName {
			cookie = c
		}
	}
	if cookie == nil || cookie.Value == "" {
		t.Fatal("GET did not seed the csrf cookie")
	}
	if cookie.HttpOnly {
		t.Fatal("csrf cookie must be readable by fetch callers")
	}
	if w.Body.String() != cookie.Value {
		t.Fatalf("context token %q != cookie %q", w.Body.String(), cookie.Value)
	}
}

func TestCSRF_GetKeepsExistingCookie(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/admin", nil)
	r.AddCookie(&http.Cookie{Name: CSRFCookieName, Value: "existing-token"})
	w := httptest.NewRecorder()
	csrfHandler().ServeHTTP(w, r)

	if len(w.Result().Cookies()) != 0 {
		t.Fatal("existing cookie must not be reissued")
	}
	if w.Body.String() != "existing-token" {
		t.Fatalf("context token = %q", w.Body.String())
	}
}

func TestCSRF_PostWithoutCookieForbidden(t *testing.T) {
	w := httptest.NewRecorder()
	csrfHandler().ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/admin/login", nil))
	if w.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", w.Code)
	}
}

func TestCSRF_PostWithFormToken(t *testing.T) {
	form := url.Values{CSRFFieldName: {"tok-abc"}}
	r := httptest.NewRequest(http.MethodPost, "/admin/login", strings.NewReader(form.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	r.AddCookie(&http.Cookie{Name: CSRFCookieName, Value: "tok-abc"})
	w := httptest.NewRecorder()
	csrfHandler().ServeHTTP(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
}

func TestCSRF_PostWithHeaderToken(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/admin/users", nil)
	r.Header.Set(CSRFHeaderName, "tok-abc")
	r.AddCookie(&http.Cookie{Name: CSRFCookieName, Value: "tok-abc"})
	w := httptest.NewRecorder()
	csrfHandler().ServeHTTP(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
}

func TestCSRF_PostWithMismatchedToken(t *testing.T) {
	form := url.Values{CSRFFieldName: {"tok-evil"}}
	r := httptest.NewRequest(http.MethodPost, "/admin/login", strings.NewReader(form.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	r.AddCookie(&http.Cookie{Name: CSRFCookieName, Value: "tok-abc"})
	w := httptest.NewRecorder()
	csrfHandler().ServeHTTP(w, r)

	if w.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", w.Code)
	}
}

func TestCSRF_PostWithMissingToken(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/admin/login", nil)
	r.AddCookie(&http.Cookie{Name: CSRFCookieName, Value: "tok-abc"})
	w := httptest.NewRecorder()
	csrfHandler().ServeHTTP(w, r)

	if w.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", w.Code)
	}
}
