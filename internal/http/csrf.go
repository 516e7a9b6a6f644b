package httpx

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"net/http"
)

const (
	// CSRFCookieName holds the double-submit token.
	CSRFCookieName = "hl_csrf"
	// CSRFFieldName is the form field that must echo the cookie value.
	CSRFFieldName = "csrf_token"
	// CSRFHeaderName is the header alternative for fetch-driven posts.
	CSRFHeaderName = "X-CSRF-Token"
)

// CSRF implements double-submit cookie protection. Safe methods always
// pass and are seeded with a token cookie when one is absent; mutating
// methods must echo the cookie value in a form field or header.
func CSRF(secure bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet, http.MethodHead, http.MethodOptions:
				token := ensureCSRFCookie(w, r, secure)
				next.ServeHTTP(w, r.WithContext(setCSRFTokenInContext(r.Context(), token)))
				return
			}

			cookie, err := r.Cookie(CSRFCookieName)
			if err != nil || cookie.Value == "" {
				http.Error(w, "Forbidden", http.StatusForbidden)
				return
			}
			sent := r.Header.Get(CSRFHeaderName)
			if sent == "" {
				sent = r.PostFormValue(CSRFFieldName)
			}
			if subtle.ConstantTimeCompare([]byte(cookie.Value), []byte(sent)) != 1 {
				http.Error(w, "Forbidden", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r.WithContext(setCSRFTokenInContext(r.Context(), cookie.Value)))
		})
	}
}

func ensureCSRFCookie(w http.ResponseWriter, r *http.Request, secure bool) string {
	if cookie, err := r.Cookie(CSRFCookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	token := newCSRFToken()
	http.SetCookie(w, &http.Cookie{
		Name:     CSRFCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: false, // readable so fetch callers can echo it in a header
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
	return token
}

func newCSRFToken() string {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		panic("csrf: rand.Read: " + err.Error())
	}
	return base64.RawURLEncoding.EncodeToString(buf)
}
