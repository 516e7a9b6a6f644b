package service

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewNotifier_DisabledWithoutURL(t *testing.T) {
	n, err := NewNotifier(NotifierOptions{})
	require.NoError(t, err)
	assert.Nil(t, n)

	// A nil notifier is a safe no-op for every caller.
	n.Notify(context.Background(), "contact.received", map[string]string{"name": "A"})
}

func TestNewNotifier_RejectsBadConfig(t *testing.T) {
	cases := []struct {
		name string
		cfg  NotifyConfig
	}{
		{"bad scheme", NotifyConfig{WebhookURL: "ftp://hooks.example.org/x"}},
		{"missing host", NotifyConfig{WebhookURL: "https:///path-only"}},
		{"bad headers", NotifyConfig{WebhookURL: "https://hooks.example.org/x", Headers: "not-json"}},
		{"bad body expr", NotifyConfig{WebhookURL: "https://hooks.example.org/x", BodyExpr: "][invalid"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			n, err := NewNotifier(NotifierOptions{Config: tc.cfg})
			require.Error(t, err)
			assert.Nil(t, n)
		})
	}
}

func TestNotifier_PostsEnvelope(t *testing.T) {
	var (
		gotBody        []byte
		gotContentType string
		gotAuth        string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotBody, _ = io.ReadAll(r.Body)
		gotContentType = r.Header.Get("Content-Type")
		gotAuth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	n, err := NewNotifier(NotifierOptions{Config: NotifyConfig{
		WebhookURL: srv.URL,
		Headers:    `{"Authorization": "Bearer hook-token"}`,
		Timeout:    2 * time.Second,
	}})
	require.NoError(t, err)
	require.NotNil(t, n)

	n.Notify(context.Background(), "booking.received", map[string]any{"service": "family-counseling"})

	assert.Equal(t, "application/json", gotContentType)
	assert.Equal(t, "Bearer hook-token", gotAuth)

	var event map[string]any
	require.NoError(t, json.Unmarshal(gotBody, &event))
	assert.Equal(t, "booking.received", event["kind"])
	assert.NotEmpty(t, event["occurred_at"])
	data, ok := event["data"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "family-counseling", data["service"])
}

func TestNotifier_BodyExprShapesPayload(t *testing.T) {
	var gotBody []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	// Shape the envelope into a chat-style message, the way Slack-compatible
	// webhooks expect it.
	n, err := NewNotifier(NotifierOptions{Config: NotifyConfig{
		WebhookURL: srv.URL,
		BodyExpr:   "{text: join(': ', [kind, data.name])}",
	}})
	require.NoError(t, err)

	n.Notify(context.Background(), "volunteer.received", map[string]any{"name": "Jo Whitfield"})

	var payload map[string]any
	require.NoError(t, json.Unmarshal(gotBody, &payload))
	assert.Equal(t, "volunteer.received: Jo Whitfield", payload["text"])
}

func TestNotifier_RejectionIsSwallowed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "no such hook", http.StatusNotFound)
	}))
	defer srv.Close()

	n, err := NewNotifier(NotifierOptions{Config: NotifyConfig{WebhookURL: srv.URL}})
	require.NoError(t, err)

	// Delivery failures must never propagate to the submitting visitor.
	n.Notify(context.Background(), "contact.received", map[string]string{"name": "A"})
}

func TestParseHeaderJSON(t *testing.T) {
	headers, err := parseHeaderJSON(`{"X-Env": "prod", "X-Retries": 3, "": "dropped"}`)
	require.NoError(t, err)
	assert.Equal(t, "prod", headers["X-Env"])
	assert.Equal(t, "3", headers["X-Retries"])
	assert.NotContains(t, headers, "")

	headers, err = parseHeaderJSON("  ")
	require.NoError(t, err)
	assert.Empty(t, headers)
}
