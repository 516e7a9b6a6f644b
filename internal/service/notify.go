package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	jmespath "github.com/jmespath-community/go-jmespath"
)

// JMESPathEvaluator abstracts JMESPath operations for testability.
type JMESPathEvaluator interface {
	Validate(expr string) error
	Evaluate(expr string, data any) (any, error)
}

type jmespathLibEvaluator struct{}

func (jmespathLibEvaluator) Validate(expr string) error {
	if strings.TrimSpace(expr) == "" {
		return nil
	}
	_, err := jmespath.Compile(expr)
	return err
}

func (jmespathLibEvaluator) Evaluate(expr string, data any) (any, error) {
	return jmespath.Search(expr, data)
}

// NotifyConfig describes one outbound webhook. BodyExpr is an optional
// JMESPath expression applied to the event envelope to shape the posted
// JSON; empty means post the envelope as-is. Headers is an optional
// JSON object of extra request headers.
type NotifyConfig struct {
	WebhookURL string
	BodyExpr   string
	Headers    string
	Timeout    time.Duration // default 10s
}

// NotifierOptions groups dependencies for Notifier.
type NotifierOptions struct {
	Config     NotifyConfig
	HTTPClient *http.Client // optional
	Evaluator  JMESPathEvaluator
	Logger     *slog.Logger
}

// Notifier posts an event envelope to a configured webhook when a
// public submission arrives (contact message, booking, volunteer
// application). Delivery is best-effort: failures are logged and never
// surfaced to the visitor who submitted the form.
type Notifier struct {
	cfg     NotifyConfig
	client  *http.Client
	jems    JMESPathEvaluator
	headers map[string]string
	logger  *slog.Logger
}

// NewNotifier validates the webhook URL, headers, and body expression
// up front so a misconfigured webhook fails at startup, not on the
// first submission. A nil return with nil error means notifications
// are disabled (no URL configured).
func NewNotifier(opts NotifierOptions) (*Notifier, error) {
	cfg := opts.Config
	if strings.TrimSpace(cfg.WebhookURL) == "" {
		return nil, nil
	}

	u, err := url.Parse(cfg.WebhookURL)
	if err != nil {
		return nil, fmt.Errorf("invalid webhook URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid webhook URL scheme: %s", u.Scheme)
	}
	if strings.TrimSpace(u.Host) == "" {
		return nil, errors.New("invalid webhook URL: missing host")
	}

	jems := opts.Evaluator
	if jems == nil {
		jems = jmespathLibEvaluator{}
	}
	if err := jems.Validate(cfg.BodyExpr); err != nil {
		return nil, fmt.Errorf("invalid webhook body expression: %w", err)
	}

	headers, err := parseHeaderJSON(cfg.Headers)
	if err != nil {
		return nil, err
	}

	client := opts.HTTPClient
	if client == nil {
		timeout := cfg.Timeout
		if timeout == 0 {
			timeout = 10 * time.Second
		}
		client = &http.Client{Timeout: timeout}
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Notifier{
		cfg:     cfg,
		client:  client,
		jems:    jems,
		headers: headers,
		logger:  logger.With("component", "notifier"),
	}, nil
}

// Event is the envelope posted to the webhook.
type Event struct {
	Kind       string    `json:"kind"`
	OccurredAt time.Time `json:"occurred_at"`
	Data       any       `json:"data"`
}

// Notify posts one event. A nil Notifier is a configured no-op, so
// callers never need to branch on whether webhooks are enabled.
func (n *Notifier) Notify(ctx context.Context, kind string, data any) {
	if n == nil {
		return
	}

	body, err := n.deriveBody(Event{Kind: kind, OccurredAt: time.Now().UTC(), Data: data})
	if err != nil {
		n.logger.ErrorContext(ctx, "webhook body derivation failed", "kind", kind, "err", err)
		return
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.cfg.WebhookURL, bytes.NewReader(body))
	if err != nil {
		n.logger.ErrorContext(ctx, "webhook request build failed", "kind", kind, "err", err)
		return
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range n.headers {
		req.Header.Set(k, v)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		n.logger.ErrorContext(ctx, "webhook delivery failed", "kind", kind, "err", err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		n.logger.ErrorContext(ctx, "webhook rejected", "kind", kind, "status", resp.StatusCode)
		return
	}
	n.logger.DebugContext(ctx, "webhook delivered", "kind", kind, "status", resp.StatusCode)
}

func (n *Notifier) deriveBody(event Event) ([]byte, error) {
	envelope, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("marshal event: %w", err)
	}

	expr := strings.TrimSpace(n.cfg.BodyExpr)
	if expr == "" {
		return envelope, nil
	}

	var data any
	if err := json.Unmarshal(envelope, &data); err != nil {
		return nil, fmt.Errorf("decode event envelope: %w", err)
	}
	res, err := n.jems.Evaluate(expr, data)
	if err != nil {
		return nil, fmt.Errorf("evaluate body expression: %w", err)
	}
	body, err := json.Marshal(res)
	if err != nil {
		return nil, fmt.Errorf("marshal derived body: %w", err)
	}
	return body, nil
}

func parseHeaderJSON(s string) (map[string]string, error) {
	headers := make(map[string]string)
	s = strings.TrimSpace(s)
	if s == "" {
		return headers, nil
	}

	var raw map[string]any
	if err := json.Unmarshal([]byte(s), &raw); err != nil {
		return nil, fmt.Errorf("invalid webhook headers JSON: %w", err)
	}
	for k, v := range raw {
		if k = strings.TrimSpace(k); k == "" {
			continue
		}
		if str, ok := v.(string); ok {
			headers[k] = str
			continue
		}
		b, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("invalid webhook header %q: %w", k, err)
		}
		headers[k] = string(b)
	}
	return headers, nil
}
