package config

import (
	"strings"
	"time"
)

// NotifyConfig contains the outbound webhook fired when a public
// submission (contact message, booking, volunteer application,
// newsletter signup) arrives. An empty WebhookURL disables delivery.
type NotifyConfig struct {
	WebhookURL string `env:"WEBHOOK_URL" envDefault:""`

	// BodyExpr is an optional JMESPath expression applied to the event
	// envelope to shape the posted JSON body.
	BodyExpr string `env:"BODY_EXPR" envDefault:""`

	// Headers is an optional JSON object of extra request headers,
	// e.g. {"Authorization": "Bearer ..."}.
	Headers string `env:"HEADERS" envDefault:""`

	Timeout time.Duration `env:"TIMEOUT" envDefault:"10s"`
}

// Sanitize applies guardrails to notification configuration values.
func (n *NotifyConfig) Sanitize() {
	n.WebhookURL = strings.TrimSpace(n.WebhookURL)
	if n.Timeout <= 0 {
		n.Timeout = 10 * time.Second
	}
}
