package config

import "strings"

// StorageConfig contains media upload storage configuration.
// Uploaded files land on the local filesystem under Root and are served
// back under PublicBaseURL.
type StorageConfig struct {
	// Root is the directory uploaded files are written to.
	Root string `env:"ROOT" envDefault:"./data/uploads"`

	// PublicBaseURL is the URL prefix stored files are referenced by
	// in rendered pages.
	PublicBaseURL string `env:"PUBLIC_BASE_URL" envDefault:"/media"`

	// MaxUploadBytes caps the size of a single uploaded file.
	MaxUploadBytes int64 `env:"MAX_UPLOAD_BYTES" envDefault:"33554432"` // 32 MiB
}

// Sanitize applies guardrails to storage configuration values.
func (s *StorageConfig) Sanitize() {
	s.Root = strings.TrimSpace(s.Root)
	if s.Root == "" {
		s.Root = "./data/uploads"
	}
	s.PublicBaseURL = strings.TrimRight(strings.TrimSpace(s.PublicBaseURL), "/")
	if s.PublicBaseURL == "" {
		s.PublicBaseURL = "/media"
	}
	if s.MaxUploadBytes <= 0 {
		s.MaxUploadBytes = 32 << 20
	}
}
