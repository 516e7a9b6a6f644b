package bootstrap

import (
	"testing"

	"github.com/harborlight-collective/harborlight/config"
)

func TestBuildAuthProvider_FailsWithoutRedis(t *testing.T) {
	// The provider lands in interface fields on the HTTP handlers; a nil
	// value there would panic on the first request, so construction has
	// to fail at startup instead.
	provider, err := BuildAuthProvider(AuthConfig{Auth: config.AuthConfig{}})
	if err == nil {
		t.Fatal("missing redis client must fail construction")
	}
	if provider != nil {
		t.Fatal("failed construction must not yield a provider")
	}
}

func TestBuildSSOProvider_Off(t *testing.T) {
	provider, err := BuildSSOProvider(config.AuthConfig{SSOMode: config.SSOModeOff}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if provider != nil {
		t.Fatal("SSO off must yield no provider")
	}
}

func TestBuildSSOProvider_Mock(t *testing.T) {
	cfg := config.AuthConfig{SSOMode: config.SSOModeMock}
	cfg.DevSSO.Email = "dev@harborlight.local"

	provider, err := BuildSSOProvider(cfg, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if provider == nil {
		t.Fatal("mock SSO must yield a provider")
	}
}

func TestBuildSSOProvider_MockRequiresEmail(t *testing.T) {
	provider, err := BuildSSOProvider(config.AuthConfig{SSOMode: config.SSOModeMock}, nil)
	if err == nil {
		t.Fatal("mock SSO without an email must fail")
	}
	if provider != nil {
		t.Fatal("failed construction must not yield a provider")
	}
}
