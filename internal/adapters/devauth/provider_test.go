package devauth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harborlight-collective/harborlight/internal/ports"
)

func TestProvider_RequiresEmail(t *testing.T) {
	_, err := NewProvider(Config{})
	assert.Error(t, err)
}

func TestProvider_BeginAndExchange(t *testing.T) {
	p, err := NewProvider(Config{Email: "Dev@Example.org", GivenName: "Dev", FamilyName: "Admin"})
	require.NoError(t, err)

	authURL, state, nonce, err := p.Begin(context.Background(), ports.BeginInput{})
	require.NoError(t, err)
	assert.Contains(t, authURL, "/admin/sso/callback?code=dev&state="+state)
	assert.Len(t, state, 24)
	assert.Len(t, nonce, 24)

	claims, err := p.Exchange(context.Background(), ports.ExchangeInput{Code: "dev", State: state, Nonce: nonce})
	require.NoError(t, err)
	assert.Equal(t, "dev@example.org", claims.Email)
	assert.Equal(t, "dev:Dev@Example.org", claims.Subject)
	assert.Equal(t, "Dev", claims.GivenName)
}
