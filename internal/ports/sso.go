package ports

import "context"

// BeginInput carries the request context for starting an SSO login.
type BeginInput struct {
	// RedirectURL is where the browser lands after the provider callback.
	RedirectURL string
}

// ExchangeInput carries the provider callback parameters.
type ExchangeInput struct {
	Code  string
	State string
	Nonce string
}

// SSOClaims is the verified identity returned by an SSO provider.
// Authorization is decided locally: the email must map to a profile row
// before a session is issued.
type SSOClaims struct {
	Subject    string
	Email      string
	GivenName  string
	FamilyName string
}

// SSOProvider runs an authorization-code login flow for staff single
// sign-on. Begin returns the provider auth URL plus the state and nonce
// the caller must pin in a short-lived cookie; Exchange verifies the
// callback and returns the claims.
type SSOProvider interface {
	Begin(ctx context.Context, in BeginInput) (authURL, state, nonce string, err error)
	Exchange(ctx context.Context, in ExchangeInput) (SSOClaims, error)
}
