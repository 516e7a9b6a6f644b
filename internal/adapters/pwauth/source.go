package pwauth

import (
	"context"
	"errors"
	"sync"

	domainauth "github.com/harborlight-collective/harborlight/internal/domain/auth"
	"github.com/harborlight-collective/harborlight/internal/ports"
)

// Source adapts an AuthProvider into a per-principal ports.SessionSource.
// It tracks the principal's current token and pushes a change event on
// every sign-in and sign-out, so a session service observing it stays
// current without polling.
type Source struct {
	provider ports.AuthProvider

	mu     sync.Mutex
	token  string
	subs   map[int]chan ports.SessionChange
	nextID int
}

// NewSource creates a Source with no active session. Pass a previously
// issued token to resume an existing session.
func NewSource(provider ports.AuthProvider, token string) *Source {
	return &Source{
		provider: provider,
		token:    token,
		subs:     make(map[int]chan ports.SessionChange),
	}
}

// Token returns the current session token, empty when signed out.
func (s *Source) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

// CurrentSession resolves the held token. No token or an expired token
// yields (nil, nil): signed out, not an error.
func (s *Source) CurrentSession(ctx context.Context) (*domainauth.Identity, error) {
	token := s.Token()
	if token == "" {
		return nil, nil
	}
	sess, err := s.provider.Validate(ctx, token)
	if err != nil {
		if errors.Is(err, ports.ErrNoSession) {
			s.setToken("")
			return nil, nil
		}
		return nil, err
	}
	id := sess.Identity()
	return &id, nil
}

// SignInWithPassword exchanges credentials for a session and publishes
// the new identity on the change feed.
func (s *Source) SignInWithPassword(ctx context.Context, email, password string) (domainauth.Identity, error) {
	sess, err := s.provider.SignIn(ctx, ports.Credentials{Email: email, Password: password})
	if err != nil {
		return domainauth.Identity{}, err
	}
	s.setToken(sess.Token)
	id := sess.Identity()
	s.notify(ports.SessionChange{Identity: &id})
	return id, nil
}

// SignOut revokes the held token and publishes a signed-out event.
// Signing out without a session is a no-op.
func (s *Source) SignOut(ctx context.Context) error {
	token := s.Token()
	if token == "" {
		return nil
	}
	if err := s.provider.SignOut(ctx, token); err != nil {
		return err
	}
	s.setToken("")
	s.notify(ports.SessionChange{})
	return nil
}

// SessionChanges subscribes to the change feed. The stop function
// releases the subscription and is safe to call more than once.
func (s *Source) SessionChanges() (<-chan ports.SessionChange, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	ch := make(chan ports.SessionChange, 8)
	s.subs[id] = ch

	var once sync.Once
	stop := func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			if sub, ok := s.subs[id]; ok {
				delete(s.subs, id)
				close(sub)
			}
		})
	}
	return ch, stop
}

func (s *Source) setToken(token string) {
	s.mu.Lock()
	s.token = token
	s.mu.Unlock()
}

func (s *Source) notify(change ports.SessionChange) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, ch := range s.subs {
		select {
		case ch <- change:
		default: // slow subscribers drop events rather than block sign-in
		}
	}
}

var _ ports.SessionSource = (*Source)(nil)
