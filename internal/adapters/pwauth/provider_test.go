package pwauth

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harborlight-collective/harborlight/internal/data"
	domainauth "github.com/harborlight-collective/harborlight/internal/domain/auth"
	apperrors "github.com/harborlight-collective/harborlight/internal/errors"
	"github.com/harborlight-collective/harborlight/internal/ports"
	"github.com/harborlight-collective/harborlight/internal/testutil"
)

// memTokenStore is an in-memory SessionTokenStore for tests.
type memTokenStore struct {
	mu       sync.Mutex
	sessions map[string]domainauth.Session
}

func newMemTokenStore() *memTokenStore {
	return &memTokenStore{sessions: make(map[string]domainauth.Session)}
}

func (m *memTokenStore) Save(_ context.Context, sess domainauth.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[sess.Token] = sess
	return nil
}

func (m *memTokenStore) Get(_ context.Context, token string) (domainauth.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sess, ok := m.sessions[token]
	if !ok || sess.Expired(time.Now()) {
		return domainauth.Session{}, ports.ErrNoSession
	}
	return sess, nil
}

func (m *memTokenStore) Delete(_ context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, token)
	return nil
}

func (m *memTokenStore) DeleteForUser(_ context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for token, sess := range m.sessions {
		if sess.UserID == userID {
			delete(m.sessions, token)
		}
	}
	return nil
}

func setupProvider(t *testing.T) (*Provider, *memTokenStore, func()) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	tokens := newMemTokenStore()
	provider := New(data.NewProfileRepo(db), tokens, Config{BcryptCost: 4})
	return provider, tokens, func() { testutil.TeardownTestDB(t, db) }
}

func TestProvider_SignInLifecycle(t *testing.T) {
	provider, _, teardown := setupProvider(t)
	defer teardown()
	ctx := context.Background()

	id, err := provider.CreateUser(ctx, ports.NewUser{
		Email:    "Editor@Example.org",
		Password: "correct-horse",
		FullName: "Site Editor",
		Role:     domainauth.RoleEditor,
	})
	require.NoError(t, err)
	assert.Equal(t, "editor@example.org", id.Email)

	// wrong password and unknown email look the same
	_, err = provider.SignIn(ctx, ports.Credentials{Email: "editor@example.org", Password: "wrong"})
	assert.True(t, domainauth.IsInvalidCredentials(err))
	_, err = provider.SignIn(ctx, ports.Credentials{Email: "nobody@example.org", Password: "whatever"})
	assert.True(t, domainauth.IsInvalidCredentials(err))

	sess, err := provider.SignIn(ctx, ports.Credentials{Email: "editor@example.org", Password: "correct-horse"})
	require.NoError(t, err)
	assert.NotEmpty(t, sess.Token)
	assert.Equal(t, id.ID, sess.UserID)
	assert.Equal(t, domainauth.RoleEditor, sess.Role)

	got, err := provider.Validate(ctx, sess.Token)
	require.NoError(t, err)
	assert.Equal(t, sess.UserID, got.UserID)

	require.NoError(t, provider.SignOut(ctx, sess.Token))
	_, err = provider.Validate(ctx, sess.Token)
	assert.ErrorIs(t, err, ports.ErrNoSession)
}

func TestProvider_CreateUserRejectsShortPassword(t *testing.T) {
	provider, _, teardown := setupProvider(t)
	defer teardown()

	_, err := provider.CreateUser(context.Background(), ports.NewUser{
		Email:    "short@example.org",
		Password: "short",
		FullName: "Short Password",
		Role:     domainauth.RoleEditor,
	})
	assert.True(t, apperrors.IsValidation(err))
}

func TestProvider_CreateUserDuplicateEmail(t *testing.T) {
	provider, _, teardown := setupProvider(t)
	defer teardown()
	ctx := context.Background()

	user := ports.NewUser{
		Email:    "dup@example.org",
		Password: "password-one",
		FullName: "First",
		Role:     domainauth.RoleAdmin,
	}
	_, err := provider.CreateUser(ctx, user)
	require.NoError(t, err)

	_, err = provider.CreateUser(ctx, user)
	assert.True(t, apperrors.IsConflict(err))
}

func TestProvider_UpdateRoleRevokesSessions(t *testing.T) {
	provider, _, teardown := setupProvider(t)
	defer teardown()
	ctx := context.Background()

	id, err := provider.CreateUser(ctx, ports.NewUser{
		Email:    "promote@example.org",
		Password: "password-one",
		FullName: "Promote Me",
		Role:     domainauth.RoleEditor,
	})
	require.NoError(t, err)

	sess, err := provider.SignIn(ctx, ports.Credentials{Email: "promote@example.org", Password: "password-one"})
	require.NoError(t, err)

	role := domainauth.RoleAdmin
	updated, err := provider.UpdateUser(ctx, ports.UserUpdate{UserID: id.ID, Role: &role})
	require.NoError(t, err)
	assert.Equal(t, domainauth.RoleAdmin, updated.Role)

	// old token carries stale claims, so the role change revoked it
	_, err = provider.Validate(ctx, sess.Token)
	assert.ErrorIs(t, err, ports.ErrNoSession)
}

func TestProvider_DeleteUserRevokesSessions(t *testing.T) {
	provider, tokens, teardown := setupProvider(t)
	defer teardown()
	ctx := context.Background()

	id, err := provider.CreateUser(ctx, ports.NewUser{
		Email:    "leaving@example.org",
		Password: "password-one",
		FullName: "Leaving Soon",
		Role:     domainauth.RoleEditor,
	})
	require.NoError(t, err)

	sess, err := provider.SignIn(ctx, ports.Credentials{Email: "leaving@example.org", Password: "password-one"})
	require.NoError(t, err)

	require.NoError(t, provider.DeleteUser(ctx, id.ID))

	_, err = tokens.Get(ctx, sess.Token)
	assert.ErrorIs(t, err, ports.ErrNoSession)
	_, err = provider.SignIn(ctx, ports.Credentials{Email: "leaving@example.org", Password: "password-one"})
	assert.True(t, domainauth.IsInvalidCredentials(err))
}

// failingRevokeStore injects an error into bulk revocation.
type failingRevokeStore struct {
	*memTokenStore
	revokeErr error
}

func (f *failingRevokeStore) DeleteForUser(ctx context.Context, userID string) error {
	if f.revokeErr != nil {
		return f.revokeErr
	}
	return f.memTokenStore.DeleteForUser(ctx, userID)
}

func TestProvider_DeleteUserKeepsProfileWhenRevocationFails(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	ctx := context.Background()

	tokens := &failingRevokeStore{memTokenStore: newMemTokenStore()}
	provider := New(data.NewProfileRepo(db), tokens, Config{BcryptCost: 4})

	id, err := provider.CreateUser(ctx, ports.NewUser{
		Email:    "staying@example.org",
		Password: "password-one",
		FullName: "Staying Put",
		Role:     domainauth.RoleEditor,
	})
	require.NoError(t, err)

	sess, err := provider.SignIn(ctx, ports.Credentials{Email: "staying@example.org", Password: "password-one"})
	require.NoError(t, err)

	// Revocation runs before the row delete: when it fails, the profile
	// must survive, or the user's live tokens would outlast the account.
	tokens.revokeErr = errors.New("redis: connection refused")
	require.Error(t, provider.DeleteUser(ctx, id.ID))

	got, err := provider.Validate(ctx, sess.Token)
	require.NoError(t, err)
	assert.Equal(t, id.ID, got.UserID)
	_, err = provider.SignIn(ctx, ports.Credentials{Email: "staying@example.org", Password: "password-one"})
	assert.NoError(t, err)

	// A retry after the store recovers completes the deletion.
	tokens.revokeErr = nil
	require.NoError(t, provider.DeleteUser(ctx, id.ID))
	_, err = provider.Validate(ctx, sess.Token)
	assert.ErrorIs(t, err, ports.ErrNoSession)
}

func TestSource_ChangeFeed(t *testing.T) {
	provider, _, teardown := setupProvider(t)
	defer teardown()
	ctx := context.Background()

	_, err := provider.CreateUser(ctx, ports.NewUser{
		Email:    "feed@example.org",
		Password: "password-one",
		FullName: "Feed Watcher",
		Role:     domainauth.RoleSuperAdmin,
	})
	require.NoError(t, err)

	source := NewSource(provider, "")
	changes, stop := source.SessionChanges()
	defer stop()

	// no token yet: signed out, not an error
	current, err := source.CurrentSession(ctx)
	require.NoError(t, err)
	assert.Nil(t, current)

	id, err := source.SignInWithPassword(ctx, "feed@example.org", "password-one")
	require.NoError(t, err)
	assert.Equal(t, domainauth.RoleSuperAdmin, id.Role)

	change := <-changes
	require.NotNil(t, change.Identity)
	assert.Equal(t, id.ID, change.Identity.ID)

	current, err = source.CurrentSession(ctx)
	require.NoError(t, err)
	require.NotNil(t, current)
	assert.Equal(t, id.ID, current.ID)

	require.NoError(t, source.SignOut(ctx))
	change = <-changes
	assert.Nil(t, change.Identity)
	assert.Empty(t, source.Token())

	// repeated stop is safe
	stop()
	stop()
}
