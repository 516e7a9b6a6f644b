package redistokens

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/harborlight-collective/harborlight/internal/domain/auth"
	"github.com/harborlight-collective/harborlight/internal/ports"
	"github.com/harborlight-collective/harborlight/internal/testutil"
)

func testSession(token, userID string) domainauth.Session {
	return domainauth.Session{
		Token:     token,
		UserID:    userID,
		Email:     "editor@example.org",
		FullName:  "Site Editor",
		Role:      domainauth.RoleEditor,
		ExpiresAt: time.Now().Add(30 * time.Minute),
	}
}

func TestStore_SaveAndGet(t *testing.T) {
	client := testutil.SetupTestRedis(t)
	defer client.Close()

	store := New(client)
	ctx := context.Background()

	sess := testSession("tok-1", "user-1")
	require.NoError(t, store.Save(ctx, sess))

	got, err := store.Get(ctx, "tok-1")
	require.NoError(t, err)
	assert.Equal(t, sess.Token, got.Token)
	assert.Equal(t, sess.UserID, got.UserID)
	assert.Equal(t, sess.Email, got.Email)
	assert.Equal(t, sess.Role, got.Role)
	assert.WithinDuration(t, sess.ExpiresAt, got.ExpiresAt, time.Second)
}

func TestStore_GetUnknownToken(t *testing.T) {
	client := testutil.SetupTestRedis(t)
	defer client.Close()

	store := New(client)
	_, err := store.Get(context.Background(), "no-such-token")
	assert.ErrorIs(t, err, ports.ErrNoSession)
}

func TestStore_SaveExpiredRejected(t *testing.T) {
	client := testutil.SetupTestRedis(t)
	defer client.Close()

	store := New(client)
	sess := testSession("tok-exp", "user-1")
	sess.ExpiresAt = time.Now().Add(-time.Minute)
	assert.Error(t, store.Save(context.Background(), sess))
}

func TestStore_GetExpiredStragglerCleansUp(t *testing.T) {
	client := testutil.SetupTestRedis(t)
	defer client.Close()

	store := New(client)
	ctx := context.Background()

	// Save rejects expired sessions, so plant the straggler directly:
	// a key that outlived its embedded expiry (clock drift, restored
	// dump). Get must clean it up and report no session, not recurse
	// into Delete and hang.
	sess := testSession("tok-stale", "user-1")
	sess.ExpiresAt = time.Now().Add(-time.Minute)
	data, err := json.Marshal(sess)
	require.NoError(t, err)
	require.NoError(t, client.Set(ctx, store.tokenKey("tok-stale"), data, time.Hour).Err())
	require.NoError(t, client.SAdd(ctx, store.userKey("user-1"), "tok-stale").Err())

	done := make(chan error, 1)
	go func() {
		_, getErr := store.Get(ctx, "tok-stale")
		done <- getErr
	}()
	select {
	case getErr := <-done:
		assert.ErrorIs(t, getErr, ports.ErrNoSession)
	case <-time.After(3 * time.Second):
		t.Fatal("Get on an expired straggler never returned")
	}

	// Both the token key and the user-set entry are gone.
	exists, err := client.Exists(ctx, store.tokenKey("tok-stale")).Result()
	require.NoError(t, err)
	assert.Zero(t, exists)
	members, err := client.SMembers(ctx, store.userKey("user-1")).Result()
	require.NoError(t, err)
	assert.NotContains(t, members, "tok-stale")
}

func TestStore_Delete(t *testing.T) {
	client := testutil.SetupTestRedis(t)
	defer client.Close()

	store := New(client)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, testSession("tok-del", "user-1")))
	require.NoError(t, store.Delete(ctx, "tok-del"))

	_, err := store.Get(ctx, "tok-del")
	assert.ErrorIs(t, err, ports.ErrNoSession)

	// deleting an unknown token is not an error
	assert.NoError(t, store.Delete(ctx, "tok-del"))
}

func TestStore_DeleteForUser(t *testing.T) {
	client := testutil.SetupTestRedis(t)
	defer client.Close()

	store := New(client)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, testSession("tok-a", "user-9")))
	require.NoError(t, store.Save(ctx, testSession("tok-b", "user-9")))
	require.NoError(t, store.Save(ctx, testSession("tok-c", "other-user")))

	require.NoError(t, store.DeleteForUser(ctx, "user-9"))

	_, err := store.Get(ctx, "tok-a")
	assert.ErrorIs(t, err, ports.ErrNoSession)
	_, err = store.Get(ctx, "tok-b")
	assert.ErrorIs(t, err, ports.ErrNoSession)

	// other users' sessions survive
	_, err = store.Get(ctx, "tok-c")
	assert.NoError(t, err)
}
