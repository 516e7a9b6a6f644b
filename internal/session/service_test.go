package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/harborlight-collective/harborlight/internal/domain/auth"
	"github.com/harborlight-collective/harborlight/internal/ports"
)

// fakeSource is a scriptable ports.SessionSource. The resolve channel
// gates CurrentSession so tests can control when the initial resolution
// completes relative to change-feed events.
type fakeSource struct {
	mu       sync.Mutex
	resolved *domainauth.Identity
	resolveE error
	resolve  chan struct{} // CurrentSession blocks until closed (nil = immediate)

	signInID  domainauth.Identity
	signInErr error
	signOutN  int

	events  chan ports.SessionChange
	stopped bool
}

func newFakeSource() *fakeSource {
	return &fakeSource{events: make(chan ports.SessionChange, 4)}
}

func (f *fakeSource) CurrentSession(ctx context.Context) (*domainauth.Identity, error) {
	if f.resolve != nil {
		select {
		case <-f.resolve:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.resolved, f.resolveE
}

func (f *fakeSource) SignInWithPassword(_ context.Context, _, _ string) (domainauth.Identity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.signInID, f.signInErr
}

func (f *fakeSource) SignOut(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.signOutN++
	return nil
}

func (f *fakeSource) SessionChanges() (<-chan ports.SessionChange, func()) {
	return f.events, func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.stopped = true
	}
}

func (f *fakeSource) stoppedCalled() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.stopped
}

func editor() domainauth.Identity {
	return domainauth.Identity{ID: "u1", Email: "ed@harborlight.org", FullName: "Ed Itor", Role: domainauth.RoleEditor}
}

func waitFor(t *testing.T, svc *Service, want State) Snapshot {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if snap := svc.Current(); snap.State == want {
			return snap
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatalf("state never reached %v, last %v", want, svc.Current().State)
	return Snapshot{}
}

func TestService_StartsResolving(t *testing.T) {
	src := newFakeSource()
	src.resolve = make(chan struct{}) // hold resolution open
	svc := New(src)
	defer svc.Close()

	require.Equal(t, StateResolving, svc.Current().State)
	svc.Start(context.Background())
	assert.Equal(t, StateResolving, svc.Current().State)
	close(src.resolve)
	waitFor(t, svc, StateUnauthenticated)
}

func TestService_ResolvesAuthenticated(t *testing.T) {
	src := newFakeSource()
	id := editor()
	src.resolved = &id
	svc := New(src)
	defer svc.Close()

	svc.Start(context.Background())
	snap := waitFor(t, svc, StateAuthenticated)
	require.NotNil(t, snap.Identity)
	assert.Equal(t, "u1", snap.Identity.ID)
	assert.Equal(t, domainauth.RoleEditor, snap.Identity.Role)
}

func TestService_ResolutionFailureDegradesToUnauthenticated(t *testing.T) {
	src := newFakeSource()
	src.resolveE = domainauth.NewAuthError(domainauth.ErrNetworkFailure, errors.New("dial tcp: refused"))
	svc := New(src)
	defer svc.Close()

	svc.Start(context.Background())
	// Never hangs in resolving, never treats ambiguity as logged-in.
	waitFor(t, svc, StateUnauthenticated)
}

func TestService_SignInFailureLeavesStateUnchanged(t *testing.T) {
	src := newFakeSource()
	src.signInErr = domainauth.NewAuthError(domainauth.ErrInvalidCredentials, nil)
	svc := New(src)
	defer svc.Close()
	svc.Start(context.Background())
	waitFor(t, svc, StateUnauthenticated)

	_, err := svc.SignIn(context.Background(), "ed@harborlight.org", "wrong")
	require.Error(t, err)
	assert.True(t, domainauth.IsInvalidCredentials(err))
	assert.Equal(t, StateUnauthenticated, svc.Current().State)
}

func TestService_SignInSuccessPublishes(t *testing.T) {
	src := newFakeSource()
	src.signInID = editor()
	svc := New(src)
	defer svc.Close()
	svc.Start(context.Background())
	waitFor(t, svc, StateUnauthenticated)

	updates, cancel := svc.Subscribe()
	defer cancel()

	id, err := svc.SignIn(context.Background(), "ed@harborlight.org", "pw")
	require.NoError(t, err)
	assert.Equal(t, "u1", id.ID)

	select {
	case snap := <-updates:
		assert.Equal(t, StateAuthenticated, snap.State)
	case <-time.After(time.Second):
		t.Fatal("no update published to subscriber")
	}
}

func TestService_SignOutIdempotent(t *testing.T) {
	src := newFakeSource()
	id := editor()
	src.resolved = &id
	svc := New(src)
	defer svc.Close()
	svc.Start(context.Background())
	waitFor(t, svc, StateAuthenticated)

	require.NoError(t, svc.SignOut(context.Background()))
	assert.Equal(t, StateUnauthenticated, svc.Current().State)
	// Second sign-out: same end state, no error.
	require.NoError(t, svc.SignOut(context.Background()))
	assert.Equal(t, StateUnauthenticated, svc.Current().State)
	assert.Equal(t, 2, src.signOutN)
}

func TestService_ChangeFeedWinsOverSlowResolution(t *testing.T) {
	src := newFakeSource()
	id := editor()
	src.resolved = nil // slow resolution would say "no session"
	src.resolve = make(chan struct{})
	svc := New(src)
	defer svc.Close()
	svc.Start(context.Background())

	// A change notification lands before the initial resolution completes.
	src.events <- ports.SessionChange{Identity: &id}
	waitFor(t, svc, StateAuthenticated)

	// Now the stale resolution completes: it must not overwrite.
	close(src.resolve)
	time.Sleep(20 * time.Millisecond)
	snap := svc.Current()
	require.Equal(t, StateAuthenticated, snap.State)
	assert.Equal(t, "u1", snap.Identity.ID)
}

func TestService_ChangeFeedLastWriteWins(t *testing.T) {
	src := newFakeSource()
	svc := New(src)
	defer svc.Close()
	svc.Start(context.Background())
	waitFor(t, svc, StateUnauthenticated)

	updates, cancel := svc.Subscribe()
	defer cancel()

	id := editor()
	src.events <- ports.SessionChange{Identity: &id}
	src.events <- ports.SessionChange{Identity: nil} // logout elsewhere

	var got []State
	timeout := time.After(time.Second)
	for len(got) < 2 {
		select {
		case snap := <-updates:
			got = append(got, snap.State)
		case <-timeout:
			t.Fatalf("received %d updates, want 2", len(got))
		}
	}
	assert.Equal(t, []State{StateAuthenticated, StateUnauthenticated}, got)
	assert.Equal(t, StateUnauthenticated, svc.Current().State)
}

func TestService_CloseDropsLateResolution(t *testing.T) {
	src := newFakeSource()
	id := editor()
	src.resolved = &id
	src.resolve = make(chan struct{})
	svc := New(src)
	svc.Start(context.Background())

	svc.Close()
	close(src.resolve)
	time.Sleep(20 * time.Millisecond)
	// No state update after teardown, no panic, subscription released.
	assert.Equal(t, StateResolving, svc.Current().State)
	assert.True(t, src.stoppedCalled())
	// Close twice is safe.
	svc.Close()
}

func TestService_SubscribeCancelTwice(t *testing.T) {
	src := newFakeSource()
	svc := New(src)
	defer svc.Close()

	ch, cancel := svc.Subscribe()
	cancel()
	cancel() // must not panic
	_, open := <-ch
	assert.False(t, open)
}
