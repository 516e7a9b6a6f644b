// Package session maintains the current authenticated identity for one
// principal and keeps it synchronized with the authentication provider.
//
// The service starts in StateResolving, issues exactly one asynchronous
// current-session query against the provider, and thereafter tracks the
// provider's session-change feed. Consumers read the latest state with
// Current or observe transitions through Subscribe.
package session

import (
	"context"
	"sync"

	domainauth "github.com/harborlight-collective/harborlight/internal/domain/auth"
	"github.com/harborlight-collective/harborlight/internal/ports"
)

// State tags the session lifecycle.
type State int

const (
	// StateResolving is the initial state: no identity known yet, the
	// first provider check is in flight.
	StateResolving State = iota
	// StateAuthenticated means an identity is present.
	StateAuthenticated
	// StateUnauthenticated means the provider reported no session, or a
	// passive check failed. Ambiguity degrades to logged-out, never to
	// logged-in.
	StateUnauthenticated
)

func (s State) String() string {
	switch s {
	case StateResolving:
		return "resolving"
	case StateAuthenticated:
		return "authenticated"
	case StateUnauthenticated:
		return "unauthenticated"
	default:
		return "unknown"
	}
}

// Snapshot is the tagged union exposed to consumers. Identity is non-nil
// only when State is StateAuthenticated.
type Snapshot struct {
	State    State
	Identity *domainauth.Identity
}

// Resolving, Authenticated and Unauthenticated construct snapshots.
func Resolving() Snapshot { return Snapshot{State: StateResolving} }

func Authenticated(id domainauth.Identity) Snapshot {
	return Snapshot{State: StateAuthenticated, Identity: &id}
}

func Unauthenticated() Snapshot { return Snapshot{State: StateUnauthenticated} }

// Service is the session store. Construct with New, call Start once, and
// Close when done. All methods are safe for concurrent use; there is a
// single writer (the service itself), and updates are serialized under
// one mutex with a monotonically increasing sequence so a slow initial
// resolution can never overwrite a newer change-feed state.
type Service struct {
	source ports.SessionSource

	mu      sync.Mutex
	current Snapshot
	seq     uint64 // bumped on every authoritative update
	started bool
	closed  bool
	stop    func() // change-feed unsubscribe
	done    chan struct{}

	subs   map[int]chan Snapshot
	nextID int
}

// New constructs a Service over the given provider view. The service
// starts in StateResolving.
func New(source ports.SessionSource) *Service {
	return &Service{
		source:  source,
		current: Resolving(),
		subs:    make(map[int]chan Snapshot),
		done:    make(chan struct{}),
	}
}

// Current returns the latest known snapshot synchronously.
func (s *Service) Current() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Start issues the initial current-session query and subscribes to the
// provider's change feed. It returns immediately; the resolution happens
// asynchronously. Calling Start more than once is a no-op.
func (s *Service) Start(ctx context.Context) {
	s.mu.Lock()
	if s.started || s.closed {
		s.mu.Unlock()
		return
	}
	s.started = true
	// Snapshot the sequence before resolving: if anything (change feed,
	// sign-in, sign-out) updates state while the query is in flight, the
	// resolution result is stale and must be dropped.
	startSeq := s.seq
	events, stop := s.source.SessionChanges()
	s.stop = stop
	s.mu.Unlock()

	go s.consumeChanges(events)

	go func() {
		id, err := s.source.CurrentSession(ctx)
		snap := Unauthenticated()
		if err == nil && id != nil {
			snap = Authenticated(*id)
		}
		// err != nil degrades to Unauthenticated: the gate must never
		// hang on StateResolving.
		s.publishIfSeq(startSeq, snap)
	}()
}

// SignIn delegates to the provider. On success the state transitions to
// StateAuthenticated; on failure state is unchanged and the AuthError is
// returned to the caller (the login form shows it inline).
func (s *Service) SignIn(ctx context.Context, email, password string) (domainauth.Identity, error) {
	id, err := s.source.SignInWithPassword(ctx, email, password)
	if err != nil {
		return domainauth.Identity{}, err
	}
	s.publish(Authenticated(id))
	return id, nil
}

// SignOut delegates to the provider and transitions to
// StateUnauthenticated regardless of prior state. Idempotent.
func (s *Service) SignOut(ctx context.Context) error {
	if err := s.source.SignOut(ctx); err != nil {
		return err
	}
	s.publish(Unauthenticated())
	return nil
}

// Subscribe registers an observer. The returned channel receives every
// subsequent snapshot transition; the cancel function releases the
// subscription and may be called more than once.
func (s *Service) Subscribe() (<-chan Snapshot, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	ch := make(chan Snapshot, 8)
	s.subs[id] = ch
	var once sync.Once
	cancel := func() {
		once.Do(func() {
			s.mu.Lock()
			if c, ok := s.subs[id]; ok {
				delete(s.subs, id)
				close(c)
			}
			s.mu.Unlock()
		})
	}
	return ch, cancel
}

// Close releases the provider subscription and all observers. A late
// initial resolution arriving after Close is a no-op. Safe to call twice.
func (s *Service) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.seq++ // invalidate any in-flight resolution
	stop := s.stop
	s.stop = nil
	for id, ch := range s.subs {
		delete(s.subs, id)
		close(ch)
	}
	close(s.done)
	s.mu.Unlock()

	if stop != nil {
		stop()
	}
}

// consumeChanges applies the provider's change feed. The channel is
// authoritative: every event bumps the sequence, so a slower initial
// resolution arriving afterwards is discarded.
func (s *Service) consumeChanges(events <-chan ports.SessionChange) {
	for {
		select {
		case <-s.done:
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			if ev.Identity != nil {
				s.publish(Authenticated(*ev.Identity))
			} else {
				s.publish(Unauthenticated())
			}
		}
	}
}

// publish installs snap as the authoritative state and notifies observers.
func (s *Service) publish(snap Snapshot) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.seq++
	s.current = snap
	s.notifyLocked(snap)
	s.mu.Unlock()
}

// publishIfSeq installs snap only if no newer update landed since seq was
// observed. Used by the initial resolution.
func (s *Service) publishIfSeq(seq uint64, snap Snapshot) {
	s.mu.Lock()
	if s.closed || s.seq != seq {
		s.mu.Unlock()
		return
	}
	s.seq++
	s.current = snap
	s.notifyLocked(snap)
	s.mu.Unlock()
}

func (s *Service) notifyLocked(snap Snapshot) {
	for _, ch := range s.subs {
		select {
		case ch <- snap:
		default:
			// Slow observer: drop rather than block the writer. The
			// observer still converges via Current.
		}
	}
}
