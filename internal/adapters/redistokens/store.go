// Package redistokens stores opaque session tokens in Redis with TTL
// semantics derived from each session's expiry.
package redistokens

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	domainauth "github.com/harborlight-collective/harborlight/internal/domain/auth"
	"github.com/harborlight-collective/harborlight/internal/ports"
)

// Store implements ports.SessionTokenStore on Redis. Besides the
// per-token key it maintains a per-user set of live tokens so that
// deleting a user revokes every session at once.
type Store struct {
	client redis.UniversalClient
	prefix string
}

func New(client redis.UniversalClient) *Store {
	return &Store{client: client, prefix: "hl:session:"}
}

// NewWithPrefix creates a Store with a custom key prefix.
func NewWithPrefix(client redis.UniversalClient, prefix string) *Store {
	return &Store{client: client, prefix: prefix}
}

func (s *Store) tokenKey(token string) string { return s.prefix + token }

func (s *Store) userKey(userID string) string { return s.prefix + "user:" + userID }

func (s *Store) Save(ctx context.Context, sess domainauth.Session) error {
	if sess.Token == "" {
		return errors.New("session token cannot be empty")
	}

	ttl := time.Until(sess.ExpiresAt)
	if ttl <= 0 {
		return errors.New("session is expired")
	}

	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, s.tokenKey(sess.Token), data, ttl)
	pipe.SAdd(ctx, s.userKey(sess.UserID), sess.Token)
	pipe.Expire(ctx, s.userKey(sess.UserID), ttl)
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Store) Get(ctx context.Context, token string) (domainauth.Session, error) {
	if token == "" {
		return domainauth.Session{}, ports.ErrNoSession
	}

	data, err := s.client.Get(ctx, s.tokenKey(token)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domainauth.Session{}, ports.ErrNoSession
		}
		return domainauth.Session{}, fmt.Errorf("redis get: %w", err)
	}

	var sess domainauth.Session
	if err := json.Unmarshal([]byte(data), &sess); err != nil {
		return domainauth.Session{}, fmt.Errorf("unmarshal session: %w", err)
	}

	// Redis TTL should have evicted expired entries already; drop any
	// stragglers (clock drift, restored dumps) so a stale token never
	// resolves. The session is already in hand, so remove the keys
	// directly rather than going through Delete, which reads the token
	// back and would see it expired again.
	if sess.Expired(time.Now()) {
		pipe := s.client.TxPipeline()
		pipe.Del(ctx, s.tokenKey(token))
		pipe.SRem(ctx, s.userKey(sess.UserID), token)
		if _, delErr := pipe.Exec(ctx); delErr != nil {
			return domainauth.Session{}, fmt.Errorf("cleanup expired session: %w", delErr)
		}
		return domainauth.Session{}, ports.ErrNoSession
	}

	return sess, nil
}

func (s *Store) Delete(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}

	sess, err := s.Get(ctx, token)
	if err != nil {
		if errors.Is(err, ports.ErrNoSession) {
			return nil
		}
		return err
	}

	pipe := s.client.TxPipeline()
	pipe.Del(ctx, s.tokenKey(token))
	pipe.SRem(ctx, s.userKey(sess.UserID), token)
	_, err = pipe.Exec(ctx)
	return err
}

// DeleteForUser revokes every token issued to a user.
func (s *Store) DeleteForUser(ctx context.Context, userID string) error {
	if userID == "" {
		return nil
	}

	tokens, err := s.client.SMembers(ctx, s.userKey(userID)).Result()
	if err != nil {
		return fmt.Errorf("redis smembers: %w", err)
	}

	keys := make([]string, 0, len(tokens)+1)
	for _, t := range tokens {
		keys = append(keys, s.tokenKey(t))
	}
	keys = append(keys, s.userKey(userID))
	return s.client.Del(ctx, keys...).Err()
}

var _ ports.SessionTokenStore = (*Store)(nil)
