package redisstore

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"real-estate-be/pkg/store"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "assistant:session:"

// SessionStore is the Redis-backed variant of the session contract for
// multi-replica deployments. Idle expiry is delegated to Redis TTLs, so
// there is no sweeper; the capacity bound is likewise left to Redis memory
// policies rather than enforced per key.
type SessionStore struct {
	client     *redis.Client
	maxHistory int
	ttl        time.Duration
}

var _ store.SessionStore = (*SessionStore)(nil)

func NewSessionStore(client *redis.Client, maxHistory int, ttl time.Duration) *SessionStore {
	if maxHistory <= 0 {
		maxHistory = 20
	}
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &SessionStore{
		client:     client,
		maxHistory: maxHistory,
		ttl:        ttl,
	}
}

func (s *SessionStore) GetOrCreate(id string) *store.Session {
	ctx := context.Background()

	if sess := s.load(ctx, id); sess != nil {
		sess.LastActivity = time.Now()
		s.save(ctx, sess)
		return sess
	}

	now := time.Now()
	sess := &store.Session{
		ID:           id,
		CreatedAt:    now,
		LastActivity: now,
	}
	s.save(ctx, sess)
	return sess
}

func (s *SessionStore) Update(id string, update store.SessionUpdate) {
	ctx := context.Background()

	sess := s.load(ctx, id)
	if sess == nil {
		now := time.Now()
		sess = &store.Session{ID: id, CreatedAt: now, LastActivity: now}
	}

	sess.History = append(sess.History, update.Turns...)
	if overflow := len(sess.History) - s.maxHistory; overflow > 0 {
		sess.History = sess.History[overflow:]
	}
	if update.Intent != "" {
		sess.LastIntent = update.Intent
	}
	if update.Location != "" {
		sess.LastLocation = update.Location
	}
	if update.Preferences != nil {
		sess.Preferences.Merge(*update.Preferences)
	}
	sess.LastActivity = time.Now()

	s.save(ctx, sess)
}

func (s *SessionStore) Clear(id string) {
	if err := s.client.Del(context.Background(), keyPrefix+id).Err(); err != nil {
		log.Printf("[WARN] redis session delete failed: %v", err)
	}
}

func (s *SessionStore) Describe(id string) (*store.SessionInfo, bool) {
	sess := s.load(context.Background(), id)
	if sess == nil {
		return nil, false
	}
	return &store.SessionInfo{
		CreatedAt:    sess.CreatedAt,
		LastActivity: sess.LastActivity,
		MessageCount: len(sess.History),
		Preferences:  sess.Preferences,
	}, true
}

func (s *SessionStore) load(ctx context.Context, id string) *store.Session {
	raw, err := s.client.Get(ctx, keyPrefix+id).Bytes()
	if err != nil {
		if err != redis.Nil {
			log.Printf("[WARN] redis session read failed: %v", err)
		}
		return nil
	}
	var sess store.Session
	if err := json.Unmarshal(raw, &sess); err != nil {
		log.Printf("[WARN] redis session payload corrupt, dropping: %v", err)
		s.client.Del(ctx, keyPrefix+id)
		return nil
	}
	return &sess
}

func (s *SessionStore) save(ctx context.Context, sess *store.Session) {
	raw, err := json.Marshal(sess)
	if err != nil {
		log.Printf("[WARN] redis session marshal failed: %v", err)
		return
	}
	if err := s.client.Set(ctx, keyPrefix+sess.ID, raw, s.ttl).Err(); err != nil {
		log.Printf("[WARN] redis session write failed: %v", err)
	}
}
