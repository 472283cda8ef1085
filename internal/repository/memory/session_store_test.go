package memory

import (
	"fmt"
	"testing"
	"time"

	"real-estate-be/pkg/store"

	"github.com/stretchr/testify/assert"
)

func newTestStore(cfg Config) *SessionStore {
	// SweepInterval 0 keeps the janitor off; tests call Sweep directly.
	cfg.SweepInterval = 0
	return NewSessionStore(cfg)
}

func TestGetOrCreateReturnsSameSession(t *testing.T) {
	s := newTestStore(Config{})

	first := s.GetOrCreate("sess-1")
	s.Update("sess-1", store.SessionUpdate{
		Turns: []store.Turn{{Role: store.RoleUser, Text: "hello"}},
	})
	second := s.GetOrCreate("sess-1")

	assert.Equal(t, first.ID, second.ID)
	assert.Len(t, second.History, 1)
	assert.Equal(t, 1, s.Len())
}

func TestUpdateTruncatesHistory(t *testing.T) {
	s := newTestStore(Config{MaxHistory: 4})

	for i := 0; i < 5; i++ {
		s.Update("sess-1", store.SessionUpdate{
			Turns: []store.Turn{
				{Role: store.RoleUser, Text: fmt.Sprintf("q%d", i)},
				{Role: store.RoleAssistant, Text: fmt.Sprintf("a%d", i)},
			},
		})
	}

	sess := s.GetOrCreate("sess-1")
	assert.Len(t, sess.History, 4)
	// Oldest turns are dropped first
	assert.Equal(t, "q3", sess.History[0].Text)
	assert.Equal(t, "a4", sess.History[3].Text)
}

func TestUpdateRecreatesMissingSession(t *testing.T) {
	s := newTestStore(Config{})

	s.Update("swept-away", store.SessionUpdate{
		Turns:    []store.Turn{{Role: store.RoleUser, Text: "hello"}},
		Intent:   "greeting",
		Location: "Lagos",
	})

	info, ok := s.Describe("swept-away")
	assert.True(t, ok)
	assert.Equal(t, 1, info.MessageCount)
}

func TestCapacityEvictsOldestInserted(t *testing.T) {
	s := newTestStore(Config{Capacity: 2})

	s.GetOrCreate("oldest")
	s.GetOrCreate("middle")
	s.GetOrCreate("newest")

	assert.Equal(t, 2, s.Len())
	_, ok := s.Describe("oldest")
	assert.False(t, ok)
	_, ok = s.Describe("newest")
	assert.True(t, ok)
}

func TestSweepRemovesIdleSessions(t *testing.T) {
	s := newTestStore(Config{IdleTimeout: time.Millisecond})

	s.GetOrCreate("idle")
	time.Sleep(5 * time.Millisecond)
	s.Sweep()

	_, ok := s.Describe("idle")
	assert.False(t, ok)
	assert.Equal(t, 0, s.Len())

	// A swept id can be recreated from scratch
	sess := s.GetOrCreate("idle")
	assert.Empty(t, sess.History)
}

func TestClearRemovesSession(t *testing.T) {
	s := newTestStore(Config{})

	s.Update("sess-1", store.SessionUpdate{
		Turns: []store.Turn{{Role: store.RoleUser, Text: "hello"}},
	})
	s.Clear("sess-1")

	_, ok := s.Describe("sess-1")
	assert.False(t, ok)

	// Clearing an unknown id is a no-op
	s.Clear("never-existed")
}

func TestDescribeReportsPreferences(t *testing.T) {
	s := newTestStore(Config{})

	bedrooms := 2
	s.Update("sess-1", store.SessionUpdate{
		Turns:    []store.Turn{{Role: store.RoleUser, Text: "2 bed flats in Lagos"}},
		Intent:   "search",
		Location: "Lagos",
		Preferences: &store.Preferences{
			PropertyType: "apartment",
			Bedrooms:     &bedrooms,
			Locations:    []string{"Lagos"},
		},
	})

	info, ok := s.Describe("sess-1")
	assert.True(t, ok)
	assert.Equal(t, "apartment", info.Preferences.PropertyType)
	assert.Equal(t, 2, *info.Preferences.Bedrooms)
	assert.Equal(t, []string{"Lagos"}, info.Preferences.Locations)
}

func TestReturnedSessionIsDetached(t *testing.T) {
	s := newTestStore(Config{})

	s.Update("sess-1", store.SessionUpdate{
		Turns: []store.Turn{{Role: store.RoleUser, Text: "hello"}},
	})

	sess := s.GetOrCreate("sess-1")
	sess.History[0].Text = "mutated"
	sess.History = append(sess.History, store.Turn{Role: store.RoleUser, Text: "extra"})

	fresh := s.GetOrCreate("sess-1")
	assert.Len(t, fresh.History, 1)
	assert.Equal(t, "hello", fresh.History[0].Text)
}
