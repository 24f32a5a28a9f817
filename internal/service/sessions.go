package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

type session struct {
	dashboard *Dashboard
	lastSeen  time.Time
}

// Sessions keeps one Dashboard per browser session.
type Sessions struct {
	mu      sync.Mutex
	items   map[string]*session
	newDash func() *Dashboard
	idle    time.Duration
	now     func() time.Time
}

// NewSessions creates a registry whose dashboards come from newDash and are
// evicted after idle without use.
func NewSessions(newDash func() *Dashboard, idle time.Duration) *Sessions {
	return &Sessions{
		items:   make(map[string]*session),
		newDash: newDash,
		idle:    idle,
		now:     time.Now,
	}
}

// Get returns the dashboard for id and marks it as used.
func (s *Sessions) Get(id string) (*Dashboard, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.items[id]
	if !ok {
		return nil, false
	}
	sess.lastSeen = s.now()
	return sess.dashboard, true
}

// Create registers a new dashboard under a fresh random ID.
func (s *Sessions) Create() (string, *Dashboard) {
	id := uuid.NewString()
	d := s.newDash()

	s.mu.Lock()
	s.items[id] = &session{dashboard: d, lastSeen: s.now()}
	s.mu.Unlock()
	return id, d
}

func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// Evict drops sessions idle for longer than the configured timeout and
// returns how many were removed.
func (s *Sessions) Evict() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for id, sess := range s.items {
		if s.now().Sub(sess.lastSeen) > s.idle {
			delete(s.items, id)
			removed++
		}
	}
	return removed
}

// StartEviction runs Evict every interval until ctx is done.
func (s *Sessions) StartEviction(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.Evict()
			}
		}
	}()
}
