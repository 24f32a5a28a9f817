package service

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessions_CreateAndGet(t *testing.T) {
	s := NewSessions(func() *Dashboard {
		return newTestDashboard(&mockLocationRepository{}, &mockWeatherRepository{})
	}, time.Minute)

	id, d := s.Create()
	_, err := uuid.Parse(id)
	require.NoError(t, err)

	got, ok := s.Get(id)
	assert.True(t, ok)
	assert.Same(t, d, got)

	_, ok = s.Get("unknown")
	assert.False(t, ok)

	id2, d2 := s.Create()
	assert.NotEqual(t, id, id2)
	assert.NotSame(t, d, d2)
	assert.Equal(t, 2, s.Len())
}

func TestSessions_Evict(t *testing.T) {
	now := time.Date(2024, 3, 4, 12, 0, 0, 0, time.UTC)
	s := NewSessions(func() *Dashboard {
		return newTestDashboard(&mockLocationRepository{}, &mockWeatherRepository{})
	}, 10*time.Minute)
	s.now = func() time.Time { return now }

	stale, _ := s.Create()
	fresh, _ := s.Create()

	now = now.Add(8 * time.Minute)
	_, ok := s.Get(fresh)
	require.True(t, ok)

	now = now.Add(3 * time.Minute)
	assert.Equal(t, 1, s.Evict())

	_, ok = s.Get(stale)
	assert.False(t, ok)
	_, ok = s.Get(fresh)
	assert.True(t, ok)
}
