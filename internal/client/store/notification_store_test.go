package store

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newClockedStore() (*NotificationStore, *time.Time) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	s := NewNotificationStore()
	s.now = func() time.Time { return now }
	return s, &now
}

func TestNotificationStore_Dedupe(t *testing.T) {
	s, now := newClockedStore()

	_, ok := s.Add("saved", KindSuccess, DefaultDuration)
	assert.True(t, ok)
	_, ok = s.Add("saved", KindSuccess, DefaultDuration)
	assert.False(t, ok)

	// 種類が違えば別物
	_, ok = s.Add("saved", KindInfo, DefaultDuration)
	assert.True(t, ok)

	*now = now.Add(time.Second)
	_, ok = s.Add("saved", KindSuccess, DefaultDuration)
	assert.True(t, ok)

	assert.Len(t, s.Active(), 3)
}

func TestNotificationStore_ExpiryAndDismiss(t *testing.T) {
	s, now := newClockedStore()

	s.Success("a")
	s.Error("b", errors.New("cause"))
	sticky, _ := s.Add("c", KindInfo, 0)

	active := s.Active()
	require.Len(t, active, 3)
	assert.Equal(t, "b: cause", active[1].Message)
	assert.Equal(t, KindError, active[1].Kind)

	*now = now.Add(6 * time.Second)
	assert.Len(t, s.Active(), 2)

	*now = now.Add(2 * time.Second)
	active = s.Active()
	require.Len(t, active, 1)
	assert.Equal(t, sticky, active[0].ID)

	s.Dismiss(sticky)
	assert.Empty(t, s.Active())
}

func TestNotificationStore_EmptyMessage(t *testing.T) {
	s, _ := newClockedStore()
	_, ok := s.Add("  ", KindInfo, DefaultDuration)
	assert.False(t, ok)
	assert.Empty(t, s.Active())
}
