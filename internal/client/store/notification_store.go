package store

import (
	"strings"
	"sync"
	"time"
)

type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "danger"
	KindWarning Kind = "warning"
	KindInfo    Kind = "info"
)

const (
	DefaultDuration = 5 * time.Second
	ErrorDuration   = 7 * time.Second
	dedupeWindow    = time.Second
)

type Notification struct {
	ID        int64
	Message   string
	Kind      Kind
	Duration  time.Duration // 0 は手動で閉じるまで残る
	CreatedAt time.Time
}

func (n Notification) expired(now time.Time) bool {
	return n.Duration > 0 && !now.Before(n.CreatedAt.Add(n.Duration))
}

// NotificationStore はUI向けの通知一覧。
// 同じ (message, kind) は1秒以内なら追加しない。
type NotificationStore struct {
	mu     sync.Mutex
	now    func() time.Time
	nextID int64
	items  []Notification
	recent map[string]time.Time
}

func NewNotificationStore() *NotificationStore {
	return &NotificationStore{
		now:    time.Now,
		recent: make(map[string]time.Time),
	}
}

// Add は追加したら (id, true)。空メッセージや重複は (0, false)。
func (s *NotificationStore) Add(message string, kind Kind, duration time.Duration) (int64, bool) {
	message = strings.TrimSpace(message)
	if message == "" {
		return 0, false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	key := string(kind) + "\x00" + message
	if last, ok := s.recent[key]; ok && now.Sub(last) < dedupeWindow {
		return 0, false
	}
	for k, t := range s.recent {
		if now.Sub(t) >= dedupeWindow {
			delete(s.recent, k)
		}
	}
	s.recent[key] = now

	s.nextID++
	s.items = append(s.items, Notification{
		ID:        s.nextID,
		Message:   message,
		Kind:      kind,
		Duration:  duration,
		CreatedAt: now,
	})
	return s.nextID, true
}

func (s *NotificationStore) Success(message string) {
	s.Add(message, KindSuccess, DefaultDuration)
}

// err があれば "message: err" にする
func (s *NotificationStore) Error(message string, err error) {
	if err != nil {
		message = message + ": " + err.Error()
	}
	s.Add(message, KindError, ErrorDuration)
}

func (s *NotificationStore) Warning(message string) {
	s.Add(message, KindWarning, DefaultDuration)
}

func (s *NotificationStore) Info(message string) {
	s.Add(message, KindInfo, DefaultDuration)
}

func (s *NotificationStore) Dismiss(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, n := range s.items {
		if n.ID == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return
		}
	}
}

func (s *NotificationStore) Clear() {
	s.mu.Lock()
	s.items = nil
	s.mu.Unlock()
}

// Active は期限切れを捨ててから残りを返す
func (s *NotificationStore) Active() []Notification {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	kept := s.items[:0]
	for _, n := range s.items {
		if !n.expired(now) {
			kept = append(kept, n)
		}
	}
	s.items = kept

	out := make([]Notification, len(kept))
	copy(out, kept)
	return out
}
