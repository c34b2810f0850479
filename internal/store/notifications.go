// Package store holds the client-side engagement state: the shared
// notification cache with its polling loop, per-post reaction controllers,
// and the share tracker. All server communication goes through the typed
// API client; all local state transitions happen under the stores' own
// locks so optimistic updates, merges, and rollbacks are never interleaved.
package store

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/Naicocircus/blog-tech/internal/client"
)

// DefaultPollInterval is how often the unread count is refreshed in the
// background while the session is up.
const DefaultPollInterval = 60 * time.Second

// NotificationAPI is the slice of the API client the store needs.
type NotificationAPI interface {
	Notifications(ctx context.Context, params client.NotificationParams) (*client.NotificationList, error)
	UnreadCount(ctx context.Context) (int, error)
	MarkNotificationRead(ctx context.Context, id string) error
	MarkAllNotificationsRead(ctx context.Context) error
	DeleteNotification(ctx context.Context, id string) error
}

// Snapshot is the read-only view pushed to subscribers.
type Snapshot struct {
	Notifications []client.Notification
	UnreadCount   int
	LastFetchedAt time.Time
}

// SubscriberFunc receives a snapshot whenever the list or the unread count
// changes. Callbacks run outside the store lock and may call back into the
// store.
type SubscriberFunc func(Snapshot)

// pendingMutation records a local optimistic change that the server has not
// been confirmed to reflect yet. seq orders it against refresh issue times.
type pendingMutation struct {
	seq     uint64
	read    bool
	deleted bool
}

// NotificationStore is the single source of truth for the viewer's
// notification state. One instance exists per authenticated session; every
// surface (bell, notifications page) subscribes to it instead of fetching
// on its own.
type NotificationStore struct {
	api      NotificationAPI
	interval time.Duration
	logger   *slog.Logger

	mu            sync.Mutex
	notifications []client.Notification
	unreadCount   int
	lastFetchedAt time.Time
	subscribers   map[int]SubscriberFunc
	nextSubID     int

	// seq increases with every local mutation; refreshes capture it at
	// issue time so late responses cannot clobber newer local state.
	seq        uint64
	pending    map[string]pendingMutation
	markAllSeq uint64

	started bool
	done    chan struct{}
}

// NewNotificationStore creates a store polling at the given interval.
// A zero interval falls back to DefaultPollInterval.
func NewNotificationStore(api NotificationAPI, interval time.Duration, logger *slog.Logger) *NotificationStore {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &NotificationStore{
		api:         api,
		interval:    interval,
		logger:      logger,
		subscribers: make(map[int]SubscriberFunc),
		pending:     make(map[string]pendingMutation),
	}
}

// Start launches the background count poll. Exactly one ticker exists no
// matter how many surfaces subscribe; calling Start on a running store is
// a no-op. The loop stops when ctx is cancelled or Stop is called.
func (s *NotificationStore) Start(ctx context.Context) {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return
	}
	s.started = true
	s.done = make(chan struct{})
	done := s.done
	s.mu.Unlock()

	go func() {
		// Prime the badge immediately, then settle into the interval.
		if err := s.RefreshCount(ctx); err != nil {
			s.logger.Debug("initial unread count fetch failed", "error", err)
		}

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				if err := s.RefreshCount(ctx); err != nil {
					// Non-fatal: the next tick retries.
					s.logger.Debug("unread count poll failed", "error", err)
				}
			case <-ctx.Done():
				return
			case <-done:
				return
			}
		}
	}()
}

// Stop tears the poll loop down. Called once by the session owner on
// logout; in-flight requests are left to finish.
func (s *NotificationStore) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.started {
		return
	}
	s.started = false
	close(s.done)
}

// RefreshCount fetches the unread count only. The server value wins
// unconditionally; subscribers are notified only when it changed.
func (s *NotificationStore) RefreshCount(ctx context.Context) error {
	count, err := s.api.UnreadCount(ctx)
	if err != nil {
		// State stays untouched; the poll loop will try again.
		return err
	}

	s.mu.Lock()
	if count == s.unreadCount {
		s.mu.Unlock()
		return nil
	}
	s.unreadCount = count
	notify := s.notifyLocked()
	s.mu.Unlock()
	notify()
	return nil
}

// RefreshList fetches the full notification list plus the embedded unread
// count. On failure the cached list is kept (stale-but-present beats empty)
// and the error goes to the calling surface only.
//
// The response is merged by id rather than blindly replacing state: any
// notification with a local mutation newer than this refresh's issue time
// keeps its local read/deleted state, so an in-flight refresh cannot
// resurrect a just-read or just-deleted entry.
func (s *NotificationStore) RefreshList(ctx context.Context, params client.NotificationParams) (Snapshot, error) {
	s.mu.Lock()
	issuedSeq := s.seq
	s.mu.Unlock()

	list, err := s.api.Notifications(ctx, params)
	if err != nil {
		return Snapshot{}, err
	}

	s.mu.Lock()
	merged := make([]client.Notification, 0, len(list.Notifications))
	count := list.UnreadCount
	forceAllRead := s.markAllSeq > issuedSeq

	for _, n := range list.Notifications {
		pm, hasPending := s.pending[n.ID]
		overridden := hasPending && pm.seq > issuedSeq

		if overridden && pm.deleted {
			if !n.Read {
				count--
			}
			continue
		}
		if (overridden && pm.read) || forceAllRead {
			if !n.Read {
				n.Read = true
				count--
			}
		}
		merged = append(merged, n)
	}
	if forceAllRead {
		count = 0
	}
	if count < 0 {
		count = 0
	}

	// Mutations older than this refresh are assumed confirmed server-side.
	for id, pm := range s.pending {
		if pm.seq <= issuedSeq {
			delete(s.pending, id)
		}
	}

	s.notifications = merged
	s.unreadCount = count
	s.lastFetchedAt = time.Now()
	snap := s.snapshotLocked()
	notify := s.notifyLocked()
	s.mu.Unlock()
	notify()
	return snap, nil
}

// MarkRead optimistically flips one notification to read and decrements the
// unread count before the network call resolves. Marking an already-read
// notification is a no-op with no network call. A failed request is not
// rolled back; the read flag only ever moves false to true.
func (s *NotificationStore) MarkRead(ctx context.Context, id string) error {
	s.mu.Lock()
	found, wasUnread := false, false
	for i := range s.notifications {
		if s.notifications[i].ID == id {
			found = true
			if !s.notifications[i].Read {
				wasUnread = true
				s.notifications[i].Read = true
			}
			break
		}
	}
	if found && !wasUnread {
		s.mu.Unlock()
		return nil
	}

	s.seq++
	s.pending[id] = pendingMutation{seq: s.seq, read: true}
	if wasUnread && s.unreadCount > 0 {
		s.unreadCount--
	}
	notify := func() {}
	if wasUnread {
		notify = s.notifyLocked()
	}
	s.mu.Unlock()
	notify()

	if err := s.api.MarkNotificationRead(ctx, id); err != nil {
		// Cosmetic miss: the local flip stays to avoid flicker.
		s.logger.Warn("mark notification read failed", "id", id, "error", err)
		return err
	}
	return nil
}

// MarkAllRead optimistically sets every notification read and zeroes the
// unread count, then issues one bulk request. No rollback on failure.
func (s *NotificationStore) MarkAllRead(ctx context.Context) error {
	s.mu.Lock()
	for i := range s.notifications {
		s.notifications[i].Read = true
	}
	s.unreadCount = 0
	s.seq++
	s.markAllSeq = s.seq
	notify := s.notifyLocked()
	s.mu.Unlock()
	notify()

	if err := s.api.MarkAllNotificationsRead(ctx); err != nil {
		s.logger.Warn("mark all notifications read failed", "error", err)
		return err
	}
	return nil
}

// Delete optimistically removes the notification (decrementing the unread
// count if it was unread) and issues the delete request. No rollback on
// failure.
func (s *NotificationStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	for i := range s.notifications {
		if s.notifications[i].ID == id {
			if !s.notifications[i].Read && s.unreadCount > 0 {
				s.unreadCount--
			}
			s.notifications = append(s.notifications[:i], s.notifications[i+1:]...)
			break
		}
	}
	s.seq++
	s.pending[id] = pendingMutation{seq: s.seq, deleted: true}
	notify := s.notifyLocked()
	s.mu.Unlock()
	notify()

	if err := s.api.DeleteNotification(ctx, id); err != nil {
		s.logger.Warn("delete notification failed", "id", id, "error", err)
		return err
	}
	return nil
}

// Subscribe registers a listener and immediately hands it the current
// snapshot. The returned id deregisters it via Unsubscribe.
func (s *NotificationStore) Subscribe(fn SubscriberFunc) int {
	s.mu.Lock()
	s.nextSubID++
	id := s.nextSubID
	s.subscribers[id] = fn
	snap := s.snapshotLocked()
	s.mu.Unlock()

	fn(snap)
	return id
}

// Unsubscribe removes a listener. In-flight requests are not cancelled.
func (s *NotificationStore) Unsubscribe(id int) {
	s.mu.Lock()
	delete(s.subscribers, id)
	s.mu.Unlock()
}

// Snapshot returns the current state.
func (s *NotificationStore) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *NotificationStore) snapshotLocked() Snapshot {
	list := make([]client.Notification, len(s.notifications))
	copy(list, s.notifications)
	return Snapshot{
		Notifications: list,
		UnreadCount:   s.unreadCount,
		LastFetchedAt: s.lastFetchedAt,
	}
}

// notifyLocked copies the subscriber set and snapshot under the lock and
// returns the closure that delivers them, to be run after unlocking.
func (s *NotificationStore) notifyLocked() func() {
	snap := s.snapshotLocked()
	fns := make([]SubscriberFunc, 0, len(s.subscribers))
	for _, fn := range s.subscribers {
		fns = append(fns, fn)
	}
	return func() {
		for _, fn := range fns {
			fn(snap)
		}
	}
}
