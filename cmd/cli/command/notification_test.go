package command

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/Naicocircus/blog-tech/internal/client"
	"github.com/Naicocircus/blog-tech/internal/store"
)

// fakeWatchAPI serves a fixed notification list for watch loop tests.
type fakeWatchAPI struct {
	mu   sync.Mutex
	list client.NotificationList
}

func (f *fakeWatchAPI) Notifications(ctx context.Context, params client.NotificationParams) (*client.NotificationList, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := f.list
	out.Notifications = append([]client.Notification(nil), f.list.Notifications...)
	return &out, nil
}

func (f *fakeWatchAPI) UnreadCount(ctx context.Context) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.list.UnreadCount, nil
}

func (f *fakeWatchAPI) MarkNotificationRead(ctx context.Context, id string) error { return nil }
func (f *fakeWatchAPI) MarkAllNotificationsRead(ctx context.Context) error        { return nil }
func (f *fakeWatchAPI) DeleteNotification(ctx context.Context, id string) error   { return nil }

func TestWatchPrinterPrintsEachNotificationOnce(t *testing.T) {
	var buf bytes.Buffer
	printer := newWatchPrinter(&buf)

	snap := store.Snapshot{
		Notifications: []client.Notification{
			{ID: "n1", Type: client.NotificationComment, Content: "first", CreatedAt: time.Now()},
			{ID: "n2", Type: client.NotificationLike, Content: "second", CreatedAt: time.Now()},
		},
		UnreadCount: 2,
	}
	printer.observe(snap)
	printer.observe(snap)

	out := buf.String()
	assert.Equal(t, 1, strings.Count(out, "ID: n1"))
	assert.Equal(t, 1, strings.Count(out, "ID: n2"))
	assert.Equal(t, 1, strings.Count(out, "2 unread"))
}

// The store delivers snapshots from its poll goroutine and from whichever
// goroutine calls RefreshList, at the same time. The printer must hold its
// own lock; this test drives both paths concurrently and relies on the race
// detector plus the once-per-id output check.
func TestWatchPrinterConcurrentSnapshots(t *testing.T) {
	api := &fakeWatchAPI{list: client.NotificationList{
		Notifications: []client.Notification{
			{ID: "n1", Type: client.NotificationComment, Content: "one", CreatedAt: time.Now()},
			{ID: "n2", Type: client.NotificationLike, Content: "two", CreatedAt: time.Now()},
		},
		UnreadCount: 2,
	}}

	var buf bytes.Buffer
	printer := newWatchPrinter(&buf)

	notifStore := store.NewNotificationStore(api, 5*time.Millisecond, warnLogger())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	notifStore.Subscribe(printer.observe)
	notifStore.Start(ctx)
	defer notifStore.Stop()

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := notifStore.RefreshList(ctx, client.NotificationParams{Limit: 10})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
	time.Sleep(20 * time.Millisecond)

	// The printer's own lock also guards the buffer against a straggling
	// poll delivery while we read it.
	printer.mu.Lock()
	out := buf.String()
	printer.mu.Unlock()

	assert.Equal(t, 1, strings.Count(out, "ID: n1"))
	assert.Equal(t, 1, strings.Count(out, "ID: n2"))
}
