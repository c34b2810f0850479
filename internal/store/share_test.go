package store

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Naicocircus/blog-tech/internal/client"
)

type fakeShareAPI struct {
	mu         sync.Mutex
	trackErr   error
	trackCalls []client.SharePlatform
	stats      *client.ShareStats
	statsErr   error
}

func (f *fakeShareAPI) TrackShare(_ context.Context, _ string, platform client.SharePlatform) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.trackCalls = append(f.trackCalls, platform)
	return f.trackErr
}

func (f *fakeShareAPI) ShareStats(context.Context, string) (*client.ShareStats, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.stats, f.statsErr
}

func TestTrackSwallowsFailure(t *testing.T) {
	api := &fakeShareAPI{trackErr: errors.New("tracking endpoint down")}
	tracker := NewShareTracker(api, discardLogger())

	// Track has no error return at all: sharing must never appear to fail.
	tracker.Track(context.Background(), "post-1", client.PlatformTwitter)

	assert.Equal(t, []client.SharePlatform{client.PlatformTwitter}, api.trackCalls)
}

func TestRefreshStats(t *testing.T) {
	api := &fakeShareAPI{
		stats: &client.ShareStats{
			Counts: map[client.SharePlatform]int{client.PlatformFacebook: 3, client.PlatformOther: 1},
			Total:  4,
		},
	}
	tracker := NewShareTracker(api, discardLogger())

	stats, err := tracker.RefreshStats(context.Background(), "post-1")
	require.NoError(t, err)
	assert.Equal(t, 4, stats.Total)
	assert.Equal(t, 3, stats.Counts[client.PlatformFacebook])
}

func TestShareURL(t *testing.T) {
	pageURL := "https://blog.example/posts/42"
	title := "A post & a half"

	tests := []struct {
		platform client.SharePlatform
		contains string
	}{
		{client.PlatformFacebook, "facebook.com/sharer"},
		{client.PlatformTwitter, "twitter.com/intent/tweet"},
		{client.PlatformLinkedIn, "linkedin.com/sharing"},
		{client.PlatformWhatsApp, "api.whatsapp.com/send"},
	}
	for _, tc := range tests {
		link := ShareURL(tc.platform, pageURL, title)
		assert.Contains(t, link, tc.contains, string(tc.platform))
		assert.NotContains(t, link, " ", "url must be fully escaped")
	}

	assert.Empty(t, ShareURL(client.PlatformOther, pageURL, title), "copy-link has no external url")
}
