package store

import (
	"context"
	"log/slog"
	"net/url"

	"github.com/Naicocircus/blog-tech/internal/client"
)

// ShareAPI is the slice of the API client the tracker needs.
type ShareAPI interface {
	TrackShare(ctx context.Context, postID string, platform client.SharePlatform) error
	ShareStats(ctx context.Context, postID string) (*client.ShareStats, error)
}

// ShareTracker records share events. Tracking is best-effort: sharing must
// never appear to fail to the user, so failures are logged and swallowed.
// The external share action (opening the platform URL, copying the link)
// is never gated on the tracking call.
type ShareTracker struct {
	api    ShareAPI
	logger *slog.Logger
}

// NewShareTracker creates a tracker.
func NewShareTracker(api ShareAPI, logger *slog.Logger) *ShareTracker {
	if logger == nil {
		logger = slog.Default()
	}
	return &ShareTracker{api: api, logger: logger}
}

// Track records one share event. Failures are logged only.
func (t *ShareTracker) Track(ctx context.Context, postID string, platform client.SharePlatform) {
	if err := t.api.TrackShare(ctx, postID, platform); err != nil {
		t.logger.Warn("share tracking failed", "post", postID, "platform", platform, "error", err)
	}
}

// RefreshStats re-fetches aggregate share counts, for surfaces that show
// running totals after a track.
func (t *ShareTracker) RefreshStats(ctx context.Context, postID string) (*client.ShareStats, error) {
	return t.api.ShareStats(ctx, postID)
}

// ShareURL builds the platform-specific share link for a post URL and
// title. PlatformOther has no external URL (it is the copy-link action);
// an empty string is returned for it and for unknown platforms.
func ShareURL(platform client.SharePlatform, pageURL, title string) string {
	u := url.QueryEscape(pageURL)
	switch platform {
	case client.PlatformFacebook:
		return "https://www.facebook.com/sharer/sharer.php?u=" + u
	case client.PlatformTwitter:
		return "https://twitter.com/intent/tweet?url=" + u + "&text=" + url.QueryEscape(title)
	case client.PlatformLinkedIn:
		return "https://www.linkedin.com/sharing/share-offsite/?url=" + u
	case client.PlatformWhatsApp:
		return "https://api.whatsapp.com/send?text=" + url.QueryEscape(title+" "+pageURL)
	default:
		return ""
	}
}
