package store

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/Naicocircus/blog-tech/internal/client"
)

// ErrBusy is returned when a like/reaction mutation is already in flight
// for the post. The caller's state is untouched and no request was issued.
var ErrBusy = errors.New("reaction mutation already in flight")

// ErrClosed is returned when the controller's post view has been torn down.
var ErrClosed = errors.New("reaction controller closed")

// ReactionAPI is the slice of the API client the controller needs.
type ReactionAPI interface {
	PostReactions(ctx context.Context, postID string) (*client.ReactionState, error)
	LikePost(ctx context.Context, postID string) (*client.LikeResult, error)
	ReactToPost(ctx context.Context, postID string, kind client.ReactionKind) (*client.ReactResult, error)
}

// ReactionController owns one post's like and reaction state. One instance
// exists per mounted post view; instances are never shared across posts.
// At most one like/reaction mutation is in flight at a time, enforced by a
// boolean guard; a second caller gets ErrBusy and no network call is made.
type ReactionController struct {
	api    ReactionAPI
	postID string
	logger *slog.Logger

	mu       sync.Mutex
	state    client.ReactionState
	loading  bool
	inFlight bool
	closed   bool
	lastErr  string
}

// NewReactionController creates a controller for one post. Counts start at
// zero for every kind until Load succeeds.
func NewReactionController(api ReactionAPI, postID string, logger *slog.Logger) *ReactionController {
	if logger == nil {
		logger = slog.Default()
	}
	return &ReactionController{
		api:    api,
		postID: postID,
		logger: logger,
		state: client.ReactionState{
			Reactions: emptyReactionCounts(),
		},
	}
}

func emptyReactionCounts() map[client.ReactionKind]int {
	counts := make(map[client.ReactionKind]int, len(client.ReactionKinds))
	for _, kind := range client.ReactionKinds {
		counts[kind] = 0
	}
	return counts
}

// Load fetches the current reaction state. On failure the prior state (or
// the zero defaults) stays in place and the error flag is set for the
// calling surface.
func (rc *ReactionController) Load(ctx context.Context) error {
	rc.mu.Lock()
	if rc.closed {
		rc.mu.Unlock()
		return ErrClosed
	}
	rc.loading = true
	rc.mu.Unlock()

	state, err := rc.api.PostReactions(ctx, rc.postID)

	rc.mu.Lock()
	defer rc.mu.Unlock()
	if rc.closed {
		return nil
	}
	rc.loading = false
	if err != nil {
		rc.lastErr = err.Error()
		return err
	}
	rc.state = normalizeState(state)
	rc.lastErr = ""
	return nil
}

// normalizeState copies the server response, filling in zero counts for
// kinds the server omitted.
func normalizeState(state *client.ReactionState) client.ReactionState {
	out := client.ReactionState{
		Reactions:    emptyReactionCounts(),
		UserLiked:    state.UserLiked,
		UserReaction: state.UserReaction,
		LikesCount:   state.LikesCount,
	}
	for kind, n := range state.Reactions {
		out.Reactions[kind] = n
	}
	return out
}

// ToggleLike optimistically flips the liked flag and adjusts the count,
// then reconciles with the server's authoritative answer. On failure the
// flip and count are rolled back exactly; like counts are too visible for
// silent drift.
func (rc *ReactionController) ToggleLike(ctx context.Context) error {
	rc.mu.Lock()
	if rc.closed {
		rc.mu.Unlock()
		return ErrClosed
	}
	if rc.inFlight {
		rc.mu.Unlock()
		return ErrBusy
	}
	rc.inFlight = true

	prevLiked := rc.state.UserLiked
	prevCount := rc.state.LikesCount

	rc.state.UserLiked = !prevLiked
	if rc.state.UserLiked {
		rc.state.LikesCount++
	} else if rc.state.LikesCount > 0 {
		rc.state.LikesCount--
	}
	rc.mu.Unlock()

	result, err := rc.api.LikePost(ctx, rc.postID)

	rc.mu.Lock()
	defer rc.mu.Unlock()
	rc.inFlight = false
	if rc.closed {
		return nil
	}
	if err != nil {
		rc.state.UserLiked = prevLiked
		rc.state.LikesCount = prevCount
		rc.lastErr = err.Error()
		return err
	}
	rc.state.UserLiked = result.Liked
	rc.state.LikesCount = result.LikesCount
	rc.lastErr = ""
	return nil
}

// SetReaction selects a single reaction kind, implicitly replacing any
// previous one. The optimistic guess moves the counts locally; the server
// response then replaces the whole mapping and user reaction, authoritative
// and unmerged. Failure rolls the guess back.
func (rc *ReactionController) SetReaction(ctx context.Context, kind client.ReactionKind) error {
	rc.mu.Lock()
	if rc.closed {
		rc.mu.Unlock()
		return ErrClosed
	}
	if rc.inFlight {
		rc.mu.Unlock()
		return ErrBusy
	}
	rc.inFlight = true

	prevReaction := rc.state.UserReaction
	prevCounts := make(map[client.ReactionKind]int, len(rc.state.Reactions))
	for k, n := range rc.state.Reactions {
		prevCounts[k] = n
	}

	if prevReaction != "" && rc.state.Reactions[prevReaction] > 0 {
		rc.state.Reactions[prevReaction]--
	}
	if kind != prevReaction {
		rc.state.Reactions[kind]++
		rc.state.UserReaction = kind
	} else {
		// Re-selecting the current kind clears it.
		rc.state.UserReaction = ""
	}
	rc.mu.Unlock()

	result, err := rc.api.ReactToPost(ctx, rc.postID, kind)

	rc.mu.Lock()
	defer rc.mu.Unlock()
	rc.inFlight = false
	if rc.closed {
		return nil
	}
	if err != nil {
		rc.state.UserReaction = prevReaction
		rc.state.Reactions = prevCounts
		rc.lastErr = err.Error()
		return err
	}
	rc.state.UserReaction = result.UserReaction
	rc.state.Reactions = emptyReactionCounts()
	for k, n := range result.Reactions {
		rc.state.Reactions[k] = n
	}
	rc.lastErr = ""
	return nil
}

// State returns a copy of the current reaction state.
func (rc *ReactionController) State() client.ReactionState {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	counts := make(map[client.ReactionKind]int, len(rc.state.Reactions))
	for k, n := range rc.state.Reactions {
		counts[k] = n
	}
	out := rc.state
	out.Reactions = counts
	return out
}

// Busy reports whether a mutation is in flight.
func (rc *ReactionController) Busy() bool {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	return rc.inFlight
}

// Loading reports whether the initial load is in flight.
func (rc *ReactionController) Loading() bool {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	return rc.loading
}

// Err returns the transient error string from the last failed operation,
// empty after a success.
func (rc *ReactionController) Err() string {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	return rc.lastErr
}

// Close marks the post view as torn down. Responses resolving afterwards
// are dropped instead of writing to a discarded instance.
func (rc *ReactionController) Close() {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	rc.closed = true
}
