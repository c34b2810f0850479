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

// fakeReactionAPI gates the like call so tests can observe in-flight state.
type fakeReactionAPI struct {
	mu sync.Mutex

	reactionState *client.ReactionState
	reactionErr   error

	likeResult  *client.LikeResult
	likeErr     error
	likeCalls   int
	likeEntered chan struct{}
	likeGate    chan struct{}

	reactResult *client.ReactResult
	reactErr    error
	reactCalls  int
}

func (f *fakeReactionAPI) PostReactions(context.Context, string) (*client.ReactionState, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.reactionErr != nil {
		return nil, f.reactionErr
	}
	return f.reactionState, nil
}

func (f *fakeReactionAPI) LikePost(context.Context, string) (*client.LikeResult, error) {
	f.mu.Lock()
	f.likeCalls++
	f.mu.Unlock()
	if f.likeEntered != nil {
		f.likeEntered <- struct{}{}
	}
	if f.likeGate != nil {
		<-f.likeGate
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.likeErr != nil {
		return nil, f.likeErr
	}
	return f.likeResult, nil
}

func (f *fakeReactionAPI) ReactToPost(context.Context, string, client.ReactionKind) (*client.ReactResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reactCalls++
	if f.reactErr != nil {
		return nil, f.reactErr
	}
	return f.reactResult, nil
}

func loadedController(t *testing.T, api *fakeReactionAPI) *ReactionController {
	t.Helper()
	rc := NewReactionController(api, "post-1", discardLogger())
	require.NoError(t, rc.Load(context.Background()))
	return rc
}

func TestLoadDefaultsOnFailure(t *testing.T) {
	api := &fakeReactionAPI{reactionErr: errors.New("offline")}
	rc := NewReactionController(api, "post-1", discardLogger())

	err := rc.Load(context.Background())
	require.Error(t, err)

	state := rc.State()
	assert.False(t, state.UserLiked)
	assert.Equal(t, client.ReactionKind(""), state.UserReaction)
	for _, kind := range client.ReactionKinds {
		assert.Zero(t, state.Reactions[kind])
	}
	assert.NotEmpty(t, rc.Err())
}

func TestToggleLikeOptimisticAndReconcile(t *testing.T) {
	api := &fakeReactionAPI{
		reactionState: &client.ReactionState{
			Reactions:  map[client.ReactionKind]int{client.ReactionHeart: 2},
			LikesCount: 4,
		},
		// Server answers with a different authoritative count than the
		// local +1 guess.
		likeResult: &client.LikeResult{Liked: true, LikesCount: 6},
	}
	rc := loadedController(t, api)

	require.NoError(t, rc.ToggleLike(context.Background()))

	state := rc.State()
	assert.True(t, state.UserLiked)
	assert.Equal(t, 6, state.LikesCount, "server count overwrites the optimistic guess")
}

func TestToggleLikeRollbackOnFailure(t *testing.T) {
	api := &fakeReactionAPI{
		reactionState: &client.ReactionState{
			Reactions:  map[client.ReactionKind]int{},
			UserLiked:  true,
			LikesCount: 9,
		},
		likeErr: errors.New("network down"),
	}
	rc := loadedController(t, api)

	err := rc.ToggleLike(context.Background())
	require.Error(t, err)

	state := rc.State()
	assert.True(t, state.UserLiked, "liked flag must equal its pre-call value exactly")
	assert.Equal(t, 9, state.LikesCount)
	assert.NotEmpty(t, rc.Err())
}

func TestToggleLikeSingleFlight(t *testing.T) {
	api := &fakeReactionAPI{
		reactionState: &client.ReactionState{Reactions: map[client.ReactionKind]int{}},
		likeResult:    &client.LikeResult{Liked: true, LikesCount: 1},
		likeEntered:   make(chan struct{}, 1),
		likeGate:      make(chan struct{}),
	}
	rc := loadedController(t, api)

	firstDone := make(chan error, 1)
	go func() { firstDone <- rc.ToggleLike(context.Background()) }()
	<-api.likeEntered // first mutation is in flight

	err := rc.ToggleLike(context.Background())
	assert.ErrorIs(t, err, ErrBusy)

	close(api.likeGate)
	require.NoError(t, <-firstDone)

	api.mu.Lock()
	calls := api.likeCalls
	api.mu.Unlock()
	assert.Equal(t, 1, calls, "the busy caller must not issue a second network call")
	assert.True(t, rc.State().UserLiked)
}

func TestSetReactionAuthoritativeReplace(t *testing.T) {
	api := &fakeReactionAPI{
		reactionState: &client.ReactionState{
			Reactions:    map[client.ReactionKind]int{client.ReactionThumbsUp: 3, client.ReactionHeart: 1},
			UserReaction: client.ReactionThumbsUp,
		},
		reactResult: &client.ReactResult{
			UserReaction: client.ReactionHeart,
			Reactions:    map[client.ReactionKind]int{client.ReactionThumbsUp: 2, client.ReactionHeart: 2},
		},
	}
	rc := loadedController(t, api)

	require.NoError(t, rc.SetReaction(context.Background(), client.ReactionHeart))

	state := rc.State()
	assert.Equal(t, client.ReactionHeart, state.UserReaction)
	assert.Equal(t, 2, state.Reactions[client.ReactionThumbsUp], "old kind decremented server-side")
	assert.Equal(t, 2, state.Reactions[client.ReactionHeart], "new kind incremented server-side")
}

func TestSetReactionRollbackOnFailure(t *testing.T) {
	api := &fakeReactionAPI{
		reactionState: &client.ReactionState{
			Reactions:    map[client.ReactionKind]int{client.ReactionThumbsUp: 3},
			UserReaction: client.ReactionThumbsUp,
		},
		reactErr: errors.New("boom"),
	}
	rc := loadedController(t, api)

	err := rc.SetReaction(context.Background(), client.ReactionWow)
	require.Error(t, err)

	state := rc.State()
	assert.Equal(t, client.ReactionThumbsUp, state.UserReaction)
	assert.Equal(t, 3, state.Reactions[client.ReactionThumbsUp])
	assert.Zero(t, state.Reactions[client.ReactionWow])
}

func TestClosedControllerDropsLateResponse(t *testing.T) {
	api := &fakeReactionAPI{
		reactionState: &client.ReactionState{Reactions: map[client.ReactionKind]int{}},
		likeResult:    &client.LikeResult{Liked: true, LikesCount: 99},
		likeEntered:   make(chan struct{}, 1),
		likeGate:      make(chan struct{}),
	}
	rc := loadedController(t, api)

	done := make(chan error, 1)
	go func() { done <- rc.ToggleLike(context.Background()) }()
	<-api.likeEntered

	rc.Close() // view unmounts while the request is in flight
	close(api.likeGate)
	require.NoError(t, <-done)

	// The late reconciliation must not have been applied.
	assert.NotEqual(t, 99, rc.State().LikesCount)
	assert.ErrorIs(t, rc.ToggleLike(context.Background()), ErrClosed)
}
