package devserver

import (
	"context"
	"io"
	"log/slog"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/Naicocircus/blog-tech/internal/client"
)

// DevServerSuite runs the real HTTP client against the in-memory server,
// covering the full login -> engage -> notify loop over the wire.
type DevServerSuite struct {
	suite.Suite

	ts  *httptest.Server
	ada *client.Client
	ben *client.Client
}

func TestDevServerSuite(t *testing.T) {
	suite.Run(t, new(DevServerSuite))
}

func (s *DevServerSuite) SetupTest() {
	srv := New("test-secret", 0, slog.New(slog.NewTextHandler(io.Discard, nil)))
	s.Require().NoError(srv.Seed())
	s.ts = httptest.NewServer(srv.Handler())

	s.ada = s.login("ada@example.com")
	s.ben = s.login("ben@example.com")
}

func (s *DevServerSuite) TearDownTest() {
	s.ts.Close()
}

func (s *DevServerSuite) login(email string) *client.Client {
	c := client.New(s.ts.URL + "/api")
	_, err := c.Login(context.Background(), client.Credentials{Email: email, Password: "password"})
	s.Require().NoError(err)
	return c
}

func (s *DevServerSuite) firstPost() client.Post {
	list, err := s.ada.Posts(context.Background(), client.PostParams{})
	s.Require().NoError(err)
	s.Require().NotEmpty(list.Posts)
	return list.Posts[0]
}

func (s *DevServerSuite) TestLoginRejectsBadPassword() {
	c := client.New(s.ts.URL + "/api")
	_, err := c.Login(context.Background(), client.Credentials{Email: "ada@example.com", Password: "nope"})
	s.Require().Error(err)
	s.True(client.IsAuthError(err))
}

func (s *DevServerSuite) TestSeededNotifications() {
	ctx := context.Background()

	count, err := s.ada.UnreadCount(ctx)
	s.Require().NoError(err)
	s.Equal(3, count)

	list, err := s.ada.Notifications(ctx, client.NotificationParams{Limit: 10})
	s.Require().NoError(err)
	s.Len(list.Notifications, 3)
	s.Equal(3, list.UnreadCount)
	s.Equal(3, list.Pagination.Total)

	// Mark one read; the count drops and unreadOnly filters it out.
	s.Require().NoError(s.ada.MarkNotificationRead(ctx, list.Notifications[0].ID))
	count, err = s.ada.UnreadCount(ctx)
	s.Require().NoError(err)
	s.Equal(2, count)

	unread, err := s.ada.Notifications(ctx, client.NotificationParams{Limit: 10, UnreadOnly: true})
	s.Require().NoError(err)
	s.Len(unread.Notifications, 2)
}

func (s *DevServerSuite) TestMarkAllAndDelete() {
	ctx := context.Background()

	list, err := s.ada.Notifications(ctx, client.NotificationParams{Limit: 10})
	s.Require().NoError(err)

	s.Require().NoError(s.ada.MarkAllNotificationsRead(ctx))
	count, err := s.ada.UnreadCount(ctx)
	s.Require().NoError(err)
	s.Equal(0, count)

	s.Require().NoError(s.ada.DeleteNotification(ctx, list.Notifications[0].ID))
	after, err := s.ada.Notifications(ctx, client.NotificationParams{Limit: 10})
	s.Require().NoError(err)
	s.Len(after.Notifications, 2)
}

func (s *DevServerSuite) TestLikeToggleNotifiesAuthor() {
	ctx := context.Background()
	p := s.firstPost()

	before, err := s.ada.UnreadCount(ctx)
	s.Require().NoError(err)

	res, err := s.ben.LikePost(ctx, p.ID)
	s.Require().NoError(err)
	s.True(res.Liked)
	s.Equal(1, res.LikesCount)

	after, err := s.ada.UnreadCount(ctx)
	s.Require().NoError(err)
	s.Equal(before+1, after)

	// Second like is an unlike and does not notify again.
	res, err = s.ben.LikePost(ctx, p.ID)
	s.Require().NoError(err)
	s.False(res.Liked)
	s.Equal(0, res.LikesCount)

	final, err := s.ada.UnreadCount(ctx)
	s.Require().NoError(err)
	s.Equal(after, final)
}

func (s *DevServerSuite) TestReactReplaceAndClear() {
	ctx := context.Background()
	p := s.firstPost()

	res, err := s.ben.ReactToPost(ctx, p.ID, client.ReactionHeart)
	s.Require().NoError(err)
	s.Equal(client.ReactionHeart, res.UserReaction)
	s.Equal(1, res.Reactions[client.ReactionHeart])

	// Switching kinds moves the single slot.
	res, err = s.ben.ReactToPost(ctx, p.ID, client.ReactionClap)
	s.Require().NoError(err)
	s.Equal(client.ReactionClap, res.UserReaction)
	s.Equal(0, res.Reactions[client.ReactionHeart])
	s.Equal(1, res.Reactions[client.ReactionClap])

	// Re-sending the current kind clears it.
	res, err = s.ben.ReactToPost(ctx, p.ID, client.ReactionClap)
	s.Require().NoError(err)
	s.Empty(res.UserReaction)
	s.Equal(0, res.Reactions[client.ReactionClap])

	state, err := s.ben.PostReactions(ctx, p.ID)
	s.Require().NoError(err)
	s.Empty(state.UserReaction)
	s.False(state.UserLiked)
	s.Equal(0, state.LikesCount)
}

func (s *DevServerSuite) TestShareStats() {
	ctx := context.Background()
	p := s.firstPost()

	s.Require().NoError(s.ben.TrackShare(ctx, p.ID, client.PlatformTwitter))
	s.Require().NoError(s.ben.TrackShare(ctx, p.ID, client.PlatformTwitter))
	s.Require().NoError(s.ben.TrackShare(ctx, p.ID, client.PlatformOther))

	stats, err := s.ben.ShareStats(ctx, p.ID)
	s.Require().NoError(err)
	s.Equal(2, stats.Counts[client.PlatformTwitter])
	s.Equal(1, stats.Counts[client.PlatformOther])
	s.Equal(3, stats.Total)
}

func (s *DevServerSuite) TestCommentLifecycle() {
	ctx := context.Background()
	p := s.firstPost()

	cm, err := s.ben.CreateComment(ctx, p.ID, "great write-up")
	s.Require().NoError(err)
	s.Equal("great write-up", cm.Content)
	s.Require().NotNil(cm.Author)

	updated, err := s.ben.UpdateComment(ctx, cm.ID, "great write-up, really")
	s.Require().NoError(err)
	s.Equal("great write-up, really", updated.Content)

	// Only the author may edit.
	_, err = s.ada.UpdateComment(ctx, cm.ID, "hijack")
	s.Require().Error(err)

	s.Require().NoError(s.ben.DeleteComment(ctx, cm.ID))
	comments, err := s.ben.Comments(ctx, p.ID)
	s.Require().NoError(err)
	s.Empty(comments)
}

func TestTokenExpiryFollowsConfig(t *testing.T) {
	srv := New("test-secret", time.Minute, slog.New(slog.NewTextHandler(io.Discard, nil)))

	token, err := srv.issueToken("u1", "u1@example.com")
	require.NoError(t, err)

	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	require.NoError(t, err)
	exp, err := parsed.Claims.GetExpirationTime()
	require.NoError(t, err)
	require.NotNil(t, exp)
	require.WithinDuration(t, time.Now().Add(time.Minute), exp.Time, 5*time.Second)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	srv := New("test-secret", 0, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, srv.Seed())
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	c := client.New(ts.URL + "/api")
	_, err := c.Register(context.Background(), client.RegisterRequest{
		Name: "Ada Again", Email: "ada@example.com", Password: "password",
	})
	require.Error(t, err)

	var apiErr *client.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, client.KindBusiness, apiErr.Kind)
}
