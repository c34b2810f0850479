// Package devserver is an in-memory implementation of the blog-tech
// engagement API contract. It exists so the CLI and the stores can be
// exercised end-to-end without the production backend; state lives in
// process memory and is lost on restart.
package devserver

import (
	"log/slog"
	"net/http"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Naicocircus/blog-tech/internal/client"
)

type account struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Avatar       string
}

type post struct {
	ID        string
	Title     string
	Excerpt   string
	Content   string
	Tags      []string
	AuthorID  string
	CreatedAt time.Time

	likes     map[string]bool                // userID -> liked
	reactions map[string]client.ReactionKind // userID -> kind
	shares    map[client.SharePlatform]int
}

type comment struct {
	ID        string
	PostID    string
	AuthorID  string
	Content   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Server holds the in-memory state and the gin router.
type Server struct {
	engine    *gin.Engine
	jwtSecret []byte
	tokenTTL  time.Duration
	logger    *slog.Logger

	mu            sync.Mutex
	usersByEmail  map[string]*account
	usersByID     map[string]*account
	posts         map[string]*post
	postOrder     []string
	comments      map[string]*comment
	notifications map[string][]*client.Notification // userID -> newest first
}

// New creates a dev server signing tokens with the given secret and
// lifetime. A zero tokenTTL falls back to 24h.
func New(jwtSecret string, tokenTTL time.Duration, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	gin.SetMode(gin.ReleaseMode)

	s := &Server{
		engine:        gin.New(),
		jwtSecret:     []byte(jwtSecret),
		tokenTTL:      tokenTTL,
		logger:        logger,
		usersByEmail:  make(map[string]*account),
		usersByID:     make(map[string]*account),
		posts:         make(map[string]*post),
		comments:      make(map[string]*comment),
		notifications: make(map[string][]*client.Notification),
	}
	s.engine.Use(gin.Recovery())
	s.registerRoutes()
	return s
}

// Handler exposes the router, mainly for httptest.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves on the given address until the listener fails.
func (s *Server) Run(addr string) error {
	s.logger.Info("dev server listening", "addr", addr)
	return s.engine.Run(addr)
}

func (s *Server) registerRoutes() {
	api := s.engine.Group("/api")

	auth := api.Group("/auth")
	auth.POST("/register", s.handleRegister)
	auth.POST("/login", s.handleLogin)
	auth.POST("/logout", s.authRequired(), s.handleLogout)
	auth.GET("/me", s.authRequired(), s.handleMe)

	api.GET("/posts", s.handleListPosts)
	api.GET("/posts/:id", s.handleGetPost)
	api.GET("/posts/:id/comments", s.handleListComments)
	api.POST("/posts/:id/comments", s.authRequired(), s.handleCreateComment)
	api.PUT("/comments/:id", s.authRequired(), s.handleUpdateComment)
	api.DELETE("/comments/:id", s.authRequired(), s.handleDeleteComment)

	api.GET("/notifications", s.authRequired(), s.handleListNotifications)
	api.GET("/notifications/unread-count", s.authRequired(), s.handleUnreadCount)
	api.PUT("/notifications/:id/read", s.authRequired(), s.handleMarkRead)
	api.PUT("/notifications/read-all", s.authRequired(), s.handleMarkAllRead)
	api.DELETE("/notifications/:id", s.authRequired(), s.handleDeleteNotification)

	api.POST("/posts/:id/like", s.authRequired(), s.handleLike)
	api.POST("/posts/:id/react", s.authRequired(), s.handleReact)
	api.GET("/posts/:id/reactions", s.authRequired(), s.handleReactions)
	api.POST("/posts/:id/share", s.handleShare)
	api.GET("/posts/:id/shares", s.handleShareStats)
}

// respond helpers matching the wire envelope the client expects.

func ok(c *gin.Context, data any) {
	if data == nil {
		c.JSON(http.StatusOK, gin.H{"success": true})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": data})
}

func fail(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, gin.H{"success": false, "message": msg})
}

func intQuery(c *gin.Context, name string, def int) int {
	raw := c.Query(name)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return def
	}
	return n
}

// pushNotification prepends a notification for the target user. The actor
// never notifies themselves.
func (s *Server) pushNotification(targetID, actorID string, n client.Notification) {
	if targetID == "" || targetID == actorID {
		return
	}
	n.ID = uuid.NewString()
	n.CreatedAt = time.Now()
	if actor, exists := s.usersByID[actorID]; exists {
		n.Sender = &client.UserSummary{ID: actor.ID, Name: actor.Name, Avatar: actor.Avatar}
	}
	s.notifications[targetID] = append([]*client.Notification{&n}, s.notifications[targetID]...)
}

// Seed populates a demo account (ada@example.com / password) with a few
// posts and notifications so the CLI has something to show.
func (s *Server) Seed() error {
	hash, err := hashPassword("password")
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ada := &account{ID: uuid.NewString(), Name: "Ada", Email: "ada@example.com", PasswordHash: hash}
	ben := &account{ID: uuid.NewString(), Name: "Ben", Email: "ben@example.com", PasswordHash: hash}
	for _, a := range []*account{ada, ben} {
		s.usersByEmail[a.Email] = a
		s.usersByID[a.ID] = a
	}

	titles := []string{"Getting started with Go", "Polling without remorse", "Optimistic UIs"}
	for i, title := range titles {
		p := &post{
			ID:        uuid.NewString(),
			Title:     title,
			Excerpt:   "An article about " + title + ".",
			Content:   "Body of " + title + ".",
			Tags:      []string{"go", "engineering"},
			AuthorID:  ada.ID,
			CreatedAt: time.Now().Add(-time.Duration(i) * 24 * time.Hour),
		}
		p.likes = make(map[string]bool)
		p.reactions = make(map[string]client.ReactionKind)
		p.shares = make(map[client.SharePlatform]int)
		s.posts[p.ID] = p
		s.postOrder = append(s.postOrder, p.ID)

		s.pushNotification(ada.ID, ben.ID, client.Notification{
			Type:    client.NotificationComment,
			Content: "Ben commented on \"" + title + "\"",
			Link:    "/posts/" + p.ID,
		})
	}
	return nil
}

// sortedPosts returns post ids newest first. Callers hold s.mu.
func (s *Server) sortedPosts() []*post {
	out := make([]*post, 0, len(s.postOrder))
	for _, id := range s.postOrder {
		out = append(out, s.posts[id])
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}
