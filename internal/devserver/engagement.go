package devserver

// engagement.go = notification, reaction, comment and share endpoints of
// the dev server. Response shapes mirror the production contract exactly;
// the client package types are reused so the two cannot drift.

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Naicocircus/blog-tech/internal/client"
)

// Notifications

func (s *Server) handleListNotifications(c *gin.Context) {
	userID := currentUserID(c)
	page := intQuery(c, "page", 1)
	limit := intQuery(c, "limit", 20)
	unreadOnly := c.Query("unreadOnly") == "true"

	s.mu.Lock()
	defer s.mu.Unlock()

	all := s.notifications[userID]
	filtered := make([]client.Notification, 0, len(all))
	unread := 0
	for _, n := range all {
		if !n.Read {
			unread++
		}
		if unreadOnly && n.Read {
			continue
		}
		filtered = append(filtered, *n)
	}

	total := len(filtered)
	pages := (total + limit - 1) / limit
	if pages == 0 {
		pages = 1
	}
	start := (page - 1) * limit
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}

	ok(c, client.NotificationList{
		Notifications: filtered[start:end],
		UnreadCount:   unread,
		Pagination:    client.Pagination{Page: page, Limit: limit, Total: total, Pages: pages},
	})
}

func (s *Server) handleUnreadCount(c *gin.Context) {
	userID := currentUserID(c)

	s.mu.Lock()
	defer s.mu.Unlock()

	count := 0
	for _, n := range s.notifications[userID] {
		if !n.Read {
			count++
		}
	}
	ok(c, gin.H{"count": count})
}

func (s *Server) handleMarkRead(c *gin.Context) {
	userID := currentUserID(c)
	id := c.Param("id")

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, n := range s.notifications[userID] {
		if n.ID == id {
			n.Read = true
			ok(c, nil)
			return
		}
	}
	fail(c, http.StatusNotFound, "notification not found")
}

func (s *Server) handleMarkAllRead(c *gin.Context) {
	userID := currentUserID(c)

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, n := range s.notifications[userID] {
		n.Read = true
	}
	ok(c, nil)
}

func (s *Server) handleDeleteNotification(c *gin.Context) {
	userID := currentUserID(c)
	id := c.Param("id")

	s.mu.Lock()
	defer s.mu.Unlock()

	list := s.notifications[userID]
	for i, n := range list {
		if n.ID == id {
			s.notifications[userID] = append(list[:i], list[i+1:]...)
			ok(c, nil)
			return
		}
	}
	fail(c, http.StatusNotFound, "notification not found")
}

// Reactions

func (s *Server) handleLike(c *gin.Context) {
	userID := currentUserID(c)

	s.mu.Lock()
	defer s.mu.Unlock()

	p, exists := s.posts[c.Param("id")]
	if !exists {
		fail(c, http.StatusNotFound, "post not found")
		return
	}

	if p.likes[userID] {
		delete(p.likes, userID)
	} else {
		p.likes[userID] = true
		s.pushNotification(p.AuthorID, userID, client.Notification{
			Type:    client.NotificationLike,
			Content: "Someone liked \"" + p.Title + "\"",
			Link:    "/posts/" + p.ID,
		})
	}

	ok(c, client.LikeResult{Liked: p.likes[userID], LikesCount: len(p.likes)})
}

func (s *Server) handleReact(c *gin.Context) {
	userID := currentUserID(c)

	var body struct {
		Type client.ReactionKind `json:"type"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || !body.Type.Valid() {
		fail(c, http.StatusBadRequest, "invalid reaction type")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p, exists := s.posts[c.Param("id")]
	if !exists {
		fail(c, http.StatusNotFound, "post not found")
		return
	}

	// Single-slot selection: choosing a new kind replaces the previous
	// one, re-choosing the current kind clears it.
	if p.reactions[userID] == body.Type {
		delete(p.reactions, userID)
	} else {
		p.reactions[userID] = body.Type
		s.pushNotification(p.AuthorID, userID, client.Notification{
			Type:         client.NotificationReaction,
			ReactionType: body.Type,
			Content:      "Someone reacted to \"" + p.Title + "\"",
			Link:         "/posts/" + p.ID,
		})
	}

	ok(c, client.ReactResult{
		UserReaction: p.reactions[userID],
		Reactions:    reactionCounts(p),
	})
}

func (s *Server) handleReactions(c *gin.Context) {
	userID := currentUserID(c)

	s.mu.Lock()
	defer s.mu.Unlock()

	p, exists := s.posts[c.Param("id")]
	if !exists {
		fail(c, http.StatusNotFound, "post not found")
		return
	}

	ok(c, client.ReactionState{
		Reactions:    reactionCounts(p),
		UserLiked:    p.likes[userID],
		UserReaction: p.reactions[userID],
		LikesCount:   len(p.likes),
	})
}

func reactionCounts(p *post) map[client.ReactionKind]int {
	counts := make(map[client.ReactionKind]int, len(client.ReactionKinds))
	for _, kind := range client.ReactionKinds {
		counts[kind] = 0
	}
	for _, kind := range p.reactions {
		counts[kind]++
	}
	return counts
}

// Shares

func (s *Server) handleShare(c *gin.Context) {
	var body struct {
		Platform client.SharePlatform `json:"platform"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || !body.Platform.Valid() {
		fail(c, http.StatusBadRequest, "invalid share platform")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p, exists := s.posts[c.Param("id")]
	if !exists {
		fail(c, http.StatusNotFound, "post not found")
		return
	}
	p.shares[body.Platform]++
	ok(c, nil)
}

func (s *Server) handleShareStats(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, exists := s.posts[c.Param("id")]
	if !exists {
		fail(c, http.StatusNotFound, "post not found")
		return
	}

	counts := make(map[client.SharePlatform]int, len(client.SharePlatforms))
	total := 0
	for _, platform := range client.SharePlatforms {
		counts[platform] = p.shares[platform]
		total += p.shares[platform]
	}
	ok(c, client.ShareStats{Counts: counts, Total: total})
}

// Posts and comments

func (s *Server) handleListPosts(c *gin.Context) {
	page := intQuery(c, "page", 1)
	limit := intQuery(c, "limit", 10)
	search := strings.ToLower(c.Query("search"))

	s.mu.Lock()
	defer s.mu.Unlock()

	all := s.sortedPosts()
	posts := make([]client.Post, 0, len(all))
	for _, p := range all {
		if search != "" && !strings.Contains(strings.ToLower(p.Title), search) {
			continue
		}
		posts = append(posts, s.postView(p, false))
	}

	total := len(posts)
	pages := (total + limit - 1) / limit
	if pages == 0 {
		pages = 1
	}
	start := (page - 1) * limit
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}

	ok(c, client.PostList{Posts: posts[start:end], Total: total, Pages: pages})
}

func (s *Server) handleGetPost(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, exists := s.posts[c.Param("id")]
	if !exists {
		fail(c, http.StatusNotFound, "post not found")
		return
	}
	ok(c, s.postView(p, true))
}

// postView converts a post to its wire shape. Callers hold s.mu.
func (s *Server) postView(p *post, withContent bool) client.Post {
	view := client.Post{
		ID:        p.ID,
		Title:     p.Title,
		Excerpt:   p.Excerpt,
		Tags:      p.Tags,
		CreatedAt: p.CreatedAt,
	}
	if withContent {
		view.Content = p.Content
	}
	if author, exists := s.usersByID[p.AuthorID]; exists {
		view.Author = &client.UserSummary{ID: author.ID, Name: author.Name, Avatar: author.Avatar}
	}
	return view
}

func (s *Server) handleListComments(c *gin.Context) {
	postID := c.Param("id")

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.posts[postID]; !exists {
		fail(c, http.StatusNotFound, "post not found")
		return
	}

	out := make([]client.Comment, 0)
	for _, cm := range s.comments {
		if cm.PostID == postID {
			out = append(out, s.commentView(cm))
		}
	}
	ok(c, out)
}

func (s *Server) handleCreateComment(c *gin.Context) {
	userID := currentUserID(c)

	var body struct {
		Content string `json:"content"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || body.Content == "" {
		fail(c, http.StatusBadRequest, "comment content is required")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p, exists := s.posts[c.Param("id")]
	if !exists {
		fail(c, http.StatusNotFound, "post not found")
		return
	}

	cm := &comment{
		ID:        uuid.NewString(),
		PostID:    p.ID,
		AuthorID:  userID,
		Content:   body.Content,
		CreatedAt: time.Now(),
	}
	s.comments[cm.ID] = cm

	s.pushNotification(p.AuthorID, userID, client.Notification{
		Type:    client.NotificationComment,
		Content: "New comment on \"" + p.Title + "\"",
		Link:    "/posts/" + p.ID,
	})

	ok(c, s.commentView(cm))
}

func (s *Server) handleUpdateComment(c *gin.Context) {
	userID := currentUserID(c)

	var body struct {
		Content string `json:"content"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || body.Content == "" {
		fail(c, http.StatusBadRequest, "comment content is required")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cm, exists := s.comments[c.Param("id")]
	if !exists {
		fail(c, http.StatusNotFound, "comment not found")
		return
	}
	if cm.AuthorID != userID {
		fail(c, http.StatusForbidden, "not your comment")
		return
	}
	cm.Content = body.Content
	cm.UpdatedAt = time.Now()
	ok(c, s.commentView(cm))
}

func (s *Server) handleDeleteComment(c *gin.Context) {
	userID := currentUserID(c)

	s.mu.Lock()
	defer s.mu.Unlock()

	cm, exists := s.comments[c.Param("id")]
	if !exists {
		fail(c, http.StatusNotFound, "comment not found")
		return
	}
	if cm.AuthorID != userID {
		fail(c, http.StatusForbidden, "not your comment")
		return
	}
	delete(s.comments, cm.ID)
	ok(c, nil)
}

// commentView converts a comment to its wire shape. Callers hold s.mu.
func (s *Server) commentView(cm *comment) client.Comment {
	view := client.Comment{
		ID:        cm.ID,
		PostID:    cm.PostID,
		Content:   cm.Content,
		CreatedAt: cm.CreatedAt,
		UpdatedAt: cm.UpdatedAt,
	}
	if author, exists := s.usersByID[cm.AuthorID]; exists {
		view.Author = &client.UserSummary{ID: author.ID, Name: author.Name, Avatar: author.Avatar}
	}
	return view
}
