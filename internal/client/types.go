package client

import "time"

// types.go = request/response structures for the blog-tech engagement API.

// NotificationType enumerates the server-side notification kinds.
type NotificationType string

const (
	NotificationComment  NotificationType = "comment"
	NotificationReply    NotificationType = "reply"
	NotificationMention  NotificationType = "mention"
	NotificationLike     NotificationType = "like"
	NotificationReaction NotificationType = "reaction"
	NotificationShare    NotificationType = "share"
	NotificationFollow   NotificationType = "follow"
	NotificationSystem   NotificationType = "system"
)

// ReactionKind enumerates the post reaction kinds. The empty string means
// "no reaction".
type ReactionKind string

const (
	ReactionThumbsUp ReactionKind = "thumbsUp"
	ReactionHeart    ReactionKind = "heart"
	ReactionClap     ReactionKind = "clap"
	ReactionWow      ReactionKind = "wow"
	ReactionSad      ReactionKind = "sad"
)

// ReactionKinds lists every valid reaction kind, in display order.
var ReactionKinds = []ReactionKind{
	ReactionThumbsUp, ReactionHeart, ReactionClap, ReactionWow, ReactionSad,
}

// Valid reports whether k is one of the known reaction kinds.
func (k ReactionKind) Valid() bool {
	for _, known := range ReactionKinds {
		if k == known {
			return true
		}
	}
	return false
}

// SharePlatform enumerates the share targets. "other" covers copy-link.
type SharePlatform string

const (
	PlatformFacebook SharePlatform = "facebook"
	PlatformTwitter  SharePlatform = "twitter"
	PlatformLinkedIn SharePlatform = "linkedin"
	PlatformWhatsApp SharePlatform = "whatsapp"
	PlatformOther    SharePlatform = "other"
)

// SharePlatforms lists every valid share platform.
var SharePlatforms = []SharePlatform{
	PlatformFacebook, PlatformTwitter, PlatformLinkedIn, PlatformWhatsApp, PlatformOther,
}

// Valid reports whether p is a known share platform.
func (p SharePlatform) Valid() bool {
	for _, known := range SharePlatforms {
		if p == known {
			return true
		}
	}
	return false
}

// UserSummary is the sender/author stub embedded in notifications and posts.
type UserSummary struct {
	ID     string `json:"_id,omitempty"`
	Name   string `json:"name"`
	Avatar string `json:"avatar,omitempty"`
}

// Notification as delivered by the server. The client never creates these;
// it only flips Read and deletes.
type Notification struct {
	ID           string           `json:"_id"`
	Type         NotificationType `json:"type"`
	ReactionType ReactionKind     `json:"reactionType,omitempty"`
	Content      string           `json:"content"`
	Read         bool             `json:"read"`
	Link         string           `json:"link,omitempty"`
	CreatedAt    time.Time        `json:"createdAt"`
	Sender       *UserSummary     `json:"sender,omitempty"`
}

// Pagination block returned by list endpoints.
type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
	Pages int `json:"pages"`
}

// NotificationList is the payload of GET /notifications.
type NotificationList struct {
	Notifications []Notification `json:"notifications"`
	UnreadCount   int            `json:"unreadCount"`
	Pagination    Pagination     `json:"pagination"`
}

// NotificationParams are the query parameters of GET /notifications.
type NotificationParams struct {
	Page       int
	Limit      int
	UnreadOnly bool
}

// ReactionState is the payload of GET /posts/{id}/reactions.
type ReactionState struct {
	Reactions    map[ReactionKind]int `json:"reactions"`
	UserLiked    bool                 `json:"userLiked"`
	UserReaction ReactionKind         `json:"userReaction"`
	LikesCount   int                  `json:"likesCount"`
}

// LikeResult is the payload of POST /posts/{id}/like.
type LikeResult struct {
	Liked      bool `json:"liked"`
	LikesCount int  `json:"likesCount"`
}

// ReactResult is the payload of POST /posts/{id}/react.
type ReactResult struct {
	UserReaction ReactionKind         `json:"userReaction"`
	Reactions    map[ReactionKind]int `json:"reactions"`
}

// ShareStats is the payload of GET /posts/{id}/shares.
type ShareStats struct {
	Counts map[SharePlatform]int `json:"counts"`
	Total  int                   `json:"total"`
}

// Post is the article summary returned by the posts endpoints. Content
// rendering is out of scope; the CLI only lists and quotes these.
type Post struct {
	ID        string       `json:"_id"`
	Title     string       `json:"title"`
	Excerpt   string       `json:"excerpt,omitempty"`
	Content   string       `json:"content,omitempty"`
	Tags      []string     `json:"tags,omitempty"`
	Author    *UserSummary `json:"author,omitempty"`
	CreatedAt time.Time    `json:"createdAt"`
}

// PostList is the payload of GET /posts.
type PostList struct {
	Posts []Post `json:"posts"`
	Total int    `json:"total"`
	Pages int    `json:"pages"`
}

// PostParams are the query parameters of GET /posts.
type PostParams struct {
	Page   int
	Limit  int
	Search string
}

// Comment on a post.
type Comment struct {
	ID        string       `json:"_id"`
	PostID    string       `json:"postId"`
	Author    *UserSummary `json:"author,omitempty"`
	Content   string       `json:"content"`
	CreatedAt time.Time    `json:"createdAt"`
	UpdatedAt time.Time    `json:"updatedAt,omitempty"`
}

// Credentials for POST /auth/login.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterRequest for POST /auth/register.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse is the payload of the login/register endpoints.
type AuthResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// User is the authenticated account as returned by GET /auth/me.
type User struct {
	ID     string `json:"_id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Avatar string `json:"avatar,omitempty"`
}
