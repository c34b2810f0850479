package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func TestBearerHeaderAndEnvelope(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		require.Equal(t, "/api/notifications/unread-count", r.URL.Path)
		writeJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"data":    map[string]int{"count": 5},
		})
	}))
	defer server.Close()

	c := New(server.URL + "/api")
	c.SetToken("tok-123")

	count, err := c.UnreadCount(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 5, count)
	assert.Equal(t, "Bearer tok-123", gotAuth)
}

func TestNotificationListDecoding(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "10", r.URL.Query().Get("limit"))
		assert.Equal(t, "true", r.URL.Query().Get("unreadOnly"))
		writeJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"data": map[string]any{
				"notifications": []map[string]any{
					{"_id": "a", "type": "comment", "content": "hi", "read": false, "createdAt": "2025-06-01T10:00:00Z"},
					{"_id": "b", "type": "reaction", "reactionType": "heart", "content": "loved it", "read": true, "createdAt": "2025-06-01T09:00:00Z"},
				},
				"unreadCount": 1,
				"pagination":  map[string]int{"page": 1, "limit": 10, "total": 2, "pages": 1},
			},
		})
	}))
	defer server.Close()

	c := New(server.URL)
	list, err := c.Notifications(context.Background(), NotificationParams{Limit: 10, UnreadOnly: true})
	require.NoError(t, err)

	require.Len(t, list.Notifications, 2)
	assert.Equal(t, NotificationComment, list.Notifications[0].Type)
	assert.Equal(t, ReactionHeart, list.Notifications[1].ReactionType)
	assert.Equal(t, 1, list.UnreadCount)
	assert.Equal(t, 2, list.Pagination.Total)
}

func TestUnauthorizedFiresHookAndClassifies(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusUnauthorized, map[string]any{
			"success": false, "message": "token expired",
		})
	}))
	defer server.Close()

	c := New(server.URL)
	var hookFired int32
	c.SetOnUnauthorized(func() { atomic.AddInt32(&hookFired, 1) })

	_, err := c.Me(context.Background())
	require.Error(t, err)
	assert.True(t, IsAuthError(err))

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "token expired", apiErr.Message)
	assert.Equal(t, int32(1), atomic.LoadInt32(&hookFired))
}

func TestServerErrorIsTransient(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	c := New(server.URL)
	_, err := c.UnreadCount(context.Background())
	require.Error(t, err)
	assert.True(t, IsTransient(err))
}

func TestBusinessErrorCarriesMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusConflict, map[string]any{
			"success": false, "message": "already reacted",
		})
	}))
	defer server.Close()

	c := New(server.URL)
	_, err := c.ReactToPost(context.Background(), "p1", ReactionClap)
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, KindBusiness, apiErr.Kind)
	assert.Equal(t, "already reacted", apiErr.Message)
	assert.False(t, IsTransient(err))
}

func TestNetworkFailureNeverEscapesRaw(t *testing.T) {
	c := New("http://127.0.0.1:1") // nothing listens here
	_, err := c.UnreadCount(context.Background())
	require.Error(t, err)

	var apiErr *APIError
	assert.ErrorAs(t, err, &apiErr, "transport errors must be normalized")
	assert.True(t, IsTransient(err))
	assert.Zero(t, apiErr.StatusCode)
}

func TestLoginStoresToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var creds Credentials
		require.NoError(t, json.NewDecoder(r.Body).Decode(&creds))
		assert.Equal(t, "ada@example.com", creds.Email)
		writeJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"data": map[string]any{
				"token": "jwt-abc",
				"user":  map[string]string{"_id": "u1", "name": "Ada", "email": creds.Email},
			},
		})
	}))
	defer server.Close()

	c := New(server.URL)
	resp, err := c.Login(context.Background(), Credentials{Email: "ada@example.com", Password: "pw"})
	require.NoError(t, err)
	assert.Equal(t, "jwt-abc", resp.Token)
	assert.Equal(t, "jwt-abc", c.Token(), "token is attached for subsequent requests")
}

func TestRateLimitZeroKeepsDefault(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"data":    map[string]int{"count": 1},
		})
	}))
	defer server.Close()

	// A non-positive rate must not install a limiter that blocks forever.
	c := New(server.URL, WithRateLimit(0))
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	count, err := c.UnreadCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestEmptySuccessPayload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		writeJSON(w, http.StatusOK, map[string]any{"success": true})
	}))
	defer server.Close()

	c := New(server.URL)
	assert.NoError(t, c.MarkAllNotificationsRead(context.Background()))
}
