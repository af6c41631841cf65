package mattermost

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChannelNotifier(t *testing.T) {
	var got Post
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v4/posts", r.URL.Path)
		assert.Equal(t, "Bearer bot-token", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(Post{ID: "p1", ChannelID: got.ChannelID, Message: got.Message})
	}))
	defer srv.Close()

	n := NewChannelNotifier(NewClient(srv.URL, "bot-token"), "alerts")
	require.NoError(t, n.Notify(context.Background(), "Awa Diallo is late"))
	assert.Equal(t, "alerts", got.ChannelID)
	assert.Equal(t, "Awa Diallo is late", got.Message)
}

func TestCreatePost_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"channel not found"}`, http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, "bot-token").CreatePost(context.Background(), &Post{ChannelID: "x", Message: "hi"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
	assert.Contains(t, err.Error(), "channel not found")
}
