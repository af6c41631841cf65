package mattermost

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

type Client struct {
	baseURL    string
	botToken   string
	httpClient *http.Client
}

func NewClient(baseURL, botToken string) *Client {
	return &Client{
		baseURL:    baseURL,
		botToken:   botToken,
		httpClient: &http.Client{Timeout: 5 * time.Second},
	}
}

// Post represents a Mattermost post.
type Post struct {
	ID        string `json:"id,omitempty"`
	ChannelID string `json:"channel_id"`
	Message   string `json:"message"`
}

// CreatePost creates a new post in a channel.
func (c *Client) CreatePost(ctx context.Context, post *Post) (*Post, error) {
	var result Post
	if err := c.doJSON(ctx, http.MethodPost, "/api/v4/posts", post, &result); err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}
	return &result, nil
}

// ChannelNotifier posts every notification to one channel.
type ChannelNotifier struct {
	client    *Client
	channelID string
}

func NewChannelNotifier(client *Client, channelID string) *ChannelNotifier {
	return &ChannelNotifier{client: client, channelID: channelID}
}

func (n *ChannelNotifier) Notify(ctx context.Context, message string) error {
	_, err := n.client.CreatePost(ctx, &Post{ChannelID: n.channelID, Message: message})
	return err
}

func (c *Client) doJSON(ctx context.Context, method, path string, body any, result any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.botToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("api error %d: %s", resp.StatusCode, string(respBody))
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}
