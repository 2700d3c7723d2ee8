package aoraclient

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Post is a published video with its creator profile joined in.
type Post struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Prompt       string    `json:"prompt"`
	ThumbnailURL string    `json:"thumbnailUrl"`
	VideoURL     string    `json:"videoUrl"`
	CreatorID    string    `json:"creatorId"`
	CreatedAt    time.Time `json:"createdAt"`
	Creator      *User     `json:"creator,omitempty"`
}

// AllPosts returns every published post, newest first.
func (c *Client) AllPosts(ctx context.Context) ([]Post, error) {
	return c.listPosts(ctx, nil)
}

// LatestPosts returns the most recent posts. A limit of zero or less asks the
// service for its default window.
func (c *Client) LatestPosts(ctx context.Context, limit int) ([]Post, error) {
	query := url.Values{"latest": {"true"}}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}
	return c.listPosts(ctx, query)
}

// SearchPosts returns posts whose title matches the query text.
func (c *Client) SearchPosts(ctx context.Context, text string) ([]Post, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, newError(KindValidation, "search text is required", nil)
	}
	return c.listPosts(ctx, url.Values{"search": {text}})
}

// UserPosts returns the posts published by one creator profile.
func (c *Client) UserPosts(ctx context.Context, creatorID string) ([]Post, error) {
	creatorID = strings.TrimSpace(creatorID)
	if creatorID == "" {
		return nil, newError(KindValidation, "creator id is required", nil)
	}
	return c.listPosts(ctx, url.Values{"creator": {creatorID}})
}

func (c *Client) listPosts(ctx context.Context, query url.Values) ([]Post, error) {
	var resp struct {
		Posts []Post `json:"posts"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/api/v1/videos", query, nil, &resp); err != nil {
		return nil, newError(KindFetch, "failed to list posts", err)
	}
	return resp.Posts, nil
}
