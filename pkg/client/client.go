// Package client is the Go counterpart of the extension's API layer: it
// wraps the REST surface, normalizes page URLs before every call and
// short-circuits repeated reads through a 30-second response cache.
package client

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	neturl "net/url"
	"time"

	"github.com/JeBooking/UCBE/internal/models"
	"github.com/JeBooking/UCBE/pkg/urlnorm"
)

const (
	defaultCacheSize = 256
	defaultCacheTTL  = 30 * time.Second
)

// Client talks to the comments API on behalf of one device.
type Client struct {
	baseURL    string
	httpClient *http.Client
	cache      *responseCache
}

// New creates a Client for the given API base URL (e.g. "http://localhost:8080")
func New(baseURL string) (*Client, error) {
	cache, err := newResponseCache(defaultCacheSize, defaultCacheTTL)
	if err != nil {
		return nil, err
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		cache:      cache,
	}, nil
}

type apiResponse struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

// GetComments fetches the threaded comments for a page, serving repeated
// reads within the cache window without touching the network.
func (c *Client) GetComments(pageURL, deviceID string) ([]models.CommentView, error) {
	normalized, err := urlnorm.Normalize(pageURL)
	if err != nil {
		return nil, err
	}

	key := cacheKey(normalized, deviceID)
	if cached, ok := c.cache.Get(key); ok {
		return cached, nil
	}

	path := "/api/comments?url=" + neturl.QueryEscape(normalized)
	raw, err := c.do(http.MethodGet, path, nil, deviceID)
	if err != nil {
		return nil, err
	}

	var comments []models.CommentView
	if err := json.Unmarshal(raw, &comments); err != nil {
		return nil, fmt.Errorf("decode comments: %w", err)
	}

	c.cache.Set(key, comments)
	return comments, nil
}

// AddComment posts a comment or reply and invalidates the page's cached
// listing before returning.
func (c *Client) AddComment(pageURL, content, displayName, deviceID string, parentID *string) (*models.CommentView, error) {
	normalized, err := urlnorm.Normalize(pageURL)
	if err != nil {
		return nil, err
	}

	body := map[string]interface{}{
		"url":          normalized,
		"content":      content,
		"display_name": displayName,
		"device_id":    deviceID,
	}
	if parentID != nil {
		body["parent_id"] = *parentID
	}

	raw, err := c.do(http.MethodPost, "/api/comments", body, deviceID)
	if err != nil {
		return nil, err
	}

	var comment models.CommentView
	if err := json.Unmarshal(raw, &comment); err != nil {
		return nil, fmt.Errorf("decode comment: %w", err)
	}

	c.cache.Delete(cacheKey(normalized, deviceID))
	return &comment, nil
}

// ToggleLike flips the like state of a comment on the given page and
// invalidates the page's cached listing.
func (c *Client) ToggleLike(pageURL, commentID, deviceID string) (bool, error) {
	normalized, err := urlnorm.Normalize(pageURL)
	if err != nil {
		return false, err
	}

	body := map[string]interface{}{"device_id": deviceID}
	raw, err := c.do(http.MethodPost, "/api/comments/"+commentID+"/like", body, deviceID)
	if err != nil {
		return false, err
	}

	var result struct {
		Liked bool `json:"liked"`
	}
	if err := json.Unmarshal(raw, &result); err != nil {
		return false, fmt.Errorf("decode like result: %w", err)
	}

	c.cache.Delete(cacheKey(normalized, deviceID))
	return result.Liked, nil
}

// DeleteComment removes one of the device's own comments from the given
// page and invalidates the page's cached listing.
func (c *Client) DeleteComment(pageURL, commentID, deviceID string) error {
	normalized, err := urlnorm.Normalize(pageURL)
	if err != nil {
		return err
	}

	body := map[string]interface{}{"device_id": deviceID}
	if _, err := c.do(http.MethodDelete, "/api/comments/"+commentID, body, deviceID); err != nil {
		return err
	}

	c.cache.Delete(cacheKey(normalized, deviceID))
	return nil
}

// do performs one request and unwraps the response envelope. No retries:
// a failed call is reported to the caller, who resubmits.
func (c *Client) do(method, path string, body interface{}, deviceID string) (json.RawMessage, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequest(method, c.baseURL+path, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Device-Id", deviceID)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var envelope apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	if !envelope.Success {
		if envelope.Error != "" {
			return nil, errors.New(envelope.Error)
		}
		return nil, fmt.Errorf("request failed with status %d", resp.StatusCode)
	}
	return envelope.Data, nil
}

func cacheKey(normalizedURL, deviceID string) string {
	return normalizedURL + "|" + deviceID
}
