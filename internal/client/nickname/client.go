// Package nickname is the HTTP client for the nickname service: lookup by
// address, availability checks, and claims. The auth flow treats every call
// here as best-effort; a failing lookup or claim degrades, it never blocks.
package nickname

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/villa-app/villa/internal/common"
)

// Directory is the nickname-service surface the auth flow consumes.
type Directory interface {
	// Lookup returns the nickname claimed by address, or "" when none.
	Lookup(ctx context.Context, address string) (string, error)

	// Check reports whether nickname is available, with an optional
	// alternative suggestion when it is not.
	Check(ctx context.Context, nickname string) (bool, string, error)

	// Claim registers nickname for address. Claiming the same pair again is
	// idempotent.
	Claim(ctx context.Context, address, nickname string) error
}

// Client talks to the nickname service over HTTP/JSON.
type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

type lookupResponse struct {
	Nickname string `json:"nickname,omitempty"`
}

type checkResponse struct {
	Available  bool   `json:"available"`
	Suggestion string `json:"suggestion,omitempty"`
}

type claimRequest struct {
	Address  string `json:"address"`
	Nickname string `json:"nickname"`
}

func (c *Client) Lookup(ctx context.Context, address string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/v1/nicknames/address/"+url.PathEscape(address), nil)
	if err != nil {
		return "", err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("nickname lookup failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return "", nil
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("nickname lookup: unexpected status %d", resp.StatusCode)
	}

	var body lookupResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", err
	}
	return body.Nickname, nil
}

func (c *Client) Check(ctx context.Context, nickname string) (bool, string, error) {
	u := c.baseURL + "/v1/nicknames/check?nickname=" + url.QueryEscape(nickname)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return false, "", err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return false, "", fmt.Errorf("nickname check failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false, "", fmt.Errorf("nickname check: unexpected status %d", resp.StatusCode)
	}

	var body checkResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return false, "", err
	}
	return body.Available, body.Suggestion, nil
}

func (c *Client) Claim(ctx context.Context, address, nickname string) error {
	payload, err := json.Marshal(claimRequest{Address: address, Nickname: nickname})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/v1/nicknames/claim", bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("nickname claim failed: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated:
		return nil
	case http.StatusConflict:
		return common.ErrNicknameTaken
	default:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("nickname claim: unexpected status %d: %s", resp.StatusCode, body)
	}
}
