package remote

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

// HTTPClient talks to the Villa store server over HTTP/JSON.
type HTTPClient struct {
	baseURL string
	http    *http.Client
}

func NewHTTPClient(baseURL string) *HTTPClient {
	return &HTTPClient{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

type challengeRequest struct {
	Address string `json:"address"`
}

type challengeResponse struct {
	Challenge string `json:"challenge"`
}

type sessionRequest struct {
	Address   string `json:"address"`
	Challenge string `json:"challenge"`
	Signature []byte `json:"signature"`
	PublicKey []byte `json:"publicKey"`
}

type sessionResponse struct {
	AccessToken string `json:"accessToken"`
}

type presignResponse struct {
	Key string `json:"key"`
	URL string `json:"url"`
}

func (c *HTTPClient) GenerateChallenge(ctx context.Context, address string) (string, error) {
	var resp challengeResponse
	err := c.postJSON(ctx, "", "/v1/auth/challenge", challengeRequest{Address: address}, &resp)
	if err != nil {
		return "", err
	}
	return resp.Challenge, nil
}

func (c *HTTPClient) ExchangeSignature(ctx context.Context, address, challenge string, signature, publicKey []byte) (string, error) {
	req := sessionRequest{
		Address:   address,
		Challenge: challenge,
		Signature: signature,
		PublicKey: publicKey,
	}
	var resp sessionResponse
	if err := c.postJSON(ctx, "", "/v1/auth/session", req, &resp); err != nil {
		return "", err
	}
	return resp.AccessToken, nil
}

func (c *HTTPClient) Put(ctx context.Context, token, key string, value []byte) error {
	req, err := c.newRequest(ctx, token, http.MethodPut, c.storePath(key), bytes.NewReader(value))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("remote put failed: %w", err)
	}
	defer resp.Body.Close()
	return statusError(resp)
}

func (c *HTTPClient) Get(ctx context.Context, token, key string) ([]byte, error) {
	req, err := c.newRequest(ctx, token, http.MethodGet, c.storePath(key), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("remote get failed: %w", err)
	}
	defer resp.Body.Close()

	if err := statusError(resp); err != nil {
		return nil, err
	}
	return io.ReadAll(resp.Body)
}

func (c *HTTPClient) Delete(ctx context.Context, token, key string) error {
	req, err := c.newRequest(ctx, token, http.MethodDelete, c.storePath(key), nil)
	if err != nil {
		return err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("remote delete failed: %w", err)
	}
	defer resp.Body.Close()
	return statusError(resp)
}

func (c *HTTPClient) PresignAvatarUpload(ctx context.Context, token string) (string, string, error) {
	var resp presignResponse
	if err := c.postJSON(ctx, token, "/v1/store/presign", struct{}{}, &resp); err != nil {
		return "", "", err
	}
	return resp.Key, resp.URL, nil
}

func (c *HTTPClient) storePath(key string) string {
	return "/v1/store/" + url.PathEscape(key)
}

func (c *HTTPClient) newRequest(ctx context.Context, token, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	if token != "" {
		req.Header.Set(common.AccessTokenHeaderName, "Bearer "+token)
	}
	return req, nil
}

func (c *HTTPClient) postJSON(ctx context.Context, token, path string, in, out any) error {
	payload, err := json.Marshal(in)
	if err != nil {
		return err
	}

	req, err := c.newRequest(ctx, token, http.MethodPost, path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("remote call failed: %w", err)
	}
	defer resp.Body.Close()

	if err := statusError(resp); err != nil {
		return err
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// statusError maps HTTP statuses onto the shared sentinels so callers can use
// errors.Is regardless of transport.
func statusError(resp *http.Response) error {
	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return nil
	case resp.StatusCode == http.StatusNotFound:
		return common.ErrNotFound
	case resp.StatusCode == http.StatusUnauthorized:
		return common.ErrUnauthorized
	default:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("remote store: unexpected status %d: %s", resp.StatusCode, body)
	}
}
