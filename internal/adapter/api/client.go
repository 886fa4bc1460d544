package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	domainErrors "github.com/keylab/storefront/internal/domain/errors"
)

// TokenSource yields the current bearer credential, empty when anonymous.
type TokenSource interface {
	Token() string
}

// Client talks to the storefront backend REST API. It injects the bearer
// credential on every request and maps response statuses onto the domain
// error taxonomy.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	tokens     TokenSource
	logger     *slog.Logger
}

// New creates a backend client. baseURL must be absolute.
func New(baseURL string, timeout time.Duration, tokens TokenSource, logger *slog.Logger) (*Client, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse api url: %w", err)
	}
	if !parsed.IsAbs() {
		return nil, fmt.Errorf("api url must be absolute")
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: parsed,
		tokens:  tokens,
		logger:  logger,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

// errorBody mirrors the backend's error payload.
type errorBody struct {
	Detail string `json:"detail"`
}

func (c *Client) endpoint(parts ...string) string {
	u := *c.baseURL
	u.Path = path.Join(append([]string{u.Path}, parts...)...)
	return u.String()
}

func jsonBody(v any) (io.Reader, string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, "", err
	}
	return bytes.NewReader(data), "application/json", nil
}

func formBody(values url.Values) (io.Reader, string) {
	return strings.NewReader(values.Encode()), "application/x-www-form-urlencoded"
}

// do performs one round trip and decodes a 2xx response into out when out is
// non-nil. Responses arrive gzip-compressed; the transport decompresses them
// transparently.
func (c *Client) do(ctx context.Context, method, endpoint string, query url.Values, body io.Reader, contentType string, out any) error {
	op := method + " " + endpoint

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return domainErrors.NetworkError{Op: op, Cause: err}
	}
	if query != nil {
		req.URL.RawQuery = query.Encode()
	}
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token := c.tokens.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domainErrors.NetworkError{Op: op, Cause: err}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		if out == nil {
			io.Copy(io.Discard, resp.Body)
			return nil
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return domainErrors.NetworkError{Op: op, Cause: fmt.Errorf("decode response: %w", err)}
		}
		return nil
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		io.Copy(io.Discard, resp.Body)
		return domainErrors.ErrAuthRejected
	case resp.StatusCode == http.StatusNotFound:
		io.Copy(io.Discard, resp.Body)
		return domainErrors.ErrNotFound
	case resp.StatusCode == http.StatusBadRequest || resp.StatusCode == http.StatusUnprocessableEntity:
		return domainErrors.ValidationError{Detail: readDetail(resp.Body)}
	default:
		detail := readDetail(resp.Body)
		c.logger.Error("backend request failed",
			slog.String("op", op),
			slog.Int("status", resp.StatusCode),
			slog.String("detail", detail))
		return domainErrors.NetworkError{Op: op, Cause: fmt.Errorf("unexpected status %s", resp.Status)}
	}
}

func readDetail(r io.Reader) string {
	data, err := io.ReadAll(r)
	if err != nil {
		return ""
	}
	var parsed errorBody
	if err := json.Unmarshal(data, &parsed); err == nil && parsed.Detail != "" {
		return parsed.Detail
	}
	return strings.TrimSpace(string(data))
}
