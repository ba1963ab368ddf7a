package coreapi

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
)

const defaultTimeout = 30 * time.Second

// Client is the HTTP transport used to deliver confirmations downstream.
type Client struct {
	HttpClient  *http.Client //nolint:staticcheck // API field name
	AccessToken string
}

type Option func(*Client)

// WithAccessToken sends the token as a bearer Authorization header.
func WithAccessToken(token string) Option {
	return func(c *Client) {
		c.AccessToken = token
	}
}

// WithHTTPClient replaces the default TLS client, mostly for tests.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.HttpClient = httpClient
	}
}

// New creates a transport client with the given request timeout.
func New(timeout time.Duration, opts ...Option) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	tr := &http.Transport{
		TLSClientConfig: &tls.Config{
			MinVersion: tls.VersionTLS12,
		},
		MaxIdleConns:       10,
		IdleConnTimeout:    30 * time.Second,
		DisableCompression: true,
	}

	c := &Client{
		HttpClient: &http.Client{
			Transport: tr,
			Timeout:   timeout,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Request sends body as JSON and decodes the JSON object the server answers with.
func (c *Client) Request(ctx context.Context, method, url string, body map[string]any) (map[string]any, error) {
	var reader io.Reader
	if body != nil {
		jsonBody, err := sonic.Marshal(body)
		if err != nil {
			return nil, &TransportError{Method: method, URL: url, Err: fmt.Errorf("encode request body: %w", err)}
		}
		reader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, &TransportError{Method: method, URL: url, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if c.AccessToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.AccessToken)
	}

	resp, err := c.HttpClient.Do(req)
	if err != nil {
		return nil, &TransportError{Method: method, URL: url, Err: err}
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			fmt.Printf("failed to close response body: %v\n", closeErr)
		}
	}()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Method: method, URL: url, StatusCode: resp.StatusCode, Status: resp.Status, Err: err}
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, &TransportError{
			Method:     method,
			URL:        url,
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       string(respBody),
		}
	}

	result := map[string]any{}
	if len(bytes.TrimSpace(respBody)) == 0 {
		return result, nil
	}
	if unmarshalErr := sonic.Unmarshal(respBody, &result); unmarshalErr != nil {
		return nil, &TransportError{
			Method:     method,
			URL:        url,
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       string(respBody),
			Err:        fmt.Errorf("failed to parse response: %w", unmarshalErr),
		}
	}
	if result == nil {
		result = map[string]any{}
	}
	return result, nil
}
