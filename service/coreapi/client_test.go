package coreapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequest(t *testing.T) {
	tests := []struct {
		name             string
		responseStatus   int
		responseBody     string
		expectError      bool
		expectStatusCode int
		expectedResponse map[string]any
	}{
		{
			name:             "Success - 200 OK",
			responseStatus:   http.StatusOK,
			responseBody:     `{"status":"ok","ResultCode":0}`,
			expectedResponse: map[string]any{"status": "ok", "ResultCode": float64(0)},
		},
		{
			name:             "Success - empty body",
			responseStatus:   http.StatusNoContent,
			responseBody:     "",
			expectedResponse: map[string]any{},
		},
		{
			name:             "Error - 500 Server Error",
			responseStatus:   http.StatusInternalServerError,
			responseBody:     `{"error":"Internal server error"}`,
			expectError:      true,
			expectStatusCode: http.StatusInternalServerError,
		},
		{
			name:             "Error - 401 Unauthorized",
			responseStatus:   http.StatusUnauthorized,
			responseBody:     `{"error":"Invalid credentials"}`,
			expectError:      true,
			expectStatusCode: http.StatusUnauthorized,
		},
		{
			name:             "Error - invalid JSON",
			responseStatus:   http.StatusOK,
			responseBody:     `not json`,
			expectError:      true,
			expectStatusCode: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := map[string]any{"TransID": "T1", "TransAmount": "100.00"}

			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodPost, r.Method)
				assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
				assert.NotEmpty(t, r.Header.Get("X-Request-ID"))
				assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))

				var received map[string]any
				err := json.NewDecoder(r.Body).Decode(&received)
				assert.NoError(t, err)
				assert.Equal(t, body, received)

				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.responseStatus)
				_, err = w.Write([]byte(tt.responseBody))
				assert.NoError(t, err)
			}))
			defer server.Close()

			client := New(time.Second, WithHTTPClient(server.Client()), WithAccessToken("test-token"))

			response, err := client.Request(context.Background(), http.MethodPost, server.URL, body)

			if tt.expectError {
				require.Error(t, err)
				assert.Nil(t, response)

				var terr *TransportError
				require.True(t, errors.As(err, &terr))
				assert.Equal(t, tt.expectStatusCode, terr.StatusCode)
				assert.True(t, terr.HasStatus())
				assert.Equal(t, server.URL, terr.URL)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.expectedResponse, response)
			}
		})
	}
}

func TestRequestConnectivityFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	url := server.URL
	server.Close()

	client := New(time.Second)
	response, err := client.Request(context.Background(), http.MethodPost, url, map[string]any{"a": "b"})

	require.Error(t, err)
	assert.Nil(t, response)

	var terr *TransportError
	require.True(t, errors.As(err, &terr))
	assert.False(t, terr.HasStatus())
	assert.Error(t, terr.Unwrap())
}

func TestRequestHonoursContextCancellation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := New(time.Second, WithHTTPClient(server.Client()))
	_, err := client.Request(ctx, http.MethodPost, server.URL, nil)

	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRequestMalformedURL(t *testing.T) {
	client := New(0)
	_, err := client.Request(context.Background(), http.MethodPost, "://bad url", map[string]any{})

	var terr *TransportError
	require.True(t, errors.As(err, &terr))
	assert.False(t, terr.HasStatus())
}
