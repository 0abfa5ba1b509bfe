package services

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trobanga/medboard/internal/lib"
	"github.com/trobanga/medboard/internal/models"
)

func fastRetry(maxAttempts int) models.RetryConfig {
	return models.RetryConfig{MaxAttempts: maxAttempts, InitialBackoffMs: 1, MaxBackoffMs: 5}
}

func TestHTTPClient_Get(t *testing.T) {
	tests := []struct {
		name          string
		statuses      []int
		maxAttempts   int
		expectStatus  int
		expectedCalls int32
	}{
		{"success first try", []int{200}, 3, 200, 1},
		{"retries 503 until success", []int{503, 503, 200}, 3, 200, 3},
		{"retries 429", []int{429, 200}, 3, 200, 2},
		{"does not retry 404", []int{404, 200}, 3, 404, 1},
		{"does not retry 400", []int{400}, 3, 400, 1},
		{"stops at max attempts", []int{500, 500, 500, 200}, 3, 500, 3},
		{"single attempt", []int{503, 200}, 1, 503, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls int32
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				n := atomic.AddInt32(&calls, 1)
				idx := int(n) - 1
				if idx >= len(tt.statuses) {
					idx = len(tt.statuses) - 1
				}
				w.WriteHeader(tt.statuses[idx])
			}))
			defer server.Close()

			client := NewHTTPClient(5*time.Second, fastRetry(tt.maxAttempts), lib.NewLogger(lib.LogLevelError))
			resp, err := client.Get(context.Background(), server.URL)

			require.NoError(t, err)
			assert.Equal(t, tt.expectStatus, resp.StatusCode())
			assert.Equal(t, tt.expectedCalls, atomic.LoadInt32(&calls))
		})
	}
}

func TestHTTPClient_Get_SendsAcceptHeader(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewHTTPClient(5*time.Second, fastRetry(1), lib.NewLogger(lib.LogLevelError))
	_, err := client.Get(context.Background(), server.URL)

	require.NoError(t, err)
}

func TestHTTPClient_Get_LogsRetries(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	var buf bytes.Buffer
	client := NewHTTPClient(5*time.Second, fastRetry(3), lib.NewLoggerWithWriter(lib.LogLevelDebug, &buf))
	_, err := client.Get(context.Background(), server.URL)

	require.NoError(t, err)
	assert.True(t, strings.Contains(buf.String(), "Retry attempt"), buf.String())
}

func TestHTTPClient_Get_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewHTTPClient(20*time.Millisecond, fastRetry(1), lib.NewLogger(lib.LogLevelError))
	_, err := client.Get(context.Background(), server.URL)

	require.Error(t, err)
	assert.True(t, lib.IsTimeoutError(err))
}
