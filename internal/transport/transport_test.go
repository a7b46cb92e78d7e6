package transport

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mattermost/updatechecker/internal/testlib"
)

func TestHTTPFetcher(t *testing.T) {
	logger := testlib.MakeLogger(t)

	t.Run("success", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "application/json", r.Header.Get("Accept"))
			assert.Equal(t, "updatechecker-test", r.Header.Get("User-Agent"))
			_, _ = w.Write([]byte(`{"version":"1.2"}`))
		}))
		defer server.Close()

		fetcher := NewHTTPFetcher(nil, Options{UserAgent: "updatechecker-test"}, logger)
		result := fetcher.Fetch(context.Background(), server.URL)
		require.False(t, result.Failed())
		assert.Equal(t, http.StatusOK, result.StatusCode)
		assert.Equal(t, `{"version":"1.2"}`, string(result.Body))
	})

	t.Run("client error is not retried", func(t *testing.T) {
		var calls int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&calls, 1)
			w.WriteHeader(http.StatusNotFound)
		}))
		defer server.Close()

		fetcher := NewHTTPFetcher(nil, Options{}, logger)
		result := fetcher.Fetch(context.Background(), server.URL)
		require.False(t, result.Failed())
		assert.Equal(t, http.StatusNotFound, result.StatusCode)
		assert.EqualValues(t, 1, atomic.LoadInt32(&calls))
	})

	t.Run("server error is retried", func(t *testing.T) {
		var calls int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if atomic.AddInt32(&calls, 1) == 1 {
				w.WriteHeader(http.StatusBadGateway)
				return
			}
			_, _ = w.Write([]byte(`{"version":"2.0"}`))
		}))
		defer server.Close()

		fetcher := NewHTTPFetcher(nil, Options{MaxElapsedTime: 10 * time.Second}, logger)
		result := fetcher.Fetch(context.Background(), server.URL)
		require.False(t, result.Failed())
		assert.Equal(t, http.StatusOK, result.StatusCode)
		assert.EqualValues(t, 2, atomic.LoadInt32(&calls))
	})

	t.Run("retries disabled", func(t *testing.T) {
		var calls int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&calls, 1)
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer server.Close()

		fetcher := NewHTTPFetcher(nil, Options{MaxElapsedTime: -1}, logger)
		result := fetcher.Fetch(context.Background(), server.URL)
		require.False(t, result.Failed())
		assert.Equal(t, http.StatusServiceUnavailable, result.StatusCode)
		assert.EqualValues(t, 1, atomic.LoadInt32(&calls))
	})

	t.Run("connection refused", func(t *testing.T) {
		server := httptest.NewServer(http.NotFoundHandler())
		serverURL := server.URL
		server.Close()

		fetcher := NewHTTPFetcher(nil, Options{MaxElapsedTime: -1}, logger)
		result := fetcher.Fetch(context.Background(), serverURL)
		require.True(t, result.Failed())
		assert.Equal(t, ErrorCodeRequest, result.Err.Code)
	})

	t.Run("body too large", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("0123456789"))
		}))
		defer server.Close()

		fetcher := NewHTTPFetcher(nil, Options{MaxBodySize: 4}, logger)
		result := fetcher.Fetch(context.Background(), server.URL)
		require.True(t, result.Failed())
		assert.Equal(t, ErrorCodeBodyTooLarge, result.Err.Code)
	})

	t.Run("invalid url", func(t *testing.T) {
		fetcher := NewHTTPFetcher(nil, Options{}, logger)
		result := fetcher.Fetch(context.Background(), "not a url")
		require.True(t, result.Failed())
		assert.Equal(t, ErrorCodeInvalidURL, result.Err.Code)
	})

	t.Run("allowed hosts", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{}`))
		}))
		defer server.Close()
		serverURL, err := url.Parse(server.URL)
		require.NoError(t, err)

		blocked := NewHTTPFetcher(nil, Options{AllowedHosts: []string{"example.com"}}, logger)
		result := blocked.Fetch(context.Background(), server.URL)
		require.True(t, result.Failed())
		assert.Equal(t, ErrorCodeHostBlocked, result.Err.Code)

		allowed := NewHTTPFetcher(nil, Options{AllowedHosts: []string{serverURL.Hostname()}}, logger)
		result = allowed.Fetch(context.Background(), server.URL)
		require.False(t, result.Failed())
	})
}
