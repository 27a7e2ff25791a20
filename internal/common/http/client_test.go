package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDoWithContext_RetriesServerErrors(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`{"status":"ok"}`))
	}))
	defer srv.Close()

	c := NewClient(time.Second, WithRetry(3, time.Millisecond))
	req, _ := http.NewRequest(http.MethodGet, srv.URL, nil)

	resp, err := c.DoWithContext(context.Background(), req)
	require.NoError(t, err)

	var body map[string]string
	require.NoError(t, DecodeJSON(resp, &body))
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestDoWithContext_ReturnsLastServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(time.Second, WithRetry(2, time.Millisecond))
	req, _ := http.NewRequest(http.MethodGet, srv.URL, nil)

	resp, err := c.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
}

func TestDoWithContext_DoesNotRetryClientErrors(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	c := NewClient(time.Second, WithRetry(5, time.Millisecond))
	req, _ := http.NewRequest(http.MethodPost, srv.URL, nil)

	resp, err := c.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestDoWithContext_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	c := NewClient(time.Second, WithRetry(2, time.Millisecond))
	req, _ := http.NewRequest(http.MethodGet, url, nil)

	_, err := c.Do(req)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "after 2 attempts")
}

func TestDoWithContext_DoesNotRetryMutations(t *testing.T) {
	for _, method := range []string{http.MethodPost, http.MethodDelete} {
		t.Run(method, func(t *testing.T) {
			var calls int32
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				atomic.AddInt32(&calls, 1)
				w.WriteHeader(http.StatusServiceUnavailable)
			}))
			defer srv.Close()

			c := NewClient(time.Second, WithRetry(3, time.Millisecond))
			req, _ := http.NewRequest(method, srv.URL, nil)

			resp, err := c.Do(req)
			require.NoError(t, err)
			resp.Body.Close()
			assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
			assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
		})
	}
}

func TestDoWithContext_DroppedConnectionOnPostIsNotResent(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		conn, _, err := w.(http.Hijacker).Hijack()
		require.NoError(t, err)
		conn.Close()
	}))
	defer srv.Close()

	c := NewClient(time.Second, WithRetry(3, time.Millisecond))
	req, _ := http.NewRequest(http.MethodPost, srv.URL, nil)

	_, err := c.Do(req)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "after 1 attempts")
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}
