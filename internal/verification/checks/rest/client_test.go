package rest

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eduvet/internal/verification/checks"
)

func newTestClient(srv *httptest.Server, opts ...Option) *Client {
	opts = append([]Option{
		WithHTTPClient(srv.Client()),
		WithBackoff(time.Millisecond),
	}, opts...)
	return New("test-source", opts...)
}

func TestGetJSONDecodesBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"name":"Acme Training"}`))
	}))
	defer srv.Close()

	var out struct {
		Name string `json:"name"`
	}
	err := newTestClient(srv).GetJSON(context.Background(), srv.URL, nil, &out)
	require.NoError(t, err)
	assert.Equal(t, "Acme Training", out.Name)
}

func TestGetJSONSendsHeaders(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "secret", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	var out map[string]any
	err := newTestClient(srv).GetJSON(context.Background(), srv.URL, map[string]string{"Authorization": "secret"}, &out)
	require.NoError(t, err)
}

func TestServerErrorRetriesUpToLimit(t *testing.T) {
	var calls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	var out map[string]any
	err := newTestClient(srv).GetJSON(context.Background(), srv.URL, nil, &out)
	require.Error(t, err)
	assert.Equal(t, checks.CategoryOutage, checks.CategoryOf(err))
	assert.EqualValues(t, 3, calls.Load())
}

func TestNotFoundIsNotRetried(t *testing.T) {
	var calls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	var out map[string]any
	err := newTestClient(srv).GetJSON(context.Background(), srv.URL, nil, &out)
	require.Error(t, err)
	assert.Equal(t, checks.CategoryNotFound, checks.CategoryOf(err))
	assert.EqualValues(t, 1, calls.Load())
}

func TestAuthFailureIsNotRetried(t *testing.T) {
	var calls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	var out map[string]any
	err := newTestClient(srv).GetJSON(context.Background(), srv.URL, nil, &out)
	require.Error(t, err)
	assert.Equal(t, checks.CategoryAuthentication, checks.CategoryOf(err))
	assert.EqualValues(t, 1, calls.Load())
}

func TestRetrySucceedsAfterTransientFailure(t *testing.T) {
	var calls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	var out map[string]any
	err := newTestClient(srv).GetJSON(context.Background(), srv.URL, nil, &out)
	require.NoError(t, err)
	assert.EqualValues(t, 3, calls.Load())
}

func TestMalformedJSONIsBadData(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{not json`))
	}))
	defer srv.Close()

	var out map[string]any
	err := newTestClient(srv).GetJSON(context.Background(), srv.URL, nil, &out)
	require.Error(t, err)
	assert.Equal(t, checks.CategoryBadData, checks.CategoryOf(err))
}

func TestGetHTMLParsesDocument(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`<html><body><h1>Provider</h1></body></html>`))
	}))
	defer srv.Close()

	doc, err := newTestClient(srv).GetHTML(context.Background(), srv.URL, nil)
	require.NoError(t, err)
	assert.NotNil(t, doc)
}

func TestOpenBreakerFailsFast(t *testing.T) {
	var calls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	breaker := NewBreaker(1, time.Hour)
	client := newTestClient(srv, WithBreaker(breaker))

	var out map[string]any
	err := client.GetJSON(context.Background(), srv.URL, nil, &out)
	require.Error(t, err)
	made := calls.Load()

	err = client.GetJSON(context.Background(), srv.URL, nil, &out)
	require.Error(t, err)
	assert.Equal(t, checks.CategoryOutage, checks.CategoryOf(err))
	assert.Equal(t, made, calls.Load(), "open circuit should not reach the network")
}

func TestBreakerHalfOpenAfterCooldown(t *testing.T) {
	b := NewBreaker(2, 20*time.Millisecond)

	b.RecordFailure()
	assert.True(t, b.Allow())
	b.RecordFailure()
	assert.False(t, b.Allow())

	time.Sleep(30 * time.Millisecond)
	assert.True(t, b.Allow())
}

func TestBreakerSuccessResetsFailures(t *testing.T) {
	b := NewBreaker(2, time.Hour)

	b.RecordFailure()
	b.RecordSuccess()
	b.RecordFailure()
	assert.True(t, b.Allow())
}
