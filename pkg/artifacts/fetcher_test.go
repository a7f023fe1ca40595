package artifacts

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestFetch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<testsuites></testsuites>"))
	}))
	defer server.Close()

	fetcher := NewHTTPFetcher(5*time.Second, 0, nil)
	body, err := fetcher.Fetch(context.Background(), server.URL)
	require.NoError(t, err)
	require.Equal(t, "<testsuites></testsuites>", string(body))
}

func TestFetchReportsStatus(t *testing.T) {
	// 404 is terminal, not retried, so this stays fast
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()

	fetcher := NewHTTPFetcher(5*time.Second, 0, nil)
	_, err := fetcher.Fetch(context.Background(), server.URL+"/missing.xml")

	fetchErr := &FetchError{}
	require.ErrorAs(t, err, &fetchErr)
	require.Equal(t, http.StatusNotFound, fetchErr.StatusCode)
	require.Contains(t, fetchErr.Error(), "/missing.xml")
}

func TestFetchBoundsResponseSize(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(strings.Repeat("x", 2048)))
	}))
	defer server.Close()

	fetcher := NewHTTPFetcher(5*time.Second, 1024, nil)
	_, err := fetcher.Fetch(context.Background(), server.URL)

	fetchErr := &FetchError{}
	require.True(t, errors.As(err, &fetchErr), "expected a *FetchError, got %v", err)
	require.Contains(t, err.Error(), "1024")
}

func TestFetchHonorsContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	fetcher := NewHTTPFetcher(5*time.Second, 0, nil)
	_, err := fetcher.Fetch(ctx, "http://192.0.2.1/unreachable")
	require.Error(t, err)
}
