// Package artifacts retrieves raw CI artifact content over HTTP. Retry
// policy for flaky storage frontends lives here, at the I/O boundary; the
// analysis pipeline above never retries.
package artifacts

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/sirupsen/logrus"
)

// DefaultMaxBytes bounds how large a response body we will buffer.
const DefaultMaxBytes = 20 * 1024 * 1024

// FetchError describes a failure to retrieve an artifact. It always carries
// the URL so the caller can point the operator at the offending artifact
// without exposing transport internals.
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetching %s: unexpected status %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("fetching %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Fetcher retrieves raw artifact content for analysis.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

type httpFetcher struct {
	client   *retryablehttp.Client
	timeout  time.Duration
	maxBytes int64
	log      *logrus.Entry
}

// NewHTTPFetcher builds a Fetcher with a per-request timeout and a bound on
// buffered response size. Transient failures are retried a few times with
// backoff before surfacing as a *FetchError.
func NewHTTPFetcher(timeout time.Duration, maxBytes int64, log *logrus.Entry) Fetcher {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}

	client := retryablehttp.NewClient()
	client.RetryMax = 3
	client.RetryWaitMin = time.Second
	client.RetryWaitMax = 10 * time.Second
	client.Logger = nil

	return &httpFetcher{
		client:   client,
		timeout:  timeout,
		maxBytes: maxBytes,
		log:      log,
	}
}

func (f *httpFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &FetchError{URL: url, Err: err}
	}

	f.log.WithField("url", url).Debug("fetching artifact")
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, &FetchError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, &FetchError{URL: url, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes+1))
	if err != nil {
		return nil, &FetchError{URL: url, Err: err}
	}
	if int64(len(body)) > f.maxBytes {
		return nil, &FetchError{URL: url, Err: fmt.Errorf("response body larger than %d bytes", f.maxBytes)}
	}

	f.log.WithField("url", url).WithField("bytes", len(body)).Debug("fetched artifact")
	return body, nil
}
