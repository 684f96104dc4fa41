// Package fetch retrieves repository page documents over HTTP with a
// bounded worker pool. Fetches are best-effort: a timeout or non-200
// response drops the document, it is never retried.
package fetch

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"

	"github.com/Delta-Kronecker/V2Ray-GitHunter/internal/cache"
)

const browserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) " +
	"AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

// Fetcher retrieves single documents by URL.
type Fetcher struct {
	client  *resty.Client
	cache   *cache.Cache
	log     zerolog.Logger
	timeout time.Duration
}

// NewFetcher creates a Fetcher with the given per-request timeout. cache
// may be nil to disable caching.
func NewFetcher(timeout time.Duration, c *cache.Cache, log zerolog.Logger) *Fetcher {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	client := resty.New().SetHeader("User-Agent", browserUserAgent)

	return &Fetcher{
		client:  client,
		cache:   c,
		log:     log,
		timeout: timeout,
	}
}

// FetchPage returns the document body at url, consulting the raw cache
// first. Non-200 responses are errors.
func (f *Fetcher) FetchPage(ctx context.Context, url string) (string, error) {
	if f.cache != nil {
		if body, hit := f.cache.GetRaw(url); hit {
			f.log.Debug().Str("url", url).Msg("page cache hit")
			return body, nil
		}
	}

	fetchCtx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	resp, err := f.client.R().SetContext(fetchCtx).Get(url)
	if err != nil {
		return "", err
	}

	if resp.IsError() {
		return "", fmt.Errorf("fetch %s: HTTP %s", url, resp.Status())
	}

	body := string(resp.Body())

	if f.cache != nil {
		if err := f.cache.PutRaw(url, body); err != nil {
			f.log.Warn().Err(err).Str("url", url).Msg("failed to cache page")
		}
	}

	return body, nil
}
