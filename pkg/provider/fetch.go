package provider

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/tilewright/tilewright/pkg/errors"
	"github.com/tilewright/tilewright/pkg/httputil"
)

// DefaultCatalogURL is where "tilewright providers refresh" fetches the
// current catalog from.
const DefaultCatalogURL = "https://raw.githubusercontent.com/tilewright/provider-catalog/main/providers.toml"

const cacheKeyCatalog = "catalog"

// Fetcher refreshes the provider catalog from a remote source, caching the
// raw document so repeated CLI invocations stay offline.
type Fetcher struct {
	url    string
	client *http.Client
	cache  *httputil.Cache
}

// NewFetcher creates a fetcher for the catalog at url. An empty url selects
// [DefaultCatalogURL]; a nil cache disables caching.
func NewFetcher(url string, cache *httputil.Cache) *Fetcher {
	if url == "" {
		url = DefaultCatalogURL
	}
	return &Fetcher{
		url:    url,
		client: &http.Client{Timeout: 30 * time.Second},
		cache:  cache,
	}
}

// Fetch returns a registry built from the remote catalog, preferring a
// fresh cache entry. The raw TOML is returned alongside so callers can
// persist it. Transient failures (network errors, 5xx) are retried with
// backoff; a stale cache entry is only replaced after the fresh document
// parses.
func (f *Fetcher) Fetch(ctx context.Context) (*Registry, []byte, error) {
	if f.cache != nil {
		var data []byte
		ok, err := f.cache.Get(cacheKeyCatalog, &data)
		if err != nil && err != httputil.ErrExpired {
			return nil, nil, err
		}
		if ok {
			r, err := Load(data)
			if err == nil {
				return r, data, nil
			}
			// Corrupt cache entry, fall through to the network.
		}
	}

	var data []byte
	err := httputil.RetryWithBackoff(ctx, func() error {
		var err error
		data, err = f.download(ctx)
		return err
	})
	if err != nil {
		return nil, nil, err
	}

	r, err := Load(data)
	if err != nil {
		return nil, nil, err
	}

	if f.cache != nil {
		if err := f.cache.Set(cacheKeyCatalog, data); err != nil {
			return nil, nil, err
		}
	}
	return r, data, nil
}

func (f *Fetcher) download(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, nil)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "building catalog request")
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, httputil.Retryable(
			errors.Wrap(errors.ErrCodeNetwork, err, "fetching provider catalog"))
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 500:
		return nil, httputil.Retryable(errors.New(errors.ErrCodeNetwork,
			"catalog server returned %s", resp.Status))
	case resp.StatusCode != http.StatusOK:
		return nil, errors.New(errors.ErrCodeNetwork,
			"fetching provider catalog from %s: %s", f.url, resp.Status)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, httputil.Retryable(
			errors.Wrap(errors.ErrCodeNetwork, err, "reading provider catalog"))
	}
	return data, nil
}

// Invalidate drops the cached catalog so the next Fetch hits the network.
func (f *Fetcher) Invalidate() error {
	if f.cache == nil {
		return nil
	}
	return f.cache.Delete(cacheKeyCatalog)
}

// String describes the fetcher's source for log output.
func (f *Fetcher) String() string { return fmt.Sprintf("catalog(%s)", f.url) }
