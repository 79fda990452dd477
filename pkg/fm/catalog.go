package fm

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/patrickmn/go-cache"
	"golang.org/x/sync/singleflight"
)

const (
	listTimeout  = 10 * time.Second
	probeTimeout = 5 * time.Second

	entriesKey   = "entries"
	familyPrefix = "family:"
)

// decodeFunc turns a catalog listing body into entries
type decodeFunc func(body io.Reader) ([]CatalogEntry, error)

// Catalog lists a remote font catalog and keeps the first successful result
// in memory for the life of the process. Failed fetches are not cached.
type Catalog struct {
	source   string
	endpoint string
	params   url.Values
	client   *http.Client
	decode   decodeFunc

	store *cache.Cache
	group singleflight.Group
}

func newCatalog(source, endpoint string, params url.Values, client *http.Client, decode decodeFunc) *Catalog {
	return &Catalog{
		source:   source,
		endpoint: endpoint,
		params:   params,
		client:   client,
		decode:   decode,
		store:    cache.New(cache.NoExpiration, 0),
	}
}

// Fetch returns the catalog, listing it over HTTP only on the first
// successful call. Concurrent first calls share one request, which keeps
// running when the caller that started it gives up.
func (c *Catalog) Fetch(ctx context.Context) ([]CatalogEntry, error) {
	if cached, ok := c.store.Get(entriesKey); ok {
		return cached.([]CatalogEntry), nil
	}

	listCtx := context.WithoutCancel(ctx)
	ch := c.group.DoChan(entriesKey, func() (interface{}, error) {
		if cached, ok := c.store.Get(entriesKey); ok {
			return cached, nil
		}
		entries, err := c.list(listCtx)
		if err != nil {
			return nil, err
		}
		for _, e := range entries {
			// First listing of a family wins.
			_ = c.store.Add(familyPrefix+e.Family, e, cache.NoExpiration)
		}
		c.store.Set(entriesKey, entries, cache.NoExpiration)
		return entries, nil
	})

	select {
	case <-ctx.Done():
		return nil, &UnavailableError{Source: c.source, Err: ctx.Err()}
	case res := <-ch:
		if res.Err != nil {
			return nil, &UnavailableError{Source: c.source, Err: res.Err}
		}
		return res.Val.([]CatalogEntry), nil
	}
}

// Lookup resolves a family name to its catalog entry, fetching the catalog
// first if it has not been cached yet
func (c *Catalog) Lookup(ctx context.Context, family string) (CatalogEntry, error) {
	if _, err := c.Fetch(ctx); err != nil {
		return CatalogEntry{}, err
	}
	v, ok := c.store.Get(familyPrefix + family)
	if !ok {
		return CatalogEntry{}, &NotFoundError{Source: c.source, ID: family}
	}
	return v.(CatalogEntry), nil
}

// IsAvailable probes the listing endpoint with a short timeout. It never
// returns an error; any failure reads as unavailable.
func (c *Catalog) IsAvailable(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	resp, err := c.get(ctx)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	return resp.StatusCode == http.StatusOK
}

func (c *Catalog) list(ctx context.Context) ([]CatalogEntry, error) {
	ctx, cancel := context.WithTimeout(ctx, listTimeout)
	defer cancel()

	resp, err := c.get(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing fonts: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	entries, err := c.decode(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}
	return entries, nil
}

func (c *Catalog) get(ctx context.Context) (*http.Response, error) {
	reqURL := c.endpoint
	if len(c.params) > 0 {
		reqURL += "?" + c.params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	return c.client.Do(req)
}
