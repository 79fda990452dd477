package fm

import (
	"context"
)

// CatalogSource is a Source backed by a remote catalog listing. Searches
// rank the cached catalog and downloads resolve ids against it.
type CatalogSource struct {
	name       string
	catalog    *Catalog
	downloader *Downloader
}

func (s *CatalogSource) Name() string {
	return s.name
}

func (s *CatalogSource) Search(ctx context.Context, query string) ([]SearchResult, error) {
	entries, err := s.catalog.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	return Match(query, entries), nil
}

func (s *CatalogSource) Download(ctx context.Context, id, dir string) ([]string, error) {
	entry, err := s.catalog.Lookup(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.downloader.Download(ctx, entry, dir)
}

func (s *CatalogSource) IsAvailable(ctx context.Context) bool {
	return s.catalog.IsAvailable(ctx)
}
