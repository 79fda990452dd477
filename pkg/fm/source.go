package fm

import (
	"context"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

// CatalogEntry is one font family as listed by a remote catalog
type CatalogEntry struct {
	Family   string            // Family name, unique within one catalog fetch
	Variants []string          // Variant labels in catalog order
	Files    map[string]string // Variant label -> file URL
}

// SearchResult is a ranked match returned by a source search
type SearchResult struct {
	Name       string   // Display name of the family
	Variants   []string // Variant labels available for download
	SourceID   string   // Opaque identifier accepted by the source's Download
	PreviewURL string   // Optional preview, empty when the source has none
	Score      int      // Match score from 0 to 100
}

// Source defines how to interact with a font source
type Source interface {
	// Name returns the identifier for this source
	Name() string

	// Search returns the best catalog matches for the query
	Search(ctx context.Context, query string) ([]SearchResult, error)

	// Download saves every variant of the font identified by id into dir
	// and returns the written file paths
	Download(ctx context.Context, id, dir string) ([]string, error)

	// IsAvailable reports whether the source can currently be reached
	IsAvailable(ctx context.Context) bool
}

const userAgent = "fontgrab/1.0"

// Common HTTP client with reasonable defaults
var defaultClient = &http.Client{
	Timeout: 30 * time.Second,
	Transport: &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 100,
		IdleConnTimeout:     90 * time.Second,
	},
}

// SourceOption configures a catalog-backed source
type SourceOption func(*sourceOptions)

type sourceOptions struct {
	endpoint string
	cdn      string
	client   *http.Client
	log      logrus.FieldLogger
}

// WithEndpoint overrides the catalog listing URL
func WithEndpoint(endpoint string) SourceOption {
	return func(o *sourceOptions) { o.endpoint = endpoint }
}

// WithFileBaseURL overrides the base URL font files are fetched from, for
// sources that build file URLs themselves
func WithFileBaseURL(base string) SourceOption {
	return func(o *sourceOptions) { o.cdn = base }
}

// WithHTTPClient replaces the shared HTTP client
func WithHTTPClient(client *http.Client) SourceOption {
	return func(o *sourceOptions) { o.client = client }
}

// WithSourceLogger sets the logger used for per-variant warnings
func WithSourceLogger(log logrus.FieldLogger) SourceOption {
	return func(o *sourceOptions) { o.log = log }
}

func newSourceOptions(endpoint, cdn string, opts []SourceOption) sourceOptions {
	o := sourceOptions{
		endpoint: endpoint,
		cdn:      cdn,
		client:   defaultClient,
		log:      logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
