package fm

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/logandonley/fontgrab/internal/platform"
)

// DefaultOutputDir is where fonts are saved when no directory is configured
const DefaultOutputDir = "./fonts"

// Manager routes font operations to the registered sources
type Manager interface {
	// Search queries every available source and maps source names to
	// their non-empty results
	Search(ctx context.Context, query string) map[string][]SearchResult

	// Download saves a font from the named source into dir, or into the
	// default output directory when dir is empty
	Download(ctx context.Context, sourceName, id, dir string) ([]string, error)

	// DownloadFromList downloads every font named in a font list into dir
	DownloadFromList(ctx context.Context, reader io.Reader, dir string) ([]string, error)

	// Install downloads a font into the user font directory and refreshes
	// the system font cache
	Install(ctx context.Context, sourceName, id string) ([]string, error)

	// AvailableSources returns the names of sources that can be reached
	AvailableSources(ctx context.Context) []string

	// RegisterSource adds a new source after the existing ones
	RegisterSource(source Source) error

	// List returns the fonts already downloaded into dir
	List(ctx context.Context, dir string) ([]DownloadedFont, error)

	// Remove deletes a downloaded family from dir
	Remove(ctx context.Context, family, dir string) ([]string, error)
}

// DefaultManager provides the standard font management implementation
type DefaultManager struct {
	mu        sync.RWMutex
	sources   []Source
	outputDir string
	platform  platform.Manager
	log       logrus.FieldLogger
}

// Option configures a DefaultManager
type Option func(*managerOptions)

type managerOptions struct {
	outputDir     string
	platform      platform.Manager
	log           logrus.FieldLogger
	sourceOptions []SourceOption
}

// WithOutputDir sets the default download directory
func WithOutputDir(dir string) Option {
	return func(o *managerOptions) { o.outputDir = dir }
}

// WithPlatform replaces the platform used for installs
func WithPlatform(p platform.Manager) Option {
	return func(o *managerOptions) { o.platform = p }
}

// WithLogger sets the logger for the manager and the sources it creates
func WithLogger(log logrus.FieldLogger) Option {
	return func(o *managerOptions) { o.log = log }
}

// WithGoogleFontsOptions passes options to the built-in Google Fonts source
func WithGoogleFontsOptions(opts ...SourceOption) Option {
	return func(o *managerOptions) { o.sourceOptions = append(o.sourceOptions, opts...) }
}

// NewManager creates a manager whose first source is Google Fonts,
// authenticated with apiKey when it is not empty
func NewManager(apiKey string, opts ...Option) *DefaultManager {
	o := managerOptions{
		outputDir: DefaultOutputDir,
		log:       logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.platform == nil {
		o.platform = platform.New()
	}

	sourceOpts := append([]SourceOption{WithSourceLogger(o.log)}, o.sourceOptions...)
	m := newManager(o)
	m.sources = append(m.sources, NewGoogleFontsSource(apiKey, sourceOpts...))
	return m
}

// NewManagerWithSources creates a manager holding exactly the given sources
func NewManagerWithSources(sources []Source, opts ...Option) (*DefaultManager, error) {
	o := managerOptions{
		outputDir: DefaultOutputDir,
		log:       logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.platform == nil {
		o.platform = platform.New()
	}

	m := newManager(o)
	for _, s := range sources {
		if err := m.RegisterSource(s); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func newManager(o managerOptions) *DefaultManager {
	return &DefaultManager{
		outputDir: o.outputDir,
		platform:  o.platform,
		log:       o.log,
	}
}

// OutputDir returns the default download directory
func (m *DefaultManager) OutputDir() string {
	return m.outputDir
}

// RegisterSource adds a new source to search for fonts
func (m *DefaultManager) RegisterSource(source Source) error {
	// Check if source is nil
	if source == nil {
		return fmt.Errorf("cannot register nil source")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	// Check for duplicate sources
	for _, existing := range m.sources {
		if existing.Name() == source.Name() {
			return fmt.Errorf("source %q is already registered", source.Name())
		}
	}

	m.sources = append(m.sources, source)
	return nil
}

// Sources returns the registered sources in registration order
func (m *DefaultManager) Sources() []Source {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]Source(nil), m.sources...)
}

func (m *DefaultManager) Search(ctx context.Context, query string) map[string][]SearchResult {
	results := make(map[string][]SearchResult)

	for _, source := range m.Sources() {
		if !source.IsAvailable(ctx) {
			m.log.WithField("source", source.Name()).Debug("Skipping unavailable source")
			continue
		}

		matches, err := source.Search(ctx, query)
		if err != nil {
			m.log.WithFields(logrus.Fields{
				"source": source.Name(),
				"error":  err,
			}).Warn("Error searching source")
			continue
		}
		if len(matches) > 0 {
			results[source.Name()] = matches
		}
	}

	return results
}

func (m *DefaultManager) Download(ctx context.Context, sourceName, id, dir string) ([]string, error) {
	source, err := m.source(sourceName)
	if err != nil {
		return nil, err
	}

	if dir == "" {
		dir = m.outputDir
	}
	return source.Download(ctx, id, dir)
}

func (m *DefaultManager) Install(ctx context.Context, sourceName, id string) ([]string, error) {
	source, err := m.source(sourceName)
	if err != nil {
		return nil, err
	}

	paths, err := m.platform.GetFontPaths()
	if err != nil {
		return nil, fmt.Errorf("getting font paths: %w", err)
	}

	files, err := source.Download(ctx, id, filepath.Join(paths.UserDir, sanitizeFontName(id)))
	if err != nil {
		return nil, err
	}

	// The files are in place even if the cache refresh fails
	if err := m.platform.UpdateFontCache(); err != nil {
		m.log.WithError(err).Warn("Failed to update font cache")
	}
	return files, nil
}

func (m *DefaultManager) AvailableSources(ctx context.Context) []string {
	var names []string
	for _, source := range m.Sources() {
		if source.IsAvailable(ctx) {
			names = append(names, source.Name())
		}
	}
	return names
}

func (m *DefaultManager) List(_ context.Context, dir string) ([]DownloadedFont, error) {
	if dir == "" {
		dir = m.outputDir
	}
	return ListDownloaded(dir)
}

func (m *DefaultManager) Remove(_ context.Context, family, dir string) ([]string, error) {
	if dir == "" {
		dir = m.outputDir
	}
	return RemoveDownloaded(dir, family)
}

func (m *DefaultManager) source(name string) (Source, error) {
	for _, source := range m.Sources() {
		if source.Name() == name {
			return source, nil
		}
	}
	return nil, &SourceNotFoundError{Name: name}
}

var _ Manager = (*DefaultManager)(nil)
