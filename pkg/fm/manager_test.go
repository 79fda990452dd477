package fm_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/logandonley/fontgrab/internal/platform"
	"github.com/logandonley/fontgrab/pkg/fm"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

// Mock platform implementation for testing
type mockPlatform struct {
	fontDir      string
	cacheUpdates int
	cacheErr     error
}

func (m *mockPlatform) GetFontPaths() (platform.FontPaths, error) {
	return platform.FontPaths{
		SystemDir: filepath.Join(m.fontDir, "system"),
		UserDir:   filepath.Join(m.fontDir, "user"),
	}, nil
}

func (m *mockPlatform) UpdateFontCache() error {
	m.cacheUpdates++
	return m.cacheErr
}

// Mock font source for testing
type mockSource struct {
	name      string
	available bool
	results   map[string][]fm.SearchResult // query -> results
	failures  map[string]error             // query or id -> error

	mu        sync.Mutex
	searches  int
	downloads []string // dirs passed to Download
}

func newMockSource(name string) *mockSource {
	return &mockSource{
		name:      name,
		available: true,
		results:   make(map[string][]fm.SearchResult),
		failures:  make(map[string]error),
	}
}

func (s *mockSource) withResult(query string, names ...string) *mockSource {
	for _, n := range names {
		s.results[query] = append(s.results[query], fm.SearchResult{
			Name:     n,
			Variants: []string{"regular"},
			SourceID: n,
			Score:    100,
		})
	}
	return s
}

func (s *mockSource) Name() string {
	return s.name
}

func (s *mockSource) IsAvailable(context.Context) bool {
	return s.available
}

func (s *mockSource) Search(_ context.Context, query string) ([]fm.SearchResult, error) {
	s.mu.Lock()
	s.searches++
	s.mu.Unlock()

	if err, exists := s.failures[query]; exists {
		return nil, err
	}
	return s.results[query], nil
}

func (s *mockSource) Download(_ context.Context, id, dir string) ([]string, error) {
	s.mu.Lock()
	s.downloads = append(s.downloads, dir)
	s.mu.Unlock()

	if err, exists := s.failures[id]; exists {
		return nil, err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	path := filepath.Join(dir, fmt.Sprintf("%s_regular.ttf", id))
	if err := os.WriteFile(path, []byte("fake ttf content"), 0644); err != nil {
		return nil, err
	}
	return []string{path}, nil
}

var _ = Describe("Font Manager", func() {
	var (
		tempDir string
		plat    *mockPlatform
		ctx     context.Context
	)

	BeforeEach(func() {
		tempDir = GinkgoT().TempDir()
		plat = &mockPlatform{fontDir: tempDir}
		ctx = context.Background()
	})

	newManager := func(sources ...fm.Source) *fm.DefaultManager {
		manager, err := fm.NewManagerWithSources(sources,
			fm.WithPlatform(plat),
			fm.WithOutputDir(filepath.Join(tempDir, "fonts")),
			fm.WithLogger(quietLogger()),
		)
		Expect(err).NotTo(HaveOccurred())
		return manager
	}

	Describe("Registering sources", func() {
		It("should start with Google Fonts", func() {
			manager := fm.NewManager("", fm.WithPlatform(plat), fm.WithLogger(quietLogger()))
			Expect(manager.Sources()).NotTo(BeEmpty())
			Expect(manager.Sources()[0].Name()).To(Equal(fm.GoogleFontsName))
			Expect(manager.OutputDir()).To(Equal(fm.DefaultOutputDir))
		})

		It("should keep registration order", func() {
			manager := newManager(newMockSource("first"))
			Expect(manager.RegisterSource(newMockSource("second"))).To(Succeed())

			var names []string
			for _, s := range manager.Sources() {
				names = append(names, s.Name())
			}
			Expect(names).To(Equal([]string{"first", "second"}))
		})

		It("should reject nil and duplicate sources", func() {
			manager := newManager(newMockSource("first"))
			Expect(manager.RegisterSource(nil)).NotTo(Succeed())

			err := manager.RegisterSource(newMockSource("first"))
			Expect(err).To(MatchError(ContainSubstring("already registered")))
		})
	})

	Describe("Searching", func() {
		It("should map each source to its results", func() {
			a := newMockSource("a").withResult("roboto", "Roboto", "Roboto Mono")
			b := newMockSource("b").withResult("roboto", "Roboto Slab")
			manager := newManager(a, b)

			results := manager.Search(ctx, "roboto")
			Expect(results).To(HaveLen(2))
			Expect(results["a"]).To(HaveLen(2))
			Expect(results["b"][0].Name).To(Equal("Roboto Slab"))
		})

		It("should return an empty mapping when the only source is unavailable", func() {
			offline := newMockSource("offline").withResult("Roboto", "Roboto")
			offline.available = false
			manager := newManager(offline)

			results := manager.Search(ctx, "Roboto")
			Expect(results).NotTo(BeNil())
			Expect(results).To(BeEmpty())
			Expect(offline.searches).To(BeZero())
		})

		It("should keep searching after one source fails", func() {
			broken := newMockSource("broken")
			broken.failures["roboto"] = &fm.UnavailableError{Source: "broken", Err: errors.New("timeout")}
			working := newMockSource("working").withResult("roboto", "Roboto")
			manager := newManager(broken, working)

			results := manager.Search(ctx, "roboto")
			Expect(results).To(HaveKey("working"))
			Expect(results).NotTo(HaveKey("broken"))
		})

		It("should leave out sources without matches", func() {
			empty := newMockSource("empty")
			full := newMockSource("full").withResult("inter", "Inter")
			manager := newManager(empty, full)

			results := manager.Search(ctx, "inter")
			Expect(results).To(HaveLen(1))
			Expect(results).NotTo(HaveKey("empty"))
		})
	})

	Describe("Downloading", func() {
		It("should fail for an unknown source", func() {
			manager := newManager(newMockSource(fm.GoogleFontsName))

			_, err := manager.Download(ctx, "Unknown Source", "Roboto", "")
			var notFound *fm.SourceNotFoundError
			Expect(errors.As(err, &notFound)).To(BeTrue())
			Expect(notFound.Name).To(Equal("Unknown Source"))
		})

		It("should use the configured directory when none is given", func() {
			source := newMockSource("mock")
			manager := newManager(source)

			paths, err := manager.Download(ctx, "mock", "Roboto", "")
			Expect(err).NotTo(HaveOccurred())
			Expect(source.downloads).To(Equal([]string{filepath.Join(tempDir, "fonts")}))
			Expect(paths[0]).To(BeARegularFile())
		})

		It("should prefer an explicit directory", func() {
			source := newMockSource("mock")
			manager := newManager(source)
			custom := filepath.Join(tempDir, "custom")

			_, err := manager.Download(ctx, "mock", "Roboto", custom)
			Expect(err).NotTo(HaveOccurred())
			Expect(source.downloads).To(Equal([]string{custom}))
		})

		It("should pass source errors through", func() {
			source := newMockSource("mock")
			source.failures["Roboto"] = &fm.AllVariantsFailedError{Family: "Roboto"}
			manager := newManager(source)

			_, err := manager.Download(ctx, "mock", "Roboto", "")
			var allFailed *fm.AllVariantsFailedError
			Expect(errors.As(err, &allFailed)).To(BeTrue())
		})

		It("should work end to end against the Google Fonts source", func() {
			server := newCatalogServer(testFamily{family: "Roboto", variants: []string{"regular", "700"}, format: "ttf"})
			defer server.Close()

			manager := fm.NewManager("",
				fm.WithPlatform(plat),
				fm.WithLogger(quietLogger()),
				fm.WithOutputDir(filepath.Join(tempDir, "fonts")),
				fm.WithGoogleFontsOptions(fm.WithEndpoint(server.endpoint()), fm.WithHTTPClient(server.Client())),
			)

			results := manager.Search(ctx, "Robot")
			Expect(results).To(HaveKey(fm.GoogleFontsName))
			hit := results[fm.GoogleFontsName][0]

			paths, err := manager.Download(ctx, fm.GoogleFontsName, hit.SourceID, "")
			Expect(err).NotTo(HaveOccurred())
			Expect(paths).To(HaveLen(2))
		})
	})

	Describe("Installing", func() {
		It("should download into the user font directory and refresh the cache", func() {
			manager := newManager(newMockSource("mock"))

			paths, err := manager.Install(ctx, "mock", "Open Sans")
			Expect(err).NotTo(HaveOccurred())
			Expect(paths).To(HaveLen(1))
			Expect(filepath.Dir(paths[0])).To(Equal(filepath.Join(tempDir, "user", "Open-Sans")))
			Expect(plat.cacheUpdates).To(Equal(1))
		})

		It("should not fail when only the cache refresh fails", func() {
			plat.cacheErr = errors.New("fc-cache missing")
			manager := newManager(newMockSource("mock"))

			_, err := manager.Install(ctx, "mock", "Inter")
			Expect(err).NotTo(HaveOccurred())
		})

		It("should fail for an unknown source", func() {
			manager := newManager(newMockSource("mock"))

			_, err := manager.Install(ctx, "nope", "Inter")
			Expect(err).To(MatchError(ContainSubstring(`source "nope" not found`)))
			Expect(plat.cacheUpdates).To(BeZero())
		})
	})

	Describe("Available sources", func() {
		It("should list only reachable sources", func() {
			up := newMockSource("up")
			down := newMockSource("down")
			down.available = false
			manager := newManager(up, down)

			Expect(manager.AvailableSources(ctx)).To(Equal([]string{"up"}))
		})
	})
})
