package fm_test

import (
	"context"
	"errors"
	"path/filepath"
	"strings"

	"github.com/logandonley/fontgrab/pkg/fm"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Font lists", func() {
	Describe("ParseFontSpec", func() {
		DescribeTable("valid lines",
			func(line string, expected *fm.FontSpec) {
				spec, err := fm.ParseFontSpec(line)
				Expect(err).NotTo(HaveOccurred())
				Expect(spec).To(Equal(expected))
			},
			Entry("family only", "Roboto", &fm.FontSpec{Name: "Roboto"}),
			Entry("family with source", "Inter @ Fontsource", &fm.FontSpec{Name: "Inter", Source: "Fontsource"}),
			Entry("family with spaces", "  Open Sans@Google Fonts ", &fm.FontSpec{Name: "Open Sans", Source: "Google Fonts"}),
			Entry("blank line", "   ", nil),
			Entry("comment", "# sans fonts", nil),
		)

		It("should reject URLs and lines without a name", func() {
			_, err := fm.ParseFontSpec("https://example.com/font.ttf")
			Expect(err).To(MatchError(ContainSubstring("not URL")))

			_, err = fm.ParseFontSpec("@Fontsource")
			Expect(err).To(MatchError(ContainSubstring("missing font name")))
		})
	})

	Describe("DownloadFromList", func() {
		var (
			tempDir    string
			google     *mockSource
			fontsource *mockSource
			manager    *fm.DefaultManager
			ctx        context.Context
		)

		BeforeEach(func() {
			tempDir = GinkgoT().TempDir()
			google = newMockSource(fm.GoogleFontsName)
			fontsource = newMockSource(fm.FontsourceName)
			ctx = context.Background()

			var err error
			manager, err = fm.NewManagerWithSources([]fm.Source{google, fontsource},
				fm.WithPlatform(&mockPlatform{fontDir: tempDir}),
				fm.WithOutputDir(filepath.Join(tempDir, "fonts")),
				fm.WithLogger(quietLogger()),
			)
			Expect(err).NotTo(HaveOccurred())
		})

		It("should route each line to its source and skip comments", func() {
			list := strings.NewReader(`# fonts for the docs site
Roboto

Inter@Fontsource
`)
			dir := filepath.Join(tempDir, "site")

			paths, err := manager.DownloadFromList(ctx, list, dir)
			Expect(err).NotTo(HaveOccurred())
			Expect(paths).To(Equal([]string{
				filepath.Join(dir, "Roboto_regular.ttf"),
				filepath.Join(dir, "Inter_regular.ttf"),
			}))
			Expect(google.downloads).To(Equal([]string{dir}))
			Expect(fontsource.downloads).To(Equal([]string{dir}))
		})

		It("should use the default output directory when none is given", func() {
			paths, err := manager.DownloadFromList(ctx, strings.NewReader("Roboto\n"), "")
			Expect(err).NotTo(HaveOccurred())
			Expect(paths).To(ConsistOf(filepath.Join(tempDir, "fonts", "Roboto_regular.ttf")))
		})

		It("should try every line and return the collected errors", func() {
			google.failures["Lato"] = &fm.NotFoundError{Source: fm.GoogleFontsName, ID: "Lato"}
			list := strings.NewReader("Lato\nInter@Nowhere\nhttps://example.com/x.ttf\nRoboto\n")

			paths, err := manager.DownloadFromList(ctx, list, tempDir)
			Expect(paths).To(ConsistOf(filepath.Join(tempDir, "Roboto_regular.ttf")))
			Expect(err).To(MatchError(ContainSubstring("encountered errors during download")))
			Expect(err.Error()).To(ContainSubstring("failed to download Lato"))
			Expect(err.Error()).To(ContainSubstring("line 3"))

			var notFound *fm.NotFoundError
			Expect(errors.As(err, &notFound)).To(BeTrue())
			Expect(notFound.ID).To(Equal("Lato"))

			var noSource *fm.SourceNotFoundError
			Expect(errors.As(err, &noSource)).To(BeTrue())
			Expect(noSource.Name).To(Equal("Nowhere"))
		})
	})
})
