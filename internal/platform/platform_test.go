package platform_test

import (
	"os"
	"path/filepath"
	"time"

	"github.com/logandonley/fontgrab/internal/platform"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Platform", func() {
	var (
		tempDir string
		manager platform.Manager
	)

	BeforeEach(func() {
		tempDir = GinkgoT().TempDir()

		// os.UserHomeDir reads HOME on both platforms
		GinkgoT().Setenv("HOME", tempDir)
	})

	Context("Linux Manager", func() {
		BeforeEach(func() {
			manager = platform.NewFor("linux")
		})

		It("should return correct font paths", func() {
			paths, err := manager.GetFontPaths()
			Expect(err).NotTo(HaveOccurred())

			Expect(paths.SystemDir).To(Equal("/usr/local/share/fonts"))
			Expect(paths.UserDir).To(Equal(filepath.Join(tempDir, ".local/share/fonts")))
		})

		It("should create the user font directory", func() {
			paths, err := manager.GetFontPaths()
			Expect(err).NotTo(HaveOccurred())
			Expect(paths.UserDir).To(BeADirectory())
		})
	})

	Context("Darwin Manager", func() {
		BeforeEach(func() {
			manager = platform.NewFor("darwin")
		})

		It("should return correct font paths", func() {
			paths, err := manager.GetFontPaths()
			Expect(err).NotTo(HaveOccurred())

			Expect(paths.SystemDir).To(Equal("/Library/Fonts"))
			Expect(paths.UserDir).To(Equal(filepath.Join(tempDir, "Library/Fonts")))
		})

		It("should touch the user font directory when updating the cache", func() {
			paths, err := manager.GetFontPaths()
			Expect(err).NotTo(HaveOccurred())

			past := time.Now().Add(-time.Hour)
			Expect(os.Chtimes(paths.UserDir, past, past)).To(Succeed())

			Expect(manager.UpdateFontCache()).To(Succeed())

			info, err := os.Stat(paths.UserDir)
			Expect(err).NotTo(HaveOccurred())
			Expect(info.ModTime()).To(BeTemporally(">", past))
		})
	})
})
