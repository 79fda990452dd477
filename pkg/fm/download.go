package fm

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

const variantTimeout = 30 * time.Second

// Downloader fetches the variant files of a catalog entry
type Downloader struct {
	client *http.Client
	log    logrus.FieldLogger
}

func newDownloader(client *http.Client, log logrus.FieldLogger) *Downloader {
	return &Downloader{client: client, log: log}
}

// Download writes every variant of entry into dir, creating dir if needed.
// A failed variant is logged and skipped; the call only fails when no
// variant could be written.
func (d *Downloader) Download(ctx context.Context, entry CatalogEntry, dir string) ([]string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	var (
		paths []string
		errs  []error
	)
	for _, variant := range entry.Variants {
		fileURL, ok := entry.Files[variant]
		if !ok {
			continue
		}

		path, err := d.downloadVariant(ctx, entry.Family, variant, fileURL, dir)
		if err != nil {
			d.log.WithFields(logrus.Fields{
				"family":  entry.Family,
				"variant": variant,
				"error":   err,
			}).Warn("Failed to download variant")
			errs = append(errs, fmt.Errorf("variant %s: %w", variant, err))
			continue
		}
		paths = append(paths, path)
	}

	if len(paths) == 0 {
		return nil, &AllVariantsFailedError{Family: entry.Family, Errs: errs}
	}
	return paths, nil
}

func (d *Downloader) downloadVariant(ctx context.Context, family, variant, fileURL, dir string) (string, error) {
	data, err := d.fetch(ctx, fileURL)
	if err != nil {
		return "", err
	}

	path := filepath.Join(dir, fontFileName(family, variant, extensionFor(fileURL)))
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("writing font file: %w", err)
	}
	return path, nil
}

func (d *Downloader) fetch(ctx context.Context, fileURL string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, variantTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fileURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating download request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("downloading font: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading font data: %w", err)
	}
	return data, nil
}

// extensionFor picks the file extension from format markers in the URL
func extensionFor(fileURL string) string {
	switch {
	case strings.Contains(fileURL, "woff2"):
		return "woff2"
	case strings.Contains(fileURL, "woff"):
		return "woff"
	default:
		return "ttf"
	}
}

// separatorReplacer keeps catalog names from being read as path elements
var separatorReplacer = strings.NewReplacer("/", "-", `\`, "-", "\x00", "")

func fontFileName(family, variant, ext string) string {
	family = separatorReplacer.Replace(strings.ReplaceAll(family, " ", "_"))
	return fmt.Sprintf("%s_%s.%s", family, separatorReplacer.Replace(variant), ext)
}
