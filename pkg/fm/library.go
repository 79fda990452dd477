package fm

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// DownloadedFont groups the files of one family found in an output directory
type DownloadedFont struct {
	Family   string
	Variants []string
	Files    []string
}

// ListDownloaded walks dir and groups font files by family. A missing
// directory yields an empty list.
func ListDownloaded(dir string) ([]DownloadedFont, error) {
	byFamily := make(map[string]*DownloadedFont)
	var order []string

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) && path == dir {
				return filepath.SkipDir
			}
			return err
		}

		// Skip if it's not a font file
		if d.IsDir() || !isFontFile(d.Name()) {
			return nil
		}

		family, variant := parseFontFileName(d.Name())
		font, ok := byFamily[family]
		if !ok {
			font = &DownloadedFont{Family: family}
			byFamily[family] = font
			order = append(order, family)
		}
		if variant != "" {
			font.Variants = append(font.Variants, variant)
		}
		font.Files = append(font.Files, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking directory %s: %w", dir, err)
	}

	sort.Strings(order)
	fonts := make([]DownloadedFont, 0, len(order))
	for _, family := range order {
		fonts = append(fonts, *byFamily[family])
	}
	return fonts, nil
}

// RemoveDownloaded deletes every file of family from dir and returns the
// removed paths
func RemoveDownloaded(dir, family string) ([]string, error) {
	fonts, err := ListDownloaded(dir)
	if err != nil {
		return nil, fmt.Errorf("checking downloaded fonts: %w", err)
	}

	// Normalize the name for comparison
	target := sanitizeFontName(family)

	var removed []string
	for _, font := range fonts {
		if sanitizeFontName(font.Family) != target {
			continue
		}
		for _, path := range font.Files {
			if err := os.Remove(path); err != nil {
				return removed, fmt.Errorf("removing %s: %w", path, err)
			}
			removed = append(removed, path)
		}
	}

	if len(removed) == 0 {
		return nil, fmt.Errorf("font %q is not downloaded", family)
	}
	return removed, nil
}

// parseFontFileName reverses fontFileName: the family is everything before
// the last underscore, with underscores turned back into spaces
func parseFontFileName(name string) (family, variant string) {
	base := strings.TrimSuffix(name, filepath.Ext(name))
	idx := strings.LastIndex(base, "_")
	if idx <= 0 {
		return base, ""
	}
	return strings.ReplaceAll(base[:idx], "_", " "), base[idx+1:]
}

// Helper functions

func isFontFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".ttf", ".otf", ".woff", ".woff2":
		return true
	}
	return false
}

func sanitizeFontName(name string) string {
	// Remove any potentially problematic characters from font name
	name = strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' || r == '_' {
			return r
		}
		return '-'
	}, name)
	return strings.Trim(name, "-")
}
