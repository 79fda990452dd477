package fm

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// FontSpec is one line of a font list: a family name and, optionally, the
// source to take it from
type FontSpec struct {
	Name   string
	Source string
}

// ParseFontSpec parses a font list line of the form "Family" or
// "Family@Source". Blank lines and comments yield nil.
func ParseFontSpec(line string) (*FontSpec, error) {
	// Skip empty lines and comments
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return nil, nil
	}

	if strings.HasPrefix(line, "http://") || strings.HasPrefix(line, "https://") {
		return nil, fmt.Errorf("%q: fonts are downloaded by family name, not URL", line)
	}

	// Check for source specification with @
	name, source, _ := strings.Cut(line, "@")
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%q: missing font name", line)
	}

	return &FontSpec{
		Name:   name,
		Source: strings.TrimSpace(source),
	}, nil
}

// DownloadFromList downloads every font named in reader, one spec per
// line, into dir. Lines without a source use Google Fonts. Failures are
// collected and returned together after the whole list was tried.
func (m *DefaultManager) DownloadFromList(ctx context.Context, reader io.Reader, dir string) ([]string, error) {
	scanner := bufio.NewScanner(reader)
	var (
		paths []string
		errs  []error
	)

	for lineNo := 1; scanner.Scan(); lineNo++ {
		spec, err := ParseFontSpec(scanner.Text())
		if err != nil {
			errs = append(errs, fmt.Errorf("line %d: %w", lineNo, err))
			continue
		}
		if spec == nil {
			continue // Skip empty lines and comments
		}

		source := spec.Source
		if source == "" {
			source = GoogleFontsName
		}
		files, err := m.Download(ctx, source, spec.Name, dir)
		if err != nil {
			errs = append(errs, fmt.Errorf("failed to download %s: %w", spec.Name, err))
			continue
		}
		paths = append(paths, files...)
	}

	if err := scanner.Err(); err != nil {
		errs = append(errs, fmt.Errorf("error reading font list: %w", err))
	}

	if len(errs) > 0 {
		return paths, fmt.Errorf("encountered errors during download: %w", errors.Join(errs...))
	}
	return paths, nil
}
