package fm

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
)

const (
	// GoogleFontsName is the registry name of the Google Fonts source
	GoogleFontsName = "Google Fonts"

	googleFontsEndpoint = "https://www.googleapis.com/webfonts/v1/webfonts"
)

// NewGoogleFontsSource returns the Google Fonts source. An empty apiKey
// falls back to unauthenticated, rate-limited access.
func NewGoogleFontsSource(apiKey string, opts ...SourceOption) *CatalogSource {
	o := newSourceOptions(googleFontsEndpoint, "", opts)

	params := url.Values{"sort": {"popularity"}}
	if apiKey != "" {
		params.Set("key", apiKey)
	}

	return &CatalogSource{
		name:       GoogleFontsName,
		catalog:    newCatalog(GoogleFontsName, o.endpoint, params, o.client, decodeGoogleFonts),
		downloader: newDownloader(o.client, o.log),
	}
}

type googleFontsList struct {
	Items []googleFontsFamily `json:"items"`
}

type googleFontsFamily struct {
	Family   string    `json:"family"`
	Variants []string  `json:"variants"`
	Files    fileTable `json:"files"`
}

// fileTable is a "files" object decoded with its labels in document order
type fileTable struct {
	labels []string
	urls   map[string]string
}

func (t *fileTable) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		return nil
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("files: expected an object, got %v", tok)
	}

	t.labels = nil
	t.urls = make(map[string]string)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		label, ok := tok.(string)
		if !ok {
			return fmt.Errorf("files: unexpected key %v", tok)
		}

		var fileURL string
		if err := dec.Decode(&fileURL); err != nil {
			return fmt.Errorf("files[%s]: %w", label, err)
		}
		if _, dup := t.urls[label]; !dup {
			t.labels = append(t.labels, label)
		}
		t.urls[label] = fileURL
	}

	_, err = dec.Token()
	return err
}

func decodeGoogleFonts(body io.Reader) ([]CatalogEntry, error) {
	var list googleFontsList
	if err := json.NewDecoder(body).Decode(&list); err != nil {
		return nil, err
	}

	entries := make([]CatalogEntry, 0, len(list.Items))
	for _, item := range list.Items {
		if item.Family == "" {
			continue
		}
		entries = append(entries, CatalogEntry{
			Family:   item.Family,
			Variants: orderVariants(item.Variants, item.Files),
			Files:    item.Files.urls,
		})
	}
	return entries, nil
}

// orderVariants lists the file labels in the order of the declared
// variants, followed by undeclared labels in the order the files object
// listed them
func orderVariants(declared []string, files fileTable) []string {
	ordered := make([]string, 0, len(files.labels))
	seen := make(map[string]bool, len(files.labels))
	for _, v := range declared {
		if _, ok := files.urls[v]; ok && !seen[v] {
			ordered = append(ordered, v)
			seen[v] = true
		}
	}
	for _, v := range files.labels {
		if !seen[v] {
			ordered = append(ordered, v)
		}
	}
	return ordered
}
