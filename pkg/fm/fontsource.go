package fm

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

const (
	// FontsourceName is the registry name of the Fontsource source
	FontsourceName = "Fontsource"

	fontsourceEndpoint = "https://api.fontsource.org/v1/fonts"
	fontsourceCDN      = "https://cdn.jsdelivr.net/fontsource/fonts"
)

// NewFontsourceSource returns a source for fontsource.org. Files are served
// as woff2 from the Fontsource CDN, one per weight and style of the
// family's default subset.
func NewFontsourceSource(opts ...SourceOption) *CatalogSource {
	o := newSourceOptions(fontsourceEndpoint, fontsourceCDN, opts)

	return &CatalogSource{
		name:       FontsourceName,
		catalog:    newCatalog(FontsourceName, o.endpoint, nil, o.client, fontsourceDecoder(o.cdn)),
		downloader: newDownloader(o.client, o.log),
	}
}

type fontSourceFont struct {
	ID        string   `json:"id"`
	Family    string   `json:"family"`
	Weights   []int    `json:"weights"`
	Styles    []string `json:"styles"`
	DefSubset string   `json:"defSubset"`
}

func fontsourceDecoder(cdn string) decodeFunc {
	cdn = strings.TrimSuffix(cdn, "/")
	return func(body io.Reader) ([]CatalogEntry, error) {
		var fonts []fontSourceFont
		if err := json.NewDecoder(body).Decode(&fonts); err != nil {
			return nil, err
		}

		entries := make([]CatalogEntry, 0, len(fonts))
		for _, f := range fonts {
			if f.ID == "" || f.Family == "" {
				continue
			}
			subset := f.DefSubset
			if subset == "" {
				subset = "latin"
			}

			entry := CatalogEntry{Family: f.Family, Files: make(map[string]string)}
			for _, weight := range f.Weights {
				for _, style := range f.Styles {
					label := variantLabel(weight, style)
					if _, dup := entry.Files[label]; dup {
						continue
					}
					entry.Variants = append(entry.Variants, label)
					entry.Files[label] = fmt.Sprintf("%s/%s@latest/%s-%d-%s.woff2", cdn, f.ID, subset, weight, style)
				}
			}
			entries = append(entries, entry)
		}
		return entries, nil
	}
}

// variantLabel builds a Google-style label such as "regular", "italic",
// "700" or "700italic"
func variantLabel(weight int, style string) string {
	if weight == 400 {
		if style == "normal" {
			return "regular"
		}
		return style
	}
	if style == "normal" {
		return fmt.Sprint(weight)
	}
	return fmt.Sprintf("%d%s", weight, style)
}
