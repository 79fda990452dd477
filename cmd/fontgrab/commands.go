package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/logandonley/fontgrab/internal/dispatch"
	"github.com/logandonley/fontgrab/pkg/fm"
)

var searchCmd = &cobra.Command{
	Use:   "search <query...>",
	Short: "Search every available source for a font",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		query := strings.TrimSpace(strings.Join(args, " "))
		if query == "" {
			return fmt.Errorf("please enter a font name")
		}

		fmt.Println(mutedStyle.Render(fmt.Sprintf("Searching for '%s'...", query)))
		value, err := runInBackground(cmd.Context(), dispatch.KindSearch, func(ctx context.Context) (any, error) {
			return manager.Search(ctx, query), nil
		})
		if err != nil {
			return fmt.Errorf("searching: %w", err)
		}
		printResults(query, value.(map[string][]fm.SearchResult))
		return nil
	},
}

var downloadCmd = &cobra.Command{
	Use:   "download <family> | download -f <fonts.txt>",
	Short: "Download every variant of a font family",
	Long: `Download every variant of a font family.

With --file, download every font listed in a file instead, one per line:
  Roboto
  Inter@Fontsource
  # comments and blank lines are skipped`,
	Args: func(cmd *cobra.Command, args []string) error {
		if cmd.Flags().Changed("file") {
			return cobra.NoArgs(cmd, args)
		}
		return cobra.ExactArgs(1)(cmd, args)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		if listFile, _ := cmd.Flags().GetString("file"); listFile != "" {
			return downloadList(cmd.Context(), listFile)
		}

		family := args[0]
		sourceName, _ := cmd.Flags().GetString("source")
		install, _ := cmd.Flags().GetBool("install")

		fmt.Println(mutedStyle.Render(fmt.Sprintf("Downloading %s from %s...", family, sourceName)))
		value, err := runInBackground(cmd.Context(), dispatch.KindDownload, func(ctx context.Context) (any, error) {
			if install {
				return manager.Install(ctx, sourceName, family)
			}
			return manager.Download(ctx, sourceName, family, "")
		})
		if err != nil {
			return describeDownloadError(family, err)
		}

		files := value.([]string)
		fmt.Println(okStyle.Render(fmt.Sprintf("Downloaded %s (%d files)", family, len(files))))
		for _, f := range files {
			fmt.Printf("  - %s\n", f)
		}
		return nil
	},
}

func downloadList(ctx context.Context, listFile string) error {
	f, err := os.Open(listFile)
	if err != nil {
		return fmt.Errorf("opening font list: %w", err)
	}
	defer f.Close()

	fmt.Println(mutedStyle.Render(fmt.Sprintf("Downloading fonts listed in %s...", listFile)))
	var files []string
	_, err = runInBackground(ctx, dispatch.KindDownload, func(ctx context.Context) (any, error) {
		var err error
		files, err = manager.DownloadFromList(ctx, f, "")
		return files, err
	})

	if len(files) > 0 {
		fmt.Println(okStyle.Render(fmt.Sprintf("Downloaded %d files", len(files))))
		for _, path := range files {
			fmt.Printf("  - %s\n", path)
		}
	}
	return err
}

var sourcesCmd = &cobra.Command{
	Use:   "sources",
	Short: "List registered font sources and whether they can be reached",
	RunE: func(cmd *cobra.Command, _ []string) error {
		available := map[string]bool{}
		for _, name := range manager.AvailableSources(cmd.Context()) {
			available[name] = true
		}

		for _, source := range manager.Sources() {
			status := warnStyle.Render("unavailable")
			if available[source.Name()] {
				status = okStyle.Render("available")
			}
			fmt.Printf("  - %s (%s)\n", source.Name(), status)
		}
		return nil
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List downloaded fonts",
	RunE: func(cmd *cobra.Command, _ []string) error {
		fonts, err := manager.List(cmd.Context(), "")
		if err != nil {
			return fmt.Errorf("listing fonts: %w", err)
		}

		if len(fonts) == 0 {
			fmt.Printf("No fonts downloaded in %s\n", manager.OutputDir())
			return nil
		}

		fmt.Printf("Downloaded fonts in %s:\n", manager.OutputDir())
		for _, font := range fonts {
			fmt.Printf("  - %s %s\n", titleStyle.Render(font.Family),
				mutedStyle.Render(fmt.Sprintf("(%d files)", len(font.Files))))
		}
		return nil
	},
}

var removeCmd = &cobra.Command{
	Use:   "remove <family>",
	Short: "Remove a downloaded font family",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		removed, err := manager.Remove(cmd.Context(), args[0], "")
		if err != nil {
			return fmt.Errorf("removing %s: %w", args[0], err)
		}
		fmt.Printf("Removed %s (%d files)\n", args[0], len(removed))
		return nil
	},
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or change settings",
	RunE: func(cmd *cobra.Command, _ []string) error {
		key := "(not set)"
		if cfg.GoogleFontsAPIKey != "" {
			key = "(set)"
		}
		fmt.Printf("config file:  %s\n", cfg.File())
		fmt.Printf("output_dir:   %s\n", cfg.OutputDir)
		fmt.Printf("google key:   %s\n", key)
		fmt.Printf("log_level:    %s\n", cfg.LogLevel)
		fmt.Printf("fontsource:   %t\n", cfg.FontsourceEnabled)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Persist a setting to the config file",
	Long: `Persist a setting to the config file. Known keys:
  output_dir, api_keys.google_fonts, log_level, sources.fontsource.enabled`,
	Args: cobra.ExactArgs(2),
	RunE: func(_ *cobra.Command, args []string) error {
		if err := cfg.Set(args[0], args[1]); err != nil {
			return err
		}
		fmt.Printf("Saved %s to %s\n", args[0], cfg.File())
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(_ *cobra.Command, _ []string) {
		fmt.Printf("fontgrab %s\n", version)
	},
}

var (
	progressInterval           = 3 * time.Second
	progressOut      io.Writer = os.Stderr
)

// runInBackground hands fn to a dispatcher and waits for its completion
// message, printing a progress line to stderr while the task runs long
func runInBackground(ctx context.Context, kind dispatch.Kind, fn dispatch.Func) (any, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	d := dispatch.New(ctx, log)
	defer d.Close()

	id, err := d.Submit(kind, fn)
	if err != nil {
		return nil, err
	}

	ticker := time.NewTicker(progressInterval)
	defer ticker.Stop()
	started := time.Now()
	for {
		select {
		case c, ok := <-d.Completions():
			if !ok {
				return nil, fmt.Errorf("%s task %s did not report", kind, id)
			}
			if c.ID != id {
				continue
			}
			log.WithField("duration", c.Duration()).Debugf("%s finished", kind)
			return c.Value, c.Err
		case <-ticker.C:
			elapsed := time.Since(started).Round(time.Second)
			fmt.Fprintln(progressOut, mutedStyle.Render(fmt.Sprintf("Still working on %s (%s)...", kind, elapsed)))
		}
	}
}

func printResults(query string, results map[string][]fm.SearchResult) {
	if len(results) == 0 {
		fmt.Println(warnStyle.Render(fmt.Sprintf("No fonts found matching '%s'", query)))
		fmt.Println(mutedStyle.Render("Try a different name or check your spelling"))
		return
	}

	total := 0
	for _, fonts := range results {
		total += len(fonts)
	}
	fmt.Println(okStyle.Render(fmt.Sprintf("Found %d matches for '%s'", total, query)))

	// Registration order, not map order
	for _, source := range manager.Sources() {
		fonts, ok := results[source.Name()]
		if !ok {
			continue
		}
		fmt.Println()
		fmt.Println(headerStyle.Render(fmt.Sprintf("%s (%d results)", source.Name(), len(fonts))))
		for _, font := range fonts {
			fmt.Printf("  %s\n", titleStyle.Render(font.Name))
			fmt.Printf("     %s\n", mutedStyle.Render(variantSummary(font.Variants)))
			fmt.Printf("     %s\n", scoreStyle.Render(fmt.Sprintf("Match: %d%%", font.Score)))
		}
	}
}

func variantSummary(variants []string) string {
	shown := variants
	if len(shown) > 3 {
		shown = shown[:3]
	}
	summary := fmt.Sprintf("%d variants: %s", len(variants), strings.Join(shown, ", "))
	if len(variants) > 3 {
		summary += "..."
	}
	return summary
}

func describeDownloadError(family string, err error) error {
	var (
		notFound    *fm.NotFoundError
		noSource    *fm.SourceNotFoundError
		allFailed   *fm.AllVariantsFailedError
		unavailable *fm.UnavailableError
	)
	switch {
	case errors.As(err, &noSource):
		return fmt.Errorf("%w (run 'fontgrab sources' to see the registered sources)", err)
	case errors.As(err, &notFound):
		return fmt.Errorf("%w (run 'fontgrab search %s' to find the exact family name)", err, family)
	case errors.As(err, &allFailed), errors.As(err, &unavailable):
		return fmt.Errorf("failed to download %s: %w", family, err)
	default:
		return fmt.Errorf("downloading %s: %w", family, err)
	}
}

func init() {
	downloadCmd.Flags().StringP("source", "s", fm.GoogleFontsName, "Source to download from")
	downloadCmd.Flags().Bool("install", false, "Save into the user font directory and refresh the font cache")
	downloadCmd.Flags().StringP("file", "f", "", "Download every font listed in this file")

	configCmd.AddCommand(configSetCmd)
}
