package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/logandonley/fontgrab/internal/config"
	"github.com/logandonley/fontgrab/pkg/fm"
)

var version = "dev"

var (
	cfg     *config.Config
	log     = logrus.New()
	manager *fm.DefaultManager
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("14"))
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	scoreStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	warnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "fontgrab",
	Short: "fontgrab searches font catalogs and downloads font files",
	Long: `Search Google Fonts (and Fontsource) by name and download every
variant of a family into a local directory.

Examples:
  # Find fonts whose name looks like "robot"
  fontgrab search robot

  # Download all variants of a family into ./fonts
  fontgrab download "Roboto"

  # Download from a specific source into another directory
  fontgrab download "Inter" --source Fontsource -o ~/fonts

  # Download straight into the user font directory
  fontgrab download "Fira Code" --install

  # Download every font listed in a file
  fontgrab download -f fonts.txt`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

// setup resolves configuration, logging and the source registry before any
// subcommand runs
func setup(cmd *cobra.Command, _ []string) error {
	configFile, _ := cmd.Flags().GetString("config")

	var err error
	cfg, err = config.Load(configFile, cmd.Flags())
	if err != nil {
		return err
	}

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", cfg.LogLevel, err)
	}
	log.SetLevel(level)
	log.SetOutput(os.Stderr)
	log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})

	if cfg.GoogleFontsAPIKey == "" {
		log.Debugf("No Google Fonts API key configured, set %s for authenticated access", config.GoogleFontsKeyEnv)
	}

	manager = fm.NewManager(cfg.GoogleFontsAPIKey,
		fm.WithOutputDir(cfg.OutputDir),
		fm.WithLogger(log),
	)
	if cfg.FontsourceEnabled {
		if err := manager.RegisterSource(fm.NewFontsourceSource(fm.WithSourceLogger(log))); err != nil {
			return fmt.Errorf("registering Fontsource: %w", err)
		}
	}
	return nil
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Config file (default ./config.json if present)")
	rootCmd.PersistentFlags().StringP("output", "o", "", "Directory fonts are saved to (default ./fonts)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error")

	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(downloadCmd)
	rootCmd.AddCommand(sourcesCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(removeCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}
