package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var rootFlags struct {
	sourceDir  string
	contentDir string
	outputDir  string
	verbose    bool
}

var rootCmd = &cobra.Command{
	Use:   "publisher",
	Short: "Publisher - hybrid markdown to webpage compiler",
	Long: `Publisher converts hybrid markdown content into rendered webpages.

Source files interleave free prose with fenced YAML declarations; headings
and divider lines group content into sections and side-by-side panels.
Publisher parses each scene into a content tree, merges the site
configuration, and renders every Jinja-style template into a static page.`,
	Version: Version,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&rootFlags.sourceDir, "source", "source", "directory with configuration files and *.j2 templates")
	rootCmd.PersistentFlags().StringVar(&rootFlags.contentDir, "content", "content", "directory with the sequence spec and scene sources")
	rootCmd.PersistentFlags().StringVar(&rootFlags.outputDir, "output", "public", "directory rendered pages are written to")
	rootCmd.PersistentFlags().BoolVarP(&rootFlags.verbose, "verbose", "v", false, "verbose output")
}

// newLogger builds the process logger; verbose mode lowers the level.
func newLogger() *slog.Logger {
	level := slog.LevelInfo
	if rootFlags.verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
}
