package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dwillcox/publisher/internal/pipeline"
	"github.com/dwillcox/publisher/internal/render"
)

var buildFlags struct {
	target       string
	sequenceFile string
	exportJSON   bool
}

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build the site once",
	Long: `Build the site: read configuration from the source directory, load the
sequence spec from the content directory, parse every scene, and render each
template into the output directory.

Examples:
  # Default layout: source/, content/, public/
  publisher build

  # Render raw markdown content instead of HTML
  publisher build --target markdown

  # Also export the rendered tree as sequence.json
  publisher build --json`,
	RunE: runBuild,
}

func init() {
	rootCmd.AddCommand(buildCmd)

	buildCmd.Flags().StringVar(&buildFlags.target, "target", "html", "render target for prose content (markdown or html)")
	buildCmd.Flags().StringVar(&buildFlags.sequenceFile, "sequence", "webpage.yaml", "sequence spec filename inside the content directory")
	buildCmd.Flags().BoolVar(&buildFlags.exportJSON, "json", false, "also write the render payload as sequence.json")
}

func runBuild(cmd *cobra.Command, args []string) error {
	log := newLogger()

	b := &pipeline.Builder{
		SourceDir:    rootFlags.sourceDir,
		ContentDir:   rootFlags.contentDir,
		OutputDir:    rootFlags.outputDir,
		SequenceFile: buildFlags.sequenceFile,
		Target:       render.Target(buildFlags.target),
		ExportJSON:   buildFlags.exportJSON,
		Log:          log,
	}

	result, err := b.Build(context.Background())
	if err != nil {
		return err
	}
	if len(result.Pages) == 0 && result.JSONPath == "" {
		return fmt.Errorf("nothing rendered: no templates in %s", rootFlags.sourceDir)
	}
	log.Info("build complete", "pages", len(result.Pages))
	return nil
}
