package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dwillcox/publisher/internal/config"
	"github.com/dwillcox/publisher/internal/pipeline"
	"github.com/dwillcox/publisher/internal/render"
	"github.com/dwillcox/publisher/internal/server"
	"github.com/dwillcox/publisher/internal/watch"
)

var serveFlags struct {
	port  string
	watch bool
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Build the site and serve it for preview",
	Long: `Build the site, then serve the output directory over HTTP. The rendered
sequence payload is available at /api/sequence.

With --watch, source and content files are monitored and the site is rebuilt
on change; the served payload is swapped in without restarting.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveFlags.port, "port", "", "listen port (overrides PUBLISHER_PORT)")
	serveCmd.Flags().BoolVar(&serveFlags.watch, "watch", false, "rebuild on source or content changes")
}

func runServe(cmd *cobra.Command, args []string) error {
	log := newLogger()
	cfg := config.LoadServe()
	if serveFlags.port != "" {
		cfg.Port = serveFlags.port
	}

	b := &pipeline.Builder{
		SourceDir:  rootFlags.sourceDir,
		ContentDir: rootFlags.contentDir,
		OutputDir:  rootFlags.outputDir,
		Target:     render.TargetHTML,
		Log:        log,
	}

	result, err := b.Build(context.Background())
	if err != nil {
		return err
	}

	srv := server.New(log, rootFlags.outputDir, result.Data)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if serveFlags.watch {
		w, err := watch.New([]string{rootFlags.sourceDir, rootFlags.contentDir}, cfg.WatchDebounce, log)
		if err != nil {
			return err
		}
		defer w.Close()
		go func() {
			rebuild := func() error {
				res, err := b.Build(ctx)
				if err != nil {
					return err
				}
				srv.SetData(res.Data)
				return nil
			}
			if err := w.Run(ctx, rebuild); err != nil {
				log.Error("watcher stopped", "error", err)
			}
		}()
	}

	// Graceful shutdown.
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		select {
		case <-sigCh:
		case <-ctx.Done():
		}
		log.Info("shutting down...")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer shutdownCancel()
		httpServer.Shutdown(shutdownCtx)
	}()

	log.Info("serving site", "port", cfg.Port, "output", rootFlags.outputDir, "watch", serveFlags.watch)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}
