package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/camden-git/astrogallery/handlers"
	"github.com/camden-git/astrogallery/media"
	"github.com/camden-git/astrogallery/metrics"
	"github.com/camden-git/astrogallery/models"
	"github.com/camden-git/astrogallery/realtime"
	"github.com/camden-git/astrogallery/workers"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the gallery site",
	Long: `Serves the SPA entry point, the photo index, both image trees, the
gallery/detail JSON API, the app shell websocket and Prometheus metrics.
Missing thumbnails are generated on demand.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if servePort > 0 {
			cfg.Port = servePort
		}

		store, err := newStore()
		if err != nil {
			return err
		}
		for _, at := range []media.AssetType{media.AssetTypeOriginal, media.AssetTypeThumbnail} {
			dir, err := store.EnsureDir(at)
			if err != nil {
				return err
			}
			log.Printf("Ensuring storage directory exists: %s", dir)
		}

		registry := prometheus.NewRegistry()
		registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		collector := metrics.NewCollector(registry)

		hub := realtime.NewHub()
		go hub.Run()
		defer hub.Stop()

		base := newRouter().GalleryPath()
		onResult := func(res workers.ThumbnailResult) {
			event := realtime.Event{Type: realtime.EventThumbnail, FileName: res.FileName, Status: res.Result}
			if res.Err != nil {
				event.Error = res.Err.Error()
			} else {
				event.URL = models.Photo{FileName: res.FileName}.ThumbnailURL(base)
			}
			hub.Broadcast(event)
		}
		log.Printf("Initializing thumbnail worker pool (Workers: %d, Queue Size: %d)...", cfg.NumThumbnailWorkers, cfg.ThumbnailQueueSize)
		thumbGen := workers.NewThumbnailGenerator(store, thumbnailOptions(), collector, onResult, cfg.ThumbnailQueueSize, cfg.NumThumbnailWorkers)
		defer thumbGen.Stop()

		router := handlers.NewRouter(handlers.Deps{
			Config:     cfg,
			Source:     newLoader(collector),
			Store:      store,
			Thumbnails: thumbGen,
			Hub:        hub,
			Metrics:    collector,
			Gatherer:   registry,
		})

		log.Printf("Serving site from root: %s", cfg.SiteRoot)
		log.Printf("Loading photo index from: %s", cfg.IndexSource)
		log.Printf("Thumbnail max size (longest side): %dpx", cfg.ThumbnailMaxSize)

		server := &http.Server{
			Addr:         cfg.Addr(),
			Handler:      router,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 70 * time.Second,
			IdleTimeout:  120 * time.Second,
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		errCh := make(chan error, 1)
		go func() {
			fmt.Printf("Server starting on http://localhost:%d%s\n", cfg.Port, base)
			log.Printf("Server listening on %s", server.Addr)
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
			close(errCh)
		}()

		select {
		case err := <-errCh:
			if err != nil {
				return fmt.Errorf("server listen: %w", err)
			}
			return nil
		case <-ctx.Done():
		}

		log.Println("shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown failed: %w", err)
		}
		log.Println("server stopped gracefully")
		return nil
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "listen port (overrides PORT)")
	rootCmd.AddCommand(serveCmd)
}
