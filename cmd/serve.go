package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/d2-nutrition/fao-cli/internal/artifact"
	"github.com/d2-nutrition/fao-cli/internal/metrics"
)

var (
	servePort int
	serveDir  string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the artifact directory over HTTP",
	Long:  "Serves built JSON artifacts for the dashboard, with CORS, a health endpoint, and Prometheus metrics.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if servePort != 0 {
			cfg.Server.Port = servePort
		}
		if serveDir != "" {
			cfg.Build.OutputDir = serveDir
		}
		if err := cfg.Validate("serve"); err != nil {
			return err
		}
		dir := cfg.Build.OutputDir

		reg := prometheus.NewRegistry()
		coll := metrics.NewCollector(reg)

		files, newest, err := artifact.ScanDir(dir)
		if err != nil {
			return err
		}
		for _, f := range files {
			coll.SetArtifact(f.Filename, f.Records, f.Bytes)
		}
		if !newest.IsZero() {
			coll.MarkBuild(newest)
		}
		zap.L().Info("artifact inventory",
			zap.Int("artifacts", len(files)),
			zap.String("dir", dir))

		srv := &http.Server{
			Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
			Handler:           newRouter(coll, reg, dir, cfg.Server.CORSOrigins),
			ReadHeaderTimeout: 10 * time.Second,
		}

		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				zap.L().Warn("server shutdown", zap.Error(err))
			}
		}()

		zap.L().Info("starting server", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "serve: listen")
		}
		return nil
	},
}

// newRouter wires the artifact file server, health and metrics endpoints.
func newRouter(coll *metrics.Collector, gatherer prometheus.Gatherer, dir string, origins []string) http.Handler {
	r := chi.NewRouter()
	r.Use(coll.Middleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodHead, http.MethodOptions},
	}))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})
	r.Method(http.MethodGet, "/metrics", metrics.Handler(gatherer))
	r.Handle("/data/*", http.StripPrefix("/data/", http.FileServer(http.Dir(dir))))

	return r
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	serveCmd.Flags().StringVar(&serveDir, "dir", "", "artifact directory to serve (default from config)")
	rootCmd.AddCommand(serveCmd)
}
