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
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve cached customer profiles over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		env, err := initCore(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		r := chi.NewRouter()
		r.Use(cors.Handler(cors.Options{
			AllowedMethods: []string{"GET", "DELETE"},
			AllowedOrigins: []string{"*"},
		}))

		r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		})

		r.Get("/customer/{id}", func(w http.ResponseWriter, req *http.Request) {
			id := chi.URLParam(req, "id")
			view, err := env.Cache.GetOrCompute(req.Context(), id)
			if err != nil {
				zap.L().Error("serve: get customer failed",
					zap.String("id", id),
					zap.Error(err),
				)
				writeJSON(w, http.StatusBadGateway, map[string]string{"error": "record fetch failed"})
				return
			}
			writeJSON(w, http.StatusOK, view)
		})

		r.Delete("/customer/{id}", func(w http.ResponseWriter, req *http.Request) {
			id := chi.URLParam(req, "id")
			env.Cache.Invalidate(req.Context(), id)
			writeJSON(w, http.StatusOK, map[string]string{"status": "invalidated", "id": id})
		})

		r.Get("/stats", func(w http.ResponseWriter, req *http.Request) {
			writeJSON(w, http.StatusOK, map[string]any{
				"cache": env.Cache.Stats(req.Context()),
				"warm":  env.Warmer.Stats(),
			})
		})

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: r,
		}

		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			srv.Shutdown(shutdownCtx)
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
