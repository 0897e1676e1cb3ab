package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"

	"github.com/inamate/canvas/internal/asset"
	"github.com/inamate/canvas/internal/collab"
	"github.com/inamate/canvas/internal/config"
	"github.com/inamate/canvas/internal/discovery"
	mw "github.com/inamate/canvas/internal/middleware"
	"github.com/inamate/canvas/internal/rooms"
	"github.com/inamate/canvas/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel})))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	snapshots, err := openStore(ctx, cfg)
	if err != nil {
		slog.Error("open snapshot store", "error", err)
		os.Exit(1)
	}
	defer snapshots.Close()

	hub := collab.NewHub(snapshots, cfg.Hub())
	go hub.Run()

	roomHandler := rooms.NewHandler(rooms.NewService(hub, snapshots))

	assetHandler, err := asset.NewHandler(cfg.AssetDir)
	if err != nil {
		slog.Error("create asset handler", "error", err)
		os.Exit(1)
	}

	r := mux.NewRouter()
	r.Use(mw.RequestID)
	r.Use(mw.Recovery)
	r.Use(mw.Logger)
	r.Use(mw.CORS(cfg.Origins()))

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	r.HandleFunc("/assets/upload", assetHandler.Upload).Methods("POST", "OPTIONS")
	r.PathPrefix("/assets/").Handler(assetHandler.Serve()).Methods("GET")

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/rooms", roomHandler.Create).Methods("POST", "OPTIONS")
	api.HandleFunc("/rooms/{roomId}/snapshot", roomHandler.GetSnapshot).Methods("GET")
	api.HandleFunc("/rooms/{roomId}/snapshot", roomHandler.PutSnapshot).Methods("PUT", "OPTIONS")
	api.HandleFunc("/rooms/{roomId}/export.pdf", roomHandler.ExportPDF).Methods("GET")

	r.HandleFunc("/ws/room/{roomId}", hub.ServeRoom(cfg.Origins()))

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down server")

		// Stop the hub first so open rooms are saved while the store is up.
		hub.Stop()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		srv.Shutdown(shutdownCtx)
	}()

	if cfg.MDNSEnabled {
		announcer, err := discovery.Advertise(cfg.MDNSName, cfg.Port)
		if err != nil {
			slog.Warn("mdns advertise failed", "error", err)
		} else {
			defer announcer.Shutdown()
			slog.Info("advertising on local network", "service", discovery.ServiceType)
		}
	}

	slog.Info("server starting", "addr", addr, "max_layers", cfg.MaxLayers)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
}

func openStore(ctx context.Context, cfg *config.Config) (store.SnapshotStore, error) {
	if cfg.DatabaseURL == "" {
		slog.Warn("DATABASE_URL not set, snapshots are kept in memory")
		return store.NewMemory(), nil
	}
	pg, err := store.NewPostgres(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	return pg, nil
}
