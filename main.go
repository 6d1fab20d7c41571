package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"edgerelay/auth"
	"edgerelay/config"
	"edgerelay/edgeregistry"
	"edgerelay/fetcher"
	"edgerelay/httpapi"
	"edgerelay/logger"
	"edgerelay/metrics"
	"edgerelay/playlist"
	"edgerelay/playlist/distributor"
	"edgerelay/playlist/signer"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config file (env vars override its values)")
	logLevel := flag.String("log-level", "info", "log level: debug, info, warn, error")
	flag.Parse()

	log := logger.New(*logLevel)

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading configuration: %v", err)
		return
	}

	counters := metrics.New()

	catalog, err := edgeregistry.NewConsulCatalog(cfg.Consul.BaseURL.Host, config.EdgeServiceName)
	if err != nil {
		log.Fatalf("building consul catalog client: %v", err)
		return
	}

	registry, err := edgeregistry.New(catalog, cfg.Consul.UpdateInterval, log, edgeregistry.WithMetrics(counters))
	if err != nil {
		log.Fatalf("starting edge node registry: %v", err)
		return
	}
	defer registry.Close()

	gate := auth.NewGate(cfg.Playlist.JWTValidation.Secret, cfg.Playlist.JWTValidation.StreamNamePattern)
	fetch := fetcher.New(cfg.Playlist.UpstreamBaseURL, fetcher.NewHTTPClient())

	rewrite := playlist.NewCombinedRewriter(
		distributor.New(registry, distributor.DefaultRandFactory, log, distributor.WithMetrics(counters)),
		signer.NewSegmentRewriter(cfg.Playlist.SegmentSigning.Key, cfg.Playlist.SegmentSigning.Duration, log),
	)

	router := httpapi.NewRouter(gate, fetch, rewrite, log, counters)

	srv := &http.Server{
		Addr:         cfg.HTTP.Socket,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Logf("listening on %s", cfg.HTTP.Socket)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("http server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Log("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorf("server forced to shutdown: %v", err)
	}

	log.Log("server exited")
}
