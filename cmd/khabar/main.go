package main

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"khabar/internal/app"
	"khabar/internal/config"
	"khabar/internal/logger"
	"khabar/internal/metrics"
)

func main() {
	// Load environment variables from .env if present (non-fatal if missing)
	_ = godotenv.Load()

	logger.Init()

	if os.Getenv("ENABLE_HTTP_MONITORING") == "true" {
		go startMonitoringServer()
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("configuration error: %v", err)
	}

	pipeline, err := app.New(cfg)
	if err != nil {
		log.Fatalf("pipeline construction failed: %v", err)
	}
	defer pipeline.Close()

	report, err := pipeline.Run(context.Background())
	if err != nil {
		metrics.Global.SetError(err.Error())
		log.Fatalf("run failed: %v", err)
	}

	if report.NothingToPublish() {
		logger.Info("run completed, nothing to publish")
		return
	}

	logger.Info("run completed",
		"items_fetched", report.ItemsFetched,
		"items_published", report.ItemsPublished,
		"failures", len(report.Failures),
	)
	for _, f := range report.Failures {
		logger.Warn("undelivered item", "fingerprint", f.Fingerprint, "reason", f.Reason)
	}
}

func startMonitoringServer() {
	port := os.Getenv("MONITORING_PORT")
	if port == "" {
		port = "8080"
	}

	http.HandleFunc("/health", healthHandler)
	http.HandleFunc("/metrics", metricsHandler)

	log.Printf("Starting monitoring server on port %s", port)
	if err := http.ListenAndServe(":"+port, nil); err != nil {
		log.Printf("Monitoring server error: %v", err)
	}
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	stats := metrics.Global.GetStats()

	status := "ok"
	if !stats["is_healthy"].(bool) {
		status = "error"
		w.WriteHeader(http.StatusServiceUnavailable)
	}

	response := map[string]interface{}{
		"status":     status,
		"last_run":   stats["last_run_time"],
		"last_error": stats["last_error"],
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

func metricsHandler(w http.ResponseWriter, r *http.Request) {
	stats := metrics.Global.GetStats()

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(stats)
}
