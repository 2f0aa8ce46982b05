package main

import (
	"log"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/surajroy7430/DB-Songs-Uploader/internal/config"
	database "github.com/surajroy7430/DB-Songs-Uploader/internal/db"
	"github.com/surajroy7430/DB-Songs-Uploader/internal/storage"
	"github.com/surajroy7430/DB-Songs-Uploader/internal/sweep"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("Starting Storage Reconciliation Sweeper...")

	// 1. Setup Configuration
	cfg := config.Load()

	// 2. Initialize Infrastructure
	store := storage.New(cfg)
	db := database.New(cfg)

	// 3. Setup Metrics
	sweep.RegisterMetrics()
	go func() {
		http.Handle("/metrics", promhttp.Handler())
		log.Printf("📊 Metrics exposed at http://localhost%s/metrics", cfg.Server.MetricsPort)
		log.Fatal(http.ListenAndServe(cfg.Server.MetricsPort, nil))
	}()

	// 4. Start Worker
	worker := sweep.New(cfg, store, db)
	worker.Run()
}
