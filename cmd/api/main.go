package main

import (
	"log"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/surajroy7430/DB-Songs-Uploader/internal/api"
	"github.com/surajroy7430/DB-Songs-Uploader/internal/config"
	database "github.com/surajroy7430/DB-Songs-Uploader/internal/db"
	"github.com/surajroy7430/DB-Songs-Uploader/internal/staging"
	"github.com/surajroy7430/DB-Songs-Uploader/internal/storage"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("Starting Catalog API Server...")

	// 1. Setup Configuration
	cfg := config.Load()

	// 2. Initialize Infrastructure
	db := database.New(cfg)

	// 3. Run Database Migrations
	db.AutoMigrate()

	// 4. Storage + Staging
	store := storage.New(cfg)
	staged, err := staging.New(cfg.Server.TempDir)
	if err != nil {
		log.Fatalf("❌ Staging dir unavailable: %v", err)
	}

	// Abandoned previews must not grow the temp dir without bound.
	go func() {
		ticker := time.NewTicker(30 * time.Minute)
		defer ticker.Stop()
		for range ticker.C {
			if n := staged.CleanupExpired(2 * time.Hour); n > 0 {
				log.Printf("🧹 Removed %d expired staged uploads", n)
			}
		}
	}()

	// 5. Setup Metrics
	api.RegisterMetrics()
	go func() {
		http.Handle("/metrics", promhttp.Handler())
		log.Printf("📊 Metrics exposed at http://localhost%s/metrics", cfg.Server.MetricsPort)
		if err := http.ListenAndServe(cfg.Server.MetricsPort, nil); err != nil {
			log.Printf("⚠️ Metrics server error: %v", err)
		}
	}()

	// 6. Start Server
	srv := api.New(cfg, db, store, staged)

	log.Printf("🚀 API Server starting on %s", cfg.Server.Port)
	if err := srv.Start(cfg.Server.Port); err != nil {
		log.Fatalf("❌ Server failed to start: %v", err)
	}
}
