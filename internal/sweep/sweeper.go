package sweep

import (
	"log"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/surajroy7430/DB-Songs-Uploader/internal/config"
	database "github.com/surajroy7430/DB-Songs-Uploader/internal/db"
	"github.com/surajroy7430/DB-Songs-Uploader/internal/models"
	"github.com/surajroy7430/DB-Songs-Uploader/internal/storage"
)

var (
	sweeps = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_sweep_runs_total",
			Help: "Total sweep runs",
		},
		[]string{"status"},
	)
	orphans = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_sweep_orphans_total",
			Help: "Orphaned objects found per namespace",
		},
		[]string{"namespace"},
	)
	duration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "catalog_sweep_duration_seconds",
			Help:    "Sweep time",
			Buckets: prometheus.DefBuckets,
		},
	)
)

func RegisterMetrics() {
	prometheus.MustRegister(sweeps, orphans, duration)
}

// Worker reconciles object storage with the catalog. Saves upload before
// the database commit, so a failed save can leave objects no row
// references; the sweep removes those once they outlive the grace period.
type Worker struct {
	cfg   *config.Config
	store *storage.Client
	db    *database.Client
}

func New(cfg *config.Config, store *storage.Client, db *database.Client) *Worker {
	return &Worker{cfg: cfg, store: store, db: db}
}

func (w *Worker) Run() {
	interval := time.Duration(w.cfg.Sweep.IntervalSeconds) * time.Second
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	log.Printf("Sweeper started (interval %s, grace %dm, dry-run %v)...",
		interval, w.cfg.Sweep.GracePeriodMinutes, w.cfg.Sweep.DryRun)
	w.SweepOnce()

	for range ticker.C {
		w.SweepOnce()
	}
}

// SweepOnce walks the three key namespaces and deletes unreferenced
// objects older than the grace period.
func (w *Worker) SweepOnce() {
	timer := prometheus.NewTimer(duration)
	defer timer.ObserveDuration()

	namespaces := []struct {
		prefix     string
		referenced func(key string) (bool, error)
	}{
		{storage.SongPrefix, w.songReferenced},
		{storage.CoverPrefix, w.coverReferenced},
		{storage.AlbumPrefix, w.albumReferenced},
	}

	failed := false
	for _, ns := range namespaces {
		if err := w.sweepPrefix(ns.prefix, ns.referenced); err != nil {
			log.Printf("❌ Sweep failed for %s: %v", ns.prefix, err)
			failed = true
		}
	}

	if failed {
		sweeps.WithLabelValues("failure").Inc()
	} else {
		sweeps.WithLabelValues("success").Inc()
	}
}

func (w *Worker) sweepPrefix(prefix string, referenced func(key string) (bool, error)) error {
	objects, err := w.store.List(prefix)
	if err != nil {
		return err
	}

	grace := time.Duration(w.cfg.Sweep.GracePeriodMinutes) * time.Minute
	cutoff := time.Now().Add(-grace)

	for _, obj := range objects {
		// Young objects may belong to an in-flight save.
		if obj.LastModified.After(cutoff) {
			continue
		}

		ok, err := referenced(obj.Key)
		if err != nil {
			return err
		}
		if ok {
			continue
		}

		orphans.WithLabelValues(prefix).Inc()
		if w.cfg.Sweep.DryRun {
			log.Printf("🧹 [dry-run] orphan: %s (last modified %s)", obj.Key, obj.LastModified.Format(time.RFC3339))
			continue
		}
		if err := w.store.Delete(obj.Key); err != nil {
			log.Printf("❌ Failed to delete orphan %s: %v", obj.Key, err)
			continue
		}
		log.Printf("🧹 Removed orphan: %s", obj.Key)
	}
	return nil
}

func (w *Worker) songReferenced(key string) (bool, error) {
	var count int64
	err := w.db.DB.Model(&models.Song{}).Where("key = ?", key).Count(&count).Error
	return count > 0, err
}

// Cover and album URLs are pure functions of the key, so reference checks
// are exact URL matches rather than suffix scans.
func (w *Worker) coverReferenced(key string) (bool, error) {
	var count int64
	err := w.db.DB.Model(&models.Song{}).
		Where("cover_image_url = ?", w.store.ObjectURL(key)).Count(&count).Error
	return count > 0, err
}

func (w *Worker) albumReferenced(key string) (bool, error) {
	var count int64
	err := w.db.DB.Model(&models.Album{}).
		Where("album_cover_url = ?", w.store.ObjectURL(key)).Count(&count).Error
	return count > 0, err
}
