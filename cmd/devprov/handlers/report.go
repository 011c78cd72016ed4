package handlers

import (
	"context"
	"log"
	"os"

	"github.com/imamik/devprov/internal/config"
	"github.com/imamik/devprov/internal/platform/s3"
	"github.com/imamik/devprov/internal/report"
)

// Environment variables holding static S3 credentials. When unset the
// AWS default credential chain applies.
const (
	envS3AccessKey = "DEVPROV_S3_ACCESS_KEY"
	envS3SecretKey = "DEVPROV_S3_SECRET_KEY"
)

// Factory function variables for report persistence - can be replaced in tests.
var (
	// newObjectStore creates the S3 client used to archive runs.
	newObjectStore = func(ctx context.Context, cfg config.S3Config) (report.ObjectStore, error) {
		return s3.NewClient(ctx, s3.Options{
			Endpoint:  cfg.Endpoint,
			Region:    cfg.Region,
			AccessKey: os.Getenv(envS3AccessKey),
			SecretKey: os.Getenv(envS3SecretKey),
		})
	}

	// writeMetrics writes the Prometheus textfile.
	writeMetrics = report.WriteMetrics
)

// reportStore returns the local run store, or nil when disabled.
func reportStore(cfg *config.Config) *report.Store {
	dir := cfg.ReportDir()
	if dir == "" {
		return nil
	}
	return report.NewStore(dir)
}

// persistRun saves run locally, writes metrics and archives it to S3 as
// configured. Failures are logged as warnings.
func persistRun(ctx context.Context, cfg *config.Config, store *report.Store, run *report.Run) {
	if store != nil {
		path, err := store.Save(run)
		if err != nil {
			log.Printf("Warning: %v", err)
		} else {
			log.Printf("Run report saved to %s", path)
		}
	}

	if path := cfg.MetricsPath(); path != "" {
		if err := writeMetrics(path, run); err != nil {
			log.Printf("Warning: %v", err)
		}
	}

	if !cfg.Report.S3.Enabled() {
		return
	}
	client, err := newObjectStore(ctx, cfg.Report.S3)
	if err != nil {
		log.Printf("Warning: failed to create S3 client: %v", err)
		return
	}
	archive := &report.Archive{Store: client, Bucket: cfg.Report.S3.Bucket, Prefix: cfg.Report.S3.Prefix}
	url, err := archive.Upload(ctx, run)
	if err != nil {
		log.Printf("Warning: %v", err)
		return
	}
	log.Printf("Run report archived to %s", url)
}
