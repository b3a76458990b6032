package main

import (
	"context"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"visual-comparator/internal/compare"
	"visual-comparator/internal/monitor"
	"visual-comparator/internal/runnable"
	"visual-comparator/internal/storage"
)

func main() {
	_ = godotenv.Load()

	ctx := context.Background()

	performanceMonitor := monitor.NewPerformanceMonitor(monitor.DefaultThresholds())
	performanceMonitor.MustRegisterMetrics(prometheus.DefaultRegisterer)

	engine := compare.NewEngine(performanceMonitor)

	var artifacts storage.Storage
	var err error
	switch backend := os.Getenv("STORAGE_BACKEND"); backend {
	case "s3":
		artifacts, err = storage.NewS3Storage(ctx, storage.S3Config{
			Bucket: os.Getenv("S3_BUCKET"),
		})
	default:
		artifacts, err = storage.NewFileStorage(ctx, storage.FileConfig{
			Directory: os.Getenv("DIRECTORY"),
		})
	}
	if err != nil {
		log.Fatalf("Failed to create storage backend: %v", err)
	}

	server := runnable.NewServer(engine, performanceMonitor, artifacts)
	if err := server.Start(ctx); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
