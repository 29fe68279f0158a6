package service

import (
	"time"

	"bookfinder/internal/adapters/source"
	"bookfinder/internal/adapters/store"
	"bookfinder/internal/config"
	"bookfinder/internal/core/domain/ports"
)

func CreateBookSource(cfg *config.Config, gw ports.Gateway) ports.BookSource {
	timeout := time.Duration(cfg.HTTPTimeoutSeconds) * time.Second

	switch cfg.BookSourceType {
	case "opds":
		return source.NewOPDSSource(cfg.OPDSBaseURL, cfg.OPDSUsername, cfg.OPDSPassword, timeout, cfg.LogLevel)
	default:
		return source.NewAPISource(gw)
	}
}

func CreateSnapshotStore(cfg *config.Config) (ports.SnapshotStore, error) {
	switch cfg.StorageBackend {
	case "sqlite":
		return store.NewBunStore(cfg.DBPath)
	default:
		return store.NewFileStore(cfg.StateFilePath)
	}
}
