package app

import (
	"fmt"

	"khabar/internal/config"
	"khabar/internal/dedup"
	"khabar/internal/storage"
)

// buildStore selects the delivered-set backend. The file store is the
// default and needs no external services; Postgres and Redis serve setups
// where runners share one delivered-set.
func buildStore(cfg *config.Config) (dedup.Store, error) {
	switch cfg.StoreBackend {
	case "postgres":
		return storage.NewPostgresStore(cfg.PostgresDSN, cfg.StoreTTLHours)
	case "redis":
		return storage.NewRedisStore(storage.RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		}, cfg.StoreTTLHours)
	case "file":
		return storage.NewFileStore(cfg.StoreFilePath, cfg.StoreTTLHours), nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}
}
