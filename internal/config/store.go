package config

import (
	"github.com/rs/zerolog"

	"somity-ledger/internal/adapters/persistence/memory"
	"somity-ledger/internal/adapters/persistence/repositories"
)

// OpenStore returns the repositories for STORE_DRIVER. The memory driver keeps
// everything in process and loses it on exit.
func OpenStore(cfg *Config, log zerolog.Logger) (*repositories.Store, error) {
	if cfg.StoreDriver == "memory" {
		log.Warn().Msg("⚠️ using in-memory store, data is lost on restart")
		return memory.NewStore().Repositories(), nil
	}

	db, err := ConnectDatabase(cfg, log)
	if err != nil {
		return nil, err
	}
	return repositories.NewGormStore(db), nil
}
