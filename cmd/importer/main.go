// Command importer loads an exported legacy JSON document dump into the store.
//
//	importer -file export.json -password <initial password for imported accounts>
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"somity-ledger/internal/adapters/persistence/legacy"
	"somity-ledger/internal/config"
	"somity-ledger/internal/pkg/logger"
	"somity-ledger/internal/pkg/password"
)

func main() {
	file := flag.String("file", "", "path to the exported JSON document dump")
	initialPassword := flag.String("password", os.Getenv("IMPORT_INITIAL_PASSWORD"), "password given to every imported account")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		bootLog := logger.New()
		bootLog.Fatal().Err(err).Msg("❌ Failed to load configuration")
	}
	log := logger.ForMode(cfg.AppMode, cfg.LogLevel).With().Str("cmd", "importer").Logger()

	if *file == "" {
		log.Fatal().Msg("-file is required")
	}
	if cfg.StoreDriver == "memory" {
		log.Warn().Msg("importing into the memory store only validates the dump")
	}

	f, err := os.Open(*file)
	if err != nil {
		log.Fatal().Err(err).Str("file", *file).Msg("❌ Failed to open export")
	}
	defer f.Close()

	export, err := legacy.Decode(f)
	if err != nil {
		log.Fatal().Err(err).Msg("❌ Failed to read export")
	}

	store, err := config.OpenStore(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("❌ Failed to open store")
	}
	defer config.CloseDatabase()

	importer, err := legacy.NewImporter(store, password.Hash, *initialPassword, log)
	if err != nil {
		log.Fatal().Err(err).Msg("❌ Invalid importer settings")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	res, err := importer.Run(ctx, export)
	imported, skipped, failed := res.Total()
	if err != nil {
		log.Error().Err(err).Int("imported", imported).Msg("❌ Import aborted")
		os.Exit(1)
	}

	log.Info().
		Int("imported", imported).
		Int("skipped", skipped).
		Int("failed", failed).
		Msg("✅ Import finished")
	if failed > 0 {
		os.Exit(2)
	}
}
