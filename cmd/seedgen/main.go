package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/spf13/afero"

	"github.com/i474232898/tripweaver-seedgen/internal/config"
	"github.com/i474232898/tripweaver-seedgen/internal/destinations"
	"github.com/i474232898/tripweaver-seedgen/internal/source"
	"github.com/i474232898/tripweaver-seedgen/internal/store"
	"github.com/i474232898/tripweaver-seedgen/pkg/logger"
)

func main() {
	envErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "seedgen: load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.LoggerConfig())
	if err != nil {
		fmt.Fprintf(os.Stderr, "seedgen: init logger: %v\n", err)
		os.Exit(1)
	}
	if envErr != nil {
		log.Debug("no .env file loaded", logger.Error(envErr))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	path, err := run(ctx, cfg, afero.NewOsFs(), log.Named("seedgen"))
	stop()
	_ = log.Sync()

	if err != nil {
		fmt.Fprintf(os.Stderr, "seedgen: %v\n", err)
		os.Exit(exitCode(err))
	}
	fmt.Println(path)
}

// run locates the source table, converts it and writes the index, returning the artifact path.
func run(ctx context.Context, cfg *config.AppConfig, fs afero.Fs, log *logger.Logger) (string, error) {
	log = log.WithRunID(uuid.NewString())

	locator := source.NewLocator(fs, log, cfg.SourcePath, source.DefaultCandidates(cfg.BinaryDir, cfg.DataDir)...)
	path, err := locator.Locate()
	if err != nil {
		return "", err
	}
	log.Info("reading source table", logger.String("path", path))

	reader, err := source.Open(fs, path)
	if err != nil {
		return "", err
	}
	defer reader.Close()

	if unknown := reader.Unknown(); len(unknown) > 0 {
		log.Warn("ignoring unknown columns", logger.Strings("columns", unknown))
	}

	indexStore := store.NewFileStore(fs, cfg.IndexPath, log)
	prev, err := indexStore.Load(ctx)
	switch {
	case err == nil:
		log.Info("replacing existing index",
			logger.Time("generated_at", prev.GeneratedAt),
			logger.Int("count", prev.Count),
		)
	case !errors.Is(err, store.ErrNotFound):
		log.Warn("existing index is unreadable and will be replaced", logger.Error(err))
	}

	svc := destinations.NewService(indexStore, log)
	if _, err := svc.Generate(ctx, reader); err != nil {
		return "", err
	}
	return indexStore.Path(), nil
}

// exitCode gives each failure kind its own status so scripts can tell them apart.
func exitCode(err error) int {
	switch {
	case errors.Is(err, source.ErrSourceNotFound):
		return 2
	case errors.Is(err, source.ErrMalformedRow):
		return 3
	case errors.Is(err, destinations.ErrValidation):
		return 4
	case errors.Is(err, destinations.ErrEmptySource):
		return 5
	case errors.Is(err, store.ErrWrite):
		return 6
	default:
		return 1
	}
}
