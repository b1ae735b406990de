// Command seeder loads a location hierarchy from a JSON file into the
// database. Seeding is additive: records in the file are inserted or
// updated, records absent from it are left untouched. It is intended to be
// run offline against the same database as the server.
//
// Flags:
//
//	--file     path to the locations JSON file (required)
//	--dry-run  validate the file without writing to DB
//
// Exit codes: 0 = success, 1 = error.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/opencivil/registry-backend/internal/adapter/postgres"
	locationrepo "github.com/opencivil/registry-backend/internal/adapter/postgres/location"
	"github.com/opencivil/registry-backend/internal/app"
	"github.com/opencivil/registry-backend/internal/config"
	"github.com/opencivil/registry-backend/internal/domain"
	"github.com/opencivil/registry-backend/internal/service/location"
)

type locationRecord struct {
	ID           uuid.UUID  `json:"id"`
	ParentID     *uuid.UUID `json:"parentId"`
	Name         string     `json:"name"`
	LocationType string     `json:"locationType"`
	ValidUntil   *time.Time `json:"validUntil"`
}

func main() {
	fileFlag := flag.String("file", "", "path to the locations JSON file")
	dryRunFlag := flag.Bool("dry-run", false, "validate the file without writing to DB")
	flag.Parse()

	if *fileFlag == "" {
		log.Fatal("--file is required")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger := app.NewLogger(cfg.Log)

	raw, err := os.ReadFile(*fileFlag)
	if err != nil {
		logger.Error("read locations file", slog.String("error", err.Error()))
		os.Exit(1)
	}

	var records []locationRecord
	if err := json.Unmarshal(raw, &records); err != nil {
		logger.Error("parse locations file", slog.String("error", err.Error()))
		os.Exit(1)
	}

	locations := make([]domain.Location, 0, len(records))
	for _, rec := range records {
		locations = append(locations, domain.Location{
			ID:           rec.ID,
			ParentID:     rec.ParentID,
			Name:         rec.Name,
			LocationType: domain.LocationType(rec.LocationType),
			ValidUntil:   rec.ValidUntil,
		})
	}

	if err := (location.SetInput{Locations: locations}).Validate(); err != nil {
		logger.Error("invalid locations file", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if *dryRunFlag {
		logger.Info("dry run: file is valid", slog.Int("locations", len(locations)))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		logger.Error("connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer pool.Close()

	txManager := postgres.NewTxManager(pool)
	repo := locationrepo.New(pool)

	err = txManager.RunInTx(ctx, func(txCtx context.Context) error {
		return repo.UpsertBatch(txCtx, locations)
	})
	if err != nil {
		logger.Error("seed locations", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("locations seeded", slog.Int("count", len(locations)))
}
