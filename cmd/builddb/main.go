// Command builddb builds the activity table from a directory of Strava
// activity exports. The table is written as JSON, imported into the SQLite
// database, or both.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/delhayec/MillionRecap/internal/config"
	"github.com/delhayec/MillionRecap/internal/database"
	"github.com/delhayec/MillionRecap/internal/ingest"
	"github.com/delhayec/MillionRecap/internal/logging"
	"github.com/delhayec/MillionRecap/internal/repository"
)

func main() {
	cfg := config.Load()

	dir := flag.String("dir", "rawdata/All_metadata", "Directory of Strava activity JSON files")
	year := flag.Int("year", 2025, "Keep activities of this year only (0 keeps all)")
	out := flag.String("out", "", "Write the activity table to this JSON file")
	dbPath := flag.String("db", "", "Import the activities into this SQLite database")
	flag.Parse()

	log, err := logging.New(cfg.LogLevel, "console")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	if *out == "" && *dbPath == "" {
		*out = fmt.Sprintf("activities_%d.json", *year)
	}

	activities, err := ingest.NewLoader(nil, log.Named("ingest")).ReadMetadataDir(*dir, *year)
	if err != nil {
		log.Fatal("failed to read metadata", zap.Error(err))
	}

	if *out != "" {
		if err := ingest.WriteActivitiesFile(*out, activities); err != nil {
			log.Fatal("failed to write activity table", zap.Error(err))
		}
		log.Info("activity table written", zap.String("file", *out), zap.Int("activities", len(activities)))
	}

	if *dbPath != "" {
		db, err := database.Open(database.Config{Path: *dbPath}, log)
		if err != nil {
			log.Fatal("failed to open database", zap.Error(err))
		}
		defer db.Close()

		n, err := repository.NewActivityRepository(db).Import(context.Background(), activities)
		if err != nil {
			log.Fatal("failed to import activities", zap.Error(err))
		}
		log.Info("activities imported", zap.String("db", *dbPath), zap.Int("new", n), zap.Int("read", len(activities)))
	}
}
