// Command seed loads partners, profiles and local accounts from a YAML file
// into the SQLite database used when no hosted backend is configured.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	sqliteadapter "github.com/ericfisherdev/storypartner/internal/adapter/driven/sqlite"
)

func main() {
	dbPath := os.Getenv("STORYPARTNER_DB_PATH")
	if dbPath == "" {
		dbPath = "storypartner.db"
	}

	var (
		file  string
		prune bool
	)
	flag.StringVar(&dbPath, "db", dbPath, "SQLite database path")
	flag.StringVar(&file, "file", "seed.yaml", "seed file")
	flag.BoolVar(&prune, "prune", false, "remove partners missing from the seed file")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, dbPath, file, prune); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, dbPath, file string, prune bool) error {
	data, err := os.ReadFile(file)
	if err != nil {
		return fmt.Errorf("read seed file: %w", err)
	}
	doc, err := parseSeed(data)
	if err != nil {
		return err
	}

	db, err := sqliteadapter.NewDB(ctx, dbPath)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	res, err := apply(ctx, db, doc, prune, os.Getenv)
	if err != nil {
		return err
	}

	fmt.Printf("Seeded %d partners, %d profiles, %d passwords", res.Partners, res.Profiles, res.Passwords)
	if prune {
		fmt.Printf(", pruned %d partners", res.Pruned)
	}
	fmt.Println()
	return nil
}
