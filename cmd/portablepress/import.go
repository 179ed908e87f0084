package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/eringen/portablepress"
)

// ImportCmd implements the 'import' command.
type ImportCmd struct {
	File     string `arg:"" help:"NDJSON dataset export to import, or - for stdin"`
	Database string `help:"SQLite database path (overrides the configuration)" type:"path"`
}

func (i *ImportCmd) Run(g *Global, root *CLI) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, err := portablepress.LoadConfig(root.Config)
	if err != nil {
		return err
	}
	dbPath := cfg.DatabasePath
	if i.Database != "" {
		dbPath = i.Database
	}

	var r io.Reader = os.Stdin
	if i.File != "-" {
		f, err := os.Open(i.File)
		if err != nil {
			return err
		}
		defer f.Close()
		r = f
	}

	store, err := portablepress.NewStore(dbPath)
	if err != nil {
		return err
	}
	defer closeSource(store, g.Logger)

	stats, err := store.ImportNDJSON(ctx, r)
	if err != nil {
		return err
	}
	g.Logger.Info("Import finished", "database", dbPath, "imported", stats.Imported, "skipped", stats.Skipped)
	fmt.Printf("Imported %d documents (%d skipped) into %s\n", stats.Imported, stats.Skipped, dbPath)
	return nil
}
