package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/eringen/portablepress"
	"github.com/eringen/portablepress/metrics"
)

// ExportCmd implements the 'export' command.
type ExportCmd struct {
	Dir string `short:"o" help:"Output directory" default:"data" type:"path"`
}

func (e *ExportCmd) Run(g *Global, root *CLI) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, err := portablepress.LoadConfig(root.Config)
	if err != nil {
		return err
	}
	rec := metrics.NoopRecorder{}
	src, resolver, err := openSource(cfg, rec, g.Logger)
	if err != nil {
		return err
	}
	defer closeSource(src, g.Logger)

	content := newContent(cfg, src, resolver, rec, g.Logger)
	posts, err := content.AllPosts(ctx)
	if err != nil {
		return err
	}
	authors, err := content.AllAuthors(ctx)
	if err != nil {
		return err
	}

	n, err := portablepress.ExportLegacy(e.Dir, posts, authors, markdownOptions(resolver))
	if err != nil {
		return err
	}
	fmt.Printf("Exported %d documents to %s\n", n, e.Dir)
	return nil
}
