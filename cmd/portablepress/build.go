package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/eringen/portablepress"
	"github.com/eringen/portablepress/metrics"
)

// BuildCmd implements the 'build' command.
type BuildCmd struct{}

func (b *BuildCmd) Run(g *Global, root *CLI) error {
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

	builder := &portablepress.Builder{
		Content:  newContent(cfg, src, resolver, rec, g.Logger),
		Site:     cfg,
		Logger:   g.Logger,
		Recorder: rec,
	}
	report, err := builder.Build(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("Built %d posts, %d authors, %d tags\n", report.Posts, report.Authors, report.Tags)
	fmt.Printf("  wrote %s\n", report.TagCountPath)
	if report.SearchIndexPath != "" {
		fmt.Printf("  wrote %s\n", report.SearchIndexPath)
	}
	return nil
}
