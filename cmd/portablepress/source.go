package main

import (
	"fmt"
	"log/slog"

	"github.com/eringen/portablepress"
	"github.com/eringen/portablepress/metrics"
	"github.com/eringen/portablepress/richtext"
	"github.com/eringen/portablepress/sanity"
)

// openSource builds the configured content source and the image resolver
// that goes with it.
func openSource(cfg portablepress.SiteConfig, rec metrics.Recorder, logger *slog.Logger) (portablepress.Source, portablepress.AssetResolver, error) {
	var resolver portablepress.AssetResolver
	if cfg.Sanity.ProjectID != "" {
		resolver = sanity.NewImageBuilder(cfg.Sanity.ProjectID, cfg.Sanity.Dataset)
	}

	switch cfg.Source {
	case portablepress.SourceSanity:
		client, err := sanity.NewClient(cfg.Sanity,
			sanity.WithRecorder(rec),
			sanity.WithLogger(logger),
		)
		if err != nil {
			return nil, nil, err
		}
		return client, resolver, nil
	case portablepress.SourceSQLite:
		store, err := portablepress.NewStore(cfg.DatabasePath)
		if err != nil {
			return nil, nil, err
		}
		return store, resolver, nil
	default:
		return nil, nil, fmt.Errorf("unknown content source %q (want %q or %q)",
			cfg.Source, portablepress.SourceSanity, portablepress.SourceSQLite)
	}
}

func closeSource(src portablepress.Source, logger *slog.Logger) {
	if c, ok := src.(interface{ Close() error }); ok {
		if err := c.Close(); err != nil {
			logger.Warn("Failed to close content source", "error", err)
		}
	}
}

func newContent(cfg portablepress.SiteConfig, src portablepress.Source, resolver portablepress.AssetResolver, rec metrics.Recorder, logger *slog.Logger) *portablepress.Content {
	return portablepress.NewContent(src, &portablepress.Transformer{
		Site:     cfg,
		Resolver: resolver,
		Logger:   logger,
		Recorder: rec,
	})
}

func markdownOptions(resolver portablepress.AssetResolver) richtext.Options {
	if resolver == nil {
		return richtext.Options{}
	}
	return richtext.Options{ImageURL: resolver.Resolve}
}
