package main

import (
	"context"
	"os/signal"
	"syscall"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/eringen/portablepress"
	"github.com/eringen/portablepress/metrics"
)

// ServeCmd implements the 'serve' command.
type ServeCmd struct {
	Addr      string `help:"Listen address (overrides the configuration)"`
	NoMetrics bool   `name:"no-metrics" help:"Do not expose /metrics"`
}

func (s *ServeCmd) Run(g *Global, root *CLI) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, err := portablepress.LoadConfig(root.Config)
	if err != nil {
		return err
	}
	if s.Addr != "" {
		cfg.Addr = s.Addr
	}

	opts := []portablepress.Option{portablepress.WithLogger(g.Logger)}
	var rec metrics.Recorder = metrics.NoopRecorder{}
	if !s.NoMetrics {
		reg := prom.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		pr := metrics.NewPrometheusRecorder(reg)
		rec = pr
		opts = append(opts, portablepress.WithRecorder(pr), portablepress.WithMetricsHandler(pr.Handler()))
	}

	src, resolver, err := openSource(cfg, rec, g.Logger)
	if err != nil {
		return err
	}
	opts = append(opts, portablepress.WithSource(src))
	if resolver != nil {
		opts = append(opts, portablepress.WithAssetResolver(resolver))
	}

	app := portablepress.New(cfg, portablepress.ViewFuncs{}, opts...)
	defer func() {
		if err := app.Close(); err != nil {
			g.Logger.Warn("Close failed", "error", err)
		}
	}()
	return app.Start(ctx)
}
