// Package portablepress is a blog front end for content authored in a
// headless CMS. It fetches Portable Text documents, normalizes them into a
// render-ready model and serves them with Echo and templ.
//
// Users provide their own templ templates via the ViewFuncs struct; views
// left nil are answered with the page data as JSON.
package portablepress

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"

	"github.com/eringen/portablepress/metrics"
)

// ViewFuncs holds user-provided templ components that the App calls when
// rendering pages.
type ViewFuncs struct {
	List        func(page ListPage) templ.Component
	Post        func(page PostPage) templ.Component
	Tags        func(page TagsPage) templ.Component
	Author      func(page AuthorPage) templ.Component
	NotFound    func() templ.Component
	ServerError func() templ.Component
}

// App wires the content source, cache, facade, handlers and middleware.
type App struct {
	Config  SiteConfig
	Echo    *echo.Echo
	Content *Content
	Cache   *CachedSource
	Builder *Builder
	Views   ViewFuncs

	source         Source
	resolver       AssetResolver
	recorder       metrics.Recorder
	metricsHandler http.Handler
	logger         *slog.Logger
	secretLimiter  *RateLimiter
	rebuilder      *Rebuilder
	customRoutes   []func(*App)
	staticDir      string
}

// New creates an App with the given configuration and view functions.
func New(cfg SiteConfig, views ViewFuncs, opts ...Option) *App {
	cfg.setDefaults()

	a := &App{
		Config: cfg,
		Echo:   echo.New(),
		Views:  views,
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.staticDir == "" {
		a.staticDir = cfg.PublicDir
	}
	if a.logger == nil {
		a.logger = slog.Default()
	}
	a.recorder = metrics.OrNoop(a.recorder)
	a.Echo.HideBanner = true
	return a
}

// Setup validates the configuration and wires the content pipeline,
// middleware and routes. Start calls it; tests can call it and drive Echo
// directly.
func (a *App) Setup() error {
	if a.source == nil {
		return errors.New("portablepress: no content source configured")
	}
	if a.Config.SessionSecret == "" {
		return errors.New("portablepress: SessionSecret is required")
	}

	a.Cache = NewCachedSource(a.source, a.Config.CacheTTL, a.recorder)
	transformer := &Transformer{
		Site:     a.Config,
		Resolver: a.resolver,
		Logger:   a.logger,
		Recorder: a.recorder,
	}
	a.Content = NewContent(a.Cache, transformer)
	a.Builder = &Builder{
		Content:  a.Content,
		Site:     a.Config,
		Logger:   a.logger,
		Recorder: a.recorder,
	}
	a.secretLimiter = NewRateLimiter(5, time.Minute)

	a.setupMiddleware()
	a.setupRoutes()
	for _, fn := range a.customRoutes {
		fn(a)
	}
	return nil
}

// Start sets the App up, schedules periodic rebuilds when configured and
// serves HTTP until the server is shut down.
func (a *App) Start(ctx context.Context) error {
	if err := a.Setup(); err != nil {
		return err
	}

	if a.Config.RebuildInterval > 0 {
		r, err := NewRebuilder(a.Cache, a.Builder, a.logger)
		if err != nil {
			return fmt.Errorf("portablepress: init scheduler: %w", err)
		}
		if err := r.Schedule(a.Config.RebuildInterval); err != nil {
			return fmt.Errorf("portablepress: schedule rebuild: %w", err)
		}
		a.rebuilder = r
		r.Start()
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := a.Echo.Shutdown(shutdownCtx); err != nil {
			a.logger.Error("Shutdown failed", "error", err)
		}
	}()

	a.logger.Info("Serving", "addr", a.Config.Addr, "site", a.Config.SiteURL)
	if err := a.Echo.Start(a.Config.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Revalidate drops cached content and rebuilds the artifacts.
func (a *App) Revalidate(ctx context.Context) (BuildReport, error) {
	a.Cache.Invalidate()
	return a.Builder.Build(ctx)
}

func (a *App) setupRoutes() {
	e := a.Echo

	// User's static assets
	e.Static("/public", a.staticDir)
	if path := SearchIndexPath(a.Config); path != "" {
		e.GET("/"+filepath.Base(path), func(c echo.Context) error {
			return c.File(path)
		})
	}

	e.GET("/sitemap.xml", a.handleSitemap)
	e.GET("/feed.xml", a.handleFeed)
	if a.metricsHandler != nil {
		e.GET("/metrics", echo.WrapHandler(a.metricsHandler))
	}

	e.GET("/", a.handleHome)
	e.GET("/blog/", a.handleList)
	e.GET("/blog/page/:page/", a.handleList)
	e.GET("/blog/*", a.handlePost)
	e.GET("/tags/", a.handleTags)
	e.GET("/tags/:tag/", a.handleTag)
	e.GET("/tags/:tag/page/:page/", a.handleTag)
	e.GET("/authors/:slug/", a.handleAuthor)

	e.POST("/api/revalidate", a.handleRevalidate)
	e.POST("/preview/enable", a.handlePreviewEnable)
	e.POST("/preview/disable", a.handlePreviewDisable)
}

// Close cleans up resources. Call this when the app is shutting down.
func (a *App) Close() error {
	if a.rebuilder != nil {
		if err := a.rebuilder.Stop(); err != nil {
			a.logger.Warn("Stopping scheduler failed", "error", err)
		}
	}
	if a.secretLimiter != nil {
		a.secretLimiter.Stop()
	}
	if c, ok := a.source.(interface{ Close() error }); ok {
		return c.Close()
	}
	return nil
}

// EnvOr returns the value of the environment variable key, or fallback if empty.
func EnvOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
