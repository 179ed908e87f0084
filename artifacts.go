package portablepress

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/eringen/portablepress/metrics"
)

// WriteTagCount writes counts as indented JSON to path, replacing any
// previous file.
func WriteTagCount(path string, counts TagCount) error {
	if counts == nil {
		counts = TagCount{}
	}
	return writeJSON(path, counts)
}

// SearchIndexPath returns where the search index goes, or "" when the site
// does not use the kbar provider.
func SearchIndexPath(site SiteConfig) string {
	docs := site.Search.KbarConfig.SearchDocumentsPath
	if site.Search.Provider != "kbar" || docs == "" {
		return ""
	}
	return filepath.Join(site.PublicDir, filepath.Base(docs))
}

// WriteSearchIndex writes the bodyless posts, newest first, to the search
// index path. It returns the path written, or "" when the index is disabled.
func WriteSearchIndex(site SiteConfig, posts []PostMeta) (string, error) {
	path := SearchIndexPath(site)
	if path == "" {
		return "", nil
	}
	sorted := SortByDateDescending(posts)
	if err := writeJSON(path, sorted); err != nil {
		return "", err
	}
	return path, nil
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}

// BuildReport summarizes one artifact build.
type BuildReport struct {
	ID              string        `json:"id"`
	Posts           int           `json:"posts"`
	Authors         int           `json:"authors"`
	Tags            int           `json:"tags"`
	TagCountPath    string        `json:"tagCountPath"`
	SearchIndexPath string        `json:"searchIndexPath,omitempty"`
	Duration        time.Duration `json:"duration"`
}

// Builder regenerates the build-time artifacts: the tag-count file and the
// search index.
type Builder struct {
	Content  *Content
	Site     SiteConfig
	Logger   *slog.Logger
	Recorder metrics.Recorder
}

// Build fetches all content and rewrites the artifacts. Any fetch failure
// fails the build; nothing is written from stale data.
func (b *Builder) Build(ctx context.Context) (BuildReport, error) {
	start := time.Now()
	rec := metrics.OrNoop(b.Recorder)
	report := BuildReport{ID: uuid.NewString()}
	log := b.Logger
	if log == nil {
		log = slog.Default()
	}
	log = log.With("build_id", report.ID)
	log.Info("Build started")

	err := b.build(ctx, &report)
	report.Duration = time.Since(start)
	rec.ObserveBuildDuration(report.Duration)
	if err != nil {
		rec.IncBuildOutcome("failed")
		log.Error("Build failed", "error", err, "duration", report.Duration)
		return report, err
	}
	rec.IncBuildOutcome("success")
	log.Info("Build finished",
		"posts", report.Posts,
		"authors", report.Authors,
		"tags", report.Tags,
		"duration", report.Duration)
	return report, nil
}

func (b *Builder) build(ctx context.Context, report *BuildReport) error {
	posts, err := b.Content.AllPosts(ctx)
	if err != nil {
		return err
	}
	authors, err := b.Content.AllAuthors(ctx)
	if err != nil {
		return err
	}
	metas := StripBody(posts)
	counts := CountTags(metas)
	report.Posts = len(posts)
	report.Authors = len(authors)
	report.Tags = len(counts)

	if err := WriteTagCount(b.Site.TagCountPath, counts); err != nil {
		return fmt.Errorf("portablepress: write tag count: %w", err)
	}
	report.TagCountPath = b.Site.TagCountPath

	path, err := WriteSearchIndex(b.Site, metas)
	if err != nil {
		return fmt.Errorf("portablepress: write search index: %w", err)
	}
	report.SearchIndexPath = path
	return nil
}
