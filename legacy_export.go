package portablepress

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/eringen/portablepress/richtext"
)

type postFrontMatter struct {
	Title        string   `yaml:"title"`
	Date         string   `yaml:"date"`
	Lastmod      string   `yaml:"lastmod,omitempty"`
	Draft        bool     `yaml:"draft"`
	Summary      string   `yaml:"summary,omitempty"`
	Tags         []string `yaml:"tags"`
	Images       []string `yaml:"images,omitempty"`
	Authors      []string `yaml:"authors,omitempty"`
	Layout       string   `yaml:"layout,omitempty"`
	Bibliography string   `yaml:"bibliography,omitempty"`
	CanonicalURL string   `yaml:"canonicalUrl,omitempty"`
}

type authorFrontMatter struct {
	Name       string `yaml:"name"`
	Avatar     string `yaml:"avatar,omitempty"`
	Occupation string `yaml:"occupation,omitempty"`
	Company    string `yaml:"company,omitempty"`
	Email      string `yaml:"email,omitempty"`
	Twitter    string `yaml:"twitter,omitempty"`
	Bluesky    string `yaml:"bluesky,omitempty"`
	Linkedin   string `yaml:"linkedin,omitempty"`
	Github     string `yaml:"github,omitempty"`
	Layout     string `yaml:"layout,omitempty"`
}

// ExportLegacy writes posts and authors as MDX files under dir, at their
// flattened path plus ".mdx" (blog/<slug>.mdx, authors/<slug>.mdx), so a
// file-based pipeline can consume CMS content. Bodies are converted to
// Markdown with opts. It returns the number of files written.
func ExportLegacy(dir string, posts []Post, authors []Author, opts richtext.Options) (int, error) {
	written := 0
	for _, p := range posts {
		lp := ToLegacy(p)
		blocks, err := richtext.ParseBlocks([]byte(orJSONNull(lp.Body.Raw)))
		if err != nil {
			return written, fmt.Errorf("portablepress: export %s: %w", lp.Slug, err)
		}
		images := make([]string, 0, len(lp.Images))
		for _, img := range lp.Images {
			images = append(images, img.URL)
		}
		fm := postFrontMatter{
			Title:        lp.Title,
			Date:         lp.Date,
			Lastmod:      lp.Lastmod,
			Draft:        lp.Draft,
			Summary:      lp.Summary,
			Tags:         lp.Tags,
			Images:       images,
			Authors:      lp.Authors,
			Layout:       lp.Layout,
			Bibliography: lp.Bibliography,
			CanonicalURL: lp.CanonicalURL,
		}
		if err := writeMDX(dir, lp.Raw.FlattenedPath, fm, richtext.ToMarkdown(blocks, opts)); err != nil {
			return written, err
		}
		written++
	}
	for _, a := range authors {
		la := ToLegacyAuthor(a)
		fm := authorFrontMatter{
			Name:       la.Name,
			Avatar:     la.Avatar,
			Occupation: la.Occupation,
			Company:    la.Company,
			Email:      la.Email,
			Twitter:    la.Twitter,
			Bluesky:    la.Bluesky,
			Linkedin:   la.Linkedin,
			Github:     la.Github,
			Layout:     la.Layout,
		}
		if err := writeMDX(dir, la.Raw.FlattenedPath, fm, richtext.ToMarkdown(la.Bio, opts)); err != nil {
			return written, err
		}
		written++
	}
	return written, nil
}

func orJSONNull(s string) string {
	if s == "" {
		return "null"
	}
	return s
}

func writeMDX(dir, flattened string, frontMatter any, body string) error {
	var buf bytes.Buffer
	buf.WriteString("---\n")
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(frontMatter); err != nil {
		_ = enc.Close()
		return fmt.Errorf("portablepress: front matter for %s: %w", flattened, err)
	}
	if err := enc.Close(); err != nil {
		return err
	}
	buf.WriteString("---\n")
	if body != "" {
		buf.WriteString("\n")
		buf.WriteString(body)
	}

	path := filepath.Join(dir, filepath.FromSlash(flattened)+".mdx")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}
