// Package sanity talks to the Sanity content lake: a GROQ query client that
// implements portablepress.Source and an image URL builder that implements
// portablepress.AssetResolver.
package sanity

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/eringen/portablepress"
	"github.com/eringen/portablepress/metrics"
)

// maxGETLength is the longest query URL sent with GET; longer queries are
// POSTed.
const maxGETLength = 11 * 1024

var errNullResult = errors.New("null result")

// Client runs GROQ queries against one project dataset.
type Client struct {
	cfg      portablepress.SanityConfig
	baseURL  string
	cdnURL   string
	http     *http.Client
	recorder metrics.Recorder
	logger   *slog.Logger
}

var _ portablepress.Source = (*Client)(nil)

// ClientOption customizes a Client.
type ClientOption func(*Client)

// WithHTTPClient sets the HTTP client used for queries.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) { c.http = hc }
}

// WithBaseURL points the client at another API host, for both live and CDN
// queries.
func WithBaseURL(u string) ClientOption {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(u, "/")
		c.cdnURL = c.baseURL
	}
}

// WithRecorder sets the metrics recorder for query durations.
func WithRecorder(r metrics.Recorder) ClientOption {
	return func(c *Client) { c.recorder = r }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) ClientOption {
	return func(c *Client) { c.logger = l }
}

// NewClient returns a client for cfg. ProjectID and Dataset are required.
func NewClient(cfg portablepress.SanityConfig, opts ...ClientOption) (*Client, error) {
	if cfg.ProjectID == "" {
		return nil, errors.New("sanity: project id is required")
	}
	if cfg.Dataset == "" {
		return nil, errors.New("sanity: dataset is required")
	}
	if cfg.APIVersion == "" {
		cfg.APIVersion = "2024-01-01"
	}
	c := &Client{
		cfg:     cfg,
		baseURL: fmt.Sprintf("https://%s.api.sanity.io", cfg.ProjectID),
		cdnURL:  fmt.Sprintf("https://%s.apicdn.sanity.io", cfg.ProjectID),
		http:    &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	c.recorder = metrics.OrNoop(c.recorder)
	if c.logger == nil {
		c.logger = slog.Default()
	}
	return c, nil
}

func (c *Client) FetchAllPosts(ctx context.Context) ([]portablepress.RawPost, error) {
	var posts []portablepress.RawPost
	err := c.Query(ctx, portablepress.QueryAllPosts, allPostsQuery, previewParams(ctx), &posts)
	return nonNil(posts), err
}

func (c *Client) FetchPostBySlug(ctx context.Context, slug string) (portablepress.RawPost, error) {
	var post portablepress.RawPost
	params := previewParams(ctx)
	params["slug"] = slug
	err := c.Query(ctx, portablepress.QueryPostBySlug, postBySlugQuery, params, &post)
	return post, notFound(err)
}

func (c *Client) FetchAllAuthors(ctx context.Context) ([]portablepress.RawAuthor, error) {
	var authors []portablepress.RawAuthor
	err := c.Query(ctx, portablepress.QueryAllAuthors, allAuthorsQuery, nil, &authors)
	return nonNil(authors), err
}

func (c *Client) FetchAuthorBySlug(ctx context.Context, slug string) (portablepress.RawAuthor, error) {
	var author portablepress.RawAuthor
	err := c.Query(ctx, portablepress.QueryAuthorBySlug, authorBySlugQuery, map[string]any{"slug": slug}, &author)
	return author, notFound(err)
}

func (c *Client) FetchTagRaw(ctx context.Context) ([][]string, error) {
	var lists [][]string
	err := c.Query(ctx, portablepress.QueryTags, tagsQuery, previewParams(ctx), &lists)
	return nonNil(lists), err
}

func (c *Client) FetchPostsByTag(ctx context.Context, tag string) ([]portablepress.RawPost, error) {
	var posts []portablepress.RawPost
	if err := c.Query(ctx, portablepress.QueryPostsByTag, taggedPostsQuery, previewParams(ctx), &posts); err != nil {
		return nil, err
	}
	out := make([]portablepress.RawPost, 0, len(posts))
	for _, p := range posts {
		if portablepress.HasTag(p.Tags, tag) {
			out = append(out, p)
		}
	}
	return out, nil
}

// Query runs a GROQ query and decodes its result into out. A null result
// leaves out untouched and returns an *UpstreamFetchError wrapping
// errNullResult; single-document fetches map that to ErrNotFound.
func (c *Client) Query(ctx context.Context, name, groq string, params map[string]any, out any) error {
	start := time.Now()
	err := c.query(ctx, groq, params, out)
	c.recorder.ObserveFetchDuration(name, time.Since(start), err == nil || errors.Is(err, errNullResult))
	if err != nil {
		if !errors.Is(err, errNullResult) {
			c.logger.Warn("Sanity query failed", "query", name, "error", err)
		}
		return &portablepress.UpstreamFetchError{Query: name, Err: err}
	}
	return nil
}

func (c *Client) query(ctx context.Context, groq string, params map[string]any, out any) error {
	req, err := c.newRequest(ctx, groq, params)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return responseError(resp.StatusCode, body)
	}

	var envelope struct {
		Result json.RawMessage `json:"result"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	if len(envelope.Result) == 0 || bytes.Equal(envelope.Result, []byte("null")) {
		return errNullResult
	}
	if err := json.Unmarshal(envelope.Result, out); err != nil {
		return fmt.Errorf("decode result: %w", err)
	}
	return nil
}

func (c *Client) newRequest(ctx context.Context, groq string, params map[string]any) (*http.Request, error) {
	host := c.baseURL
	// Authenticated and draft reads must not be served from the CDN.
	if c.cfg.UseCDN && c.cfg.Token == "" && !portablepress.PreviewFromContext(ctx) {
		host = c.cdnURL
	}
	endpoint := fmt.Sprintf("%s/v%s/data/query/%s",
		host, strings.TrimPrefix(c.cfg.APIVersion, "v"), url.PathEscape(c.cfg.Dataset))

	q := url.Values{}
	q.Set("query", groq)
	for k, v := range params {
		enc, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("encode param %s: %w", k, err)
		}
		q.Set("$"+k, string(enc))
	}

	var req *http.Request
	var err error
	if u := endpoint + "?" + q.Encode(); len(u) <= maxGETLength {
		req, err = http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	} else {
		payload, merr := json.Marshal(struct {
			Query  string         `json:"query"`
			Params map[string]any `json:"params,omitempty"`
		}{groq, params})
		if merr != nil {
			return nil, merr
		}
		req, err = http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
		if err == nil {
			req.Header.Set("Content-Type", "application/json")
		}
	}
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if c.cfg.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.Token)
	}
	return req, nil
}

func responseError(status int, body []byte) error {
	var payload struct {
		Error struct {
			Description string `json:"description"`
			Type        string `json:"type"`
		} `json:"error"`
		Message string `json:"message"`
	}
	msg := strings.TrimSpace(string(body))
	if json.Unmarshal(body, &payload) == nil {
		switch {
		case payload.Error.Description != "":
			msg = payload.Error.Description
		case payload.Message != "":
			msg = payload.Message
		}
	}
	if len(msg) > 200 {
		msg = msg[:200]
	}
	return fmt.Errorf("unexpected status %d: %s", status, msg)
}

func previewParams(ctx context.Context) map[string]any {
	return map[string]any{"preview": portablepress.PreviewFromContext(ctx)}
}

func notFound(err error) error {
	if errors.Is(err, errNullResult) {
		return portablepress.ErrNotFound
	}
	return err
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
