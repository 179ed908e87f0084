package sanity

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/eringen/portablepress"
)

// DefaultImageHost serves project image assets.
const DefaultImageHost = "https://cdn.sanity.io"

var (
	// ErrNoAsset is returned for a reference that carries neither an asset
	// id nor a URL.
	ErrNoAsset = errors.New("sanity: image has no asset")
	// ErrMalformedRef is returned for asset ids not shaped
	// image-<id>-<width>x<height>-<format>.
	ErrMalformedRef = errors.New("sanity: malformed image asset id")
)

// ImageBuilder builds CDN URLs for image assets.
type ImageBuilder struct {
	ProjectID string
	Dataset   string
	Host      string
	// Width, when positive, requests a resized rendition.
	Width int
}

var _ portablepress.AssetResolver = (*ImageBuilder)(nil)

// NewImageBuilder returns a builder for the project dataset on the default
// image host.
func NewImageBuilder(projectID, dataset string) *ImageBuilder {
	return &ImageBuilder{ProjectID: projectID, Dataset: dataset, Host: DefaultImageHost}
}

// Resolve returns the CDN URL for ref. A dereferenced asset that already
// carries a URL is returned as is when its id cannot be parsed.
func (b *ImageBuilder) Resolve(ref portablepress.AssetRef) (string, error) {
	key := ref.Key()
	if key == "" {
		if ref.URL != "" {
			return ref.URL, nil
		}
		return "", ErrNoAsset
	}
	asset, err := ParseImageID(key)
	if err != nil {
		if ref.URL != "" {
			return ref.URL, nil
		}
		return "", err
	}

	host := b.Host
	if host == "" {
		host = DefaultImageHost
	}
	u := fmt.Sprintf("%s/images/%s/%s/%s-%dx%d.%s",
		strings.TrimRight(host, "/"), b.ProjectID, b.Dataset,
		asset.ID, asset.Width, asset.Height, asset.Format)
	if b.Width > 0 {
		u += "?" + url.Values{"w": {strconv.Itoa(b.Width)}}.Encode()
	}
	return u, nil
}

// ImageID is a parsed image asset id.
type ImageID struct {
	ID     string
	Width  int
	Height int
	Format string
}

// ParseImageID splits an asset id such as
// "image-Tb9Ew8CXIwaY6R1kjMvI0uRR-2000x3000-jpg".
func ParseImageID(s string) (ImageID, error) {
	rest, ok := strings.CutPrefix(s, "image-")
	if !ok {
		return ImageID{}, fmt.Errorf("%w: %q", ErrMalformedRef, s)
	}
	i := strings.LastIndexByte(rest, '-')
	if i <= 0 {
		return ImageID{}, fmt.Errorf("%w: %q", ErrMalformedRef, s)
	}
	format := rest[i+1:]
	rest = rest[:i]
	j := strings.LastIndexByte(rest, '-')
	if j <= 0 || format == "" {
		return ImageID{}, fmt.Errorf("%w: %q", ErrMalformedRef, s)
	}
	id, dims := rest[:j], rest[j+1:]
	ws, hs, ok := strings.Cut(dims, "x")
	if !ok {
		return ImageID{}, fmt.Errorf("%w: %q", ErrMalformedRef, s)
	}
	w, werr := strconv.Atoi(ws)
	h, herr := strconv.Atoi(hs)
	if werr != nil || herr != nil || w <= 0 || h <= 0 {
		return ImageID{}, fmt.Errorf("%w: %q", ErrMalformedRef, s)
	}
	return ImageID{ID: id, Width: w, Height: h, Format: format}, nil
}
