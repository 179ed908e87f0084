package portablepress

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when a requested document does not exist.
var ErrNotFound = errors.New("portablepress: not found")

// MissingIdentityError reports a document without a usable slug.
type MissingIdentityError struct {
	ID   string
	Kind string
}

func (e *MissingIdentityError) Error() string {
	return fmt.Sprintf("portablepress: %s %q has no slug", e.Kind, e.ID)
}

// AssetResolutionError reports an image reference that could not be turned
// into a URL.
type AssetResolutionError struct {
	Ref string
	Err error
}

func (e *AssetResolutionError) Error() string {
	return fmt.Sprintf("portablepress: resolve asset %q: %v", e.Ref, e.Err)
}

func (e *AssetResolutionError) Unwrap() error { return e.Err }

// UpstreamFetchError reports a failed query against the content source.
type UpstreamFetchError struct {
	Query string
	Err   error
}

func (e *UpstreamFetchError) Error() string {
	return fmt.Sprintf("portablepress: fetch %s: %v", e.Query, e.Err)
}

func (e *UpstreamFetchError) Unwrap() error { return e.Err }
