// Package cache stores rendered graph artifacts.
//
// Rendering SVG or PNG runs Graphviz, which is slow compared to everything
// else jsonlens does. Artifacts depend only on the document text and the
// render options, so they are cached under a key derived from both (see
// [RenderKey]) and an edited document simply stops hitting old entries.
//
// [FileCache] keeps entries as files below a directory; [NullCache] stores
// nothing and is used when caching is disabled.
package cache

import (
	"context"
	"time"
)

// Cache is a byte store with optional expiry.
type Cache interface {
	// Get returns the entry for key. A miss is (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	Close() error
}

// RenderOpts are the inputs of a render besides the document.
type RenderOpts struct {
	Format    string `json:"format"`
	Highlight string `json:"highlight,omitempty"`
	ShowPaths bool   `json:"show_paths,omitempty"`
}

// RenderKey returns the cache key of a render of the document with the
// given content hash.
func RenderKey(docHash string, opts RenderOpts) string {
	return hashKey("render", docHash, opts)
}
