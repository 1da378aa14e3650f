// Package driven provides interfaces for infrastructure adapters (secondary/outbound ports).
package driven

import (
	"context"

	"github.com/brightline-labs/campaigniq/internal/core/domain"
)

// AssetEventOp is the kind of change observed on a watched collection.
type AssetEventOp int

const (
	// AssetCreated indicates a new asset appeared.
	AssetCreated AssetEventOp = iota

	// AssetUpdated indicates an existing asset changed.
	AssetUpdated

	// AssetRemoved indicates an asset disappeared.
	AssetRemoved
)

// AssetEvent is a change notification from a watched collection.
type AssetEvent struct {
	// Op is the kind of change.
	Op AssetEventOp

	// Path is the affected asset's path relative to the collection root.
	Path string
}

// AssetSource lists raw campaign assets from a collection. Implementations
// must supply empty extracted text when extraction is unavailable, never a
// missing value.
type AssetSource interface {
	// ListAssets enumerates all assets under the collection reference.
	ListAssets(ctx context.Context, collectionRef string) ([]domain.RawAsset, error)

	// Watch emits change events for the collection until ctx is cancelled.
	// The returned channel is closed when watching stops.
	Watch(ctx context.Context, collectionRef string) (<-chan AssetEvent, error)

	// Close releases resources.
	Close() error
}
