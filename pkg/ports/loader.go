package ports

import (
	"context"

	"github.com/aretw0/scribe/pkg/domain"
)

// ScriptLoader defines how the narrator retrieves its line queue.
// This allows the storage layer (Loam, Memory) to be decoupled.
type ScriptLoader interface {
	// Load returns the ordered narration script.
	Load(ctx context.Context) (domain.Script, error)
}

// Watchable defines an interface for loaders that can notify about backend
// changes. This is typically used for hot-reload in dev mode.
type Watchable interface {
	// Watch returns a channel that is signaled when the underlying script
	// changes. It abstracts away the specific event details, signaling only
	// that a reload is required.
	Watch(ctx context.Context) (<-chan struct{}, error)
}
