package ports

import (
	"context"

	"github.com/aretw0/scribe/pkg/domain"
)

// Surface is the rendering target owned by the active narration run. The
// sequencer computes pure frames; the surface decides how they look. A nil
// surface is legal and turns the sequencer into a no-op, matching the
// "container element absent" behavior of the overlay.
type Surface interface {
	// Show makes the overlay visible. Called once before the first frame of
	// a run.
	Show(ctx context.Context) error

	// Apply renders a frame, replacing whatever the previous frame showed.
	Apply(ctx context.Context, frame domain.Frame) error

	// Clear removes all visible narration without hiding the overlay.
	Clear(ctx context.Context) error

	// Hide clears and hides the overlay. Must be idempotent.
	Hide(ctx context.Context) error
}
