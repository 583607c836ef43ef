package scribe

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	loamAdapter "github.com/aretw0/scribe/pkg/adapters/loam"
	"github.com/aretw0/scribe/pkg/domain"
	"github.com/aretw0/scribe/pkg/narrator"
	"github.com/aretw0/scribe/pkg/ports"
)

// Narrator is the high-level entry point for the Scribe library.
// It wraps the narration sequencer and provides a simplified API for
// consumers: load a script, bind a surface, drive runs.
type Narrator struct {
	sequencer *narrator.Sequencer
	loader    ports.ScriptLoader
	surface   ports.Surface
	script    domain.Script
	seqOpts   []narrator.Option
	logger    *slog.Logger
	Name      string
}

// Option defines a functional option for configuring the Narrator.
type Option func(*Narrator)

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(n *Narrator) {
		n.seqOpts = append(n.seqOpts, narrator.WithLifecycleHooks(hooks))
	}
}

// WithLoader injects a custom ScriptLoader, bypassing the default Loam
// initialization.
func WithLoader(l ports.ScriptLoader) Option {
	return func(n *Narrator) {
		n.loader = l
	}
}

// WithScript sets the narration lines directly, bypassing loaders entirely.
func WithScript(script domain.Script) Option {
	return func(n *Narrator) {
		n.script = script
	}
}

// WithSurface binds the render target. Without it the narrator is silent
// (every entry point becomes a no-op).
func WithSurface(s ports.Surface) Option {
	return func(n *Narrator) {
		n.surface = s
	}
}

// WithTiming overrides the default pacing.
func WithTiming(t narrator.Timing) Option {
	return func(n *Narrator) {
		n.seqOpts = append(n.seqOpts, narrator.WithTiming(t))
	}
}

// WithDoneLine sets the completion announcement revealed by Succeed.
func WithDoneLine(text string) Option {
	return func(n *Narrator) {
		n.seqOpts = append(n.seqOpts, narrator.WithDoneLine(text))
	}
}

// WithOnHidden registers a callback fired after Succeed hides the overlay.
func WithOnHidden(fn func()) Option {
	return func(n *Narrator) {
		n.seqOpts = append(n.seqOpts, narrator.WithOnHidden(fn))
	}
}

// WithClock injects a custom clock (used by tests to drive time).
func WithClock(c ports.Clock) Option {
	return func(n *Narrator) {
		n.seqOpts = append(n.seqOpts, narrator.WithClock(c))
	}
}

// WithLogger sets a custom structured logger for the narrator.
func WithLogger(logger *slog.Logger) Option {
	return func(n *Narrator) {
		n.logger = logger
	}
}

// New initializes a new Narrator.
// By default it loads the script from a Loam repository at the given path.
// If WithLoader or WithScript is provided, repoPath can be empty and Loam is
// skipped.
func New(ctx context.Context, repoPath string, opts ...Option) (*Narrator, error) {
	n := &Narrator{}

	// Apply options first to check if a loader or script is provided
	for _, opt := range opts {
		opt(n)
	}

	if n.script == nil && n.loader == nil {
		if repoPath == "" {
			return nil, fmt.Errorf("repoPath is required when no custom loader or script is provided")
		}

		absPath, err := filepath.Abs(repoPath)
		if err != nil {
			return nil, fmt.Errorf("invalid path: %w", err)
		}
		n.Name = filepath.Base(absPath)

		loader, err := loamAdapter.Open(absPath)
		if err != nil {
			return nil, err
		}
		n.loader = loader
	} else if repoPath != "" {
		// A custom loader or script still gets a descriptive label.
		n.Name = filepath.Base(repoPath)
	}

	if n.logger == nil {
		n.logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	if n.Name != "" {
		n.logger = n.logger.With("script", n.Name)
	}

	if n.script == nil {
		script, err := n.loader.Load(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to load script: %w", err)
		}
		n.script = script
	}

	seqOpts := append([]narrator.Option{narrator.WithLogger(n.logger)}, n.seqOpts...)
	n.sequencer = narrator.New(n.surface, n.script, seqOpts...)

	return n, nil
}

// Start begins a new narration run for a job of hint items. It supersedes any
// prior run and returns immediately.
func (n *Narrator) Start(ctx context.Context, hint int) {
	n.sequencer.Start(ctx, hint)
}

// Succeed supersedes the active run, reveals the completion line, and hides
// the overlay after the settle delay. Blocks until hidden or superseded.
func (n *Narrator) Succeed(ctx context.Context) {
	n.sequencer.Succeed(ctx)
}

// Cancel aborts the active run and hides the overlay. Idempotent.
func (n *Narrator) Cancel() {
	n.sequencer.Cancel()
}

// Dispose cancels and detaches the surface permanently.
func (n *Narrator) Dispose() {
	n.sequencer.Dispose()
}

// Script returns the loaded narration lines.
func (n *Narrator) Script() domain.Script {
	return n.script
}

// Reload re-reads the script from the loader and rebuilds the sequencer.
// The active run, if any, is cancelled first.
func (n *Narrator) Reload(ctx context.Context) error {
	if n.loader == nil {
		return fmt.Errorf("narrator has no loader to reload from")
	}
	script, err := n.loader.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to reload script: %w", err)
	}

	n.sequencer.Cancel()
	n.script = script
	seqOpts := append([]narrator.Option{narrator.WithLogger(n.logger)}, n.seqOpts...)
	n.sequencer = narrator.New(n.surface, n.script, seqOpts...)
	return nil
}

// Watch returns a channel that signals when the underlying script changes.
// Returns an error if the loader does not support watching.
func (n *Narrator) Watch(ctx context.Context) (<-chan struct{}, error) {
	if w, ok := n.loader.(ports.Watchable); ok {
		return w.Watch(ctx)
	}
	return nil, fmt.Errorf("current loader does not support watching")
}

// Loader returns the underlying ScriptLoader used by the narrator.
func (n *Narrator) Loader() ports.ScriptLoader {
	return n.loader
}
