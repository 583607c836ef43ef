package narrator

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/scribe/pkg/domain"
	"github.com/aretw0/scribe/pkg/ports"
)

// Sequencer narrates a multi-step background operation one line at a time.
// It is safe for concurrent use: Start, Succeed and Cancel may be called from
// any goroutine, and the most recently issued call always wins.
type Sequencer struct {
	mu      sync.Mutex
	run     uint64
	surface ports.Surface

	clock    ports.Clock
	script   domain.Script
	doneLine domain.Line
	timing   Timing
	hooks    domain.LifecycleHooks
	logger   *slog.Logger
	onHidden func()
}

// Option defines a functional option for configuring the Sequencer.
type Option func(*Sequencer)

// WithClock injects a custom clock (used by tests to drive time).
func WithClock(c ports.Clock) Option {
	return func(s *Sequencer) { s.clock = c }
}

// WithTiming overrides the default pacing.
func WithTiming(t Timing) Option {
	return func(s *Sequencer) { s.timing = t }
}

// WithDoneLine sets the single completion announcement revealed by Succeed.
func WithDoneLine(text string) Option {
	return func(s *Sequencer) { s.doneLine = domain.Line{Text: text} }
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(s *Sequencer) { s.hooks = hooks }
}

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Sequencer) { s.logger = logger }
}

// WithOnHidden registers a callback fired after Succeed hides the overlay,
// so the caller can reset dependent UI state.
func WithOnHidden(fn func()) Option {
	return func(s *Sequencer) { s.onHidden = fn }
}

// New creates a sequencer bound to a surface and a script. A nil surface is
// legal: every entry point becomes a no-op, mirroring the overlay being
// absent from the page.
func New(surface ports.Surface, script domain.Script, opts ...Option) *Sequencer {
	s := &Sequencer{
		surface:  surface,
		script:   script,
		doneLine: domain.Line{Text: "Done. Your documents are indexed."},
		timing:   DefaultTiming(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.clock == nil {
		s.clock = ports.SystemClock{}
	}
	if s.logger == nil {
		s.logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	return s
}

// Start begins a new narration run for a job of hint items. Any prior run is
// invalidated synchronously, before this run performs its first surface
// mutation. The run itself proceeds asynchronously; Start never blocks and
// never fails.
func (s *Sequencer) Start(ctx context.Context, hint int) {
	s.mu.Lock()
	if s.surface == nil || len(s.script) == 0 {
		s.mu.Unlock()
		return
	}
	s.run++
	id := s.run
	s.mu.Unlock()

	go s.play(ctx, id, hint)
}

// Succeed supersedes any active run and reveals the single completion line,
// waits the settle delay, then hides the overlay and fires the OnHidden
// callback. Unlike Start it blocks until the overlay is hidden (or until the
// announcement itself is superseded).
func (s *Sequencer) Succeed(ctx context.Context) {
	s.mu.Lock()
	if s.surface == nil {
		s.mu.Unlock()
		return
	}
	s.run++
	id := s.run
	_ = s.surface.Clear(ctx)
	s.mu.Unlock()

	if !s.reveal(ctx, id, len(s.script), s.doneLine) {
		return
	}
	if err := s.clock.Sleep(ctx, s.timing.Settle); err != nil {
		return
	}

	s.mu.Lock()
	if s.run == id {
		_ = s.surface.Hide(ctx)
	}
	still := s.run == id
	s.mu.Unlock()

	if still && s.onHidden != nil {
		s.onHidden()
	}
}

// Cancel invalidates any in-flight run at its next checkpoint, clears all
// visible narration synchronously, and hides the overlay. Idempotent: safe
// to call when no run is active.
func (s *Sequencer) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.run++
	if s.surface == nil {
		return
	}
	_ = s.surface.Clear(context.Background())
	_ = s.surface.Hide(context.Background())
}

// Dispose cancels and detaches the surface permanently. The sequencer stays
// usable but silent afterwards.
func (s *Sequencer) Dispose() {
	s.Cancel()
	s.mu.Lock()
	s.surface = nil
	s.mu.Unlock()
}

// play drives one full run. Every surface mutation happens under the mutex
// together with the identity check, so a superseded run can never write after
// the newer run's first mutation.
func (s *Sequencer) play(ctx context.Context, id uint64, hint int) {
	if !s.show(ctx, id) {
		return
	}
	s.emitRun(ctx, s.hooks.OnRunStart, &domain.RunEvent{Run: id}, domain.EventRunStart)

	for i, line := range s.script {
		// Fade the previous line out before replacing it. Skipped for the
		// first line, which fades in over an empty overlay.
		if i > 0 {
			if !s.apply(ctx, id, domain.Frame{
				Run: id, LineIndex: i - 1, Text: s.script[i-1].Text,
				Revealed: len([]rune(s.script[i-1].Text)), Phase: domain.PhaseFadeOut,
			}) {
				return
			}
			if !s.sleep(ctx, id, s.timing.Fade) {
				return
			}
		}

		if !s.reveal(ctx, id, i, line) {
			return
		}

		gap := line.Pause
		if gap == 0 {
			gap = s.timing.GapFor(hint)
		}
		if !s.sleep(ctx, id, gap) {
			return
		}
	}

	s.emitRun(ctx, s.hooks.OnRunEnd, &domain.RunEvent{Run: id}, domain.EventRunEnd)
	s.logger.Debug("narration run completed", "run", id, "lines", len(s.script))
}

// reveal performs the typewriter reveal of a single line: insert an empty
// frame, then append one rune at a time with a trailing caret, pausing after
// each. Sentence-ending punctuation extends the pause. Returns false when the
// run was superseded mid-reveal.
func (s *Sequencer) reveal(ctx context.Context, id uint64, index int, line domain.Line) bool {
	ev := &domain.RunEvent{Run: id, LineIndex: index, Line: line.Text}
	s.emitRun(ctx, s.hooks.OnLineStart, ev, domain.EventLineStart)

	if !s.apply(ctx, id, domain.Frame{
		Run: id, LineIndex: index, Text: line.Text, Phase: domain.PhaseFadeIn,
	}) {
		return false
	}

	runes := []rune(line.Text)
	for n := 1; n <= len(runes); n++ {
		if !s.apply(ctx, id, domain.Frame{
			Run: id, LineIndex: index, Text: line.Text,
			Revealed: n, Caret: true, Phase: domain.PhaseReveal,
		}) {
			return false
		}
		if !s.sleep(ctx, id, s.timing.DelayFor(runes[n-1])) {
			return false
		}
	}

	// Fully revealed: drop the caret and hold.
	if !s.apply(ctx, id, domain.Frame{
		Run: id, LineIndex: index, Text: line.Text,
		Revealed: len(runes), Phase: domain.PhaseHold,
	}) {
		return false
	}

	s.emitRun(ctx, s.hooks.OnLineEnd, ev, domain.EventLineEnd)
	return true
}

// show makes the overlay visible if the run still owns it.
func (s *Sequencer) show(ctx context.Context, id uint64) bool {
	s.mu.Lock()
	if s.run != id || s.surface == nil {
		s.mu.Unlock()
		return false
	}
	if err := s.surface.Show(ctx); err != nil {
		s.logger.Warn("surface show failed", "err", err)
	}
	s.mu.Unlock()
	return true
}

// apply renders a frame if the run still owns the surface. The check and the
// mutation are atomic; a stale run observes the bumped counter and backs off.
func (s *Sequencer) apply(ctx context.Context, id uint64, frame domain.Frame) bool {
	s.mu.Lock()
	if s.run != id || s.surface == nil {
		s.mu.Unlock()
		s.superseded(ctx, id)
		return false
	}
	if err := s.surface.Apply(ctx, frame); err != nil {
		s.logger.Warn("surface apply failed", "err", err)
	}
	s.mu.Unlock()
	return true
}

// sleep suspends cooperatively and re-checks the run identity afterwards.
func (s *Sequencer) sleep(ctx context.Context, id uint64, d time.Duration) bool {
	if err := s.clock.Sleep(ctx, d); err != nil {
		return false
	}
	s.mu.Lock()
	alive := s.run == id
	s.mu.Unlock()
	if !alive {
		s.superseded(ctx, id)
	}
	return alive
}

// superseded emits the run_end event for a run cancelled by a newer one.
// Called at most meaningfully once per run; stale timer callbacks that fire
// later are harmless because they perform no mutation.
func (s *Sequencer) superseded(ctx context.Context, id uint64) {
	s.emitRun(ctx, s.hooks.OnRunEnd, &domain.RunEvent{Run: id, Superseded: true}, domain.EventRunEnd)
}

func (s *Sequencer) emitRun(ctx context.Context, hook func(context.Context, *domain.RunEvent), ev *domain.RunEvent, t domain.EventType) {
	if hook == nil {
		return
	}
	ev.Type = t
	ev.Timestamp = s.clock.Now()
	hook(ctx, ev)
}
