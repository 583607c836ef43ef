// Package term renders narration frames to an ANSI terminal.
package term

import (
	"context"
	"io"
	"os"
	"sync"

	"github.com/aretw0/scribe/pkg/domain"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// caret is the trailing cursor marker drawn after the last revealed rune.
const caret = "▌"

// Surface implements ports.Surface on a single terminal line. Each frame
// rewrites the line in place; fade phases are approximated with the faint
// style, since a terminal cannot animate opacity.
type Surface struct {
	mu      sync.Mutex
	out     *termenv.Output
	visible bool
	dirty   bool
}

// NewSurface creates a surface writing to w (usually os.Stderr, to keep
// stdout clean for piped output).
func NewSurface(w io.Writer) *Surface {
	return &Surface{
		out: termenv.NewOutput(w),
	}
}

// NewTestSurface creates a surface with styling disabled, for tests that
// assert on plain output.
func NewTestSurface(w io.Writer) *Surface {
	return &Surface{
		out: termenv.NewOutput(w, termenv.WithProfile(termenv.Ascii)),
	}
}

// IsTerminal reports whether f is attached to a TTY. Callers use this to
// skip narration when output is piped.
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// Show hides the hardware cursor; the caret glyph takes its place.
func (s *Surface) Show(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.visible {
		return nil
	}
	s.out.HideCursor()
	s.visible = true
	return nil
}

// Apply rewrites the narration line with the frame's revealed prefix.
func (s *Surface) Apply(ctx context.Context, f domain.Frame) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.out.ClearLine()
	_, _ = s.out.WriteString("\r")

	text := s.out.String(f.Visible())
	switch f.Phase {
	case domain.PhaseFadeIn, domain.PhaseFadeOut:
		text = text.Faint()
	}
	_, _ = s.out.WriteString(text.String())

	if f.Caret {
		p := s.out.ColorProfile()
		_, _ = s.out.WriteString(s.out.String(caret).Foreground(p.Color("#c084fc")).String())
	}

	s.dirty = true
	return nil
}

// Clear wipes the narration line without hiding the overlay.
func (s *Surface) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clearLocked()
	return nil
}

// Hide clears the line and restores the cursor. Idempotent.
func (s *Surface) Hide(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clearLocked()
	if s.visible {
		s.out.ShowCursor()
		s.visible = false
	}
	return nil
}

func (s *Surface) clearLocked() {
	if !s.dirty {
		return
	}
	s.out.ClearLine()
	_, _ = s.out.WriteString("\r")
	s.dirty = false
}
