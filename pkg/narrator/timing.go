package narrator

import (
	"strings"
	"time"
)

// sentenceEnders are the runes that extend the per-character delay, to mimic
// natural reading pauses.
const sentenceEnders = ".!?…"

// Timing holds the pacing knobs of the sequencer.
type Timing struct {
	// CharDelay is the base delay after each revealed rune.
	CharDelay time.Duration

	// PunctFactor multiplies CharDelay after sentence-ending punctuation.
	PunctFactor int

	// Fade is the duration of the fade transition between lines.
	Fade time.Duration

	// BaseGap is the inter-line gap for a single-item job.
	BaseGap time.Duration

	// GapStep is added to the gap per additional item in the job.
	GapStep time.Duration

	// MaxGap caps the scaled gap so large jobs never feel stalled.
	MaxGap time.Duration

	// Settle is how long the completion line stays visible before the
	// overlay hides itself.
	Settle time.Duration
}

// DefaultTiming returns the pacing used by the stock console overlay.
func DefaultTiming() Timing {
	return Timing{
		CharDelay:   28 * time.Millisecond,
		PunctFactor: 6,
		Fade:        180 * time.Millisecond,
		BaseGap:     900 * time.Millisecond,
		GapStep:     350 * time.Millisecond,
		MaxGap:      4 * time.Second,
		Settle:      1200 * time.Millisecond,
	}
}

// GapFor returns the inter-line gap for a job of the given item count. The
// gap grows linearly with the hint and is clamped at MaxGap, so longer jobs
// feel proportionally slower without becoming excessive.
func (t Timing) GapFor(hint int) time.Duration {
	if hint < 1 {
		hint = 1
	}
	gap := t.BaseGap + time.Duration(hint-1)*t.GapStep
	if gap > t.MaxGap {
		gap = t.MaxGap
	}
	return gap
}

// DelayFor returns the pause that follows the given revealed rune.
func (t Timing) DelayFor(r rune) time.Duration {
	if strings.ContainsRune(sentenceEnders, r) {
		return t.CharDelay * time.Duration(t.PunctFactor)
	}
	return t.CharDelay
}
