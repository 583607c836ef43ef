package domain

import "time"

// Line is a single narration entry.
type Line struct {
	// Text is the full content revealed character by character.
	Text string `json:"text" yaml:"text" mapstructure:"text"`

	// Pause optionally overrides the inter-line gap that follows this line.
	// Zero means "use the configured gap".
	Pause time.Duration `json:"pause,omitempty" yaml:"pause,omitempty" mapstructure:"pause"`
}

// Script is the ordered line queue consumed front-to-back, exactly once per
// run. Scripts are immutable from the sequencer's point of view.
type Script []Line

// NewScript builds a Script from plain strings.
func NewScript(texts ...string) Script {
	s := make(Script, 0, len(texts))
	for _, t := range texts {
		s = append(s, Line{Text: t})
	}
	return s
}

// Runes returns the total rune count of the script, useful for progress
// estimation.
func (s Script) Runes() int {
	total := 0
	for _, l := range s {
		total += len([]rune(l.Text))
	}
	return total
}
