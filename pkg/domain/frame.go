package domain

// Phase describes what the active line is currently doing on screen.
type Phase string

const (
	// PhaseFadeIn marks a freshly inserted, still empty line.
	PhaseFadeIn Phase = "fade_in"
	// PhaseReveal marks a line mid-typewriter, Revealed runes visible.
	PhaseReveal Phase = "reveal"
	// PhaseHold marks a fully revealed line waiting out the inter-line gap.
	PhaseHold Phase = "hold"
	// PhaseFadeOut marks a line that is on its way out before removal.
	PhaseFadeOut Phase = "fade_out"
)

// Frame is a pure snapshot of the visible narration state. The sequencer
// computes frames; a Surface turns them into pixels, ANSI bytes, or test
// recordings. Keeping this a value type means the timing state machine can be
// exercised without any rendering backend.
type Frame struct {
	// Run is the identity of the run that produced this frame.
	Run uint64 `json:"run"`

	// LineIndex is the position of the active line within the script.
	LineIndex int `json:"line_index"`

	// Text is the full text of the active line.
	Text string `json:"text"`

	// Revealed is how many runes of Text are currently visible.
	Revealed int `json:"revealed"`

	// Caret indicates whether the trailing cursor marker should be drawn.
	Caret bool `json:"caret"`

	// Phase is the current display phase of the line.
	Phase Phase `json:"phase"`
}

// Visible returns the revealed prefix of the line text.
func (f Frame) Visible() string {
	runes := []rune(f.Text)
	if f.Revealed >= len(runes) {
		return f.Text
	}
	if f.Revealed <= 0 {
		return ""
	}
	return string(runes[:f.Revealed])
}

// Complete reports whether the whole line has been revealed.
func (f Frame) Complete() bool {
	return f.Revealed >= len([]rune(f.Text))
}
