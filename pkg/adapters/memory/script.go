package memory

import (
	"context"

	"github.com/aretw0/scribe/pkg/domain"
)

// ScriptLoader implements ports.ScriptLoader over a fixed in-memory script.
// Useful for tests and for the built-in default narration.
type ScriptLoader struct {
	script domain.Script
}

// NewScriptLoader wraps a fixed script.
func NewScriptLoader(script domain.Script) *ScriptLoader {
	return &ScriptLoader{script: script}
}

// Load returns the wrapped script.
func (l *ScriptLoader) Load(ctx context.Context) (domain.Script, error) {
	if len(l.script) == 0 {
		return nil, domain.ErrEmptyScript
	}
	out := make(domain.Script, len(l.script))
	copy(out, l.script)
	return out, nil
}
