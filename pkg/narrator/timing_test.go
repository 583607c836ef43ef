package narrator_test

import (
	"testing"
	"time"

	"github.com/aretw0/scribe/pkg/narrator"
	"github.com/stretchr/testify/assert"
)

func TestTiming_GapFor(t *testing.T) {
	timing := narrator.Timing{
		BaseGap: 900 * time.Millisecond,
		GapStep: 350 * time.Millisecond,
		MaxGap:  4 * time.Second,
	}

	// A single item uses the base gap exactly.
	assert.Equal(t, 900*time.Millisecond, timing.GapFor(1))

	// Zero and negative hints are treated as one item.
	assert.Equal(t, 900*time.Millisecond, timing.GapFor(0))
	assert.Equal(t, 900*time.Millisecond, timing.GapFor(-5))

	// Linear growth per additional item.
	assert.Equal(t, 1250*time.Millisecond, timing.GapFor(2))
	assert.Equal(t, 1600*time.Millisecond, timing.GapFor(3))

	// Large jobs are clamped to the maximum, not unbounded.
	assert.Equal(t, 4*time.Second, timing.GapFor(100))
	assert.Equal(t, 4*time.Second, timing.GapFor(1_000_000))
}

func TestTiming_DelayFor(t *testing.T) {
	timing := narrator.Timing{
		CharDelay:   30 * time.Millisecond,
		PunctFactor: 6,
	}

	assert.Equal(t, 30*time.Millisecond, timing.DelayFor('a'))
	assert.Equal(t, 30*time.Millisecond, timing.DelayFor(','))
	assert.Equal(t, 180*time.Millisecond, timing.DelayFor('.'))
	assert.Equal(t, 180*time.Millisecond, timing.DelayFor('!'))
	assert.Equal(t, 180*time.Millisecond, timing.DelayFor('?'))
	assert.Equal(t, 180*time.Millisecond, timing.DelayFor('…'))
}
