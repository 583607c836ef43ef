package scribe_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/aretw0/scribe"
	"github.com/aretw0/scribe/pkg/adapters/memory"
	"github.com/aretw0/scribe/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// captureSurface records fully revealed lines.
type captureSurface struct {
	mu    sync.Mutex
	held  []string
	hides int
}

func (c *captureSurface) Show(context.Context) error { return nil }
func (c *captureSurface) Clear(context.Context) error { return nil }

func (c *captureSurface) Hide(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.hides++
	return nil
}

func (c *captureSurface) Apply(_ context.Context, f domain.Frame) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if f.Phase == domain.PhaseHold {
		c.held = append(c.held, f.Text)
	}
	return nil
}

func (c *captureSurface) lines() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.held...)
}

type noopClock struct{}

func (noopClock) Now() time.Time { return time.Time{} }
func (noopClock) Sleep(ctx context.Context, _ time.Duration) error { return ctx.Err() }

var testScript = domain.Script{
	{Text: "One."},
	{Text: "Two."},
}

func TestNew_RequiresSource(t *testing.T) {
	_, err := scribe.New(context.Background(), "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "repoPath is required")
}

func TestNew_WithScript(t *testing.T) {
	nar, err := scribe.New(context.Background(), "", scribe.WithScript(testScript))
	require.NoError(t, err)
	assert.Equal(t, testScript, nar.Script())
	assert.Nil(t, nar.Loader())
}

func TestNew_WithLoader(t *testing.T) {
	loader := memory.NewScriptLoader(testScript)

	nar, err := scribe.New(context.Background(), "", scribe.WithLoader(loader))
	require.NoError(t, err)
	assert.Equal(t, testScript, nar.Script())
	assert.Same(t, loader, nar.Loader())
}

func TestNarrator_FullRun(t *testing.T) {
	ctx := context.Background()
	surface := &captureSurface{}
	done := make(chan struct{})

	nar, err := scribe.New(ctx, "",
		scribe.WithScript(testScript),
		scribe.WithSurface(surface),
		scribe.WithClock(noopClock{}),
		scribe.WithDoneLine("All set."),
		scribe.WithLifecycleHooks(domain.LifecycleHooks{
			OnRunEnd: func(context.Context, *domain.RunEvent) { close(done) },
		}),
	)
	require.NoError(t, err)
	defer nar.Dispose()

	nar.Start(ctx, 2)
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("run did not complete")
	}

	nar.Succeed(ctx)

	assert.Equal(t, []string{"One.", "Two.", "All set."}, surface.lines())
	assert.GreaterOrEqual(t, surface.hides, 1, "Succeed hides the overlay")
}

func TestNarrator_Reload(t *testing.T) {
	ctx := context.Background()
	loader := memory.NewScriptLoader(testScript)

	nar, err := scribe.New(ctx, "", scribe.WithLoader(loader))
	require.NoError(t, err)
	require.NoError(t, nar.Reload(ctx))
	assert.Equal(t, testScript, nar.Script())
}

func TestNarrator_ReloadWithoutLoader(t *testing.T) {
	nar, err := scribe.New(context.Background(), "", scribe.WithScript(testScript))
	require.NoError(t, err)
	assert.Error(t, nar.Reload(context.Background()))
}

func TestNarrator_WatchUnsupported(t *testing.T) {
	nar, err := scribe.New(context.Background(), "",
		scribe.WithLoader(memory.NewScriptLoader(testScript)))
	require.NoError(t, err)

	_, err = nar.Watch(context.Background())
	assert.Error(t, err)
}
