package term_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/aretw0/scribe/pkg/adapters/term"
	"github.com/aretw0/scribe/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSurface_AppliesRevealedPrefix(t *testing.T) {
	var buf bytes.Buffer
	s := term.NewTestSurface(&buf)
	ctx := context.Background()

	require.NoError(t, s.Show(ctx))
	require.NoError(t, s.Apply(ctx, domain.Frame{
		Text:     "Uploading files.",
		Revealed: 9,
		Caret:    true,
		Phase:    domain.PhaseReveal,
	}))

	out := buf.String()
	assert.Contains(t, out, "Uploading")
	assert.NotContains(t, out, "Uploading f", "unrevealed runes must not appear")
	assert.Contains(t, out, "▌", "caret trails the last revealed rune")
}

func TestSurface_HideIsIdempotent(t *testing.T) {
	var buf bytes.Buffer
	s := term.NewTestSurface(&buf)
	ctx := context.Background()

	require.NoError(t, s.Show(ctx))
	require.NoError(t, s.Apply(ctx, domain.Frame{Text: "hi", Revealed: 2}))
	require.NoError(t, s.Hide(ctx))
	require.NoError(t, s.Hide(ctx))
	require.NoError(t, s.Hide(ctx))
}

func TestJobReport(t *testing.T) {
	job := domain.NewJob("abc123", "")
	job.Status = domain.JobIndexed
	job.Chunks = 7
	job.Documents = []domain.Document{
		{Name: "amoxil.pdf", BrandName: "Amoxil", Chunks: 4},
		{Name: "panadol.pdf", BrandName: "Panadol", Chunks: 3},
	}

	md := term.JobReport(job)
	assert.True(t, strings.HasPrefix(md, "# Job abc123"))
	assert.Contains(t, md, "| amoxil.pdf | Amoxil | 4 |")
	assert.Contains(t, md, "**Chunks:** 7")
}
