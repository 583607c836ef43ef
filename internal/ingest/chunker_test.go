package ingest

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitSentences(t *testing.T) {
	text := "First sentence. Second one! Is this third? Heading without punctuation\nlast line"
	got := SplitSentences(text)
	require.Len(t, got, 5)
	assert.Equal(t, "First sentence.", got[0])
	assert.Equal(t, "Second one!", got[1])
	assert.Equal(t, "Is this third?", got[2])
	assert.Equal(t, "Heading without punctuation", got[3])
	assert.Equal(t, "last line", got[4])
}

func TestSplitSentences_DoesNotBreakDecimals(t *testing.T) {
	got := SplitSentences("Dose is 2.5 mg daily. Take with food.")
	require.Len(t, got, 2)
	assert.Equal(t, "Dose is 2.5 mg daily.", got[0])
}

func TestChunkText_RespectsSize(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 40; i++ {
		b.WriteString("This is a filler sentence for the chunker. ")
	}

	chunks := ChunkText(b.String(), 200, 20)
	require.NotEmpty(t, chunks)
	for i, c := range chunks {
		// A chunk may exceed the target only by the overlap seed plus one
		// oversized sentence; with short sentences it stays close to size.
		assert.LessOrEqual(t, len([]rune(c)), 300, "chunk %d too large", i)
	}
	assert.Greater(t, len(chunks), 5)
}

func TestChunkText_OverlapCarriesContext(t *testing.T) {
	text := "Alpha bravo charlie delta echo. Foxtrot golf hotel india juliet. Kilo lima mike november oscar."
	chunks := ChunkText(text, 40, 10)
	require.Greater(t, len(chunks), 1)

	for i := 1; i < len(chunks); i++ {
		prevTail := []rune(chunks[i-1])
		if len(prevTail) > 10 {
			prevTail = prevTail[len(prevTail)-10:]
		}
		seed := strings.TrimSpace(string(prevTail))
		assert.True(t, strings.HasPrefix(chunks[i], seed),
			"chunk %d should start with trailing context of chunk %d", i, i-1)
	}
}

func TestChunkText_Empty(t *testing.T) {
	assert.Nil(t, ChunkText("", 400, 30))
	assert.Nil(t, ChunkText("   \n \n", 400, 30))
}
