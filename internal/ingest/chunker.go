package ingest

import (
	"strings"
	"unicode"
)

// Chunking defaults, tuned for retrieval over prescribing documents.
const (
	DefaultChunkSize    = 400 // runes per chunk
	DefaultChunkOverlap = 30  // runes carried into the next chunk
)

// SplitSentences breaks text into sentences on terminal punctuation followed
// by whitespace. Newlines without punctuation also terminate a sentence, so
// headings and table rows become their own units.
func SplitSentences(text string) []string {
	var sentences []string
	var cur strings.Builder

	flush := func() {
		s := strings.TrimSpace(cur.String())
		if s != "" {
			sentences = append(sentences, s)
		}
		cur.Reset()
	}

	runes := []rune(text)
	for i, r := range runes {
		if r == '\n' {
			flush()
			continue
		}
		cur.WriteRune(r)
		if strings.ContainsRune(".!?", r) {
			if i+1 >= len(runes) || unicode.IsSpace(runes[i+1]) {
				flush()
			}
		}
	}
	flush()

	return sentences
}

// ChunkText splits text into chunks of roughly size runes, preferring
// sentence boundaries, with overlap runes of trailing context repeated at the
// start of the next chunk. A sentence longer than size becomes its own chunk
// rather than being split mid-word.
func ChunkText(text string, size, overlap int) []string {
	if size <= 0 {
		size = DefaultChunkSize
	}
	if overlap < 0 || overlap >= size {
		overlap = DefaultChunkOverlap
	}

	sentences := SplitSentences(text)
	if len(sentences) == 0 {
		return nil
	}

	var chunks []string
	var cur strings.Builder

	flush := func() {
		if cur.Len() == 0 {
			return
		}
		chunk := cur.String()
		chunks = append(chunks, chunk)
		cur.Reset()

		// Seed the next chunk with trailing context.
		if overlap > 0 {
			runes := []rune(chunk)
			if len(runes) > overlap {
				runes = runes[len(runes)-overlap:]
			}
			tail := strings.TrimSpace(string(runes))
			if tail != "" {
				cur.WriteString(tail)
			}
		}
	}

	for _, sentence := range sentences {
		sentLen := len([]rune(sentence))
		curLen := len([]rune(cur.String()))

		if curLen > 0 && curLen+1+sentLen > size {
			flush()
			curLen = len([]rune(cur.String()))
		}
		if curLen > 0 {
			cur.WriteString(" ")
		}
		cur.WriteString(sentence)
	}

	if s := strings.TrimSpace(cur.String()); s != "" {
		// Avoid emitting a final chunk that is nothing but overlap context.
		if len(chunks) == 0 || !strings.HasSuffix(chunks[len(chunks)-1], s) {
			chunks = append(chunks, s)
		}
	}

	return chunks
}
