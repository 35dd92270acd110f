// Package chunk packs sentences into overlapping windows that fit a model's
// input budget.
//
// Budgets are expressed in words. A chunk never splits a sentence, and
// consecutive chunks always share at least one sentence. Two chunks may
// exceed the budget: a single sentence longer than the budget, and an
// overlap suffix together with the one sentence that overflowed the
// previous chunk.
package chunk

import (
	"strings"
)

// Chunk is a run of consecutive sentences joined by single spaces.
type Chunk struct {
	Text  string
	Words int
	// Start and End delimit the sentences used, as indexes into the input
	// slice (End is exclusive).
	Start int
	End   int
}

// Build greedily accumulates sentences while the running word count stays at
// or below maxWords. When a sentence does not fit, the current chunk is
// closed and the next one is seeded with a trailing run of the closed
// chunk's sentences whose word count exceeds overlapWords (always at least
// one sentence). The overlap is never shortened, even when it and the
// incoming sentence together exceed maxWords.
func Build(sentences []string, maxWords, overlapWords int) []Chunk {
	if len(sentences) == 0 {
		return nil
	}
	if overlapWords < 0 {
		overlapWords = 0
	}

	counts := make([]int, len(sentences))
	for i, s := range sentences {
		counts[i] = wordCount(s)
	}

	var chunks []Chunk
	start, end, words := 0, 0, 0

	for i := range sentences {
		if end > start && words+counts[i] <= maxWords {
			end++
			words += counts[i]
			continue
		}
		if end == start {
			// Empty chunk: the sentence always starts a new one.
			start, end, words = i, i+1, counts[i]
			continue
		}

		chunks = append(chunks, newChunk(sentences, start, end, words))

		ovStart := overlapStart(counts, start, end, overlapWords)
		start, end, words = ovStart, i+1, sum(counts[ovStart:end])+counts[i]
	}

	if end > start {
		chunks = append(chunks, newChunk(sentences, start, end, words))
	}
	return chunks
}

// overlapStart walks backwards from end and returns the index of the first
// sentence of the overlap suffix. It stops once the suffix has more than
// overlapWords words and holds at least one sentence.
func overlapStart(counts []int, start, end, overlapWords int) int {
	taken, acc := 0, 0
	for j := end - 1; j >= start; j-- {
		acc += counts[j]
		if acc > overlapWords && taken > 0 {
			break
		}
		taken++
	}
	return end - taken
}

// Texts returns the text of every chunk in order.
func Texts(chunks []Chunk) []string {
	out := make([]string, len(chunks))
	for i, c := range chunks {
		out[i] = c.Text
	}
	return out
}

func newChunk(sentences []string, start, end, words int) Chunk {
	return Chunk{
		Text:  strings.Join(sentences[start:end], " "),
		Words: words,
		Start: start,
		End:   end,
	}
}

func wordCount(s string) int {
	return len(strings.Fields(s))
}

func sum(xs []int) int {
	n := 0
	for _, x := range xs {
		n += x
	}
	return n
}
