// Package rouge scores a generated summary against a reference summary with
// ROUGE-1, ROUGE-2 and ROUGE-L F1 measures.
//
// Tokenization lowercases the text, treats every character outside a-z and
// 0-9 as a separator and stems tokens longer than three characters with the
// Snowball English stemmer.
package rouge

import (
	"math"
	"strings"

	"github.com/kljensen/snowball/english"
)

// Scores holds F1 measures rounded to two decimals.
type Scores struct {
	Rouge1 float64 `json:"rouge_1"`
	Rouge2 float64 `json:"rouge_2"`
	RougeL float64 `json:"rouge_l"`
}

// Score compares candidate with reference. Empty input on either side
// yields zero scores.
func Score(reference, candidate string) Scores {
	ref, cand := Tokenize(reference), Tokenize(candidate)
	if len(ref) == 0 || len(cand) == 0 {
		return Scores{}
	}
	return Scores{
		Rouge1: round2(ngramF1(ref, cand, 1)),
		Rouge2: round2(ngramF1(ref, cand, 2)),
		RougeL: round2(lcsF1(ref, cand)),
	}
}

// Tokenize returns the normalized, stemmed tokens of text.
func Tokenize(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9')
	})
	for i, f := range fields {
		if len(f) > 3 {
			fields[i] = english.Stem(f, false)
		}
	}
	return fields
}

func ngrams(tokens []string, n int) map[string]int {
	counts := make(map[string]int)
	for i := 0; i+n <= len(tokens); i++ {
		counts[strings.Join(tokens[i:i+n], " ")]++
	}
	return counts
}

func ngramF1(ref, cand []string, n int) float64 {
	refGrams, candGrams := ngrams(ref, n), ngrams(cand, n)
	refTotal, candTotal := len(ref)-n+1, len(cand)-n+1
	if refTotal <= 0 || candTotal <= 0 {
		return 0
	}
	overlap := 0
	for g, c := range candGrams {
		overlap += min(c, refGrams[g])
	}
	return f1(float64(overlap)/float64(candTotal), float64(overlap)/float64(refTotal))
}

func lcsF1(ref, cand []string) float64 {
	l := lcs(ref, cand)
	return f1(float64(l)/float64(len(cand)), float64(l)/float64(len(ref)))
}

// lcs is the length of the longest common subsequence, using two rows.
func lcs(a, b []string) int {
	prev := make([]int, len(b)+1)
	cur := make([]int, len(b)+1)
	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			if a[i-1] == b[j-1] {
				cur[j] = prev[j-1] + 1
			} else {
				cur[j] = max(prev[j], cur[j-1])
			}
		}
		prev, cur = cur, prev
	}
	return prev[len(b)]
}

func f1(precision, recall float64) float64 {
	if precision+recall == 0 {
		return 0
	}
	return 2 * precision * recall / (precision + recall)
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}
