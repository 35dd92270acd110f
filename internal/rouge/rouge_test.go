package rouge

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScore(t *testing.T) {
	tests := []struct {
		name      string
		reference string
		candidate string
		want      Scores
	}{
		{
			name:      "identical",
			reference: "the court granted the motion",
			candidate: "the court granted the motion",
			want:      Scores{Rouge1: 1, Rouge2: 1, RougeL: 1},
		},
		{
			name:      "disjoint",
			reference: "the court granted the motion",
			candidate: "plaintiff appeals",
			want:      Scores{},
		},
		{
			name:      "empty candidate",
			reference: "the court granted the motion",
			candidate: "",
			want:      Scores{},
		},
		{
			name:      "punctuation only",
			reference: "...",
			candidate: "the court",
			want:      Scores{},
		},
		{
			// ref: the cat sat on the mat (6), cand: the cat on the mat (5)
			// unigram overlap 5: P=1, R=5/6, F=0.909
			// bigrams ref: the-cat cat-sat sat-on on-the the-mat, cand: the-cat cat-on on-the the-mat
			// overlap 3: P=3/4, R=3/5, F=0.667
			// LCS 5: same as ROUGE-1
			name:      "partial overlap",
			reference: "the cat sat on the mat",
			candidate: "the cat on the mat",
			want:      Scores{Rouge1: 0.91, Rouge2: 0.67, RougeL: 0.91},
		},
		{
			name:      "case and punctuation are ignored",
			reference: "The Court, granted the Motion.",
			candidate: "the court granted the motion",
			want:      Scores{Rouge1: 1, Rouge2: 1, RougeL: 1},
		},
		{
			name:      "stemming matches inflections",
			reference: "the parties agreed",
			candidate: "the party agrees",
			want:      Scores{Rouge1: 1, Rouge2: 1, RougeL: 1},
		},
		{
			// LCS of (a b c d) and (d c b a) is 1 while every unigram matches.
			name:      "order matters for ROUGE-L only",
			reference: "alpha beta gamma delta",
			candidate: "delta gamma beta alpha",
			want:      Scores{Rouge1: 1, Rouge2: 0, RougeL: 0.25},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Score(tt.reference, tt.candidate))
		})
	}
}

func TestTokenize(t *testing.T) {
	assert.Equal(t, []string{"the", "court", "s", "2", "rule"}, Tokenize("The Court's 2 rulings"))
	assert.Empty(t, Tokenize("  -- "))
}

func TestLCS(t *testing.T) {
	assert.Equal(t, 4, lcs(
		[]string{"a", "b", "c", "b", "d", "a", "b"},
		[]string{"b", "d", "c", "a", "b", "a"},
	))
	assert.Equal(t, 0, lcs([]string{"a"}, []string{"b"}))
}
