package segment

import (
	"strings"
	"testing"

	"github.com/neurosnap/sentences"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplit_OrderAndCoverage(t *testing.T) {
	text := "The court granted the motion. The defendant appealed! Was the ruling correct? It was."

	got, err := Split(text)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"The court granted the motion.",
		"The defendant appealed!",
		"Was the ruling correct?",
		"It was.",
	}, got)
	assert.Equal(t, strings.Fields(text), strings.Fields(strings.Join(got, " ")))
}

func TestSplit_KeepsAbbreviations(t *testing.T) {
	text := "Mr. Smith filed suit against Acme Inc. in 2019. The case settled."

	got, err := Split(text)
	require.NoError(t, err)

	require.Len(t, got, 2)
	assert.True(t, strings.HasPrefix(got[0], "Mr. Smith"))
	assert.Equal(t, "The case settled.", got[1])
}

func TestSplit_SentenceEndingInNumber(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			"year",
			"The lease began in 2019. The tenant paid rent.",
			[]string{"The lease began in 2019.", "The tenant paid rent."},
		},
		{
			"amount",
			"The fee is 500. The deposit is returned on exit.",
			[]string{"The fee is 500.", "The deposit is returned on exit."},
		},
		{
			"section number",
			"See paragraph 12. The remedy is damages.",
			[]string{"See paragraph 12.", "The remedy is damages."},
		},
		{
			"decimal stays whole",
			"Interest accrues at 2.5 percent per annum.",
			[]string{"Interest accrues at 2.5 percent per annum."},
		},
		{
			"lowercase continuation",
			"The amount under clause 4. applies to arrears only.",
			[]string{"The amount under clause 4. applies to arrears only."},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Split(tt.text)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSplitAfterNumbers(t *testing.T) {
	assert.Equal(t, []string{"Paid in 2019.", " The end."}, splitAfterNumbers("Paid in 2019. The end."))
	assert.Equal(t, []string{"1. The parties agree."}, splitAfterNumbers("1. The parties agree."))
	assert.Equal(t, []string{"Rent (see 3.", " (A) applies)."}, splitAfterNumbers("Rent (see 3. (A) applies)."))
	assert.Equal(t, []string{"The period is 30.", ` "Notice" means notice.`},
		splitAfterNumbers(`The period is 30. "Notice" means notice.`))
	assert.Equal(t, []string{"no boundary here"}, splitAfterNumbers("no boundary here"))
}

func TestSegmenter_SplitsStubSentenceOnNumber(t *testing.T) {
	seg := New(stubTokenizer{parts: []string{"Signed on 1 May 2020. The buyer paid. "}})

	got, err := seg.Split("ignored")
	require.NoError(t, err)
	assert.Equal(t, []string{"Signed on 1 May 2020.", "The buyer paid."}, got)
}

func TestSplit_Empty(t *testing.T) {
	got, err := Split("   \n\t ")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSplit_NoTerminalPunctuation(t *testing.T) {
	got, err := Split("a clause without a full stop")
	require.NoError(t, err)
	assert.Equal(t, []string{"a clause without a full stop"}, got)
}

func TestDefault_IsShared(t *testing.T) {
	a, err := Default()
	require.NoError(t, err)
	b, err := Default()
	require.NoError(t, err)
	assert.Same(t, a, b)
}

type stubTokenizer struct{ parts []string }

func (s stubTokenizer) Tokenize(string) []*sentences.Sentence {
	out := make([]*sentences.Sentence, 0, len(s.parts))
	for _, p := range s.parts {
		out = append(out, &sentences.Sentence{Text: p})
	}
	return out
}

func TestSegmenter_DropsBlankSentences(t *testing.T) {
	seg := New(stubTokenizer{parts: []string{" One. ", "", "  ", "Two."}})

	got, err := seg.Split("ignored")
	require.NoError(t, err)
	assert.Equal(t, []string{"One.", "Two."}, got)
}

func TestSegmenter_Nil(t *testing.T) {
	var seg *Segmenter
	_, err := seg.Split("text")
	assert.ErrorIs(t, err, ErrUnavailable)
}
