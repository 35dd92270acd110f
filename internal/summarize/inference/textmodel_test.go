package inference

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTextModel_GenerateRoundTrip(t *testing.T) {
	tok := newWordTokenizer()
	b := &scriptedBackend{name: "scripted", replies: []string{"summary of the clause"}}
	m := NewTextModel(tok, b, false)

	out, err := m.Generate(context.Background(), tok.Encode("<goal:general_briefing> the clause text"), GenerateParams{MaxOutputTokens: 10})
	require.NoError(t, err)

	assert.Equal(t, "summary of the clause", m.Decode(out))
	assert.Equal(t, []string{"<goal:general_briefing> the clause text"}, b.prompts)
	assert.Equal(t, "scripted", m.Backend())
}

func TestTextModel_ClipsOutput(t *testing.T) {
	tok := newWordTokenizer()
	b := &scriptedBackend{name: "s", replies: []string{"a b c d e f"}}
	m := NewTextModel(tok, b, false)

	out, err := m.Generate(context.Background(), tok.Encode("x"), GenerateParams{MaxOutputTokens: 4})
	require.NoError(t, err)
	assert.Equal(t, "a b c d", m.Decode(out))
}

func TestTextModel_ClipsOutputOnRuneBoundary(t *testing.T) {
	b := &scriptedBackend{name: "s", replies: []string{"Το δικαστήριο"}}
	m := NewTextModel(byteTokenizer{}, b, false)

	// Greek letters are two bytes each. The cut backs off to the last whole
	// letter.
	out, err := m.Generate(context.Background(), byteTokenizer{}.Encode("x"), GenerateParams{MaxOutputTokens: 3})
	require.NoError(t, err)
	assert.Equal(t, "Τ", m.Decode(out))

	out, err = m.Generate(context.Background(), byteTokenizer{}.Encode("x"), GenerateParams{MaxOutputTokens: 6})
	require.NoError(t, err)
	assert.Equal(t, "Το ", m.Decode(out))
}

func TestTextModel_Errors(t *testing.T) {
	tok := newWordTokenizer()

	t.Run("empty input", func(t *testing.T) {
		m := NewTextModel(tok, &scriptedBackend{name: "s"}, false)
		_, err := m.Generate(context.Background(), nil, GenerateParams{MaxOutputTokens: 4})
		assert.Error(t, err)
	})

	t.Run("empty output", func(t *testing.T) {
		m := NewTextModel(tok, &scriptedBackend{name: "s", replies: []string{"   "}}, false)
		_, err := m.Generate(context.Background(), tok.Encode("x"), GenerateParams{MaxOutputTokens: 4})
		assert.ErrorIs(t, err, ErrEmptyOutput)
	})

	t.Run("backend error", func(t *testing.T) {
		boom := errors.New("connection reset")
		m := NewTextModel(tok, &scriptedBackend{name: "s", err: boom}, false)
		_, err := m.Generate(context.Background(), tok.Encode("x"), GenerateParams{MaxOutputTokens: 4})
		assert.ErrorIs(t, err, boom)
	})
}

func TestTextModel_PingAndClose(t *testing.T) {
	b := &scriptedBackend{name: "s", pingErr: errors.New("down")}
	m := NewTextModel(newWordTokenizer(), b, true)

	assert.EqualError(t, m.Ping(context.Background()), "down")
	require.NoError(t, m.Close())
	assert.True(t, b.closed)

	// Release with FreeOSMemory enabled must be safe to call repeatedly.
	m.Release()
	m.Release()
}

func TestTextModel_PingWithoutPinger(t *testing.T) {
	m := NewTextModel(newWordTokenizer(), Echo{}, false)
	assert.NoError(t, m.Ping(context.Background()))
	assert.NoError(t, m.Close())
}

func TestEcho_Complete(t *testing.T) {
	out, err := Echo{}.Complete(context.Background(),
		"<jurisdiction:uk> <doc_type:statute> <goal:general_briefing> Section 1 applies to all   persons resident here.",
		GenerateParams{MaxOutputTokens: 4})
	require.NoError(t, err)
	assert.Equal(t, "Section 1 applies to", out)
}

func TestEcho_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Echo{}.Complete(ctx, "text", GenerateParams{MaxOutputTokens: 4})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSplitControlPrefix(t *testing.T) {
	tests := []struct {
		in       string
		wantTags []string
		wantText string
	}{
		{"<a:1> <b:2> body text", []string{"<a:1>", "<b:2>"}, "body text"},
		{"no tags here", nil, "no tags here"},
		{"<not a tag> body", nil, "<not a tag> body"},
		{"<a:1>", []string{"<a:1>"}, ""},
		{"<unterminated:x body", nil, "<unterminated:x body"},
	}
	for _, tt := range tests {
		tags, text := splitControlPrefix(tt.in)
		assert.Equal(t, tt.wantTags, tags, tt.in)
		assert.Equal(t, tt.wantText, text, tt.in)
	}
}
