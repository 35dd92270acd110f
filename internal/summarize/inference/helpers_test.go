package inference

import (
	"context"
	"strings"
	"sync"
)

// wordTokenizer maps each whitespace-separated word to a stable ID.
type wordTokenizer struct {
	mu    sync.Mutex
	ids   map[string]int
	words []string
}

func newWordTokenizer() *wordTokenizer {
	return &wordTokenizer{ids: make(map[string]int)}
}

func (t *wordTokenizer) Encode(text string) []int {
	t.mu.Lock()
	defer t.mu.Unlock()
	fields := strings.Fields(text)
	out := make([]int, len(fields))
	for i, w := range fields {
		id, ok := t.ids[w]
		if !ok {
			id = len(t.words)
			t.ids[w] = id
			t.words = append(t.words, w)
		}
		out[i] = id
	}
	return out
}

func (t *wordTokenizer) Decode(tokens []int) string {
	t.mu.Lock()
	defer t.mu.Unlock()
	words := make([]string, len(tokens))
	for i, id := range tokens {
		words[i] = t.words[id]
	}
	return strings.Join(words, " ")
}

// fakeModel is a Model over wordTokenizer that answers with a fixed reply.
type fakeModel struct {
	*wordTokenizer
	reply    string
	err      error
	released int
	closed   bool

	inputs [][]int
	params []GenerateParams
}

func newFakeModel(reply string) *fakeModel {
	return &fakeModel{wordTokenizer: newWordTokenizer(), reply: reply}
}

func (m *fakeModel) Tokenize(text string) []int   { return m.Encode(text) }
func (m *fakeModel) EncodeLength(text string) int { return len(m.Encode(text)) }
func (m *fakeModel) Release()                     { m.released++ }
func (m *fakeModel) lastInput() string            { return m.Decode(m.inputs[len(m.inputs)-1]) }
func (m *fakeModel) lastParams() GenerateParams   { return m.params[len(m.params)-1] }

func (m *fakeModel) Close() error {
	m.closed = true
	return nil
}

func (m *fakeModel) Generate(_ context.Context, input []int, p GenerateParams) ([]int, error) {
	m.inputs = append(m.inputs, input)
	m.params = append(m.params, p)
	if m.err != nil {
		return nil, m.err
	}
	return m.Encode(m.reply), nil
}

// scriptedBackend records prompts and returns replies in order.
type scriptedBackend struct {
	name    string
	replies []string
	err     error
	calls   int
	prompts []string
	pingErr error
	closed  bool
}

func (b *scriptedBackend) Name() string { return b.name }

func (b *scriptedBackend) Complete(_ context.Context, prompt string, _ GenerateParams) (string, error) {
	b.calls++
	b.prompts = append(b.prompts, prompt)
	if b.err != nil {
		return "", b.err
	}
	if len(b.replies) == 0 {
		return "", nil
	}
	r := b.replies[0]
	if len(b.replies) > 1 {
		b.replies = b.replies[1:]
	}
	return r, nil
}

func (b *scriptedBackend) Ping(context.Context) error { return b.pingErr }
func (b *scriptedBackend) Close() error {
	b.closed = true
	return nil
}

// byteTokenizer makes every byte a token, so a cut can land inside a
// multi-byte character.
type byteTokenizer struct{}

func (byteTokenizer) Encode(text string) []int {
	out := make([]int, len(text))
	for i := 0; i < len(text); i++ {
		out[i] = int(text[i])
	}
	return out
}

func (byteTokenizer) Decode(tokens []int) string {
	b := make([]byte, len(tokens))
	for i, t := range tokens {
		b[i] = byte(t)
	}
	return string(b)
}
