package inference

import (
	"fmt"
	"sync"
	"unicode/utf8"

	"github.com/pkoukk/tiktoken-go"
	tiktoken_loader "github.com/pkoukk/tiktoken-go-loader"
)

// DefaultEncoding is the BPE vocabulary used when none is configured.
const DefaultEncoding = "cl100k_base"

// Tokenizer converts between text and token IDs.
type Tokenizer interface {
	Encode(text string) []int
	Decode(tokens []int) string
}

var loaderOnce sync.Once

// BPETokenizer is a Tokenizer backed by tiktoken vocabularies bundled in the
// binary, so no network access is needed at start-up.
type BPETokenizer struct {
	enc      *tiktoken.Tiktoken
	encoding string
}

// NewBPETokenizer loads the named encoding, e.g. "cl100k_base".
func NewBPETokenizer(encoding string) (*BPETokenizer, error) {
	if encoding == "" {
		encoding = DefaultEncoding
	}
	loaderOnce.Do(func() {
		tiktoken.SetBpeLoader(tiktoken_loader.NewOfflineLoader())
	})
	enc, err := tiktoken.GetEncoding(encoding)
	if err != nil {
		return nil, fmt.Errorf("load tokenizer %q: %w", encoding, err)
	}
	return &BPETokenizer{enc: enc, encoding: encoding}, nil
}

// Encoding returns the vocabulary name.
func (t *BPETokenizer) Encoding() string {
	return t.encoding
}

// Encode tokenizes text. Special-token markup is encoded as plain text.
func (t *BPETokenizer) Encode(text string) []int {
	return t.enc.Encode(text, nil, nil)
}

// Decode turns tokens back into text.
func (t *BPETokenizer) Decode(tokens []int) string {
	return t.enc.Decode(tokens)
}

// maxRuneBackoff bounds how many tokens truncate drops to reach a rune
// boundary. Byte-level merges can straddle two characters, so it is a little
// above utf8.UTFMax.
const maxRuneBackoff = 2 * utf8.UTFMax

// truncate returns at most n leading tokens. A BPE token can hold part of a
// multi-byte character, so tokens are dropped from the cut until the decoded
// text no longer ends in a partial rune.
func truncate(tokens []int, n int, decode func([]int) string) []int {
	if n < 0 || len(tokens) <= n {
		return tokens
	}
	out := tokens[:n]
	for i := 0; i < maxRuneBackoff && len(out) > 0 && endsMidRune(decode(out)); i++ {
		out = out[:len(out)-1]
	}
	return out
}

func endsMidRune(s string) bool {
	r, size := utf8.DecodeLastRuneInString(s)
	return r == utf8.RuneError && size == 1
}
