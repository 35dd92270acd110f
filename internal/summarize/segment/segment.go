// Package segment splits document text into sentences.
//
// Boundaries come from the Punkt English model, which knows common
// abbreviations ("v.", "Inc.", "U.S.") so most legal citations stay
// inside one sentence. The model is loaded once per process.
//
// Punkt treats a full stop after a number as part of the number, so
// "signed in 2019. The tenant" stays one sentence. A second pass splits
// after a number followed by a full stop and a capitalised word.
package segment

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"unicode"

	"github.com/neurosnap/sentences"
	"github.com/neurosnap/sentences/english"
)

// ErrUnavailable is returned when the sentence model could not be initialised.
var ErrUnavailable = errors.New("sentence segmenter unavailable")

// Tokenizer is the boundary detector behind a Segmenter.
type Tokenizer interface {
	Tokenize(text string) []*sentences.Sentence
}

// Segmenter splits text into trimmed, non-empty sentences.
type Segmenter struct {
	tok Tokenizer
}

// New wraps an already initialised tokenizer.
func New(tok Tokenizer) *Segmenter {
	return &Segmenter{tok: tok}
}

var (
	defaultOnce sync.Once
	defaultSeg  *Segmenter
	defaultErr  error
)

// Default returns the process-wide English segmenter. Initialisation runs
// once; a failure is cached and returned on every later call.
func Default() (*Segmenter, error) {
	defaultOnce.Do(func() {
		tok, err := english.NewSentenceTokenizer(nil)
		if err != nil {
			defaultErr = fmt.Errorf("%w: load punkt english: %v", ErrUnavailable, err)
			return
		}
		defaultSeg = New(tok)
	})
	return defaultSeg, defaultErr
}

// Split returns the sentences of text in order.
func (s *Segmenter) Split(text string) ([]string, error) {
	if s == nil || s.tok == nil {
		return nil, ErrUnavailable
	}
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}

	raw := s.tok.Tokenize(text)
	out := make([]string, 0, len(raw))
	for _, sent := range raw {
		for _, part := range splitAfterNumbers(sent.Text) {
			if t := strings.TrimSpace(part); t != "" {
				out = append(out, t)
			}
		}
	}
	return out, nil
}

// numberStop matches a digit, a full stop, whitespace and the opening of the
// next sentence (optionally behind a quote or bracket).
var numberStop = regexp.MustCompile(`\d\.\s+["'“‘(\[]?\p{Lu}`)

// splitAfterNumbers cuts s after every "<digits>. <Capital>" boundary. A
// leading list number ("1. The parties") is not a sentence of its own and
// is left attached.
func splitAfterNumbers(s string) []string {
	var parts []string
	last := 0
	for _, loc := range numberStop.FindAllStringIndex(s, -1) {
		cut := loc[0] + 2 // after the digit and the full stop
		if !strings.ContainsFunc(strings.TrimSpace(s[last:cut]), unicode.IsSpace) {
			continue
		}
		parts = append(parts, s[last:cut])
		last = cut
	}
	return append(parts, s[last:])
}

// Split segments text with the Default segmenter.
func Split(text string) ([]string, error) {
	seg, err := Default()
	if err != nil {
		return nil, err
	}
	return seg.Split(text)
}
