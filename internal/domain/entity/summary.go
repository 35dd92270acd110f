package entity

import "time"

// MethodRecursive tags summaries produced by the recursive map-reduce controller.
const MethodRecursive = "recursive"

// ExcerptLimit bounds the stored copy of the source document, in characters.
const ExcerptLimit = 10000

// Summary is a persisted summarization result.
type Summary struct {
	ID        int64
	UserID    int64
	Username  string
	Filename  string
	Method    string
	Text      string
	Length    int
	FullText  string
	Context   Context
	CreatedAt time.Time
}

// Excerpt returns at most ExcerptLimit characters of text.
func Excerpt(text string) string {
	r := []rune(text)
	if len(r) <= ExcerptLimit {
		return text
	}
	return string(r[:ExcerptLimit])
}
