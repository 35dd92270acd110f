// Package extract turns uploaded documents into plain text for summarization.
package extract

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"
)

var (
	// ErrUnsupportedFormat is returned for extensions other than the supported ones.
	ErrUnsupportedFormat = errors.New("unsupported file format")
	// ErrInvalidEncoding is returned for text files that are not valid UTF-8.
	ErrInvalidEncoding = errors.New("file is not valid UTF-8")
	// ErrNoText is returned when nothing readable was found.
	ErrNoText = errors.New("no readable text found")
)

// Extensions lists the accepted file extensions.
var Extensions = []string{".txt", ".md", ".html", ".htm"}

// Text returns the plain text of content, choosing the decoder by the
// extension of filename.
func Text(filename string, content []byte) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	var (
		text string
		err  error
	)
	switch ext {
	case ".txt", ".md":
		text, err = plain(content)
	case ".html", ".htm":
		text, err = html(filename, content)
	default:
		return "", fmt.Errorf("%w: %q (accepted: %s)", ErrUnsupportedFormat, ext, strings.Join(Extensions, ", "))
	}
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(text) == "" {
		return "", ErrNoText
	}
	return text, nil
}

func plain(content []byte) (string, error) {
	content = bytes.TrimPrefix(content, []byte("\xef\xbb\xbf"))
	if !utf8.Valid(content) {
		return "", ErrInvalidEncoding
	}
	return strings.TrimSpace(string(content)), nil
}

// html prefers the readability article body and falls back to all visible
// body text when readability finds nothing.
func html(filename string, content []byte) (string, error) {
	pageURL := &url.URL{Scheme: "file", Path: "/" + filepath.Base(filename)}
	article, err := readability.FromReader(bytes.NewReader(content), pageURL)
	if err == nil {
		if text := normalizeSpace(article.TextContent); text != "" {
			return text, nil
		}
	} else {
		slog.Debug("readability extraction failed, using body text",
			slog.String("filename", filename),
			slog.Any("error", err))
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(content))
	if err != nil {
		return "", fmt.Errorf("parse html: %w", err)
	}
	doc.Find("script, style, noscript, template").Remove()
	return normalizeSpace(doc.Find("body").Text()), nil
}

// normalizeSpace collapses runs of blank lines and trims each line.
func normalizeSpace(s string) string {
	lines := strings.Split(s, "\n")
	out := lines[:0]
	for _, l := range lines {
		l = strings.Join(strings.Fields(l), " ")
		if l != "" {
			out = append(out, l)
		}
	}
	return strings.Join(out, "\n")
}
