// Package normalize turns raw note field text into a dictionary lookup key.
package normalize

import (
	"errors"
	"strings"
	"unicode"

	"golang.org/x/net/html"
	"golang.org/x/text/unicode/norm"
)

// ErrEmptyKey is returned when nothing usable is left after normalization.
var ErrEmptyKey = errors.New("normalize: empty lookup key")

// Key is a normalized word: no markup, no boundary punctuation, single
// spaces inside, original case.
type Key string

func (k Key) String() string {
	return string(k)
}

// Word normalizes raw field text into a Key.
func Word(raw string) (Key, error) {
	s := strings.TrimSpace(raw)

	if strings.ContainsAny(s, "<>") {
		s = stripMarkup(s)
	} else {
		s = html.UnescapeString(s)
	}

	s = norm.NFC.String(s)
	s = strings.TrimFunc(s, func(r rune) bool { return !isWordRune(r) })
	s = strings.Join(strings.Fields(s), " ")

	if s == "" {
		return "", ErrEmptyKey
	}
	return Key(s), nil
}

// isWordRune reports whether r counts as part of a word. Marks are kept so
// that decomposed accents at the edge of a word survive.
func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsMark(r) || r == '_'
}

// stripMarkup returns the visible text of an HTML fragment. Entities are
// decoded by the parser.
func stripMarkup(s string) string {
	doc, err := html.Parse(strings.NewReader(s))
	if err != nil {
		return html.UnescapeString(s)
	}

	var buf strings.Builder
	extractText(doc, &buf)
	return buf.String()
}

func extractText(n *html.Node, buf *strings.Builder) {
	switch n.Type {
	case html.TextNode:
		buf.WriteString(n.Data)
		return
	case html.ElementNode:
		switch n.Data {
		case "script", "style":
			return
		case "br", "p", "div", "li":
			buf.WriteString(" ")
		}
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		extractText(c, buf)
	}
}
