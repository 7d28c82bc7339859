package testutil

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/coregx/ahocorasick"
)

// Quote is a pair of delimiters whose enclosed text keeps its whitespace.
type Quote struct {
	Open, Close string
}

// JSONQuotes and JSONEscapes configure StripWhitespace for JSON documents.
var (
	JSONQuotes  = []Quote{{Open: `"`, Close: `"`}}
	JSONEscapes = []string{`\\`, `\"`}
)

// StripWhitespace removes every Unicode whitespace character from input,
// except inside quotes. Inside a quote, the escape sequences in ignored are
// copied verbatim and never close the quote. An unterminated quote extends to
// the end of input.
func StripWhitespace(input string, quotes []Quote, ignored []string) string {
	opens := make([]string, len(quotes))
	for i, q := range quotes {
		opens[i] = q.Open
	}
	openScanner := newTokenScanner(opens)
	hay := []byte(input)

	var out strings.Builder
	out.Grow(len(input))

	pos := 0
	for pos < len(input) {
		start, qi := openScanner.next(input, hay, pos)
		if qi < 0 {
			writeStripped(&out, input[pos:])
			break
		}
		writeStripped(&out, input[pos:start])

		q := quotes[qi]
		out.WriteString(q.Open)
		pos = start + len(q.Open)

		// Escapes take precedence over the closing delimiter.
		inner := newTokenScanner(append(append([]string(nil), ignored...), q.Close))
		for {
			at, ti := inner.next(input, hay, pos)
			if ti < 0 {
				out.WriteString(input[pos:])
				pos = len(input)
				break
			}
			tok := inner.tokens[ti]
			out.WriteString(input[pos : at+len(tok)])
			pos = at + len(tok)
			if ti == len(ignored) {
				break
			}
		}
	}
	return out.String()
}

// StripJSON strips whitespace outside JSON string literals.
func StripJSON(s string) string {
	return StripWhitespace(s, JSONQuotes, JSONEscapes)
}

// JSONEq reports whether a and b are equal after StripJSON. Unlike
// testify's assert.JSONEq it is order- and formatting-sensitive apart from
// whitespace, which is what insertion-order encodings need.
func JSONEq(a, b string) bool {
	return StripJSON(a) == StripJSON(b)
}

func writeStripped(out *strings.Builder, s string) {
	for len(s) > 0 {
		r, size := utf8.DecodeRuneInString(s)
		if !unicode.IsSpace(r) {
			out.WriteString(s[:size])
		}
		s = s[size:]
	}
}

// tokenScanner finds the leftmost token occurrence, preferring earlier tokens
// on ties. The automaton skips ahead to the first candidate; the exact winner
// is confirmed with prefix checks, independent of the automaton's match
// semantics. Empty tokens never match.
type tokenScanner struct {
	tokens []string
	auto   *ahocorasick.Automaton
}

func newTokenScanner(tokens []string) *tokenScanner {
	s := &tokenScanner{tokens: tokens}
	b := ahocorasick.NewBuilder()
	n := 0
	for _, tok := range tokens {
		if tok != "" {
			b.AddPattern([]byte(tok))
			n++
		}
	}
	if n == 0 {
		return s
	}
	if auto, err := b.Build(); err == nil {
		s.auto = auto
	}
	return s
}

// next returns the position and token index of the leftmost token at or after
// from, or (-1, -1) if there is none. hay is input as bytes.
func (s *tokenScanner) next(input string, hay []byte, from int) (int, int) {
	if from >= len(input) {
		return -1, -1
	}

	limit := len(input) - 1
	if s.auto != nil {
		m := s.auto.Find(hay, from)
		if m == nil {
			return -1, -1
		}
		if m.Start >= from {
			limit = m.Start
		}
	}

	for p := from; p <= limit; p++ {
		for i, tok := range s.tokens {
			if tok != "" && strings.HasPrefix(input[p:], tok) {
				return p, i
			}
		}
	}
	return -1, -1
}
