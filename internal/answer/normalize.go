package answer

import (
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// foldAccents strips combining marks so "Élysées" compares equal to
// "Elysees". A fresh transformer chain per call keeps this safe for
// concurrent graders.
func foldAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// normalize lowercases, folds accents, replaces punctuation with spaces,
// and collapses runs of whitespace.
func normalize(s string) string {
	s = strings.ToLower(foldAccents(s))
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		} else {
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

func tokens(s string) []string {
	n := normalize(s)
	if n == "" {
		return nil
	}
	return strings.Split(n, " ")
}

func stripTokens(toks []string, drop map[string]bool) []string {
	out := toks[:0:0]
	for _, t := range toks {
		if !drop[t] {
			out = append(out, t)
		}
	}
	return out
}

func sameTokenSet(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	as := append([]string(nil), a...)
	bs := append([]string(nil), b...)
	sort.Strings(as)
	sort.Strings(bs)
	for i := range as {
		if as[i] != bs[i] {
			return false
		}
	}
	return true
}
