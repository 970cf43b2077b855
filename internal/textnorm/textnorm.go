// Package textnorm provides the shared text normalization used by lexical
// scoring, phrase filtering, and query tokenization.
package textnorm

import "strings"

// Normalize lowercases s and collapses every run of non-alphanumeric
// characters into a single space, trimming the ends. Total: any input,
// including the empty string, yields a valid (possibly empty) result.
func Normalize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	pendingSpace := false
	for _, r := range strings.ToLower(s) {
		alnum := (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')
		if !alnum {
			pendingSpace = b.Len() > 0
			continue
		}
		if pendingSpace {
			b.WriteByte(' ')
			pendingSpace = false
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Tokenize splits the normalized form of s on whitespace, dropping empty
// tokens. Returns nil for input with no alphanumeric content.
func Tokenize(s string) []string {
	n := Normalize(s)
	if n == "" {
		return nil
	}
	return strings.Fields(n)
}

// TokenSet returns the distinct tokens of s.
func TokenSet(s string) map[string]struct{} {
	tokens := Tokenize(s)
	if len(tokens) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		set[t] = struct{}{}
	}
	return set
}
