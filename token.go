package fedreg

import (
	"sort"
	"strings"
)

// stopwords are high-frequency terms excluded from tokenization. The list
// mirrors boilerplate common in Federal Register titles ("Notice of ...").
var stopwords = map[string]struct{}{
	"the": {}, "and": {}, "for": {}, "with": {}, "that": {}, "this": {},
	"from": {}, "are": {}, "was": {}, "have": {}, "has": {}, "will": {},
	"shall": {}, "notice": {}, "of": {}, "to": {}, "in": {}, "a": {},
	"an": {}, "on": {}, "by": {}, "us": {}, "u.s": {}, "be": {}, "is": {},
	"as": {},
}

// IsStopword reports whether the token is on the stopword list.
func IsStopword(tok string) bool {
	_, ok := stopwords[tok]
	return ok
}

// Tokenize lowercases the text, splits it on non-alphanumeric characters
// (keeping hyphens and apostrophes inside words) and drops stopwords.
func Tokenize(text string) []string {
	if text == "" {
		return nil
	}
	lower := strings.ToLower(text)
	fields := strings.FieldsFunc(lower, func(r rune) bool {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return false
		case r == '-' || r == '\'':
			return false
		}
		return true
	})

	var out []string
	for _, f := range fields {
		f = strings.Trim(f, "-'")
		if f == "" || IsStopword(f) {
			continue
		}
		out = append(out, f)
	}
	return out
}

// RankKeywords counts token frequencies across the given titles and returns
// the n most frequent tokens of at least minLen characters, most frequent
// first. Purely numeric tokens are skipped. Ties are broken alphabetically
// so that ranking is deterministic.
func RankKeywords(titles []string, n, minLen int) []string {
	counts := make(map[string]int)
	for _, title := range titles {
		for _, tok := range Tokenize(title) {
			if len(tok) < minLen || isNumeric(tok) {
				continue
			}
			counts[tok]++
		}
	}

	keywords := make([]string, 0, len(counts))
	for tok := range counts {
		keywords = append(keywords, tok)
	}
	sort.Slice(keywords, func(i, j int) bool {
		if counts[keywords[i]] != counts[keywords[j]] {
			return counts[keywords[i]] > counts[keywords[j]]
		}
		return keywords[i] < keywords[j]
	})

	if n > 0 && len(keywords) > n {
		keywords = keywords[:n]
	}
	return keywords
}

func isNumeric(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}
