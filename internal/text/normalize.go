package text

import (
	"strings"
)

const punctuation = "!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~"

// Normalize cleans a raw description for vectorization. The steps run in a
// fixed order: lowercase, strip punctuation, strip digits, tokenize on
// whitespace, drop stopwords, lemmatize, rejoin single-spaced. Input that
// reduces to nothing yields the empty string. Matching against identifiers
// like error codes happens elsewhere, over the raw text.
func Normalize(raw string) string {
	lower := strings.ToLower(raw)
	stripped := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return -1
		}
		if strings.ContainsRune(punctuation, r) {
			return -1
		}
		return r
	}, lower)

	var out []string
	for _, token := range strings.Fields(stripped) {
		if IsStopword(token) {
			continue
		}
		lemma := Lemmatize(token)
		if lemma == "" || IsStopword(lemma) {
			continue
		}
		out = append(out, lemma)
	}
	return strings.Join(out, " ")
}

// Tokens returns the normalized token list for the raw input.
func Tokens(raw string) []string {
	normalized := Normalize(raw)
	if normalized == "" {
		return nil
	}
	return strings.Fields(normalized)
}
