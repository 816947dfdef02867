package feature

import (
	"errors"
	"math"
	"sort"
	"strings"
)

const (
	// MaxFeatures caps the vocabulary; transformed vectors always have this
	// many components regardless of how many terms were actually selected.
	MaxFeatures = 500
	// MaxDocFreq drops terms appearing in more than this share of documents.
	MaxDocFreq = 0.8
)

// Vectorizer holds a fitted TF-IDF vocabulary over unigrams and bigrams.
// Immutable after Fit; safe for concurrent Transform calls.
type Vectorizer struct {
	Vocabulary map[string]int `json:"vocabulary"`
	IDF        []float64      `json:"idf"`
	Dims       int            `json:"dims"`
}

// Fit builds a vectorizer from the normalized corpus. Terms are ranked by
// total corpus count with ties broken by first appearance, capped at
// MaxFeatures, then assigned column indices in sorted term order so the
// layout is stable across runs.
func Fit(corpus []string) *Vectorizer {
	nDocs := len(corpus)
	counts := make(map[string]int)
	docFreq := make(map[string]int)
	firstSeen := make(map[string]int)

	order := 0
	for _, doc := range corpus {
		terms := Terms(doc)
		seen := make(map[string]struct{}, len(terms))
		for _, term := range terms {
			counts[term]++
			if _, ok := firstSeen[term]; !ok {
				firstSeen[term] = order
				order++
			}
			seen[term] = struct{}{}
		}
		for term := range seen {
			docFreq[term]++
		}
	}

	candidates := make([]string, 0, len(counts))
	for term := range counts {
		if nDocs > 0 && float64(docFreq[term]) > MaxDocFreq*float64(nDocs) {
			continue
		}
		candidates = append(candidates, term)
	}
	sort.Slice(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if counts[a] != counts[b] {
			return counts[a] > counts[b]
		}
		return firstSeen[a] < firstSeen[b]
	})
	if len(candidates) > MaxFeatures {
		candidates = candidates[:MaxFeatures]
	}
	sort.Strings(candidates)

	v := &Vectorizer{
		Vocabulary: make(map[string]int, len(candidates)),
		IDF:        make([]float64, MaxFeatures),
		Dims:       MaxFeatures,
	}
	for idx, term := range candidates {
		v.Vocabulary[term] = idx
		v.IDF[idx] = math.Log(float64(1+nDocs)/float64(1+docFreq[term])) + 1
	}
	return v
}

// Transform maps a normalized string to a fixed-length TF-IDF vector,
// L2-normalized. Out-of-vocabulary terms contribute nothing; the result
// always has exactly Dims components.
func (v *Vectorizer) Transform(normalized string) []float64 {
	vec := make([]float64, v.Dims)
	for _, term := range Terms(normalized) {
		if idx, ok := v.Vocabulary[term]; ok {
			vec[idx] += v.IDF[idx]
		}
	}
	var norm float64
	for _, x := range vec {
		norm += x * x
	}
	if norm > 0 {
		norm = math.Sqrt(norm)
		for i := range vec {
			vec[i] /= norm
		}
	}
	return vec
}

// Validate checks internal consistency after deserialization.
func (v *Vectorizer) Validate() error {
	if v == nil {
		return errors.New("vectorizer is nil")
	}
	if v.Dims <= 0 {
		return errors.New("vectorizer dims not positive")
	}
	if len(v.IDF) != v.Dims {
		return errors.New("idf length does not match dims")
	}
	if len(v.Vocabulary) > v.Dims {
		return errors.New("vocabulary larger than dims")
	}
	for term, idx := range v.Vocabulary {
		if idx < 0 || idx >= v.Dims {
			return errors.New("vocabulary index out of range for term " + term)
		}
	}
	return nil
}

// Terms expands a normalized string into its unigram and bigram terms.
func Terms(normalized string) []string {
	tokens := strings.Fields(normalized)
	if len(tokens) == 0 {
		return nil
	}
	terms := make([]string, 0, 2*len(tokens)-1)
	terms = append(terms, tokens...)
	for i := 0; i+1 < len(tokens); i++ {
		terms = append(terms, tokens[i]+" "+tokens[i+1])
	}
	return terms
}
