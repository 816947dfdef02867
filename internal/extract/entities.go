package extract

import (
	"regexp"
	"sort"
	"strings"
)

// Entities groups the typed matches pulled from raw ticket text. Every field
// is always a non-nil list; empty means nothing matched.
type Entities struct {
	Usernames  []string `json:"usernames"`
	Devices    []string `json:"devices"`
	ErrorCodes []string `json:"error_codes"`
	Emails     []string `json:"emails"`
	URLs       []string `json:"urls"`
	FilePaths  []string `json:"file_paths"`
}

type entityKind int

const (
	kindUsername entityKind = iota
	kindDevice
	kindErrorCode
	kindEmail
	kindURL
	kindFilePath
)

// rule is one declarative extraction pattern. Adding an entity pattern is a
// table change, not new control flow. group selects the capture group to
// emit (0 = whole match); lowercase folds the emitted value; folded rules
// run against the lowercased text so vocabulary words match any casing.
type rule struct {
	kind      entityKind
	re        *regexp.Regexp
	group     int
	lowercase bool
	folded    bool
}

var deviceVocabulary = []string{
	"external drive", "hard drive", "macbook", "laptop", "desktop", "server",
	"printer", "monitor", "keyboard", "mouse", "windows", "linux", "ipad",
	"iphone", "router", "switch", "gateway",
}

var rules = []rule{
	{kind: kindUsername, re: regexp.MustCompile(`(^|[\s(])@([A-Za-z][A-Za-z0-9._-]{2,})`), group: 2, lowercase: true},
	{kind: kindUsername, re: regexp.MustCompile(`(?i)\buser(?:name)?\s*[:=]\s*([A-Za-z0-9._-]+)`), group: 1, lowercase: true},

	{kind: kindDevice, re: regexp.MustCompile(`\b(?:` + strings.Join(deviceVocabulary, "|") + `)(?:\s+(?:pro|air|mini))?\b`), folded: true},
	{kind: kindDevice, re: regexp.MustCompile(`\b[A-Z]{2,}(?:-[A-Z0-9]+)+\b`)},

	{kind: kindErrorCode, re: regexp.MustCompile(`\b0x[0-9A-Fa-f]+\b`)},
	{kind: kindErrorCode, re: regexp.MustCompile(`(?i)\b(?:error|err|code)\s*[-:]?\s*(0x[0-9A-Fa-f]+|[0-9]{3,4}|E[0-9]{3,4})\b`), group: 1},
	{kind: kindErrorCode, re: regexp.MustCompile(`\b[45]\d{2}\b`)},
	{kind: kindErrorCode, re: regexp.MustCompile(`"([^"\n]{3,40})"`), group: 1},

	{kind: kindEmail, re: regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)},

	{kind: kindURL, re: regexp.MustCompile(`https?://[^\s]+`)},

	{kind: kindFilePath, re: regexp.MustCompile(`\b[A-Za-z]:\\[^\s,;"]+`)},
	{kind: kindFilePath, re: regexp.MustCompile(`(?:/[A-Za-z0-9._+\-]+){2,}/?`)},
	{kind: kindFilePath, re: regexp.MustCompile(`\\\\[A-Za-z0-9._-]+\\[^\s,;"]+`)},
}

// Empty returns an Entities value with all six lists present and empty.
func Empty() Entities {
	return Entities{
		Usernames:  []string{},
		Devices:    []string{},
		ErrorCodes: []string{},
		Emails:     []string{},
		URLs:       []string{},
		FilePaths:  []string{},
	}
}

type match struct {
	pos   int
	order int
	value string
}

// Extract runs every pattern over the raw (non-normalized) text and returns
// the typed matches ordered by first occurrence. Duplicates are kept; a
// category with no matches yields an empty list, never nil.
func Extract(raw string) Entities {
	lowered := strings.ToLower(raw)
	buckets := make(map[entityKind][]match)

	for ri, r := range rules {
		haystack := raw
		if r.folded {
			haystack = lowered
		}
		for _, loc := range r.re.FindAllStringSubmatchIndex(haystack, -1) {
			start, end := loc[2*r.group], loc[2*r.group+1]
			if start < 0 || end <= start {
				continue
			}
			value := haystack[start:end]
			if r.lowercase {
				value = strings.ToLower(value)
			}
			buckets[r.kind] = append(buckets[r.kind], match{pos: start, order: ri, value: value})
		}
	}

	// bare email local-parts double as usernames
	for _, m := range buckets[kindEmail] {
		if at := strings.IndexByte(m.value, '@'); at > 0 {
			buckets[kindUsername] = append(buckets[kindUsername], match{
				pos:   m.pos,
				order: len(rules),
				value: strings.ToLower(m.value[:at]),
			})
		}
	}

	return Entities{
		Usernames:  collect(buckets[kindUsername]),
		Devices:    collect(buckets[kindDevice]),
		ErrorCodes: collect(buckets[kindErrorCode]),
		Emails:     collect(buckets[kindEmail]),
		URLs:       collect(buckets[kindURL]),
		FilePaths:  collect(buckets[kindFilePath]),
	}
}

func collect(matches []match) []string {
	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].pos != matches[j].pos {
			return matches[i].pos < matches[j].pos
		}
		return matches[i].order < matches[j].order
	})
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		out = append(out, m.value)
	}
	return out
}
