package text

import (
	"strings"
	"testing"
	"unicode"
)

func TestNormalizeLoginScenario(t *testing.T) {
	raw := "I am unable to login to the company portal. I get error code 0x80070005 after resetting my password on my laptop. This is urgent!"
	normalized := Normalize(raw)

	tokens := make(map[string]struct{})
	for _, tok := range strings.Fields(normalized) {
		tokens[tok] = struct{}{}
	}

	for _, want := range []string{"unable", "login", "portal", "error", "password", "reset", "laptop", "urgent"} {
		if _, ok := tokens[want]; !ok {
			t.Errorf("normalized %q missing token %q", normalized, want)
		}
	}
	for _, absent := range []string{"i", "am", "to", "the", "my", "this", "is"} {
		if _, ok := tokens[absent]; ok {
			t.Errorf("normalized %q retained stopword %q", normalized, absent)
		}
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"I am unable to LOGIN to the company portal!",
		"WiFi connection keeps dropping intermittently",
		"Disk space critically low on C drive",
		"Printer not printing from my computer since the update.",
		"System boots very slowly taking 10 minutes",
		"Please check the settings on my laptop",
		"Getting warnings about failed recordings and meetings",
		"",
	}
	for _, in := range inputs {
		once := Normalize(in)
		twice := Normalize(once)
		if once != twice {
			t.Errorf("Normalize not idempotent for %q: %q vs %q", in, once, twice)
		}
	}
}

func TestNormalizeCharacterClasses(t *testing.T) {
	raw := "URGENT!!! Server-01 failed 3 times; see C:\\logs\\err.txt, contact admin@corp.com NOW."
	normalized := Normalize(raw)
	for _, r := range normalized {
		if unicode.IsUpper(r) {
			t.Fatalf("uppercase rune %q in %q", r, normalized)
		}
		if unicode.IsDigit(r) {
			t.Fatalf("digit rune %q in %q", r, normalized)
		}
		if strings.ContainsRune(punctuation, r) {
			t.Fatalf("punctuation rune %q in %q", r, normalized)
		}
	}
	for _, tok := range strings.Fields(normalized) {
		if IsStopword(tok) {
			t.Fatalf("stopword %q in %q", tok, normalized)
		}
	}
}

func TestNormalizeDegenerateInput(t *testing.T) {
	inputs := []string{
		"the and of to a an",
		"!!! ??? ... ,,,",
		"   \t \n ",
		"12 345 6789",
	}
	for _, in := range inputs {
		if got := Normalize(in); got != "" {
			t.Errorf("Normalize(%q) = %q, want empty", in, got)
		}
	}
}

func TestLemmatize(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"resetting", "reset"},
		{"dropping", "drop"},
		{"flickering", "flicker"},
		{"moving", "move"},
		{"calculating", "calculate"},
		{"failed", "fail"},
		{"crashes", "crash"},
		{"freezes", "freeze"},
		{"files", "file"},
		{"settings", "set"},
		{"warnings", "warn"},
		{"recordings", "record"},
		{"meetings", "meet"},
		{"says", "say"},
		{"speed", "speed"},
		{"access", "access"},
		{"status", "status"},
		{"laptop", "laptop"},
	}
	for _, tc := range tests {
		if got := Lemmatize(tc.in); got != tc.want {
			t.Errorf("Lemmatize(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestTokens(t *testing.T) {
	if toks := Tokens("the and of"); toks != nil {
		t.Fatalf("expected nil tokens, got %v", toks)
	}
	toks := Tokens("Cannot connect to WiFi")
	want := []string{"cannot", "connect", "wifi"}
	if len(toks) != len(want) {
		t.Fatalf("tokens %v, want %v", toks, want)
	}
	for i := range want {
		if toks[i] != want[i] {
			t.Fatalf("tokens %v, want %v", toks, want)
		}
	}
}
