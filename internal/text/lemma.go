package text

import "strings"

// lemmaExceptions maps word forms whose base cannot be recovered by suffix
// rules alone (silent-e restoration, irregular verbs). Values must be fixed
// points of Lemmatize so repeated normalization is stable.
var lemmaExceptions = map[string]string{
	// silent-e verbs
	"making": "make", "made": "make",
	"taking": "take", "took": "take", "taken": "take",
	"using": "use", "used": "use",
	"moving": "move", "moved": "move",
	"having": "have",
	"giving": "give", "gave": "give", "given": "give",
	"saving": "save", "saved": "save",
	"writing": "write", "wrote": "write", "written": "write",
	"creating": "create", "created": "create",
	"updating": "update", "updated": "update",
	"deleting": "delete", "deleted": "delete",
	"calculating": "calculate", "calculated": "calculate",
	"configuring": "configure", "configured": "configure",
	"upgrading": "upgrade", "upgraded": "upgrade",
	"managing": "manage", "managed": "manage",
	"resolving": "resolve", "resolved": "resolve",
	"browsing": "browse", "browsed": "browse",
	"closing": "close", "closed": "close",
	"causing": "cause", "caused": "cause",
	"sharing": "share", "shared": "share",
	"storing": "store", "stored": "store",
	"enabling": "enable", "enabled": "enable",
	"disabling": "disable", "disabled": "disable",
	"issuing": "issue", "issued": "issue",
	"requiring": "require", "required": "require",
	"receiving": "receive", "received": "receive",
	"recognizing": "recognize", "recognized": "recognize",
	"responding": "respond", "responded": "respond",
	"freezing": "freeze", "froze": "freeze", "frozen": "freeze",
	"replacing": "replace", "replaced": "replace",
	"removing": "remove", "removed": "remove",
	"restoring": "restore", "restored": "restore",
	"rebooting": "reboot",
	// irregular verbs
	"said": "say", "says": "say",
	"goes": "go",
	"got": "get", "gotten": "get",
	"ran": "run",
	"went": "go", "gone": "go",
	"came": "come", "coming": "come",
	"found": "find",
	"lost": "lose", "losing": "lose",
	"left": "leave", "leaving": "leave",
	"broke": "break", "broken": "break",
	"sent": "send",
	"kept": "keep",
	"held": "hold",
	"saw": "see", "seen": "see",
	"shown": "show",
	"crashed": "crash",
}

var vowels = "aeiou"

// Lemmatize reduces a lowercase token to its dictionary base form using an
// exception table plus suffix stripping. Stripping repeats until the token
// stops changing so chained suffixes ("settings" -> "setting" -> "set")
// reduce in one call and repeated normalization is stable.
func Lemmatize(token string) string {
	for {
		next := lemmatizeOnce(token)
		if next == token {
			return token
		}
		token = next
	}
}

// lemmatizeOnce strips at most one suffix. Verbal suffixes are handled first
// so forms like "resetting" resolve to the verb base.
func lemmatizeOnce(token string) string {
	if len(token) < 4 {
		return token
	}
	if base, ok := lemmaExceptions[token]; ok {
		return base
	}
	if base, ok := stripIng(token); ok {
		return base
	}
	if base, ok := stripEd(token); ok {
		return base
	}
	if base, ok := stripPlural(token); ok {
		return base
	}
	return token
}

func stripIng(token string) (string, bool) {
	if !strings.HasSuffix(token, "ing") || len(token) < 6 {
		return "", false
	}
	rem := token[:len(token)-3]
	if !hasVowel(rem) || len(rem) < 3 {
		return "", false
	}
	return undouble(rem), true
}

func stripEd(token string) (string, bool) {
	if !strings.HasSuffix(token, "ed") || len(token) < 5 {
		return "", false
	}
	// "speed", "exceed" are bases, not past forms
	if strings.HasSuffix(token, "eed") {
		return "", false
	}
	if strings.HasSuffix(token, "ied") {
		return token[:len(token)-3] + "y", true
	}
	rem := token[:len(token)-2]
	if !hasVowel(rem) || len(rem) < 3 {
		return "", false
	}
	return undouble(rem), true
}

func stripPlural(token string) (string, bool) {
	switch {
	case strings.HasSuffix(token, "sses"):
		return token[:len(token)-2], true
	case strings.HasSuffix(token, "ies") && len(token) >= 5:
		return token[:len(token)-3] + "y", true
	case strings.HasSuffix(token, "ches"), strings.HasSuffix(token, "shes"), strings.HasSuffix(token, "xes"):
		return token[:len(token)-2], true
	case strings.HasSuffix(token, "ss"), strings.HasSuffix(token, "us"), strings.HasSuffix(token, "is"):
		return "", false
	case strings.HasSuffix(token, "s"):
		return token[:len(token)-1], true
	}
	return "", false
}

// undouble collapses doubled final consonants produced by -ing/-ed stripping
// ("resetting" -> "resett" -> "reset"). Legitimate doubles like "ll" stay.
func undouble(rem string) string {
	n := len(rem)
	if n < 4 {
		return rem
	}
	last := rem[n-1]
	if last != rem[n-2] || strings.ContainsRune(vowels, rune(last)) {
		return rem
	}
	switch last {
	case 'l', 's', 'f', 'z':
		return rem
	}
	return rem[:n-1]
}

func hasVowel(s string) bool {
	return strings.ContainsAny(s, vowels)
}
