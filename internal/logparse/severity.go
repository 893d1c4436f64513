package logparse

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Severity is one of the canonical severity labels.
type Severity string

const (
	Critical Severity = "critical"
	Error    Severity = "error"
	Warning  Severity = "warning"
	Info     Severity = "info"
)

// Canonical lists the canonical severities from highest to lowest.
var Canonical = []Severity{Critical, Error, Warning, Info}

// Rank returns the position of s in Canonical, or -1.
func (s Severity) Rank() int {
	for i, c := range Canonical {
		if c == s {
			return i
		}
	}
	return -1
}

// builtinAliases maps common variants and the legacy alto/medio/bajo
// vocabulary onto the canonical set. Keys are case-folded.
var builtinAliases = map[string]Severity{
	"critical":    Critical,
	"crit":        Critical,
	"crt":         Critical,
	"fatal":       Critical,
	"panic":       Critical,
	"alto":        Critical,
	"error":       Error,
	"err":         Error,
	"erro":        Error,
	"warning":     Warning,
	"warn":        Warning,
	"wrn":         Warning,
	"medio":       Warning,
	"info":        Info,
	"inf":         Info,
	"information": Info,
	"bajo":        Info,
}

// Classifier folds raw severity labels onto the canonical set.
// The zero value is not usable; use NewClassifier or Default.
type Classifier struct {
	aliases map[string]Severity
}

// Default is the classifier with only the built-in aliases.
var Default = NewClassifier(nil)

// NewClassifier returns a classifier with the built-in aliases plus extra.
// Entries in extra override built-ins with the same key.
func NewClassifier(extra map[string]Severity) *Classifier {
	aliases := make(map[string]Severity, len(builtinAliases)+len(extra))
	for k, v := range builtinAliases {
		aliases[k] = v
	}
	for k, v := range extra {
		aliases[foldKey(k)] = v
	}
	return &Classifier{aliases: aliases}
}

// Classify returns the canonical severity for raw, if any.
func (c *Classifier) Classify(raw string) (Severity, bool) {
	s, ok := c.aliases[foldKey(raw)]
	return s, ok
}

// Fold returns the grouping key for raw: the canonical name when raw is a
// known alias, otherwise the trimmed lower-case text.
func (c *Classifier) Fold(raw string) string {
	key := foldKey(raw)
	if s, ok := c.aliases[key]; ok {
		return string(s)
	}
	return key
}

func foldKey(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

// Label capitalizes a folded severity for display.
func Label(folded string) string {
	if folded == "" {
		return "Unknown"
	}
	r, size := utf8.DecodeRuneInString(folded)
	return string(unicode.ToUpper(r)) + folded[size:]
}
