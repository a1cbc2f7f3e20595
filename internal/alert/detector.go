// Package alert flags conversation messages that contain operationally
// critical language.
package alert

import "strings"

// Detector decides whether a message text warrants an alert. Kept as an
// interface so keyword matching can be swapped for tokenized or
// configurable matching without touching callers.
type Detector interface {
	Scan(text string) bool
}

// KeywordDetector matches case-insensitively on substrings. A keyword
// occurring inside an unrelated word still matches; that imprecision is
// accepted in exchange for simplicity.
type KeywordDetector struct {
	keywords []string
}

func NewKeywordDetector(keywords []string) *KeywordDetector {
	lowered := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		if kw = strings.ToLower(strings.TrimSpace(kw)); kw != "" {
			lowered = append(lowered, kw)
		}
	}
	return &KeywordDetector{keywords: lowered}
}

func (d *KeywordDetector) Scan(text string) bool {
	lowered := strings.ToLower(text)
	for _, kw := range d.keywords {
		if strings.Contains(lowered, kw) {
			return true
		}
	}
	return false
}
