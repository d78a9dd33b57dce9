package domain

import (
	"path/filepath"
	"strings"
)

// Language is a supported extension source language.
type Language string

const (
	// LanguageJavaScript is plain JavaScript (.js).
	LanguageJavaScript Language = "javascript"
	// LanguageTypeScript is TypeScript (.ts).
	LanguageTypeScript Language = "typescript"
)

// TargetExtension is the file extension of every built artifact.
const TargetExtension = "js"

// EntryBaseName is the base name of a directory module's entry file.
const EntryBaseName = "index"

// languagePriority is the order entry files are probed in.
var languagePriority = []Language{LanguageJavaScript, LanguageTypeScript}

var shortNames = map[Language]string{
	LanguageJavaScript: "js",
	LanguageTypeScript: "ts",
}

// Languages returns the supported languages in probe priority order.
func Languages() []Language {
	out := make([]Language, len(languagePriority))
	copy(out, languagePriority)
	return out
}

// Short returns the file extension of the language without the dot.
func (l Language) Short() string {
	return shortNames[l]
}

// ParseLanguage accepts either the long ("typescript") or short ("ts") form.
func ParseLanguage(s string) (Language, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, l := range languagePriority {
		if s == string(l) || s == l.Short() {
			return l, true
		}
	}
	return "", false
}

// ClassifyLanguage derives the language of a file from its extension.
func ClassifyLanguage(filename string) (Language, bool) {
	ext := strings.TrimPrefix(filepath.Ext(filename), ".")
	if ext == "" {
		return "", false
	}
	for _, l := range languagePriority {
		if l.Short() == ext {
			return l, true
		}
	}
	return "", false
}

// ProbeOrder returns the entry probe order with preferred moved to the front.
// An empty or unknown preference leaves the default order.
func ProbeOrder(preferred Language) []Language {
	order := Languages()
	if _, ok := shortNames[preferred]; !ok {
		return order
	}
	out := make([]Language, 0, len(order))
	out = append(out, preferred)
	for _, l := range order {
		if l != preferred {
			out = append(out, l)
		}
	}
	return out
}
