package utils

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/unicode/bidi"
)

const (
	DirLTR = "ltr"
	DirRTL = "rtl"

	// dirSampleRunes bounds how much text the content heuristic inspects.
	dirSampleRunes = 4000
)

var rtlScripts = map[string]struct{}{
	"Arab": {}, "Hebr": {}, "Syrc": {}, "Thaa": {}, "Nkoo": {},
	"Adlm": {}, "Rohg": {}, "Samr": {}, "Mand": {},
}

// IsRTLLanguage reports whether a language tag is written right-to-left.
func IsRTLLanguage(lang string) bool {
	lang = strings.TrimSpace(lang)
	if lang == "" {
		return false
	}
	tag, err := language.Parse(lang)
	if err != nil {
		return false
	}
	script, conf := tag.Script()
	if conf == language.No {
		return false
	}
	_, ok := rtlScripts[script.String()]
	return ok
}

// DetectDir derives a text direction from a language tag and the text itself.
// Text dominated by strong right-to-left characters is "rtl" even when no
// language is known. The result is never empty.
func DetectDir(lang, text string) string {
	if IsRTLLanguage(lang) {
		return DirRTL
	}

	var rtl, ltr, seen int
	for _, r := range text {
		if seen >= dirSampleRunes {
			break
		}
		props, _ := bidi.LookupRune(r)
		switch props.Class() {
		case bidi.R, bidi.AL:
			rtl++
		case bidi.L:
			ltr++
		default:
			continue
		}
		seen++
	}
	if rtl > ltr {
		return DirRTL
	}
	return DirLTR
}
