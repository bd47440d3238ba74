// Package wordlist provides word list filtering helpers.
package wordlist

import "strings"

// FilterFunc returns true when a word should be kept.
type FilterFunc func(string) bool

// FilterForLang returns a language-specific filter for word lists. Every
// filter rejects phrases: targets are single words.
func FilterForLang(lang string) FilterFunc {
	switch strings.ToLower(baseLang(lang)) {
	case "en":
		return filterEnglishASCII
	default:
		return filterSingleWord
	}
}

// baseLang strips the region from a locale such as "en-US".
func baseLang(locale string) string {
	if i := strings.IndexAny(locale, "-_"); i >= 0 {
		return locale[:i]
	}
	return locale
}

func filterEnglishASCII(word string) bool {
	if word == "" {
		return false
	}
	for i := 0; i < len(word); i++ {
		ch := word[i]
		if ch < 'a' || ch > 'z' {
			return false
		}
	}
	return true
}

func filterSingleWord(word string) bool {
	return word != "" && !strings.ContainsAny(word, " \t")
}
