package service

import (
	"strings"
	"unicode/utf8"
)

const minCommentLength = 5

var spamPhrases = map[string]struct{}{
	"ok":   {},
	"good": {},
	"nice": {},
	"test": {},
	"aaa":  {},
}

// DetectFraud marca envios de bajo esfuerzo: comentarios muy cortos, frases
// de spam conocidas, o un NPS extremo (0/10) con menos de tres palabras.
func DetectFraud(comment string, nps int) bool {
	trimmed := strings.TrimSpace(comment)
	if utf8.RuneCountInString(trimmed) < minCommentLength {
		return true
	}

	if _, ok := spamPhrases[strings.ToLower(trimmed)]; ok {
		return true
	}

	if (nps == 0 || nps == 10) && len(strings.Fields(comment)) < 3 {
		return true
	}

	return false
}
