package rag

import (
	"strings"
	"unicode"

	"email-advisor/internal/textproc"
)

// BuildSnippet returns the first sentence of content that shares a token with
// queryTokens, cut to maxLength runes. Without such a sentence the content itself
// is returned, cut at a word boundary and suffixed with "..." when too long.
func BuildSnippet(content string, queryTokens map[string]struct{}, maxLength int) string {
	for _, sentence := range splitSentences(content) {
		if sharesToken(sentence, queryTokens) {
			return strings.TrimSpace(truncateRunes(sentence, maxLength))
		}
	}

	trimmed := strings.TrimSpace(content)
	if len([]rune(trimmed)) <= maxLength {
		return trimmed
	}
	cut := truncateRunes(trimmed, maxLength)
	if i := strings.LastIndex(cut, " "); i >= 0 {
		cut = cut[:i]
	}
	return cut + "..."
}

// splitSentences splits after '.', '!' or '?' when followed by whitespace.
func splitSentences(content string) []string {
	var sentences []string
	runes := []rune(content)
	start := 0
	for i := 0; i < len(runes); i++ {
		if !strings.ContainsRune(".!?", runes[i]) || i+1 >= len(runes) || !unicode.IsSpace(runes[i+1]) {
			continue
		}
		sentences = appendSentence(sentences, string(runes[start:i+1]))
		j := i + 1
		for j < len(runes) && unicode.IsSpace(runes[j]) {
			j++
		}
		start = j
		i = j - 1
	}
	if start < len(runes) {
		sentences = appendSentence(sentences, string(runes[start:]))
	}
	return sentences
}

func appendSentence(sentences []string, s string) []string {
	if s = strings.TrimSpace(s); s != "" {
		sentences = append(sentences, s)
	}
	return sentences
}

func sharesToken(sentence string, queryTokens map[string]struct{}) bool {
	for _, tok := range textproc.Tokenize(sentence) {
		if _, ok := queryTokens[tok]; ok {
			return true
		}
	}
	return false
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
