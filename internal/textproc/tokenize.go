// Package textproc turns free text into the index terms shared by every
// scoring component.
package textproc

import (
	"strings"
	"unicode"
)

// minTokenLength drops stray single letters left over from contractions ("can't" -> "can", "t").
const minTokenLength = 2

var stopwords = map[string]struct{}{
	"a": {}, "able": {}, "about": {}, "after": {}, "all": {}, "also": {}, "am": {}, "an": {}, "and": {},
	"any": {}, "are": {}, "as": {}, "at": {}, "be": {}, "been": {}, "before": {}, "being": {}, "but": {},
	"by": {}, "can": {}, "could": {}, "dear": {}, "did": {}, "do": {}, "does": {}, "due": {}, "for": {},
	"from": {}, "get": {}, "had": {}, "has": {}, "have": {}, "hello": {}, "help": {}, "hey": {}, "hi": {},
	"how": {}, "if": {}, "im": {}, "in": {}, "into": {}, "is": {}, "it": {}, "its": {}, "just": {},
	"know": {}, "like": {}, "may": {}, "me": {}, "might": {}, "my": {}, "need": {}, "no": {}, "not": {},
	"of": {}, "on": {}, "or": {}, "our": {}, "please": {}, "should": {}, "so": {}, "some": {}, "than": {},
	"thank": {}, "thanks": {}, "that": {}, "the": {}, "their": {}, "them": {}, "then": {}, "there": {},
	"these": {}, "they": {}, "this": {}, "those": {}, "to": {}, "too": {}, "up": {}, "us": {}, "want": {},
	"was": {}, "we": {}, "were": {}, "what": {}, "when": {}, "where": {}, "which": {}, "who": {},
	"why": {}, "will": {}, "with": {}, "would": {}, "you": {}, "your": {},
}

// synonyms folds advising vocabulary onto one canonical term so that
// "remove a course" and "withdraw from a class" share index terms.
var synonyms = map[string]string{
	"drop":        "withdraw",
	"dropped":     "withdraw",
	"dropping":    "withdraw",
	"remove":      "withdraw",
	"removed":     "withdraw",
	"removing":    "withdraw",
	"withdrawal":  "withdraw",
	"withdrawing": "withdraw",
	"withdrawn":   "withdraw",
	"withdrew":    "withdraw",

	"order":      "request",
	"ordered":    "request",
	"ordering":   "request",
	"obtain":     "request",
	"requested":  "request",
	"requesting": "request",

	"class": "course",

	"enroll":       "register",
	"enrolled":     "register",
	"enrolling":    "register",
	"enrollment":   "register",
	"registered":   "register",
	"registering":  "register",
	"registration": "register",

	"semester": "term",
}

// Tokenize lowercases text, splits it on anything that is not a letter or
// digit and returns the normalized index terms in text order.
func Tokenize(text string) []string {
	if text == "" {
		return nil
	}

	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	tokens := make([]string, 0, len(fields))
	for _, field := range fields {
		if len([]rune(field)) < minTokenLength {
			continue
		}
		if _, isStop := stopwords[field]; isStop {
			continue
		}
		tokens = append(tokens, Normalize(field))
	}
	if len(tokens) == 0 {
		return nil
	}
	return tokens
}

// Normalize maps a single lowercase word onto its index term.
func Normalize(word string) string {
	if canonical, ok := synonyms[word]; ok {
		return canonical
	}
	stemmed := stem(word)
	if canonical, ok := synonyms[stemmed]; ok {
		return canonical
	}
	return stemmed
}

// TokenSet returns the distinct terms of Tokenize(text).
func TokenSet(text string) map[string]struct{} {
	tokens := Tokenize(text)
	set := make(map[string]struct{}, len(tokens))
	for _, token := range tokens {
		set[token] = struct{}{}
	}
	return set
}

// stem strips English plural endings only.
func stem(word string) string {
	switch {
	case len(word) > 4 && strings.HasSuffix(word, "ies"):
		return strings.TrimSuffix(word, "ies") + "y"
	case strings.HasSuffix(word, "sses"):
		return strings.TrimSuffix(word, "es")
	case len(word) > 3 && strings.HasSuffix(word, "s") &&
		!strings.HasSuffix(word, "ss") &&
		!strings.HasSuffix(word, "us") &&
		!strings.HasSuffix(word, "is"):
		return strings.TrimSuffix(word, "s")
	}
	return word
}
