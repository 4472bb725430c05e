// Package metadata extracts structured facts (term, deadlines, student name)
// from the raw text of a student email.
package metadata

import (
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Fact keys.
const (
	KeyTerm                 = "term"
	KeyWithdrawalDeadline   = "withdrawal_deadline"
	KeyRegistrationDeadline = "registration_deadline"
	KeyDeadline             = "deadline"
	KeyStudentName          = "student_name"
)

// DefaultContextWindow is the number of characters inspected on each side of a
// date when deciding what kind of deadline it is.
const DefaultContextWindow = 48

// Fact is a metadata value inferred from the student's message.
type Fact struct {
	Key    string `json:"key"`
	Value  string `json:"value"`
	Reason string `json:"reason"`
}

// Recognizer scans text for one kind of fact.
type Recognizer interface {
	Scan(text string) []Fact
}

// Extractor runs an ordered list of recognizers over a message.
// It holds no mutable state and is safe for concurrent use.
type Extractor struct {
	recognizers []Recognizer
}

// Option configures an Extractor.
type Option func(*extractorConfig)

type extractorConfig struct {
	contextWindow int
}

// WithContextWindow sets the radius, in characters, of the window used to
// classify dates. Non-positive values keep the default.
func WithContextWindow(chars int) Option {
	return func(c *extractorConfig) {
		if chars > 0 {
			c.contextWindow = chars
		}
	}
}

// NewExtractor builds the default recognizer chain: term, dates, name.
func NewExtractor(opts ...Option) *Extractor {
	cfg := extractorConfig{contextWindow: DefaultContextWindow}
	for _, opt := range opts {
		opt(&cfg)
	}
	return NewExtractorWith(
		TermRecognizer{},
		DateRecognizer{ContextWindow: cfg.contextWindow},
		NameRecognizer{},
	)
}

// NewExtractorWith builds an extractor from an explicit recognizer chain.
func NewExtractorWith(recognizers ...Recognizer) *Extractor {
	return &Extractor{recognizers: recognizers}
}

// Extract returns the facts of every recognizer, in recognizer order.
func (e *Extractor) Extract(text string) []Fact {
	var facts []Fact
	for _, r := range e.recognizers {
		facts = append(facts, r.Scan(text)...)
	}
	return facts
}

// titleCase builds a fresh Caser per call; a Caser must not be shared between goroutines.
func titleCase(s string) string {
	return cases.Title(language.English).String(s)
}

var termPattern = regexp.MustCompile(`(?i)\b(spring|summer|fall|winter)\s*(\d{4})\b`)

// TermRecognizer finds academic terms such as "fall 2024".
type TermRecognizer struct{}

// Scan implements Recognizer.
func (TermRecognizer) Scan(text string) []Fact {
	var facts []Fact
	for _, m := range termPattern.FindAllStringSubmatch(text, -1) {
		term := titleCase(m[1]) + " " + m[2]
		facts = append(facts, Fact{
			Key:    KeyTerm,
			Value:  term,
			Reason: "Detected academic term '" + term + "' from student email.",
		})
	}
	return facts
}

var namePattern = regexp.MustCompile(`(?i:\bmy\s+name\s+is|\bthis\s+is)\s+([A-Z][a-zA-Z'-]+(?:\s+[A-Z][a-zA-Z'-]+){0,2})\b`)

// NameRecognizer captures a student name from "my name is ..." or "this is ...".
type NameRecognizer struct{}

// Scan implements Recognizer.
func (NameRecognizer) Scan(text string) []Fact {
	var facts []Fact
	for _, m := range namePattern.FindAllStringSubmatch(text, -1) {
		name := strings.Join(nameWords(m[1]), " ")
		if len(name) < 2 {
			continue
		}
		facts = append(facts, Fact{
			Key:    KeyStudentName,
			Value:  name,
			Reason: "Captured student name '" + name + "' from greeting.",
		})
	}
	return facts
}

// nameWords title-cases the captured words and stops at a possessive,
// so "Taylor's Mom" yields "Taylor".
func nameWords(captured string) []string {
	var words []string
	for _, w := range strings.Fields(captured) {
		stem, possessive := trimPossessive(w)
		if stem != "" {
			words = append(words, titleCase(stem))
		}
		if possessive {
			break
		}
	}
	return words
}

func trimPossessive(word string) (string, bool) {
	lower := strings.ToLower(word)
	switch {
	case strings.HasSuffix(lower, "'s"):
		return word[:len(word)-2], true
	case strings.HasSuffix(word, "'"):
		return word[:len(word)-1], true
	}
	return word, false
}

var months = map[string]string{
	"jan": "January", "january": "January",
	"feb": "February", "february": "February",
	"mar": "March", "march": "March",
	"apr": "April", "april": "April",
	"may": "May",
	"jun": "June", "june": "June",
	"jul": "July", "july": "July",
	"aug": "August", "august": "August",
	"sep": "September", "sept": "September", "september": "September",
	"oct": "October", "october": "October",
	"nov": "November", "november": "November",
	"dec": "December", "december": "December",
}

var monthNames = [...]string{
	"January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December",
}

var (
	monthDayPattern = regexp.MustCompile(`(?i)\b(january|february|march|april|may|june|july|august|september|october|november|december|sept|jan|feb|mar|apr|jun|jul|aug|sep|oct|nov|dec)\.?\s+(\d{1,2})(?:st|nd|rd|th)?\b`)
	numericPattern  = regexp.MustCompile(`\b(\d{1,2})[/-](\d{1,2})(?:[/-](\d{4}))?\b`)
	wordPattern     = regexp.MustCompile(`[a-z]+`)
)

var (
	withdrawalKeywords   = []string{"withdraw", "withdrawal", "drop", "dropped", "remove", "removed"}
	registrationKeywords = []string{"register", "registration", "enroll", "enrollment", "add"}
)

// DateRecognizer finds dates and classifies them as deadlines from the words around them.
// A date with no deadline cue nearby produces no fact.
type DateRecognizer struct {
	ContextWindow int
}

type dateMatch struct {
	start, end int
	value      string
}

// Scan implements Recognizer.
func (r DateRecognizer) Scan(text string) []Fact {
	window := r.ContextWindow
	if window <= 0 {
		window = DefaultContextWindow
	}
	var facts []Fact
	for _, d := range findDates(text) {
		around := strings.ToLower(contextWindow(text, d.start, d.end, window))
		facts = append(facts, classify(around, d.value)...)
	}
	return facts
}

// findDates returns month-name and numeric dates merged in text order.
func findDates(text string) []dateMatch {
	var named []dateMatch
	for _, loc := range monthDayPattern.FindAllStringSubmatchIndex(text, -1) {
		month := months[strings.ToLower(text[loc[2]:loc[3]])]
		day, err := strconv.Atoi(text[loc[4]:loc[5]])
		if month == "" || err != nil || day < 1 || day > 31 {
			continue
		}
		named = append(named, dateMatch{start: loc[0], end: loc[1], value: month + " " + strconv.Itoa(day)})
	}

	var numeric []dateMatch
	for _, loc := range numericPattern.FindAllStringSubmatchIndex(text, -1) {
		month, _ := strconv.Atoi(text[loc[2]:loc[3]])
		day, _ := strconv.Atoi(text[loc[4]:loc[5]])
		if month < 1 || month > 12 || day < 1 || day > 31 {
			continue
		}
		value := monthNames[month-1] + " " + strconv.Itoa(day)
		if loc[6] >= 0 {
			value += ", " + text[loc[6]:loc[7]]
		}
		numeric = append(numeric, dateMatch{start: loc[0], end: loc[1], value: value})
	}

	merged := make([]dateMatch, 0, len(named)+len(numeric))
	i, j := 0, 0
	for i < len(named) && j < len(numeric) {
		if named[i].start <= numeric[j].start {
			merged = append(merged, named[i])
			i++
		} else {
			merged = append(merged, numeric[j])
			j++
		}
	}
	merged = append(merged, named[i:]...)
	return append(merged, numeric[j:]...)
}

// contextWindow returns text[start:end] widened by radius characters on each side.
// start and end are byte offsets on rune boundaries.
func contextWindow(text string, start, end, radius int) string {
	begin := start
	for i := 0; i < radius && begin > 0; i++ {
		_, size := utf8.DecodeLastRuneInString(text[:begin])
		begin -= size
	}
	finish := end
	for i := 0; i < radius && finish < len(text); i++ {
		_, size := utf8.DecodeRuneInString(text[finish:])
		finish += size
	}
	return text[begin:finish]
}

func classify(window, value string) []Fact {
	words := make(map[string]struct{})
	for _, w := range wordPattern.FindAllString(window, -1) {
		words[w] = struct{}{}
	}

	withdrawal := containsAny(words, withdrawalKeywords)
	registration := containsAny(words, registrationKeywords)

	var facts []Fact
	if withdrawal {
		facts = append(facts, Fact{
			Key:    KeyWithdrawalDeadline,
			Value:  value,
			Reason: "Identified withdrawal deadline '" + value + "' in message context.",
		})
	}
	if registration {
		facts = append(facts, Fact{
			Key:    KeyRegistrationDeadline,
			Value:  value,
			Reason: "Identified registration deadline '" + value + "' in message context.",
		})
	}
	if !withdrawal && !registration && strings.Contains(window, "deadline") {
		facts = append(facts, Fact{
			Key:    KeyDeadline,
			Value:  value,
			Reason: "Detected deadline reference '" + value + "'.",
		})
	}
	return facts
}

func containsAny(words map[string]struct{}, keywords []string) bool {
	for _, k := range keywords {
		if _, ok := words[k]; ok {
			return true
		}
	}
	return false
}
