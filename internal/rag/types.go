package rag

import "errors"

// DefaultDiversity is the relevance weight used when no WithDiversity option is given.
const DefaultDiversity = 0.7

// MaxSnippetLength caps the length of a reference snippet, in characters.
const MaxSnippetLength = 200

// ErrInvalidDiversity is returned when the diversity weight is outside [0, 1].
var ErrInvalidDiversity = errors.New("diversity must be between 0 and 1")

// Reference is a supporting document selected for an advisor reply.
type Reference struct {
	// DocumentID is the id of the reference document.
	DocumentID string `json:"document_id"`
	// Title is the document title.
	Title string `json:"title"`
	// Snippet is an excerpt of the document content, at most MaxSnippetLength characters
	// (plus a trailing "..." when the content had to be cut).
	Snippet string `json:"snippet"`
	// URL is the document link, empty when the document has none.
	URL string `json:"url,omitempty"`
	// Score is the TF-IDF cosine similarity between the query and the document.
	Score float64 `json:"score"`
}
