// Package knowledge holds the static data the advisor matches against: the
// knowledge base of response templates and the reference corpus used for
// supporting snippets.
package knowledge

import "strings"

// Article is a reusable advising response template.
type Article struct {
	ID                string            `json:"id" yaml:"id" validate:"required"`
	Subject           string            `json:"subject" yaml:"subject" validate:"required"`
	Categories        []string          `json:"categories,omitempty" yaml:"categories,omitempty"`
	Utterances        []string          `json:"utterances,omitempty" yaml:"utterances,omitempty" validate:"dive,required"`
	ResponseTemplate  string            `json:"response_template" yaml:"response_template" validate:"required"`
	FollowUpQuestions []string          `json:"follow_up_questions,omitempty" yaml:"follow_up_questions,omitempty"`
	Metadata          map[string]string `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// IndexText returns the text used to index an article that has no example utterances.
func (a Article) IndexText() string {
	return strings.Join(append([]string{a.Subject}, a.Categories...), " ")
}

// Document is a supporting reference used for retrieval.
type Document struct {
	ID      string   `json:"id" yaml:"id" validate:"required"`
	Title   string   `json:"title" yaml:"title" validate:"required"`
	Content string   `json:"content" yaml:"content" validate:"required"`
	URL     string   `json:"url,omitempty" yaml:"url,omitempty" validate:"omitempty,url"`
	Tags    []string `json:"tags,omitempty" yaml:"tags,omitempty"`
}

// IndexText returns the text a document is indexed under: title, content and tags.
func (d Document) IndexText() string {
	return strings.Join(append([]string{d.Title, d.Content}, d.Tags...), " ")
}
