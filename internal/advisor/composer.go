package advisor

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"email-advisor/internal/knowledge"
	"email-advisor/internal/rag"
)

// ComposeRequest carries everything a composer may use to draft a reply.
type ComposeRequest struct {
	Query string
	// Article is nil when no template was chosen or suggested.
	Article    *knowledge.Article
	Decision   Decision
	Metadata   map[string]string
	References []rag.Reference
}

// Draft is a composed reply. Notes are appended to the response reasons.
type Draft struct {
	Subject string
	Body    string
	Notes   []string
}

// Composer drafts the subject and body of a reply.
type Composer interface {
	Compose(ctx context.Context, req ComposeRequest) (Draft, error)
}

const (
	fallbackSubject = "Re: Your advising question"
	fallbackBody    = "Hello {student_name},\n\n" +
		"Thank you for reaching out to Academic Advising. An advisor will review your message " +
		"and reply with the information you need as soon as possible.\n\n" +
		"Best regards,\nAcademic Advising"
)

var placeholderPattern = regexp.MustCompile(`\{([a-z][a-z0-9_]*)\}`)

// TemplateComposer fills {placeholder} tokens of the article template from metadata.
type TemplateComposer struct{}

// NewTemplateComposer returns a TemplateComposer.
func NewTemplateComposer() *TemplateComposer {
	return &TemplateComposer{}
}

// Compose implements Composer.
func (c *TemplateComposer) Compose(_ context.Context, req ComposeRequest) (Draft, error) {
	if req.Article == nil {
		body, _ := fillPlaceholders(fallbackBody, withDefault(req.Metadata, "student_name", "there"))
		return Draft{
			Subject: fallbackSubject,
			Body:    body,
			Notes:   []string{"Drafted a holding reply for advisor review."},
		}, nil
	}

	body, missing := fillPlaceholders(req.Article.ResponseTemplate, req.Metadata)
	notes := []string{fmt.Sprintf("Drafted reply from template '%s'.", req.Article.ID)}
	if len(missing) > 0 {
		notes = append(notes, "Missing values for placeholders: "+strings.Join(missing, ", ")+".")
	}
	return Draft{Subject: req.Article.Subject, Body: body, Notes: notes}, nil
}

// fillPlaceholders substitutes known values and renders unknown ones as [name].
// It returns the sorted, de-duplicated names that had no value.
func fillPlaceholders(template string, values map[string]string) (string, []string) {
	missingSet := make(map[string]struct{})
	out := placeholderPattern.ReplaceAllStringFunc(template, func(token string) string {
		name := token[1 : len(token)-1]
		if v := values[name]; v != "" {
			return v
		}
		missingSet[name] = struct{}{}
		return "[" + name + "]"
	})

	missing := make([]string, 0, len(missingSet))
	for name := range missingSet {
		missing = append(missing, name)
	}
	sort.Strings(missing)
	return out, missing
}

func withDefault(values map[string]string, key, fallback string) map[string]string {
	if values[key] != "" {
		return values
	}
	out := make(map[string]string, len(values)+1)
	for k, v := range values {
		out[k] = v
	}
	out[key] = fallback
	return out
}
