package advisor

//go:generate go run go.uber.org/mock/mockgen@latest -source=llm_composer.go -destination=mocks/mock_chat_client.go -package=mocks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"email-advisor/internal/contextutil"
)

// ErrMalformedCompletion is returned when the language model reply is not a
// JSON object with a non-empty subject and body.
var ErrMalformedCompletion = errors.New("malformed completion")

// ChatClient sends a single prompt to a language model and returns its reply.
type ChatClient interface {
	Chat(ctx context.Context, message string) (string, error)
}

// LLMComposer drafts replies with a language model.
type LLMComposer struct {
	client ChatClient
}

// NewLLMComposer creates a composer backed by client.
func NewLLMComposer(client ChatClient) *LLMComposer {
	return &LLMComposer{client: client}
}

// Compose implements Composer.
func (c *LLMComposer) Compose(ctx context.Context, req ComposeRequest) (Draft, error) {
	logger := contextutil.LoggerFromContext(ctx)

	prompt := buildPrompt(req)
	logger.DebugContext(ctx, "requesting llm draft", "prompt_length", len(prompt))

	reply, err := c.client.Chat(ctx, prompt)
	if err != nil {
		return Draft{}, fmt.Errorf("failed to get completion: %w", err)
	}

	var parsed struct {
		Subject string `json:"subject"`
		Body    string `json:"body"`
	}
	if err := json.Unmarshal([]byte(stripCodeFence(reply)), &parsed); err != nil {
		return Draft{}, fmt.Errorf("%w: %v", ErrMalformedCompletion, err)
	}
	if strings.TrimSpace(parsed.Subject) == "" || strings.TrimSpace(parsed.Body) == "" {
		return Draft{}, fmt.Errorf("%w: subject and body are required", ErrMalformedCompletion)
	}

	note := "Drafted reply with the language model composer."
	if req.Article != nil {
		note = fmt.Sprintf("Drafted reply with the language model composer from template '%s'.", req.Article.ID)
	}
	return Draft{
		Subject: strings.TrimSpace(parsed.Subject),
		Body:    strings.TrimSpace(parsed.Body),
		Notes:   []string{note},
	}, nil
}

func buildPrompt(req ComposeRequest) string {
	var b strings.Builder
	b.WriteString("You are an academic advisor answering a student email.\n")
	b.WriteString("Reply with a JSON object containing the fields \"subject\" and \"body\" and nothing else.\n")
	b.WriteString("Cite supporting references by their number, for example [1].\n\n")

	b.WriteString("Student email:\n")
	b.WriteString(req.Query)
	b.WriteString("\n\n")

	if req.Article != nil {
		fmt.Fprintf(&b, "Suggested template (%s):\n%s\n\n", req.Article.Subject, req.Article.ResponseTemplate)
	} else {
		b.WriteString("No template matched; write a short holding reply saying an advisor will follow up.\n\n")
	}

	if len(req.Metadata) > 0 {
		keys := make([]string, 0, len(req.Metadata))
		for k := range req.Metadata {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		b.WriteString("Known details:\n")
		for _, k := range keys {
			fmt.Fprintf(&b, "- %s: %s\n", k, req.Metadata[k])
		}
		b.WriteString("\n")
	}

	if len(req.References) > 0 {
		b.WriteString("References:\n")
		for i, ref := range req.References {
			fmt.Fprintf(&b, "[%d] %s: %s\n", i+1, ref.Title, ref.Snippet)
		}
	}
	return b.String()
}

// stripCodeFence removes a surrounding ``` or ```json fence.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		s = s[nl+1:]
	} else {
		s = ""
	}
	s = strings.TrimSpace(s)
	return strings.TrimSpace(strings.TrimSuffix(s, "```"))
}
