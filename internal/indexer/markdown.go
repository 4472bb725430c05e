// Package indexer turns external sources into reference documents and mirrors
// the fitted reference vectors into a vector store.
package indexer

import (
	"bytes"
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"email-advisor/internal/contextutil"
	"email-advisor/internal/knowledge"
)

// MarkdownImporter builds reference documents from a folder of markdown notes.
type MarkdownImporter struct {
	parser  goldmark.Markdown
	baseURL string
}

// ImporterOption configures a MarkdownImporter.
type ImporterOption func(*MarkdownImporter)

// WithBaseURL links every document to baseURL joined with its relative path
// (without the .md extension).
func WithBaseURL(baseURL string) ImporterOption {
	return func(m *MarkdownImporter) {
		m.baseURL = strings.TrimSuffix(baseURL, "/")
	}
}

// NewMarkdownImporter creates a new importer.
func NewMarkdownImporter(opts ...ImporterOption) *MarkdownImporter {
	m := &MarkdownImporter{
		parser: goldmark.New(goldmark.WithExtensions(extension.Table)),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// ImportDir walks root and converts every .md file into a Document, in
// lexical path order. Hidden directories are skipped, as are files with no
// body text.
func (m *MarkdownImporter) ImportDir(ctx context.Context, root string) ([]knowledge.Document, error) {
	logger := contextutil.LoggerFromContext(ctx)

	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("failed to stat markdown dir %s: %w", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("markdown source %s is not a directory", root)
	}

	var docs []knowledge.Document
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("failed to access path %s: %w", path, err)
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		if d.IsDir() {
			// Skip .obsidian, .git and friends
			if path != root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.EqualFold(filepath.Ext(path), ".md") {
			return nil
		}

		relPath, err := filepath.Rel(root, path)
		if err != nil {
			return fmt.Errorf("failed to compute relative path for %s: %w", path, err)
		}
		relPath = filepath.ToSlash(relPath)

		content, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read file %s: %w", path, err)
		}

		doc, ok := m.Convert(relPath, content)
		if !ok {
			logger.WarnContext(ctx, "skipping markdown file without body text", "rel_path", relPath)
			return nil
		}
		docs = append(docs, doc)
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.InfoContext(ctx, "imported markdown references", "root", root, "documents", len(docs))
	return docs, nil
}

// Convert parses one markdown file. The title is the first level-1 heading,
// else the first level-2 heading, else the file name; the remaining headings,
// paragraphs and list items become the content. Folder names become tags.
// ok is false when the file has no body text.
func (m *MarkdownImporter) Convert(relPath string, content []byte) (knowledge.Document, bool) {
	doc := m.parser.Parser().Parse(text.NewReader(content))

	title, titleNode := extractTitle(doc, content)
	if title == "" {
		title = titleFromFilename(relPath)
	}

	body := extractBody(doc, content, titleNode)
	if body == "" {
		return knowledge.Document{}, false
	}

	out := knowledge.Document{
		ID:      slugify(strings.TrimSuffix(relPath, filepath.Ext(relPath))),
		Title:   title,
		Content: body,
		Tags:    folderTags(relPath),
	}
	if m.baseURL != "" {
		out.URL = m.baseURL + "/" + strings.TrimSuffix(relPath, filepath.Ext(relPath))
	}
	return out, true
}

func extractTitle(doc ast.Node, content []byte) (string, ast.Node) {
	var h1, h2 *ast.Heading

	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		heading, ok := n.(*ast.Heading)
		if !ok {
			return ast.WalkContinue, nil
		}
		switch {
		case heading.Level == 1 && h1 == nil:
			h1 = heading
			return ast.WalkStop, nil
		case heading.Level == 2 && h2 == nil:
			h2 = heading
		}
		return ast.WalkSkipChildren, nil
	})

	switch {
	case h1 != nil:
		return inlineText(h1, content), h1
	case h2 != nil:
		return inlineText(h2, content), h2
	}
	return "", nil
}

// extractBody joins the text blocks of doc, skipping the title heading and code.
func extractBody(doc ast.Node, content []byte, titleNode ast.Node) string {
	var parts []string

	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch n.Kind() {
		case ast.KindCodeBlock, ast.KindFencedCodeBlock, ast.KindHTMLBlock:
			return ast.WalkSkipChildren, nil
		case ast.KindHeading:
			if n != titleNode {
				if s := inlineText(n, content); s != "" {
					parts = append(parts, terminate(s))
				}
			}
			return ast.WalkSkipChildren, nil
		case ast.KindParagraph, ast.KindTextBlock:
			if s := inlineText(n, content); s != "" {
				parts = append(parts, terminate(s))
			}
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})

	return strings.Join(parts, " ")
}

// inlineText collects the text under n, turning line breaks into spaces.
func inlineText(n ast.Node, content []byte) string {
	var buf bytes.Buffer
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch t := c.(type) {
		case *ast.Text:
			buf.Write(t.Segment.Value(content))
			if t.SoftLineBreak() || t.HardLineBreak() {
				buf.WriteByte(' ')
			}
		case *ast.String:
			buf.Write(t.Value)
		}
		return ast.WalkContinue, nil
	})
	return strings.Join(strings.Fields(buf.String()), " ")
}

// terminate ends s with a period so snippet sentence splitting keeps headings
// and list items apart.
func terminate(s string) string {
	last := s[len(s)-1]
	if last == '.' || last == '!' || last == '?' || last == ':' {
		return s
	}
	return s + "."
}

func titleFromFilename(relPath string) string {
	name := filepath.Base(relPath)
	name = strings.TrimSuffix(name, filepath.Ext(name))
	name = strings.NewReplacer("-", " ", "_", " ").Replace(name)
	return cases.Title(language.English).String(strings.Join(strings.Fields(name), " "))
}

func folderTags(relPath string) []string {
	dir := filepath.ToSlash(filepath.Dir(relPath))
	if dir == "." || dir == "" {
		return nil
	}
	var tags []string
	for _, part := range strings.Split(dir, "/") {
		if tag := slugify(part); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}

// slugify lowercases s and replaces runs of other characters with one hyphen.
func slugify(s string) string {
	var b strings.Builder
	pendingHyphen := false
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(r)
			continue
		}
		pendingHyphen = true
	}
	return b.String()
}
