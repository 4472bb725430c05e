package knowledge

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Format identifies the serialization of a knowledge base or corpus file.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

var validate = validator.New()

// FormatForPath picks the file format from the path extension. Anything that
// is not .yaml or .yml is read as JSON.
func FormatForPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// LoadKnowledgeBase reads articles from path and builds a KnowledgeBase.
func LoadKnowledgeBase(path string) (*KnowledgeBase, error) {
	f, err := openSource(path, "knowledge base")
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = f.Close()
	}()

	articles, err := ReadArticles(f, FormatForPath(path))
	if err != nil {
		return nil, fmt.Errorf("failed to read knowledge base %s: %w", path, err)
	}
	return NewKnowledgeBase(articles)
}

// LoadReferenceCorpus reads documents from path and builds a ReferenceCorpus.
func LoadReferenceCorpus(path string) (*ReferenceCorpus, error) {
	f, err := openSource(path, "reference corpus")
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = f.Close()
	}()

	docs, err := ReadDocuments(f, FormatForPath(path))
	if err != nil {
		return nil, fmt.Errorf("failed to read reference corpus %s: %w", path, err)
	}
	return NewReferenceCorpus(docs)
}

// ReadArticles decodes and validates a list of articles.
func ReadArticles(r io.Reader, format Format) ([]Article, error) {
	var articles []Article
	if err := decode(r, format, &articles); err != nil {
		return nil, err
	}
	for i := range articles {
		if err := validate.Struct(articles[i]); err != nil {
			return nil, fmt.Errorf("%w: article %d (%q): %v", ErrInvalidRecord, i, articles[i].ID, err)
		}
		articles[i] = normalizeArticle(articles[i])
	}
	return articles, nil
}

// ReadDocuments decodes and validates a list of reference documents.
func ReadDocuments(r io.Reader, format Format) ([]Document, error) {
	var docs []Document
	if err := decode(r, format, &docs); err != nil {
		return nil, err
	}
	for i := range docs {
		if err := validate.Struct(docs[i]); err != nil {
			return nil, fmt.Errorf("%w: document %d (%q): %v", ErrInvalidRecord, i, docs[i].ID, err)
		}
		docs[i] = normalizeDocument(docs[i])
	}
	return docs, nil
}

// WriteArticles encodes articles in the given format.
func WriteArticles(w io.Writer, articles []Article, format Format) error {
	return encode(w, format, articles)
}

// WriteDocuments encodes documents in the given format.
func WriteDocuments(w io.Writer, docs []Document, format Format) error {
	return encode(w, format, docs)
}

func openSource(path, label string) (*os.File, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%s file %s: %w", label, path, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to open %s file %s: %w", label, path, err)
	}
	return f, nil
}

func decode(r io.Reader, format Format, out any) error {
	switch format {
	case FormatYAML:
		if err := yaml.NewDecoder(r).Decode(out); err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("failed to decode yaml: %w", err)
		}
	default:
		if err := json.NewDecoder(r).Decode(out); err != nil {
			return fmt.Errorf("failed to decode json: %w", err)
		}
	}
	return nil
}

func encode(w io.Writer, format Format, in any) error {
	switch format {
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(in); err != nil {
			return fmt.Errorf("failed to encode yaml: %w", err)
		}
		return enc.Close()
	default:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(in); err != nil {
			return fmt.Errorf("failed to encode json: %w", err)
		}
		return nil
	}
}

// Empty optional collections are stored as nil so that loading and
// re-serializing a record yields the same record.
func normalizeArticle(a Article) Article {
	if len(a.Categories) == 0 {
		a.Categories = nil
	}
	if len(a.Utterances) == 0 {
		a.Utterances = nil
	}
	if len(a.FollowUpQuestions) == 0 {
		a.FollowUpQuestions = nil
	}
	if len(a.Metadata) == 0 {
		a.Metadata = nil
	}
	return a
}

func normalizeDocument(d Document) Document {
	if len(d.Tags) == 0 {
		d.Tags = nil
	}
	return d
}
