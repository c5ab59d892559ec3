package ingest

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/researchkit/deepresearch/document"
	"github.com/researchkit/deepresearch/pkg/logging"
)

// LoadDirectory reads all supported files (.txt, .md, .html, .pdf) from a
// directory and returns them as documents, sorted by filename. Files that
// fail to parse are skipped with a warning; an unreadable directory is an error.
func LoadDirectory(dir string) ([]document.Document, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read directory %s: %w", dir, err)
	}

	logger := logging.WithComponent("ingest")

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)

	docs := make([]document.Document, 0, len(names))
	for _, name := range names {
		path := filepath.Join(dir, name)
		doc, err := LoadFile(path)
		if err != nil {
			logger.Warn("skipping document", "file", name, "error", err)
			continue
		}
		if doc == nil {
			continue
		}
		docs = append(docs, *doc)
	}
	return docs, nil
}

// LoadFile parses one file into a document. Unsupported extensions return
// (nil, nil) so callers can skip them silently.
func LoadFile(path string) (*document.Document, error) {
	name := filepath.Base(path)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".txt", ".md":
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read text file: %w", err)
		}
		return newDocument(name, Preprocess(string(raw)))
	case ".html", ".htm":
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read html file: %w", err)
		}
		text, err := HTMLToText(string(raw))
		if err != nil {
			return nil, fmt.Errorf("extract html text: %w", err)
		}
		return newDocument(name, Preprocess(text))
	case ".pdf":
		text, err := pdfToText(path)
		if err != nil {
			return nil, fmt.Errorf("extract pdf text: %w", err)
		}
		return newDocument(name, Preprocess(text))
	default:
		return nil, nil
	}
}

func newDocument(name, content string) (*document.Document, error) {
	if strings.TrimSpace(content) == "" {
		return nil, fmt.Errorf("no text extracted from %s", name)
	}
	return &document.Document{
		ID:      name,
		Title:   name,
		Content: content,
		Metadata: map[string]any{
			"source": name,
		},
	}, nil
}

func pdfToText(path string) (string, error) {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	plain, err := reader.GetPlainText()
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(plain); err != nil {
		return "", err
	}
	return buf.String(), nil
}
