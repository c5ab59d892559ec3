package ingest

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestCleanBasic(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "collapses spaces", in: "a   b\t\tc", want: "a b c"},
		{name: "tab separated columns keep word boundaries", in: "name\tvalue\tunit", want: "name value unit"},
		{name: "tab indentation survives as a space", in: "\tindented line\n\tsecond line", want: "indented line\n second line"},
		{name: "drops other control chars", in: "a\x00b\x1bc", want: "abc"},
		{name: "collapses newlines", in: "a\n\n\n\nb", want: "a\n\nb"},
		{name: "fixes ligatures", in: "ﬁle ﬂow", want: "file flow"},
		{name: "empty input", in: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CleanBasic(tt.in); got != tt.want {
				t.Errorf("CleanBasic(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestHTMLToText(t *testing.T) {
	html := `<html><body><h1>Title</h1><p>First paragraph.</p><ul><li>item one</li></ul></body></html>`

	text, err := HTMLToText(html)
	if err != nil {
		t.Fatalf("HTMLToText failed: %v", err)
	}
	if !strings.Contains(text, "# Title") {
		t.Errorf("expected heading marker, got %q", text)
	}
	if !strings.Contains(text, "First paragraph.") {
		t.Errorf("expected paragraph text, got %q", text)
	}
	if !strings.Contains(text, "- item one") {
		t.Errorf("expected list item, got %q", text)
	}
}

func TestRemoveDuplicateParagraphs(t *testing.T) {
	in := "same paragraph\n\nsame paragraph\n\nother paragraph"
	got := RemoveDuplicateParagraphs(in)
	if got != "same paragraph\n\nother paragraph" {
		t.Errorf("unexpected result %q", got)
	}
}

func TestLoadDirectoryReadsTextFiles(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "b.txt"), []byte("second document body"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "a.txt"), []byte("first document body"), 0o644); err != nil {
		t.Fatal(err)
	}
	// Unsupported extension is skipped.
	if err := os.WriteFile(filepath.Join(dir, "ignore.bin"), []byte{0x1}, 0o644); err != nil {
		t.Fatal(err)
	}

	docs, err := LoadDirectory(dir)
	if err != nil {
		t.Fatalf("LoadDirectory failed: %v", err)
	}
	if len(docs) != 2 {
		t.Fatalf("expected 2 documents, got %d", len(docs))
	}
	if docs[0].ID != "a.txt" || docs[1].ID != "b.txt" {
		t.Errorf("expected documents sorted by filename, got %s then %s", docs[0].ID, docs[1].ID)
	}
	if docs[0].Metadata["source"] != "a.txt" {
		t.Errorf("expected source metadata, got %#v", docs[0].Metadata)
	}
}
