package ingest

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSupportedExtension(t *testing.T) {
	tests := []struct {
		filename string
		want     bool
	}{
		{"report.pdf", true},
		{"NOTES.TXT", true},
		{"doc.docx", true},
		{"legacy.rtf", true},
		{"image.png", false},
		{"archive.zip", false},
		{"noextension", false},
	}
	for _, tt := range tests {
		if got := SupportedExtension(tt.filename); got != tt.want {
			t.Errorf("SupportedExtension(%s) = %v, want %v", tt.filename, got, tt.want)
		}
	}
}

func TestSpool_RejectsUnsupportedFormat(t *testing.T) {
	dir := t.TempDir()
	_, err := Spool(dir, "malware.exe", 1024, strings.NewReader("data"))
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("Expected ErrUnsupportedFormat, got %v", err)
	}

	// Rejection happens before any spool file exists.
	assertEmptyDir(t, dir)
}

func TestSpool_OverrunAbortsAndCleansUp(t *testing.T) {
	dir := t.TempDir()
	oversized := strings.NewReader(strings.Repeat("x", 200))

	_, err := Spool(dir, "big.txt", 100, oversized)
	if !errors.Is(err, ErrFileTooLarge) {
		t.Fatalf("Expected ErrFileTooLarge, got %v", err)
	}
	assertEmptyDir(t, dir)
}

func TestSpool_KeepsExtension(t *testing.T) {
	dir := t.TempDir()
	path, err := Spool(dir, "guide.PDF", 1024, strings.NewReader("%PDF-1.4 stub"))
	if err != nil {
		t.Fatalf("Spool failed: %v", err)
	}
	if filepath.Ext(path) != ".pdf" {
		t.Errorf("Spooled file should keep the extension, got %s", path)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("Spool file missing: %v", err)
	}
}

func TestExtractText_Txt(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "notes.txt")
	content := "line one\nline two"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	text, err := ExtractText(path)
	if err != nil {
		t.Fatalf("ExtractText failed: %v", err)
	}
	if text != content {
		t.Errorf("Extracted text got %q, want %q", text, content)
	}
}

func TestExtractText_EmptyDocument(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "blank.txt")
	if err := os.WriteFile(path, []byte("   \n\t\n"), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := ExtractText(path)
	if !errors.Is(err, ErrEmptyDocument) {
		t.Errorf("Expected ErrEmptyDocument, got %v", err)
	}
}

func TestExtractText_UnsupportedExtension(t *testing.T) {
	_, err := ExtractText("whatever.csv")
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("Expected ErrUnsupportedFormat, got %v", err)
	}
}

func assertEmptyDir(t *testing.T, dir string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("Expected no files in %s, found %d", dir, len(entries))
	}
}
