package extract

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestText_PlainFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.txt")
	if err := os.WriteFile(path, []byte("Hello there.\r\nSecond line."), 0o644); err != nil {
		t.Fatal(err)
	}
	got, err := Text(path)
	if err != nil {
		t.Fatal(err)
	}
	if got != "Hello there.\nSecond line." {
		t.Fatalf("unexpected text: %q", got)
	}
}

func TestText_UnsupportedExtension(t *testing.T) {
	_, err := Text("document.docx")
	if !errors.Is(err, ErrUnsupportedInput) {
		t.Fatalf("expected ErrUnsupportedInput, got %v", err)
	}
}

func TestText_EmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.md")
	if err := os.WriteFile(path, []byte("  \n\t\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := Text(path)
	if !errors.Is(err, ErrEmptyDocument) {
		t.Fatalf("expected ErrEmptyDocument, got %v", err)
	}
}

func TestFromBytes(t *testing.T) {
	got, err := FromBytes("note.md", []byte("# Title\n\nBody."))
	if err != nil {
		t.Fatal(err)
	}
	if got != "# Title\n\nBody." {
		t.Fatalf("unexpected text: %q", got)
	}

	if _, err := FromBytes("file.exe", []byte("x")); !errors.Is(err, ErrUnsupportedInput) {
		t.Fatalf("expected ErrUnsupportedInput, got %v", err)
	}
}

func TestTextFromStream(t *testing.T) {
	stream := []byte("BT\n(Hello) Tj\n0 -14 Td\n(world.) Tj\nET")
	got := textFromStream(stream)
	if got != "Hello world." {
		t.Fatalf("unexpected stream text: %q", got)
	}
}

func TestDecodePDFString(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{`plain`, "plain"},
		{`a\(b\)c`, "a(b)c"},
		{`tab\there`, "tab\there"},
		{`\110i`, "Hi"},
	}
	for _, tt := range tests {
		if got := decodePDFString([]byte(tt.in)); got != tt.want {
			t.Fatalf("decodePDFString(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
