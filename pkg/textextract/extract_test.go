package textextract

import (
	"archive/zip"
	"bytes"
	"errors"
	"testing"
)

func TestExtract_Text(t *testing.T) {
	tests := []struct {
		name string
		kind string
		data []byte
		want string
	}{
		{"plain", "notes.txt", []byte("hello\nworld"), "hello\nworld"},
		{"bom", "text/plain; charset=utf-8", append([]byte{0xEF, 0xBB, 0xBF}, "నమస్కారం"...), "నమస్కారం"},
		{"extension only", ".TXT", []byte("x"), "x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Extract(tt.kind, tt.data)
			if err != nil {
				t.Fatalf("Extract() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Extract() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExtract_InvalidUTF8(t *testing.T) {
	if _, err := Extract("a.txt", []byte{0xff, 0xfe, 0x00}); err == nil {
		t.Error("Extract() error = nil for invalid UTF-8")
	}
}

func TestExtract_Unsupported(t *testing.T) {
	for _, kind := range []string{"song.mp3", "image/png", ""} {
		if _, err := Extract(kind, []byte("x")); !errors.Is(err, ErrUnsupportedType) {
			t.Errorf("Extract(%q) = %v, want ErrUnsupportedType", kind, err)
		}
	}
}

func TestExtract_DOCX(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/document.xml")
	if err != nil {
		t.Fatal(err)
	}
	_, _ = w.Write([]byte(`<?xml version="1.0" encoding="UTF-8"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
<w:body>
<w:p><w:r><w:t>Hello</w:t></w:r><w:r><w:t xml:space="preserve"> world</w:t></w:r></w:p>
<w:p><w:r><w:t>Second &amp; last</w:t></w:r></w:p>
</w:body>
</w:document>`))
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}

	got, err := Extract("doc.docx", buf.Bytes())
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if want := "Hello world\nSecond & last"; got != want {
		t.Errorf("Extract() = %q, want %q", got, want)
	}
}

func TestExtract_BrokenArchives(t *testing.T) {
	if _, err := Extract("x.docx", []byte("not a zip")); err == nil {
		t.Error("Extract(docx) error = nil for garbage")
	}
	if _, err := Extract("x.pdf", []byte("not a pdf")); err == nil {
		t.Error("Extract(pdf) error = nil for garbage")
	}
}
