package extract

import (
	"testing"

	"github.com/adforge/briefapi/internal/domain/briefModel"
)

func TestDetectFormat(t *testing.T) {
	cases := []struct {
		name      string
		filename  string
		mediaType string
		want      briefModel.DocFormat
	}{
		{"plain text by media type", "notes", "text/plain", briefModel.FormatPlainText},
		{"plain text with charset param", "notes", "text/plain; charset=utf-8", briefModel.FormatPlainText},
		{"markdown by extension", "brief.md", "", briefModel.FormatMarkdown},
		{"pdf by media type", "brief.bin", "application/pdf", briefModel.FormatPDF},
		{"pdf by extension", "brief.PDF", "", briefModel.FormatPDF},
		{"docx by media type", "brief", "application/vnd.openxmlformats-officedocument.wordprocessingml.document", briefModel.FormatWordModern},
		{"legacy doc by extension", "brief.doc", "", briefModel.FormatWordLegacy},
		{"declared type wins over extension", "brief.pdf", "text/plain", briefModel.FormatPlainText},
		{"unknown media type falls back to extension", "brief.txt", "application/octet-stream", briefModel.FormatPlainText},
		{"nothing recognizable", "archive.zip", "application/zip", briefModel.FormatUnknown},
		{"empty everything", "", "", briefModel.FormatUnknown},
		{"malformed media type", "brief.md", ";;;", briefModel.FormatMarkdown},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := DetectFormat(c.filename, c.mediaType); got != c.want {
				t.Errorf("DetectFormat(%q, %q) = %v, want %v", c.filename, c.mediaType, got, c.want)
			}
		})
	}
}
