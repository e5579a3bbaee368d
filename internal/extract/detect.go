package extract

import (
	"mime"
	"path/filepath"
	"strings"

	"github.com/adforge/briefapi/internal/domain/briefModel"
)

var mediaTypeFormats = map[string]briefModel.DocFormat{
	"text/plain":         briefModel.FormatPlainText,
	"text/markdown":      briefModel.FormatMarkdown,
	"text/x-markdown":    briefModel.FormatMarkdown,
	"application/pdf":    briefModel.FormatPDF,
	"application/msword": briefModel.FormatWordLegacy,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": briefModel.FormatWordModern,
	"application/vnd.oasis.opendocument.text":                                 briefModel.FormatWordModern,
	"application/rtf": briefModel.FormatWordModern,
	"text/rtf":        briefModel.FormatWordModern,
}

var extensionFormats = map[string]briefModel.DocFormat{
	".txt":      briefModel.FormatPlainText,
	".text":     briefModel.FormatPlainText,
	".md":       briefModel.FormatMarkdown,
	".markdown": briefModel.FormatMarkdown,
	".pdf":      briefModel.FormatPDF,
	".doc":      briefModel.FormatWordLegacy,
	".docx":     briefModel.FormatWordModern,
	".odt":      briefModel.FormatWordModern,
	".rtf":      briefModel.FormatWordModern,
}

// DetectFormat picks the extraction strategy from the declared media type,
// falling back to the filename extension. The declared type wins when both
// are present so a mislabelled extension cannot route bytes to the wrong
// extractor.
func DetectFormat(filename string, mediaType string) briefModel.DocFormat {
	if mediaType != "" {
		parsed, _, err := mime.ParseMediaType(mediaType)
		if err == nil {
			if format, ok := mediaTypeFormats[strings.ToLower(parsed)]; ok {
				return format
			}
		}
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if format, ok := extensionFormats[ext]; ok {
		return format
	}
	return briefModel.FormatUnknown
}
