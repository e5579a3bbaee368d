package extract

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/dslipak/pdf"
	"github.com/lu4p/cat"

	"github.com/adforge/briefapi/internal/apperrors"
	"github.com/adforge/briefapi/internal/domain/briefModel"
)

// textExtractor is one strategy per supported format. Implementations must
// fail cleanly on malformed containers; panics from third-party parsers are
// contained here so a corrupt upload can never take the pipeline down.
type textExtractor interface {
	extract(doc briefModel.UploadedDocument) (string, error)
}

func extractorFor(format briefModel.DocFormat) (textExtractor, error) {
	switch format {
	case briefModel.FormatPlainText, briefModel.FormatMarkdown:
		return plainTextExtractor{}, nil
	case briefModel.FormatPDF:
		return pdfExtractor{}, nil
	case briefModel.FormatWordModern:
		return wordModernExtractor{}, nil
	case briefModel.FormatWordLegacy:
		return wordLegacyExtractor{}, nil
	default:
		return nil, apperrors.UnsupportedFormat(string(format))
	}
}

type plainTextExtractor struct{}

func (plainTextExtractor) extract(doc briefModel.UploadedDocument) (string, error) {
	if !utf8.Valid(doc.Data) {
		return string(bytes.ToValidUTF8(doc.Data, []byte(" "))), nil
	}
	return string(doc.Data), nil
}

type pdfExtractor struct{}

func (pdfExtractor) extract(doc briefModel.UploadedDocument) (string, error) {
	reader, err := safeOpenPDF(doc.Data)
	if err != nil {
		return "", apperrors.ExtractionFailed("pdf", err)
	}

	var sb strings.Builder
	numPages := reader.NumPage()
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		content, err := protectPageExtract(page)
		if err != nil {
			// a single bad page doesn't fail the document
			continue
		}
		sb.WriteString(content)
		sb.WriteString("\n")
	}

	text := sb.String()
	if strings.TrimSpace(text) == "" {
		return "", apperrors.ExtractionFailed("pdf", errors.New("no extractable text"))
	}
	return text, nil
}

func safeOpenPDF(data []byte) (reader *pdf.Reader, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("pdf parser panic: %v", r)
		}
	}()
	return pdf.NewReader(bytes.NewReader(data), int64(len(data)))
}

// protectPageExtract guards against pages the parser hangs on.
func protectPageExtract(page pdf.Page) (string, error) {
	type result struct {
		content string
		err     error
	}
	resChan := make(chan result, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				resChan <- result{"", fmt.Errorf("page extract panic: %v", r)}
			}
		}()
		content, err := page.GetPlainText(nil)
		resChan <- result{content, err}
	}()
	select {
	case r := <-resChan:
		return r.content, r.err
	case <-time.After(10 * time.Second):
		return "", errors.New("page extraction timeout")
	}
}

// wordModernExtractor handles .docx, .odt and .rtf containers. cat works on
// file paths and dispatches on extension, so the bytes go through a temp
// file carrying the original extension.
type wordModernExtractor struct{}

func (wordModernExtractor) extract(doc briefModel.UploadedDocument) (string, error) {
	ext := strings.ToLower(filepath.Ext(doc.Filename))
	if ext == "" {
		ext = ".docx"
	}
	tempFile, err := os.CreateTemp("", "briefapi-*"+ext)
	if err != nil {
		return "", apperrors.ExtractionFailed("word", err)
	}
	tempPath := tempFile.Name()
	defer os.Remove(tempPath)

	if _, err := tempFile.Write(doc.Data); err != nil {
		tempFile.Close()
		return "", apperrors.ExtractionFailed("word", err)
	}
	if err := tempFile.Close(); err != nil {
		return "", apperrors.ExtractionFailed("word", err)
	}

	text, err := safeCatFile(tempPath)
	if err != nil {
		return "", apperrors.ExtractionFailed("word", err)
	}
	if strings.TrimSpace(text) == "" {
		return "", apperrors.ExtractionFailed("word", errors.New("no extractable text"))
	}
	return text, nil
}

func safeCatFile(path string) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("word parser panic: %v", r)
		}
	}()
	return cat.File(path)
}

// wordLegacyExtractor does a best-effort salvage of the old binary .doc
// container: printable runs long enough to be prose are kept, everything
// else is dropped. Good enough to feed the heuristic extractor.
type wordLegacyExtractor struct{}

func (wordLegacyExtractor) extract(doc briefModel.UploadedDocument) (string, error) {
	text := SalvageText(doc.Data)
	if strings.TrimSpace(text) == "" {
		return "", apperrors.ExtractionFailed("doc", errors.New("no salvageable text"))
	}
	return text, nil
}

// SalvageText pulls printable runs out of arbitrary bytes. It is the last
// resort used when a container parser fails outright.
func SalvageText(data []byte) string {
	const minRun = 4

	var sb strings.Builder
	var run []rune
	flush := func() {
		if len(run) >= minRun {
			sb.WriteString(string(run))
			sb.WriteString("\n")
		}
		run = run[:0]
	}

	for len(data) > 0 {
		r, size := utf8.DecodeRune(data)
		data = data[size:]
		if r == utf8.RuneError && size == 1 {
			flush()
			continue
		}
		if unicode.IsPrint(r) || r == '\t' {
			run = append(run, r)
			continue
		}
		flush()
	}
	flush()
	return sb.String()
}
