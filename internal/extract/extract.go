// Package extract turns uploaded thesis files into plain text.
package extract

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

var (
	ErrUnsupportedFormat = errors.New("unsupported file format: use PDF, DOCX or TXT")
	ErrTooLarge          = errors.New("file too large")
)

type Format string

const (
	FormatPDF     Format = "pdf"
	FormatDOCX    Format = "docx"
	FormatTXT     Format = "txt"
	FormatUnknown Format = "unknown"
)

const (
	mimeTXT  = "text/plain"
	mimePDF  = "application/pdf"
	mimeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

// FormatOf picks the format from the content type, falling back to the file
// extension.
func FormatOf(filename, contentType string) Format {
	name := strings.ToLower(filename)
	ct := strings.ToLower(strings.TrimSpace(strings.SplitN(contentType, ";", 2)[0]))
	switch {
	case ct == mimeTXT || strings.HasSuffix(name, ".txt"):
		return FormatTXT
	case ct == mimeDOCX || strings.HasSuffix(name, ".docx"):
		return FormatDOCX
	case ct == mimePDF || strings.HasSuffix(name, ".pdf"):
		return FormatPDF
	}
	return FormatUnknown
}

func Supported(filename, contentType string) bool {
	return FormatOf(filename, contentType) != FormatUnknown
}

// PDFConverter renders a PDF document to text.
type PDFConverter interface {
	Convert(ctx context.Context, r io.Reader) (string, error)
}

type Extractor struct {
	pdf      PDFConverter
	maxBytes int64
}

// New returns an extractor. A nil converter disables PDF support; maxBytes <= 0
// means no size limit.
func New(pdf PDFConverter, maxBytes int64) *Extractor {
	return &Extractor{pdf: pdf, maxBytes: maxBytes}
}

func (e *Extractor) Extract(ctx context.Context, filename, contentType string, r io.Reader) (string, error) {
	format := FormatOf(filename, contentType)
	if format == FormatUnknown {
		return "", ErrUnsupportedFormat
	}
	data, err := e.read(r)
	if err != nil {
		return "", err
	}
	switch format {
	case FormatTXT:
		return strings.ToValidUTF8(string(data), "�"), nil
	case FormatDOCX:
		text, err := docxText(data, e.maxBytes*docxExpansion)
		if err != nil {
			return "", fmt.Errorf("docx %s: %w", filename, err)
		}
		return text, nil
	default:
		if e.pdf == nil {
			return "", fmt.Errorf("pdf %s: %w", filename, ErrConverterUnavailable)
		}
		text, err := e.pdf.Convert(ctx, bytes.NewReader(data))
		if err != nil {
			return "", fmt.Errorf("pdf %s: %w", filename, err)
		}
		return text, nil
	}
}

func (e *Extractor) read(r io.Reader) ([]byte, error) {
	if e.maxBytes <= 0 {
		return io.ReadAll(r)
	}
	data, err := io.ReadAll(io.LimitReader(r, e.maxBytes+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > e.maxBytes {
		return nil, ErrTooLarge
	}
	return data, nil
}
