package extract

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"time"
)

var ErrConverterUnavailable = errors.New("pdf converter unavailable")

// PdfToText converts PDFs with the poppler pdftotext binary.
type PdfToText struct {
	Path    string
	Timeout time.Duration
}

func NewPdfToText(path string) *PdfToText {
	if path == "" {
		path = "pdftotext"
	}
	return &PdfToText{Path: path, Timeout: 30 * time.Second}
}

func (p *PdfToText) Convert(ctx context.Context, r io.Reader) (string, error) {
	f, err := os.CreateTemp("", "upload-*.pdf")
	if err != nil {
		return "", err
	}
	defer func() { f.Close(); os.Remove(f.Name()) }()
	if _, err := io.Copy(f, r); err != nil {
		return "", err
	}
	if err := f.Sync(); err != nil {
		return "", err
	}
	return p.exec(ctx, f.Name())
}

func (p *PdfToText) exec(ctx context.Context, inPath string) (string, error) {
	bin, err := exec.LookPath(p.Path)
	if err != nil {
		return "", fmt.Errorf("%w: %s not found", ErrConverterUnavailable, p.Path)
	}
	if p.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.Timeout)
		defer cancel()
	}
	cmd := exec.CommandContext(ctx, bin, "-enc", "UTF-8", inPath, "-")
	var out, stderr bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("pdftotext: %v: %s", err, strings.TrimSpace(stderr.String()))
	}
	// pages are separated by form feeds
	text := strings.ReplaceAll(out.String(), "\f", "\n\n")
	return strings.TrimRight(text, "\n"), nil
}
