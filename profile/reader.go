package profile

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

const (
	// MinExtractedTextLength is the minimum text length required for a successful PDF extraction
	MinExtractedTextLength = 50
	// binarySampleSize is the number of bytes sampled for binary detection
	binarySampleSize = 1000
	// binaryThreshold is the proportion of control characters that indicates binary data
	binaryThreshold = 0.3
)

var (
	// ErrUnsupportedFormat is returned for résumé files other than text, markdown or PDF.
	ErrUnsupportedFormat = errors.New("unsupported resume format")

	// ErrEmptyResume is returned when no text could be read from a résumé.
	ErrEmptyResume = errors.New("resume has no text")
)

// pdfToText is the external converter, replaceable in tests.
var pdfToText = func(ctx context.Context, path string) ([]byte, error) {
	return exec.CommandContext(ctx, "pdftotext", "-layout", path, "-").Output()
}

// ReadResume returns the plain text of a résumé file. Text and markdown files
// are read directly and PDFs are converted with pdftotext from poppler-utils.
func ReadResume(ctx context.Context, path string) (string, error) {
	var text string
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".txt", ".md", ".markdown":
		data, err := os.ReadFile(path)
		if err != nil {
			return "", err
		}
		if IsBinary(data) {
			return "", fmt.Errorf("%w: %s looks binary", ErrUnsupportedFormat, path)
		}
		text = string(data)
	case ".pdf":
		out, err := pdfToText(ctx, path)
		if err != nil {
			return "", fmt.Errorf("PDF extraction requires 'pdftotext' (install poppler-utils): %w", err)
		}
		text = string(out)
		if len(strings.TrimSpace(text)) < MinExtractedTextLength {
			return "", fmt.Errorf("%w: extracted text from %s is too short", ErrEmptyResume, path)
		}
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return "", ErrEmptyResume
	}
	return text, nil
}

// IsBinary reports whether data looks like a binary document rather than text.
func IsBinary(data []byte) bool {
	if len(data) == 0 {
		return false
	}
	if strings.HasPrefix(string(data[:min(len(data), 5)]), "%PDF-") {
		return true
	}
	if len(data) >= 2 && string(data[:2]) == "PK" {
		return true
	}

	sample := data[:min(binarySampleSize, len(data))]
	control := 0
	for _, ch := range sample {
		if ch < 32 && ch != '\n' && ch != '\r' && ch != '\t' {
			control++
		}
	}
	return float64(control)/float64(len(sample)) > binaryThreshold
}
