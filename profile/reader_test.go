package profile

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

func stubPDF(t *testing.T, out []byte, err error) {
	t.Helper()
	orig := pdfToText
	pdfToText = func(context.Context, string) ([]byte, error) { return out, err }
	t.Cleanup(func() { pdfToText = orig })
}

func TestReadResume(t *testing.T) {
	ctx := context.Background()

	t.Run("plain text", func(t *testing.T) {
		path := writeFile(t, "cv.txt", []byte("  Budi Santoso\nData Analyst\n"))
		text, err := ReadResume(ctx, path)
		require.NoError(t, err)
		assert.Equal(t, "Budi Santoso\nData Analyst", text)
	})

	t.Run("markdown", func(t *testing.T) {
		path := writeFile(t, "cv.MD", []byte("# Siti\nBackend engineer"))
		text, err := ReadResume(ctx, path)
		require.NoError(t, err)
		assert.Contains(t, text, "Backend engineer")
	})

	t.Run("empty text", func(t *testing.T) {
		path := writeFile(t, "cv.txt", []byte(" \n "))
		_, err := ReadResume(ctx, path)
		assert.ErrorIs(t, err, ErrEmptyResume)
	})

	t.Run("binary disguised as text", func(t *testing.T) {
		path := writeFile(t, "cv.txt", []byte("%PDF-1.7 binary"))
		_, err := ReadResume(ctx, path)
		assert.ErrorIs(t, err, ErrUnsupportedFormat)
	})

	t.Run("pdf through converter", func(t *testing.T) {
		stubPDF(t, []byte(strings.Repeat("Experienced data analyst. ", 5)), nil)
		text, err := ReadResume(ctx, writeFile(t, "cv.pdf", []byte("%PDF-1.7")))
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(text, "Experienced data analyst."))
	})

	t.Run("pdf with too little text", func(t *testing.T) {
		stubPDF(t, []byte("scan"), nil)
		_, err := ReadResume(ctx, writeFile(t, "cv.pdf", []byte("%PDF-1.7")))
		assert.ErrorIs(t, err, ErrEmptyResume)
	})

	t.Run("converter missing", func(t *testing.T) {
		stubPDF(t, nil, errors.New("executable file not found"))
		_, err := ReadResume(ctx, writeFile(t, "cv.pdf", []byte("%PDF-1.7")))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "pdftotext")
	})

	t.Run("unsupported extension", func(t *testing.T) {
		_, err := ReadResume(ctx, writeFile(t, "cv.docx", []byte("PK")))
		assert.ErrorIs(t, err, ErrUnsupportedFormat)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := ReadResume(ctx, filepath.Join(t.TempDir(), "nope.txt"))
		assert.ErrorIs(t, err, os.ErrNotExist)
	})
}

func TestIsBinary(t *testing.T) {
	assert.False(t, IsBinary(nil))
	assert.False(t, IsBinary([]byte("hello\nworld\t!")))
	assert.True(t, IsBinary([]byte("%PDF-1.4")))
	assert.True(t, IsBinary([]byte("PK\x03\x04")))
	assert.True(t, IsBinary([]byte{0, 1, 2, 3, 'a'}))
}
