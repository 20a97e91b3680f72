// Package extract converts uploaded file bytes into plain text. The rest of
// the pipeline treats extraction as a single capability and never touches
// format-specific parsing itself.
package extract

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"code.sajari.com/docconv"
)

// mimeTypes maps the supported upload extensions to the MIME type passed
// to the converter. This doubles as the upload allow-list.
var mimeTypes = map[string]string{
	".pdf":  "application/pdf",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	".txt":  "text/plain",
}

// Supported reports whether the filename's extension is accepted for upload.
func Supported(filename string) bool {
	_, ok := mimeTypes[strings.ToLower(filepath.Ext(filename))]
	return ok
}

// ContentType returns the MIME type for a supported filename, or
// application/octet-stream for anything else.
func ContentType(filename string) string {
	if mt, ok := mimeTypes[strings.ToLower(filepath.Ext(filename))]; ok {
		return mt
	}
	return "application/octet-stream"
}

// Extractor converts raw file bytes of a declared format into plain text.
type Extractor interface {
	Extract(ctx context.Context, data []byte, filename string) (string, error)
}

// DocconvExtractor extracts text with sajari/docconv for binary formats and
// reads plain-text files directly.
type DocconvExtractor struct{}

// NewDocconvExtractor returns a ready-to-use extractor.
func NewDocconvExtractor() *DocconvExtractor {
	return &DocconvExtractor{}
}

// Extract returns the plain text of the file. The extension decides the
// parsing strategy; unsupported extensions are rejected at upload time, so
// hitting one here means a caller bug.
func (e *DocconvExtractor) Extract(ctx context.Context, data []byte, filename string) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	mimeType, ok := mimeTypes[ext]
	if !ok {
		return "", fmt.Errorf("extract: unsupported extension %q", ext)
	}

	if ext == ".txt" {
		return string(data), nil
	}

	res, err := docconv.Convert(bytes.NewReader(data), mimeType, false)
	if err != nil {
		return "", fmt.Errorf("extract %s: %w", ext, err)
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return res.Body, nil
}

var _ Extractor = (*DocconvExtractor)(nil)
