// Package textextract converts raw document bytes into plain text.
package textextract

import (
	"context"
	"strings"
)

// Extractor converts a document into plain text given its declared MIME
// type. Implementations return an empty string, not an error, for types
// they do not support.
type Extractor interface {
	ExtractText(ctx context.Context, data []byte, mimeType string) (string, error)
}

// MIME types the local extractor understands.
const (
	MimePDF  = "application/pdf"
	MimeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	MimeDOC  = "application/msword"
	MimeTXT  = "text/plain"
)

// LocalExtractor extracts text in-process: PDF, DOCX, legacy DOC and plain
// text. Anything else yields an empty string.
type LocalExtractor struct{}

func NewLocalExtractor() *LocalExtractor {
	return &LocalExtractor{}
}

func (e *LocalExtractor) ExtractText(ctx context.Context, data []byte, mimeType string) (string, error) {
	if len(data) == 0 {
		return "", nil
	}

	switch normalizeMime(mimeType) {
	case MimePDF:
		return extractPDF(data)
	case MimeDOCX:
		return extractDOCX(data)
	case MimeDOC:
		return extractDOC(data), nil
	case MimeTXT:
		return string(data), nil
	default:
		return "", nil
	}
}

func normalizeMime(mimeType string) string {
	mimeType = strings.ToLower(strings.TrimSpace(mimeType))
	if i := strings.Index(mimeType, ";"); i >= 0 {
		mimeType = strings.TrimSpace(mimeType[:i])
	}
	if strings.HasPrefix(mimeType, "text/") {
		return MimeTXT
	}
	return mimeType
}

// MimeTypeForFilename maps a filename extension to the MIME type declared
// for it, falling back to an empty string for unknown extensions.
func MimeTypeForFilename(name string) string {
	name = strings.ToLower(name)
	switch {
	case strings.HasSuffix(name, ".pdf"):
		return MimePDF
	case strings.HasSuffix(name, ".docx"):
		return MimeDOCX
	case strings.HasSuffix(name, ".doc"):
		return MimeDOC
	case strings.HasSuffix(name, ".txt"):
		return MimeTXT
	default:
		return ""
	}
}
