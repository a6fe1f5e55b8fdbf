package contextdocs

import (
	"fmt"
	"strings"

	"team-insights-go/internal/types"
)

const (
	// MaxTextLength caps each document at ingestion; assembled blobs never
	// re-slice a document that was already truncated here.
	MaxTextLength = 15000

	// MaxBlobLength caps the assembled context blob; whole trailing
	// documents are dropped rather than cut mid-document.
	MaxBlobLength = 60000

	banner = "ORGANIZATIONAL CONTEXT DOCUMENTS (ground your analysis in these):"
)

// NewDocument builds a ContextDocument from extracted text, applying the
// per-document ingestion cap once.
func NewDocument(fileName, extractedText string) types.ContextDocument {
	size := len(extractedText)
	if len(extractedText) > MaxTextLength {
		extractedText = extractedText[:MaxTextLength]
	}
	return types.ContextDocument{
		FileName:      fileName,
		ExtractedText: extractedText,
		SizeBytes:     size,
	}
}

// Assemble concatenates documents into one bounded labeled blob. Empty input
// yields the empty string, which downstream reads as "no context mode".
func Assemble(documents []types.ContextDocument) string {
	if len(documents) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString(banner)
	for _, doc := range documents {
		block := fmt.Sprintf("\n\n=== %s ===\n%s", doc.FileName, doc.ExtractedText)
		if b.Len()+len(block) > MaxBlobLength {
			break
		}
		b.WriteString(block)
	}
	return b.String()
}
