// Package domain holds the core entities of the campaign retrieval and
// scoring engine. Types here carry no infrastructure dependencies.
package domain

import (
	"strings"
	"time"
)

// FileKind classifies a campaign asset by its broad media format.
type FileKind string

const (
	// FileKindVideo covers motion assets (spots, reels, cutdowns).
	FileKindVideo FileKind = "video"

	// FileKindImage covers stills (key visuals, banners, photography).
	FileKindImage FileKind = "image"

	// FileKindPresentation covers decks (strategy, pitch, wrap-up).
	FileKindPresentation FileKind = "presentation"

	// FileKindDocument covers text documents (briefs, copy decks, PDFs).
	FileKindDocument FileKind = "document"

	// FileKindOther covers everything that does not fit the above.
	FileKindOther FileKind = "other"
)

// presentationMIMEs are MIME types classified as presentations.
var presentationMIMEs = map[string]bool{
	"application/vnd.ms-powerpoint":                                             true,
	"application/vnd.openxmlformats-officedocument.presentationml.presentation": true,
	"application/vnd.apple.keynote":                                             true,
}

// documentMIMEs are MIME types classified as text documents.
var documentMIMEs = map[string]bool{
	"application/pdf":    true,
	"application/msword": true,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
	"application/rtf": true,
}

// ClassifyFileKind maps a MIME type to a FileKind.
// Unknown types fall through to FileKindOther.
func ClassifyFileKind(mimeType string) FileKind {
	// Strip parameters such as "; charset=utf-8"
	if i := strings.Index(mimeType, ";"); i >= 0 {
		mimeType = mimeType[:i]
	}
	mimeType = strings.TrimSpace(strings.ToLower(mimeType))

	switch {
	case strings.HasPrefix(mimeType, "video/"):
		return FileKindVideo
	case strings.HasPrefix(mimeType, "image/"):
		return FileKindImage
	case presentationMIMEs[mimeType]:
		return FileKindPresentation
	case documentMIMEs[mimeType] || strings.HasPrefix(mimeType, "text/"):
		return FileKindDocument
	default:
		return FileKindOther
	}
}

// CampaignDocument is the canonical representation of an indexed campaign
// asset after classification and campaign-key derivation.
type CampaignDocument struct {
	// ID is the stable identifier, derived from the asset's source path so
	// reprocessing the same asset merges into the same row.
	ID string

	// Filename is the base name of the asset.
	Filename string

	// MIMEType is the detected content type.
	MIMEType string

	// Size is the asset size in bytes.
	Size int64

	// CreatedAt and ModifiedAt are the source timestamps.
	CreatedAt  time.Time
	ModifiedAt time.Time

	// Path is the location relative to the collection root.
	Path string

	// CampaignName is the derived campaign grouping key.
	CampaignName string

	// ClientName is the derived client, empty when the layout carries none.
	ClientName string

	// FileKind is the classified media format.
	FileKind FileKind

	// ProcessedAt is when the document was last analysed and persisted.
	ProcessedAt time.Time
}

// TextChunk is a bounded, overlapping window of a document's extracted text,
// the unit of semantic retrieval. Chunks are superseded wholesale on
// reprocessing, never patched.
type TextChunk struct {
	// ID is the unique chunk identifier.
	ID string

	// DocumentID links to the parent CampaignDocument.
	DocumentID string

	// Content is the window text.
	Content string

	// Index is the ordinal position within the document, strictly increasing
	// from 0 with no gaps.
	Index int

	// Embedding is the vector representation for similarity search.
	Embedding []float32

	// CreatedAt is when the chunk was produced.
	CreatedAt time.Time
}

// RawAsset is a document source's output before classification: file
// metadata plus best-effort extracted text. Sources that cannot extract text
// supply an empty string, never a missing value.
type RawAsset struct {
	// ID is the stable asset identifier supplied by the source.
	ID string

	// Filename is the base name.
	Filename string

	// MIMEType is the detected content type.
	MIMEType string

	// Size is the asset size in bytes.
	Size int64

	// CreatedAt and ModifiedAt are the source timestamps.
	CreatedAt  time.Time
	ModifiedAt time.Time

	// Path is the location relative to the collection root.
	Path string

	// Text is the best-effort extracted text, empty when unavailable.
	Text string
}
