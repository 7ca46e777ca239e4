package domain

import (
	"path/filepath"
	"strings"
	"time"
)

// Document represents one ingested source file.
// It is created once by the ingestion pipeline and never updated.
type Document struct {
	// ID is the unique identifier for the document.
	ID string

	// Title is the human-readable title supplied at upload.
	Title string

	// LegalArea is the domain category of the document.
	LegalArea LegalArea

	// Type is the document-type tag (statute, case-law, ...).
	Type DocumentType

	// Court is the issuing court, if any.
	Court string

	// Year is the year of the decision or enactment, if known.
	Year *int

	// StoragePath references the original file in the blob store.
	StoragePath string

	// Kind is the file format resolved at validation time.
	Kind FileKind

	// Visibility tags the document as public knowledge base or tenant-private.
	Visibility Visibility

	// Content is the extracted plain text.
	// It is kept so embedding can be retried without re-extraction.
	Content string

	// TextLength is the extracted text length in characters.
	TextLength int

	// CreatedAt is when the document row was recorded.
	CreatedAt time.Time
}

// Chunk represents a bounded, overlapping fragment of a document's text
// paired with its embedding vector.
type Chunk struct {
	// ID is the unique identifier for the chunk.
	ID string

	// DocumentID links to the owning Document.
	DocumentID string

	// Position is the ordinal position within the document.
	Position int

	// Content is the text content of this chunk.
	Content string

	// Embedding is the vector representation for semantic search.
	Embedding []float32

	// CreatedAt is when the chunk was inserted.
	CreatedAt time.Time
}

// LegalArea is the enumerated domain category of a document.
type LegalArea string

// Supported legal areas.
const (
	LegalAreaCriminal              LegalArea = "criminal"
	LegalAreaObligations           LegalArea = "obligations"
	LegalAreaEnforcementBankruptcy LegalArea = "enforcement-bankruptcy"
	LegalAreaCivil                 LegalArea = "civil"
	LegalAreaCommercial            LegalArea = "commercial"
	LegalAreaConstitutional        LegalArea = "constitutional"
	LegalAreaGeneral               LegalArea = "general"
)

// legalAreaAliases maps the tags used by the back office forms onto canonical values.
var legalAreaAliases = map[string]LegalArea{
	"ceza":       LegalAreaCriminal,
	"borclar":    LegalAreaObligations,
	"borçlar":    LegalAreaObligations,
	"icra-iflas": LegalAreaEnforcementBankruptcy,
	"icra_iflas": LegalAreaEnforcementBankruptcy,
	"medeni":     LegalAreaCivil,
	"ticaret":    LegalAreaCommercial,
	"anayasa":    LegalAreaConstitutional,
	"genel":      LegalAreaGeneral,
}

// AllLegalAreas returns every canonical legal area.
func AllLegalAreas() []LegalArea {
	return []LegalArea{
		LegalAreaCriminal,
		LegalAreaObligations,
		LegalAreaEnforcementBankruptcy,
		LegalAreaCivil,
		LegalAreaCommercial,
		LegalAreaConstitutional,
		LegalAreaGeneral,
	}
}

// ParseLegalArea resolves a tag or alias to a canonical LegalArea.
func ParseLegalArea(s string) (LegalArea, bool) {
	key := strings.ToLower(strings.TrimSpace(s))
	if alias, ok := legalAreaAliases[key]; ok {
		return alias, true
	}
	area := LegalArea(key)
	return area, area.IsValid()
}

// IsValid returns true if the legal area is recognised.
func (a LegalArea) IsValid() bool {
	switch a {
	case LegalAreaCriminal, LegalAreaObligations, LegalAreaEnforcementBankruptcy,
		LegalAreaCivil, LegalAreaCommercial, LegalAreaConstitutional, LegalAreaGeneral:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (a LegalArea) String() string {
	return string(a)
}

// DocumentType is the document-type tag.
type DocumentType string

// Supported document types.
const (
	DocumentTypeStatute DocumentType = "statute"
	DocumentTypeCaseLaw DocumentType = "case-law"
	DocumentTypeArticle DocumentType = "article"
	DocumentTypeGeneral DocumentType = "general"
)

var documentTypeAliases = map[string]DocumentType{
	"kanun":   DocumentTypeStatute,
	"ictihat": DocumentTypeCaseLaw,
	"içtihat": DocumentTypeCaseLaw,
	"makale":  DocumentTypeArticle,
	"genel":   DocumentTypeGeneral,
}

// ParseDocumentType resolves a tag or alias to a canonical DocumentType.
func ParseDocumentType(s string) (DocumentType, bool) {
	key := strings.ToLower(strings.TrimSpace(s))
	if alias, ok := documentTypeAliases[key]; ok {
		return alias, true
	}
	t := DocumentType(key)
	return t, t.IsValid()
}

// IsValid returns true if the document type is recognised.
func (t DocumentType) IsValid() bool {
	switch t {
	case DocumentTypeStatute, DocumentTypeCaseLaw, DocumentTypeArticle, DocumentTypeGeneral:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (t DocumentType) String() string {
	return string(t)
}

// FileKind is the closed set of file formats the extractor understands.
type FileKind string

// Supported file kinds.
const (
	FileKindPDF  FileKind = "pdf"
	FileKindDOCX FileKind = "docx"
	FileKindText FileKind = "text"
)

// FileKindFromFilename resolves the file kind from the filename extension.
// Legacy .doc uploads are routed to the DOCX parser.
func FileKindFromFilename(filename string) (FileKind, error) {
	switch strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), ".")) {
	case "pdf":
		return FileKindPDF, nil
	case "docx", "doc":
		return FileKindDOCX, nil
	case "txt":
		return FileKindText, nil
	default:
		return "", ErrUnsupportedFormat
	}
}

// ContentType returns the MIME type used when storing the raw file.
func (k FileKind) ContentType() string {
	switch k {
	case FileKindPDF:
		return "application/pdf"
	case FileKindDOCX:
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	case FileKindText:
		return "text/plain; charset=utf-8"
	default:
		return "application/octet-stream"
	}
}

// Extension returns the canonical file extension without the dot.
func (k FileKind) Extension() string {
	if k == FileKindText {
		return "txt"
	}
	return string(k)
}

// String returns the string representation.
func (k FileKind) String() string {
	return string(k)
}

// Visibility indicates whether a document belongs to the public knowledge
// base or to a tenant-private one.
type Visibility string

// Visibility values.
const (
	VisibilityPublic  Visibility = "public"
	VisibilityPrivate Visibility = "private"
)

// ParseVisibility resolves a visibility tag. An empty tag means public.
func ParseVisibility(s string) (Visibility, bool) {
	switch Visibility(strings.ToLower(strings.TrimSpace(s))) {
	case "", VisibilityPublic:
		return VisibilityPublic, true
	case VisibilityPrivate:
		return VisibilityPrivate, true
	default:
		return "", false
	}
}

// String returns the string representation.
func (v Visibility) String() string {
	return string(v)
}
