package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestDocument_Fields tests Document structure fields
func TestDocument_Fields(t *testing.T) {
	now := time.Now()
	year := 2021

	doc := Document{
		ID:          "doc-123",
		Title:       "Yargıtay 3. HD Kararı",
		LegalArea:   LegalAreaCivil,
		Type:        DocumentTypeCaseLaw,
		Court:       "Yargıtay",
		Year:        &year,
		StoragePath: "documents/abc.pdf",
		Kind:        FileKindPDF,
		Visibility:  VisibilityPublic,
		TextLength:  4200,
		CreatedAt:   now,
	}

	assert.Equal(t, "doc-123", doc.ID)
	assert.Equal(t, LegalAreaCivil, doc.LegalArea)
	assert.Equal(t, DocumentTypeCaseLaw, doc.Type)
	require.NotNil(t, doc.Year)
	assert.Equal(t, 2021, *doc.Year)
	assert.Equal(t, "documents/abc.pdf", doc.StoragePath)
	assert.Equal(t, now, doc.CreatedAt)
}

func TestParseLegalArea(t *testing.T) {
	tests := []struct {
		input string
		want  LegalArea
		ok    bool
	}{
		{"criminal", LegalAreaCriminal, true},
		{"  Commercial ", LegalAreaCommercial, true},
		{"enforcement-bankruptcy", LegalAreaEnforcementBankruptcy, true},
		{"genel", LegalAreaGeneral, true},
		{"ceza", LegalAreaCriminal, true},
		{"icra-iflas", LegalAreaEnforcementBankruptcy, true},
		{"tax", LegalArea("tax"), false},
		{"", LegalArea(""), false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := ParseLegalArea(tt.input)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestAllLegalAreas_AreValid(t *testing.T) {
	areas := AllLegalAreas()
	assert.Len(t, areas, 7)
	for _, a := range areas {
		assert.True(t, a.IsValid(), a.String())
	}
}

func TestParseDocumentType(t *testing.T) {
	tests := []struct {
		input string
		want  DocumentType
		ok    bool
	}{
		{"statute", DocumentTypeStatute, true},
		{"case-law", DocumentTypeCaseLaw, true},
		{"ARTICLE", DocumentTypeArticle, true},
		{"genel", DocumentTypeGeneral, true},
		{"kanun", DocumentTypeStatute, true},
		{"memo", DocumentType("memo"), false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := ParseDocumentType(tt.input)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestFileKindFromFilename(t *testing.T) {
	tests := []struct {
		filename string
		want     FileKind
		wantErr  bool
	}{
		{"karar.pdf", FileKindPDF, false},
		{"KARAR.PDF", FileKindPDF, false},
		{"dilekce.docx", FileKindDOCX, false},
		{"eski.doc", FileKindDOCX, false},
		{"notes.txt", FileKindText, false},
		{"sheet.xlsx", "", true},
		{"noextension", "", true},
		{"archive.tar.gz", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			got, err := FileKindFromFilename(tt.filename)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnsupportedFormat)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFileKind_ContentTypeAndExtension(t *testing.T) {
	assert.Equal(t, "application/pdf", FileKindPDF.ContentType())
	assert.Contains(t, FileKindText.ContentType(), "text/plain")
	assert.Equal(t, "application/octet-stream", FileKind("x").ContentType())

	assert.Equal(t, "pdf", FileKindPDF.Extension())
	assert.Equal(t, "docx", FileKindDOCX.Extension())
	assert.Equal(t, "txt", FileKindText.Extension())
}

func TestParseVisibility(t *testing.T) {
	v, ok := ParseVisibility("")
	assert.True(t, ok)
	assert.Equal(t, VisibilityPublic, v)

	v, ok = ParseVisibility("Private")
	assert.True(t, ok)
	assert.Equal(t, VisibilityPrivate, v)

	_, ok = ParseVisibility("secret")
	assert.False(t, ok)
}
