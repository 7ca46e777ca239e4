package normalisers

import (
	"archive/zip"
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/lexbase/internal/core/domain"
)

type stubNormaliser struct {
	kind domain.FileKind
	text string
}

func (s stubNormaliser) Kind() domain.FileKind { return s.kind }

func (s stubNormaliser) Normalise(context.Context, []byte) (string, error) { return s.text, nil }

func TestDefaultRegistry_Kinds(t *testing.T) {
	assert.ElementsMatch(t,
		[]domain.FileKind{domain.FileKindPDF, domain.FileKindDOCX, domain.FileKindText},
		DefaultRegistry().Kinds())
}

func TestExtract_UnsupportedExtension(t *testing.T) {
	for _, name := range []string{"sheet.xlsx", "image.png", "README"} {
		_, err := Extract(context.Background(), []byte("anything"), name)
		assert.ErrorIs(t, err, domain.ErrUnsupportedFormat, name)
	}
}

func TestExtract_TextPassthrough(t *testing.T) {
	text, err := Extract(context.Background(), []byte("Madde 1\r\nMadde 2\x00"), "kanun.txt")
	require.NoError(t, err)
	assert.Equal(t, "Madde 1\nMadde 2", text)
}

func TestExtract_Docx(t *testing.T) {
	buf := new(bytes.Buffer)
	w := zip.NewWriter(buf)
	f, _ := w.Create("word/document.xml")
	f.Write([]byte(`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body><w:p><w:r><w:t>Dilekçe</w:t></w:r></w:p></w:body></w:document>`))
	require.NoError(t, w.Close())

	text, err := Extract(context.Background(), buf.Bytes(), "dilekce.docx")
	require.NoError(t, err)
	assert.Equal(t, "Dilekçe", text)
}

func TestExtract_CorruptFiles(t *testing.T) {
	for _, name := range []string{"bad.pdf", "bad.docx", "legacy.doc"} {
		_, err := Extract(context.Background(), []byte("garbage bytes"), name)
		assert.ErrorIs(t, err, domain.ErrParseFailure, name)
	}
}

func TestRegistry_MissingKind(t *testing.T) {
	r := NewRegistry()
	_, err := r.Extract(context.Background(), []byte("x"), "a.txt")
	assert.ErrorIs(t, err, domain.ErrUnsupportedFormat)
}

func TestRegistry_RegisterReplaces(t *testing.T) {
	r := NewRegistry()
	r.Register(stubNormaliser{kind: domain.FileKindText, text: "one"})
	r.Register(stubNormaliser{kind: domain.FileKindText, text: "two"})

	text, err := r.Extract(context.Background(), nil, "a.txt")
	require.NoError(t, err)
	assert.Equal(t, "two", text)
}

func TestIsValidFileType(t *testing.T) {
	assert.True(t, IsValidFileType("a.pdf"))
	assert.True(t, IsValidFileType("a.DOCX"))
	assert.True(t, IsValidFileType("a.doc"))
	assert.True(t, IsValidFileType("a.txt"))
	assert.False(t, IsValidFileType("a.rtf"))
	assert.False(t, IsValidFileType(""))
}

func TestClean(t *testing.T) {
	assert.Equal(t, "a\nb\nc", Clean("a\r\nb\x00\nc"))
}
