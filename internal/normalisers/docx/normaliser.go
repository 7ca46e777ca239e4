// Package docx extracts text from Word documents.
package docx

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/custodia-labs/lexbase/internal/core/domain"
	"github.com/custodia-labs/lexbase/internal/core/ports/driven"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// MIMEType is the content type of a DOCX file.
const MIMEType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

const documentPart = "word/document.xml"

// Normaliser handles DOCX documents.
// Legacy .doc uploads are routed here too and fail unless they are OOXML.
type Normaliser struct{}

// New creates a new DOCX normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// Kind returns the file kind this normaliser handles.
func (n *Normaliser) Kind() domain.FileKind {
	return domain.FileKindDOCX
}

// Normalise extracts the text of word/document.xml in reading order.
func (n *Normaliser) Normalise(_ context.Context, data []byte) (string, error) {
	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("%w: not a valid docx archive: %v", domain.ErrParseFailure, err)
	}

	content, err := readPart(reader, documentPart)
	if err != nil {
		return "", err
	}

	return parseDocumentXML(content)
}

// readPart reads a named file from the archive.
func readPart(reader *zip.Reader, name string) ([]byte, error) {
	for _, file := range reader.File {
		if file.Name != name {
			continue
		}

		rc, err := file.Open()
		if err != nil {
			return nil, fmt.Errorf("%w: opening %s: %v", domain.ErrParseFailure, name, err)
		}
		defer rc.Close()

		content, err := io.ReadAll(rc)
		if err != nil {
			return nil, fmt.Errorf("%w: reading %s: %v", domain.ErrParseFailure, name, err)
		}
		return content, nil
	}
	return nil, fmt.Errorf("%w: archive has no %s", domain.ErrParseFailure, name)
}

// parseDocumentXML walks the body in document order. Text nested in
// hyperlinks, tracked insertions, smart tags, content controls and table
// cells is kept where it appears; each paragraph ends a line.
func parseDocumentXML(content []byte) (string, error) {
	dec := xml.NewDecoder(bytes.NewReader(content))

	var (
		b       strings.Builder
		stack   []string
		inBody  bool
		inText  bool
		skipped int
	)

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("%w: malformed %s: %v", domain.ErrParseFailure, documentPart, err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			parent := ""
			if len(stack) > 0 {
				parent = stack[len(stack)-1]
			}
			stack = append(stack, t.Name.Local)

			switch {
			case skipped > 0 || t.Name.Local == "Fallback":
				// mc:Fallback repeats the text of mc:Choice.
				skipped++
			case t.Name.Local == "body":
				inBody = true
			case !inBody:
			case t.Name.Local == "t":
				inText = true
			case parent == "r" && t.Name.Local == "tab":
				b.WriteByte('\t')
			case parent == "r" && (t.Name.Local == "br" || t.Name.Local == "cr"):
				b.WriteByte('\n')
			}

		case xml.EndElement:
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
			if skipped > 0 {
				skipped--
				continue
			}
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				if inBody {
					b.WriteByte('\n')
				}
			case "body":
				inBody = false
			}

		case xml.CharData:
			if inBody && inText && skipped == 0 {
				b.Write(t)
			}
		}
	}

	return strings.TrimSpace(b.String()), nil
}
