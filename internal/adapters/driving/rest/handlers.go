package rest

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/custodia-labs/lexbase/internal/core/domain"
)

// multipartOverhead is allowed on top of the file ceiling for form fields and boundaries.
const multipartOverhead = 1 << 20

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// handleImport accepts multipart fields file, title, legal_area,
// document_type, court, year and visibility.
func (s *Server) handleImport(c *gin.Context) {
	principal := principalFrom(c)
	if err := s.ingestion.Authorize(principal); err != nil {
		writeError(c, err)
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, int64(s.maxUploadSize+multipartOverhead))

	fileHeader, err := c.FormFile("file")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeError(c, fmt.Errorf("%w: request exceeds %d bytes", domain.ErrFileTooLarge, s.maxUploadSize))
			return
		}
		writeError(c, fmt.Errorf("%w: a file field is required", domain.ErrValidation))
		return
	}
	if fileHeader.Size > int64(s.maxUploadSize) {
		writeError(c, fmt.Errorf("%w: file is %d bytes, the limit is %d",
			domain.ErrFileTooLarge, fileHeader.Size, s.maxUploadSize))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		writeError(c, fmt.Errorf("%w: cannot open uploaded file", domain.ErrValidation))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, int64(s.maxUploadSize)+1))
	if err != nil {
		writeError(c, fmt.Errorf("%w: cannot read uploaded file", domain.ErrValidation))
		return
	}

	req := domain.IngestRequest{
		Filename:     fileHeader.Filename,
		Data:         data,
		Title:        c.PostForm("title"),
		LegalArea:    c.PostForm("legal_area"),
		DocumentType: c.PostForm("document_type"),
		Court:        c.PostForm("court"),
		Visibility:   c.PostForm("visibility"),
	}
	if raw := strings.TrimSpace(c.PostForm("year")); raw != "" {
		year, err := strconv.Atoi(raw)
		if err != nil {
			writeError(c, fmt.Errorf("%w: year must be an integer", domain.ErrValidation))
			return
		}
		req.Year = &year
	}

	result, err := s.ingestion.Ingest(c.Request.Context(), principal, req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

func (s *Server) handleRetryEmbedding(c *gin.Context) {
	result, err := s.ingestion.RetryEmbedding(c.Request.Context(), principalFrom(c), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (s *Server) handleListDocuments(c *gin.Context) {
	docs, err := s.documents.List(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}

	out := make([]documentSummary, len(docs))
	for i := range docs {
		out[i] = summarise(&docs[i])
	}
	c.JSON(http.StatusOK, gin.H{"documents": out, "total": len(out)})
}

func (s *Server) handleGetDocument(c *gin.Context) {
	details, err := s.documents.GetDetails(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, details)
}

// documentSummary is the list view of a document.
type documentSummary struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	LegalArea    string `json:"legal_area"`
	DocumentType string `json:"document_type"`
	Visibility   string `json:"visibility"`
	TextLength   int    `json:"text_length"`
	CreatedAt    string `json:"created_at"`
}

func summarise(d *domain.Document) documentSummary {
	return documentSummary{
		ID:           d.ID,
		Title:        d.Title,
		LegalArea:    d.LegalArea.String(),
		DocumentType: d.Type.String(),
		Visibility:   d.Visibility.String(),
		TextLength:   d.TextLength,
		CreatedAt:    d.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"),
	}
}
