package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/lexbase/internal/adapters/driven/auth"
	blobmemory "github.com/custodia-labs/lexbase/internal/adapters/driven/blob/memory"
	embedmock "github.com/custodia-labs/lexbase/internal/adapters/driven/embedding/mock"
	"github.com/custodia-labs/lexbase/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/lexbase/internal/core/domain"
	"github.com/custodia-labs/lexbase/internal/core/ports/driven"
	"github.com/custodia-labs/lexbase/internal/core/services"
	"github.com/custodia-labs/lexbase/internal/normalisers"
	"github.com/custodia-labs/lexbase/internal/postprocessors/chunker"
)

const testSecret = "test-secret"

type unavailableEmbedder struct{}

func (unavailableEmbedder) Embed(context.Context, string, string, domain.Visibility) (*domain.EmbeddingResult, error) {
	return nil, fmt.Errorf("%w: connection refused", domain.ErrServiceUnavailable)
}
func (unavailableEmbedder) ModelName() string          { return "down" }
func (unavailableEmbedder) Ping(context.Context) error { return domain.ErrServiceUnavailable }
func (unavailableEmbedder) Close() error               { return nil }

type testEnv struct {
	handler  http.Handler
	tokens   *auth.TokenService
	docStore *memory.DocumentStore
	blobs    *blobmemory.Store
}

func newTestEnv(t *testing.T, embedder driven.EmbeddingClient, opts ...Option) *testEnv {
	t.Helper()

	tokens, err := auth.NewTokenService(testSecret)
	require.NoError(t, err)

	docStore := memory.NewDocumentStore()
	blobs := blobmemory.NewStore()
	ingestion := services.NewIngestionService(
		auth.NewAdminEmailAuthorizer("admin@firm.com"),
		blobs,
		normalisers.DefaultRegistry(),
		docStore,
		embedder,
	)

	srv, err := NewServer(&Ports{
		Ingestion: ingestion,
		Documents: services.NewDocumentService(docStore, chunker.DefaultChunkOverlap),
		Tokens:    tokens,
	}, opts...)
	require.NoError(t, err)

	return &testEnv{handler: srv.Handler(), tokens: tokens, docStore: docStore, blobs: blobs}
}

func (e *testEnv) token(t *testing.T, email string) string {
	t.Helper()
	tok, err := e.tokens.Issue(domain.Principal{Subject: "u", Email: email})
	require.NoError(t, err)
	return tok
}

func multipartBody(t *testing.T, filename string, content []byte, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	if filename != "" {
		part, err := w.CreateFormFile("file", filename)
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	}
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	require.NoError(t, w.Close())
	return body, w.FormDataContentType()
}

func (e *testEnv) importFile(t *testing.T, token, filename string, content []byte, fields map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	body, contentType := multipartBody(t, filename, content, fields)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/rag/import", body)
	req.Header.Set("Content-Type", contentType)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

func validFields() map[string]string {
	return map[string]string{
		"title":         "Test Kararı",
		"legal_area":    "general",
		"document_type": "genel",
	}
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) ErrorDetail {
	t.Helper()
	var body ErrorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	return body.Error
}

func TestNewServer_RequiresPorts(t *testing.T) {
	_, err := NewServer(nil)
	assert.Error(t, err)
	_, err = NewServer(&Ports{})
	assert.Error(t, err)
}

func TestHealthz(t *testing.T) {
	env := newTestEnv(t, embedmock.New(4))
	rec := httptest.NewRecorder()
	env.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestImport_Success(t *testing.T) {
	env := newTestEnv(t, embedmock.New(4))
	text := strings.Repeat("a", 3000)

	fields := validFields()
	fields["court"] = "Yargıtay"
	fields["year"] = "2021"
	rec := env.importFile(t, env.token(t, "admin@firm.com"), "karar.txt", []byte(text), fields)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var res domain.IngestResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, "Test Kararı", res.Title)
	assert.Equal(t, 2, res.ChunksInserted)
	assert.Equal(t, 3000, res.TextLength)
	assert.NotEmpty(t, res.DocumentID)
	assert.NotEmpty(t, res.EmbeddingModel)

	doc, err := env.docStore.GetDocument(context.Background(), res.DocumentID)
	require.NoError(t, err)
	assert.Equal(t, "Yargıtay", doc.Court)
	require.NotNil(t, doc.Year)
	assert.Equal(t, 2021, *doc.Year)
}

func TestImport_UnsupportedFormat(t *testing.T) {
	env := newTestEnv(t, embedmock.New(4))

	rec := env.importFile(t, env.token(t, "admin@firm.com"), "tablo.xlsx", []byte("data"), validFields())
	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)

	detail := decodeError(t, rec)
	assert.Equal(t, domain.CodeValidation, detail.Code)
	assert.Equal(t, domain.StageValidated, detail.Stage)
	assert.Empty(t, env.blobs.Paths())
}

func TestImport_EmbeddingUnavailable(t *testing.T) {
	env := newTestEnv(t, unavailableEmbedder{})

	rec := env.importFile(t, env.token(t, "admin@firm.com"), "kisa.txt", []byte(strings.Repeat("b", 60)), validFields())
	assert.Equal(t, http.StatusBadGateway, rec.Code)

	detail := decodeError(t, rec)
	assert.Equal(t, domain.CodeEmbedding, detail.Code)
	assert.True(t, detail.Partial)
	require.NotEmpty(t, detail.DocumentID)

	_, err := env.docStore.GetDocument(context.Background(), detail.DocumentID)
	assert.NoError(t, err)
}

func TestImport_ExtractionFailureReportsCompensation(t *testing.T) {
	env := newTestEnv(t, embedmock.New(4))

	rec := env.importFile(t, env.token(t, "admin@firm.com"), "kisa.txt", []byte("too short"), validFields())
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	detail := decodeError(t, rec)
	assert.Equal(t, domain.CodeExtraction, detail.Code)
	require.Len(t, detail.Compensations, 1)
	assert.True(t, strings.HasPrefix(detail.Compensations[0], "deleted_blob:documents/"))
	assert.Empty(t, env.blobs.Paths())
}

func TestImport_Validation(t *testing.T) {
	env := newTestEnv(t, embedmock.New(4))
	token := env.token(t, "admin@firm.com")

	t.Run("missing file", func(t *testing.T) {
		rec := env.importFile(t, token, "", nil, validFields())
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("missing title", func(t *testing.T) {
		fields := validFields()
		delete(fields, "title")
		rec := env.importFile(t, token, "a.txt", []byte(strings.Repeat("x", 100)), fields)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, domain.CodeValidation, decodeError(t, rec).Code)
	})

	t.Run("bad year", func(t *testing.T) {
		fields := validFields()
		fields["year"] = "two thousand"
		rec := env.importFile(t, token, "a.txt", []byte(strings.Repeat("x", 100)), fields)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestImport_FileTooLarge(t *testing.T) {
	env := newTestEnv(t, embedmock.New(4), WithMaxUploadSize(100))

	rec := env.importFile(t, env.token(t, "admin@firm.com"), "big.txt", []byte(strings.Repeat("x", 200)), validFields())
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.Empty(t, env.blobs.Paths())
}

func TestImport_Auth(t *testing.T) {
	env := newTestEnv(t, embedmock.New(4))
	content := []byte(strings.Repeat("x", 100))

	t.Run("no token", func(t *testing.T) {
		rec := env.importFile(t, "", "a.txt", content, validFields())
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, domain.CodeUnauthenticated, decodeError(t, rec).Code)
	})

	t.Run("garbage token", func(t *testing.T) {
		rec := env.importFile(t, "garbage", "a.txt", content, validFields())
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("not the administrator", func(t *testing.T) {
		rec := env.importFile(t, env.token(t, "clerk@firm.com"), "a.txt", content, validFields())
		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Equal(t, domain.CodeForbidden, decodeError(t, rec).Code)
	})

	t.Run("capability is checked before the upload", func(t *testing.T) {
		clerk := env.token(t, "clerk@firm.com")

		rec := env.importFile(t, clerk, "", nil, validFields())
		assert.Equal(t, http.StatusForbidden, rec.Code, "missing file")
		assert.Equal(t, domain.CodeForbidden, decodeError(t, rec).Code)

		small := newTestEnv(t, embedmock.New(4), WithMaxUploadSize(100))
		rec = small.importFile(t, small.token(t, "clerk@firm.com"), "big.txt", []byte(strings.Repeat("x", 200)), validFields())
		assert.Equal(t, http.StatusForbidden, rec.Code, "oversized file")
		assert.Empty(t, small.blobs.Paths())
	})

	t.Run("wrong scheme", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/rag/documents", nil)
		req.Header.Set("Authorization", "Basic abc")
		rec := httptest.NewRecorder()
		env.handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestDocumentsAndRetry(t *testing.T) {
	env := newTestEnv(t, embedmock.New(4))
	token := env.token(t, "admin@firm.com")
	ctx := context.Background()

	require.NoError(t, env.docStore.CreateDocument(ctx, &domain.Document{
		ID:         "doc-1",
		Title:      "Bekleyen",
		LegalArea:  domain.LegalAreaCivil,
		Type:       domain.DocumentTypeStatute,
		Visibility: domain.VisibilityPublic,
		Content:    strings.Repeat("medeni kanun ", 20),
		TextLength: 260,
	}))

	do := func(method, path string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, path, nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		env.handler.ServeHTTP(rec, req)
		return rec
	}

	rec := do(http.MethodGet, "/api/v1/rag/documents")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"total":1`)

	rec = do(http.MethodGet, "/api/v1/rag/documents/doc-1")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"embedded":false`)

	rec = do(http.MethodPost, "/api/v1/rag/documents/doc-1/embed")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"chunks_inserted":1`)

	rec = do(http.MethodPost, "/api/v1/rag/documents/doc-1/embed")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(http.MethodGet, "/api/v1/rag/documents/missing")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, domain.CodeNotFound, decodeError(t, rec).Code)
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{&domain.IngestError{Code: domain.CodeEmbedding, Err: domain.ErrTimeout}, http.StatusGatewayTimeout},
		{&domain.IngestError{Code: domain.CodeEmbedding, Err: domain.ErrServiceUnavailable}, http.StatusBadGateway},
		{&domain.IngestError{Code: domain.CodePersistence, Err: domain.ErrPersistence}, http.StatusInternalServerError},
		{&domain.IngestError{Code: domain.CodeStorageWrite, Err: domain.ErrStorageWrite}, http.StatusInternalServerError},
		{domain.ErrServiceUnavailable, http.StatusServiceUnavailable},
		{fmt.Errorf("x: %w", domain.ErrFileTooLarge), http.StatusRequestEntityTooLarge},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, statusFor(tt.err), tt.err.Error())
	}
}
