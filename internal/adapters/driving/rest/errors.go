package rest

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/custodia-labs/lexbase/internal/core/domain"
	"github.com/custodia-labs/lexbase/internal/logger"
)

// ErrorBody is the JSON error envelope.
type ErrorBody struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail describes one failure.
type ErrorDetail struct {
	Code          domain.ErrorCode `json:"code"`
	Message       string           `json:"message"`
	Stage         domain.Stage     `json:"stage,omitempty"`
	Details       string           `json:"details,omitempty"`
	DocumentID    string           `json:"document_id,omitempty"`
	Partial       bool             `json:"partial"`
	Compensations []string         `json:"compensations,omitempty"`
}

// statusFor maps an error onto an HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrUnsupportedFormat):
		return http.StatusUnsupportedMediaType
	case errors.Is(err, domain.ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge
	}

	switch domain.CodeOf(err) {
	case domain.CodeValidation:
		return http.StatusBadRequest
	case domain.CodeUnauthenticated:
		return http.StatusUnauthorized
	case domain.CodeForbidden:
		return http.StatusForbidden
	case domain.CodeNotFound:
		return http.StatusNotFound
	case domain.CodeEmbedding:
		if errors.Is(err, domain.ErrTimeout) {
			return http.StatusGatewayTimeout
		}
		return http.StatusBadGateway
	case domain.CodeServiceUnavailable:
		return http.StatusServiceUnavailable
	case domain.CodeTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// errorDetail builds a safe envelope. Only IngestError carries caller-facing
// text; other errors get a message chosen by class.
func errorDetail(err error) ErrorDetail {
	var ingestErr *domain.IngestError
	if errors.As(err, &ingestErr) {
		return ErrorDetail{
			Code:          ingestErr.Code,
			Message:       ingestErr.Message,
			Stage:         ingestErr.Stage,
			Details:       ingestErr.Details,
			DocumentID:    ingestErr.DocumentID,
			Partial:       ingestErr.Partial,
			Compensations: ingestErr.Compensations,
		}
	}

	code := domain.CodeOf(err)
	detail := ErrorDetail{Code: code}
	switch code {
	case domain.CodeUnauthenticated, domain.CodeValidation:
		detail.Message = err.Error()
	case domain.CodeForbidden:
		detail.Message = "forbidden"
	case domain.CodeNotFound:
		detail.Message = "not found"
	default:
		detail.Message = "internal error"
		detail.Details = domain.TruncateDetails(err.Error())
	}
	return detail
}

func writeError(c *gin.Context, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		logger.Error("%s %s: %v", c.Request.Method, c.FullPath(), err)
	}
	c.AbortWithStatusJSON(status, ErrorBody{Error: errorDetail(err)})
}
