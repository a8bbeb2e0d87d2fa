// Package dto provides Data Transfer Objects for HTTP request/response handling.
package dto

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/hitokoto-service/internal/domain"
	"github.com/jsamuelsen/hitokoto-service/internal/platform/logging"
)

// Error messages shown to clients. Internal details are only logged.
const (
	// MessageInternal is returned for quote failures and recovered panics.
	MessageInternal = "服务器内部错误"

	// MessageDataUnavailable is returned when the dataset could not be loaded.
	MessageDataUnavailable = "服务器内部错误：无法获取数据"
)

// ErrorResponse is the JSON error body.
// Version and Update identify the dataset for quote failures and are omitted
// when the dataset itself is unavailable.
type ErrorResponse struct {
	Error   string `json:"error"`
	Version string `json:"version,omitempty"`
	Update  string `json:"update,omitempty"`
}

// NewErrorResponse creates an error body without dataset details.
func NewErrorResponse(message string) *ErrorResponse {
	return &ErrorResponse{Error: message}
}

// NewQuoteErrorResponse creates an error body carrying the dataset version
// and update date, substituting the placeholder for absent values.
func NewQuoteErrorResponse(version, update string) *ErrorResponse {
	return &ErrorResponse{
		Error:   MessageInternal,
		Version: domain.OrUnknown(version),
		Update:  domain.OrUnknown(update),
	}
}

// MapDomainError maps a domain error to an HTTP status code and error body.
// md supplies version and update when the error itself does not carry them.
func MapDomainError(err error, md domain.Metadata) (int, *ErrorResponse) {
	if err == nil {
		return http.StatusOK, nil
	}

	if domain.IsLoadFailure(err) {
		return http.StatusInternalServerError, NewErrorResponse(MessageDataUnavailable)
	}

	var emptyErr *domain.EmptyDatasetError
	if errors.As(err, &emptyErr) {
		return http.StatusInternalServerError, NewQuoteErrorResponse(emptyErr.Version, emptyErr.Update)
	}

	return http.StatusInternalServerError, NewQuoteErrorResponse(md.Version, md.Update)
}

// RespondWithError logs err on the request logger, which already carries the
// request and trace IDs, and writes the mapped error body.
func RespondWithError(c *gin.Context, err error, md domain.Metadata) {
	status, resp := MapDomainError(err, md)

	ctx := c.Request.Context()
	logging.FromContext(ctx).ErrorContext(ctx, "request failed",
		slog.Any("error", err),
		slog.Int("status", status),
	)

	c.PureJSON(status, resp)
}
