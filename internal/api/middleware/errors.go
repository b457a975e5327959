package middleware

import (
	"errors"

	"github.com/emicklei/go-restful/v3"
	"github.com/rs/zerolog/log"
)

var (
	ErrEmptyMeasurements   = errors.New("measurements must not be empty")
	ErrTooManyMeasurements = errors.New("too many measurements")
	ErrEmptyInstructions   = errors.New("instructions must not be empty")
	ErrStoreUnavailable    = errors.New("report store is not configured")
	ErrReportNotFound      = errors.New("report not found")
	ErrInternalServerError = errors.New("internal server error")
)

type ErrorResponse struct {
	Error   string `json:"error" description:"Error message"`
	Code    int    `json:"code" description:"HTTP status code"`
	Details string `json:"details,omitempty" description:"Additional error details"`
}

func HandleError(resp *restful.Response, err error, status int) {
	errorResponse := ErrorResponse{
		Error: err.Error(),
		Code:  status,
	}

	if unwrapped := errors.Unwrap(err); unwrapped != nil {
		errorResponse.Error = unwrapped.Error()
		errorResponse.Details = err.Error()
	}

	if writeErr := resp.WriteHeaderAndEntity(status, errorResponse); writeErr != nil {
		log.Error().Err(writeErr).Msg("Failed to write error response")
	}
}
