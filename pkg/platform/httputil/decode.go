package httputil

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	dErrors "hrcatalog/pkg/domain-errors"
	"hrcatalog/pkg/requestcontext"
)

// Decode reads one JSON document from the request body into target. On
// failure it logs, writes the error response and returns false.
//
//	record := kind.New()
//	if !httputil.Decode(w, r, h.logger, record) {
//	    return
//	}
func Decode(w http.ResponseWriter, r *http.Request, logger *slog.Logger, target any) bool {
	err := decodeBody(r.Body, target)
	if err == nil {
		return true
	}
	ctx := r.Context()
	logger.WarnContext(ctx, "failed to decode request body",
		"error", err,
		"request_id", requestcontext.RequestID(ctx),
	)
	WriteError(w, err)
	return false
}

// DecodeJSON is Decode for callers that want a fresh value of T.
func DecodeJSON[T any](w http.ResponseWriter, r *http.Request, logger *slog.Logger) (*T, bool) {
	var v T
	if !Decode(w, r, logger, &v) {
		return nil, false
	}
	return &v, true
}

func decodeBody(body io.Reader, target any) error {
	if body == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is empty")
	}
	dec := json.NewDecoder(body)
	err := dec.Decode(target)
	if err == nil {
		if _, extra := dec.Token(); extra != io.EOF {
			return dErrors.New(dErrors.CodeBadRequest, "request body must hold a single JSON value")
		}
		return nil
	}

	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		return dErrors.Wrap(err, dErrors.CodeTooLarge, fmt.Sprintf("request body exceeds %d bytes", tooLarge.Limit))
	case errors.Is(err, io.EOF):
		return dErrors.Wrap(err, dErrors.CodeBadRequest, "request body is empty")
	default:
		return dErrors.Wrap(err, dErrors.CodeBadRequest, "invalid request body")
	}
}

// Validatable is implemented by request types that support validation.
type Validatable interface {
	Validate() error
}

// Normalizable is implemented by request types that support normalization.
type Normalizable interface {
	Normalize()
}

// Prepare normalizes then validates req. Errors without a domain code are
// reported as validation failures.
func Prepare(req any) error {
	if n, ok := req.(Normalizable); ok {
		n.Normalize()
	}
	v, ok := req.(Validatable)
	if !ok {
		return nil
	}
	err := v.Validate()
	if err == nil {
		return nil
	}
	var domainErr *dErrors.Error
	if errors.As(err, &domainErr) {
		return err
	}
	return dErrors.Wrap(err, dErrors.CodeValidation, err.Error())
}
