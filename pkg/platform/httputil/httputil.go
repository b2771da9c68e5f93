// Package httputil writes JSON responses and maps domain errors onto HTTP.
package httputil

import (
	"encoding/json"
	"errors"
	"net/http"

	dErrors "hrcatalog/pkg/domain-errors"
)

type mapping struct {
	status int
	name   string
}

var internal = mapping{http.StatusInternalServerError, "internal_error"}

var mappings = map[dErrors.Code]mapping{
	dErrors.CodeNotFound:         {http.StatusNotFound, "not_found"},
	dErrors.CodeBadRequest:       {http.StatusBadRequest, "bad_request"},
	dErrors.CodeIDExists:         {http.StatusBadRequest, "idexists"},
	dErrors.CodeValidation:       {http.StatusBadRequest, "validation_error"},
	dErrors.CodeInvalidQuery:     {http.StatusBadRequest, "invalid_query"},
	dErrors.CodeTooLarge:         {http.StatusRequestEntityTooLarge, "payload_too_large"},
	dErrors.CodeUnsupportedMedia: {http.StatusUnsupportedMediaType, "invalid_content_type"},
	dErrors.CodeUnavailable:      {http.StatusServiceUnavailable, "service_unavailable"},
	dErrors.CodeTimeout:          {http.StatusGatewayTimeout, "timeout"},
	dErrors.CodeInternal:         internal,
}

func lookup(code dErrors.Code) mapping {
	if m, ok := mappings[code]; ok {
		return m
	}
	return internal
}

// ErrorResponse is the body of every error reply.
type ErrorResponse struct {
	Error       string `json:"error"`
	Description string `json:"error_description,omitempty"`
}

// WriteJSON encodes response with the given status.
func WriteJSON(w http.ResponseWriter, status int, response any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// Headers are already sent, so an encoding failure cannot change the status.
	_ = json.NewEncoder(w).Encode(response)
}

// WriteError translates err into a status and ErrorResponse. Errors that
// carry no domain code are reported as internal without their message.
func WriteError(w http.ResponseWriter, err error) {
	var domainErr *dErrors.Error
	if !errors.As(err, &domainErr) {
		WriteJSON(w, internal.status, ErrorResponse{Error: internal.name})
		return
	}
	m := lookup(domainErr.Code)
	WriteJSON(w, m.status, ErrorResponse{Error: m.name, Description: domainErr.Message})
}

// DomainCodeToHTTPStatus translates a domain code to its HTTP status.
func DomainCodeToHTTPStatus(code dErrors.Code) int {
	return lookup(code).status
}

// DomainCodeToHTTPCode translates a domain code to the error string of the
// JSON body.
func DomainCodeToHTTPCode(code dErrors.Code) string {
	return lookup(code).name
}
