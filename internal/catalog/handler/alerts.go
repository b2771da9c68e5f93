package handler

import (
	"net/http"
	"strconv"
	"strings"

	"hrcatalog/internal/catalog/events"
	"hrcatalog/internal/catalog/models"
	dErrors "hrcatalog/pkg/domain-errors"
)

// Alerts writes the notification headers that accompany mutating calls and
// failures, e.g. X-HrApp-Alert: hrApp.bank.created.
type Alerts struct {
	prefix       string
	alertHeader  string
	errorHeader  string
	paramsHeader string
}

// NewAlerts derives header names from the application prefix: "hrApp"
// yields X-HrApp-Alert, X-HrApp-Error and X-HrApp-Params.
func NewAlerts(prefix string) Alerts {
	if prefix == "" {
		prefix = "hrApp"
	}
	app := strings.ToUpper(prefix[:1]) + prefix[1:]
	return Alerts{
		prefix:       prefix,
		alertHeader:  "X-" + app + "-Alert",
		errorHeader:  "X-" + app + "-Error",
		paramsHeader: "X-" + app + "-Params",
	}
}

// Changed announces a successful mutation of kind id.
func (a Alerts) Changed(w http.ResponseWriter, kind string, action models.Action, id int64) {
	w.Header().Set(a.alertHeader, events.AlertKey(a.prefix, kind, action))
	w.Header().Set(a.paramsHeader, strconv.FormatInt(id, 10))
}

// Failed announces a rejected call on kind.
func (a Alerts) Failed(w http.ResponseWriter, kind string, err error) {
	w.Header().Set(a.errorHeader, "error."+errorKey(dErrors.CodeOf(err)))
	w.Header().Set(a.paramsHeader, kind)
}

func errorKey(code dErrors.Code) string {
	switch code {
	case dErrors.CodeIDExists:
		return "idexists"
	case dErrors.CodeNotFound:
		return "notfound"
	case dErrors.CodeValidation, dErrors.CodeBadRequest:
		return "validation"
	case dErrors.CodeInvalidQuery:
		return "invalidquery"
	case dErrors.CodeUnavailable, dErrors.CodeTimeout:
		return "unavailable"
	default:
		return "internal"
	}
}
