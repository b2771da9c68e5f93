package validation

import (
	"fmt"

	dErrors "hrcatalog/pkg/domain-errors"
)

// HTTP body limits
const (
	// MaxBodySize is the maximum allowed request body size (64 KB).
	MaxBodySize = 64 * 1024
)

// Paging limits
const (
	// DefaultPageSize is used when a request omits size or sends size < 1.
	DefaultPageSize = 20

	// MaxPageSize caps size so one request cannot pull a whole table.
	MaxPageSize = 100

	// MaxSortFields is the maximum number of sort params per request.
	MaxSortFields = 5
)

// String element length limits
const (
	// MaxFieldLength matches the varchar(255) columns of the catalog tables.
	MaxFieldLength = 255

	// MaxQueryLength is the maximum length of a search query string.
	MaxQueryLength = 1024
)

// CheckSliceCount validates that a slice does not exceed the maximum count.
func CheckSliceCount(fieldName string, count, max int) error {
	if count > max {
		return dErrors.New(dErrors.CodeValidation, fmt.Sprintf("too many %s: max %d allowed", fieldName, max))
	}
	return nil
}

// CheckStringLength validates that a string does not exceed the maximum length.
func CheckStringLength(fieldName, value string, max int) error {
	if len(value) > max {
		return dErrors.New(dErrors.CodeValidation, fmt.Sprintf("%s exceeds max length of %d", fieldName, max))
	}
	return nil
}
