package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/suite"

	dErrors "hrcatalog/pkg/domain-errors"
)

// LimitsSuite tests the boundary helpers: max must pass and max+1 must fail.
type LimitsSuite struct {
	suite.Suite
}

func TestLimitsSuite(t *testing.T) {
	suite.Run(t, new(LimitsSuite))
}

func (s *LimitsSuite) TestCheckSliceCount() {
	s.Run("passes when count equals max", func() {
		s.NoError(CheckSliceCount("sort", MaxSortFields, MaxSortFields))
	})

	s.Run("passes when count is zero", func() {
		s.NoError(CheckSliceCount("sort", 0, MaxSortFields))
	})

	s.Run("fails when count exceeds max", func() {
		err := CheckSliceCount("sort", MaxSortFields+1, MaxSortFields)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
		s.Contains(err.Error(), "too many sort")
	})
}

func (s *LimitsSuite) TestCheckStringLength() {
	s.Run("passes at max length", func() {
		s.NoError(CheckStringLength("query", strings.Repeat("a", MaxQueryLength), MaxQueryLength))
	})

	s.Run("counts bytes not runes", func() {
		err := CheckStringLength("query", strings.Repeat("é", 3), 5)
		s.Error(err)
	})

	s.Run("fails one past max", func() {
		err := CheckStringLength("query", strings.Repeat("a", MaxQueryLength+1), MaxQueryLength)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
		s.Equal("query exceeds max length of 1024", err.Error())
	})
}
