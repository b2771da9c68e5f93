package handler

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hrcatalog/internal/catalog/models"
	dErrors "hrcatalog/pkg/domain-errors"
	"hrcatalog/pkg/platform/httputil"
)

func TestParsePageable(t *testing.T) {
	sortable := models.Banks.Sortable

	t.Run("defaults", func(t *testing.T) {
		p, err := parsePageable(url.Values{}, sortable)
		require.NoError(t, err)
		assert.Equal(t, models.NewPageable(0, 20), p)
	})

	t.Run("clamps out of range values", func(t *testing.T) {
		p, err := parsePageable(url.Values{"page": {"-3"}, "size": {"5000"}}, sortable)
		require.NoError(t, err)
		assert.Equal(t, 0, p.Page)
		assert.Equal(t, 100, p.Size)
	})

	t.Run("multiple sort keys", func(t *testing.T) {
		p, err := parsePageable(url.Values{"sort": {"name,desc", "code"}}, sortable)
		require.NoError(t, err)
		assert.Equal(t, []models.Order{{Field: "name", Desc: true}, {Field: "code"}}, p.Sort)
	})

	t.Run("rejects", func(t *testing.T) {
		cases := map[string]url.Values{
			"unknown field":  {"sort": {"salary"}},
			"bad direction":  {"sort": {"name,sideways"}},
			"too many sorts": {"sort": {"id", "id", "id", "id", "id", "id"}},
			"bad size":       {"size": {"ten"}},
			"page overflows": {"page": {"92233720368547759"}, "size": {"100"}},
			"page too big":   {"page": {"99999999999999999999"}},
		}
		for name, q := range cases {
			t.Run(name, func(t *testing.T) {
				_, err := parsePageable(q, sortable)
				require.Error(t, err)
				assert.Equal(t, http.StatusBadRequest, httputil.DomainCodeToHTTPStatus(dErrors.CodeOf(err)))
			})
		}
	})
}

func TestErrorKey(t *testing.T) {
	assert.Equal(t, "idexists", errorKey(dErrors.CodeIDExists))
	assert.Equal(t, "notfound", errorKey(dErrors.CodeNotFound))
	assert.Equal(t, "invalidquery", errorKey(dErrors.CodeInvalidQuery))
	assert.Equal(t, "unavailable", errorKey(dErrors.CodeTimeout))
	assert.Equal(t, "internal", errorKey(dErrors.Code("mystery")))
}
