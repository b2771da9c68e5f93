package handler

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"hrcatalog/internal/catalog/models"
	dErrors "hrcatalog/pkg/domain-errors"
	"hrcatalog/pkg/platform/validation"
)

// parsePageable reads page, size and the repeatable sort=field[,asc|desc]
// parameters. Negative pages and out-of-range sizes are clamped; malformed
// numbers, pages past models.MaxPage and unknown sort fields are rejected.
func parsePageable(q url.Values, sortable func(string) bool) (models.Pageable, error) {
	page, err := intParam(q, "page", 0)
	if err != nil {
		return models.Pageable{}, err
	}
	if page > models.MaxPage {
		return models.Pageable{}, dErrors.New(dErrors.CodeBadRequest, "page parameter out of range")
	}
	size, err := intParam(q, "size", validation.DefaultPageSize)
	if err != nil {
		return models.Pageable{}, err
	}

	raw := q["sort"]
	if err := validation.CheckSliceCount("sort parameters", len(raw), validation.MaxSortFields); err != nil {
		return models.Pageable{}, err
	}
	var orders []models.Order
	for _, param := range raw {
		field, dir, _ := strings.Cut(param, ",")
		field = strings.TrimSpace(field)
		if sortable != nil && !sortable(field) {
			return models.Pageable{}, dErrors.New(dErrors.CodeValidation, "invalid sort parameter: "+field)
		}
		order := models.Order{Field: field}
		switch strings.ToLower(strings.TrimSpace(dir)) {
		case "", "asc":
		case "desc":
			order.Desc = true
		default:
			return models.Pageable{}, dErrors.New(dErrors.CodeValidation, "invalid sort direction: "+dir)
		}
		orders = append(orders, order)
	}

	return models.NewPageable(page, size, orders...), nil
}

func intParam(q url.Values, name string, fallback int) (int, error) {
	v := q.Get(name)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, dErrors.New(dErrors.CodeBadRequest, "invalid "+name+" parameter")
	}
	return n, nil
}

func parseID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id < 1 {
		return 0, dErrors.New(dErrors.CodeBadRequest, "invalid id")
	}
	return id, nil
}

// listParams keeps the sort parameters on pagination links.
func listParams(q url.Values) url.Values {
	out := url.Values{}
	if s := q["sort"]; len(s) > 0 {
		out["sort"] = s
	}
	return out
}
