// internal/handler/respond.go
package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	appErrors "github.com/Uday-0910/RetailReachAI/internal/errors"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError maps the domain error taxonomy onto HTTP status codes.
// Internal details never leak: anything unclassified is reported as an
// opaque internal error.
func writeError(w http.ResponseWriter, err error) {
	kind := appErrors.KindOf(err)

	var status int
	msg := err.Error()
	switch kind {
	case appErrors.KindUnauthorized:
		status = http.StatusUnauthorized
	case appErrors.KindNotFound:
		status = http.StatusNotFound
	case appErrors.KindValidation:
		status = http.StatusUnprocessableEntity
	case appErrors.KindConflict:
		status = http.StatusConflict
	default:
		status = http.StatusInternalServerError
		msg = "internal error"
	}

	writeJSON(w, status, map[string]string{
		"error": msg,
		"code":  kind.String(),
	})
}

// parsePagination reads 1-based page/page_size query params with the
// same defaults the service layer applies.
func parsePagination(r *http.Request) (page, pageSize int) {
	page = 1
	pageSize = 20

	if p, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil && p > 0 {
		page = p
	}
	if ps, err := strconv.Atoi(r.URL.Query().Get("page_size")); err == nil && ps > 0 {
		pageSize = ps
	}
	if pageSize > 100 {
		pageSize = 100
	}
	return page, pageSize
}

func paginationMeta(page, pageSize, total int) map[string]int {
	totalPages := (total + pageSize - 1) / pageSize
	return map[string]int{
		"page":        page,
		"page_size":   pageSize,
		"total_count": total,
		"total_pages": totalPages,
	}
}
