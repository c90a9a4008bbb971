// internal/handler/customer_handler.go
package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	appErrors "github.com/Uday-0910/RetailReachAI/internal/errors"
	"github.com/Uday-0910/RetailReachAI/internal/service"
)

type CustomerHandler struct {
	Service *service.CustomerService
}

func (h *CustomerHandler) Create(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Name     string     `json:"name"`
		Phone    string     `json:"phone"`
		Tags     []string   `json:"tags"`
		Birthday *time.Time `json:"birthday"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, appErrors.Validationf("invalid request body"))
		return
	}

	customer, err := h.Service.Add(TenantID(r.Context()), payload.Name, payload.Phone, payload.Tags, payload.Birthday)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, customer)
}

// Import accepts the loosely-typed records produced by CSV exports.
func (h *CustomerHandler) Import(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Records []map[string]any `json:"records"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, appErrors.Validationf("invalid request body"))
		return
	}

	imported, err := h.Service.BulkAdd(TenantID(r.Context()), payload.Records)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"imported": imported})
}

func (h *CustomerHandler) List(w http.ResponseWriter, r *http.Request) {
	page, pageSize := parsePagination(r)
	query := r.URL.Query().Get("q")
	tag := r.URL.Query().Get("tag")

	customers, total, err := h.Service.Search(TenantID(r.Context()), query, tag, page, pageSize)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"data":       customers,
		"pagination": paginationMeta(page, pageSize, total),
	})
}

func (h *CustomerHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.Delete(TenantID(r.Context()), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
