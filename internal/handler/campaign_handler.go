// internal/handler/campaign_handler.go
package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	appErrors "github.com/Uday-0910/RetailReachAI/internal/errors"
	"github.com/Uday-0910/RetailReachAI/internal/service"
)

type CampaignHandler struct {
	Service  *service.CampaignService
	Delivery *service.DeliveryService
}

func (h *CampaignHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in service.CreateCampaignInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, appErrors.Validationf("invalid request body"))
		return
	}

	campaign, err := h.Service.Create(TenantID(r.Context()), in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, campaign)
}

func (h *CampaignHandler) List(w http.ResponseWriter, r *http.Request) {
	page, pageSize := parsePagination(r)
	status := r.URL.Query().Get("status")

	campaigns, total, err := h.Service.List(TenantID(r.Context()), status, page, pageSize)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"data":       campaigns,
		"pagination": paginationMeta(page, pageSize, total),
	})
}

// Detail returns the campaign with its first hundred delivery log
// entries in write order.
func (h *CampaignHandler) Detail(w http.ResponseWriter, r *http.Request) {
	detail, err := h.Service.Detail(TenantID(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

func (h *CampaignHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.Delete(TenantID(r.Context()), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *CampaignHandler) Send(w http.ResponseWriter, r *http.Request) {
	campaign, err := h.Delivery.Send(TenantID(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, campaign)
}
