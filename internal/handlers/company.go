package handlers

import (
	"net/http"

	"github.com/diewo77/go-crm/httpx"
	"github.com/diewo77/go-crm/internal/models"
)

type CompanyHandler struct {
	company models.Company
}

func NewCompanyHandler(company models.Company) *CompanyHandler {
	return &CompanyHandler{company: company}
}

// Show returns the configured company profile.
func (h *CompanyHandler) Show(w http.ResponseWriter, r *http.Request) {
	httpx.JSON(w, http.StatusOK, h.company)
}
