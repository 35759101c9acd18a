package handlers

import (
	"net/http"

	"github.com/diewo77/go-crm/httpx"
	"github.com/diewo77/go-crm/internal/services"
	"go.uber.org/zap"
)

type RuleHandler struct {
	svc *services.RuleService
	log *zap.Logger
}

func NewRuleHandler(svc *services.RuleService, log *zap.Logger) *RuleHandler {
	return &RuleHandler{svc: svc, log: log}
}

type suggestRuleRequest struct {
	ClientInformation string `json:"client_information"`
	AvailableRules    string `json:"available_rules"`
}

func (h *RuleHandler) Suggest(w http.ResponseWriter, r *http.Request) {
	var req suggestRuleRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		badJSON(w, err)
		return
	}
	out, err := h.svc.SuggestRule(r.Context(), req.ClientInformation, req.AvailableRules)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	httpx.JSON(w, http.StatusOK, out)
}
