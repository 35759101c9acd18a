package handlers

import (
	"net/http"

	"github.com/diewo77/go-crm/httpx"
	"github.com/diewo77/go-crm/internal/services"
	"go.uber.org/zap"
)

type ArticleHandler struct {
	svc *services.ArticleService
	log *zap.Logger
}

func NewArticleHandler(svc *services.ArticleService, log *zap.Logger) *ArticleHandler {
	return &ArticleHandler{svc: svc, log: log}
}

func (h *ArticleHandler) List(w http.ResponseWriter, r *http.Request) {
	articles, err := h.svc.List(r.Context())
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	httpx.JSON(w, http.StatusOK, articles)
}

func (h *ArticleHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in services.ArticleInput
	if err := httpx.DecodeJSON(w, r, &in); err != nil {
		badJSON(w, err)
		return
	}
	a, err := h.svc.Create(r.Context(), in)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, a)
}

func (h *ArticleHandler) View(w http.ResponseWriter, r *http.Request) {
	a, err := h.svc.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	httpx.JSON(w, http.StatusOK, a)
}

func (h *ArticleHandler) Update(w http.ResponseWriter, r *http.Request) {
	var in services.ArticleInput
	if err := httpx.DecodeJSON(w, r, &in); err != nil {
		badJSON(w, err)
		return
	}
	a, err := h.svc.Update(r.Context(), r.PathValue("id"), in)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	httpx.JSON(w, http.StatusOK, a)
}

func (h *ArticleHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, h.log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
