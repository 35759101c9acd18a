package handlers

import (
	"net/http"

	"github.com/diewo77/go-crm/httpx"
	"github.com/diewo77/go-crm/internal/models"
	"github.com/diewo77/go-crm/internal/services"
	"go.uber.org/zap"
)

type DocumentHandler struct {
	svc *services.DocumentService
	log *zap.Logger
}

func NewDocumentHandler(svc *services.DocumentService, log *zap.Logger) *DocumentHandler {
	return &DocumentHandler{svc: svc, log: log}
}

type createDocumentRequest struct {
	ClientID     string              `json:"client_id"`
	DocumentType models.DocumentType `json:"document_type"`
}

type addLineRequest struct {
	ArticleID string `json:"article_id"`
	Quantity  int    `json:"quantity"`
}

func (h *DocumentHandler) List(w http.ResponseWriter, r *http.Request) {
	docs, err := h.svc.ListDocuments(r.Context())
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	httpx.JSON(w, http.StatusOK, docs)
}

func (h *DocumentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createDocumentRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		badJSON(w, err)
		return
	}
	doc, err := h.svc.CreateDocument(r.Context(), req.ClientID, req.DocumentType)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, doc)
}

func (h *DocumentHandler) View(w http.ResponseWriter, r *http.Request) {
	doc, err := h.svc.GetDocument(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	httpx.JSON(w, http.StatusOK, doc)
}

// AddLine appends an article to the document and returns the updated document.
func (h *DocumentHandler) AddLine(w http.ResponseWriter, r *http.Request) {
	var req addLineRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		badJSON(w, err)
		return
	}
	doc, err := h.svc.AddLine(r.Context(), r.PathValue("id"), req.ArticleID, req.Quantity)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	httpx.JSON(w, http.StatusOK, doc)
}

// RemoveLine deletes a line and returns the updated document.
func (h *DocumentHandler) RemoveLine(w http.ResponseWriter, r *http.Request) {
	doc, err := h.svc.RemoveLine(r.Context(), r.PathValue("id"), r.PathValue("line_id"))
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	httpx.JSON(w, http.StatusOK, doc)
}
