// Package server assembles the HTTP routes and middleware.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/diewo77/go-crm/httpx"
	"github.com/diewo77/go-crm/internal/handlers"
	"github.com/diewo77/go-crm/internal/models"
	"github.com/diewo77/go-crm/internal/services"
	"go.uber.org/zap"
)

// Pinger reports whether the storage backend is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Deps are the services the routes are wired to.
type Deps struct {
	Store     Pinger
	Clients   *services.ClientService
	Articles  *services.ArticleService
	Documents *services.DocumentService
	Rules     *services.RuleService
	Company   models.Company
	Logger    *zap.Logger
}

// New constructs the root http.Handler with all routes and middlewares applied.
func New(d Deps) http.Handler {
	log := d.Logger
	if log == nil {
		log = zap.NewNop()
	}
	mux := http.NewServeMux()

	// --- Health endpoints ---
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := d.Store.Ping(ctx); err != nil {
			log.Warn("health check failed", zap.Error(err))
			httpx.JSON(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded"})
			return
		}
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	company := handlers.NewCompanyHandler(d.Company)
	mux.HandleFunc("GET /company", company.Show)

	ch := handlers.NewClientHandler(d.Clients, log)
	mux.HandleFunc("GET /clients", ch.List)
	mux.HandleFunc("POST /clients", ch.Create)
	mux.HandleFunc("GET /clients/{id}", ch.View)
	mux.HandleFunc("PUT /clients/{id}", ch.Update)
	mux.HandleFunc("DELETE /clients/{id}", ch.Delete)

	ah := handlers.NewArticleHandler(d.Articles, log)
	mux.HandleFunc("GET /articles", ah.List)
	mux.HandleFunc("POST /articles", ah.Create)
	mux.HandleFunc("GET /articles/{id}", ah.View)
	mux.HandleFunc("PUT /articles/{id}", ah.Update)
	mux.HandleFunc("DELETE /articles/{id}", ah.Delete)

	dh := handlers.NewDocumentHandler(d.Documents, log)
	mux.HandleFunc("GET /documents", dh.List)
	mux.HandleFunc("POST /documents", dh.Create)
	mux.HandleFunc("GET /documents/{id}", dh.View)
	mux.HandleFunc("POST /documents/{id}/lines", dh.AddLine)
	mux.HandleFunc("DELETE /documents/{id}/lines/{line_id}", dh.RemoveLine)

	rh := handlers.NewRuleHandler(d.Rules, log)
	mux.HandleFunc("POST /suggest-rule", rh.Suggest)

	return withRecover(log, withLogging(log, mux))
}
