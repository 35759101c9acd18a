package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/diewo77/go-crm/internal/ai"
	"github.com/diewo77/go-crm/internal/config"
	"github.com/diewo77/go-crm/internal/db"
	"github.com/diewo77/go-crm/internal/models"
	"github.com/diewo77/go-crm/internal/server"
	"github.com/diewo77/go-crm/internal/services"
	"github.com/diewo77/go-crm/internal/store"
	"go.uber.org/zap"
)

// App is the wired application: one storage backend and the HTTP handler on top of it.
type App struct {
	cfg     *config.Config
	log     *zap.Logger
	store   store.Store
	handler http.Handler
}

// openDatabase connects and migrates the configured relational database.
// It never falls back to memory.
func openDatabase(cfg config.DatabaseConfig, log *zap.Logger) (*store.Gorm, error) {
	if cfg.Driver == config.DriverMemory {
		return nil, errMemoryDriver
	}
	conn, err := db.Open(cfg, log)
	if err != nil {
		return nil, err
	}
	return migrated(store.NewGorm(conn))
}

func migrated(s *store.Gorm) (*store.Gorm, error) {
	if err := db.Migrate(s.DB()); err != nil {
		_ = s.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

// openStore selects the storage backend once, at startup. With
// STORAGE_FALLBACK=memory an unreachable database degrades to the in-memory
// backend instead of failing.
func openStore(cfg config.DatabaseConfig, log *zap.Logger) (store.Store, error) {
	if cfg.Driver == config.DriverMemory {
		log.Info("using in-memory storage")
		return store.NewMemory(), nil
	}
	conn, err := db.Open(cfg, log)
	if err != nil {
		if cfg.Fallback == config.DriverMemory {
			log.Warn("database unavailable, falling back to in-memory storage", zap.Error(err))
			return store.NewMemory(), nil
		}
		return nil, err
	}
	s, err := migrated(store.NewGorm(conn))
	if err != nil {
		return nil, err
	}
	return s, nil
}

// runMigrate applies the schema to the configured database.
func runMigrate(cfg config.DatabaseConfig, log *zap.Logger) error {
	s, err := openDatabase(cfg, log)
	if err != nil {
		return err
	}
	return s.Close()
}

// runSeed inserts the demo articles into the configured database. The memory
// fallback does not apply.
func runSeed(ctx context.Context, cfg config.DatabaseConfig, log *zap.Logger) (int, error) {
	s, err := openDatabase(cfg, log)
	if err != nil {
		return 0, err
	}
	defer func() { _ = s.Close() }()
	return db.Seed(ctx, s)
}

// NewApp opens the store and builds every service and route.
func NewApp(ctx context.Context, cfg *config.Config, log *zap.Logger) (*App, error) {
	st, err := openStore(cfg.Database, log)
	if err != nil {
		return nil, err
	}
	if cfg.Database.Seed {
		n, err := db.Seed(ctx, st)
		if err != nil {
			_ = st.Close()
			return nil, fmt.Errorf("seed: %w", err)
		}
		log.Info("seed completed", zap.Int("articles_created", n))
	}

	var suggester services.Suggester
	if cfg.OpenAI.Enabled() {
		suggester = ai.NewRuleSuggester(ai.Config{
			APIKey:  cfg.OpenAI.APIKey,
			Model:   cfg.OpenAI.Model,
			BaseURL: cfg.OpenAI.BaseURL,
			Timeout: config.Seconds(cfg.OpenAI.Timeout),
		}, log.Named("ai"))
	} else {
		log.Info("OPENAI_API_KEY not set, rule suggestions disabled")
	}

	handler := server.New(server.Deps{
		Store:    st,
		Clients:  services.NewClientService(st, log.Named("clients")),
		Articles: services.NewArticleService(st, log.Named("articles")),
		Documents: services.NewDocumentService(st, st, st,
			services.WithLogger(log.Named("documents")),
			services.WithMaxRetries(cfg.App.LineWriteMaxRetries)),
		Rules:   services.NewRuleService(suggester, log.Named("rules")),
		Company: companyProfile(cfg.Company),
		Logger:  log.Named("http"),
	})
	return &App{cfg: cfg, log: log, store: st, handler: handler}, nil
}

func companyProfile(c config.CompanyConfig) models.Company {
	return models.Company{
		Name:    c.Name,
		LogoURL: c.LogoURL,
		Address: c.Address,
		Phone:   c.Phone,
		Email:   c.Email,
		Website: c.Website,
	}
}

// ServeHTTP implements http.Handler.
func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.handler.ServeHTTP(w, r)
}

func (a *App) Close() error {
	if a.store == nil {
		return nil
	}
	return a.store.Close()
}

var errMemoryDriver = errors.New("the memory driver has no schema; set STORAGE_DRIVER to postgres or sqlite")
