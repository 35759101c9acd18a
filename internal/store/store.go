// Package store defines the persistence contracts for clients, articles and
// documents, with a gorm-backed implementation and an in-memory one.
package store

import (
	"context"
	"errors"

	"github.com/diewo77/go-crm/internal/models"
	"github.com/diewo77/go-crm/internal/pricing"
)

var (
	// ErrNotFound is returned when a record id does not resolve.
	ErrNotFound = errors.New("record not found")
	// ErrVersionConflict is returned when a document changed since it was read.
	ErrVersionConflict = errors.New("document version conflict")
	// ErrUnavailable wraps failures of the underlying database.
	ErrUnavailable = errors.New("store unavailable")
)

// ClientStore persists clients.
type ClientStore interface {
	CreateClient(ctx context.Context, c *models.Client) error
	GetClient(ctx context.Context, id string) (*models.Client, error)
	// ListClients returns clients newest first.
	ListClients(ctx context.Context) ([]models.Client, error)
	UpdateClient(ctx context.Context, c *models.Client) error
	DeleteClient(ctx context.Context, id string) error
}

// ArticleStore persists articles.
type ArticleStore interface {
	CreateArticle(ctx context.Context, a *models.Article) error
	GetArticle(ctx context.Context, id string) (*models.Article, error)
	// ListArticles returns articles ordered by name.
	ListArticles(ctx context.Context) ([]models.Article, error)
	UpdateArticle(ctx context.Context, a *models.Article) error
	DeleteArticle(ctx context.Context, id string) error
}

// DocumentStore persists documents.
type DocumentStore interface {
	GetDocument(ctx context.Context, id string) (*models.Document, error)
	CreateDocument(ctx context.Context, d *models.Document) error
	// UpdateLines replaces the line list and cached totals of a document in a
	// single write. It fails with ErrVersionConflict when the stored version
	// differs from expectedVersion and returns the new version otherwise.
	UpdateLines(ctx context.Context, id string, expectedVersion int, lines []models.DocumentLine, totals pricing.Totals) (int, error)
	CountByType(ctx context.Context, t models.DocumentType) (int64, error)
	// NextSequence atomically reserves the next sequence number for t. The
	// first call for a type starts after the documents already stored.
	NextSequence(ctx context.Context, t models.DocumentType) (int, error)
	// ListDocuments returns documents ordered by date, newest first.
	ListDocuments(ctx context.Context) ([]models.Document, error)
}

// Store groups every collection. Backends are chosen once at startup.
type Store interface {
	ClientStore
	ArticleStore
	DocumentStore
	Ping(ctx context.Context) error
	Close() error
}
