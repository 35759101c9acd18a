package store

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/diewo77/go-crm/internal/models"
	"github.com/diewo77/go-crm/internal/pricing"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openSQLite(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:store_%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Client{}, &models.Article{}, &models.Document{}, &models.DocumentCounter{}))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

// backends returns a constructor per Store implementation so every contract
// test runs against both.
func backends() map[string]func(t *testing.T) Store {
	return map[string]func(t *testing.T) Store{
		"memory": func(t *testing.T) Store { return NewMemory() },
		"gorm":   func(t *testing.T) Store { return NewGorm(openSQLite(t)) },
	}
}

func newDoc(clientID string, typ models.DocumentType, number string, date time.Time) *models.Document {
	return &models.Document{
		ClientID: clientID,
		Type:     typ,
		Number:   number,
		Date:     date,
		Status:   models.DocumentStatusDraft,
		Lines:    []models.DocumentLine{},
	}
}

func TestClientCRUD(t *testing.T) {
	for name, open := range backends() {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			s := open(t)

			c := &models.Client{Name: "Acme", Email: "info@acme.test", Status: models.ClientStatusLead}
			require.NoError(t, s.CreateClient(ctx, c))
			require.NotEmpty(t, c.ID)

			got, err := s.GetClient(ctx, c.ID)
			require.NoError(t, err)
			assert.Equal(t, "Acme", got.Name)

			got.Status = models.ClientStatusActive
			got.Address.City = "Ghent"
			require.NoError(t, s.UpdateClient(ctx, got))

			again, err := s.GetClient(ctx, c.ID)
			require.NoError(t, err)
			assert.Equal(t, models.ClientStatusActive, again.Status)
			assert.Equal(t, "Ghent", again.Address.City)

			list, err := s.ListClients(ctx)
			require.NoError(t, err)
			assert.Len(t, list, 1)

			require.NoError(t, s.DeleteClient(ctx, c.ID))
			_, err = s.GetClient(ctx, c.ID)
			assert.ErrorIs(t, err, ErrNotFound)
			assert.ErrorIs(t, s.DeleteClient(ctx, c.ID), ErrNotFound)
			assert.ErrorIs(t, s.UpdateClient(ctx, &models.Client{ID: "missing", Name: "x"}), ErrNotFound)
		})
	}
}

func TestArticleCRUD(t *testing.T) {
	for name, open := range backends() {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			s := open(t)

			for _, n := range []string{"Widget", "Cable", "Hosting"} {
				a := &models.Article{
					Name:      n,
					UnitPrice: decimal.RequireFromString("10.50"),
					VATRate:   decimal.NewFromInt(21),
					Unit:      "piece",
					Photos:    []models.ArticlePhoto{{URL: "https://img.test/" + n, Description: n}},
					URLs:      []string{"https://shop.test/" + n},
				}
				require.NoError(t, s.CreateArticle(ctx, a))
			}

			list, err := s.ListArticles(ctx)
			require.NoError(t, err)
			require.Len(t, list, 3)
			assert.Equal(t, []string{"Cable", "Hosting", "Widget"}, []string{list[0].Name, list[1].Name, list[2].Name})

			a, err := s.GetArticle(ctx, list[0].ID)
			require.NoError(t, err)
			assert.True(t, a.UnitPrice.Equal(decimal.RequireFromString("10.50")))
			require.Len(t, a.Photos, 1)
			assert.Equal(t, "Cable", a.Photos[0].Description)

			a.UnitPrice = decimal.NewFromInt(12)
			require.NoError(t, s.UpdateArticle(ctx, a))
			a, err = s.GetArticle(ctx, a.ID)
			require.NoError(t, err)
			assert.True(t, a.UnitPrice.Equal(decimal.NewFromInt(12)))

			require.NoError(t, s.DeleteArticle(ctx, a.ID))
			_, err = s.GetArticle(ctx, a.ID)
			assert.ErrorIs(t, err, ErrNotFound)
		})
	}
}

func TestDocumentUpdateLines(t *testing.T) {
	for name, open := range backends() {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			s := open(t)

			doc := newDoc("c1", models.DocumentTypeInvoice, "I-202401-001", time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC))
			require.NoError(t, s.CreateDocument(ctx, doc))
			assert.Equal(t, 1, doc.Version)

			line := models.DocumentLine{
				ID: "l1", ArticleID: "a1", Description: "Widget", Quantity: 2, Unit: "piece",
				UnitPrice: decimal.NewFromInt(50), VATRate: decimal.NewFromInt(21), DiscountRate: decimal.Zero,
				Total: decimal.NewFromInt(100),
			}
			totals := pricing.Aggregate([]models.DocumentLine{line})

			v, err := s.UpdateLines(ctx, doc.ID, 1, []models.DocumentLine{line}, totals)
			require.NoError(t, err)
			assert.Equal(t, 2, v)

			got, err := s.GetDocument(ctx, doc.ID)
			require.NoError(t, err)
			require.Len(t, got.Lines, 1)
			assert.Equal(t, "l1", got.Lines[0].ID)
			assert.True(t, got.Subtotal.Equal(decimal.NewFromInt(100)), "subtotal %s", got.Subtotal)
			assert.True(t, got.VATAmount.Equal(decimal.NewFromInt(21)), "vat %s", got.VATAmount)
			assert.True(t, got.Total.Equal(decimal.NewFromInt(121)), "total %s", got.Total)
			assert.Equal(t, 2, got.Version)

			_, err = s.UpdateLines(ctx, doc.ID, 1, nil, pricing.Totals{})
			assert.ErrorIs(t, err, ErrVersionConflict)

			_, err = s.UpdateLines(ctx, "missing", 1, nil, pricing.Totals{})
			assert.ErrorIs(t, err, ErrNotFound)

			v, err = s.UpdateLines(ctx, doc.ID, 2, nil, pricing.Aggregate(nil))
			require.NoError(t, err)
			assert.Equal(t, 3, v)
			got, err = s.GetDocument(ctx, doc.ID)
			require.NoError(t, err)
			assert.Empty(t, got.Lines)
			assert.NotNil(t, got.Lines)
			assert.True(t, got.Total.IsZero())
		})
	}
}

func TestNextSequenceStartsAfterExisting(t *testing.T) {
	for name, open := range backends() {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			s := open(t)
			day := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
			require.NoError(t, s.CreateDocument(ctx, newDoc("c1", models.DocumentTypeQuote, "Q-202403-001", day)))
			require.NoError(t, s.CreateDocument(ctx, newDoc("c1", models.DocumentTypeQuote, "Q-202403-002", day)))

			n, err := s.CountByType(ctx, models.DocumentTypeQuote)
			require.NoError(t, err)
			assert.Equal(t, int64(2), n)

			seq, err := s.NextSequence(ctx, models.DocumentTypeQuote)
			require.NoError(t, err)
			assert.Equal(t, 3, seq)
			seq, err = s.NextSequence(ctx, models.DocumentTypeQuote)
			require.NoError(t, err)
			assert.Equal(t, 4, seq)

			seq, err = s.NextSequence(ctx, models.DocumentTypeInvoice)
			require.NoError(t, err)
			assert.Equal(t, 1, seq)
		})
	}
}

func TestListDocumentsNewestFirst(t *testing.T) {
	for name, open := range backends() {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			s := open(t)
			jan := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
			mar := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
			feb := time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC)
			require.NoError(t, s.CreateDocument(ctx, newDoc("c1", models.DocumentTypeInvoice, "I-202401-001", jan)))
			require.NoError(t, s.CreateDocument(ctx, newDoc("c1", models.DocumentTypeInvoice, "I-202403-002", mar)))
			require.NoError(t, s.CreateDocument(ctx, newDoc("c1", models.DocumentTypeQuote, "Q-202402-001", feb)))

			docs, err := s.ListDocuments(ctx)
			require.NoError(t, err)
			require.Len(t, docs, 3)
			assert.Equal(t, []string{"I-202403-002", "Q-202402-001", "I-202401-001"},
				[]string{docs[0].Number, docs[1].Number, docs[2].Number})
		})
	}
}

func TestCreateDocumentRejectsDuplicateNumber(t *testing.T) {
	for name, open := range backends() {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			s := open(t)
			day := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
			require.NoError(t, s.CreateDocument(ctx, newDoc("c1", models.DocumentTypeQuote, "Q-202401-001", day)))
			assert.Error(t, s.CreateDocument(ctx, newDoc("c1", models.DocumentTypeQuote, "Q-202401-001", day)))
		})
	}
}

func TestCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s := NewMemory()
	_, err := s.GetDocument(ctx, "x")
	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, s.Ping(ctx), context.Canceled)
}
