package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/diewo77/go-crm/internal/models"
	"github.com/diewo77/go-crm/internal/pricing"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Gorm is a Store backed by a relational database through gorm. Documents
// are kept as a single row each: the line array is a JSON column next to the
// numeric total columns, so both are always written by the same statement.
type Gorm struct {
	db *gorm.DB
}

// NewGorm wraps an open, migrated connection.
func NewGorm(db *gorm.DB) *Gorm {
	return &Gorm{db: db}
}

// DB exposes the underlying connection (health checks, tests).
func (s *Gorm) DB() *gorm.DB { return s.db }

func wrapErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, models.ErrMalformedRecord),
		errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded):
		return err
	}
	return fmt.Errorf("%w: %v", ErrUnavailable, err)
}

func (s *Gorm) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return wrapErr(err)
	}
	return wrapErr(sqlDB.PingContext(ctx))
}

func (s *Gorm) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// --- clients ---

func (s *Gorm) CreateClient(ctx context.Context, c *models.Client) error {
	return wrapErr(s.db.WithContext(ctx).Create(c).Error)
}

func (s *Gorm) GetClient(ctx context.Context, id string) (*models.Client, error) {
	var c models.Client
	if err := s.db.WithContext(ctx).First(&c, "id = ?", id).Error; err != nil {
		return nil, wrapErr(err)
	}
	return &c, nil
}

func (s *Gorm) ListClients(ctx context.Context) ([]models.Client, error) {
	var clients []models.Client
	if err := s.db.WithContext(ctx).Order("created_at desc").Find(&clients).Error; err != nil {
		return nil, wrapErr(err)
	}
	return clients, nil
}

func (s *Gorm) UpdateClient(ctx context.Context, c *models.Client) error {
	res := s.db.WithContext(ctx).Model(&models.Client{}).
		Where("id = ?", c.ID).
		Select("*").Omit("id", "created_at").
		Updates(c)
	if res.Error != nil {
		return wrapErr(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return wrapErr(s.db.WithContext(ctx).First(c, "id = ?", c.ID).Error)
}

func (s *Gorm) DeleteClient(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Delete(&models.Client{}, "id = ?", id)
	if res.Error != nil {
		return wrapErr(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// --- articles ---

func (s *Gorm) CreateArticle(ctx context.Context, a *models.Article) error {
	return wrapErr(s.db.WithContext(ctx).Create(a).Error)
}

func (s *Gorm) GetArticle(ctx context.Context, id string) (*models.Article, error) {
	var a models.Article
	if err := s.db.WithContext(ctx).First(&a, "id = ?", id).Error; err != nil {
		return nil, wrapErr(err)
	}
	return &a, nil
}

func (s *Gorm) ListArticles(ctx context.Context) ([]models.Article, error) {
	var articles []models.Article
	if err := s.db.WithContext(ctx).Order("name").Find(&articles).Error; err != nil {
		return nil, wrapErr(err)
	}
	return articles, nil
}

func (s *Gorm) UpdateArticle(ctx context.Context, a *models.Article) error {
	res := s.db.WithContext(ctx).Model(&models.Article{}).
		Where("id = ?", a.ID).
		Select("*").Omit("id", "created_at").
		Updates(a)
	if res.Error != nil {
		return wrapErr(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return wrapErr(s.db.WithContext(ctx).First(a, "id = ?", a.ID).Error)
}

func (s *Gorm) DeleteArticle(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Delete(&models.Article{}, "id = ?", id)
	if res.Error != nil {
		return wrapErr(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// --- documents ---

func (s *Gorm) GetDocument(ctx context.Context, id string) (*models.Document, error) {
	var d models.Document
	if err := s.db.WithContext(ctx).First(&d, "id = ?", id).Error; err != nil {
		return nil, wrapErr(err)
	}
	return &d, nil
}

func (s *Gorm) CreateDocument(ctx context.Context, d *models.Document) error {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	if d.Version == 0 {
		d.Version = 1
	}
	if err := d.Normalize(); err != nil {
		return err
	}
	return wrapErr(s.db.WithContext(ctx).Create(d).Error)
}

func (s *Gorm) UpdateLines(ctx context.Context, id string, expectedVersion int, lines []models.DocumentLine, totals pricing.Totals) (int, error) {
	if lines == nil {
		lines = []models.DocumentLine{}
	}
	next := models.Document{
		Lines:     lines,
		Subtotal:  totals.Subtotal,
		VATAmount: totals.VATAmount,
		Total:     totals.Total,
		Version:   expectedVersion + 1,
		UpdatedAt: time.Now(),
	}
	res := s.db.WithContext(ctx).Model(&models.Document{}).
		Where("id = ? AND version = ?", id, expectedVersion).
		Select("lines", "subtotal_excl_vat", "vat_amount", "total_incl_vat", "version", "updated_at").
		Updates(&next)
	if res.Error != nil {
		return 0, wrapErr(res.Error)
	}
	if res.RowsAffected == 0 {
		var n int64
		if err := s.db.WithContext(ctx).Model(&models.Document{}).Where("id = ?", id).Count(&n).Error; err != nil {
			return 0, wrapErr(err)
		}
		if n == 0 {
			return 0, ErrNotFound
		}
		return 0, ErrVersionConflict
	}
	return next.Version, nil
}

func (s *Gorm) CountByType(ctx context.Context, t models.DocumentType) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.Document{}).Where("document_type = ?", t).Count(&n).Error
	return n, wrapErr(err)
}

func (s *Gorm) NextSequence(ctx context.Context, t models.DocumentType) (int, error) {
	var seq int
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		bump := func() (int64, error) {
			res := tx.Model(&models.DocumentCounter{}).
				Where("document_type = ?", t).
				Update("value", gorm.Expr("value + ?", 1))
			return res.RowsAffected, res.Error
		}
		n, err := bump()
		if err != nil {
			return err
		}
		if n == 0 {
			// First number for this type: start after the existing documents.
			var existing int64
			if err := tx.Model(&models.Document{}).Where("document_type = ?", t).Count(&existing).Error; err != nil {
				return err
			}
			seed := models.DocumentCounter{DocumentType: t, Value: int(existing)}
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&seed).Error; err != nil {
				return err
			}
			if _, err := bump(); err != nil {
				return err
			}
		}
		var c models.DocumentCounter
		if err := tx.First(&c, "document_type = ?", t).Error; err != nil {
			return err
		}
		seq = c.Value
		return nil
	})
	if err != nil {
		return 0, wrapErr(err)
	}
	return seq, nil
}

func (s *Gorm) ListDocuments(ctx context.Context) ([]models.Document, error) {
	var docs []models.Document
	err := s.db.WithContext(ctx).
		Order("document_date desc").
		Order("document_number desc").
		Find(&docs).Error
	if err != nil {
		return nil, wrapErr(err)
	}
	return docs, nil
}
