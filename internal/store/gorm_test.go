package store

import (
	"context"
	"testing"
	"time"

	"github.com/diewo77/go-crm/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormLoadsLegacyDraftStatus(t *testing.T) {
	db := openSQLite(t)
	s := NewGorm(db)
	doc := newDoc("c1", models.DocumentTypeQuote, "Q-202401-001", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	doc.ID = "legacy"
	doc.Status = models.DocumentStatusConcept
	require.NoError(t, db.Create(doc).Error)

	got, err := s.GetDocument(context.Background(), "legacy")
	require.NoError(t, err)
	assert.Equal(t, models.DocumentStatusDraft, got.Status)
	assert.True(t, got.IsDraft())
}

func TestGormRejectsMalformedRecord(t *testing.T) {
	db := openSQLite(t)
	s := NewGorm(db)
	doc := newDoc("c1", models.DocumentTypeQuote, "Q-202401-001", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	doc.ID = "broken"
	doc.Status = "archived"
	require.NoError(t, db.Create(doc).Error)

	_, err := s.GetDocument(context.Background(), "broken")
	assert.ErrorIs(t, err, models.ErrMalformedRecord)
}

func TestGormPingAndClose(t *testing.T) {
	s := NewGorm(openSQLite(t))
	require.NoError(t, s.Ping(context.Background()))
	require.NoError(t, s.Close())
	assert.ErrorIs(t, s.Ping(context.Background()), ErrUnavailable)
}
