package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/diewo77/go-crm/internal/models"
	"github.com/diewo77/go-crm/internal/pricing"
	"github.com/diewo77/go-crm/internal/store"
	"github.com/diewo77/go-crm/validation"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// UnknownClient is shown for documents whose client no longer exists.
const UnknownClient = "Unknown Client"

// DefaultMaxRetries bounds optimistic retries of a line mutation.
const DefaultMaxRetries = 5

// DocumentService creates documents and edits their lines. Every line
// mutation recomputes the totals over the full line list and stores both in
// one versioned write.
type DocumentService struct {
	docs     store.DocumentStore
	clients  store.ClientStore
	articles store.ArticleStore

	log        *zap.Logger
	now        func() time.Time
	newID      func() string
	maxRetries int
}

// DocumentOption customizes a DocumentService.
type DocumentOption func(*DocumentService)

// WithClock replaces time.Now, which dates documents and picks the number period.
func WithClock(now func() time.Time) DocumentOption {
	return func(s *DocumentService) { s.now = now }
}

func WithLogger(log *zap.Logger) DocumentOption {
	return func(s *DocumentService) { s.log = log }
}

// WithMaxRetries sets the attempts made when a document write conflicts.
func WithMaxRetries(n int) DocumentOption {
	return func(s *DocumentService) {
		if n > 0 {
			s.maxRetries = n
		}
	}
}

// WithLineIDs replaces the line id generator.
func WithLineIDs(newID func() string) DocumentOption {
	return func(s *DocumentService) { s.newID = newID }
}

func NewDocumentService(docs store.DocumentStore, clients store.ClientStore, articles store.ArticleStore, opts ...DocumentOption) *DocumentService {
	s := &DocumentService{
		docs:       docs,
		clients:    clients,
		articles:   articles,
		log:        zap.NewNop(),
		now:        time.Now,
		newID:      uuid.NewString,
		maxRetries: DefaultMaxRetries,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// FormatNumber renders a document number such as Q-202303-005.
func FormatNumber(t models.DocumentType, at time.Time, seq int) string {
	return fmt.Sprintf("%s-%04d%02d-%03d", t.Prefix(), at.Year(), int(at.Month()), seq)
}

// CreateDocument starts an empty draft of type t for the client.
func (s *DocumentService) CreateDocument(ctx context.Context, clientID string, t models.DocumentType) (*models.Document, error) {
	v := validation.Violations{}
	validation.Required("client_id", clientID, v)
	validation.OneOf("document_type", string(t), names(models.DocumentTypes), v)
	if err := invalid(v); err != nil {
		return nil, err
	}

	client, err := s.clients.GetClient(ctx, clientID)
	if err != nil {
		return nil, storeErr(err, "client", clientID)
	}

	seq, err := s.docs.NextSequence(ctx, t)
	if err != nil {
		return nil, storeErr(err, "counter", string(t))
	}
	now := s.now()
	doc := &models.Document{
		ClientID: client.ID,
		Type:     t,
		Number:   FormatNumber(t, now, seq),
		Date:     now,
		Status:   models.DocumentStatusDraft,
		Lines:    []models.DocumentLine{},
	}
	pricing.Aggregate(nil).Apply(doc)
	if err := s.docs.CreateDocument(ctx, doc); err != nil {
		return nil, storeErr(err, "document", doc.Number)
	}
	doc.ClientName = client.Name

	s.log.Info("document created",
		zap.String("document_id", doc.ID),
		zap.String("number", doc.Number),
		zap.String("type", string(t)),
		zap.String("client_id", clientID))
	return doc, nil
}

// AddLine appends quantity units of an article to a document.
func (s *DocumentService) AddLine(ctx context.Context, documentID, articleID string, quantity int) (*models.Document, error) {
	v := validation.Violations{}
	validation.Required("document_id", documentID, v)
	validation.Required("article_id", articleID, v)
	validation.MinInt("quantity", quantity, 1, v)
	if err := invalid(v); err != nil {
		return nil, err
	}

	doc, err := s.load(ctx, documentID)
	if err != nil {
		return nil, err
	}
	article, err := s.articles.GetArticle(ctx, articleID)
	if err != nil {
		return nil, storeErr(err, "article", articleID)
	}
	line, err := pricing.NewLine(s.newID(), pricing.SnapshotOf(article), quantity)
	if err != nil {
		return nil, &ValidationError{Violations: validation.Violations{"quantity": "too_small"}}
	}

	doc, err = s.mutateLines(ctx, doc, func(lines []models.DocumentLine) []models.DocumentLine {
		return append(lines, line)
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("document line added",
		zap.String("document_id", documentID),
		zap.String("line_id", line.ID),
		zap.String("article_id", articleID),
		zap.Int("quantity", quantity),
		zap.String("total", doc.Total.StringFixed(pricing.CurrencyPlaces)))
	return doc, nil
}

// RemoveLine drops the line with lineID. An unknown line id removes nothing,
// but totals are still recomputed and stored.
func (s *DocumentService) RemoveLine(ctx context.Context, documentID, lineID string) (*models.Document, error) {
	v := validation.Violations{}
	validation.Required("document_id", documentID, v)
	if err := invalid(v); err != nil {
		return nil, err
	}

	doc, err := s.load(ctx, documentID)
	if err != nil {
		return nil, err
	}
	present := doc.FindLine(lineID) >= 0
	doc, err = s.mutateLines(ctx, doc, func(lines []models.DocumentLine) []models.DocumentLine {
		kept := lines[:0]
		for _, l := range lines {
			if l.ID != lineID {
				kept = append(kept, l)
			}
		}
		return kept
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("document line removed",
		zap.String("document_id", documentID),
		zap.String("line_id", lineID),
		zap.Bool("present", present),
		zap.String("total", doc.Total.StringFixed(pricing.CurrencyPlaces)))
	return doc, nil
}

// GetDocument returns a document with its client name.
func (s *DocumentService) GetDocument(ctx context.Context, id string) (*models.Document, error) {
	doc, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	name, err := s.clientName(ctx, doc.ClientID)
	if err != nil {
		return nil, err
	}
	doc.ClientName = name
	return doc, nil
}

// ListDocuments returns every document, newest first, with client names.
func (s *DocumentService) ListDocuments(ctx context.Context) ([]models.Document, error) {
	docs, err := s.docs.ListDocuments(ctx)
	if err != nil {
		return nil, storeErr(err, "documents", "")
	}

	seen := map[string]bool{}
	var ids []string
	for _, d := range docs {
		if !seen[d.ClientID] {
			seen[d.ClientID] = true
			ids = append(ids, d.ClientID)
		}
	}
	names := make(map[string]string, len(ids))
	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(8)
	for _, id := range ids {
		g.Go(func() error {
			name, err := s.clientName(gctx, id)
			if err != nil {
				return err
			}
			mu.Lock()
			names[id] = name
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	for i := range docs {
		docs[i].ClientName = names[docs[i].ClientID]
	}
	return docs, nil
}

func (s *DocumentService) load(ctx context.Context, id string) (*models.Document, error) {
	doc, err := s.docs.GetDocument(ctx, id)
	if err != nil {
		return nil, storeErr(err, "document", id)
	}
	return doc, nil
}

func (s *DocumentService) clientName(ctx context.Context, id string) (string, error) {
	c, err := s.clients.GetClient(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return UnknownClient, nil
	}
	if err != nil {
		return "", storeErr(err, "client", id)
	}
	return c.Name, nil
}

// mutateLines applies edit to the line list of doc and writes the result
// together with its totals. On a version conflict the document is re-read
// and edit is applied again.
func (s *DocumentService) mutateLines(ctx context.Context, doc *models.Document, edit func([]models.DocumentLine) []models.DocumentLine) (*models.Document, error) {
	for attempt := 1; ; attempt++ {
		next := doc.Clone()
		next.Lines = edit(next.Lines)
		if next.Lines == nil {
			next.Lines = []models.DocumentLine{}
		}
		totals := pricing.Aggregate(next.Lines)

		version, err := s.docs.UpdateLines(ctx, doc.ID, doc.Version, next.Lines, totals)
		if err == nil {
			totals.Apply(next)
			next.Version = version
			if name, err := s.clientName(ctx, next.ClientID); err == nil {
				next.ClientName = name
			}
			return next, nil
		}
		if !errors.Is(err, store.ErrVersionConflict) {
			return nil, storeErr(err, "document", doc.ID)
		}
		if attempt >= s.maxRetries {
			s.log.Warn("document write conflict, giving up",
				zap.String("document_id", doc.ID),
				zap.Int("attempts", attempt))
			return nil, &ConflictError{DocumentID: doc.ID, Attempts: attempt}
		}
		s.log.Debug("document write conflict, retrying",
			zap.String("document_id", doc.ID),
			zap.Int("attempt", attempt))
		if doc, err = s.load(ctx, doc.ID); err != nil {
			return nil, err
		}
	}
}
