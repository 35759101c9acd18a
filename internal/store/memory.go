package store

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/diewo77/go-crm/internal/models"
	"github.com/diewo77/go-crm/internal/pricing"
	"github.com/google/uuid"
)

// Memory is a process-local Store used when no database is configured and
// in tests. Records are copied on the way in and out.
type Memory struct {
	mu        sync.RWMutex
	clients   map[string]models.Client
	articles  map[string]models.Article
	documents map[string]*models.Document
	counters  map[models.DocumentType]int
	now       func() time.Time
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		clients:   map[string]models.Client{},
		articles:  map[string]models.Article{},
		documents: map[string]*models.Document{},
		counters:  map[models.DocumentType]int{},
		now:       time.Now,
	}
}

func (m *Memory) Ping(ctx context.Context) error { return ctx.Err() }

func (m *Memory) Close() error { return nil }

// --- clients ---

func (m *Memory) CreateClient(ctx context.Context, c *models.Client) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if _, ok := m.clients[c.ID]; ok {
		return fmt.Errorf("client %s already exists", c.ID)
	}
	now := m.now()
	c.CreatedAt, c.UpdatedAt = now, now
	m.clients[c.ID] = *c
	return nil
}

func (m *Memory) GetClient(ctx context.Context, id string) (*models.Client, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.clients[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &c, nil
}

func (m *Memory) ListClients(ctx context.Context) ([]models.Client, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	out := make([]models.Client, 0, len(m.clients))
	for _, c := range m.clients {
		out = append(out, c)
	}
	m.mu.RUnlock()
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *Memory) UpdateClient(ctx context.Context, c *models.Client) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	old, ok := m.clients[c.ID]
	if !ok {
		return ErrNotFound
	}
	c.CreatedAt = old.CreatedAt
	c.UpdatedAt = m.now()
	m.clients[c.ID] = *c
	return nil
}

func (m *Memory) DeleteClient(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.clients[id]; !ok {
		return ErrNotFound
	}
	delete(m.clients, id)
	return nil
}

// --- articles ---

func cloneArticle(a models.Article) models.Article {
	a.Photos = append([]models.ArticlePhoto(nil), a.Photos...)
	a.URLs = append([]string(nil), a.URLs...)
	return a
}

func (m *Memory) CreateArticle(ctx context.Context, a *models.Article) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if _, ok := m.articles[a.ID]; ok {
		return fmt.Errorf("article %s already exists", a.ID)
	}
	now := m.now()
	a.CreatedAt, a.UpdatedAt = now, now
	m.articles[a.ID] = cloneArticle(*a)
	return nil
}

func (m *Memory) GetArticle(ctx context.Context, id string) (*models.Article, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	a, ok := m.articles[id]
	if !ok {
		return nil, ErrNotFound
	}
	a = cloneArticle(a)
	return &a, nil
}

func (m *Memory) ListArticles(ctx context.Context) ([]models.Article, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	out := make([]models.Article, 0, len(m.articles))
	for _, a := range m.articles {
		out = append(out, cloneArticle(a))
	}
	m.mu.RUnlock()
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *Memory) UpdateArticle(ctx context.Context, a *models.Article) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	old, ok := m.articles[a.ID]
	if !ok {
		return ErrNotFound
	}
	a.CreatedAt = old.CreatedAt
	a.UpdatedAt = m.now()
	m.articles[a.ID] = cloneArticle(*a)
	return nil
}

func (m *Memory) DeleteArticle(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.articles[id]; !ok {
		return ErrNotFound
	}
	delete(m.articles, id)
	return nil
}

// --- documents ---

func (m *Memory) GetDocument(ctx context.Context, id string) (*models.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	d, ok := m.documents[id]
	if !ok {
		return nil, ErrNotFound
	}
	return d.Clone(), nil
}

func (m *Memory) CreateDocument(ctx context.Context, d *models.Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	if d.Version == 0 {
		d.Version = 1
	}
	if err := d.Normalize(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.documents[d.ID]; ok {
		return fmt.Errorf("document %s already exists", d.ID)
	}
	for _, other := range m.documents {
		if other.Number == d.Number {
			return fmt.Errorf("document number %s already used", d.Number)
		}
	}
	now := m.now()
	d.CreatedAt, d.UpdatedAt = now, now
	m.documents[d.ID] = d.Clone()
	return nil
}

func (m *Memory) UpdateLines(ctx context.Context, id string, expectedVersion int, lines []models.DocumentLine, totals pricing.Totals) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.documents[id]
	if !ok {
		return 0, ErrNotFound
	}
	if d.Version != expectedVersion {
		return 0, ErrVersionConflict
	}
	next := d.Clone()
	next.Lines = append([]models.DocumentLine{}, lines...)
	totals.Apply(next)
	next.Version++
	next.UpdatedAt = m.now()
	m.documents[id] = next
	return next.Version, nil
}

func (m *Memory) CountByType(ctx context.Context, t models.DocumentType) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.countLocked(t), nil
}

func (m *Memory) countLocked(t models.DocumentType) int64 {
	var n int64
	for _, d := range m.documents {
		if d.Type == t {
			n++
		}
	}
	return n
}

func (m *Memory) NextSequence(ctx context.Context, t models.DocumentType) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.counters[t]
	if !ok {
		cur = int(m.countLocked(t))
	}
	cur++
	m.counters[t] = cur
	return cur, nil
}

func (m *Memory) ListDocuments(ctx context.Context) ([]models.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	out := make([]models.Document, 0, len(m.documents))
	for _, d := range m.documents {
		out = append(out, *d.Clone())
	}
	m.mu.RUnlock()
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Date.Equal(out[j].Date) {
			return out[i].Number > out[j].Number
		}
		return out[i].Date.After(out[j].Date)
	})
	return out, nil
}
