package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/diewo77/go-crm/internal/models"
	"github.com/diewo77/go-crm/internal/pricing"
	"github.com/diewo77/go-crm/internal/store"
	"github.com/diewo77/go-crm/validation"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ArticleInput is the editable part of an article record.
type ArticleInput struct {
	Name              string                `json:"name"`
	ShortDescription  string                `json:"short_description"`
	LongDescription   string                `json:"long_description"`
	WarehouseLocation string                `json:"warehouse_location"`
	UnitPrice         decimal.Decimal       `json:"unit_price"`
	VATRate           decimal.Decimal       `json:"vat_rate"`
	DiscountRate      decimal.Decimal       `json:"discount_rate"`
	Unit              string                `json:"unit"`
	Photos            []models.ArticlePhoto `json:"photos"`
	URLs              []string              `json:"urls"`
}

var maxDiscount = decimal.NewFromInt(100)

// rateMaxPlaces matches the scale of the decimal(5,2) rate columns.
const rateMaxPlaces = 2

func (in *ArticleInput) normalize() {
	in.Name = strings.TrimSpace(in.Name)
	in.Unit = strings.TrimSpace(in.Unit)
	// Blank URL rows are accepted by the form and dropped here.
	urls := []string{}
	for _, u := range in.URLs {
		if u = strings.TrimSpace(u); u != "" {
			urls = append(urls, u)
		}
	}
	in.URLs = urls
	if in.Photos == nil {
		in.Photos = []models.ArticlePhoto{}
	}
}

func (in ArticleInput) validate() error {
	v := validation.Violations{}
	validation.MinLen("name", in.Name, 2, v)
	validation.MinLen("short_description", in.ShortDescription, 5, v)
	validation.Required("unit", in.Unit, v)
	validation.NonNegativeDecimal("unit_price", in.UnitPrice, v)
	validation.NonNegativeDecimal("vat_rate", in.VATRate, v)
	validation.RangeDecimal("discount_rate", in.DiscountRate, decimal.Zero, maxDiscount, v)
	validation.MaxPlaces("unit_price", in.UnitPrice, pricing.CurrencyPlaces, v)
	validation.MaxPlaces("vat_rate", in.VATRate, rateMaxPlaces, v)
	validation.MaxPlaces("discount_rate", in.DiscountRate, rateMaxPlaces, v)
	for i, p := range in.Photos {
		validation.OptionalURL(fmt.Sprintf("photos[%d].url", i), p.URL, v)
	}
	for i, u := range in.URLs {
		validation.OptionalURL(fmt.Sprintf("urls[%d]", i), u, v)
	}
	return invalid(v)
}

func (in ArticleInput) apply(a *models.Article) {
	a.Name = in.Name
	a.ShortDescription = in.ShortDescription
	a.LongDescription = in.LongDescription
	a.WarehouseLocation = in.WarehouseLocation
	a.UnitPrice = in.UnitPrice
	a.VATRate = in.VATRate
	a.DiscountRate = in.DiscountRate
	a.Unit = in.Unit
	a.Photos = in.Photos
	a.URLs = in.URLs
}

type ArticleService struct {
	store store.ArticleStore
	log   *zap.Logger
}

func NewArticleService(s store.ArticleStore, log *zap.Logger) *ArticleService {
	if log == nil {
		log = zap.NewNop()
	}
	return &ArticleService{store: s, log: log}
}

func (s *ArticleService) Create(ctx context.Context, in ArticleInput) (*models.Article, error) {
	in.normalize()
	if err := in.validate(); err != nil {
		return nil, err
	}
	a := &models.Article{}
	in.apply(a)
	if err := s.store.CreateArticle(ctx, a); err != nil {
		return nil, storeErr(err, "article", a.Name)
	}
	s.log.Info("article created", zap.String("article_id", a.ID))
	return a, nil
}

func (s *ArticleService) Get(ctx context.Context, id string) (*models.Article, error) {
	a, err := s.store.GetArticle(ctx, id)
	if err != nil {
		return nil, storeErr(err, "article", id)
	}
	return a, nil
}

// List returns articles ordered by name.
func (s *ArticleService) List(ctx context.Context) ([]models.Article, error) {
	articles, err := s.store.ListArticles(ctx)
	if err != nil {
		return nil, storeErr(err, "articles", "")
	}
	return articles, nil
}

// Update replaces the editable fields of the article. Lines already on
// documents keep the values they were created with.
func (s *ArticleService) Update(ctx context.Context, id string, in ArticleInput) (*models.Article, error) {
	in.normalize()
	if err := in.validate(); err != nil {
		return nil, err
	}
	a, err := s.store.GetArticle(ctx, id)
	if err != nil {
		return nil, storeErr(err, "article", id)
	}
	in.apply(a)
	if err := s.store.UpdateArticle(ctx, a); err != nil {
		return nil, storeErr(err, "article", id)
	}
	s.log.Info("article updated", zap.String("article_id", id))
	return a, nil
}

func (s *ArticleService) Delete(ctx context.Context, id string) error {
	if err := s.store.DeleteArticle(ctx, id); err != nil {
		return storeErr(err, "article", id)
	}
	s.log.Info("article deleted", zap.String("article_id", id))
	return nil
}
