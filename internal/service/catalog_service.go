package service

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"

	"mobile-shop/internal/domain"
	"mobile-shop/internal/repository"
)

// PhotoResolver turns a stored photo reference into a URL clients can fetch.
type PhotoResolver interface {
	Resolve(ctx context.Context, ref string) (string, error)
}

// CatalogService is the read-only product surface used by search and the cart.
type CatalogService interface {
	Search(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error)
	// Get fails with domain.ErrMalformedReference or domain.ErrProductNotFound.
	Get(ctx context.Context, id string) (*domain.Product, error)
}

type catalogService struct {
	products repository.ProductRepository
	photos   PhotoResolver
	logger   logrus.FieldLogger
}

// NewCatalogService builds the catalog. photos may be nil, in which case
// references are returned as stored.
func NewCatalogService(products repository.ProductRepository, photos PhotoResolver, logger logrus.FieldLogger) CatalogService {
	if logger == nil {
		logger = logrus.New()
	}
	return &catalogService{
		products: products,
		photos:   photos,
		logger:   logger,
	}
}

func (s *catalogService) Search(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error) {
	if filter.Limit <= 0 {
		filter.Limit = domain.DefaultSearchLimit
	}
	products, err := s.products.Search(ctx, filter)
	if err != nil {
		return nil, err
	}
	for i := range products {
		s.resolvePhotos(ctx, &products[i])
	}
	return products, nil
}

func (s *catalogService) Get(ctx context.Context, id string) (*domain.Product, error) {
	id = strings.TrimSpace(id)
	if !domain.ValidProductID(id) {
		return nil, domain.ErrMalformedReference
	}
	p, err := s.products.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.resolvePhotos(ctx, p)
	return p, nil
}

func (s *catalogService) resolvePhotos(ctx context.Context, p *domain.Product) {
	if s.photos == nil || len(p.Photos) == 0 {
		return
	}
	resolved := make([]string, 0, len(p.Photos))
	for _, ref := range p.Photos {
		url, err := s.photos.Resolve(ctx, ref)
		if err != nil {
			s.logger.WithError(err).WithField("product_id", p.ID).Warn("resolve photo")
			url = ref
		}
		resolved = append(resolved, url)
	}
	p.Photos = resolved
}
