package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"buyonline/internal/dto"
	"buyonline/internal/infra"
	"buyonline/internal/model"
	"buyonline/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CatalogService is the read side of the catalog. Seller paths check
// ownership, customer paths only ever show active listings, admin paths are
// unfiltered.
type CatalogService interface {
	SellerProducts(ctx context.Context, principal model.Principal) (*dto.ProductListResponse, error)
	SellerProduct(ctx context.Context, principal model.Principal, id uuid.UUID) (*dto.ProductResponse, error)
	CustomerProduct(ctx context.Context, id uuid.UUID) (*dto.ProductResponse, error)
	SellerVariation(ctx context.Context, principal model.Principal, id uuid.UUID) (*dto.VariationResponse, error)
	CustomerVariation(ctx context.Context, id uuid.UUID) (*dto.VariationResponse, error)
	CustomerProductsByCategory(ctx context.Context, categoryID uuid.UUID) (*dto.ProductListResponse, error)
	SimilarProducts(ctx context.Context, productID uuid.UUID) (*dto.ProductListResponse, error)
	AdminProducts(ctx context.Context) (*dto.ProductListResponse, error)
	ExportCatalogPDF(ctx context.Context, w io.Writer) error
}

type catalogService struct {
	products   repository.ProductRepository
	categories repository.CategoryRepository
	variations repository.VariationRepository
	now        func() time.Time
}

func NewCatalogService(
	products repository.ProductRepository,
	categories repository.CategoryRepository,
	variations repository.VariationRepository,
) CatalogService {
	return &catalogService{products: products, categories: categories, variations: variations, now: time.Now}
}

const (
	msgProductUnavailable   = "product is unavailable at the moment, it is either deleted or not active"
	msgVariationUnavailable = "product variation is unavailable at the moment, it is either deleted or not active"
)

// isLeaf reports whether products may be attached to c: it must have a
// parent and no children of its own.
func isLeaf(ctx context.Context, categories repository.CategoryRepository, c *model.Category) (bool, error) {
	if c.IsRoot() {
		return false, nil
	}
	has, err := categories.HasChildren(ctx, c.ID)
	if err != nil {
		return false, fmt.Errorf("category %s children: %w", c.ID, err)
	}
	return !has, nil
}

func activeVariations(list []model.ProductVariation) []model.ProductVariation {
	out := make([]model.ProductVariation, 0, len(list))
	for _, v := range list {
		if v.IsActive() {
			out = append(out, v)
		}
	}
	return out
}

func (s *catalogService) loadProduct(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	p, err := s.products.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("invalid product id, no product found with id %s", id)
		}
		return nil, err
	}
	return p, nil
}

func (s *catalogService) loadVariation(ctx context.Context, id uuid.UUID) (*model.ProductVariation, error) {
	v, err := s.variations.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("invalid product variation id, no product variation found with id %s", id)
		}
		return nil, err
	}
	return v, nil
}

func (s *catalogService) SellerProducts(ctx context.Context, principal model.Principal) (*dto.ProductListResponse, error) {
	list, err := s.products.FindBySeller(ctx, principal.UserID)
	if err != nil {
		return nil, err
	}
	resp := dto.ProductListFromModels(list)
	return &resp, nil
}

func (s *catalogService) SellerProduct(ctx context.Context, principal model.Principal, id uuid.UUID) (*dto.ProductResponse, error) {
	p, err := s.loadProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authorizeOwner(principal, p, "the user trying to access the product is not the creator of the product"); err != nil {
		return nil, err
	}
	if !p.Visible() {
		return nil, badRequest(msgProductUnavailable)
	}
	resp := dto.ProductFromModel(*p, p.Variations)
	return &resp, nil
}

func (s *catalogService) CustomerProduct(ctx context.Context, id uuid.UUID) (*dto.ProductResponse, error) {
	p, err := s.loadProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	if !p.Visible() {
		return nil, badRequest(msgProductUnavailable)
	}
	visible := activeVariations(p.Variations)
	if len(visible) == 0 {
		return nil, badRequest("the selected product has no available variation, please view some other product")
	}
	resp := dto.ProductFromModel(*p, visible)
	return &resp, nil
}

func (s *catalogService) SellerVariation(ctx context.Context, principal model.Principal, id uuid.UUID) (*dto.VariationResponse, error) {
	v, err := s.loadVariation(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authorizeOwner(principal, v, "the user trying to access the product variation is not the creator of the product variation"); err != nil {
		return nil, err
	}
	return s.visibleVariation(v)
}

func (s *catalogService) CustomerVariation(ctx context.Context, id uuid.UUID) (*dto.VariationResponse, error) {
	v, err := s.loadVariation(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.visibleVariation(v)
}

func (s *catalogService) visibleVariation(v *model.ProductVariation) (*dto.VariationResponse, error) {
	if v.Product == nil || !v.Product.Visible() {
		return nil, badRequest(msgProductUnavailable)
	}
	if !v.IsActive() {
		return nil, badRequest(msgVariationUnavailable)
	}
	resp := dto.VariationFromModel(*v)
	return &resp, nil
}

func (s *catalogService) CustomerProductsByCategory(ctx context.Context, categoryID uuid.UUID) (*dto.ProductListResponse, error) {
	products, err := s.productsUnder(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	resp := dto.ProductListFromModels(visibleProducts(products, uuid.Nil))
	return &resp, nil
}

func (s *catalogService) SimilarProducts(ctx context.Context, productID uuid.UUID) (*dto.ProductListResponse, error) {
	p, err := s.loadProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	products, err := s.productsUnder(ctx, p.CategoryID)
	if err != nil {
		return nil, err
	}
	resp := dto.ProductListFromModels(visibleProducts(products, p.ID))
	return &resp, nil
}

// productsUnder lists the products of categoryID when it is a leaf, or of
// every leaf below it otherwise.
func (s *catalogService) productsUnder(ctx context.Context, categoryID uuid.UUID) ([]model.Product, error) {
	c, err := s.categories.FindByID(ctx, categoryID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("invalid category id, no category found with id %s", categoryID)
		}
		return nil, err
	}
	leaf, err := isLeaf(ctx, s.categories, c)
	if err != nil {
		return nil, err
	}
	if leaf {
		return s.products.FindByCategory(ctx, c.ID)
	}

	ids, err := s.categories.FindAllChildIDs(ctx, c.ID)
	if err != nil {
		return nil, err
	}
	var out []model.Product
	for _, id := range ids {
		has, err := s.categories.HasChildren(ctx, id)
		if err != nil {
			return nil, err
		}
		if has {
			continue
		}
		list, err := s.products.FindByCategory(ctx, id)
		if err != nil {
			return nil, err
		}
		out = append(out, list...)
	}
	return out, nil
}

// visibleProducts keeps active products that still have an active variation,
// trimming their variations to the active ones. skip drops one product id.
func visibleProducts(list []model.Product, skip uuid.UUID) []model.Product {
	out := make([]model.Product, 0, len(list))
	for _, p := range list {
		if p.ID == skip || !p.Visible() {
			continue
		}
		p.Variations = activeVariations(p.Variations)
		if len(p.Variations) == 0 {
			continue
		}
		out = append(out, p)
	}
	return out
}

func (s *catalogService) AdminProducts(ctx context.Context) (*dto.ProductListResponse, error) {
	list, err := s.products.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	resp := dto.ProductListFromModels(list)
	return &resp, nil
}

func (s *catalogService) ExportCatalogPDF(ctx context.Context, w io.Writer) error {
	list, err := s.products.FindAll(ctx)
	if err != nil {
		return err
	}
	return infra.RenderCatalogSheet(w, list, s.now())
}
