package service

import (
	"context"
	"errors"
	"strings"

	"buyonline/internal/dto"
	"buyonline/internal/model"
	"buyonline/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// VariationService creates and updates the purchasable variations of a
// seller's active products. Every check runs before the single write.
type VariationService interface {
	Create(ctx context.Context, principal model.Principal, productID uuid.UUID, req dto.CreateVariationRequest) (*dto.VariationResponse, error)
	Update(ctx context.Context, principal model.Principal, id uuid.UUID, req dto.UpdateVariationRequest) (*dto.VariationResponse, error)
}

type variationService struct {
	products   repository.ProductRepository
	variations repository.VariationRepository
	fields     repository.MetadataFieldRepository
}

func NewVariationService(
	products repository.ProductRepository,
	variations repository.VariationRepository,
	fields repository.MetadataFieldRepository,
) VariationService {
	return &variationService{products: products, variations: variations, fields: fields}
}

func (s *variationService) Create(ctx context.Context, principal model.Principal, productID uuid.UUID, req dto.CreateVariationRequest) (*dto.VariationResponse, error) {
	var variation model.ProductVariation
	txErr := runTx(ctx, s.products.DB(), func(tx *gorm.DB) error {
		products := s.products.WithTx(tx)
		variations := s.variations.WithTx(tx)

		// Locking the parent serializes variation writes per product.
		p, err := products.LockByID(ctx, productID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFound("invalid product id, product not found with id %s", productID)
			}
			return err
		}
		if p.IsDeleted() {
			return badRequest("can't add the product variation as the product is deleted")
		}
		if !p.IsActive() {
			return badRequest("can't add the product variation as the product is not activated by the admin")
		}
		if err := authorizeOwner(principal, p, "product "+p.Name+" is not associated with the logged in seller "+principal.Email); err != nil {
			return err
		}

		unique := NewUniquenessChecker(products, variations)
		if err := unique.CheckVariationAttributes(ctx, p.ID, req.Attributes, uuid.Nil); err != nil {
			return err
		}
		if err := NewAttributeSchemaValidator(variations, s.fields).Validate(ctx, p.CategoryID, req.Attributes.Keys()); err != nil {
			return err
		}

		var name string
		if req.VariantName != nil {
			name = strings.TrimSpace(*req.VariantName)
		}
		if name != "" {
			if err := unique.CheckVariationName(ctx, p.ID, name, uuid.Nil); err != nil {
				return err
			}
		}
		if req.QuantityAvailable <= 0 {
			return badRequest("quantity should be greater than 0")
		}
		if !req.Price.IsPositive() {
			return badRequest("price should be greater than 0")
		}

		variation = model.ProductVariation{
			ProductID:         p.ID,
			VariantName:       name,
			Attributes:        req.Attributes,
			QuantityAvailable: req.QuantityAvailable,
			Price:             req.Price,
			State:             model.StateActive,
		}
		return variations.Create(ctx, &variation)
	})
	if txErr != nil {
		return nil, txErr
	}

	log.Info().
		Str("variation_id", variation.ID.String()).
		Str("product_id", productID.String()).
		Msg("catalog: variation created")
	resp := dto.VariationFromModel(variation)
	return &resp, nil
}

func (s *variationService) Update(ctx context.Context, principal model.Principal, id uuid.UUID, req dto.UpdateVariationRequest) (*dto.VariationResponse, error) {
	var variation *model.ProductVariation
	txErr := runTx(ctx, s.products.DB(), func(tx *gorm.DB) error {
		products := s.products.WithTx(tx)
		variations := s.variations.WithTx(tx)

		v, err := variations.LockByID(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFound("invalid product variation id, no record found with id %s", id)
			}
			return err
		}
		if err := authorizeOwner(principal, v, "can't update this product variation as it is not listed by you"); err != nil {
			return err
		}
		if v.IsDeleted() {
			return badRequest("can't update this product variation as it is deleted")
		}
		if !v.IsActive() {
			return badRequest("can't update the variation %s as it is not active", v.VariantName)
		}

		unique := NewUniquenessChecker(products, variations)
		if req.VariantName != nil {
			name := strings.TrimSpace(*req.VariantName)
			if name == "" {
				return badRequest("variant name can't be blank")
			}
			if name != v.VariantName {
				if err := unique.CheckVariationName(ctx, v.ProductID, name, v.ID); err != nil {
					return err
				}
			}
			v.VariantName = name
		}
		if len(req.Attributes) > 0 {
			if err := unique.CheckVariationAttributes(ctx, v.ProductID, req.Attributes, v.ID); err != nil {
				return err
			}
			if err := NewAttributeSchemaValidator(variations, s.fields).Validate(ctx, v.Product.CategoryID, req.Attributes.Keys()); err != nil {
				return err
			}
			v.Attributes = req.Attributes
		}
		if req.QuantityAvailable != nil {
			if *req.QuantityAvailable < 0 {
				return badRequest("quantity can't be negative")
			}
			v.QuantityAvailable = *req.QuantityAvailable
		}
		if req.Price != nil {
			if !req.Price.IsPositive() {
				return badRequest("price should be greater than 0")
			}
			v.Price = *req.Price
		}

		variation = v
		return variations.Save(ctx, v)
	})
	if txErr != nil {
		return nil, txErr
	}

	resp := dto.VariationFromModel(*variation)
	return &resp, nil
}
