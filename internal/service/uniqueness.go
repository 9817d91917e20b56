package service

import (
	"context"
	"fmt"

	"buyonline/internal/model"
	"buyonline/internal/repository"

	"github.com/google/uuid"
)

// UniquenessChecker runs the duplicate-listing lookups that must pass before
// a product or variation is written. Pass uuid.Nil as excludeID on create;
// on update pass the entity's own id so it never collides with itself.
type UniquenessChecker interface {
	CheckProduct(ctx context.Context, name, brand string, categoryID, sellerID, excludeID uuid.UUID) error
	CheckVariationAttributes(ctx context.Context, productID uuid.UUID, candidate model.Attributes, excludeID uuid.UUID) error
	CheckVariationName(ctx context.Context, productID uuid.UUID, name string, excludeID uuid.UUID) error
}

type uniquenessChecker struct {
	products   repository.ProductRepository
	variations repository.VariationRepository
}

func NewUniquenessChecker(products repository.ProductRepository, variations repository.VariationRepository) UniquenessChecker {
	return &uniquenessChecker{products: products, variations: variations}
}

func (c *uniquenessChecker) CheckProduct(ctx context.Context, name, brand string, categoryID, sellerID, excludeID uuid.UUID) error {
	existing, err := c.products.FindNameByOwnership(ctx, name, brand, categoryID, sellerID, excludeID)
	if err != nil {
		return fmt.Errorf("uniqueness: product lookup: %w", err)
	}
	if existing != "" && existing == name {
		return badRequest("you already list a %s product named %q in this category, try some other name", brand, name)
	}
	return nil
}

func (c *uniquenessChecker) CheckVariationAttributes(ctx context.Context, productID uuid.UUID, candidate model.Attributes, excludeID uuid.UUID) error {
	stored, err := c.variations.FindAllAttributesForProduct(ctx, productID)
	if err != nil {
		return fmt.Errorf("uniqueness: attribute lookup: %w", err)
	}
	for _, enc := range stored {
		if enc.VariationID == excludeID {
			continue
		}
		attrs, err := model.DecodeAttributes(enc.Raw)
		if err != nil {
			return fmt.Errorf("uniqueness: variation %s: %w", enc.VariationID, err)
		}
		if attrs.Equal(candidate) {
			return badRequest("a variation with these attributes already exists for this product, try some other variation")
		}
	}
	return nil
}

func (c *uniquenessChecker) CheckVariationName(ctx context.Context, productID uuid.UUID, name string, excludeID uuid.UUID) error {
	list, err := c.variations.FindByNameAndProduct(ctx, name, productID)
	if err != nil {
		return fmt.Errorf("uniqueness: variation name lookup: %w", err)
	}
	for _, v := range list {
		if v.ID != excludeID {
			return badRequest("a variation named %q already exists for this product", name)
		}
	}
	return nil
}
