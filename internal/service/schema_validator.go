package service

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"buyonline/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AttributeSchemaValidator checks a variation's attribute keys against the
// metadata fields registered for its category.
type AttributeSchemaValidator interface {
	// Validate succeeds only when keys is exactly the set of field names
	// registered for categoryID. Name matching is case-sensitive.
	Validate(ctx context.Context, categoryID uuid.UUID, keys []string) error
}

type schemaValidator struct {
	variations repository.VariationRepository
	fields     repository.MetadataFieldRepository
}

func NewAttributeSchemaValidator(variations repository.VariationRepository, fields repository.MetadataFieldRepository) AttributeSchemaValidator {
	return &schemaValidator{variations: variations, fields: fields}
}

func (v *schemaValidator) Validate(ctx context.Context, categoryID uuid.UUID, keys []string) error {
	candidate := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		candidate[k] = struct{}{}
	}
	if len(candidate) == 0 {
		return badRequest("at least one metadata field value is required, and every variation of a product must use the same format")
	}

	ids, err := v.variations.FindMetadataFieldIDsForCategory(ctx, categoryID)
	if err != nil {
		return fmt.Errorf("schema: load field ids: %w", err)
	}
	if len(candidate) != len(ids) {
		return badRequest("the variation's metadata field values do not match the structure of the category")
	}

	registered := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		f, err := v.fields.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("schema: metadata field %s vanished", id)
			}
			return fmt.Errorf("schema: load field %s: %w", id, err)
		}
		registered[f.Name] = struct{}{}
	}
	// Two fields sharing a name would let a smaller key set pass the count check.
	if len(registered) < len(ids) {
		return badRequest("the category registers the same metadata field name more than once")
	}

	sorted := make([]string, 0, len(candidate))
	for k := range candidate {
		sorted = append(sorted, k)
	}
	sort.Strings(sorted)
	for _, k := range sorted {
		if _, ok := registered[k]; !ok {
			return badRequest("wrong metadata field name %q", k)
		}
	}
	return nil
}
