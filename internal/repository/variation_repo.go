package repository

import (
	"context"

	"buyonline/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// VariationRepository defines the data access contract for product variations.
type VariationRepository interface {
	Create(ctx context.Context, v *model.ProductVariation) error
	Save(ctx context.Context, v *model.ProductVariation) error
	// FindByID preloads the parent product and its seller.
	FindByID(ctx context.Context, id uuid.UUID) (*model.ProductVariation, error)
	// LockByID is FindByID under SELECT … FOR UPDATE; call it inside a transaction.
	LockByID(ctx context.Context, id uuid.UUID) (*model.ProductVariation, error)
	FindAllAttributesForProduct(ctx context.Context, productID uuid.UUID) ([]model.EncodedAttributes, error)
	FindMetadataFieldIDsForCategory(ctx context.Context, categoryID uuid.UUID) ([]uuid.UUID, error)
	FindByNameAndProduct(ctx context.Context, name string, productID uuid.UUID) ([]model.ProductVariation, error)
	FindAllForProduct(ctx context.Context, productID uuid.UUID) ([]model.ProductVariation, error)

	WithTx(tx *gorm.DB) VariationRepository
}

type variationRepo struct{ db *gorm.DB }

func NewVariationRepository(db *gorm.DB) VariationRepository { return &variationRepo{db: db} }

func (r *variationRepo) WithTx(tx *gorm.DB) VariationRepository {
	if tx == nil {
		return r
	}
	return &variationRepo{db: tx}
}

func (r *variationRepo) Create(ctx context.Context, v *model.ProductVariation) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(v).Error
}

func (r *variationRepo) Save(ctx context.Context, v *model.ProductVariation) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(v).Error
}

func (r *variationRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.ProductVariation, error) {
	var v model.ProductVariation
	err := r.db.WithContext(ctx).Preload("Product.Seller").First(&v, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *variationRepo) LockByID(ctx context.Context, id uuid.UUID) (*model.ProductVariation, error) {
	var v model.ProductVariation
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&v, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	var p model.Product
	if err := r.db.WithContext(ctx).First(&p, "id = ?", v.ProductID).Error; err != nil {
		return nil, err
	}
	v.Product = &p
	return &v, nil
}

func (r *variationRepo) FindAllAttributesForProduct(ctx context.Context, productID uuid.UUID) ([]model.EncodedAttributes, error) {
	var rows []struct {
		ID         uuid.UUID
		Attributes []byte
	}
	err := r.db.WithContext(ctx).Model(&model.ProductVariation{}).
		Select("id, attributes").
		Where("product_id = ?", productID).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]model.EncodedAttributes, 0, len(rows))
	for _, row := range rows {
		out = append(out, model.EncodedAttributes{VariationID: row.ID, Raw: row.Attributes})
	}
	return out, nil
}

func (r *variationRepo) FindMetadataFieldIDsForCategory(ctx context.Context, categoryID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).Model(&model.CategoryMetadataField{}).
		Where("category_id = ?", categoryID).
		Pluck("id", &ids).Error
	return ids, err
}

func (r *variationRepo) FindByNameAndProduct(ctx context.Context, name string, productID uuid.UUID) ([]model.ProductVariation, error) {
	var list []model.ProductVariation
	err := r.db.WithContext(ctx).
		Where("variant_name = ? AND product_id = ?", name, productID).
		Find(&list).Error
	return list, err
}

func (r *variationRepo) FindAllForProduct(ctx context.Context, productID uuid.UUID) ([]model.ProductVariation, error) {
	var list []model.ProductVariation
	err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("created_at ASC").
		Find(&list).Error
	return list, err
}
