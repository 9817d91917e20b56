package repository

import (
	"context"

	"buyonline/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProductRepository defines the data access contract for products.
// Services depend on this interface so they can be tested with in-memory stubs.
type ProductRepository interface {
	Create(ctx context.Context, p *model.Product) error
	Save(ctx context.Context, p *model.Product) error
	// FindByID preloads the seller, category and variations.
	FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error)
	// LockByID is FindByID under SELECT … FOR UPDATE; call it inside a transaction.
	LockByID(ctx context.Context, id uuid.UUID) (*model.Product, error)
	// FindNameByOwnership returns the name of a product with the same
	// (name, brand, category, seller), or "" when there is none.
	FindNameByOwnership(ctx context.Context, name, brand string, categoryID, sellerID, excludeID uuid.UUID) (string, error)
	FindByCategory(ctx context.Context, categoryID uuid.UUID) ([]model.Product, error)
	FindBySeller(ctx context.Context, sellerID uuid.UUID) ([]model.Product, error)
	FindAll(ctx context.Context) ([]model.Product, error)

	WithTx(tx *gorm.DB) ProductRepository
	// DB exposes the underlying *gorm.DB so services can open transactions.
	DB() *gorm.DB
}

type productRepo struct{ db *gorm.DB }

func NewProductRepository(db *gorm.DB) ProductRepository { return &productRepo{db: db} }

func (r *productRepo) DB() *gorm.DB { return r.db }

func (r *productRepo) WithTx(tx *gorm.DB) ProductRepository {
	if tx == nil {
		return r
	}
	return &productRepo{db: tx}
}

func (r *productRepo) Create(ctx context.Context, p *model.Product) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(p).Error
}

func (r *productRepo) Save(ctx context.Context, p *model.Product) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(p).Error
}

func (r *productRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	var p model.Product
	err := r.db.WithContext(ctx).
		Preload("Seller").
		Preload("Category").
		Preload("Variations", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		First(&p, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *productRepo) LockByID(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	var p model.Product
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&p, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	// Preloads run as separate statements; keep them out of the locking clause.
	var seller model.User
	if err := r.db.WithContext(ctx).First(&seller, "id = ?", p.SellerID).Error; err == nil {
		p.Seller = &seller
	}
	return &p, nil
}

func (r *productRepo) FindNameByOwnership(ctx context.Context, name, brand string, categoryID, sellerID, excludeID uuid.UUID) (string, error) {
	q := r.db.WithContext(ctx).Model(&model.Product{}).
		Where("name = ? AND brand = ? AND category_id = ? AND seller_id = ?", name, brand, categoryID, sellerID)
	if excludeID != uuid.Nil {
		q = q.Where("id <> ?", excludeID)
	}
	var names []string
	if err := q.Limit(1).Pluck("name", &names).Error; err != nil {
		return "", err
	}
	if len(names) == 0 {
		return "", nil
	}
	return names[0], nil
}

func (r *productRepo) FindByCategory(ctx context.Context, categoryID uuid.UUID) ([]model.Product, error) {
	var products []model.Product
	err := r.db.WithContext(ctx).
		Preload("Variations").
		Where("category_id = ?", categoryID).
		Order("name ASC").
		Find(&products).Error
	return products, err
}

func (r *productRepo) FindBySeller(ctx context.Context, sellerID uuid.UUID) ([]model.Product, error) {
	var products []model.Product
	err := r.db.WithContext(ctx).
		Preload("Variations").
		Where("seller_id = ?", sellerID).
		Order("created_at DESC").
		Find(&products).Error
	return products, err
}

func (r *productRepo) FindAll(ctx context.Context) ([]model.Product, error) {
	var products []model.Product
	err := r.db.WithContext(ctx).
		Preload("Seller").
		Preload("Variations").
		Order("created_at DESC").
		Find(&products).Error
	return products, err
}
