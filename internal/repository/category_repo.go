package repository

import (
	"context"

	"buyonline/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CategoryRepository is the read side of the category tree the catalog needs.
type CategoryRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*model.Category, error)
	// LockByID loads the category with a row lock held until the surrounding
	// transaction ends.
	LockByID(ctx context.Context, id uuid.UUID) (*model.Category, error)
	// FindAllChildIDs returns every descendant of id, at any depth.
	FindAllChildIDs(ctx context.Context, id uuid.UUID) ([]uuid.UUID, error)
	HasChildren(ctx context.Context, id uuid.UUID) (bool, error)
	// FindAll lists every category by name with its metadata fields.
	FindAll(ctx context.Context) ([]model.Category, error)
	WithTx(tx *gorm.DB) CategoryRepository
}

type categoryRepo struct{ db *gorm.DB }

func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &categoryRepo{db: db}
}

func (r *categoryRepo) WithTx(tx *gorm.DB) CategoryRepository {
	if tx == nil {
		return r
	}
	return &categoryRepo{db: tx}
}

func (r *categoryRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Category, error) {
	var c model.Category
	if err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *categoryRepo) LockByID(ctx context.Context, id uuid.UUID) (*model.Category, error) {
	var c model.Category
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&c, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

const descendantsQuery = `
WITH RECURSIVE tree AS (
    SELECT id FROM categories WHERE parent_id = ?
    UNION ALL
    SELECT c.id FROM categories c JOIN tree t ON c.parent_id = t.id
)
SELECT id FROM tree`

func (r *categoryRepo) FindAllChildIDs(ctx context.Context, id uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).Raw(descendantsQuery, id).Scan(&ids).Error
	return ids, err
}

func (r *categoryRepo) HasChildren(ctx context.Context, id uuid.UUID) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Category{}).Where("parent_id = ?", id).Count(&n).Error
	return n > 0, err
}

func (r *categoryRepo) FindAll(ctx context.Context) ([]model.Category, error) {
	var list []model.Category
	err := r.db.WithContext(ctx).
		Preload("MetadataFields", func(db *gorm.DB) *gorm.DB { return db.Order("name ASC") }).
		Order("name ASC").
		Find(&list).Error
	return list, err
}
