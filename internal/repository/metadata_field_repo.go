package repository

import (
	"context"

	"buyonline/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MetadataFieldRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*model.CategoryMetadataField, error)
}

type metadataFieldRepo struct{ db *gorm.DB }

func NewMetadataFieldRepository(db *gorm.DB) MetadataFieldRepository {
	return &metadataFieldRepo{db: db}
}

func (r *metadataFieldRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.CategoryMetadataField, error) {
	var f model.CategoryMetadataField
	if err := r.db.WithContext(ctx).First(&f, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &f, nil
}
