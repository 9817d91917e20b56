package service

import (
	"context"

	"buyonline/internal/dto"
	"buyonline/internal/model"
	"buyonline/internal/repository"

	"github.com/google/uuid"
)

// CategoryService exposes the category tree read-only.
type CategoryService interface {
	List(ctx context.Context) ([]dto.CategoryResponse, error)
}

type categoryService struct {
	repo repository.CategoryRepository
}

func NewCategoryService(repo repository.CategoryRepository) CategoryService {
	return &categoryService{repo: repo}
}

func mapCategory(c model.Category, parents map[uuid.UUID]bool) dto.CategoryResponse {
	resp := dto.CategoryResponse{
		ID:             c.ID.String(),
		Name:           c.Name,
		Leaf:           !c.IsRoot() && !parents[c.ID],
		MetadataFields: make([]string, 0, len(c.MetadataFields)),
	}
	if c.ParentID != nil {
		pid := c.ParentID.String()
		resp.ParentID = &pid
	}
	for _, f := range c.MetadataFields {
		resp.MetadataFields = append(resp.MetadataFields, f.Name)
	}
	return resp
}

func (s *categoryService) List(ctx context.Context) ([]dto.CategoryResponse, error) {
	list, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	// One pass for the leaf flags instead of a HasChildren query per node.
	parents := make(map[uuid.UUID]bool, len(list))
	for _, c := range list {
		if c.ParentID != nil {
			parents[*c.ParentID] = true
		}
	}
	result := make([]dto.CategoryResponse, 0, len(list))
	for _, c := range list {
		result = append(result, mapCategory(c, parents))
	}
	return result, nil
}
