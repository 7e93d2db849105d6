package store

import (
	"context"

	"github.com/google/uuid"

	"github.com/lancerhub/lancerhub_be/internal/models"
)

// Categories are reference data; list order is alphabetical, not temporal.
func (s *Store) ListCategories(ctx context.Context) ([]models.JobCategory, error) {
	var categories []models.JobCategory
	err := s.DB.WithContext(ctx).
		Order("name ASC").
		Find(&categories).Error
	if err != nil {
		return nil, wrapErr(err, "job categories")
	}
	return categories, nil
}

func (s *Store) GetCategory(ctx context.Context, id uuid.UUID) (*models.JobCategory, error) {
	var category models.JobCategory
	if err := s.DB.WithContext(ctx).First(&category, "id = ?", id).Error; err != nil {
		return nil, wrapErr(err, "job category")
	}
	return &category, nil
}
