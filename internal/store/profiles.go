package store

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lancerhub/lancerhub_be/internal/models"
)

func (s *Store) GetProfile(ctx context.Context, id uuid.UUID) (*models.Profile, error) {
	var profile models.Profile
	if err := s.DB.WithContext(ctx).First(&profile, "id = ?", id).Error; err != nil {
		return nil, wrapErr(err, "profile")
	}
	return &profile, nil
}

func (s *Store) GetProfileByEmail(ctx context.Context, email string) (*models.Profile, error) {
	var profile models.Profile
	if err := s.DB.WithContext(ctx).First(&profile, "email = ?", email).Error; err != nil {
		return nil, wrapErr(err, "profile")
	}
	return &profile, nil
}

func (s *Store) InsertProfile(tx *gorm.DB, profile *models.Profile) error {
	if err := tx.Create(profile).Error; err != nil {
		return wrapErr(err, "profile")
	}
	return nil
}

func (s *Store) UpdateProfileFields(tx *gorm.DB, id uuid.UUID, fields map[string]interface{}) error {
	res := tx.Model(&models.Profile{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return wrapErr(res.Error, "profile")
	}
	if res.RowsAffected == 0 {
		return wrapErr(gorm.ErrRecordNotFound, "profile")
	}
	return nil
}
