package store

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/lancerhub/lancerhub_be/internal/models"
)

type JobFilter struct {
	Status     models.JobStatus // zero value: any status
	ClientID   *uuid.UUID
	CategoryID *uuid.UUID
}

// ListJobs resolves the category and owning client profile on every row.
func (s *Store) ListJobs(ctx context.Context, f JobFilter) ([]models.Job, error) {
	q := s.DB.WithContext(ctx).
		Preload("Category").
		Preload("Client")

	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.ClientID != nil {
		q = q.Where("client_id = ?", *f.ClientID)
	}
	if f.CategoryID != nil {
		q = q.Where("category_id = ?", *f.CategoryID)
	}

	var jobs []models.Job
	if err := q.Order(defaultOrder).Find(&jobs).Error; err != nil {
		return nil, wrapErr(err, "jobs")
	}
	return jobs, nil
}

func (s *Store) GetJob(ctx context.Context, id uuid.UUID) (*models.Job, error) {
	var job models.Job
	err := s.DB.WithContext(ctx).
		Preload("Category").
		Preload("Client").
		First(&job, "id = ?", id).Error
	if err != nil {
		return nil, wrapErr(err, "job")
	}
	return &job, nil
}

func (s *Store) InsertJob(tx *gorm.DB, job *models.Job) error {
	if err := tx.Create(job).Error; err != nil {
		return wrapErr(err, "job")
	}
	return nil
}

func (s *Store) UpdateJobFields(tx *gorm.DB, id uuid.UUID, fields map[string]interface{}) error {
	res := tx.Model(&models.Job{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return wrapErr(res.Error, "job")
	}
	if res.RowsAffected == 0 {
		return wrapErr(gorm.ErrRecordNotFound, "job")
	}
	return nil
}

func (s *Store) CountJobs(ctx context.Context, f JobFilter) (int64, error) {
	q := s.DB.WithContext(ctx).Model(&models.Job{})
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.ClientID != nil {
		q = q.Where("client_id = ?", *f.ClientID)
	}
	if f.CategoryID != nil {
		q = q.Where("category_id = ?", *f.CategoryID)
	}

	var n int64
	if err := q.Count(&n).Error; err != nil {
		return 0, wrapErr(err, "jobs")
	}
	return n, nil
}

// GetJobForUpdate locks the row for the remainder of the transaction.
func (s *Store) GetJobForUpdate(tx *gorm.DB, id uuid.UUID) (*models.Job, error) {
	var job models.Job
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&job, "id = ?", id).Error
	if err != nil {
		return nil, wrapErr(err, "job")
	}
	return &job, nil
}
