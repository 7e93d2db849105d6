package store

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/lancerhub/lancerhub_be/internal/models"
)

// proposal reads resolve the freelancer profile and the parent job with its
// client profile.
func proposalPreloads(q *gorm.DB) *gorm.DB {
	return q.
		Preload("Freelancer").
		Preload("Job").
		Preload("Job.Client").
		Preload("Job.Category")
}

func (s *Store) ListProposalsForJob(ctx context.Context, jobID uuid.UUID) ([]models.Proposal, error) {
	var proposals []models.Proposal
	err := proposalPreloads(s.DB.WithContext(ctx)).
		Where("job_id = ?", jobID).
		Order(defaultOrder).
		Find(&proposals).Error
	if err != nil {
		return nil, wrapErr(err, "proposals")
	}
	return proposals, nil
}

func (s *Store) ListProposalsByFreelancer(ctx context.Context, freelancerID uuid.UUID) ([]models.Proposal, error) {
	var proposals []models.Proposal
	err := proposalPreloads(s.DB.WithContext(ctx)).
		Where("freelancer_id = ?", freelancerID).
		Order(defaultOrder).
		Find(&proposals).Error
	if err != nil {
		return nil, wrapErr(err, "proposals")
	}
	return proposals, nil
}

func (s *Store) GetProposal(ctx context.Context, id uuid.UUID) (*models.Proposal, error) {
	var proposal models.Proposal
	err := proposalPreloads(s.DB.WithContext(ctx)).
		First(&proposal, "id = ?", id).Error
	if err != nil {
		return nil, wrapErr(err, "proposal")
	}
	return &proposal, nil
}

func (s *Store) InsertProposal(tx *gorm.DB, proposal *models.Proposal) error {
	if err := tx.Create(proposal).Error; err != nil {
		return wrapErr(err, "proposal")
	}
	return nil
}

func (s *Store) UpdateProposalStatus(tx *gorm.DB, id uuid.UUID, status models.ProposalStatus) error {
	res := tx.Model(&models.Proposal{}).Where("id = ?", id).Update("status", status)
	if res.Error != nil {
		return wrapErr(res.Error, "proposal")
	}
	if res.RowsAffected == 0 {
		return wrapErr(gorm.ErrRecordNotFound, "proposal")
	}
	return nil
}

func (s *Store) CountProposalsByFreelancer(ctx context.Context, freelancerID uuid.UUID, status models.ProposalStatus) (int64, error) {
	q := s.DB.WithContext(ctx).Model(&models.Proposal{}).
		Where("freelancer_id = ?", freelancerID)
	if status != "" {
		q = q.Where("status = ?", status)
	}

	var n int64
	if err := q.Count(&n).Error; err != nil {
		return 0, wrapErr(err, "proposals")
	}
	return n, nil
}

func (s *Store) GetProposalForUpdate(tx *gorm.DB, id uuid.UUID) (*models.Proposal, error) {
	var proposal models.Proposal
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&proposal, "id = ?", id).Error
	if err != nil {
		return nil, wrapErr(err, "proposal")
	}
	return &proposal, nil
}

// ListJobProposalsForUpdate locks every proposal row on the job so sibling
// rejection and acceptance commit as one unit.
func (s *Store) ListJobProposalsForUpdate(tx *gorm.DB, jobID uuid.UUID) ([]models.Proposal, error) {
	var proposals []models.Proposal
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("job_id = ?", jobID).
		Order(defaultOrder).
		Find(&proposals).Error
	if err != nil {
		return nil, wrapErr(err, "proposals")
	}
	return proposals, nil
}
