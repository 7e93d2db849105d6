package models

import (
	"time"

	"github.com/google/uuid"
)

type ProposalStatus string

const (
	ProposalStatusPending  ProposalStatus = "pending"
	ProposalStatusAccepted ProposalStatus = "accepted"
	ProposalStatusRejected ProposalStatus = "rejected"
)

func (s ProposalStatus) Valid() bool {
	switch s {
	case ProposalStatusPending, ProposalStatusAccepted, ProposalStatusRejected:
		return true
	}
	return false
}

// Proposal invariant: at most one accepted proposal per job.
type Proposal struct {
	ID           uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	JobID        uuid.UUID `gorm:"type:uuid;not null;index" json:"job_id"`
	FreelancerID uuid.UUID `gorm:"type:uuid;not null;index" json:"freelancer_id"`

	CoverLetter  string  `gorm:"type:text;not null" json:"cover_letter"`
	ProposedRate float64 `gorm:"not null" json:"proposed_rate"`
	DeliveryTime int     `gorm:"not null" json:"delivery_time"` // days

	Status ProposalStatus `gorm:"type:varchar(20);not null;default:pending;index" json:"status"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Job        *Job     `gorm:"foreignKey:JobID" json:"job,omitempty"`
	Freelancer *Profile `gorm:"foreignKey:FreelancerID" json:"freelancer,omitempty"`
}
