package models

import (
	"time"

	"github.com/google/uuid"
)

type JobStatus string

const (
	JobStatusOpen       JobStatus = "open"
	JobStatusInProgress JobStatus = "in_progress"
	JobStatusCompleted  JobStatus = "completed"
	JobStatusCancelled  JobStatus = "cancelled"
)

func (s JobStatus) Valid() bool {
	switch s {
	case JobStatusOpen, JobStatusInProgress, JobStatusCompleted, JobStatusCancelled:
		return true
	}
	return false
}

type Job struct {
	ID         uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ClientID   uuid.UUID  `gorm:"type:uuid;not null;index" json:"client_id"`
	CategoryID *uuid.UUID `gorm:"type:uuid;index" json:"category_id,omitempty"`

	Title       string `gorm:"not null" json:"title"`
	Description string `gorm:"type:text;not null" json:"description"`

	BudgetMin *float64   `json:"budget_min,omitempty"`
	BudgetMax *float64   `json:"budget_max,omitempty"`
	Deadline  *time.Time `json:"deadline,omitempty"`

	Status JobStatus `gorm:"type:varchar(20);not null;default:open;index" json:"status"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Client   *Profile     `gorm:"foreignKey:ClientID" json:"client,omitempty"`
	Category *JobCategory `gorm:"foreignKey:CategoryID" json:"job_category,omitempty"`
}
