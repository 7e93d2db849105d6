package models

import "github.com/google/uuid"

// JobCategory is reference data; the application never mutates it.
type JobCategory struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name        string    `gorm:"uniqueIndex;not null" json:"name"`
	Description *string   `gorm:"type:text" json:"description,omitempty"`
}

func (JobCategory) TableName() string { return "job_categories" }
