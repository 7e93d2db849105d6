package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/datatypes"
)

type UserType string

const (
	UserTypeClient     UserType = "client"
	UserTypeFreelancer UserType = "freelancer"
	UserTypeAdmin      UserType = "admin"
)

func (t UserType) Valid() bool {
	switch t {
	case UserTypeClient, UserTypeFreelancer, UserTypeAdmin:
		return true
	}
	return false
}

// Profile is created at first sign-in and never deleted in-app.
type Profile struct {
	ID       uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Email    string    `gorm:"uniqueIndex;not null" json:"email"`
	Password string    `gorm:"not null" json:"-"`

	FullName   *string        `json:"full_name,omitempty"`
	Bio        *string        `gorm:"type:text" json:"bio,omitempty"`
	HourlyRate *float64       `json:"hourly_rate,omitempty"` // freelancer semantics only
	Skills     pq.StringArray `gorm:"type:text[]" json:"skills"`

	UserType UserType `gorm:"type:varchar(20);not null;index" json:"user_type"`

	// Opaque display reference; the API never resolves or validates it.
	ProfileImageURL *string `json:"profile_image_url,omitempty"`

	// Portfolio / social links. { "github": "...", "website": "..." }
	Links datatypes.JSONMap `json:"links,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
