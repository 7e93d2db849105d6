package models

import (
	"time"

	"github.com/google/uuid"
)

// Message is immutable once created; only read_at may be set, exactly once,
// by the recipient.
type Message struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	SenderID    uuid.UUID `gorm:"type:uuid;not null;index" json:"sender_id"`
	RecipientID uuid.UUID `gorm:"type:uuid;not null;index" json:"recipient_id"`

	Content string `gorm:"type:text;not null" json:"content"`

	// Optional context links to the job/proposal the conversation concerns.
	JobID      *uuid.UUID `gorm:"type:uuid;index" json:"job_id,omitempty"`
	ProposalID *uuid.UUID `gorm:"type:uuid;index" json:"proposal_id,omitempty"`

	ReadAt    *time.Time `json:"read_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`

	Sender    *Profile `gorm:"foreignKey:SenderID" json:"sender,omitempty"`
	Recipient *Profile `gorm:"foreignKey:RecipientID" json:"recipient,omitempty"`
}
