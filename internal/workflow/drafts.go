package workflow

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/lancerhub/lancerhub_be/internal/apperr"
)

type JobDraft struct {
	Title       string
	Description string
	CategoryID  *uuid.UUID
	BudgetMin   *float64
	BudgetMax   *float64
	Deadline    *time.Time
}

func (d JobDraft) Validate() error {
	errs := apperr.Validation("job validation failed")
	if strings.TrimSpace(d.Title) == "" {
		errs.AddField("title", "title is required")
	}
	if strings.TrimSpace(d.Description) == "" {
		errs.AddField("description", "description is required")
	}
	if d.BudgetMin != nil && *d.BudgetMin < 0 {
		errs.AddField("budget_min", "budget must not be negative")
	}
	if d.BudgetMax != nil && *d.BudgetMax < 0 {
		errs.AddField("budget_max", "budget must not be negative")
	}
	if d.BudgetMin != nil && d.BudgetMax != nil && *d.BudgetMin > *d.BudgetMax {
		errs.AddField("budget_min", "minimum budget must not exceed maximum budget")
	}
	if len(errs.Fields) > 0 {
		return errs
	}
	return nil
}

type ProposalDraft struct {
	CoverLetter  string
	ProposedRate float64
	DeliveryTime int
}

func (d ProposalDraft) Validate() error {
	errs := apperr.Validation("proposal validation failed")
	if strings.TrimSpace(d.CoverLetter) == "" {
		errs.AddField("cover_letter", "cover letter is required")
	}
	if d.ProposedRate <= 0 {
		errs.AddField("proposed_rate", "proposed rate must be positive")
	}
	if d.DeliveryTime <= 0 {
		errs.AddField("delivery_time", "delivery time must be a positive number of days")
	}
	if len(errs.Fields) > 0 {
		return errs
	}
	return nil
}

type MessageDraft struct {
	SenderID    uuid.UUID
	RecipientID uuid.UUID
	Content     string
	JobID       *uuid.UUID
	ProposalID  *uuid.UUID
}

func (d MessageDraft) Validate() error {
	errs := apperr.Validation("message validation failed")
	if strings.TrimSpace(d.Content) == "" {
		errs.AddField("content", "message content is required")
	}
	if d.RecipientID == uuid.Nil {
		errs.AddField("recipient_id", "recipient is required")
	}
	if d.RecipientID == d.SenderID {
		errs.AddField("recipient_id", "cannot message yourself")
	}
	if len(errs.Fields) > 0 {
		return errs
	}
	return nil
}

type ProfilePatch struct {
	FullName        *string
	Bio             *string
	HourlyRate      *float64
	Skills          []string
	ProfileImageURL *string
	Links           map[string]interface{}
}

func (p ProfilePatch) Validate() error {
	errs := apperr.Validation("profile validation failed")
	if p.HourlyRate != nil && *p.HourlyRate < 0 {
		errs.AddField("hourly_rate", "hourly rate must not be negative")
	}
	if len(errs.Fields) > 0 {
		return errs
	}
	return nil
}
