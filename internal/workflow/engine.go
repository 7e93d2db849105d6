package workflow

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/lancerhub/lancerhub_be/internal/apperr"
	"github.com/lancerhub/lancerhub_be/internal/models"
)

// Store is the slice of the entity facade the engine drives. Write methods
// take the tx handle handed to the Transact closure so several writes share
// one lock scope.
type Store interface {
	Transact(ctx context.Context, fn func(tx *gorm.DB) error) error

	GetProfile(ctx context.Context, id uuid.UUID) (*models.Profile, error)
	UpdateProfileFields(tx *gorm.DB, id uuid.UUID, fields map[string]interface{}) error

	GetCategory(ctx context.Context, id uuid.UUID) (*models.JobCategory, error)

	GetJob(ctx context.Context, id uuid.UUID) (*models.Job, error)
	InsertJob(tx *gorm.DB, job *models.Job) error
	UpdateJobFields(tx *gorm.DB, id uuid.UUID, fields map[string]interface{}) error
	GetJobForUpdate(tx *gorm.DB, id uuid.UUID) (*models.Job, error)

	GetProposal(ctx context.Context, id uuid.UUID) (*models.Proposal, error)
	InsertProposal(tx *gorm.DB, proposal *models.Proposal) error
	UpdateProposalStatus(tx *gorm.DB, id uuid.UUID, status models.ProposalStatus) error
	GetProposalForUpdate(tx *gorm.DB, id uuid.UUID) (*models.Proposal, error)
	ListJobProposalsForUpdate(tx *gorm.DB, jobID uuid.UUID) ([]models.Proposal, error)

	GetMessage(ctx context.Context, id uuid.UUID) (*models.Message, error)
	InsertMessage(tx *gorm.DB, msg *models.Message) error
	GetMessageForUpdate(tx *gorm.DB, id uuid.UUID) (*models.Message, error)
	MarkMessageRead(tx *gorm.DB, id uuid.UUID, at time.Time) error
}

// Engine runs every mutation: authorization first, then the state-machine
// check, then the write. Status changes execute inside a transaction with
// row locks so concurrent deciders serialize instead of racing.
type Engine struct {
	Store Store
}

func NewEngine(st Store) *Engine {
	return &Engine{Store: st}
}

func (e *Engine) CreateJob(ctx context.Context, actor *models.Profile, draft JobDraft) (*models.Job, error) {
	if err := CanCreateJob(actor); err != nil {
		return nil, err
	}
	if err := draft.Validate(); err != nil {
		return nil, err
	}
	if draft.CategoryID != nil {
		if _, err := e.Store.GetCategory(ctx, *draft.CategoryID); err != nil {
			return nil, err
		}
	}

	job := models.Job{
		ClientID:    actor.ID,
		CategoryID:  draft.CategoryID,
		Title:       draft.Title,
		Description: draft.Description,
		BudgetMin:   draft.BudgetMin,
		BudgetMax:   draft.BudgetMax,
		Deadline:    draft.Deadline,
		Status:      models.JobStatusOpen,
	}
	err := e.Store.Transact(ctx, func(tx *gorm.DB) error {
		return e.Store.InsertJob(tx, &job)
	})
	if err != nil {
		return nil, err
	}
	return e.Store.GetJob(ctx, job.ID)
}

func (e *Engine) UpdateJob(ctx context.Context, actor *models.Profile, id uuid.UUID, draft JobDraft) (*models.Job, error) {
	job, err := e.Store.GetJob(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := CanMutateJob(actor, job); err != nil {
		return nil, err
	}
	if err := draft.Validate(); err != nil {
		return nil, err
	}
	if draft.CategoryID != nil {
		if _, err := e.Store.GetCategory(ctx, *draft.CategoryID); err != nil {
			return nil, err
		}
	}

	fields := map[string]interface{}{
		"title":       draft.Title,
		"description": draft.Description,
		"category_id": draft.CategoryID,
		"budget_min":  draft.BudgetMin,
		"budget_max":  draft.BudgetMax,
		"deadline":    draft.Deadline,
	}
	err = e.Store.Transact(ctx, func(tx *gorm.DB) error {
		return e.Store.UpdateJobFields(tx, id, fields)
	})
	if err != nil {
		return nil, err
	}
	return e.Store.GetJob(ctx, id)
}

// TransitionJob moves a job along its state machine. in_progress is not
// reachable here: it is entered only by accepting a proposal.
func (e *Engine) TransitionJob(ctx context.Context, actor *models.Profile, id uuid.UUID, to models.JobStatus) (*models.Job, error) {
	if to == models.JobStatusInProgress {
		return nil, apperr.Validation("a job enters in_progress by accepting a proposal").
			AddField("status", "in_progress cannot be set directly")
	}

	err := e.Store.Transact(ctx, func(tx *gorm.DB) error {
		job, err := e.Store.GetJobForUpdate(tx, id)
		if err != nil {
			return err
		}
		if err := CanMutateJob(actor, job); err != nil {
			return err
		}
		if err := ValidateJobTransition(job.Status, to); err != nil {
			return err
		}
		return e.Store.UpdateJobFields(tx, id, map[string]interface{}{"status": to})
	})
	if err != nil {
		return nil, err
	}
	return e.Store.GetJob(ctx, id)
}

// CreateProposal locks the job row so a proposal cannot slip in while the
// job is leaving the open state.
func (e *Engine) CreateProposal(ctx context.Context, actor *models.Profile, jobID uuid.UUID, draft ProposalDraft) (*models.Proposal, error) {
	if err := draft.Validate(); err != nil {
		return nil, err
	}

	var proposal models.Proposal
	err := e.Store.Transact(ctx, func(tx *gorm.DB) error {
		job, err := e.Store.GetJobForUpdate(tx, jobID)
		if err != nil {
			return err
		}
		existing, err := e.Store.ListJobProposalsForUpdate(tx, jobID)
		if err != nil {
			return err
		}
		if err := CanCreateProposal(actor, job, existing); err != nil {
			return err
		}

		proposal = models.Proposal{
			JobID:        jobID,
			FreelancerID: actor.ID,
			CoverLetter:  draft.CoverLetter,
			ProposedRate: draft.ProposedRate,
			DeliveryTime: draft.DeliveryTime,
			Status:       models.ProposalStatusPending,
		}
		return e.Store.InsertProposal(tx, &proposal)
	})
	if err != nil {
		return nil, err
	}
	return e.Store.GetProposal(ctx, proposal.ID)
}

// DecideProposal accepts or rejects a pending proposal. Acceptance
// atomically moves the job to in_progress and rejects every sibling pending
// proposal; at most one accepted proposal per job can ever exist.
func (e *Engine) DecideProposal(ctx context.Context, actor *models.Profile, proposalID uuid.UUID, to models.ProposalStatus) (*models.Proposal, error) {
	err := e.Store.Transact(ctx, func(tx *gorm.DB) error {
		proposal, err := e.Store.GetProposalForUpdate(tx, proposalID)
		if err != nil {
			return err
		}
		job, err := e.Store.GetJobForUpdate(tx, proposal.JobID)
		if err != nil {
			return err
		}
		if err := CanDecideProposal(actor, job); err != nil {
			return err
		}
		if err := ValidateProposalTransition(proposal.Status, to); err != nil {
			return err
		}

		if to == models.ProposalStatusRejected {
			return e.Store.UpdateProposalStatus(tx, proposalID, to)
		}

		// Acceptance rides on the job's open -> in_progress edge.
		if err := ValidateJobTransition(job.Status, models.JobStatusInProgress); err != nil {
			return err
		}

		siblings, err := e.Store.ListJobProposalsForUpdate(tx, job.ID)
		if err != nil {
			return err
		}
		if err := e.Store.UpdateProposalStatus(tx, proposalID, models.ProposalStatusAccepted); err != nil {
			return err
		}
		for _, id := range AcceptanceEffects(siblings, proposalID) {
			if err := e.Store.UpdateProposalStatus(tx, id, models.ProposalStatusRejected); err != nil {
				return err
			}
		}
		return e.Store.UpdateJobFields(tx, job.ID, map[string]interface{}{
			"status": models.JobStatusInProgress,
		})
	})
	if err != nil {
		return nil, err
	}
	return e.Store.GetProposal(ctx, proposalID)
}

func (e *Engine) SendMessage(ctx context.Context, actor *models.Profile, draft MessageDraft) (*models.Message, error) {
	if actor == nil {
		return nil, apperr.Unauthorized("sign in required")
	}
	if err := CanSendMessage(actor.ID, draft.SenderID); err != nil {
		return nil, err
	}
	if err := draft.Validate(); err != nil {
		return nil, err
	}
	if _, err := e.Store.GetProfile(ctx, draft.RecipientID); err != nil {
		return nil, err
	}

	var job *models.Job
	if draft.JobID != nil {
		j, err := e.Store.GetJob(ctx, *draft.JobID)
		if err != nil {
			return nil, err
		}
		job = j
	}
	var proposal *models.Proposal
	if draft.ProposalID != nil {
		p, err := e.Store.GetProposal(ctx, *draft.ProposalID)
		if err != nil {
			return nil, err
		}
		proposal = p
	}
	if err := ValidateMessageContext(draft.SenderID, draft.RecipientID, job, proposal); err != nil {
		return nil, err
	}

	msg := models.Message{
		SenderID:    draft.SenderID,
		RecipientID: draft.RecipientID,
		Content:     draft.Content,
		JobID:       draft.JobID,
		ProposalID:  draft.ProposalID,
	}
	err := e.Store.Transact(ctx, func(tx *gorm.DB) error {
		return e.Store.InsertMessage(tx, &msg)
	})
	if err != nil {
		return nil, err
	}
	return e.Store.GetMessage(ctx, msg.ID)
}

func (e *Engine) MarkMessageRead(ctx context.Context, actorID, messageID uuid.UUID) (*models.Message, error) {
	err := e.Store.Transact(ctx, func(tx *gorm.DB) error {
		msg, err := e.Store.GetMessageForUpdate(tx, messageID)
		if err != nil {
			return err
		}
		if err := CanMarkRead(actorID, msg); err != nil {
			return err
		}
		return e.Store.MarkMessageRead(tx, messageID, time.Now().UTC())
	})
	if err != nil {
		return nil, err
	}
	return e.Store.GetMessage(ctx, messageID)
}

func (e *Engine) UpdateProfile(ctx context.Context, actor *models.Profile, targetID uuid.UUID, patch ProfilePatch) (*models.Profile, error) {
	if err := CanUpdateProfile(actor, targetID); err != nil {
		return nil, err
	}
	if err := patch.Validate(); err != nil {
		return nil, err
	}
	if _, err := e.Store.GetProfile(ctx, targetID); err != nil {
		return nil, err
	}

	fields := map[string]interface{}{}
	if patch.FullName != nil {
		fields["full_name"] = *patch.FullName
	}
	if patch.Bio != nil {
		fields["bio"] = *patch.Bio
	}
	if patch.HourlyRate != nil {
		fields["hourly_rate"] = *patch.HourlyRate
	}
	if patch.Skills != nil {
		fields["skills"] = pq.StringArray(patch.Skills)
	}
	if patch.ProfileImageURL != nil {
		fields["profile_image_url"] = *patch.ProfileImageURL
	}
	if patch.Links != nil {
		fields["links"] = datatypes.JSONMap(patch.Links)
	}
	if len(fields) > 0 {
		err := e.Store.Transact(ctx, func(tx *gorm.DB) error {
			return e.Store.UpdateProfileFields(tx, targetID, fields)
		})
		if err != nil {
			return nil, err
		}
	}
	return e.Store.GetProfile(ctx, targetID)
}
