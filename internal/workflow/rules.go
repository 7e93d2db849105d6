// Package workflow enforces the marketplace's state machines and the
// authorization rules co-located with each mutation. The gate mirrors these
// checks for the UI; this package is the one that counts.
package workflow

import (
	"github.com/google/uuid"

	"github.com/lancerhub/lancerhub_be/internal/apperr"
	"github.com/lancerhub/lancerhub_be/internal/models"
)

// open -> in_progress (proposal accepted) -> completed | cancelled.
// open -> cancelled is the client withdrawing with nothing accepted.
var jobTransitions = map[models.JobStatus][]models.JobStatus{
	models.JobStatusOpen:       {models.JobStatusInProgress, models.JobStatusCancelled},
	models.JobStatusInProgress: {models.JobStatusCompleted, models.JobStatusCancelled},
	models.JobStatusCompleted:  {},
	models.JobStatusCancelled:  {},
}

var proposalTransitions = map[models.ProposalStatus][]models.ProposalStatus{
	models.ProposalStatusPending:  {models.ProposalStatusAccepted, models.ProposalStatusRejected},
	models.ProposalStatusAccepted: {},
	models.ProposalStatusRejected: {},
}

func ValidateJobTransition(from, to models.JobStatus) error {
	if !to.Valid() {
		return apperr.Validation("unknown job status").AddField("status", "unknown status "+string(to))
	}
	for _, next := range jobTransitions[from] {
		if next == to {
			return nil
		}
	}
	return apperr.InvalidTransition("job", string(from), string(to))
}

func ValidateProposalTransition(from, to models.ProposalStatus) error {
	if !to.Valid() {
		return apperr.Validation("unknown proposal status").AddField("status", "unknown status "+string(to))
	}
	for _, next := range proposalTransitions[from] {
		if next == to {
			return nil
		}
	}
	return apperr.InvalidTransition("proposal", string(from), string(to))
}

func isAdmin(actor *models.Profile) bool {
	return actor != nil && actor.UserType == models.UserTypeAdmin
}

// CanCreateJob: only clients post jobs.
func CanCreateJob(actor *models.Profile) error {
	if actor == nil || actor.UserType != models.UserTypeClient {
		return apperr.Unauthorized("only clients can post jobs")
	}
	return nil
}

// CanMutateJob: the owning client, or an admin.
func CanMutateJob(actor *models.Profile, job *models.Job) error {
	if actor == nil {
		return apperr.Unauthorized("sign in required")
	}
	if actor.ID == job.ClientID || isAdmin(actor) {
		return nil
	}
	return apperr.Unauthorized("only the job owner can modify this job")
}

// CanCreateProposal checks the actor's role, the job's state and the
// one-live-proposal-per-freelancer rule, in that order.
func CanCreateProposal(actor *models.Profile, job *models.Job, existing []models.Proposal) error {
	if actor == nil || actor.UserType != models.UserTypeFreelancer {
		return apperr.Unauthorized("only freelancers can submit proposals")
	}
	if job.Status != models.JobStatusOpen {
		return apperr.New(apperr.KindJobNotOpen,
			"proposals can only be submitted while the job is open (current status: "+string(job.Status)+")")
	}
	for _, p := range existing {
		if p.FreelancerID == actor.ID &&
			(p.Status == models.ProposalStatusPending || p.Status == models.ProposalStatusAccepted) {
			return apperr.New(apperr.KindDuplicateProposal,
				"you already have an active proposal on this job")
		}
	}
	return nil
}

// CanDecideProposal: accepting or rejecting is the job owner's call.
func CanDecideProposal(actor *models.Profile, job *models.Job) error {
	if actor == nil {
		return apperr.Unauthorized("sign in required")
	}
	if actor.ID == job.ClientID || isAdmin(actor) {
		return nil
	}
	return apperr.Unauthorized("only the job's client can decide proposals")
}

// AcceptanceEffects lists the sibling proposals that must flip to rejected
// when target is accepted: every other pending proposal on the job.
func AcceptanceEffects(siblings []models.Proposal, targetID uuid.UUID) []uuid.UUID {
	var rejected []uuid.UUID
	for _, p := range siblings {
		if p.ID != targetID && p.Status == models.ProposalStatusPending {
			rejected = append(rejected, p.ID)
		}
	}
	return rejected
}

// CanSendMessage: the caller must be the identified sender. Any
// authenticated profile may message any other; there is deliberately no
// contact-list restriction.
func CanSendMessage(actorID, senderID uuid.UUID) error {
	if actorID != senderID {
		return apperr.Unauthorized("messages can only be sent as yourself")
	}
	return nil
}

// CanMarkRead: read_at is set exactly once, by the recipient.
func CanMarkRead(actorID uuid.UUID, msg *models.Message) error {
	if actorID != msg.RecipientID {
		return apperr.Unauthorized("only the recipient can mark a message as read")
	}
	if msg.ReadAt != nil {
		return apperr.Validation("message is already marked as read")
	}
	return nil
}

// ValidateMessageContext checks that context links, if present, reference
// entities one of the participants has a legitimate relationship to: the
// job's client, or the proposal's freelancer.
func ValidateMessageContext(senderID, recipientID uuid.UUID, job *models.Job, proposal *models.Proposal) error {
	party := func(id uuid.UUID) bool { return id == senderID || id == recipientID }

	if job != nil && !party(job.ClientID) {
		return apperr.Unauthorized("neither participant is party to the linked job")
	}
	if proposal != nil {
		ok := party(proposal.FreelancerID)
		if !ok && proposal.Job != nil {
			ok = party(proposal.Job.ClientID)
		}
		if !ok {
			return apperr.Unauthorized("neither participant is party to the linked proposal")
		}
	}
	return nil
}

// CanUpdateProfile: a profile is mutated only by its owner or an admin.
func CanUpdateProfile(actor *models.Profile, targetID uuid.UUID) error {
	if actor == nil {
		return apperr.Unauthorized("sign in required")
	}
	if actor.ID == targetID || isAdmin(actor) {
		return nil
	}
	return apperr.Unauthorized("profiles can only be edited by their owner")
}
