package workflow

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/lancerhub/lancerhub_be/internal/apperr"
	"github.com/lancerhub/lancerhub_be/internal/models"
)

func client() *models.Profile {
	return &models.Profile{ID: uuid.New(), UserType: models.UserTypeClient}
}

func freelancer() *models.Profile {
	return &models.Profile{ID: uuid.New(), UserType: models.UserTypeFreelancer}
}

func admin() *models.Profile {
	return &models.Profile{ID: uuid.New(), UserType: models.UserTypeAdmin}
}

func TestValidateJobTransition(t *testing.T) {
	allowed := map[models.JobStatus][]models.JobStatus{
		models.JobStatusOpen:       {models.JobStatusInProgress, models.JobStatusCancelled},
		models.JobStatusInProgress: {models.JobStatusCompleted, models.JobStatusCancelled},
	}
	all := []models.JobStatus{
		models.JobStatusOpen,
		models.JobStatusInProgress,
		models.JobStatusCompleted,
		models.JobStatusCancelled,
	}

	for _, from := range all {
		for _, to := range all {
			ok := false
			for _, next := range allowed[from] {
				if next == to {
					ok = true
				}
			}
			err := ValidateJobTransition(from, to)
			if ok {
				assert.NoError(t, err, "%s -> %s", from, to)
			} else {
				assert.True(t, apperr.IsKind(err, apperr.KindInvalidTransition), "%s -> %s", from, to)
			}
		}
	}

	err := ValidateJobTransition(models.JobStatusOpen, "archived")
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
}

func TestValidateProposalTransition(t *testing.T) {
	assert.NoError(t, ValidateProposalTransition(models.ProposalStatusPending, models.ProposalStatusAccepted))
	assert.NoError(t, ValidateProposalTransition(models.ProposalStatusPending, models.ProposalStatusRejected))

	// decided proposals are terminal
	for _, from := range []models.ProposalStatus{models.ProposalStatusAccepted, models.ProposalStatusRejected} {
		for _, to := range []models.ProposalStatus{models.ProposalStatusPending, models.ProposalStatusAccepted, models.ProposalStatusRejected} {
			err := ValidateProposalTransition(from, to)
			assert.True(t, apperr.IsKind(err, apperr.KindInvalidTransition), "%s -> %s", from, to)
		}
	}

	err := ValidateProposalTransition(models.ProposalStatusPending, "withdrawn")
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))
}

func TestCanCreateJob(t *testing.T) {
	assert.NoError(t, CanCreateJob(client()))
	assert.True(t, apperr.IsKind(CanCreateJob(freelancer()), apperr.KindUnauthorized))
	// admins moderate jobs but do not post them
	assert.True(t, apperr.IsKind(CanCreateJob(admin()), apperr.KindUnauthorized))
	assert.True(t, apperr.IsKind(CanCreateJob(nil), apperr.KindUnauthorized))
}

func TestCanMutateJob(t *testing.T) {
	owner := client()
	job := &models.Job{ID: uuid.New(), ClientID: owner.ID}

	assert.NoError(t, CanMutateJob(owner, job))
	assert.NoError(t, CanMutateJob(admin(), job))
	assert.True(t, apperr.IsKind(CanMutateJob(client(), job), apperr.KindUnauthorized))
	assert.True(t, apperr.IsKind(CanMutateJob(nil, job), apperr.KindUnauthorized))
}

func TestCanCreateProposal(t *testing.T) {
	fl := freelancer()
	open := &models.Job{ID: uuid.New(), Status: models.JobStatusOpen}

	assert.NoError(t, CanCreateProposal(fl, open, nil))

	t.Run("role checked first", func(t *testing.T) {
		err := CanCreateProposal(client(), &models.Job{Status: models.JobStatusCancelled}, nil)
		assert.True(t, apperr.IsKind(err, apperr.KindUnauthorized))
	})

	t.Run("closed job", func(t *testing.T) {
		for _, status := range []models.JobStatus{models.JobStatusInProgress, models.JobStatusCompleted, models.JobStatusCancelled} {
			err := CanCreateProposal(fl, &models.Job{Status: status}, nil)
			assert.True(t, apperr.IsKind(err, apperr.KindJobNotOpen), "status %s", status)
		}
	})

	t.Run("live duplicate blocks", func(t *testing.T) {
		for _, status := range []models.ProposalStatus{models.ProposalStatusPending, models.ProposalStatusAccepted} {
			existing := []models.Proposal{{ID: uuid.New(), FreelancerID: fl.ID, Status: status}}
			err := CanCreateProposal(fl, open, existing)
			assert.True(t, apperr.IsKind(err, apperr.KindDuplicateProposal), "status %s", status)
		}
	})

	t.Run("rejected proposal does not block resubmission", func(t *testing.T) {
		existing := []models.Proposal{{ID: uuid.New(), FreelancerID: fl.ID, Status: models.ProposalStatusRejected}}
		assert.NoError(t, CanCreateProposal(fl, open, existing))
	})

	t.Run("someone else's proposal does not block", func(t *testing.T) {
		existing := []models.Proposal{{ID: uuid.New(), FreelancerID: uuid.New(), Status: models.ProposalStatusPending}}
		assert.NoError(t, CanCreateProposal(fl, open, existing))
	})
}

func TestCanDecideProposal(t *testing.T) {
	owner := client()
	job := &models.Job{ID: uuid.New(), ClientID: owner.ID}

	assert.NoError(t, CanDecideProposal(owner, job))
	assert.NoError(t, CanDecideProposal(admin(), job))
	assert.True(t, apperr.IsKind(CanDecideProposal(freelancer(), job), apperr.KindUnauthorized))
	assert.True(t, apperr.IsKind(CanDecideProposal(nil, job), apperr.KindUnauthorized))
}

func TestAcceptanceEffects(t *testing.T) {
	target := uuid.New()
	p2 := uuid.New()
	p3 := uuid.New()
	siblings := []models.Proposal{
		{ID: target, Status: models.ProposalStatusPending},
		{ID: p2, Status: models.ProposalStatusPending},
		{ID: p3, Status: models.ProposalStatusPending},
		{ID: uuid.New(), Status: models.ProposalStatusRejected},
	}

	got := AcceptanceEffects(siblings, target)
	assert.Equal(t, []uuid.UUID{p2, p3}, got)
}

func TestAcceptanceEffectsNoSiblings(t *testing.T) {
	target := uuid.New()
	siblings := []models.Proposal{{ID: target, Status: models.ProposalStatusPending}}
	assert.Empty(t, AcceptanceEffects(siblings, target))
}

func TestCanSendMessage(t *testing.T) {
	actor := uuid.New()
	assert.NoError(t, CanSendMessage(actor, actor))
	assert.True(t, apperr.IsKind(CanSendMessage(actor, uuid.New()), apperr.KindUnauthorized))
}

func TestCanMarkRead(t *testing.T) {
	recipient := uuid.New()
	msg := &models.Message{ID: uuid.New(), RecipientID: recipient}

	assert.NoError(t, CanMarkRead(recipient, msg))
	assert.True(t, apperr.IsKind(CanMarkRead(uuid.New(), msg), apperr.KindUnauthorized))

	now := msg.CreatedAt
	msg.ReadAt = &now
	assert.True(t, apperr.IsKind(CanMarkRead(recipient, msg), apperr.KindValidation))
}

func TestValidateMessageContext(t *testing.T) {
	sender := uuid.New()
	recipient := uuid.New()

	t.Run("no context always fine", func(t *testing.T) {
		assert.NoError(t, ValidateMessageContext(sender, recipient, nil, nil))
	})

	t.Run("job owned by a participant", func(t *testing.T) {
		job := &models.Job{ClientID: recipient}
		assert.NoError(t, ValidateMessageContext(sender, recipient, job, nil))
	})

	t.Run("job owned by a stranger", func(t *testing.T) {
		job := &models.Job{ClientID: uuid.New()}
		err := ValidateMessageContext(sender, recipient, job, nil)
		assert.True(t, apperr.IsKind(err, apperr.KindUnauthorized))
	})

	t.Run("proposal by a participant", func(t *testing.T) {
		prop := &models.Proposal{FreelancerID: sender}
		assert.NoError(t, ValidateMessageContext(sender, recipient, nil, prop))
	})

	t.Run("proposal on a participant's job", func(t *testing.T) {
		prop := &models.Proposal{
			FreelancerID: uuid.New(),
			Job:          &models.Job{ClientID: recipient},
		}
		assert.NoError(t, ValidateMessageContext(sender, recipient, nil, prop))
	})

	t.Run("proposal by strangers", func(t *testing.T) {
		prop := &models.Proposal{
			FreelancerID: uuid.New(),
			Job:          &models.Job{ClientID: uuid.New()},
		}
		err := ValidateMessageContext(sender, recipient, nil, prop)
		assert.True(t, apperr.IsKind(err, apperr.KindUnauthorized))
	})
}

func TestCanUpdateProfile(t *testing.T) {
	owner := client()

	assert.NoError(t, CanUpdateProfile(owner, owner.ID))
	assert.NoError(t, CanUpdateProfile(admin(), owner.ID))
	assert.True(t, apperr.IsKind(CanUpdateProfile(freelancer(), owner.ID), apperr.KindUnauthorized))
	assert.True(t, apperr.IsKind(CanUpdateProfile(nil, owner.ID), apperr.KindUnauthorized))
}
