package workflow

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/lancerhub/lancerhub_be/internal/apperr"
	"github.com/lancerhub/lancerhub_be/internal/models"
)

// fakeStore is an in-memory Store. Transact snapshots the maps before fn
// and restores them when fn errors, mirroring a rolled-back transaction.
type fakeStore struct {
	profiles   map[uuid.UUID]models.Profile
	categories map[uuid.UUID]models.JobCategory
	jobs       map[uuid.UUID]models.Job
	proposals  map[uuid.UUID]models.Proposal
	propOrder  []uuid.UUID
	messages   map[uuid.UUID]models.Message

	// UpdateProposalStatus on this id fails, to force a mid-sequence abort
	failProposalUpdate uuid.UUID
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		profiles:   map[uuid.UUID]models.Profile{},
		categories: map[uuid.UUID]models.JobCategory{},
		jobs:       map[uuid.UUID]models.Job{},
		proposals:  map[uuid.UUID]models.Proposal{},
		messages:   map[uuid.UUID]models.Message{},
	}
}

func cloneMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func (f *fakeStore) Transact(ctx context.Context, fn func(tx *gorm.DB) error) error {
	jobs, proposals, messages, profiles := cloneMap(f.jobs), cloneMap(f.proposals), cloneMap(f.messages), cloneMap(f.profiles)
	order := append([]uuid.UUID(nil), f.propOrder...)

	if err := fn(nil); err != nil {
		f.jobs, f.proposals, f.messages, f.profiles = jobs, proposals, messages, profiles
		f.propOrder = order
		return err
	}
	return nil
}

func (f *fakeStore) GetProfile(_ context.Context, id uuid.UUID) (*models.Profile, error) {
	p, ok := f.profiles[id]
	if !ok {
		return nil, apperr.NotFound("profile")
	}
	return &p, nil
}

func (f *fakeStore) UpdateProfileFields(_ *gorm.DB, id uuid.UUID, fields map[string]interface{}) error {
	p, ok := f.profiles[id]
	if !ok {
		return apperr.NotFound("profile")
	}
	if v, ok := fields["full_name"].(string); ok {
		p.FullName = &v
	}
	if v, ok := fields["hourly_rate"].(float64); ok {
		p.HourlyRate = &v
	}
	f.profiles[id] = p
	return nil
}

func (f *fakeStore) GetCategory(_ context.Context, id uuid.UUID) (*models.JobCategory, error) {
	c, ok := f.categories[id]
	if !ok {
		return nil, apperr.NotFound("job category")
	}
	return &c, nil
}

func (f *fakeStore) GetJob(_ context.Context, id uuid.UUID) (*models.Job, error) {
	j, ok := f.jobs[id]
	if !ok {
		return nil, apperr.NotFound("job")
	}
	return &j, nil
}

func (f *fakeStore) GetJobForUpdate(_ *gorm.DB, id uuid.UUID) (*models.Job, error) {
	return f.GetJob(context.Background(), id)
}

func (f *fakeStore) InsertJob(_ *gorm.DB, job *models.Job) error {
	if job.ID == uuid.Nil {
		job.ID = uuid.New()
	}
	f.jobs[job.ID] = *job
	return nil
}

func (f *fakeStore) UpdateJobFields(_ *gorm.DB, id uuid.UUID, fields map[string]interface{}) error {
	j, ok := f.jobs[id]
	if !ok {
		return apperr.NotFound("job")
	}
	if v, ok := fields["status"].(models.JobStatus); ok {
		j.Status = v
	}
	if v, ok := fields["title"].(string); ok {
		j.Title = v
	}
	if v, ok := fields["description"].(string); ok {
		j.Description = v
	}
	f.jobs[id] = j
	return nil
}

func (f *fakeStore) GetProposal(_ context.Context, id uuid.UUID) (*models.Proposal, error) {
	p, ok := f.proposals[id]
	if !ok {
		return nil, apperr.NotFound("proposal")
	}
	return &p, nil
}

func (f *fakeStore) GetProposalForUpdate(_ *gorm.DB, id uuid.UUID) (*models.Proposal, error) {
	return f.GetProposal(context.Background(), id)
}

func (f *fakeStore) InsertProposal(_ *gorm.DB, proposal *models.Proposal) error {
	if proposal.ID == uuid.Nil {
		proposal.ID = uuid.New()
	}
	f.proposals[proposal.ID] = *proposal
	f.propOrder = append(f.propOrder, proposal.ID)
	return nil
}

func (f *fakeStore) UpdateProposalStatus(_ *gorm.DB, id uuid.UUID, status models.ProposalStatus) error {
	if id == f.failProposalUpdate {
		return apperr.New(apperr.KindStoreUnavailable, "proposal query failed")
	}
	p, ok := f.proposals[id]
	if !ok {
		return apperr.NotFound("proposal")
	}
	p.Status = status
	f.proposals[id] = p
	return nil
}

func (f *fakeStore) ListJobProposalsForUpdate(_ *gorm.DB, jobID uuid.UUID) ([]models.Proposal, error) {
	var out []models.Proposal
	for _, id := range f.propOrder {
		if p := f.proposals[id]; p.JobID == jobID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeStore) GetMessage(_ context.Context, id uuid.UUID) (*models.Message, error) {
	m, ok := f.messages[id]
	if !ok {
		return nil, apperr.NotFound("message")
	}
	return &m, nil
}

func (f *fakeStore) GetMessageForUpdate(_ *gorm.DB, id uuid.UUID) (*models.Message, error) {
	return f.GetMessage(context.Background(), id)
}

func (f *fakeStore) InsertMessage(_ *gorm.DB, msg *models.Message) error {
	if msg.ID == uuid.Nil {
		msg.ID = uuid.New()
	}
	f.messages[msg.ID] = *msg
	return nil
}

func (f *fakeStore) MarkMessageRead(_ *gorm.DB, id uuid.UUID, at time.Time) error {
	m, ok := f.messages[id]
	if !ok || m.ReadAt != nil {
		return apperr.NotFound("message")
	}
	m.ReadAt = &at
	f.messages[id] = m
	return nil
}

func (f *fakeStore) addProfile(t models.UserType) *models.Profile {
	p := models.Profile{ID: uuid.New(), UserType: t}
	f.profiles[p.ID] = p
	return &p
}

func (f *fakeStore) addJob(clientID uuid.UUID, status models.JobStatus) *models.Job {
	j := models.Job{ID: uuid.New(), ClientID: clientID, Title: "t", Description: "d", Status: status}
	f.jobs[j.ID] = j
	return &j
}

func (f *fakeStore) addProposal(jobID, freelancerID uuid.UUID, status models.ProposalStatus) *models.Proposal {
	p := models.Proposal{
		ID: uuid.New(), JobID: jobID, FreelancerID: freelancerID,
		CoverLetter: "c", ProposedRate: 40, DeliveryTime: 5, Status: status,
	}
	f.proposals[p.ID] = p
	f.propOrder = append(f.propOrder, p.ID)
	return &p
}

func TestEngineAcceptanceCascade(t *testing.T) {
	ctx := context.Background()
	fs := newFakeStore()
	owner := fs.addProfile(models.UserTypeClient)
	f1 := fs.addProfile(models.UserTypeFreelancer)
	f2 := fs.addProfile(models.UserTypeFreelancer)
	f3 := fs.addProfile(models.UserTypeFreelancer)
	job := fs.addJob(owner.ID, models.JobStatusOpen)
	p1 := fs.addProposal(job.ID, f1.ID, models.ProposalStatusPending)
	p2 := fs.addProposal(job.ID, f2.ID, models.ProposalStatusPending)

	engine := NewEngine(fs)

	got, err := engine.DecideProposal(ctx, owner, p2.ID, models.ProposalStatusAccepted)
	require.NoError(t, err)
	assert.Equal(t, models.ProposalStatusAccepted, got.Status)
	assert.Equal(t, models.ProposalStatusRejected, fs.proposals[p1.ID].Status)
	assert.Equal(t, models.JobStatusInProgress, fs.jobs[job.ID].Status)

	// the job left open, so a new proposal is refused
	_, err = engine.CreateProposal(ctx, f3, job.ID, ProposalDraft{
		CoverLetter: "late", ProposedRate: 30, DeliveryTime: 3,
	})
	assert.True(t, apperr.IsKind(err, apperr.KindJobNotOpen))
}

func TestEngineRejectLeavesJobOpen(t *testing.T) {
	ctx := context.Background()
	fs := newFakeStore()
	owner := fs.addProfile(models.UserTypeClient)
	f1 := fs.addProfile(models.UserTypeFreelancer)
	f2 := fs.addProfile(models.UserTypeFreelancer)
	job := fs.addJob(owner.ID, models.JobStatusOpen)
	p1 := fs.addProposal(job.ID, f1.ID, models.ProposalStatusPending)
	p2 := fs.addProposal(job.ID, f2.ID, models.ProposalStatusPending)

	engine := NewEngine(fs)

	got, err := engine.DecideProposal(ctx, owner, p1.ID, models.ProposalStatusRejected)
	require.NoError(t, err)
	assert.Equal(t, models.ProposalStatusRejected, got.Status)
	assert.Equal(t, models.JobStatusOpen, fs.jobs[job.ID].Status)
	assert.Equal(t, models.ProposalStatusPending, fs.proposals[p2.ID].Status)
}

func TestEngineAcceptRollsBackOnMidSequenceFailure(t *testing.T) {
	ctx := context.Background()
	fs := newFakeStore()
	owner := fs.addProfile(models.UserTypeClient)
	f1 := fs.addProfile(models.UserTypeFreelancer)
	f2 := fs.addProfile(models.UserTypeFreelancer)
	job := fs.addJob(owner.ID, models.JobStatusOpen)
	p1 := fs.addProposal(job.ID, f1.ID, models.ProposalStatusPending)
	p2 := fs.addProposal(job.ID, f2.ID, models.ProposalStatusPending)

	// the sibling rejection fails after the target was already accepted
	fs.failProposalUpdate = p1.ID
	engine := NewEngine(fs)

	_, err := engine.DecideProposal(ctx, owner, p2.ID, models.ProposalStatusAccepted)
	require.Error(t, err)
	assert.True(t, apperr.IsKind(err, apperr.KindStoreUnavailable))

	// nothing from the aborted sequence stuck
	assert.Equal(t, models.ProposalStatusPending, fs.proposals[p2.ID].Status)
	assert.Equal(t, models.ProposalStatusPending, fs.proposals[p1.ID].Status)
	assert.Equal(t, models.JobStatusOpen, fs.jobs[job.ID].Status)
}

func TestEngineCreateProposalDuplicate(t *testing.T) {
	ctx := context.Background()
	fs := newFakeStore()
	owner := fs.addProfile(models.UserTypeClient)
	fl := fs.addProfile(models.UserTypeFreelancer)
	job := fs.addJob(owner.ID, models.JobStatusOpen)

	engine := NewEngine(fs)
	draft := ProposalDraft{CoverLetter: "hi", ProposedRate: 40, DeliveryTime: 5}

	first, err := engine.CreateProposal(ctx, fl, job.ID, draft)
	require.NoError(t, err)
	assert.Equal(t, models.ProposalStatusPending, first.Status)

	_, err = engine.CreateProposal(ctx, fl, job.ID, draft)
	assert.True(t, apperr.IsKind(err, apperr.KindDuplicateProposal))
	assert.Len(t, fs.proposals, 1)
}

func TestEngineTransitionJob(t *testing.T) {
	ctx := context.Background()
	fs := newFakeStore()
	owner := fs.addProfile(models.UserTypeClient)
	job := fs.addJob(owner.ID, models.JobStatusOpen)

	engine := NewEngine(fs)

	t.Run("in_progress is not settable directly", func(t *testing.T) {
		_, err := engine.TransitionJob(ctx, owner, job.ID, models.JobStatusInProgress)
		assert.True(t, apperr.IsKind(err, apperr.KindValidation))
		assert.Equal(t, models.JobStatusOpen, fs.jobs[job.ID].Status)
	})

	t.Run("illegal edge leaves state unchanged", func(t *testing.T) {
		_, err := engine.TransitionJob(ctx, owner, job.ID, models.JobStatusCompleted)
		assert.True(t, apperr.IsKind(err, apperr.KindInvalidTransition))
		assert.Equal(t, models.JobStatusOpen, fs.jobs[job.ID].Status)
	})

	t.Run("owner cancels an open job", func(t *testing.T) {
		got, err := engine.TransitionJob(ctx, owner, job.ID, models.JobStatusCancelled)
		require.NoError(t, err)
		assert.Equal(t, models.JobStatusCancelled, got.Status)
	})
}

func TestEngineCreateJob(t *testing.T) {
	ctx := context.Background()
	fs := newFakeStore()
	client := fs.addProfile(models.UserTypeClient)
	fl := fs.addProfile(models.UserTypeFreelancer)

	engine := NewEngine(fs)

	job, err := engine.CreateJob(ctx, client, JobDraft{Title: "build it", Description: "all of it"})
	require.NoError(t, err)
	assert.Equal(t, models.JobStatusOpen, job.Status)
	assert.Equal(t, client.ID, job.ClientID)

	_, err = engine.CreateJob(ctx, fl, JobDraft{Title: "t", Description: "d"})
	assert.True(t, apperr.IsKind(err, apperr.KindUnauthorized))
}

func TestEngineMarkMessageRead(t *testing.T) {
	ctx := context.Background()
	fs := newFakeStore()
	sender := fs.addProfile(models.UserTypeClient)
	recipient := fs.addProfile(models.UserTypeFreelancer)
	msg := models.Message{ID: uuid.New(), SenderID: sender.ID, RecipientID: recipient.ID, Content: "hello"}
	fs.messages[msg.ID] = msg

	engine := NewEngine(fs)

	got, err := engine.MarkMessageRead(ctx, recipient.ID, msg.ID)
	require.NoError(t, err)
	require.NotNil(t, got.ReadAt)

	_, err = engine.MarkMessageRead(ctx, recipient.ID, msg.ID)
	assert.True(t, apperr.IsKind(err, apperr.KindValidation))

	_, err = engine.MarkMessageRead(ctx, sender.ID, msg.ID)
	assert.True(t, apperr.IsKind(err, apperr.KindUnauthorized))
}
