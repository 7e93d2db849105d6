package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/lancerhub/lancerhub_be/internal/models"
	"github.com/lancerhub/lancerhub_be/internal/realtime"
	"github.com/lancerhub/lancerhub_be/internal/store"
	"github.com/lancerhub/lancerhub_be/internal/workflow"
)

type ProposalHandler struct {
	Store  *store.Store
	Engine *workflow.Engine
	Hub    *realtime.Hub
	RDB    *redis.Client
}

func NewProposalHandler(st *store.Store, engine *workflow.Engine, hub *realtime.Hub, rdb *redis.Client) *ProposalHandler {
	return &ProposalHandler{Store: st, Engine: engine, Hub: hub, RDB: rdb}
}

// ListForJob shows the job's client every proposal; a freelancer sees only
// their own submissions on that job.
func (h *ProposalHandler) ListForJob(c *fiber.Ctx) error {
	actor, err := loadActor(c, h.Store)
	if err != nil {
		return respondErr(c, err)
	}
	jobID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "invalid job ID",
		})
	}

	job, err := h.Store.GetJob(c.Context(), jobID)
	if err != nil {
		return respondErr(c, err)
	}

	proposals, err := h.Store.ListProposalsForJob(c.Context(), jobID)
	if err != nil {
		return respondErr(c, err)
	}

	if actor.ID != job.ClientID && actor.UserType != models.UserTypeAdmin {
		own := make([]models.Proposal, 0, len(proposals))
		for _, p := range proposals {
			if p.FreelancerID == actor.ID {
				own = append(own, p)
			}
		}
		proposals = own
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    proposals,
	})
}

// ListMine returns the calling freelancer's proposals across all jobs.
func (h *ProposalHandler) ListMine(c *fiber.Ctx) error {
	uid, err := getUserUUID(c)
	if err != nil {
		return fiber.ErrUnauthorized
	}

	proposals, err := h.Store.ListProposalsByFreelancer(c.Context(), uid)
	if err != nil {
		return respondErr(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    proposals,
	})
}

type ProposalReq struct {
	CoverLetter  string  `json:"cover_letter"`
	ProposedRate float64 `json:"proposed_rate"`
	DeliveryTime int     `json:"delivery_time"` // days
}

func (h *ProposalHandler) Create(c *fiber.Ctx) error {
	actor, err := loadActor(c, h.Store)
	if err != nil {
		return respondErr(c, err)
	}
	jobID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "invalid job ID",
		})
	}

	var req ProposalReq
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "invalid body",
		})
	}

	proposal, err := h.Engine.CreateProposal(c.Context(), actor, jobID, workflow.ProposalDraft{
		CoverLetter:  req.CoverLetter,
		ProposedRate: req.ProposedRate,
		DeliveryTime: req.DeliveryTime,
	})
	if err != nil {
		return respondErr(c, err)
	}

	if proposal.Job != nil {
		h.notifyPair(c, proposal.Job.ClientID, proposal.FreelancerID, fiber.Map{
			"type":     "new_proposal",
			"proposal": proposal,
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data":    proposal,
	})
}

type ProposalStatusReq struct {
	Status string `json:"status"`
}

// UpdateStatus accepts or rejects a proposal. Acceptance also flips the job
// to in_progress and rejects sibling pending proposals, so the push event
// carries the refreshed job.
func (h *ProposalHandler) UpdateStatus(c *fiber.Ctx) error {
	actor, err := loadActor(c, h.Store)
	if err != nil {
		return respondErr(c, err)
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "invalid proposal ID",
		})
	}

	var req ProposalStatusReq
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "invalid body",
		})
	}

	proposal, err := h.Engine.DecideProposal(c.Context(), actor, id, models.ProposalStatus(req.Status))
	if err != nil {
		return respondErr(c, err)
	}

	if proposal.Job != nil {
		h.notifyPair(c, proposal.Job.ClientID, proposal.FreelancerID, fiber.Map{
			"type":     "proposal_status_update",
			"proposal": proposal,
			"job":      proposal.Job,
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    proposal,
	})
}

func (h *ProposalHandler) notifyPair(c *fiber.Ctx, a, b uuid.UUID, data fiber.Map) {
	h.Hub.SendToPair(a, b, data)
	realtime.PublishToPair(c.Context(), h.RDB, a.String(), b.String(), data)
}
