package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/lancerhub/lancerhub_be/internal/models"
	"github.com/lancerhub/lancerhub_be/internal/search"
	"github.com/lancerhub/lancerhub_be/internal/store"
	"github.com/lancerhub/lancerhub_be/internal/workflow"
)

type JobHandler struct {
	Store  *store.Store
	Engine *workflow.Engine
}

func NewJobHandler(st *store.Store, engine *workflow.Engine) *JobHandler {
	return &JobHandler{Store: st, Engine: engine}
}

// ListPublic returns open jobs, narrowed by the search composer. The
// composer runs over the fetched set; the store only filters by status.
func (h *JobHandler) ListPublic(c *fiber.Ctx) error {
	status := models.JobStatus(c.Query("status", string(models.JobStatusOpen)))
	if !status.Valid() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "unknown status: " + string(status),
		})
	}

	jobs, err := h.Store.ListJobs(c.Context(), store.JobFilter{Status: status})
	if err != nil {
		return respondErr(c, err)
	}

	filtered := search.Compose(jobs, search.Filter{
		Term:       c.Query("term"),
		CategoryID: c.Query("category", search.CategoryAll),
		Band:       search.BudgetBand(c.Query("budget", string(search.BandAll))),
	})

	return c.JSON(fiber.Map{
		"success": true,
		"data":    filtered,
	})
}

// ListMine returns the calling client's jobs in every status.
func (h *JobHandler) ListMine(c *fiber.Ctx) error {
	uid, err := getUserUUID(c)
	if err != nil {
		return fiber.ErrUnauthorized
	}

	jobs, err := h.Store.ListJobs(c.Context(), store.JobFilter{ClientID: &uid})
	if err != nil {
		return respondErr(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    jobs,
	})
}

func (h *JobHandler) GetDetail(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "invalid job ID",
		})
	}

	job, err := h.Store.GetJob(c.Context(), id)
	if err != nil {
		return respondErr(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    job,
	})
}

type JobReq struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	CategoryID  *string  `json:"category_id"`
	BudgetMin   *float64 `json:"budget_min"`
	BudgetMax   *float64 `json:"budget_max"`
	Deadline    *string  `json:"deadline"` // ISO date: 2026-01-03
}

func (r JobReq) toDraft() (workflow.JobDraft, error) {
	draft := workflow.JobDraft{
		Title:       r.Title,
		Description: r.Description,
		BudgetMin:   r.BudgetMin,
		BudgetMax:   r.BudgetMax,
	}
	if r.CategoryID != nil && *r.CategoryID != "" {
		cid, err := uuid.Parse(*r.CategoryID)
		if err != nil {
			return draft, err
		}
		draft.CategoryID = &cid
	}
	if r.Deadline != nil && *r.Deadline != "" {
		d, err := time.Parse("2006-01-02", *r.Deadline)
		if err != nil {
			return draft, err
		}
		draft.Deadline = &d
	}
	return draft, nil
}

func (h *JobHandler) Create(c *fiber.Ctx) error {
	actor, err := loadActor(c, h.Store)
	if err != nil {
		return respondErr(c, err)
	}

	var req JobReq
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "invalid body",
		})
	}
	draft, err := req.toDraft()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "invalid category ID or deadline",
		})
	}

	job, err := h.Engine.CreateJob(c.Context(), actor, draft)
	if err != nil {
		return respondErr(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data":    job,
	})
}

func (h *JobHandler) Update(c *fiber.Ctx) error {
	actor, err := loadActor(c, h.Store)
	if err != nil {
		return respondErr(c, err)
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "invalid job ID",
		})
	}

	var req JobReq
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "invalid body",
		})
	}
	draft, err := req.toDraft()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "invalid category ID or deadline",
		})
	}

	job, err := h.Engine.UpdateJob(c.Context(), actor, id, draft)
	if err != nil {
		return respondErr(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    job,
	})
}

type JobStatusReq struct {
	Status string `json:"status"`
}

func (h *JobHandler) UpdateStatus(c *fiber.Ctx) error {
	actor, err := loadActor(c, h.Store)
	if err != nil {
		return respondErr(c, err)
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "invalid job ID",
		})
	}

	var req JobStatusReq
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "invalid body",
		})
	}

	job, err := h.Engine.TransitionJob(c.Context(), actor, id, models.JobStatus(req.Status))
	if err != nil {
		return respondErr(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    job,
	})
}
