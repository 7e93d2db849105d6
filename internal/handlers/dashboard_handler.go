package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/lancerhub/lancerhub_be/internal/models"
	"github.com/lancerhub/lancerhub_be/internal/store"
)

type DashboardHandler struct {
	Store *store.Store
}

func NewDashboardHandler(st *store.Store) *DashboardHandler {
	return &DashboardHandler{Store: st}
}

// Stats returns role-dependent counters for the landing dashboard.
func (h *DashboardHandler) Stats(c *fiber.Ctx) error {
	actor, err := loadActor(c, h.Store)
	if err != nil {
		return respondErr(c, err)
	}

	unread, err := h.Store.CountUnread(c.Context(), actor.ID)
	if err != nil {
		return respondErr(c, err)
	}

	stats := fiber.Map{
		"unread_messages": unread,
	}

	switch actor.UserType {
	case models.UserTypeClient, models.UserTypeAdmin:
		clientID := actor.ID
		for _, status := range []models.JobStatus{
			models.JobStatusOpen,
			models.JobStatusInProgress,
			models.JobStatusCompleted,
		} {
			n, err := h.Store.CountJobs(c.Context(), store.JobFilter{
				Status:   status,
				ClientID: &clientID,
			})
			if err != nil {
				return respondErr(c, err)
			}
			stats[string(status)+"_jobs"] = n
		}
	case models.UserTypeFreelancer:
		for _, status := range []models.ProposalStatus{
			models.ProposalStatusPending,
			models.ProposalStatusAccepted,
		} {
			n, err := h.Store.CountProposalsByFreelancer(c.Context(), actor.ID, status)
			if err != nil {
				return respondErr(c, err)
			}
			stats[string(status)+"_proposals"] = n
		}
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    stats,
	})
}
