package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/lancerhub/lancerhub_be/internal/session"
	"github.com/lancerhub/lancerhub_be/internal/store"
	"github.com/lancerhub/lancerhub_be/internal/workflow"
)

type ProfileHandler struct {
	Store    *store.Store
	Engine   *workflow.Engine
	Resolver *session.Resolver
}

func NewProfileHandler(st *store.Store, engine *workflow.Engine, resolver *session.Resolver) *ProfileHandler {
	return &ProfileHandler{Store: st, Engine: engine, Resolver: resolver}
}

func (h *ProfileHandler) Get(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "invalid profile ID",
		})
	}

	profile, err := h.Store.GetProfile(c.Context(), id)
	if err != nil {
		return respondErr(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    profile,
	})
}

type ProfileUpdateReq struct {
	FullName        *string                `json:"full_name"`
	Bio             *string                `json:"bio"`
	HourlyRate      *float64               `json:"hourly_rate"`
	Skills          []string               `json:"skills"`
	ProfileImageURL *string                `json:"profile_image_url"`
	Links           map[string]interface{} `json:"links"`
}

// Update edits the caller's own profile; admins may pass ?id= to edit any.
func (h *ProfileHandler) Update(c *fiber.Ctx) error {
	actor, err := loadActor(c, h.Store)
	if err != nil {
		return respondErr(c, err)
	}

	targetID := actor.ID
	if q := c.Query("id"); q != "" {
		if targetID, err = uuid.Parse(q); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"success": false,
				"message": "invalid profile ID",
			})
		}
	}

	var req ProfileUpdateReq
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "invalid body",
		})
	}

	profile, err := h.Engine.UpdateProfile(c.Context(), actor, targetID, workflow.ProfilePatch{
		FullName:        req.FullName,
		Bio:             req.Bio,
		HourlyRate:      req.HourlyRate,
		Skills:          req.Skills,
		ProfileImageURL: req.ProfileImageURL,
		Links:           req.Links,
	})
	if err != nil {
		return respondErr(c, err)
	}

	// cached copy is stale now
	h.Resolver.SignOut(c.Context(), targetID.String())

	return c.JSON(fiber.Map{
		"success": true,
		"data":    profile,
	})
}
