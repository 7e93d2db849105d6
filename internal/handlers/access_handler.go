package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/lancerhub/lancerhub_be/internal/gate"
	"github.com/lancerhub/lancerhub_be/internal/middleware"
	"github.com/lancerhub/lancerhub_be/internal/models"
	"github.com/lancerhub/lancerhub_be/internal/session"
)

// AccessHandler exposes the gate to the frontend so route guards and the
// API agree on one decision table. Advisory only; the workflow engine
// re-checks every rule on mutation.
type AccessHandler struct {
	Resolver *session.Resolver
}

type evaluateReq struct {
	RequireAuth  *bool  `json:"require_auth"` // default true
	RequiredRole string `json:"required_role"`
}

func (h *AccessHandler) Evaluate(c *fiber.Ctx) error {
	var req evaluateReq
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "invalid body",
		})
	}

	requirement := gate.DefaultRequirement()
	if req.RequireAuth != nil {
		requirement.RequireAuth = *req.RequireAuth
	}
	if req.RequiredRole != "" {
		role := models.UserType(req.RequiredRole)
		if !role.Valid() {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"success": false,
				"message": "unknown role: " + req.RequiredRole,
			})
		}
		requirement.RequiredRole = role
	}

	state, err := h.Resolver.Resolve(c.Context(), c.Cookies(middleware.TokenCookie))
	if err != nil {
		// resolution failed upstream; the caller sees "still resolving"
		// rather than a misleading redirect
		state = session.Resolving()
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    gate.Evaluate(state, requirement),
	})
}
