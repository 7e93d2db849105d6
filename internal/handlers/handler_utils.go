package handlers

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/lancerhub/lancerhub_be/internal/apperr"
	"github.com/lancerhub/lancerhub_be/internal/logger"
	"github.com/lancerhub/lancerhub_be/internal/models"
	"github.com/lancerhub/lancerhub_be/internal/store"
)

func getUserUUID(c *fiber.Ctx) (uuid.UUID, error) {
	v := c.Locals("userId")
	if v == nil {
		return uuid.Nil, fmt.Errorf("unauthorized")
	}

	switch t := v.(type) {
	case uuid.UUID:
		return t, nil
	case string:
		return uuid.Parse(t)
	case []byte:
		return uuid.ParseBytes(t)
	default:
		return uuid.Nil, fmt.Errorf("invalid userId type: %T", v)
	}
}

// loadActor resolves the authenticated caller's profile row. Mutations need
// the full profile, not just the token claims, so role checks see current
// data.
func loadActor(c *fiber.Ctx, st *store.Store) (*models.Profile, error) {
	uid, err := getUserUUID(c)
	if err != nil {
		return nil, apperr.Unauthorized("sign in required")
	}
	actor, err := st.GetProfile(c.Context(), uid)
	if err != nil {
		if apperr.IsKind(err, apperr.KindNotFound) {
			// authenticated identity without a profile row yet
			return nil, apperr.Unauthorized("profile not found for this account")
		}
		return nil, err
	}
	return actor, nil
}

var kindStatus = map[apperr.Kind]int{
	apperr.KindValidation:        fiber.StatusUnprocessableEntity,
	apperr.KindNotFound:          fiber.StatusNotFound,
	apperr.KindInvalidTransition: fiber.StatusConflict,
	apperr.KindJobNotOpen:        fiber.StatusConflict,
	apperr.KindDuplicateProposal: fiber.StatusConflict,
	apperr.KindUnauthorized:      fiber.StatusForbidden,
	apperr.KindStoreUnavailable:  fiber.StatusServiceUnavailable,
}

// respondErr maps typed errors to an HTTP response in the standard envelope.
// Terminal kinds are shown to the user as-is; only StoreUnavailable invites
// a retry.
func respondErr(c *fiber.Ctx, err error) error {
	var ae *apperr.Error
	if !errors.As(err, &ae) {
		logger.L().Error("unclassified handler error", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "internal error",
		})
	}

	status, ok := kindStatus[ae.Kind]
	if !ok {
		status = fiber.StatusInternalServerError
	}

	body := fiber.Map{
		"success": false,
		"message": ae.Message,
		"kind":    string(ae.Kind),
	}
	if len(ae.Fields) > 0 {
		body["errors"] = ae.Fields
	}
	if ae.Kind == apperr.KindStoreUnavailable {
		body["retryable"] = true
		logger.L().Error("store unavailable", zap.Error(err))
	}
	return c.Status(status).JSON(body)
}
