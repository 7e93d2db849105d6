package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/lancerhub/lancerhub_be/internal/apperr"
	"github.com/lancerhub/lancerhub_be/internal/middleware"
	"github.com/lancerhub/lancerhub_be/internal/models"
	"github.com/lancerhub/lancerhub_be/internal/session"
	"github.com/lancerhub/lancerhub_be/internal/store"
	"github.com/lancerhub/lancerhub_be/internal/utils"
)

type AuthHandler struct {
	Store     *store.Store
	Resolver  *session.Resolver
	JWTSecret string
	Expires   int
}

type RegisterReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
	UserType string `json:"user_type"` // client / freelancer (admin is never self-served)
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req RegisterReq
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "invalid body",
		})
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	password := strings.TrimSpace(req.Password)
	fullName := strings.TrimSpace(req.FullName)
	userType := models.UserType(strings.ToLower(strings.TrimSpace(req.UserType)))

	errs := apperr.Validation("registration failed")
	if email == "" {
		errs.AddField("email", "email is required")
	} else if !strings.Contains(email, "@") {
		errs.AddField("email", "email format is invalid")
	}
	if password == "" {
		errs.AddField("password", "password is required")
	} else if len(password) < 6 {
		errs.AddField("password", "password must be at least 6 characters")
	}
	if userType != models.UserTypeClient && userType != models.UserTypeFreelancer {
		errs.AddField("user_type", "user type must be client or freelancer")
	}
	if len(errs.Fields) > 0 {
		return respondErr(c, errs)
	}

	if _, err := h.Store.GetProfileByEmail(c.Context(), email); err == nil {
		return respondErr(c, apperr.Validation("registration failed").
			AddField("email", "email is already registered"))
	} else if !apperr.IsKind(err, apperr.KindNotFound) {
		return respondErr(c, err)
	}

	hashed, err := utils.HashPassword(password)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "failed to process password",
		})
	}

	profile := models.Profile{
		Email:    email,
		Password: hashed,
		UserType: userType,
	}
	if fullName != "" {
		profile.FullName = &fullName
	}
	if err := h.Store.InsertProfile(h.Store.DB.WithContext(c.Context()), &profile); err != nil {
		return respondErr(c, err)
	}

	token, err := utils.SignJWT(h.JWTSecret, profile.ID.String(), string(profile.UserType), h.Expires)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "failed to create token",
		})
	}
	h.setSessionCookie(c, token)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "registration successful",
		"data":    fiber.Map{"profile": profile},
	})
}

type LoginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req LoginReq
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "invalid body",
		})
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	password := strings.TrimSpace(req.Password)

	errs := apperr.Validation("login failed")
	if email == "" {
		errs.AddField("email", "email is required")
	}
	if password == "" {
		errs.AddField("password", "password is required")
	}
	if len(errs.Fields) > 0 {
		return respondErr(c, errs)
	}

	profile, err := h.Store.GetProfileByEmail(c.Context(), email)
	if err != nil || !utils.CheckPassword(profile.Password, password) {
		if err != nil && apperr.IsKind(err, apperr.KindStoreUnavailable) {
			return respondErr(c, err)
		}
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"success": false,
			"message": "invalid email or password",
		})
	}

	token, err := utils.SignJWT(h.JWTSecret, profile.ID.String(), string(profile.UserType), h.Expires)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "failed to create token",
		})
	}
	h.setSessionCookie(c, token)

	return c.JSON(fiber.Map{
		"success": true,
		"message": "login successful",
		"data":    fiber.Map{"profile": profile},
	})
}

// Logout clears the cookie and discards the session's cached data.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	if tokenStr := c.Cookies(middleware.TokenCookie); tokenStr != "" {
		if claims, err := utils.ParseJWT(h.JWTSecret, tokenStr); err == nil {
			h.Resolver.SignOut(c.Context(), claims.UserID)
		}
	}

	c.Cookie(&fiber.Cookie{
		Name:     middleware.TokenCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HTTPOnly: true,
		Secure:   false,
		SameSite: "Lax",
	})

	return c.JSON(fiber.Map{
		"success": true,
		"message": "logout successful",
	})
}

// Me resolves the current session. A valid identity whose profile row does
// not exist yet returns profile: null, which callers must tolerate.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	state, err := h.Resolver.Resolve(c.Context(), c.Cookies(middleware.TokenCookie))
	if err != nil {
		return respondErr(c, err)
	}
	if !state.Authenticated() {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"success": false,
			"message": "not signed in",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"identity_id": state.IdentityID,
			"profile":     state.Profile,
		},
	})
}

func (h *AuthHandler) setSessionCookie(c *fiber.Ctx, token string) {
	c.Cookie(&fiber.Cookie{
		Name:     middleware.TokenCookie,
		Value:    token,
		Path:     "/",
		HTTPOnly: true,
		Secure:   false,
		SameSite: "Lax",
		MaxAge:   h.Expires * 60,
	})
}
