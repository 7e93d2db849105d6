package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/lancerhub/lancerhub_be/internal/store"
)

type CategoryHandler struct {
	Store *store.Store
}

func NewCategoryHandler(st *store.Store) *CategoryHandler {
	return &CategoryHandler{Store: st}
}

func (h *CategoryHandler) GetCategories(c *fiber.Ctx) error {
	categories, err := h.Store.ListCategories(c.Context())
	if err != nil {
		return respondErr(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    categories,
	})
}
