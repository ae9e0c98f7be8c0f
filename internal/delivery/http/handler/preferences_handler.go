package handler

import (
	"matchpoint/internal/delivery/http/dto"
	"matchpoint/internal/delivery/http/middleware"
	"matchpoint/internal/domain/job"
	"matchpoint/internal/pkg/response"
	"matchpoint/internal/triage"

	"github.com/gofiber/fiber/v3"
)

type PreferencesHandler struct {
	store *triage.Store
}

func NewPreferencesHandler(store *triage.Store) *PreferencesHandler {
	return &PreferencesHandler{store: store}
}

func (h *PreferencesHandler) HandleGet(c fiber.Ctx) error {
	return response.Success(c, fiber.StatusOK, "success", h.store.Preferences())
}

// HandleUpdate shallow-merges the patch; omitted fields keep their value.
func (h *PreferencesHandler) HandleUpdate(c fiber.Ctx) error {
	var req dto.PreferencesRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}
	prefs := h.store.UpdatePreferences(c.Context(), job.PartialPreferences{
		Skills:     req.Skills,
		Categories: req.Categories,
		MinSalary:  req.MinSalary,
		JobTypes:   req.JobTypes,
	})
	return response.Success(c, fiber.StatusOK, "success", prefs)
}
