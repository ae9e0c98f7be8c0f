package handler

import (
	"strings"

	"matchpoint/internal/delivery/http/dto"
	"matchpoint/internal/delivery/http/middleware"
	"matchpoint/internal/domain/job"
	"matchpoint/internal/pkg/jwt"
	"matchpoint/internal/pkg/response"
	"matchpoint/internal/triage"

	"github.com/gofiber/fiber/v3"
)

type SessionHandler struct {
	jwt   jwt.Service
	store *triage.Store
}

func NewSessionHandler(jwtSvc jwt.Service, store *triage.Store) *SessionHandler {
	return &SessionHandler{jwt: jwtSvc, store: store}
}

// HandleCreate issues an anonymous session token for the given handle.
func (h *SessionHandler) HandleCreate(c fiber.Ctx) error {
	var req dto.SessionRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}
	handle := strings.TrimSpace(req.Handle)
	if handle == "" {
		handle = "anonymous"
	}

	token, claims, err := h.jwt.IssueSession(handle)
	if err != nil {
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
	return response.Success(c, fiber.StatusOK, "success", dto.SessionResponse{
		Token:  token,
		Handle: claims.Handle,
	})
}

// HandleProfile returns everything the client needs to render the shell.
func (h *SessionHandler) HandleProfile(c fiber.Ctx) error {
	handle, _ := c.Locals(middleware.CtxHandleKey).(string)
	return response.Success(c, fiber.StatusOK, "success", dto.ProfileResponse{
		Handle:      handle,
		ViewedCount: h.store.ViewedCount(),
		Counts:      h.store.Counts(),
		Preferences: h.store.Preferences(),
		SkipReasons: job.SkipReasons,
	})
}
