package handler

import (
	"errors"

	"matchpoint/internal/aggregate"
	"matchpoint/internal/delivery/http/dto"
	"matchpoint/internal/delivery/http/middleware"
	"matchpoint/internal/domain/job"
	"matchpoint/internal/pkg/response"
	"matchpoint/internal/sanitize"
	"matchpoint/internal/swipe"
	"matchpoint/internal/triage"

	"github.com/gofiber/fiber/v3"
)

// previewLen caps the plain-text excerpt returned with the swipe state.
const previewLen = 280

type SwipeHandler struct {
	engine *swipe.Engine
	agg    *aggregate.Aggregator
	store  *triage.Store
}

func NewSwipeHandler(engine *swipe.Engine, agg *aggregate.Aggregator, store *triage.Store) *SwipeHandler {
	return &SwipeHandler{engine: engine, agg: agg, store: store}
}

// HandleLoadQueue searches and loads the result set as the review deck.
// Listings already triaged are not dealt again.
func (h *SwipeHandler) HandleLoadQueue(c fiber.Ctx) error {
	var req dto.SearchJobsRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	skills := req.Skills
	if len(skills) == 0 {
		skills = h.store.Preferences().ScoringSkills()
	}

	res, err := h.agg.Search(c.Context(), aggregate.Request{
		Query:      req.Query,
		Categories: req.Categories,
		UserSkills: skills,
		Filters: aggregate.Filters{
			MinSalary: req.Filters.MinSalary,
			JobTypes:  req.Filters.JobTypes,
			Quick:     req.Filters.Quick,
		},
	})
	if err != nil {
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}

	deck := make([]job.Job, 0, len(res.Jobs))
	for _, j := range res.Jobs {
		if h.store.Contains(j.ID) {
			continue
		}
		deck = append(deck, j)
	}
	h.engine.SetQueue(c.Context(), deck)

	return response.Success(c, fiber.StatusOK, "success", h.stateResponse())
}

// HandleState reports the deck position and any pending skip.
func (h *SwipeHandler) HandleState(c fiber.Ctx) error {
	return response.Success(c, fiber.StatusOK, "success", h.stateResponse())
}

func (h *SwipeHandler) HandleDragStart(c fiber.Ctx) error {
	var req dto.PointRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}
	if err := h.engine.DragStart(req.X, req.Y); err != nil {
		return mapSwipeError(err)
	}
	return response.Success(c, fiber.StatusOK, "success", nil)
}

func (h *SwipeHandler) HandleDragMove(c fiber.Ctx) error {
	var req dto.PointRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}
	hint, err := h.engine.DragMove(req.X, req.Y)
	if err != nil {
		return mapSwipeError(err)
	}
	return response.Success(c, fiber.StatusOK, "success", fiber.Map{"hint": hint})
}

func (h *SwipeHandler) HandleDragEnd(c fiber.Ctx) error {
	var req dto.PointRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}
	out, err := h.engine.DragEnd(c.Context(), req.X, req.Y)
	if err != nil {
		return mapSwipeError(err)
	}
	return response.Success(c, fiber.StatusOK, "success", out)
}

/// HandleCommit is the keyboard path: left, right, down.
func (h *SwipeHandler) HandleCommit(c fiber.Ctx) error {
	var req dto.CommitRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	var dir swipe.Direction
	switch req.Direction {
	case string(swipe.DirLeft), string(swipe.DirRight), string(swipe.DirDown):
		dir = swipe.Direction(req.Direction)
	default:
		return middleware.NewAppError(fiber.StatusBadRequest, "Unknown direction", nil, nil)
	}

	out, err := h.engine.Commit(c.Context(), dir)
	if err != nil {
		return mapSwipeError(err)
	}
	return response.Success(c, fiber.StatusOK, "success", out)
}

// HandleSkipReason resolves the pending skip with the chosen reason.
func (h *SwipeHandler) HandleSkipReason(c fiber.Ctx) error {
	var req dto.SkipReasonRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}
	reason := job.ParseSkipReason(req.Reason)
	if err := h.engine.ChooseSkipReason(c.Context(), reason); err != nil {
		return mapSwipeError(err)
	}
	return response.Success(c, fiber.StatusOK, "success", fiber.Map{"reason": reason})
}

func (h *SwipeHandler) stateResponse() dto.SwipeStateResponse {
	out := dto.SwipeStateResponse{
		State:     h.engine.State(),
		Remaining: h.engine.Remaining(),
	}
	if cur, ok := h.engine.Current(); ok {
		out.Current = &cur
		out.Preview = sanitize.StripAndTruncate(sanitize.Render(cur.Description, cur.IsHTML), previewLen)
		out.Posted = cur.PostedLabel()
	}
	if pending, ok := h.engine.PendingSkip(); ok {
		out.PendingSkip = &pending
	}
	return out
}

func mapSwipeError(err error) error {
	switch {
	case errors.Is(err, swipe.ErrExhausted):
		return middleware.NewAppError(fiber.StatusConflict, "Deck exhausted", nil, err)
	case errors.Is(err, swipe.ErrBusy):
		return middleware.NewAppError(fiber.StatusConflict, "Commit in progress", nil, err)
	case errors.Is(err, swipe.ErrReasonPending):
		return middleware.NewAppError(fiber.StatusConflict, "Skip reason prompt open", nil, err)
	case errors.Is(err, swipe.ErrNotDragging):
		return middleware.NewAppError(fiber.StatusConflict, "No drag in progress", nil, err)
	case errors.Is(err, swipe.ErrNoPendingSkip):
		return middleware.NewAppError(fiber.StatusConflict, "No skip awaiting a reason", nil, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
}
