package handler

import (
	"matchpoint/internal/aggregate"
	"matchpoint/internal/delivery/http/dto"
	"matchpoint/internal/delivery/http/middleware"
	"matchpoint/internal/domain/job"
	"matchpoint/internal/pkg/response"
	"matchpoint/internal/triage"

	"github.com/gofiber/fiber/v3"
)

type JobsHandler struct {
	agg   *aggregate.Aggregator
	store *triage.Store
}

func NewJobsHandler(agg *aggregate.Aggregator, store *triage.Store) *JobsHandler {
	return &JobsHandler{agg: agg, store: store}
}

// HandleSearch runs an aggregated search across all sources.
func (h *JobsHandler) HandleSearch(c fiber.Ctx) error {
	var req dto.SearchJobsRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	prefs := h.store.Preferences()
	skills := req.Skills
	if len(skills) == 0 {
		skills = prefs.ScoringSkills()
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

	return response.Success(c, fiber.StatusOK, "success", dto.SearchJobsResponse{
		Jobs:     res.Jobs,
		Total:    res.Total,
		Cached:   res.Cached,
		Fallback: res.Fallback,
	})
}

// HandleCategories serves the fixed category catalog.
func (h *JobsHandler) HandleCategories(c fiber.Ctx) error {
	return response.Success(c, fiber.StatusOK, "success", job.Categories)
}

// HandleJobTypes serves the fixed job type catalog.
func (h *JobsHandler) HandleJobTypes(c fiber.Ctx) error {
	return response.Success(c, fiber.StatusOK, "success", job.JobTypes)
}

// HandleSkipReasons serves the skip reason catalog in display order.
func (h *JobsHandler) HandleSkipReasons(c fiber.Ctx) error {
	return response.Success(c, fiber.StatusOK, "success", job.SkipReasons)
}
