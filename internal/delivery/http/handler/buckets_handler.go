package handler

import (
	"errors"

	"matchpoint/internal/delivery/http/dto"
	"matchpoint/internal/delivery/http/middleware"
	"matchpoint/internal/domain/job"
	"matchpoint/internal/pkg/response"
	"matchpoint/internal/triage"

	"github.com/gofiber/fiber/v3"
)

type BucketsHandler struct {
	store *triage.Store
}

func NewBucketsHandler(store *triage.Store) *BucketsHandler {
	return &BucketsHandler{store: store}
}

func parseBucket(raw string) (triage.Bucket, bool) {
	switch triage.Bucket(raw) {
	case triage.BucketSaved, triage.BucketSkipped, triage.BucketArchived:
		return triage.Bucket(raw), true
	}
	return "", false
}

// HandleList returns one bucket, newest first.
func (h *BucketsHandler) HandleList(c fiber.Ctx) error {
	b, ok := parseBucket(c.Params("bucket"))
	if !ok {
		return middleware.NewAppError(fiber.StatusBadRequest, "Unknown bucket", nil, nil)
	}
	var entries []triage.Entry
	switch b {
	case triage.BucketSaved:
		entries = h.store.Saved()
	case triage.BucketSkipped:
		entries = h.store.Skipped()
	case triage.BucketArchived:
		entries = h.store.Archived()
	}
	return response.Success(c, fiber.StatusOK, "success", dto.BucketResponse{
		Bucket:  string(b),
		Entries: entries,
		Total:   len(entries),
	})
}

// HandleCounts returns bucket sizes for badges.
func (h *BucketsHandler) HandleCounts(c fiber.Ctx) error {
	return response.Success(c, fiber.StatusOK, "success", h.store.Counts())
}

func (h *BucketsHandler) HandleRemove(c fiber.Ctx) error {
	b, ok := parseBucket(c.Params("bucket"))
	if !ok {
		return middleware.NewAppError(fiber.StatusBadRequest, "Unknown bucket", nil, nil)
	}
	if err := h.store.Remove(c.Context(), b, c.Params("id")); err != nil {
		return mapTriageError(err)
	}
	return response.Success(c, fiber.StatusOK, "success", nil)
}

func (h *BucketsHandler) HandleClear(c fiber.Ctx) error {
	b, ok := parseBucket(c.Params("bucket"))
	if !ok {
		return middleware.NewAppError(fiber.StatusBadRequest, "Unknown bucket", nil, nil)
	}
	h.store.Clear(c.Context(), b)
	return response.Success(c, fiber.StatusOK, "success", nil)
}

// HandleRestore moves a skipped or archived entry back into saved.
func (h *BucketsHandler) HandleRestore(c fiber.Ctx) error {
	b, ok := parseBucket(c.Params("bucket"))
	if !ok || b == triage.BucketSaved {
		return middleware.NewAppError(fiber.StatusBadRequest, "Cannot restore from this bucket", nil, nil)
	}
	if err := h.store.Restore(c.Context(), b, c.Params("id")); err != nil {
		return mapTriageError(err)
	}
	return response.Success(c, fiber.StatusOK, "success", nil)
}

// HandleOpened marks a saved entry as visited.
func (h *BucketsHandler) HandleOpened(c fiber.Ctx) error {
	if err := h.store.MarkOpened(c.Context(), c.Params("id")); err != nil {
		return mapTriageError(err)
	}
	return response.Success(c, fiber.StatusOK, "success", nil)
}

// HandleNextUnopened returns the next saved entry not yet visited, and
// marks it opened so repeated calls walk the list.
func (h *BucketsHandler) HandleNextUnopened(c fiber.Ctx) error {
	e, ok := h.store.NextUnopened()
	if !ok {
		return middleware.NewAppError(fiber.StatusNotFound, "No unopened saved jobs", nil, nil)
	}
	if err := h.store.MarkOpened(c.Context(), e.ID); err != nil {
		return mapTriageError(err)
	}
	return response.Success(c, fiber.StatusOK, "success", e)
}

func (h *BucketsHandler) HandleStatus(c fiber.Ctx) error {
	var req dto.StatusRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}
	status, ok := job.ParseApplicationStatus(req.Status)
	if !ok {
		return middleware.NewAppError(fiber.StatusBadRequest, "Unknown status", nil, nil)
	}
	if err := h.store.SetStatus(c.Context(), c.Params("id"), status); err != nil {
		return mapTriageError(err)
	}
	return response.Success(c, fiber.StatusOK, "success", fiber.Map{"status": status})
}

func (h *BucketsHandler) HandleNotes(c fiber.Ctx) error {
	var req dto.NotesRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}
	if err := h.store.SetNotes(c.Context(), c.Params("id"), req.Notes); err != nil {
		return mapTriageError(err)
	}
	return response.Success(c, fiber.StatusOK, "success", nil)
}

func mapTriageError(err error) error {
	if errors.Is(err, triage.ErrNotFound) {
		return middleware.NewAppError(fiber.StatusNotFound, "Entry not found", nil, err)
	}
	return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
}
