package v1

import (
	"matchpoint/internal/aggregate"
	"matchpoint/internal/delivery/http/handler"
	"matchpoint/internal/delivery/http/middleware"
	"matchpoint/internal/pkg/jwt"
	"matchpoint/internal/swipe"
	"matchpoint/internal/triage"

	"github.com/gofiber/fiber/v3"
)

type Deps struct {
	Aggregator *aggregate.Aggregator
	Store      *triage.Store
	Engine     *swipe.Engine
	JWT        jwt.Service
}

func Register(r fiber.Router, d Deps) {
	if r == nil {
		return
	}

	jobs := handler.NewJobsHandler(d.Aggregator, d.Store)
	swipeH := handler.NewSwipeHandler(d.Engine, d.Aggregator, d.Store)
	buckets := handler.NewBucketsHandler(d.Store)
	prefs := handler.NewPreferencesHandler(d.Store)
	session := handler.NewSessionHandler(d.JWT, d.Store)

	authMw := middleware.NewAuthMiddleware(d.JWT)

	r.Post("/session", session.HandleCreate)

	r.Post("/jobs/search", jobs.HandleSearch)
	r.Get("/catalog/categories", jobs.HandleCategories)
	r.Get("/catalog/job-types", jobs.HandleJobTypes)
	r.Get("/catalog/skip-reasons", jobs.HandleSkipReasons)

	sw := r.Group("/swipe")
	sw.Post("/queue", swipeH.HandleLoadQueue)
	sw.Get("/state", swipeH.HandleState)
	sw.Post("/drag/start", swipeH.HandleDragStart)
	sw.Post("/drag/move", swipeH.HandleDragMove)
	sw.Post("/drag/end", swipeH.HandleDragEnd)
	sw.Post("/commit", swipeH.HandleCommit)
	sw.Post("/skip-reason", swipeH.HandleSkipReason)

	b := r.Group("/buckets")
	b.Get("/counts", buckets.HandleCounts)
	b.Get("/saved/next-unopened", buckets.HandleNextUnopened)
	b.Get("/:bucket", buckets.HandleList)
	b.Delete("/:bucket", buckets.HandleClear)
	b.Delete("/:bucket/:id", buckets.HandleRemove)
	b.Post("/:bucket/:id/restore", buckets.HandleRestore)
	b.Post("/saved/:id/opened", buckets.HandleOpened)
	b.Put("/saved/:id/status", buckets.HandleStatus)
	b.Put("/saved/:id/notes", buckets.HandleNotes)

	r.Get("/preferences", prefs.HandleGet)
	r.Put("/preferences", prefs.HandleUpdate)

	protected := r.Group("", authMw.Middleware())
	protected.Get("/profile", session.HandleProfile)
}
