package routes

import (
	"log"

	"matchpoint/internal/aggregate"
	"matchpoint/internal/delivery/http/handler"
	"matchpoint/internal/delivery/http/middleware"
	v1 "matchpoint/internal/delivery/http/routes/v1"
	"matchpoint/internal/pkg/jwt"
	"matchpoint/internal/storage"
	"matchpoint/internal/swipe"
	"matchpoint/internal/triage"
	"matchpoint/internal/ws"

	"github.com/gofiber/fiber/v3"
)

// Deps carries everything the HTTP surface needs.
type Deps struct {
	Aggregator *aggregate.Aggregator
	Store      *triage.Store
	Engine     *swipe.Engine
	Hub        *ws.Hub
	Redis      *storage.Redis
	JWT        jwt.Service
	Logger     *log.Logger
}

func Register(app *fiber.App, d Deps) {
	if app == nil {
		return
	}

	app.Use(middleware.NewAccessLogMiddleware(d.Logger).Middleware())
	app.Use(middleware.NewErrorMiddleware().Middleware())

	health := handler.NewHealthHandler(d.Aggregator, d.Hub, d.Redis)
	app.Get("/health", health.HandleHealth)

	wsHandler := ws.NewHandler(d.Hub, d.Logger)
	app.Get("/ws/events", wsHandler.HandleEventsWS)

	api := app.Group("/api")
	v1.Register(api.Group("/v1"), v1.Deps{
		Aggregator: d.Aggregator,
		Store:      d.Store,
		Engine:     d.Engine,
		JWT:        d.JWT,
	})
}
