package app

import (
	"fmt"
	"strings"

	"matchpoint/internal/config"
	"matchpoint/internal/delivery/http/routes"

	"github.com/gofiber/fiber/v3"
)

type App struct {
	Fiber     *fiber.App
	Container *Container
}

func New(c *Container) *App {
	f := fiber.New(fiber.Config{
		AppName: c.Config.App.AppName,
	})

	routes.Register(f, routes.Deps{
		Aggregator: c.Aggregator,
		Store:      c.Store,
		Engine:     c.Engine,
		Hub:        c.Hub,
		Redis:      c.Redis,
		JWT:        c.JWT,
		Logger:     c.Logger,
	})

	return &App{Fiber: f, Container: c}
}

// Bootstrap builds the container, starts the background workers, and
// returns the app plus a cleanup func.
func Bootstrap(cfg config.Config) (*App, func() error, error) {
	c, err := NewContainer(cfg)
	if err != nil {
		return nil, nil, err
	}

	go c.Hub.Run()
	c.Refresher.Start()

	app := New(c)
	return app, c.Close, nil
}

func ListenAddr(port string) (string, error) {
	p := strings.TrimSpace(port)
	if p == "" {
		return "", fmt.Errorf("empty HTTP port")
	}
	if strings.HasPrefix(p, ":") {
		return p, nil
	}
	return ":" + p, nil
}
