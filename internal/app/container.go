package app

import (
	"context"
	"log"
	"os"

	"matchpoint/internal/aggregate"
	"matchpoint/internal/config"
	"matchpoint/internal/pkg/jwt"
	"matchpoint/internal/scoring"
	"matchpoint/internal/source"
	"matchpoint/internal/storage"
	"matchpoint/internal/swipe"
	"matchpoint/internal/triage"
	"matchpoint/internal/ws"
)

// Container wires every long-lived component.
type Container struct {
	Config     config.Config
	Logger     *log.Logger
	Redis      *storage.Redis
	Store      *triage.Store
	Aggregator *aggregate.Aggregator
	Engine     *swipe.Engine
	Hub        *ws.Hub
	Refresher  *aggregate.Refresher
	JWT        jwt.Service
}

func NewContainer(cfg config.Config) (*Container, error) {
	logger := log.New(os.Stdout, "["+cfg.App.AppName+"] ", log.LstdFlags)

	var kv storage.KV
	var rds *storage.Redis
	if addr := cfg.Redis.RedisAddr(); addr != "" {
		rds = storage.NewRedis(addr, cfg.Redis.Password, cfg.Redis.DB, logger)
		kv = rds
	} else {
		logger.Printf("[Storage] no Redis configured, state is in-memory only")
		kv = storage.NewMemory()
	}

	store := triage.NewStore(kv, logger)
	if err := store.Load(context.Background()); err != nil {
		logger.Printf("[Storage] hydrate failed, starting fresh: %v", err)
	}

	hub := ws.NewHub(logger)
	notifier := ws.NewNotifier(hub)

	scorer := scoring.New()
	timeout := cfg.Sources.FetchTimeout
	sources := []source.Source{
		source.NewRemotive(cfg.Sources.RemotiveURL, timeout, scorer, logger),
		source.NewJobicy(cfg.Sources.JobicyURL, timeout, scorer, logger),
		source.NewRemoteOK(cfg.Sources.RemoteOKURL, timeout, scorer, logger),
		source.NewWeWorkRemotely(cfg.Sources.WeWorkRemotelyURL, timeout, scorer, logger),
	}

	agg := aggregate.New(sources, logger,
		aggregate.WithCache(cfg.Cache.TTL, cfg.Cache.Cap),
		aggregate.WithNotifier(notifier.Notify),
	)

	engine := swipe.NewEngine(store, logger, swipe.WithNotifier(notifier.Notify))

	refresher, err := aggregate.NewRefresher(agg, cfg.Cache.RefreshSpec, func() []string {
		return store.Preferences().ScoringSkills()
	}, logger)
	if err != nil {
		return nil, err
	}

	return &Container{
		Config:     cfg,
		Logger:     logger,
		Redis:      rds,
		Store:      store,
		Aggregator: agg,
		Engine:     engine,
		Hub:        hub,
		Refresher:  refresher,
		JWT:        jwt.NewHMACService(cfg.Session.Secret, cfg.Session.ExpiresIn),
	}, nil
}

func (c *Container) Close() error {
	if c == nil {
		return nil
	}
	if c.Refresher != nil {
		c.Refresher.Stop()
	}
	if c.Redis != nil {
		return c.Redis.Close()
	}
	return nil
}
