package aggregate

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

// DefaultRefreshSpec re-warms cached searches every five minutes, aligned
// with the cache TTL so popular queries rarely hit a cold entry.
const DefaultRefreshSpec = "*/5 * * * *"

// Refresher periodically re-runs cached searches in the background.
type Refresher struct {
	agg    *Aggregator
	cron   *cron.Cron
	logger *log.Logger
	skills func() []string
}

// NewRefresher schedules Refresh on the given cron spec. skills provides
// the current scoring skill set at each tick.
func NewRefresher(agg *Aggregator, spec string, skills func() []string, logger *log.Logger) (*Refresher, error) {
	if spec == "" {
		spec = DefaultRefreshSpec
	}
	r := &Refresher{
		agg:    agg,
		cron:   cron.New(),
		logger: logger,
		skills: skills,
	}
	_, err := r.cron.AddFunc(spec, r.tick)
	if err != nil {
		return nil, err
	}
	return r, nil
}

func (r *Refresher) tick() {
	n := r.agg.CacheSize()
	if n == 0 {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()
	start := time.Now()
	r.agg.Refresh(ctx, r.skills())
	r.logger.Printf("refresher: re-warmed %d cached searches in %s", n, time.Since(start).Round(time.Millisecond))
}

func (r *Refresher) Start() { r.cron.Start() }

// Stop halts scheduling and waits for a running tick to finish.
func (r *Refresher) Stop() {
	<-r.cron.Stop().Done()
}
