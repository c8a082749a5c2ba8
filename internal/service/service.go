package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/tartampluch/go-vakitmatik/internal/config"
	"github.com/tartampluch/go-vakitmatik/internal/engine"
)

// Publisher receives freshly generated payloads. *server.ScheduleServer satisfies it.
type Publisher interface {
	Update(location string, document, calendar []byte, records []engine.DailyRecord)
}

// Service keeps the published schedule in sync with its row source.
type Service struct {
	Generator *engine.Generator
	Publisher Publisher
	Config    engine.GenerateConfig

	// Interval between regenerations. Values <= 0 disable periodic refresh;
	// the schedule is generated once at start.
	Interval time.Duration

	// refresh triggers an immediate regeneration.
	refresh chan struct{}
}

// New constructs a Service with its signaling channel ready.
func New(gen *engine.Generator, pub Publisher, cfg engine.GenerateConfig, interval time.Duration) *Service {
	return &Service{
		Generator: gen,
		Publisher: pub,
		Config:    cfg,
		Interval:  interval,
		refresh:   make(chan struct{}, config.ChannelBufferSize),
	}
}

// Refresh requests an out-of-schedule regeneration. It never blocks.
func (s *Service) Refresh() {
	select {
	case s.refresh <- struct{}{}:
	default:
	}
}

// Run performs an initial sync and then keeps syncing until ctx is cancelled.
func (s *Service) Run(ctx context.Context) {
	log := slog.With(config.LogKeyComponent, config.CompWorker)

	s.performSync(ctx)

	var tick <-chan time.Time
	if s.Interval > config.DisabledInterval {
		ticker := time.NewTicker(s.Interval)
		defer ticker.Stop()
		tick = ticker.C
	}

	log.Info(config.MsgWorkerStart, config.LogKeyInterval, s.Interval)

	for {
		select {
		case <-ctx.Done():
			log.Info(config.MsgWorkerStop)
			return

		case <-s.refresh:
			s.performSync(ctx)

		case <-tick:
			s.performSync(ctx)
		}
	}
}

// performSync executes the pipeline and publishes the result. On failure the
// previously published schedule stays in place.
func (s *Service) performSync(ctx context.Context) bool {
	res, err := s.Generator.Run(ctx, s.Config)
	if err != nil {
		if ctx.Err() == nil {
			slog.Error(config.MsgGenFailed,
				config.LogKeyComponent, config.CompWorker,
				config.LogKeyError, err)
		}
		return false
	}

	s.Publisher.Update(res.Location, res.Document, res.Calendar, res.Records)
	return true
}
