package app

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/bassista/go_park/internal/cities"
	"github.com/bassista/go_park/internal/config"
	"github.com/bassista/go_park/internal/eventlog"
	"github.com/bassista/go_park/internal/logger"
	"github.com/bassista/go_park/internal/lot"
	"github.com/bassista/go_park/internal/parking"
	"github.com/bassista/go_park/internal/render"
	"github.com/bassista/go_park/internal/repository"
	"github.com/bassista/go_park/internal/scheduler"
	"golang.org/x/sync/errgroup"
)

// Session is the application container: configuration, the store, the two
// simulations and their periodic tasks. It is not a request context; handlers
// should still use gin's request context.
type Session struct {
	Config *config.Config
	Store  repository.KVStore
	Lot    *lot.Service
	Cities *cities.Service
	Feed   *eventlog.Feed
	Frames *render.FrameRecorder

	BaseCtx context.Context
	Cancel  context.CancelFunc

	mu       sync.Mutex
	started  bool
	group    *errgroup.Group
	stopOnce sync.Once
	stopErr  error
}

func New(cfg *config.Config, store repository.KVStore) (*Session, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}
	if store == nil {
		return nil, errors.New("store is nil")
	}

	lotRng, cityRng := parking.NewRand(cfg.Misc.Seed), parking.NewRand(cfg.Misc.Seed)
	if cfg.Misc.Seed != 0 {
		cityRng = parking.NewRand(cfg.Misc.Seed + 1)
	}

	feed := eventlog.NewFeed()
	frames := render.NewFrameRecorder()
	columns := cfg.Lot.GridColumns
	renderer := render.Multi{frames, render.RendererFunc(func(spots []parking.Spot) {
		logger.WithComponent("render").Debugf("lot redrawn:\n%s", render.Grid(spots, columns))
	})}

	registry := lot.NewRegistry(store, cfg.Data.SpotsKey, cfg.Lot.TotalSpots, cfg.Lot.OccupiedProbability, lotRng)
	lotSvc, err := lot.NewService(registry, lotRng, feed, renderer)
	if err != nil {
		return nil, fmt.Errorf("lot service: %w", err)
	}

	citySvc, err := cities.NewService(store, cities.Options{
		Key:          cfg.Data.CitiesKey,
		Cities:       cfg.Cities.Names,
		SpotsPerCity: cfg.Cities.SpotsPerCity,
		MaxDelta:     cfg.Cities.MaxDelta,
	}, cityRng)
	if err != nil {
		return nil, fmt.Errorf("cities service: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Session{
		Config:  cfg,
		Store:   store,
		Lot:     lotSvc,
		Cities:  citySvc,
		Feed:    feed,
		Frames:  frames,
		BaseCtx: ctx,
		Cancel:  cancel,
	}, nil
}

// Init loads or creates both the lot and the city aggregates without starting
// any background work. The CLI uses it for one-shot commands.
func (s *Session) Init() error {
	if _, err := s.Lot.Init(s.BaseCtx); err != nil {
		return fmt.Errorf("init lot: %w", err)
	}
	if _, err := s.Cities.Init(s.BaseCtx); err != nil {
		return fmt.Errorf("init cities: %w", err)
	}
	return nil
}

// Start initializes the state and launches the traffic and city refresh
// tasks, plus the store watcher when the backend supports it.
func (s *Session) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return errors.New("session already started")
	}
	if err := s.BaseCtx.Err(); err != nil {
		return fmt.Errorf("session stopped: %w", err)
	}
	if err := s.Init(); err != nil {
		return err
	}

	traffic, err := scheduler.NewPeriodicTask("traffic", s.Config.Lot.TrafficInterval, s.trafficTick)
	if err != nil {
		return err
	}
	refresh, err := scheduler.NewPeriodicTask("cities", s.Config.Cities.RefreshInterval, s.citiesTick)
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(s.BaseCtx)
	g.Go(func() error { return traffic.Run(gctx) })
	g.Go(func() error { return refresh.Run(gctx) })
	s.group = g
	s.started = true

	if s.Config.Data.WatchFile {
		if w, ok := s.Store.(repository.Watcher); ok {
			if err := w.Watch(s.BaseCtx, s.onExternalChange); err != nil {
				logger.WithComponent("session").Warnf("cannot start store watcher: %v", err)
			} else {
				logger.WithComponent("session").Info("watching store for external writes")
			}
		}
	}

	logger.WithComponent("session").Infof("session started: %d spots, %d cities", s.Config.Lot.TotalSpots, len(s.Config.Cities.Names))
	return nil
}

// Stop cancels the periodic tasks, waits for them and closes the store.
// It is safe to call more than once.
func (s *Session) Stop() error {
	if s == nil || s.Cancel == nil {
		return nil
	}
	s.stopOnce.Do(func() {
		s.Cancel()

		s.mu.Lock()
		g := s.group
		s.mu.Unlock()

		if g != nil {
			if err := g.Wait(); err != nil {
				s.stopErr = err
			}
		}
		if err := s.Store.Close(); err != nil {
			s.stopErr = errors.Join(s.stopErr, fmt.Errorf("close store: %w", err))
		}
		logger.WithComponent("session").Info("session stopped")
	})
	return s.stopErr
}

func (s *Session) trafficTick(ctx context.Context) {
	if _, err := s.Lot.Tick(ctx); err != nil && ctx.Err() == nil {
		logger.WithComponent("session").Errorf("traffic tick failed: %v", err)
	}
}

func (s *Session) citiesTick(ctx context.Context) {
	if _, err := s.Cities.Refresh(ctx); err != nil && ctx.Err() == nil {
		logger.WithComponent("session").Errorf("cities refresh failed: %v", err)
	}
}

func (s *Session) onExternalChange() {
	if s.BaseCtx.Err() != nil {
		return
	}
	s.Feed.Append("SYSTEM: store updated externally, reloading.")
	if _, err := s.Lot.Refresh(s.BaseCtx); err != nil {
		logger.WithComponent("session").Errorf("reload after external write failed: %v", err)
	}
}
