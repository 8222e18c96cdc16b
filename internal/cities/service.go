package cities

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/bassista/go_park/internal/logger"
	"github.com/bassista/go_park/internal/parking"
	"github.com/bassista/go_park/internal/repository"
)

// Options configures the multi-city simulation.
type Options struct {
	Key          string
	Cities       []string
	SpotsPerCity int
	MaxDelta     int
}

// Service owns the city-name to aggregate mapping stored under one key.
// Like the single-lot service it keeps nothing in memory between calls.
type Service struct {
	mu    sync.Mutex
	store repository.KVStore
	opts  Options
	rng   parking.Rand
	now   func() time.Time
}

func NewService(store repository.KVStore, opts Options, rng parking.Rand) (*Service, error) {
	if store == nil {
		return nil, errors.New("store is nil")
	}
	if rng == nil {
		return nil, errors.New("rng is nil")
	}
	if opts.Key == "" {
		return nil, errors.New("cities key is empty")
	}
	if len(opts.Cities) == 0 {
		return nil, errors.New("no cities configured")
	}
	if opts.SpotsPerCity <= 0 {
		return nil, fmt.Errorf("spots per city must be positive, got %d", opts.SpotsPerCity)
	}
	return &Service{store: store, opts: opts, rng: rng, now: time.Now}, nil
}

// SetClock replaces the time source used for lastUpdate.
func (s *Service) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

// Cities returns the configured city names in order.
func (s *Service) Cities() []string {
	return append([]string(nil), s.opts.Cities...)
}

// Init makes sure every configured city has an aggregate. When the mapping
// already existed, it also runs one refresh step.
func (s *Service) Init(ctx context.Context) (map[string]parking.LotAggregate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	lots, existed, err := s.loadOrInit(ctx)
	if err != nil {
		return nil, err
	}
	if !existed {
		return lots, nil
	}
	return s.refreshLocked(ctx, lots)
}

// Lots returns the stored aggregates, creating them if needed.
func (s *Service) Lots(ctx context.Context) (map[string]parking.LotAggregate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	lots, _, err := s.loadOrInit(ctx)
	return lots, err
}

// Refresh applies one random delta to every configured city and saves the mapping.
func (s *Service) Refresh(ctx context.Context) (map[string]parking.LotAggregate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	lots, _, err := s.loadOrInit(ctx)
	if err != nil {
		return nil, err
	}
	return s.refreshLocked(ctx, lots)
}

// GlobalStats sums the configured cities. ok is false when nothing is stored yet.
func (s *Service) GlobalStats(ctx context.Context) (parking.GlobalStats, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	lots, ok, err := s.load(ctx)
	if err != nil || !ok {
		return parking.GlobalStats{}, false, err
	}
	stats, ok := parking.SumCities(lots, s.opts.Cities)
	return stats, ok, nil
}

func (s *Service) refreshLocked(ctx context.Context, lots map[string]parking.LotAggregate) (map[string]parking.LotAggregate, error) {
	parking.RefreshCities(lots, s.opts.Cities, s.opts.MaxDelta, s.rng, s.now())
	if err := s.save(ctx, lots); err != nil {
		return nil, err
	}
	logger.WithComponent("cities").Debugf("refreshed %d cities", len(s.opts.Cities))
	return lots, nil
}

func (s *Service) load(ctx context.Context) (map[string]parking.LotAggregate, bool, error) {
	var lots map[string]parking.LotAggregate
	ok, err := repository.LoadJSON(ctx, s.store, s.opts.Key, &lots)
	if err != nil || !ok || lots == nil {
		return nil, false, err
	}
	return lots, true, nil
}

func (s *Service) save(ctx context.Context, lots map[string]parking.LotAggregate) error {
	if err := repository.SaveJSON(ctx, s.store, s.opts.Key, lots); err != nil {
		return fmt.Errorf("save cities: %w", err)
	}
	return nil
}

// loadOrInit returns the stored mapping, adding any configured city that is
// missing or holds an invalid aggregate. Cities that are stored but not
// configured are kept untouched. existed reports whether a mapping was stored.
func (s *Service) loadOrInit(ctx context.Context) (map[string]parking.LotAggregate, bool, error) {
	lots, existed, err := s.load(ctx)
	if err != nil {
		return nil, false, err
	}
	if !existed {
		lots = make(map[string]parking.LotAggregate, len(s.opts.Cities))
	}

	now := s.now()
	dirty := !existed
	for _, city := range s.opts.Cities {
		lot, ok := lots[city]
		if ok {
			verr := parking.ValidateAggregate(lot)
			if verr == nil {
				continue
			}
			logger.WithComponent("cities").Infof("stored aggregate for %s rejected, regenerating: %v", city, verr)
		}
		lots[city] = parking.NewAggregate(s.opts.SpotsPerCity, s.rng, now)
		dirty = true
	}

	if dirty {
		if err := s.save(ctx, lots); err != nil {
			return nil, existed, err
		}
	}
	return lots, existed, nil
}
