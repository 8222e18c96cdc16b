package lot

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/bassista/go_park/internal/eventlog"
	"github.com/bassista/go_park/internal/logger"
	"github.com/bassista/go_park/internal/parking"
	"github.com/bassista/go_park/internal/render"
)

var ErrSpotNotFound = parking.ErrSpotNotFound

// Service runs the single-lot operations. Each operation is one transaction:
// load the full lot, apply a pure transition, write the full lot back, then run
// the remaining intents. Transactions are serialized by mu; there is no version
// check against other processes sharing the store (last writer wins).
type Service struct {
	mu       sync.Mutex
	registry *Registry
	rng      parking.Rand
	feed     *eventlog.Feed
	renderer render.Renderer

	panelMu sync.RWMutex
	panel   render.Panel
}

func NewService(registry *Registry, rng parking.Rand, feed *eventlog.Feed, renderer render.Renderer) (*Service, error) {
	if registry == nil {
		return nil, errors.New("registry is nil")
	}
	if rng == nil {
		return nil, errors.New("rng is nil")
	}
	if feed == nil {
		feed = eventlog.NewFeed()
	}
	if renderer == nil {
		renderer = render.RendererFunc(func([]parking.Spot) {})
	}
	return &Service{registry: registry, rng: rng, feed: feed, renderer: renderer}, nil
}

// Init loads (or creates) the lot and draws it once.
func (s *Service) Init(ctx context.Context) ([]parking.Spot, error) {
	return s.Refresh(ctx)
}

// Refresh re-reads the lot and redraws it without writing, unless the stored
// lot had to be regenerated.
func (s *Service) Refresh(ctx context.Context) ([]parking.Spot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	spots, err := s.registry.LoadOrInit(ctx)
	if err != nil {
		return nil, err
	}
	s.renderer.Render(spots)
	return spots, nil
}

// Spots returns the current lot.
func (s *Service) Spots(ctx context.Context) ([]parking.Spot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.registry.LoadOrInit(ctx)
}

// Stats returns the public counters of the current lot.
func (s *Service) Stats(ctx context.Context) (parking.LotStats, error) {
	spots, err := s.Spots(ctx)
	if err != nil {
		return parking.LotStats{}, err
	}
	return parking.Stats(spots), nil
}

// ToggleReservation reserves a free spot or cancels a reservation.
// An unknown id is a programming error: it is logged and ErrSpotNotFound is returned.
func (s *Service) ToggleReservation(ctx context.Context, id int) (parking.Result, error) {
	res, err := s.Dispatch(ctx, parking.ReserveCommand{SpotID: id})
	if errors.Is(err, ErrSpotNotFound) {
		logger.WithComponent("lot").Errorf("reservation toggle for unknown spot: %v", err)
	}
	return res, err
}

// Tick runs one step of the traffic simulator.
func (s *Service) Tick(ctx context.Context) (parking.Result, error) {
	return s.Dispatch(ctx, parking.SimulationTick{})
}

// Dispatch handles a command as one load/mutate/save transaction.
func (s *Service) Dispatch(ctx context.Context, cmd parking.Command) (parking.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	spots, err := s.registry.LoadOrInit(ctx)
	if err != nil {
		return parking.Result{}, err
	}

	res, err := parking.Handle(spots, cmd, s.rng)
	if err != nil {
		return parking.Result{}, err
	}
	if err := s.execute(ctx, res); err != nil {
		return parking.Result{}, err
	}
	return res, nil
}

func (s *Service) execute(ctx context.Context, res parking.Result) error {
	for _, in := range res.Intents {
		switch i := in.(type) {
		case parking.PersistIntent:
			if err := s.registry.Save(ctx, res.Spots); err != nil {
				logger.WithComponent("lot").Errorf("persist failed: %v", err)
				return err
			}
		case parking.LogIntent:
			s.feed.Append(i.Message)
		case parking.RenderIntent:
			s.renderer.Render(res.Spots)
		case parking.ClosePanelIntent:
			s.ClosePanel()
		}
	}
	return nil
}

// SelectSpot opens the detail panel for the spot with the given id.
func (s *Service) SelectSpot(ctx context.Context, id int) (render.Panel, error) {
	spots, err := s.Spots(ctx)
	if err != nil {
		return render.Panel{}, err
	}
	idx, ok := parking.Find(spots, id)
	if !ok {
		return render.Panel{}, fmt.Errorf("%w: id %d", ErrSpotNotFound, id)
	}

	panel := render.PanelFor(spots[idx])
	s.panelMu.Lock()
	s.panel = panel
	s.panelMu.Unlock()
	return panel, nil
}

// Panel returns the detail panel state; the zero value means closed.
func (s *Service) Panel() render.Panel {
	s.panelMu.RLock()
	defer s.panelMu.RUnlock()
	return s.panel
}

// ClosePanel hides the detail panel.
func (s *Service) ClosePanel() {
	s.panelMu.Lock()
	defer s.panelMu.Unlock()
	s.panel = render.Panel{}
}
