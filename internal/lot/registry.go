package lot

import (
	"context"
	"fmt"

	"github.com/bassista/go_park/internal/logger"
	"github.com/bassista/go_park/internal/parking"
	"github.com/bassista/go_park/internal/repository"
)

// Registry maps the spot sequence of one lot to a key of the store.
// It keeps no copy of the spots: every call goes to the store.
type Registry struct {
	store       repository.KVStore
	key         string
	total       int
	probability float64
	rng         parking.Rand
}

func NewRegistry(store repository.KVStore, key string, total int, probability float64, rng parking.Rand) *Registry {
	return &Registry{store: store, key: key, total: total, probability: probability, rng: rng}
}

// Total is the configured number of spots.
func (r *Registry) Total() int {
	return r.total
}

// Load decodes whatever is stored. ok is false when the key is missing or the
// value cannot be parsed; the content is not validated.
func (r *Registry) Load(ctx context.Context) ([]parking.Spot, bool, error) {
	var spots []parking.Spot
	ok, err := repository.LoadJSON(ctx, r.store, r.key, &spots)
	if err != nil || !ok {
		return nil, false, err
	}
	return spots, true, nil
}

// Generate builds a fresh random lot of n spots.
func (r *Registry) Generate(n int) []parking.Spot {
	return parking.Generate(n, r.probability, r.rng)
}

// Save overwrites the stored sequence.
func (r *Registry) Save(ctx context.Context, spots []parking.Spot) error {
	if err := repository.SaveJSON(ctx, r.store, r.key, spots); err != nil {
		return fmt.Errorf("save spots: %w", err)
	}
	return nil
}

// LoadOrInit returns the stored lot when it is valid for the configured size.
// Anything else (missing, unparsable, wrong size, malformed spots) is replaced
// by a generated lot, which is saved right away. Prior reservations are lost in
// that case.
func (r *Registry) LoadOrInit(ctx context.Context) ([]parking.Spot, error) {
	spots, ok, err := r.Load(ctx)
	if err != nil {
		return nil, err
	}
	if ok {
		verr := parking.ValidateSpots(spots, r.total)
		if verr == nil {
			return spots, nil
		}
		logger.WithComponent("lot").Infof("stored lot rejected, regenerating: %v", verr)
	} else {
		logger.WithComponent("lot").Infof("no stored lot under %q, generating %d spots", r.key, r.total)
	}

	spots = r.Generate(r.total)
	if err := r.Save(ctx, spots); err != nil {
		return nil, err
	}
	return spots, nil
}
