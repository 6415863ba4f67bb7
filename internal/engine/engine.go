// Package engine orchestrates the fitment pipeline: parse, map, resolve
// positions, validate, persist.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/gearpost/fitment/internal/common"
	"github.com/gearpost/fitment/internal/mapper"
	"github.com/gearpost/fitment/internal/model"
	"github.com/gearpost/fitment/internal/parser"
	"github.com/gearpost/fitment/internal/position"
	"github.com/gearpost/fitment/internal/service"
	"github.com/gearpost/fitment/internal/validator"
)

// Config holds configuration options for the mapping engine.
type Config struct {
	// OnProgress, when set, is called after each batch item completes.
	OnProgress func(done, total int)
	// Workers bounds batch concurrency.
	Workers int
	// CacheSize bounds the terminology and position LRU caches.
	CacheSize int
	// PersistWarnings controls whether Warning-status fitments persist.
	// Error-status fitments never do.
	PersistWarnings bool
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Workers:         8,
		CacheSize:       256,
		PersistWarnings: true,
	}
}

// MappingEngine runs the full pipeline for single and batch inputs, owns
// the reference lookup caches, and persists accepted fitments.
type MappingEngine struct {
	store     service.Storage
	refdata   service.RefData
	mapper    *mapper.Mapper
	termCache *lruCache
	posCache  *lruCache
	config    Config
}

// New creates a mapping engine with the given collaborators.
func New(store service.Storage, ref service.RefData, m *mapper.Mapper, config Config) (*MappingEngine, error) {
	if store == nil || ref == nil || m == nil {
		return nil, fmt.Errorf("%w: engine requires storage, reference data, and a mapper", common.ErrMissingConfig)
	}
	if config.Workers <= 0 {
		config.Workers = DefaultConfig().Workers
	}
	if config.CacheSize <= 0 {
		config.CacheSize = DefaultConfig().CacheSize
	}

	return &MappingEngine{
		store:     store,
		refdata:   ref,
		mapper:    m,
		config:    config,
		termCache: newLRUCache(config.CacheSize),
		posCache:  newLRUCache(config.CacheSize),
	}, nil
}

// ProcessApplication runs the full pipeline for one application string and
// returns one ValidationResult per candidate fitment: the cross product of
// resolved mappings, expanded years, and position groups. No candidate is
// silently dropped; unmapped vehicles yield explicit Error results.
func (e *MappingEngine) ProcessApplication(ctx context.Context, text string, terminologyID int) ([]model.ValidationResult, error) {
	app, err := parser.Parse(text)
	if err != nil {
		return nil, err
	}

	years, err := parser.ExpandYearRange(app.YearStart, app.YearEnd)
	if err != nil {
		return nil, err
	}

	groups := position.Extract(app.PositionText)
	matches := e.mapper.FindModelMapping(app.VehicleText)

	legal, err := e.legalPositions(ctx, terminologyID)
	if err != nil {
		return nil, err
	}
	v := validator.New(terminologyID, legal)

	if len(matches) == 0 {
		slog.Debug("Vehicle text matched no mapping rule", "vehicle_text", app.VehicleText)
		return unmappedResults(app, years, groups), nil
	}

	var results []model.ValidationResult
	for _, year := range years {
		vehicles, err := e.refdata.ListVehicles(ctx, service.VehicleFilter{Year: year})
		if err != nil {
			return nil, err
		}
		for _, match := range matches {
			for _, group := range groups {
				fitment := &model.PartFitment{
					Year:        year,
					Make:        match.Mapping.Make,
					Model:       match.Mapping.Model,
					VehicleCode: match.Mapping.VehicleCode,
					Positions:   group,
				}
				result, err := v.ValidateFitment(fitment, vehicles)
				if err != nil {
					return nil, err
				}
				results = append(results, result)
			}
		}
	}

	return results, nil
}

// unmappedResults produces one Error result per expanded year so callers
// see the unmapped vehicle instead of an empty answer.
func unmappedResults(app *model.PartApplication, years []int, groups []model.PositionGroup) []model.ValidationResult {
	positions := groups[0]
	results := make([]model.ValidationResult, 0, len(years))
	for _, year := range years {
		results = append(results, model.ValidationResult{
			Status:  model.StatusError,
			Message: fmt.Sprintf("unmapped vehicle: %q matches no active mapping rule", app.VehicleText),
			Fitment: model.PartFitment{Year: year, Positions: positions},
		})
	}
	return results
}

// BatchProcessApplications runs ProcessApplication over independent input
// strings with bounded concurrency. One string's parse or validation
// problems are recorded against that key only; infrastructure failures
// (reference data down) abort the whole batch.
func (e *MappingEngine) BatchProcessApplications(ctx context.Context, texts []string, terminologyID int) (map[string][]model.ValidationResult, error) {
	results := make(map[string][]model.ValidationResult, len(texts))
	var mu sync.Mutex
	done := 0

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.config.Workers)

	for _, text := range texts {
		text := text
		g.Go(func() error {
			itemResults, err := e.ProcessApplication(gctx, text, terminologyID)
			if err != nil {
				if common.IsInfrastructure(err) || gctx.Err() != nil {
					return err
				}
				// Bad input, not a bad batch: record and move on.
				itemResults = []model.ValidationResult{{
					Status:  model.StatusError,
					Message: err.Error(),
				}}
			}

			mu.Lock()
			results[text] = itemResults
			done++
			if e.config.OnProgress != nil {
				e.config.OnProgress(done, len(texts))
			}
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// ParseOnly parses one application string and returns the unvalidated
// candidate fitments, for diagnostic use.
func (e *MappingEngine) ParseOnly(_ context.Context, text string) (*model.PartApplication, []model.PartFitment, error) {
	app, err := parser.Parse(text)
	if err != nil {
		return nil, nil, err
	}

	years, err := parser.ExpandYearRange(app.YearStart, app.YearEnd)
	if err != nil {
		return nil, nil, err
	}

	groups := position.Extract(app.PositionText)

	var candidates []model.PartFitment
	for _, match := range e.mapper.FindModelMapping(app.VehicleText) {
		for _, year := range years {
			for _, group := range groups {
				candidates = append(candidates, model.PartFitment{
					Year:        year,
					Make:        match.Mapping.Make,
					Model:       match.Mapping.Model,
					VehicleCode: match.Mapping.VehicleCode,
					Positions:   group,
				})
			}
		}
	}

	return app, candidates, nil
}

// SaveMappingResults persists the fitments of results that cleared
// validation, associating them with the product. Returns the number
// persisted.
func (e *MappingEngine) SaveMappingResults(ctx context.Context, productID string, results []model.ValidationResult) (int, error) {
	var accepted []model.PartFitment
	for _, r := range results {
		if r.Persistable(e.config.PersistWarnings) {
			accepted = append(accepted, r.Fitment)
		}
	}

	if len(accepted) == 0 {
		return 0, nil
	}

	if err := e.store.SaveFitments(ctx, productID, accepted); err != nil {
		return 0, err
	}

	slog.Info("Persisted fitments", "product_id", productID, "count", len(accepted))
	return len(accepted), nil
}

// RefreshMappings reloads the rule index from the store and clears the
// reference lookup caches. The swap is atomic; on failure the previous
// index and caches stay live.
func (e *MappingEngine) RefreshMappings(ctx context.Context) error {
	if err := e.mapper.ConfigureFromStore(ctx, e.store); err != nil {
		return err
	}
	e.purgeCaches()
	slog.Info("Refreshed mapping rules", "rules", e.mapper.RuleCount())
	return nil
}

// Reconfigure swaps in an explicit rule set and clears the caches.
func (e *MappingEngine) Reconfigure(rules []model.ModelMappingRule) error {
	if err := e.mapper.Configure(rules); err != nil {
		return err
	}
	e.purgeCaches()
	return nil
}

func (e *MappingEngine) purgeCaches() {
	e.termCache.Purge()
	e.posCache.Purge()
}

// Terminology returns a part terminology through the engine's LRU cache.
func (e *MappingEngine) Terminology(ctx context.Context, id int) (*model.PartTerminology, error) {
	key := fmt.Sprintf("term:%d", id)
	if cached, ok := e.termCache.Get(key); ok {
		return cached.(*model.PartTerminology), nil
	}

	term, err := e.refdata.GetPartTerminology(ctx, id)
	if err != nil {
		return nil, err
	}
	e.termCache.Put(key, term)
	return term, nil
}

// legalPositions returns the PCDB positions for a terminology through the
// engine's LRU cache. A zero terminology disables the position check.
func (e *MappingEngine) legalPositions(ctx context.Context, terminologyID int) ([]model.Position, error) {
	if terminologyID == 0 {
		return nil, nil
	}

	key := fmt.Sprintf("pos:%d", terminologyID)
	if cached, ok := e.posCache.Get(key); ok {
		return cached.([]model.Position), nil
	}

	positions, err := e.refdata.GetLegalPositions(ctx, terminologyID)
	if err != nil {
		return nil, err
	}
	e.posCache.Put(key, positions)
	return positions, nil
}
