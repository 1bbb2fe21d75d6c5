// Package batch coordinates prompt construction, throttled provider
// calls, response parsing, validation, and persistence for one or many
// personas.
package batch

import (
	"context"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"personagen/internal/parser"
	"personagen/internal/prompt"
	"personagen/internal/provider"
	"personagen/internal/store"
	"personagen/internal/types"
	"personagen/internal/validate"
)

// DefaultMaxConcurrent caps simultaneous in-flight provider calls
// across the whole process.
const DefaultMaxConcurrent = 3

// Orchestrator generates artifact batches. The semaphore bounds
// concurrent provider calls process-wide; persistence and validation
// are synchronous and unthrottled.
type Orchestrator struct {
	store     *store.Store
	validator *validate.Validator
	sem       *semaphore.Weighted
	log       *zap.Logger
}

// NewOrchestrator builds an orchestrator around the given store.
// maxConcurrent <= 0 selects the default cap of 3.
func NewOrchestrator(st *store.Store, maxConcurrent int64, log *zap.Logger) *Orchestrator {
	if maxConcurrent <= 0 {
		maxConcurrent = DefaultMaxConcurrent
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Orchestrator{
		store:     st,
		validator: validate.New(),
		sem:       semaphore.NewWeighted(maxConcurrent),
		log:       log,
	}
}

// GenerateBatch produces artifacts for one persona: it builds the
// prompt, calls the provider while holding one limiter slot, parses the
// response, and promotes parsed records to artifacts. A record that
// fails promotion is logged and skipped, never fatal to the batch.
func (o *Orchestrator) GenerateBatch(ctx context.Context, persona types.PersonaContext, cfg types.GenerationConfig, prov provider.Provider) ([]types.Artifact, error) {
	p := prompt.Build(persona, cfg)

	if err := o.sem.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	raw, err := prov.Generate(ctx, p, provider.Options{
		Model:       cfg.Model,
		Temperature: cfg.Temperature,
		MaxTokens:   cfg.MaxTokens,
	})
	o.sem.Release(1)
	if err != nil {
		o.log.Warn("provider call failed",
			zap.String("persona", persona.Slug),
			zap.Error(err))
		return nil, err
	}

	records := parser.Parse(raw, cfg.NumArtifacts)
	o.log.Debug("response parsed",
		zap.String("persona", persona.Slug),
		zap.Int("requested", cfg.NumArtifacts),
		zap.Int("recovered", len(records)))

	artifacts := make([]types.Artifact, 0, len(records))
	for _, rec := range records {
		a, err := types.NewArtifact(persona.Slug, rec)
		if err != nil {
			o.log.Debug("skipping unpromotable record",
				zap.String("persona", persona.Slug),
				zap.String("title", rec.Title),
				zap.Error(err))
			continue
		}
		artifacts = append(artifacts, a)
	}
	return artifacts, nil
}

// GenerateMultiplePersonas runs GenerateBatch for each persona
// concurrently and persists each successful result. One persona's
// provider failure yields zero artifacts for that persona without
// cancelling or failing siblings. Returns the total persisted count.
func (o *Orchestrator) GenerateMultiplePersonas(ctx context.Context, personas []types.PersonaContext, cfg types.GenerationConfig, prov provider.Provider) int {
	var (
		g     errgroup.Group
		mu    sync.Mutex
		total int
	)

	for _, persona := range personas {
		g.Go(func() error {
			artifacts, err := o.GenerateBatch(ctx, persona, cfg, prov)
			if err != nil {
				// Already logged; siblings keep going.
				return nil
			}
			count := o.store.InsertArtifactsBatch(artifacts)
			mu.Lock()
			total += count
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()
	return total
}

// ProcessBatch validates the artifacts and persists the valid ones.
// Returns (persisted, failed): failed counts validation rejections,
// and persisted may be lower than the valid count if individual
// inserts fail.
func (o *Orchestrator) ProcessBatch(artifacts []types.Artifact) (persisted, failed int) {
	valid := make([]types.Artifact, 0, len(artifacts))
	for _, a := range artifacts {
		if o.validator.ValidateArtifact(a) {
			valid = append(valid, a)
		} else {
			failed++
		}
	}
	persisted = o.store.InsertArtifactsBatch(valid)
	return persisted, failed
}
