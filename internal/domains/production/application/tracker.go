package application

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/widgetco/fulfillment/internal/domains/production/domain"
	"github.com/widgetco/fulfillment/internal/domains/production/ports"
)

// Tracker exposes the production pipeline use cases.
type Tracker struct {
	repo ports.Repository
	rng  *rand.Rand
}

// NewTracker wires the tracker. The rand source draws stage durations;
// inject a seeded source for reproducible runs.
func NewTracker(repo ports.Repository, rng *rand.Rand) *Tracker {
	return &Tracker{repo: repo, rng: rng}
}

// Initialize creates the full set of stage records for an order entering
// processing. The first stage starts immediately; its duration is drawn now
// and persisted as the due timestamp. All records commit as one batch.
func (t *Tracker) Initialize(ctx context.Context, orderID int64, firstStageStart time.Time) error {
	existing, err := t.repo.ListByOrder(ctx, orderID)
	if err != nil && !errors.Is(err, ports.ErrNotFound) {
		return err
	}
	// Re-running intake against an order whose tracking already exists must
	// be a no-op, not a duplicate pipeline.
	if len(existing) > 0 {
		return nil
	}
	records := make([]*domain.StageRecord, 0, len(domain.Stages))
	for i, stage := range domain.Stages {
		record := &domain.StageRecord{OrderID: orderID, Stage: stage}
		if i == 0 {
			start := firstStageStart
			due := start.Add(domain.DrawStageDuration(t.rng))
			record.StartedAt = &start
			record.DueAt = &due
		}
		records = append(records, record)
	}
	return t.repo.CreateBatch(ctx, records)
}

// TryAdvance performs at most one stage transition for the order. It locates
// the first started-but-not-completed stage and compares the persisted due
// timestamp against now: not yet due returns an in-progress result without
// mutation; due completes the stage at its due time (never at the probe
// time) and starts the next stage at now. Completing the final stage, or
// probing an order whose stages are all complete, signals fulfillment.
func (t *Tracker) TryAdvance(ctx context.Context, orderID int64, now time.Time) (domain.AdvanceResult, error) {
	records, err := t.repo.ListByOrder(ctx, orderID)
	if err != nil {
		return domain.AdvanceResult{}, err
	}
	if len(records) == 0 {
		return domain.AdvanceResult{}, fmt.Errorf("%w: order %d", domain.ErrUnknownOrder, orderID)
	}

	byStage := make(map[domain.Stage]*domain.StageRecord, len(records))
	for _, record := range records {
		byStage[record.Stage] = record
	}

	completed := 0
	for i, stage := range domain.Stages {
		record, ok := byStage[stage]
		if !ok {
			return domain.AdvanceResult{}, fmt.Errorf("%w: order %d missing stage %s", domain.ErrUnknownOrder, orderID, stage)
		}
		if record.CompletedAt != nil {
			completed++
			continue
		}
		if record.StartedAt == nil {
			// An earlier stage never started; nothing is in flight.
			return domain.AdvanceResult{Outcome: domain.OutcomeIdle}, nil
		}
		return t.advanceStage(ctx, record, byStage, i, now)
	}
	if completed == len(domain.Stages) {
		// All stages already done: re-signal fulfillment so a driver that
		// crashed between tracker completion and shipping can heal.
		final := byStage[domain.Stages[len(domain.Stages)-1]]
		return domain.AdvanceResult{
			Outcome:     domain.OutcomeFulfilled,
			Stage:       final.Stage,
			CompletedAt: *final.CompletedAt,
		}, nil
	}
	return domain.AdvanceResult{Outcome: domain.OutcomeIdle}, nil
}

func (t *Tracker) advanceStage(ctx context.Context, record *domain.StageRecord, byStage map[domain.Stage]*domain.StageRecord, index int, now time.Time) (domain.AdvanceResult, error) {
	due := record.DueAt
	if due == nil {
		// Records written before due timestamps were persisted: draw once
		// now and store it so later probes agree.
		drawn := record.StartedAt.Add(domain.DrawStageDuration(t.rng))
		record.DueAt = &drawn
		if err := t.repo.SaveBatch(ctx, []*domain.StageRecord{record}); err != nil {
			return domain.AdvanceResult{}, err
		}
		due = &drawn
	}
	if now.Before(*due) {
		return domain.AdvanceResult{
			Outcome:   domain.OutcomeInProgress,
			Stage:     record.Stage,
			Remaining: due.Sub(now),
		}, nil
	}

	completedAt := *due
	record.CompletedAt = &completedAt
	writes := []*domain.StageRecord{record}

	result := domain.AdvanceResult{
		Outcome:     domain.OutcomeStageCompleted,
		Stage:       record.Stage,
		CompletedAt: completedAt,
	}
	if index == len(domain.Stages)-1 {
		result.Outcome = domain.OutcomeFulfilled
	} else {
		next := byStage[domain.Stages[index+1]]
		start := now
		nextDue := start.Add(domain.DrawStageDuration(t.rng))
		next.StartedAt = &start
		next.DueAt = &nextDue
		writes = append(writes, next)
		result.NextStage = next.Stage
		result.NextStartedAt = start
	}
	if err := t.repo.SaveBatch(ctx, writes); err != nil {
		return domain.AdvanceResult{}, err
	}
	return result, nil
}

// ListByOrder returns the order's stage records in pipeline order.
func (t *Tracker) ListByOrder(ctx context.Context, orderID int64) ([]*domain.StageRecord, error) {
	return t.repo.ListByOrder(ctx, orderID)
}
