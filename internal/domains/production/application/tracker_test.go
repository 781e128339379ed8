package application

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/widgetco/fulfillment/internal/domains/production/adapters/memory"
	"github.com/widgetco/fulfillment/internal/domains/production/domain"
)

var t0 = time.Date(2026, 2, 12, 10, 0, 0, 0, time.UTC)

func newTestTracker() (*Tracker, *memory.Repository) {
	repo := memory.NewRepository()
	return NewTracker(repo, rand.New(rand.NewSource(42))), repo
}

// seedOrder creates the four stage records with a pinned due time for the
// first stage so probes are deterministic.
func seedOrder(t *testing.T, repo *memory.Repository, orderID int64, start time.Time, duration time.Duration) {
	t.Helper()
	due := start.Add(duration)
	records := []*domain.StageRecord{
		{OrderID: orderID, Stage: domain.StageAssembly, StartedAt: &start, DueAt: &due},
		{OrderID: orderID, Stage: domain.StageTest},
		{OrderID: orderID, Stage: domain.StageInspection},
		{OrderID: orderID, Stage: domain.StageShipping},
	}
	require.NoError(t, repo.CreateBatch(context.Background(), records))
}

func TestInitialize_CreatesAllStagesWithDrawnDue(t *testing.T) {
	tracker, repo := newTestTracker()
	ctx := context.Background()

	require.NoError(t, tracker.Initialize(ctx, 7, t0))

	records, err := repo.ListByOrder(ctx, 7)
	require.NoError(t, err)
	require.Len(t, records, len(domain.Stages))
	for i, record := range records {
		require.Equal(t, domain.Stages[i], record.Stage)
		require.Nil(t, record.CompletedAt)
		if i == 0 {
			require.NotNil(t, record.StartedAt)
			require.Equal(t, t0, *record.StartedAt)
			require.NotNil(t, record.DueAt)
			duration := record.DueAt.Sub(*record.StartedAt)
			require.GreaterOrEqual(t, duration, domain.MinStageDuration)
			require.LessOrEqual(t, duration, domain.MaxStageDuration)
		} else {
			require.Nil(t, record.StartedAt)
			require.Nil(t, record.DueAt)
		}
	}
}

func TestInitialize_IsIdempotent(t *testing.T) {
	tracker, repo := newTestTracker()
	ctx := context.Background()

	require.NoError(t, tracker.Initialize(ctx, 7, t0))
	require.NoError(t, tracker.Initialize(ctx, 7, t0.Add(time.Hour)))

	records, err := repo.ListByOrder(ctx, 7)
	require.NoError(t, err)
	require.Len(t, records, len(domain.Stages))
	require.Equal(t, t0, *records[0].StartedAt)
}

func TestTryAdvance_BeforeDueIsReadOnly(t *testing.T) {
	tracker, repo := newTestTracker()
	ctx := context.Background()
	seedOrder(t, repo, 1, t0, 24*time.Hour)

	result, err := tracker.TryAdvance(ctx, 1, t0.Add(10*time.Hour))
	require.NoError(t, err)
	require.Equal(t, domain.OutcomeInProgress, result.Outcome)
	require.Equal(t, domain.StageAssembly, result.Stage)
	require.Equal(t, 14*time.Hour, result.Remaining)

	records, err := repo.ListByOrder(ctx, 1)
	require.NoError(t, err)
	require.Nil(t, records[0].CompletedAt)
	require.Nil(t, records[1].StartedAt)
}

func TestTryAdvance_CompletesAtDueAndStartsNextAtProbe(t *testing.T) {
	tracker, repo := newTestTracker()
	ctx := context.Background()
	seedOrder(t, repo, 1, t0, 24*time.Hour)

	probe := t0.Add(30 * time.Hour)
	result, err := tracker.TryAdvance(ctx, 1, probe)
	require.NoError(t, err)
	require.Equal(t, domain.OutcomeStageCompleted, result.Outcome)
	require.Equal(t, domain.StageAssembly, result.Stage)
	// Completion is the computed due time, never the probe time.
	require.Equal(t, t0.Add(24*time.Hour), result.CompletedAt)
	require.Equal(t, domain.StageTest, result.NextStage)
	require.Equal(t, probe, result.NextStartedAt)

	records, err := repo.ListByOrder(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, t0.Add(24*time.Hour), *records[0].CompletedAt)
	require.Equal(t, probe, *records[1].StartedAt)
	require.NotNil(t, records[1].DueAt)
}

func TestTryAdvance_OneTransitionPerCall(t *testing.T) {
	tracker, repo := newTestTracker()
	ctx := context.Background()
	seedOrder(t, repo, 1, t0, 3*time.Hour)

	// Each call advances at most one stage, so finishing the pipeline takes
	// one probe per stage even when every stage is long overdue.
	probe := t0
	stagesCompleted := 0
	for i := 0; i < len(domain.Stages); i++ {
		probe = probe.Add(90 * 24 * time.Hour)
		result, err := tracker.TryAdvance(ctx, 1, probe)
		require.NoError(t, err)
		require.NotEqual(t, domain.OutcomeInProgress, result.Outcome)
		stagesCompleted++
		if result.Outcome == domain.OutcomeFulfilled {
			break
		}
		require.Equal(t, domain.OutcomeStageCompleted, result.Outcome)
	}
	require.Equal(t, len(domain.Stages), stagesCompleted)

	records, err := repo.ListByOrder(ctx, 1)
	require.NoError(t, err)
	for _, record := range records {
		require.NotNil(t, record.CompletedAt)
	}
}

func TestTryAdvance_StageTimestampsAreOrdered(t *testing.T) {
	tracker, repo := newTestTracker()
	ctx := context.Background()
	seedOrder(t, repo, 1, t0, 5*time.Hour)

	probe := t0
	for i := 0; i < 20; i++ {
		probe = probe.Add(24 * time.Hour)
		result, err := tracker.TryAdvance(ctx, 1, probe)
		require.NoError(t, err)
		if result.Outcome == domain.OutcomeFulfilled {
			break
		}
	}

	records, err := repo.ListByOrder(ctx, 1)
	require.NoError(t, err)
	inFlight := 0
	var previousCompletion *time.Time
	for _, record := range records {
		if record.InFlight() {
			inFlight++
		}
		if record.CompletedAt != nil {
			if previousCompletion != nil {
				require.False(t, record.CompletedAt.Before(*previousCompletion))
			}
			if record.StartedAt != nil && previousCompletion != nil {
				// A stage starts no earlier than its predecessor completes.
				require.False(t, record.StartedAt.Before(*previousCompletion))
			}
			previousCompletion = record.CompletedAt
		}
	}
	require.LessOrEqual(t, inFlight, 1)
}

func TestTryAdvance_AllCompleteResignalsFulfillment(t *testing.T) {
	tracker, repo := newTestTracker()
	ctx := context.Background()
	seedOrder(t, repo, 1, t0, 3*time.Hour)

	probe := t0
	var last domain.AdvanceResult
	for i := 0; i < len(domain.Stages); i++ {
		probe = probe.Add(90 * 24 * time.Hour)
		result, err := tracker.TryAdvance(ctx, 1, probe)
		require.NoError(t, err)
		last = result
	}
	require.Equal(t, domain.OutcomeFulfilled, last.Outcome)

	// Probing again after everything completed signals fulfillment again so
	// the caller can heal a missed shipment, without mutating anything.
	again, err := tracker.TryAdvance(ctx, 1, probe.Add(time.Hour))
	require.NoError(t, err)
	require.Equal(t, domain.OutcomeFulfilled, again.Outcome)
	require.Equal(t, last.CompletedAt, again.CompletedAt)
}

func TestTryAdvance_UnstartedPipelineIsIdle(t *testing.T) {
	tracker, repo := newTestTracker()
	ctx := context.Background()

	// No stage in flight and none completed: the probe is a no-op.
	records := []*domain.StageRecord{
		{OrderID: 2, Stage: domain.StageAssembly},
		{OrderID: 2, Stage: domain.StageTest},
		{OrderID: 2, Stage: domain.StageInspection},
		{OrderID: 2, Stage: domain.StageShipping},
	}
	require.NoError(t, repo.CreateBatch(ctx, records))

	result, err := tracker.TryAdvance(ctx, 2, t0)
	require.NoError(t, err)
	require.Equal(t, domain.OutcomeIdle, result.Outcome)
}

func TestTryAdvance_UnknownOrder(t *testing.T) {
	tracker, _ := newTestTracker()

	_, err := tracker.TryAdvance(context.Background(), 99, t0)
	require.ErrorIs(t, err, domain.ErrUnknownOrder)
}
