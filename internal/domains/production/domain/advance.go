package domain

import "time"

// Outcome classifies the result of one advancement probe.
type Outcome string

const (
	// OutcomeInProgress means the in-flight stage is not yet due; nothing
	// was mutated.
	OutcomeInProgress Outcome = "in_progress"
	// OutcomeStageCompleted means one stage completed and the next started.
	OutcomeStageCompleted Outcome = "stage_completed"
	// OutcomeFulfilled means the final stage completed (or had already
	// completed); the order is ready to ship.
	OutcomeFulfilled Outcome = "fulfilled"
	// OutcomeIdle means no stage was in flight and an earlier stage has not
	// started; the probe was a no-op.
	OutcomeIdle Outcome = "idle"
)

// AdvanceResult reports what a single TryAdvance call did.
type AdvanceResult struct {
	Outcome       Outcome
	Stage         Stage
	CompletedAt   time.Time
	NextStage     Stage
	NextStartedAt time.Time
	Remaining     time.Duration
}
