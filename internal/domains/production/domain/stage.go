package domain

import (
	"errors"
	"math/rand"
	"time"
)

// Stage is one step of the fixed manufacturing pipeline.
type Stage string

const (
	StageAssembly   Stage = "assembly"
	StageTest       Stage = "test"
	StageInspection Stage = "inspection"
	StageShipping   Stage = "shipping"
)

// Stages lists the pipeline in execution order.
var Stages = []Stage{StageAssembly, StageTest, StageInspection, StageShipping}

// Stage duration bounds. A stage's duration is drawn once, when the stage
// starts, and persisted as its due timestamp; probes never redraw it.
const (
	MinStageDuration = 3 * time.Hour
	MaxStageDuration = 72 * time.Hour
)

var (
	ErrUnknownOrder = errors.New("no production records for order")
	ErrStageNotDue  = errors.New("stage is not due for completion")
)

// StageRecord tracks one stage of one order. StartedAt and DueAt are set
// together when the stage starts; CompletedAt, once set, is never cleared.
type StageRecord struct {
	TrackingID  int64
	OrderID     int64
	Stage       Stage
	StartedAt   *time.Time
	DueAt       *time.Time
	CompletedAt *time.Time
}

// InFlight reports whether the stage has started but not completed.
func (r *StageRecord) InFlight() bool {
	return r.StartedAt != nil && r.CompletedAt == nil
}

// DrawStageDuration draws a uniform duration between the stage bounds.
func DrawStageDuration(rng *rand.Rand) time.Duration {
	spread := MaxStageDuration - MinStageDuration
	return MinStageDuration + time.Duration(rng.Float64()*float64(spread))
}

// StageIndex returns the position of the stage in the pipeline, or -1.
func StageIndex(stage Stage) int {
	for i, s := range Stages {
		if s == stage {
			return i
		}
	}
	return -1
}
