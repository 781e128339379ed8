package simstate

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"time"
)

// Operation names agents can disable to take over from the simulator.
const (
	OperationProcess = "process"
	OperationOps     = "ops"
	OperationRestock = "restock"
	OperationPayroll = "payroll"
)

// Status values the simulator publishes.
const (
	StatusInitializing = "initializing"
	StatusRunning      = "running"
	StatusDayComplete  = "day_complete"
	StatusPaused       = "paused"
	StatusFinished     = "finished"
)

const stateVersion = "1.0"

// DefaultPath is the conventional state file location.
const DefaultPath = "sim_state.json"

// State is the published simulation snapshot. External agents poll it to
// learn the simulated clock and which operations they must perform instead
// of the simulator.
type State struct {
	Simulation Simulation `json:"simulation"`
	Operations Operations `json:"operations"`
	Metadata   Metadata   `json:"metadata"`
}

type Simulation struct {
	Date            string  `json:"date"`
	Time            string  `json:"time"`
	DateTime        string  `json:"datetime"`
	DayNumber       int     `json:"day_number"`
	TotalDays       int     `json:"total_days"`
	Status          string  `json:"status"`
	ProgressPercent float64 `json:"progress_percent"`
}

type Operations struct {
	Disabled []string `json:"disabled"`
	Pending  []string `json:"pending"`
}

type Metadata struct {
	LastUpdate   string `json:"last_update"`
	StateVersion string `json:"state_version"`
}

// Store reads and writes the state file.
type Store struct {
	path string
}

func NewStore(path string) *Store {
	if path == "" {
		path = DefaultPath
	}
	return &Store{path: path}
}

// Write publishes the current simulation snapshot.
func (s *Store) Write(at time.Time, dayNumber, totalDays int, status string, disabled, pending []string) error {
	if disabled == nil {
		disabled = []string{}
	}
	if pending == nil {
		pending = []string{}
	}
	progress := 0.0
	if totalDays > 0 {
		progress = math.Round(float64(dayNumber)/float64(totalDays)*1000) / 10
	}
	state := State{
		Simulation: Simulation{
			Date:            at.Format("2006-01-02"),
			Time:            at.Format("15:04:05"),
			DateTime:        at.Format("2006-01-02 15:04:05"),
			DayNumber:       dayNumber,
			TotalDays:       totalDays,
			Status:          status,
			ProgressPercent: progress,
		},
		Operations: Operations{Disabled: disabled, Pending: pending},
		Metadata: Metadata{
			LastUpdate:   time.Now().Format(time.RFC3339),
			StateVersion: stateVersion,
		},
	}
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0o644)
}

// Read loads the current state. A missing file returns nil without error,
// matching the convention that no state file means no simulation running.
func (s *Store) Read() (*State, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	var state State
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("parse %s: %w", s.path, err)
	}
	return &state, nil
}

// IsDisabled reports whether an operation was handed off to agents. Absent
// state means nothing is disabled.
func (s *Store) IsDisabled(operation string) (bool, error) {
	state, err := s.Read()
	if err != nil {
		return false, err
	}
	if state == nil {
		return false, nil
	}
	for _, disabled := range state.Operations.Disabled {
		if disabled == operation {
			return true, nil
		}
	}
	return false, nil
}

// PendingOperations returns the operations agents still need to perform.
func (s *Store) PendingOperations() ([]string, error) {
	state, err := s.Read()
	if err != nil || state == nil {
		return nil, err
	}
	return state.Operations.Pending, nil
}

// Clear removes the state file.
func (s *Store) Clear() error {
	err := os.Remove(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}
