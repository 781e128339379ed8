package simstate

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestStore_WriteReadRoundTrip(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "sim_state.json"))
	at := time.Date(2026, 2, 9, 10, 30, 0, 0, time.UTC)

	err := store.Write(at, 3, 30, StatusRunning, []string{OperationRestock}, []string{"restock"})
	require.NoError(t, err)

	state, err := store.Read()
	require.NoError(t, err)
	require.NotNil(t, state)
	require.Equal(t, "2026-02-09", state.Simulation.Date)
	require.Equal(t, "10:30:00", state.Simulation.Time)
	require.Equal(t, StatusRunning, state.Simulation.Status)
	require.InDelta(t, 10.0, state.Simulation.ProgressPercent, 1e-9)

	disabled, err := store.IsDisabled(OperationRestock)
	require.NoError(t, err)
	require.True(t, disabled)
	disabled, err = store.IsDisabled(OperationPayroll)
	require.NoError(t, err)
	require.False(t, disabled)

	pending, err := store.PendingOperations()
	require.NoError(t, err)
	require.Equal(t, []string{"restock"}, pending)
}

func TestStore_MissingFileMeansNoState(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "absent.json"))

	state, err := store.Read()
	require.NoError(t, err)
	require.Nil(t, state)

	disabled, err := store.IsDisabled(OperationProcess)
	require.NoError(t, err)
	require.False(t, disabled)

	require.NoError(t, store.Clear())
}
