package cli

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestParseWhen_AcceptedLayouts(t *testing.T) {
	at, err := parseWhen("2026-02-09T09:00:00Z")
	require.NoError(t, err)
	require.Equal(t, time.Date(2026, 2, 9, 9, 0, 0, 0, time.UTC), at)

	at, err = parseWhen("2026-02-09 09:30:00")
	require.NoError(t, err)
	require.Equal(t, 9, at.Hour())
	require.Equal(t, 30, at.Minute())

	at, err = parseWhen("2026-02-09")
	require.NoError(t, err)
	require.Equal(t, time.Date(2026, 2, 9, 0, 0, 0, 0, time.UTC), at)
}

func TestParseWhen_EmptyUsesWallClock(t *testing.T) {
	before := time.Now().UTC()
	at, err := parseWhen("")
	require.NoError(t, err)
	require.False(t, at.Before(before))
}

func TestParseWhen_RejectsGarbage(t *testing.T) {
	_, err := parseWhen("next tuesday")
	require.Error(t, err)
}

func TestRootCommand_RegistersSubcommands(t *testing.T) {
	root := NewRootCommand()
	want := []string{"seed", "order", "process", "advance", "restock", "payroll", "reconcile", "show", "cycle"}
	have := map[string]bool{}
	for _, sub := range root.Commands() {
		have[sub.Name()] = true
	}
	for _, name := range want {
		require.True(t, have[name], "missing subcommand %s", name)
	}
}
