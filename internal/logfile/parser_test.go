package logfile

import (
	"fmt"
	"strings"
	"testing"

	"github.com/coh2-tools/coh2-live/internal/coh2"
	"github.com/stretchr/testify/require"
)

func rosterLine(slot int, name string, relicID int, side int, faction coh2.Faction) string {
	return fmt.Sprintf("00:00:21.71   GAME -- Human Player: %d %s %d %d %s",
		slot, name, relicID, side, faction.LogKey())
}

func TestParseLogEmpty(t *testing.T) {
	state := newParseState()
	info := parseLog(nil, &state)

	require.Empty(t, info.Players)
	require.True(t, info.IsNewMatch)
	require.False(t, info.IsPlaying)
}

func TestParseLogRoster(t *testing.T) {
	content := strings.Join([]string{
		"00:00:19.97   GAME -- Win Condition Name: victory_point",
		rosterLine(0, "Alice", 111, 0, coh2.Wehrmacht),
		rosterLine(1, "Bob", 222, 1, coh2.Soviet),
		"",
	}, "\n")

	state := newParseState()
	info := parseLog([]byte(content), &state)

	require.True(t, info.IsNewMatch)
	require.Len(t, info.Players, 2)
	require.Equal(t, "Alice", info.Players[0].Name)
	require.Equal(t, 111, info.Players[0].RelicID)
	require.Equal(t, 0, info.Players[0].Side)
	require.Equal(t, coh2.Wehrmacht, info.Players[0].Faction)
	require.Equal(t, "Bob", info.Players[1].Name)
	require.Equal(t, coh2.Soviet, info.Players[1].Faction)
}

func TestParseLogNameWithSpaces(t *testing.T) {
	content := rosterLine(0, "The Red Army 1944", 333, 0, coh2.Soviet) + "\n" +
		rosterLine(1, "x 9 y", 444, 1, coh2.OKW) + "\n"

	state := newParseState()
	info := parseLog([]byte(content), &state)

	require.Len(t, info.Players, 2)
	require.Equal(t, "The Red Army 1944", info.Players[0].Name)
	require.Equal(t, "x 9 y", info.Players[1].Name)
}

func TestParseLogAIPlayer(t *testing.T) {
	content := "00:00:21.71   GAME -- AI Player: 0 CPU - Standard -1 1 west_german\n"

	state := newParseState()
	info := parseLog([]byte(content), &state)

	require.Len(t, info.Players, 1)
	require.Equal(t, "CPU - Standard", info.Players[0].Name)
	require.Equal(t, -1, info.Players[0].RelicID)
}

func TestParseLogSkipsGarbledLines(t *testing.T) {
	content := strings.Join([]string{
		rosterLine(0, "Alice", 111, 0, coh2.Wehrmacht),
		"GAME -- Human Player: 1 Broken 222 1 martian",
		"GAME -- Human Player: not a roster line at all",
		rosterLine(1, "Bob", 222, 1, coh2.Soviet),
		"",
	}, "\n")

	state := newParseState()
	info := parseLog([]byte(content), &state)
	require.Len(t, info.Players, 2)
}

// A fresh roster restarts slot numbering at 0, so the most recent sequence
// starting at 0 wins.
func TestParseLogMatchBoundary(t *testing.T) {
	first := strings.Join([]string{
		rosterLine(0, "Alice", 111, 0, coh2.Wehrmacht),
		rosterLine(1, "Bob", 222, 1, coh2.Soviet),
		"",
	}, "\n")

	state := newParseState()
	info := parseLog([]byte(first), &state)
	require.True(t, info.IsNewMatch)
	require.Len(t, info.Players, 2)

	// Same content again: no boundary crossed.
	info = parseLog([]byte(first), &state)
	require.False(t, info.IsNewMatch)

	second := first + strings.Join([]string{
		rosterLine(0, "Carol", 333, 0, coh2.OKW),
		rosterLine(1, "Dave", 444, 0, coh2.Wehrmacht),
		rosterLine(2, "Erin", 555, 1, coh2.USForces),
		rosterLine(3, "Frank", 666, 1, coh2.British),
		"",
	}, "\n")

	info = parseLog([]byte(second), &state)
	require.True(t, info.IsNewMatch)
	require.Len(t, info.Players, 4)
	require.Equal(t, "Carol", info.Players[0].Name)
	require.Equal(t, "Frank", info.Players[3].Name)
}

func TestParseLogPlayingMarker(t *testing.T) {
	roster := strings.Join([]string{
		rosterLine(0, "Alice", 111, 0, coh2.Wehrmacht),
		rosterLine(1, "Bob", 222, 1, coh2.Soviet),
	}, "\n")

	state := newParseState()

	// No line after the roster yet: not determined, treat as not playing.
	info := parseLog([]byte(roster), &state)
	require.False(t, info.IsPlaying)

	playing := roster + "\n00:01:12.41   Party::SetStatus - S_PLAYING\n"
	info = parseLog([]byte(playing), &state)
	require.False(t, info.IsNewMatch)
	require.True(t, info.IsPlaying)
}
