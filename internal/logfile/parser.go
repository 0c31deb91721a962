// Package logfile turns the CoH2 warnings.log file into LogInfo events. The
// game appends arbitrary lines; only the player roster lines and the party
// status marker matter here, everything else is skipped.
package logfile

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/coh2-tools/coh2-live/internal/coh2"
)

// playingMarker follows the roster once the match has entered active play.
const playingMarker = "Party::SetStatus - S_PLAYING"

// playerPattern matches a roster line. The name group is greedy up to the
// three trailing fields so names containing spaces are captured whole.
var playerPattern = regexp.MustCompile(
	`GAME -- (?:Human|AI) Player: (\d) (.*) (-?\d+) (\d) (` + factionKeys() + `)$`)

func factionKeys() string {
	keys := make([]string, 0, len(coh2.Factions()))
	for _, faction := range coh2.Factions() {
		keys = append(keys, faction.LogKey())
	}

	return strings.Join(keys, "|")
}

// LogInfo is an immutable snapshot of the log file: the roster of the latest
// match boundary, whether that boundary is new since the previous parse and
// whether the log shows the match has entered active play.
type LogInfo struct {
	Players    []coh2.Player
	IsNewMatch bool
	IsPlaying  bool
}

// Sink receives LogInfo snapshots. It must be safe to call from the watch
// goroutine while a consumer drains it elsewhere.
type Sink interface {
	Put(LogInfo)
}

// parseState is the per-watcher parse memory. It is owned by a single
// Watcher so independent watchers never interfere.
type parseState struct {
	lastPlayerLine int
}

func newParseState() parseState {
	return parseState{lastPlayerLine: -1}
}

// parseLog scans the whole log, keeping the most recent roster. A roster
// always restarts slot numbering at 0, so any previously accumulated lines
// are discarded when a slot-0 line appears. Lines not matching the grammar
// are skipped, the log may be read mid-write.
func parseLog(content []byte, state *parseState) LogInfo {
	lines := strings.Split(string(content), "\n")

	var (
		matches        [][]string
		lastPlayerLine int
	)

	for i, line := range lines {
		match := playerPattern.FindStringSubmatch(line)
		if match == nil {
			continue
		}

		if match[1] == "0" {
			matches = matches[:0]
		}

		matches = append(matches, match)
		lastPlayerLine = i
	}

	info := LogInfo{IsNewMatch: lastPlayerLine != state.lastPlayerLine}
	state.lastPlayerLine = lastPlayerLine

	for _, match := range matches {
		player, ok := playerFromMatch(match)
		if !ok {
			continue
		}

		info.Players = append(info.Players, player)
	}

	if lastPlayerLine < len(lines)-1 {
		info.IsPlaying = strings.Contains(lines[lastPlayerLine+1], playingMarker)
	}

	return info
}

func playerFromMatch(match []string) (coh2.Player, bool) {
	slot, errSlot := strconv.Atoi(match[1])
	if errSlot != nil {
		return coh2.Player{}, false
	}

	relicID, errRelicID := strconv.Atoi(match[3])
	if errRelicID != nil {
		return coh2.Player{}, false
	}

	side, errSide := strconv.Atoi(match[4])
	if errSide != nil {
		return coh2.Player{}, false
	}

	faction, errFaction := coh2.FactionFromLog(match[5])
	if errFaction != nil {
		return coh2.Player{}, false
	}

	return coh2.NewPlayer(slot, match[2], relicID, side, faction), true
}
