// Package coh2 models CoH2 matches, players, pre-made teams and the Relic
// leaderboard id scheme. Everything in here is pure; I/O lives in the relic
// and logfile packages.
package coh2

import (
	"errors"
	"fmt"
)

var ErrUnknownFaction = errors.New("unknown faction log key")

// Faction is one of the five playable CoH2 factions. The numeric value is
// the faction id used by Relic.
type Faction int

const (
	Wehrmacht Faction = iota
	Soviet
	OKW
	USForces
	British
)

// Factions lists all playable factions in Relic id order.
func Factions() []Faction {
	return []Faction{Wehrmacht, Soviet, OKW, USForces, British}
}

// LogKey is the identifier the game writes into its log file for this faction.
func (f Faction) LogKey() string {
	switch f {
	case Wehrmacht:
		return "german"
	case Soviet:
		return "soviet"
	case OKW:
		return "west_german"
	case USForces:
		return "aef"
	case British:
		return "british"
	default:
		return ""
	}
}

func (f Faction) String() string {
	switch f {
	case Wehrmacht:
		return "Wehrmacht"
	case Soviet:
		return "Soviet Union"
	case OKW:
		return "Oberkommando West"
	case USForces:
		return "US Forces"
	case British:
		return "British Forces"
	default:
		return fmt.Sprintf("Faction(%d)", int(f))
	}
}

// IsAxis reports whether this faction fights for the Axis.
func (f Faction) IsAxis() bool {
	return f == Wehrmacht || f == OKW
}

// TeamFaction returns the side Relic groups this faction under.
func (f Faction) TeamFaction() TeamFaction {
	if f.IsAxis() {
		return Axis
	}

	return Allies
}

// FactionFromLog resolves a log file faction key into a Faction.
func FactionFromLog(key string) (Faction, error) {
	for _, faction := range Factions() {
		if faction.LogKey() == key {
			return faction, nil
		}
	}

	return 0, fmt.Errorf("%w: %q", ErrUnknownFaction, key)
}

// TeamFaction is what Relic considers a faction: Axis or Allies.
type TeamFaction int

const (
	Axis TeamFaction = iota
	Allies
)

func TeamFactions() []TeamFaction {
	return []TeamFaction{Axis, Allies}
}

func (t TeamFaction) String() string {
	if t == Axis {
		return "Axis"
	}

	return "Allies"
}
