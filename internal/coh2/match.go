package coh2

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
)

const (
	// MinMatchSize is the smallest roster a match can be built from.
	MinMatchSize = 2
	// PartyMinSize and PartyMaxSize bound one side of a match, given the
	// 1v1 through 4v4 match modes.
	PartyMinSize = 1
	PartyMaxSize = 4
)

var (
	ErrMatchSize   = errors.New("match needs at least 2 players")
	ErrPartySize   = errors.New("party must have between 1 and 4 players")
	ErrUnevenSides = errors.New("parties must be of equal size")
)

// Match is two opposing parties built from a flat roster partitioned by the
// log file side indicator.
type Match struct {
	Parties [2]Party
}

// NewMatch builds a match from the given roster. Size violations are
// construction errors, never silent corrections.
func NewMatch(players []Player) (Match, error) {
	if len(players) < MinMatchSize {
		return Match{}, fmt.Errorf("%w: got %d", ErrMatchSize, len(players))
	}

	var side0, side1 []Player
	for _, player := range players {
		if player.Side == 0 {
			side0 = append(side0, player)
		} else {
			side1 = append(side1, player)
		}
	}

	if len(side0) != len(side1) {
		return Match{}, fmt.Errorf("%w: %d vs %d", ErrUnevenSides, len(side0), len(side1))
	}

	party0, errParty0 := NewParty(side0)
	if errParty0 != nil {
		return Match{}, errParty0
	}

	party1, errParty1 := NewParty(side1)
	if errParty1 != nil {
		return Match{}, errParty1
	}

	return Match{Parties: [2]Party{party0, party1}}, nil
}

// Size is the total number of players in this match.
func (m Match) Size() int {
	return m.Parties[0].Size() + m.Parties[1].Size()
}

// HighestAvgRankParty returns the index of the party with the highest
// average estimated rank. A lower rank number places higher.
func (m Match) HighestAvgRankParty() int {
	if m.Parties[0].AvgEstimatedRank < m.Parties[1].AvgEstimatedRank {
		return 0
	}

	return 1
}

// HighestAvgRankLevelParty returns the index of the party with the highest
// average estimated rank level.
func (m Match) HighestAvgRankLevelParty() int {
	if m.Parties[0].AvgEstimatedRankLevel > m.Parties[1].AvgEstimatedRankLevel {
		return 0
	}

	return 1
}

// HasPreMadeTeams reports whether either party contains a pre-made team.
func (m Match) HasPreMadeTeams() bool {
	return len(m.Parties[0].PreMadeTeams) > 0 || len(m.Parties[1].PreMadeTeams) > 0
}

// Party is one side of a match. Construction derives the pre-made teams for
// this side, per-player rank estimates and the side's aggregate rank stats.
type Party struct {
	Players      []Player
	PreMadeTeams []Team

	MinRelativeRank float64
	MaxRelativeRank float64

	// RankEstimates maps relic id to the player's estimated rank.
	RankEstimates map[int]RankEstimate

	AvgEstimatedRank      float64
	AvgEstimatedRankLevel float64
}

// NewParty builds one side of a match from players sharing a side indicator.
func NewParty(players []Player) (Party, error) {
	if len(players) < PartyMinSize || len(players) > PartyMaxSize {
		return Party{}, fmt.Errorf("%w: got %d", ErrPartySize, len(players))
	}

	party := Party{
		Players:         players,
		MinRelativeRank: math.MaxFloat64,
		MaxRelativeRank: 0,
		RankEstimates:   make(map[int]RankEstimate, len(players)),
	}

	memberIDs := make([]int, 0, len(players))
	for _, player := range players {
		memberIDs = append(memberIDs, player.RelicID)
	}

	var relativeRanks []float64
	for _, player := range players {
		party.PreMadeTeams = mergeTeams(party.PreMadeTeams, resolvePreMadeTeams(player, memberIDs))

		if player.IsRanked() {
			relative := player.RelativeRank()
			relativeRanks = append(relativeRanks, relative)
			party.MinRelativeRank = min(party.MinRelativeRank, relative)
			party.MaxRelativeRank = max(party.MaxRelativeRank, relative)
		}
	}

	var avgRelativeRank float64
	if len(relativeRanks) > 0 {
		for _, relative := range relativeRanks {
			avgRelativeRank += relative
		}
		avgRelativeRank /= float64(len(relativeRanks))
	}

	var sumRank, sumLevel int
	for _, player := range players {
		estimate := player.EstimateRank(avgRelativeRank)
		party.RankEstimates[player.RelicID] = estimate
		sumRank += estimate.Rank
		sumLevel += estimate.Level
	}

	party.AvgEstimatedRank = float64(sumRank) / float64(party.Size())
	party.AvgEstimatedRankLevel = float64(sumLevel) / float64(party.Size())

	slog.Debug("Initialized party",
		slog.Int("size", party.Size()),
		slog.Int("pre_made_teams", len(party.PreMadeTeams)),
		slog.Float64("avg_rank", party.AvgEstimatedRank))

	return party, nil
}

// Size is the number of players in this party.
func (p Party) Size() int {
	return len(p.Players)
}

// resolvePreMadeTeams picks the reported teams of one player that plausibly
// describe a grouping within the current side.
//
// There can be multiple candidates per player: players A, B and C with
// historical teams (A,B) and (B,C) but no (A,B,C) either mean A or C queued
// alone, or this match is the first outing of a new team (A,B,C). The API
// does not expose enough to tell grouping from coincidence, so this stays a
// heuristic: keep only teams fully contained in the side, then only the
// largest such teams per player.
func resolvePreMadeTeams(player Player, memberIDs []int) []Team {
	var (
		candidates []Team
		maxSize    int
	)

	for _, team := range player.Teams {
		if team.Size() < 2 {
			continue
		}

		contained := true
		for _, member := range team.Members {
			if !containsID(memberIDs, member) {
				contained = false

				break
			}
		}

		if !contained {
			continue
		}

		candidates = append(candidates, team)
		maxSize = max(maxSize, team.Size())
	}

	var kept []Team
	for _, team := range candidates {
		if team.Size() >= maxSize {
			kept = append(kept, team)
		}
	}

	return kept
}

// mergeTeams unions teams by id.
func mergeTeams(existing []Team, updates []Team) []Team {
	for _, update := range updates {
		found := false
		for _, team := range existing {
			if team.ID == update.ID {
				found = true

				break
			}
		}

		if !found {
			existing = append(existing, update)
		}
	}

	return existing
}

func containsID(ids []int, id int) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}

	return false
}
