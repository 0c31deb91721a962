package coh2_test

import (
	"testing"

	"github.com/coh2-tools/coh2-live/internal/coh2"
	"github.com/stretchr/testify/require"
)

func testRoster(sides ...int) []coh2.Player {
	players := make([]coh2.Player, 0, len(sides))
	for i, side := range sides {
		factions := coh2.Factions()
		players = append(players, coh2.NewPlayer(i, "player", 100+i, side, factions[i%len(factions)]))
	}

	return players
}

func TestNewMatchTooFewPlayers(t *testing.T) {
	_, err := coh2.NewMatch(nil)
	require.ErrorIs(t, err, coh2.ErrMatchSize)

	_, err = coh2.NewMatch(testRoster(0))
	require.ErrorIs(t, err, coh2.ErrMatchSize)
}

func TestNewMatchUnevenSides(t *testing.T) {
	_, err := coh2.NewMatch(testRoster(0, 0, 0, 1))
	require.ErrorIs(t, err, coh2.ErrUnevenSides)
}

func TestNewMatchRoundTrip(t *testing.T) {
	for _, size := range []int{2, 4, 6, 8} {
		sides := make([]int, size)
		for i := range sides {
			sides[i] = i % 2
		}

		match, err := coh2.NewMatch(testRoster(sides...))
		require.NoError(t, err)
		require.Equal(t, size, match.Size())
		require.Equal(t, match.Parties[0].Size(), match.Parties[1].Size())
	}
}

func TestPartySizeBounds(t *testing.T) {
	_, err := coh2.NewParty(nil)
	require.ErrorIs(t, err, coh2.ErrPartySize)

	_, err = coh2.NewParty(testRoster(0, 0, 0, 0, 0))
	require.ErrorIs(t, err, coh2.ErrPartySize)
}

func premadePlayer(slot int, relicID int, teams ...coh2.Team) coh2.Player {
	player := coh2.NewPlayer(slot, "player", relicID, 0, coh2.Wehrmacht)
	player.Teams = teams

	return player
}

func team(id int, members ...int) coh2.Team {
	built := coh2.NewTeam(id)
	built.Members = members

	return built
}

// Players A, B and C with historical teams (A,B) and (B,C) but no (A,B,C):
// both size-2 teams survive, the ambiguity is preserved.
func TestPreMadeTeamsAmbiguous(t *testing.T) {
	teamAB := team(1, 101, 102)
	teamBC := team(2, 102, 103)

	party, err := coh2.NewParty([]coh2.Player{
		premadePlayer(0, 101, teamAB),
		premadePlayer(1, 102, teamAB, teamBC),
		premadePlayer(2, 103, teamBC),
	})
	require.NoError(t, err)
	require.Len(t, party.PreMadeTeams, 2)
}

// When a size-3 team exists alongside one of its size-2 subsets, only the
// bigger team survives.
func TestPreMadeTeamsLargestWins(t *testing.T) {
	teamABC := team(1, 101, 102, 103)
	teamAB := team(2, 101, 102)

	party, err := coh2.NewParty([]coh2.Player{
		premadePlayer(0, 101, teamABC, teamAB),
		premadePlayer(1, 102, teamABC, teamAB),
		premadePlayer(2, 103, teamABC),
	})
	require.NoError(t, err)
	require.Len(t, party.PreMadeTeams, 1)
	require.Equal(t, 1, party.PreMadeTeams[0].ID)
}

// Teams reported from unrelated past matches are rejected, as are trivial
// single-member groups.
func TestPreMadeTeamsRejectsOutsiders(t *testing.T) {
	foreign := team(1, 101, 999)
	solo := team(2, 101)

	party, err := coh2.NewParty([]coh2.Player{
		premadePlayer(0, 101, foreign, solo),
		premadePlayer(1, 102),
	})
	require.NoError(t, err)
	require.Empty(t, party.PreMadeTeams)
}

func TestMatchHasPreMadeTeams(t *testing.T) {
	teamAB := team(7, 101, 102)

	players := []coh2.Player{
		premadePlayer(0, 101, teamAB),
		premadePlayer(1, 102, teamAB),
		coh2.NewPlayer(2, "Carol", 201, 1, coh2.Soviet),
		coh2.NewPlayer(3, "Dave", 202, 1, coh2.British),
	}

	match, err := coh2.NewMatch(players)
	require.NoError(t, err)
	require.True(t, match.HasPreMadeTeams())
	require.Len(t, match.Parties[0].PreMadeTeams, 1)
	require.Empty(t, match.Parties[1].PreMadeTeams)
}

func TestPartyRankAggregates(t *testing.T) {
	ranked := coh2.NewPlayer(0, "Alice", 101, 0, coh2.Wehrmacht)
	ranked.Rank = 100
	ranked.RankLevel = 16
	ranked.RankTotal = 1000

	unranked := coh2.NewPlayer(1, "Bob", 102, 0, coh2.OKW)
	unranked.RankTotal = 1000

	party, err := coh2.NewParty([]coh2.Player{ranked, unranked})
	require.NoError(t, err)

	require.InDelta(t, 0.1, party.MinRelativeRank, 0.0001)
	require.InDelta(t, 0.1, party.MaxRelativeRank, 0.0001)

	// Bob is estimated from Alice's relative rank: 0.1 * 1000 = 100.
	require.Equal(t, coh2.RankEstimate{Indicator: "?", Rank: 100, Level: 16}, party.RankEstimates[102])
	require.InDelta(t, 100, party.AvgEstimatedRank, 0.0001)
	require.InDelta(t, 16, party.AvgEstimatedRankLevel, 0.0001)
}

// The end-to-end scenario from the log grammar down to rank estimation:
// Alice is ranked 5/18, Bob has no data beyond his leaderboard population
// and lands on the midpoint fallback.
func TestMatchEstimates(t *testing.T) {
	alice := coh2.NewPlayer(0, "Alice", 111, 0, coh2.Wehrmacht)
	alice.Rank = 5
	alice.RankLevel = 18
	alice.RankTotal = 1000

	bob := coh2.NewPlayer(1, "Bob", 222, 1, coh2.Soviet)
	bob.RankTotal = 200

	match, err := coh2.NewMatch([]coh2.Player{alice, bob})
	require.NoError(t, err)

	require.InDelta(t, 5, match.Parties[0].AvgEstimatedRank, 0.0001)
	require.InDelta(t, 100, match.Parties[1].AvgEstimatedRank, 0.0001)
	require.Equal(t, "?", match.Parties[1].RankEstimates[222].Indicator)

	// A lower rank number places higher, so Alice's party leads.
	require.Equal(t, 0, match.HighestAvgRankParty())
}

func TestMatchHighestAvgRankLevelParty(t *testing.T) {
	alice := coh2.NewPlayer(0, "Alice", 111, 0, coh2.Wehrmacht)
	alice.Rank = 5
	alice.RankLevel = 18
	alice.RankTotal = 1000

	bob := coh2.NewPlayer(1, "Bob", 222, 1, coh2.Soviet)
	bob.Rank = 500
	bob.RankLevel = 7
	bob.RankTotal = 1000

	match, err := coh2.NewMatch([]coh2.Player{alice, bob})
	require.NoError(t, err)
	require.Equal(t, 0, match.HighestAvgRankLevelParty())
}
