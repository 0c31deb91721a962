package coh2

import (
	"math"
	"strings"

	"github.com/leighmacdonald/steamid/v4/steamid"
)

// Player is one participant of a match. The log fields are filled by the
// logfile parser, the stats bundle by the relic gateway. Identity is the
// relic id alone; AI players carry a non-positive relic id and are skipped
// by remote lookups.
type Player struct {
	// Log data
	Slot    int
	Name    string
	RelicID int
	Side    int
	Faction Faction

	// Relic API data
	SteamProfile string
	Prestige     int
	Country      string

	Wins             int
	Losses           int
	Streak           int
	Drops            int
	Rank             int
	RankTotal        int
	RankLevel        int
	HighestRank      int
	HighestRankLevel int

	// Every pre-formed group this player has ever queued with, not just the
	// one for the current match.
	Teams []Team
}

// NewPlayer creates a player from parsed log data with all remote stats set
// to the unknown sentinel.
func NewPlayer(slot int, name string, relicID int, side int, faction Faction) Player {
	return Player{
		Slot:             slot,
		Name:             name,
		RelicID:          relicID,
		Side:             side,
		Faction:          faction,
		Prestige:         -1,
		Rank:             -1,
		RankTotal:        -1,
		RankLevel:        -1,
		HighestRank:      -1,
		HighestRankLevel: -1,
	}
}

// TeamFaction returns the side Relic files this player under. The log file
// side indicator can not be used for this, it is always 0 for the local
// player's side.
func (p Player) TeamFaction() TeamFaction {
	return p.Faction.TeamFaction()
}

// IsRanked reports whether the player currently holds a rank.
func (p Player) IsRanked() bool {
	return p.Rank > 0 && p.RankLevel > 0
}

// HasHighestRank reports whether the player held a rank in the past.
func (p Player) HasHighestRank() bool {
	return p.HighestRank > 0 && p.HighestRankLevel > 0
}

// RelativeRank is the player's rank relative to the total number of ranked
// players, 0 when unranked.
func (p Player) RelativeRank() float64 {
	if !p.IsRanked() {
		return 0
	}

	return float64(p.Rank) / float64(p.RankTotal)
}

// NumGames is the player's total number of played games on this leaderboard.
func (p Player) NumGames() int {
	return p.Wins + p.Losses
}

// WinRatio returns the player's win ratio, false when no games were played.
func (p Player) WinRatio() (float64, bool) {
	if p.NumGames() == 0 {
		return 0, false
	}

	return float64(p.Wins) / float64(p.NumGames()), true
}

// DropRatio returns the player's drop ratio, false when no games were played.
func (p Player) DropRatio() (float64, bool) {
	if p.NumGames() == 0 {
		return 0, false
	}

	return float64(p.Drops) / float64(p.NumGames()), true
}

// SteamProfileURL derives the steam community profile URL from the profile
// path the Relic API reports ("/steam/<id64>"). Returns an empty string for
// players without a resolvable steam id.
func (p Player) SteamProfileURL() string {
	idPart := strings.TrimPrefix(p.SteamProfile, "/steam/")
	if idPart == "" || idPart == p.SteamProfile {
		return ""
	}

	sid := steamid.New(idPart)
	if !sid.Valid() {
		return ""
	}

	return "https://steamcommunity.com/profiles/" + sid.String()
}

// PrestigeStars renders the player's prestige level as stars, one star per
// 100 levels and a half star for the remainder.
func (p Player) PrestigeStars(star string, halfStar string) string {
	if p.Prestige < 0 {
		return ""
	}

	full := p.Prestige / 100
	half := int(math.Round(math.Mod(float64(p.Prestige)/100, 1)))

	return strings.Repeat(star, full) + strings.Repeat(halfStar, half)
}

// RankEstimate is a player's estimated rank together with the indicator that
// marks how it was derived: "" for an actual current rank, "+" for the past
// highest rank and "?" for a guess. The indicator must survive to the
// rendered output.
type RankEstimate struct {
	Indicator string
	Rank      int
	Level     int
}

// EstimateRank estimates the player's rank. The estimate is either the
// current rank, the past highest rank (+), a rank scaled from the ranked
// peers' average relative rank (?) or the middle of the leaderboard (?).
func (p Player) EstimateRank(avgRelativeRank float64) RankEstimate {
	if p.IsRanked() || p.RelicID <= 0 {
		return RankEstimate{Indicator: "", Rank: p.Rank, Level: p.RankLevel}
	}

	if p.HasHighestRank() {
		return RankEstimate{Indicator: "+", Rank: p.HighestRank, Level: p.HighestRankLevel}
	}

	if avgRelativeRank > 0 {
		avgRank := int(math.Round(avgRelativeRank * float64(p.RankTotal)))

		return RankEstimate{Indicator: "?", Rank: avgRank, Level: RankLevelFromRank(avgRank, p.RankTotal)}
	}

	midRank := int(math.Round(float64(p.RankTotal) / 2))

	return RankEstimate{Indicator: "?", Rank: midRank, Level: RankLevelFromRank(midRank, p.RankTotal)}
}

// rankLevelRatios is the percentage of the total population assigned to each
// of the levels 14 down to 1, in that order. This encodes Relic's level
// curve and must not be altered.
var rankLevelRatios = []int{6, 8, 6, 5, 10, 10, 10, 7, 7, 6, 5, 5, 5, 5}

// RankLevelFromRank calculates the 1-20 rank level for the given rank on a
// leaderboard with rankTotal ranked players. Levels 16-20 are fixed top-200
// cutoffs, the remaining 14 levels partition the rest of the population by
// rankLevelRatios. Returns -1 for non-positive input.
func RankLevelFromRank(rank int, rankTotal int) int {
	if rank <= 0 || rankTotal <= 0 {
		return -1
	}

	switch {
	case rank <= 2:
		return 20
	case rank <= 13:
		return 19
	case rank <= 36:
		return 18
	case rank <= 80:
		return 17
	case rank <= 200:
		return 16
	}

	// Build the cumulative thresholds for levels 14..1, counted down from
	// the bottom of the ranking, and count how many the rank falls at or
	// below.
	nTop200 := min(200, rankTotal)
	remain := rankTotal - nTop200

	thresholds := make([]int, 0, len(rankLevelRatios))
	for _, ratio := range rankLevelRatios {
		n := min(int(math.Round(float64(rankTotal)*float64(ratio)/100)), max(0, remain))
		thresholds = append(thresholds, remain+nTop200)
		remain -= n
	}

	level := 0
	for level < len(thresholds) && rank <= thresholds[level] {
		level++
	}

	return level
}
