package coh2

import "fmt"

// SoloMatchType is a match type a solo player can queue for. Custom games
// are unranked and use their own leaderboard block.
type SoloMatchType int

const (
	SoloCustom SoloMatchType = iota
	Solo1v1
	Solo2v2
	Solo3v3
	Solo4v4
)

func SoloMatchTypes() []SoloMatchType {
	return []SoloMatchType{SoloCustom, Solo1v1, Solo2v2, Solo3v3, Solo4v4}
}

func (m SoloMatchType) String() string {
	if m == SoloCustom {
		return "custom"
	}

	return fmt.Sprintf("%dv%d", int(m), int(m))
}

// TeamMatchType is a match type a pre-made team can queue for. A team of 2
// can play 2v2s, 3v3s and 4v4s, a team of 3 plays 3v3s and 4v4s, a team of 4
// only 4v4s.
type TeamMatchType int

const (
	Team2v2 TeamMatchType = iota
	Team3v3
	Team4v4
)

func TeamMatchTypes() []TeamMatchType {
	return []TeamMatchType{Team2v2, Team3v3, Team4v4}
}

func (m TeamMatchType) String() string {
	return fmt.Sprintf("%dv%d", int(m)+2, int(m)+2)
}

// Difficulty is a CoH2 AI difficulty level.
type Difficulty int

const (
	Easy Difficulty = iota
	Medium
	Hard
	Expert
)

func Difficulties() []Difficulty {
	return []Difficulty{Easy, Medium, Hard, Expert}
}

// SoloLeaderboardID returns the Relic leaderboard id for games played solo.
// The British block sits apart from the other factions at 50+ for historical
// reasons in Relic's id scheme. Do not unify the two blocks.
func SoloLeaderboardID(matchType SoloMatchType, faction Faction) int {
	if matchType == SoloCustom {
		if faction == British {
			return 50
		}

		return int(faction)
	}

	if faction == British {
		return 50 + int(matchType)
	}

	return int(matchType)*4 + int(faction)
}

// TeamLeaderboardID returns the Relic leaderboard id for ranked pre-made
// team games.
func TeamLeaderboardID(matchType TeamMatchType, teamFaction TeamFaction) int {
	return 20 + int(matchType)*2 + int(teamFaction)
}

// AILeaderboardID returns the Relic leaderboard id for games against the AI.
func AILeaderboardID(matchType TeamMatchType, difficulty Difficulty, teamFaction TeamFaction) int {
	return 26 + int(matchType)*8 + int(difficulty)*2 + int(teamFaction)
}

// KnownLeaderboards enumerates the ranked leaderboards the population cache
// is warmed for, keyed by id.
func KnownLeaderboards() map[int]string {
	boards := make(map[int]string)
	for _, matchType := range SoloMatchTypes() {
		if matchType == SoloCustom {
			continue
		}
		for _, faction := range Factions() {
			boards[SoloLeaderboardID(matchType, faction)] = fmt.Sprintf("%s_%s", matchType, faction)
		}
	}

	for _, matchType := range TeamMatchTypes() {
		for _, teamFaction := range TeamFactions() {
			boards[TeamLeaderboardID(matchType, teamFaction)] = fmt.Sprintf("team_of_%d_%s", int(matchType)+2, teamFaction)
		}
	}

	return boards
}
