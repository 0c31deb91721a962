package coh2

import "strconv"

// Team is a pre-formed group of players as reported by the Relic API. The
// rank bundle is scoped to the group, not any individual member. Identity is
// the stat group id alone.
type Team struct {
	ID               int
	Members          []int
	Rank             int
	RankLevel        int
	HighestRank      int
	HighestRankLevel int
}

// NewTeam returns a team with its rank bundle initialized to the unknown
// sentinel.
func NewTeam(id int) Team {
	return Team{
		ID:               id,
		Rank:             -1,
		RankLevel:        -1,
		HighestRank:      -1,
		HighestRankLevel: -1,
	}
}

// Size is the number of members in this team.
func (t Team) Size() int {
	return len(t.Members)
}

// HasMember reports whether the given relic id belongs to this team.
func (t Team) HasMember(relicID int) bool {
	for _, member := range t.Members {
		if member == relicID {
			return true
		}
	}

	return false
}

// DisplayRank returns the rank and level to show for this team. The current
// rank wins over the highest past rank, and "-" marks a team that never held
// either.
func (t Team) DisplayRank() (string, string) {
	if t.Rank > 0 && t.RankLevel > 0 {
		return strconv.Itoa(t.Rank), strconv.Itoa(t.RankLevel)
	}

	if t.HighestRank > 0 && t.HighestRankLevel > 0 {
		return strconv.Itoa(t.HighestRank), strconv.Itoa(t.HighestRankLevel)
	}

	return "-", "-"
}
