package relic

// Relic's community leaderboard API is query-param JSON with no published
// schema; these mirror just the fields the engine consumes.

type apiResult struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type personalStats struct {
	Result           apiResult         `json:"result"`
	StatGroups       []statGroup       `json:"statGroups"`
	LeaderboardStats []leaderboardStat `json:"leaderboardStats"`
}

// statGroup is the raw form of a Team membership. Type 1 groups are the
// player's own solo group, higher types are pre-formed teams of that size.
type statGroup struct {
	ID      int               `json:"id"`
	Type    int               `json:"type"`
	Members []statGroupMember `json:"members"`
}

type statGroupMember struct {
	ProfileID int    `json:"profile_id"`
	Alias     string `json:"alias"`
	Name      string `json:"name"`
	Level     int    `json:"level"`
	Country   string `json:"country"`
}

type leaderboardStat struct {
	LeaderboardID    int `json:"leaderboard_id"`
	StatGroupID      int `json:"statgroup_id"`
	Wins             int `json:"wins"`
	Losses           int `json:"losses"`
	Streak           int `json:"streak"`
	Drops            int `json:"drops"`
	Rank             int `json:"rank"`
	RankLevel        int `json:"ranklevel"`
	RankTotal        int `json:"ranktotal"`
	HighestRank      int `json:"highestrank"`
	HighestRankLevel int `json:"highestranklevel"`
}

type leaderboardPage struct {
	Result    apiResult `json:"result"`
	RankTotal int       `json:"rankTotal"`
}

type availableLeaderboardList struct {
	Result       apiResult          `json:"result"`
	Leaderboards []LeaderboardEntry `json:"leaderboards"`
}

// LeaderboardEntry describes one leaderboard as enumerated by the API.
type LeaderboardEntry struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}
