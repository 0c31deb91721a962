// Package relic fetches per-player statistics and leaderboard populations
// from the Relic CoH2 community API. All calls are treated as slow and
// failure-prone network calls; nothing is retried here.
package relic

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/coh2-tools/coh2-live/internal/coh2"
	"github.com/coh2-tools/coh2-live/internal/encoding"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultBaseURL = "https://coh2-api.reliclink.com"

	personalStatPath         = "/community/leaderboard/GetPersonalStat"
	availableLeaderboardPath = "/community/leaderboard/getAvailableLeaderboards"
	leaderboardPath          = "/community/leaderboard/getleaderboard2"

	titleParam = "coh2"
)

var (
	ErrRequest          = errors.New("api request failed")
	ErrStatus           = errors.New("unexpected api response status")
	ErrFetchPlayer      = errors.New("failed to fetch player stats")
	ErrFetchLeaderboard = errors.New("failed to fetch leaderboard")
)

// Client is the remote stats gateway. It is stateless between calls except
// for the leaderboard population cache warmed once at startup.
type Client struct {
	httpClient *http.Client
	baseURL    string

	mu          sync.RWMutex
	populations map[int]int
}

// NewClient creates a gateway client. The timeout applies per request, one
// slow lookup never stalls the others beyond its own deadline.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	return &Client{
		httpClient:  &http.Client{Timeout: timeout},
		baseURL:     strings.TrimSuffix(baseURL, "/"),
		populations: make(map[int]int),
	}
}

// Close releases idle gateway connections. Callers must stop in-flight work
// first.
func (c *Client) Close() {
	c.httpClient.CloseIdleConnections()
}

// InitLeaderboards warms the population cache for every known ranked
// leaderboard, all requests in flight concurrently.
func (c *Client) InitLeaderboards(ctx context.Context) error {
	group, groupCtx := errgroup.WithContext(ctx)

	for id := range coh2.KnownLeaderboards() {
		group.Go(func() error {
			page, errPage := getJSON[leaderboardPage](groupCtx, c.httpClient, c.endpoint(leaderboardPath, url.Values{
				"title":          {titleParam},
				"count":          {"1"},
				"leaderboard_id": {strconv.Itoa(id)},
			}))
			if errPage != nil {
				return errors.Join(errPage, ErrFetchLeaderboard)
			}

			c.mu.Lock()
			c.populations[id] = page.RankTotal
			c.mu.Unlock()

			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return err
	}

	slog.Info("Warmed leaderboard populations", slog.Int("count", len(coh2.KnownLeaderboards())))

	return nil
}

// Population returns the cached total ranked population of a leaderboard.
func (c *Client) Population(leaderboardID int) (int, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	total, found := c.populations[leaderboardID]

	return total, found
}

// AvailableLeaderboards enumerates every leaderboard the service knows.
func (c *Client) AvailableLeaderboards(ctx context.Context) ([]LeaderboardEntry, error) {
	list, errList := getJSON[availableLeaderboardList](ctx, c.httpClient, c.endpoint(availableLeaderboardPath, url.Values{
		"title": {titleParam},
	}))
	if errList != nil {
		return nil, errors.Join(errList, ErrFetchLeaderboard)
	}

	return list.Leaderboards, nil
}

// Players populates the given roster with remote statistics, one lookup per
// real player, all in flight concurrently. A failed lookup leaves that
// player with sentinel stats; the returned error joins every failure so a
// partial update is never mistaken for a clean one.
func (c *Client) Players(ctx context.Context, players []coh2.Player) ([]coh2.Player, error) {
	if len(players) == 0 {
		return players, nil
	}

	results := make([]coh2.Player, len(players))

	var (
		failMu   sync.Mutex
		failures []error
	)

	group, groupCtx := errgroup.WithContext(ctx)
	for idx, player := range players {
		group.Go(func() error {
			populated, errFetch := c.fetchPlayer(groupCtx, player, len(players))
			if errFetch != nil {
				failMu.Lock()
				failures = append(failures, fmt.Errorf("player %q (relic id %d): %w", player.Name, player.RelicID, errFetch))
				failMu.Unlock()

				populated = player
			}

			results[idx] = populated

			return nil
		})
	}

	// Lookup errors are collected, not returned, so one failure never
	// cancels the sibling requests.
	_ = group.Wait()

	for i := range results {
		c.applyPopulation(&results[i], len(players))
	}

	return results, errors.Join(failures...)
}

func (c *Client) fetchPlayer(ctx context.Context, player coh2.Player, matchSize int) (coh2.Player, error) {
	if player.RelicID <= 0 {
		return player, nil
	}

	stats, errStats := getJSON[personalStats](ctx, c.httpClient, c.endpoint(personalStatPath, url.Values{
		"title":       {titleParam},
		"profile_ids": {fmt.Sprintf("[%d]", player.RelicID)},
	}))
	if errStats != nil {
		return player, errors.Join(errStats, ErrFetchPlayer)
	}

	leaderboardID := coh2.SoloLeaderboardID(coh2.SoloMatchType(matchSize/2), player.Faction)
	applyLeaderboardStats(&player, leaderboardID, stats)
	applyProfile(&player, stats)
	applyTeams(&player, stats)

	return player, nil
}

// applyPopulation fills a missing rank total from the population cache. This
// runs for every roster member, AI and failed lookups included, so rank
// estimation always has a leaderboard size to work with.
func (c *Client) applyPopulation(player *coh2.Player, matchSize int) {
	if player.RankTotal > 0 {
		return
	}

	leaderboardID := coh2.SoloLeaderboardID(coh2.SoloMatchType(matchSize/2), player.Faction)
	if total, found := c.Population(leaderboardID); found {
		player.RankTotal = total
	}
}

func applyLeaderboardStats(player *coh2.Player, leaderboardID int, stats personalStats) {
	for _, stat := range stats.LeaderboardStats {
		if stat.LeaderboardID != leaderboardID {
			continue
		}

		player.Wins = stat.Wins
		player.Losses = stat.Losses
		player.Streak = stat.Streak
		player.Drops = stat.Drops
		player.Rank = stat.Rank
		player.RankLevel = stat.RankLevel
		player.RankTotal = stat.RankTotal
		player.HighestRank = stat.HighestRank
		player.HighestRankLevel = stat.HighestRankLevel

		return
	}
}

func applyProfile(player *coh2.Player, stats personalStats) {
	for _, group := range stats.StatGroups {
		for _, member := range group.Members {
			if member.ProfileID != player.RelicID {
				continue
			}

			// The alias is the authoritative current name.
			player.Name = member.Alias
			player.SteamProfile = member.Name
			player.Prestige = member.Level
			player.Country = member.Country

			return
		}
	}
}

func applyTeams(player *coh2.Player, stats personalStats) {
	for _, group := range stats.StatGroups {
		if group.Type <= 1 {
			continue
		}

		team := coh2.NewTeam(group.ID)
		for _, member := range group.Members {
			team.Members = append(team.Members, member.ProfileID)
		}

		leaderboardID := coh2.TeamLeaderboardID(coh2.TeamMatchType(group.Type-2), player.TeamFaction())
		for _, stat := range stats.LeaderboardStats {
			if stat.StatGroupID != team.ID || stat.LeaderboardID != leaderboardID {
				continue
			}

			team.Rank = stat.Rank
			team.RankLevel = stat.RankLevel
			team.HighestRank = stat.HighestRank
			team.HighestRankLevel = stat.HighestRankLevel
		}

		player.Teams = append(player.Teams, team)
	}
}

func (c *Client) endpoint(apiPath string, params url.Values) string {
	return c.baseURL + apiPath + "?" + params.Encode()
}

func getJSON[T any](ctx context.Context, client *http.Client, endpoint string) (T, error) {
	var value T

	req, errReq := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if errReq != nil {
		return value, errors.Join(errReq, ErrRequest)
	}

	resp, errResp := client.Do(req)
	if errResp != nil {
		return value, errors.Join(errResp, ErrRequest)
	}

	defer func() {
		if err := resp.Body.Close(); err != nil {
			slog.Error("Failed to close response body", slog.String("error", err.Error()))
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return value, fmt.Errorf("%w: %d", ErrStatus, resp.StatusCode)
	}

	decoded, errDecode := encoding.UnmarshalJSON[T](resp.Body)
	if errDecode != nil {
		return value, errDecode
	}

	return decoded, nil
}
