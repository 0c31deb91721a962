// Package ui is the thin collaborator surface consuming pipeline updates: a
// rendered match table and a terminal-bell notifier. The engine makes no
// assumptions about any of this.
package ui

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/coh2-tools/coh2-live/internal/coh2"
	"github.com/coh2-tools/coh2-live/internal/pipeline"
	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

var (
	axisStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	okwStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	usStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	britishStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	dimStyle     = lipgloss.NewStyle().Faint(true)
)

func factionStyle(faction coh2.Faction) lipgloss.Style {
	switch faction {
	case coh2.OKW:
		return okwStyle
	case coh2.USForces:
		return usStyle
	case coh2.British:
		return britishStyle
	default:
		return axisStyle
	}
}

// Output renders match updates as a table and rings the terminal bell on
// notification. It implements pipeline.Consumer.
type Output struct {
	writer     io.Writer
	notifyBell bool
}

func New(writer io.Writer, notifyBell bool) *Output {
	return &Output{writer: writer, notifyBell: notifyBell}
}

// Notify signals a new multiplayer match.
func (o *Output) Notify() {
	if o.notifyBell {
		fmt.Fprint(o.writer, "\a")
	}
}

// MatchUpdate renders the given update.
func (o *Output) MatchUpdate(update pipeline.Update) {
	if update.Err != nil {
		fmt.Fprintln(o.writer, dimStyle.Render("warning: "+update.Err.Error()))
	}

	if update.Match == nil {
		fmt.Fprintln(o.writer, "Waiting for match...")

		return
	}

	o.renderMatch(*update.Match)
}

func (o *Output) renderMatch(match coh2.Match) {
	table := tablewriter.NewTable(o.writer, tablewriter.WithConfig(tablewriter.Config{
		Row: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignRight},
		},
		Header: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignCenter},
		},
	}))

	table.Header(" ", "RANK", "LVL", "W%", "DROP", "TEAM", "T_RANK", "T_LVL", "CTRY", "FACTION", "NAME")

	leading := match.HighestAvgRankParty()
	for partyIdx, party := range match.Parties {
		if partyIdx > 0 {
			table.Append("", "", "", "", "", "", "", "", "", "", "")
		}

		teamLetters := preMadeTeamLetters(party)
		for _, player := range party.Players {
			table.Append(o.playerRow(party, player, teamLetters, partyIdx == leading)...)
		}
	}

	table.Render()

	for partyIdx, party := range match.Parties {
		fmt.Fprintf(o.writer, "Party %d: avg estimated rank %.0f (level %.1f) of %s ranked\n",
			partyIdx, party.AvgEstimatedRank, party.AvgEstimatedRankLevel,
			humanize.Comma(int64(partyPopulation(party))))
	}
}

func (o *Output) playerRow(party coh2.Party, player coh2.Player, teamLetters map[int]string, leads bool) []any {
	marker := " "
	if leads {
		marker = "*"
	}

	estimate := party.RankEstimates[player.RelicID]
	rank := "-"
	level := "-"
	if estimate.Rank > 0 {
		rank = estimate.Indicator + strconv.Itoa(estimate.Rank)
		level = strconv.Itoa(estimate.Level)
	}

	winPct := "-"
	if ratio, ok := player.WinRatio(); ok {
		winPct = fmt.Sprintf("%.0f%%", ratio*100)
	}

	dropPct := "-"
	if ratio, ok := player.DropRatio(); ok {
		dropPct = fmt.Sprintf("%.0f%%", ratio*100)
	}

	var letters, teamRank, teamLevel []string
	for _, team := range party.PreMadeTeams {
		if !team.HasMember(player.RelicID) {
			continue
		}

		letters = append(letters, teamLetters[team.ID])
		displayRank, displayLevel := team.DisplayRank()
		teamRank = append(teamRank, displayRank)
		teamLevel = append(teamLevel, displayLevel)
	}

	style := factionStyle(player.Faction)

	name := player.Name
	if stars := player.PrestigeStars("*", "'"); stars != "" {
		name += " " + stars
	}

	return []any{
		marker,
		rank,
		level,
		winPct,
		dropPct,
		strings.Join(letters, ","),
		strings.Join(teamRank, ","),
		strings.Join(teamLevel, ","),
		strings.ToUpper(player.Country),
		style.Render(player.Faction.String()),
		style.Render(name),
	}
}

// preMadeTeamLetters labels a party's pre-made teams A, B, C... in order.
func preMadeTeamLetters(party coh2.Party) map[int]string {
	letters := make(map[int]string, len(party.PreMadeTeams))
	for i, team := range party.PreMadeTeams {
		letters[team.ID] = string(rune('A' + i))
	}

	return letters
}

func partyPopulation(party coh2.Party) int {
	population := 0
	for _, player := range party.Players {
		population = max(population, player.RankTotal)
	}

	return population
}
