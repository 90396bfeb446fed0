package service

import (
	"cmp"
	"strings"

	"github.com/nonlining/tennis-crystal-ball/internal/models"
)

type tournamentComparator func(a, b *models.Tournament) int

// Whitelisted sort columns of the tournament events table
var tournamentEventColumns = map[string]string{
	"season":           "season",
	"date":             "date",
	"name":             "name",
	"level":            "level",
	"surface":          "surface",
	"draw":             "draw_size",
	"playerCount":      "player_count",
	"participation":    "participation",
	"strength":         "strength",
	"averageEloRating": "average_elo_rating",
}

const defaultTournamentEventOrder = "date DESC, tournament_event_id"

// Whitelisted sort columns of a player's tournament event results
var playerTournamentEventColumns = map[string]string{
	"season":           "season",
	"date":             "date",
	"name":             "name",
	"level":            "level",
	"surface":          "surface",
	"participation":    "participation",
	"strength":         "strength",
	"averageEloRating": "average_elo_rating",
	"result":           "result",
}

const defaultPlayerTournamentEventOrder = "date DESC, tournament_event_id"

// tournamentOrder maps a sort key such as "strength desc" to a comparator over tournaments.
// Unknown keys sort by name; ties are broken by name and then id.
func (s *TournamentService) tournamentOrder(sortKey string) tournamentComparator {
	fields := strings.Fields(sortKey)
	var field string
	desc := false
	if len(fields) > 0 {
		field = fields[0]
	}
	if len(fields) > 1 {
		desc = strings.EqualFold(fields[1], "desc")
	}

	var primary tournamentComparator
	switch field {
	case "level":
		primary = func(a, b *models.Tournament) int { return s.ordering.Levels.Compare(a.Level(), b.Level()) }
	case "surface":
		primary = func(a, b *models.Tournament) int { return s.ordering.Surfaces.Compare(a.Surface(), b.Surface()) }
	case "eventCount":
		primary = func(a, b *models.Tournament) int { return cmp.Compare(a.EventCount, b.EventCount) }
	case "playerCount":
		primary = func(a, b *models.Tournament) int { return cmp.Compare(a.PlayerCount, b.PlayerCount) }
	case "participation":
		primary = func(a, b *models.Tournament) int { return cmp.Compare(a.Participation, b.Participation) }
	case "strength":
		primary = func(a, b *models.Tournament) int { return cmp.Compare(a.Strength, b.Strength) }
	case "averageEloRating":
		primary = func(a, b *models.Tournament) int { return cmp.Compare(a.AverageEloRating, b.AverageEloRating) }
	default:
		primary = byTournamentName
		if field != "name" {
			desc = false
		}
	}

	return func(a, b *models.Tournament) int {
		c := primary(a, b)
		if desc {
			c = -c
		}
		if c != 0 {
			return c
		}
		if c := byTournamentName(a, b); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	}
}

func byTournamentName(a, b *models.Tournament) int {
	return strings.Compare(a.Name, b.Name)
}
