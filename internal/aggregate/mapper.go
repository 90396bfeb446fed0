// Package aggregate maps flat result rows into entities, rolling nested per-edition
// sub-documents up into tournament-level statistics.
package aggregate

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"github.com/nonlining/tennis-crystal-ball/internal/database"
	"github.com/nonlining/tennis-crystal-ball/internal/metrics"
	"github.com/nonlining/tennis-crystal-ball/internal/models"
)

// Nested sub-document columns
const (
	EventsField     = "events"
	TopPlayersField = "top_players"
)

var errMissingSubDocument = errors.New("sub-document is missing")

// Mapper maps rows into entities. It is stateless per call and safe for concurrent use.
type Mapper struct {
	ordering models.Ordering
}

// NewMapper creates a mapper ranking levels and surfaces by the given canonical ordering
func NewMapper(ordering models.Ordering) *Mapper {
	return &Mapper{ordering: ordering}
}

// edition is one element of the events sub-document
type edition struct {
	Level            *string `json:"level"`
	Surface          string  `json:"surface"`
	Season           *int    `json:"season"`
	PlayerCount      int     `json:"player_count"`
	Participation    float64 `json:"participation"`
	Strength         int     `json:"strength"`
	AverageEloRating int     `json:"average_elo_rating"`
}

// topPlayer is one element of the top_players sub-document
type topPlayer struct {
	Rank      int    `json:"rank"`
	PlayerID  *int   `json:"player_id"`
	Name      string `json:"name"`
	CountryID string `json:"country_id"`
	Active    bool   `json:"active"`
	Titles    int    `json:"titles"`
}

// MapTournament maps a tournament row carrying its editions and top title holders.
// A sub-document that fails to decode yields a MalformedAggregateError and no tournament.
func (m *Mapper) MapTournament(row database.Row) (*models.Tournament, error) {
	var editions []edition
	if err := decodeSubDocument(row, EventsField, &editions); err != nil {
		return nil, err
	}
	var holders []topPlayer
	if err := decodeSubDocument(row, TopPlayersField, &holders); err != nil {
		return nil, err
	}

	levels, surfaces := Frequencies{}, Frequencies{}
	seasons := make([]int, 0, len(editions))
	var playerCount, strength, eloRating int
	participation := decimal.Zero
	for i, e := range editions {
		if e.Level == nil || e.Season == nil {
			return nil, malformed(EventsField, fmt.Errorf("edition %d lacks level or season", i))
		}
		levels.Add(*e.Level)
		surfaces.Add(e.Surface)
		seasons = append(seasons, *e.Season)
		playerCount += e.PlayerCount
		participation = participation.Add(decimal.NewFromFloat(e.Participation))
		strength += e.Strength
		eloRating += e.AverageEloRating
	}

	topPlayers := make([]models.PlayerRow, 0, len(holders))
	for i, p := range holders {
		if p.PlayerID == nil {
			return nil, malformed(TopPlayersField, fmt.Errorf("top player %d lacks player_id", i))
		}
		rank := p.Rank
		if rank == 0 {
			rank = i + 1
		}
		topPlayers = append(topPlayers, models.PlayerRow{
			Rank:      rank,
			PlayerID:  *p.PlayerID,
			Name:      p.Name,
			CountryID: p.CountryID,
			Active:    p.Active,
			Titles:    p.Titles,
		})
	}

	eventCount := len(seasons)
	return &models.Tournament{
		ID:               row.Int("tournament_id"),
		ExtID:            row.NullableString("ext_tournament_id"),
		Name:             row.String("name"),
		Levels:           RankByFrequency(levels, m.ordering.Levels),
		Surfaces:         RankByFrequency(surfaces, m.ordering.Surfaces),
		EventCount:       eventCount,
		FormattedSeasons: FormatSeasons(seasons),
		PlayerCount:      averageInt(playerCount, eventCount),
		Participation:    averageDecimal(participation, eventCount),
		Strength:         averageInt(strength, eventCount),
		AverageEloRating: averageInt(eloRating, eventCount),
		TopPlayers:       topPlayers,
	}, nil
}

// MapTournamentEvent maps a tournament edition row including its optional final
func (m *Mapper) MapTournamentEvent(row database.Row) (*models.TournamentEvent, error) {
	mapProperties, err := row.JSON("map_properties")
	if err != nil {
		return nil, err
	}
	event := &models.TournamentEvent{
		ID:           row.Int("tournament_event_id"),
		TournamentID: row.Int("tournament_id"),
		ExtID:        row.NullableString("ext_tournament_id"),
		Season:       row.Int("season"),
		Date:         row.Time("date"),
		Name:         row.String("name"),
		Level:        row.String("level"),
		Surface:      row.String("surface"),
		Indoor:       row.Bool("indoor"),
		Draw: models.Draw{
			Type:             row.String("draw_type"),
			Size:             row.NullableInt("draw_size"),
			PlayerCount:      row.Int("player_count"),
			Participation:    row.Float("participation"),
			Strength:         row.Int("strength"),
			AverageEloRating: row.Int("average_elo_rating"),
		},
		MapProperties: mapProperties,
	}
	event.SetFinal(MapMatchPlayer(row, "winner_"), MapMatchPlayer(row, "runner_up_"), row.String("score"), row.String("outcome"))
	return event, nil
}

// MapMatchPlayer maps the prefixed participant columns, nil when the participant is absent
func MapMatchPlayer(row database.Row, prefix string) *models.MatchPlayer {
	if !row.Has(prefix + "id") {
		return nil
	}
	return &models.MatchPlayer{
		PlayerID:  row.Int(prefix + "id"),
		Name:      row.String(prefix + "name"),
		Seed:      row.NullableInt(prefix + "seed"),
		Entry:     row.String(prefix + "entry"),
		CountryID: row.String(prefix + "country_id"),
	}
}

// MapPlayerTournamentEvent maps a player's result at one edition
func (m *Mapper) MapPlayerTournamentEvent(row database.Row) models.PlayerTournamentEvent {
	return models.PlayerTournamentEvent{
		TournamentEventID: row.Int("tournament_event_id"),
		Season:            row.Int("season"),
		Date:              row.Time("date"),
		Name:              row.String("name"),
		Level:             row.String("level"),
		Surface:           row.String("surface"),
		Indoor:            row.Bool("indoor"),
		DrawType:          row.String("draw_type"),
		DrawSize:          row.NullableInt("draw_size"),
		Participation:     row.Float("participation"),
		Strength:          row.Int("strength"),
		AverageEloRating:  row.Int("average_elo_rating"),
		Result:            row.String("result"),
	}
}

// MapTournamentItem maps a tournament lookup row
func (m *Mapper) MapTournamentItem(row database.Row) models.TournamentItem {
	return models.TournamentItem{
		ID:    row.Int("tournament_id"),
		Name:  row.String("name"),
		Level: row.String("level"),
	}
}

// MapTournamentEventItem maps a tournament event lookup row
func (m *Mapper) MapTournamentEventItem(row database.Row) models.TournamentEventItem {
	return models.TournamentEventItem{
		ID:     row.Int("tournament_event_id"),
		Name:   row.String("name"),
		Season: row.Int("season"),
		Level:  row.String("level"),
	}
}

func decodeSubDocument(row database.Row, field string, target any) error {
	raw, err := row.JSON(field)
	if err != nil {
		return malformed(field, err)
	}
	if len(raw) == 0 {
		return malformed(field, errMissingSubDocument)
	}
	if err := json.Unmarshal(raw, target); err != nil {
		return malformed(field, err)
	}
	return nil
}

func malformed(field string, err error) error {
	metrics.RecordMalformedAggregate(field)
	return models.NewMalformedAggregate(field, err)
}

// averageInt divides rounding half away from zero; zero editions average to zero
func averageInt(sum, count int) int {
	if count == 0 {
		return 0
	}
	return int(math.Round(float64(sum) / float64(count)))
}

// averageDecimal divides without rounding; zero editions average to zero
func averageDecimal(sum decimal.Decimal, count int) float64 {
	if count == 0 {
		return 0
	}
	return sum.Div(decimal.NewFromInt(int64(count))).InexactFloat64()
}
