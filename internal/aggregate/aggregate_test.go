package aggregate

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nonlining/tennis-crystal-ball/internal/database"
	"github.com/nonlining/tennis-crystal-ball/internal/models"
)

var testOrdering = models.Ordering{
	Levels:   models.CategoryOrder{"G", "F", "M", "A", "B", "D", "T"},
	Surfaces: models.CategoryOrder{"H", "C", "G", "P"},
}

func TestFormatSeasons(t *testing.T) {
	tests := []struct {
		name     string
		seasons  []int
		expected string
	}{
		{name: "ranges and singletons", seasons: []int{2001, 2002, 2003, 2005, 2008}, expected: "2001-2003, 2005, 2008"},
		{name: "empty", seasons: nil, expected: ""},
		{name: "single", seasons: []int{1990}, expected: "1990"},
		{name: "one run", seasons: []int{1968, 1969, 1970}, expected: "1968-1970"},
		{name: "unsorted with duplicates", seasons: []int{2010, 2008, 2009, 2009, 2012}, expected: "2008-2010, 2012"},
		{name: "pairs", seasons: []int{2000, 2001, 2003, 2004}, expected: "2000-2001, 2003-2004"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatSeasons(tt.seasons))
		})
	}
}

func TestParseSeasonsRoundTrip(t *testing.T) {
	inputs := [][]int{
		{2001, 2002, 2003, 2005, 2008},
		{1877},
		{1915, 1919, 1920, 1921, 1925, 1926},
		{},
	}

	for _, seasons := range inputs {
		parsed, err := ParseSeasons(FormatSeasons(seasons))
		require.NoError(t, err)
		assert.ElementsMatch(t, seasons, parsed)
	}
}

func TestParseSeasonsRejectsGarbage(t *testing.T) {
	for _, s := range []string{"abc", "2001-", "2005-2001", "2001, x"} {
		_, err := ParseSeasons(s)
		assert.Error(t, err, s)
	}
}

func TestRankByFrequency(t *testing.T) {
	order := models.CategoryOrder{"G", "M", "A"}

	counts := Frequencies{}
	for _, level := range []string{"G", "G", "M", "M", "M", "A"} {
		counts.Add(level)
	}
	assert.Equal(t, []string{"M", "G", "A"}, RankByFrequency(counts, order))

	assert.Equal(t, []string{"G", "M"}, RankByFrequency(Frequencies{"M": 2, "G": 2}, order))
	assert.Equal(t, []string{"A", "X"}, RankByFrequency(Frequencies{"X": 1, "A": 1}, order))
	assert.Empty(t, RankByFrequency(Frequencies{}, order))
}

func tournamentRow(events, topPlayers any) database.Row {
	return database.Row{
		"tournament_id":     int32(520),
		"ext_tournament_id": "520",
		"name":              "Roland Garros",
		"level":             "G",
		"events":            events,
		"top_players":       topPlayers,
	}
}

func TestMapTournament(t *testing.T) {
	events := `[
		{"level":"G","surface":"C","season":2005,"player_count":128,"participation":0.9,"strength":1000,"average_elo_rating":1900},
		{"level":"G","surface":"C","season":2006,"player_count":128,"participation":0.8,"strength":1001,"average_elo_rating":1901},
		{"level":"M","surface":"H","season":2008,"player_count":64,"participation":0.7,"strength":1002,"average_elo_rating":1902}
	]`
	topPlayers := `[{"player_id":4742,"name":"Rafael Nadal","country_id":"ESP","active":false,"titles":14,"rank":1}]`

	tournament, err := NewMapper(testOrdering).MapTournament(tournamentRow(events, topPlayers))
	require.NoError(t, err)

	assert.Equal(t, 520, tournament.ID)
	require.NotNil(t, tournament.ExtID)
	assert.Equal(t, "520", *tournament.ExtID)
	assert.Equal(t, []string{"G", "M"}, tournament.Levels)
	assert.Equal(t, []string{"C", "H"}, tournament.Surfaces)
	assert.Equal(t, "G", tournament.Level())
	assert.Equal(t, 3, tournament.EventCount)
	assert.Equal(t, "2005-2006, 2008", tournament.FormattedSeasons)
	assert.Equal(t, 107, tournament.PlayerCount)
	assert.InDelta(t, 0.8, tournament.Participation, 1e-9)
	assert.Equal(t, 1001, tournament.Strength)
	assert.Equal(t, 1901, tournament.AverageEloRating)
	require.Len(t, tournament.TopPlayers, 1)
	assert.Equal(t, models.PlayerRow{Rank: 1, PlayerID: 4742, Name: "Rafael Nadal", CountryID: "ESP", Titles: 14}, tournament.TopPlayers[0])
}

func TestMapTournamentRoundsHalfAwayFromZero(t *testing.T) {
	events := `[
		{"level":"A","surface":"H","season":2001,"player_count":32,"participation":0.5,"strength":10,"average_elo_rating":1500},
		{"level":"A","surface":"H","season":2002,"player_count":33,"participation":0.5,"strength":11,"average_elo_rating":1501}
	]`

	tournament, err := NewMapper(testOrdering).MapTournament(tournamentRow(events, "[]"))
	require.NoError(t, err)

	assert.Equal(t, 33, tournament.PlayerCount)
	assert.Equal(t, 11, tournament.Strength)
	assert.Equal(t, 1501, tournament.AverageEloRating)
	assert.Empty(t, tournament.TopPlayers)
}

func TestMapTournamentParticipationIsNotRounded(t *testing.T) {
	tests := []struct {
		name   string
		events string
		want   float64
	}{
		{
			name: "terminating mean",
			events: `[
				{"level":"A","surface":"H","season":2001,"player_count":32,"participation":0.12345,"strength":10,"average_elo_rating":1500},
				{"level":"A","surface":"H","season":2002,"player_count":32,"participation":0.0,"strength":10,"average_elo_rating":1500}
			]`,
			want: 0.061725,
		},
		{
			name: "non-terminating mean",
			events: `[
				{"level":"A","surface":"H","season":2001,"player_count":32,"participation":0.1,"strength":10,"average_elo_rating":1500},
				{"level":"A","surface":"H","season":2002,"player_count":32,"participation":0.0,"strength":10,"average_elo_rating":1500},
				{"level":"A","surface":"H","season":2003,"player_count":32,"participation":0.0,"strength":10,"average_elo_rating":1500}
			]`,
			want: 0.1 / 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tournament, err := NewMapper(testOrdering).MapTournament(tournamentRow(tt.events, "[]"))
			require.NoError(t, err)

			assert.InDelta(t, tt.want, tournament.Participation, 1e-12)
		})
	}
}

func TestMapTournamentWithoutEditions(t *testing.T) {
	tournament, err := NewMapper(testOrdering).MapTournament(tournamentRow("[]", []byte("[]")))
	require.NoError(t, err)

	assert.Zero(t, tournament.EventCount)
	assert.Zero(t, tournament.PlayerCount)
	assert.Zero(t, tournament.Participation)
	assert.Zero(t, tournament.Strength)
	assert.Zero(t, tournament.AverageEloRating)
	assert.Empty(t, tournament.FormattedSeasons)
	assert.Empty(t, tournament.Levels)
	assert.Equal(t, "", tournament.Surface())
}

func TestMapTournamentMalformed(t *testing.T) {
	tests := []struct {
		name       string
		events     any
		topPlayers any
		field      string
	}{
		{name: "truncated events", events: `[{"level":"G","season":2001`, topPlayers: "[]", field: EventsField},
		{name: "events not an array", events: `{"level":"G"}`, topPlayers: "[]", field: EventsField},
		{name: "edition without season", events: `[{"level":"G","surface":"C"}]`, topPlayers: "[]", field: EventsField},
		{name: "missing events", events: nil, topPlayers: "[]", field: EventsField},
		{name: "truncated top players", events: "[]", topPlayers: `[{"player_id":1`, field: TopPlayersField},
		{name: "top player without id", events: "[]", topPlayers: `[{"name":"X"}]`, field: TopPlayersField},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tournament, err := NewMapper(testOrdering).MapTournament(tournamentRow(tt.events, tt.topPlayers))

			assert.Nil(t, tournament)
			require.Error(t, err)
			assert.True(t, errors.Is(err, models.ErrMalformedAggregate))
			var malformedErr *models.MalformedAggregateError
			require.True(t, errors.As(err, &malformedErr))
			assert.Equal(t, tt.field, malformedErr.Field)
		})
	}
}

func eventRow() database.Row {
	return database.Row{
		"tournament_event_id":  int32(2311),
		"tournament_id":        int32(520),
		"ext_tournament_id":    nil,
		"season":               int32(2008),
		"date":                 time.Date(2008, time.May, 25, 0, 0, 0, 0, time.UTC),
		"name":                 "Roland Garros",
		"level":                "G",
		"surface":              "C",
		"indoor":               false,
		"draw_type":            "KO",
		"draw_size":            int16(128),
		"player_count":         int32(128),
		"participation":        0.95,
		"strength":             int32(1200),
		"average_elo_rating":   int32(1850),
		"winner_id":            int32(4742),
		"winner_name":          "Rafael Nadal",
		"winner_seed":          int16(2),
		"winner_entry":         nil,
		"winner_country_id":    "ESP",
		"runner_up_id":         int32(3819),
		"runner_up_name":       "Roger Federer",
		"runner_up_seed":       int16(1),
		"runner_up_entry":      nil,
		"runner_up_country_id": "SUI",
		"score":                "6-1 6-3 6-0",
		"outcome":              nil,
		"map_properties":       `{"lat":48.84}`,
	}
}

func TestMapTournamentEvent(t *testing.T) {
	event, err := NewMapper(testOrdering).MapTournamentEvent(eventRow())
	require.NoError(t, err)

	assert.Equal(t, 2311, event.ID)
	assert.Nil(t, event.ExtID)
	assert.Equal(t, 2008, event.Season)
	require.NotNil(t, event.Draw.Size)
	assert.Equal(t, 128, *event.Draw.Size)
	require.True(t, event.HasFinal())
	assert.Equal(t, "Rafael Nadal", event.Final.Winner.Name)
	require.NotNil(t, event.Final.Winner.Seed)
	assert.Equal(t, 2, *event.Final.Winner.Seed)
	assert.Equal(t, "SUI", event.Final.RunnerUp.CountryID)
	assert.Equal(t, "6-1 6-3 6-0", event.Final.Score)
	assert.JSONEq(t, `{"lat":48.84}`, string(event.MapProperties))
}

func TestMapTournamentEventWithoutFinal(t *testing.T) {
	row := eventRow()
	row["runner_up_id"] = nil

	event, err := NewMapper(testOrdering).MapTournamentEvent(row)
	require.NoError(t, err)

	assert.False(t, event.HasFinal())
	assert.Nil(t, event.Final)
}

func TestMapPlayerTournamentEvent(t *testing.T) {
	row := eventRow()
	row["result"] = "W"

	result := NewMapper(testOrdering).MapPlayerTournamentEvent(row)

	assert.Equal(t, 2311, result.TournamentEventID)
	assert.Equal(t, "W", result.Result)
	assert.Equal(t, "KO", result.DrawType)
	assert.InDelta(t, 0.95, result.Participation, 1e-9)
}
