package records

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nonlining/tennis-crystal-ball/internal/database"
	"github.com/nonlining/tennis-crystal-ball/internal/models"
)

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func TestDetailRendering(t *testing.T) {
	tests := []struct {
		name     string
		detail   Detail
		expected string
	}{
		{name: "integer", detail: IntegerDetail{Value: 42}, expected: "42"},
		{name: "percentage", detail: PercentageDetail{Value: 0.734, Sample: 38}, expected: "73.4% (38)"},
		{name: "percentage rounds", detail: PercentageDetail{Value: 0.82456, Sample: 1251}, expected: "82.5% (1251)"},
		{name: "whole percentage", detail: PercentageDetail{Value: 1, Sample: 7}, expected: "100.0% (7)"},
		{name: "season integer", detail: SeasonIntegerDetail{Value: 13, Season: 1984}, expected: "1984"},
		{name: "event integer", detail: EventIntegerDetail{Value: 12, Event: RecordEvent{Season: 2003}}, expected: "12"},
		{name: "streak", detail: StreakDetail{Value: 44, Start: RecordEvent{Season: 1984}, End: RecordEvent{Season: 1985}}, expected: "44"},
		{name: "career span", detail: CareerSpanDetail{Start: RecordEvent{Season: 1974}, End: RecordEvent{Season: 1986}}, expected: "1974-1986"},
		{name: "season percentage", detail: SeasonPercentageDetail{PercentageDetail: PercentageDetail{Value: 0.965, Sample: 85}, Season: 1984}, expected: "96.5% (85)"},
		{
			name:     "tournament career span",
			detail:   TournamentCareerSpanDetail{CareerSpanDetail: CareerSpanDetail{Start: RecordEvent{Season: 1999}, End: RecordEvent{Season: 2019}}, TournamentID: 540},
			expected: "1999-2019",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.detail.String())
		})
	}
}

func TestCompare(t *testing.T) {
	early := RecordEvent{Season: 1980, Date: date(1980, time.January, 10)}
	late := RecordEvent{Season: 1990, Date: date(1990, time.June, 3)}

	tests := []struct {
		name   string
		better Detail
		worse  Detail
	}{
		{name: "integer by value", better: IntegerDetail{Value: 10}, worse: IntegerDetail{Value: 9}},
		{name: "percentage by value", better: PercentageDetail{Value: 0.8, Sample: 10}, worse: PercentageDetail{Value: 0.7, Sample: 100}},
		{name: "percentage by larger sample", better: PercentageDetail{Value: 0.8, Sample: 100}, worse: PercentageDetail{Value: 0.8, Sample: 10}},
		{name: "season integer by earlier season", better: SeasonIntegerDetail{Value: 12, Season: 1974}, worse: SeasonIntegerDetail{Value: 12, Season: 1995}},
		{name: "event integer by earlier date", better: EventIntegerDetail{Value: 3, Event: early}, worse: EventIntegerDetail{Value: 3, Event: late}},
		{name: "streak by value", better: StreakDetail{Value: 46, Start: late}, worse: StreakDetail{Value: 44, Start: early}},
		{name: "streak by earlier start", better: StreakDetail{Value: 44, Start: early}, worse: StreakDetail{Value: 44, Start: late}},
		{
			name:   "career span by length",
			better: CareerSpanDetail{Start: early, End: RecordEvent{Date: date(2000, time.May, 1)}},
			worse:  CareerSpanDetail{Start: late, End: RecordEvent{Date: date(2000, time.May, 1)}},
		},
		{
			name:   "career span by earlier start",
			better: CareerSpanDetail{Start: early, End: RecordEvent{Date: early.Date.AddDate(0, 0, 1000)}},
			worse:  CareerSpanDetail{Start: late, End: RecordEvent{Date: late.Date.AddDate(0, 0, 1000)}},
		},
		{
			name:   "season percentage by value",
			better: seasonPct(0.9, 40, 1990),
			worse:  seasonPct(0.85, 90, 1980),
		},
		{
			name:   "season percentage by larger sample",
			better: seasonPct(0.9, 90, 1990),
			worse:  seasonPct(0.9, 40, 1980),
		},
		{
			name:   "season percentage by earlier season",
			better: seasonPct(0.9, 90, 1980),
			worse:  seasonPct(0.9, 90, 1990),
		},
		{
			name:   "tournament career span by length",
			better: TournamentCareerSpanDetail{CareerSpanDetail: CareerSpanDetail{Start: early, End: RecordEvent{Date: date(2000, time.May, 1)}}, TournamentID: 2},
			worse:  TournamentCareerSpanDetail{CareerSpanDetail: CareerSpanDetail{Start: late, End: RecordEvent{Date: date(2000, time.May, 1)}}, TournamentID: 1},
		},
		{
			name:   "tournament career span by earlier start",
			better: TournamentCareerSpanDetail{CareerSpanDetail: CareerSpanDetail{Start: early, End: RecordEvent{Date: early.Date.AddDate(0, 0, 1000)}}},
			worse:  TournamentCareerSpanDetail{CareerSpanDetail: CareerSpanDetail{Start: late, End: RecordEvent{Date: late.Date.AddDate(0, 0, 1000)}}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Negative(t, Compare(tt.better, tt.worse))
			assert.Positive(t, Compare(tt.worse, tt.better))
			assert.Zero(t, Compare(tt.better, tt.better))
		})
	}
}

func seasonPct(value float64, sample, season int) SeasonPercentageDetail {
	return SeasonPercentageDetail{PercentageDetail: PercentageDetail{Value: value, Sample: sample}, Season: season}
}

func TestSortRowsKeepsRanks(t *testing.T) {
	record := &Record{ID: "Titles", Kind: KindInteger}
	rows := []DetailRow{
		{Rank: 2, Name: "Borg", Detail: IntegerDetail{Value: 64}},
		{Rank: 1, Name: "Connors", Detail: IntegerDetail{Value: 109}},
		{Rank: 3, Name: "Lendl", Detail: IntegerDetail{Value: 94}},
		{Rank: 2, Name: "Agassi", Detail: IntegerDetail{Value: 64}},
	}

	record.SortRows(rows)

	names := make([]string, len(rows))
	for i, row := range rows {
		names[i] = row.Name
	}
	assert.Equal(t, []string{"Connors", "Agassi", "Borg", "Lendl"}, names)
	assert.Equal(t, 3, rows[3].Rank)
}

func TestSortRowsAscendingRecord(t *testing.T) {
	record := &Record{ID: "LeastEntriesWinningTitle", Kind: KindEventInteger, Ascending: true}
	rows := []DetailRow{
		{Rank: 1, Name: "B", Detail: EventIntegerDetail{Value: 2, Event: RecordEvent{Date: date(2001, time.March, 1)}}},
		{Rank: 1, Name: "A", Detail: EventIntegerDetail{Value: 2, Event: RecordEvent{Date: date(1999, time.March, 1)}}},
		{Rank: 1, Name: "C", Detail: EventIntegerDetail{Value: 1, Event: RecordEvent{Date: date(2010, time.March, 1)}}},
	}

	record.SortRows(rows)

	assert.Equal(t, "C", rows[0].Name)
	assert.Equal(t, "A", rows[1].Name)
	assert.Equal(t, "B", rows[2].Name)
}

func TestRegistryLookup(t *testing.T) {
	registry := NewRegistry()

	records := registry.Records()
	require.NotEmpty(t, records)
	for _, record := range records {
		found, err := registry.Record(record.ID)
		require.NoError(t, err, record.ID)
		assert.Same(t, record, found)
	}

	_, err := registry.Record("MostBagels")
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrNotFound))
	var notFound *models.NotFoundError
	require.True(t, errors.As(err, &notFound))
	assert.Equal(t, "Record", notFound.Kind)
	assert.Equal(t, "MostBagels", notFound.ID)
}

func TestRegistryCategoriesInRegistrationOrder(t *testing.T) {
	registry := NewRegistry()

	ids := func(categories []*Category) []string {
		out := make([]string, len(categories))
		for i, c := range categories {
			out[i] = c.ID
		}
		return out
	}

	assert.Equal(t, []string{
		"MostMatchesPlayed", "MostMatchesWon", "GreatestMatchWinningPct", "MostTitles", "MostFinals",
		"MostSemiFinals", "MostQuarterFinals", "MostEntries", "GreatestTitleWinningPct", "LeastEntriesWinningTitle",
		"WinningStreaks", "TitleStreaks", "FinalStreaks", "SemiFinalStreaks", "QuarterFinalStreaks", "CareerSpan",
	}, ids(registry.Categories()))
	assert.Equal(t, []string{
		"BestPlayerThatNever", "MostMatchesLost", "GreatestMatchLosingPct", "GreatestTitleLosingPct", "MostEntriesWinningTitle",
	}, ids(registry.InfamousCategories()))

	seen := map[string]int{}
	total := 0
	for _, c := range append(registry.Categories(), registry.InfamousCategories()...) {
		seen[c.ID]++
		total += len(c.Records)
		for _, record := range c.Records {
			assert.Equal(t, c.Infamous, record.Infamous(), record.ID)
		}
	}
	for id, count := range seen {
		assert.Equal(t, 1, count, id)
	}
	assert.Equal(t, len(registry.Records()), total)
}

func TestRegistryCompositeRecords(t *testing.T) {
	registry := NewRegistry()

	tests := []struct {
		id       string
		kind     DetailKind
		source   string
		infamous bool
	}{
		{id: "SeasonMatchWinningPct", kind: KindSeasonPercentage, source: "player_season_performance"},
		{id: "SeasonMatchLosingPct", kind: KindSeasonPercentage, source: "player_season_performance", infamous: true},
		{id: "TournamentCareerSpan", kind: KindTournamentCareerSpan, source: "GROUP BY player_id, tournament_id"},
		{id: "TournamentTitlesSpan", kind: KindTournamentCareerSpan, source: "GROUP BY player_id, tournament_id"},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			record, err := registry.Record(tt.id)
			require.NoError(t, err)

			assert.Equal(t, tt.kind, record.Kind)
			assert.Equal(t, tt.infamous, record.Infamous())
			assert.Contains(t, record.Query, tt.source)
		})
	}

	span, err := registry.Record("CareerSpan")
	require.NoError(t, err)
	assert.Contains(t, span.Query, "GROUP BY player_id\n")
}

func TestRegistryCategoriesAreCopies(t *testing.T) {
	registry := NewRegistry()

	categories := registry.Categories()
	categories[0] = nil

	assert.NotNil(t, registry.Categories()[0])
}

func TestRegistryRejectsDuplicates(t *testing.T) {
	registry := &Registry{records: make(map[string]*Record)}
	registry.register(&Category{ID: "A", Records: []*Record{{ID: "Titles"}}}, false)

	assert.Panics(t, func() {
		registry.register(&Category{ID: "B", Records: []*Record{{ID: "Titles"}}}, true)
	})
	assert.Panics(t, func() {
		registry.register(&Category{ID: "A", Records: []*Record{{ID: "Finals"}}}, false)
	})
}

func TestRecordQueriesAcceptCriteriaAndOffset(t *testing.T) {
	for _, record := range NewRegistry().Records() {
		assert.Equal(t, 1, strings.Count(record.Query, database.CriteriaToken), record.ID)
		assert.Equal(t, 1, strings.Count(record.Query, database.OffsetToken), record.ID)
		assert.NotContains(t, record.Query, "%!", record.ID)
	}
}

func TestRecordMapRow(t *testing.T) {
	link := func(playerID int, detail Detail) string {
		return fmt.Sprintf("/playerProfile?playerId=%d&value=%s", playerID, detail)
	}
	base := database.Row{"rank": int64(1), "player_id": int32(3819), "name": "Roger Federer", "country_id": "SUI", "active": false}
	with := func(extra database.Row) database.Row {
		row := database.Row{}
		for k, v := range base {
			row[k] = v
		}
		for k, v := range extra {
			row[k] = v
		}
		return row
	}

	tests := []struct {
		name     string
		kind     DetailKind
		row      database.Row
		expected Detail
	}{
		{name: "integer", kind: KindInteger, row: with(database.Row{"value": int64(103)}), expected: IntegerDetail{Value: 103}},
		{name: "percentage", kind: KindPercentage, row: with(database.Row{"pct": float32(0.5), "sample": int64(8)}), expected: PercentageDetail{Value: 0.5, Sample: 8}},
		{name: "season", kind: KindSeasonInteger, row: with(database.Row{"value": int32(12), "season": int16(2006)}), expected: SeasonIntegerDetail{Value: 12, Season: 2006}},
		{
			name: "event",
			kind: KindEventInteger,
			row: with(database.Row{
				"value": int64(5), "tournament_event_id": int32(77), "tournament": "Halle", "level": "A", "season": int16(2003), "date": date(2003, time.June, 15),
			}),
			expected: EventIntegerDetail{Value: 5, Event: RecordEvent{TournamentEventID: 77, Name: "Halle", Level: "A", Season: 2003, Date: date(2003, time.June, 15)}},
		},
		{
			name: "career span",
			kind: KindCareerSpan,
			row: with(database.Row{
				"start_season": int16(1998), "start_date": date(1998, time.July, 6), "end_season": int16(2021), "end_date": date(2021, time.July, 7),
			}),
			expected: CareerSpanDetail{Start: RecordEvent{Season: 1998, Date: date(1998, time.July, 6)}, End: RecordEvent{Season: 2021, Date: date(2021, time.July, 7)}},
		},
		{
			name:     "season percentage",
			kind:     KindSeasonPercentage,
			row:      with(database.Row{"pct": float32(0.75), "sample": int64(84), "season": int16(2006)}),
			expected: seasonPct(0.75, 84, 2006),
		},
		{
			name: "tournament career span",
			kind: KindTournamentCareerSpan,
			row: with(database.Row{
				"tournament_id": int32(540), "start_tournament": "Wimbledon", "start_season": int16(1999), "start_date": date(1999, time.June, 21),
				"end_tournament": "Wimbledon", "end_season": int16(2019), "end_date": date(2019, time.July, 1),
			}),
			expected: TournamentCareerSpanDetail{
				CareerSpanDetail: CareerSpanDetail{
					Start: RecordEvent{Name: "Wimbledon", Season: 1999, Date: date(1999, time.June, 21)},
					End:   RecordEvent{Name: "Wimbledon", Season: 2019, Date: date(2019, time.July, 1)},
				},
				TournamentID: 540,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			record := &Record{ID: "Test", Kind: tt.kind}

			row, err := record.MapRow(tt.row, link)
			require.NoError(t, err)

			assert.Equal(t, 1, row.Rank)
			assert.Equal(t, 3819, row.PlayerID)
			assert.Equal(t, "Roger Federer", row.Name)
			assert.Equal(t, tt.expected, row.Detail)
			assert.Equal(t, "/playerProfile?playerId=3819&value="+tt.expected.String(), row.Link())
		})
	}
}

func TestRecordMapRowUnknownKind(t *testing.T) {
	_, err := (&Record{ID: "Odd", Kind: "Unknown"}).MapRow(database.Row{}, nil)
	assert.Error(t, err)
}

func TestDetailRowWithoutLink(t *testing.T) {
	row := DetailRow{PlayerID: 1, Detail: IntegerDetail{Value: 3}}

	assert.Empty(t, row.Link())
	assert.Equal(t, "3", row.Value())
}
