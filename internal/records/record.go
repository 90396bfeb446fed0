// Package records holds the catalogue of player records and the detail values they rank by.
package records

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/nonlining/tennis-crystal-ball/internal/database"
)

// Record is one leaderboard definition
type Record struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Kind      DetailKind `json:"kind"`
	Ascending bool       `json:"ascending,omitempty"`
	Query     string     `json:"-"`
	infamous  bool
}

// Infamous reports whether the record was registered in the infamous group
func (r *Record) Infamous() bool {
	return r.infamous
}

// Category groups related records under one heading
type Category struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Infamous bool      `json:"infamous"`
	Records  []*Record `json:"records"`
}

// LinkFunc maps a player and a detail to a navigable reference
type LinkFunc func(playerID int, detail Detail) string

// DetailRow is one ranked player of a record table
type DetailRow struct {
	Rank      int      `json:"rank"`
	PlayerID  int      `json:"player_id"`
	Name      string   `json:"name"`
	CountryID string   `json:"country_id"`
	Active    bool     `json:"active"`
	Detail    Detail   `json:"detail"`
	LinkFunc  LinkFunc `json:"-"`
}

// Link returns the row's reference, empty without a link function
func (r DetailRow) Link() string {
	if r.LinkFunc == nil {
		return ""
	}
	return r.LinkFunc(r.PlayerID, r.Detail)
}

// Value returns the rendered detail
func (r DetailRow) Value() string {
	if r.Detail == nil {
		return ""
	}
	return r.Detail.String()
}

// SortRows orders rows by rank, then detail, then player name. Ranks come from the source and are kept.
func (r *Record) SortRows(rows []DetailRow) {
	slices.SortStableFunc(rows, func(a, b DetailRow) int {
		if c := cmp.Compare(a.Rank, b.Rank); c != 0 {
			return c
		}
		if a.Detail != nil && b.Detail != nil {
			if c := compareDetails(a.Detail, b.Detail, r.Ascending); c != 0 {
				return c
			}
		}
		return strings.Compare(a.Name, b.Name)
	})
}

// MapRow maps a result row of the record's query into a detail row
func (r *Record) MapRow(row database.Row, link LinkFunc) (DetailRow, error) {
	detail, err := r.mapDetail(row)
	if err != nil {
		return DetailRow{}, err
	}
	return DetailRow{
		Rank:      row.Int("rank"),
		PlayerID:  row.Int("player_id"),
		Name:      row.String("name"),
		CountryID: row.String("country_id"),
		Active:    row.Bool("active"),
		Detail:    detail,
		LinkFunc:  link,
	}, nil
}

func (r *Record) mapDetail(row database.Row) (Detail, error) {
	switch r.Kind {
	case KindInteger:
		return IntegerDetail{Value: row.Int("value")}, nil
	case KindPercentage:
		return PercentageDetail{Value: row.Float("pct"), Sample: row.Int("sample")}, nil
	case KindSeasonInteger:
		return SeasonIntegerDetail{Value: row.Int("value"), Season: row.Int("season")}, nil
	case KindEventInteger:
		return EventIntegerDetail{Value: row.Int("value"), Event: mapRecordEvent(row, "")}, nil
	case KindStreak:
		return StreakDetail{Value: row.Int("value"), Start: mapRecordEvent(row, "start_"), End: mapRecordEvent(row, "end_")}, nil
	case KindCareerSpan:
		return CareerSpanDetail{Start: mapRecordEvent(row, "start_"), End: mapRecordEvent(row, "end_")}, nil
	case KindSeasonPercentage:
		return SeasonPercentageDetail{
			PercentageDetail: PercentageDetail{Value: row.Float("pct"), Sample: row.Int("sample")},
			Season:           row.Int("season"),
		}, nil
	case KindTournamentCareerSpan:
		return TournamentCareerSpanDetail{
			CareerSpanDetail: CareerSpanDetail{Start: mapRecordEvent(row, "start_"), End: mapRecordEvent(row, "end_")},
			TournamentID:     row.Int("tournament_id"),
		}, nil
	default:
		return nil, fmt.Errorf("record %s has unknown detail kind %q", r.ID, r.Kind)
	}
}

func mapRecordEvent(row database.Row, prefix string) RecordEvent {
	return RecordEvent{
		TournamentEventID: row.Int(prefix + "tournament_event_id"),
		Name:              row.String(prefix + "tournament"),
		Level:             row.String(prefix + "level"),
		Season:            row.Int(prefix + "season"),
		Date:              row.Time(prefix + "date"),
	}
}
