package records

import (
	"cmp"
	"fmt"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// DetailKind identifies the value type a record ranks players by
type DetailKind string

const (
	KindInteger       DetailKind = "Integer"
	KindPercentage    DetailKind = "Percentage"
	KindSeasonInteger DetailKind = "SeasonInteger"
	KindEventInteger  DetailKind = "EventInteger"
	KindStreak        DetailKind = "Streak"
	KindCareerSpan    DetailKind = "CareerSpan"

	KindSeasonPercentage     DetailKind = "SeasonPercentage"
	KindTournamentCareerSpan DetailKind = "TournamentCareerSpan"
)

var detailKinds = []DetailKind{
	KindInteger, KindPercentage, KindSeasonInteger, KindEventInteger, KindStreak, KindCareerSpan,
	KindSeasonPercentage, KindTournamentCareerSpan,
}

func (k DetailKind) order() int {
	for i, kind := range detailKinds {
		if kind == k {
			return i
		}
	}
	return len(detailKinds)
}

// Detail is the typed value of one record row. The set of implementations is closed.
type Detail interface {
	Kind() DetailKind
	String() string
	primary() float64
	tieBreak(other Detail) int
}

// RecordEvent identifies the tournament edition a detail was achieved at
type RecordEvent struct {
	TournamentEventID int       `json:"tournament_event_id"`
	Name              string    `json:"name"`
	Level             string    `json:"level"`
	Season            int       `json:"season"`
	Date              time.Time `json:"date"`
}

// IntegerDetail is a plain count
type IntegerDetail struct {
	Value int `json:"value"`
}

func (d IntegerDetail) Kind() DetailKind    { return KindInteger }
func (d IntegerDetail) String() string      { return strconv.Itoa(d.Value) }
func (d IntegerDetail) primary() float64    { return float64(d.Value) }
func (d IntegerDetail) tieBreak(Detail) int { return 0 }

// PercentageDetail is a ratio in [0, 1] together with the sample it was computed over
type PercentageDetail struct {
	Value  float64 `json:"value"`
	Sample int     `json:"sample"`
}

var hundred = decimal.NewFromInt(100)

func (d PercentageDetail) Kind() DetailKind { return KindPercentage }

// String renders e.g. "73.4% (38)"
func (d PercentageDetail) String() string {
	pct := decimal.NewFromFloat(d.Value).Mul(hundred).StringFixed(1)
	return fmt.Sprintf("%s%% (%d)", pct, d.Sample)
}

func (d PercentageDetail) primary() float64 { return d.Value }

// larger sample first
func (d PercentageDetail) tieBreak(other Detail) int {
	o, _ := other.(PercentageDetail)
	return cmp.Compare(o.Sample, d.Sample)
}

// SeasonPercentageDetail is a percentage achieved within one season
type SeasonPercentageDetail struct {
	PercentageDetail
	Season int `json:"season"`
}

func (d SeasonPercentageDetail) Kind() DetailKind { return KindSeasonPercentage }

// larger sample first, then earlier season
func (d SeasonPercentageDetail) tieBreak(other Detail) int {
	o, _ := other.(SeasonPercentageDetail)
	if c := cmp.Compare(o.Sample, d.Sample); c != 0 {
		return c
	}
	return cmp.Compare(d.Season, o.Season)
}

// SeasonIntegerDetail is a count achieved within one season; it renders as the season
type SeasonIntegerDetail struct {
	Value  int `json:"value"`
	Season int `json:"season"`
}

func (d SeasonIntegerDetail) Kind() DetailKind { return KindSeasonInteger }
func (d SeasonIntegerDetail) String() string   { return strconv.Itoa(d.Season) }
func (d SeasonIntegerDetail) primary() float64 { return float64(d.Value) }

// earlier season first
func (d SeasonIntegerDetail) tieBreak(other Detail) int {
	o, _ := other.(SeasonIntegerDetail)
	return cmp.Compare(d.Season, o.Season)
}

// EventIntegerDetail is a count tied to the edition it was completed at
type EventIntegerDetail struct {
	Value int         `json:"value"`
	Event RecordEvent `json:"event"`
}

func (d EventIntegerDetail) Kind() DetailKind { return KindEventInteger }
func (d EventIntegerDetail) String() string   { return strconv.Itoa(d.Value) }
func (d EventIntegerDetail) primary() float64 { return float64(d.Value) }

// earlier date first
func (d EventIntegerDetail) tieBreak(other Detail) int {
	o, _ := other.(EventIntegerDetail)
	return d.Event.Date.Compare(o.Event.Date)
}

// StreakDetail is a run of consecutive successes between two editions
type StreakDetail struct {
	Value int         `json:"value"`
	Start RecordEvent `json:"start"`
	End   RecordEvent `json:"end"`
}

func (d StreakDetail) Kind() DetailKind { return KindStreak }
func (d StreakDetail) String() string   { return strconv.Itoa(d.Value) }
func (d StreakDetail) primary() float64 { return float64(d.Value) }

// earlier start first
func (d StreakDetail) tieBreak(other Detail) int {
	o, _ := other.(StreakDetail)
	return d.Start.Date.Compare(o.Start.Date)
}

// CareerSpanDetail spans the first and the last edition of a career segment
type CareerSpanDetail struct {
	Start RecordEvent `json:"start"`
	End   RecordEvent `json:"end"`
}

func (d CareerSpanDetail) Kind() DetailKind { return KindCareerSpan }

// String renders the seasons spanned, e.g. "1974-1986"
func (d CareerSpanDetail) String() string {
	return fmt.Sprintf("%d-%d", d.Start.Season, d.End.Season)
}

// Span returns the time between the first and the last edition
func (d CareerSpanDetail) Span() time.Duration {
	return d.End.Date.Sub(d.Start.Date)
}

func (d CareerSpanDetail) primary() float64 { return float64(d.Span()) }

// earlier start first
func (d CareerSpanDetail) tieBreak(other Detail) int {
	o, _ := other.(CareerSpanDetail)
	return d.Start.Date.Compare(o.Start.Date)
}

// TournamentCareerSpanDetail spans the first and the last edition of one tournament
type TournamentCareerSpanDetail struct {
	CareerSpanDetail
	TournamentID int `json:"tournament_id"`
}

func (d TournamentCareerSpanDetail) Kind() DetailKind { return KindTournamentCareerSpan }

// earlier start first
func (d TournamentCareerSpanDetail) tieBreak(other Detail) int {
	o, _ := other.(TournamentCareerSpanDetail)
	return d.Start.Date.Compare(o.Start.Date)
}

// Compare orders details best-first: the greater value ranks first and ties are
// broken per kind. Details of different kinds order by kind.
func Compare(a, b Detail) int {
	return compareDetails(a, b, false)
}

func compareDetails(a, b Detail, ascending bool) int {
	if a.Kind() != b.Kind() {
		return cmp.Compare(a.Kind().order(), b.Kind().order())
	}
	c := cmp.Compare(b.primary(), a.primary())
	if ascending {
		c = -c
	}
	if c != 0 {
		return c
	}
	return a.tieBreak(b)
}
