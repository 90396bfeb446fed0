package criteria

import (
	"strings"

	"github.com/nonlining/tennis-crystal-ball/internal/models"
)

// Filter is implemented by every concrete filter
type Filter interface {
	Criteria() QueryCriteria
	IsEmpty() bool
	Validate(ordering models.Ordering) error
}

// Columns names the columns the common bounds are applied to
type Columns struct {
	Season  string
	Level   string
	Surface string
}

// PlainColumns are unqualified column names
var PlainColumns = Columns{Season: "season", Level: "level", Surface: "surface"}

// EventColumns are columns qualified with the tournament event alias
var EventColumns = Columns{Season: "e.season", Level: "e.level", Surface: "e.surface"}

// Bound returns a pointer to an optional bound value
func Bound[T any](v T) *T {
	return &v
}

// SeasonRange is an inclusive season range; either end may be absent
type SeasonRange struct {
	From *int `json:"from,omitempty"`
	To   *int `json:"to,omitempty"`
}

// Season creates a range covering a single season
func Season(season int) SeasonRange {
	return SeasonRange{From: Bound(season), To: Bound(season)}
}

// IsEmpty reports whether neither end is present
func (r SeasonRange) IsEmpty() bool {
	return r.From == nil && r.To == nil
}

// FilterSpec holds the bounds shared by all filters
type FilterSpec struct {
	Seasons SeasonRange `json:"seasons"`
	Level   string      `json:"level,omitempty"`
	Surface string      `json:"surface,omitempty"`
}

// IsEmpty reports whether no bound is present
func (f FilterSpec) IsEmpty() bool {
	return f.Seasons.IsEmpty() && isBlank(f.Level) && isBlank(f.Surface)
}

// HasLevel checks if a level bound is present
func (f FilterSpec) HasLevel() bool {
	return !isBlank(f.Level)
}

// HasSurface checks if a surface bound is present
func (f FilterSpec) HasSurface() bool {
	return !isBlank(f.Surface)
}

// Validate rejects inverted season ranges and codes missing from the canonical ordering
func (f FilterSpec) Validate(ordering models.Ordering) error {
	if f.Seasons.From != nil && f.Seasons.To != nil && *f.Seasons.From > *f.Seasons.To {
		return models.NewInvalidFilter("season from %d is after season to %d", *f.Seasons.From, *f.Seasons.To)
	}
	if f.HasLevel() && len(ordering.Levels) > 0 && !ordering.Levels.Contains(strings.TrimSpace(f.Level)) {
		return models.NewInvalidFilter("unknown level %q", f.Level)
	}
	if f.HasSurface() && len(ordering.Surfaces) > 0 && !ordering.Surfaces.Contains(strings.TrimSpace(f.Surface)) {
		return models.NewInvalidFilter("unknown surface %q", f.Surface)
	}
	return nil
}

// AppendCriteria appends season-from, season-to, level and surface, in that order
func (f FilterSpec) AppendCriteria(b *Builder, cols Columns) {
	b.AddInt(cols.Season+" >= ?", f.Seasons.From)
	b.AddInt(cols.Season+" <= ?", f.Seasons.To)
	b.AddString(cols.Level+" = ?::tournament_level", f.Level)
	b.AddString(cols.Surface+" = ?::surface", f.Surface)
}

// Criteria builds the criteria over the given columns
func (f FilterSpec) Criteria(cols Columns) QueryCriteria {
	b := NewBuilder()
	f.AppendCriteria(b, cols)
	return b.Build()
}

// RivalryFilter filters head-to-head queries over unqualified columns
type RivalryFilter struct {
	FilterSpec
}

// NewRivalryFilter creates a rivalry filter
func NewRivalryFilter(seasons SeasonRange, level, surface string) RivalryFilter {
	return RivalryFilter{FilterSpec{Seasons: seasons, Level: level, Surface: surface}}
}

// Criteria builds the rivalry criteria
func (f RivalryFilter) Criteria() QueryCriteria {
	return f.FilterSpec.Criteria(PlainColumns)
}

// TournamentEventFilter filters tournament events
type TournamentEventFilter struct {
	FilterSpec
	TournamentID *int   `json:"tournament_id,omitempty"`
	Indoor       *bool  `json:"indoor,omitempty"`
	SearchPhrase string `json:"search_phrase,omitempty"`
}

// IsEmpty reports whether no bound is present
func (f TournamentEventFilter) IsEmpty() bool {
	return f.FilterSpec.IsEmpty() && f.TournamentID == nil && f.Indoor == nil && isBlank(f.SearchPhrase)
}

// Criteria builds the common bounds followed by tournament, indoor and search phrase
func (f TournamentEventFilter) Criteria() QueryCriteria {
	b := NewBuilder()
	f.FilterSpec.AppendCriteria(b, EventColumns)
	b.AddInt("e.tournament_id = ?", f.TournamentID)
	b.AddBool("e.indoor = ?", f.Indoor)
	b.AddString("e.name ILIKE '%' || ? || '%'", f.SearchPhrase)
	return b.Build()
}

// TournamentEventResultFilter filters a player's tournament event results
type TournamentEventResultFilter struct {
	FilterSpec
	Result       string      `json:"result,omitempty"`
	Stats        StatsFilter `json:"stats"`
	SearchPhrase string      `json:"search_phrase,omitempty"`
}

// ForSeason creates a result filter for a single season
func ForSeason(season int) TournamentEventResultFilter {
	return TournamentEventResultFilter{FilterSpec: FilterSpec{Seasons: Season(season)}}
}

// IsEmpty reports whether no bound is present
func (f TournamentEventResultFilter) IsEmpty() bool {
	return f.FilterSpec.IsEmpty() && isBlank(f.Result) && f.Stats.IsEmpty() && isBlank(f.SearchPhrase)
}

// HasStatsFilter checks if statistic thresholds are present
func (f TournamentEventResultFilter) HasStatsFilter() bool {
	return !f.Stats.IsEmpty()
}

// Validate validates the common bounds, the result code and the statistic thresholds
func (f TournamentEventResultFilter) Validate(ordering models.Ordering) error {
	if err := f.FilterSpec.Validate(ordering); err != nil {
		return err
	}
	if !isBlank(f.Result) {
		if _, ok := models.ParseEventResult(strings.TrimSpace(f.Result)); !ok {
			return models.NewInvalidFilter("unknown result %q", f.Result)
		}
	}
	return f.Stats.Validate()
}

// Criteria builds the common bounds followed by result, statistic thresholds and search phrase
func (f TournamentEventResultFilter) Criteria() QueryCriteria {
	b := NewBuilder()
	f.FilterSpec.AppendCriteria(b, EventColumns)
	b.AddString("r.result >= ?::tournament_event_result", f.Result)
	f.Stats.AppendCriteria(b)
	b.AddString("e.name ILIKE '%' || ? || '%'", f.SearchPhrase)
	return b.Build()
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
