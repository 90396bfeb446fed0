package criteria

import (
	"sort"

	"github.com/nonlining/tennis-crystal-ball/internal/models"
)

// StatsCategories maps statistic categories to the expressions over the joined per-event
// statistics (alias ts) that thresholds are applied to
var StatsCategories = map[string]string{
	"aces":                    "ts.p_ace",
	"acePct":                  "ts.p_ace::real / nullif(ts.p_sv_pt, 0)",
	"doubleFaults":            "ts.p_df",
	"firstServePct":           "ts.p_1st_in::real / nullif(ts.p_sv_pt, 0)",
	"firstServeWonPct":        "ts.p_1st_won::real / nullif(ts.p_1st_in, 0)",
	"secondServeWonPct":       "ts.p_2nd_won::real / nullif(ts.p_sv_pt - ts.p_1st_in, 0)",
	"breakPointsSavedPct":     "ts.p_bp_sv::real / nullif(ts.p_bp_fc, 0)",
	"serviceGamesWonPct":      "(ts.p_sv_gms - (ts.p_bp_fc - ts.p_bp_sv))::real / nullif(ts.p_sv_gms, 0)",
	"returnPointsWonPct":      "(ts.o_sv_pt - ts.o_1st_won - ts.o_2nd_won)::real / nullif(ts.o_sv_pt, 0)",
	"breakPointsConvertedPct": "(ts.o_bp_fc - ts.o_bp_sv)::real / nullif(ts.o_bp_fc, 0)",
	"totalPointsWonPct":       "(ts.p_1st_won + ts.p_2nd_won + ts.o_sv_pt - ts.o_1st_won - ts.o_2nd_won)::real / nullif(ts.p_sv_pt + ts.o_sv_pt, 0)",
	"matches":                 "ts.p_matches",
}

// StatsCategoryNames returns the known statistic categories sorted by name
func StatsCategoryNames() []string {
	names := make([]string, 0, len(StatsCategories))
	for name := range StatsCategories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// StatsFilter bounds one statistic category
type StatsFilter struct {
	Category string   `json:"category,omitempty"`
	From     *float64 `json:"from,omitempty"`
	To       *float64 `json:"to,omitempty"`
}

// IsEmpty reports whether no threshold applies. Bounds on an unknown category contribute no criteria.
func (f StatsFilter) IsEmpty() bool {
	_, ok := StatsCategories[f.Category]
	return !ok || !f.hasBounds()
}

func (f StatsFilter) hasBounds() bool {
	return f.From != nil || f.To != nil
}

// Validate rejects thresholds without a known category and inverted ranges
func (f StatsFilter) Validate() error {
	if !f.hasBounds() {
		return nil
	}
	if _, ok := StatsCategories[f.Category]; !ok {
		return models.NewInvalidFilter("unknown statistics category %q", f.Category)
	}
	if f.From != nil && f.To != nil && *f.From > *f.To {
		return models.NewInvalidFilter("statistics from %v is after statistics to %v", *f.From, *f.To)
	}
	return nil
}

// AppendCriteria appends the lower then the upper threshold
func (f StatsFilter) AppendCriteria(b *Builder) {
	expr, ok := StatsCategories[f.Category]
	if !ok {
		return
	}
	b.AddFloat(expr+" >= ?", f.From)
	b.AddFloat(expr+" <= ?", f.To)
}
