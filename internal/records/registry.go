package records

import (
	"fmt"
	"slices"

	"github.com/nonlining/tennis-crystal-ball/internal/models"
)

// Registry is the catalogue of record categories. It is fully built by NewRegistry
// and read-only afterwards, so it is safe for concurrent use.
type Registry struct {
	categories         []*Category
	infamousCategories []*Category
	records            map[string]*Record
	order              []*Record
}

// NewRegistry builds the registry. Registration order is presentation order.
func NewRegistry() *Registry {
	r := &Registry{records: make(map[string]*Record)}

	// Famous
	r.register(mostMatchesCategory(matchesPlayed), false)
	r.register(mostMatchesCategory(matchesWon), false)
	r.register(greatestMatchPctCategory(pctWinning), false)
	r.register(mostTitlesCategory(), false)
	r.register(mostFinalsCategory(), false)
	r.register(mostSemiFinalsCategory(), false)
	r.register(mostQuarterFinalsCategory(), false)
	r.register(mostEntriesCategory(), false)
	r.register(greatestTitlePctCategory(pctWinning), false)
	r.register(itemsWinningTitleCategory(true), false)
	r.register(winningStreaksCategory(), false)
	r.register(resultStreaksCategory("TitleStreaks", "Title Streaks", "Title", "r.result = 'W'"), false)
	r.register(resultStreaksCategory("FinalStreaks", "Final Streaks", "Final", "r.result >= 'F'::tournament_event_result"), false)
	r.register(resultStreaksCategory("SemiFinalStreaks", "Semi-Final Streaks", "SemiFinal", "r.result >= 'SF'::tournament_event_result"), false)
	r.register(resultStreaksCategory("QuarterFinalStreaks", "Quarter-Final Streaks", "QuarterFinal", "r.result >= 'QF'::tournament_event_result"), false)
	r.register(careerSpanCategory(), false)

	// Infamous
	r.register(bestPlayerThatNeverCategory(), true)
	r.register(mostMatchesCategory(matchesLost), true)
	r.register(greatestMatchPctCategory(pctLosing), true)
	r.register(greatestTitlePctCategory(pctLosing), true)
	r.register(itemsWinningTitleCategory(false), true)

	return r
}

// register panics on a duplicate record id
func (r *Registry) register(category *Category, infamous bool) {
	for _, c := range r.allCategories() {
		if c.ID == category.ID {
			panic(fmt.Sprintf("records: duplicate category id %q", category.ID))
		}
	}
	for _, record := range category.Records {
		if _, exists := r.records[record.ID]; exists {
			panic(fmt.Sprintf("records: duplicate record id %q in category %s", record.ID, category.ID))
		}
	}

	category.Infamous = infamous
	for _, record := range category.Records {
		record.infamous = infamous
		r.records[record.ID] = record
		r.order = append(r.order, record)
	}
	if infamous {
		r.infamousCategories = append(r.infamousCategories, category)
	} else {
		r.categories = append(r.categories, category)
	}
}

// Record looks up a record by id
func (r *Registry) Record(id string) (*Record, error) {
	record, ok := r.records[id]
	if !ok {
		return nil, models.NewNotFound("Record", id)
	}
	return record, nil
}

// Categories returns the famous categories in registration order
func (r *Registry) Categories() []*Category {
	return slices.Clone(r.categories)
}

// InfamousCategories returns the infamous categories in registration order
func (r *Registry) InfamousCategories() []*Category {
	return slices.Clone(r.infamousCategories)
}

// Records returns all records in registration order
func (r *Registry) Records() []*Record {
	return slices.Clone(r.order)
}

func (r *Registry) allCategories() []*Category {
	return slices.Concat(r.categories, r.infamousCategories)
}
