package aggregate

import (
	"cmp"
	"slices"

	"github.com/nonlining/tennis-crystal-ball/internal/models"
)

// Frequencies counts occurrences of categorical codes
type Frequencies map[string]int

// Add counts one occurrence; blank codes are ignored
func (f Frequencies) Add(code string) {
	if code == "" {
		return
	}
	f[code]++
}

// RankByFrequency returns the codes ordered by descending count, ties broken by the canonical order
func RankByFrequency(counts Frequencies, order models.CategoryOrder) []string {
	codes := make([]string, 0, len(counts))
	for code := range counts {
		codes = append(codes, code)
	}
	slices.SortFunc(codes, func(a, b string) int {
		if c := cmp.Compare(counts[b], counts[a]); c != 0 {
			return c
		}
		return order.Compare(a, b)
	})
	return codes
}
