package aggregate

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// FormatSeasons compresses seasons into ascending ranges, e.g. "2001-2003, 2005, 2008".
// Consecutive seasons form a "start-end" token, isolated ones a bare number.
func FormatSeasons(seasons []int) string {
	if len(seasons) == 0 {
		return ""
	}
	sorted := slices.Clone(seasons)
	slices.Sort(sorted)
	sorted = slices.Compact(sorted)

	var sb strings.Builder
	start := sorted[0]
	for i := 1; i <= len(sorted); i++ {
		if i < len(sorted) && sorted[i] == sorted[i-1]+1 {
			continue
		}
		appendSeasonRange(&sb, start, sorted[i-1])
		if i < len(sorted) {
			start = sorted[i]
		}
	}
	return sb.String()
}

func appendSeasonRange(sb *strings.Builder, start, end int) {
	if sb.Len() > 0 {
		sb.WriteString(", ")
	}
	sb.WriteString(strconv.Itoa(start))
	if end != start {
		sb.WriteByte('-')
		sb.WriteString(strconv.Itoa(end))
	}
}

// ParseSeasons expands a string produced by FormatSeasons back into ascending seasons
func ParseSeasons(formatted string) ([]int, error) {
	var seasons []int
	if strings.TrimSpace(formatted) == "" {
		return seasons, nil
	}
	for _, token := range strings.Split(formatted, ",") {
		token = strings.TrimSpace(token)
		from, to, isRange := strings.Cut(token, "-")
		start, err := strconv.Atoi(from)
		if err != nil {
			return nil, fmt.Errorf("invalid season range %q: %w", token, err)
		}
		end := start
		if isRange {
			if end, err = strconv.Atoi(to); err != nil {
				return nil, fmt.Errorf("invalid season range %q: %w", token, err)
			}
			if end < start {
				return nil, fmt.Errorf("invalid season range %q: end before start", token)
			}
		}
		for season := start; season <= end; season++ {
			seasons = append(seasons, season)
		}
	}
	return seasons, nil
}
