package criteria

import (
	"strings"
)

// OrderBy maps a caller sort key such as "season desc" to a whitelisted ordering clause.
// Unknown keys fall back to defaultOrder. Tie-break columns are appended unless already present.
func OrderBy(sortKey string, columns map[string]string, defaultOrder string, tieBreak ...string) string {
	field, desc := parseSortKey(sortKey)
	column, ok := columns[field]
	if !ok {
		return defaultOrder
	}

	order := []string{column + direction(desc)}
	seen := map[string]bool{column: true}
	for _, tb := range tieBreak {
		tbColumn, _ := parseSortKey(tb)
		if seen[tbColumn] {
			continue
		}
		seen[tbColumn] = true
		order = append(order, tb)
	}
	return strings.Join(order, ", ")
}

func parseSortKey(sortKey string) (field string, desc bool) {
	parts := strings.Fields(sortKey)
	if len(parts) == 0 {
		return "", false
	}
	if len(parts) > 1 {
		desc = strings.EqualFold(parts[1], "desc")
	}
	return parts[0], desc
}

func direction(desc bool) string {
	if desc {
		return " DESC"
	}
	return ""
}
