package models

// CategoryOrder is a canonical ordering of categorical codes, e.g. tournament levels from
// the most to the least prestigious. It breaks ties when ranking codes by frequency.
type CategoryOrder []string

// Index returns the canonical position of the code; unknown codes sort after all known ones
func (o CategoryOrder) Index(code string) int {
	for i, c := range o {
		if c == code {
			return i
		}
	}
	return len(o)
}

// Contains checks if the code is part of the ordering
func (o CategoryOrder) Contains(code string) bool {
	return o.Index(code) < len(o)
}

// Compare compares two codes by canonical position, falling back to the code itself for unknown codes
func (o CategoryOrder) Compare(a, b string) int {
	ia, ib := o.Index(a), o.Index(b)
	switch {
	case ia < ib:
		return -1
	case ia > ib:
		return 1
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// Ordering holds the canonical orderings of tournament levels and surfaces
type Ordering struct {
	Levels   CategoryOrder
	Surfaces CategoryOrder
}
