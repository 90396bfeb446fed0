// Package criteria builds backend-agnostic query criteria from optional filter values.
//
// A criterion is a predicate fragment holding exactly one positional marker (?) and the
// value bound to it. Fragments are rendered into a concrete query language by the query
// executor adapter, never here.
package criteria

import (
	"strings"
)

// Placeholder is the positional marker used in predicate fragments
const Placeholder = "?"

// Condition is a single predicate fragment with its bound value
type Condition struct {
	Fragment string
	Value    any
}

// QueryCriteria is an ordered, immutable list of conditions
type QueryCriteria struct {
	conditions []Condition
}

// Conditions returns a copy of the conditions in the order they were appended
func (c QueryCriteria) Conditions() []Condition {
	out := make([]Condition, len(c.conditions))
	copy(out, c.conditions)
	return out
}

// Fragments returns the predicate fragments in order
func (c QueryCriteria) Fragments() []string {
	out := make([]string, len(c.conditions))
	for i, cond := range c.conditions {
		out[i] = cond.Fragment
	}
	return out
}

// Values returns the bound values in the same order as the fragments
func (c QueryCriteria) Values() []any {
	out := make([]any, len(c.conditions))
	for i, cond := range c.conditions {
		out[i] = cond.Value
	}
	return out
}

// Len returns the number of conditions
func (c QueryCriteria) Len() int {
	return len(c.conditions)
}

// IsEmpty reports whether there are no conditions
func (c QueryCriteria) IsEmpty() bool {
	return len(c.conditions) == 0
}

// String returns a debug representation of the fragments joined with AND
func (c QueryCriteria) String() string {
	return strings.Join(c.Fragments(), " AND ")
}

// Builder accumulates conditions. Blank or absent values are skipped.
type Builder struct {
	conditions []Condition
}

// NewBuilder creates an empty criteria builder
func NewBuilder() *Builder {
	return &Builder{}
}

// Add appends a fragment with its value unconditionally
func (b *Builder) Add(fragment string, value any) *Builder {
	if strings.Count(fragment, Placeholder) != 1 {
		panic("criteria: fragment must contain exactly one placeholder: " + fragment)
	}
	b.conditions = append(b.conditions, Condition{Fragment: fragment, Value: value})
	return b
}

// AddString appends the fragment with the trimmed value if the value is not blank
func (b *Builder) AddString(fragment, value string) *Builder {
	value = strings.TrimSpace(value)
	if value == "" {
		return b
	}
	return b.Add(fragment, value)
}

// AddInt appends the fragment if the value is present
func (b *Builder) AddInt(fragment string, value *int) *Builder {
	if value == nil {
		return b
	}
	return b.Add(fragment, *value)
}

// AddFloat appends the fragment if the value is present
func (b *Builder) AddFloat(fragment string, value *float64) *Builder {
	if value == nil {
		return b
	}
	return b.Add(fragment, *value)
}

// AddBool appends the fragment if the value is present
func (b *Builder) AddBool(fragment string, value *bool) *Builder {
	if value == nil {
		return b
	}
	return b.Add(fragment, *value)
}

// Build returns the immutable criteria
func (b *Builder) Build() QueryCriteria {
	conditions := make([]Condition, len(b.conditions))
	copy(conditions, b.conditions)
	return QueryCriteria{conditions: conditions}
}
