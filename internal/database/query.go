package database

import (
	"strconv"
	"strings"

	"github.com/nonlining/tennis-crystal-ball/internal/criteria"
)

// Substitution points of a query template
const (
	CriteriaToken = "{criteria}"
	OrderByToken  = "{orderBy}"
	OffsetToken   = "{offset}"
	JoinToken     = "{join}"
)

// Query is a parameterized query template together with its arguments.
// Leading Args are referenced in the template as $1..$n; criteria values and the
// offset are numbered after them.
type Query struct {
	Name     string
	Template string
	Args     []any
	Criteria criteria.QueryCriteria
	Join     string
	OrderBy  string
	Offset   int
}

// Render substitutes the template tokens and returns the SQL text with its positional arguments.
// Each criteria fragment is appended as " AND <fragment>" with its marker renumbered.
func (q Query) Render() (string, []any) {
	args := make([]any, 0, len(q.Args)+q.Criteria.Len()+1)
	args = append(args, q.Args...)

	var where strings.Builder
	for _, cond := range q.Criteria.Conditions() {
		args = append(args, cond.Value)
		where.WriteString(" AND ")
		where.WriteString(strings.Replace(cond.Fragment, criteria.Placeholder, "$"+strconv.Itoa(len(args)), 1))
	}

	offset := ""
	if strings.Contains(q.Template, OffsetToken) {
		args = append(args, q.Offset)
		offset = "$" + strconv.Itoa(len(args))
	}

	sql := strings.NewReplacer(
		CriteriaToken, where.String(),
		OrderByToken, q.OrderBy,
		OffsetToken, offset,
		JoinToken, q.Join,
	).Replace(q.Template)
	return sql, args
}
