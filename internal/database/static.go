package database

import (
	"context"
	"fmt"
	"iter"
	"strings"
	"sync"
)

// StaticExecutor serves canned rows by query name. It applies a pushed-down
// offset the way the database would and records every executed query.
type StaticExecutor struct {
	mu       sync.Mutex
	results  map[string]staticResult
	executed []Query
}

type staticResult struct {
	rows []Row
	err  error
}

// NewStaticExecutor creates an executor without any registered result
func NewStaticExecutor() *StaticExecutor {
	return &StaticExecutor{results: make(map[string]staticResult)}
}

// On registers the rows returned for the named query
func (s *StaticExecutor) On(name string, rows ...Row) *StaticExecutor {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results[name] = staticResult{rows: rows}
	return s
}

// OnError registers a failure for the named query
func (s *StaticExecutor) OnError(name string, err error) *StaticExecutor {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results[name] = staticResult{err: err}
	return s
}

// Executed returns the executed queries in execution order
func (s *StaticExecutor) Executed() []Query {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Query, len(s.executed))
	copy(out, s.executed)
	return out
}

// Count returns how many times the named query was executed
func (s *StaticExecutor) Count(name string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, q := range s.executed {
		if q.Name == name {
			n++
		}
	}
	return n
}

// Execute invokes handle once per row
func (s *StaticExecutor) Execute(ctx context.Context, query Query, handle func(Row) error) error {
	return Each(s.Rows(ctx, query), handle)
}

// Rows streams the registered rows of the query
func (s *StaticExecutor) Rows(ctx context.Context, query Query) iter.Seq2[Row, error] {
	return func(yield func(Row, error) bool) {
		s.mu.Lock()
		s.executed = append(s.executed, query)
		result, ok := s.results[query.Name]
		s.mu.Unlock()

		if !ok {
			yield(nil, fmt.Errorf("no result registered for query %s", query.Name))
			return
		}
		if result.err != nil {
			yield(nil, result.err)
			return
		}

		rows := result.rows
		if strings.Contains(query.Template, OffsetToken) {
			rows = rows[min(max(query.Offset, 0), len(rows)):]
		}
		for _, row := range rows {
			if err := ctx.Err(); err != nil {
				yield(nil, err)
				return
			}
			if !yield(row, nil) {
				return
			}
		}
	}
}
