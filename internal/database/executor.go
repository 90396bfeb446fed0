package database

import (
	"context"
	"fmt"
	"iter"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/sirupsen/logrus"

	"github.com/nonlining/tennis-crystal-ball/internal/logger"
	"github.com/nonlining/tennis-crystal-ball/internal/metrics"
)

// Executor runs queries and streams their rows in result order
type Executor interface {
	// Execute invokes handle once per row. A handler error stops the stream and is returned unchanged.
	Execute(ctx context.Context, query Query, handle func(Row) error) error
	// Rows returns a lazy, non-restartable sequence of rows. A failure is yielded as the last element.
	Rows(ctx context.Context, query Query) iter.Seq2[Row, error]
}

// Each drains a row sequence into handle. A handler error is returned unchanged.
func Each(rows iter.Seq2[Row, error], handle func(Row) error) error {
	for row, err := range rows {
		if err != nil {
			return err
		}
		if err := handle(row); err != nil {
			return err
		}
	}
	return nil
}

// Querier is the subset of pgxpool.Pool used by the executor
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// PgxExecutor executes rendered queries through pgx
type PgxExecutor struct {
	querier Querier
	logger  *logger.QueryLogger
	timeout time.Duration
}

// NewPgxExecutor creates an executor over a pool or connection.
// A positive timeout bounds each query including row streaming.
func NewPgxExecutor(querier Querier, log *logrus.Logger, timeout time.Duration) *PgxExecutor {
	if log == nil {
		log = logger.Discard()
	}
	return &PgxExecutor{
		querier: querier,
		logger:  logger.NewQueryLogger(log),
		timeout: timeout,
	}
}

// Execute invokes handle once per row
func (e *PgxExecutor) Execute(ctx context.Context, query Query, handle func(Row) error) error {
	return Each(e.Rows(ctx, query), handle)
}

// Rows streams the rows of the query
func (e *PgxExecutor) Rows(ctx context.Context, query Query) iter.Seq2[Row, error] {
	return func(yield func(Row, error) bool) {
		if e.timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, e.timeout)
			defer cancel()
		}

		sql, args := query.Render()
		queryID := logger.NewQueryID()
		start := time.Now()
		e.logger.LogQueryStarted(queryID, query.Name, len(args))

		rows, err := e.querier.Query(ctx, sql, args...)
		if err != nil {
			e.fail(queryID, query.Name, start, 0, err)
			yield(nil, fmt.Errorf("failed to execute query %s: %w", query.Name, err))
			return
		}
		defer rows.Close()

		fields := rows.FieldDescriptions()
		count := 0
		for rows.Next() {
			values, err := rows.Values()
			if err != nil {
				e.fail(queryID, query.Name, start, count, err)
				yield(nil, fmt.Errorf("failed to read row of query %s: %w", query.Name, err))
				return
			}
			row := make(Row, len(fields))
			for i, field := range fields {
				row[field.Name] = values[i]
			}
			count++
			if !yield(row, nil) {
				// A consumer stopping after the last row has read the whole result
				if !rows.Next() && rows.Err() == nil {
					break
				}
				elapsed := time.Since(start)
				e.logger.LogQueryAborted(queryID, query.Name, count, float64(elapsed.Milliseconds()))
				metrics.RecordQuery(query.Name, "aborted", elapsed.Seconds(), count)
				return
			}
		}
		if err := rows.Err(); err != nil {
			e.fail(queryID, query.Name, start, count, err)
			yield(nil, fmt.Errorf("failed to stream query %s: %w", query.Name, err))
			return
		}

		elapsed := time.Since(start)
		e.logger.LogQueryCompleted(queryID, query.Name, count, float64(elapsed.Milliseconds()))
		metrics.RecordQuery(query.Name, "success", elapsed.Seconds(), count)
	}
}

func (e *PgxExecutor) fail(queryID, name string, start time.Time, rows int, err error) {
	e.logger.LogQueryFailed(queryID, name, err)
	metrics.RecordQuery(name, "failure", time.Since(start).Seconds(), rows)
}
