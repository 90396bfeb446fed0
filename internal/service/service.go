// Package service provides the engine's cacheable tournament and record operations.
package service

import (
	"context"

	"github.com/nonlining/tennis-crystal-ball/internal/database"
	"github.com/nonlining/tennis-crystal-ball/internal/table"
)

// Cache names and global keys. Refresh jobs refer to them by these names.
const (
	TournamentsKey          = "Tournaments"
	AllTournamentSeasonsKey = "AllTournamentSeasons"

	SeasonTournamentsCache      = "SeasonTournaments"
	TournamentsTableCache       = "Tournaments.Table"
	TournamentSeasonsCache      = "Tournament.Seasons"
	TournamentEventsTableCache  = "TournamentEvents.Table"
	TournamentEventCountCache   = "Tournament.EventCount"
	PlayerTournamentsCache      = "PlayerTournaments"
	PlayerTournamentEventsCache = "PlayerTournamentEvents"
	RecordsTableCache           = "Records.Table"
)

// Paging bounds the page sizes callers may request
type Paging interface {
	ClampPageSize(pageSize int) int
}

// collect maps every row of the query
func collect[T any](ctx context.Context, executor database.Executor, query database.Query, mapRow func(database.Row) (T, error)) ([]T, error) {
	items := make([]T, 0)
	err := executor.Execute(ctx, query, func(row database.Row) error {
		item, err := mapRow(row)
		if err != nil {
			return err
		}
		items = append(items, item)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return items, nil
}

// first maps the first row of the query; found is false for an empty result
func first[T any](ctx context.Context, executor database.Executor, query database.Query, mapRow func(database.Row) (T, error)) (item T, found bool, err error) {
	for row, rowErr := range executor.Rows(ctx, query) {
		if rowErr != nil {
			return item, false, rowErr
		}
		item, err = mapRow(row)
		return item, err == nil, err
	}
	return item, false, nil
}

// streamTable pages a streamed query with its offset pushed down. Rows outside the
// page are counted but not mapped, so the total is exact without a count query.
func streamTable[T any](ctx context.Context, executor database.Executor, query database.Query, page, pageSize int, mapRow func(database.Row) (T, error)) (*table.PagedTable[T], error) {
	offset := table.Offset(page, pageSize)
	query.Offset = offset
	pager := table.NewStreamPager[T](page, pageSize, offset)

	err := executor.Execute(ctx, query, func(row database.Row) error {
		if !pager.Accept() {
			return nil
		}
		item, err := mapRow(row)
		if err != nil {
			return err
		}
		pager.Add(item)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return pager.Table(), nil
}

// infallible adapts a mapping function that cannot fail
func infallible[T any](mapRow func(database.Row) T) func(database.Row) (T, error) {
	return func(row database.Row) (T, error) {
		return mapRow(row), nil
	}
}
