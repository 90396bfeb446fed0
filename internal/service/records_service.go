package service

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/nonlining/tennis-crystal-ball/internal/cache"
	"github.com/nonlining/tennis-crystal-ball/internal/criteria"
	"github.com/nonlining/tennis-crystal-ball/internal/database"
	"github.com/nonlining/tennis-crystal-ball/internal/records"
	"github.com/nonlining/tennis-crystal-ball/internal/table"
)

// RecordsService serves the record catalogue and record tables
type RecordsService struct {
	executor database.Executor
	cache    *cache.Cache
	registry *records.Registry
	paging   Paging
	logger   *logrus.Entry
}

// NewRecordsService creates a new records service over a built registry
func NewRecordsService(executor database.Executor, c *cache.Cache, registry *records.Registry, paging Paging, logger *logrus.Logger) *RecordsService {
	return &RecordsService{
		executor: executor,
		cache:    c,
		registry: registry,
		paging:   paging,
		logger:   logger.WithField("component", "records"),
	}
}

// PlayerProfileLink links a record row to the player's profile
func PlayerProfileLink(playerID int, _ records.Detail) string {
	return fmt.Sprintf("/playerProfile?playerId=%d", playerID)
}

// Categories returns the famous record categories in registration order
func (s *RecordsService) Categories() []*records.Category {
	return s.registry.Categories()
}

// InfamousCategories returns the infamous record categories in registration order
func (s *RecordsService) InfamousCategories() []*records.Category {
	return s.registry.InfamousCategories()
}

// Record looks a record up by id
func (s *RecordsService) Record(recordID string) (*records.Record, error) {
	return s.registry.Record(recordID)
}

// RecordTable returns a page of a record's leaderboard. With activeOnly set, only
// active players are ranked. A nil link falls back to PlayerProfileLink.
func (s *RecordsService) RecordTable(ctx context.Context, recordID string, activeOnly bool, link records.LinkFunc, pageSize, page int) (*table.PagedTable[records.DetailRow], error) {
	record, err := s.registry.Record(recordID)
	if err != nil {
		return nil, err
	}
	if link == nil {
		link = PlayerProfileLink
	}
	pageSize = s.paging.ClampPageSize(pageSize)

	key := cache.Key(recordID, activeOnly, pageSize, page)
	cached, err := cache.GetOrCompute(s.cache, RecordsTableCache, key, func() (*table.PagedTable[records.DetailRow], error) {
		return s.recordTable(ctx, record, activeOnly, pageSize, page)
	})
	if err != nil {
		return nil, err
	}

	linked := table.New[records.DetailRow](cached.Current())
	for _, row := range cached.Rows() {
		row.LinkFunc = link
		linked.AddRow(row)
	}
	linked.SetTotal(cached.Total())
	return linked, nil
}

func (s *RecordsService) recordTable(ctx context.Context, record *records.Record, activeOnly bool, pageSize, page int) (*table.PagedTable[records.DetailRow], error) {
	b := criteria.NewBuilder()
	if activeOnly {
		b.Add("p.active = ?", true)
	}
	query := database.Query{Name: "record:" + record.ID, Template: record.Query, Criteria: b.Build()}

	rows, err := streamTable(ctx, s.executor, query, page, pageSize, func(row database.Row) (records.DetailRow, error) {
		return record.MapRow(row, nil)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load record %s: %w", record.ID, err)
	}
	record.SortRows(rows.Rows())

	s.logger.WithFields(logrus.Fields{
		"record": record.ID,
		"active": activeOnly,
		"rows":   rows.RowCount(),
		"total":  rows.Total(),
	}).Debug("Record table computed")
	return rows, nil
}
