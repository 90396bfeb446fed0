package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nonlining/tennis-crystal-ball/internal/cache"
	"github.com/nonlining/tennis-crystal-ball/internal/database"
	"github.com/nonlining/tennis-crystal-ball/internal/logger"
	"github.com/nonlining/tennis-crystal-ball/internal/models"
	"github.com/nonlining/tennis-crystal-ball/internal/records"
)

func newRecordsService(executor database.Executor) *RecordsService {
	return NewRecordsService(executor, cache.New(time.Hour, time.Hour, nil, logger.Discard()), records.NewRegistry(), testConfig, logger.Discard())
}

func pctRow(rank, playerID int, name string, pct float64, sample int) database.Row {
	return database.Row{"rank": rank, "player_id": playerID, "name": name, "country_id": "USA", "active": false, "pct": pct, "sample": sample}
}

func TestRecordTable(t *testing.T) {
	executor := database.NewStaticExecutor().On("record:MatchWinningPct",
		pctRow(1, 5992, "Novak Djokovic", 0.834, 1350),
		pctRow(2, 4742, "Rafael Nadal", 0.829, 1300),
		pctRow(3, 3819, "Roger Federer", 0.82, 1526),
		pctRow(3, 1, "Bjorn Borg", 0.82, 700),
		pctRow(5, 2, "Jimmy Connors", 0.818, 1535),
	)
	s := newRecordsService(executor)

	tbl, err := s.RecordTable(context.Background(), "MatchWinningPct", false, nil, 2, 2)
	require.NoError(t, err)

	assert.Equal(t, 5, tbl.Total())
	require.Len(t, tbl.Rows(), 2)
	assert.Equal(t, "Roger Federer", tbl.Rows()[0].Name)
	assert.Equal(t, "82.0% (1526)", tbl.Rows()[0].Value())
	assert.Equal(t, "Bjorn Borg", tbl.Rows()[1].Name)
	assert.Equal(t, "/playerProfile?playerId=3819", tbl.Rows()[0].Link())

	query := executor.Executed()[0]
	assert.Equal(t, 2, query.Offset)
	assert.True(t, query.Criteria.IsEmpty())
}

func TestRecordTableActiveOnly(t *testing.T) {
	executor := database.NewStaticExecutor().On("record:MatchesPlayed", database.Row{"rank": 1, "player_id": 5992, "name": "Novak Djokovic", "active": true, "value": 1350})
	s := newRecordsService(executor)

	tbl, err := s.RecordTable(context.Background(), "MatchesPlayed", true, nil, 20, 1)
	require.NoError(t, err)
	require.Len(t, tbl.Rows(), 1)
	assert.Equal(t, "1350", tbl.Rows()[0].Value())

	query := executor.Executed()[0]
	assert.Equal(t, []any{true}, query.Criteria.Values())
	assert.Equal(t, []string{"p.active = ?"}, query.Criteria.Fragments())
}

func TestRecordTableCachedWithoutLink(t *testing.T) {
	executor := database.NewStaticExecutor().On("record:MatchesWon", database.Row{"rank": 1, "player_id": 7, "name": "Jimmy Connors", "value": 1274})
	s := newRecordsService(executor)

	custom := func(playerID int, detail records.Detail) string {
		return "/record?player=" + detail.String()
	}

	first, err := s.RecordTable(context.Background(), "MatchesWon", false, nil, 20, 1)
	require.NoError(t, err)
	second, err := s.RecordTable(context.Background(), "MatchesWon", false, custom, 20, 1)
	require.NoError(t, err)

	assert.Equal(t, 1, executor.Count("record:MatchesWon"))
	assert.Equal(t, "/playerProfile?playerId=7", first.Rows()[0].Link())
	assert.Equal(t, "/record?player=1274", second.Rows()[0].Link())
	assert.Equal(t, first.Total(), second.Total())
}

func TestRecordTableUnknownRecord(t *testing.T) {
	executor := database.NewStaticExecutor()
	s := newRecordsService(executor)

	_, err := s.RecordTable(context.Background(), "MostBagels", false, nil, 20, 1)

	assert.ErrorIs(t, err, models.ErrNotFound)
	assert.Empty(t, executor.Executed())
}

func TestRecordCatalogue(t *testing.T) {
	s := newRecordsService(database.NewStaticExecutor())

	assert.NotEmpty(t, s.Categories())
	assert.NotEmpty(t, s.InfamousCategories())
	for _, c := range s.InfamousCategories() {
		assert.True(t, c.Infamous, c.ID)
	}

	record, err := s.Record("CareerSpan")
	require.NoError(t, err)
	assert.Equal(t, records.KindCareerSpan, record.Kind)
}
