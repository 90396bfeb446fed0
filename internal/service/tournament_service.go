package service

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"slices"

	"github.com/sirupsen/logrus"

	"github.com/nonlining/tennis-crystal-ball/internal/aggregate"
	"github.com/nonlining/tennis-crystal-ball/internal/cache"
	"github.com/nonlining/tennis-crystal-ball/internal/criteria"
	"github.com/nonlining/tennis-crystal-ball/internal/database"
	"github.com/nonlining/tennis-crystal-ball/internal/models"
	"github.com/nonlining/tennis-crystal-ball/internal/records"
	"github.com/nonlining/tennis-crystal-ball/internal/table"
)

// TournamentService serves tournaments, their editions and player tournament histories
type TournamentService struct {
	executor           database.Executor
	cache              *cache.Cache
	mapper             *aggregate.Mapper
	ordering           models.Ordering
	paging             Paging
	recordMaxPlayers   int
	highlightsMaxGroup int
	logger             *logrus.Entry
}

// TournamentServiceConfig holds the tunables of the tournament service
type TournamentServiceConfig struct {
	Ordering                   models.Ordering
	Paging                     Paging
	TournamentRecordMaxPlayers int
	SeasonHighlightsMaxResults int
}

// NewTournamentService creates a new tournament service
func NewTournamentService(executor database.Executor, c *cache.Cache, cfg TournamentServiceConfig, logger *logrus.Logger) *TournamentService {
	return &TournamentService{
		executor:           executor,
		cache:              c,
		mapper:             aggregate.NewMapper(cfg.Ordering),
		ordering:           cfg.Ordering,
		paging:             cfg.Paging,
		recordMaxPlayers:   cfg.TournamentRecordMaxPlayers,
		highlightsMaxGroup: cfg.SeasonHighlightsMaxResults,
		logger:             logger.WithField("component", "tournaments"),
	}
}

// Tournaments returns all tournaments that are not linked into another one, by name
func (s *TournamentService) Tournaments(ctx context.Context) ([]models.TournamentItem, error) {
	return cache.GetOrCompute(s.cache, cache.Global, TournamentsKey, func() ([]models.TournamentItem, error) {
		items, err := collect(ctx, s.executor, database.Query{Name: "tournaments", Template: tournamentItemsQuery}, infallible(s.mapper.MapTournamentItem))
		if err != nil {
			return nil, fmt.Errorf("failed to load tournaments: %w", err)
		}
		return items, nil
	})
}

// SeasonTournaments returns the tournaments held in a season, by name
func (s *TournamentService) SeasonTournaments(ctx context.Context, season int) ([]models.TournamentItem, error) {
	return cache.GetOrCompute(s.cache, SeasonTournamentsCache, cache.Key(season), func() ([]models.TournamentItem, error) {
		query := database.Query{Name: "season_tournaments", Template: seasonTournamentItemsQuery, Args: []any{season}}
		items, err := collect(ctx, s.executor, query, infallible(s.mapper.MapTournamentItem))
		if err != nil {
			return nil, fmt.Errorf("failed to load tournaments of season %d: %w", season, err)
		}
		return items, nil
	})
}

// TournamentsTable returns a page of tournaments rolled up over the editions matching the filter.
// With a non-empty filter, tournaments without a matching edition are left out.
func (s *TournamentService) TournamentsTable(ctx context.Context, filter criteria.TournamentEventFilter, sortKey string, pageSize, page int) (*table.PagedTable[*models.Tournament], error) {
	if err := filter.Validate(s.ordering); err != nil {
		return nil, err
	}
	pageSize = s.paging.ClampPageSize(pageSize)

	key := cache.Key(filter, sortKey, pageSize, page)
	return cache.GetOrCompute(s.cache, TournamentsTableCache, key, func() (*table.PagedTable[*models.Tournament], error) {
		query := database.Query{Name: "tournaments_table", Template: tournamentsQuery, Criteria: filter.Criteria()}
		tournaments, err := collect(ctx, s.executor, query, s.mapper.MapTournament)
		if err != nil {
			return nil, fmt.Errorf("failed to load tournaments table: %w", err)
		}

		if !filter.IsEmpty() {
			tournaments = slices.DeleteFunc(tournaments, func(t *models.Tournament) bool {
				return t.EventCount == 0
			})
		}
		slices.SortStableFunc(tournaments, s.tournamentOrder(sortKey))

		s.logger.WithFields(logrus.Fields{
			"tournaments": len(tournaments),
			"sort":        sortKey,
		}).Debug("Tournaments table computed")
		return table.Slice(tournaments, page, pageSize), nil
	})
}

// Tournament returns a tournament with its four most successful players
func (s *TournamentService) Tournament(ctx context.Context, tournamentID int) (*models.Tournament, error) {
	query := database.Query{Name: "tournament", Template: tournamentQuery, Args: []any{tournamentID}}
	tournament, found, err := first(ctx, s.executor, query, s.mapper.MapTournament)
	if err != nil {
		return nil, fmt.Errorf("failed to load tournament %d: %w", tournamentID, err)
	}
	if !found {
		return nil, models.NewNotFound("Tournament", tournamentID)
	}
	return tournament, nil
}

// TournamentSeasons returns the seasons a tournament was held in, latest first
func (s *TournamentService) TournamentSeasons(ctx context.Context, tournamentID int) ([]int, error) {
	return cache.GetOrCompute(s.cache, TournamentSeasonsCache, cache.Key(tournamentID), func() ([]int, error) {
		query := database.Query{Name: "tournament_seasons", Template: tournamentSeasonsQuery, Args: []any{tournamentID}}
		seasons, err := collect(ctx, s.executor, query, infallible(func(row database.Row) int { return row.Int("season") }))
		if err != nil {
			return nil, fmt.Errorf("failed to load seasons of tournament %d: %w", tournamentID, err)
		}
		return seasons, nil
	})
}

// AllTournamentSeasons returns the set of (tournament, season) pairs of individual competitions
func (s *TournamentService) AllTournamentSeasons(ctx context.Context) (map[models.TournamentSeason]struct{}, error) {
	return cache.GetOrCompute(s.cache, cache.Global, AllTournamentSeasonsKey, func() (map[models.TournamentSeason]struct{}, error) {
		seasons := make(map[models.TournamentSeason]struct{})
		err := s.executor.Execute(ctx, database.Query{Name: "all_tournament_seasons", Template: allTournamentSeasonsQuery}, func(row database.Row) error {
			seasons[models.TournamentSeason{TournamentID: row.Int("tournament_id"), Season: row.Int("season")}] = struct{}{}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to load tournament seasons: %w", err)
		}
		return seasons, nil
	})
}

// TournamentEventsTable returns a page of tournament editions matching the filter
func (s *TournamentService) TournamentEventsTable(ctx context.Context, filter criteria.TournamentEventFilter, sortKey string, pageSize, page int) (*table.PagedTable[*models.TournamentEvent], error) {
	if err := filter.Validate(s.ordering); err != nil {
		return nil, err
	}
	pageSize = s.paging.ClampPageSize(pageSize)

	key := cache.Key(filter, sortKey, pageSize, page)
	return cache.GetOrCompute(s.cache, TournamentEventsTableCache, key, func() (*table.PagedTable[*models.TournamentEvent], error) {
		query := database.Query{
			Name:     "tournament_events",
			Template: tournamentEventsQuery,
			Criteria: filter.Criteria(),
			OrderBy:  criteria.OrderBy(sortKey, tournamentEventColumns, defaultTournamentEventOrder, "date DESC", "tournament_event_id"),
		}
		events, err := streamTable(ctx, s.executor, query, page, pageSize, s.mapper.MapTournamentEvent)
		if err != nil {
			return nil, fmt.Errorf("failed to load tournament events table: %w", err)
		}
		return events, nil
	})
}

// TournamentEvent returns a tournament edition. Team competitions take their final from
// the team winners; without one the final is cleared.
func (s *TournamentService) TournamentEvent(ctx context.Context, tournamentEventID int) (*models.TournamentEvent, error) {
	query := database.Query{Name: "tournament_event", Template: tournamentEventQuery, Args: []any{tournamentEventID}}
	event, found, err := first(ctx, s.executor, query, s.mapper.MapTournamentEvent)
	if err != nil {
		return nil, fmt.Errorf("failed to load tournament event %d: %w", tournamentEventID, err)
	}
	if !found {
		return nil, models.NewNotFound("Tournament event", tournamentEventID)
	}

	if models.IsTeamLevel(event.Level) {
		if err := s.applyTeamFinal(ctx, event); err != nil {
			return nil, err
		}
	}
	return event, nil
}

func (s *TournamentService) applyTeamFinal(ctx context.Context, event *models.TournamentEvent) error {
	query := database.Query{Name: "team_tournament_event_winner", Template: teamTournamentEventWinnerQuery, Args: []any{event.Level, event.Season}}
	_, found, err := first(ctx, s.executor, query, func(row database.Row) (struct{}, error) {
		winner := models.CountryParticipant(row.String("winner_id"))
		runnerUp := models.CountryParticipant(row.String("runner_up_id"))
		event.SetFinal(&winner, &runnerUp, row.String("score"), "")
		return struct{}{}, nil
	})
	if err != nil {
		return fmt.Errorf("failed to load team winner of %s %d: %w", event.Level, event.Season, err)
	}
	if !found {
		event.ClearFinal()
	}
	return nil
}

// TournamentRecord ranks players by the number of results at least as good as result at a tournament.
// Players tied with the last of maxPlayers are kept.
func (s *TournamentService) TournamentRecord(ctx context.Context, tournamentID int, result string, maxPlayers int) ([]records.DetailRow, error) {
	eventResult, ok := models.ParseEventResult(result)
	if !ok {
		return nil, models.NewInvalidFilter("unknown result %q", result)
	}
	if maxPlayers <= 0 {
		maxPlayers = s.recordMaxPlayers
	}

	link := func(playerID int, _ records.Detail) string {
		return fmt.Sprintf("/playerProfile?playerId=%d&tab=tournaments&tournamentId=%d%s", playerID, tournamentID, eventResult.URLParam())
	}
	query := database.Query{Name: "tournament_record", Template: tournamentRecordQuery, Args: []any{tournamentID, string(eventResult), maxPlayers}}
	rows, err := collect(ctx, s.executor, query, infallible(func(row database.Row) records.DetailRow {
		return records.DetailRow{
			Rank:      row.Int("rank"),
			PlayerID:  row.Int("player_id"),
			Name:      row.String("name"),
			CountryID: row.String("country_id"),
			Active:    row.Bool("active"),
			Detail:    records.IntegerDetail{Value: row.Int("count")},
			LinkFunc:  link,
		}
	}))
	if err != nil {
		return nil, fmt.Errorf("failed to load record of tournament %d: %w", tournamentID, err)
	}
	return rows, nil
}

// TournamentEventCount returns the number of editions of a tournament
func (s *TournamentService) TournamentEventCount(ctx context.Context, tournamentID int) (int, error) {
	return cache.GetOrCompute(s.cache, TournamentEventCountCache, cache.Key(tournamentID), func() (int, error) {
		query := database.Query{Name: "tournament_event_count", Template: tournamentEventCountQuery, Args: []any{tournamentID}}
		count, _, err := first(ctx, s.executor, query, infallible(func(row database.Row) int { return row.Int("event_count") }))
		if err != nil {
			return 0, fmt.Errorf("failed to count events of tournament %d: %w", tournamentID, err)
		}
		return count, nil
	})
}

// TournamentEventMapProperties returns the map properties of an edition unparsed
func (s *TournamentService) TournamentEventMapProperties(ctx context.Context, tournamentEventID int) (json.RawMessage, error) {
	query := database.Query{Name: "map_properties", Template: mapPropertiesQuery, Args: []any{tournamentEventID}}
	properties, found, err := first(ctx, s.executor, query, func(row database.Row) (json.RawMessage, error) {
		return row.JSON("map_properties")
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load map properties of tournament event %d: %w", tournamentEventID, err)
	}
	if !found {
		return nil, models.NewNotFound("Tournament event", tournamentEventID)
	}
	return properties, nil
}

// PlayerTournaments returns the tournaments a player took part in, by name
func (s *TournamentService) PlayerTournaments(ctx context.Context, playerID int) ([]models.TournamentItem, error) {
	return cache.GetOrCompute(s.cache, PlayerTournamentsCache, cache.Key(playerID), func() ([]models.TournamentItem, error) {
		query := database.Query{Name: "player_tournaments", Template: playerTournamentsQuery, Args: []any{playerID}}
		items, err := collect(ctx, s.executor, query, infallible(s.mapper.MapTournamentItem))
		if err != nil {
			return nil, fmt.Errorf("failed to load tournaments of player %d: %w", playerID, err)
		}
		return items, nil
	})
}

// PlayerTournamentEvents returns the editions a player took part in, by name and season
func (s *TournamentService) PlayerTournamentEvents(ctx context.Context, playerID int) ([]models.TournamentEventItem, error) {
	return cache.GetOrCompute(s.cache, PlayerTournamentEventsCache, cache.Key(playerID), func() ([]models.TournamentEventItem, error) {
		query := database.Query{Name: "player_tournament_events", Template: playerTournamentEventsQuery, Args: []any{playerID}}
		items, err := collect(ctx, s.executor, query, infallible(s.mapper.MapTournamentEventItem))
		if err != nil {
			return nil, fmt.Errorf("failed to load tournament events of player %d: %w", playerID, err)
		}
		return items, nil
	})
}

// PlayerTournamentEventResultsTable returns a page of a player's tournament event results
func (s *TournamentService) PlayerTournamentEventResultsTable(ctx context.Context, playerID int, filter criteria.TournamentEventResultFilter, sortKey string, pageSize, page int) (*table.PagedTable[models.PlayerTournamentEvent], error) {
	if err := filter.Validate(s.ordering); err != nil {
		return nil, err
	}
	orderBy := criteria.OrderBy(sortKey, playerTournamentEventColumns, defaultPlayerTournamentEventOrder, "date DESC", "tournament_event_id")
	return s.playerTournamentEventResults(ctx, playerID, filter, orderBy, s.paging.ClampPageSize(pageSize), page)
}

func (s *TournamentService) playerTournamentEventResults(ctx context.Context, playerID int, filter criteria.TournamentEventResultFilter, orderBy string, pageSize, page int) (*table.PagedTable[models.PlayerTournamentEvent], error) {
	query := database.Query{
		Name:     "player_tournament_event_results",
		Template: playerTournamentEventResultsQuery,
		Args:     []any{playerID},
		Criteria: filter.Criteria(),
		OrderBy:  orderBy,
	}
	if filter.HasStatsFilter() {
		query.Join = tournamentStatsJoin
	}

	results, err := streamTable(ctx, s.executor, query, page, pageSize, infallible(s.mapper.MapPlayerTournamentEvent))
	if err != nil {
		return nil, fmt.Errorf("failed to load tournament event results of player %d: %w", playerID, err)
	}
	return results, nil
}

// SeasonHighlight groups a player's results of one kind within a season
type SeasonHighlight struct {
	Result models.EventResult             `json:"result"`
	Events []models.PlayerTournamentEvent `json:"events"`
}

// PlayerSeasonHighlights returns a player's season results grouped by result, best results first,
// limited to maxResults groups
func (s *TournamentService) PlayerSeasonHighlights(ctx context.Context, playerID, season, maxResults int) ([]SeasonHighlight, error) {
	if maxResults <= 0 {
		maxResults = s.highlightsMaxGroup
	}
	results, err := s.playerTournamentEventResults(ctx, playerID, criteria.ForSeason(season), "result DESC, level, date", math.MaxInt, 1)
	if err != nil {
		return nil, err
	}

	highlights := make([]SeasonHighlight, 0, maxResults)
	for _, event := range results.Rows() {
		result := models.EventResult(event.Result)
		if i := slices.IndexFunc(highlights, func(h SeasonHighlight) bool { return h.Result == result }); i >= 0 {
			highlights[i].Events = append(highlights[i].Events, event)
			continue
		}
		if len(highlights) < maxResults {
			highlights = append(highlights, SeasonHighlight{Result: result, Events: []models.PlayerTournamentEvent{event}})
		}
	}
	return highlights, nil
}
