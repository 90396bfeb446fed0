package service

const tournamentItemsQuery = `SELECT tournament_id, name, level FROM tournament WHERE NOT linked ORDER BY name`

const seasonTournamentItemsQuery = `SELECT tournament_id, name, level FROM tournament_event WHERE season = $1 ORDER BY name`

const tournamentsQuery = `WITH player_tournament_titles AS (
  SELECT e.tournament_id, r.player_id, count(tournament_event_id) AS titles, max(e.date) AS last_date
  FROM player_tournament_event_result r
  INNER JOIN tournament_event e USING (tournament_event_id)
  WHERE r.result = 'W'{criteria}
  GROUP BY e.tournament_id, r.player_id
), player_tournament_titles_ranked AS (
  SELECT tournament_id, player_id, titles, rank() OVER (PARTITION BY tournament_id ORDER BY titles DESC, last_date) AS rank
  FROM player_tournament_titles
)
SELECT tournament_id, mp.ext_tournament_id, name, level,
  array_to_json(array(SELECT row_to_json(event) FROM (
    SELECT e.level, e.surface, e.season, p.player_count, p.participation, p.strength, p.average_elo_rating
    FROM tournament_event e
    INNER JOIN event_participation p USING (tournament_event_id)
    WHERE e.tournament_id = t.tournament_id{criteria}
    ORDER BY season
  ) AS event))::text AS events,
  array_to_json(array(SELECT row_to_json(top_player) FROM (
    SELECT p.player_id, p.name, p.country_id, p.active, pt.titles, pt.rank
    FROM player_tournament_titles_ranked pt
    INNER JOIN player_v p USING (player_id)
    WHERE pt.tournament_id = t.tournament_id AND pt.rank <= 1
  ) AS top_player))::text AS top_players
FROM tournament t
LEFT JOIN tournament_mapping mp USING (tournament_id)
WHERE t.level NOT IN ('D', 'T') AND NOT t.linked`

const tournamentQuery = `WITH player_tournament_titles AS (
  SELECT r.player_id, count(tournament_event_id) AS titles, max(e.date) AS last_date
  FROM player_tournament_event_result r
  INNER JOIN tournament_event e USING (tournament_event_id)
  WHERE e.tournament_id = $1 AND r.result = 'W'
  GROUP BY r.player_id
), player_tournament_titles_ranked AS (
  SELECT player_id, titles, rank() OVER (ORDER BY titles DESC, last_date) AS rank
  FROM player_tournament_titles
)
SELECT tournament_id, mp.ext_tournament_id, name, level,
  array_to_json(array(SELECT row_to_json(event) FROM (
    SELECT e.level, e.surface, e.season, p.player_count, p.participation, p.strength, p.average_elo_rating
    FROM tournament_event e
    INNER JOIN event_participation p USING (tournament_event_id)
    WHERE e.tournament_id = $1
    ORDER BY season
  ) AS event))::text AS events,
  array_to_json(array(SELECT row_to_json(top_player) FROM (
    SELECT p.player_id, p.name, p.country_id, p.active, pt.titles, pt.rank
    FROM player_tournament_titles_ranked pt
    INNER JOIN player_v p USING (player_id)
    WHERE pt.rank <= 4
    ORDER BY pt.rank, p.name
  ) AS top_player))::text AS top_players
FROM tournament t
LEFT JOIN tournament_mapping mp USING (tournament_id)
WHERE tournament_id = $1`

const tournamentSeasonsQuery = `SELECT season FROM tournament_event
WHERE tournament_id = $1
ORDER BY season DESC`

const allTournamentSeasonsQuery = `SELECT tournament_id, season FROM tournament_event
WHERE level NOT IN ('D', 'T')`

const tournamentEventSelect = `SELECT e.tournament_event_id, e.tournament_id, mp.ext_tournament_id, e.season, e.date, e.name, e.level, e.surface, e.indoor, e.draw_type, e.draw_size,
  p.player_count, p.participation, p.strength, p.average_elo_rating,
  m.winner_id, pw.name AS winner_name, m.winner_seed, m.winner_entry, m.winner_country_id,
  m.loser_id AS runner_up_id, pl.name AS runner_up_name, m.loser_seed AS runner_up_seed, m.loser_entry AS runner_up_entry, m.loser_country_id AS runner_up_country_id,
  m.score, m.outcome, e.map_properties::text AS map_properties
FROM tournament_event e
LEFT JOIN tournament_mapping mp USING (tournament_id)
LEFT JOIN event_participation p USING (tournament_event_id)
LEFT JOIN match m ON m.tournament_event_id = e.tournament_event_id AND m.round = 'F'
LEFT JOIN player_v pw ON pw.player_id = m.winner_id
LEFT JOIN player_v pl ON pl.player_id = m.loser_id
`

const tournamentEventsQuery = tournamentEventSelect + `WHERE e.level NOT IN ('D', 'T'){criteria}
ORDER BY {orderBy} OFFSET {offset}`

const tournamentEventQuery = tournamentEventSelect + `WHERE e.tournament_event_id = $1`

const teamTournamentEventWinnerQuery = `SELECT winner_id, runner_up_id, score
FROM team_tournament_event_winner
WHERE level = $1::tournament_level AND season = $2`

const tournamentRecordQuery = `WITH record_results AS (
  SELECT player_id, count(result) AS count,
    rank() OVER (ORDER BY count(result) DESC) AS rank, rank() OVER (ORDER BY count(result) DESC, max(e.season)) AS order
  FROM player_tournament_event_result r
  INNER JOIN tournament_event e USING (tournament_event_id)
  WHERE e.tournament_id = $1 AND r.result >= $2::tournament_event_result
  GROUP BY player_id
)
SELECT r.rank, player_id, p.name, p.country_id, p.active, r.count
FROM record_results r
INNER JOIN player_v p USING (player_id)
WHERE r.rank <= coalesce((SELECT max(r2.rank) FROM record_results r2 WHERE r2.order = $3), $3)
ORDER BY r.order, p.goat_points DESC, p.name`

const tournamentEventCountQuery = `SELECT count(tournament_event_id) AS event_count
FROM tournament_event
WHERE tournament_id = $1`

const mapPropertiesQuery = `SELECT map_properties::text AS map_properties FROM tournament_event
WHERE tournament_event_id = $1`

const playerTournamentsQuery = `SELECT DISTINCT tournament_id, t.name, t.level
FROM player_tournament_event_result r
INNER JOIN tournament_event e USING (tournament_event_id)
INNER JOIN tournament t USING (tournament_id)
WHERE r.player_id = $1
ORDER BY name`

const playerTournamentEventsQuery = `SELECT tournament_event_id, t.name, e.season, e.level
FROM player_tournament_event_result r
INNER JOIN tournament_event e USING (tournament_event_id)
INNER JOIN tournament t USING (tournament_id)
WHERE r.player_id = $1
ORDER BY name, season`

const playerTournamentEventResultsQuery = `SELECT r.tournament_event_id, e.season, e.date, e.name, e.level, e.surface, e.indoor, e.draw_type, e.draw_size,
  p.participation, p.strength, p.average_elo_rating, r.result
FROM player_tournament_event_result r
INNER JOIN tournament_event e USING (tournament_event_id)
LEFT JOIN event_participation p USING (tournament_event_id){join}
WHERE r.player_id = $1
AND e.level NOT IN ('D', 'T'){criteria}
ORDER BY {orderBy} OFFSET {offset}`

// Per-event statistics of the player, joined only when statistic thresholds are filtered on
const tournamentStatsJoin = `
LEFT JOIN (
  SELECT ms.tournament_event_id, count(ms.match_id) AS p_matches,
    sum(ms.p_ace) AS p_ace, sum(ms.p_df) AS p_df, sum(ms.p_sv_pt) AS p_sv_pt, sum(ms.p_1st_in) AS p_1st_in,
    sum(ms.p_1st_won) AS p_1st_won, sum(ms.p_2nd_won) AS p_2nd_won, sum(ms.p_sv_gms) AS p_sv_gms,
    sum(ms.p_bp_sv) AS p_bp_sv, sum(ms.p_bp_fc) AS p_bp_fc,
    sum(ms.o_sv_pt) AS o_sv_pt, sum(ms.o_1st_won) AS o_1st_won, sum(ms.o_2nd_won) AS o_2nd_won,
    sum(ms.o_bp_sv) AS o_bp_sv, sum(ms.o_bp_fc) AS o_bp_fc
  FROM player_match_stats_v ms
  WHERE ms.player_id = $1
  GROUP BY ms.tournament_event_id
) AS ts ON ts.tournament_event_id = e.tournament_event_id`
