package records

import (
	"fmt"
	"strings"
)

// domain narrows a record to a level or a surface. The zero domain covers everything.
type domain struct {
	id          string
	name        string
	column      string
	condition   string
	minMatches  int
	minEntries  int
	withSeasons bool
}

var (
	overall    = domain{minMatches: 200, minEntries: 50, withSeasons: true}
	grandSlam  = domain{id: "GrandSlam", name: "Grand Slam", column: "grand_slam_", condition: "e.level = 'G'", minMatches: 50, minEntries: 10}
	tourFinals = domain{id: "TourFinals", name: "Tour Finals", column: "tour_finals_", condition: "e.level = 'F'", minMatches: 10, minEntries: 3}
	masters    = domain{id: "Masters", name: "Masters", column: "masters_", condition: "e.level = 'M'", minMatches: 50, minEntries: 10}
	hard       = domain{id: "Hard", name: "Hard", column: "hard_", condition: "e.surface = 'H'", minMatches: 100, minEntries: 20}
	clay       = domain{id: "Clay", name: "Clay", column: "clay_", condition: "e.surface = 'C'", minMatches: 100, minEntries: 20}
	grass      = domain{id: "Grass", name: "Grass", column: "grass_", condition: "e.surface = 'G'", minMatches: 50, minEntries: 10}
	carpet     = domain{id: "Carpet", name: "Carpet", column: "carpet_", condition: "e.surface = 'P'", minMatches: 50, minEntries: 10}
)

var (
	allDomains   = []domain{overall, grandSlam, tourFinals, masters, hard, clay, grass, carpet}
	levelDomains = []domain{overall, grandSlam, tourFinals, masters}
)

func (d domain) recordID(suffix string) string {
	return d.id + suffix
}

func (d domain) recordName(noun string) string {
	if d.name == "" {
		return noun
	}
	return d.name + " " + noun
}

// and returns the domain condition as an additional conjunct
func (d domain) and() string {
	if d.condition == "" {
		return ""
	}
	return " AND " + d.condition
}

// Outer query shared by all records: ranks the source rows, joins player identity and
// leaves room for criteria over the player (alias p).
const rankedQuery = `SELECT rank() OVER (ORDER BY %[2]s) AS rank, r.player_id, p.name, p.country_id, p.active, %[3]s
FROM (%[1]s) AS r
INNER JOIN player_v p USING (player_id)
WHERE TRUE{criteria}
ORDER BY %[2]s, p.name OFFSET {offset}`

func ranked(source, rankOrder, columns string) string {
	return fmt.Sprintf(rankedQuery, source, rankOrder, columns)
}

const eventColumns = "e.tournament_event_id, e.name AS tournament, e.level, e.season, e.date"

const eventRecordColumns = "r.tournament_event_id, r.tournament, r.level, r.season, r.date"

// Match counts

type matchesType struct {
	id, name   string
	expression string
}

var (
	matchesPlayed = matchesType{id: "Played", name: "Played", expression: "%[1]smatches_won + %[1]smatches_lost"}
	matchesWon    = matchesType{id: "Won", name: "Won", expression: "%[1]smatches_won"}
	matchesLost   = matchesType{id: "Lost", name: "Lost", expression: "%[1]smatches_lost"}
)

func mostMatchesCategory(t matchesType) *Category {
	c := &Category{ID: "MostMatches" + t.id, Name: "Most Matches " + t.name}
	for _, d := range allDomains {
		value := fmt.Sprintf(t.expression, d.column)
		c.Records = append(c.Records, &Record{
			ID:    d.recordID("Matches" + t.id),
			Name:  d.recordName("Matches " + t.name),
			Kind:  KindInteger,
			Query: ranked(fmt.Sprintf("SELECT player_id, %[1]s AS value FROM player_performance WHERE %[1]s > 0", value), "r.value DESC", "r.value"),
		})
	}
	season := fmt.Sprintf(t.expression, "")
	c.Records = append(c.Records, &Record{
		ID:    "SeasonMatches" + t.id,
		Name:  "Matches " + t.name + " in a Season",
		Kind:  KindSeasonInteger,
		Query: ranked(fmt.Sprintf("SELECT player_id, season, %[1]s AS value FROM player_season_performance WHERE %[1]s > 0", season), "r.value DESC", "r.value, r.season"),
	})
	return c
}

// Match winning percentage

type pctType struct {
	id, name  string
	numerator string
}

var (
	pctWinning = pctType{id: "Winning", name: "Winning", numerator: "won"}
	pctLosing  = pctType{id: "Losing", name: "Losing", numerator: "lost"}
)

const seasonMinMatches = 30

func greatestMatchPctCategory(t pctType) *Category {
	c := &Category{ID: "GreatestMatch" + t.id + "Pct", Name: "Greatest Match " + t.name + " Pct."}
	for _, d := range allDomains {
		source := fmt.Sprintf(`SELECT player_id, %[1]smatches_%[2]s::real / (%[1]smatches_won + %[1]smatches_lost) AS pct, %[1]smatches_won + %[1]smatches_lost AS sample
FROM player_performance WHERE %[1]smatches_won + %[1]smatches_lost >= %[3]d`, d.column, t.numerator, d.minMatches)
		c.Records = append(c.Records, &Record{
			ID:    d.recordID("Match" + t.id + "Pct"),
			Name:  d.recordName("Match " + t.name + " Pct."),
			Kind:  KindPercentage,
			Query: ranked(source, "r.pct DESC", "r.pct, r.sample"),
		})
	}
	source := fmt.Sprintf(`SELECT player_id, season, matches_%[1]s::real / (matches_won + matches_lost) AS pct, matches_won + matches_lost AS sample
FROM player_season_performance WHERE matches_won + matches_lost >= %[2]d`, t.numerator, seasonMinMatches)
	c.Records = append(c.Records, &Record{
		ID:    "SeasonMatch" + t.id + "Pct",
		Name:  "Match " + t.name + " Pct. in a Season",
		Kind:  KindSeasonPercentage,
		Query: ranked(source, "r.pct DESC", "r.pct, r.sample, r.season"),
	})
	return c
}

// Results counted from tournament event results

const resultsSource = `SELECT r.player_id, count(*) AS value
FROM player_tournament_event_result r
INNER JOIN tournament_event e USING (tournament_event_id)
WHERE e.level NOT IN ('D', 'T') AND %s%s
GROUP BY r.player_id`

const seasonResultsSource = `SELECT r.player_id, e.season, count(*) AS value
FROM player_tournament_event_result r
INNER JOIN tournament_event e USING (tournament_event_id)
WHERE e.level NOT IN ('D', 'T') AND %s
GROUP BY r.player_id, e.season`

type resultCount struct {
	categoryID, categoryName string
	noun                     string
	condition                string
	domains                  []domain
}

func resultCountCategory(t resultCount) *Category {
	c := &Category{ID: t.categoryID, Name: t.categoryName}
	for _, d := range t.domains {
		c.Records = append(c.Records, &Record{
			ID:    d.recordID(strings.ReplaceAll(t.noun, " ", "")),
			Name:  d.recordName(t.noun),
			Kind:  KindInteger,
			Query: ranked(fmt.Sprintf(resultsSource, t.condition, d.and()), "r.value DESC", "r.value"),
		})
		if d.withSeasons {
			c.Records = append(c.Records, &Record{
				ID:    "Season" + strings.ReplaceAll(t.noun, " ", ""),
				Name:  t.noun + " in a Season",
				Kind:  KindSeasonInteger,
				Query: ranked(fmt.Sprintf(seasonResultsSource, t.condition), "r.value DESC", "r.value, r.season"),
			})
		}
	}
	return c
}

func mostTitlesCategory() *Category {
	return resultCountCategory(resultCount{categoryID: "MostTitles", categoryName: "Most Titles", noun: "Titles", condition: "r.result = 'W'", domains: allDomains})
}

func mostFinalsCategory() *Category {
	return resultCountCategory(resultCount{categoryID: "MostFinals", categoryName: "Most Finals", noun: "Finals", condition: "r.result >= 'F'::tournament_event_result", domains: allDomains})
}

func mostSemiFinalsCategory() *Category {
	return resultCountCategory(resultCount{categoryID: "MostSemiFinals", categoryName: "Most Semi-Finals", noun: "Semi Finals", condition: "r.result >= 'SF'::tournament_event_result", domains: levelDomains})
}

func mostQuarterFinalsCategory() *Category {
	return resultCountCategory(resultCount{categoryID: "MostQuarterFinals", categoryName: "Most Quarter-Finals", noun: "Quarter Finals", condition: "r.result >= 'QF'::tournament_event_result", domains: levelDomains})
}

func mostEntriesCategory() *Category {
	return resultCountCategory(resultCount{categoryID: "MostEntries", categoryName: "Most Entries", noun: "Entries", condition: "TRUE", domains: allDomains})
}

// Title percentage: titles per entry when winning, lost finals per final when losing

const titlePctSource = `SELECT r.player_id, count(*) FILTER (WHERE %[1]s)::real / count(*) AS pct, count(*) AS sample
FROM player_tournament_event_result r
INNER JOIN tournament_event e USING (tournament_event_id)
WHERE e.level NOT IN ('D', 'T') AND %[2]s%[3]s
GROUP BY r.player_id
HAVING count(*) >= %[4]d`

func greatestTitlePctCategory(t pctType) *Category {
	c := &Category{ID: "GreatestTitle" + t.id + "Pct", Name: "Greatest Title " + t.name + " Pct."}
	for _, d := range levelDomains {
		var source string
		if t == pctWinning {
			source = fmt.Sprintf(titlePctSource, "r.result = 'W'", "TRUE", d.and(), d.minEntries)
		} else {
			source = fmt.Sprintf(titlePctSource, "r.result = 'F'", "r.result >= 'F'::tournament_event_result", d.and(), max(d.minEntries/5, 2))
		}
		c.Records = append(c.Records, &Record{
			ID:    d.recordID("Title" + t.id + "Pct"),
			Name:  d.recordName("Title " + t.name + " Pct."),
			Kind:  KindPercentage,
			Query: ranked(source, "r.pct DESC", "r.pct, r.sample"),
		})
	}
	return c
}

// Entries needed to win the first title

const entriesToTitleSource = `SELECT player_id, value, tournament_event_id, tournament, level, season, date FROM (
	SELECT r.player_id, row_number() OVER (PARTITION BY r.player_id ORDER BY e.date, e.tournament_event_id) AS value, r.result, %[1]s
	FROM player_tournament_event_result r
	INNER JOIN tournament_event e USING (tournament_event_id)
	WHERE e.level NOT IN ('D', 'T')%[2]s
) AS entries
WHERE result = 'W' AND NOT EXISTS (
	SELECT 1 FROM player_tournament_event_result r2
	INNER JOIN tournament_event e USING (tournament_event_id)
	WHERE r2.player_id = entries.player_id AND r2.result = 'W' AND e.date < entries.date%[2]s
)`

func itemsWinningTitleCategory(least bool) *Category {
	prefix, name := "Most", "Most"
	if least {
		prefix, name = "Least", "Least"
	}
	c := &Category{ID: prefix + "EntriesWinningTitle", Name: name + " Entries to Win a Title"}
	order := "r.value DESC"
	if least {
		order = "r.value"
	}
	for _, d := range levelDomains {
		c.Records = append(c.Records, &Record{
			ID:        prefix + "EntriesWinning" + d.recordID("Title"),
			Name:      name + " Entries to Win First " + d.recordName("Title"),
			Kind:      KindEventInteger,
			Ascending: least,
			Query:     ranked(fmt.Sprintf(entriesToTitleSource, eventColumns, d.and()), order, "r.value, "+eventRecordColumns),
		})
	}
	return c
}

// Streaks: islands of consecutive successful rows per player

const streakSource = `SELECT player_id, count(*) AS value,
	(array_agg(tournament_event_id ORDER BY pos))[1] AS start_tournament_event_id, (array_agg(tournament ORDER BY pos))[1] AS start_tournament,
	(array_agg(level ORDER BY pos))[1] AS start_level, min(season) AS start_season, min(date) AS start_date,
	(array_agg(tournament_event_id ORDER BY pos DESC))[1] AS end_tournament_event_id, (array_agg(tournament ORDER BY pos DESC))[1] AS end_tournament,
	(array_agg(level ORDER BY pos DESC))[1] AS end_level, max(season) AS end_season, max(date) AS end_date
FROM (
	SELECT s.*, pos - row_number() OVER (PARTITION BY player_id, success ORDER BY pos) AS island
	FROM (
		SELECT %[1]s, %[2]s AS success, row_number() OVER (PARTITION BY player_id ORDER BY %[3]s) AS pos
		FROM %[4]s
		WHERE e.level NOT IN ('D', 'T')%[5]s
	) AS s
) AS i
WHERE success
GROUP BY player_id, island
HAVING count(*) >= 2`

const streakColumns = "start_tournament_event_id, start_tournament, start_level, start_season, start_date, end_tournament_event_id, end_tournament, end_level, end_season, end_date"

func streakRecord(id, name string, source string) *Record {
	return &Record{
		ID:    id,
		Name:  name,
		Kind:  KindStreak,
		Query: ranked(source, "r.value DESC", "r.value, "+streakRecordColumns()),
	}
}

func streakRecordColumns() string {
	cols := strings.Split(streakColumns, ", ")
	for i, c := range cols {
		cols[i] = "r." + c
	}
	return strings.Join(cols, ", ")
}

func winningStreaksCategory() *Category {
	c := &Category{ID: "WinningStreaks", Name: "Winning Streaks"}
	for _, d := range allDomains {
		source := fmt.Sprintf(streakSource,
			"m.player_id, "+eventColumns,
			"m.p_matches > 0",
			"e.date, m.round, m.match_num",
			"player_match_for_stats_v m INNER JOIN tournament_event e USING (tournament_event_id)",
			d.and(),
		)
		c.Records = append(c.Records, streakRecord(d.recordID("WinningStreak"), d.recordName("Winning Streak"), source))
	}
	return c
}

func resultStreaksCategory(id, name, noun, condition string) *Category {
	c := &Category{ID: id, Name: name}
	for _, d := range levelDomains {
		source := fmt.Sprintf(streakSource,
			"r.player_id, "+eventColumns,
			condition,
			"e.date, e.tournament_event_id",
			"player_tournament_event_result r INNER JOIN tournament_event e USING (tournament_event_id)",
			d.and(),
		)
		c.Records = append(c.Records, streakRecord(d.recordID(noun+"Streak"), d.recordName(noun+" Streak"), source))
	}
	return c
}

// Career spans between the first and the last matching edition, overall or per tournament

const careerSpanSource = `SELECT player_id%[4]s,
	(array_agg(tournament_event_id ORDER BY date))[1] AS start_tournament_event_id, (array_agg(tournament ORDER BY date))[1] AS start_tournament,
	(array_agg(level ORDER BY date))[1] AS start_level, min(season) AS start_season, min(date) AS start_date,
	(array_agg(tournament_event_id ORDER BY date DESC))[1] AS end_tournament_event_id, (array_agg(tournament ORDER BY date DESC))[1] AS end_tournament,
	(array_agg(level ORDER BY date DESC))[1] AS end_level, max(season) AS end_season, max(date) AS end_date
FROM (
	SELECT r.player_id, %[1]s
	FROM player_tournament_event_result r
	INNER JOIN tournament_event e USING (tournament_event_id)
	WHERE e.level NOT IN ('D', 'T') AND %[2]s%[3]s
) AS s
GROUP BY player_id%[4]s
HAVING count(*) >= 2`

func careerSpanCategory() *Category {
	c := &Category{ID: "CareerSpan", Name: "Career Span"}
	spans := []struct {
		id, name, condition string
		d                   domain
		perTournament       bool
	}{
		{id: "CareerSpan", name: "Career Span", condition: "TRUE", d: overall},
		{id: "GrandSlamCareerSpan", name: "Grand Slam Career Span", condition: "TRUE", d: grandSlam},
		{id: "TitlesSpan", name: "Titles Span", condition: "r.result = 'W'", d: overall},
		{id: "GrandSlamTitlesSpan", name: "Grand Slam Titles Span", condition: "r.result = 'W'", d: grandSlam},
		{id: "TournamentCareerSpan", name: "Single Tournament Career Span", condition: "TRUE", d: overall, perTournament: true},
		{id: "TournamentTitlesSpan", name: "Single Tournament Titles Span", condition: "r.result = 'W'", d: overall, perTournament: true},
	}
	for _, s := range spans {
		record := &Record{ID: s.id, Name: s.name, Kind: KindCareerSpan}
		if s.perTournament {
			record.Kind = KindTournamentCareerSpan
			source := fmt.Sprintf(careerSpanSource, "e.tournament_id, "+eventColumns, s.condition, s.d.and(), ", tournament_id")
			record.Query = ranked(source, "r.end_date - r.start_date DESC", "r.tournament_id, "+streakRecordColumns())
		} else {
			source := fmt.Sprintf(careerSpanSource, eventColumns, s.condition, s.d.and(), "")
			record.Query = ranked(source, "r.end_date - r.start_date DESC", streakRecordColumns())
		}
		c.Records = append(c.Records, record)
	}
	return c
}

// Best players by GOAT points that never achieved a result in a domain

const neverSource = `SELECT p.player_id, p.goat_points AS value
FROM player_v p
WHERE p.goat_points > 0 AND NOT EXISTS (
	SELECT 1 FROM player_tournament_event_result r
	INNER JOIN tournament_event e USING (tournament_event_id)
	WHERE r.player_id = p.player_id AND %s%s
)`

func bestPlayerThatNeverCategory() *Category {
	c := &Category{ID: "BestPlayerThatNever", Name: "Best Player That Never"}
	nevers := []struct {
		id, name, condition string
		d                   domain
	}{
		{id: "BestPlayerThatNeverWonTitle", name: "Best Player That Never Won a Title", condition: "r.result = 'W'", d: overall},
		{id: "BestPlayerThatNeverWonGrandSlam", name: "Best Player That Never Won a Grand Slam", condition: "r.result = 'W'", d: grandSlam},
		{id: "BestPlayerThatNeverWonTourFinals", name: "Best Player That Never Won Tour Finals", condition: "r.result = 'W'", d: tourFinals},
		{id: "BestPlayerThatNeverWonMasters", name: "Best Player That Never Won a Masters", condition: "r.result = 'W'", d: masters},
		{id: "BestPlayerThatNeverReachedGrandSlamFinal", name: "Best Player That Never Reached a Grand Slam Final", condition: "r.result >= 'F'::tournament_event_result", d: grandSlam},
	}
	for _, n := range nevers {
		c.Records = append(c.Records, &Record{
			ID:    n.id,
			Name:  n.name,
			Kind:  KindInteger,
			Query: ranked(fmt.Sprintf(neverSource, n.condition, n.d.and()), "r.value DESC", "r.value"),
		})
	}
	return c
}
