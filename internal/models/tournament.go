package models

// Tournament is a tournament rolled up over all of its observed editions
type Tournament struct {
	ID               int         `json:"id"`
	ExtID            *string     `json:"ext_id,omitempty"`
	Name             string      `json:"name"`
	Levels           []string    `json:"levels"`
	Surfaces         []string    `json:"surfaces"`
	EventCount       int         `json:"event_count"`
	FormattedSeasons string      `json:"seasons"`
	PlayerCount      int         `json:"player_count"`
	Participation    float64     `json:"participation"`
	Strength         int         `json:"strength"`
	AverageEloRating int         `json:"average_elo_rating"`
	TopPlayers       []PlayerRow `json:"top_players"`
}

// Level returns the most frequent level, or empty when no edition was observed
func (t *Tournament) Level() string {
	if len(t.Levels) == 0 {
		return ""
	}
	return t.Levels[0]
}

// Surface returns the most frequent surface, or empty when no edition was observed
func (t *Tournament) Surface() string {
	if len(t.Surfaces) == 0 {
		return ""
	}
	return t.Surfaces[0]
}

// TournamentItem is a lightweight tournament lookup entry
type TournamentItem struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Level string `json:"level"`
}

// TournamentEventItem is a lightweight tournament event lookup entry
type TournamentEventItem struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	Season int    `json:"season"`
	Level  string `json:"level"`
}

// TournamentSeason identifies one season a tournament was held in
type TournamentSeason struct {
	TournamentID int `json:"tournament_id"`
	Season       int `json:"season"`
}
