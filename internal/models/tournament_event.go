package models

import (
	"encoding/json"
	"time"
)

// TeamLevels are the levels of team competitions (Davis Cup, team cups)
var TeamLevels = []string{"D", "T"}

// IsTeamLevel checks if the level denotes a team competition
func IsTeamLevel(level string) bool {
	for _, l := range TeamLevels {
		if l == level {
			return true
		}
	}
	return false
}

// TournamentEvent is a single edition of a tournament
type TournamentEvent struct {
	ID            int             `json:"id"`
	TournamentID  int             `json:"tournament_id"`
	ExtID         *string         `json:"ext_id,omitempty"`
	Season        int             `json:"season"`
	Date          time.Time       `json:"date"`
	Name          string          `json:"name"`
	Level         string          `json:"level"`
	Surface       string          `json:"surface"`
	Indoor        bool            `json:"indoor"`
	Draw          Draw            `json:"draw"`
	Final         *EventFinal     `json:"final,omitempty"`
	MapProperties json.RawMessage `json:"map_properties,omitempty"`
}

// Draw holds the draw and participation metadata of an edition
type Draw struct {
	Type             string  `json:"type"`
	Size             *int    `json:"size,omitempty"`
	PlayerCount      int     `json:"player_count"`
	Participation    float64 `json:"participation"`
	Strength         int     `json:"strength"`
	AverageEloRating int     `json:"average_elo_rating"`
}

// EventFinal summarizes the final of an edition. Either the whole summary is present or none of it.
type EventFinal struct {
	Winner   MatchPlayer `json:"winner"`
	RunnerUp MatchPlayer `json:"runner_up"`
	Score    string      `json:"score"`
	Outcome  string      `json:"outcome,omitempty"`
}

// SetFinal sets the final summary; a missing winner or runner-up clears it
func (e *TournamentEvent) SetFinal(winner, runnerUp *MatchPlayer, score, outcome string) {
	if winner == nil || runnerUp == nil {
		e.Final = nil
		return
	}
	e.Final = &EventFinal{Winner: *winner, RunnerUp: *runnerUp, Score: score, Outcome: outcome}
}

// ClearFinal removes the final summary
func (e *TournamentEvent) ClearFinal() {
	e.Final = nil
}

// HasFinal checks if the final summary is present
func (e *TournamentEvent) HasFinal() bool {
	return e.Final != nil
}

// PlayerTournamentEvent is a player's result at one tournament edition
type PlayerTournamentEvent struct {
	TournamentEventID int       `json:"tournament_event_id"`
	Season            int       `json:"season"`
	Date              time.Time `json:"date"`
	Name              string    `json:"name"`
	Level             string    `json:"level"`
	Surface           string    `json:"surface"`
	Indoor            bool      `json:"indoor"`
	DrawType          string    `json:"draw_type"`
	DrawSize          *int      `json:"draw_size,omitempty"`
	Participation     float64   `json:"participation"`
	Strength          int       `json:"strength"`
	AverageEloRating  int       `json:"average_elo_rating"`
	Result            string    `json:"result"`
}
