package models

// PlayerRow is a ranked player entry, e.g. a tournament's top title holder
type PlayerRow struct {
	Rank      int    `json:"rank"`
	PlayerID  int    `json:"player_id"`
	Name      string `json:"name"`
	CountryID string `json:"country_id"`
	Active    bool   `json:"active"`
	Titles    int    `json:"titles,omitempty"`
}

// MatchPlayer is a participant of a match; countries stand in for players in team events
type MatchPlayer struct {
	PlayerID  int    `json:"player_id"`
	Name      string `json:"name"`
	Seed      *int   `json:"seed,omitempty"`
	Entry     string `json:"entry,omitempty"`
	CountryID string `json:"country_id"`
}

// CountryParticipant creates a match participant representing a whole country
func CountryParticipant(countryID string) MatchPlayer {
	return MatchPlayer{Name: countryID, CountryID: countryID}
}

// EventResult is a player's best round reached at a tournament edition
type EventResult string

// Event results from best to worst
const (
	ResultWinner       EventResult = "W"
	ResultFinal        EventResult = "F"
	ResultBronze       EventResult = "BR"
	ResultSemiFinal    EventResult = "SF"
	ResultRoundRobin   EventResult = "RR"
	ResultQuarterFinal EventResult = "QF"
	ResultRound16      EventResult = "R16"
	ResultRound32      EventResult = "R32"
	ResultRound64      EventResult = "R64"
	ResultRound128     EventResult = "R128"
)

// EventResults lists results from best to worst
var EventResults = []EventResult{
	ResultWinner, ResultFinal, ResultBronze, ResultSemiFinal, ResultRoundRobin,
	ResultQuarterFinal, ResultRound16, ResultRound32, ResultRound64, ResultRound128,
}

// ParseEventResult parses an event result code
func ParseEventResult(code string) (EventResult, bool) {
	for _, r := range EventResults {
		if string(r) == code {
			return r, true
		}
	}
	return "", false
}

// Order returns the position of the result from best (0) to worst; unknown results sort last
func (r EventResult) Order() int {
	for i, er := range EventResults {
		if er == r {
			return i
		}
	}
	return len(EventResults)
}

// URLParam returns the result query parameter used in player profile links
func (r EventResult) URLParam() string {
	if r == "" {
		return ""
	}
	return "&result=" + string(r)
}
