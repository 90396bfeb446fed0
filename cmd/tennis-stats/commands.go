package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/nonlining/tennis-crystal-ball/internal/criteria"
)

var (
	seasonFrom   int
	seasonTo     int
	level        string
	surface      string
	searchPhrase string
	sortKey      string
	pageSize     int
	page         int
	tournamentID int
	indoor       string

	recordResult  string
	recordPlayers int
	infamous      bool
	activeOnly    bool
)

func addTableFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&sortKey, "sort", "", "Sort key, e.g. \"strength desc\"")
	cmd.Flags().IntVar(&pageSize, "page-size", 0, "Rows per page (0 for the configured default)")
	cmd.Flags().IntVar(&page, "page", 1, "1-based page number")
}

func addFilterFlags(cmd *cobra.Command) {
	cmd.Flags().IntVar(&seasonFrom, "season-from", 0, "First season")
	cmd.Flags().IntVar(&seasonTo, "season-to", 0, "Last season")
	cmd.Flags().StringVar(&level, "level", "", "Tournament level code")
	cmd.Flags().StringVar(&surface, "surface", "", "Surface code")
	cmd.Flags().StringVar(&searchPhrase, "search", "", "Tournament name search phrase")
	cmd.Flags().IntVar(&tournamentID, "tournament", 0, "Tournament id")
	cmd.Flags().StringVar(&indoor, "indoor", "", "Indoor (true) or outdoor (false) only")
}

func init() {
	addFilterFlags(tournamentsCmd)
	addTableFlags(tournamentsCmd)
	addFilterFlags(eventsCmd)
	addTableFlags(eventsCmd)

	tournamentCmd.Flags().StringVar(&recordResult, "result", "W", "Tournament record result (W, F, SF, QF, ...)")
	tournamentCmd.Flags().IntVar(&recordPlayers, "players", 0, "Tournament record players (0 for the configured default)")

	recordsCmd.Flags().BoolVar(&infamous, "infamous", false, "List infamous record categories")

	recordCmd.Flags().BoolVar(&activeOnly, "active", false, "Rank active players only")
	recordCmd.Flags().IntVar(&pageSize, "page-size", 0, "Rows per page (0 for the configured default)")
	recordCmd.Flags().IntVar(&page, "page", 1, "1-based page number")
}

func tournamentEventFilter(cmd *cobra.Command) (criteria.TournamentEventFilter, error) {
	filter := criteria.TournamentEventFilter{
		FilterSpec:   criteria.FilterSpec{Level: level, Surface: surface},
		SearchPhrase: searchPhrase,
	}
	if cmd.Flags().Changed("season-from") {
		filter.Seasons.From = criteria.Bound(seasonFrom)
	}
	if cmd.Flags().Changed("season-to") {
		filter.Seasons.To = criteria.Bound(seasonTo)
	}
	if cmd.Flags().Changed("tournament") {
		filter.TournamentID = criteria.Bound(tournamentID)
	}
	if indoor != "" {
		b, err := strconv.ParseBool(indoor)
		if err != nil {
			return filter, fmt.Errorf("invalid --indoor value %q: %w", indoor, err)
		}
		filter.Indoor = criteria.Bound(b)
	}
	return filter, nil
}

var tournamentsCmd = &cobra.Command{
	Use:   "tournaments",
	Short: "List tournaments rolled up over their editions",
	RunE: func(cmd *cobra.Command, args []string) error {
		filter, err := tournamentEventFilter(cmd)
		if err != nil {
			return err
		}
		tbl, err := tournaments.TournamentsTable(cmd.Context(), filter, sortKey, pageSize, page)
		if err != nil {
			return err
		}
		return printJSON(cmd, newPageOutput(tbl))
	},
}

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "List tournament events",
	RunE: func(cmd *cobra.Command, args []string) error {
		filter, err := tournamentEventFilter(cmd)
		if err != nil {
			return err
		}
		tbl, err := tournaments.TournamentEventsTable(cmd.Context(), filter, sortKey, pageSize, page)
		if err != nil {
			return err
		}
		return printJSON(cmd, newPageOutput(tbl))
	},
}

var tournamentCmd = &cobra.Command{
	Use:   "tournament <id>",
	Short: "Show a tournament with its seasons and record",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid tournament id %q: %w", args[0], err)
		}

		tournament, err := tournaments.Tournament(cmd.Context(), id)
		if err != nil {
			return err
		}
		seasons, err := tournaments.TournamentSeasons(cmd.Context(), id)
		if err != nil {
			return err
		}
		record, err := tournaments.TournamentRecord(cmd.Context(), id, recordResult, recordPlayers)
		if err != nil {
			return err
		}

		return printJSON(cmd, map[string]any{
			"tournament": tournament,
			"seasons":    seasons,
			"record":     recordRows(record),
		})
	},
}

var recordsCmd = &cobra.Command{
	Use:   "records",
	Short: "List record categories",
	RunE: func(cmd *cobra.Command, args []string) error {
		if infamous {
			return printJSON(cmd, recordsSvc.InfamousCategories())
		}
		return printJSON(cmd, recordsSvc.Categories())
	},
}

var recordCmd = &cobra.Command{
	Use:   "record <id>",
	Short: "Show a record leaderboard",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		tbl, err := recordsSvc.RecordTable(cmd.Context(), args[0], activeOnly, nil, pageSize, page)
		if err != nil {
			return err
		}
		return printJSON(cmd, pageOutput[recordRowOutput]{
			Page:     tbl.Current(),
			RowCount: tbl.RowCount(),
			Total:    tbl.Total(),
			Rows:     recordRows(tbl.Rows()),
		})
	},
}
