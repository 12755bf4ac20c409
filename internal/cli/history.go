package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/opencode-ai/oficina/internal/db"
	"github.com/opencode-ai/oficina/internal/models"
)

var (
	historyLimit  int
	historyKind   string
	historySince  string
	historyThemes bool
)

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "maximum number of entries")
	historyCmd.Flags().StringVar(&historyKind, "kind", "", "only this action kind (agendamentos, logs, temp, reset_total)")
	historyCmd.Flags().StringVar(&historySince, "since", "", "only entries after a duration ago (1h, 7d) or a timestamp")
	historyCmd.Flags().BoolVar(&historyThemes, "themes", false, "include theme changes")
	historyCmd.Flags().BoolVarP(&watchMode, "watch", "w", false, "stream new entries as JSON lines (requires --jsonl)")
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show the local action history",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := MustBeJSONLForWatch(); err != nil {
			return err
		}
		since, err := ParseSince(historySince)
		if err != nil {
			return err
		}

		database, err := openDatabase()
		if err != nil {
			return err
		}
		defer database.Close()
		repo := db.NewEventRepository(database)
		query := historyQuery(historyLimit, historyKind, since, historyThemes)

		if watchMode {
			return NewEventStreamer(repo, os.Stdout, historyStreamConfig(query)).Stream(contextOf(cmd))
		}

		eventsList, err := repo.List(contextOf(cmd), query)
		if err != nil {
			return fmt.Errorf("failed to list history: %w", err)
		}

		if IsJSONOutput() || IsJSONLOutput() {
			return WriteOutput(os.Stdout, eventsList)
		}
		if len(eventsList) == 0 {
			fmt.Println("Nenhuma ação registrada.")
			return nil
		}

		rows := make([][]string, 0, len(eventsList))
		for _, event := range eventsList {
			rows = append(rows, []string{
				event.Timestamp.Local().Format("02/01/2006 15:04:05"),
				event.EntityID,
				formatEventType(event.Type),
			})
		}
		return writeTable(os.Stdout, []string{"QUANDO", "AÇÃO", "RESULTADO"}, rows)
	},
}

func historyQuery(limit int, kind string, since *time.Time, themes bool) db.EventQuery {
	query := db.EventQuery{Limit: limit, Since: since}
	if !themes || kind != "" {
		entityType := models.EntityTypeAction
		query.EntityType = &entityType
	}
	if kind != "" {
		query.EntityID = &kind
	}
	return query
}

// historyStreamConfig narrows a watch stream to the events the listing shows.
// Without --since only events recorded after the stream starts are written.
func historyStreamConfig(query db.EventQuery) StreamConfig {
	config := DefaultStreamConfig()
	config.Since = query.Since
	config.IncludeExisting = query.Since != nil
	if query.EntityType != nil {
		config.EntityTypes = []models.EntityType{*query.EntityType}
	}
	config.EntityID = query.EntityID
	return config
}
