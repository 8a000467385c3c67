package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/conversa/pkg/analyzer"
	"github.com/ccollicutt/conversa/pkg/store"
)

// HistoryOptions holds options shared by the history subcommands.
type HistoryOptions struct {
	ConfigPath string
	StorePath  string
	Output     string
	Limit      int
}

// NewHistoryCommand creates the history command and its subcommands.
func NewHistoryCommand() *cobra.Command {
	opts := &HistoryOptions{}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Browse analyses saved with analyze --save",
		Long: `List, show and delete analyses saved in the local history database.

The database lives at store.path from the config file, $CONVERSA_STORE_PATH,
or ~/.conversa/history.db, in that order. --store overrides all of them.`,
	}

	cmd.PersistentFlags().StringVarP(&opts.ConfigPath, "config", "c", "", "Configuration file (YAML or TOML)")
	cmd.PersistentFlags().StringVar(&opts.StorePath, "store", "", "History database path")
	cmd.PersistentFlags().StringVarP(&opts.Output, "output", "o", "text", "Output format (text|json)")

	list := &cobra.Command{
		Use:   "list",
		Short: "List saved analyses, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runHistoryList(cmd, opts)
		},
	}
	list.Flags().IntVarP(&opts.Limit, "limit", "n", store.DefaultListLimit, "Maximum analyses to list")

	show := &cobra.Command{
		Use:   "show <id>",
		Short: "Show one saved analysis",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistoryShow(cmd, args[0], opts)
		},
	}

	del := &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete one saved analysis",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistoryDelete(cmd, args[0], opts)
		},
	}

	cmd.AddCommand(list, show, del)
	return cmd
}

func openHistory(cmd *cobra.Command, opts *HistoryOptions) (*store.DB, error) {
	if opts.Output != "text" && opts.Output != "json" {
		return nil, fmt.Errorf("unknown output format %q (use text or json)", opts.Output)
	}

	path := opts.StorePath
	if path == "" {
		cfg, err := loadConfig(commandContext(cmd), opts.ConfigPath, "")
		if err != nil {
			return nil, err
		}
		path = cfg.Store.Path
	}

	db, err := store.OpenMigrated(path)
	if err != nil {
		return nil, fmt.Errorf("opening history store: %w", err)
	}
	return db, nil
}

func runHistoryList(cmd *cobra.Command, opts *HistoryOptions) error {
	db, err := openHistory(cmd, opts)
	if err != nil {
		return err
	}
	defer db.Close()

	records, err := db.List(commandContext(cmd), opts.Limit)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if opts.Output == "json" {
		return writeRecordsJSON(out, records)
	}

	if len(records) == 0 {
		fmt.Fprintln(out, "No saved analyses.")
		return nil
	}

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSAVED\tMESSAGES\tPARTICIPANTS\tSOURCE")
	for _, r := range records {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%s\n",
			r.ID, r.CreatedAt.Local().Format("2006-01-02 15:04"), r.TotalMessages, r.Participants, r.Source)
	}
	return tw.Flush()
}

func runHistoryShow(cmd *cobra.Command, id string, opts *HistoryOptions) error {
	db, err := openHistory(cmd, opts)
	if err != nil {
		return err
	}
	defer db.Close()

	rec, err := db.Get(commandContext(cmd), id)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if opts.Output == "json" {
		return writeRecordsJSON(out, rec)
	}
	writeRecordText(out, rec)
	return nil
}

func runHistoryDelete(cmd *cobra.Command, id string, opts *HistoryOptions) error {
	db, err := openHistory(cmd, opts)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.Delete(commandContext(cmd), id); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", id)
	return nil
}

// recordJSON is the JSON shape of a stored analysis.
type recordJSON struct {
	ID               string                `json:"id"`
	Source           string                `json:"source"`
	CreatedAt        time.Time             `json:"createdAt"`
	TotalMessages    int                   `json:"totalMessages"`
	Participants     int                   `json:"participants"`
	ActiveDays       int                   `json:"activeDays"`
	AverageLength    float64               `json:"averageLength"`
	MostActiveHour   *int                  `json:"mostActiveHour"`
	MostUsedEmoji    string                `json:"mostUsedEmoji,omitempty"`
	FavoriteWord     string                `json:"favoriteWord,omitempty"`
	DominantCategory string                `json:"dominantCategory,omitempty"`
	FirstMessageAt   string                `json:"firstMessageAt,omitempty"`
	LastMessageAt    string                `json:"lastMessageAt,omitempty"`
	Senders          []store.SenderCount   `json:"senders"`
	Keywords         map[string]int        `json:"keywords"`
	TopExpressions   []analyzer.Expression `json:"topExpressions"`
}

func toRecordJSON(r *store.Record) recordJSON {
	return recordJSON{
		ID:               r.ID,
		Source:           r.Source,
		CreatedAt:        r.CreatedAt,
		TotalMessages:    r.TotalMessages,
		Participants:     r.Participants,
		ActiveDays:       r.ActiveDays,
		AverageLength:    r.AverageLength,
		MostActiveHour:   r.MostActiveHour,
		MostUsedEmoji:    r.MostUsedEmoji,
		FavoriteWord:     r.FavoriteWord,
		DominantCategory: r.DominantCategory,
		FirstMessageAt:   r.FirstMessageAt,
		LastMessageAt:    r.LastMessageAt,
		Senders:          r.Senders,
		Keywords:         r.Keywords,
		TopExpressions:   r.TopExpressions,
	}
}

// writeRecordsJSON accepts a single record or a slice of them.
func writeRecordsJSON(w io.Writer, v any) error {
	var doc any
	switch r := v.(type) {
	case *store.Record:
		doc = toRecordJSON(r)
	case []*store.Record:
		list := make([]recordJSON, 0, len(r))
		for _, rec := range r {
			list = append(list, toRecordJSON(rec))
		}
		doc = list
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	encoder.SetEscapeHTML(false)
	return encoder.Encode(doc)
}

func writeRecordText(w io.Writer, r *store.Record) {
	fmt.Fprintf(w, "ID:       %s\n", r.ID)
	fmt.Fprintf(w, "Source:   %s\n", r.Source)
	fmt.Fprintf(w, "Saved:    %s\n", r.CreatedAt.Local().Format("2006-01-02 15:04:05"))
	if r.FirstMessageAt != "" {
		fmt.Fprintf(w, "Period:   %s to %s\n", r.FirstMessageAt, r.LastMessageAt)
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Messages: %d (%d participants, %d active days, avg %.1f chars)\n",
		r.TotalMessages, r.Participants, r.ActiveDays, r.AverageLength)
	for _, s := range r.Senders {
		fmt.Fprintf(w, "  %s: %d\n", s.Name, s.Messages)
	}
	if r.MostActiveHour != nil {
		fmt.Fprintf(w, "Busiest hour: %02dh\n", *r.MostActiveHour)
	}

	var kw []string
	for _, c := range analyzer.Categories {
		kw = append(kw, fmt.Sprintf("%s %d", c, r.Keywords[c.String()]))
	}
	fmt.Fprintf(w, "Keywords: %s\n", strings.Join(kw, ", "))
	if r.DominantCategory != "" {
		fmt.Fprintf(w, "Dominant: %s\n", r.DominantCategory)
	}
	if r.MostUsedEmoji != "" {
		fmt.Fprintf(w, "Top emoji: %s\n", r.MostUsedEmoji)
	}
	if r.FavoriteWord != "" {
		fmt.Fprintf(w, "Favorite word: %s\n", r.FavoriteWord)
	}
	for _, e := range r.TopExpressions {
		fmt.Fprintf(w, "Expression: %q x%d\n", e.Text, e.Count)
	}
}
