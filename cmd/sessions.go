package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/onboard-cli/internal/model"
	"github.com/sells-group/onboard-cli/internal/store"
)

var (
	sessionsStatus string
	sessionsLimit  int
)

var sessionsCmd = &cobra.Command{
	Use:   "sessions [session-id]",
	Short: "List stored sessions, or show one in full",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate("sessions"); err != nil {
			return err
		}
		ctx := cmd.Context()

		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer func() { _ = st.Close() }()

		if len(args) == 1 {
			rec, err := st.GetSession(ctx, args[0])
			if err != nil {
				return eris.Wrap(err, "cmd: load session")
			}
			return printJSON(rec)
		}

		records, err := st.ListSessions(ctx, store.SessionFilter{
			Status: model.WorkflowStatus(sessionsStatus),
			Limit:  sessionsLimit,
		})
		if err != nil {
			return eris.Wrap(err, "cmd: list sessions")
		}

		type row struct {
			ID             string               `json:"id"`
			Status         model.WorkflowStatus `json:"status"`
			CompletionRate float64              `json:"completion_rate"`
			UpdatedAt      string               `json:"updated_at"`
		}
		rows := make([]row, 0, len(records))
		for _, rec := range records {
			r := row{ID: rec.ID, Status: rec.Status, UpdatedAt: rec.UpdatedAt.Format("2006-01-02 15:04:05")}
			if rec.State != nil {
				r.CompletionRate = rec.State.CompletionMetrics.CompletionRate
			}
			rows = append(rows, r)
		}
		return printJSON(rows)
	},
}

var sessionsDeleteCmd = &cobra.Command{
	Use:   "delete <session-id>",
	Short: "Delete a stored session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate("sessions"); err != nil {
			return err
		}
		ctx := cmd.Context()

		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer func() { _ = st.Close() }()

		if err := st.DeleteSession(ctx, args[0]); err != nil {
			return eris.Wrap(err, "cmd: delete session")
		}
		cmd.Printf("deleted %s\n", args[0])
		return nil
	},
}

func init() {
	sessionsCmd.Flags().StringVar(&sessionsStatus, "status", "", "filter by workflow status")
	sessionsCmd.Flags().IntVar(&sessionsLimit, "limit", 0, "maximum sessions to list")
	sessionsCmd.AddCommand(sessionsDeleteCmd)
	rootCmd.AddCommand(sessionsCmd)
}
