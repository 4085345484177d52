package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/onboard-cli/internal/model"
)

var (
	confirmSessionID string
	confirmKey       string
	confirmReject    bool
)

var confirmCmd = &cobra.Command{
	Use:   "confirm",
	Short: "Accept or reject an auto-filled answer",
	Long: `confirm resolves one pending confirmation. Accepting marks the
item verified; rejecting clears the auto-filled value and routes the
item to a direct question instead of further research.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := cfg.Validate("onboard"); err != nil {
			return err
		}
		ctx := cmd.Context()

		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer func() { _ = st.Close() }()

		rec, err := st.GetSession(ctx, confirmSessionID)
		if err != nil {
			return eris.Wrap(err, "cmd: load session")
		}
		state := rec.State

		m, err := buildManager()
		if err != nil {
			return err
		}

		decision, err := m.HandleConfirmation(ctx, state, confirmKey, !confirmReject)
		if err != nil {
			return eris.Wrap(err, "cmd: handle confirmation")
		}
		if err := st.SaveSession(ctx, state); err != nil {
			return eris.Wrap(err, "cmd: save session")
		}

		if decision == model.DecisionProceedToAnswerResearch {
			decision, err = advance(ctx, m, st, state)
			if err != nil {
				return err
			}
		}
		return printJSON(summarize(state, decision))
	},
}

func init() {
	confirmCmd.Flags().StringVar(&confirmSessionID, "session", "", "session ID")
	confirmCmd.Flags().StringVar(&confirmKey, "key", "", "checklist item key to confirm")
	confirmCmd.Flags().BoolVar(&confirmReject, "reject", false, "reject the auto-filled value")
	_ = confirmCmd.MarkFlagRequired("session")
	_ = confirmCmd.MarkFlagRequired("key")
	rootCmd.AddCommand(confirmCmd)
}
