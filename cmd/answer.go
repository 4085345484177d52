package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/onboard-cli/internal/model"
)

var (
	answerSessionID string
	answerText      string
)

var answerCmd = &cobra.Command{
	Use:   "answer",
	Short: "Answer the session's outstanding question and resume",
	Long: `answer records the provider's response to the outstanding
question, then resumes the workflow until the next suspension point or
a terminal status. An empty response re-asks the question.`,
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

		rec, err := st.GetSession(ctx, answerSessionID)
		if err != nil {
			return eris.Wrap(err, "cmd: load session")
		}
		state := rec.State

		m, err := buildManager()
		if err != nil {
			return err
		}

		decision, err := m.HandleUserResponse(ctx, state, answerText)
		if err != nil {
			return eris.Wrap(err, "cmd: handle response")
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
	answerCmd.Flags().StringVar(&answerSessionID, "session", "", "session ID to answer")
	answerCmd.Flags().StringVar(&answerText, "text", "", "response to the outstanding question")
	_ = answerCmd.MarkFlagRequired("session")
	rootCmd.AddCommand(answerCmd)
}
