package main

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/onboard-cli/internal/profile"
)

var (
	startProfileID   string
	startProfileText string
)

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start a new onboarding session for a provider",
	Long: `start creates a new onboarding session. The provider profile is
loaded from the profiles database by ID, or supplied directly with
--profile-text. The checklist is generated, both research phases run,
and the session suspends on the first question or confirmation.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := cfg.Validate("onboard"); err != nil {
			return err
		}
		ctx := cmd.Context()

		profileText := strings.TrimSpace(startProfileText)
		if profileText == "" {
			if startProfileID == "" {
				return eris.New("cmd: either --profile-id or --profile-text is required")
			}
			provider, cleanup, err := profile.NewPostgres(ctx, cfg.Profiles.DatabaseURL)
			if err != nil {
				return eris.Wrap(err, "cmd: connect profiles database")
			}
			defer cleanup()
			match, err := provider.GetProfileByID(ctx, startProfileID)
			if err != nil {
				return eris.Wrap(err, "cmd: load provider profile")
			}
			if match == nil {
				return eris.Errorf("cmd: profile %q not found", startProfileID)
			}
			profileText = match.ProfileText
		}

		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer func() { _ = st.Close() }()

		m, err := buildManager()
		if err != nil {
			return err
		}

		providerProfile := map[string]string{"profile_text": profileText}
		if startProfileID != "" {
			providerProfile["profile_id"] = startProfileID
		}

		state, err := m.InitializeState(ctx, providerProfile)
		if err != nil {
			return eris.Wrap(err, "cmd: initialize session")
		}
		if err := st.SaveSession(ctx, state); err != nil {
			return eris.Wrap(err, "cmd: save session")
		}
		zap.L().Info("session started",
			zap.String("session_id", state.SessionID),
			zap.Int("checklist_items", len(state.Checklist)))

		decision, err := advance(ctx, m, st, state)
		if err != nil {
			return err
		}
		return printJSON(summarize(state, decision))
	},
}

func init() {
	startCmd.Flags().StringVar(&startProfileID, "profile-id", "", "provider profile ID to onboard")
	startCmd.Flags().StringVar(&startProfileText, "profile-text", "", "raw profile text (bypasses the profiles database)")
	rootCmd.AddCommand(startCmd)
}
