package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/onboard-cli/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "onboard",
	Short: "Service provider onboarding checklist and research workflows",
	Long: `onboard drives provider onboarding sessions: it generates a
checklist from a provider profile, researches the web to customize the
checklist and auto-fill answers, and walks the remaining items through
a question-and-confirmation loop. Session state is persisted locally so
a workflow can be suspended and resumed across invocations.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(_ *cobra.Command, _ []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
