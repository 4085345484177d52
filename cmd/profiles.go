package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/onboard-cli/internal/profile"
)

var (
	profilesMinLength       int
	profilesRequireLocation bool
	profilesSample          int
)

var profilesCmd = &cobra.Command{
	Use:   "profiles",
	Short: "List candidate provider profiles from the profiles database",
	Long: `profiles queries the provider database for onboarding candidates.
By default it filters on minimum description length and, optionally, a
non-empty location. --sample instead returns a random sample, useful
for smoke-testing the pipeline against varied profiles.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := cfg.Validate("profiles"); err != nil {
			return err
		}
		ctx := cmd.Context()

		provider, cleanup, err := profile.NewPostgres(ctx, cfg.Profiles.DatabaseURL)
		if err != nil {
			return eris.Wrap(err, "cmd: connect profiles database")
		}
		defer cleanup()

		var matches []profile.ProfileMatch
		if profilesSample > 0 {
			matches, err = provider.GetRandomProfiles(ctx, profilesSample)
		} else {
			matches, err = provider.GetFilteredProfiles(ctx, profilesMinLength, profilesRequireLocation)
		}
		if err != nil {
			return eris.Wrap(err, "cmd: query profiles")
		}
		return printJSON(matches)
	},
}

func init() {
	profilesCmd.Flags().IntVar(&profilesMinLength, "min-length", 100, "minimum profile description length")
	profilesCmd.Flags().BoolVar(&profilesRequireLocation, "require-location", false, "only profiles with a location")
	profilesCmd.Flags().IntVar(&profilesSample, "sample", 0, "return N random profiles instead of filtering")
	rootCmd.AddCommand(profilesCmd)
}
