package cmd

import (
	"github.com/spf13/cobra"

	"github.com/tranvictor/safeops/analytics"
)

var (
	ConsentAccept bool
	ConsentRevoke bool
)

var consentCmd = &cobra.Command{
	Use:   "consent",
	Short: "Show, grant or revoke consent to anonymous usage analytics",
	Long: `Analytics are only ever sent from production builds with analytics enabled
and after consent is granted here. Safe addresses and transaction ids are
replaced by placeholders before anything leaves the machine.`,
	Run: func(cmd *cobra.Command, args []string) {
		switch {
		case ConsentAccept && ConsentRevoke:
			appUI.Error("--accept and --revoke can't be used together")
			return
		case ConsentAccept:
			if err := analytics.SetConsent(appCache, true); err != nil {
				appUI.Error("Couldn't save consent: %s", err)
				return
			}
			appUI.Success("Analytics consent granted.")
		case ConsentRevoke:
			if err := analytics.SetConsent(appCache, false); err != nil {
				appUI.Error("Couldn't save consent: %s", err)
				return
			}
			appUI.Success("Analytics consent revoked.")
		default:
			status := "not granted"
			if analytics.HasConsent(appCache) {
				status = "granted"
			}
			appUI.KeyValue([][2]string{
				{"Consent", status},
				{"Enabled", boolString(appConfig.Analytics.Enabled)},
				{"Environment", appConfig.Analytics.Environment},
				{"Active", boolString(appTracker.Active())},
			})
		}
	},
}

func boolString(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

var analyticsCmd = &cobra.Command{
	Use:   "analytics",
	Short: "Manage anonymous usage analytics",
	Long:  ``,
}

func init() {
	consentCmd.Flags().BoolVar(&ConsentAccept, "accept", false, "Grant consent")
	consentCmd.Flags().BoolVar(&ConsentRevoke, "revoke", false, "Revoke consent")

	analyticsCmd.AddCommand(consentCmd)
	rootCmd.AddCommand(analyticsCmd)
}
