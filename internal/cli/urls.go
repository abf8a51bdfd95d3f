package cli

import (
	"fmt"

	"github.com/lfsite/archcat/internal/portalurl"
	"github.com/spf13/cobra"
)

// NewURLsCmd creates the urls command
func NewURLsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "urls demo|issue PAGE...",
		Short: "Print integration test page URLs",
		Long: `Prints the portal URL of each page. The base URL and the demo and
issue contexts are read from INTEGRATION_URL, INTEGRATION_DEMO_CONTEXT
and INTEGRATION_ISSUE_CONTEXT.`,
		ValidArgs: []string{"demo", "issue"},
		Args:      cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var pageURL func(string) string
			switch args[0] {
			case "demo":
				pageURL = portalurl.DemoPageURL
			case "issue":
				pageURL = portalurl.IssuePageURL
			default:
				return fmt.Errorf("unknown page kind %q (expected demo or issue)", args[0])
			}

			for _, page := range args[1:] {
				fmt.Fprintln(cmd.OutOrStdout(), pageURL(page))
			}
			return nil
		},
	}
}
