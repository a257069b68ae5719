package cli

import (
	"fmt"
	"strings"

	"github.com/pfrederiksen/ytu-events-rss/internal/feed"
	"github.com/spf13/cobra"
)

func newVerifyCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "verify <feed.xml>",
		Short: "Parse an emitted feed and report its contents",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f := OutputFormat(strings.ToLower(format))
			if f != FormatText && f != FormatJSON {
				return fmt.Errorf("invalid format: %s (must be 'text' or 'json')", format)
			}

			summary, err := feed.VerifyFile(args[0])
			if err != nil {
				return err
			}
			return WriteSummary(cmd.OutOrStdout(), summary, f)
		},
	}

	cmd.Flags().StringVar(&format, "format", "text", "Output format: text or json")

	return cmd
}
