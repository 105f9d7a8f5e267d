package cli

import (
	"context"

	"github.com/spf13/cobra"

	vsxerrors "github.com/matzehuels/vsxpack/pkg/errors"
)

// checkCommand creates the check command: audit a pack without registering anything.
func (c *CLI) checkCommand() *cobra.Command {
	var (
		asJSON  bool
		noCache bool
	)

	cmd := &cobra.Command{
		Use:     "check <extension-name>",
		Short:   "Audit an extension pack without registering anything",
		Example: `  vsxpack check vscjava.vscode-java-pack
  vsxpack check vscjava.vscode-java-pack --json | jq .licensed`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runCheck(cmd.Context(), args[0], asJSON, noCache)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "write the report as JSON")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the HTTP response cache")

	return cmd
}

func (c *CLI) runCheck(ctx context.Context, name string, asJSON, noCache bool) error {
	result, s, err := c.audit(ctx, name, noCache)
	if err != nil {
		if vsxerrors.Is(err, vsxerrors.ErrCodeUnsupported) {
			printInfo(c.Out, "%s", vsxerrors.UserMessage(err))
			return nil
		}
		return err
	}
	defer s.Close()

	if asJSON {
		return writeJSONReport(c.Out, result)
	}
	renderReport(c.Out, result)
	return nil
}
