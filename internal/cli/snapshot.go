package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/vsxpack/pkg/vsx"
)

// snapshotCommand creates the command that manages the local Open VSX index.
func (c *CLI) snapshotCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Manage the local Open VSX extension index",
		Long: `Audits check pack members against a local copy of the Open VSX extension
list. It is downloaded on first use and only refreshed on request.`,
	}

	cmd.AddCommand(c.snapshotRefreshCommand())
	cmd.AddCommand(c.snapshotPathCommand())

	return cmd
}

func (c *CLI) snapshotRefreshCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "refresh",
		Short: "Download a fresh copy of the Open VSX extension list",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			s, err := c.newServices(cfg, true)
			if err != nil {
				return err
			}
			defer s.Close()

			prog := newProgress(loggerFromContext(ctx))
			spin := newSpinnerWithContext(ctx, c.Out, "Downloading "+cfg.SnapshotURL)
			spin.Start()
			index, err := s.snapshot.Refresh(ctx)
			if err != nil {
				if spin.Cancelled() {
					spin.Stop()
					return err
				}
				spin.StopWithError("Snapshot refresh failed")
				return err
			}
			spin.StopWithSuccess(fmt.Sprintf("Indexed %d extensions", index.Len()))
			printFile(c.Out, cfg.SnapshotPath)
			prog.done("Refreshed snapshot")
			return nil
		},
	}
}

func (c *CLI) snapshotPathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the snapshot file path",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			fmt.Fprintln(c.Out, cfg.SnapshotPath)
			snap := &vsx.Snapshot{Path: cfg.SnapshotPath}
			if !snap.Exists() {
				loggerFromContext(cmd.Context()).Info("snapshot not downloaded yet; run 'vsxpack snapshot refresh'")
			}
			return nil
		},
	}
}
