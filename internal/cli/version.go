package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/bluesky/qmon/internal/ui/panels"
	"github.com/bluesky/qmon/internal/update"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the qmon version and check for updates",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		runVersion(cmd.Context(), cmd.OutOrStdout(), panels.Version, cfg.Update.Repo)
		return nil
	},
}

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Replace this binary with the latest release",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Current version: %s\n", panels.Version)
		rel, err := update.Apply(cmd.Context(), panels.Version, cfg.Update.Repo)
		if err != nil {
			return err
		}
		if update.CompareVersions(panels.Version, rel.Version) >= 0 {
			fmt.Fprintln(out, "Already up to date.")
			return nil
		}
		fmt.Fprintf(out, "Updated to v%s.\n", rel.Version)
		return nil
	},
}

func runVersion(ctx context.Context, w io.Writer, version, repo string) {
	fmt.Fprintf(w, "qmon version %s\n", version)

	if update.IsDev(version) {
		fmt.Fprintln(w, "Development build, update check skipped.")
		return
	}

	rel, err := update.Check(ctx, version, repo)
	if err != nil {
		fmt.Fprintf(w, "Update check failed: %v\n", err)
		return
	}
	if rel != nil {
		fmt.Fprintf(w, "Update available: v%s. Run \"qmon update\" to install.\n", rel.Version)
	} else {
		fmt.Fprintln(w, "You are up to date.")
	}
}
