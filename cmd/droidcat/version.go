package main

import (
	"github.com/spf13/cobra"

	"github.com/justinpbarnett/droidcat/internal/styles"
	"github.com/justinpbarnett/droidcat/internal/update"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version and check for a newer release",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			p := styles.NewPrinter(cmd.OutOrStdout(), false)
			p.Info("droidcat version %s", version)

			if update.IsDev(version) {
				p.Dim("Development build, update check skipped.")
				return
			}

			rel, err := update.New("").Check(cmd.Context(), version)
			switch {
			case err != nil:
				p.Warn("Update check failed: %v", err)
			case rel != nil:
				p.OK("Update available: v%s. Run \"droidcat update\" to install.", rel.Version)
			default:
				p.Dim("You are up to date.")
			}
		},
	}
}

func newUpdateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "update",
		Short: "Replace this binary with the latest release",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p := styles.NewPrinter(cmd.OutOrStdout(), false)
			rel, err := update.New("").Apply(cmd.Context(), version)
			if err != nil {
				return err
			}
			if update.CompareVersions(version, rel.Version) >= 0 {
				p.Dim("Already running the latest version (v%s).", rel.Version)
				return nil
			}
			p.OK("Updated droidcat to v%s.", rel.Version)
			return nil
		},
	}
}
