// Package versioncmder
package versioncmder

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/deencompass/compass/pkg/utils"
)

type VersionCommander struct {
	short bool
}

func NewVersionCmd() *cobra.Command {
	cmder := &VersionCommander{}

	cmd := &cobra.Command{
		Use:   "version",
		Short: "displays version",
		Long:  "displays the version, commit and build time of the compass binary",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmder.run(cmd)
		},
	}

	cmd.Flags().BoolVar(&cmder.short, "short", false, "print only the version")

	return cmd
}

func (c *VersionCommander) run(cmd *cobra.Command) error {
	b := utils.CurrentBuild()
	w := cmd.OutOrStdout()

	if c.short {
		_, err := fmt.Fprintln(w, b.Version)
		return err
	}

	_, err := fmt.Fprintf(w, "Version: %s\nSha: %s\nBuilt at: %s\nGo: %s\n", b.Version, b.Sha, b.Buildtime, b.GoVersion)
	return err
}
