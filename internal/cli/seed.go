package cli

import (
	"github.com/spf13/cobra"

	"ocmhub/internal/seed"
)

// NewSeedCommand creates the seed command group.
func NewSeedCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Work with seed data sets",
	}
	cmd.AddCommand(newSeedValidateCommand(rootOpts))
	return cmd
}

func newSeedValidateCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <file>",
		Short: "Validate a YAML or JSON seed file against the seed schema",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			snap, err := seed.LoadFile(args[0])
			if err != nil {
				return rootOpts.Printer.Error("seed rejected", err.Error(),
					"fix the reported fields and run validate again")
			}
			items := 0
			for _, g := range snap.Workbench {
				items += len(g.Items)
			}
			rootOpts.Printer.Success("%s is valid: %d home modules, %d workbench groups, %d items, %d ocm steps",
				args[0], len(snap.HomeModules), len(snap.Workbench), items, len(snap.OCMSetup))
			return nil
		},
	}
}
