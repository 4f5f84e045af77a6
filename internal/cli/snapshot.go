package cli

import (
	"encoding/json"
	"fmt"
	"slices"
	"strconv"

	"github.com/spf13/cobra"

	"ocmhub/pkg/domain"
)

var validOutputFormats = []string{"text", "json"}

// SnapshotOptions holds the snapshot flags.
type SnapshotOptions struct {
	Format string
}

// NewSnapshotCommand creates the snapshot command.
func NewSnapshotCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SnapshotOptions{}
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Print the current snapshot of the configured store",
		Long: `Open the configured store, seeding it when empty, and print its snapshot as
a summary (text) or the full document (json).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !slices.Contains(validOutputFormats, opts.Format) {
				return rootOpts.Printer.Error(fmt.Sprintf("invalid format %q", opts.Format), "--format must be text or json")
			}
			svc, closeStore, err := rootOpts.openService(cmd.Context())
			if err != nil {
				return rootOpts.Printer.Error("could not open the store", err.Error())
			}
			defer closeStore()
			snap := svc.ExportSnapshot()
			if opts.Format == "json" {
				enc := json.NewEncoder(rootOpts.Printer.Out())
				enc.SetIndent("", "  ")
				return enc.Encode(snap)
			}
			printSummary(rootOpts, snap)
			return nil
		},
	}
	cmd.Flags().StringVarP(&opts.Format, "format", "f", "text", "output format (text|json)")
	return cmd
}

func printSummary(rootOpts *RootOptions, snap domain.Snapshot) {
	p := rootOpts.Printer
	items := 0
	for _, g := range snap.Workbench {
		items += len(g.Items)
	}
	p.Heading("Snapshot v%d", snap.Version)
	p.Info("home modules: %d  workbench groups: %d  workbench items: %d  projects: %d  ocm steps: %d",
		len(snap.HomeModules), len(snap.Workbench), items, len(snap.Projects), len(snap.OCMSetup))
	p.Info("")

	rows := make([][]string, 0, items)
	for _, g := range snap.Workbench {
		for _, it := range g.Items {
			health, risks := "-", "0"
			if proj, ok := snap.Projects[it.ID]; ok {
				health = string(proj.OverallHealth)
				risks = strconv.Itoa(len(proj.Risks))
			}
			rows = append(rows, []string{g.Title, it.ID, it.Title, health, risks})
		}
	}
	p.Table([]string{"GROUP", "ITEM", "TITLE", "HEALTH", "RISKS"}, rows)
}
