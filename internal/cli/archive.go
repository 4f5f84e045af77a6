package cli

import (
	"errors"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"ocmhub/internal/archive"
)

// NewArchiveCommand creates the archive command group. Every subcommand
// works against the configured store and archive blob store.
func NewArchiveCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "archive",
		Short: "Create, list and restore snapshot archives",
	}
	cmd.AddCommand(newArchiveListCommand(rootOpts))
	cmd.AddCommand(newArchiveCreateCommand(rootOpts))
	cmd.AddCommand(newArchiveRestoreCommand(rootOpts))
	return cmd
}

func newArchiveListCommand(rootOpts *RootOptions) *cobra.Command {
	var match string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List archives, newest version first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, closeStore, err := rootOpts.openService(cmd.Context())
			if err != nil {
				return rootOpts.Printer.Error("could not open the store", err.Error())
			}
			defer closeStore()
			a, err := rootOpts.openArchiver(cmd.Context(), svc)
			if err != nil {
				return rootOpts.Printer.Error("could not open the archive store", err.Error())
			}
			list, err := a.List(cmd.Context(), match)
			if err != nil {
				return rootOpts.Printer.Error("could not list archives", err.Error())
			}
			if len(list) == 0 {
				rootOpts.Printer.Info("no archives")
				return nil
			}
			rows := make([][]string, 0, len(list))
			for _, arc := range list {
				rows = append(rows, []string{
					arc.Key,
					strconv.FormatUint(arc.Version, 10),
					strconv.FormatInt(arc.Size, 10),
					arc.CreatedAt.Format(time.RFC3339),
				})
			}
			rootOpts.Printer.Table([]string{"KEY", "VERSION", "BYTES", "CREATED"}, rows)
			return nil
		},
	}
	cmd.Flags().StringVar(&match, "match", "", "glob applied to archive keys, e.g. 'snapshots/*-v1*'")
	return cmd
}

func newArchiveCreateCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "create",
		Short: "Archive the current snapshot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, closeStore, err := rootOpts.openService(cmd.Context())
			if err != nil {
				return rootOpts.Printer.Error("could not open the store", err.Error())
			}
			defer closeStore()
			a, err := rootOpts.openArchiver(cmd.Context(), svc)
			if err != nil {
				return rootOpts.Printer.Error("could not open the archive store", err.Error())
			}
			arc, err := a.Create(cmd.Context())
			if err != nil {
				return rootOpts.Printer.Error("archive failed", err.Error())
			}
			rootOpts.Printer.Success("archived version %d to %s (%d bytes)", arc.Version, arc.Key, arc.Size)
			return nil
		},
	}
}

func newArchiveRestoreCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "restore [key]",
		Short: "Restore an archive into the configured store, the newest when no key is given",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := ""
			if len(args) == 1 {
				key = args[0]
			}
			svc, closeStore, err := rootOpts.openService(cmd.Context())
			if err != nil {
				return rootOpts.Printer.Error("could not open the store", err.Error())
			}
			defer closeStore()
			a, err := rootOpts.openArchiver(cmd.Context(), svc)
			if err != nil {
				return rootOpts.Printer.Error("could not open the archive store", err.Error())
			}
			arc, err := a.Restore(cmd.Context(), key)
			if errors.Is(err, archive.ErrNoArchives) {
				return rootOpts.Printer.Error("nothing to restore", "the archive store holds no snapshots",
					"run `ocmhub archive create` first")
			}
			if err != nil {
				return rootOpts.Printer.Error("restore failed", err.Error())
			}
			rootOpts.Printer.Success("restored %s, store is now at version %d", arc.Key, svc.Version())
			return nil
		},
	}
}
