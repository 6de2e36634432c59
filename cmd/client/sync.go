package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Zevankai/Equipment-Tool/internal/orchestrators/replication"
)

var (
	conflictPolicy string
	resolveKeep    string
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Push the room's cached characters to the server",
	Long: `Send every cached character of the room to the server. Characters the server
holds a newer copy of are conflicts; --policy decides whether the server copy replaces
the cached one (prefer-server) or the cached one is kept for a later resolve (keep-local).`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := requireRoom(); err != nil {
			return err
		}
		if cmd.Flags().Changed("policy") {
			cli.cfg.Sync.ConflictPolicy = conflictPolicy
		}
		svc, cleanup, err := openReplication(&cli)
		if err != nil {
			return err
		}
		defer cleanup()

		out, err := svc.Push(cmd.Context(), &replication.PushInput{RoomID: roomID})
		if err != nil {
			return err
		}
		return emit(out, func() {
			r := out.Result
			fmt.Printf("✅ Synced room %s\n\n", roomID)
			if len(out.Deleted) > 0 {
				fmt.Printf("Deleted:   %s\n", joinOrDash(out.Deleted))
			}
			if len(out.Removed) > 0 {
				fmt.Printf("Removed:   %s (deleted on the server)\n", joinOrDash(out.Removed))
			}
			fmt.Printf("Created:   %s\n", joinOrDash(r.Created))
			fmt.Printf("Updated:   %s\n", joinOrDash(r.Updated))
			fmt.Printf("Unchanged: %s\n", joinOrDash(r.Synced))
			fmt.Printf("Conflicts: %s\n", joinOrDash(r.ConflictIDs()))
			fmt.Printf("From server: %s\n", joinOrDash(out.Added))
			if len(out.Kept) > 0 {
				fmt.Printf("\n⚠️  Kept local copies of %s; run resolve to pick a side\n", joinOrDash(out.Kept))
			}
			if len(out.Skipped) > 0 {
				fmt.Printf("\n⚠️  Skipped unreadable server records: %s\n", joinOrDash(out.Skipped))
			}
		})
	},
}

var pullCmd = &cobra.Command{
	Use:   "pull",
	Short: "Refresh the cache from the server without sending anything",
	Long: `Copy newer server characters into the cache. A cached character with unsynced
changes and a newer server copy is a conflict; --policy decides which copy the cache keeps.
Characters deleted locally but not yet on the server are left out.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := requireRoom(); err != nil {
			return err
		}
		if cmd.Flags().Changed("policy") {
			cli.cfg.Sync.ConflictPolicy = conflictPolicy
		}
		svc, cleanup, err := openReplication(&cli)
		if err != nil {
			return err
		}
		defer cleanup()

		out, err := svc.Pull(cmd.Context(), &replication.PullInput{RoomID: roomID})
		if err != nil {
			return err
		}
		return emit(out, func() {
			fmt.Printf("✅ Pulled room %s\n\n", roomID)
			fmt.Printf("Added:     %s\n", joinOrDash(out.Added))
			fmt.Printf("Replaced:  %s\n", joinOrDash(out.Replaced))
			fmt.Printf("Unchanged: %s\n", joinOrDash(out.Unchanged))
			fmt.Printf("Conflicts: %s\n", joinOrDash(out.Conflicts))
			if len(out.Removed) > 0 {
				fmt.Printf("Removed:   %s (deleted on the server)\n", joinOrDash(out.Removed))
			}
			if len(out.Kept) > 0 {
				fmt.Printf("\n⚠️  Kept local copies of %s; run resolve to pick a side\n", joinOrDash(out.Kept))
			}
			if len(out.Deleting) > 0 {
				fmt.Printf("\n⚠️  Deleted locally, not yet on the server: %s; run sync to send\n", joinOrDash(out.Deleting))
			}
			if len(out.Skipped) > 0 {
				fmt.Printf("Skipped:   %s\n", joinOrDash(out.Skipped))
			}
		})
	},
}

var resolveCmd = &cobra.Command{
	Use:   "resolve <character-id>",
	Short: "Settle a conflict by keeping the local or the server copy",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireRoom(); err != nil {
			return err
		}
		svc, cleanup, err := openReplication(&cli)
		if err != nil {
			return err
		}
		defer cleanup()

		out, err := svc.ResolveConflict(cmd.Context(), &replication.ResolveConflictInput{
			RoomID:      roomID,
			CharacterID: args[0],
			Keep:        replication.Side(resolveKeep),
		})
		if err != nil {
			return err
		}
		return emit(out, func() {
			fmt.Printf("✅ Kept the %s copy of %s\n", resolveKeep, args[0])
		})
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show which cached characters have unsynced changes",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := requireRoom(); err != nil {
			return err
		}
		svc, cleanup, err := openReplication(&cli)
		if err != nil {
			return err
		}
		defer cleanup()

		out, err := svc.Status(cmd.Context(), &replication.StatusInput{RoomID: roomID})
		if err != nil {
			return err
		}
		return emit(out, func() {
			fmt.Printf("Pending:  %s\n", joinOrDash(out.Pending))
			fmt.Printf("Synced:   %s\n", joinOrDash(out.Synced))
			fmt.Printf("Deleting: %s\n", joinOrDash(out.Deleting))
		})
	},
}

func init() {
	syncCmd.Flags().StringVar(&conflictPolicy, "policy", "", "Conflict policy: prefer-server or keep-local (overrides sync.conflict_policy)")
	pullCmd.Flags().StringVar(&conflictPolicy, "policy", "", "Conflict policy: prefer-server or keep-local (overrides sync.conflict_policy)")
	resolveCmd.Flags().StringVar(&resolveKeep, "keep", "", "Side to keep: local or server (required)")
	_ = resolveCmd.MarkFlagRequired("keep") // nolint:errcheck // safe to ignore in init

	rootCmd.AddCommand(syncCmd, pullCmd, resolveCmd, statusCmd)
}
