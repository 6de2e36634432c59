package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Zevankai/Equipment-Tool/internal/orchestrators/inventory"
	"github.com/Zevankai/Equipment-Tool/internal/orchestrators/replication"
	"github.com/Zevankai/Equipment-Tool/internal/repositories/snapshot"
)

var (
	createID  string
	createBag string
)

var createCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a character in the local cache",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireRoom(); err != nil {
			return err
		}
		out, err := cli.inventory.CreateCharacter(cmd.Context(), &inventory.CreateCharacterInput{
			RoomID:      roomID,
			CharacterID: createID,
			Name:        args[0],
			BagName:     createBag,
		})
		if err != nil {
			return err
		}
		return emit(out, func() {
			fmt.Printf("✅ Created %s\n\n", out.Snapshot.CharacterID)
			printSnapshot(out.Snapshot, out.Encumbrance)
		})
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the cached characters of a room",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := requireRoom(); err != nil {
			return err
		}
		out, err := cli.inventory.ListCharacters(cmd.Context(), &inventory.ListCharactersInput{RoomID: roomID})
		if err != nil {
			return err
		}
		return emit(out, func() {
			for _, c := range out.Characters {
				state := "synced"
				if c.Pending {
					state = "pending"
				}
				fmt.Printf("%-40s %-20s %d/%d  %s\n", c.CharacterID, c.Name,
					c.Encumbrance.TotalWeight, c.Encumbrance.Capacity, state)
			}
		})
	},
}

var showCmd = &cobra.Command{
	Use:   "show <character-id>",
	Short: "Show one cached character",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireRoom(); err != nil {
			return err
		}
		out, err := cli.inventory.GetCharacter(cmd.Context(), &inventory.GetCharacterInput{CharacterRef: ref(args[0])})
		if err != nil {
			return err
		}
		return emit(out, func() {
			printSnapshot(out.Snapshot, out.Encumbrance)
			if out.Pending {
				fmt.Println("\nLocal changes not yet synced")
			}
		})
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete <character-id>",
	Short: "Remove a character from the local cache and the server",
	Long: `Remove a character from the local cache and the server. When the server cannot
be reached the deletion is queued and sent by the next sync.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireRoom(); err != nil {
			return err
		}
		svc, cleanup, err := openReplication(&cli)
		if err != nil {
			return err
		}
		defer cleanup()

		out, err := svc.DeleteCharacter(cmd.Context(), &replication.DeleteCharacterInput{
			RoomID:      roomID,
			CharacterID: args[0],
		})
		if err != nil {
			return err
		}
		if out.Queued {
			fmt.Printf("✅ Removed %s from the local cache\n", args[0])
			fmt.Println("⚠️  Server unreachable; the deletion will be sent by the next sync")
			return nil
		}
		fmt.Printf("✅ Deleted %s\n", args[0])
		return nil
	},
}

var roomsCmd = &cobra.Command{
	Use:   "rooms",
	Short: "List the rooms present in the local cache",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		out, err := cli.cache.ListRooms(cmd.Context(), snapshot.ListRoomsInput{})
		if err != nil {
			return err
		}
		return emit(out.RoomIDs, func() {
			for _, id := range out.RoomIDs {
				fmt.Println(id)
			}
		})
	},
}

func init() {
	createCmd.Flags().StringVar(&createID, "id", "", "Character ID (generated when empty)")
	createCmd.Flags().StringVar(&createBag, "bag", "", "Bag preset (pouch, satchel, backpack, explorer-pack, bag-of-holding)")

	rootCmd.AddCommand(createCmd, listCmd, showCmd, deleteCmd, roomsCmd)
}
