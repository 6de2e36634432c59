package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Zevankai/Equipment-Tool/internal/entities/equipment"
	"github.com/Zevankai/Equipment-Tool/internal/orchestrators/inventory"
)

var equipSlot string

var equipCmd = &cobra.Command{
	Use:   "equip <character-id> <item-id>",
	Short: "Equip an item",
	Long:  `Equip an item. Weapons and shields need --slot primaryWeapon or secondaryWeapon.`,
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireRoom(); err != nil {
			return err
		}
		out, err := cli.inventory.Equip(cmd.Context(), &inventory.EquipInput{
			CharacterRef: ref(args[0]),
			ItemID:       args[1],
			Slot:         equipment.SlotName(equipSlot),
		})
		if err != nil {
			return err
		}
		return emit(out, func() {
			fmt.Printf("✅ Equipped %s in %s\n", args[1], formatSlot(out.Slot))
			printLoad(out.Encumbrance)
		})
	},
}

var unequipCmd = &cobra.Command{
	Use:   "unequip <character-id> <slot>",
	Short: "Clear a slot, e.g. armor or belt:1",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireRoom(); err != nil {
			return err
		}
		slot, err := parseSlot(args[1])
		if err != nil {
			return err
		}
		out, err := cli.inventory.Unequip(cmd.Context(), &inventory.UnequipInput{
			CharacterRef: ref(args[0]),
			Slot:         slot,
		})
		if err != nil {
			return err
		}
		return emit(out, func() {
			if out.ItemID == "" {
				fmt.Printf("Slot %s was already empty\n", args[1])
				return
			}
			fmt.Printf("✅ Unequipped %s from %s\n", out.ItemID, args[1])
		})
	},
}

var bagCmd = &cobra.Command{
	Use:   "bag <character-id> <preset>",
	Short: "Switch to another bag preset",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireRoom(); err != nil {
			return err
		}
		out, err := cli.inventory.SwitchBag(cmd.Context(), &inventory.SwitchBagInput{
			CharacterRef: ref(args[0]),
			BagName:      args[1],
		})
		if err != nil {
			return err
		}
		return emit(out, func() {
			fmt.Printf("✅ Now carrying %s\n", out.Snapshot.Bag.Name)
			if len(out.Discarded) > 0 {
				fmt.Printf("Unequipped from the belt: %s\n", strings.Join(out.Discarded, ", "))
			}
			printLoad(out.Encumbrance)
		})
	},
}

var bagsCmd = &cobra.Command{
	Use:   "bags",
	Short: "List the bag presets",
	Args:  cobra.NoArgs,
	// bags needs no cache
	PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
	RunE: func(_ *cobra.Command, _ []string) error {
		presets := equipment.BagPresets()
		return emit(presets, func() {
			for _, b := range presets {
				fmt.Printf("%-16s capacity %-3d belt %d  %s\n", b.Name, b.Capacity, b.ConsumableSlots, b.Bonus)
			}
		})
	},
}

func init() {
	equipCmd.Flags().StringVar(&equipSlot, "slot", "", "Target slot for weapons and shields")

	rootCmd.AddCommand(equipCmd, unequipCmd, bagCmd, bagsCmd)
}
