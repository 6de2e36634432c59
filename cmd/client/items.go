package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Zevankai/Equipment-Tool/internal/entities/equipment"
	"github.com/Zevankai/Equipment-Tool/internal/orchestrators/inventory"
)

var (
	itemName        string
	itemType        string
	itemCategory    string
	itemDescription string
	itemFeatures    string
	itemDice        string
	itemAbility     string
	itemTags        []string
	itemClearTags   bool
	sellGold        int
)

func itemFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&itemName, "name", "", "Item name")
	cmd.Flags().StringVar(&itemType, "type", "", "Item type (weapon, armor, potion, ...)")
	cmd.Flags().StringVar(&itemDescription, "description", "", "Description")
	cmd.Flags().StringVar(&itemFeatures, "features", "", "Features")
	cmd.Flags().StringVar(&itemDice, "dice", "", "Dice notation, e.g. 2d6")
	cmd.Flags().StringVar(&itemAbility, "ability", "", "Ability")
	cmd.Flags().StringSliceVar(&itemTags, "tag", nil, "Tag (repeatable)")
}

var addCmd = &cobra.Command{
	Use:   "add <character-id>",
	Short: "Add an item to a character",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireRoom(); err != nil {
			return err
		}
		out, err := cli.inventory.AddItem(cmd.Context(), &inventory.AddItemInput{
			CharacterRef: ref(args[0]),
			Category:     equipment.Category(itemCategory),
			Fields: equipment.ItemFields{
				Name:        itemName,
				Type:        equipment.ItemType(itemType),
				Description: itemDescription,
				Features:    itemFeatures,
				Dice:        itemDice,
				Ability:     itemAbility,
				Tags:        itemTags,
			},
		})
		if err != nil {
			return err
		}
		return emit(out, func() {
			fmt.Printf("✅ Added %s (%s)\n", out.Item.Name, out.Item.ID)
			printLoad(out.Encumbrance)
		})
	},
}

var editCmd = &cobra.Command{
	Use:   "edit <character-id> <item-id>",
	Short: "Change fields of an item",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireRoom(); err != nil {
			return err
		}
		out, err := cli.inventory.EditItem(cmd.Context(), &inventory.EditItemInput{
			CharacterRef: ref(args[0]),
			ItemID:       args[1],
			Patch:        patchFromFlags(cmd),
		})
		if err != nil {
			return err
		}
		return emit(out, func() {
			fmt.Printf("✅ Updated %s (%s)\n", out.Item.Name, out.Item.ID)
		})
	},
}

// patchFromFlags sets only the fields whose flags were given
func patchFromFlags(cmd *cobra.Command) equipment.ItemPatch {
	var p equipment.ItemPatch
	set := func(flag string, dst **string, v string) {
		if cmd.Flags().Changed(flag) {
			s := v
			*dst = &s
		}
	}
	set("name", &p.Name, itemName)
	set("description", &p.Description, itemDescription)
	set("features", &p.Features, itemFeatures)
	set("dice", &p.Dice, itemDice)
	set("ability", &p.Ability, itemAbility)
	if cmd.Flags().Changed("type") {
		t := equipment.ItemType(itemType)
		p.Type = &t
	}
	if cmd.Flags().Changed("tag") {
		p.Tags = itemTags
	}
	p.ClearTags = itemClearTags
	return p
}

var dropCmd = &cobra.Command{
	Use:   "drop <character-id> <item-id>",
	Short: "Drop an item, unequipping it first",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireRoom(); err != nil {
			return err
		}
		out, err := cli.inventory.DropItem(cmd.Context(), &inventory.DropItemInput{
			CharacterRef: ref(args[0]),
			ItemID:       args[1],
		})
		if err != nil {
			return err
		}
		return emit(out, func() {
			fmt.Printf("✅ Dropped %s\n", out.Item.Name)
			printLoad(out.Encumbrance)
		})
	},
}

var sellCmd = &cobra.Command{
	Use:   "sell <character-id> <item-id>",
	Short: "Sell an item for coins",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireRoom(); err != nil {
			return err
		}
		out, err := cli.inventory.SellItem(cmd.Context(), &inventory.SellItemInput{
			CharacterRef: ref(args[0]),
			ItemID:       args[1],
			Gold:         sellGold,
		})
		if err != nil {
			return err
		}
		return emit(out, func() {
			fmt.Printf("✅ Sold %s for %d\n", out.Item.Name, sellGold)
			printCurrency(out.Snapshot.Currency)
		})
	},
}

var rollCmd = &cobra.Command{
	Use:   "roll <character-id> <item-id>",
	Short: "Roll the dice of an item",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireRoom(); err != nil {
			return err
		}
		out, err := cli.inventory.RollItem(cmd.Context(), &inventory.RollItemInput{
			CharacterRef: ref(args[0]),
			ItemID:       args[1],
		})
		if err != nil {
			return err
		}
		return emit(out, func() {
			fmt.Printf("🎲 %s rolls %s: %v = %d\n", out.Item.Name, out.Notation, out.Rolls, out.Total)
		})
	},
}

func printLoad(r equipment.Report) {
	fmt.Printf("Load: %d/%d", r.TotalWeight, r.Capacity)
	if r.OverEncumbered {
		fmt.Print("  ⚠️  over-encumbered")
	}
	fmt.Println()
}

func init() {
	itemFlags(addCmd)
	addCmd.Flags().StringVar(&itemCategory, "category", "", "Inventory section (chosen from the type when empty)")
	_ = addCmd.MarkFlagRequired("name") // nolint:errcheck // safe to ignore in init
	_ = addCmd.MarkFlagRequired("type") // nolint:errcheck // safe to ignore in init

	itemFlags(editCmd)
	editCmd.Flags().BoolVar(&itemClearTags, "clear-tags", false, "Remove every tag")

	sellCmd.Flags().IntVar(&sellGold, "gold", 0, "Sale price in coins")

	rootCmd.AddCommand(addCmd, editCmd, dropCmd, sellCmd, rollCmd)
}
