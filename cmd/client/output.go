package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/Zevankai/Equipment-Tool/internal/entities/equipment"
	"github.com/Zevankai/Equipment-Tool/internal/errors"
)

func printJSON(v any) error {
	output, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal response: %w", err)
	}
	fmt.Println(string(output))
	return nil
}

// emit prints v as JSON under --json, otherwise runs text
func emit(v any, text func()) error {
	if asJSON {
		return printJSON(v)
	}
	text()
	return nil
}

func printSnapshot(s equipment.Snapshot, report equipment.Report) {
	fmt.Printf("%s (%s)\n", s.Name, s.CharacterID)
	fmt.Printf("Bag: %s  Load: %d/%d", s.Bag.Name, report.TotalWeight, report.Capacity)
	if report.OverEncumbered {
		fmt.Print("  ⚠️  over-encumbered")
	}
	fmt.Println()
	fmt.Printf("Last modified: %s\n\n", s.LastModified.Format("2006-01-02 15:04:05.000"))

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	for _, c := range equipment.AllCategories() {
		items := s.Inventory[c]
		if len(items) == 0 {
			continue
		}
		fmt.Fprintf(w, "[%s]\n", c)
		for _, it := range items {
			mark := ""
			if ref, ok := s.Equipped.Locate(it.ID); ok {
				mark = "equipped: " + formatSlot(ref)
			}
			fmt.Fprintf(w, "  %s\t%s\t%s\t%s\t%s\n", it.ID, it.Name, it.Type, it.Dice, mark)
		}
	}
	_ = w.Flush()

	printCurrency(s.Currency)
}

func printCurrency(c equipment.Currency) {
	fmt.Printf("\nCoins: %d  Pouches: %d (%d worn)  Chest: %d  Total: %d\n",
		c.Coins, c.Pouches, c.EquippedPouches, c.Chest, c.Value())
	for i, b := range c.Banks {
		fmt.Printf("  Bank %d: %s, %d chest(s)\n", i, b.Location, b.Chests)
	}
}

func formatSlot(ref equipment.SlotRef) string {
	if ref.Name.IsIndexed() {
		return fmt.Sprintf("%s:%d", ref.Name, ref.Index)
	}
	return ref.Name.String()
}

// parseSlot reads "armor" or "belt:2"
func parseSlot(raw string) (equipment.SlotRef, error) {
	name, index, hasIndex := strings.Cut(strings.TrimSpace(raw), ":")
	ref := equipment.SlotRef{Name: equipment.SlotName(name)}
	if !ref.Name.IsValid() {
		return ref, errors.InvalidArgumentf("unknown slot %q", name).
			WithMeta("allowed", equipment.AllSlotNames())
	}
	if ref.Name.IsIndexed() != hasIndex {
		if hasIndex {
			return ref, errors.InvalidArgumentf("slot %s takes no index", name)
		}
		return ref, errors.InvalidArgumentf("slot %s needs an index, e.g. %s:0", name, name)
	}
	if hasIndex {
		i, err := strconv.Atoi(index)
		if err != nil {
			return ref, errors.InvalidArgumentf("slot index %q is not a number", index)
		}
		ref.Index = i
	}
	return ref, nil
}

func joinOrDash(ids []string) string {
	if len(ids) == 0 {
		return "-"
	}
	return strings.Join(ids, ", ")
}
