package main

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/rl1809/vending/internal/core/domain"
	"github.com/rl1809/vending/internal/seed"
)

var inventoryCmd = &cobra.Command{
	Use:   "inventory",
	Short: "Print a summary of a seed inventory",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		var inv *domain.Inventory
		if cfg.SeedFile != "" {
			inv, err = seed.LoadFile(cfg.SeedFile)
		} else {
			inv, err = seed.NewInventory(cfg.Preset)
		}
		if err != nil {
			return err
		}
		printSummary(cmd.OutOrStdout(), inv)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(inventoryCmd)
}

func printSummary(w io.Writer, inv *domain.Inventory) {
	items := inv.ListAvailableItems()
	if len(items) == 0 {
		fmt.Fprintln(w, "Inventory is empty!")
		return
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Name < items[j].Name })

	rule := strings.Repeat("-", 50)
	fmt.Fprintf(w, "\nInventory Summary (%d items):\n%s\n", len(items), rule)
	fmt.Fprintf(w, "%-15s %-8s %-8s %-8s\n%s\n", "Item", "Price", "Stock", "Value", rule)
	for _, item := range items {
		value := item.Price.Mul(decimal.NewFromInt(int64(item.Quantity)))
		fmt.Fprintf(w, "%-15s $%-7s %-8d $%-7s\n", item.Name, item.Price.StringFixed(2), item.Quantity, value.StringFixed(2))
	}

	s := inv.Summary()
	fmt.Fprintf(w, "%s\n%-15s %-8s %-8d $%-7s\n", rule, "Total:", "", s.Units, s.TotalValue.StringFixed(2))
	fmt.Fprintf(w, "Average price: $%s\n", s.AveragePrice.StringFixed(2))
}
