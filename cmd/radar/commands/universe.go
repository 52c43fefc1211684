package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mcavalcanti/radar/internal/universe"
)

var universeCmd = &cobra.Command{
	Use:   "universe",
	Short: "Browse the built-in asset catalog",
	Long: `Lists catalog categories, their symbols, or searches assets by
symbol or name fragment.

Example:
  go run ./cmd/radar universe
  go run ./cmd/radar universe list usa_tech
  go run ./cmd/radar universe search petro`,
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, c := range universe.Categories() {
			fmt.Printf("  %-18s %d symbols\n", c, len(universe.Symbols(c)))
		}
		return nil
	},
}

var universeListCmd = &cobra.Command{
	Use:   "list [category]",
	Short: "List symbols in a category",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		symbols := universe.Symbols(args[0])
		if len(symbols) == 0 {
			return fmt.Errorf("unknown category %q", args[0])
		}
		for _, s := range symbols {
			name, _ := universe.Lookup(s)
			fmt.Printf("  %-12s %s\n", s, name)
		}
		return nil
	},
}

var universeSearchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search assets by symbol or name",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		results := universe.Search(args[0])
		if len(results) == 0 {
			fmt.Println("  no matches")
			return nil
		}
		for _, a := range results {
			fmt.Printf("  %-12s %-30s %s\n", a.Symbol, a.Name, a.Category)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(universeCmd)
	universeCmd.AddCommand(universeListCmd)
	universeCmd.AddCommand(universeSearchCmd)
}
