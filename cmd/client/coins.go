package main

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/Zevankai/Equipment-Tool/internal/errors"
	"github.com/Zevankai/Equipment-Tool/internal/orchestrators/inventory"
)

var coinsCmd = &cobra.Command{
	Use:   "coins",
	Short: "Manage carried coins and pouches",
}

var bankCmd = &cobra.Command{
	Use:   "bank",
	Short: "Manage coin stored in banks",
}

func intArg(args []string, i int, name string) (int, error) {
	n, err := strconv.Atoi(args[i])
	if err != nil {
		return 0, errors.InvalidArgumentf("%s must be a whole number, got %q", name, args[i])
	}
	return n, nil
}

// currencyCmd builds a subcommand whose last args are whole numbers
func currencyCmd(
	use, short string,
	nargs int,
	run func(cmd *cobra.Command, ref inventory.CharacterRef, args []string) (*inventory.CurrencyOutput, error),
) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(nargs),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireRoom(); err != nil {
				return err
			}
			out, err := run(cmd, ref(args[0]), args[1:])
			if err != nil {
				return err
			}
			return emit(out.Currency, func() { printCurrency(out.Currency) })
		},
	}
}

func init() {
	coinsCmd.AddCommand(
		currencyCmd("add <character-id> <amount>", "Add coins", 2,
			func(cmd *cobra.Command, r inventory.CharacterRef, args []string) (*inventory.CurrencyOutput, error) {
				n, err := intArg(args, 0, "amount")
				if err != nil {
					return nil, err
				}
				return cli.inventory.AddCoins(cmd.Context(), &inventory.AddCoinsInput{CharacterRef: r, Amount: n})
			}),
		currencyCmd("spend <character-id> <amount>", "Spend coins", 2,
			func(cmd *cobra.Command, r inventory.CharacterRef, args []string) (*inventory.CurrencyOutput, error) {
				n, err := intArg(args, 0, "amount")
				if err != nil {
					return nil, err
				}
				return cli.inventory.RemoveCoins(cmd.Context(), &inventory.RemoveCoinsInput{CharacterRef: r, Amount: n})
			}),
		currencyCmd("pouches <character-id> <delta>", "Add or remove pouches", 2,
			func(cmd *cobra.Command, r inventory.CharacterRef, args []string) (*inventory.CurrencyOutput, error) {
				n, err := intArg(args, 0, "delta")
				if err != nil {
					return nil, err
				}
				return cli.inventory.AdjustPouches(cmd.Context(), &inventory.AdjustPouchesInput{CharacterRef: r, Delta: n})
			}),
		currencyCmd("wear <character-id> <count>", "Set how many pouches are worn", 2,
			func(cmd *cobra.Command, r inventory.CharacterRef, args []string) (*inventory.CurrencyOutput, error) {
				n, err := intArg(args, 0, "count")
				if err != nil {
					return nil, err
				}
				return cli.inventory.SetEquippedPouches(cmd.Context(), &inventory.SetEquippedPouchesInput{CharacterRef: r, Count: n})
			}),
	)

	bankCmd.AddCommand(
		currencyCmd("open <character-id> <location>", "Open a bank entry", 2,
			func(cmd *cobra.Command, r inventory.CharacterRef, args []string) (*inventory.CurrencyOutput, error) {
				return cli.inventory.AddBank(cmd.Context(), &inventory.AddBankInput{CharacterRef: r, Location: args[0]})
			}),
		currencyCmd("close <character-id> <index>", "Close a bank entry", 2,
			func(cmd *cobra.Command, r inventory.CharacterRef, args []string) (*inventory.CurrencyOutput, error) {
				i, err := intArg(args, 0, "index")
				if err != nil {
					return nil, err
				}
				return cli.inventory.RemoveBank(cmd.Context(), &inventory.RemoveBankInput{CharacterRef: r, Index: i})
			}),
		currencyCmd("move <character-id> <index> <location>", "Rename a bank entry", 3,
			func(cmd *cobra.Command, r inventory.CharacterRef, args []string) (*inventory.CurrencyOutput, error) {
				i, err := intArg(args, 0, "index")
				if err != nil {
					return nil, err
				}
				return cli.inventory.SetBankLocation(cmd.Context(), &inventory.SetBankLocationInput{
					CharacterRef: r, Index: i, Location: args[1],
				})
			}),
		currencyCmd("chests <character-id> <index> <delta>", "Deposit or withdraw chests", 3,
			func(cmd *cobra.Command, r inventory.CharacterRef, args []string) (*inventory.CurrencyOutput, error) {
				i, err := intArg(args, 0, "index")
				if err != nil {
					return nil, err
				}
				d, err := intArg(args, 1, "delta")
				if err != nil {
					return nil, err
				}
				return cli.inventory.AdjustBankChests(cmd.Context(), &inventory.AdjustBankChestsInput{
					CharacterRef: r, Index: i, Delta: d,
				})
			}),
	)

	rootCmd.AddCommand(coinsCmd, bankCmd)
}
