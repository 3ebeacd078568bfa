package main

import (
	"context"
	"fmt"

	portssvc "github.com/SscSPs/ledger_engine/internal/core/ports/services"
	"github.com/spf13/cobra"
)

var flagComparative bool

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Print financial statements",
}

var trialBalanceCmd = &cobra.Command{
	Use:   "trial-balance",
	Short: "Show the trial balance",
	RunE: func(cmd *cobra.Command, args []string) error {
		asOf, err := asOfDate()
		if err != nil {
			return err
		}
		return withServices(cmd, func(ctx context.Context, svc *portssvc.ServiceContainer) error {
			tb, err := svc.Statement.TrialBalance(ctx, asOf)
			if err != nil {
				return err
			}
			fmt.Println(renderTrialBalance(tb))
			return nil
		})
	},
}

var balanceSheetCmd = &cobra.Command{
	Use:   "balance-sheet",
	Short: "Show the balance sheet",
	RunE: func(cmd *cobra.Command, args []string) error {
		asOf, err := asOfDate()
		if err != nil {
			return err
		}
		return withServices(cmd, func(ctx context.Context, svc *portssvc.ServiceContainer) error {
			bs, err := svc.Statement.BalanceSheet(ctx, asOf, flagComparative)
			if err != nil {
				return err
			}
			fmt.Println(renderBalanceSheet(bs))
			if bs.Comparative != nil {
				fmt.Println(renderBalanceSheet(bs.Comparative))
			}
			return nil
		})
	},
}

func init() {
	balanceSheetCmd.Flags().BoolVar(&flagComparative, "comparative", false, "Also show the prior-period statement")
	reportCmd.AddCommand(trialBalanceCmd, balanceSheetCmd)
	rootCmd.AddCommand(reportCmd)
}
