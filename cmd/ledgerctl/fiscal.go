package main

import (
	"context"
	"fmt"
	"strconv"

	portssvc "github.com/SscSPs/ledger_engine/internal/core/ports/services"
	"github.com/spf13/cobra"
)

var fiscalCmd = &cobra.Command{
	Use:   "fiscal",
	Short: "Fiscal period workflows",
}

var createYearCmd = &cobra.Command{
	Use:   "create-year <year>",
	Short: "Open twelve monthly periods for a calendar year",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		year, err := parseYear(args[0])
		if err != nil {
			return err
		}
		return withServices(cmd, func(ctx context.Context, svc *portssvc.ServiceContainer) error {
			periods, err := svc.Fiscal.CreateFiscalYear(ctx, year, flagUser)
			if err != nil {
				return err
			}
			fmt.Println(renderPeriods(periods))
			return nil
		})
	},
}

var closePeriodCmd = &cobra.Command{
	Use:   "close-period <period-id>",
	Short: "Snapshot balances and close a fiscal period",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withServices(cmd, func(ctx context.Context, svc *portssvc.ServiceContainer) error {
			period, err := svc.Fiscal.ClosePeriod(ctx, args[0], flagUser)
			if err != nil {
				return err
			}
			fmt.Println(successStyle.Render(fmt.Sprintf("Closed %s (%s to %s)",
				period.Name, period.StartDate.Format("2006-01-02"), period.EndDate.Format("2006-01-02"))))
			return nil
		})
	},
}

var closeYearCmd = &cobra.Command{
	Use:   "close-year <year>",
	Short: "Post the closing entry and carry balances into the next year",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		year, err := parseYear(args[0])
		if err != nil {
			return err
		}
		return withServices(cmd, func(ctx context.Context, svc *portssvc.ServiceContainer) error {
			result, err := svc.Fiscal.CloseFiscalYear(ctx, year, flagUser)
			if err != nil {
				return err
			}
			fmt.Println(renderYearClose(result))
			return nil
		})
	},
}

func parseYear(s string) (int, error) {
	year, err := strconv.Atoi(s)
	if err != nil || year < 1900 || year > 9999 {
		return 0, fmt.Errorf("invalid year %q", s)
	}
	return year, nil
}

func init() {
	fiscalCmd.AddCommand(createYearCmd, closePeriodCmd, closeYearCmd)
	rootCmd.AddCommand(fiscalCmd)
}
