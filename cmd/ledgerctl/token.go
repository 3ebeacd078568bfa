package main

import (
	"fmt"
	"time"

	"github.com/SscSPs/ledger_engine/internal/utils"
	"github.com/spf13/cobra"
)

var (
	flagCaps   []string
	flagExpiry time.Duration
)

// tokenCmd issues a token the API accepts. The authentication collaborator issues them in production.
var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Issue a development bearer token",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.IsProduction {
			return fmt.Errorf("token issuing is disabled in production")
		}
		tok, err := utils.GenerateJWT(flagUser, cfg.JWTSecret, flagExpiry, cfg.JWTIssuer, flagCaps...)
		if err != nil {
			return err
		}
		fmt.Println(tok)
		return nil
	},
}

func init() {
	tokenCmd.Flags().StringSliceVar(&flagCaps, "caps", []string{utils.CapabilityRead}, "Capabilities to grant")
	tokenCmd.Flags().DurationVar(&flagExpiry, "expiry", time.Hour, "Token lifetime")
	rootCmd.AddCommand(tokenCmd)
}
