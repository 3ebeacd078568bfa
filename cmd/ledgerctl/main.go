// Command ledgerctl runs ledger maintenance and reports against the database directly.
package main

import "os"

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
