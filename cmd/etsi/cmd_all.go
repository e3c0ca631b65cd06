package main

import (
	"github.com/spf13/cobra"
)

// allCmd searches every configured provider at once
var allCmd = &cobra.Command{
	Use:   "all",
	Short: "Search every configured provider for an IP",
}

var allIPCmd = &cobra.Command{
	Use:   "ip <address>",
	Short: "Search all providers for resources bound to an IP",
	Long: `Search all configured providers for resources bound to an IP and
merge the answers into one inventory. Providers without credentials are
skipped, providers with failing credentials are reported and skipped.`,
	Example: `  etsi all ip 165.227.123.45
  etsi all ip 165.227.123.45 --json
  etsi all ip 2001:db8::1 --csv -o report.csv`,
	Args: cobra.ExactArgs(1),
	RunE: runAll,
}

func init() {
	allCmd.AddCommand(allIPCmd)
	rootCmd.AddCommand(allCmd)
	addLookupFlags(allIPCmd)
}

func runAll(cmd *cobra.Command, args []string) error {
	lookup := &LookupCommand{
		IP:        args[0],
		Format:    lookupFormat(),
		Output:    lookupOutput,
		NoHistory: lookupNoHistory,
	}
	return lookup.Run()
}
