package main

import (
	"github.com/spf13/cobra"
)

var (
	historyLimit int
	historyIP    string
)

// historyCmd shows past lookups
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent lookups",
	Example: `  etsi history
  etsi history --limit 25
  etsi history --ip 165.227.123.45`,
	Args: cobra.NoArgs,
	RunE: runHistory,
}

func init() {
	rootCmd.AddCommand(historyCmd)

	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 10, "Number of lookups to show")
	historyCmd.Flags().StringVar(&historyIP, "ip", "", "Only lookups of this IP")
}

func runHistory(cmd *cobra.Command, args []string) error {
	historyCommand := &HistoryCommand{
		Limit: historyLimit,
		IP:    historyIP,
	}
	return historyCommand.Run()
}
