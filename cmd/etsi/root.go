package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	version = "0.1.0"

	debugLog bool
	cfgFile  string

	rootCmd = &cobra.Command{
		Use:   "etsi",
		Short: "Cross provider IP search",
		Long: `Etsi - Cross Provider IP Search

Ask "what is bound to this IP?" once and every configured provider
answers: Cloudflare DNS records, Coolify deployments, DigitalOcean
droplets and Google Cloud services, merged into one inventory.

Configure a provider, then point any command at an address:

  etsi digitalocean config set --token <token>
  etsi digitalocean ip 165.227.123.45
  etsi all ip 165.227.123.45`,
		Version: version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if debugLog {
				zerolog.SetGlobalLevel(zerolog.DebugLevel)
			}
		},
	}
)

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// init sets up the root command
func init() {
	rootCmd.SetVersionTemplate(`Etsi {{.Version}} - Cross Provider IP Search
`)
	rootCmd.PersistentFlags().BoolVar(&debugLog, "debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config file (default ~/.etsi/config.yaml)")
}
