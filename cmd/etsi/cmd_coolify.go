package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yairfalse/etsi/config"
)

var (
	coolifyBaseURL  string
	coolifyAPIToken string
)

func init() {
	configSet := &cobra.Command{
		Use:   "set",
		Short: "Store Coolify credentials",
		Args:  cobra.NoArgs,
		RunE:  runCoolifyConfigSet,
	}
	configSet.Flags().StringVar(&coolifyBaseURL, "base-url", "", "Coolify instance URL, e.g. https://coolify.example.com")
	configSet.Flags().StringVar(&coolifyAPIToken, "api-token", "", "Coolify API token")

	rootCmd.AddCommand(newProviderCommand("coolify",
		"Find Coolify servers and deployments on an IP", configSet))
}

func runCoolifyConfigSet(cmd *cobra.Command, args []string) error {
	if coolifyBaseURL == "" && coolifyAPIToken == "" {
		return fmt.Errorf("nothing to set, pass --base-url and --api-token")
	}

	cfg, err := config.LoadFile(cfgFile)
	if err != nil {
		return err
	}
	if coolifyBaseURL != "" {
		cfg.Coolify.BaseURL = coolifyBaseURL
	}
	if coolifyAPIToken != "" {
		cfg.Coolify.APIToken = coolifyAPIToken
	}

	// Catch half-configured coolify before it hits disk
	if err := cfg.Validate(); err != nil {
		return err
	}

	if err := cfg.Save(cfgFile); err != nil {
		return err
	}
	fmt.Println("coolify configuration saved")
	return nil
}
