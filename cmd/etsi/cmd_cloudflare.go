package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yairfalse/etsi/config"
)

var cloudflareAPIToken string

func init() {
	configSet := &cobra.Command{
		Use:   "set",
		Short: "Store Cloudflare credentials",
		Args:  cobra.NoArgs,
		RunE:  runCloudflareConfigSet,
	}
	configSet.Flags().StringVar(&cloudflareAPIToken, "api-token", "", "API token with Zone Read and DNS Read")

	rootCmd.AddCommand(newProviderCommand("cloudflare",
		"Find Cloudflare DNS records pointing at an IP", configSet))
}

func runCloudflareConfigSet(cmd *cobra.Command, args []string) error {
	if cloudflareAPIToken == "" {
		return fmt.Errorf("nothing to set, pass --api-token")
	}

	cfg, err := config.LoadFile(cfgFile)
	if err != nil {
		return err
	}
	cfg.Cloudflare.APIToken = cloudflareAPIToken

	if err := cfg.Save(cfgFile); err != nil {
		return err
	}
	fmt.Println("cloudflare configuration saved")
	return nil
}
