package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yairfalse/etsi/config"
)

var digitaloceanToken string

func init() {
	configSet := &cobra.Command{
		Use:   "set",
		Short: "Store DigitalOcean credentials",
		Args:  cobra.NoArgs,
		RunE:  runDigitalOceanConfigSet,
	}
	configSet.Flags().StringVar(&digitaloceanToken, "token", "", "Personal access token with read scope")

	rootCmd.AddCommand(newProviderCommand("digitalocean",
		"Find DigitalOcean droplets, load balancers and DNS on an IP", configSet))
}

func runDigitalOceanConfigSet(cmd *cobra.Command, args []string) error {
	if digitaloceanToken == "" {
		return fmt.Errorf("nothing to set, pass --token")
	}

	cfg, err := config.LoadFile(cfgFile)
	if err != nil {
		return err
	}
	cfg.DigitalOcean.Token = digitaloceanToken

	if err := cfg.Save(cfgFile); err != nil {
		return err
	}
	fmt.Println("digitalocean configuration saved")
	return nil
}
