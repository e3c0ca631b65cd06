package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yairfalse/etsi/config"
)

var (
	gcpCredentialsFile  string
	gcpProjects         string
	gcpDiscoverProjects bool
)

func init() {
	configSet := &cobra.Command{
		Use:   "set",
		Short: "Store GCP settings",
		Args:  cobra.NoArgs,
		RunE:  runGCPConfigSet,
	}
	configSet.Flags().StringVar(&gcpCredentialsFile, "credentials-file", "", "Service account JSON key, omit to use application default credentials")
	configSet.Flags().StringVar(&gcpProjects, "projects", "", "Comma-separated project IDs to scan")
	configSet.Flags().BoolVar(&gcpDiscoverProjects, "discover-projects", false, "Discover accessible projects through the resource manager")

	rootCmd.AddCommand(newProviderCommand("gcp",
		"Find GCP instances, load balancers and services on an IP", configSet))
}

func runGCPConfigSet(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadFile(cfgFile)
	if err != nil {
		return err
	}

	changed := false
	if gcpCredentialsFile != "" {
		cfg.GCP.CredentialsFile = gcpCredentialsFile
		changed = true
	}
	if cmd.Flags().Changed("projects") {
		cfg.GCP.Projects = splitProjects(gcpProjects)
		changed = true
	}
	if cmd.Flags().Changed("discover-projects") {
		cfg.GCP.DiscoverProjects = gcpDiscoverProjects
		changed = true
	}
	if !changed {
		return fmt.Errorf("nothing to set, pass --credentials-file, --projects or --discover-projects")
	}

	if err := cfg.Save(cfgFile); err != nil {
		return err
	}
	fmt.Println("gcp configuration saved")
	return nil
}

func splitProjects(list string) []string {
	var projects []string
	for _, p := range strings.Split(list, ",") {
		if p = strings.TrimSpace(p); p != "" {
			projects = append(projects, p)
		}
	}
	return projects
}
