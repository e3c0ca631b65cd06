package main

import (
	"errors"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yairfalse/etsi/config"
	"github.com/yairfalse/etsi/providers"
	"github.com/yairfalse/etsi/render"
	"github.com/yairfalse/etsi/search"
)

func findCommand(t *testing.T, path ...string) *cobra.Command {
	t.Helper()
	cmd := rootCmd
	for _, name := range path {
		var next *cobra.Command
		for _, sub := range cmd.Commands() {
			if sub.Name() == name {
				next = sub
				break
			}
		}
		require.NotNil(t, next, "command %v not found", path)
		cmd = next
	}
	return cmd
}

func TestCommandTree(t *testing.T) {
	for _, provider := range []string{"cloudflare", "coolify", "digitalocean", "gcp"} {
		findCommand(t, provider, "ip")
		findCommand(t, provider, "test")
		findCommand(t, provider, "config", "set")
		findCommand(t, provider, "config", "show")
	}
	findCommand(t, "all", "ip")
	findCommand(t, "history")
}

func TestLookupFormat(t *testing.T) {
	defer func() { lookupJSON, lookupCSV, lookupSimple = false, false, false }()

	lookupJSON, lookupCSV, lookupSimple = false, false, false
	assert.Equal(t, render.FormatTable, lookupFormat())

	lookupJSON = true
	assert.Equal(t, render.FormatJSON, lookupFormat())

	lookupJSON, lookupCSV = false, true
	assert.Equal(t, render.FormatCSV, lookupFormat())

	lookupCSV, lookupSimple = false, true
	assert.Equal(t, render.FormatSimple, lookupFormat())
}

func TestLookupCommand_InvalidIP(t *testing.T) {
	for _, ip := range []string{"", "300.1.2.3", "10.0.0", "example.com", "1.2.3.4.5"} {
		lookup := &LookupCommand{IP: ip, Format: render.FormatTable}
		err := lookup.Run()
		require.Error(t, err, "ip %q", ip)
		assert.Contains(t, err.Error(), "invalid IP address")
	}
}

func TestDescribeRunError(t *testing.T) {
	err := describeRunError(search.ErrNoProviders, "")
	require.ErrorIs(t, err, search.ErrNoProviders)
	assert.Contains(t, err.Error(), "config set")

	err = describeRunError(fmt.Errorf("gcp: %w", providers.ErrNotConfigured), "gcp")
	assert.Contains(t, err.Error(), "etsi gcp config set")

	plain := errors.New("boom")
	assert.Equal(t, plain, describeRunError(plain, "gcp"))
}

func TestCloudflareConfigSet(t *testing.T) {
	origCfg, origToken := cfgFile, cloudflareAPIToken
	defer func() { cfgFile, cloudflareAPIToken = origCfg, origToken }()

	cfgFile = filepath.Join(t.TempDir(), "config.yaml")
	cloudflareAPIToken = "cf-test-token"

	require.NoError(t, runCloudflareConfigSet(nil, nil))

	cfg, err := config.LoadFile(cfgFile)
	require.NoError(t, err)
	assert.Equal(t, "cf-test-token", cfg.Cloudflare.APIToken)
}

func TestCloudflareConfigSet_NothingToSet(t *testing.T) {
	origToken := cloudflareAPIToken
	defer func() { cloudflareAPIToken = origToken }()

	cloudflareAPIToken = ""
	err := runCloudflareConfigSet(nil, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nothing to set")
}

func TestGCPConfigSet(t *testing.T) {
	origCfg := cfgFile
	origCreds, origProjects, origDiscover := gcpCredentialsFile, gcpProjects, gcpDiscoverProjects
	defer func() {
		cfgFile = origCfg
		gcpCredentialsFile, gcpProjects, gcpDiscoverProjects = origCreds, origProjects, origDiscover
	}()

	cfgFile = filepath.Join(t.TempDir(), "config.yaml")

	rootCmd.SetArgs([]string{"gcp", "config", "set", "--projects", "acme-prod, acme-dev", "--discover-projects"})
	require.NoError(t, rootCmd.Execute())

	cfg, err := config.LoadFile(cfgFile)
	require.NoError(t, err)
	assert.Equal(t, []string{"acme-prod", "acme-dev"}, cfg.GCP.Projects)
	assert.True(t, cfg.GCP.DiscoverProjects)
}

func TestCoolifyConfigSet_RejectsHalfConfig(t *testing.T) {
	origCfg, origURL, origToken := cfgFile, coolifyBaseURL, coolifyAPIToken
	defer func() { cfgFile, coolifyBaseURL, coolifyAPIToken = origCfg, origURL, origToken }()

	cfgFile = filepath.Join(t.TempDir(), "config.yaml")
	coolifyBaseURL = "https://coolify.example.com"
	coolifyAPIToken = ""

	err := runCoolifyConfigSet(nil, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "base_url and api_token")
}

func TestSplitProjects(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"a,b", []string{"a", "b"}},
		{" a , b ,", []string{"a", "b"}},
		{"", nil},
		{"solo", []string{"solo"}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, splitProjects(tt.in))
	}
}

func TestHistoryCommand_EmptyStore(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	historyCommand := &HistoryCommand{Limit: 5}
	require.NoError(t, historyCommand.Run())
}
