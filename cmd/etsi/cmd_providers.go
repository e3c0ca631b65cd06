package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/yairfalse/etsi/config"
	"github.com/yairfalse/etsi/providers"
	"github.com/yairfalse/etsi/render"
	"github.com/yairfalse/etsi/search"
)

var (
	lookupJSON      bool
	lookupCSV       bool
	lookupSimple    bool
	lookupOutput    string
	lookupNoHistory bool
)

// addLookupFlags attaches the shared output flags to a lookup command
func addLookupFlags(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&lookupJSON, "json", false, "Output JSON")
	cmd.Flags().BoolVar(&lookupCSV, "csv", false, "Output CSV")
	cmd.Flags().BoolVar(&lookupSimple, "simple", false, "Output bare identifiers")
	cmd.Flags().StringVarP(&lookupOutput, "output", "o", "", "Write output to file")
	cmd.Flags().BoolVar(&lookupNoHistory, "no-history", false, "Skip recording this lookup")
	cmd.MarkFlagsMutuallyExclusive("json", "csv", "simple")
}

// lookupFormat maps the format flags to a render format
func lookupFormat() string {
	switch {
	case lookupJSON:
		return render.FormatJSON
	case lookupCSV:
		return render.FormatCSV
	case lookupSimple:
		return render.FormatSimple
	}
	return render.FormatTable
}

// newProviderCommand assembles the verb tree every provider shares:
// lookup by IP, credential test and config subcommands.
func newProviderCommand(name, short string, configSet *cobra.Command) *cobra.Command {
	cmd := &cobra.Command{
		Use:   name,
		Short: short,
	}

	ipCmd := &cobra.Command{
		Use:   "ip <address>",
		Short: "Find " + name + " resources bound to an IP",
		Example: fmt.Sprintf(`  etsi %s ip 165.227.123.45
  etsi %s ip 165.227.123.45 --json`, name, name),
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			lookup := &LookupCommand{
				Provider:  name,
				IP:        args[0],
				Format:    lookupFormat(),
				Output:    lookupOutput,
				NoHistory: lookupNoHistory,
			}
			return lookup.Run()
		},
	}
	addLookupFlags(ipCmd)
	cmd.AddCommand(ipCmd)

	cmd.AddCommand(&cobra.Command{
		Use:   "test",
		Short: "Check " + name + " credentials",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return runProviderTest(name)
		},
	})

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage " + name + " configuration",
	}
	configCmd.AddCommand(configSet)
	configCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show " + name + " configuration, secrets redacted",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return runConfigShow(name)
		},
	})
	cmd.AddCommand(configCmd)

	return cmd
}

func runProviderTest(name string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}

	s := search.New(cfg, log.Logger)
	if err := s.TestProvider(context.Background(), name); err != nil {
		if errors.Is(err, providers.ErrNotConfigured) {
			return fmt.Errorf("%s is not configured, run 'etsi %s config set' first", name, name)
		}
		return fmt.Errorf("%s connection failed: %w", name, err)
	}

	fmt.Printf("%s connection OK\n", name)
	return nil
}

func runConfigShow(name string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	for _, setting := range cfg.Describe(name) {
		value := setting.Value
		if value == "" {
			value = "(not set)"
		}
		fmt.Fprintf(w, "%s\t%s\n", setting.Key, value)
	}
	return w.Flush()
}
