package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

// rootOptions flags shared by every command
type rootOptions struct {
	configFile string
	baseURL    string
	verbose    bool

	stdin  io.Reader
	stdout io.Writer
}

func execute(args []string) int {
	cmd := newRootCmd(&rootOptions{stdin: os.Stdin, stdout: os.Stdout})
	cmd.SetArgs(args)
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func newRootCmd(opts *rootOptions) *cobra.Command {
	root := &cobra.Command{
		Use:           "marketadmin",
		Short:         "Marketplace administration console",
		Long:          "Manage products, users and businesses of the marketplace, and approve products for publication.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	if opts.stdin != nil {
		root.SetIn(opts.stdin)
	}
	if opts.stdout != nil {
		root.SetOut(opts.stdout)
	}

	root.PersistentFlags().StringVar(&opts.configFile, "config", "", "config file (default $HOME/.marketadmin/config.yaml)")
	root.PersistentFlags().StringVar(&opts.baseURL, "api", "", "marketplace API base URL, overrides api.base_url")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "debug logging")

	root.AddCommand(
		newLoginCmd(opts),
		newLogoutCmd(opts),
		newWhoamiCmd(opts),
		newDashboardCmd(opts),
		newListCmd(opts),
		newCatalogCmd(opts),
		newSandboxCmd(opts),
	)
	return root
}
