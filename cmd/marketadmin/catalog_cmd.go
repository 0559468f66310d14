package main

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
)

func newCatalogCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "catalog",
		Short: "List approved products, no login required",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(opts, false)
			if err != nil {
				return err
			}
			defer a.Close()

			products, err := a.gw.ListPublicProducts(cmd.Context())
			if err != nil {
				return err
			}

			t := table.New().
				Border(lipgloss.NormalBorder()).
				Headers("Name", "Description", "Price", "Business")
			for _, p := range products {
				t.Row(p.Name, truncate(p.Description, 60), "$"+p.Price, p.BusinessName)
			}
			fmt.Fprintln(cmd.OutOrStdout(), t.Render())
			fmt.Fprintf(cmd.OutOrStdout(), "%d products\n", len(products))
			return nil
		},
	}
}
