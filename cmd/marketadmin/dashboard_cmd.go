package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"marketadmin/internal/dashboard"
	"marketadmin/internal/model"
	"marketadmin/internal/tui"
)

func newDashboardCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "dashboard",
		Aliases: []string{"ui"},
		Short:   "Open the interactive dashboard",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(opts, true)
			if err != nil {
				return err
			}
			defer a.Close()

			sc, err := a.restore(cmd.Context())
			if err != nil {
				return err
			}

			ctrl := dashboard.New(sc, a.gw, dashboard.Options{
				ShowErrors: a.cfg.UI.ShowErrors,
				Logger:     a.log,
			})
			p := tea.NewProgram(tui.New(cmd.Context(), ctrl, a.sessions.Logout), tea.WithAltScreen(), tea.WithContext(cmd.Context()))
			_, err = p.Run()
			return err
		},
	}
}

// newListCmd one-shot, non-interactive listing through the same engine the dashboard uses
func newListCmd(opts *rootOptions) *cobra.Command {
	var query, filter string

	cmd := &cobra.Command{
		Use:       "list <products|users|businesses>",
		Short:     "Print one collection, filtered like the dashboard",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{string(model.KindProduct), string(model.KindUser), string(model.KindBusiness)},
		RunE: func(cmd *cobra.Command, args []string) error {
			kind := model.EntityKind(args[0])
			if !kind.Valid() {
				return fmt.Errorf("unknown collection %q", args[0])
			}

			a, err := newApp(opts, false)
			if err != nil {
				return err
			}
			defer a.Close()

			sc, err := a.restore(cmd.Context())
			if err != nil {
				return err
			}

			ctrl := dashboard.New(sc, a.gw, dashboard.Options{ShowErrors: true, Logger: a.log})
			if err := ctrl.SelectTab(kind); err != nil {
				return err
			}
			dashboard.Run(cmd.Context(), ctrl, ctrl.Mount()...)
			if !ctrl.Loaded(kind) {
				if notices := ctrl.Notices(); len(notices) > 0 {
					return errors.New(notices[len(notices)-1].Message)
				}
				return fmt.Errorf("could not load %s", kind)
			}

			ctrl.SetQuery(query)
			if err := ctrl.SetFilter(filter); err != nil {
				return fmt.Errorf("%w: %q (choose from %s)", err, filter, strings.Join(ctrl.FilterOptions(), ", "))
			}

			printRecords(cmd.OutOrStdout(), ctrl, ctrl.Rows())
			return nil
		},
	}

	cmd.Flags().StringVarP(&query, "search", "s", "", "case-insensitive search")
	cmd.Flags().StringVarP(&filter, "filter", "f", dashboard.FilterAll, "status (products) or role (users)")
	return cmd
}

// printRecords renders rows with the kind's columns
func printRecords(w io.Writer, ctrl *dashboard.Controller, rows []model.Record) {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(ctrl.Columns()...)
	for _, r := range rows {
		cells := ctrl.Cells(r)
		for i, c := range cells {
			cells[i] = truncate(c, 48)
		}
		t.Row(cells...)
	}
	fmt.Fprintln(w, t.Render())
	fmt.Fprintf(w, "%d %s\n", len(rows), ctrl.Active())
}

func truncate(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
