package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"marketadmin/internal/gateway"
	"marketadmin/internal/model"
)

func newLoginCmd(opts *rootOptions) *cobra.Command {
	var username, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and remember the session",
		Example: `  marketadmin login -u alice
  echo "$PASSWORD" | marketadmin login -u alice`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(opts, false)
			if err != nil {
				return err
			}
			defer a.Close()

			in := bufio.NewReader(cmd.InOrStdin())
			if username == "" {
				if username, err = prompt(cmd.OutOrStdout(), in, "Username: "); err != nil {
					return err
				}
			}
			if password == "" {
				if password, err = readPassword(cmd.OutOrStdout(), cmd.InOrStdin(), in); err != nil {
					return err
				}
			}

			sc, err := a.sessions.Login(cmd.Context(), a.gw, username, password)
			if err != nil {
				if errors.Is(err, gateway.ErrUnauthorized) {
					return errors.New("invalid username or password")
				}
				return err
			}

			id := sc.Identity()
			fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s (%s)\n", id.Username, id.Role)
			return nil
		},
	}

	cmd.Flags().StringVarP(&username, "username", "u", "", "username")
	cmd.Flags().StringVar(&password, "password", "", "password (prompted when omitted)")
	return cmd
}

func newLogoutCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(opts, false)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.sessions.Logout(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
			return nil
		},
	}
}

func newWhoamiCmd(opts *rootOptions) *cobra.Command {
	var offline bool

	cmd := &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged-in account, refreshed from the API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(opts, false)
			if err != nil {
				return err
			}
			defer a.Close()

			sc, err := a.restore(cmd.Context())
			if err != nil {
				return err
			}
			if !offline {
				if sc, err = a.sessions.Reload(cmd.Context(), a.gw); err != nil {
					return err
				}
			}
			printIdentity(cmd.OutOrStdout(), sc.Identity())
			return nil
		},
	}

	cmd.Flags().BoolVar(&offline, "offline", false, "show the stored identity without calling the API")
	return cmd
}

func printIdentity(w io.Writer, id *model.Identity) {
	name := strings.TrimSpace(id.FirstName + " " + id.LastName)
	if name == "" {
		name = "-"
	}
	fmt.Fprintf(w, "Username: %s\nName:     %s\nEmail:    %s\nRole:     %s\nBusiness: %d\n",
		id.Username, name, id.Email, id.Role, id.Business)
}

func prompt(w io.Writer, in *bufio.Reader, label string) (string, error) {
	fmt.Fprint(w, label)
	line, err := in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", fmt.Errorf("read %s: %w", strings.TrimSuffix(strings.ToLower(label), ": "), err)
	}
	return strings.TrimSpace(line), nil
}

// readPassword hides input on a terminal, reads a plain line otherwise
func readPassword(w io.Writer, raw io.Reader, in *bufio.Reader) (string, error) {
	if f, ok := raw.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fmt.Fprint(w, "Password: ")
		b, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(w)
		if err != nil {
			return "", fmt.Errorf("read password: %w", err)
		}
		return string(b), nil
	}
	return prompt(w, in, "Password: ")
}
