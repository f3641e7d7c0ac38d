package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/and161185/assetdesk/internal/errs"
	"github.com/and161185/assetdesk/internal/model"
)

// readPassword takes the password from the flag, else the first line of in.
func readPassword(flagValue string, in io.Reader) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", err
	}
	if p := strings.TrimRight(line, "\r\n"); p != "" {
		return p, nil
	}
	return "", fmt.Errorf("%w: password required", errs.ErrInvalidInput)
}

func (c *cli) loginCmd() *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and save the session token",
		RunE: func(cmd *cobra.Command, _ []string) error {
			pw, err := readPassword(password, cmd.InOrStdin())
			if err != nil {
				return err
			}
			next, err := c.app.Login(cmd.Context(), email, pw)
			if err != nil {
				return err
			}
			snap := c.app.Session.Snapshot()
			fmt.Fprintf(cmd.OutOrStdout(), "logged in as %s, continue at %s\n", snap.User.DisplayName(), next)
			return nil
		},
	}
	cmd.Flags().StringVarP(&email, "email", "u", "", "account email")
	cmd.Flags().StringVarP(&password, "password", "p", "", "password (read from stdin when empty)")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func (c *cli) logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the saved session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			c.app.Logout()
			fmt.Fprintln(cmd.OutOrStdout(), "logged out")
			return nil
		},
	}
}

func (c *cli) whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the current user",
		RunE: func(cmd *cobra.Command, _ []string) error {
			snap := c.app.Session.Snapshot()
			if snap.User == nil {
				if snap.Error != "" {
					return fmt.Errorf("%w: %s", errs.ErrUnauthorized, snap.Error)
				}
				return fmt.Errorf("%w: not logged in", errs.ErrUnauthorized)
			}
			printJSON(cmd.OutOrStdout(), snap.User)
			return nil
		},
	}
}

type registerFlags struct {
	email, password, fullName string
	roles                     []string
}

func (f *registerFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.email, "email", "u", "", "account email")
	cmd.Flags().StringVarP(&f.password, "password", "p", "", "password (read from stdin when empty)")
	cmd.Flags().StringVar(&f.fullName, "name", "", "full name")
	_ = cmd.MarkFlagRequired("email")
}

func (f *registerFlags) request(in io.Reader) (model.RegisterRequest, error) {
	pw, err := readPassword(f.password, in)
	if err != nil {
		return model.RegisterRequest{}, err
	}
	req := model.RegisterRequest{Email: f.email, Password: pw, Roles: f.roles}
	if f.fullName != "" {
		req.FullName = &f.fullName
	}
	return req, nil
}

func (c *cli) registerCmd() *cobra.Command {
	var f registerFlags
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and log in with it",
		RunE: func(cmd *cobra.Command, _ []string) error {
			req, err := f.request(cmd.InOrStdin())
			if err != nil {
				return err
			}
			if err := c.app.Session.Register(cmd.Context(), req); err != nil {
				return err
			}
			printJSON(cmd.OutOrStdout(), c.app.Session.Snapshot().User)
			return nil
		},
	}
	f.bind(cmd)
	return cmd
}

func (c *cli) usersCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "users", Short: "Administer accounts"}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List every account",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := c.require("/admin/users"); err != nil {
				return err
			}
			users, err := c.app.API.ListUsers(cmd.Context())
			if err != nil {
				return err
			}
			printJSON(cmd.OutOrStdout(), users)
			return nil
		},
	})

	var f registerFlags
	add := &cobra.Command{
		Use:   "add",
		Short: "Register another user without switching session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := c.require("/admin/register-user"); err != nil {
				return err
			}
			req, err := f.request(cmd.InOrStdin())
			if err != nil {
				return err
			}
			p, err := c.app.API.Register(cmd.Context(), req)
			if err != nil {
				c.app.Notifications.Error("Error", errs.Message(err))
				return err
			}
			c.app.Notifications.Success("Usuario registrado", p.DisplayName())
			printJSON(cmd.OutOrStdout(), p)
			return nil
		},
	}
	f.bind(add)
	add.Flags().StringSliceVar(&f.roles, "role", nil, "role to grant (repeatable)")
	cmd.AddCommand(add)
	return cmd
}
