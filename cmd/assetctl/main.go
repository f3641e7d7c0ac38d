// Command assetctl is a terminal front end for the asset management backend.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/and161185/assetdesk/internal/app"
	"github.com/and161185/assetdesk/internal/config"
	"github.com/and161185/assetdesk/internal/errs"
	"github.com/and161185/assetdesk/internal/guard"
	"github.com/and161185/assetdesk/internal/obs"
)

var (
	version   = "dev"
	buildDate = "unknown"
)

// cli carries global flags and the client core built for one invocation.
type cli struct {
	configPath string
	baseURL    string
	tokenPath  string
	logLevel   string

	// opts is overridden by tests.
	opts app.Options
	app  *app.App
}

func main() {
	c := &cli{}
	if err := execute(context.Background(), c, newRootCmd(c)); err != nil {
		fmt.Fprintln(os.Stderr, "error:", errs.Message(err))
		os.Exit(1)
	}
}

func newRootCmd(c *cli) *cobra.Command {
	root := &cobra.Command{
		Use:           "assetctl",
		Short:         "Manage tech assets, assignments and maintenance",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "version" {
				return nil
			}
			return c.start(cmd.Context())
		},
	}
	root.PersistentFlags().StringVarP(&c.configPath, "config", "c", "", "config file (YAML)")
	root.PersistentFlags().StringVar(&c.baseURL, "base-url", "", "backend URL (overrides config)")
	root.PersistentFlags().StringVar(&c.tokenPath, "token-file", "", "token file (overrides config)")
	root.PersistentFlags().StringVar(&c.logLevel, "log-level", "", "log level (overrides config)")

	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "assetctl %s (%s)\n", version, buildDate)
		},
	})
	root.AddCommand(
		c.loginCmd(), c.logoutCmd(), c.whoamiCmd(), c.registerCmd(), c.usersCmd(),
		c.menuCmd(), c.dashboardsCmd(), c.openCmd(),
		c.assetsCmd(), c.assignmentsCmd(), c.maintenanceCmd(), c.inventoryDashboardCmd(),
	)
	return root
}

// execute runs root and then reports whatever the command left in the notification queue,
// including the error notifications of failed mutations.
func execute(ctx context.Context, c *cli, root *cobra.Command) error {
	err := root.ExecuteContext(ctx)
	c.flushNotifications(root.ErrOrStderr())
	return err
}

// start loads config, applies flag overrides and restores the persisted session.
func (c *cli) start(ctx context.Context) error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	if c.baseURL != "" {
		cfg.BaseURL = c.baseURL
	}
	if c.tokenPath != "" {
		cfg.TokenPath = c.tokenPath
	}
	if c.logLevel != "" {
		cfg.LogLevel = c.logLevel
	}

	opts := c.opts
	if opts.Logger == nil {
		log, err := obs.NewLogger(cfg.LogLevel, true)
		if err != nil {
			return err
		}
		opts.Logger = log
	}
	a, err := app.New(cfg, opts)
	if err != nil {
		return err
	}
	c.app = a
	// a failed restore leaves the session anonymous with Error set
	_ = a.Start(ctx)
	return nil
}

// require guards a command the way the navigation route table guards the page at path.
func (c *cli) require(path string) error {
	d := c.app.Navigate(path)
	switch d.Outcome {
	case guard.Render:
		return nil
	case guard.RedirectLogin:
		return fmt.Errorf("%w: login required (assetctl login)", errs.ErrUnauthorized)
	case guard.RedirectUnauthorized:
		return fmt.Errorf("%w: not enough permissions for %s", errs.ErrUnauthorized, path)
	case guard.NotFound:
		return fmt.Errorf("%w: %s", errs.ErrNotFound, path)
	default:
		return fmt.Errorf("%s: session is still loading", path)
	}
}

// flushNotifications prints and drops queued notifications.
func (c *cli) flushNotifications(w io.Writer) {
	if c.app == nil {
		return
	}
	for _, n := range c.app.Notifications.List() {
		fmt.Fprintf(w, "[%s] %s: %s\n", n.Kind, n.Title, n.Message)
	}
	c.app.Close()
}

func printJSON(w io.Writer, v any) {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}
