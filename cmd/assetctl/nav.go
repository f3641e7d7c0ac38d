package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/and161185/assetdesk/internal/model"
)

func printMenu(w io.Writer, items []model.MenuItem, depth int) {
	for _, it := range items {
		line := strings.Repeat("  ", depth) + it.Title
		if it.Path != "" {
			line += "  " + it.Path
		}
		fmt.Fprintln(w, line)
		printMenu(w, it.Children, depth+1)
	}
}

func (c *cli) menuCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "menu",
		Short: "Show the navigation menu for the current roles",
		RunE: func(cmd *cobra.Command, _ []string) error {
			items := c.app.Menu()
			if asJSON {
				printJSON(cmd.OutOrStdout(), items)
				return nil
			}
			printMenu(cmd.OutOrStdout(), items, 0)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}

func (c *cli) dashboardsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dashboards [id]",
		Short: "List embeddable dashboards, or show one",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				if err := c.require("/dashboards"); err != nil {
					return err
				}
				printJSON(cmd.OutOrStdout(), c.app.Dashboards())
				return nil
			}
			if err := c.require("/dashboards/" + args[0]); err != nil {
				return err
			}
			d, err := c.app.Dashboard(args[0])
			if err != nil {
				return err
			}
			printJSON(cmd.OutOrStdout(), d)
			return nil
		},
	}
}

type decisionView struct {
	Outcome  string            `json:"outcome"`
	Location string            `json:"location"`
	From     string            `json:"from,omitempty"`
	Params   map[string]string `json:"params,omitempty"`
}

func (c *cli) openCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "open <path>",
		Short: "Resolve a page path through the route guards",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d := c.app.Navigate(args[0])
			printJSON(cmd.OutOrStdout(), decisionView{
				Outcome:  d.Outcome.String(),
				Location: d.Location,
				From:     d.From,
				Params:   d.Params,
			})
			return nil
		},
	}
}
