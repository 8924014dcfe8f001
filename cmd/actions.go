package cmd

import (
	"fmt"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"selectsense/pkg/categorizer"
)

var actionsCmd = &cobra.Command{
	Use:   "actions [category]",
	Short: "List the actions offered for each category",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		appInstance, err := GetAppFromContext(cmd.Context())
		if err != nil {
			return err
		}

		categories := categorizer.Categories()
		if len(args) == 1 {
			c, err := categorizer.ParseCategory(args[0])
			if err != nil {
				return err
			}
			categories = []categorizer.Category{c}
		}

		table := tablewriter.NewWriter(cmd.OutOrStdout())
		table.SetHeader([]string{"Category", "Action", "Label", "Needs Question"})
		table.SetAutoMergeCells(true)
		table.SetRowLine(true)
		for _, c := range categories {
			for _, a := range appInstance.Actions.ForCategory(c) {
				needs := ""
				if a.NeedsQuestion {
					needs = "yes"
				}
				table.Append([]string{c.String(), a.ID, a.Label, needs})
			}
		}
		table.Render()

		if len(args) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "\nAlso available on whole documents: summarize-page")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(actionsCmd)
}
