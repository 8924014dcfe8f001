package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"selectsense/internal/hint"
)

var hintCmd = &cobra.Command{
	Use:   "hint <selection...> --html <page>",
	Short: "Derive the structural hint for a selection from an HTML page",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		appInstance, err := GetAppFromContext(cmd.Context())
		if err != nil {
			return err
		}
		page, _ := cmd.Flags().GetString("html")
		if page == "" {
			return errors.New("--html is required")
		}

		res, err := appInstance.InputProcessor.Process(cmd.Context(), page)
		if err != nil {
			return err
		}
		selection := strings.Join(args, " ")
		h, err := hint.FromHTML(strings.NewReader(res.Body), selection)
		if err != nil {
			return fmt.Errorf("%q: %w", selection, err)
		}

		out := cmd.OutOrStdout()
		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			return writeJSON(out, h)
		}
		fmt.Fprintf(out, "looks like code: %s\n", yesNo(h.LooksLikeCode))
		fmt.Fprintf(out, "looks like math: %s\n", yesNo(h.LooksLikeMath))
		return nil
	},
}

func yesNo(b bool) string {
	if b {
		return color.GreenString("yes")
	}
	return "no"
}

func init() {
	rootCmd.AddCommand(hintCmd)
	hintCmd.Flags().String("html", "", "HTML page (path or URL) containing the selection")
	hintCmd.Flags().Bool("json", false, "Print the hint as JSON")
}
