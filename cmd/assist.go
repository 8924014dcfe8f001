package cmd

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"selectsense/internal/actions"
	"selectsense/internal/assist"
)

var assistCmd = &cobra.Command{
	Use:   "assist <action> [text...]",
	Short: "Run an action on a selection through the configured LLM provider",
	Long: `Classifies the selection, renders the action's prompt and prints the model's reply.
Replies are cached by provider, model, action, question and selection.
Run "selectsense actions" to list action ids.`,
	Example: `  selectsense assist define "Machine Learning"
  selectsense assist ask --question "Is this thread-safe?" --input snippet.go
  selectsense assist summarize-page --input https://example.com/article`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		appInstance, err := GetAppFromContext(cmd.Context())
		if err != nil {
			return err
		}
		actionID := args[0]

		var text string
		input, _ := cmd.Flags().GetString("input")
		if actionID == actions.SummarizePage && input != "" {
			res, err := appInstance.InputProcessor.Process(cmd.Context(), input)
			if err != nil {
				return err
			}
			if text, err = documentText(res); err != nil {
				return err
			}
		} else if text, err = readSelection(cmd, appInstance, args[1:]); err != nil {
			return err
		}

		h, err := resolveHint(cmd, appInstance, text)
		if err != nil {
			return err
		}
		question, _ := cmd.Flags().GetString("question")

		resp, err := appInstance.AssistService.Assist(cmd.Context(), assist.Request{
			Text:     text,
			Hint:     h,
			ActionID: actionID,
			Question: question,
		})
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			return writeJSON(out, resp)
		}

		status := fmt.Sprintf("%s via %s/%s", resp.Action.Label, resp.Provider, resp.Model)
		if resp.Cached {
			status += " " + color.YellowString("(cached)")
		}
		fmt.Fprintf(out, "[%s] %s\n\n", colorCategory(resp.Category), status)
		fmt.Fprintln(out, strings.TrimSpace(resp.Reply))

		if !resp.Cached {
			if summary, err := appInstance.CostTracker.Summary(cmd.Context()); err == nil && summary.Events > 0 {
				fmt.Fprintf(out, "\n%s\n", color.New(color.Faint).Sprintf("tokens: %d in / %d out, cost $%.6f",
					summary.TotalInputTokens, summary.TotalOutputTokens, summary.TotalCost))
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(assistCmd)
	addSelectionFlags(assistCmd)
	assistCmd.Flags().StringP("question", "q", "", "Question for the ask action")
	assistCmd.Flags().Bool("json", false, "Print the response as JSON")
}
