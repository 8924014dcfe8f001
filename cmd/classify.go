package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"selectsense/internal/clix"
	"selectsense/internal/util"
	"selectsense/pkg/categorizer"
)

var classifyCmd = &cobra.Command{
	Use:   "classify [text...]",
	Short: "Classify a text selection",
	Long: `Prints the content category of a selection and the actions offered for it.
The selection comes from the arguments, --input (file or URL) or --stdin.
Use --code/--math or --html to pass the structural hint of the surrounding markup.`,
	Example: `  selectsense classify "What is a closure?"
  selectsense classify --code "total"
  selectsense classify --html page.html --explain "useState"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		appInstance, err := GetAppFromContext(cmd.Context())
		if err != nil {
			return err
		}

		text, err := readSelection(cmd, appInstance, args)
		if err != nil {
			return err
		}
		h, err := resolveHint(cmd, appInstance, text)
		if err != nil {
			return err
		}

		classifier := appInstance.Classifier
		strategy, err := clix.ParseStrategy(cmd.Flags())
		if err != nil {
			return err
		}
		if strategy != "" {
			opts := classifier.Options()
			opts.Strategy = strategy
			classifier = categorizer.New(opts)
		}

		res, err := classifier.Categorize(cmd.Context(), categorizer.Request{Text: text, Hint: h})
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			return writeJSON(out, res)
		}

		fmt.Fprintf(out, "Selection: %s\n", util.Preview(text, 72))
		fmt.Fprintf(out, "Category:  %s\n", colorCategory(res.Category))

		acts := appInstance.Actions.ForCategory(res.Category)
		labels := make([]string, len(acts))
		for i, a := range acts {
			labels[i] = fmt.Sprintf("%s (%s)", a.Label, a.ID)
		}
		fmt.Fprintf(out, "Actions:   %s\n", strings.Join(labels, ", "))

		if explain, _ := cmd.Flags().GetBool("explain"); explain {
			fmt.Fprintln(out)
			writeExplanation(out, res)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(classifyCmd)
	addSelectionFlags(classifyCmd)
	classifyCmd.Flags().Bool("explain", false, "Show the scores and signals behind the decision")
	classifyCmd.Flags().String("strategy", "", "Override classifier.strategy (scoring or cascade)")
	classifyCmd.Flags().Bool("json", false, "Print the result as JSON")
}
