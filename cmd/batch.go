package cmd

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"selectsense/internal/clix"
	"selectsense/internal/services"
	"selectsense/internal/util"
	"selectsense/pkg/categorizer"
)

const batchPreviewWidth = 60

var batchCmd = &cobra.Command{
	Use:   "batch [file|url]",
	Short: "Classify every segment of a document",
	Long: `Splits a document into selections and classifies each one concurrently.
Plain text is split by --split (line, paragraph, sentence or whole). HTML input,
or any input with --html, is split into block elements instead, each classified
with the hint derived from its own markup.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		appInstance, err := GetAppFromContext(cmd.Context())
		if err != nil {
			return err
		}
		ctx := cmd.Context()

		var (
			body   string
			isHTML bool
			src    = "stdin"
		)
		useStdin, _ := cmd.Flags().GetBool("stdin")
		switch {
		case len(args) == 1:
			res, err := appInstance.InputProcessor.Process(ctx, args[0])
			if err != nil {
				return err
			}
			body, isHTML, src = res.Body, res.IsHTML(), args[0]
		case useStdin:
			if body, err = clix.ReadStdin(cmd.InOrStdin()); err != nil {
				return err
			}
		default:
			return errors.New("no input given: pass a file or URL, or --stdin")
		}
		if forceHTML, _ := cmd.Flags().GetBool("html"); forceHTML {
			isHTML = true
		}

		var results []services.ItemResult
		svc := appInstance.ClassificationService
		if isHTML {
			results, err = svc.ClassifyHTML(ctx, strings.NewReader(body))
		} else {
			mode, modeErr := clix.ParseSplitMode(cmd.Flags())
			if modeErr != nil {
				return modeErr
			}
			results, err = svc.ClassifyText(ctx, []byte(body), src, mode, clix.ParseHint(cmd.Flags()))
		}
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			return writeJSON(out, results)
		}
		if len(results) == 0 {
			fmt.Fprintln(out, "No segments found.")
			return nil
		}

		header := []string{"#", "Category", "Text"}
		if isHTML {
			header = []string{"#", "Category", "Tag", "Text"}
		}
		table := tablewriter.NewWriter(out)
		table.SetHeader(header)
		table.SetAutoWrapText(false)
		table.SetBorder(true)

		counts := map[categorizer.Category]int{}
		for _, r := range results {
			counts[r.Category]++
			row := []string{strconv.Itoa(r.Index + 1), r.Category.String()}
			if isHTML {
				row = append(row, r.Tag)
			}
			row = append(row, util.Preview(r.Text, batchPreviewWidth))
			table.Append(row)
		}
		table.Render()

		var parts []string
		for _, c := range categorizer.Categories() {
			if n := counts[c]; n > 0 {
				parts = append(parts, fmt.Sprintf("%s %d", colorCategory(c), n))
			}
		}
		fmt.Fprintf(out, "\n%d segments: %s\n", len(results), strings.Join(parts, ", "))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(batchCmd)
	batchCmd.Flags().String("split", "line", "How to split plain text: line, paragraph, sentence or whole")
	batchCmd.Flags().Bool("html", false, "Treat the input as HTML and classify each block element")
	batchCmd.Flags().Bool("stdin", false, "Read the document from standard input")
	batchCmd.Flags().Bool("json", false, "Print results as JSON")
	clix.AddHintFlags(batchCmd.Flags())
}
