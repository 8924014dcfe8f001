package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"selectsense/pkg/categorizer"
)

var categoryColors = map[categorizer.Category]*color.Color{
	categorizer.CategoryCode:      color.New(color.FgCyan, color.Bold),
	categorizer.CategoryMath:      color.New(color.FgMagenta, color.Bold),
	categorizer.CategoryQuestion:  color.New(color.FgYellow, color.Bold),
	categorizer.CategoryTerm:      color.New(color.FgGreen, color.Bold),
	categorizer.CategoryForeign:   color.New(color.FgBlue, color.Bold),
	categorizer.CategoryParagraph: color.New(color.FgWhite, color.Bold),
}

func colorCategory(c categorizer.Category) string {
	if col, ok := categoryColors[c]; ok {
		return col.Sprint(c.String())
	}
	return color.New(color.Faint).Sprint(c.String())
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// writeExplanation prints the score table and contributing signals.
func writeExplanation(w io.Writer, res categorizer.Result) {
	if len(res.Scores) == 0 {
		fmt.Fprintf(w, "No scores (%s strategy).\n", res.Strategy)
		return
	}

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Category", "Score"})
	table.SetBorder(false)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	for _, c := range categorizer.Categories() {
		score, ok := res.Scores[c.String()]
		if !ok {
			continue
		}
		table.Append([]string{c.String(), fmt.Sprintf("%.2f", score)})
	}
	table.Render()

	if len(res.Signals) == 0 {
		return
	}
	signals := append([]categorizer.Signal(nil), res.Signals...)
	sort.SliceStable(signals, func(i, j int) bool { return signals[i].Category < signals[j].Category })

	fmt.Fprintln(w, "\nSignals:")
	for _, s := range signals {
		detail := ""
		if s.Detail != "" {
			detail = " (" + s.Detail + ")"
		}
		fmt.Fprintf(w, "  %-10s %+6.2f  %s%s\n", s.Category, s.Weight, s.Name, detail)
	}
}
