package cmd

import (
	"errors"
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"selectsense/internal/app"
	"selectsense/internal/clix"
	"selectsense/internal/hint"
	"selectsense/internal/inputprocessor"
	"selectsense/pkg/categorizer"
)

// addSelectionFlags registers the flags shared by commands that take a
// single selection.
func addSelectionFlags(cmd *cobra.Command) {
	cmd.Flags().String("input", "", "Read the selection from a file path or URL")
	cmd.Flags().Bool("stdin", false, "Read the selection from standard input")
	cmd.Flags().String("html", "", "HTML page (path or URL) the selection was taken from; used to derive the hint")
	clix.AddHintFlags(cmd.Flags())
}

// readSelection resolves the selection from --input, --stdin or args, in
// that order.
func readSelection(cmd *cobra.Command, a *app.App, args []string) (string, error) {
	input, _ := cmd.Flags().GetString("input")
	useStdin, _ := cmd.Flags().GetBool("stdin")

	switch {
	case input != "":
		res, err := a.InputProcessor.Process(cmd.Context(), input)
		if err != nil {
			return "", err
		}
		return res.Body, nil
	case useStdin:
		return clix.ReadStdin(cmd.InOrStdin())
	case len(args) > 0:
		return strings.Join(args, " "), nil
	default:
		return "", errors.New("no selection given: pass text as arguments, --input or --stdin")
	}
}

// resolveHint combines the --code/--math flags with the hint derived from
// the --html page, if any.
func resolveHint(cmd *cobra.Command, a *app.App, selection string) (categorizer.StructuralHint, error) {
	h := clix.ParseHint(cmd.Flags())
	page, _ := cmd.Flags().GetString("html")
	if page == "" {
		return h, nil
	}

	res, err := a.InputProcessor.Process(cmd.Context(), page)
	if err != nil {
		return h, fmt.Errorf("failed to read html page: %w", err)
	}
	derived, err := hint.FromHTML(strings.NewReader(res.Body), selection)
	if errors.Is(err, hint.ErrSelectionNotFound) {
		log.Warnf("Selection not found in %s; classifying without markup hint.", page)
		return h, nil
	}
	if err != nil {
		return h, err
	}
	h.LooksLikeCode = h.LooksLikeCode || derived.LooksLikeCode
	h.LooksLikeMath = h.LooksLikeMath || derived.LooksLikeMath
	return h, nil
}

// documentText extracts the readable text of an HTML page; other content
// is returned unchanged.
func documentText(res inputprocessor.Result) (string, error) {
	if !res.IsHTML() {
		return res.Body, nil
	}
	return hint.PageText(strings.NewReader(res.Body))
}
