package clix

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/pflag"

	"selectsense/internal/segment"
	"selectsense/internal/util"
	"selectsense/pkg/categorizer"
)

type PaginationParams struct {
	Limit  int
	Offset int
}

func ParsePagination(flags *pflag.FlagSet) (PaginationParams, error) {
	limit, _ := flags.GetInt("limit")
	offset, _ := flags.GetInt("offset")
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return PaginationParams{Limit: limit, Offset: offset}, nil
}

// AddHintFlags registers --code and --math on flags.
func AddHintFlags(flags *pflag.FlagSet) {
	flags.Bool("code", false, "Selection sits inside code markup (pre, code, .code-block)")
	flags.Bool("math", false, "Selection sits inside math markup (math, .katex, .mathjax, ...)")
}

// ParseHint reads the --code and --math flags.
func ParseHint(flags *pflag.FlagSet) categorizer.StructuralHint {
	code, _ := flags.GetBool("code")
	math, _ := flags.GetBool("math")
	return categorizer.StructuralHint{LooksLikeCode: code, LooksLikeMath: math}
}

// ParseSplitMode reads the --split flag, defaulting to line mode.
func ParseSplitMode(flags *pflag.FlagSet) (segment.Mode, error) {
	s, _ := flags.GetString("split")
	if strings.TrimSpace(s) == "" {
		return segment.ModeLine, nil
	}
	return segment.ParseMode(s)
}

// ParseStrategy reads the --strategy flag. An empty value keeps the
// configured strategy.
func ParseStrategy(flags *pflag.FlagSet) (categorizer.Strategy, error) {
	s, _ := flags.GetString("strategy")
	switch st := categorizer.Strategy(strings.ToLower(strings.TrimSpace(s))); st {
	case "", categorizer.StrategyScoring, categorizer.StrategyCascade:
		return st, nil
	default:
		return "", fmt.Errorf("--strategy must be scoring or cascade (got %q)", s)
	}
}

// ReadStdin reads and cleans all of r.
func ReadStdin(r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("failed to read stdin: %w", err)
	}
	return util.CleanText(data, "stdin")
}
