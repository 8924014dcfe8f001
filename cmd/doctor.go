package cmd

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"selectsense/internal/app"
	"selectsense/internal/config"
	"selectsense/internal/inputprocessor"
	"selectsense/internal/models"
	"selectsense/internal/segment"
)

var doctorCmd = &cobra.Command{
	Use:         "doctor",
	Short:       "Check configuration, reply cache and assist provider",
	Annotations: map[string]string{skipAppAnnotation: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		ctx := cmd.Context()
		failed := 0

		cfg, err := loadConfig()
		if !check(out, "Load configuration", err) {
			return fmt.Errorf("doctor: configuration could not be loaded")
		}
		if !check(out, "Validate configuration", cfg.Validate()) {
			return fmt.Errorf("doctor: configuration is invalid")
		}

		appInstance, err := app.NewApp(ctx, cfg, inputprocessor.New(nil))
		if !check(out, "Initialize application", err) {
			return fmt.Errorf("doctor: initialization failed")
		}
		defer appInstance.Close()

		if !check(out, "Reply cache ("+cacheKind(cfg)+")", appInstance.ReplyCache.Ping(ctx)) {
			failed++
		}
		if !check(out, "Sentence tokenizer", tokenizerCheck()) {
			failed++
		}

		p := appInstance.Provider
		label := fmt.Sprintf("Assist provider %s", p.Name())
		switch {
		case p.Status() == models.ProviderStatusActive:
			check(out, label+" ("+p.ModelName()+")", nil)
		case cfg.MissingAPIKey():
			warn(out, label, "API key missing; assist is disabled")
		default:
			warn(out, label, "disabled")
		}

		if failed > 0 {
			return fmt.Errorf("doctor: %d check(s) failed", failed)
		}
		fmt.Fprintln(out, color.GreenString("\nAll checks passed."))
		return nil
	},
}

func check(w io.Writer, name string, err error) bool {
	if err != nil {
		fmt.Fprintf(w, "%s %s: %v\n", color.RedString("[FAIL]"), name, err)
		return false
	}
	fmt.Fprintf(w, "%s %s\n", color.GreenString("[ OK ]"), name)
	return true
}

func warn(w io.Writer, name, msg string) {
	fmt.Fprintf(w, "%s %s: %s\n", color.YellowString("[WARN]"), name, msg)
}

func cacheKind(cfg *config.Config) string {
	if cfg.Cache.DSN == "" {
		return "memory"
	}
	return "sqlite " + cfg.Cache.DSN
}

func tokenizerCheck() error {
	parts, err := segment.Split("It works. It really does.", segment.ModeSentence)
	if err != nil {
		return err
	}
	if len(parts) != 2 {
		return fmt.Errorf("expected 2 sentences, got %d", len(parts))
	}
	return nil
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}
