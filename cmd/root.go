package cmd

import (
	"context"
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"selectsense/internal/app"
	"selectsense/internal/config"
	"selectsense/internal/inputprocessor"
)

var (
	cfgFile  string
	logLevel string
)

// skipAppAnnotation marks commands that build their own dependencies.
const skipAppAnnotation = "skip-app"

var rootCmd = &cobra.Command{
	Use:   "selectsense",
	Short: "Classify highlighted text and run follow-up actions on it",
	Long: `selectsense decides what kind of content a text selection is (code, math,
question, term, foreign text, paragraph or general) and offers the matching
follow-up actions, which can be run through an LLM provider.`,
	SilenceUsage: true,
	Run: func(cmd *cobra.Command, args []string) {
		// If no subcommand is given, print help.
		_ = cmd.Help()
	},
	// PersistentPreRunE runs before any subcommand's RunE
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Annotations[skipAppAnnotation] == "true" {
			return nil
		}

		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		appInstance, err := app.NewApp(cmd.Context(), cfg, inputprocessor.New(nil))
		if err != nil {
			return fmt.Errorf("failed to initialize app: %w", err)
		}

		// Store the app instance in the command's context
		cmd.SetContext(context.WithValue(cmd.Context(), appKey, appInstance))
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if appInstance, err := GetAppFromContext(cmd.Context()); err == nil {
			return appInstance.Close()
		}
		return nil
	},
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfig(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	return cfg, nil
}

func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		log.Debugf("command failed: %v", err)
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// Define a custom type for the context key to avoid collisions.
type contextKey string

const appKey contextKey = "app"

// GetAppFromContext retrieves the app instance stored by PersistentPreRunE.
func GetAppFromContext(ctx context.Context) (*app.App, error) {
	if ctx == nil {
		return nil, fmt.Errorf("application instance not found in context")
	}
	appInstance, ok := ctx.Value(appKey).(*app.App)
	if !ok || appInstance == nil {
		return nil, fmt.Errorf("application instance not found in context")
	}
	return appInstance, nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config file (default ./config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Override log.level (debug, info, warn, error)")
	rootCmd.SilenceErrors = true
}
