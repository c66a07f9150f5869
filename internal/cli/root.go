// Package cli provides the command-line interface for the investment digest.
package cli

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"investment-digest/internal/config"
	"investment-digest/internal/logging"
	"investment-digest/internal/pipeline"
	"investment-digest/internal/security"
)

// Version information
const (
	Version   = "1.0.0"
	BuildDate = "2026-03-01"
)

// sampleSeed keeps sample runs reproducible.
const sampleSeed = 42

// App holds the application dependencies.
type App struct {
	Config *config.Config
	Logger zerolog.Logger

	// OutputDir is where --save-html writes; the working directory when empty.
	OutputDir string
	// Open is used by --preview; the system browser when nil.
	Open pipeline.Opener
}

// Execute runs the root command and prints a single failure line on error.
func Execute() error {
	cmd := NewRootCmd(&App{})
	if err := cmd.Execute(); err != nil {
		NewPlainOutput(cmd.ErrOrStderr(), false).Error("%v", security.MaskError(err))
		return err
	}
	return nil
}

// NewRootCmd creates the root command for the CLI.
func NewRootCmd(app *App) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "digest",
		Short: "Investment tracker digest - emails a due-date report of your portfolio",
		Long: `digest queries the investment tracker, groups entries by their next action
date (overdue, due today, this week, this month) and emails an HTML summary.

Examples:
  digest --dry-run            # Fetch real data, don't send email
  digest --sample --preview   # Use sample data and preview in browser
  digest --validate           # Just check if configuration is valid`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			configFile, _ := cmd.Flags().GetString("config")
			cfg, err := config.Load(configFile)
			if err != nil {
				return err
			}
			app.Config = cfg

			verbose, _ := cmd.Flags().GetBool("verbose")
			logCfg := logging.DefaultLogConfig()
			logCfg.Level = cfg.Log.Level
			if verbose {
				logCfg.Level = "debug"
			}
			logCfg.Out = cmd.ErrOrStderr()
			logCfg.NoColor = !isTerminal()
			logCfg.FilePath = cfg.Log.File
			app.Logger = logging.NewLoggerWithConfig(logCfg)

			app.Logger.Debug().
				Str("source", cfg.Source.Kind).
				Str("transport", cfg.Email.Transport).
				Msg("Configuration loaded")
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReport(cmd, app)
		},
	}

	rootCmd.PersistentFlags().String("config", "", "optional config file (TOML or YAML)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "show detailed logging")

	flags := rootCmd.Flags()
	flags.BoolP("dry-run", "d", false, "fetch data and generate report without sending email")
	flags.BoolP("sample", "s", false, "use sample data instead of fetching from the tracker")
	flags.BoolP("preview", "p", false, "generate HTML preview and open in browser")
	flags.Bool("save-html", false, "save the generated HTML to 'report.html'")
	flags.Bool("validate", false, "only validate configuration without running")

	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newInitCmd())
	rootCmd.AddCommand(newConfigCmd(app))
	rootCmd.AddCommand(newSeedCmd(app))

	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			output := NewOutput(cmd)
			output.Printf("Investment Digest v%s\n", Version)
			output.Printf("Build date: %s\n", BuildDate)
		},
	}
}
