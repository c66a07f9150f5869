package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"investment-digest/internal/config"
	"investment-digest/internal/records"
	"investment-digest/internal/security"
	"investment-digest/pkg/utils"
)

func newInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write configuration templates",
		Long:  "Write a .env template (and optionally a TOML config file) to fill in with your credentials.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			force, _ := cmd.Flags().GetBool("force")
			envPath, _ := cmd.Flags().GetString("env-file")
			tomlPath, _ := cmd.Flags().GetString("toml")

			if err := config.WriteEnvTemplate(envPath, force); err != nil {
				return err
			}
			output.Success("Created template at %s", envPath)

			if tomlPath != "" {
				if err := config.WriteConfigTemplate(tomlPath, force); err != nil {
					return err
				}
				output.Success("Created template at %s", tomlPath)
			}
			output.Info("Copy it to .env and fill in the required values, then run 'digest --validate'")
			return nil
		},
	}
	cmd.Flags().String("env-file", ".env.example", "path of the environment template")
	cmd.Flags().String("toml", "", "also write a TOML config template to this path")
	cmd.Flags().Bool("force", false, "overwrite existing files")
	return cmd
}

func newConfigCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Show the effective configuration",
		Long:  "Show the effective configuration. Secret values are masked.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			showConfig(output, app.Config)
			return nil
		},
	}
}

func showConfig(output *Output, cfg *config.Config) {
	rows := []struct {
		key   string
		value string
	}{
		{"source.kind", cfg.Source.Kind},
		{"notion.api_key", cfg.Notion.APIKey},
		{"notion.database_id", cfg.Notion.DatabaseID},
		{"notion.base_url", cfg.Notion.BaseURL},
		{"source.sqlite_path", cfg.Source.SQLitePath},
		{"source.postgres_url", cfg.Source.PostgresURL},
		{"source.table", cfg.Source.Table},
		{"email.transport", cfg.Email.Transport},
		{"email.resend_api_key", cfg.Email.ResendAPIKey},
		{"email.from", cfg.Email.From},
		{"email.to", cfg.Email.To},
		{"email.smtp.host", cfg.Email.SMTP.Host},
		{"email.smtp.port", strconv.Itoa(cfg.Email.SMTP.Port)},
		{"email.smtp.password", cfg.Email.SMTP.Password},
		{"report.currency", cfg.Report.Currency},
		{"report.timezone", cfg.Report.Timezone},
		{"report.timeout", cfg.Report.Timeout.String()},
		{"log.level", cfg.Log.Level},
		{"log.file", cfg.Log.File},
	}

	table := NewTable(output, "Setting", "Value")
	for _, r := range rows {
		value := r.value
		switch {
		case value == "":
			value = output.ColoredString(ColorDim, "(unset)")
		case security.IsSensitiveField(lastSegment(r.key)):
			value = security.MaskCredential(value)
		default:
			value = utils.TruncateString(security.MaskString(value), maxConfigValueWidth)
		}
		table.AddRow(r.key, value)
	}
	table.Render()
}

const maxConfigValueWidth = 60

func lastSegment(key string) string {
	return key[strings.LastIndex(key, ".")+1:]
}

func newSeedCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load sample investments into a SQLite tracker",
		Long: `Create the investments table in a SQLite database and fill it with the sample
portfolio, so the SQLite source can be tried without a hosted tracker.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			dbPath, _ := cmd.Flags().GetString("db")
			if dbPath == "" {
				dbPath = app.Config.Source.SQLitePath
			}
			if dbPath == "" {
				return fmt.Errorf("no database path: pass --db or set RECORDS_SQLITE_PATH")
			}
			table := app.Config.Source.Table

			src, err := records.CreateSQLiteSource(dbPath)
			if err != nil {
				return err
			}
			defer src.Close()

			ctx := cmd.Context()
			if err := src.EnsureSchema(ctx, table); err != nil {
				return err
			}

			today := utils.Today(app.Config.Location())
			recs := records.NewSampleSource(today, sampleSeed).Generate()
			for _, rec := range recs {
				if err := src.Insert(ctx, table, rec); err != nil {
					return err
				}
			}

			app.Logger.Info().Str("db", dbPath).Int("count", len(recs)).Msg("Seeded sample investments")
			output.Success("Seeded %d sample investments into %s (%s, as of %s)",
				len(recs), dbPath, table, today.Format(time.DateOnly))
			return nil
		},
	}
	cmd.Flags().String("db", "", "SQLite database path (default: RECORDS_SQLITE_PATH)")
	return cmd
}
