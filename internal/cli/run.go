package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"investment-digest/internal/config"
	apperrors "investment-digest/internal/errors"
	"investment-digest/internal/notify"
	"investment-digest/internal/pipeline"
	"investment-digest/internal/records"
	"investment-digest/internal/render"
	"investment-digest/internal/security"
)

func runReport(cmd *cobra.Command, app *App) error {
	flags := cmd.Flags()
	dryRun, _ := flags.GetBool("dry-run")
	sample, _ := flags.GetBool("sample")
	preview, _ := flags.GetBool("preview")
	saveHTML, _ := flags.GetBool("save-html")
	validateOnly, _ := flags.GetBool("validate")
	verbose, _ := flags.GetBool("verbose")

	output := NewOutput(cmd)
	cfg := app.Config

	if validateOnly {
		return validateConfig(output, cfg, sample)
	}

	if err := validateConfig(output, cfg, sample); err != nil && !sample {
		return err
	}
	output.Println()

	opts := pipeline.Options{Verbose: verbose}
	if sample {
		opts.Source = pipeline.SourceSample
	}
	if dryRun {
		opts.Send = pipeline.SendDry
	}
	if saveHTML {
		opts.Output |= pipeline.OutputSave
	}
	if preview {
		opts.Output |= pipeline.OutputPreview
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	p := &pipeline.Pipeline{
		CollectionID: cfg.CollectionID(),
		Renderer:     render.NewRenderer(cfg.Report.Currency, cfg.SourceURL()),
		From:         cfg.Email.From,
		To:           cfg.Email.To,
		Location:     cfg.Location(),
		Timeout:      cfg.Report.Timeout,
		SampleSeed:   sampleSeed,
		OutputDir:    app.OutputDir,
		Console:      output,
		Open:         app.Open,
		Logger:       app.Logger,
	}

	if !sample {
		src, closer, err := buildSource(ctx, cfg)
		if err != nil {
			return err
		}
		if closer != nil {
			defer closer.Close()
		}
		p.Source = src
	}
	if !opts.DryRun() {
		transport, err := buildTransport(cfg)
		if err != nil {
			return err
		}
		p.Transport = transport
	}

	if _, err := p.Run(ctx, opts); err != nil {
		if apperrors.Is(err, apperrors.ErrFetchFailed) {
			output.Info("Try using --sample flag to test with sample data")
		}
		return err
	}

	output.Println()
	output.Success("Report completed successfully! ✨")
	return nil
}

// validateConfig reports each required setting as found or missing. Found
// values are shown masked in verbose mode.
func validateConfig(output *Output, cfg *config.Config, sample bool) error {
	output.Info("Validating configuration...")

	for _, s := range cfg.RequiredSettings() {
		if strings.TrimSpace(s.Value) == "" {
			output.Error("Missing: %s", s.Name)
			continue
		}
		output.Debug("Found: %s = %s", s.Name, security.MaskCredential(s.Value))
	}

	err := cfg.Validate()
	var cfgErr *apperrors.ConfigError
	switch {
	case err == nil:
		output.Success("All required environment variables are configured!")
		return nil
	case errors.As(err, &cfgErr):
		output.Error("Configuration incomplete! Missing %d required variables.", len(cfgErr.Missing))
		output.Warning("Please create a .env file with the required variables (see 'digest init')")
		if !sample {
			output.Info("You can still test with sample data using: digest --sample")
		}
	default:
		output.Error("Invalid configuration: %v", err)
	}
	return err
}

func buildSource(ctx context.Context, cfg *config.Config) (records.Source, io.Closer, error) {
	switch cfg.Source.Kind {
	case config.SourceSQLite:
		src, err := records.NewSQLiteSource(cfg.Source.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return src, src, nil
	case config.SourcePostgres:
		connectCtx, cancel := context.WithTimeout(ctx, cfg.Report.Timeout)
		defer cancel()
		src, err := records.NewPostgresSource(connectCtx, cfg.Source.PostgresURL)
		if err != nil {
			return nil, nil, apperrors.NewFetchError("postgres", cfg.Source.Table, err)
		}
		return src, src, nil
	case config.SourceNotion:
		return records.NewNotionSource(records.NotionConfig{
			APIKey:  cfg.Notion.APIKey,
			BaseURL: cfg.Notion.BaseURL,
			Version: cfg.Notion.Version,
			Timeout: cfg.Report.Timeout,
		}), nil, nil
	default:
		return nil, nil, fmt.Errorf("unknown records source %q", cfg.Source.Kind)
	}
}

func buildTransport(cfg *config.Config) (notify.Transport, error) {
	switch cfg.Email.Transport {
	case config.TransportSMTP:
		return notify.NewSMTPTransport(notify.SMTPConfig{
			Host:     cfg.Email.SMTP.Host,
			Port:     cfg.Email.SMTP.Port,
			Username: cfg.Email.SMTP.Username,
			Password: cfg.Email.SMTP.Password,
		}), nil
	case config.TransportResend:
		return notify.NewResendTransport(cfg.Email.ResendAPIKey, cfg.Email.ResendURL, cfg.Report.Timeout), nil
	default:
		return nil, fmt.Errorf("unknown email transport %q", cfg.Email.Transport)
	}
}
