package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/skratchdot/open-golang/open"
	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/feedfort/internal/domain"
	"github.com/felixgeelhaar/feedfort/internal/ux"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Send pending feedback to Google Sheets (admin)",
	Long: `Ask the backend to append every feedback not yet synchronised to the
Google Sheets spreadsheet, or only one feedback with --id.

Examples:
  feedfort sync
  feedfort sync --open
  feedfort sync status
  feedfort sync test
  feedfort sync config --spreadsheet-id 1AbC...`,
	Args: cobra.NoArgs,
	RunE: withEnv(runSync),
}

var syncStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show how many feedbacks are synchronised (admin)",
	Args:  cobra.NoArgs,
	RunE:  withEnv(runSyncStatus),
}

var syncTestCmd = &cobra.Command{
	Use:   "test",
	Short: "Check that the backend can reach the spreadsheet (admin)",
	Args:  cobra.NoArgs,
	RunE:  withEnv(runSyncTest),
}

var syncConfigCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or change the spreadsheet the backend writes to (admin)",
	Long: `Show the backend's Google Sheets settings. With --spreadsheet-id the
backend switches to that spreadsheet and authenticates again.

Examples:
  feedfort sync config
  feedfort sync config --spreadsheet-id 1AbC...`,
	Args: cobra.NoArgs,
	RunE: withEnv(runSyncConfig),
}

var syncCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a new spreadsheet for the backend (admin)",
	Args:  cobra.NoArgs,
	RunE:  withEnv(runSyncCreate),
}

var (
	syncFeedbackID    int
	syncOpen          bool
	syncSpreadsheetID string
	syncTitle         string
)

// openURL is swapped in tests
var openURL = open.Run

func init() {
	syncCmd.Flags().IntVar(&syncFeedbackID, "id", 0, "synchronise a single feedback")
	syncCmd.Flags().BoolVar(&syncOpen, "open", false, "open the spreadsheet in the browser afterwards")

	syncConfigCmd.Flags().StringVar(&syncSpreadsheetID, "spreadsheet-id", "", "switch the backend to this spreadsheet")
	syncCreateCmd.Flags().StringVar(&syncTitle, "title", "", "spreadsheet title (backend default when empty)")

	syncCmd.AddCommand(syncStatusCmd, syncTestCmd, syncConfigCmd, syncCreateCmd)
	rootCmd.AddCommand(syncCmd)
}

func runSync(ctx context.Context, e *env, _ []string) error {
	if _, err := e.requireAdmin(); err != nil {
		return err
	}
	result, err := e.Client.SyncSheets(ctx, syncFeedbackID)
	if err != nil {
		return err
	}
	e.Logger.Info("sheets sync finished", "message", result.Message)

	f, err := e.Formatter()
	if err != nil {
		return err
	}
	if err := f.Format(ux.Text{Data: result, Render: syncText(result)}); err != nil {
		return err
	}

	if syncOpen && result.SpreadsheetURL != "" {
		if err := openURL(result.SpreadsheetURL); err != nil {
			e.Logger.WithError(err).Warn("could not open browser")
			_, _ = fmt.Fprintf(e.Out, "Não foi possível abrir o navegador: %s\n", result.SpreadsheetURL)
		}
	}
	return nil
}

func syncText(r *domain.SyncResult) string {
	var b strings.Builder
	b.WriteString(ux.PlainText(r.Message))
	if r.SpreadsheetURL != "" {
		b.WriteString("\nPlanilha: ")
		b.WriteString(r.SpreadsheetURL)
	}
	return b.String()
}

func runSyncStatus(ctx context.Context, e *env, _ []string) error {
	if _, err := e.requireAdmin(); err != nil {
		return err
	}
	status, err := e.Client.SyncStatus(ctx)
	if err != nil {
		return err
	}

	f, err := e.Formatter()
	if err != nil {
		return err
	}
	text := fmt.Sprintf("Total: %d\nSincronizados: %d\nPendentes: %d",
		status.TotalFeedbacks, status.Sincronizados, status.NaoSincronizados)
	if status.SpreadsheetURL != "" {
		text += "\nPlanilha: " + status.SpreadsheetURL
	}
	return f.Format(ux.Text{Data: status, Render: text})
}

func runSyncTest(ctx context.Context, e *env, _ []string) error {
	if _, err := e.requireAdmin(); err != nil {
		return err
	}
	result, err := e.Client.TestSheets(ctx)
	if err != nil {
		return err
	}
	return formatSheets(e, result)
}

func runSyncConfig(ctx context.Context, e *env, _ []string) error {
	if _, err := e.requireAdmin(); err != nil {
		return err
	}
	if syncSpreadsheetID != "" {
		result, err := e.Client.SetSpreadsheet(ctx, syncSpreadsheetID)
		if err != nil {
			return err
		}
		e.Logger.Info("spreadsheet changed", "spreadsheet_id", syncSpreadsheetID)
		return formatSheets(e, result)
	}

	cfg, err := e.Client.SheetsConfig(ctx)
	if err != nil {
		return err
	}
	f, err := e.Formatter()
	if err != nil {
		return err
	}
	auth := "não"
	if cfg.Authenticated {
		auth = "sim"
	}
	text := fmt.Sprintf("Planilha: %s\nCredenciais: %s\nAutenticado: %s",
		orDash(cfg.SpreadsheetID), orDash(cfg.CredentialsFile), auth)
	if cfg.SpreadsheetURL != "" {
		text += "\nURL: " + cfg.SpreadsheetURL
	}
	return f.Format(ux.Text{Data: cfg, Render: text})
}

func runSyncCreate(ctx context.Context, e *env, _ []string) error {
	if _, err := e.requireAdmin(); err != nil {
		return err
	}
	result, err := e.Client.CreateSpreadsheet(ctx, syncTitle)
	if err != nil {
		return err
	}
	e.Logger.Info("spreadsheet created", "spreadsheet_id", result.SpreadsheetID)
	return formatSheets(e, result)
}

func formatSheets(e *env, r *domain.SheetsResult) error {
	f, err := e.Formatter()
	if err != nil {
		return err
	}
	return f.Format(ux.Text{Data: r, Render: syncText(&domain.SyncResult{Message: r.Message, SpreadsheetURL: r.SpreadsheetURL})})
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
