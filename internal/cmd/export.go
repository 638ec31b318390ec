package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/feedfort/internal/errors"
	"github.com/felixgeelhaar/feedfort/internal/export"
	"github.com/felixgeelhaar/feedfort/internal/tui"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Save the feedback history as an .xlsx spreadsheet",
	Long: `Save the feedback history as an Excel workbook with the same columns as
the Google Sheets spreadsheet: ID, date, type, sector, employee, author, one
column per rated attribute and the description.

Accepts the same filters as history.

Examples:
  feedfort export --out feedbacks.xlsx
  feedfort export --out negativas.xlsx --tipo negativa --force`,
	Args: cobra.NoArgs,
	RunE: withEnv(runExport),
}

var (
	exportOpts  historyFlags
	exportOut   string
	exportForce bool
)

// confirmOverwrite is swapped in tests
var confirmOverwrite = func(path string) (bool, error) {
	return tui.PromptForConfirmation(fmt.Sprintf("%s já existe. Sobrescrever?", path), false)
}

func init() {
	exportOpts.register(exportCmd)
	exportCmd.Flags().StringVar(&exportOut, "out", "feedbacks.xlsx", "output file")
	exportCmd.Flags().BoolVarP(&exportForce, "force", "f", false, "overwrite an existing file")

	rootCmd.AddCommand(exportCmd)
}

func runExport(ctx context.Context, e *env, _ []string) error {
	filter, err := exportOpts.filter()
	if err != nil {
		return err
	}

	if _, err := os.Stat(exportOut); err == nil && !exportForce {
		if !shouldPrompt() {
			return errors.New(errors.ErrCodeFileWriteFailed, exportOut+" já existe").
				WithSuggestion("Use --force para sobrescrever")
		}
		ok, err := confirmOverwrite(exportOut)
		if err != nil {
			return err
		}
		if !ok {
			_, err := fmt.Fprintln(e.Out, "Exportação cancelada")
			return err
		}
	}

	sess, err := e.requireSession()
	if err != nil {
		return err
	}
	feedbacks, err := e.Client.ListFeedback(ctx, filter)
	if err != nil {
		return err
	}
	if !sess.IsAdmin() {
		// the column layout matches the Sheets export; authors stay blank
		for i := range feedbacks {
			feedbacks[i].AutorUsername = ""
		}
	}

	if err := export.WriteFile(exportOut, feedbacks); err != nil {
		return err
	}
	e.Logger.Info("history exported", "path", exportOut, "count", len(feedbacks))
	_, err = fmt.Fprintf(e.Out, "%d feedbacks exportados para %s\n", len(feedbacks), exportOut)
	return err
}
