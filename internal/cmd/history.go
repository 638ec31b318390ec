package cmd

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/feedfort/internal/domain"
	"github.com/felixgeelhaar/feedfort/internal/errors"
	"github.com/felixgeelhaar/feedfort/internal/tui"
	"github.com/felixgeelhaar/feedfort/internal/ux"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List submitted feedback",
	Long: `List submitted feedback, newest first as returned by the API.

Examples:
  feedfort history
  feedfort history --tipo negativa
  feedfort history --setor 2 --from 2024-05-01 --to 2024-05-31 --format json`,
	Args: cobra.NoArgs,
	RunE: withEnv(runHistory),
}

var historyDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a feedback record",
	Long: `Delete a feedback record by id. Regular users may delete only the feedback
they wrote; admins may delete any record.

Examples:
  feedfort history delete 42
  feedfort history delete 42 --force`,
	Args: cobra.ExactArgs(1),
	RunE: withEnv(runHistoryDelete),
}

var historyDeleteForce bool

// confirmDelete is swapped in tests
var confirmDelete = func(id int) (bool, error) {
	return tui.PromptForConfirmation(fmt.Sprintf("Tem certeza que deseja excluir o feedback %d?", id), false)
}

// historyFlags are shared by history and export
type historyFlags struct {
	tipo        string
	setor       int
	funcionario int
	from        string
	to          string
}

var historyOpts historyFlags

func (h *historyFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&h.tipo, "tipo", "", "feedback type (diario, positiva, negativa, diario_experiencia, final_experiencia)")
	cmd.Flags().IntVar(&h.setor, "setor", 0, "sector id")
	cmd.Flags().IntVar(&h.funcionario, "funcionario", 0, "employee id")
	cmd.Flags().StringVar(&h.from, "from", "", "first day, YYYY-MM-DD")
	cmd.Flags().StringVar(&h.to, "to", "", "last day, YYYY-MM-DD")
	_ = cmd.RegisterFlagCompletionFunc("tipo", completeFeedbackTypes)
}

// filter turns the flags into an API filter
func (h *historyFlags) filter() (domain.HistoryFilter, error) {
	f := domain.HistoryFilter{SetorID: h.setor, FuncionarioID: h.funcionario}
	if h.tipo != "" {
		t, err := domain.NewFeedbackType(h.tipo)
		if err != nil {
			return f, errors.NewValidationError(err.Error())
		}
		f.Tipo = t
	}
	for _, d := range []struct {
		raw string
		dst *domain.Date
	}{{h.from, &f.From}, {h.to, &f.To}} {
		if d.raw == "" {
			continue
		}
		parsed, err := domain.ParseDate(d.raw)
		if err != nil {
			return f, errors.NewValidationError(err.Error())
		}
		*d.dst = parsed
	}
	if !f.From.IsZero() && !f.To.IsZero() && f.To.Time().Before(f.From.Time()) {
		return f, errors.NewValidationError("--to deve ser igual ou posterior a --from")
	}
	return f, nil
}

func init() {
	historyOpts.register(historyCmd)
	historyDeleteCmd.Flags().BoolVarP(&historyDeleteForce, "force", "f", false, "delete without asking")

	historyCmd.AddCommand(historyDeleteCmd)
	rootCmd.AddCommand(historyCmd)
}

func runHistory(ctx context.Context, e *env, _ []string) error {
	filter, err := historyOpts.filter()
	if err != nil {
		return err
	}
	sess, err := e.requireSession()
	if err != nil {
		return err
	}

	feedbacks, err := e.Client.ListFeedback(ctx, filter)
	if err != nil {
		return err
	}
	e.Logger.Debug("history loaded", "count", len(feedbacks), "tipo", filter.Tipo.String())

	f, err := e.Formatter()
	if err != nil {
		return err
	}
	return f.Format(ux.Text{Data: feedbacks, Render: historyTable(feedbacks, sess.IsAdmin())})
}

func runHistoryDelete(ctx context.Context, e *env, args []string) error {
	id, err := strconv.Atoi(args[0])
	if err != nil || id <= 0 {
		return errors.NewValidationError("id inválido: " + args[0])
	}
	if _, err := e.requireSession(); err != nil {
		return err
	}

	if !historyDeleteForce {
		if !shouldPrompt() {
			return errors.New(errors.ErrCodeValidation, "Confirmação necessária para excluir o feedback").
				WithSuggestion("Use --force para excluir sem perguntar")
		}
		ok, err := confirmDelete(id)
		if err != nil {
			return err
		}
		if !ok {
			_, err := fmt.Fprintln(e.Out, "Exclusão cancelada")
			return err
		}
	}

	if err := e.Client.DeleteFeedback(ctx, id); err != nil {
		return err
	}
	e.Logger.Info("feedback deleted", "id", id)
	_, err = fmt.Fprintf(e.Out, "Feedback %d excluído\n", id)
	return err
}

// historyTable renders feedbacks as a table; the author column is shown to
// admins only
func historyTable(feedbacks []domain.Feedback, admin bool) any {
	if len(feedbacks) == 0 {
		return "Nenhum feedback encontrado"
	}
	headers := []string{"ID", "DATA", "TIPO", "FUNCIONÁRIO", "SETOR"}
	if admin {
		headers = append(headers, "AUTOR")
	}
	table := ux.NewTable(append(headers, "RESUMO")...)
	for _, fb := range feedbacks {
		when := fb.DataFeedback
		if t, ok := fb.Time(); ok {
			when = t.Format(domain.DisplayDateTimeLayout)
		}
		row := []string{
			fmt.Sprint(fb.ID),
			when,
			fb.Tipo.Title(),
			ux.PlainText(fb.FuncionarioNome),
			ux.PlainText(fb.SetorNome),
		}
		if admin {
			row = append(row, ux.PlainText(fb.AutorUsername))
		}
		table.Add(append(row, summary(fb))...)
	}
	return table
}

// summary is the one-line body of a feedback: its ratings or its text
func summary(fb domain.Feedback) string {
	if len(fb.Avaliacoes) > 0 {
		var total float64
		for _, v := range fb.Avaliacoes {
			total += v
		}
		return fmt.Sprintf("média %.1f em %d atributos", total/float64(len(fb.Avaliacoes)), len(fb.Avaliacoes))
	}
	text := fb.Descricao
	if text == "" {
		text = fb.Detalhes
	}
	return ux.Truncate(ux.OneLine(ux.PlainText(text)), 60)
}
