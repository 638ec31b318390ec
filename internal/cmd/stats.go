package cmd

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/feedfort/internal/domain"
	"github.com/felixgeelhaar/feedfort/internal/ux"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show feedback counts (admin)",
	Args:  cobra.NoArgs,
	RunE:  withEnv(runStats),
}

var evolutionCmd = &cobra.Command{
	Use:   "evolution",
	Short: "Show the daily average rating (admin)",
	Args:  cobra.NoArgs,
	RunE:  withEnv(runEvolution),
}

func init() {
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(evolutionCmd)
}

func runStats(ctx context.Context, e *env, _ []string) error {
	if _, err := e.requireAdmin(); err != nil {
		return err
	}
	stats, err := e.Client.Stats(ctx)
	if err != nil {
		return err
	}

	f, err := e.Formatter()
	if err != nil {
		return err
	}
	return f.Format(ux.Text{Data: stats, Render: statsText(stats)})
}

func statsText(s *domain.Stats) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Total de feedbacks: %d\n", s.TotalFeedbacks)
	fmt.Fprintf(&b, "Diários:            %d\n", s.FeedbacksDiarios)
	fmt.Fprintf(&b, "Positivos:          %d\n", s.FeedbacksPositivos)
	fmt.Fprintf(&b, "Negativos:          %d\n", s.FeedbacksNegativos)
	fmt.Fprintf(&b, "Experiência:        %d\n", s.FeedbacksExperiencia)

	if len(s.StatsPorSetor) > 0 {
		sectors := append([]domain.SectorStats(nil), s.StatsPorSetor...)
		sort.Slice(sectors, func(i, j int) bool { return sectors[i].SetorNome < sectors[j].SetorNome })

		table := ux.NewTable("SETOR", "TOTAL", "DIÁRIOS", "POSITIVOS", "NEGATIVOS", "EXPERIÊNCIA")
		for _, sec := range sectors {
			table.Add(sec.SetorNome, fmt.Sprint(sec.TotalFeedbacks), fmt.Sprint(sec.FeedbacksDiarios),
				fmt.Sprint(sec.FeedbacksPositivos), fmt.Sprint(sec.FeedbacksNegativos), fmt.Sprint(sec.FeedbacksExperiencia))
		}
		b.WriteString("\n")
		b.WriteString(table.String())
	}
	return strings.TrimRight(b.String(), "\n")
}

func runEvolution(ctx context.Context, e *env, _ []string) error {
	if _, err := e.requireAdmin(); err != nil {
		return err
	}
	evo, err := e.Client.DailyEvolution(ctx)
	if err != nil {
		return err
	}

	f, err := e.Formatter()
	if err != nil {
		return err
	}
	return f.Format(ux.Text{Data: evo, Render: evolutionTable(evo)})
}

func evolutionTable(evo *domain.DailyEvolution) any {
	n := evo.Points()
	if n == 0 {
		return "Sem dados para exibir"
	}
	table := ux.NewTable("DATA", "MÉDIA", "")
	for i := 0; i < n; i++ {
		avg := evo.Averages[i]
		table.Add(evo.Dates[i], fmt.Sprintf("%.2f", avg), strings.Repeat("█", max(0, int(avg*4+0.5))))
	}
	return table
}
