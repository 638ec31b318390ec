package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/felixgeelhaar/feedfort/internal/app"
	"github.com/felixgeelhaar/feedfort/internal/domain"
	"github.com/felixgeelhaar/feedfort/internal/ux"
)

// View renders the TUI (required by Bubble Tea)
func (m *Model) View() string {
	if m.quitting {
		return "Até logo!\n"
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")

	switch {
	case m.state.Overlay != app.OverlayNone:
		b.WriteString(m.styles.Border.Render(m.renderOverlay()))
	default:
		b.WriteString(m.renderScreen())
	}
	b.WriteString("\n")

	if m.state.Confirm != nil {
		b.WriteString("\n")
		b.WriteString(m.renderConfirm())
		b.WriteString("\n")
	}

	if m.state.IsLoading() {
		b.WriteString("\n")
		b.WriteString(m.spinner.View() + " " + m.styles.Muted.Render("Carregando..."))
		b.WriteString("\n")
	}

	if toasts := m.renderToasts(); toasts != "" {
		b.WriteString("\n")
		b.WriteString(toasts)
	}

	if m.form == nil {
		b.WriteString(m.renderHelpLine())
	}
	return b.String()
}

func (m *Model) renderHeader() string {
	title := m.styles.Title.Render("Feedback de Funcionários")
	if m.state.Banner == "" {
		return title
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, title, "  ", m.styles.Muted.Render(m.state.Banner))
}

func (m *Model) renderScreen() string {
	s := m.state
	switch s.Screen {
	case app.LoginScreen:
		if m.form == nil {
			return m.styles.Muted.Render("Aguarde...")
		}
		return m.form.View()
	case app.DashboardScreen:
		return m.renderDashboard()
	case app.ExperienceSubtypeScreen:
		labels := make([]string, len(domain.ProbationSubtypes))
		for i, t := range domain.ProbationSubtypes {
			labels[i] = t.Title()
		}
		return m.renderList("Experiência", labels, "")
	case app.SectorScreen:
		labels := make([]string, len(s.Sectors))
		for i, sector := range s.Sectors {
			labels[i] = sector.Nome
		}
		return m.renderList(m.draftTitle()+" · Selecione o setor", labels, "Nenhum setor cadastrado")
	case app.EmployeeScreen:
		return m.renderEmployees()
	case app.FeedbackFormScreen:
		return m.renderFeedbackForm()
	case app.HistoryScreen:
		return m.renderHistory()
	case app.DailyEvolutionChartScreen:
		return m.renderEvolution()
	}
	return "Unknown view"
}

func (m *Model) renderDashboard() string {
	items := m.menu()
	labels := make([]string, len(items))
	for i, item := range items {
		labels[i] = item.label
	}
	return m.renderList("Selecione o tipo de feedback", labels, "")
}

// renderList draws a titled cursor list
func (m *Model) renderList(title string, labels []string, empty string) string {
	var b strings.Builder
	b.WriteString(m.styles.Subtitle.Render(title))
	b.WriteString("\n")
	if len(labels) == 0 {
		b.WriteString(m.styles.Muted.Render(empty))
		return b.String()
	}
	for i, label := range labels {
		if i == m.cursor {
			b.WriteString(m.styles.Highlighted.Render("› " + label))
		} else {
			b.WriteString("  " + label)
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m *Model) draftTitle() string {
	if m.state.Draft.Type != "" {
		return m.state.Draft.Type.Title()
	}
	return m.state.Draft.Flow.Label()
}

func (m *Model) renderEmployees() string {
	s := m.state
	now := m.app.Now()
	labels := make([]string, len(s.Employees))
	for i, e := range s.Employees {
		label := e.Nome
		if e.Cargo != "" {
			label += " - " + e.Cargo
		}
		if s.Draft.IsProbationFlow() && e.SetorNome != "" {
			label += " (" + e.SetorNome + ")"
		}
		if days, ok := e.ProbationDaysLeft(now); ok {
			label += m.styles.Warning.Render(fmt.Sprintf("  experiência: %d dias", days))
		}
		labels[i] = label
	}
	title := m.draftTitle() + " · Selecione o funcionário"
	if s.Draft.Sector != nil {
		title += " · " + s.Draft.Sector.Name
	}
	return m.renderList(title, labels, "Nenhum funcionário encontrado")
}

func (m *Model) renderFeedbackForm() string {
	s := m.state
	var b strings.Builder
	if s.Draft.Employee != nil {
		b.WriteString(m.styles.Muted.Render("Funcionário: "))
		b.WriteString(s.Draft.Employee.Name)
		if s.Draft.Sector != nil {
			b.WriteString(m.styles.Muted.Render("  Setor: "))
			b.WriteString(s.Draft.Sector.Name)
		}
		b.WriteString("\n\n")
	}

	if !s.Draft.Type.IsRating() {
		if m.form != nil {
			b.WriteString(m.form.View())
		} else {
			b.WriteString(m.styles.Muted.Render("Enviando..."))
		}
		return b.String()
	}

	b.WriteString(m.styles.Subtitle.Render(s.Draft.Type.Title()))
	b.WriteString("\n")
	attrs := s.Ratings.Attributes()
	if len(attrs) == 0 {
		b.WriteString(m.styles.Muted.Render("Nenhum atributo de avaliação neste setor"))
		return b.String()
	}

	width := 0
	for _, a := range attrs {
		width = max(width, lipgloss.Width(a))
	}
	for i, attr := range attrs {
		marker := "  "
		if i == m.cursor {
			marker = m.styles.Key.Render("› ")
		}
		name := attr + strings.Repeat(" ", width-lipgloss.Width(attr))
		b.WriteString(fmt.Sprintf("%s%s  %s  %s\n", marker, name, m.renderStars(attr), m.styles.Muted.Render(s.Ratings.Label(attr))))
	}
	return strings.TrimRight(b.String(), "\n")
}

// renderStars draws the five-star control of one attribute
func (m *Model) renderStars(attr string) string {
	var b strings.Builder
	for i := 1; i <= app.MaxStars; i++ {
		if m.state.Ratings.Filled(attr, i) {
			b.WriteString(m.styles.StarOn.Render("★"))
		} else {
			b.WriteString(m.styles.StarOff.Render("☆"))
		}
	}
	return b.String()
}

func (m *Model) renderHistory() string {
	s := m.state
	var b strings.Builder

	filter := "Todos"
	if s.HistoryFilter != "" {
		filter = s.HistoryFilter.Title()
	}
	b.WriteString(m.styles.Subtitle.Render("Histórico de Feedbacks · Filtro: " + filter))
	b.WriteString("\n")

	if len(s.History) == 0 {
		b.WriteString(m.styles.Muted.Render("Nenhum feedback encontrado"))
		return b.String()
	}

	admin := s.IsAdmin()
	headers := []string{"DATA", "TIPO", "FUNCIONÁRIO", "SETOR"}
	if admin {
		headers = append(headers, "AUTOR")
	}
	table := ux.NewTable(headers...)
	for _, f := range s.History {
		row := []string{feedbackTime(f), f.Tipo.Title(), ux.PlainText(f.FuncionarioNome), ux.PlainText(f.SetorNome)}
		if admin {
			row = append(row, ux.PlainText(f.AutorUsername))
		}
		table.Add(row...)
	}
	lines := strings.Split(table.String(), "\n")
	b.WriteString(m.styles.Muted.Render(lines[0]))
	b.WriteString("\n")
	for i, line := range lines[1:] {
		if i == m.cursor {
			b.WriteString(m.styles.Highlighted.Render(line))
		} else {
			b.WriteString(line)
		}
		b.WriteString("\n")
	}

	if m.cursor < len(s.History) {
		b.WriteString("\n")
		b.WriteString(m.styles.Border.Render(feedbackDetail(s.History[m.cursor])))
	}
	return b.String()
}

// feedbackTime formats data_feedback for display
func feedbackTime(f domain.Feedback) string {
	if t, ok := f.Time(); ok {
		return t.Format(domain.DisplayDateTimeLayout)
	}
	return f.DataFeedback
}

// feedbackDetail renders the body of one feedback record
func feedbackDetail(f domain.Feedback) string {
	var b strings.Builder
	for _, attr := range f.RatedAttributes() {
		b.WriteString(fmt.Sprintf("%s: %.0f/5\n", ux.PlainText(attr), f.Avaliacoes[attr]))
	}
	if f.Descricao != "" {
		b.WriteString(ux.PlainText(f.Descricao))
		b.WriteString("\n")
	}
	if f.Detalhes != "" {
		b.WriteString(ux.PlainText(f.Detalhes))
		b.WriteString("\n")
	}
	if f.RecomendaEfetivacao != nil {
		answer := "Não"
		if *f.RecomendaEfetivacao {
			answer = "Sim"
		}
		b.WriteString("Recomenda efetivação: " + answer + "\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m *Model) renderEvolution() string {
	var b strings.Builder
	b.WriteString(m.styles.Subtitle.Render("Evolução diária da média das avaliações"))
	b.WriteString("\n")
	evo := m.state.Evolution
	if evo == nil {
		b.WriteString(m.styles.Muted.Render("Sem dados para exibir"))
		return b.String()
	}
	width := 60
	if m.width > 20 {
		width = min(m.width-12, 100)
	}
	b.WriteString(renderChart(evo.Dates, evo.Averages, width, 11))
	return b.String()
}

func (m *Model) renderOverlay() string {
	if m.form != nil && m.kind.isPanel() {
		return m.form.View()
	}

	s := m.state
	switch s.Overlay {
	case app.OverlayUsers:
		labels := make([]string, len(s.Users.Items))
		for i, u := range s.Users.Items {
			labels[i] = fmt.Sprintf("%s  %s  %s", u.Username, m.styles.Muted.Render(u.Email), u.UserType)
		}
		return m.renderList("Usuários", labels, "Nenhum usuário")
	case app.OverlaySectors:
		labels := make([]string, len(s.SectorAdmin.Items))
		for i, sector := range s.SectorAdmin.Items {
			labels[i] = sector.Nome
			if sector.Descricao != "" {
				labels[i] += "  " + m.styles.Muted.Render(ux.Truncate(ux.OneLine(ux.PlainText(sector.Descricao)), 50))
			}
		}
		return m.renderList("Setores", labels, "Nenhum setor")
	case app.OverlayEmployees:
		labels := make([]string, len(s.EmployeeAdmin.Items))
		for i, e := range s.EmployeeAdmin.Items {
			labels[i] = fmt.Sprintf("%s  %s  %s", e.Nome, m.styles.Muted.Render(e.Cargo), s.SectorName(e.SetorID))
			if e.EmExperiencia {
				labels[i] += m.styles.Warning.Render("  experiência até " + e.ProbationEnd().Display())
			}
		}
		return m.renderList("Funcionários", labels, "Nenhum funcionário")
	case app.OverlayAttributes:
		panel := s.AttributeAdmin
		if panel.SectorID == 0 {
			labels := make([]string, len(panel.Sectors))
			for i, sector := range panel.Sectors {
				labels[i] = sector.Nome
			}
			return m.renderList("Atributos · Selecione o setor", labels, "Nenhum setor")
		}
		name := "N/A"
		for _, sector := range panel.Sectors {
			if sector.ID == panel.SectorID {
				name = sector.Nome
			}
		}
		return m.renderList("Atributos · "+name, panel.Items, "Nenhum atributo")
	case app.OverlayStats:
		return m.renderStats()
	case app.OverlaySync:
		return m.renderSync()
	}
	return ""
}

func (m *Model) renderStats() string {
	st := m.state.Stats
	if st == nil {
		return m.styles.Muted.Render("Sem estatísticas")
	}
	var b strings.Builder
	b.WriteString(m.styles.Subtitle.Render("Estatísticas"))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("Total de feedbacks:  %s\n", m.styles.Status.Render(fmt.Sprint(st.TotalFeedbacks))))
	b.WriteString(fmt.Sprintf("Diários:             %d\n", st.FeedbacksDiarios))
	b.WriteString(fmt.Sprintf("Positivos:           %d\n", st.FeedbacksPositivos))
	b.WriteString(fmt.Sprintf("Negativos:           %d\n", st.FeedbacksNegativos))
	b.WriteString(fmt.Sprintf("Experiência:         %d\n", st.FeedbacksExperiencia))

	if len(st.StatsPorSetor) > 0 {
		sectors := append([]domain.SectorStats(nil), st.StatsPorSetor...)
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

func (m *Model) renderSync() string {
	r := m.state.SyncResult
	if r == nil {
		return ""
	}
	var b strings.Builder
	b.WriteString(m.styles.Success.Render(ux.PlainText(r.Message)))
	if r.SpreadsheetURL != "" {
		b.WriteString("\n\n")
		b.WriteString(m.styles.Muted.Render("Planilha: "))
		b.WriteString(r.SpreadsheetURL)
	}
	return b.String()
}

// renderConfirm renders the pending yes/no question
func (m *Model) renderConfirm() string {
	prompt := m.styles.Warning.Render(m.state.Confirm.Prompt)
	yes := m.styles.Key.Render("[s]") + " " + m.styles.KeyDesc.Render("Sim")
	no := m.styles.Key.Render("[n/Esc]") + " " + m.styles.KeyDesc.Render("Não")
	return m.styles.Border.BorderForeground(lipgloss.Color("226")).Render(prompt + "\n\n" + yes + "  " + no)
}

func (m *Model) renderToasts() string {
	var lines []string
	for _, n := range m.state.Notifications {
		style := m.styles.Status
		switch n.Kind {
		case app.NotifySuccess:
			style = m.styles.Success
		case app.NotifyError:
			style = m.styles.Error
		}
		lines = append(lines, m.styles.Toast.Inherit(style).Render(n.Message))
	}
	if len(lines) == 0 {
		return ""
	}
	return strings.Join(lines, "\n") + "\n"
}

// renderHelpLine renders the help line at the bottom
func (m *Model) renderHelpLine() string {
	return m.styles.Help.Render(m.help.View(m.contextKeys()))
}

// contextKeys lists the bindings that do something in the current view
func (m *Model) contextKeys() contextKeys {
	s := m.state
	var bindings []key.Binding
	switch {
	case s.Confirm != nil:
		bindings = []key.Binding{keys.Yes, keys.No}
	case s.Overlay == app.OverlayAttributes && s.AttributeAdmin.SectorID > 0:
		bindings = []key.Binding{keys.Up, keys.Down, keys.Add, keys.Delete, keys.Switch, keys.Back}
	case s.Overlay == app.OverlayUsers, s.Overlay == app.OverlaySectors, s.Overlay == app.OverlayEmployees:
		bindings = []key.Binding{keys.Up, keys.Down, keys.New, keys.Edit, keys.Delete, keys.Back}
	case s.Overlay == app.OverlaySync:
		bindings = []key.Binding{keys.Open, keys.Back}
	case s.Overlay != app.OverlayNone:
		bindings = []key.Binding{keys.Up, keys.Down, keys.Select, keys.Back}
	case s.Screen == app.FeedbackFormScreen:
		bindings = []key.Binding{keys.Up, keys.Down, keys.Stars, keys.Left, keys.Right, keys.Select, keys.Back}
	case s.Screen == app.HistoryScreen:
		bindings = []key.Binding{keys.Up, keys.Down, keys.Filter, keys.Delete, keys.Back}
	case s.Screen == app.DailyEvolutionChartScreen:
		bindings = []key.Binding{keys.Back}
	case s.Screen == app.DashboardScreen:
		bindings = []key.Binding{keys.Up, keys.Down, keys.Select, keys.Quit}
	default:
		bindings = []key.Binding{keys.Up, keys.Down, keys.Select, keys.Back}
	}
	return contextKeys{short: append(bindings, keys.Help, keys.ForceQuit)}
}
