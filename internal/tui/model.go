package tui

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/skratchdot/open-golang/open"

	"github.com/felixgeelhaar/feedfort/internal/app"
	"github.com/felixgeelhaar/feedfort/internal/domain"
)

// toastTTL is how long a notification stays on screen
const toastTTL = 4 * time.Second

// Model is the Bubble Tea model over an app.App. It renders the latest
// State snapshot and turns keys into controller operations, which run as
// commands off the UI goroutine.
type Model struct {
	app   *app.App
	ctx   context.Context
	state app.State

	// updates carries a signal per store update; nil disables the
	// subscription
	updates     <-chan struct{}
	unsubscribe func()

	// dispatch turns an operation into a command
	dispatch func(op func() tea.Msg) tea.Cmd

	// UI state
	styles   Styles
	spinner  spinner.Model
	help     help.Model
	showHelp bool
	cursor   int
	view     viewKey
	width    int
	height   int
	quitting bool

	// Form state
	form   *huh.Form
	kind   formKind
	values *formValues

	historyFilter int
	lastToast     int
	toastTTL      time.Duration
	openURL       func(url string) error
}

// viewKey identifies what is on screen; a change resets the cursor
type viewKey struct {
	screen  app.Screen
	overlay app.Overlay
	sector  int
}

// stateMsg signals that the store changed
type stateMsg struct{}

// doneMsg reports that an operation finished
type doneMsg struct {
	kind formKind
	err  error
}

// dismissMsg expires a notification
type dismissMsg struct {
	id int
}

// historyFilters is the cycle of the history type filter; "" is "all"
var historyFilters = append([]domain.FeedbackType{""}, domain.AllFeedbackTypes...)

// NewModel creates a new TUI model bound to a and subscribed to its store
func NewModel(ctx context.Context, a *app.App) *Model {
	var (
		mu     sync.Mutex
		closed bool
	)
	updates := make(chan struct{}, 1)
	unsub := a.Store().Subscribe(func(app.State) {
		mu.Lock()
		defer mu.Unlock()
		if closed {
			return
		}
		select {
		case updates <- struct{}{}:
		default:
		}
	})
	// closing updates releases a pending waitForState
	unsubscribe := func() {
		unsub()
		mu.Lock()
		defer mu.Unlock()
		if !closed {
			closed = true
			close(updates)
		}
	}

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = DefaultStyles().Status

	return &Model{
		app:         a,
		ctx:         ctx,
		state:       a.Store().Snapshot(),
		updates:     updates,
		unsubscribe: unsubscribe,
		dispatch:    func(op func() tea.Msg) tea.Cmd { return op },
		styles:      DefaultStyles(),
		spinner:     s,
		help:        help.New(),
		toastTTL:    toastTTL,
		openURL:     open.Run,
	}
}

// Init restores the session and starts listening to the store
func (m *Model) Init() tea.Cmd {
	restore := m.run(formNone, func(ctx context.Context) error {
		m.app.Restore(ctx)
		return nil
	})
	return tea.Batch(m.spinner.Tick, m.waitForState(), restore)
}

// Close drops the store subscription
func (m *Model) Close() {
	if m.unsubscribe != nil {
		m.unsubscribe()
		m.unsubscribe = nil
	}
}

func (m *Model) waitForState() tea.Cmd {
	if m.updates == nil {
		return nil
	}
	ch := m.updates
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return nil
		}
		return stateMsg{}
	}
}

// run wraps a controller operation; its result comes back as doneMsg
func (m *Model) run(kind formKind, op func(ctx context.Context) error) tea.Cmd {
	ctx := m.ctx
	return m.dispatch(func() tea.Msg {
		return doneMsg{kind: kind, err: op(ctx)}
	})
}

// Update handles messages and updates the model state (required by Bubble Tea)
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		if m.form != nil {
			return m.updateForm(msg)
		}
		return m, nil

	case stateMsg:
		return m, tea.Batch(m.refresh(), m.waitForState())

	case doneMsg:
		return m, tea.Batch(m.refresh(), m.afterDone(msg))

	case dismissMsg:
		m.app.Dismiss(msg.id)
		return m, m.refresh()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	if m.form != nil {
		return m.updateForm(msg)
	}
	return m, nil
}

// refresh pulls the latest snapshot and reconciles the form and cursor
// with it
func (m *Model) refresh() tea.Cmd {
	m.state = m.app.Store().Snapshot()

	next := viewKey{
		screen:  m.state.Screen,
		overlay: m.state.Overlay,
		sector:  m.state.AttributeAdmin.SectorID,
	}
	if next != m.view {
		m.view = next
		m.cursor = 0
		if m.kind.isPanel() {
			m.closeForm()
		}
	}
	m.clampCursor()

	var cmds []tea.Cmd
	cmds = append(cmds, m.syncScreenForm())
	for _, n := range m.state.Notifications {
		if n.ID <= m.lastToast {
			continue
		}
		m.lastToast = n.ID
		if m.toastTTL > 0 {
			id := n.ID
			cmds = append(cmds, tea.Tick(m.toastTTL, func(time.Time) tea.Msg { return dismissMsg{id: id} }))
		}
	}
	return tea.Batch(cmds...)
}

// syncScreenForm opens the form a screen owns, or closes one whose screen
// is gone
func (m *Model) syncScreenForm() tea.Cmd {
	s := m.state
	want := formNone
	switch {
	case s.Screen == app.LoginScreen && m.state.Overlay == app.OverlayNone:
		want = formLogin
	case s.Screen == app.FeedbackFormScreen && s.Draft.Type.IsOccurrence():
		want = formOccurrence
	case s.Screen == app.FeedbackFormScreen && s.Draft.Type == domain.FeedbackFinalProbation:
		want = formFinal
	}

	if m.kind == want || (want == formNone && m.kind.isPanel()) {
		return nil
	}
	if want == formNone {
		m.closeForm()
		return nil
	}
	return m.openForm(want, &formValues{})
}

// openForm builds and focuses the form of kind over v
func (m *Model) openForm(kind formKind, v *formValues) tea.Cmd {
	m.kind = kind
	m.values = v
	switch kind {
	case formLogin:
		m.form = loginForm(v)
	case formOccurrence:
		m.form = occurrenceForm(v, m.state.Draft.Type)
	case formFinal:
		text := "Data de fim da experiência indisponível"
		if end, days, ok := m.app.ProbationCountdown(); ok {
			text = countdownText(end, days)
		}
		m.form = finalForm(v, text)
	case formUser:
		m.form = userForm(v)
	case formSector:
		m.form = sectorForm(v)
	case formEmployee:
		m.form = employeeForm(v, m.state.EmployeeFKs)
	case formAttribute:
		m.form = attributeForm(v)
	default:
		m.closeForm()
		return nil
	}
	if m.width > 0 {
		m.form = m.form.WithWidth(min(m.width-4, 80))
	}
	return m.form.Init()
}

func (m *Model) closeForm() {
	m.form = nil
	m.kind = formNone
	m.values = nil
}

func (m *Model) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	model, cmd := m.form.Update(msg)
	if f, ok := model.(*huh.Form); ok {
		m.form = f
	}
	switch m.form.State {
	case huh.StateCompleted:
		return m, tea.Batch(cmd, m.submitForm())
	case huh.StateAborted:
		m.closeForm()
		m.quitting = true
		return m, tea.Quit
	}
	return m, cmd
}

// submitForm sends the completed form. The form stays hidden until the
// operation reports back; afterDone reopens it on failure.
func (m *Model) submitForm() tea.Cmd {
	kind, v := m.kind, m.values
	m.form = nil
	if v == nil {
		m.kind = formNone
		return nil
	}

	return m.run(kind, func(ctx context.Context) error {
		switch kind {
		case formLogin:
			return m.app.Login(ctx, v.username, v.password)
		case formOccurrence:
			return m.app.SubmitOccurrence(ctx, v.text)
		case formFinal:
			return m.app.SubmitFinal(ctx, v.text, recommendation(v.recomenda))
		case formUser:
			return m.app.Users().Save(ctx, v.editID, v.userInput())
		case formSector:
			return m.app.Sectors().Save(ctx, v.editID, v.sectorInput())
		case formEmployee:
			return m.app.Employees().Save(ctx, v.editID, v.employeeInput())
		case formAttribute:
			return m.app.AddAttribute(ctx, v.atributo)
		}
		return nil
	})
}

// afterDone closes a form whose operation succeeded and reopens it with
// the same values when it failed, unless its screen is gone
func (m *Model) afterDone(msg doneMsg) tea.Cmd {
	if msg.kind == formNone || msg.kind != m.kind || m.form != nil {
		return nil
	}
	if msg.err == nil {
		m.closeForm()
		return m.syncScreenForm()
	}
	v := m.values
	if msg.kind == formLogin {
		v.password = ""
	}
	return m.openForm(msg.kind, v)
}

// handleKeyPress handles keyboard input
func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, keys.ForceQuit) {
		return m.quit()
	}

	if m.state.Confirm != nil {
		switch {
		case key.Matches(msg, keys.Yes):
			return m, m.run(formNone, func(ctx context.Context) error { return m.app.ResolveConfirm(ctx, true) })
		case key.Matches(msg, keys.No):
			return m, m.run(formNone, func(ctx context.Context) error { return m.app.ResolveConfirm(ctx, false) })
		}
		return m, nil
	}

	if m.form != nil {
		if key.Matches(msg, keys.Back) {
			return m, m.cancelForm()
		}
		return m.updateForm(msg)
	}

	if m.kind != formNone {
		// a submitted form is waiting for its result
		return m, nil
	}

	if key.Matches(msg, keys.Help) {
		m.showHelp = !m.showHelp
		m.help.ShowAll = m.showHelp
		return m, nil
	}

	if m.state.Overlay != app.OverlayNone {
		return m, m.handleOverlayKey(msg)
	}
	return m, m.handleScreenKey(msg)
}

func (m *Model) quit() (tea.Model, tea.Cmd) {
	m.quitting = true
	m.Close()
	return m, tea.Quit
}

// cancelForm leaves the current form without submitting
func (m *Model) cancelForm() tea.Cmd {
	switch {
	case m.kind.isPanel():
		m.closeForm()
		return nil
	case m.kind == formOccurrence || m.kind == formFinal:
		m.closeForm()
		return m.run(formNone, func(ctx context.Context) error {
			m.app.Back(ctx)
			return nil
		})
	}
	return nil
}

func (m *Model) handleScreenKey(msg tea.KeyMsg) tea.Cmd {
	s := m.state
	switch {
	case key.Matches(msg, keys.Up):
		m.moveCursor(-1)
		return nil
	case key.Matches(msg, keys.Down):
		m.moveCursor(1)
		return nil
	case key.Matches(msg, keys.Back) && s.Screen != app.LoginScreen:
		return m.run(formNone, func(ctx context.Context) error {
			m.app.Back(ctx)
			return nil
		})
	}

	switch s.Screen {
	case app.DashboardScreen:
		if key.Matches(msg, keys.Quit) {
			_, cmd := m.quit()
			return cmd
		}
		if key.Matches(msg, keys.Select) {
			items := m.menu()
			if m.cursor < len(items) {
				return items[m.cursor].action(m)
			}
		}

	case app.ExperienceSubtypeScreen:
		if key.Matches(msg, keys.Select) && m.cursor < len(domain.ProbationSubtypes) {
			subtype := domain.ProbationSubtypes[m.cursor]
			return m.run(formNone, func(ctx context.Context) error { return m.app.SelectSubtype(ctx, subtype) })
		}

	case app.SectorScreen:
		if key.Matches(msg, keys.Select) && m.cursor < len(s.Sectors) {
			sector := s.Sectors[m.cursor]
			return m.run(formNone, func(ctx context.Context) error {
				m.app.SelectSector(ctx, sector)
				return nil
			})
		}

	case app.EmployeeScreen:
		if key.Matches(msg, keys.Select) && m.cursor < len(s.Employees) {
			employee := s.Employees[m.cursor]
			return m.run(formNone, func(ctx context.Context) error { return m.app.SelectEmployee(ctx, employee) })
		}

	case app.FeedbackFormScreen:
		return m.handleRatingKey(msg)

	case app.HistoryScreen:
		if key.Matches(msg, keys.Filter) {
			m.historyFilter = (m.historyFilter + 1) % len(historyFilters)
			tipo := historyFilters[m.historyFilter]
			return m.run(formNone, func(ctx context.Context) error { return m.app.SetHistoryFilter(ctx, tipo) })
		}
		if key.Matches(msg, keys.Delete) && m.cursor < len(s.History) {
			_ = m.app.RequestDeleteFeedback(s.History[m.cursor])
			return m.refresh()
		}
	}
	return nil
}

// handleRatingKey drives the star control of diario forms
func (m *Model) handleRatingKey(msg tea.KeyMsg) tea.Cmd {
	attrs := m.state.Ratings.Attributes()
	if !m.state.Draft.Type.IsRating() {
		return nil
	}
	if key.Matches(msg, keys.Select) {
		return m.run(formNone, m.app.SubmitRatings)
	}
	if m.cursor >= len(attrs) {
		return nil
	}

	attr := attrs[m.cursor]
	current := m.state.Ratings.Value(attr)
	switch {
	case key.Matches(msg, keys.Stars):
		m.app.SetRating(attr, int(msg.Runes[0]-'0'))
	case key.Matches(msg, keys.Right):
		m.app.SetRating(attr, min(current+1, app.MaxStars))
	case key.Matches(msg, keys.Left):
		m.app.SetRating(attr, max(current-1, 1))
	default:
		return nil
	}
	return m.refresh()
}

func (m *Model) handleOverlayKey(msg tea.KeyMsg) tea.Cmd {
	s := m.state
	switch {
	case key.Matches(msg, keys.Back):
		m.app.CloseOverlay()
		return m.refresh()
	case key.Matches(msg, keys.Up):
		m.moveCursor(-1)
		return nil
	case key.Matches(msg, keys.Down):
		m.moveCursor(1)
		return nil
	}

	switch s.Overlay {
	case app.OverlayUsers:
		return handlePanelKey(m, msg, m.app.Users(), s.Users.Items, formUser, valuesFromUser)
	case app.OverlaySectors:
		return handlePanelKey(m, msg, m.app.Sectors(), s.SectorAdmin.Items, formSector, valuesFromSector)
	case app.OverlayEmployees:
		return handlePanelKey(m, msg, m.app.Employees(), s.EmployeeAdmin.Items, formEmployee, valuesFromEmployee)
	case app.OverlayAttributes:
		return m.handleAttributeKey(msg)
	case app.OverlaySync:
		if key.Matches(msg, keys.Open) && s.SyncResult != nil && s.SyncResult.SpreadsheetURL != "" {
			url := s.SyncResult.SpreadsheetURL
			return m.run(formNone, func(context.Context) error {
				if err := m.openURL(url); err != nil {
					m.app.Notify(app.NotifyError, "Não foi possível abrir o navegador: "+url)
					return err
				}
				return nil
			})
		}
	}
	return nil
}

// handlePanelKey is shared by the users, sectors and employees overlays
func handlePanelKey[T any, In any](m *Model, msg tea.KeyMsg, panel *app.Panel[T, In], items []T, kind formKind, values func(T) *formValues) tea.Cmd {
	switch {
	case key.Matches(msg, keys.New):
		panel.Edit(nil)
		m.refresh()
		v := values(*new(T))
		v.editID = 0
		return m.openForm(kind, v)
	case key.Matches(msg, keys.Edit), key.Matches(msg, keys.Select):
		if m.cursor >= len(items) {
			return nil
		}
		item := items[m.cursor]
		panel.Edit(&item)
		m.refresh()
		return m.openForm(kind, values(item))
	case key.Matches(msg, keys.Delete):
		if m.cursor >= len(items) {
			return nil
		}
		panel.RequestDelete(items[m.cursor])
		return m.refresh()
	}
	return nil
}

func (m *Model) handleAttributeKey(msg tea.KeyMsg) tea.Cmd {
	panel := m.state.AttributeAdmin
	if panel.SectorID == 0 {
		if key.Matches(msg, keys.Select) && m.cursor < len(panel.Sectors) {
			id := panel.Sectors[m.cursor].ID
			return m.run(formNone, func(ctx context.Context) error { return m.app.SelectAttributeSector(ctx, id) })
		}
		return nil
	}

	switch {
	case key.Matches(msg, keys.Add):
		return m.openForm(formAttribute, &formValues{})
	case key.Matches(msg, keys.Delete):
		if m.cursor < len(panel.Items) {
			m.app.RequestRemoveAttribute(panel.Items[m.cursor])
			return m.refresh()
		}
	case key.Matches(msg, keys.Switch):
		return m.run(formNone, func(ctx context.Context) error { return m.app.SelectAttributeSector(ctx, 0) })
	}
	return nil
}

// menuItem is one dashboard entry
type menuItem struct {
	label  string
	action func(m *Model) tea.Cmd
}

// menu lists the dashboard entries; admin entries only for admins
func (m *Model) menu() []menuItem {
	items := make([]menuItem, 0, 16)
	for _, flow := range domain.Flows {
		items = append(items, menuItem{flow.Label(), func(m *Model) tea.Cmd {
			return m.run(formNone, func(ctx context.Context) error { return m.app.SelectFlow(ctx, flow) })
		}})
	}
	items = append(items, menuItem{"Histórico de Feedbacks", showScreen(app.HistoryScreen)})

	if m.state.ShowAdmin {
		items = append(items,
			menuItem{"Evolução Diária", showScreen(app.DailyEvolutionChartScreen)},
			menuItem{"Gerenciar Usuários", func(m *Model) tea.Cmd { return m.run(formNone, m.app.Users().Show) }},
			menuItem{"Gerenciar Setores", func(m *Model) tea.Cmd { return m.run(formNone, m.app.Sectors().Show) }},
			menuItem{"Gerenciar Funcionários", func(m *Model) tea.Cmd { return m.run(formNone, m.app.Employees().Show) }},
			menuItem{"Atributos de Avaliação", func(m *Model) tea.Cmd { return m.run(formNone, m.app.ShowAttributes) }},
			menuItem{"Estatísticas", func(m *Model) tea.Cmd { return m.run(formNone, m.app.ShowStats) }},
			menuItem{"Sincronizar Google Sheets", func(m *Model) tea.Cmd { return m.run(formNone, m.app.Sync) }},
		)
	}

	items = append(items, menuItem{"Sair", func(m *Model) tea.Cmd {
		return m.run(formNone, func(ctx context.Context) error {
			m.app.Logout(ctx)
			return nil
		})
	}})
	return items
}

func showScreen(screen app.Screen) func(m *Model) tea.Cmd {
	return func(m *Model) tea.Cmd {
		return m.run(formNone, func(ctx context.Context) error {
			m.app.Show(ctx, screen)
			return nil
		})
	}
}

// listLen is the number of selectable rows in the current view
func (m *Model) listLen() int {
	s := m.state
	switch s.Overlay {
	case app.OverlayUsers:
		return len(s.Users.Items)
	case app.OverlaySectors:
		return len(s.SectorAdmin.Items)
	case app.OverlayEmployees:
		return len(s.EmployeeAdmin.Items)
	case app.OverlayAttributes:
		if s.AttributeAdmin.SectorID == 0 {
			return len(s.AttributeAdmin.Sectors)
		}
		return len(s.AttributeAdmin.Items)
	case app.OverlayNone:
	default:
		return 0
	}

	switch s.Screen {
	case app.DashboardScreen:
		return len(m.menu())
	case app.ExperienceSubtypeScreen:
		return len(domain.ProbationSubtypes)
	case app.SectorScreen:
		return len(s.Sectors)
	case app.EmployeeScreen:
		return len(s.Employees)
	case app.FeedbackFormScreen:
		return len(s.Ratings.Attributes())
	case app.HistoryScreen:
		return len(s.History)
	}
	return 0
}

func (m *Model) moveCursor(delta int) {
	m.cursor += delta
	m.clampCursor()
}

func (m *Model) clampCursor() {
	n := m.listLen()
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}
