package tui

import (
	"context"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/feedfort/internal/app"
	"github.com/felixgeelhaar/feedfort/internal/domain"
	"github.com/felixgeelhaar/feedfort/internal/session"
)

func TestInitShowsLoginFormWithoutSession(t *testing.T) {
	h := newHarness(t)

	assert.Equal(t, app.LoginScreen, h.snap().Screen)
	assert.Equal(t, formLogin, h.m.kind)
	require.NotNil(t, h.m.form)
	assert.Contains(t, h.m.View(), "Usuário")
	assert.Empty(t, h.api.Calls())
}

func TestLoginOpensDashboard(t *testing.T) {
	h := newHarness(t)
	h.login("admin", "admin123")

	assert.Equal(t, app.DashboardScreen, h.snap().Screen)
	assert.Nil(t, h.m.form)
	assert.Equal(t, formNone, h.m.kind)

	view := h.m.View()
	assert.Contains(t, view, "Feedback Diário")
	assert.Contains(t, view, "Estatísticas")
	assert.Contains(t, view, app.MsgLoginOK)
}

func TestFailedLoginReopensFormWithoutPassword(t *testing.T) {
	h := newHarness(t)
	h.login("admin", "errada")

	assert.Equal(t, app.LoginScreen, h.snap().Screen)
	require.NotNil(t, h.m.form)
	assert.Equal(t, formLogin, h.m.kind)
	assert.Equal(t, "admin", h.m.values.username)
	assert.Empty(t, h.m.values.password)
	assert.Contains(t, h.m.View(), "Credenciais inválidas")
}

// seededRegularUser stores a session for the regular user joao (id 7)
func seededRegularUser(t *testing.T) session.Backend {
	t.Helper()
	storage := session.NewMemoryBackend()
	seed := session.NewStore(storage, "test-key")
	user := &domain.User{ID: 7, Username: "joao", UserType: domain.UserTypeRegular}
	require.NoError(t, seed.Save(session.Session{Token: "tok-joao", User: user}))
	return storage
}

func TestRegularUserMenuHidesAdminEntries(t *testing.T) {
	h := newHarnessWith(t, seededRegularUser(t))

	assert.Equal(t, app.DashboardScreen, h.snap().Screen)
	view := h.m.View()
	assert.Contains(t, view, "Histórico de Feedbacks")
	assert.NotContains(t, view, "Estatísticas")
	assert.NotContains(t, view, "Gerenciar Usuários")
	assert.Len(t, h.m.menu(), len(domain.Flows)+2)
}

func TestDailyFlowWithKeys(t *testing.T) {
	h := newHarness(t)
	h.login("admin", "admin123")

	h.press("enter")
	assert.Equal(t, app.SectorScreen, h.snap().Screen)
	assert.Contains(t, h.m.View(), "Produção")

	h.press("enter")
	assert.Equal(t, app.EmployeeScreen, h.snap().Screen)
	assert.Contains(t, h.m.View(), "Ana - Operadora")

	h.press("enter")
	require.Equal(t, app.FeedbackFormScreen, h.snap().Screen)
	assert.Equal(t, []string{"Pontualidade", "Qualidade"}, h.snap().Ratings.Attributes())

	h.press("4", "down", "5")
	view := h.m.View()
	assert.Contains(t, view, "4/5")
	assert.Contains(t, view, "★")

	h.press("enter")
	submitted := h.api.Submitted()
	require.Len(t, submitted, 1)
	assert.Equal(t, domain.FeedbackDaily, submitted[0].Tipo)
	assert.Equal(t, 10, submitted[0].FuncionarioID)
	assert.Equal(t, map[string]int{"Pontualidade": 4, "Qualidade": 5}, submitted[0].Avaliacoes)
}

func TestArrowKeysAdjustRating(t *testing.T) {
	h := newHarness(t)
	h.login("admin", "admin123")
	h.press("enter", "enter", "enter")

	h.press("right", "right")
	assert.Equal(t, 2, h.snap().Ratings.Value("Pontualidade"))
	h.press("left")
	assert.Equal(t, 1, h.snap().Ratings.Value("Pontualidade"))
	h.press("left")
	assert.Equal(t, 1, h.snap().Ratings.Value("Pontualidade"))
}

func TestUnratedSubmitIsRejected(t *testing.T) {
	h := newHarness(t)
	h.login("admin", "admin123")
	h.press("enter", "enter", "enter", "enter")

	assert.Empty(t, h.api.Submitted())
	assert.Equal(t, app.FeedbackFormScreen, h.snap().Screen)
}

func TestOccurrenceFormSubmitsDescription(t *testing.T) {
	h := newHarness(t)
	h.login("admin", "admin123")
	h.down(1)
	h.press("enter", "enter", "enter")

	require.Equal(t, formOccurrence, h.m.kind)
	require.NotNil(t, h.m.form)

	h.m.values.text = "Ajudou a equipe no inventário"
	h.m.submitForm()
	h.drain()

	submitted := h.api.Submitted()
	require.Len(t, submitted, 1)
	assert.Equal(t, domain.FeedbackPositive, submitted[0].Tipo)
	assert.Equal(t, "Ajudou a equipe no inventário", submitted[0].Descricao)
	assert.Nil(t, h.m.form)
}

func TestEscLeavesOccurrenceForm(t *testing.T) {
	h := newHarness(t)
	h.login("admin", "admin123")
	h.down(2)
	h.press("enter", "enter", "enter")
	require.Equal(t, formOccurrence, h.m.kind)

	h.press("esc")

	assert.Equal(t, app.EmployeeScreen, h.snap().Screen)
	assert.Nil(t, h.m.form)
	assert.Equal(t, formNone, h.m.kind)
}

func TestHistoryFilterCyclesTypes(t *testing.T) {
	h := newHarness(t)
	h.login("admin", "admin123")
	h.down(len(domain.Flows))
	h.press("enter")
	require.Equal(t, app.HistoryScreen, h.snap().Screen)

	view := h.m.View()
	assert.Contains(t, view, "Filtro: Todos")
	assert.Contains(t, view, "Ajudou a equipe")
	assert.NotContains(t, view, "<b>")

	h.press("f")
	assert.Equal(t, domain.AllFeedbackTypes[0], h.snap().HistoryFilter)
	assert.Contains(t, h.api.Calls(), "GET /feedback?tipo="+domain.AllFeedbackTypes[0].String())
}

func TestHistoryAuthorColumnIsAdminOnly(t *testing.T) {
	h := newHarness(t)
	h.login("admin", "admin123")
	h.down(len(domain.Flows))
	h.press("enter")
	require.Equal(t, app.HistoryScreen, h.snap().Screen)
	assert.Contains(t, h.m.View(), "AUTOR")

	h = newHarnessWith(t, seededRegularUser(t))
	h.down(len(domain.Flows))
	h.press("enter")
	require.Equal(t, app.HistoryScreen, h.snap().Screen)

	view := h.m.View()
	assert.Contains(t, view, "Ajudou a equipe")
	assert.NotContains(t, view, "AUTOR")
}

func TestHistoryDeleteNeedsConfirmation(t *testing.T) {
	h := newHarness(t)
	h.login("admin", "admin123")
	h.down(len(domain.Flows))
	h.press("enter")
	require.Equal(t, app.HistoryScreen, h.snap().Screen)

	h.press("d")
	require.NotNil(t, h.snap().Confirm)
	assert.Contains(t, h.m.View(), "Tem certeza que deseja excluir este feedback?")

	h.press("n")
	assert.Nil(t, h.snap().Confirm)
	assert.NotContains(t, h.api.Calls(), "DELETE /feedback/1")

	h.press("d", "s")
	calls := h.api.Calls()
	assert.Contains(t, calls, "DELETE /feedback/1")
	assert.Equal(t, "GET /feedback", calls[len(calls)-1])
	assert.Contains(t, h.m.View(), app.MsgFeedbackDeleted)
}

func TestHistoryDeleteOfOthersFeedbackIsDenied(t *testing.T) {
	h := newHarnessWith(t, seededRegularUser(t))
	h.down(len(domain.Flows))
	h.press("enter")
	require.Equal(t, app.HistoryScreen, h.snap().Screen)

	h.press("d")
	assert.Nil(t, h.snap().Confirm)
	assert.Contains(t, h.m.View(), app.MsgAccessDenied)
}

func TestEvolutionChartRenders(t *testing.T) {
	h := newHarness(t)
	h.login("admin", "admin123")
	h.down(len(domain.Flows) + 1)
	h.press("enter")

	require.Equal(t, app.DailyEvolutionChartScreen, h.snap().Screen)
	view := h.m.View()
	assert.Contains(t, view, "●")
	assert.Contains(t, view, "01/05/2024")
	assert.Contains(t, view, "02/05/2024")
}

func TestUserDeleteNeedsConfirmation(t *testing.T) {
	h := newHarness(t)
	h.login("admin", "admin123")
	h.down(len(domain.Flows) + 2)
	h.press("enter")
	require.Equal(t, app.OverlayUsers, h.snap().Overlay)

	h.press("d")
	require.NotNil(t, h.snap().Confirm)
	assert.Contains(t, h.m.View(), "Tem certeza que deseja excluir este usuário?")

	h.press("n")
	assert.Nil(t, h.snap().Confirm)
	assert.NotContains(t, h.api.Calls(), "DELETE /usuarios/1")

	h.press("d", "s")
	assert.Contains(t, h.api.Calls(), "DELETE /usuarios/1")
}

func TestPanelNewOpensEmptyForm(t *testing.T) {
	h := newHarness(t)
	h.login("admin", "admin123")
	h.down(len(domain.Flows) + 2)
	h.press("enter", "n")

	require.Equal(t, formUser, h.m.kind)
	require.NotNil(t, h.m.form)
	assert.Zero(t, h.m.values.editID)
	assert.Empty(t, h.m.values.username)

	h.press("esc")
	assert.Nil(t, h.m.form)
	assert.Equal(t, app.OverlayUsers, h.snap().Overlay)
}

func TestPanelEditPrefillsForm(t *testing.T) {
	h := newHarness(t)
	h.login("admin", "admin123")
	h.down(len(domain.Flows) + 2)
	h.press("enter", "e")

	require.Equal(t, formUser, h.m.kind)
	assert.Equal(t, 1, h.m.values.editID)
	assert.Equal(t, "admin", h.m.values.username)
	assert.Equal(t, string(domain.UserTypeAdmin), h.m.values.userType)
}

func TestSyncOverlayOpensSpreadsheet(t *testing.T) {
	h := newHarness(t)
	h.login("admin", "admin123")
	require.NoError(t, h.app.Sync(ctxT(t)))
	h.m.Update(stateMsg{})

	require.Equal(t, app.OverlaySync, h.snap().Overlay)
	view := h.m.View()
	assert.Contains(t, view, "2 de 2 feedbacks sincronizados")
	assert.Contains(t, view, "https://sheets.example/x")

	h.press("o")
	assert.Equal(t, []string{"https://sheets.example/x"}, h.opened)

	h.press("esc")
	assert.Equal(t, app.OverlayNone, h.snap().Overlay)
}

func TestQuitFromDashboard(t *testing.T) {
	h := newHarness(t)
	h.login("admin", "admin123")

	_, cmd := h.m.Update(keyMsg("q"))

	assert.NotNil(t, cmd)
	assert.True(t, h.m.quitting)
	assert.Equal(t, "Até logo!\n", h.m.View())
}

func TestLogoutReturnsToLogin(t *testing.T) {
	h := newHarness(t)
	h.login("admin", "admin123")
	h.down(len(h.m.menu()) - 1)
	h.press("enter")

	assert.Equal(t, app.LoginScreen, h.snap().Screen)
	assert.Equal(t, formLogin, h.m.kind)
}

func TestCursorStaysInBounds(t *testing.T) {
	h := newHarness(t)
	h.login("admin", "admin123")

	h.press("up", "up")
	assert.Zero(t, h.m.cursor)

	h.down(50)
	assert.Equal(t, len(h.m.menu())-1, h.m.cursor)
}

func TestHelpToggle(t *testing.T) {
	h := newHarness(t)
	h.login("admin", "admin123")

	h.press("?")
	assert.True(t, h.m.showHelp)
	h.press("?")
	assert.False(t, h.m.showHelp)
}

func TestToastAfterEmptyQueueStillExpires(t *testing.T) {
	h := newHarness(t)
	h.login("admin", "admin123")
	for _, n := range h.snap().Notifications {
		h.m.Update(dismissMsg{id: n.ID})
	}
	require.Empty(t, h.snap().Notifications)
	seen := h.m.lastToast

	h.m.toastTTL = time.Hour
	h.app.Notify(app.NotifyInfo, "Salvo")
	cmd := h.m.refresh()

	n := h.snap().Notifications
	require.Len(t, n, 1)
	assert.Greater(t, n[0].ID, seen)
	assert.Equal(t, n[0].ID, h.m.lastToast)
	assert.NotNil(t, cmd)
}

func TestCloseReleasesStateWaiter(t *testing.T) {
	h := newHarness(t)
	m := NewModel(context.Background(), h.app)
	wait := m.waitForState()
	require.NotNil(t, wait)

	done := make(chan tea.Msg, 1)
	go func() { done <- wait() }()
	m.Close()

	select {
	case msg := <-done:
		assert.Nil(t, msg)
	case <-time.After(2 * time.Second):
		t.Fatal("waitForState still blocked after Close")
	}

	// updates after Close are ignored
	assert.NotPanics(t, func() { h.app.Notify(app.NotifyInfo, "depois") })
}
