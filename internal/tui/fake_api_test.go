package tui

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/feedfort/internal/api"
	"github.com/felixgeelhaar/feedfort/internal/app"
	"github.com/felixgeelhaar/feedfort/internal/domain"
	"github.com/felixgeelhaar/feedfort/internal/session"
)

// newTestServer starts an HTTP server bound to IPv4-only loopback so tests work
// inside restricted sandboxes that forbid IPv6 listeners.
func newTestServer(t *testing.T, handler http.Handler) *httptest.Server {
	t.Helper()

	listener, err := net.Listen("tcp4", "127.0.0.1:0")
	if err != nil {
		t.Skipf("unable to start test server: %v", err)
	}

	server := &httptest.Server{
		Listener: listener,
		Config:   &http.Server{Handler: handler},
	}
	server.Start()
	t.Cleanup(server.Close)
	return server
}

// fakeAPI answers the calls the TUI flows make
type fakeAPI struct {
	mu        sync.Mutex
	calls     []string
	submitted []domain.FeedbackPayload
}

func (f *fakeAPI) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeAPI) Submitted() []domain.FeedbackPayload {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.FeedbackPayload(nil), f.submitted...)
}

func (f *fakeAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	path := strings.TrimPrefix(r.URL.Path, "/api")
	key := r.Method + " " + path
	call := key
	if r.URL.RawQuery != "" {
		call += "?" + r.URL.RawQuery
	}
	f.calls = append(f.calls, call)

	if key == "POST /login" {
		var creds map[string]string
		_ = json.NewDecoder(r.Body).Decode(&creds)
		if creds["password"] != "admin123" {
			reply(w, http.StatusUnauthorized, map[string]string{"message": "Credenciais inválidas"})
			return
		}
		reply(w, http.StatusOK, map[string]any{
			"token": "tok-" + creds["username"],
			"user":  domain.User{ID: 1, Username: creds["username"], UserType: domain.UserTypeAdmin},
		})
		return
	}
	if !strings.HasPrefix(r.Header.Get("Authorization"), "Bearer ") {
		reply(w, http.StatusUnauthorized, map[string]string{"message": "Token inválido"})
		return
	}

	switch {
	case key == "GET /setores":
		reply(w, http.StatusOK, []domain.Sector{{ID: 1, Nome: "Produção"}, {ID: 2, Nome: "Logística"}})
	case key == "GET /funcionarios":
		reply(w, http.StatusOK, []domain.Employee{{ID: 10, Nome: "Ana", Cargo: "Operadora", SetorID: 1, SetorNome: "Produção"}})
	case key == "GET /atributos":
		id, _ := strconv.Atoi(r.URL.Query().Get("setor_id"))
		reply(w, http.StatusOK, map[string]any{"setor_id": id, "atributos": []string{"Pontualidade", "Qualidade"}})
	case key == "GET /usuarios":
		reply(w, http.StatusOK, []domain.User{{ID: 1, Username: "admin", UserType: domain.UserTypeAdmin}})
	case r.Method == http.MethodDelete:
		w.WriteHeader(http.StatusNoContent)
	case key == "GET /feedback":
		reply(w, http.StatusOK, []domain.Feedback{{
			ID: 1, Tipo: domain.FeedbackPositive, FuncionarioNome: "Ana", SetorNome: "Produção",
			AutorUsername: "admin", DataFeedback: "2024-05-10T14:30:00", Descricao: "<b>Ajudou</b> a equipe",
		}})
	case key == "POST /feedback":
		var p domain.FeedbackPayload
		_ = json.NewDecoder(r.Body).Decode(&p)
		f.submitted = append(f.submitted, p)
		reply(w, http.StatusCreated, map[string]any{"id": len(f.submitted)})
	case key == "GET /feedback/stats/daily_evolution":
		reply(w, http.StatusOK, domain.DailyEvolution{Dates: []string{"01/05/2024", "02/05/2024"}, Averages: []float64{3.5, 4}})
	case key == "POST /google-sheets-sync":
		reply(w, http.StatusOK, map[string]any{"message": "2 de 2 feedbacks sincronizados", "spreadsheet_url": "https://sheets.example/x"})
	default:
		reply(w, http.StatusNotFound, map[string]string{"message": "não encontrado"})
	}
}

func reply(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// harness drives a Model synchronously. Operations queue up instead of
// running as Bubble Tea commands and are fed back through Update by drain.
type harness struct {
	t        *testing.T
	m        *Model
	app      *app.App
	api      *fakeAPI
	sessions *session.Store
	queue    []func() tea.Msg
	opened   []string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	return newHarnessWith(t, session.NewMemoryBackend())
}

func newHarnessWith(t *testing.T, storage session.Backend) *harness {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	fake := &fakeAPI{}
	server := newTestServer(t, fake)
	now := time.Date(2024, time.February, 10, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }

	sessions := session.NewStore(storage, "test-key", session.WithClock(clock))
	a := app.New(app.NewStore(app.State{}), api.NewClient(server.URL+"/api"), sessions, app.WithClock(clock))

	h := &harness{t: t, app: a, api: fake, sessions: sessions}
	m := NewModel(ctx, a)
	m.Close()
	m.updates = nil
	m.toastTTL = 0
	m.dispatch = func(op func() tea.Msg) tea.Cmd {
		h.queue = append(h.queue, op)
		return nil
	}
	m.openURL = func(url string) error {
		h.opened = append(h.opened, url)
		return nil
	}
	h.m = m

	m.Init()
	h.drain()
	return h
}

// drain runs queued operations until none are left
func (h *harness) drain() {
	for len(h.queue) > 0 {
		op := h.queue[0]
		h.queue = h.queue[1:]
		h.m.Update(op())
	}
}

// press sends keys one at a time, draining after each
func (h *harness) press(names ...string) {
	for _, name := range names {
		h.m.Update(keyMsg(name))
		h.drain()
	}
}

func keyMsg(name string) tea.KeyMsg {
	switch name {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(name)}
}

// login submits the login form with the given credentials
func (h *harness) login(username, password string) {
	h.t.Helper()
	require.Equal(h.t, formLogin, h.m.kind)
	h.m.values.username = username
	h.m.values.password = password
	h.m.submitForm()
	h.drain()
}

func (h *harness) snap() app.State {
	return h.app.Store().Snapshot()
}

// down moves the cursor n rows
func (h *harness) down(n int) {
	for range n {
		h.press("down")
	}
}
