package app

import (
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/feedfort/internal/api"
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

// fakeBackend is an in-memory stand-in for the feedback API
type fakeBackend struct {
	mu sync.Mutex

	calls      []string
	bodies     map[string][]byte
	sectors    []domain.Sector
	employees  []domain.Employee
	users      []domain.User
	attributes map[int][]string
	history    []domain.Feedback
	submitted  []domain.FeedbackPayload

	// rejectAll answers every authenticated call with 401
	rejectAll bool

	// failures maps "METHOD /path" to a canned error response
	failures map[string]failure
}

type failure struct {
	status int
	body   string
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		bodies: map[string][]byte{},
		sectors: []domain.Sector{
			{ID: 1, Nome: "Produção", Atributos: []string{"Pontualidade", "Qualidade"}},
			{ID: 2, Nome: "Logística", Atributos: []string{"Organização"}},
		},
		employees: []domain.Employee{
			{ID: 10, Nome: "Ana", SetorID: 1, SetorNome: "Produção"},
			{ID: 11, Nome: "Bruno", SetorID: 2, SetorNome: "Logística", EmExperiencia: true,
				DataAdmissao: domain.NewDate(2024, time.January, 1)},
		},
		users: []domain.User{
			{ID: 1, Username: "admin", Email: "admin@example.com", UserType: domain.UserTypeAdmin},
		},
		attributes: map[int][]string{
			1: {"Pontualidade", "Qualidade"},
			2: {"Organização"},
		},
		history: []domain.Feedback{
			{ID: 1, Tipo: domain.FeedbackDaily, FuncionarioNome: "Ana", SetorNome: "Produção",
				DataFeedback: "2024-05-10T14:30:00", Avaliacoes: map[string]float64{"Pontualidade": 4}},
		},
		failures: map[string]failure{},
	}
}

func (f *fakeBackend) record(r *http.Request, body []byte) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := r.Method + " " + strings.TrimPrefix(r.URL.Path, "/api")
	call := key
	if r.URL.RawQuery != "" {
		call += "?" + r.URL.RawQuery
	}
	f.calls = append(f.calls, call)
	f.bodies[key] = body
	return key
}

// Calls returns every recorded "METHOD /path?query"
func (f *fakeBackend) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

// Count returns how many calls start with prefix
func (f *fakeBackend) Count(prefix string) int {
	n := 0
	for _, c := range f.Calls() {
		if strings.HasPrefix(c, prefix) {
			n++
		}
	}
	return n
}

// Body returns the last request body sent to key
func (f *fakeBackend) Body(key string) []byte {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.bodies[key]
}

// Submitted returns the decoded POST /feedback payloads
func (f *fakeBackend) Submitted() []domain.FeedbackPayload {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.FeedbackPayload(nil), f.submitted...)
}

// Fail makes key answer with status and a raw body
func (f *fakeBackend) Fail(key string, status int, body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failures[key] = failure{status: status, body: body}
}

// RejectAll makes every authenticated call answer 401
func (f *fakeBackend) RejectAll() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rejectAll = true
}

func (f *fakeBackend) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = nil
}

func (f *fakeBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var body []byte
	if r.Body != nil {
		var raw json.RawMessage
		_ = json.NewDecoder(r.Body).Decode(&raw)
		body = raw
	}
	key := f.record(r, body)

	f.mu.Lock()
	defer f.mu.Unlock()

	if fail, ok := f.failures[key]; ok {
		w.WriteHeader(fail.status)
		_, _ = w.Write([]byte(fail.body))
		return
	}

	if key == "POST /login" {
		var creds map[string]string
		_ = json.Unmarshal(body, &creds)
		if creds["password"] != "admin123" {
			reply(w, http.StatusUnauthorized, map[string]string{"message": "Credenciais inválidas"})
			return
		}
		reply(w, http.StatusOK, map[string]any{"token": "tok-" + creds["username"], "user": f.users[0]})
		return
	}

	if f.rejectAll || !strings.HasPrefix(r.Header.Get("Authorization"), "Bearer ") {
		reply(w, http.StatusUnauthorized, map[string]string{"message": "Token inválido"})
		return
	}

	path := strings.TrimPrefix(r.URL.Path, "/api")
	switch {
	case key == "GET /setores":
		reply(w, http.StatusOK, f.sectors)
	case key == "POST /setores", key == "POST /usuarios", key == "POST /funcionarios":
		reply(w, http.StatusCreated, map[string]any{"id": 99})
	case r.Method == http.MethodPut:
		reply(w, http.StatusOK, map[string]any{"id": idFrom(path)})
	case r.Method == http.MethodDelete && strings.HasSuffix(path, "/atributos"):
		reply(w, http.StatusOK, map[string]any{"id": idFrom(strings.TrimSuffix(path, "/atributos"))})
	case r.Method == http.MethodDelete:
		w.WriteHeader(http.StatusNoContent)
	case r.Method == http.MethodPost && strings.HasSuffix(path, "/atributos"):
		var req map[string]string
		_ = json.Unmarshal(body, &req)
		id := idFrom(strings.TrimSuffix(path, "/atributos"))
		f.attributes[id] = append(f.attributes[id], req["atributo"])
		reply(w, http.StatusOK, map[string]any{"id": id})
	case key == "GET /funcionarios":
		reply(w, http.StatusOK, f.filterEmployees(r))
	case key == "GET /atributos":
		id, _ := strconv.Atoi(r.URL.Query().Get("setor_id"))
		reply(w, http.StatusOK, map[string]any{"setor_id": id, "atributos": f.attributes[id]})
	case key == "GET /usuarios":
		reply(w, http.StatusOK, f.users)
	case key == "GET /feedback":
		reply(w, http.StatusOK, f.history)
	case key == "POST /feedback":
		var p domain.FeedbackPayload
		_ = json.Unmarshal(body, &p)
		f.submitted = append(f.submitted, p)
		reply(w, http.StatusCreated, map[string]any{"id": len(f.submitted), "tipo": p.Tipo})
	case key == "GET /feedback/stats":
		reply(w, http.StatusOK, domain.Stats{TotalFeedbacks: 3, FeedbacksDiarios: 2, FeedbacksPositivos: 1})
	case key == "GET /feedback/stats/daily_evolution":
		reply(w, http.StatusOK, domain.DailyEvolution{Dates: []string{"01/05/2024", "02/05/2024"}, Averages: []float64{3.5, 4}})
	case key == "POST /google-sheets-sync":
		reply(w, http.StatusOK, map[string]any{"message": "2 de 2 feedbacks sincronizados", "spreadsheet_url": "https://sheets.example/x"})
	default:
		reply(w, http.StatusNotFound, map[string]string{"message": "não encontrado"})
	}
}

func (f *fakeBackend) filterEmployees(r *http.Request) []domain.Employee {
	out := []domain.Employee{}
	sectorID, _ := strconv.Atoi(r.URL.Query().Get("setor_id"))
	probation := r.URL.Query().Get("em_experiencia") == "true"
	for _, e := range f.employees {
		if sectorID > 0 && e.SetorID != sectorID {
			continue
		}
		if probation && !e.EmExperiencia {
			continue
		}
		out = append(out, e)
	}
	return out
}

func idFrom(path string) int {
	id, _ := strconv.Atoi(path[strings.LastIndex(path, "/")+1:])
	return id
}

func reply(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// harness wires an App to a fake backend over real HTTP
type harness struct {
	app      *App
	store    *Store
	backend  *fakeBackend
	server   *httptest.Server
	storage  *session.MemoryBackend
	sessions *session.Store
	now      time.Time
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	backend := newFakeBackend()
	server := newTestServer(t, backend)
	storage := session.NewMemoryBackend()
	return newHarnessWith(t, backend, server, storage)
}

func newHarnessWith(t *testing.T, backend *fakeBackend, server *httptest.Server, storage *session.MemoryBackend) *harness {
	t.Helper()
	h := &harness{
		backend: backend,
		server:  server,
		storage: storage,
		now:     time.Date(2024, time.February, 10, 12, 0, 0, 0, time.UTC),
	}
	h.sessions = session.NewStore(storage, "test-key", session.WithClock(func() time.Time { return h.now }))
	h.store = NewStore(State{})
	client := api.NewClient(server.URL + "/api")
	h.app = New(h.store, client, h.sessions, WithClock(func() time.Time { return h.now }))
	return h
}

// restart builds a new App over the same backend and session storage
func (h *harness) restart(t *testing.T) *harness {
	t.Helper()
	return newHarnessWith(t, h.backend, h.server, h.storage)
}

// loginAdmin logs in as the seeded admin and clears the call log
func (h *harness) loginAdmin(t *testing.T) {
	t.Helper()
	require.NoError(t, h.app.Login(ctxT(t), "admin", "admin123"))
	h.backend.Reset()
}

// loginRegular stores a non-admin session directly
func (h *harness) loginRegular(t *testing.T) {
	t.Helper()
	user := &domain.User{ID: 7, Username: "joao", UserType: domain.UserTypeRegular}
	require.NoError(t, h.sessions.Save(session.Session{Token: "tok-joao", User: user}))
	require.True(t, h.app.Restore(ctxT(t)))
	h.backend.Reset()
}

func (h *harness) snap() State {
	return h.store.Snapshot()
}

// lastNotification returns the newest notification message
func (h *harness) lastNotification() Notification {
	n := h.snap().Notifications
	if len(n) == 0 {
		return Notification{}
	}
	return n[len(n)-1]
}
