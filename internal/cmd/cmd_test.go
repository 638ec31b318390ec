package cmd

import (
	"bytes"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/feedfort/internal/config"
	"github.com/felixgeelhaar/feedfort/internal/domain"
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

// backend is a minimal feedback API. Passwords other than "admin123" are
// rejected; the user "admin" is an administrator, everyone else a regular user.
type backend struct {
	mu      sync.Mutex
	calls   []string
	expired bool
}

func (b *backend) Calls() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.calls...)
}

func (b *backend) expire() {
	b.mu.Lock()
	b.expired = true
	b.mu.Unlock()
}

func (b *backend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()

	path := strings.TrimPrefix(r.URL.Path, "/api")
	key := r.Method + " " + path
	call := key
	if r.URL.RawQuery != "" {
		call += "?" + r.URL.RawQuery
	}
	b.calls = append(b.calls, call)

	if key == "POST /login" {
		var creds map[string]string
		_ = json.NewDecoder(r.Body).Decode(&creds)
		if creds["password"] != "admin123" {
			reply(w, http.StatusUnauthorized, map[string]string{"message": "Credenciais inválidas"})
			return
		}
		userType := domain.UserTypeRegular
		if creds["username"] == "admin" {
			userType = domain.UserTypeAdmin
		}
		reply(w, http.StatusOK, map[string]any{
			"message": "ok",
			"token":   "tok-" + creds["username"],
			"user":    map[string]any{"id": 1, "username": creds["username"], "user_type": userType},
		})
		return
	}

	if b.expired || !strings.HasPrefix(r.Header.Get("Authorization"), "Bearer tok-") {
		reply(w, http.StatusUnauthorized, map[string]string{"message": "Token expirado"})
		return
	}

	switch key {
	case "GET /feedback":
		reply(w, http.StatusOK, []map[string]any{{
			"id":               7,
			"tipo":             "negativa",
			"funcionario_id":   3,
			"funcionario_nome": "Ana",
			"setor_nome":       "Produção",
			"autor_id":         1,
			"autor_username":   "admin",
			"data_feedback":    "2024-02-09T14:30:00",
			"descricao":        "<i>Atrasou</i> a entrega",
		}})
	case "GET /feedback/stats":
		reply(w, http.StatusOK, map[string]any{
			"total_feedbacks":       3,
			"feedbacks_diarios":     1,
			"feedbacks_positivos":   1,
			"feedbacks_negativos":   1,
			"feedbacks_experiencia": 0,
			"stats_por_setor": []map[string]any{
				{"setor_id": 2, "setor_nome": "Logística", "total_feedbacks": 1},
				{"setor_id": 1, "setor_nome": "Expedição", "total_feedbacks": 2},
			},
		})
	case "GET /feedback/stats/daily_evolution":
		reply(w, http.StatusOK, map[string]any{
			"dates":    []string{"2024-02-08", "2024-02-09"},
			"averages": []float64{3.5, 4.25},
		})
	case "POST /google-sheets-sync":
		reply(w, http.StatusOK, map[string]any{
			"message":         "2 feedbacks sincronizados",
			"spreadsheet_url": "https://sheets.example/x",
		})
	case "DELETE /feedback/7":
		if r.Header.Get("Authorization") != "Bearer tok-admin" {
			reply(w, http.StatusForbidden, map[string]string{"message": "Acesso negado"})
			return
		}
		w.WriteHeader(http.StatusNoContent)
	case "GET /google-sheets/config":
		reply(w, http.StatusOK, map[string]any{
			"spreadsheet_id":   "abc",
			"spreadsheet_url":  "https://sheets.example/abc",
			"credentials_file": "credentials.json",
			"authenticated":    true,
		})
	case "POST /google-sheets/config", "POST /google-sheets/create":
		var req map[string]string
		_ = json.NewDecoder(r.Body).Decode(&req)
		id := req["spreadsheet_id"]
		if id == "" {
			id = "nova"
		}
		reply(w, http.StatusOK, map[string]any{
			"message":         "Configuração atualizada com sucesso",
			"spreadsheet_id":  id,
			"spreadsheet_url": "https://sheets.example/" + id,
		})
	case "POST /google-sheets/test":
		reply(w, http.StatusBadRequest, map[string]string{"message": "Erro na conexão com Google Sheets"})
	case "GET /google-sheets/status":
		reply(w, http.StatusOK, map[string]any{
			"total_feedbacks":   3,
			"sincronizados":     2,
			"nao_sincronizados": 1,
		})
	default:
		reply(w, http.StatusNotFound, map[string]string{"message": "not found"})
	}
}

func reply(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// cli runs rootCmd against a fake backend with an isolated FEEDFORT_HOME
type cli struct {
	t       *testing.T
	home    string
	api     *backend
	apiURL  string
	opened  []string
	prompts int
}

func newCLI(t *testing.T) *cli {
	t.Helper()

	home := t.TempDir()
	t.Setenv(config.EnvHome, home)
	for _, name := range []string{
		config.EnvAPIURL, config.EnvTimeout, config.EnvLogLevel, config.EnvLogFormat,
		config.EnvLogFile, config.EnvSessionFile, config.EnvSessionKey,
	} {
		t.Setenv(name, "")
	}

	api := &backend{}
	server := newTestServer(t, api)
	c := &cli{t: t, home: home, api: api, apiURL: server.URL}

	restorePrompt, restoreStdin, restoreOpen := shouldPrompt, stdin, openURL
	restoreCreds, restoreConfirm, restoreDelete := promptCredentials, confirmOverwrite, confirmDelete
	t.Cleanup(func() {
		shouldPrompt, stdin, openURL = restorePrompt, restoreStdin, restoreOpen
		promptCredentials, confirmOverwrite, confirmDelete = restoreCreds, restoreConfirm, restoreDelete
	})

	shouldPrompt = func() bool { return false }
	stdin = strings.NewReader("")
	openURL = func(url string) error {
		c.opened = append(c.opened, url)
		return nil
	}
	return c
}

// run executes feedfort with args plus --api-url and returns stdout
func (c *cli) run(args ...string) (string, error) {
	c.t.Helper()
	resetFlags(rootCmd)

	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(append(args, "--api-url", c.apiURL))
	c.t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})

	err := rootCmd.Execute()
	return out.String(), err
}

// login stores a session for username; "admin" is an administrator
func (c *cli) login(username string) {
	c.t.Helper()
	stdin = strings.NewReader("admin123\n")
	_, err := c.run("login", "-u", username, "--password-stdin")
	require.NoError(c.t, err)
}

// resetFlags puts every flag back to its default so runs do not leak into
// each other through the package-level command tree
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, sub := range cmd.Commands() {
		resetFlags(sub)
	}
}

