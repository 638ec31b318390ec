package domain

import (
	"sort"
	"time"
)

// User is the account embedded in the session and managed on the users panel.
// Password is write-only: it is never returned by the API and is omitted from
// update payloads when blank.
type User struct {
	ID       int      `json:"id,omitempty" yaml:"id,omitempty"`
	Username string   `json:"username" yaml:"username"`
	Email    string   `json:"email,omitempty" yaml:"email,omitempty"`
	UserType UserType `json:"user_type" yaml:"user_type"`
	Password string   `json:"password,omitempty" yaml:"-"`
}

// IsAdmin reports whether the user may open admin screens
func (u *User) IsAdmin() bool {
	return u != nil && u.UserType.IsAdmin()
}

// Sector is a department ("setor")
type Sector struct {
	ID        int      `json:"id,omitempty" yaml:"id,omitempty"`
	Nome      string   `json:"nome" yaml:"nome"`
	Descricao string   `json:"descricao,omitempty" yaml:"descricao,omitempty"`
	Atributos []string `json:"atributos_avaliacao,omitempty" yaml:"atributos,omitempty"`
}

// Ref is the {id, name} pair the wizard keeps for the chosen sector/employee
type Ref struct {
	ID   int
	Name string
}

// Ref returns the sector reference
func (s Sector) Ref() Ref {
	return Ref{ID: s.ID, Name: s.Nome}
}

// Employee is a "funcionário"
type Employee struct {
	ID                 int    `json:"id,omitempty" yaml:"id,omitempty"`
	Nome               string `json:"nome" yaml:"nome"`
	Cargo              string `json:"cargo,omitempty" yaml:"cargo,omitempty"`
	SetorID            int    `json:"setor_id" yaml:"setor_id"`
	SetorNome          string `json:"setor_nome,omitempty" yaml:"setor_nome,omitempty"`
	EmExperiencia      bool   `json:"em_experiencia" yaml:"em_experiencia"`
	DataAdmissao       Date   `json:"data_admissao" yaml:"-"`
	DataFimExperiencia Date   `json:"data_fim_experiencia" yaml:"-"`
	DiasRestantes      *int   `json:"dias_restantes_experiencia,omitempty" yaml:"dias_restantes,omitempty"`
}

// Ref returns the employee reference
func (e Employee) Ref() Ref {
	return Ref{ID: e.ID, Name: e.Nome}
}

// ProbationEnd returns the effective end of the employee's experiência
// window, or a zero Date when not in probation
func (e Employee) ProbationEnd() Date {
	if !e.EmExperiencia {
		return Date{}
	}
	return ProbationEnd(e.DataAdmissao, e.DataFimExperiencia)
}

// ProbationDaysLeft prefers the server-computed countdown and falls back to
// the local computation. ok is false when the employee is not in probation.
func (e Employee) ProbationDaysLeft(now time.Time) (days int, ok bool) {
	if !e.EmExperiencia {
		return 0, false
	}
	if e.DiasRestantes != nil {
		return *e.DiasRestantes, true
	}
	end := e.ProbationEnd()
	if end.IsZero() {
		return 0, false
	}
	return DaysRemaining(end, now), true
}

// AttributeList is the response of GET /atributos
type AttributeList struct {
	SetorID   int      `json:"setor_id"`
	SetorNome string   `json:"setor_nome"`
	Atributos []string `json:"atributos"`
}

// Feedback is a submitted record as returned by GET /feedback
type Feedback struct {
	ID                  int                `json:"id" yaml:"id"`
	Tipo                FeedbackType       `json:"tipo" yaml:"tipo"`
	FuncionarioID       int                `json:"funcionario_id" yaml:"funcionario_id"`
	FuncionarioNome     string             `json:"funcionario_nome" yaml:"funcionario"`
	SetorNome           string             `json:"setor_nome" yaml:"setor"`
	AutorID             int                `json:"autor_id" yaml:"autor_id"`
	AutorUsername       string             `json:"autor_username" yaml:"autor,omitempty"`
	DataFeedback        string             `json:"data_feedback" yaml:"data"`
	Avaliacoes          map[string]float64 `json:"avaliacoes,omitempty" yaml:"avaliacoes,omitempty"`
	Descricao           string             `json:"descricao,omitempty" yaml:"descricao,omitempty"`
	Detalhes            string             `json:"detalhes,omitempty" yaml:"detalhes,omitempty"`
	RecomendaEfetivacao *bool              `json:"recomenda_efetivacao,omitempty" yaml:"recomenda_efetivacao,omitempty"`
}

// Time parses DataFeedback
func (f Feedback) Time() (time.Time, bool) {
	return ParseTimestamp(f.DataFeedback)
}

// DeletableBy reports whether u may delete the record: admins may delete
// any feedback, everyone else only their own
func (f Feedback) DeletableBy(u *User) bool {
	if u == nil {
		return false
	}
	return u.IsAdmin() || f.AutorID == u.ID
}

// RatedAttributes returns the rating keys in sorted order
func (f Feedback) RatedAttributes() []string {
	names := make([]string, 0, len(f.Avaliacoes))
	for name := range f.Avaliacoes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// FeedbackPayload is the body of POST /feedback. Exactly one group of fields
// is set, depending on Tipo.
type FeedbackPayload struct {
	Tipo                FeedbackType   `json:"tipo"`
	FuncionarioID       int            `json:"funcionario_id"`
	Avaliacoes          map[string]int `json:"avaliacoes,omitempty"`
	Descricao           string         `json:"descricao,omitempty"`
	Detalhes            string         `json:"detalhes,omitempty"`
	RecomendaEfetivacao *bool          `json:"recomenda_efetivacao,omitempty"`
}

// LoginResponse is the body of a successful POST /login
type LoginResponse struct {
	Message string `json:"message"`
	Token   string `json:"token"`
	User    User   `json:"user"`
}

// SectorStats is one entry of the per-sector breakdown
type SectorStats struct {
	SetorID              int    `json:"setor_id" yaml:"setor_id"`
	SetorNome            string `json:"setor_nome" yaml:"setor_nome"`
	TotalFeedbacks       int    `json:"total_feedbacks" yaml:"total_feedbacks"`
	FeedbacksDiarios     int    `json:"feedbacks_diarios" yaml:"feedbacks_diarios"`
	FeedbacksPositivos   int    `json:"feedbacks_positivos" yaml:"feedbacks_positivos"`
	FeedbacksNegativos   int    `json:"feedbacks_negativos" yaml:"feedbacks_negativos"`
	FeedbacksExperiencia int    `json:"feedbacks_experiencia" yaml:"feedbacks_experiencia"`
}

// Stats is the body of GET /feedback/stats
type Stats struct {
	TotalFeedbacks       int           `json:"total_feedbacks" yaml:"total_feedbacks"`
	FeedbacksDiarios     int           `json:"feedbacks_diarios" yaml:"feedbacks_diarios"`
	FeedbacksPositivos   int           `json:"feedbacks_positivos" yaml:"feedbacks_positivos"`
	FeedbacksNegativos   int           `json:"feedbacks_negativos" yaml:"feedbacks_negativos"`
	FeedbacksExperiencia int           `json:"feedbacks_experiencia" yaml:"feedbacks_experiencia"`
	StatsPorSetor        []SectorStats `json:"stats_por_setor,omitempty" yaml:"stats_por_setor,omitempty"`
}

// DailyEvolution is the body of GET /feedback/stats/daily_evolution.
// Dates and Averages are parallel slices.
type DailyEvolution struct {
	Dates    []string  `json:"dates" yaml:"dates"`
	Averages []float64 `json:"averages" yaml:"averages"`
}

// Points is the number of (date, average) pairs; an unmatched tail is ignored
func (d DailyEvolution) Points() int {
	if len(d.Dates) < len(d.Averages) {
		return len(d.Dates)
	}
	return len(d.Averages)
}

// SyncResult is the body of POST /google-sheets-sync
type SyncResult struct {
	Message        string `json:"message" yaml:"message"`
	SpreadsheetURL string `json:"spreadsheet_url,omitempty" yaml:"spreadsheet_url,omitempty"`
	SuccessCount   *int   `json:"success_count,omitempty" yaml:"success_count,omitempty"`
	TotalCount     *int   `json:"total_count,omitempty" yaml:"total_count,omitempty"`
}

// SyncStatus is the body of GET /google-sheets/status
type SyncStatus struct {
	TotalFeedbacks   int    `json:"total_feedbacks" yaml:"total_feedbacks"`
	Sincronizados    int    `json:"sincronizados" yaml:"sincronizados"`
	NaoSincronizados int    `json:"nao_sincronizados" yaml:"nao_sincronizados"`
	SpreadsheetURL   string `json:"spreadsheet_url,omitempty" yaml:"spreadsheet_url,omitempty"`
}

// SheetsConfig is the body of GET /google-sheets/config
type SheetsConfig struct {
	SpreadsheetID   string `json:"spreadsheet_id" yaml:"spreadsheet_id"`
	SpreadsheetURL  string `json:"spreadsheet_url,omitempty" yaml:"spreadsheet_url,omitempty"`
	CredentialsFile string `json:"credentials_file" yaml:"credentials_file"`
	Authenticated   bool   `json:"authenticated" yaml:"authenticated"`
}

// SheetsResult answers the spreadsheet admin actions (config, create, test)
type SheetsResult struct {
	Message        string `json:"message" yaml:"message"`
	SpreadsheetID  string `json:"spreadsheet_id,omitempty" yaml:"spreadsheet_id,omitempty"`
	SpreadsheetURL string `json:"spreadsheet_url,omitempty" yaml:"spreadsheet_url,omitempty"`
}
