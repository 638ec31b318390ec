package domain

import "strings"

// SectorInput is the create/update body of /setores
type SectorInput struct {
	Nome      string   `json:"nome"`
	Descricao string   `json:"descricao"`
	Atributos []string `json:"atributos_avaliacao,omitempty"`
}

// EmployeeInput is the create/update body of /funcionarios. Dates travel as
// YYYY-MM-DD and are omitted when blank, since the backend rejects null.
type EmployeeInput struct {
	Nome               string `json:"nome"`
	Cargo              string `json:"cargo"`
	SetorID            int    `json:"setor_id"`
	EmExperiencia      bool   `json:"em_experiencia"`
	DataAdmissao       string `json:"data_admissao,omitempty"`
	DataFimExperiencia string `json:"data_fim_experiencia,omitempty"`
}

// WithProbationEnd fills DataFimExperiencia with admission + 45 days when the
// employee is in probation and no end date was typed. Leaving the end date
// in place is how a window gets extended. Outside probation the end date is
// dropped.
func (in EmployeeInput) WithProbationEnd() (EmployeeInput, error) {
	if !in.EmExperiencia {
		in.DataFimExperiencia = ""
		return in, nil
	}
	if strings.TrimSpace(in.DataFimExperiencia) != "" || strings.TrimSpace(in.DataAdmissao) == "" {
		return in, nil
	}
	admission, err := ParseDate(in.DataAdmissao)
	if err != nil {
		return in, err
	}
	in.DataFimExperiencia = ProbationEnd(admission, Date{}).String()
	return in, nil
}

// InputFromEmployee pre-fills the edit form
func InputFromEmployee(e Employee) EmployeeInput {
	return EmployeeInput{
		Nome:               e.Nome,
		Cargo:              e.Cargo,
		SetorID:            e.SetorID,
		EmExperiencia:      e.EmExperiencia,
		DataAdmissao:       e.DataAdmissao.String(),
		DataFimExperiencia: e.DataFimExperiencia.String(),
	}
}

// UserInput is the create/update body of /usuarios. A blank Password is
// omitted, which on update keeps the current one.
type UserInput struct {
	Username string   `json:"username"`
	Email    string   `json:"email"`
	Password string   `json:"password,omitempty"`
	UserType UserType `json:"user_type"`
}

// InputFromUser pre-fills the edit form; the password is never pre-filled
func InputFromUser(u User) UserInput {
	return UserInput{
		Username: u.Username,
		Email:    u.Email,
		UserType: u.UserType,
	}
}

// InputFromSector pre-fills the edit form
func InputFromSector(s Sector) SectorInput {
	return SectorInput{
		Nome:      s.Nome,
		Descricao: s.Descricao,
		Atributos: s.Atributos,
	}
}

// HistoryFilter narrows GET /feedback. Zero fields are not sent.
type HistoryFilter struct {
	Tipo          FeedbackType
	SetorID       int
	FuncionarioID int
	From          Date
	To            Date
}
