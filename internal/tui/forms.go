package tui

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/huh"

	"github.com/felixgeelhaar/feedfort/internal/domain"
)

// formKind identifies which huh form is on screen
type formKind int

const (
	formNone formKind = iota
	formLogin
	formOccurrence
	formFinal
	formUser
	formSector
	formEmployee
	formAttribute
)

// isPanel reports whether the form belongs to an admin overlay
func (k formKind) isPanel() bool {
	return k == formUser || k == formSector || k == formEmployee || k == formAttribute
}

// Recommendation choices on the final experiência form. The empty value
// forces an explicit pick.
const (
	recommendUnset = ""
	recommendYes   = "sim"
	recommendNo    = "nao"
)

// formValues backs every field of every form. A fresh value is allocated for
// each form so huh can bind to stable pointers.
type formValues struct {
	editID int

	username string
	password string
	email    string
	userType string

	nome          string
	descricao     string
	cargo         string
	setorID       int
	emExperiencia bool
	dataAdmissao  string
	dataFim       string

	text      string
	recomenda string
	atributo  string
}

func newForm(fields ...huh.Field) *huh.Form {
	return huh.NewForm(huh.NewGroup(fields...)).WithShowHelp(true)
}

func loginForm(v *formValues) *huh.Form {
	return newForm(
		huh.NewInput().
			Key("username").
			Title("Usuário").
			Value(&v.username),
		huh.NewInput().
			Key("password").
			Title("Senha").
			EchoMode(huh.EchoModePassword).
			Value(&v.password),
	)
}

func occurrenceForm(v *formValues, t domain.FeedbackType) *huh.Form {
	return newForm(
		huh.NewText().
			Key("descricao").
			Title(t.Title()).
			Description("Descreva a ocorrência").
			Value(&v.text),
	)
}

func finalForm(v *formValues, countdown string) *huh.Form {
	return newForm(
		huh.NewNote().
			Title(domain.FeedbackFinalProbation.Title()).
			Description(countdown),
		huh.NewText().
			Key("detalhes").
			Title("Detalhes da avaliação").
			Value(&v.text),
		huh.NewSelect[string]().
			Key("recomenda_efetivacao").
			Title("Recomenda a efetivação?").
			Options(
				huh.NewOption("Selecione...", recommendUnset),
				huh.NewOption("Sim, recomendo", recommendYes),
				huh.NewOption("Não recomendo", recommendNo),
			).
			Value(&v.recomenda),
	)
}

// recommendation maps the select value to the payload field
func recommendation(v string) *bool {
	switch v {
	case recommendYes:
		yes := true
		return &yes
	case recommendNo:
		no := false
		return &no
	default:
		return nil
	}
}

func userForm(v *formValues) *huh.Form {
	password := "Senha"
	if v.editID > 0 {
		password = "Nova senha (vazio mantém a atual)"
	}
	return newForm(
		huh.NewInput().Key("username").Title("Usuário").Value(&v.username),
		huh.NewInput().Key("email").Title("Email").Value(&v.email),
		huh.NewInput().Key("password").Title(password).EchoMode(huh.EchoModePassword).Value(&v.password),
		huh.NewSelect[string]().
			Key("user_type").
			Title("Tipo").
			Options(
				huh.NewOption("Usuário", string(domain.UserTypeRegular)),
				huh.NewOption("Administrador", string(domain.UserTypeAdmin)),
			).
			Value(&v.userType),
	)
}

func sectorForm(v *formValues) *huh.Form {
	return newForm(
		huh.NewInput().Key("nome").Title("Nome do setor").Value(&v.nome),
		huh.NewText().Key("descricao").Title("Descrição").Lines(3).Value(&v.descricao),
	)
}

func employeeForm(v *formValues, sectors []domain.Sector) *huh.Form {
	options := []huh.Option[int]{huh.NewOption("Selecione um setor", 0)}
	for _, s := range sectors {
		options = append(options, huh.NewOption(s.Nome, s.ID))
	}
	return newForm(
		huh.NewInput().Key("nome").Title("Nome").Value(&v.nome),
		huh.NewInput().Key("cargo").Title("Cargo").Value(&v.cargo),
		huh.NewSelect[int]().Key("setor_id").Title("Setor").Options(options...).Value(&v.setorID),
		huh.NewConfirm().
			Key("em_experiencia").
			Title("Em período de experiência?").
			Affirmative("Sim").
			Negative("Não").
			Value(&v.emExperiencia),
		huh.NewInput().
			Key("data_admissao").
			Title("Data de admissão").
			Placeholder(domain.DateLayout).
			Value(&v.dataAdmissao),
		huh.NewInput().
			Key("data_fim_experiencia").
			Title("Fim da experiência").
			Description(fmt.Sprintf("Vazio = admissão + %d dias", domain.DefaultProbationDays)).
			Placeholder(domain.DateLayout).
			Value(&v.dataFim),
	)
}

func attributeForm(v *formValues) *huh.Form {
	return newForm(
		huh.NewInput().Key("atributo").Title("Novo atributo").Value(&v.atributo),
	)
}

func valuesFromUser(u domain.User) *formValues {
	in := domain.InputFromUser(u)
	return &formValues{
		editID:   u.ID,
		username: in.Username,
		email:    in.Email,
		userType: string(in.UserType),
	}
}

func valuesFromSector(s domain.Sector) *formValues {
	in := domain.InputFromSector(s)
	return &formValues{editID: s.ID, nome: in.Nome, descricao: in.Descricao}
}

func valuesFromEmployee(e domain.Employee) *formValues {
	in := domain.InputFromEmployee(e)
	return &formValues{
		editID:        e.ID,
		nome:          in.Nome,
		cargo:         in.Cargo,
		setorID:       in.SetorID,
		emExperiencia: in.EmExperiencia,
		dataAdmissao:  in.DataAdmissao,
		dataFim:       in.DataFimExperiencia,
	}
}

func (v *formValues) userInput() domain.UserInput {
	userType := domain.UserType(v.userType)
	if userType == "" {
		userType = domain.UserTypeRegular
	}
	return domain.UserInput{
		Username: v.username,
		Email:    v.email,
		Password: v.password,
		UserType: userType,
	}
}

func (v *formValues) sectorInput() domain.SectorInput {
	return domain.SectorInput{Nome: v.nome, Descricao: v.descricao}
}

func (v *formValues) employeeInput() domain.EmployeeInput {
	return domain.EmployeeInput{
		Nome:               v.nome,
		Cargo:              v.cargo,
		SetorID:            v.setorID,
		EmExperiencia:      v.emExperiencia,
		DataAdmissao:       v.dataAdmissao,
		DataFimExperiencia: v.dataFim,
	}
}

// countdownText is the read-only probation line of the final form
func countdownText(end domain.Date, days int) string {
	return "Fim da experiência: " + end.Display() + " (" + strconv.Itoa(days) + " dias restantes)"
}
