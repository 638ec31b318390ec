// Package validate holds the client-side rule table shared by every form.
// Rules are keyed by the JSON field name they guard and expressed as
// go-playground/validator tags.
package validate

import (
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"

	"github.com/felixgeelhaar/feedfort/internal/domain"
	"github.com/felixgeelhaar/feedfort/internal/errors"
)

// Rules maps a form field to its validator tag
var Rules = map[string]string{
	"username":             "notblank",
	"password":             "notblank",
	"email":                "notblank,email",
	"user_type":            "oneof=admin usuario",
	"nome":                 "notblank",
	"setor_id":             "gt=0",
	"funcionario_id":       "gt=0",
	"atributo":             "notblank",
	"data_admissao":        "omitempty,datetime=2006-01-02",
	"data_fim_experiencia": "omitempty,datetime=2006-01-02",
	"descricao":            "notblank",
	"detalhes":             "notblank",
	"recomenda_efetivacao": "required",
	"avaliacoes":           "gt=0,dive,min=1,max=5",
}

// messages holds the user-facing text per field. A "field.tag" entry
// overrides the field entry for that tag.
var messages = map[string]string{
	"username":             "Informe o usuário",
	"password":             "Informe a senha",
	"email":                "Informe um email válido",
	"user_type":            "Selecione o tipo de usuário",
	"nome":                 "Informe o nome",
	"setor_id":             "Selecione um setor",
	"funcionario_id":       "Selecione um funcionário",
	"atributo":             "Informe o nome do atributo",
	"data_admissao":        "Data de admissão inválida (use AAAA-MM-DD)",
	"data_fim_experiencia": "Data de fim da experiência inválida (use AAAA-MM-DD)",
	"descricao":            "Por favor, preencha a descrição",
	"detalhes":             "Por favor, preencha os detalhes da avaliação",
	"recomenda_efetivacao": "Por favor, informe a recomendação de efetivação",
	"avaliacoes":           "Por favor, avalie todos os atributos",
	"avaliacoes.gt":        "Este setor não possui atributos para avaliar",
}

var (
	instance *validator.Validate
	once     sync.Once
)

func engine() *validator.Validate {
	once.Do(func() {
		instance = validator.New(validator.WithRequiredStructEnabled())
		_ = instance.RegisterValidation("notblank", validators.NotBlank)
	})
	return instance
}

// Message returns the text shown for a failed rule on field
func Message(field, tag string) string {
	if msg, ok := messages[field+"."+tag]; ok {
		return msg
	}
	if msg, ok := messages[field]; ok {
		return msg
	}
	return "Campo inválido: " + field
}

// Field checks value against the rule for field. The returned error carries
// the user-facing message.
func Field(field string, value any) error {
	rule, ok := Rules[field]
	if !ok {
		return nil
	}

	err := engine().Var(value, rule)
	if err == nil {
		return nil
	}

	tag := ""
	if verrs, ok := err.(validator.ValidationErrors); ok && len(verrs) > 0 {
		tag = verrs[0].Tag()
	}

	code := errors.ErrCodeValidation
	if field == "avaliacoes" {
		code = errors.ErrCodeNotRated
	}
	return errors.New(code, Message(field, tag))
}

// check runs the rules in order and returns the first violation
func check(fields ...fieldValue) error {
	for _, f := range fields {
		if err := Field(f.name, f.value); err != nil {
			return err
		}
	}
	return nil
}

type fieldValue struct {
	name  string
	value any
}

// Login validates the login form
func Login(username, password string) error {
	return check(
		fieldValue{"username", username},
		fieldValue{"password", password},
	)
}

// User validates the user form. On edit the password may stay blank.
func User(in domain.UserInput, editing bool) error {
	fields := []fieldValue{
		{"username", in.Username},
		{"email", in.Email},
	}
	if !editing || in.Password != "" {
		fields = append(fields, fieldValue{"password", in.Password})
	}
	fields = append(fields, fieldValue{"user_type", string(in.UserType)})
	return check(fields...)
}

// Sector validates the sector form
func Sector(in domain.SectorInput) error {
	return check(fieldValue{"nome", in.Nome})
}

// Employee validates the employee form
func Employee(in domain.EmployeeInput) error {
	return check(
		fieldValue{"nome", in.Nome},
		fieldValue{"setor_id", in.SetorID},
		fieldValue{"data_admissao", strings.TrimSpace(in.DataAdmissao)},
		fieldValue{"data_fim_experiencia", strings.TrimSpace(in.DataFimExperiencia)},
	)
}

// Attribute validates a new attribute name against the sector's current
// list. Names are compared exactly, as the backend does.
func Attribute(name string, existing []string) error {
	if err := Field("atributo", name); err != nil {
		return err
	}
	for _, a := range existing {
		if a == name {
			return errors.NewValidationError("Atributo já existe neste setor")
		}
	}
	return nil
}

// Feedback validates a payload according to its type
func Feedback(p domain.FeedbackPayload) error {
	if err := p.Tipo.Validate(); err != nil {
		return errors.Wrap(errors.ErrCodeDraftIncomplete, "Tipo de feedback inválido", err)
	}
	if err := Field("funcionario_id", p.FuncionarioID); err != nil {
		return err
	}

	switch {
	case p.Tipo.IsRating():
		return Field("avaliacoes", p.Avaliacoes)
	case p.Tipo.IsOccurrence():
		return Field("descricao", p.Descricao)
	default:
		return check(
			fieldValue{"detalhes", p.Detalhes},
			fieldValue{"recomenda_efetivacao", p.RecomendaEfetivacao},
		)
	}
}
