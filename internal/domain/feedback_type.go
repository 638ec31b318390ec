package domain

import "fmt"

// FeedbackType is the "tipo" discriminator of a feedback record.
// This is a value object that enforces the values the backend accepts.
type FeedbackType string

// Feedback types
const (
	FeedbackDaily          FeedbackType = "diario"
	FeedbackDailyProbation FeedbackType = "diario_experiencia"
	FeedbackFinalProbation FeedbackType = "final_experiencia"
	FeedbackPositive       FeedbackType = "positiva"
	FeedbackNegative       FeedbackType = "negativa"
)

// AllFeedbackTypes lists the submittable types in dashboard order
var AllFeedbackTypes = []FeedbackType{
	FeedbackDaily,
	FeedbackPositive,
	FeedbackNegative,
	FeedbackDailyProbation,
	FeedbackFinalProbation,
}

// NewFeedbackType creates a FeedbackType with validation
func NewFeedbackType(value string) (FeedbackType, error) {
	t := FeedbackType(value)
	if err := t.Validate(); err != nil {
		return "", err
	}
	return t, nil
}

// Validate checks if the type is one the backend accepts
func (t FeedbackType) Validate() error {
	switch t {
	case FeedbackDaily, FeedbackDailyProbation, FeedbackFinalProbation, FeedbackPositive, FeedbackNegative:
		return nil
	default:
		return fmt.Errorf("invalid feedback type %q", string(t))
	}
}

// String returns the string representation
func (t FeedbackType) String() string {
	return string(t)
}

// IsRating reports whether the form is a per-attribute star rating
func (t FeedbackType) IsRating() bool {
	return t == FeedbackDaily || t == FeedbackDailyProbation
}

// IsOccurrence reports whether the form is a free-text occurrence
func (t FeedbackType) IsOccurrence() bool {
	return t == FeedbackPositive || t == FeedbackNegative
}

// IsProbation reports whether the type belongs to the experiência flow
func (t FeedbackType) IsProbation() bool {
	return t == FeedbackDailyProbation || t == FeedbackFinalProbation
}

// Title is the form heading shown for the type
func (t FeedbackType) Title() string {
	switch t {
	case FeedbackDaily:
		return "Avaliação Diária"
	case FeedbackDailyProbation:
		return "Avaliação Diária - Experiência"
	case FeedbackFinalProbation:
		return "Avaliação Final - Experiência"
	case FeedbackPositive:
		return "Ocorrência Positiva"
	case FeedbackNegative:
		return "Ocorrência Negativa"
	default:
		return string(t)
	}
}

// Flow is the first choice on the dashboard. Every flow except
// FlowProbation maps one-to-one to a FeedbackType.
type Flow string

// Dashboard flows
const (
	FlowDaily     Flow = "diario"
	FlowPositive  Flow = "positiva"
	FlowNegative  Flow = "negativa"
	FlowProbation Flow = "experiencia"
)

// Flows lists the dashboard choices in display order
var Flows = []Flow{FlowDaily, FlowPositive, FlowNegative, FlowProbation}

// Validate checks the flow
func (f Flow) Validate() error {
	switch f {
	case FlowDaily, FlowPositive, FlowNegative, FlowProbation:
		return nil
	default:
		return fmt.Errorf("invalid feedback flow %q", string(f))
	}
}

// FeedbackType resolves the flow to its type. FlowProbation has no type of its
// own until a subtype is picked, so it returns false.
func (f Flow) FeedbackType() (FeedbackType, bool) {
	switch f {
	case FlowDaily:
		return FeedbackDaily, true
	case FlowPositive:
		return FeedbackPositive, true
	case FlowNegative:
		return FeedbackNegative, true
	default:
		return "", false
	}
}

// Label is the dashboard button text
func (f Flow) Label() string {
	switch f {
	case FlowDaily:
		return "Feedback Diário"
	case FlowPositive:
		return "Ocorrência Positiva"
	case FlowNegative:
		return "Ocorrência Negativa"
	case FlowProbation:
		return "Experiência"
	default:
		return string(f)
	}
}

// ProbationSubtypes are the choices on the experiência subtype screen
var ProbationSubtypes = []FeedbackType{FeedbackDailyProbation, FeedbackFinalProbation}

// UserType is the role carried by the session user
type UserType string

// User types. The backend stores "comum" for regular accounts created
// without an explicit type, so anything that is not admin is regular.
const (
	UserTypeAdmin   UserType = "admin"
	UserTypeRegular UserType = "usuario"
)

// IsAdmin reports whether the user type grants admin screens
func (u UserType) IsAdmin() bool {
	return u == UserTypeAdmin
}
