package ux

import (
	"fmt"

	"github.com/felixgeelhaar/feedfort/internal/errors"
)

// ErrorWithSuggestion wraps an error with helpful recovery suggestions
type ErrorWithSuggestion struct {
	Err        error
	Suggestion string
}

// Error implements the error interface
func (e *ErrorWithSuggestion) Error() string {
	if e.Suggestion != "" {
		return fmt.Sprintf("%v\n\nSugestão: %s", e.Err, e.Suggestion)
	}
	return e.Err.Error()
}

// Unwrap provides access to the underlying error
func (e *ErrorWithSuggestion) Unwrap() error {
	return e.Err
}

// NewErrorWithSuggestion creates a new error with a suggestion
func NewErrorWithSuggestion(err error, suggestion string) error {
	if err == nil {
		return nil
	}
	return &ErrorWithSuggestion{
		Err:        err,
		Suggestion: suggestion,
	}
}

// EnhanceError adds a next step for the error categories a user can act on.
// Errors that already carry suggestions are returned unchanged.
func EnhanceError(err error) error {
	if err == nil {
		return nil
	}

	var fe *errors.FeedfortError
	if errors.As(err, &fe) && len(fe.Suggestions) > 0 {
		return err
	}

	switch errors.CodeOf(err) {
	case errors.ErrCodeTransport:
		return NewErrorWithSuggestion(err,
			"Verifique se o servidor está no ar e se FEEDFORT_API_URL (ou api.url no config) aponta para ele")
	case errors.ErrCodeSessionExpired, errors.ErrCodeNotLoggedIn:
		return NewErrorWithSuggestion(err, "Entre novamente com 'feedfort login'")
	case errors.ErrCodeAccessDenied:
		return NewErrorWithSuggestion(err, "Esta operação exige um usuário administrador")
	case errors.ErrCodeSessionCorrupt:
		return NewErrorWithSuggestion(err, "Remova o arquivo de sessão com 'feedfort logout' e entre novamente")
	}
	return err
}

// FormatError provides consistent error formatting with context
func FormatError(err error, context string) error {
	if err == nil {
		return nil
	}

	enhanced := EnhanceError(err)
	if context != "" {
		return fmt.Errorf("%s: %w", context, enhanced)
	}
	return enhanced
}
