package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
)

// ErrorCode represents a unique error identifier
type ErrorCode string

// Error categories
const (
	// Validation errors (VALID-001 to VALID-099) are raised before any request is sent
	ErrCodeValidation      ErrorCode = "VALID-001"
	ErrCodeNotRated        ErrorCode = "VALID-002"
	ErrCodeDraftIncomplete ErrorCode = "VALID-003"

	// Authentication errors (AUTH-001 to AUTH-099)
	ErrCodeSessionExpired ErrorCode = "AUTH-001"
	ErrCodeLoginFailed    ErrorCode = "AUTH-002"
	ErrCodeAccessDenied   ErrorCode = "AUTH-003"
	ErrCodeNotLoggedIn    ErrorCode = "AUTH-004"

	// API errors (API-001 to API-099)
	ErrCodeRequestRejected ErrorCode = "API-001"
	ErrCodeDecodeFailed    ErrorCode = "API-002"
	ErrCodeInFlight        ErrorCode = "API-003"

	// Network errors (NET-001 to NET-099)
	ErrCodeTransport ErrorCode = "NET-001"

	// Session storage errors (SESSION-001 to SESSION-099)
	ErrCodeSessionRead    ErrorCode = "SESSION-001"
	ErrCodeSessionWrite   ErrorCode = "SESSION-002"
	ErrCodeSessionCorrupt ErrorCode = "SESSION-003"

	// File I/O errors (IO-001 to IO-099)
	ErrCodeFileNotFound    ErrorCode = "IO-001"
	ErrCodeFileReadFailed  ErrorCode = "IO-002"
	ErrCodeFileWriteFailed ErrorCode = "IO-003"
	ErrCodeDirectoryFailed ErrorCode = "IO-004"
	ErrCodeFileUnmarshal   ErrorCode = "IO-005"
)

// FeedfortError represents an enhanced error with code and suggestions
type FeedfortError struct {
	Code        ErrorCode
	Message     string
	Suggestions []string
	Cause       error
}

// Error implements the error interface
func (e *FeedfortError) Error() string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("[%s] %s", e.Code, e.Message))

	if e.Cause != nil {
		b.WriteString(fmt.Sprintf(": %v", e.Cause))
	}

	if len(e.Suggestions) > 0 {
		b.WriteString("\n\nSugestões:")
		for _, suggestion := range e.Suggestions {
			b.WriteString(fmt.Sprintf("\n  • %s", suggestion))
		}
	}

	return b.String()
}

// Unwrap implements error unwrapping for errors.Is and errors.As
func (e *FeedfortError) Unwrap() error {
	return e.Cause
}

// New creates a new FeedfortError
func New(code ErrorCode, message string) *FeedfortError {
	return &FeedfortError{
		Code:    code,
		Message: message,
	}
}

// Wrap creates a new FeedfortError wrapping an existing error
func Wrap(code ErrorCode, message string, cause error) *FeedfortError {
	return &FeedfortError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// WithSuggestion adds a suggestion to the error
func (e *FeedfortError) WithSuggestion(suggestion string) *FeedfortError {
	e.Suggestions = append(e.Suggestions, suggestion)
	return e
}

// WithSuggestions adds multiple suggestions to the error
func (e *FeedfortError) WithSuggestions(suggestions ...string) *FeedfortError {
	e.Suggestions = append(e.Suggestions, suggestions...)
	return e
}

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return stderrors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target any) bool {
	return stderrors.As(err, target)
}

// CodeOf returns the code of the first FeedfortError in err's chain, or ""
func CodeOf(err error) ErrorCode {
	var fe *FeedfortError
	if stderrors.As(err, &fe) {
		return fe.Code
	}
	return ""
}

// HasCode reports whether err carries the given code anywhere in its chain
func HasCode(err error, code ErrorCode) bool {
	for err != nil {
		var fe *FeedfortError
		if !stderrors.As(err, &fe) {
			return false
		}
		if fe.Code == code {
			return true
		}
		err = fe.Cause
	}
	return false
}

// Category returns the prefix of the code ("AUTH", "NET", ...)
func (c ErrorCode) Category() string {
	if i := strings.IndexByte(string(c), '-'); i > 0 {
		return string(c)[:i]
	}
	return string(c)
}

// Common error constructors

// NewValidationError creates a client-side validation error carrying the
// user-facing message unchanged
func NewValidationError(message string) *FeedfortError {
	return New(ErrCodeValidation, message)
}

// NewSessionExpiredError creates the error raised when the backend answers 401
func NewSessionExpiredError() *FeedfortError {
	return New(ErrCodeSessionExpired, "Sessão expirada. Faça login novamente.").
		WithSuggestion("Entre novamente com 'feedfort login'")
}

// NewNotLoggedInError creates an error for commands that need a stored session
func NewNotLoggedInError() *FeedfortError {
	return New(ErrCodeNotLoggedIn, "Nenhuma sessão ativa").
		WithSuggestion("Entre primeiro com 'feedfort login'")
}

// NewAccessDeniedError creates an error for admin-only operations
func NewAccessDeniedError() *FeedfortError {
	return New(ErrCodeAccessDenied, "Acesso negado")
}

// NewTransportError creates a connection error
func NewTransportError(cause error) *FeedfortError {
	return Wrap(ErrCodeTransport, "Erro de conexão", cause).
		WithSuggestion("Verifique se o servidor está no ar no endereço configurado em api.url").
		WithSuggestion("Confira a configuração com 'feedfort config view'")
}

// NewFileNotFoundError creates a file not found error
func NewFileNotFoundError(path string) *FeedfortError {
	return New(ErrCodeFileNotFound, fmt.Sprintf("file not found: %s", path)).
		WithSuggestion("Confira o caminho do arquivo").
		WithSuggestion("Verifique se o arquivo existe e pode ser lido")
}

// NewFileUnmarshalError creates an unmarshal error
func NewFileUnmarshalError(path string, format string, cause error) *FeedfortError {
	return Wrap(ErrCodeFileUnmarshal, fmt.Sprintf("failed to parse %s file: %s", format, path), cause).
		WithSuggestion("Confira a sintaxe do arquivo").
		WithSuggestion(fmt.Sprintf("O arquivo precisa ser %s válido", format))
}
