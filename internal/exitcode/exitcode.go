package exitcode

import (
	"os"
	"strings"

	"github.com/felixgeelhaar/feedfort/internal/errors"
)

// Exit codes for consistent error handling across the CLI
const (
	// Success indicates successful execution
	Success = 0

	// GeneralError indicates a general error condition
	GeneralError = 1

	// UsageError indicates invalid command usage or input that failed
	// client-side validation
	UsageError = 2

	// APIError indicates the backend rejected the request
	APIError = 3

	// IOError indicates a local file could not be read or written
	IOError = 4

	// AuthError indicates a login failure, an expired session or a missing
	// admin role
	AuthError = 5

	// NetworkError indicates the backend could not be reached
	NetworkError = 6

	// Interrupted indicates the user cancelled with Ctrl+C
	Interrupted = 130
)

// Exit terminates the program with the given exit code
func Exit(code int) {
	os.Exit(code)
}

// ExitWithError exits with an appropriate code based on error type
func ExitWithError(err error) {
	if err == nil {
		Exit(Success)
		return
	}
	Exit(DetermineExitCode(err))
}

// DetermineExitCode maps the error's code category to an exit code. Errors
// without a code are usage errors when cobra produced them, general errors
// otherwise.
func DetermineExitCode(err error) int {
	if err == nil {
		return Success
	}

	switch errors.CodeOf(err).Category() {
	case "VALID":
		return UsageError
	case "AUTH", "SESSION":
		return AuthError
	case "NET":
		return NetworkError
	case "API":
		return APIError
	case "IO":
		return IOError
	}

	errMsg := strings.ToLower(err.Error())
	usage := []string{"unknown command", "unknown flag", "unknown shorthand flag", "invalid argument", "required flag", "accepts ", "requires at least"}
	for _, s := range usage {
		if strings.Contains(errMsg, s) {
			return UsageError
		}
	}
	return GeneralError
}

// GetExitCodeDescription returns a human-readable description of an exit code
func GetExitCodeDescription(code int) string {
	switch code {
	case Success:
		return "Success"
	case GeneralError:
		return "General error"
	case UsageError:
		return "Usage or validation error"
	case APIError:
		return "Request rejected by the API"
	case IOError:
		return "Local file error"
	case AuthError:
		return "Authentication error"
	case NetworkError:
		return "Network error"
	case Interrupted:
		return "Interrupted"
	default:
		return "Unknown error"
	}
}
