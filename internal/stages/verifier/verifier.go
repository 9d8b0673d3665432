package verifier

import (
	"strings"

	"github.com/mini-maxit/judge/pkg/constants"
	"github.com/mini-maxit/judge/pkg/solution"
)

// Normalize converts CRLF line endings to LF and trims surrounding whitespace.
func Normalize(s string) string {
	return strings.TrimSpace(strings.ReplaceAll(s, "\r\n", "\n"))
}

// Equal reports whether actual and expected match after normalization.
func Equal(actual, expected string) bool {
	return Normalize(actual) == Normalize(expected)
}

// VerdictForExitCode maps a finished exec's exit code to a failure verdict.
// ok is true for a clean exit, in which case the verdict depends on the output.
func VerdictForExitCode(exitCode int) (verdict solution.Verdict, ok bool) {
	switch exitCode {
	case constants.ExitCodeSuccess:
		return "", true
	case constants.ExitCodeMemoryLimitExceeded:
		return solution.MemoryLimitExceeded, false
	default:
		return solution.RuntimeError, false
	}
}

// MessageFor returns the user-facing message attached to a verdict.
func MessageFor(v solution.Verdict) string {
	switch v {
	case solution.Success:
		return constants.SolutionMessageSuccess
	case solution.Accepted:
		return constants.SolutionMessageAccepted
	case solution.WrongAnswer:
		return constants.SolutionMessageOutputDifference
	case solution.TimeLimitExceeded:
		return constants.SolutionMessageTimeout
	case solution.MemoryLimitExceeded:
		return constants.SolutionMessageMemoryLimitExceeded
	case solution.RuntimeError:
		return constants.SolutionMessageRuntimeError
	case solution.CompilationError:
		return constants.SolutionMessageCompilationError
	default:
		return constants.SolutionMessageInternalError
	}
}
