package errors

import "errors"

// Error messages.
var (
	ErrInvalidLanguageType = errors.New("invalid language type")
	ErrUnknownMessageType  = errors.New("unknown message type")
	ErrTimeLimitExceeded   = errors.New("execution exceeded the time limit")
	ErrVolumeNotMounted    = errors.New("jobs data volume is not mounted in the worker container")
	ErrSubmissionNotFound  = errors.New("submission not found")
	ErrEmptySubmission     = errors.New("submission has no source code")
	ErrInvalidFixture      = errors.New("invalid test case fixture")
	ErrInvalidJob          = errors.New("invalid job message")
)

// CompilationError is returned by the provisioner when the build step fails.
// The sandbox is already torn down when the caller receives it.
type CompilationError struct {
	ExitCode int
	Stderr   string
}

func (e *CompilationError) Error() string {
	return "compilation failed"
}
