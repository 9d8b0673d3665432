package solution

// Verdict is the closed set of judgments. Pending and Judging are the
// non-terminal submission states that precede a verdict.
type Verdict string

const (
	Pending             Verdict = "Pending"
	Judging             Verdict = "Judging"
	Success             Verdict = "Success"
	Accepted            Verdict = "Accepted"
	WrongAnswer         Verdict = "Wrong Answer"
	TimeLimitExceeded   Verdict = "Time Limit Exceeded"
	MemoryLimitExceeded Verdict = "Memory Limit Exceeded"
	CompilationError    Verdict = "Compilation Error"
	RuntimeError        Verdict = "Runtime Error"
	SystemError         Verdict = "System Error"
	// Passed is only used for a single case of a full batch report.
	Passed Verdict = "Passed"
)

func (v Verdict) String() string { return string(v) }

// IsTerminal reports whether the verdict ends the submission lifecycle.
func (v Verdict) IsTerminal() bool {
	switch v {
	case Pending, Judging, "":
		return false
	default:
		return true
	}
}

// RawRunResult is the uninterpreted output of one exec.
type RawRunResult struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// RunResult is the payload of an ad hoc run.
type RunResult struct {
	Verdict  Verdict `json:"verdict"`
	Stdout   string  `json:"stdout"`
	Stderr   string  `json:"stderr"`
	ExitCode int     `json:"exit_code"`
	Message  string  `json:"message"`
}

// FailedTestCase is attached to a Wrong Answer verdict.
type FailedTestCase struct {
	CaseIndex      int    `json:"case_index"`
	Input          string `json:"input"`
	ExpectedOutput string `json:"expected_output"`
	ActualOutput   string `json:"actual_output"`
}

// Result is the outcome of a fail-fast batch.
type Result struct {
	Verdict Verdict `json:"verdict"`
	Message string  `json:"message"`
	// FailedCaseIndex is the 1-based index of the case that ended the batch, 0 otherwise.
	FailedCaseIndex int             `json:"failed_case_index,omitempty"`
	FailedTestCase  *FailedTestCase `json:"failed_test_case,omitempty"`
	CompileOutput   string          `json:"compile_output,omitempty"`
	// Cause keeps the underlying error text of a System Error for logs and storage.
	Cause string `json:"-"`
}

// CaseReport is one entry of a full batch report.
type CaseReport struct {
	CaseIndex      int     `json:"case_index"`
	Input          string  `json:"input"`
	ExpectedOutput string  `json:"expected_output"`
	ActualOutput   string  `json:"actual_output"`
	Verdict        Verdict `json:"verdict"`
	Stderr         string  `json:"stderr"`
}

// BatchReport is the outcome of a full batch.
type BatchReport struct {
	Verdict       Verdict      `json:"verdict"`
	Message       string       `json:"message"`
	CompileOutput string       `json:"compile_output,omitempty"`
	Cases         []CaseReport `json:"cases"`
}
