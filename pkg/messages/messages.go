package messages

import "github.com/mini-maxit/judge/pkg/solution"

// JobMessage is the body of a judging job.
type JobMessage struct {
	SubmissionID int64 `json:"submission_id"`
}

// CompletionEvent is published once a submission's verdict is persisted.
type CompletionEvent struct {
	Type         string           `json:"type"`
	SubmissionID int64            `json:"submission_id"`
	UserID       int64            `json:"user_id"`
	Verdict      solution.Verdict `json:"verdict"`
}

// TestCase is owned by problem storage; the engine only reads it.
type TestCase struct {
	Input          string `json:"input"`
	ExpectedOutput string `json:"expected_output"`
	Explanation    string `json:"explanation,omitempty"`
}

// RunRequest is the body of the ad hoc run endpoint.
type RunRequest struct {
	Language string `json:"language" binding:"required"`
	Code     string `json:"code" binding:"required"`
	Input    string `json:"input"`
}

// BatchRequest is the body of the batch report endpoint.
type BatchRequest struct {
	Language  string     `json:"language" binding:"required"`
	Code      string     `json:"code" binding:"required"`
	TestCases []TestCase `json:"test_cases"`
}

// LanguageSpec describes one supported language to clients.
type LanguageSpec struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Compiled bool   `json:"compiled"`
}
