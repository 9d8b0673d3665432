package models

import (
	"time"

	"github.com/mini-maxit/judge/pkg/solution"
)

// Submission is one user's attempt at a problem. Judging fields are written in
// a single update once the verdict is known.
type Submission struct {
	ID        int64  `json:"id" gorm:"primaryKey"`
	UserID    int64  `json:"user_id" gorm:"index"`
	ProblemID int64  `json:"problem_id" gorm:"index"`
	Language  string `json:"language"`
	// SourceCode is inline source. When empty, SourceKey points to the object store.
	SourceCode string           `json:"source_code" gorm:"type:text"`
	SourceKey  string           `json:"source_key"`
	Status     solution.Verdict `json:"status" gorm:"index"`
	Message    string           `json:"message"`

	FailedCaseIndex int    `json:"failed_case_index"`
	FailedInput     string `json:"failed_input" gorm:"type:text"`
	FailedExpected  string `json:"failed_expected" gorm:"type:text"`
	FailedActual    string `json:"failed_actual" gorm:"type:text"`
	CompileOutput   string `json:"compile_output" gorm:"type:text"`
	// ErrorDetail keeps the cause of a System Error. It is never shown to users.
	ErrorDetail string `json:"-" gorm:"type:text"`

	JudgedAt  *time.Time `json:"judged_at"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}
