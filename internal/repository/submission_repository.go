package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/mini-maxit/judge/internal/models"
	customErr "github.com/mini-maxit/judge/pkg/errors"
	"github.com/mini-maxit/judge/pkg/solution"
)

type SubmissionRepository interface {
	Get(ctx context.Context, id int64) (*models.Submission, error)
	MarkJudging(ctx context.Context, id int64) error
	// SaveResult writes the verdict and its details in one statement.
	SaveResult(ctx context.Context, id int64, res solution.Result) error
	Create(ctx context.Context, sub *models.Submission) error
}

type submissionRepository struct {
	db *gorm.DB
}

func NewSubmissionRepository(db *gorm.DB) SubmissionRepository {
	return &submissionRepository{db: db}
}

func (r *submissionRepository) Get(ctx context.Context, id int64) (*models.Submission, error) {
	var sub models.Submission
	err := r.db.WithContext(ctx).First(&sub, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %d", customErr.ErrSubmissionNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

func (r *submissionRepository) MarkJudging(ctx context.Context, id int64) error {
	return r.update(ctx, id, map[string]any{"status": string(solution.Judging)})
}

func (r *submissionRepository) SaveResult(ctx context.Context, id int64, res solution.Result) error {
	now := time.Now()
	updates := map[string]any{
		"status":            string(res.Verdict),
		"message":           res.Message,
		"failed_case_index": res.FailedCaseIndex,
		"failed_input":      "",
		"failed_expected":   "",
		"failed_actual":     "",
		"compile_output":    res.CompileOutput,
		"error_detail":      res.Cause,
		"judged_at":         &now,
	}
	if res.FailedTestCase != nil {
		updates["failed_input"] = res.FailedTestCase.Input
		updates["failed_expected"] = res.FailedTestCase.ExpectedOutput
		updates["failed_actual"] = res.FailedTestCase.ActualOutput
	}
	return r.update(ctx, id, updates)
}

func (r *submissionRepository) update(ctx context.Context, id int64, updates map[string]any) error {
	tx := r.db.WithContext(ctx).Model(&models.Submission{}).Where("id = ?", id).Updates(updates)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return fmt.Errorf("%w: %d", customErr.ErrSubmissionNotFound, id)
	}
	return nil
}

func (r *submissionRepository) Create(ctx context.Context, sub *models.Submission) error {
	if sub.Status == "" {
		sub.Status = solution.Pending
	}
	return r.db.WithContext(ctx).Create(sub).Error
}
