package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/nguyenhoangdanh/tbs-report-system-be-sub000/internal/report/entity"
	"github.com/nguyenhoangdanh/tbs-report-system-be-sub000/internal/report/repository"
)

// EvaluationService manager reviews of subordinate tasks. The original
// submission is snapshotted on first evaluation and never overwritten.
// Evaluations stay possible after the report locks; the lock only
// freezes the owner's submission.
type EvaluationService struct {
	evaluations *repository.EvaluationRepository
	reports     *repository.ReportRepository
	users       *repository.UserRepository
	access      *AccessService
}

func NewEvaluationService(evaluations *repository.EvaluationRepository, reports *repository.ReportRepository, users *repository.UserRepository, access *AccessService) *EvaluationService {
	return &EvaluationService{
		evaluations: evaluations,
		reports:     reports,
		users:       users,
		access:      access,
	}
}

// EvaluateTaskRequest create or amend an evaluation
type EvaluateTaskRequest struct {
	EvaluatedIsCompleted   bool    `json:"evaluated_is_completed"`
	EvaluatedReasonNotDone *string `json:"evaluated_reason_not_done"`
	EvaluatorComment       string  `json:"evaluator_comment"`
	EvaluationType         string  `json:"evaluation_type"`
}

// Evaluate creates the evaluator's review of a task. The evaluator must
// hold a management position (or an admin role) and the task owner must
// fall inside the evaluator's visibility scope. One evaluation per
// evaluator per task; a second is a conflict.
func (s *EvaluationService) Evaluate(ctx context.Context, evaluatorID, role, taskID string, req *EvaluateTaskRequest) (*entity.TaskEvaluation, error) {
	task, err := s.reports.FindTaskByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if task.Report == nil {
		return nil, repository.ErrNotFound
	}

	if !entity.IsAdminRole(role) {
		evaluator, err := s.users.FindByID(ctx, evaluatorID)
		if err != nil {
			return nil, err
		}
		pos := positionOf(evaluator)
		if pos == nil || !pos.IsManagement {
			return nil, ErrForbidden
		}
	}

	allowed, err := s.access.CanViewUser(ctx, evaluatorID, role, task.Report.UserID)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, ErrForbidden
	}

	if _, err := s.evaluations.FindByTaskAndEvaluator(ctx, taskID, evaluatorID); err == nil {
		return nil, ErrConflict
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	evaluationType := req.EvaluationType
	if evaluationType == "" {
		evaluationType = entity.EvaluationTypeReview
	}

	eval := &entity.TaskEvaluation{
		ID:                     uuid.New().String(),
		TaskID:                 taskID,
		EvaluatorID:            evaluatorID,
		OriginalIsCompleted:    task.IsCompleted,
		OriginalReasonNotDone:  task.ReasonNotDone,
		EvaluatedIsCompleted:   req.EvaluatedIsCompleted,
		EvaluatedReasonNotDone: req.EvaluatedReasonNotDone,
		EvaluatorComment:       req.EvaluatorComment,
		EvaluationType:         evaluationType,
		CreatedAt:              time.Now(),
		UpdatedAt:              time.Now(),
	}
	if err := s.evaluations.Create(ctx, eval); err != nil {
		return nil, err
	}
	return eval, nil
}

// Update amends the evaluator's own evaluation. The original snapshot
// fields are left untouched.
func (s *EvaluationService) Update(ctx context.Context, evaluatorID, evaluationID string, req *EvaluateTaskRequest) (*entity.TaskEvaluation, error) {
	eval, err := s.evaluations.FindByID(ctx, evaluationID)
	if err != nil {
		return nil, err
	}
	if eval.EvaluatorID != evaluatorID {
		return nil, ErrForbidden
	}

	eval.EvaluatedIsCompleted = req.EvaluatedIsCompleted
	eval.EvaluatedReasonNotDone = req.EvaluatedReasonNotDone
	eval.EvaluatorComment = req.EvaluatorComment
	if req.EvaluationType != "" {
		eval.EvaluationType = req.EvaluationType
	}
	eval.UpdatedAt = time.Now()

	if err := s.evaluations.Update(ctx, eval); err != nil {
		return nil, err
	}
	return eval, nil
}

// ListForTask returns a task's evaluations for viewers allowed to see
// the task owner.
func (s *EvaluationService) ListForTask(ctx context.Context, viewerID, role, taskID string) ([]entity.TaskEvaluation, error) {
	task, err := s.reports.FindTaskByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if task.Report == nil {
		return nil, repository.ErrNotFound
	}

	allowed, err := s.access.CanViewUser(ctx, viewerID, role, task.Report.UserID)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, ErrForbidden
	}

	return s.evaluations.ListByTask(ctx, taskID)
}
