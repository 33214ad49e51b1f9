package repository

import (
	"context"
	"errors"

	"github.com/nguyenhoangdanh/tbs-report-system-be-sub000/internal/report/entity"
	"gorm.io/gorm"
)

// EvaluationRepository task evaluation data access
type EvaluationRepository struct {
	db *gorm.DB
}

func NewEvaluationRepository(db *gorm.DB) *EvaluationRepository {
	return &EvaluationRepository{db: db}
}

func (r *EvaluationRepository) FindByID(ctx context.Context, id string) (*entity.TaskEvaluation, error) {
	var eval entity.TaskEvaluation
	err := r.db.WithContext(ctx).
		Preload("Evaluator").
		Preload("Task.Report").
		Where("id = ?", id).
		First(&eval).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &eval, nil
}

// FindByTaskAndEvaluator looks up the unique (task, evaluator) pair.
func (r *EvaluationRepository) FindByTaskAndEvaluator(ctx context.Context, taskID, evaluatorID string) (*entity.TaskEvaluation, error) {
	var eval entity.TaskEvaluation
	err := r.db.WithContext(ctx).
		Where("task_id = ? AND evaluator_id = ?", taskID, evaluatorID).
		First(&eval).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &eval, nil
}

func (r *EvaluationRepository) ListByTask(ctx context.Context, taskID string) ([]entity.TaskEvaluation, error) {
	var evals []entity.TaskEvaluation
	err := r.db.WithContext(ctx).
		Preload("Evaluator").
		Where("task_id = ?", taskID).
		Order("created_at ASC").
		Find(&evals).Error
	return evals, err
}

func (r *EvaluationRepository) Create(ctx context.Context, eval *entity.TaskEvaluation) error {
	return r.db.WithContext(ctx).Create(eval).Error
}

func (r *EvaluationRepository) Update(ctx context.Context, eval *entity.TaskEvaluation) error {
	return r.db.WithContext(ctx).Save(eval).Error
}

// EvidenceRepository task evidence metadata; file bytes live in object
// storage.
type EvidenceRepository struct {
	db *gorm.DB
}

func NewEvidenceRepository(db *gorm.DB) *EvidenceRepository {
	return &EvidenceRepository{db: db}
}

func (r *EvidenceRepository) FindByID(ctx context.Context, id string) (*entity.TaskEvidence, error) {
	var evidence entity.TaskEvidence
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&evidence).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &evidence, nil
}

func (r *EvidenceRepository) ListByTask(ctx context.Context, taskID string) ([]entity.TaskEvidence, error) {
	var evidences []entity.TaskEvidence
	err := r.db.WithContext(ctx).
		Where("task_id = ?", taskID).
		Order("created_at ASC").
		Find(&evidences).Error
	return evidences, err
}

func (r *EvidenceRepository) Create(ctx context.Context, evidence *entity.TaskEvidence) error {
	return r.db.WithContext(ctx).Create(evidence).Error
}

func (r *EvidenceRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&entity.TaskEvidence{}).Error
}
