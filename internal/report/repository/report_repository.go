package repository

import (
	"context"
	"errors"
	"time"

	"github.com/nguyenhoangdanh/tbs-report-system-be-sub000/internal/report/entity"
	"gorm.io/gorm"
)

// ReportRepository report data access. Every mutation on a report or its
// tasks is a conditional write guarded by is_locked at the storage layer,
// so an edit racing the lock job resolves atomically.
type ReportRepository struct {
	db *gorm.DB
}

func NewReportRepository(db *gorm.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

func (r *ReportRepository) FindByID(ctx context.Context, id string) (*entity.Report, error) {
	var report entity.Report
	err := r.db.WithContext(ctx).
		Preload("Tasks", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		Preload("User.JobPosition.Position").
		Preload("User.JobPosition.Department.Office").
		Where("id = ?", id).
		First(&report).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &report, nil
}

func (r *ReportRepository) FindByUserWeek(ctx context.Context, userID string, week, year int) (*entity.Report, error) {
	var report entity.Report
	err := r.db.WithContext(ctx).
		Preload("Tasks", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		Where("user_id = ? AND week_number = ? AND year = ?", userID, week, year).
		First(&report).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &report, nil
}

func (r *ReportRepository) ListByUser(ctx context.Context, userID string, limit int) ([]entity.Report, error) {
	var reports []entity.Report
	query := r.db.WithContext(ctx).
		Preload("Tasks").
		Where("user_id = ?", userID).
		Order("year DESC, week_number DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	err := query.Find(&reports).Error
	return reports, err
}

func (r *ReportRepository) Create(ctx context.Context, report *entity.Report) error {
	return r.db.WithContext(ctx).Create(report).Error
}

// UpdateUnlocked applies field updates only while the report is
// unlocked. Returns ErrLocked when the report exists but is locked.
func (r *ReportRepository) UpdateUnlocked(ctx context.Context, reportID string, updates map[string]interface{}) error {
	updates["updated_at"] = time.Now()
	res := r.db.WithContext(ctx).Model(&entity.Report{}).
		Where("id = ? AND is_locked = ?", reportID, false).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return r.lockedOrMissing(ctx, reportID)
	}
	return nil
}

// Delete removes an unlocked report and its tasks.
func (r *ReportRepository) Delete(ctx context.Context, reportID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("id = ? AND is_locked = ?", reportID, false).Delete(&entity.Report{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return r.lockedOrMissing(ctx, reportID)
		}
		return tx.Where("report_id = ?", reportID).Delete(&entity.ReportTask{}).Error
	})
}

// CreateTask inserts a task after re-checking the lock inside the same
// transaction.
func (r *ReportRepository) CreateTask(ctx context.Context, task *entity.ReportTask) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&entity.Report{}).
			Where("id = ? AND is_locked = ?", task.ReportID, false).
			Update("updated_at", time.Now())
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return r.lockedOrMissing(ctx, task.ReportID)
		}
		return tx.Create(task).Error
	})
}

// UpdateTask applies task field updates with the lock check folded into
// the WHERE clause via a subquery on the owning report.
func (r *ReportRepository) UpdateTask(ctx context.Context, taskID string, updates map[string]interface{}) error {
	updates["updated_at"] = time.Now()
	res := r.db.WithContext(ctx).Model(&entity.ReportTask{}).
		Where("id = ? AND report_id IN (?)", taskID,
			r.db.Model(&entity.Report{}).Select("id").Where("is_locked = ?", false)).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return r.taskLockedOrMissing(ctx, taskID)
	}
	return nil
}

func (r *ReportRepository) DeleteTask(ctx context.Context, taskID string) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND report_id IN (?)", taskID,
			r.db.Model(&entity.Report{}).Select("id").Where("is_locked = ?", false)).
		Delete(&entity.ReportTask{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return r.taskLockedOrMissing(ctx, taskID)
	}
	return nil
}

func (r *ReportRepository) FindTaskByID(ctx context.Context, taskID string) (*entity.ReportTask, error) {
	var task entity.ReportTask
	err := r.db.WithContext(ctx).
		Preload("Report").
		Where("id = ?", taskID).
		First(&task).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &task, nil
}

// BulkLock sets is_locked on every unlocked report of one work week.
// Re-running is harmless: the filter re-evaluates each time.
func (r *ReportRepository) BulkLock(ctx context.Context, week, year int) (int64, error) {
	res := r.db.WithContext(ctx).Model(&entity.Report{}).
		Where("week_number = ? AND year = ? AND is_locked = ?", week, year, false).
		Updates(map[string]interface{}{"is_locked": true, "updated_at": time.Now()})
	return res.RowsAffected, res.Error
}

// lockedOrMissing distinguishes a zero-row conditional write: the report
// either does not exist (NotFound) or exists locked (Locked).
func (r *ReportRepository) lockedOrMissing(ctx context.Context, reportID string) error {
	var count int64
	if err := r.db.WithContext(ctx).Model(&entity.Report{}).
		Where("id = ?", reportID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return ErrNotFound
	}
	return ErrLocked
}

func (r *ReportRepository) taskLockedOrMissing(ctx context.Context, taskID string) error {
	var count int64
	if err := r.db.WithContext(ctx).Model(&entity.ReportTask{}).
		Where("id = ?", taskID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return ErrNotFound
	}
	return ErrLocked
}
