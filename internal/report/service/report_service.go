package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/nguyenhoangdanh/tbs-report-system-be-sub000/internal/report/entity"
	"github.com/nguyenhoangdanh/tbs-report-system-be-sub000/internal/report/repository"
)

// ReportService weekly report lifecycle. Owners mutate their own report
// until the lock lands; every mutation goes through the conditional
// writes in the repository so a racing lock wins at the storage layer.
type ReportService struct {
	reports *repository.ReportRepository
	users   *repository.UserRepository
	access  *AccessService
}

func NewReportService(reports *repository.ReportRepository, users *repository.UserRepository, access *AccessService) *ReportService {
	return &ReportService{reports: reports, users: users, access: access}
}

// TaskRequest one checklist row
type TaskRequest struct {
	TaskName      string  `json:"task_name" binding:"required"`
	Monday        bool    `json:"monday"`
	Tuesday       bool    `json:"tuesday"`
	Wednesday     bool    `json:"wednesday"`
	Thursday      bool    `json:"thursday"`
	Friday        bool    `json:"friday"`
	Saturday      bool    `json:"saturday"`
	Sunday        bool    `json:"sunday"`
	IsCompleted   bool    `json:"is_completed"`
	ReasonNotDone *string `json:"reason_not_done"`
}

// CreateReportRequest create a weekly report with its initial tasks
type CreateReportRequest struct {
	WeekNumber int           `json:"week_number" binding:"required,min=1,max=53"`
	Year       int           `json:"year" binding:"required"`
	Tasks      []TaskRequest `json:"tasks"`
}

// UpdateTaskRequest partial task update
type UpdateTaskRequest struct {
	TaskName      *string `json:"task_name"`
	Monday        *bool   `json:"monday"`
	Tuesday       *bool   `json:"tuesday"`
	Wednesday     *bool   `json:"wednesday"`
	Thursday      *bool   `json:"thursday"`
	Friday        *bool   `json:"friday"`
	Saturday      *bool   `json:"saturday"`
	Sunday        *bool   `json:"sunday"`
	IsCompleted   *bool   `json:"is_completed"`
	ReasonNotDone *string `json:"reason_not_done"`
}

// Create creates the user's report for one work week. A second report
// for the same (user, week, year) is a conflict.
func (s *ReportService) Create(ctx context.Context, userID string, req *CreateReportRequest) (*entity.Report, error) {
	if !IsValidWeek(req.WeekNumber, req.Year) {
		return nil, fmt.Errorf("invalid week %d/%d", req.WeekNumber, req.Year)
	}

	if _, err := s.reports.FindByUserWeek(ctx, userID, req.WeekNumber, req.Year); err == nil {
		return nil, ErrConflict
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	report := &entity.Report{
		ID:         uuid.New().String(),
		WeekNumber: req.WeekNumber,
		Year:       req.Year,
		UserID:     userID,
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}
	for _, t := range req.Tasks {
		report.Tasks = append(report.Tasks, newTask(report.ID, t))
	}

	if err := s.reports.Create(ctx, report); err != nil {
		return nil, err
	}
	return s.reports.FindByID(ctx, report.ID)
}

func newTask(reportID string, req TaskRequest) entity.ReportTask {
	return entity.ReportTask{
		ID:            uuid.New().String(),
		ReportID:      reportID,
		TaskName:      req.TaskName,
		Monday:        req.Monday,
		Tuesday:       req.Tuesday,
		Wednesday:     req.Wednesday,
		Thursday:      req.Thursday,
		Friday:        req.Friday,
		Saturday:      req.Saturday,
		Sunday:        req.Sunday,
		IsCompleted:   req.IsCompleted,
		ReasonNotDone: req.ReasonNotDone,
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}
}

// GetMine returns the caller's report for a week, NotFound when absent.
func (s *ReportService) GetMine(ctx context.Context, userID string, week, year int) (*entity.Report, error) {
	return s.reports.FindByUserWeek(ctx, userID, week, year)
}

// ListMine returns the caller's recent reports.
func (s *ReportService) ListMine(ctx context.Context, userID string, limit int) ([]entity.Report, error) {
	return s.reports.ListByUser(ctx, userID, limit)
}

// Get returns a report the viewer is allowed to see.
func (s *ReportService) Get(ctx context.Context, viewerID, role, reportID string) (*entity.Report, error) {
	report, err := s.reports.FindByID(ctx, reportID)
	if err != nil {
		return nil, err
	}

	allowed, err := s.access.CanViewUser(ctx, viewerID, role, report.UserID)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, ErrForbidden
	}
	return report, nil
}

// SetCompleted flips the report completion flag. Owner only; locked
// reports reject the write regardless of requester role.
func (s *ReportService) SetCompleted(ctx context.Context, userID, reportID string, isCompleted bool) error {
	if err := s.requireOwner(ctx, userID, reportID); err != nil {
		return err
	}
	return s.reports.UpdateUnlocked(ctx, reportID, map[string]interface{}{
		"is_completed": isCompleted,
	})
}

// Delete removes an unlocked report. Owner only.
func (s *ReportService) Delete(ctx context.Context, userID, reportID string) error {
	if err := s.requireOwner(ctx, userID, reportID); err != nil {
		return err
	}
	return s.reports.Delete(ctx, reportID)
}

// AddTask appends a task to an unlocked report. Owner only.
func (s *ReportService) AddTask(ctx context.Context, userID, reportID string, req TaskRequest) (*entity.ReportTask, error) {
	if err := s.requireOwner(ctx, userID, reportID); err != nil {
		return nil, err
	}

	task := newTask(reportID, req)
	if err := s.reports.CreateTask(ctx, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// UpdateTask applies a partial task update through the lock-guarded
// conditional write.
func (s *ReportService) UpdateTask(ctx context.Context, userID, taskID string, req *UpdateTaskRequest) error {
	task, err := s.reports.FindTaskByID(ctx, taskID)
	if err != nil {
		return err
	}
	if task.Report == nil || task.Report.UserID != userID {
		return ErrForbidden
	}

	updates := map[string]interface{}{}
	if req.TaskName != nil {
		updates["task_name"] = *req.TaskName
	}
	if req.Monday != nil {
		updates["monday"] = *req.Monday
	}
	if req.Tuesday != nil {
		updates["tuesday"] = *req.Tuesday
	}
	if req.Wednesday != nil {
		updates["wednesday"] = *req.Wednesday
	}
	if req.Thursday != nil {
		updates["thursday"] = *req.Thursday
	}
	if req.Friday != nil {
		updates["friday"] = *req.Friday
	}
	if req.Saturday != nil {
		updates["saturday"] = *req.Saturday
	}
	if req.Sunday != nil {
		updates["sunday"] = *req.Sunday
	}
	if req.IsCompleted != nil {
		updates["is_completed"] = *req.IsCompleted
	}
	if req.ReasonNotDone != nil {
		updates["reason_not_done"] = *req.ReasonNotDone
	}
	if len(updates) == 0 {
		return nil
	}

	return s.reports.UpdateTask(ctx, taskID, updates)
}

// DeleteTask removes a task from an unlocked report. Owner only.
func (s *ReportService) DeleteTask(ctx context.Context, userID, taskID string) error {
	task, err := s.reports.FindTaskByID(ctx, taskID)
	if err != nil {
		return err
	}
	if task.Report == nil || task.Report.UserID != userID {
		return ErrForbidden
	}
	return s.reports.DeleteTask(ctx, taskID)
}

func (s *ReportService) requireOwner(ctx context.Context, userID, reportID string) error {
	report, err := s.reports.FindByID(ctx, reportID)
	if err != nil {
		return err
	}
	if report.UserID != userID {
		return ErrForbidden
	}
	return nil
}
