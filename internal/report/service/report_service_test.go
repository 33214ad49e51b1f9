package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/nguyenhoangdanh/tbs-report-system-be-sub000/internal/report/entity"
	"github.com/nguyenhoangdanh/tbs-report-system-be-sub000/internal/report/repository"
	"github.com/nguyenhoangdanh/tbs-report-system-be-sub000/internal/report/testutil"
)

func setupReportTest(t *testing.T) (*gorm.DB, *repository.Repositories, *ReportService) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	repos := repository.NewRepositories(db)
	classifier := testClassifier()
	subSvc := NewSubordinateService(repos.User, classifier, nil, zap.NewNop())
	access := NewAccessService(repos.User, subSvc, classifier)
	svc := NewReportService(repos.Report, repos.User, access)
	return db, repos, svc
}

func lockReport(t *testing.T, db *gorm.DB, reportID string) {
	t.Helper()
	if err := db.Model(&entity.Report{}).Where("id = ?", reportID).
		Update("is_locked", true).Error; err != nil {
		t.Fatalf("lock report: %v", err)
	}
}

func TestCreateReportWithTasks(t *testing.T) {
	db, _, svc := setupReportTest(t)
	f := testutil.SeedOrg(t, db, 7)
	testutil.SeedUserAt(t, db, f, "u1", "U001", 7)

	report, err := svc.Create(context.Background(), "u1", &CreateReportRequest{
		WeekNumber: 10,
		Year:       2024,
		Tasks: []TaskRequest{
			{TaskName: "May mẫu", Monday: true, IsCompleted: true},
			{TaskName: "Kiểm hàng", Friday: true},
		},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if len(report.Tasks) != 2 {
		t.Errorf("Expected 2 tasks, got %d", len(report.Tasks))
	}
	if report.IsLocked {
		t.Errorf("New report must start unlocked")
	}
}

func TestCreateReportDuplicateWeekConflicts(t *testing.T) {
	db, _, svc := setupReportTest(t)
	f := testutil.SeedOrg(t, db, 7)
	testutil.SeedUserAt(t, db, f, "u1", "U001", 7)

	req := &CreateReportRequest{WeekNumber: 10, Year: 2024}
	if _, err := svc.Create(context.Background(), "u1", req); err != nil {
		t.Fatalf("first Create: %v", err)
	}
	if _, err := svc.Create(context.Background(), "u1", req); !errors.Is(err, ErrConflict) {
		t.Errorf("Expected ErrConflict on duplicate week, got %v", err)
	}
}

func TestCreateReportInvalidWeek(t *testing.T) {
	db, _, svc := setupReportTest(t)
	f := testutil.SeedOrg(t, db, 7)
	testutil.SeedUserAt(t, db, f, "u1", "U001", 7)

	if _, err := svc.Create(context.Background(), "u1", &CreateReportRequest{WeekNumber: 0, Year: 2024}); err == nil {
		t.Errorf("Expected error for week 0")
	}
}

func TestLockedReportRejectsMutations(t *testing.T) {
	db, _, svc := setupReportTest(t)
	f := testutil.SeedOrg(t, db, 7)
	testutil.SeedUserAt(t, db, f, "u1", "U001", 7)
	report := testutil.SeedReport(t, db, "u1", 10, 2024, false)
	lockReport(t, db, report.ID)

	ctx := context.Background()

	if err := svc.SetCompleted(ctx, "u1", report.ID, true); !errors.Is(err, repository.ErrLocked) {
		t.Errorf("SetCompleted on locked report: expected ErrLocked, got %v", err)
	}
	if _, err := svc.AddTask(ctx, "u1", report.ID, TaskRequest{TaskName: "Late"}); !errors.Is(err, repository.ErrLocked) {
		t.Errorf("AddTask on locked report: expected ErrLocked, got %v", err)
	}

	taskID := report.Tasks[0].ID
	name := "Edited"
	if err := svc.UpdateTask(ctx, "u1", taskID, &UpdateTaskRequest{TaskName: &name}); !errors.Is(err, repository.ErrLocked) {
		t.Errorf("UpdateTask on locked report: expected ErrLocked, got %v", err)
	}
	if err := svc.DeleteTask(ctx, "u1", taskID); !errors.Is(err, repository.ErrLocked) {
		t.Errorf("DeleteTask on locked report: expected ErrLocked, got %v", err)
	}
}

func TestReportMutationsOwnerOnly(t *testing.T) {
	db, _, svc := setupReportTest(t)
	f := testutil.SeedOrg(t, db, 7)
	testutil.SeedUserAt(t, db, f, "u1", "U001", 7)
	testutil.SeedUserAt(t, db, f, "u2", "U002", 7)
	report := testutil.SeedReport(t, db, "u1", 10, 2024, false)

	ctx := context.Background()

	if err := svc.SetCompleted(ctx, "u2", report.ID, true); !errors.Is(err, ErrForbidden) {
		t.Errorf("Expected ErrForbidden for non-owner, got %v", err)
	}
	if err := svc.Delete(ctx, "u2", report.ID); !errors.Is(err, ErrForbidden) {
		t.Errorf("Expected ErrForbidden for non-owner delete, got %v", err)
	}
	if err := svc.UpdateTask(ctx, "u2", report.Tasks[0].ID, &UpdateTaskRequest{}); !errors.Is(err, ErrForbidden) {
		t.Errorf("Expected ErrForbidden for non-owner task update, got %v", err)
	}
}

func TestUpdateTaskPartial(t *testing.T) {
	db, repos, svc := setupReportTest(t)
	f := testutil.SeedOrg(t, db, 7)
	testutil.SeedUserAt(t, db, f, "u1", "U001", 7)
	report := testutil.SeedReport(t, db, "u1", 10, 2024, false)

	ctx := context.Background()
	done := true
	reason := ""
	if err := svc.UpdateTask(ctx, "u1", report.Tasks[0].ID, &UpdateTaskRequest{
		IsCompleted:   &done,
		ReasonNotDone: &reason,
	}); err != nil {
		t.Fatalf("UpdateTask: %v", err)
	}

	task, err := repos.Report.FindTaskByID(ctx, report.Tasks[0].ID)
	if err != nil {
		t.Fatalf("FindTaskByID: %v", err)
	}
	if !task.IsCompleted {
		t.Errorf("Expected task completed after update")
	}
	if task.TaskName != "Task 1" {
		t.Errorf("Untouched fields must survive a partial update, got name %q", task.TaskName)
	}
}

func TestGetReportRespectsScope(t *testing.T) {
	db, _, svc := setupReportTest(t)
	f := testutil.SeedOrg(t, db, 3, 8)
	testutil.SeedUserAt(t, db, f, "mgr", "M001", 3)
	testutil.SeedUserAt(t, db, f, "u1", "U001", 8)
	testutil.SeedUserAt(t, db, f, "u2", "U002", 8)
	report := testutil.SeedReport(t, db, "u1", 10, 2024, true)

	ctx := context.Background()

	if _, err := svc.Get(ctx, "u1", entity.RoleUser, report.ID); err != nil {
		t.Errorf("Owner read failed: %v", err)
	}
	if _, err := svc.Get(ctx, "u2", entity.RoleUser, report.ID); !errors.Is(err, ErrForbidden) {
		t.Errorf("Self-only peer read: expected ErrForbidden, got %v", err)
	}
	if _, err := svc.Get(ctx, "mgr", entity.RoleAdmin, report.ID); err != nil {
		t.Errorf("Admin read failed: %v", err)
	}
	if _, err := svc.Get(ctx, "u1", entity.RoleUser, "missing"); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("Expected ErrNotFound for unknown report, got %v", err)
	}
}
