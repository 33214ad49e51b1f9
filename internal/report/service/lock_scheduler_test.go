package service

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/nguyenhoangdanh/tbs-report-system-be-sub000/internal/report/entity"
	"github.com/nguyenhoangdanh/tbs-report-system-be-sub000/internal/report/repository"
	"github.com/nguyenhoangdanh/tbs-report-system-be-sub000/internal/report/testutil"
)

func TestLockSchedulerRunOnce(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repos := repository.NewRepositories(db)

	f := testutil.SeedOrg(t, db, 7)
	testutil.SeedUserAt(t, db, f, "u1", "U001", 7)
	testutil.SeedUserAt(t, db, f, "u2", "U002", 7)

	// Friday 2024-01-05 sits in work week 2/2024; the week to lock is
	// the one that just ended, 1/2024.
	previous := testutil.SeedReport(t, db, "u1", 1, 2024, true)
	current := testutil.SeedReport(t, db, "u2", 2, 2024, true)

	scheduler := NewLockScheduler(repos.Report, time.Hour, zap.NewNop())
	scheduler.now = func() time.Time {
		return time.Date(2024, time.January, 5, 9, 0, 0, 0, time.UTC)
	}

	locked, err := scheduler.RunOnce(context.Background())
	if err != nil {
		t.Fatalf("RunOnce: %v", err)
	}
	if locked != 1 {
		t.Errorf("Expected 1 report locked, got %d", locked)
	}

	var got entity.Report
	if err := db.First(&got, "id = ?", previous.ID).Error; err != nil {
		t.Fatalf("reload previous report: %v", err)
	}
	if !got.IsLocked {
		t.Errorf("Previous week's report must be locked")
	}

	got = entity.Report{}
	if err := db.First(&got, "id = ?", current.ID).Error; err != nil {
		t.Fatalf("reload current report: %v", err)
	}
	if got.IsLocked {
		t.Errorf("Current week's report must stay unlocked")
	}

	// A second run finds nothing left to lock.
	locked, err = scheduler.RunOnce(context.Background())
	if err != nil {
		t.Fatalf("second RunOnce: %v", err)
	}
	if locked != 0 {
		t.Errorf("Expected 0 reports locked on rerun, got %d", locked)
	}
}
