package service

import (
	"context"
	"errors"
	"testing"

	"gorm.io/gorm"

	"github.com/nguyenhoangdanh/tbs-report-system-be-sub000/internal/report/repository"
	"github.com/nguyenhoangdanh/tbs-report-system-be-sub000/internal/report/testutil"
)

func setupUserTest(t *testing.T) (*gorm.DB, *UserService) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	repos := repository.NewRepositories(db)
	return db, NewUserService(repos.User, repos.JobPosition)
}

func strp(s string) *string { return &s }

func TestCreateUserDuplicateCardIDConflicts(t *testing.T) {
	db, svc := setupUserTest(t)
	f := testutil.SeedOrg(t, db, 7)
	testutil.SeedUserAt(t, db, f, "u1", "U001", 7)

	ctx := context.Background()

	if _, err := svc.Create(ctx, &CreateUserRequest{
		EmployeeCode:  "E100",
		Password:      "secret123",
		FirstName:     "An",
		LastName:      "Nguyen",
		CardID:        strp("CARD-123"),
		JobPositionID: "jp-u1",
	}); err != nil {
		t.Fatalf("first Create: %v", err)
	}

	if _, err := svc.Create(ctx, &CreateUserRequest{
		EmployeeCode:  "E101",
		Password:      "secret123",
		FirstName:     "Binh",
		LastName:      "Tran",
		CardID:        strp("CARD-123"),
		JobPositionID: "jp-u1",
	}); !errors.Is(err, ErrConflict) {
		t.Errorf("Expected ErrConflict on duplicate card id, got %v", err)
	}
}

func TestCreateUserDuplicateEmployeeCodeConflicts(t *testing.T) {
	db, svc := setupUserTest(t)
	f := testutil.SeedOrg(t, db, 7)
	testutil.SeedUserAt(t, db, f, "u1", "U001", 7)

	if _, err := svc.Create(context.Background(), &CreateUserRequest{
		EmployeeCode:  "U001",
		Password:      "secret123",
		FirstName:     "An",
		LastName:      "Nguyen",
		JobPositionID: "jp-u1",
	}); !errors.Is(err, ErrConflict) {
		t.Errorf("Expected ErrConflict on duplicate employee code, got %v", err)
	}
}

func TestUpdateUserCardIDConflicts(t *testing.T) {
	db, svc := setupUserTest(t)
	f := testutil.SeedOrg(t, db, 7)
	testutil.SeedUserAt(t, db, f, "u1", "U001", 7)

	ctx := context.Background()

	first, err := svc.Create(ctx, &CreateUserRequest{
		EmployeeCode:  "E100",
		Password:      "secret123",
		FirstName:     "An",
		LastName:      "Nguyen",
		CardID:        strp("CARD-100"),
		JobPositionID: "jp-u1",
	})
	if err != nil {
		t.Fatalf("first Create: %v", err)
	}

	second, err := svc.Create(ctx, &CreateUserRequest{
		EmployeeCode:  "E101",
		Password:      "secret123",
		FirstName:     "Binh",
		LastName:      "Tran",
		CardID:        strp("CARD-101"),
		JobPositionID: "jp-u1",
	})
	if err != nil {
		t.Fatalf("second Create: %v", err)
	}

	if _, err := svc.Update(ctx, second.ID, &UpdateUserRequest{CardID: strp("CARD-100")}); !errors.Is(err, ErrConflict) {
		t.Errorf("Expected ErrConflict when taking another user's card id, got %v", err)
	}

	// Re-submitting the user's own card id is not a conflict.
	if _, err := svc.Update(ctx, first.ID, &UpdateUserRequest{CardID: strp("CARD-100")}); err != nil {
		t.Errorf("Updating with own card id failed: %v", err)
	}
}
