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

func mustFindUser(t *testing.T, repos *repository.Repositories, id string) *entity.User {
	t.Helper()
	u, err := repos.User.FindByID(context.Background(), id)
	if err != nil {
		t.Fatalf("FindByID(%s): %v", id, err)
	}
	return u
}

func TestResolveByLevelRangeAdminSeesEveryone(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repos := repository.NewRepositories(db)
	svc := NewSubordinateService(repos.User, testClassifier(), nil, zap.NewNop())

	f := testutil.SeedOrg(t, db, 3, 7)
	testutil.SeedUserAt(t, db, f, "mgr", "M001", 3)
	testutil.SeedUserAt(t, db, f, "staff", "S001", 7)

	manager := mustFindUser(t, repos, "mgr")
	users, err := svc.ResolveByLevelRange(context.Background(), manager, entity.RoleAdmin)
	if err != nil {
		t.Fatalf("ResolveByLevelRange: %v", err)
	}
	if len(users) != 2 {
		t.Errorf("Expected 2 users for admin, got %d", len(users))
	}
}

func TestResolveByLevelRangeManagerGetsWindow(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repos := repository.NewRepositories(db)
	svc := NewSubordinateService(repos.User, testClassifier(), nil, zap.NewNop())

	f := testutil.SeedOrg(t, db, 3, 4, 7, 8)
	testutil.SeedUserAt(t, db, f, "mgr3", "M003", 3)
	testutil.SeedUserAt(t, db, f, "mgr4", "M004", 4)
	testutil.SeedUserAt(t, db, f, "staff7", "S007", 7)
	testutil.SeedUserAt(t, db, f, "staff8", "S008", 8)

	manager := mustFindUser(t, repos, "mgr3")
	users, err := svc.ResolveByLevelRange(context.Background(), manager, entity.RoleUser)
	if err != nil {
		t.Fatalf("ResolveByLevelRange: %v", err)
	}

	// Levels in (3, 7]: the level-4 manager and the level-7 staff.
	// Level 8 is below the working tier and the viewer is excluded.
	got := map[string]bool{}
	for _, u := range users {
		got[u.ID] = true
	}
	if len(users) != 2 || !got["mgr4"] || !got["staff7"] {
		t.Errorf("Expected {mgr4, staff7}, got %v", got)
	}
}

func TestResolveByLevelRangeDeniesLowTier(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repos := repository.NewRepositories(db)
	svc := NewSubordinateService(repos.User, testClassifier(), nil, zap.NewNop())

	f := testutil.SeedOrg(t, db, 7)
	testutil.SeedUserAt(t, db, f, "staff", "S001", 7)

	staff := mustFindUser(t, repos, "staff")
	if _, err := svc.ResolveByLevelRange(context.Background(), staff, entity.RoleUser); err != ErrForbidden {
		t.Errorf("Expected ErrForbidden for level 7 viewer, got %v", err)
	}
}

func TestResolveByLevelRangeDeniesLevel5Assistant(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repos := repository.NewRepositories(db)
	svc := NewSubordinateService(repos.User, testClassifier(), nil, zap.NewNop())

	f := testutil.SeedOrg(t, db, 7)

	pos := &entity.Position{
		ID: "pos-asst", Name: "Trợ lý Giám đốc", Level: 5,
		IsManagement: true, IsReportable: true,
		CreatedAt: time.Now(), UpdatedAt: time.Now(),
	}
	if err := db.Create(pos).Error; err != nil {
		t.Fatalf("seed position: %v", err)
	}
	jp := &entity.JobPosition{
		ID: "jp-asst", JobName: "Trợ lý", Code: "ASST",
		PositionID: pos.ID, DepartmentID: f.Department.ID, OfficeID: f.Office.ID,
		IsActive: true, CreatedAt: time.Now(), UpdatedAt: time.Now(),
	}
	if err := db.Create(jp).Error; err != nil {
		t.Fatalf("seed job position: %v", err)
	}
	user := &entity.User{
		ID: "asst", EmployeeCode: "A001", Password: "x",
		FirstName: "Asst", LastName: "User", Role: entity.RoleUser,
		JobPositionID: jp.ID, OfficeID: f.Office.ID, IsActive: true,
		CreatedAt: time.Now(), UpdatedAt: time.Now(),
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}

	assistant := mustFindUser(t, repos, "asst")
	if _, err := svc.ResolveByLevelRange(context.Background(), assistant, entity.RoleUser); err != ErrForbidden {
		t.Errorf("Expected ErrForbidden for level-5 assistant, got %v", err)
	}
}

func TestResolveTreeWalksManagementChain(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repos := repository.NewRepositories(db)
	svc := NewSubordinateService(repos.User, testClassifier(), nil, zap.NewNop())

	f := testutil.SeedOrg(t, db, 3, 4, 7, 8)
	testutil.SeedUserAt(t, db, f, "mgr3", "M003", 3)
	testutil.SeedUserAt(t, db, f, "mgr4", "M004", 4)
	testutil.SeedUserAt(t, db, f, "staff7", "S007", 7)
	testutil.SeedUserAt(t, db, f, "staff8", "S008", 8)

	manager := mustFindUser(t, repos, "mgr3")
	users, err := svc.ResolveTree(context.Background(), manager)
	if err != nil {
		t.Fatalf("ResolveTree: %v", err)
	}

	// Direct report is the level-4 manager; as a management node it
	// additionally pulls in everyone in the office below level 4.
	got := map[string]bool{}
	for _, u := range users {
		got[u.ID] = true
	}
	if len(users) != 3 || !got["mgr4"] || !got["staff7"] || !got["staff8"] {
		t.Errorf("Expected {mgr4, staff7, staff8}, got %v", got)
	}
	if got["mgr3"] {
		t.Errorf("Manager must not appear in their own subordinate set")
	}

	// Sort contract: level ascending.
	for i := 1; i < len(users); i++ {
		if users[i-1].Level() > users[i].Level() {
			t.Errorf("Users not sorted by level: %d before %d", users[i-1].Level(), users[i].Level())
		}
	}
}

func TestResolveTreeEmptySetIsNotAnError(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repos := repository.NewRepositories(db)
	svc := NewSubordinateService(repos.User, testClassifier(), nil, zap.NewNop())

	// A level-4 manager with no one below them in the department.
	f := testutil.SeedOrg(t, db, 4)
	testutil.SeedUserAt(t, db, f, "mgr4", "M004", 4)

	manager := mustFindUser(t, repos, "mgr4")
	users, err := svc.ResolveTree(context.Background(), manager)
	if err != nil {
		t.Fatalf("ResolveTree: %v", err)
	}
	if len(users) != 0 {
		t.Errorf("Expected empty subordinate set, got %d users", len(users))
	}
}

func TestSortUsersHierarchy(t *testing.T) {
	mk := func(id string, level int, dept, last, first string) entity.User {
		return entity.User{
			ID: id, LastName: last, FirstName: first,
			JobPosition: &entity.JobPosition{
				Position:   &entity.Position{Level: level},
				Department: &entity.Department{Name: dept},
			},
		}
	}

	users := []entity.User{
		mk("d", 7, "B", "Tran", "An"),
		mk("a", 3, "A", "Le", "Binh"),
		mk("c", 7, "A", "Tran", "An"),
		mk("b", 7, "A", "Nguyen", "Chi"),
	}
	SortUsersHierarchy(users)

	want := []string{"a", "b", "c", "d"}
	for i, id := range want {
		if users[i].ID != id {
			t.Fatalf("Expected order %v, got %s at %d", want, users[i].ID, i)
		}
	}
}
