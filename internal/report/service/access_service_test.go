package service

import (
	"context"
	"testing"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/nguyenhoangdanh/tbs-report-system-be-sub000/internal/report/entity"
	"github.com/nguyenhoangdanh/tbs-report-system-be-sub000/internal/report/repository"
	"github.com/nguyenhoangdanh/tbs-report-system-be-sub000/internal/report/testutil"
)

func setupAccessTest(t *testing.T) (*gorm.DB, *repository.Repositories, *AccessService) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	repos := repository.NewRepositories(db)
	classifier := testClassifier()
	subSvc := NewSubordinateService(repos.User, classifier, nil, zap.NewNop())
	access := NewAccessService(repos.User, subSvc, classifier)
	return db, repos, access
}

func TestBuildAccessFilterAdminIsUnrestricted(t *testing.T) {
	_, _, access := setupAccessTest(t)

	// No user lookup happens for admin roles; an unknown id still works.
	scope, err := access.BuildAccessFilter(context.Background(), "whoever", entity.RoleAdmin)
	if err != nil {
		t.Fatalf("BuildAccessFilter: %v", err)
	}
	if scope.Kind != ScopeUnrestricted {
		t.Errorf("Expected unrestricted scope, got %s", scope.Kind)
	}
}

func TestBuildAccessFilterUnknownViewer(t *testing.T) {
	_, _, access := setupAccessTest(t)

	if _, err := access.BuildAccessFilter(context.Background(), "missing", entity.RoleUser); err != repository.ErrNotFound {
		t.Errorf("Expected ErrNotFound for unknown viewer, got %v", err)
	}
}

func TestBuildAccessFilterScopes(t *testing.T) {
	db, _, access := setupAccessTest(t)

	f := testutil.SeedOrg(t, db, 3, 7, 8)
	testutil.SeedUserAt(t, db, f, "mgr", "M001", 3)
	testutil.SeedUserAt(t, db, f, "viewer7", "S007", 7) // canViewHierarchy
	testutil.SeedUserAt(t, db, f, "plain8", "S008", 8)

	tests := []struct {
		userID string
		role   string
		want   ScopeKind
	}{
		{"mgr", entity.RoleUser, ScopeSubordinateSet},
		{"mgr", entity.RoleOfficeManager, ScopeSameDepartment},
		{"viewer7", entity.RoleUser, ScopeSameDepartmentNonManagement},
		{"plain8", entity.RoleUser, ScopeSelfOnly},
	}
	for _, tt := range tests {
		scope, err := access.BuildAccessFilter(context.Background(), tt.userID, tt.role)
		if err != nil {
			t.Fatalf("BuildAccessFilter(%s, %s): %v", tt.userID, tt.role, err)
		}
		if scope.Kind != tt.want {
			t.Errorf("BuildAccessFilter(%s, %s) = %s, want %s", tt.userID, tt.role, scope.Kind, tt.want)
		}
	}
}

func TestResolveScopeUsersExcludesManagementForJuniorViewers(t *testing.T) {
	db, _, access := setupAccessTest(t)

	f := testutil.SeedOrg(t, db, 3, 7, 8)
	testutil.SeedUserAt(t, db, f, "mgr", "M001", 3)
	testutil.SeedUserAt(t, db, f, "viewer7", "S007", 7)
	testutil.SeedUserAt(t, db, f, "plain8", "S008", 8)

	scope, err := access.BuildAccessFilter(context.Background(), "viewer7", entity.RoleUser)
	if err != nil {
		t.Fatalf("BuildAccessFilter: %v", err)
	}

	users, err := access.ResolveScopeUsers(context.Background(), scope, 10, 2024)
	if err != nil {
		t.Fatalf("ResolveScopeUsers: %v", err)
	}

	for _, u := range users {
		if u.ID == "mgr" {
			t.Fatalf("Junior viewer must not see management users")
		}
	}
	if len(users) != 2 {
		t.Errorf("Expected the two non-management department users, got %d", len(users))
	}
}

func TestResolveScopeUsersEmptySubordinateSet(t *testing.T) {
	db, _, access := setupAccessTest(t)

	f := testutil.SeedOrg(t, db, 4, 7)
	testutil.SeedUserAt(t, db, f, "staff", "S007", 7)

	// An empty subordinate set stays empty; it never widens to all users.
	scope := &ScopeDescriptor{Kind: ScopeSubordinateSet, UserIDs: nil}
	users, err := access.ResolveScopeUsers(context.Background(), scope, 10, 2024)
	if err != nil {
		t.Fatalf("ResolveScopeUsers: %v", err)
	}
	if len(users) != 0 {
		t.Errorf("Expected no users for empty subordinate set, got %d", len(users))
	}
}

func TestCanViewUser(t *testing.T) {
	db, _, access := setupAccessTest(t)

	// The tree walk reaches deeper levels only through a management
	// chain, so the fixture needs the level-4 link.
	f := testutil.SeedOrg(t, db, 3, 4, 7, 8)
	testutil.SeedUserAt(t, db, f, "mgr", "M001", 3)
	testutil.SeedUserAt(t, db, f, "mgr4", "M002", 4)
	testutil.SeedUserAt(t, db, f, "viewer7", "S007", 7)
	testutil.SeedUserAt(t, db, f, "plain8", "S008", 8)

	ctx := context.Background()

	tests := []struct {
		name     string
		viewer   string
		role     string
		target   string
		expected bool
	}{
		{"self always visible", "plain8", entity.RoleUser, "plain8", true},
		{"self-only viewer sees no one else", "plain8", entity.RoleUser, "viewer7", false},
		{"manager sees subordinate", "mgr", entity.RoleUser, "plain8", true},
		{"junior sees non-management peer", "viewer7", entity.RoleUser, "plain8", true},
		{"junior cannot see manager", "viewer7", entity.RoleUser, "mgr", false},
		{"admin sees everyone", "mgr", entity.RoleSuperAdmin, "plain8", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := access.CanViewUser(ctx, tt.viewer, tt.role, tt.target)
			if err != nil {
				t.Fatalf("CanViewUser: %v", err)
			}
			if got != tt.expected {
				t.Errorf("CanViewUser(%s→%s) = %v, want %v", tt.viewer, tt.target, got, tt.expected)
			}
		})
	}
}
