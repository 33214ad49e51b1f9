package service

import (
	"context"

	"github.com/nguyenhoangdanh/tbs-report-system-be-sub000/internal/report/entity"
	"github.com/nguyenhoangdanh/tbs-report-system-be-sub000/internal/report/repository"
)

// ScopeKind the visibility scopes a viewer can be granted
type ScopeKind string

const (
	ScopeUnrestricted                ScopeKind = "UNRESTRICTED"
	ScopeSelfOnly                    ScopeKind = "SELF_ONLY"
	ScopeSameDepartmentNonManagement ScopeKind = "SAME_DEPARTMENT_NON_MANAGEMENT"
	ScopeSameDepartment              ScopeKind = "SAME_DEPARTMENT"
	ScopeSubordinateSet              ScopeKind = "SUBORDINATE_SET"
)

// ScopeDescriptor describes which users a viewer may see. For
// SubordinateSet, UserIDs carries the resolved set; an empty set means
// "no results" and never widens to unrestricted.
type ScopeDescriptor struct {
	Kind    ScopeKind
	Viewer  *entity.User
	UserIDs []string
}

// AccessService derives a viewer's visibility scope from their role and
// position flags.
type AccessService struct {
	users        *repository.UserRepository
	subordinates *SubordinateService
	classifier   *PositionClassifier
}

func NewAccessService(users *repository.UserRepository, subordinates *SubordinateService, classifier *PositionClassifier) *AccessService {
	return &AccessService{
		users:        users,
		subordinates: subordinates,
		classifier:   classifier,
	}
}

// BuildAccessFilter derives the scope for a viewer:
//   - ADMIN/SUPERADMIN: unrestricted, no user lookup needed.
//   - Management position with an office-scoped role: same-department
//     visibility without the management exclusion.
//   - Management position otherwise: the resolved subordinate set.
//   - canViewHierarchy without management: same-department peers
//     excluding management positions, so a junior employee never sees
//     manager data.
//   - Everyone else: self only.
//
// A missing viewer record is a NotFound error, never a silent
// unrestricted scope.
func (s *AccessService) BuildAccessFilter(ctx context.Context, viewerID, role string) (*ScopeDescriptor, error) {
	if entity.IsAdminRole(role) {
		return &ScopeDescriptor{Kind: ScopeUnrestricted}, nil
	}

	viewer, err := s.users.FindByID(ctx, viewerID)
	if err != nil {
		return nil, err
	}

	pos := positionOf(viewer)
	if pos == nil {
		return &ScopeDescriptor{Kind: ScopeSelfOnly, Viewer: viewer}, nil
	}

	switch {
	case pos.IsManagement && (role == entity.RoleOfficeManager || role == entity.RoleOfficeAdmin):
		return &ScopeDescriptor{Kind: ScopeSameDepartment, Viewer: viewer}, nil

	case pos.IsManagement:
		subordinates, err := s.subordinates.ResolveTree(ctx, viewer)
		if err != nil {
			return nil, err
		}
		ids := make([]string, 0, len(subordinates))
		for _, u := range subordinates {
			ids = append(ids, u.ID)
		}
		return &ScopeDescriptor{Kind: ScopeSubordinateSet, Viewer: viewer, UserIDs: ids}, nil

	case pos.CanViewHierarchy:
		return &ScopeDescriptor{Kind: ScopeSameDepartmentNonManagement, Viewer: viewer}, nil

	default:
		return &ScopeDescriptor{Kind: ScopeSelfOnly, Viewer: viewer}, nil
	}
}

// ResolveScopeUsers expands a scope into the concrete user set with the
// target week's report attached, ready for aggregation.
func (s *AccessService) ResolveScopeUsers(ctx context.Context, scope *ScopeDescriptor, week, year int) ([]entity.User, error) {
	switch scope.Kind {
	case ScopeUnrestricted:
		return s.users.ListActiveWithReports(ctx, "", week, year)

	case ScopeSelfOnly:
		return s.users.ListByIDsWithReports(ctx, []string{scope.Viewer.ID}, week, year)

	case ScopeSameDepartment, ScopeSameDepartmentNonManagement:
		if scope.Viewer.JobPosition == nil {
			return []entity.User{}, nil
		}
		excludeManagement := scope.Kind == ScopeSameDepartmentNonManagement
		peers, err := s.users.ListSameDepartment(ctx, scope.Viewer.JobPosition.DepartmentID, excludeManagement)
		if err != nil {
			return nil, err
		}
		ids := make([]string, 0, len(peers))
		for _, u := range peers {
			ids = append(ids, u.ID)
		}
		return s.users.ListByIDsWithReports(ctx, ids, week, year)

	case ScopeSubordinateSet:
		return s.users.ListByIDsWithReports(ctx, scope.UserIDs, week, year)

	default:
		return []entity.User{}, nil
	}
}

// CanViewUser reports whether the viewer's scope covers the target
// user. Used by evaluation and report-read permission checks.
func (s *AccessService) CanViewUser(ctx context.Context, viewerID, role, targetUserID string) (bool, error) {
	if viewerID == targetUserID {
		return true, nil
	}

	scope, err := s.BuildAccessFilter(ctx, viewerID, role)
	if err != nil {
		return false, err
	}

	switch scope.Kind {
	case ScopeUnrestricted:
		return true, nil

	case ScopeSelfOnly:
		return false, nil

	case ScopeSubordinateSet:
		for _, id := range scope.UserIDs {
			if id == targetUserID {
				return true, nil
			}
		}
		return false, nil

	case ScopeSameDepartment, ScopeSameDepartmentNonManagement:
		if scope.Viewer.JobPosition == nil {
			return false, nil
		}
		excludeManagement := scope.Kind == ScopeSameDepartmentNonManagement
		peers, err := s.users.ListSameDepartment(ctx, scope.Viewer.JobPosition.DepartmentID, excludeManagement)
		if err != nil {
			return false, err
		}
		for _, u := range peers {
			if u.ID == targetUserID {
				return true, nil
			}
		}
		return false, nil

	default:
		return false, nil
	}
}
