package service

import (
	"context"
	"encoding/json"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/nguyenhoangdanh/tbs-report-system-be-sub000/internal/report/entity"
	"github.com/nguyenhoangdanh/tbs-report-system-be-sub000/internal/report/repository"
)

const (
	// lowestWorkingLevel is the bottom working tier; a viewer at or
	// below it has no subordinates to resolve.
	lowestWorkingLevel = 7
	// maxHierarchyLevel bounds the recursive walk.
	maxHierarchyLevel = 10

	subordinateCacheTTL    = 5 * time.Minute
	subordinateCachePrefix = "subordinates:"
)

// TreeResolver expands a manager into their transitive subordinate set.
// The walk mixes two expansion rules (same-department one level down,
// office-wide deeper levels under management parents) whose intended
// semantics are still under review with the domain owner; keeping it
// behind this interface lets callers swap the walk without changes.
type TreeResolver interface {
	Resolve(ctx context.Context, manager *entity.User) ([]entity.User, error)
}

// SubordinateService resolves subordinate sets with two strategies:
// fixed level-range filtering for the manager-report views and the
// recursive tree walk for generic hierarchy scope expansion.
type SubordinateService struct {
	users      *repository.UserRepository
	classifier *PositionClassifier
	rdb        *redis.Client
	logger     *zap.Logger
	tree       TreeResolver
}

func NewSubordinateService(users *repository.UserRepository, classifier *PositionClassifier, rdb *redis.Client, logger *zap.Logger) *SubordinateService {
	s := &SubordinateService{
		users:      users,
		classifier: classifier,
		rdb:        rdb,
		logger:     logger,
	}
	s.tree = &departmentTreeResolver{users: users, classifier: classifier}
	return s
}

// SetTreeResolver swaps the recursive walk strategy.
func (s *SubordinateService) SetTreeResolver(tree TreeResolver) {
	s.tree = tree
}

// ResolveByLevelRange returns the users a manager may see under the
// fixed level-range rules:
//   - ADMIN/SUPERADMIN: every active user, system wide.
//   - USER at level >= 7, or a level-5 assistant title: denied.
//   - Otherwise levels (L, 7] in the manager's office, restricted to
//     the manager's department for L in 3..6.
func (s *SubordinateService) ResolveByLevelRange(ctx context.Context, manager *entity.User, role string) ([]entity.User, error) {
	if entity.IsAdminRole(role) {
		return s.users.ListActive(ctx)
	}

	level := manager.Level()
	if level >= lowestWorkingLevel {
		return nil, ErrForbidden
	}

	pos := positionOf(manager)
	if level == 5 && pos != nil && s.classifier.IsAssistant(pos.Name) {
		return nil, ErrForbidden
	}

	departmentID := ""
	if level >= 3 && level <= 6 && manager.JobPosition != nil {
		departmentID = manager.JobPosition.DepartmentID
	}

	return s.users.ListByLevelRange(ctx, manager.OfficeID, level, lowestWorkingLevel, departmentID)
}

// ResolveTree returns the manager's transitive subordinate set via the
// recursive walk, serving repeat calls from a short-lived Redis cache.
// An empty set is a valid result, never an error.
func (s *SubordinateService) ResolveTree(ctx context.Context, manager *entity.User) ([]entity.User, error) {
	if ids, ok := s.cachedIDs(ctx, manager.ID); ok {
		return s.users.ListByIDs(ctx, ids)
	}

	subordinates, err := s.tree.Resolve(ctx, manager)
	if err != nil {
		return nil, err
	}

	s.cacheIDs(ctx, manager.ID, subordinates)
	return subordinates, nil
}

func (s *SubordinateService) cachedIDs(ctx context.Context, managerID string) ([]string, bool) {
	if s.rdb == nil {
		return nil, false
	}
	raw, err := s.rdb.Get(ctx, subordinateCachePrefix+managerID).Result()
	if err != nil {
		return nil, false
	}
	var ids []string
	if err := json.Unmarshal([]byte(raw), &ids); err != nil {
		return nil, false
	}
	return ids, true
}

func (s *SubordinateService) cacheIDs(ctx context.Context, managerID string, subordinates []entity.User) {
	if s.rdb == nil {
		return
	}
	ids := make([]string, 0, len(subordinates))
	for _, u := range subordinates {
		ids = append(ids, u.ID)
	}
	raw, err := json.Marshal(ids)
	if err != nil {
		return
	}
	if err := s.rdb.Set(ctx, subordinateCachePrefix+managerID, raw, subordinateCacheTTL).Err(); err != nil {
		s.logger.Warn("subordinate cache write failed",
			zap.String("manager_id", managerID), zap.Error(err))
	}
}

// departmentTreeResolver is the default walk: direct reports are the
// same-department users one level down; each discovered management user
// expands again, and management parents additionally pull in any office
// user at a deeper level. The visited set deduplicates; termination
// follows from the bounded, strictly increasing level.
type departmentTreeResolver struct {
	users      *repository.UserRepository
	classifier *PositionClassifier
}

func (r *departmentTreeResolver) Resolve(ctx context.Context, manager *entity.User) ([]entity.User, error) {
	level := manager.Level()
	if level >= maxHierarchyLevel || manager.JobPosition == nil {
		return []entity.User{}, nil
	}

	visited := map[string]bool{manager.ID: true}
	result := make([]entity.User, 0)
	queue := make([]entity.User, 0)

	direct, err := r.users.ListByDepartmentAndLevel(ctx, manager.JobPosition.DepartmentID, level+1)
	if err != nil {
		return nil, err
	}
	for _, u := range direct {
		if !visited[u.ID] {
			visited[u.ID] = true
			result = append(result, u)
			queue = append(queue, u)
		}
	}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		if !r.classifier.IsManagement(positionOf(&current)) {
			continue
		}
		currentLevel := current.Level()
		if currentLevel >= maxHierarchyLevel || current.JobPosition == nil {
			continue
		}

		children, err := r.users.ListByDepartmentAndLevel(ctx, current.JobPosition.DepartmentID, currentLevel+1)
		if err != nil {
			return nil, err
		}
		deeper, err := r.users.ListByOfficeDeeperThan(ctx, current.OfficeID, currentLevel)
		if err != nil {
			return nil, err
		}
		children = append(children, deeper...)

		for _, u := range children {
			if !visited[u.ID] {
				visited[u.ID] = true
				result = append(result, u)
				queue = append(queue, u)
			}
		}
	}

	SortUsersHierarchy(result)
	return result, nil
}

// SortUsersHierarchy applies the public sort contract for resolved
// subordinate lists: level, then department name, then last name, then
// first name.
func SortUsersHierarchy(users []entity.User) {
	sort.SliceStable(users, func(i, j int) bool {
		li, lj := users[i].Level(), users[j].Level()
		if li != lj {
			return li < lj
		}
		di, dj := users[i].JobPosition.DepartmentName(), users[j].JobPosition.DepartmentName()
		if di != dj {
			return di < dj
		}
		if users[i].LastName != users[j].LastName {
			return users[i].LastName < users[j].LastName
		}
		return users[i].FirstName < users[j].FirstName
	})
}
