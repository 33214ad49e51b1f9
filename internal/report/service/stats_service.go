package service

import (
	"context"

	"github.com/nguyenhoangdanh/tbs-report-system-be-sub000/internal/report/entity"
	"github.com/nguyenhoangdanh/tbs-report-system-be-sub000/internal/report/repository"
)

// StatsService orchestrates the scoped aggregation endpoints: it expands
// the viewer's scope into a user set, fetches the week's reports and
// folds them through the aggregation engine in stats.go.
type StatsService struct {
	users        *repository.UserRepository
	access       *AccessService
	subordinates *SubordinateService
	classifier   *PositionClassifier
}

func NewStatsService(users *repository.UserRepository, access *AccessService, subordinates *SubordinateService, classifier *PositionClassifier) *StatsService {
	return &StatsService{
		users:        users,
		access:       access,
		subordinates: subordinates,
		classifier:   classifier,
	}
}

// WeeklyStats the response shape of every hierarchy statistics endpoint
type WeeklyStats struct {
	WeekNumber   int               `json:"week_number"`
	Year         int               `json:"year"`
	Summary      GroupStats        `json:"summary"`
	Users        []UserStats       `json:"users,omitempty"`
	Departments  []GroupBreakdown  `json:"departments,omitempty"`
	Offices      []GroupBreakdown  `json:"offices,omitempty"`
	Positions    []GroupBreakdown  `json:"positions,omitempty"`
	JobPositions []GroupBreakdown  `json:"job_positions,omitempty"`
	Partition    *PartitionSummary `json:"partition,omitempty"`
}

// Breakdown group-by selector for GetScopedStats
type Breakdown string

const (
	BreakdownNone        Breakdown = ""
	BreakdownDepartment  Breakdown = "department"
	BreakdownOffice      Breakdown = "office"
	BreakdownPosition    Breakdown = "position"
	BreakdownJobPosition Breakdown = "job_position"
)

// GetScopedStats computes the week's statistics over everything the
// viewer may see, with an optional breakdown level.
func (s *StatsService) GetScopedStats(ctx context.Context, viewerID, role string, week, year int, breakdown Breakdown, includeUsers bool) (*WeeklyStats, error) {
	scope, err := s.access.BuildAccessFilter(ctx, viewerID, role)
	if err != nil {
		return nil, err
	}

	users, err := s.access.ResolveScopeUsers(ctx, scope, week, year)
	if err != nil {
		return nil, err
	}

	return s.buildWeeklyStats(users, week, year, breakdown, includeUsers), nil
}

// GetOfficeStats computes office-wide statistics with a department
// breakdown. Admin and office-scoped roles only; the handler guards the
// role, this guards the office.
func (s *StatsService) GetOfficeStats(ctx context.Context, officeID string, week, year int) (*WeeklyStats, error) {
	users, err := s.users.ListActiveWithReports(ctx, officeID, week, year)
	if err != nil {
		return nil, err
	}
	return s.buildWeeklyStats(users, week, year, BreakdownDepartment, false), nil
}

// ManagerReportView the manager-reports response: the level-range
// resolved subordinate set with its rollup and per-user detail
type ManagerReportView struct {
	WeekNumber        int              `json:"week_number"`
	Year              int              `json:"year"`
	ManagerID         string           `json:"manager_id"`
	ManagerName       string           `json:"manager_name"`
	TotalSubordinates int              `json:"total_subordinates"`
	Summary           GroupStats       `json:"summary"`
	Subordinates      []UserStats      `json:"subordinates"`
	Departments       []GroupBreakdown `json:"departments"`
}

// GetManagerReports resolves the manager's visible subordinate set via
// the level-range rules and aggregates their week. An empty set yields
// zero-valued statistics, not an error.
func (s *StatsService) GetManagerReports(ctx context.Context, managerID, role string, week, year int) (*ManagerReportView, error) {
	manager, err := s.users.FindByID(ctx, managerID)
	if err != nil {
		return nil, err
	}

	visible, err := s.subordinates.ResolveByLevelRange(ctx, manager, role)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(visible))
	for _, u := range visible {
		if u.ID != manager.ID {
			ids = append(ids, u.ID)
		}
	}

	withReports, err := s.users.ListByIDsWithReports(ctx, ids, week, year)
	if err != nil {
		return nil, err
	}

	userStats := make([]UserStats, 0, len(withReports))
	for i := range withReports {
		userStats = append(userStats, BuildUserStats(&withReports[i]))
	}

	return &ManagerReportView{
		WeekNumber:        week,
		Year:              year,
		ManagerID:         manager.ID,
		ManagerName:       manager.FullName(),
		TotalSubordinates: len(withReports),
		Summary:           BuildGroupStats(userStats),
		Subordinates:      userStats,
		Departments:       BreakdownByDepartment(withReports, false),
	}, nil
}

// GetHierarchyView computes the management/staff partition view over
// the viewer's scope, with the mixed merge when both partitions are
// non-empty.
func (s *StatsService) GetHierarchyView(ctx context.Context, viewerID, role string, week, year int) (*WeeklyStats, error) {
	scope, err := s.access.BuildAccessFilter(ctx, viewerID, role)
	if err != nil {
		return nil, err
	}

	users, err := s.access.ResolveScopeUsers(ctx, scope, week, year)
	if err != nil {
		return nil, err
	}

	stats := s.buildWeeklyStats(users, week, year, BreakdownPosition, false)
	partition := BuildPartitionSummary(users, s.classifier)
	stats.Partition = &partition
	return stats, nil
}

func (s *StatsService) buildWeeklyStats(users []entity.User, week, year int, breakdown Breakdown, includeUsers bool) *WeeklyStats {
	userStats := make([]UserStats, 0, len(users))
	for i := range users {
		userStats = append(userStats, BuildUserStats(&users[i]))
	}

	stats := &WeeklyStats{
		WeekNumber: week,
		Year:       year,
		Summary:    BuildGroupStats(userStats),
	}
	if includeUsers {
		stats.Users = userStats
	}

	switch breakdown {
	case BreakdownDepartment:
		stats.Departments = BreakdownByDepartment(users, includeUsers)
	case BreakdownOffice:
		stats.Offices = BreakdownByOffice(users, includeUsers)
	case BreakdownPosition:
		stats.Positions = BreakdownByPosition(users, includeUsers)
	case BreakdownJobPosition:
		stats.JobPositions = BreakdownByJobPosition(users, includeUsers)
	}
	return stats
}
