package service

import (
	"math"

	"github.com/nguyenhoangdanh/tbs-report-system-be-sub000/internal/report/entity"
)

// The single aggregation engine. Every rollup level (user, job position,
// department, office, position) folds through the same code path with
// one averaging policy: the group average completion rate is
// task-weighted across the group's applicable reports, not an average of
// individual user rates.

// CalculatePercentage rounds numerator/denominator to a whole percent,
// yielding 0 on a zero denominator instead of NaN.
func CalculatePercentage(numerator, denominator int) int {
	if denominator == 0 {
		return 0
	}
	return int(math.Round(float64(numerator) / float64(denominator) * 100))
}

// UserStats per-user statistics for one work week
type UserStats struct {
	UserID         string  `json:"user_id"`
	EmployeeCode   string  `json:"employee_code"`
	FullName       string  `json:"full_name"`
	JobName        string  `json:"job_name"`
	PositionName   string  `json:"position_name"`
	Level          int     `json:"level"`
	DepartmentName string  `json:"department_name"`
	OfficeName     string  `json:"office_name"`
	HasReport      bool    `json:"has_report"`
	IsCompleted    bool    `json:"is_completed"`
	TotalTasks     int     `json:"total_tasks"`
	CompletedTasks int     `json:"completed_tasks"`
	CompletionRate float64 `json:"completion_rate"`
	Ranking        string  `json:"ranking"`
	RankingLabel   string  `json:"ranking_label"`
}

// RankingDistribution bucket counts plus percentages over the group
type RankingDistribution struct {
	Excellent    int `json:"excellent"`
	Good         int `json:"good"`
	Average      int `json:"average"`
	Poor         int `json:"poor"`
	Fail         int `json:"fail"`
	ExcellentPct int `json:"excellent_pct"`
	GoodPct      int `json:"good_pct"`
	AveragePct   int `json:"average_pct"`
	PoorPct      int `json:"poor_pct"`
	FailPct      int `json:"fail_pct"`
}

func (d *RankingDistribution) add(ranking string) {
	switch ranking {
	case RankingExcellent:
		d.Excellent++
	case RankingGood:
		d.Good++
	case RankingAverage:
		d.Average++
	case RankingPoor:
		d.Poor++
	default:
		d.Fail++
	}
}

func (d *RankingDistribution) finalize(total int) {
	d.ExcellentPct = CalculatePercentage(d.Excellent, total)
	d.GoodPct = CalculatePercentage(d.Good, total)
	d.AveragePct = CalculatePercentage(d.Average, total)
	d.PoorPct = CalculatePercentage(d.Poor, total)
	d.FailPct = CalculatePercentage(d.Fail, total)
}

// GroupStats the rollup shape shared by every aggregation level
type GroupStats struct {
	TotalUsers            int                 `json:"total_users"`
	UsersWithReports      int                 `json:"users_with_reports"`
	UsersWithoutReports   int                 `json:"users_without_reports"`
	SubmissionRate        int                 `json:"submission_rate"`
	TotalTasks            int                 `json:"total_tasks"`
	CompletedTasks        int                 `json:"completed_tasks"`
	AverageCompletionRate int                 `json:"average_completion_rate"`
	RankingDistribution   RankingDistribution `json:"ranking_distribution"`
}

// GroupBreakdown one breakdown entry (department, office, position or
// job position) carrying its own stats block
type GroupBreakdown struct {
	ID    string      `json:"id"`
	Name  string      `json:"name"`
	Stats GroupStats  `json:"stats"`
	Users []UserStats `json:"users,omitempty"`
}

// BuildUserStats folds one user's applicable report (at most one per
// week) into per-user statistics. Absence of a report degrades to
// zero-valued stats, never an error.
func BuildUserStats(u *entity.User) UserStats {
	stats := UserStats{
		UserID:       u.ID,
		EmployeeCode: u.EmployeeCode,
		FullName:     u.FullName(),
	}
	if u.JobPosition != nil {
		stats.JobName = u.JobPosition.JobName
		stats.DepartmentName = u.JobPosition.DepartmentName()
		if u.JobPosition.Position != nil {
			stats.PositionName = u.JobPosition.Position.Name
			stats.Level = u.JobPosition.Position.Level
		}
		if u.JobPosition.Department != nil && u.JobPosition.Department.Office != nil {
			stats.OfficeName = u.JobPosition.Department.Office.Name
		}
	}

	if len(u.Reports) > 0 {
		report := u.Reports[0]
		stats.HasReport = true
		stats.IsCompleted = report.IsCompleted
		stats.TotalTasks = len(report.Tasks)
		for _, task := range report.Tasks {
			if task.IsCompleted {
				stats.CompletedTasks++
			}
		}
		if stats.TotalTasks > 0 {
			stats.CompletionRate = float64(stats.CompletedTasks) / float64(stats.TotalTasks) * 100
		}
	}

	stats.Ranking = StrictRanking(stats.CompletionRate)
	stats.RankingLabel = RankingLabel(stats.Ranking)
	return stats
}

// BuildGroupStats folds per-user stats into the shared rollup shape.
func BuildGroupStats(users []UserStats) GroupStats {
	stats := GroupStats{TotalUsers: len(users)}
	for _, u := range users {
		if u.HasReport {
			stats.UsersWithReports++
		}
		stats.TotalTasks += u.TotalTasks
		stats.CompletedTasks += u.CompletedTasks
		stats.RankingDistribution.add(u.Ranking)
	}
	stats.UsersWithoutReports = stats.TotalUsers - stats.UsersWithReports
	stats.SubmissionRate = CalculatePercentage(stats.UsersWithReports, stats.TotalUsers)
	stats.AverageCompletionRate = CalculatePercentage(stats.CompletedTasks, stats.TotalTasks)
	stats.RankingDistribution.finalize(stats.TotalUsers)
	return stats
}

// groupKeyFunc extracts a breakdown key from a user; a zero id skips the
// user (broken chain).
type groupKeyFunc func(u *entity.User) (id, name string)

// buildBreakdown groups users by key, preserving first-encounter order,
// and computes each group's stats.
func buildBreakdown(users []entity.User, key groupKeyFunc, includeUsers bool) []GroupBreakdown {
	index := make(map[string]int)
	breakdowns := make([]GroupBreakdown, 0)
	grouped := make(map[string][]UserStats)

	for i := range users {
		id, name := key(&users[i])
		if id == "" {
			continue
		}
		if _, ok := index[id]; !ok {
			index[id] = len(breakdowns)
			breakdowns = append(breakdowns, GroupBreakdown{ID: id, Name: name})
		}
		grouped[id] = append(grouped[id], BuildUserStats(&users[i]))
	}

	for i := range breakdowns {
		members := grouped[breakdowns[i].ID]
		breakdowns[i].Stats = BuildGroupStats(members)
		if includeUsers {
			breakdowns[i].Users = members
		}
	}
	return breakdowns
}

// BreakdownByDepartment groups the flat user list by department.
func BreakdownByDepartment(users []entity.User, includeUsers bool) []GroupBreakdown {
	return buildBreakdown(users, func(u *entity.User) (string, string) {
		if u.JobPosition == nil || u.JobPosition.Department == nil {
			return "", ""
		}
		return u.JobPosition.Department.ID, u.JobPosition.Department.Name
	}, includeUsers)
}

// BreakdownByOffice groups the flat user list by office.
func BreakdownByOffice(users []entity.User, includeUsers bool) []GroupBreakdown {
	return buildBreakdown(users, func(u *entity.User) (string, string) {
		if u.JobPosition == nil || u.JobPosition.Department == nil || u.JobPosition.Department.Office == nil {
			return "", ""
		}
		return u.JobPosition.Department.Office.ID, u.JobPosition.Department.Office.Name
	}, includeUsers)
}

// BreakdownByPosition groups by the rank/title definition.
func BreakdownByPosition(users []entity.User, includeUsers bool) []GroupBreakdown {
	return buildBreakdown(users, func(u *entity.User) (string, string) {
		if u.JobPosition == nil || u.JobPosition.Position == nil {
			return "", ""
		}
		return u.JobPosition.Position.ID, u.JobPosition.Position.Name
	}, includeUsers)
}

// BreakdownByJobPosition groups by the concrete job position.
func BreakdownByJobPosition(users []entity.User, includeUsers bool) []GroupBreakdown {
	return buildBreakdown(users, func(u *entity.User) (string, string) {
		if u.JobPosition == nil {
			return "", ""
		}
		return u.JobPosition.ID, u.JobPosition.JobName
	}, includeUsers)
}

// MixedSummary merges the management and staff partitions by simple
// arithmetic mean of the two group rates. This is the documented
// approximation, not a weighted mean.
type MixedSummary struct {
	AverageSubmissionRate int `json:"average_submission_rate"`
	AverageCompletionRate int `json:"average_completion_rate"`
}

// PartitionSummary the management/staff/mixed view
type PartitionSummary struct {
	Management *GroupStats   `json:"management,omitempty"`
	Staff      *GroupStats   `json:"staff,omitempty"`
	Mixed      *MixedSummary `json:"mixed,omitempty"`
}

// BuildPartitionSummary splits users into management and staff using the
// classifier and computes each partition's rollup. The mixed block is
// present only when both partitions are non-empty.
func BuildPartitionSummary(users []entity.User, classifier *PositionClassifier) PartitionSummary {
	var management, staff []UserStats
	for i := range users {
		var pos *entity.Position
		if users[i].JobPosition != nil {
			pos = users[i].JobPosition.Position
		}
		switch {
		case classifier.IsManagement(pos):
			management = append(management, BuildUserStats(&users[i]))
		case classifier.IsStaff(pos):
			staff = append(staff, BuildUserStats(&users[i]))
		}
	}

	var summary PartitionSummary
	if len(management) > 0 {
		stats := BuildGroupStats(management)
		summary.Management = &stats
	}
	if len(staff) > 0 {
		stats := BuildGroupStats(staff)
		summary.Staff = &stats
	}
	if summary.Management != nil && summary.Staff != nil {
		summary.Mixed = &MixedSummary{
			AverageSubmissionRate: meanOfTwo(summary.Management.SubmissionRate, summary.Staff.SubmissionRate),
			AverageCompletionRate: meanOfTwo(summary.Management.AverageCompletionRate, summary.Staff.AverageCompletionRate),
		}
	}
	return summary
}

func meanOfTwo(a, b int) int {
	return int(math.Round(float64(a+b) / 2))
}
