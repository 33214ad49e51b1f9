package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nguyenhoangdanh/tbs-report-system-be-sub000/internal/report/entity"
)

// statUser builds a user with one report of total tasks, done of them
// completed. total == 0 means no report at all.
func statUser(id string, total, done int, pos *entity.Position, dept *entity.Department) entity.User {
	u := entity.User{
		ID:           id,
		EmployeeCode: "EMP-" + id,
		FirstName:    "A",
		LastName:     "User " + id,
		JobPosition: &entity.JobPosition{
			ID:         "jp-" + id,
			JobName:    "Job " + id,
			Position:   pos,
			Department: dept,
		},
	}
	if total > 0 {
		report := entity.Report{ID: "rep-" + id, UserID: id}
		for i := 0; i < total; i++ {
			report.Tasks = append(report.Tasks, entity.ReportTask{IsCompleted: i < done})
		}
		u.Reports = []entity.Report{report}
	}
	return u
}

func TestCalculatePercentage(t *testing.T) {
	assert.Equal(t, 0, CalculatePercentage(5, 0), "zero denominator yields zero")
	assert.Equal(t, 67, CalculatePercentage(2, 3))
	assert.Equal(t, 33, CalculatePercentage(1, 3))
	assert.Equal(t, 50, CalculatePercentage(1, 2))
	assert.Equal(t, 100, CalculatePercentage(7, 7))
}

func TestBuildUserStats(t *testing.T) {
	pos := &entity.Position{Name: "Nhân viên", Level: 7}
	dept := &entity.Department{Name: "May 1", Office: &entity.Office{Name: "Factory"}}

	u := statUser("u1", 10, 9, pos, dept)
	stats := BuildUserStats(&u)

	assert.True(t, stats.HasReport)
	assert.Equal(t, 10, stats.TotalTasks)
	assert.Equal(t, 9, stats.CompletedTasks)
	assert.InDelta(t, 90.0, stats.CompletionRate, 0.001)
	assert.Equal(t, RankingAverage, stats.Ranking)
	assert.Equal(t, "Trung bình", stats.RankingLabel)
	assert.Equal(t, "May 1", stats.DepartmentName)
	assert.Equal(t, "Factory", stats.OfficeName)
	assert.Equal(t, 7, stats.Level)
}

func TestBuildUserStatsWithoutReport(t *testing.T) {
	u := statUser("u1", 0, 0, nil, nil)
	stats := BuildUserStats(&u)

	assert.False(t, stats.HasReport)
	assert.Equal(t, 0, stats.TotalTasks)
	assert.Equal(t, 0.0, stats.CompletionRate)
	assert.Equal(t, RankingFail, stats.Ranking, "no report classifies as the bottom bucket")
}

// Three users in one department: one perfect report, one at 40%, one
// who never submitted. The group average is task-weighted, not a mean of
// user rates.
func TestBuildGroupStatsTaskWeighted(t *testing.T) {
	pos := &entity.Position{Name: "Nhân viên", Level: 7}
	dept := &entity.Department{ID: "d1", Name: "May 1"}

	users := []entity.User{
		statUser("u1", 10, 10, pos, dept),
		statUser("u2", 10, 4, pos, dept),
		statUser("u3", 0, 0, pos, dept),
	}
	userStats := make([]UserStats, 0, len(users))
	for i := range users {
		userStats = append(userStats, BuildUserStats(&users[i]))
	}

	group := BuildGroupStats(userStats)

	assert.Equal(t, 3, group.TotalUsers)
	assert.Equal(t, 2, group.UsersWithReports)
	assert.Equal(t, 1, group.UsersWithoutReports)
	assert.Equal(t, 67, group.SubmissionRate)
	assert.Equal(t, 20, group.TotalTasks)
	assert.Equal(t, 14, group.CompletedTasks)
	assert.Equal(t, 70, group.AverageCompletionRate, "14/20 task-weighted, not mean(100, 40, 0)")

	dist := group.RankingDistribution
	assert.Equal(t, 1, dist.Excellent)
	assert.Equal(t, 2, dist.Fail, "40% and the missing report both land in FAIL")
	assert.Equal(t, 33, dist.ExcellentPct)
	assert.Equal(t, 67, dist.FailPct)
}

func TestBuildGroupStatsEmpty(t *testing.T) {
	group := BuildGroupStats(nil)

	assert.Equal(t, 0, group.TotalUsers)
	assert.Equal(t, 0, group.SubmissionRate)
	assert.Equal(t, 0, group.AverageCompletionRate)
}

func TestBreakdownByDepartmentOrderAndGrouping(t *testing.T) {
	pos := &entity.Position{Name: "Nhân viên", Level: 7}
	deptB := &entity.Department{ID: "d-b", Name: "May B"}
	deptA := &entity.Department{ID: "d-a", Name: "May A"}

	users := []entity.User{
		statUser("u1", 4, 4, pos, deptB),
		statUser("u2", 4, 2, pos, deptA),
		statUser("u3", 2, 2, pos, deptB),
	}

	breakdowns := BreakdownByDepartment(users, true)

	// First-encounter order, not alphabetical.
	assert.Len(t, breakdowns, 2)
	assert.Equal(t, "d-b", breakdowns[0].ID)
	assert.Equal(t, "d-a", breakdowns[1].ID)

	assert.Equal(t, 2, breakdowns[0].Stats.TotalUsers)
	assert.Equal(t, 100, breakdowns[0].Stats.AverageCompletionRate)
	assert.Len(t, breakdowns[0].Users, 2)
	assert.Equal(t, 50, breakdowns[1].Stats.AverageCompletionRate)
}

func TestBreakdownSkipsBrokenChains(t *testing.T) {
	pos := &entity.Position{Name: "Nhân viên", Level: 7}
	dept := &entity.Department{ID: "d1", Name: "May 1"}

	users := []entity.User{
		statUser("u1", 1, 1, pos, dept),
		{ID: "u2", EmployeeCode: "EMP-u2"}, // no job position chain
	}

	breakdowns := BreakdownByDepartment(users, false)
	assert.Len(t, breakdowns, 1)
	assert.Equal(t, 1, breakdowns[0].Stats.TotalUsers)
}

func TestBuildPartitionSummary(t *testing.T) {
	c := testClassifier()
	mgmtPos := &entity.Position{Name: "Trưởng phòng", Level: 4, IsManagement: true}
	staffPos := &entity.Position{Name: "Nhân viên", Level: 7}
	dept := &entity.Department{ID: "d1", Name: "May 1"}

	users := []entity.User{
		statUser("m1", 10, 10, mgmtPos, dept),
		statUser("s1", 10, 8, staffPos, dept),
	}

	summary := BuildPartitionSummary(users, c)

	assert.NotNil(t, summary.Management)
	assert.NotNil(t, summary.Staff)
	assert.Equal(t, 100, summary.Management.AverageCompletionRate)
	assert.Equal(t, 80, summary.Staff.AverageCompletionRate)

	assert.NotNil(t, summary.Mixed)
	assert.Equal(t, 90, summary.Mixed.AverageCompletionRate, "mixed block is the arithmetic mean of the two group rates")
	assert.Equal(t, 100, summary.Mixed.AverageSubmissionRate)
}

func TestBuildPartitionSummarySinglePartition(t *testing.T) {
	c := testClassifier()
	staffPos := &entity.Position{Name: "Nhân viên", Level: 7}
	dept := &entity.Department{ID: "d1", Name: "May 1"}

	summary := BuildPartitionSummary([]entity.User{
		statUser("s1", 5, 5, staffPos, dept),
	}, c)

	assert.Nil(t, summary.Management)
	assert.NotNil(t, summary.Staff)
	assert.Nil(t, summary.Mixed, "mixed only appears when both partitions are non-empty")
}

func TestBuildPartitionSummaryExcludedTitle(t *testing.T) {
	c := testClassifier()
	ceoPos := &entity.Position{Name: "Tổng Giám Đốc", Level: 0}
	dept := &entity.Department{ID: "d1", Name: "BGĐ"}

	summary := BuildPartitionSummary([]entity.User{
		statUser("ceo", 1, 1, ceoPos, dept),
	}, c)

	// "Tổng giám đốc" carries a management keyword, so the excluded
	// title lands in the management partition rather than staff.
	assert.NotNil(t, summary.Management)
	assert.Nil(t, summary.Staff)
}
