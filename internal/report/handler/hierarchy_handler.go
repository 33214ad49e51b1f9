package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/nguyenhoangdanh/tbs-report-system-be-sub000/internal/report/service"
)

// HierarchyHandler scoped statistics and the manual lock trigger
type HierarchyHandler struct {
	stats     *service.StatsService
	scheduler *service.LockScheduler
}

func NewHierarchyHandler(stats *service.StatsService, scheduler *service.LockScheduler) *HierarchyHandler {
	return &HierarchyHandler{stats: stats, scheduler: scheduler}
}

// ScopedStats GET /api/v1/hierarchy/stats?week=&year=&breakdown=&include_users=
func (h *HierarchyHandler) ScopedStats(c *gin.Context) {
	week, year := weekParams(c)
	breakdown := service.Breakdown(c.Query("breakdown"))
	includeUsers := c.Query("include_users") == "true"

	stats, err := h.stats.GetScopedStats(c.Request.Context(), c.GetString("user_id"), c.GetString("role"), week, year, breakdown, includeUsers)
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	Success(c, stats)
}

// ManagerReports GET /api/v1/hierarchy/manager-reports?week=&year=
func (h *HierarchyHandler) ManagerReports(c *gin.Context) {
	week, year := weekParams(c)

	view, err := h.stats.GetManagerReports(c.Request.Context(), c.GetString("user_id"), c.GetString("role"), week, year)
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	Success(c, view)
}

// HierarchyView GET /api/v1/hierarchy/view?week=&year=
func (h *HierarchyHandler) HierarchyView(c *gin.Context) {
	week, year := weekParams(c)

	stats, err := h.stats.GetHierarchyView(c.Request.Context(), c.GetString("user_id"), c.GetString("role"), week, year)
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	Success(c, stats)
}

// OfficeStats GET /api/v1/hierarchy/offices/:officeId/stats?week=&year=
// Admin and office-scoped roles; office-scoped roles are pinned to their
// own office regardless of the path parameter.
func (h *HierarchyHandler) OfficeStats(c *gin.Context) {
	week, year := weekParams(c)

	officeID := c.Param("officeId")
	switch c.GetString("role") {
	case "OFFICE_MANAGER", "OFFICE_ADMIN":
		officeID = c.GetString("office_id")
	}

	stats, err := h.stats.GetOfficeStats(c.Request.Context(), officeID, week, year)
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	Success(c, stats)
}

// TriggerLock POST /api/v1/hierarchy/lock-reports, admin only. Runs the
// same pass the scheduler runs on its interval.
func (h *HierarchyHandler) TriggerLock(c *gin.Context) {
	locked, err := h.scheduler.RunOnce(c.Request.Context())
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	Success(c, gin.H{"locked": locked})
}
