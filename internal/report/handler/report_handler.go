package handler

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nguyenhoangdanh/tbs-report-system-be-sub000/internal/report/service"
)

// ReportHandler weekly report endpoints. Everything here operates on the
// caller's own reports except Get, which goes through the access scope.
type ReportHandler struct {
	reports *service.ReportService
}

func NewReportHandler(reports *service.ReportService) *ReportHandler {
	return &ReportHandler{reports: reports}
}

// weekParams reads week/year query params, defaulting to the current
// work week.
func weekParams(c *gin.Context) (int, int) {
	week, year := service.WorkWeekOf(time.Now())
	if v, err := strconv.Atoi(c.Query("week")); err == nil {
		week = v
	}
	if v, err := strconv.Atoi(c.Query("year")); err == nil {
		year = v
	}
	return week, year
}

// Create POST /api/v1/reports
func (h *ReportHandler) Create(c *gin.Context) {
	var req service.CreateReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}

	report, err := h.reports.Create(c.Request.Context(), c.GetString("user_id"), &req)
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	Created(c, report)
}

// GetMine GET /api/v1/reports/me?week=&year=
func (h *ReportHandler) GetMine(c *gin.Context) {
	week, year := weekParams(c)
	report, err := h.reports.GetMine(c.Request.Context(), c.GetString("user_id"), week, year)
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	Success(c, report)
}

// ListMine GET /api/v1/reports?limit=
func (h *ReportHandler) ListMine(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "12"))
	reports, err := h.reports.ListMine(c.Request.Context(), c.GetString("user_id"), limit)
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	Success(c, reports)
}

// Get GET /api/v1/reports/:id
func (h *ReportHandler) Get(c *gin.Context) {
	report, err := h.reports.Get(c.Request.Context(), c.GetString("user_id"), c.GetString("role"), c.Param("id"))
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	Success(c, report)
}

type setCompletedRequest struct {
	IsCompleted *bool `json:"is_completed" binding:"required"`
}

// SetCompleted PATCH /api/v1/reports/:id/completed
func (h *ReportHandler) SetCompleted(c *gin.Context) {
	var req setCompletedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}

	if err := h.reports.SetCompleted(c.Request.Context(), c.GetString("user_id"), c.Param("id"), *req.IsCompleted); err != nil {
		HandleServiceError(c, err)
		return
	}
	Success(c, nil)
}

// Delete DELETE /api/v1/reports/:id
func (h *ReportHandler) Delete(c *gin.Context) {
	if err := h.reports.Delete(c.Request.Context(), c.GetString("user_id"), c.Param("id")); err != nil {
		HandleServiceError(c, err)
		return
	}
	Success(c, nil)
}

// AddTask POST /api/v1/reports/:id/tasks
func (h *ReportHandler) AddTask(c *gin.Context) {
	var req service.TaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}

	task, err := h.reports.AddTask(c.Request.Context(), c.GetString("user_id"), c.Param("id"), req)
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	Created(c, task)
}

// UpdateTask PUT /api/v1/tasks/:taskId
func (h *ReportHandler) UpdateTask(c *gin.Context) {
	var req service.UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}

	if err := h.reports.UpdateTask(c.Request.Context(), c.GetString("user_id"), c.Param("taskId"), &req); err != nil {
		HandleServiceError(c, err)
		return
	}
	Success(c, nil)
}

// DeleteTask DELETE /api/v1/tasks/:taskId
func (h *ReportHandler) DeleteTask(c *gin.Context) {
	if err := h.reports.DeleteTask(c.Request.Context(), c.GetString("user_id"), c.Param("taskId")); err != nil {
		HandleServiceError(c, err)
		return
	}
	Success(c, nil)
}
