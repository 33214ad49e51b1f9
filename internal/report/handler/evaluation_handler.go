package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/nguyenhoangdanh/tbs-report-system-be-sub000/internal/report/service"
)

// EvaluationHandler task evaluation endpoints
type EvaluationHandler struct {
	evaluations *service.EvaluationService
}

func NewEvaluationHandler(evaluations *service.EvaluationService) *EvaluationHandler {
	return &EvaluationHandler{evaluations: evaluations}
}

// Evaluate POST /api/v1/tasks/:taskId/evaluations
func (h *EvaluationHandler) Evaluate(c *gin.Context) {
	var req service.EvaluateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}

	eval, err := h.evaluations.Evaluate(c.Request.Context(), c.GetString("user_id"), c.GetString("role"), c.Param("taskId"), &req)
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	Created(c, eval)
}

// Update PUT /api/v1/evaluations/:id
func (h *EvaluationHandler) Update(c *gin.Context) {
	var req service.EvaluateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}

	eval, err := h.evaluations.Update(c.Request.Context(), c.GetString("user_id"), c.Param("id"), &req)
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	Success(c, eval)
}

// ListForTask GET /api/v1/tasks/:taskId/evaluations
func (h *EvaluationHandler) ListForTask(c *gin.Context) {
	evals, err := h.evaluations.ListForTask(c.Request.Context(), c.GetString("user_id"), c.GetString("role"), c.Param("taskId"))
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	Success(c, evals)
}
