package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/nguyenhoangdanh/tbs-report-system-be-sub000/internal/report/service"
)

// OrgHandler organizational reference data endpoints (admin only,
// guarded at route registration)
type OrgHandler struct {
	org *service.OrgService
}

func NewOrgHandler(org *service.OrgService) *OrgHandler {
	return &OrgHandler{org: org}
}

// --- Offices ---

func (h *OrgHandler) CreateOffice(c *gin.Context) {
	var req service.OfficeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}
	office, err := h.org.CreateOffice(c.Request.Context(), &req)
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	Created(c, office)
}

func (h *OrgHandler) GetOffice(c *gin.Context) {
	office, err := h.org.GetOffice(c.Request.Context(), c.Param("id"))
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	Success(c, office)
}

func (h *OrgHandler) ListOffices(c *gin.Context) {
	offices, err := h.org.ListOffices(c.Request.Context())
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	Success(c, offices)
}

func (h *OrgHandler) UpdateOffice(c *gin.Context) {
	var req service.OfficeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}
	office, err := h.org.UpdateOffice(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	Success(c, office)
}

func (h *OrgHandler) DeleteOffice(c *gin.Context) {
	if err := h.org.DeleteOffice(c.Request.Context(), c.Param("id")); err != nil {
		HandleServiceError(c, err)
		return
	}
	Success(c, nil)
}

// --- Departments ---

func (h *OrgHandler) CreateDepartment(c *gin.Context) {
	var req service.DepartmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}
	dept, err := h.org.CreateDepartment(c.Request.Context(), &req)
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	Created(c, dept)
}

func (h *OrgHandler) GetDepartment(c *gin.Context) {
	dept, err := h.org.GetDepartment(c.Request.Context(), c.Param("id"))
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	Success(c, dept)
}

func (h *OrgHandler) ListDepartments(c *gin.Context) {
	depts, err := h.org.ListDepartments(c.Request.Context(), c.Query("office_id"))
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	Success(c, depts)
}

func (h *OrgHandler) UpdateDepartment(c *gin.Context) {
	var req service.DepartmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}
	dept, err := h.org.UpdateDepartment(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	Success(c, dept)
}

func (h *OrgHandler) DeleteDepartment(c *gin.Context) {
	if err := h.org.DeleteDepartment(c.Request.Context(), c.Param("id")); err != nil {
		HandleServiceError(c, err)
		return
	}
	Success(c, nil)
}

// --- Positions ---

func (h *OrgHandler) CreatePosition(c *gin.Context) {
	var req service.PositionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}
	pos, err := h.org.CreatePosition(c.Request.Context(), &req)
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	Created(c, pos)
}

func (h *OrgHandler) GetPosition(c *gin.Context) {
	pos, err := h.org.GetPosition(c.Request.Context(), c.Param("id"))
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	Success(c, pos)
}

func (h *OrgHandler) ListPositions(c *gin.Context) {
	positions, err := h.org.ListPositions(c.Request.Context())
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	Success(c, positions)
}

func (h *OrgHandler) UpdatePosition(c *gin.Context) {
	var req service.PositionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}
	pos, err := h.org.UpdatePosition(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	Success(c, pos)
}

func (h *OrgHandler) DeletePosition(c *gin.Context) {
	if err := h.org.DeletePosition(c.Request.Context(), c.Param("id")); err != nil {
		HandleServiceError(c, err)
		return
	}
	Success(c, nil)
}

// --- Job positions ---

func (h *OrgHandler) CreateJobPosition(c *gin.Context) {
	var req service.JobPositionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}
	jp, err := h.org.CreateJobPosition(c.Request.Context(), &req)
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	Created(c, jp)
}

func (h *OrgHandler) GetJobPosition(c *gin.Context) {
	jp, err := h.org.GetJobPosition(c.Request.Context(), c.Param("id"))
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	Success(c, jp)
}

func (h *OrgHandler) ListJobPositions(c *gin.Context) {
	jps, err := h.org.ListJobPositions(c.Request.Context(), c.Query("office_id"), c.Query("department_id"))
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	Success(c, jps)
}

func (h *OrgHandler) UpdateJobPosition(c *gin.Context) {
	var req service.JobPositionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}
	jp, err := h.org.UpdateJobPosition(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	Success(c, jp)
}

func (h *OrgHandler) DeleteJobPosition(c *gin.Context) {
	if err := h.org.DeleteJobPosition(c.Request.Context(), c.Param("id")); err != nil {
		HandleServiceError(c, err)
		return
	}
	Success(c, nil)
}
