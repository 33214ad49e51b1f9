package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/nguyenhoangdanh/tbs-report-system-be-sub000/internal/report/service"
)

// UserHandler user management endpoints
type UserHandler struct {
	users   *service.UserService
	importS *service.ImportService
}

func NewUserHandler(users *service.UserService, importSvc *service.ImportService) *UserHandler {
	return &UserHandler{users: users, importS: importSvc}
}

// Create POST /api/v1/users
func (h *UserHandler) Create(c *gin.Context) {
	var req service.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}

	user, err := h.users.Create(c.Request.Context(), &req)
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	Created(c, user)
}

// Get GET /api/v1/users/:id
func (h *UserHandler) Get(c *gin.Context) {
	user, err := h.users.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	Success(c, user)
}

// List GET /api/v1/users
func (h *UserHandler) List(c *gin.Context) {
	users, err := h.users.List(c.Request.Context())
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	Success(c, users)
}

// Update PUT /api/v1/users/:id
func (h *UserHandler) Update(c *gin.Context) {
	var req service.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}

	user, err := h.users.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	Success(c, user)
}

// Deactivate DELETE /api/v1/users/:id
func (h *UserHandler) Deactivate(c *gin.Context) {
	if err := h.users.Deactivate(c.Request.Context(), c.Param("id")); err != nil {
		HandleServiceError(c, err)
		return
	}
	Success(c, nil)
}

type changePasswordRequest struct {
	NewPassword string `json:"new_password" binding:"required,min=6"`
}

// ChangePassword PUT /api/v1/users/:id/password
func (h *UserHandler) ChangePassword(c *gin.Context) {
	var req changePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}

	if err := h.users.ChangePassword(c.Request.Context(), c.Param("id"), req.NewPassword); err != nil {
		HandleServiceError(c, err)
		return
	}
	Success(c, nil)
}

// Import POST /api/v1/users/import, multipart field "file"
func (h *UserHandler) Import(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		BadRequest(c, "missing file")
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		BadRequest(c, err.Error())
		return
	}
	defer f.Close()

	result, err := h.importS.ImportUsers(c.Request.Context(), f)
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	Success(c, result)
}
