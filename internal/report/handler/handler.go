package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/nguyenhoangdanh/tbs-report-system-be-sub000/internal/report/repository"
	"github.com/nguyenhoangdanh/tbs-report-system-be-sub000/internal/report/service"
)

// Handlers handler collection
type Handlers struct {
	Auth       *AuthHandler
	User       *UserHandler
	Org        *OrgHandler
	Report     *ReportHandler
	Evaluation *EvaluationHandler
	Hierarchy  *HierarchyHandler
	Evidence   *EvidenceHandler
}

// NewHandlers creates the handler collection
func NewHandlers(svc *service.Services, scheduler *service.LockScheduler) *Handlers {
	return &Handlers{
		Auth:       NewAuthHandler(svc.Auth),
		User:       NewUserHandler(svc.User, svc.Import),
		Org:        NewOrgHandler(svc.Org),
		Report:     NewReportHandler(svc.Report),
		Evaluation: NewEvaluationHandler(svc.Evaluation),
		Hierarchy:  NewHierarchyHandler(svc.Stats, scheduler),
		Evidence:   NewEvidenceHandler(svc.Evidence),
	}
}

// Response generic response envelope
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// Success 200 response
func Success(c *gin.Context, data interface{}) {
	c.JSON(200, Response{
		Code:    0,
		Message: "success",
		Data:    data,
	})
}

// Created 201 response
func Created(c *gin.Context, data interface{}) {
	c.JSON(201, Response{
		Code:    0,
		Message: "success",
		Data:    data,
	})
}

// Error error response; the first three digits of the code are the
// HTTP status.
func Error(c *gin.Context, code int, message string) {
	statusCode := code / 100
	if statusCode < 100 || statusCode > 599 {
		statusCode = 500
	}
	c.JSON(statusCode, Response{
		Code:    code,
		Message: message,
	})
}

// BadRequest invalid parameters
func BadRequest(c *gin.Context, message string) {
	Error(c, 40000, message)
}

// Unauthorized authentication failure
func Unauthorized(c *gin.Context, message string) {
	Error(c, 40100, message)
}

// Forbidden access denied
func Forbidden(c *gin.Context, message string) {
	Error(c, 40300, message)
}

// NotFound resource missing
func NotFound(c *gin.Context, message string) {
	Error(c, 40400, message)
}

// Conflict uniqueness violation
func Conflict(c *gin.Context, message string) {
	Error(c, 40900, message)
}

// LockedState mutation on a locked report
func LockedState(c *gin.Context, message string) {
	Error(c, 40901, message)
}

// InternalError server failure
func InternalError(c *gin.Context, message string) {
	Error(c, 50000, message)
}

// HandleServiceError maps service sentinels onto the envelope codes.
func HandleServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		NotFound(c, err.Error())
	case errors.Is(err, repository.ErrLocked):
		LockedState(c, "report is locked")
	case errors.Is(err, service.ErrForbidden):
		Forbidden(c, err.Error())
	case errors.Is(err, service.ErrConflict):
		Conflict(c, err.Error())
	case errors.Is(err, service.ErrHasChildren):
		Conflict(c, err.Error())
	case errors.Is(err, service.ErrInvalidCredentials):
		Unauthorized(c, err.Error())
	case errors.Is(err, service.ErrStorageUnavailable):
		Error(c, 50300, err.Error())
	default:
		InternalError(c, err.Error())
	}
}
