package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/nguyenhoangdanh/tbs-report-system-be-sub000/internal/report/service"
)

// EvidenceHandler task evidence file endpoints
type EvidenceHandler struct {
	evidence *service.EvidenceService
}

func NewEvidenceHandler(evidence *service.EvidenceService) *EvidenceHandler {
	return &EvidenceHandler{evidence: evidence}
}

// Upload POST /api/v1/tasks/:taskId/evidences, multipart field "file"
func (h *EvidenceHandler) Upload(c *gin.Context) {
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

	contentType := fileHeader.Header.Get("Content-Type")
	evidence, err := h.evidence.Upload(c.Request.Context(), c.GetString("user_id"), c.Param("taskId"), fileHeader.Filename, contentType, fileHeader.Size, f)
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	Created(c, evidence)
}

// List GET /api/v1/tasks/:taskId/evidences
func (h *EvidenceHandler) List(c *gin.Context) {
	evidences, err := h.evidence.List(c.Request.Context(), c.Param("taskId"))
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	Success(c, evidences)
}

// DownloadURL GET /api/v1/evidences/:id/url
func (h *EvidenceHandler) DownloadURL(c *gin.Context) {
	url, err := h.evidence.DownloadURL(c.Request.Context(), c.Param("id"))
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	Success(c, gin.H{"url": url})
}

// Delete DELETE /api/v1/evidences/:id
func (h *EvidenceHandler) Delete(c *gin.Context) {
	if err := h.evidence.Delete(c.Request.Context(), c.GetString("user_id"), c.Param("id")); err != nil {
		HandleServiceError(c, err)
		return
	}
	Success(c, nil)
}
