package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"

	"github.com/nguyenhoangdanh/tbs-report-system-be-sub000/internal/report/entity"
	"github.com/nguyenhoangdanh/tbs-report-system-be-sub000/internal/report/repository"
)

// ErrStorageUnavailable object storage not configured
var ErrStorageUnavailable = errors.New("object storage unavailable")

// EvidenceService task evidence files. Metadata lives in the database,
// bytes in MinIO under reports/{reportID}/{uuid}-{filename}.
type EvidenceService struct {
	evidences   *repository.EvidenceRepository
	reports     *repository.ReportRepository
	minioClient *minio.Client
	bucketName  string
}

func NewEvidenceService(evidences *repository.EvidenceRepository, reports *repository.ReportRepository, minioClient *minio.Client, bucketName string) *EvidenceService {
	return &EvidenceService{
		evidences:   evidences,
		reports:     reports,
		minioClient: minioClient,
		bucketName:  bucketName,
	}
}

// Upload stores a file as evidence for one of the caller's own tasks.
// Uploads follow the same lock rule as task edits: a locked report no
// longer accepts evidence.
func (s *EvidenceService) Upload(ctx context.Context, userID, taskID, fileName, contentType string, size int64, reader io.Reader) (*entity.TaskEvidence, error) {
	if s.minioClient == nil {
		return nil, ErrStorageUnavailable
	}

	task, err := s.reports.FindTaskByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if task.Report == nil || task.Report.UserID != userID {
		return nil, ErrForbidden
	}
	if task.Report.IsLocked {
		return nil, repository.ErrLocked
	}

	objectKey := fmt.Sprintf("reports/%s/%s-%s", task.ReportID, uuid.New().String(), fileName)
	if _, err := s.minioClient.PutObject(ctx, s.bucketName, objectKey, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	}); err != nil {
		return nil, fmt.Errorf("upload evidence: %w", err)
	}

	evidence := &entity.TaskEvidence{
		ID:          uuid.New().String(),
		TaskID:      taskID,
		FileName:    fileName,
		ObjectKey:   objectKey,
		ContentType: contentType,
		Size:        size,
		UploadedBy:  userID,
		CreatedAt:   time.Now(),
	}
	if err := s.evidences.Create(ctx, evidence); err != nil {
		return nil, err
	}
	return evidence, nil
}

// List returns a task's evidence metadata.
func (s *EvidenceService) List(ctx context.Context, taskID string) ([]entity.TaskEvidence, error) {
	return s.evidences.ListByTask(ctx, taskID)
}

// DownloadURL returns a presigned URL valid for 15 minutes.
func (s *EvidenceService) DownloadURL(ctx context.Context, evidenceID string) (string, error) {
	if s.minioClient == nil {
		return "", ErrStorageUnavailable
	}

	evidence, err := s.evidences.FindByID(ctx, evidenceID)
	if err != nil {
		return "", err
	}

	params := url.Values{}
	params.Set("response-content-disposition", fmt.Sprintf("attachment; filename=%q", evidence.FileName))
	presigned, err := s.minioClient.PresignedGetObject(ctx, s.bucketName, evidence.ObjectKey, 15*time.Minute, params)
	if err != nil {
		return "", fmt.Errorf("presign evidence: %w", err)
	}
	return presigned.String(), nil
}

// Delete removes evidence from storage and the database. Owner only,
// and only while the report is unlocked.
func (s *EvidenceService) Delete(ctx context.Context, userID, evidenceID string) error {
	evidence, err := s.evidences.FindByID(ctx, evidenceID)
	if err != nil {
		return err
	}

	task, err := s.reports.FindTaskByID(ctx, evidence.TaskID)
	if err != nil {
		return err
	}
	if task.Report == nil || task.Report.UserID != userID {
		return ErrForbidden
	}
	if task.Report.IsLocked {
		return repository.ErrLocked
	}

	if s.minioClient != nil {
		if err := s.minioClient.RemoveObject(ctx, s.bucketName, evidence.ObjectKey, minio.RemoveObjectOptions{}); err != nil {
			return fmt.Errorf("remove evidence object: %w", err)
		}
	}
	return s.evidences.Delete(ctx, evidenceID)
}
