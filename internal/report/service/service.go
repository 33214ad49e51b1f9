package service

import (
	"errors"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/nguyenhoangdanh/tbs-report-system-be-sub000/internal/config"
	"github.com/nguyenhoangdanh/tbs-report-system-be-sub000/internal/report/entity"
	"github.com/nguyenhoangdanh/tbs-report-system-be-sub000/internal/report/repository"
)

// Service-level sentinel errors
var (
	ErrForbidden = errors.New("permission denied")
	ErrConflict  = errors.New("resource already exists")
)

// Services service collection
type Services struct {
	Auth        *AuthService
	User        *UserService
	Org         *OrgService
	Report      *ReportService
	Evaluation  *EvaluationService
	Access      *AccessService
	Subordinate *SubordinateService
	Stats       *StatsService
	Evidence    *EvidenceService
	Import      *ImportService
}

// NewServices creates the service collection
func NewServices(repos *repository.Repositories, rdb *redis.Client, cfg *config.Config, logger *zap.Logger) *Services {
	classifier := NewPositionClassifier(cfg.Hierarchy)

	// MinIO is optional: without it evidence uploads are rejected but
	// everything else keeps working.
	var minioClient *minio.Client
	if cfg.MinIO.Endpoint != "" {
		var err error
		minioClient, err = minio.New(cfg.MinIO.Endpoint, &minio.Options{
			Creds:  credentials.NewStaticV4(cfg.MinIO.AccessKey, cfg.MinIO.SecretKey, ""),
			Secure: cfg.MinIO.UseSSL,
		})
		if err != nil {
			logger.Warn("MinIO client init failed, evidence uploads disabled", zap.Error(err))
			minioClient = nil
		}
	}

	subordinateSvc := NewSubordinateService(repos.User, classifier, rdb, logger)
	accessSvc := NewAccessService(repos.User, subordinateSvc, classifier)
	statsSvc := NewStatsService(repos.User, accessSvc, subordinateSvc, classifier)

	return &Services{
		Auth:        NewAuthService(repos.User, rdb, cfg),
		User:        NewUserService(repos.User, repos.JobPosition),
		Org:         NewOrgService(repos),
		Report:      NewReportService(repos.Report, repos.User, accessSvc),
		Evaluation:  NewEvaluationService(repos.Evaluation, repos.Report, repos.User, accessSvc),
		Access:      accessSvc,
		Subordinate: subordinateSvc,
		Stats:       statsSvc,
		Evidence:    NewEvidenceService(repos.Evidence, repos.Report, minioClient, cfg.MinIO.Bucket),
		Import:      NewImportService(repos.User, repos.JobPosition, repos.Department, repos.Position, logger),
	}
}

// positionOf resolves the optional chain user → job position → position.
func positionOf(u *entity.User) *entity.Position {
	if u == nil || u.JobPosition == nil {
		return nil
	}
	return u.JobPosition.Position
}
