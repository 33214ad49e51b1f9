package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/nguyenhoangdanh/tbs-report-system-be-sub000/internal/report/entity"
	"github.com/nguyenhoangdanh/tbs-report-system-be-sub000/internal/report/repository"
)

// ErrHasChildren deletion blocked while referenced
var ErrHasChildren = errors.New("resource still has children")

// OrgService administrator-managed reference data: offices,
// departments, positions and job positions. Reference rows are never
// deleted while anything references them.
type OrgService struct {
	offices      *repository.OfficeRepository
	departments  *repository.DepartmentRepository
	positions    *repository.PositionRepository
	jobPositions *repository.JobPositionRepository
}

func NewOrgService(repos *repository.Repositories) *OrgService {
	return &OrgService{
		offices:      repos.Office,
		departments:  repos.Department,
		positions:    repos.Position,
		jobPositions: repos.JobPosition,
	}
}

// --- Offices ---

type OfficeRequest struct {
	Name        string `json:"name" binding:"required"`
	Type        string `json:"type" binding:"required,oneof=HEAD_OFFICE FACTORY_OFFICE"`
	Description string `json:"description"`
}

func (s *OrgService) CreateOffice(ctx context.Context, req *OfficeRequest) (*entity.Office, error) {
	if _, err := s.offices.FindByName(ctx, req.Name); err == nil {
		return nil, ErrConflict
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	office := &entity.Office{
		ID:          uuid.New().String(),
		Name:        req.Name,
		Type:        req.Type,
		Description: req.Description,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
	if err := s.offices.Create(ctx, office); err != nil {
		return nil, err
	}
	return office, nil
}

func (s *OrgService) GetOffice(ctx context.Context, id string) (*entity.Office, error) {
	return s.offices.FindByID(ctx, id)
}

func (s *OrgService) ListOffices(ctx context.Context) ([]entity.Office, error) {
	return s.offices.List(ctx)
}

func (s *OrgService) UpdateOffice(ctx context.Context, id string, req *OfficeRequest) (*entity.Office, error) {
	office, err := s.offices.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	office.Name = req.Name
	office.Type = req.Type
	office.Description = req.Description
	office.UpdatedAt = time.Now()
	if err := s.offices.Update(ctx, office); err != nil {
		return nil, err
	}
	return office, nil
}

func (s *OrgService) DeleteOffice(ctx context.Context, id string) error {
	if _, err := s.offices.FindByID(ctx, id); err != nil {
		return err
	}
	children, err := s.offices.CountChildren(ctx, id)
	if err != nil {
		return err
	}
	if children > 0 {
		return ErrHasChildren
	}
	return s.offices.Delete(ctx, id)
}

// --- Departments ---

type DepartmentRequest struct {
	Name        string `json:"name" binding:"required"`
	OfficeID    string `json:"office_id" binding:"required"`
	Description string `json:"description"`
}

func (s *OrgService) CreateDepartment(ctx context.Context, req *DepartmentRequest) (*entity.Department, error) {
	if _, err := s.offices.FindByID(ctx, req.OfficeID); err != nil {
		return nil, err
	}
	if _, err := s.departments.FindByNameInOffice(ctx, req.OfficeID, req.Name); err == nil {
		return nil, ErrConflict
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	dept := &entity.Department{
		ID:          uuid.New().String(),
		Name:        req.Name,
		OfficeID:    req.OfficeID,
		Description: req.Description,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
	if err := s.departments.Create(ctx, dept); err != nil {
		return nil, err
	}
	return s.departments.FindByID(ctx, dept.ID)
}

func (s *OrgService) GetDepartment(ctx context.Context, id string) (*entity.Department, error) {
	return s.departments.FindByID(ctx, id)
}

func (s *OrgService) ListDepartments(ctx context.Context, officeID string) ([]entity.Department, error) {
	return s.departments.List(ctx, officeID)
}

func (s *OrgService) UpdateDepartment(ctx context.Context, id string, req *DepartmentRequest) (*entity.Department, error) {
	dept, err := s.departments.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	dept.Name = req.Name
	dept.Description = req.Description
	dept.UpdatedAt = time.Now()
	if err := s.departments.Update(ctx, dept); err != nil {
		return nil, err
	}
	return dept, nil
}

func (s *OrgService) DeleteDepartment(ctx context.Context, id string) error {
	if _, err := s.departments.FindByID(ctx, id); err != nil {
		return err
	}
	children, err := s.departments.CountChildren(ctx, id)
	if err != nil {
		return err
	}
	if children > 0 {
		return ErrHasChildren
	}
	return s.departments.Delete(ctx, id)
}

// --- Positions ---

type PositionRequest struct {
	Name             string `json:"name" binding:"required"`
	Description      string `json:"description"`
	Level            *int   `json:"level" binding:"required,min=0,max=10"`
	IsManagement     bool   `json:"is_management"`
	CanViewHierarchy bool   `json:"can_view_hierarchy"`
	IsReportable     *bool  `json:"is_reportable"`
}

func (s *OrgService) CreatePosition(ctx context.Context, req *PositionRequest) (*entity.Position, error) {
	if _, err := s.positions.FindByName(ctx, req.Name); err == nil {
		return nil, ErrConflict
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	reportable := true
	if req.IsReportable != nil {
		reportable = *req.IsReportable
	}

	pos := &entity.Position{
		ID:               uuid.New().String(),
		Name:             req.Name,
		Description:      req.Description,
		Level:            *req.Level,
		IsManagement:     req.IsManagement,
		CanViewHierarchy: req.CanViewHierarchy,
		IsReportable:     reportable,
		CreatedAt:        time.Now(),
		UpdatedAt:        time.Now(),
	}
	if err := s.positions.Create(ctx, pos); err != nil {
		return nil, err
	}
	return pos, nil
}

func (s *OrgService) GetPosition(ctx context.Context, id string) (*entity.Position, error) {
	return s.positions.FindByID(ctx, id)
}

func (s *OrgService) ListPositions(ctx context.Context) ([]entity.Position, error) {
	return s.positions.List(ctx)
}

func (s *OrgService) UpdatePosition(ctx context.Context, id string, req *PositionRequest) (*entity.Position, error) {
	pos, err := s.positions.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	pos.Name = req.Name
	pos.Description = req.Description
	pos.Level = *req.Level
	pos.IsManagement = req.IsManagement
	pos.CanViewHierarchy = req.CanViewHierarchy
	if req.IsReportable != nil {
		pos.IsReportable = *req.IsReportable
	}
	pos.UpdatedAt = time.Now()
	if err := s.positions.Update(ctx, pos); err != nil {
		return nil, err
	}
	return pos, nil
}

func (s *OrgService) DeletePosition(ctx context.Context, id string) error {
	if _, err := s.positions.FindByID(ctx, id); err != nil {
		return err
	}
	children, err := s.positions.CountChildren(ctx, id)
	if err != nil {
		return err
	}
	if children > 0 {
		return ErrHasChildren
	}
	return s.positions.Delete(ctx, id)
}

// --- Job positions ---

type JobPositionRequest struct {
	JobName      string `json:"job_name" binding:"required"`
	PositionID   string `json:"position_id" binding:"required"`
	DepartmentID string `json:"department_id" binding:"required"`
	IsActive     *bool  `json:"is_active"`
}

// CreateJobPosition pairs a position with a department. The office id
// is denormalized from the department and the code derived from the
// names, so both stay consistent with the graph.
func (s *OrgService) CreateJobPosition(ctx context.Context, req *JobPositionRequest) (*entity.JobPosition, error) {
	pos, err := s.positions.FindByID(ctx, req.PositionID)
	if err != nil {
		return nil, err
	}
	dept, err := s.departments.FindByID(ctx, req.DepartmentID)
	if err != nil {
		return nil, err
	}

	if _, err := s.jobPositions.FindByKey(ctx, pos.ID, req.JobName, dept.ID); err == nil {
		return nil, ErrConflict
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	id := uuid.New().String()
	jp := &entity.JobPosition{
		ID:           id,
		JobName:      req.JobName,
		Code:         deriveJobCode(req.JobName, id),
		PositionID:   pos.ID,
		DepartmentID: dept.ID,
		OfficeID:     dept.OfficeID,
		IsActive:     true,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	if req.IsActive != nil {
		jp.IsActive = *req.IsActive
	}
	if err := s.jobPositions.Create(ctx, jp); err != nil {
		return nil, err
	}
	return s.jobPositions.FindByID(ctx, jp.ID)
}

func (s *OrgService) GetJobPosition(ctx context.Context, id string) (*entity.JobPosition, error) {
	return s.jobPositions.FindByID(ctx, id)
}

func (s *OrgService) ListJobPositions(ctx context.Context, officeID, departmentID string) ([]entity.JobPosition, error) {
	return s.jobPositions.List(ctx, officeID, departmentID)
}

func (s *OrgService) UpdateJobPosition(ctx context.Context, id string, req *JobPositionRequest) (*entity.JobPosition, error) {
	jp, err := s.jobPositions.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	jp.JobName = req.JobName
	if req.PositionID != "" && req.PositionID != jp.PositionID {
		pos, err := s.positions.FindByID(ctx, req.PositionID)
		if err != nil {
			return nil, err
		}
		jp.PositionID = pos.ID
	}
	if req.DepartmentID != "" && req.DepartmentID != jp.DepartmentID {
		dept, err := s.departments.FindByID(ctx, req.DepartmentID)
		if err != nil {
			return nil, err
		}
		jp.DepartmentID = dept.ID
		jp.OfficeID = dept.OfficeID
	}
	if req.IsActive != nil {
		jp.IsActive = *req.IsActive
	}
	jp.UpdatedAt = time.Now()

	if err := s.jobPositions.Update(ctx, jp); err != nil {
		return nil, err
	}
	return s.jobPositions.FindByID(ctx, id)
}

func (s *OrgService) DeleteJobPosition(ctx context.Context, id string) error {
	if _, err := s.jobPositions.FindByID(ctx, id); err != nil {
		return err
	}
	children, err := s.jobPositions.CountChildren(ctx, id)
	if err != nil {
		return err
	}
	if children > 0 {
		return ErrHasChildren
	}
	return s.jobPositions.Delete(ctx, id)
}

// deriveJobCode builds a readable unique-ish code from the job name
// initials plus an id fragment.
func deriveJobCode(jobName, id string) string {
	var initials strings.Builder
	for _, word := range strings.Fields(jobName) {
		for _, r := range word {
			initials.WriteRune(r)
			break
		}
	}
	code := strings.ToUpper(initials.String())
	if code == "" {
		code = "JP"
	}
	suffix := strings.ReplaceAll(id, "-", "")
	if len(suffix) > 6 {
		suffix = suffix[:6]
	}
	return fmt.Sprintf("%s-%s", code, strings.ToUpper(suffix))
}
