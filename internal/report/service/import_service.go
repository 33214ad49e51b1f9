package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/nguyenhoangdanh/tbs-report-system-be-sub000/internal/report/entity"
	"github.com/nguyenhoangdanh/tbs-report-system-be-sub000/internal/report/repository"
)

// ImportService bulk user import from an Excel sheet. Expected columns,
// header row included:
//
//	employee_code | last_name | first_name | email | phone | office | department | position | job_name
//
// Rows reference org entities by name; missing job positions are
// created on the fly, missing offices/departments/positions are row
// errors. The initial password is the employee code.
type ImportService struct {
	users        *repository.UserRepository
	jobPositions *repository.JobPositionRepository
	departments  *repository.DepartmentRepository
	positions    *repository.PositionRepository
	logger       *zap.Logger
}

func NewImportService(users *repository.UserRepository, jobPositions *repository.JobPositionRepository, departments *repository.DepartmentRepository, positions *repository.PositionRepository, logger *zap.Logger) *ImportService {
	return &ImportService{
		users:        users,
		jobPositions: jobPositions,
		departments:  departments,
		positions:    positions,
		logger:       logger,
	}
}

// ImportResult per-run import outcome
type ImportResult struct {
	Created int      `json:"created"`
	Skipped int      `json:"skipped"`
	Errors  []string `json:"errors"`
}

// ImportUsers reads the first sheet and creates one user per row.
// Duplicate employee codes are skipped, not errors, so re-running an
// import is harmless.
func (s *ImportService) ImportUsers(ctx context.Context, r io.Reader) (*ImportResult, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", sheet, err)
	}

	result := &ImportResult{Errors: []string{}}
	for i, row := range rows {
		if i == 0 {
			continue // header
		}
		if err := s.importRow(ctx, row, result); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("row %d: %v", i+1, err))
		}
	}

	s.logger.Info("user import finished",
		zap.Int("created", result.Created),
		zap.Int("skipped", result.Skipped),
		zap.Int("errors", len(result.Errors)),
	)
	return result, nil
}

func (s *ImportService) importRow(ctx context.Context, row []string, result *ImportResult) error {
	cell := func(idx int) string {
		if idx < len(row) {
			return strings.TrimSpace(row[idx])
		}
		return ""
	}

	employeeCode := cell(0)
	lastName := cell(1)
	firstName := cell(2)
	email := cell(3)
	phone := cell(4)
	officeName := cell(5)
	departmentName := cell(6)
	positionName := cell(7)
	jobName := cell(8)

	if employeeCode == "" || lastName == "" || firstName == "" {
		return errors.New("employee_code, last_name and first_name are required")
	}

	if _, err := s.users.FindByEmployeeCode(ctx, employeeCode); err == nil {
		result.Skipped++
		return nil
	} else if !errors.Is(err, repository.ErrNotFound) {
		return err
	}

	jp, err := s.resolveJobPosition(ctx, officeName, departmentName, positionName, jobName)
	if err != nil {
		return err
	}

	hash, err := HashPassword(employeeCode)
	if err != nil {
		return err
	}

	user := &entity.User{
		ID:            uuid.New().String(),
		EmployeeCode:  employeeCode,
		Password:      hash,
		FirstName:     firstName,
		LastName:      lastName,
		Phone:         phone,
		Role:          entity.RoleUser,
		JobPositionID: jp.ID,
		OfficeID:      jp.OfficeID,
		IsActive:      true,
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}
	if email != "" {
		user.Email = &email
	}

	if err := s.users.Create(ctx, user); err != nil {
		return err
	}
	result.Created++
	return nil
}

// resolveJobPosition finds the row's job position, creating it when the
// (position, job name, department) tuple does not exist yet.
func (s *ImportService) resolveJobPosition(ctx context.Context, officeName, departmentName, positionName, jobName string) (*entity.JobPosition, error) {
	if officeName == "" || departmentName == "" || positionName == "" {
		return nil, errors.New("office, department and position are required")
	}
	if jobName == "" {
		jobName = positionName
	}

	pos, err := s.positions.FindByName(ctx, positionName)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("unknown position %q", positionName)
		}
		return nil, err
	}

	dept, err := s.findDepartment(ctx, officeName, departmentName)
	if err != nil {
		return nil, err
	}

	jp, err := s.jobPositions.FindByKey(ctx, pos.ID, jobName, dept.ID)
	if err == nil {
		return jp, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	id := uuid.New().String()
	jp = &entity.JobPosition{
		ID:           id,
		JobName:      jobName,
		Code:         deriveJobCode(jobName, id),
		PositionID:   pos.ID,
		DepartmentID: dept.ID,
		OfficeID:     dept.OfficeID,
		IsActive:     true,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	if err := s.jobPositions.Create(ctx, jp); err != nil {
		return nil, err
	}
	return jp, nil
}

func (s *ImportService) findDepartment(ctx context.Context, officeName, departmentName string) (*entity.Department, error) {
	depts, err := s.departments.List(ctx, "")
	if err != nil {
		return nil, err
	}
	for i := range depts {
		if depts[i].Name == departmentName && depts[i].Office != nil && depts[i].Office.Name == officeName {
			return &depts[i], nil
		}
	}
	return nil, fmt.Errorf("unknown department %q in office %q", departmentName, officeName)
}
