package repository

import (
	"errors"

	"gorm.io/gorm"
)

// Sentinel errors
var (
	ErrNotFound = errors.New("record not found")
	ErrLocked   = errors.New("report is locked")
)

// Repositories repository collection
type Repositories struct {
	Office      *OfficeRepository
	Department  *DepartmentRepository
	Position    *PositionRepository
	JobPosition *JobPositionRepository
	User        *UserRepository
	Report      *ReportRepository
	Evaluation  *EvaluationRepository
	Evidence    *EvidenceRepository
}

// NewRepositories creates the repository collection
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Office:      NewOfficeRepository(db),
		Department:  NewDepartmentRepository(db),
		Position:    NewPositionRepository(db),
		JobPosition: NewJobPositionRepository(db),
		User:        NewUserRepository(db),
		Report:      NewReportRepository(db),
		Evaluation:  NewEvaluationRepository(db),
		Evidence:    NewEvidenceRepository(db),
	}
}
