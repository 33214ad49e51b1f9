package entity

import (
	"time"
)

// Office types
const (
	OfficeTypeHead    = "HEAD_OFFICE"
	OfficeTypeFactory = "FACTORY_OFFICE"
)

// Office entity
type Office struct {
	ID          string    `json:"id" gorm:"primaryKey;size:36"`
	Name        string    `json:"name" gorm:"size:128;not null;uniqueIndex"`
	Type        string    `json:"type" gorm:"size:32;not null;default:HEAD_OFFICE"`
	Description string    `json:"description" gorm:"type:text"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Associations
	Departments []Department `json:"departments,omitempty" gorm:"foreignKey:OfficeID"`
	Users       []User       `json:"users,omitempty" gorm:"foreignKey:OfficeID"`
}

func (Office) TableName() string {
	return "offices"
}

// Department entity. Name is unique within an office.
type Department struct {
	ID          string    `json:"id" gorm:"primaryKey;size:36"`
	Name        string    `json:"name" gorm:"size:128;not null;uniqueIndex:uniq_dept_office"`
	OfficeID    string    `json:"office_id" gorm:"size:36;not null;uniqueIndex:uniq_dept_office"`
	Description string    `json:"description" gorm:"type:text"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Associations
	Office       *Office       `json:"office,omitempty" gorm:"foreignKey:OfficeID"`
	JobPositions []JobPosition `json:"job_positions,omitempty" gorm:"foreignKey:DepartmentID"`
}

func (Department) TableName() string {
	return "departments"
}

// Position is a rank/title definition shared across departments.
// Level 0 is the top executive; larger numbers are lower ranks.
type Position struct {
	ID               string    `json:"id" gorm:"primaryKey;size:36"`
	Name             string    `json:"name" gorm:"size:128;not null;uniqueIndex"`
	Description      string    `json:"description" gorm:"type:text"`
	Level            int       `json:"level" gorm:"not null;default:10"`
	IsManagement     bool      `json:"is_management" gorm:"not null;default:false"`
	CanViewHierarchy bool      `json:"can_view_hierarchy" gorm:"not null;default:false"`
	IsReportable     bool      `json:"is_reportable" gorm:"not null;default:true"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`

	// Associations
	JobPositions []JobPosition `json:"job_positions,omitempty" gorm:"foreignKey:PositionID"`
}

func (Position) TableName() string {
	return "positions"
}

// JobPosition is the concrete pairing of a Position with a Department.
// OfficeID is denormalized from the department for fast filtering and
// must always match Department.OfficeID.
type JobPosition struct {
	ID           string    `json:"id" gorm:"primaryKey;size:36"`
	JobName      string    `json:"job_name" gorm:"size:128;not null;uniqueIndex:uniq_jobpos"`
	Code         string    `json:"code" gorm:"size:64;not null;index"`
	PositionID   string    `json:"position_id" gorm:"size:36;not null;uniqueIndex:uniq_jobpos"`
	DepartmentID string    `json:"department_id" gorm:"size:36;not null;uniqueIndex:uniq_jobpos"`
	OfficeID     string    `json:"office_id" gorm:"size:36;not null;index"`
	IsActive     bool      `json:"is_active" gorm:"not null;default:true"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	// Associations
	Position   *Position   `json:"position,omitempty" gorm:"foreignKey:PositionID"`
	Department *Department `json:"department,omitempty" gorm:"foreignKey:DepartmentID"`
	Office     *Office     `json:"office,omitempty" gorm:"foreignKey:OfficeID"`
	Users      []User      `json:"users,omitempty" gorm:"foreignKey:JobPositionID"`
}

func (JobPosition) TableName() string {
	return "job_positions"
}

// UnknownLevel is the sentinel returned when a user's position chain is
// incomplete. It sorts below every real level so broken records never
// become visible through hierarchy filters.
const UnknownLevel = 1 << 30

// PositionLevel resolves the position level through the optional chain,
// returning UnknownLevel when any link is missing.
func (jp *JobPosition) PositionLevel() int {
	if jp == nil || jp.Position == nil {
		return UnknownLevel
	}
	return jp.Position.Level
}

// DepartmentName resolves the department name, empty when unloaded.
func (jp *JobPosition) DepartmentName() string {
	if jp == nil || jp.Department == nil {
		return ""
	}
	return jp.Department.Name
}
