package entity

import (
	"time"
)

// User roles
const (
	RoleUser          = "USER"
	RoleAdmin         = "ADMIN"
	RoleSuperAdmin    = "SUPERADMIN"
	RoleOfficeManager = "OFFICE_MANAGER"
	RoleOfficeAdmin   = "OFFICE_ADMIN"
)

// User entity
type User struct {
	ID            string     `json:"id" gorm:"primaryKey;size:36"`
	EmployeeCode  string     `json:"employee_code" gorm:"size:32;not null;uniqueIndex"`
	Email         *string    `json:"email" gorm:"size:128;uniqueIndex"`
	Password      string     `json:"-" gorm:"size:128;not null"`
	FirstName     string     `json:"first_name" gorm:"size:64;not null"`
	LastName      string     `json:"last_name" gorm:"size:64;not null"`
	Phone         string     `json:"phone" gorm:"size:20"`
	CardID        *string    `json:"card_id" gorm:"size:32;uniqueIndex"`
	Role          string     `json:"role" gorm:"size:20;not null;default:USER"`
	JobPositionID string     `json:"job_position_id" gorm:"size:36;not null;index"`
	OfficeID      string     `json:"office_id" gorm:"size:36;not null;index"`
	IsActive      bool       `json:"is_active" gorm:"not null;default:true"`
	LastLoginAt   *time.Time `json:"last_login_at"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`

	// Associations
	JobPosition *JobPosition `json:"job_position,omitempty" gorm:"foreignKey:JobPositionID"`
	Office      *Office      `json:"office,omitempty" gorm:"foreignKey:OfficeID"`
	Reports     []Report     `json:"reports,omitempty" gorm:"foreignKey:UserID"`
}

func (User) TableName() string {
	return "users"
}

// FullName in Vietnamese order: last name first.
func (u *User) FullName() string {
	return u.LastName + " " + u.FirstName
}

// Level resolves the user's position level, UnknownLevel when the
// position chain is not loaded or broken.
func (u *User) Level() int {
	return u.JobPosition.PositionLevel()
}

// IsAdminRole reports whether the role bypasses hierarchy scoping.
func IsAdminRole(role string) bool {
	return role == RoleAdmin || role == RoleSuperAdmin
}
