package entity

import (
	"time"
)

// Report is one user's checklist for one work week.
// Unique on (week_number, year, user_id).
type Report struct {
	ID          string    `json:"id" gorm:"primaryKey;size:36"`
	WeekNumber  int       `json:"week_number" gorm:"not null;uniqueIndex:uniq_report_week"`
	Year        int       `json:"year" gorm:"not null;uniqueIndex:uniq_report_week"`
	UserID      string    `json:"user_id" gorm:"size:36;not null;uniqueIndex:uniq_report_week"`
	IsCompleted bool      `json:"is_completed" gorm:"not null;default:false"`
	IsLocked    bool      `json:"is_locked" gorm:"not null;default:false"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Associations
	User  *User        `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Tasks []ReportTask `json:"tasks,omitempty" gorm:"foreignKey:ReportID"`
}

func (Report) TableName() string {
	return "reports"
}

// ReportTask is a single checklist row with per-day planning flags.
type ReportTask struct {
	ID            string    `json:"id" gorm:"primaryKey;size:36"`
	ReportID      string    `json:"report_id" gorm:"size:36;not null;index"`
	TaskName      string    `json:"task_name" gorm:"size:512;not null"`
	Monday        bool      `json:"monday" gorm:"not null;default:false"`
	Tuesday       bool      `json:"tuesday" gorm:"not null;default:false"`
	Wednesday     bool      `json:"wednesday" gorm:"not null;default:false"`
	Thursday      bool      `json:"thursday" gorm:"not null;default:false"`
	Friday        bool      `json:"friday" gorm:"not null;default:false"`
	Saturday      bool      `json:"saturday" gorm:"not null;default:false"`
	Sunday        bool      `json:"sunday" gorm:"not null;default:false"`
	IsCompleted   bool      `json:"is_completed" gorm:"not null;default:false"`
	ReasonNotDone *string   `json:"reason_not_done" gorm:"type:text"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`

	// Associations
	Report      *Report          `json:"report,omitempty" gorm:"foreignKey:ReportID"`
	Evaluations []TaskEvaluation `json:"evaluations,omitempty" gorm:"foreignKey:TaskID"`
}

func (ReportTask) TableName() string {
	return "report_tasks"
}

// Evaluation types
const (
	EvaluationTypeReview   = "REVIEW"
	EvaluationTypeOverride = "OVERRIDE"
)

// TaskEvaluation is a manager's review of a subordinate's task. The
// original submission is snapshotted so later edits stay auditable.
// Unique on (task_id, evaluator_id).
type TaskEvaluation struct {
	ID                    string    `json:"id" gorm:"primaryKey;size:36"`
	TaskID                string    `json:"task_id" gorm:"size:36;not null;uniqueIndex:uniq_eval_task"`
	EvaluatorID           string    `json:"evaluator_id" gorm:"size:36;not null;uniqueIndex:uniq_eval_task"`
	OriginalIsCompleted   bool      `json:"original_is_completed" gorm:"not null"`
	OriginalReasonNotDone *string   `json:"original_reason_not_done" gorm:"type:text"`
	EvaluatedIsCompleted  bool      `json:"evaluated_is_completed" gorm:"not null"`
	EvaluatedReasonNotDone *string  `json:"evaluated_reason_not_done" gorm:"type:text"`
	EvaluatorComment      string    `json:"evaluator_comment" gorm:"type:text"`
	EvaluationType        string    `json:"evaluation_type" gorm:"size:20;not null;default:REVIEW"`
	CreatedAt             time.Time `json:"created_at"`
	UpdatedAt             time.Time `json:"updated_at"`

	// Associations
	Task      *ReportTask `json:"task,omitempty" gorm:"foreignKey:TaskID"`
	Evaluator *User       `json:"evaluator,omitempty" gorm:"foreignKey:EvaluatorID"`
}

func (TaskEvaluation) TableName() string {
	return "task_evaluations"
}

// TaskEvidence is an uploaded file attached to a report task, stored in
// object storage under its object key.
type TaskEvidence struct {
	ID          string    `json:"id" gorm:"primaryKey;size:36"`
	TaskID      string    `json:"task_id" gorm:"size:36;not null;index"`
	FileName    string    `json:"file_name" gorm:"size:256;not null"`
	ObjectKey   string    `json:"object_key" gorm:"size:512;not null"`
	ContentType string    `json:"content_type" gorm:"size:128"`
	Size        int64     `json:"size" gorm:"not null;default:0"`
	UploadedBy  string    `json:"uploaded_by" gorm:"size:36;not null"`
	CreatedAt   time.Time `json:"created_at"`

	// Associations
	Task *ReportTask `json:"task,omitempty" gorm:"foreignKey:TaskID"`
}

func (TaskEvidence) TableName() string {
	return "task_evidences"
}
