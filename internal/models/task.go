package models

import (
	"time"
)

type TaskStatus string

// Task statuses form an open set; only TaskStatusDone carries meaning (completion rate).
const (
	TaskStatusTodo       TaskStatus = "TODO"
	TaskStatusInProgress TaskStatus = "IN_PROGRESS"
	TaskStatusDone       TaskStatus = "DONE"
)

type Task struct {
	ID            uint64     `gorm:"primarykey" json:"id"`
	ProjectID     uint64     `gorm:"not null;index:idx_tasks_project_status,priority:1" json:"project_id"`
	Title         string     `gorm:"type:varchar(255);not null" json:"title"`
	Description   string     `gorm:"type:text" json:"description"`
	Status        TaskStatus `gorm:"type:varchar(50);not null;default:'TODO';index:idx_tasks_project_status,priority:2" json:"status"`
	AssigneeEmail *string    `gorm:"type:varchar(255)" json:"assignee_email"`
	DueDate       *time.Time `json:"due_date"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`

	// Relations
	Project  Project       `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
	Comments []TaskComment `gorm:"foreignKey:TaskID" json:"comments,omitempty"`
}
