package models

import (
	"time"

	"taskflow.dev/taskflow/internal/constants"
)

type Task struct {
	ID          uint                   `gorm:"primaryKey" json:"id"`
	Title       string                 `gorm:"size:100;not null" json:"title"`
	Description string                 `json:"description"`
	ProjectID   uint                   `gorm:"index;not null" json:"project_id"`
	AssignedTo  *uint                  `gorm:"index" json:"assigned_to,omitempty"`
	Status      constants.TaskStatus   `gorm:"type:varchar(20);not null" json:"status"`
	Priority    constants.TaskPriority `gorm:"type:varchar(20);not null" json:"priority"`
	DueDate     *time.Time             `json:"due_date,omitempty"`
	CreatedBy   uint                   `gorm:"not null" json:"created_by"`
	CreatedAt   time.Time              `json:"created_at"`
	UpdatedAt   time.Time              `json:"updated_at"`
	Tags        []Tag                  `gorm:"many2many:task_tags" json:"tags,omitempty"`
}

// IsOverdue reports whether the task's due date has passed relative to the
// given evaluation time. Completion status is deliberately ignored: a done
// task past its date still counts as overdue. Only calendar dates are
// compared, never clock time.
func (t *Task) IsOverdue(today time.Time) bool {
	if t.DueDate == nil {
		return false
	}
	due := dateOnly(*t.DueDate)
	return dateOnly(today).After(due)
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Tag is a reusable label shared across tasks.
type Tag struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"size:50;uniqueIndex;not null" json:"name"`
}

type Comment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	TaskID    uint      `gorm:"index;not null" json:"task_id"`
	AuthorID  uint      `gorm:"not null" json:"author_id"`
	Content   string    `gorm:"not null" json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Attachment records file metadata captured once at upload time. BlobRef
// points into the external blob store; FileSize is the store's authoritative
// byte count, never the client's claim, and is not recomputed afterwards.
type Attachment struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	TaskID     uint      `gorm:"index;not null" json:"task_id"`
	BlobRef    string    `gorm:"size:255;not null" json:"-"`
	FileName   string    `gorm:"size:255;not null" json:"file_name"`
	FileType   string    `gorm:"size:100;not null" json:"file_type"`
	FileSize   int64     `gorm:"not null" json:"file_size"`
	UploadedBy uint      `gorm:"not null" json:"uploaded_by"`
	UploadedAt time.Time `json:"uploaded_at"`
}
