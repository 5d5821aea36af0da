package repository

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	apperrors "taskflow.dev/taskflow/internal/errors"
	model "taskflow.dev/taskflow/internal/models"
)

type TaskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

func (r *TaskRepository) Create(ctx context.Context, task *model.Task) error {
	return r.db.WithContext(ctx).Create(task).Error
}

func (r *TaskRepository) FindByID(ctx context.Context, id uint) (*model.Task, error) {
	var task model.Task
	err := r.db.WithContext(ctx).Preload("Tags").First(&task, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &task, nil
}

func (r *TaskRepository) ListByProject(ctx context.Context, projectID uint) ([]model.Task, error) {
	var tasks []model.Task
	err := r.db.WithContext(ctx).Preload("Tags").
		Where("project_id = ?", projectID).
		Order("created_at desc").
		Find(&tasks).Error
	return tasks, err
}

// Update saves mutable task fields and replaces the tag set. The project
// reference is deliberately absent from the update list.
func (r *TaskRepository) Update(ctx context.Context, task *model.Task, tags []model.Tag) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.Task{}).
			Where("id = ?", task.ID).
			Updates(map[string]interface{}{
				"title":       task.Title,
				"description": task.Description,
				"status":      task.Status,
				"priority":    task.Priority,
				"due_date":    task.DueDate,
				"assigned_to": task.AssignedTo,
				"updated_at":  task.UpdatedAt,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperrors.ErrNotFound
		}

		if tags != nil {
			if err := tx.Model(task).Association("Tags").Replace(tags); err != nil {
				return err
			}
		}
		return nil
	})
}

// DeleteCascade removes the task with its comments, attachments, and tag
// links, and returns the attachment blob refs for byte-store cleanup.
func (r *TaskRepository) DeleteCascade(ctx context.Context, taskID uint) ([]string, error) {
	var blobRefs []string

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.Attachment{}).Where("task_id = ?", taskID).
			Pluck("blob_ref", &blobRefs).Error; err != nil {
			return err
		}
		if err := tx.Where("task_id = ?", taskID).Delete(&model.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("task_id = ?", taskID).Delete(&model.Attachment{}).Error; err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM task_tags WHERE task_id = ?", taskID).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Task{}, taskID).Error
	})
	if err != nil {
		return nil, err
	}
	return blobRefs, nil
}

// Previous returns the task in the same project with the nearest lesser id,
// or nil at the low edge. Ids autoincrement, so this is creation-order
// browsing, nothing more.
func (r *TaskRepository) Previous(ctx context.Context, projectID, taskID uint) (*model.Task, error) {
	var task model.Task
	err := r.db.WithContext(ctx).
		Where("project_id = ? AND id < ?", projectID, taskID).
		Order("id desc").
		First(&task).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &task, nil
}

// Next returns the task in the same project with the nearest greater id, or
// nil at the high edge.
func (r *TaskRepository) Next(ctx context.Context, projectID, taskID uint) (*model.Task, error) {
	var task model.Task
	err := r.db.WithContext(ctx).
		Where("project_id = ? AND id > ?", projectID, taskID).
		Order("id asc").
		First(&task).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &task, nil
}

// EnsureTags resolves tag names to rows, creating the missing ones. Names
// are trimmed and blanks are skipped; the condition is an explicit SQL
// predicate because a struct condition ignores zero-value fields and would
// match an arbitrary row for an empty name.
func (r *TaskRepository) EnsureTags(ctx context.Context, names []string) ([]model.Tag, error) {
	tags := make([]model.Tag, 0, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		var tag model.Tag
		err := r.db.WithContext(ctx).
			Where("name = ?", name).
			Attrs(model.Tag{Name: name}).
			FirstOrCreate(&tag).Error
		if err != nil {
			return nil, err
		}
		tags = append(tags, tag)
	}
	return tags, nil
}

func (r *TaskRepository) AddComment(ctx context.Context, comment *model.Comment) error {
	return r.db.WithContext(ctx).Create(comment).Error
}

func (r *TaskRepository) Comments(ctx context.Context, taskID uint) ([]model.Comment, error) {
	var comments []model.Comment
	err := r.db.WithContext(ctx).
		Where("task_id = ?", taskID).
		Order("created_at desc, id desc").
		Find(&comments).Error
	return comments, err
}

func (r *TaskRepository) AddAttachment(ctx context.Context, attachment *model.Attachment) error {
	return r.db.WithContext(ctx).Create(attachment).Error
}

func (r *TaskRepository) Attachments(ctx context.Context, taskID uint) ([]model.Attachment, error) {
	var attachments []model.Attachment
	err := r.db.WithContext(ctx).
		Where("task_id = ?", taskID).
		Order("uploaded_at desc, id desc").
		Find(&attachments).Error
	return attachments, err
}

func (r *TaskRepository) FindAttachment(ctx context.Context, id uint) (*model.Attachment, error) {
	var attachment model.Attachment
	err := r.db.WithContext(ctx).First(&attachment, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &attachment, nil
}
