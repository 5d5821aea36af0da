package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	model "taskflow.dev/taskflow/internal/models"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// FindByID returns nil without error when the id does not resolve; callers
// decide whether that is UnknownUser or something else.
func (r *UserRepository) FindByID(ctx context.Context, id uint) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// Ensure provisions the row for an externally authenticated user on first
// sight. Identity is the source of truth for the id.
func (r *UserRepository) Ensure(ctx context.Context, id uint, username string) error {
	user := model.User{ID: id, Username: username, CreatedAt: time.Now().UTC()}
	return r.db.WithContext(ctx).
		Where(model.User{ID: id}).
		FirstOrCreate(&user).Error
}

// DeleteCascade removes a user and everything they own: memberships,
// comments, attachments, notifications, and the tasks they created (with
// those tasks' own dependents). Tasks merely assigned to the user survive
// with the assignment nulled. Returns blob refs of removed attachments.
func (r *UserRepository) DeleteCascade(ctx context.Context, userID uint) ([]string, error) {
	var blobRefs []string

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Assignment is not ownership: unassign, keep the task.
		if err := tx.Model(&model.Task{}).
			Where("assigned_to = ?", userID).
			Update("assigned_to", nil).Error; err != nil {
			return err
		}

		var taskIDs []uint
		if err := tx.Model(&model.Task{}).Where("created_by = ?", userID).
			Pluck("id", &taskIDs).Error; err != nil {
			return err
		}

		if len(taskIDs) > 0 {
			if err := tx.Model(&model.Attachment{}).Where("task_id IN ?", taskIDs).
				Pluck("blob_ref", &blobRefs).Error; err != nil {
				return err
			}
			if err := tx.Where("task_id IN ?", taskIDs).Delete(&model.Comment{}).Error; err != nil {
				return err
			}
			if err := tx.Where("task_id IN ?", taskIDs).Delete(&model.Attachment{}).Error; err != nil {
				return err
			}
			if err := tx.Exec("DELETE FROM task_tags WHERE task_id IN ?", taskIDs).Error; err != nil {
				return err
			}
			if err := tx.Where("id IN ?", taskIDs).Delete(&model.Task{}).Error; err != nil {
				return err
			}
		}

		var ownRefs []string
		if err := tx.Model(&model.Attachment{}).Where("uploaded_by = ?", userID).
			Pluck("blob_ref", &ownRefs).Error; err != nil {
			return err
		}
		blobRefs = append(blobRefs, ownRefs...)

		if err := tx.Where("uploaded_by = ?", userID).Delete(&model.Attachment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("author_id = ?", userID).Delete(&model.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", userID).Delete(&model.ProjectMember{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", userID).Delete(&model.Notification{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.User{}, userID).Error
	})
	if err != nil {
		return nil, err
	}
	return blobRefs, nil
}
