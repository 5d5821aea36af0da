package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"taskflow.dev/taskflow/internal/constants"
	apperrors "taskflow.dev/taskflow/internal/errors"
	model "taskflow.dev/taskflow/internal/models"
)

type ProjectRepository struct {
	db *gorm.DB
}

func NewProjectRepository(db *gorm.DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

// CreateWithAdmin inserts the project and the creator's admin membership in
// one transaction. If the membership insert fails the project row rolls back
// with it; a retry after failure can never leave a memberless project behind.
func (r *ProjectRepository) CreateWithAdmin(ctx context.Context, project *model.Project, creatorID uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(project).Error; err != nil {
			return err
		}

		member := &model.ProjectMember{
			ProjectID: project.ID,
			UserID:    creatorID,
			Role:      constants.RoleAdmin,
			JoinedAt:  time.Now().UTC(),
		}
		if err := tx.Create(member).Error; err != nil {
			return err
		}

		project.Members = []model.ProjectMember{*member}
		return nil
	})
}

func (r *ProjectRepository) FindByID(ctx context.Context, id uint) (*model.Project, error) {
	var project model.Project
	err := r.db.WithContext(ctx).Preload("Members").First(&project, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &project, nil
}

func (r *ProjectRepository) ListForUser(ctx context.Context, userID uint) ([]model.Project, error) {
	var projects []model.Project
	err := r.db.WithContext(ctx).
		Joins("JOIN project_members ON project_members.project_id = projects.id").
		Where("project_members.user_id = ?", userID).
		Order("projects.created_at desc").
		Find(&projects).Error
	return projects, err
}

func (r *ProjectRepository) Update(ctx context.Context, project *model.Project) error {
	return r.db.WithContext(ctx).Model(&model.Project{}).
		Where("id = ?", project.ID).
		Updates(map[string]interface{}{
			"title":       project.Title,
			"description": project.Description,
			"status":      project.Status,
		}).Error
}

// DeleteCascade removes the project and all dependents, dependents first:
// comments, attachments, tag links, tasks, memberships, then the project
// row. It returns the blob references of deleted attachments so the caller
// can clean up the byte store after the transaction commits.
func (r *ProjectRepository) DeleteCascade(ctx context.Context, projectID uint) ([]string, error) {
	var blobRefs []string

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var taskIDs []uint
		if err := tx.Model(&model.Task{}).Where("project_id = ?", projectID).
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

		if err := tx.Where("project_id = ?", projectID).Delete(&model.ProjectMember{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Project{}, projectID).Error
	})
	if err != nil {
		return nil, err
	}
	return blobRefs, nil
}

// Membership returns the (project, user) membership, or nil without error
// when the user is not a member.
func (r *ProjectRepository) Membership(ctx context.Context, projectID, userID uint) (*model.ProjectMember, error) {
	var member model.ProjectMember
	err := r.db.WithContext(ctx).
		First(&member, "project_id = ? AND user_id = ?", projectID, userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &member, nil
}

func (r *ProjectRepository) Members(ctx context.Context, projectID uint) ([]model.ProjectMember, error) {
	var members []model.ProjectMember
	err := r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("joined_at asc").
		Find(&members).Error
	return members, err
}

func (r *ProjectRepository) AddMember(ctx context.Context, member *model.ProjectMember) error {
	return r.db.WithContext(ctx).Create(member).Error
}

func (r *ProjectRepository) RemoveMember(ctx context.Context, projectID, userID uint) error {
	return r.db.WithContext(ctx).
		Where("project_id = ? AND user_id = ?", projectID, userID).
		Delete(&model.ProjectMember{}).Error
}

// UpdateMemberRole changes only the role column; joined_at stays untouched.
func (r *ProjectRepository) UpdateMemberRole(ctx context.Context, projectID, userID uint, role constants.Role) error {
	return r.db.WithContext(ctx).Model(&model.ProjectMember{}).
		Where("project_id = ? AND user_id = ?", projectID, userID).
		Update("role", role).Error
}

func (r *ProjectRepository) CountAdmins(ctx context.Context, projectID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.ProjectMember{}).
		Where("project_id = ? AND role = ?", projectID, constants.RoleAdmin).
		Count(&count).Error
	return count, err
}
