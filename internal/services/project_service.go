package services

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/sirupsen/logrus"

	"taskflow.dev/taskflow/internal/authz"
	"taskflow.dev/taskflow/internal/blob"
	"taskflow.dev/taskflow/internal/constants"
	apperrors "taskflow.dev/taskflow/internal/errors"
	model "taskflow.dev/taskflow/internal/models"
	repository "taskflow.dev/taskflow/internal/repositories"
)

// ProjectService owns the membership model: project lifecycle and member
// management under the last-admin invariant.
type ProjectService struct {
	projects *repository.ProjectRepository
	tasks    *repository.TaskRepository
	users    *repository.UserRepository
	blobs    blob.Store
	log      *logrus.Logger
}

func NewProjectService(
	projects *repository.ProjectRepository,
	tasks *repository.TaskRepository,
	users *repository.UserRepository,
	blobs blob.Store,
	log *logrus.Logger,
) *ProjectService {
	return &ProjectService{
		projects: projects,
		tasks:    tasks,
		users:    users,
		blobs:    blobs,
		log:      log,
	}
}

// ProjectDetail is the member-visible view of a project.
type ProjectDetail struct {
	Project *model.Project        `json:"project"`
	Members []model.ProjectMember `json:"members"`
	Tasks   []model.Task          `json:"tasks"`
	Role    constants.Role        `json:"role"`
}

func validTitle(title string) bool {
	return title != "" && utf8.RuneCountInString(title) <= 100
}

// CreateProject creates the project and the creator's admin membership as
// one atomic write.
func (s *ProjectService) CreateProject(ctx context.Context, creatorID uint, title, description string) (*model.Project, error) {
	title = strings.TrimSpace(title)
	if !validTitle(title) {
		return nil, apperrors.ErrInvalidTitle
	}

	project := &model.Project{
		Title:       title,
		Description: description,
		Status:      constants.ProjectActive,
		CreatedAt:   time.Now().UTC(),
	}

	if err := s.projects.CreateWithAdmin(ctx, project, creatorID); err != nil {
		return nil, err
	}
	return project, nil
}

// membership resolves the caller's role in a project. (role, false, nil)
// means the caller is not a member.
func (s *ProjectService) membership(ctx context.Context, projectID, userID uint) (constants.Role, bool, error) {
	member, err := s.projects.Membership(ctx, projectID, userID)
	if err != nil {
		return "", false, err
	}
	if member == nil {
		return "", false, nil
	}
	return member.Role, true, nil
}

func (s *ProjectService) GetProject(ctx context.Context, projectID, callerID uint) (*ProjectDetail, error) {
	project, err := s.projects.FindByID(ctx, projectID)
	if err != nil {
		return nil, err
	}

	role, isMember := authz.RoleOf(project.Members, callerID)
	if d := authz.CanView(role, isMember); !d.Allowed {
		return nil, apperrors.ErrNotAMember
	}

	tasks, err := s.tasks.ListByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}

	return &ProjectDetail{
		Project: project,
		Members: project.Members,
		Tasks:   tasks,
		Role:    role,
	}, nil
}

func (s *ProjectService) ListProjects(ctx context.Context, userID uint) ([]model.Project, error) {
	return s.projects.ListForUser(ctx, userID)
}

// UpdateProject edits title, description, and status. Status may move freely
// between active and archived.
func (s *ProjectService) UpdateProject(ctx context.Context, projectID, actorID uint, title, description string, status constants.ProjectStatus) (*model.Project, error) {
	project, err := s.projects.FindByID(ctx, projectID)
	if err != nil {
		return nil, err
	}

	role, isMember := authz.RoleOf(project.Members, actorID)
	if !isMember {
		return nil, apperrors.ErrNotAMember
	}
	if d := authz.CanManageProject(role, isMember); !d.Allowed {
		return nil, apperrors.Forbidden(d.Reason)
	}

	title = strings.TrimSpace(title)
	if !validTitle(title) {
		return nil, apperrors.ErrInvalidTitle
	}
	if !status.Valid() {
		status = project.Status
	}

	project.Title = title
	project.Description = description
	project.Status = status

	if err := s.projects.Update(ctx, project); err != nil {
		return nil, err
	}
	return project, nil
}

// DeleteProject removes the project and all dependents, then cleans the
// blob store outside the transaction.
func (s *ProjectService) DeleteProject(ctx context.Context, projectID, actorID uint) error {
	project, err := s.projects.FindByID(ctx, projectID)
	if err != nil {
		return err
	}

	role, isMember := authz.RoleOf(project.Members, actorID)
	if !isMember {
		return apperrors.ErrNotAMember
	}
	if d := authz.CanManageProject(role, isMember); !d.Allowed {
		return apperrors.Forbidden(d.Reason)
	}

	blobRefs, err := s.projects.DeleteCascade(ctx, projectID)
	if err != nil {
		return err
	}
	s.cleanupBlobs(ctx, blobRefs)
	return nil
}

func (s *ProjectService) Members(ctx context.Context, projectID, callerID uint) ([]model.ProjectMember, error) {
	role, isMember, err := s.membership(ctx, projectID, callerID)
	if err != nil {
		return nil, err
	}
	if d := authz.CanView(role, isMember); !d.Allowed {
		return nil, apperrors.ErrNotAMember
	}
	return s.projects.Members(ctx, projectID)
}

// AddMember adds a user to the project with a role. Target users must
// resolve in the identity store; duplicate pairs are rejected before the
// storage-level unique constraint ever fires.
func (s *ProjectService) AddMember(ctx context.Context, projectID, actorID, targetID uint, memberRole constants.Role) (*model.ProjectMember, error) {
	role, isMember, err := s.membership(ctx, projectID, actorID)
	if err != nil {
		return nil, err
	}
	if !isMember {
		return nil, apperrors.ErrNotAMember
	}
	if d := authz.CanManageMembers(role, isMember); !d.Allowed {
		return nil, apperrors.Forbidden(d.Reason)
	}

	if !memberRole.Valid() {
		return nil, apperrors.ErrInvalidRole
	}

	target, err := s.users.FindByID(ctx, targetID)
	if err != nil {
		return nil, err
	}
	if target == nil {
		return nil, apperrors.ErrUnknownUser
	}

	existing, err := s.projects.Membership(ctx, projectID, targetID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperrors.ErrDuplicateMembership
	}

	member := &model.ProjectMember{
		ProjectID: projectID,
		UserID:    targetID,
		Role:      memberRole,
		JoinedAt:  time.Now().UTC(),
	}
	if err := s.projects.AddMember(ctx, member); err != nil {
		return nil, err
	}
	return member, nil
}

// RemoveMember deletes a membership. Self-removal is rejected outright, for
// any role, before the capability check; the last admin can never be
// removed.
func (s *ProjectService) RemoveMember(ctx context.Context, projectID, actorID, targetID uint) error {
	role, isMember, err := s.membership(ctx, projectID, actorID)
	if err != nil {
		return err
	}
	if !isMember {
		return apperrors.ErrNotAMember
	}

	if actorID == targetID {
		return apperrors.ErrSelfRemoval
	}

	if d := authz.CanManageMembers(role, isMember); !d.Allowed {
		return apperrors.Forbidden(d.Reason)
	}

	target, err := s.projects.Membership(ctx, projectID, targetID)
	if err != nil {
		return err
	}
	if target == nil {
		return apperrors.ErrNotFound
	}

	if target.Role == constants.RoleAdmin {
		admins, err := s.projects.CountAdmins(ctx, projectID)
		if err != nil {
			return err
		}
		if admins <= 1 {
			return apperrors.ErrLastAdmin
		}
	}

	return s.projects.RemoveMember(ctx, projectID, targetID)
}

// UpdateRole changes a member's role in place. Demoting the sole admin is
// rejected; the joined timestamp is untouched.
func (s *ProjectService) UpdateRole(ctx context.Context, projectID, actorID, targetID uint, newRole constants.Role) error {
	role, isMember, err := s.membership(ctx, projectID, actorID)
	if err != nil {
		return err
	}
	if !isMember {
		return apperrors.ErrNotAMember
	}
	if d := authz.CanManageMembers(role, isMember); !d.Allowed {
		return apperrors.Forbidden(d.Reason)
	}

	if !newRole.Valid() {
		return apperrors.ErrInvalidRole
	}

	target, err := s.projects.Membership(ctx, projectID, targetID)
	if err != nil {
		return err
	}
	if target == nil {
		return apperrors.ErrNotFound
	}

	if target.Role == constants.RoleAdmin && newRole != constants.RoleAdmin {
		admins, err := s.projects.CountAdmins(ctx, projectID)
		if err != nil {
			return err
		}
		if admins <= 1 {
			return apperrors.ErrLastAdmin
		}
	}

	return s.projects.UpdateMemberRole(ctx, projectID, targetID, newRole)
}

func (s *ProjectService) cleanupBlobs(ctx context.Context, refs []string) {
	for _, ref := range refs {
		if err := s.blobs.Delete(ctx, ref); err != nil {
			s.log.WithError(err).WithField("blob_ref", ref).Warn("blob cleanup failed")
		}
	}
}
