package services

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"taskflow.dev/taskflow/internal/authz"
	"taskflow.dev/taskflow/internal/blob"
	"taskflow.dev/taskflow/internal/constants"
	apperrors "taskflow.dev/taskflow/internal/errors"
	model "taskflow.dev/taskflow/internal/models"
	repository "taskflow.dev/taskflow/internal/repositories"
)

// TaskService owns the task model: tasks, comments, and attachments inside
// a project's authorization boundary.
type TaskService struct {
	tasks    *repository.TaskRepository
	projects *repository.ProjectRepository
	blobs    blob.Store
	notifier *NotificationService
	log      *logrus.Logger
}

func NewTaskService(
	tasks *repository.TaskRepository,
	projects *repository.ProjectRepository,
	blobs blob.Store,
	notifier *NotificationService,
	log *logrus.Logger,
) *TaskService {
	return &TaskService{
		tasks:    tasks,
		projects: projects,
		blobs:    blobs,
		notifier: notifier,
		log:      log,
	}
}

// TaskInput carries caller-supplied task fields. A nil ProjectID means "do
// not touch"; a non-nil one is validated against immutability on update.
type TaskInput struct {
	Title       string
	Description string
	ProjectID   *uint
	Status      constants.TaskStatus
	Priority    constants.TaskPriority
	DueDate     *time.Time
	AssignedTo  *uint
	Tags        []string
}

// TaskDetail is the member-visible view of a task, including the id-ordered
// neighbors used for sequential browsing.
type TaskDetail struct {
	Task        *model.Task        `json:"task"`
	Role        constants.Role     `json:"role"`
	Comments    []model.Comment    `json:"comments"`
	Attachments []model.Attachment `json:"attachments"`
	PreviousID  *uint              `json:"previous_id,omitempty"`
	NextID      *uint              `json:"next_id,omitempty"`
	Overdue     bool               `json:"overdue"`
}

// CreateTask creates a task in a project. The creator must be a member, the
// project must not be archived, and an unset assignee defaults to the
// creator. A non-self assignee gets a notification.
func (s *TaskService) CreateTask(ctx context.Context, projectID, creatorID uint, in TaskInput) (*model.Task, error) {
	project, err := s.projects.FindByID(ctx, projectID)
	if err != nil {
		return nil, err
	}

	role, isMember := authz.RoleOf(project.Members, creatorID)
	if d := authz.CanView(role, isMember); !d.Allowed {
		return nil, apperrors.ErrNotAMember
	}

	if project.Status == constants.ProjectArchived {
		return nil, apperrors.ErrProjectArchived
	}

	title := strings.TrimSpace(in.Title)
	if !validTitle(title) {
		return nil, apperrors.ErrInvalidTitle
	}

	status := in.Status
	if status == "" {
		status = constants.StatusTodo
	}
	if !status.Valid() {
		return nil, apperrors.ErrInvalidStatus
	}

	priority := in.Priority
	if priority == "" {
		priority = constants.PriorityMedium
	}
	if !priority.Valid() {
		return nil, apperrors.ErrInvalidPriority
	}

	assignee := in.AssignedTo
	if assignee == nil {
		assignee = &creatorID
	}
	if _, ok := authz.RoleOf(project.Members, *assignee); !ok {
		return nil, apperrors.ErrAssigneeNotMember
	}

	tags, err := s.tasks.EnsureTags(ctx, in.Tags)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	task := &model.Task{
		Title:       title,
		Description: in.Description,
		ProjectID:   projectID,
		AssignedTo:  assignee,
		Status:      status,
		Priority:    priority,
		DueDate:     in.DueDate,
		CreatedBy:   creatorID,
		CreatedAt:   now,
		UpdatedAt:   now,
		Tags:        tags,
	}

	if err := s.tasks.Create(ctx, task); err != nil {
		return nil, err
	}

	if *assignee != creatorID {
		s.notifyAssignment(ctx, task, *assignee)
	}

	return task, nil
}

func (s *TaskService) GetTask(ctx context.Context, taskID, callerID uint) (*TaskDetail, error) {
	task, err := s.tasks.FindByID(ctx, taskID)
	if err != nil {
		return nil, err
	}

	role, isMember, err := s.callerRole(ctx, task.ProjectID, callerID)
	if err != nil {
		return nil, err
	}
	if d := authz.CanView(role, isMember); !d.Allowed {
		return nil, apperrors.ErrNotAMember
	}

	comments, err := s.tasks.Comments(ctx, taskID)
	if err != nil {
		return nil, err
	}
	attachments, err := s.tasks.Attachments(ctx, taskID)
	if err != nil {
		return nil, err
	}

	previous, err := s.tasks.Previous(ctx, task.ProjectID, taskID)
	if err != nil {
		return nil, err
	}
	next, err := s.tasks.Next(ctx, task.ProjectID, taskID)
	if err != nil {
		return nil, err
	}

	detail := &TaskDetail{
		Task:        task,
		Role:        role,
		Comments:    comments,
		Attachments: attachments,
		Overdue:     task.IsOverdue(time.Now().UTC()),
	}
	if previous != nil {
		detail.PreviousID = &previous.ID
	}
	if next != nil {
		detail.NextID = &next.ID
	}
	return detail, nil
}

// UpdateTask edits a task under CanEditTask. The project reference is
// immutable; a changed assignee notifies the new one.
func (s *TaskService) UpdateTask(ctx context.Context, taskID, editorID uint, in TaskInput) (*model.Task, error) {
	task, err := s.tasks.FindByID(ctx, taskID)
	if err != nil {
		return nil, err
	}

	role, isMember, err := s.callerRole(ctx, task.ProjectID, editorID)
	if err != nil {
		return nil, err
	}
	if !isMember {
		return nil, apperrors.ErrNotAMember
	}
	if d := authz.CanEditTask(role, isMember, task, editorID); !d.Allowed {
		return nil, apperrors.Forbidden(d.Reason)
	}

	if in.ProjectID != nil && *in.ProjectID != task.ProjectID {
		return nil, apperrors.ErrImmutableField
	}

	title := strings.TrimSpace(in.Title)
	if !validTitle(title) {
		return nil, apperrors.ErrInvalidTitle
	}
	if in.Status != "" && !in.Status.Valid() {
		return nil, apperrors.ErrInvalidStatus
	}
	if in.Priority != "" && !in.Priority.Valid() {
		return nil, apperrors.ErrInvalidPriority
	}

	members, err := s.projects.Members(ctx, task.ProjectID)
	if err != nil {
		return nil, err
	}

	previousAssignee := task.AssignedTo
	if in.AssignedTo != nil {
		if _, ok := authz.RoleOf(members, *in.AssignedTo); !ok {
			return nil, apperrors.ErrAssigneeNotMember
		}
	}

	task.Title = title
	task.Description = in.Description
	if in.Status != "" {
		task.Status = in.Status
	}
	if in.Priority != "" {
		task.Priority = in.Priority
	}
	task.DueDate = in.DueDate
	task.AssignedTo = in.AssignedTo
	task.UpdatedAt = time.Now().UTC()

	var tags []model.Tag
	if in.Tags != nil {
		tags, err = s.tasks.EnsureTags(ctx, in.Tags)
		if err != nil {
			return nil, err
		}
		task.Tags = tags
	}

	if err := s.tasks.Update(ctx, task, tags); err != nil {
		return nil, err
	}

	if task.AssignedTo != nil && assigneeChanged(previousAssignee, task.AssignedTo) && *task.AssignedTo != editorID {
		s.notifyAssignment(ctx, task, *task.AssignedTo)
	}

	return task, nil
}

// DeleteTask removes a task and its dependents under CanDeleteTask.
func (s *TaskService) DeleteTask(ctx context.Context, taskID, actorID uint) error {
	task, err := s.tasks.FindByID(ctx, taskID)
	if err != nil {
		return err
	}

	role, isMember, err := s.callerRole(ctx, task.ProjectID, actorID)
	if err != nil {
		return err
	}
	if !isMember {
		return apperrors.ErrNotAMember
	}
	if d := authz.CanDeleteTask(role, isMember, task, actorID); !d.Allowed {
		return apperrors.Forbidden(d.Reason)
	}

	blobRefs, err := s.tasks.DeleteCascade(ctx, taskID)
	if err != nil {
		return err
	}
	for _, ref := range blobRefs {
		if err := s.blobs.Delete(ctx, ref); err != nil {
			s.log.WithError(err).WithField("blob_ref", ref).Warn("blob cleanup failed")
		}
	}
	return nil
}

// AddComment appends a comment by a project member. Content must be
// non-empty after trimming. The task creator and current assignee are
// notified, excluding the author.
func (s *TaskService) AddComment(ctx context.Context, taskID, authorID uint, content string) (*model.Comment, error) {
	task, err := s.tasks.FindByID(ctx, taskID)
	if err != nil {
		return nil, err
	}

	role, isMember, err := s.callerRole(ctx, task.ProjectID, authorID)
	if err != nil {
		return nil, err
	}
	if d := authz.CanView(role, isMember); !d.Allowed {
		return nil, apperrors.ErrNotAMember
	}

	content = strings.TrimSpace(content)
	if content == "" {
		return nil, apperrors.ErrEmptyContent
	}

	now := time.Now().UTC()
	comment := &model.Comment{
		TaskID:    taskID,
		AuthorID:  authorID,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.tasks.AddComment(ctx, comment); err != nil {
		return nil, err
	}

	link := fmt.Sprintf("/tasks/%d", task.ID)
	message := fmt.Sprintf("New comment on task %q", task.Title)
	if task.CreatedBy != authorID {
		s.fireNotification(ctx, task.CreatedBy, message, link)
	}
	if task.AssignedTo != nil && *task.AssignedTo != authorID && *task.AssignedTo != task.CreatedBy {
		s.fireNotification(ctx, *task.AssignedTo, message, link)
	}

	return comment, nil
}

// AddAttachment stores the uploaded bytes and records the file metadata
// exactly once, from the blob store's authoritative answer. Later changes to
// the stored bytes never rewrite the captured metadata.
func (s *TaskService) AddAttachment(ctx context.Context, taskID, uploaderID uint, fileName string, r io.Reader) (*model.Attachment, error) {
	task, err := s.tasks.FindByID(ctx, taskID)
	if err != nil {
		return nil, err
	}

	role, isMember, err := s.callerRole(ctx, task.ProjectID, uploaderID)
	if err != nil {
		return nil, err
	}
	if d := authz.CanView(role, isMember); !d.Allowed {
		return nil, apperrors.ErrNotAMember
	}

	ref, size, err := s.blobs.Put(ctx, fileName, r)
	if err != nil {
		return nil, err
	}

	attachment := &model.Attachment{
		TaskID:     taskID,
		BlobRef:    ref,
		FileName:   filepath.Base(fileName),
		FileType:   fileType(fileName),
		FileSize:   size,
		UploadedBy: uploaderID,
		UploadedAt: time.Now().UTC(),
	}
	if err := s.tasks.AddAttachment(ctx, attachment); err != nil {
		if derr := s.blobs.Delete(ctx, ref); derr != nil {
			s.log.WithError(derr).WithField("blob_ref", ref).Warn("orphan blob cleanup failed")
		}
		return nil, err
	}

	return attachment, nil
}

// DownloadAttachment opens the stored bytes for a member of the owning
// project. Absent bytes surface as the typed missing-blob error, never as an
// empty file.
func (s *TaskService) DownloadAttachment(ctx context.Context, attachmentID, callerID uint) (*model.Attachment, io.ReadCloser, error) {
	attachment, err := s.tasks.FindAttachment(ctx, attachmentID)
	if err != nil {
		return nil, nil, err
	}

	task, err := s.tasks.FindByID(ctx, attachment.TaskID)
	if err != nil {
		return nil, nil, err
	}

	role, isMember, err := s.callerRole(ctx, task.ProjectID, callerID)
	if err != nil {
		return nil, nil, err
	}
	if d := authz.CanView(role, isMember); !d.Allowed {
		return nil, nil, apperrors.ErrNotAMember
	}

	rc, err := s.blobs.Open(ctx, attachment.BlobRef)
	if err != nil {
		return nil, nil, err
	}
	return attachment, rc, nil
}

func (s *TaskService) callerRole(ctx context.Context, projectID, userID uint) (constants.Role, bool, error) {
	member, err := s.projects.Membership(ctx, projectID, userID)
	if err != nil {
		return "", false, err
	}
	if member == nil {
		return "", false, nil
	}
	return member.Role, true, nil
}

func (s *TaskService) notifyAssignment(ctx context.Context, task *model.Task, assigneeID uint) {
	s.fireNotification(ctx, assigneeID,
		fmt.Sprintf("You have been assigned to task %q", task.Title),
		fmt.Sprintf("/tasks/%d", task.ID))
}

func (s *TaskService) fireNotification(ctx context.Context, userID uint, content, link string) {
	if s.notifier == nil {
		return
	}
	if _, err := s.notifier.Notify(ctx, userID, content, link); err != nil {
		s.log.WithError(err).WithField("user_id", userID).Warn("notification create failed")
	}
}

func assigneeChanged(before, after *uint) bool {
	if before == nil {
		return after != nil
	}
	if after == nil {
		return true
	}
	return *before != *after
}

// fileType derives the lower-cased extension of the uploaded name, or
// "unknown" when there is none.
func fileType(name string) string {
	base := filepath.Base(name)
	parts := strings.Split(base, ".")
	if len(parts) > 1 && parts[len(parts)-1] != "" {
		return strings.ToLower(parts[len(parts)-1])
	}
	return "unknown"
}
