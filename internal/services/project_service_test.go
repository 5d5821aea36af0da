package services

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"gorm.io/gorm"

	"taskflow.dev/taskflow/internal/constants"
	apperrors "taskflow.dev/taskflow/internal/errors"
	model "taskflow.dev/taskflow/internal/models"
)

func TestCreateProjectAssignsCreatorAsAdmin(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, 1, "alice")
	ctx := context.Background()

	project, err := env.projects.CreateProject(ctx, 1, "Alpha", "d")
	if err != nil {
		t.Fatalf("create project: %v", err)
	}

	if project.Status != constants.ProjectActive {
		t.Errorf("expected status active, got %s", project.Status)
	}

	members, err := env.projectRepo.Members(ctx, project.ID)
	if err != nil {
		t.Fatalf("members: %v", err)
	}
	if len(members) != 1 {
		t.Fatalf("expected exactly one member, got %d", len(members))
	}
	if members[0].UserID != 1 || members[0].Role != constants.RoleAdmin {
		t.Errorf("expected creator as admin, got user %d role %s", members[0].UserID, members[0].Role)
	}
}

func TestCreateProjectRejectsBadTitles(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, 1, "alice")
	ctx := context.Background()

	if _, err := env.projects.CreateProject(ctx, 1, "   ", "d"); !errors.Is(err, apperrors.ErrInvalidTitle) {
		t.Errorf("expected ErrInvalidTitle for blank title, got %v", err)
	}
	if _, err := env.projects.CreateProject(ctx, 1, strings.Repeat("x", 101), "d"); !errors.Is(err, apperrors.ErrInvalidTitle) {
		t.Errorf("expected ErrInvalidTitle for 101-char title, got %v", err)
	}
}

func TestCreateProjectRollsBackWhenMembershipInsertFails(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, 1, "alice")
	ctx := context.Background()

	memberType := reflect.TypeOf(model.ProjectMember{})
	err := env.db.Callback().Create().Before("gorm:create").
		Register("fail_membership_insert", func(tx *gorm.DB) {
			if tx.Statement.Schema != nil && tx.Statement.Schema.ModelType == memberType {
				tx.AddError(errors.New("simulated membership insert failure"))
			}
		})
	if err != nil {
		t.Fatalf("register callback: %v", err)
	}

	if _, err := env.projects.CreateProject(ctx, 1, "Alpha", "d"); err == nil {
		t.Fatal("expected create to fail when membership insert fails")
	}

	var count int64
	if err := env.db.Model(&model.Project{}).Count(&count).Error; err != nil {
		t.Fatalf("count projects: %v", err)
	}
	if count != 0 {
		t.Errorf("expected project insert to roll back, found %d projects", count)
	}
}

func TestAddMemberDuplicateFailsAndLeavesStateUnchanged(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, 1, "alice")
	env.seedUser(t, 2, "bob")
	ctx := context.Background()

	project := env.seedProject(t, 1, "Alpha")

	if _, err := env.projects.AddMember(ctx, project.ID, 1, 2, constants.RoleMember); err != nil {
		t.Fatalf("first add: %v", err)
	}

	_, err := env.projects.AddMember(ctx, project.ID, 1, 2, constants.RoleManager)
	if !errors.Is(err, apperrors.ErrDuplicateMembership) {
		t.Fatalf("expected ErrDuplicateMembership, got %v", err)
	}

	members, _ := env.projectRepo.Members(ctx, project.ID)
	if len(members) != 2 {
		t.Errorf("expected 2 members after failed duplicate add, got %d", len(members))
	}
	member, _ := env.projectRepo.Membership(ctx, project.ID, 2)
	if member.Role != constants.RoleMember {
		t.Errorf("failed add must not change the existing role, got %s", member.Role)
	}
}

func TestAddMemberUnknownUser(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, 1, "alice")
	project := env.seedProject(t, 1, "Alpha")

	_, err := env.projects.AddMember(context.Background(), project.ID, 1, 999, constants.RoleMember)
	if !errors.Is(err, apperrors.ErrUnknownUser) {
		t.Errorf("expected ErrUnknownUser, got %v", err)
	}
}

func TestAddMemberRequiresAdmin(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, 1, "alice")
	env.seedUser(t, 2, "bob")
	env.seedUser(t, 3, "carol")
	ctx := context.Background()

	project := env.seedProject(t, 1, "Alpha")
	if _, err := env.projects.AddMember(ctx, project.ID, 1, 2, constants.RoleManager); err != nil {
		t.Fatalf("seed manager: %v", err)
	}

	// A manager is visible but lacks the capability.
	_, err := env.projects.AddMember(ctx, project.ID, 2, 3, constants.RoleMember)
	if !errors.Is(err, apperrors.ErrForbidden) {
		t.Errorf("expected ErrForbidden for manager, got %v", err)
	}

	// An outsider must not learn the project exists.
	_, err = env.projects.AddMember(ctx, project.ID, 3, 3, constants.RoleMember)
	if !errors.Is(err, apperrors.ErrNotAMember) {
		t.Errorf("expected ErrNotAMember for outsider, got %v", err)
	}
}

func TestRemoveMemberSelfRemovalAlwaysFails(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, 1, "alice")
	env.seedUser(t, 2, "bob")
	ctx := context.Background()

	project := env.seedProject(t, 1, "Alpha")
	if _, err := env.projects.AddMember(ctx, project.ID, 1, 2, constants.RoleMember); err != nil {
		t.Fatalf("seed member: %v", err)
	}

	// Sole admin removing themselves: self-removal wins over any other rule.
	if err := env.projects.RemoveMember(ctx, project.ID, 1, 1); !errors.Is(err, apperrors.ErrSelfRemoval) {
		t.Errorf("expected ErrSelfRemoval for admin, got %v", err)
	}

	// Plain member removing themselves: same outcome regardless of role.
	if err := env.projects.RemoveMember(ctx, project.ID, 2, 2); !errors.Is(err, apperrors.ErrSelfRemoval) {
		t.Errorf("expected ErrSelfRemoval for member, got %v", err)
	}

	members, _ := env.projectRepo.Members(ctx, project.ID)
	if len(members) != 2 {
		t.Errorf("failed removals must leave membership intact, got %d members", len(members))
	}
}

func TestRemoveMemberSucceedsWithSecondAdmin(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, 1, "alice")
	env.seedUser(t, 2, "bob")
	ctx := context.Background()

	project := env.seedProject(t, 1, "Alpha")
	if _, err := env.projects.AddMember(ctx, project.ID, 1, 2, constants.RoleAdmin); err != nil {
		t.Fatalf("seed second admin: %v", err)
	}

	if err := env.projects.RemoveMember(ctx, project.ID, 1, 2); err != nil {
		t.Fatalf("removing one of two admins should succeed: %v", err)
	}

	admins, _ := env.projectRepo.CountAdmins(ctx, project.ID)
	if admins != 1 {
		t.Errorf("expected 1 admin left, got %d", admins)
	}
}

func TestUpdateRoleLastAdminCannotBeDemoted(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, 1, "alice")
	ctx := context.Background()

	project := env.seedProject(t, 1, "Alpha")

	err := env.projects.UpdateRole(ctx, project.ID, 1, 1, constants.RoleMember)
	if !errors.Is(err, apperrors.ErrLastAdmin) {
		t.Fatalf("expected ErrLastAdmin, got %v", err)
	}

	member, _ := env.projectRepo.Membership(ctx, project.ID, 1)
	if member.Role != constants.RoleAdmin {
		t.Errorf("failed demotion must leave role unchanged, got %s", member.Role)
	}
}

func TestUpdateRoleKeepsJoinedTimestamp(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, 1, "alice")
	env.seedUser(t, 2, "bob")
	ctx := context.Background()

	project := env.seedProject(t, 1, "Alpha")
	if _, err := env.projects.AddMember(ctx, project.ID, 1, 2, constants.RoleMember); err != nil {
		t.Fatalf("seed member: %v", err)
	}

	before, _ := env.projectRepo.Membership(ctx, project.ID, 2)

	if err := env.projects.UpdateRole(ctx, project.ID, 1, 2, constants.RoleManager); err != nil {
		t.Fatalf("update role: %v", err)
	}

	after, _ := env.projectRepo.Membership(ctx, project.ID, 2)
	if after.Role != constants.RoleManager {
		t.Errorf("expected role manager, got %s", after.Role)
	}
	if !after.JoinedAt.Equal(before.JoinedAt) {
		t.Errorf("joined timestamp must not change on role update: %v != %v", after.JoinedAt, before.JoinedAt)
	}
}

func TestUpdateRoleDemotionWithSecondAdmin(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, 1, "alice")
	env.seedUser(t, 2, "bob")
	ctx := context.Background()

	project := env.seedProject(t, 1, "Alpha")
	if _, err := env.projects.AddMember(ctx, project.ID, 1, 2, constants.RoleAdmin); err != nil {
		t.Fatalf("seed second admin: %v", err)
	}

	if err := env.projects.UpdateRole(ctx, project.ID, 1, 2, constants.RoleMember); err != nil {
		t.Fatalf("demoting one of two admins should succeed: %v", err)
	}
}

func TestGetProjectHiddenFromOutsiders(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, 1, "alice")
	env.seedUser(t, 2, "bob")
	ctx := context.Background()

	project := env.seedProject(t, 1, "Alpha")

	_, err := env.projects.GetProject(ctx, project.ID, 2)
	if !errors.Is(err, apperrors.ErrNotAMember) {
		t.Fatalf("expected ErrNotAMember, got %v", err)
	}
	if apperrors.StatusCode(err) != 404 {
		t.Errorf("outsider must see 404, got %d", apperrors.StatusCode(err))
	}
}

func TestUpdateProjectRequiresAdmin(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, 1, "alice")
	env.seedUser(t, 2, "bob")
	ctx := context.Background()

	project := env.seedProject(t, 1, "Alpha")
	if _, err := env.projects.AddMember(ctx, project.ID, 1, 2, constants.RoleMember); err != nil {
		t.Fatalf("seed member: %v", err)
	}

	_, err := env.projects.UpdateProject(ctx, project.ID, 2, "Beta", "d", constants.ProjectActive)
	if !errors.Is(err, apperrors.ErrForbidden) {
		t.Errorf("expected ErrForbidden for member, got %v", err)
	}

	updated, err := env.projects.UpdateProject(ctx, project.ID, 1, "Beta", "d2", constants.ProjectArchived)
	if err != nil {
		t.Fatalf("admin update: %v", err)
	}
	if updated.Title != "Beta" || updated.Status != constants.ProjectArchived {
		t.Errorf("unexpected update result: %+v", updated)
	}
}

func TestDeleteProjectCascades(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser(t, 1, "alice")
	ctx := context.Background()

	project := env.seedProject(t, 1, "Alpha")
	task, err := env.tasks.CreateTask(ctx, project.ID, 1, TaskInput{Title: "t1"})
	if err != nil {
		t.Fatalf("create task: %v", err)
	}
	if _, err := env.tasks.AddComment(ctx, task.ID, 1, "a comment"); err != nil {
		t.Fatalf("add comment: %v", err)
	}
	attachment, err := env.tasks.AddAttachment(ctx, task.ID, 1, "notes.txt", strings.NewReader("bytes"))
	if err != nil {
		t.Fatalf("add attachment: %v", err)
	}

	if err := env.projects.DeleteProject(ctx, project.ID, 1); err != nil {
		t.Fatalf("delete project: %v", err)
	}

	for name, dest := range map[string]interface{}{
		"projects":    &model.Project{},
		"members":     &model.ProjectMember{},
		"tasks":       &model.Task{},
		"comments":    &model.Comment{},
		"attachments": &model.Attachment{},
	} {
		var count int64
		if err := env.db.Model(dest).Count(&count).Error; err != nil {
			t.Fatalf("count %s: %v", name, err)
		}
		if count != 0 {
			t.Errorf("expected no %s after cascade, got %d", name, count)
		}
	}

	if _, err := env.store.Open(ctx, attachment.BlobRef); !errors.Is(err, apperrors.ErrBlobMissing) {
		t.Errorf("expected attachment blob to be cleaned up, got %v", err)
	}
}
