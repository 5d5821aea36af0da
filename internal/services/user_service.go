package services

import (
	"context"

	"github.com/sirupsen/logrus"

	"taskflow.dev/taskflow/internal/blob"
	repository "taskflow.dev/taskflow/internal/repositories"
)

// UserService covers the user lifecycle this module owns: provisioning FK
// anchors for externally authenticated users and the deletion cascade.
// Registration and credentials live in the identity provider.
type UserService struct {
	users *repository.UserRepository
	blobs blob.Store
	log   *logrus.Logger
}

func NewUserService(users *repository.UserRepository, blobs blob.Store, log *logrus.Logger) *UserService {
	return &UserService{users: users, blobs: blobs, log: log}
}

// DeleteUser removes the user and everything they own; tasks they were
// merely assigned to survive with the assignment cleared.
func (s *UserService) DeleteUser(ctx context.Context, userID uint) error {
	blobRefs, err := s.users.DeleteCascade(ctx, userID)
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
