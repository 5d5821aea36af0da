package services

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	apperrors "taskflow.dev/taskflow/internal/errors"
	model "taskflow.dev/taskflow/internal/models"
	"taskflow.dev/taskflow/internal/notify"
	repository "taskflow.dev/taskflow/internal/repositories"
)

// NotificationService persists notifications and hands them to the delivery
// sink. Persistence is the guarantee; delivery is best effort.
type NotificationService struct {
	repo *repository.NotificationRepository
	sink notify.Sink
	log  *logrus.Logger
}

func NewNotificationService(repo *repository.NotificationRepository, sink notify.Sink, log *logrus.Logger) *NotificationService {
	return &NotificationService{repo: repo, sink: sink, log: log}
}

// Notify appends a notification for the user. A sink failure is logged and
// swallowed; the caller's mutation must not fail because delivery hiccuped.
func (s *NotificationService) Notify(ctx context.Context, userID uint, content, link string) (*model.Notification, error) {
	notification := &model.Notification{
		UserID:    userID,
		Content:   content,
		Link:      link,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.repo.Create(ctx, notification); err != nil {
		return nil, err
	}

	if s.sink != nil {
		if err := s.sink.Publish(ctx, notification); err != nil {
			s.log.WithError(err).WithField("notification_id", notification.ID).
				Warn("notification sink publish failed")
		}
	}

	return notification, nil
}

func (s *NotificationService) List(ctx context.Context, userID uint) ([]model.Notification, error) {
	return s.repo.ListForUser(ctx, userID)
}

// MarkRead flips the read flag. Another user's notification reads as not
// found rather than forbidden.
func (s *NotificationService) MarkRead(ctx context.Context, notificationID, callerID uint) error {
	notification, err := s.repo.FindByID(ctx, notificationID)
	if err != nil {
		return err
	}
	if notification.UserID != callerID {
		return apperrors.ErrNotFound
	}
	return s.repo.MarkRead(ctx, notificationID)
}
