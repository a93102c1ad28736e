package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/anonto42/proconnect/backend/internal/models"
	"github.com/anonto42/proconnect/backend/internal/repositories"
	"go.uber.org/zap"
)

// NotificationService persists notifications and serves the inbox.
type NotificationService struct {
	repo      repositories.NotificationRepository
	directory *AccountDirectory
	logger    *zap.Logger
}

func NewNotificationService(repo repositories.NotificationRepository, directory *AccountDirectory, logger *zap.Logger) *NotificationService {
	return &NotificationService{repo: repo, directory: directory, logger: logger}
}

// Notify stores one notification. It returns nil, nil when receiver and
// sender are the same account.
func (s *NotificationService) Notify(ctx context.Context, receiver, sender models.AccountRef, kind models.NotificationType, entity models.EntityRef) (*models.Notification, error) {
	if receiver == sender {
		return nil, nil
	}
	n := models.NewNotification(receiver, sender, kind, entity)
	if err := s.repo.CreateNotification(ctx, n); err != nil {
		return nil, fmt.Errorf("create %s notification for %s: %w", kind, receiver.Key(), err)
	}
	return n, nil
}

// NotifyMany calls Notify for each receiver in order. A failure does not stop
// the loop; every failure is returned joined.
func (s *NotificationService) NotifyMany(ctx context.Context, receivers []models.AccountRef, sender models.AccountRef, kind models.NotificationType, entity models.EntityRef) error {
	var errs []error
	for _, r := range receivers {
		if _, err := s.Notify(ctx, r, sender, kind, entity); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (s *NotificationService) view(ctx context.Context, n *models.Notification) models.NotificationView {
	return models.NotificationView{
		ID:        n.ID,
		Type:      n.Type,
		Receiver:  n.Receiver(),
		Sender:    s.directory.SummaryOrStub(ctx, n.Sender()),
		Entity:    n.Entity(),
		IsRead:    n.IsRead,
		CreatedAt: n.CreatedAt,
	}
}

func (s *NotificationService) views(ctx context.Context, ns []models.Notification) []models.NotificationView {
	out := make([]models.NotificationView, 0, len(ns))
	for i := range ns {
		out = append(out, s.view(ctx, &ns[i]))
	}
	return out
}

// List returns the receiver's notifications newest first.
func (s *NotificationService) List(ctx context.Context, receiver models.AccountRef, page models.Page) ([]models.NotificationView, models.Pagination, error) {
	ns, total, err := s.repo.GetByReceiver(ctx, receiver, page)
	if err != nil {
		return nil, models.Pagination{}, fmt.Errorf("list notifications: %w", err)
	}
	return s.views(ctx, ns), models.NewPagination(page, total), nil
}

// GroupedNotifications buckets the inbox by age.
type GroupedNotifications struct {
	Today     []models.NotificationView `json:"today"`
	Yesterday []models.NotificationView `json:"yesterday"`
	ThisWeek  []models.NotificationView `json:"this_week"`
	Older     []models.NotificationView `json:"older"`
	Unread    int64                     `json:"unread_count"`
}

func (s *NotificationService) Grouped(ctx context.Context, receiver models.AccountRef) (*GroupedNotifications, error) {
	today, yesterday, thisWeek, older, err := s.repo.GetGrouped(ctx, receiver)
	if err != nil {
		return nil, fmt.Errorf("group notifications: %w", err)
	}
	unread, err := s.repo.GetUnreadCount(ctx, receiver)
	if err != nil {
		return nil, fmt.Errorf("count unread: %w", err)
	}
	return &GroupedNotifications{
		Today:     s.views(ctx, today),
		Yesterday: s.views(ctx, yesterday),
		ThisWeek:  s.views(ctx, thisWeek),
		Older:     s.views(ctx, older),
		Unread:    unread,
	}, nil
}

func (s *NotificationService) UnreadCount(ctx context.Context, receiver models.AccountRef) (int64, error) {
	return s.repo.GetUnreadCount(ctx, receiver)
}

// MarkRead only touches notifications addressed to receiver; anything else
// is reported as not found.
func (s *NotificationService) MarkRead(ctx context.Context, receiver models.AccountRef, id uint) error {
	return storeError("notification", s.repo.MarkAsRead(ctx, receiver, id))
}

func (s *NotificationService) MarkAllRead(ctx context.Context, receiver models.AccountRef) (int64, error) {
	return s.repo.MarkAllAsRead(ctx, receiver)
}

func (s *NotificationService) Delete(ctx context.Context, receiver models.AccountRef, id uint) error {
	return storeError("notification", s.repo.Delete(ctx, receiver, id))
}

// DeleteBetween retracts notifications of the given types exchanged by a and b.
func (s *NotificationService) DeleteBetween(ctx context.Context, a, b models.AccountRef, types []models.NotificationType) (int64, error) {
	return s.repo.DeleteBetween(ctx, a, b, types)
}
