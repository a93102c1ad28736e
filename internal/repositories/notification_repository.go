package repositories

import (
	"context"
	"time"

	"github.com/anonto42/proconnect/backend/internal/models"
	"gorm.io/gorm"
)

// NotificationRepository defines the interface for notification operations
type NotificationRepository interface {
	CreateNotification(ctx context.Context, notification *models.Notification) error
	GetByReceiver(ctx context.Context, receiver models.AccountRef, page models.Page) ([]models.Notification, int64, error)
	GetGrouped(ctx context.Context, receiver models.AccountRef) (today, yesterday, thisWeek, older []models.Notification, err error)
	GetUnreadCount(ctx context.Context, receiver models.AccountRef) (int64, error)
	MarkAsRead(ctx context.Context, receiver models.AccountRef, id uint) error
	MarkAllAsRead(ctx context.Context, receiver models.AccountRef) (int64, error)
	Delete(ctx context.Context, receiver models.AccountRef, id uint) error
	// DeleteBetween removes notifications of the given types exchanged between a and b.
	DeleteBetween(ctx context.Context, a, b models.AccountRef, types []models.NotificationType) (int64, error)
}

type postgresNotificationRepository struct {
	db *gorm.DB
}

func NewPostgresNotificationRepository(db *gorm.DB) NotificationRepository {
	return &postgresNotificationRepository{db: db}
}

func (r *postgresNotificationRepository) forReceiver(ctx context.Context, receiver models.AccountRef) *gorm.DB {
	return r.db.WithContext(ctx).Model(&models.Notification{}).
		Where("receiver_id = ? AND receiver_type = ?", receiver.ID, receiver.Type)
}

func (r *postgresNotificationRepository) CreateNotification(ctx context.Context, notification *models.Notification) error {
	if notification.CreatedAt.IsZero() {
		notification.CreatedAt = time.Now()
	}
	return r.db.WithContext(ctx).Create(notification).Error
}

func (r *postgresNotificationRepository) GetByReceiver(ctx context.Context, receiver models.AccountRef, page models.Page) ([]models.Notification, int64, error) {
	var notifications []models.Notification
	var total int64

	if err := r.forReceiver(ctx, receiver).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := r.forReceiver(ctx, receiver).
		Order("created_at DESC").
		Offset(int(page.Skip())).Limit(page.Limit).
		Find(&notifications).Error

	return notifications, total, err
}

func (r *postgresNotificationRepository) GetGrouped(ctx context.Context, receiver models.AccountRef) (today, yesterday, thisWeek, older []models.Notification, retErr error) {
	now := time.Now()
	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	yesterdayStart := todayStart.AddDate(0, 0, -1)
	weekStart := todayStart.AddDate(0, 0, -7)

	if err := r.forReceiver(ctx, receiver).Where("created_at >= ?", todayStart).
		Order("created_at DESC").Find(&today).Error; err != nil {
		return nil, nil, nil, nil, err
	}

	if err := r.forReceiver(ctx, receiver).Where("created_at >= ? AND created_at < ?", yesterdayStart, todayStart).
		Order("created_at DESC").Find(&yesterday).Error; err != nil {
		return nil, nil, nil, nil, err
	}

	// This week, excluding today and yesterday
	if err := r.forReceiver(ctx, receiver).Where("created_at >= ? AND created_at < ?", weekStart, yesterdayStart).
		Order("created_at DESC").Find(&thisWeek).Error; err != nil {
		return nil, nil, nil, nil, err
	}

	if err := r.forReceiver(ctx, receiver).Where("created_at < ?", weekStart).
		Order("created_at DESC").Limit(50).Find(&older).Error; err != nil {
		return nil, nil, nil, nil, err
	}

	return today, yesterday, thisWeek, older, nil
}

func (r *postgresNotificationRepository) GetUnreadCount(ctx context.Context, receiver models.AccountRef) (int64, error) {
	var count int64
	err := r.forReceiver(ctx, receiver).Where("is_read = ?", false).Count(&count).Error
	return count, err
}

func (r *postgresNotificationRepository) MarkAsRead(ctx context.Context, receiver models.AccountRef, id uint) error {
	res := r.forReceiver(ctx, receiver).Where("id = ?", id).Update("is_read", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *postgresNotificationRepository) MarkAllAsRead(ctx context.Context, receiver models.AccountRef) (int64, error) {
	res := r.forReceiver(ctx, receiver).Where("is_read = ?", false).Update("is_read", true)
	return res.RowsAffected, res.Error
}

func (r *postgresNotificationRepository) Delete(ctx context.Context, receiver models.AccountRef, id uint) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND receiver_id = ? AND receiver_type = ?", id, receiver.ID, receiver.Type).
		Delete(&models.Notification{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *postgresNotificationRepository) DeleteBetween(ctx context.Context, a, b models.AccountRef, types []models.NotificationType) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("((receiver_id = ? AND receiver_type = ? AND sender_id = ? AND sender_type = ?) OR (receiver_id = ? AND receiver_type = ? AND sender_id = ? AND sender_type = ?)) AND type IN ?",
			a.ID, a.Type, b.ID, b.Type,
			b.ID, b.Type, a.ID, a.Type,
			types).
		Delete(&models.Notification{})
	return res.RowsAffected, res.Error
}
