package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"task-management/internal/model"
)

// SubscriberRepository stores chats that receive digests.
type SubscriberRepository struct {
	db *gorm.DB
}

func NewSubscriberRepository(db *gorm.DB) *SubscriberRepository {
	return &SubscriberRepository{db: db}
}

// Subscribe stores the chat, refreshing its profile when the chat is already
// subscribed. sub is reloaded from the stored row.
func (r *SubscriberRepository) Subscribe(ctx context.Context, sub *model.Subscriber) error {
	db := r.db.WithContext(ctx)
	err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "telegram_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"first_name", "last_name", "username", "updated_at"}),
	}).Create(sub).Error
	if err != nil {
		return fmt.Errorf("subscribe chat %d: %w", sub.TelegramID, translate(err))
	}

	var stored model.Subscriber
	if err := db.Where("telegram_id = ?", sub.TelegramID).Take(&stored).Error; err != nil {
		return fmt.Errorf("reload subscriber %d: %w", sub.TelegramID, err)
	}
	*sub = stored
	return nil
}

func (r *SubscriberRepository) ListAll(ctx context.Context) ([]model.Subscriber, error) {
	var subs []model.Subscriber
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&subs).Error; err != nil {
		return nil, err
	}
	return subs, nil
}

// DeleteByTelegramID unsubscribes a chat. Unknown chats are ignored.
func (r *SubscriberRepository) DeleteByTelegramID(ctx context.Context, telegramID int64) error {
	if err := r.db.WithContext(ctx).Where("telegram_id = ?", telegramID).
		Delete(&model.Subscriber{}).Error; err != nil {
		return fmt.Errorf("delete subscriber: %w", err)
	}
	return nil
}
