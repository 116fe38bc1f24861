package service

import (
	"sportlink-service/model"
	"sportlink-service/pagination"

	"gorm.io/gorm"
)

type NotificationService struct {
	db *gorm.DB
}

func NewNotificationService(db *gorm.DB) *NotificationService {
	return &NotificationService{db: db}
}

// FanOut inserts one row per recipient as a single batch. Callers pass the
// transaction the authored action runs in, so the batch is all-or-nothing
// with it.
func (s *NotificationService) FanOut(tx *gorm.DB, rows []model.Notification) error {
	if len(rows) == 0 {
		return nil
	}
	return tx.Create(&rows).Error
}

func (s *NotificationService) List(userID uint, p pagination.Params) (pagination.Page[model.Notification], error) {
	p = p.Clamp()

	q := s.db.Where("recipient_id = ?", userID).Order("id DESC").Limit(p.Limit + 1)
	if p.Cursor != 0 {
		q = q.Where("id < ?", p.Cursor)
	}

	var rows []model.Notification
	if err := q.Find(&rows).Error; err != nil {
		return pagination.Page[model.Notification]{}, err
	}

	return pagination.Slice(rows, p.Limit, func(n model.Notification) uint { return n.ID }), nil
}

func (s *NotificationService) UnreadCount(userID uint) (int64, error) {
	var count int64
	err := s.db.Model(&model.Notification{}).
		Where("recipient_id = ? AND read = ?", userID, false).
		Count(&count).Error
	return count, err
}

// MarkConversationRead clears the unread message notifications a conversation
// produced for the user, typically when they open the thread.
func (s *NotificationService) MarkConversationRead(userID, conversationID uint) error {
	messageIDs := s.db.Model(&model.Message{}).
		Select("id").
		Where("conversation_id = ?", conversationID)

	return s.db.Model(&model.Notification{}).
		Where("recipient_id = ? AND read = ?", userID, false).
		Where("type IN ?", []string{model.NotificationMessage, model.NotificationGroupMessage}).
		Where("target_id IN (?)", messageIDs).
		Update("read", true).Error
}

// MarkRead marks the given notifications read; with no ids, all of them.
func (s *NotificationService) MarkRead(userID uint, ids []uint) error {
	q := s.db.Model(&model.Notification{}).Where("recipient_id = ?", userID)
	if len(ids) > 0 {
		q = q.Where("id IN ?", ids)
	}
	return q.Update("read", true).Error
}
