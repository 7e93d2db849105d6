package store

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/lancerhub/lancerhub_be/internal/models"
)

func messagePreloads(q *gorm.DB) *gorm.DB {
	return q.Preload("Sender").Preload("Recipient")
}

// ListMessagesForUser returns every message the user sent or received.
func (s *Store) ListMessagesForUser(ctx context.Context, userID uuid.UUID) ([]models.Message, error) {
	var messages []models.Message
	err := messagePreloads(s.DB.WithContext(ctx)).
		Where("sender_id = ? OR recipient_id = ?", userID, userID).
		Order(defaultOrder).
		Find(&messages).Error
	if err != nil {
		return nil, wrapErr(err, "messages")
	}
	return messages, nil
}

// ListConversation returns the two-way message history between two profiles.
func (s *Store) ListConversation(ctx context.Context, a, b uuid.UUID) ([]models.Message, error) {
	var messages []models.Message
	err := messagePreloads(s.DB.WithContext(ctx)).
		Where("(sender_id = ? AND recipient_id = ?) OR (sender_id = ? AND recipient_id = ?)", a, b, b, a).
		Order(defaultOrder).
		Find(&messages).Error
	if err != nil {
		return nil, wrapErr(err, "messages")
	}
	return messages, nil
}

func (s *Store) GetMessage(ctx context.Context, id uuid.UUID) (*models.Message, error) {
	var msg models.Message
	err := messagePreloads(s.DB.WithContext(ctx)).
		First(&msg, "id = ?", id).Error
	if err != nil {
		return nil, wrapErr(err, "message")
	}
	return &msg, nil
}

func (s *Store) InsertMessage(tx *gorm.DB, msg *models.Message) error {
	if err := tx.Create(msg).Error; err != nil {
		return wrapErr(err, "message")
	}
	return nil
}

func (s *Store) GetMessageForUpdate(tx *gorm.DB, id uuid.UUID) (*models.Message, error) {
	var msg models.Message
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&msg, "id = ?", id).Error
	if err != nil {
		return nil, wrapErr(err, "message")
	}
	return &msg, nil
}

func (s *Store) MarkMessageRead(tx *gorm.DB, id uuid.UUID, at time.Time) error {
	res := tx.Model(&models.Message{}).
		Where("id = ? AND read_at IS NULL", id).
		Update("read_at", at)
	if res.Error != nil {
		return wrapErr(res.Error, "message")
	}
	if res.RowsAffected == 0 {
		return wrapErr(gorm.ErrRecordNotFound, "message")
	}
	return nil
}

func (s *Store) CountUnread(ctx context.Context, userID uuid.UUID) (int64, error) {
	var n int64
	err := s.DB.WithContext(ctx).Model(&models.Message{}).
		Where("recipient_id = ? AND read_at IS NULL", userID).
		Count(&n).Error
	if err != nil {
		return 0, wrapErr(err, "messages")
	}
	return n, nil
}
