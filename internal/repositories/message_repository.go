package repositories

import (
	"assist_backend/internal/models"

	"gorm.io/gorm"
)

type MessageRepository interface {
	Create(message *models.Message) error
	FindByRequest(requestID string) ([]models.Message, error)

	// MarkThreadRead помечает прочитанными все непрочитанные сообщения,
	// адресованные viewerID в этом треде. Идемпотентно.
	MarkThreadRead(requestID, viewerID string) error

	CountUnreadInThread(requestID, viewerID string) (int64, error)
	CountUnreadByReceiver(receiverID string) (int64, error)
}

type MessageRepositoryImpl struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &MessageRepositoryImpl{db: db}
}

func (r *MessageRepositoryImpl) Create(message *models.Message) error {
	return r.db.Create(message).Error
}

// FindByRequest возвращает весь тред по возрастанию created_at (без пагинации)
func (r *MessageRepositoryImpl) FindByRequest(requestID string) ([]models.Message, error) {
	var messages []models.Message
	err := r.db.
		Where("request_id = ?", requestID).
		Order("created_at ASC").
		Find(&messages).Error
	return messages, err
}

func (r *MessageRepositoryImpl) MarkThreadRead(requestID, viewerID string) error {
	return r.db.Model(&models.Message{}).
		Where("request_id = ? AND receiver_id = ? AND is_read = ?", requestID, viewerID, false).
		Update("is_read", true).Error
}

func (r *MessageRepositoryImpl) CountUnreadInThread(requestID, viewerID string) (int64, error) {
	var count int64
	err := r.db.Model(&models.Message{}).
		Where("request_id = ? AND receiver_id = ? AND is_read = ?", requestID, viewerID, false).
		Count(&count).Error
	return count, err
}

func (r *MessageRepositoryImpl) CountUnreadByReceiver(receiverID string) (int64, error) {
	var count int64
	err := r.db.Model(&models.Message{}).
		Where("receiver_id = ? AND is_read = ?", receiverID, false).
		Count(&count).Error
	return count, err
}
