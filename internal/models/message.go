package models

import "time"

// Message - сообщение в треде заявки.
// Сообщения не редактируются и не удаляются.
type Message struct {
	ID          string    `gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	RequestID   string    `gorm:"index;not null"`
	SenderID    string    `gorm:"index;not null"`
	ReceiverID  string    `gorm:"index;not null"`
	MessageText string    `gorm:"type:text;not null"`
	IsRead      bool      `gorm:"default:false"`
	CreatedAt   time.Time `gorm:"default:now()"`
}
