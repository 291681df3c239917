package dto

import "time"

// SendMessageRequest - отправка сообщения в тред заявки
type SendMessageRequest struct {
	RequestID   string `json:"request_id" binding:"required"`
	MessageText string `json:"message_text" binding:"required,max=5000"`
}

// MessageResponse - сообщение треда. Это же и полезная нагрузка
// realtime-уведомления (клиенты дедуплицируют по id).
type MessageResponse struct {
	ID          string    `json:"id"`
	RequestID   string    `json:"request_id"`
	SenderID    string    `json:"sender_id"`
	ReceiverID  string    `json:"receiver_id"`
	MessageText string    `json:"message_text"`
	IsRead      bool      `json:"is_read"`
	CreatedAt   time.Time `json:"created_at"`
}

// ThreadResponse - весь тред заявки по возрастанию created_at
type ThreadResponse struct {
	RequestID string             `json:"request_id"`
	Messages  []*MessageResponse `json:"messages"`
}

// UnreadCountResponse - бейдж непрочитанных
type UnreadCountResponse struct {
	Count int64 `json:"count"`
}
