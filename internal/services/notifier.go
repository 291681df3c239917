package services

import "assist_backend/internal/services/dto"

// MessageNotifier - контракт live-доставки: после вставки сообщения
// все активные подписчики треда (ключ - request_id) получают его без
// опроса. Доставка at-least-once, клиенты дедуплицируют по id.
type MessageNotifier interface {
	NotifyNewMessage(requestID string, message *dto.MessageResponse)
}

// NoopNotifier - заглушка для тестов и окружений без realtime
type NoopNotifier struct{}

func (NoopNotifier) NotifyNewMessage(string, *dto.MessageResponse) {}
