package services

import (
	"assist_backend/internal/logger"
	"assist_backend/internal/metrics"
	"assist_backend/internal/models"
	"assist_backend/internal/repositories"
	"assist_backend/internal/services/dto"
	"assist_backend/pkg/apperrors"
)

type ChatService interface {
	// SendMessage добавляет непрочитанное сообщение в тред заявки.
	// Получатель - вторая сторона заявки. После вставки сообщение
	// публикуется подписчикам треда через MessageNotifier.
	SendMessage(senderID string, req *dto.SendMessageRequest) (*dto.MessageResponse, error)

	// Thread возвращает весь тред по возрастанию created_at
	Thread(requestID, viewerID string) (*dto.ThreadResponse, error)

	// MarkRead помечает прочитанными все сообщения, адресованные
	// viewer-у в треде. Идемпотентно.
	MarkRead(requestID, viewerID string) error

	UnreadCount(userID string) (*dto.UnreadCountResponse, error)

	// IsParticipant - проверка доступа для подписки на live-обновления
	IsParticipant(requestID, userID string) (bool, error)

	SetNotifier(notifier MessageNotifier)
}

type chatService struct {
	messageRepo repositories.MessageRepository
	requestRepo repositories.RequestRepository
	notifier    MessageNotifier
}

func NewChatService(
	messageRepo repositories.MessageRepository,
	requestRepo repositories.RequestRepository,
) ChatService {
	return &chatService{
		messageRepo: messageRepo,
		requestRepo: requestRepo,
		notifier:    NoopNotifier{},
	}
}

// SetNotifier подключает realtime-доставку. Вызывается один раз при
// старте (ws-менеджер создается после сервисов).
func (s *chatService) SetNotifier(notifier MessageNotifier) {
	if notifier != nil {
		s.notifier = notifier
	}
}

func (s *chatService) SendMessage(senderID string, req *dto.SendMessageRequest) (*dto.MessageResponse, error) {
	request, err := s.requestRepo.FindByID(req.RequestID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrRequestNotFound) {
			return nil, apperrors.ErrRequestNotFound
		}
		return nil, apperrors.StoreFailure(err)
	}

	// Получатель - вторая сторона заявки
	var receiverID string
	switch senderID {
	case request.PatientID:
		receiverID = request.CaregiverID
	case request.CaregiverID:
		receiverID = request.PatientID
	default:
		return nil, apperrors.ErrThreadAccessDenied
	}

	message := &models.Message{
		RequestID:   req.RequestID,
		SenderID:    senderID,
		ReceiverID:  receiverID,
		MessageText: req.MessageText,
		IsRead:      false,
	}
	if err := s.messageRepo.Create(message); err != nil {
		return nil, apperrors.StoreFailure(err)
	}

	metrics.MessagesSent.Inc()

	resp := buildMessageResponse(message)

	// Push всем активным подписчикам треда (включая отправителя -
	// дубликаты допустимы, клиент дедуплицирует по id)
	s.notifier.NotifyNewMessage(req.RequestID, resp)

	logger.Debug("message sent",
		"request_id", req.RequestID, "sender_id", senderID, "receiver_id", receiverID)

	return resp, nil
}

func (s *chatService) Thread(requestID, viewerID string) (*dto.ThreadResponse, error) {
	if err := s.requireParticipant(requestID, viewerID); err != nil {
		return nil, err
	}

	messages, err := s.messageRepo.FindByRequest(requestID)
	if err != nil {
		return nil, apperrors.StoreFailure(err)
	}

	items := make([]*dto.MessageResponse, 0, len(messages))
	for i := range messages {
		items = append(items, buildMessageResponse(&messages[i]))
	}

	return &dto.ThreadResponse{
		RequestID: requestID,
		Messages:  items,
	}, nil
}

func (s *chatService) MarkRead(requestID, viewerID string) error {
	if err := s.requireParticipant(requestID, viewerID); err != nil {
		return err
	}

	if err := s.messageRepo.MarkThreadRead(requestID, viewerID); err != nil {
		return apperrors.StoreFailure(err)
	}
	return nil
}

func (s *chatService) UnreadCount(userID string) (*dto.UnreadCountResponse, error) {
	count, err := s.messageRepo.CountUnreadByReceiver(userID)
	if err != nil {
		return nil, apperrors.StoreFailure(err)
	}
	return &dto.UnreadCountResponse{Count: count}, nil
}

func (s *chatService) IsParticipant(requestID, userID string) (bool, error) {
	request, err := s.requestRepo.FindByID(requestID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrRequestNotFound) {
			return false, nil
		}
		return false, err
	}
	return request.PatientID == userID || request.CaregiverID == userID, nil
}

func (s *chatService) requireParticipant(requestID, userID string) error {
	request, err := s.requestRepo.FindByID(requestID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrRequestNotFound) {
			return apperrors.ErrRequestNotFound
		}
		return apperrors.StoreFailure(err)
	}
	if request.PatientID != userID && request.CaregiverID != userID {
		return apperrors.ErrThreadAccessDenied
	}
	return nil
}

func buildMessageResponse(m *models.Message) *dto.MessageResponse {
	return &dto.MessageResponse{
		ID:          m.ID,
		RequestID:   m.RequestID,
		SenderID:    m.SenderID,
		ReceiverID:  m.ReceiverID,
		MessageText: m.MessageText,
		IsRead:      m.IsRead,
		CreatedAt:   m.CreatedAt,
	}
}
