package services

import (
	"strconv"
	"time"

	"assist_backend/internal/email"
	"assist_backend/internal/logger"
	"assist_backend/internal/metrics"
	"assist_backend/internal/models"
	"assist_backend/internal/repositories"
	"assist_backend/internal/services/dto"
	"assist_backend/pkg/apperrors"
)

const defaultHistoryLimit = 5

type RequestService interface {
	// CreateRequest создает pending-заявку от пациента. Требует хотя бы
	// одной связи пациент-опекун; адресат - первый привязанный опекун
	// (документированная политика без балансировки).
	CreateRequest(patientID string, req *dto.CreateRequestRequest) (*dto.RequestResponse, error)

	// Queue - очередь опекуна: срочные первыми, внутри группы FIFO
	Queue(caregiverID string) (*dto.QueueResponse, error)

	// CompleteRequest переводит заявку pending -> completed. Разрешено
	// только назначенному опекуну; повторное завершение - конфликт.
	CompleteRequest(requestID, actorID string, req *dto.CompleteRequestRequest) (*dto.RequestResponse, error)

	History(patientID string, limit int) ([]*dto.RequestResponse, error)
	GetRequest(requestID, viewerID string) (*dto.RequestResponse, error)

	// PendingCount - счетчик незавершенных заявок для бейджа на дашборде.
	// Пациент видит свои заявки, опекун - адресованные ему.
	PendingCount(userID string) (*dto.PendingCountResponse, error)
}

type requestService struct {
	requestRepo repositories.RequestRepository
	linkingRepo repositories.LinkingRepository
	userRepo    repositories.UserRepository
	profileRepo repositories.ProfileRepository
	emailProv   email.Provider
}

func NewRequestService(
	requestRepo repositories.RequestRepository,
	linkingRepo repositories.LinkingRepository,
	userRepo    repositories.UserRepository,
	profileRepo repositories.ProfileRepository,
	emailProv email.Provider,
) RequestService {
	return &requestService{
		requestRepo: requestRepo,
		linkingRepo: linkingRepo,
		userRepo:    userRepo,
		profileRepo: profileRepo,
		emailProv:   emailProv,
	}
}

func (s *requestService) CreateRequest(patientID string, req *dto.CreateRequestRequest) (*dto.RequestResponse, error) {
	caregiverIDs, err := s.linkingRepo.FindCaregiverIDs(patientID)
	if err != nil {
		return nil, apperrors.StoreFailure(err)
	}
	if len(caregiverIDs) == 0 {
		return nil, apperrors.ErrNoCaregiverLinked
	}

	// Первый привязанный опекун. Веерная рассылка всем опекунам -
	// открытый вопрос, поведение оригинала сохранено.
	caregiverID := caregiverIDs[0]

	request := &models.Request{
		PatientID:   patientID,
		CaregiverID: caregiverID,
		ButtonID:    req.ButtonID,
		ButtonLabel: req.ButtonLabel,
		RequestText: req.RequestText,
		Status:      models.RequestStatusPending,
		Urgent:      req.Urgent,
	}
	if err := s.requestRepo.Create(request); err != nil {
		return nil, apperrors.StoreFailure(err)
	}

	metrics.RequestsCreated.WithLabelValues(strconv.FormatBool(req.Urgent)).Inc()
	logger.Info("request created",
		"request_id", request.ID, "patient_id", patientID,
		"caregiver_id", caregiverID, "urgent", req.Urgent)

	if req.Urgent {
		// Best effort: ошибка почты не должна ронять заявку
		go s.sendUrgentAlert(patientID, caregiverID, req.ButtonLabel)
	}

	return buildRequestResponse(request), nil
}

func (s *requestService) Queue(caregiverID string) (*dto.QueueResponse, error) {
	requests, err := s.requestRepo.FindPendingByCaregiver(caregiverID)
	if err != nil {
		return nil, apperrors.StoreFailure(err)
	}

	items := make([]*dto.RequestResponse, 0, len(requests))
	for i := range requests {
		items = append(items, buildRequestResponse(&requests[i]))
	}

	return &dto.QueueResponse{
		Requests: items,
		Total:    len(items),
	}, nil
}

func (s *requestService) CompleteRequest(requestID, actorID string, req *dto.CompleteRequestRequest) (*dto.RequestResponse, error) {
	request, err := s.requestRepo.FindByID(requestID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrRequestNotFound) {
			return nil, apperrors.ErrRequestNotFound
		}
		return nil, apperrors.StoreFailure(err)
	}

	// Завершать может только назначенный опекун
	if request.CaregiverID != actorID {
		return nil, apperrors.ErrNotAssignedCaregiver
	}

	var responseText *string
	if req != nil {
		responseText = req.ResponseText
	}

	// Условный UPDATE в репозитории - арбитр гонки двух завершений
	now := time.Now()
	if err := s.requestRepo.Complete(requestID, actorID, responseText, now); err != nil {
		if apperrors.Is(err, repositories.ErrRequestNotPending) {
			return nil, apperrors.ErrRequestAlreadyCompleted
		}
		return nil, apperrors.StoreFailure(err)
	}

	metrics.RequestsCompleted.Inc()
	logger.Info("request completed", "request_id", requestID, "caregiver_id", actorID)

	request.Status = models.RequestStatusCompleted
	request.CompletedAt = &now
	request.ResponseText = responseText
	return buildRequestResponse(request), nil
}

func (s *requestService) History(patientID string, limit int) ([]*dto.RequestResponse, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}

	requests, err := s.requestRepo.FindHistoryByPatient(patientID, limit)
	if err != nil {
		return nil, apperrors.StoreFailure(err)
	}

	items := make([]*dto.RequestResponse, 0, len(requests))
	for i := range requests {
		items = append(items, buildRequestResponse(&requests[i]))
	}
	return items, nil
}

func (s *requestService) GetRequest(requestID, viewerID string) (*dto.RequestResponse, error) {
	request, err := s.requestRepo.FindByID(requestID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrRequestNotFound) {
			return nil, apperrors.ErrRequestNotFound
		}
		return nil, apperrors.StoreFailure(err)
	}

	if request.PatientID != viewerID && request.CaregiverID != viewerID {
		return nil, apperrors.ErrThreadAccessDenied
	}

	return buildRequestResponse(request), nil
}

func (s *requestService) PendingCount(userID string) (*dto.PendingCountResponse, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.NewUnauthorizedError("Unknown user")
		}
		return nil, apperrors.StoreFailure(err)
	}

	var count int64
	switch user.Role {
	case models.UserRoleCaregiver:
		count, err = s.requestRepo.CountPendingByCaregiver(userID)
	default:
		count, err = s.requestRepo.CountPendingByPatient(userID)
	}
	if err != nil {
		return nil, apperrors.StoreFailure(err)
	}

	return &dto.PendingCountResponse{Pending: count}, nil
}

func (s *requestService) sendUrgentAlert(patientID, caregiverID, buttonLabel string) {
	caregiver, err := s.userRepo.FindByID(caregiverID)
	if err != nil {
		logger.Error("urgent alert: caregiver lookup failed", "error", err)
		return
	}

	patientName := "Your patient"
	if profile, err := s.profileRepo.FindByUserID(patientID); err == nil {
		patientName = profile.FullName
	}

	if err := s.emailProv.SendUrgentRequestAlert(caregiver.Email, patientName, buttonLabel); err != nil {
		logger.Error("urgent alert: email send failed", "error", err, "caregiver_id", caregiverID)
	}
}

func buildRequestResponse(r *models.Request) *dto.RequestResponse {
	return &dto.RequestResponse{
		ID:           r.ID,
		PatientID:    r.PatientID,
		CaregiverID:  r.CaregiverID,
		ButtonLabel:  r.ButtonLabel,
		RequestText:  r.RequestText,
		Status:       r.Status,
		Urgent:       r.Urgent,
		ResponseText: r.ResponseText,
		CreatedAt:    r.CreatedAt,
		CompletedAt:  r.CompletedAt,
	}
}
