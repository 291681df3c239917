package repositories

import (
	"errors"
	"time"

	"assist_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrRequestNotFound = errors.New("request not found")
	// ErrRequestNotPending - условный UPDATE завершения не нашел pending-строку
	ErrRequestNotPending = errors.New("request is not pending")
)

type RequestRepository interface {
	Create(request *models.Request) error
	FindByID(id string) (*models.Request, error)

	// FindPendingByCaregiver - очередь опекуна: срочные всегда первыми,
	// внутри группы FIFO по created_at.
	FindPendingByCaregiver(caregiverID string) ([]models.Request, error)

	// Complete атомарно переводит pending -> completed. Условный UPDATE
	// проверяет назначенного опекуна и статус в одном запросе - два
	// конкурирующих завершения дадут ровно одно успешное.
	Complete(requestID, caregiverID string, responseText *string, now time.Time) error

	FindHistoryByPatient(patientID string, limit int) ([]models.Request, error)
	CountPendingByCaregiver(caregiverID string) (int64, error)
	CountPendingByPatient(patientID string) (int64, error)
}

type RequestRepositoryImpl struct {
	db *gorm.DB
}

func NewRequestRepository(db *gorm.DB) RequestRepository {
	return &RequestRepositoryImpl{db: db}
}

func (r *RequestRepositoryImpl) Create(request *models.Request) error {
	return r.db.Create(request).Error
}

func (r *RequestRepositoryImpl) FindByID(id string) (*models.Request, error) {
	var req models.Request
	err := r.db.First(&req, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRequestNotFound
		}
		return nil, err
	}
	return &req, nil
}

func (r *RequestRepositoryImpl) FindPendingByCaregiver(caregiverID string) ([]models.Request, error) {
	var requests []models.Request
	err := r.db.
		Where("caregiver_id = ? AND status = ?", caregiverID, models.RequestStatusPending).
		Order("urgent DESC").
		Order("created_at ASC").
		Find(&requests).Error
	return requests, err
}

func (r *RequestRepositoryImpl) Complete(requestID, caregiverID string, responseText *string, now time.Time) error {
	updates := map[string]interface{}{
		"status":       models.RequestStatusCompleted,
		"completed_at": now,
		"updated_at":   now,
	}
	if responseText != nil {
		updates["response_text"] = *responseText
	}

	result := r.db.Model(&models.Request{}).
		Where("id = ? AND caregiver_id = ? AND status = ?", requestID, caregiverID, models.RequestStatusPending).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrRequestNotPending
	}
	return nil
}

func (r *RequestRepositoryImpl) FindHistoryByPatient(patientID string, limit int) ([]models.Request, error) {
	var requests []models.Request
	err := r.db.
		Where("patient_id = ?", patientID).
		Order("created_at DESC").
		Limit(limit).
		Find(&requests).Error
	return requests, err
}

func (r *RequestRepositoryImpl) CountPendingByCaregiver(caregiverID string) (int64, error) {
	var count int64
	err := r.db.Model(&models.Request{}).
		Where("caregiver_id = ? AND status = ?", caregiverID, models.RequestStatusPending).
		Count(&count).Error
	return count, err
}

func (r *RequestRepositoryImpl) CountPendingByPatient(patientID string) (int64, error) {
	var count int64
	err := r.db.Model(&models.Request{}).
		Where("patient_id = ? AND status = ?", patientID, models.RequestStatusPending).
		Count(&count).Error
	return count, err
}
