package repositories

import (
	"errors"
	"strings"
	"time"

	"assist_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrCodeNotFound = errors.New("linking code not found")
	// ErrCodeTaken - конкурирующее погашение успело первым (условный UPDATE не сработал)
	ErrCodeTaken = errors.New("linking code already used")
	// ErrPairExists - уникальная пара (patient_id, caregiver_id) уже существует
	ErrPairExists = errors.New("patient-caregiver pair already exists")
)

type LinkingRepository interface {
	CreateCode(code *models.LinkingCode) error
	FindByCode(code string) (*models.LinkingCode, error)

	// RedeemCode атомарно создает связь и помечает код использованным.
	// Одна транзакция: если штамп used_by не прошел (гонка) или пара уже
	// существует - вся транзакция откатывается, частичного состояния нет.
	RedeemCode(codeID, patientID, caregiverID string, now time.Time) error

	LinkExists(patientID, caregiverID string) (bool, error)
	FindCaregiverIDs(patientID string) ([]string, error)
	FindPatientIDs(caregiverID string) ([]string, error)
	CountCaregivers(patientID string) (int64, error)
	CountPatients(caregiverID string) (int64, error)
}

type LinkingRepositoryImpl struct {
	db *gorm.DB
}

func NewLinkingRepository(db *gorm.DB) LinkingRepository {
	return &LinkingRepositoryImpl{db: db}
}

func (r *LinkingRepositoryImpl) CreateCode(code *models.LinkingCode) error {
	return r.db.Create(code).Error
}

// FindByCode ищет код по точному совпадению (код хранится в верхнем регистре).
// Среди нескольких строк с одинаковым кодом берется самая свежая.
func (r *LinkingRepositoryImpl) FindByCode(code string) (*models.LinkingCode, error) {
	var lc models.LinkingCode
	err := r.db.Where("code = ?", code).Order("created_at DESC").First(&lc).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCodeNotFound
		}
		return nil, err
	}
	return &lc, nil
}

func (r *LinkingRepositoryImpl) RedeemCode(codeID, patientID, caregiverID string, now time.Time) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		// 1. Создаем связь. Уникальный индекс на пару - арбитр AlreadyLinked.
		link := &models.PatientCaregiver{
			PatientID:   patientID,
			CaregiverID: caregiverID,
		}
		if err := tx.Create(link).Error; err != nil {
			if isDuplicateKeyError(err) {
				return ErrPairExists
			}
			return err
		}

		// 2. Условный UPDATE - единственный арбитр гонки двух опекунов.
		// Никогда не read-then-write: проверка и установка в одном запросе.
		result := tx.Model(&models.LinkingCode{}).
			Where("id = ? AND used_by IS NULL AND expires_at > ?", codeID, now).
			Updates(map[string]interface{}{
				"used_by": caregiverID,
				"used_at": now,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			// Кто-то успел первым - откатываем и созданную связь
			return ErrCodeTaken
		}

		return nil
	})
}

func (r *LinkingRepositoryImpl) LinkExists(patientID, caregiverID string) (bool, error) {
	var count int64
	err := r.db.Model(&models.PatientCaregiver{}).
		Where("patient_id = ? AND caregiver_id = ?", patientID, caregiverID).
		Count(&count).Error
	return count > 0, err
}

func (r *LinkingRepositoryImpl) FindCaregiverIDs(patientID string) ([]string, error) {
	var ids []string
	err := r.db.Model(&models.PatientCaregiver{}).
		Where("patient_id = ?", patientID).
		Order("created_at ASC").
		Pluck("caregiver_id", &ids).Error
	return ids, err
}

func (r *LinkingRepositoryImpl) FindPatientIDs(caregiverID string) ([]string, error) {
	var ids []string
	err := r.db.Model(&models.PatientCaregiver{}).
		Where("caregiver_id = ?", caregiverID).
		Order("created_at ASC").
		Pluck("patient_id", &ids).Error
	return ids, err
}

func (r *LinkingRepositoryImpl) CountCaregivers(patientID string) (int64, error) {
	var count int64
	err := r.db.Model(&models.PatientCaregiver{}).
		Where("patient_id = ?", patientID).Count(&count).Error
	return count, err
}

func (r *LinkingRepositoryImpl) CountPatients(caregiverID string) (int64, error) {
	var count int64
	err := r.db.Model(&models.PatientCaregiver{}).
		Where("caregiver_id = ?", caregiverID).Count(&count).Error
	return count, err
}

// isDuplicateKeyError распознает нарушение уникального индекса
func isDuplicateKeyError(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	return strings.Contains(err.Error(), "duplicate key")
}
