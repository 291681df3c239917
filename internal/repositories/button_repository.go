package repositories

import (
	"errors"
	"time"

	"assist_backend/internal/models"

	"gorm.io/gorm"
)

var ErrButtonNotFound = errors.New("custom button not found")

type ButtonRepository interface {
	Create(button *models.CustomButton) error
	FindByID(id string) (*models.CustomButton, error)
	FindByPatient(patientID string) ([]models.CustomButton, error)
	Update(button *models.CustomButton) error
	Delete(id string) error
}

type ButtonRepositoryImpl struct {
	db *gorm.DB
}

func NewButtonRepository(db *gorm.DB) ButtonRepository {
	return &ButtonRepositoryImpl{db: db}
}

func (r *ButtonRepositoryImpl) Create(button *models.CustomButton) error {
	return r.db.Create(button).Error
}

func (r *ButtonRepositoryImpl) FindByID(id string) (*models.CustomButton, error) {
	var button models.CustomButton
	err := r.db.First(&button, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrButtonNotFound
		}
		return nil, err
	}
	return &button, nil
}

func (r *ButtonRepositoryImpl) FindByPatient(patientID string) ([]models.CustomButton, error) {
	var buttons []models.CustomButton
	err := r.db.
		Where("patient_id = ?", patientID).
		Order("order_index ASC").
		Find(&buttons).Error
	return buttons, err
}

func (r *ButtonRepositoryImpl) Update(button *models.CustomButton) error {
	result := r.db.Model(button).Updates(map[string]interface{}{
		"label":       button.Label,
		"description": button.Description,
		"color":       button.Color,
		"icon_type":   button.IconType,
		"urgent":      button.Urgent,
		"order_index": button.OrderIndex,
		"updated_at":  time.Now(),
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrButtonNotFound
	}
	return nil
}

func (r *ButtonRepositoryImpl) Delete(id string) error {
	return r.db.Delete(&models.CustomButton{}, "id = ?", id).Error
}
