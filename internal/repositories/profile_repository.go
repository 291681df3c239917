package repositories

import (
	"errors"

	"assist_backend/internal/models"

	"gorm.io/gorm"
)

var ErrProfileNotFound = errors.New("profile not found")

type ProfileRepository interface {
	Create(profile *models.Profile) error
	FindByUserID(userID string) (*models.Profile, error)
	FindByUserIDs(userIDs []string) ([]models.Profile, error)
	UpdateFullName(userID, fullName string) error
}

type ProfileRepositoryImpl struct {
	db *gorm.DB
}

func NewProfileRepository(db *gorm.DB) ProfileRepository {
	return &ProfileRepositoryImpl{db: db}
}

func (r *ProfileRepositoryImpl) Create(profile *models.Profile) error {
	return r.db.Create(profile).Error
}

func (r *ProfileRepositoryImpl) FindByUserID(userID string) (*models.Profile, error) {
	var profile models.Profile
	err := r.db.First(&profile, "user_id = ?", userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	return &profile, nil
}

func (r *ProfileRepositoryImpl) FindByUserIDs(userIDs []string) ([]models.Profile, error) {
	var profiles []models.Profile
	if len(userIDs) == 0 {
		return profiles, nil
	}
	err := r.db.Where("user_id IN ?", userIDs).Find(&profiles).Error
	return profiles, err
}

func (r *ProfileRepositoryImpl) UpdateFullName(userID, fullName string) error {
	result := r.db.Model(&models.Profile{}).Where("user_id = ?", userID).Update("full_name", fullName)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrProfileNotFound
	}
	return nil
}
