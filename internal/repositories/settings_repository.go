package repositories

import (
	"errors"

	"assist_backend/internal/models"

	"gorm.io/gorm"
)

var ErrSettingsNotFound = errors.New("accessibility settings not found")

type SettingsRepository interface {
	FindByUserID(userID string) (*models.AccessibilitySettings, error)
	Upsert(settings *models.AccessibilitySettings) error
}

type SettingsRepositoryImpl struct {
	db *gorm.DB
}

func NewSettingsRepository(db *gorm.DB) SettingsRepository {
	return &SettingsRepositoryImpl{db: db}
}

func (r *SettingsRepositoryImpl) FindByUserID(userID string) (*models.AccessibilitySettings, error) {
	var settings models.AccessibilitySettings
	err := r.db.First(&settings, "user_id = ?", userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSettingsNotFound
		}
		return nil, err
	}
	return &settings, nil
}

// Upsert обновляет настройки владельца, создавая строку при первом сохранении
func (r *SettingsRepositoryImpl) Upsert(settings *models.AccessibilitySettings) error {
	var existing models.AccessibilitySettings
	err := r.db.First(&existing, "user_id = ?", settings.UserID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return r.db.Create(settings).Error
		}
		return err
	}

	return r.db.Model(&existing).Updates(map[string]interface{}{
		"font_size":          settings.FontSize,
		"high_contrast":      settings.HighContrast,
		"reduce_motion":      settings.ReduceMotion,
		"screen_reader_mode": settings.ScreenReaderMode,
		"dark_mode":          settings.DarkMode,
	}).Error
}
