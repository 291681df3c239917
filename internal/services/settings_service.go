package services

import (
	"assist_backend/internal/models"
	"assist_backend/internal/repositories"
	"assist_backend/internal/services/dto"
	"assist_backend/pkg/apperrors"
)

type SettingsService interface {
	// GetSettings возвращает настройки владельца; если их еще нет,
	// отдаются значения по умолчанию без записи в базу.
	GetSettings(userID string) (*dto.SettingsResponse, error)
	SaveSettings(userID string, req *dto.SaveSettingsRequest) (*dto.SettingsResponse, error)
}

type settingsService struct {
	settingsRepo repositories.SettingsRepository
}

func NewSettingsService(settingsRepo repositories.SettingsRepository) SettingsService {
	return &settingsService{settingsRepo: settingsRepo}
}

func (s *settingsService) GetSettings(userID string) (*dto.SettingsResponse, error) {
	settings, err := s.settingsRepo.FindByUserID(userID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrSettingsNotFound) {
			return &dto.SettingsResponse{FontSize: "normal"}, nil
		}
		return nil, apperrors.StoreFailure(err)
	}
	return buildSettingsResponse(settings), nil
}

func (s *settingsService) SaveSettings(userID string, req *dto.SaveSettingsRequest) (*dto.SettingsResponse, error) {
	fontSize := req.FontSize
	if fontSize == "" {
		fontSize = "normal"
	}

	settings := &models.AccessibilitySettings{
		UserID:           userID,
		FontSize:         fontSize,
		HighContrast:     req.HighContrast,
		ReduceMotion:     req.ReduceMotion,
		ScreenReaderMode: req.ScreenReaderMode,
		DarkMode:         req.DarkMode,
	}
	if err := s.settingsRepo.Upsert(settings); err != nil {
		return nil, apperrors.StoreFailure(err)
	}
	return buildSettingsResponse(settings), nil
}

func buildSettingsResponse(s *models.AccessibilitySettings) *dto.SettingsResponse {
	return &dto.SettingsResponse{
		FontSize:         s.FontSize,
		HighContrast:     s.HighContrast,
		ReduceMotion:     s.ReduceMotion,
		ScreenReaderMode: s.ScreenReaderMode,
		DarkMode:         s.DarkMode,
	}
}
