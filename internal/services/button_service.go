package services

import (
	"assist_backend/internal/models"
	"assist_backend/internal/repositories"
	"assist_backend/internal/services/dto"
	"assist_backend/pkg/apperrors"
)

type ButtonService interface {
	// ListButtons - кнопки пациента в порядке order_index
	ListButtons(patientID string) ([]*dto.ButtonResponse, error)
	CreateButton(patientID string, req *dto.CreateButtonRequest) (*dto.ButtonResponse, error)
	UpdateButton(patientID, buttonID string, req *dto.UpdateButtonRequest) (*dto.ButtonResponse, error)
	DeleteButton(patientID, buttonID string) error
}

type buttonService struct {
	buttonRepo repositories.ButtonRepository
}

func NewButtonService(buttonRepo repositories.ButtonRepository) ButtonService {
	return &buttonService{buttonRepo: buttonRepo}
}

func (s *buttonService) ListButtons(patientID string) ([]*dto.ButtonResponse, error) {
	buttons, err := s.buttonRepo.FindByPatient(patientID)
	if err != nil {
		return nil, apperrors.StoreFailure(err)
	}

	items := make([]*dto.ButtonResponse, 0, len(buttons))
	for i := range buttons {
		items = append(items, buildButtonResponse(&buttons[i]))
	}
	return items, nil
}

func (s *buttonService) CreateButton(patientID string, req *dto.CreateButtonRequest) (*dto.ButtonResponse, error) {
	color := req.Color
	if color == "" {
		color = "blue"
	}

	button := &models.CustomButton{
		PatientID:   patientID,
		Label:       req.Label,
		Description: req.Description,
		Color:       color,
		IconType:    req.IconType,
		Urgent:      req.Urgent,
		OrderIndex:  req.OrderIndex,
	}
	if err := s.buttonRepo.Create(button); err != nil {
		return nil, apperrors.StoreFailure(err)
	}
	return buildButtonResponse(button), nil
}

func (s *buttonService) UpdateButton(patientID, buttonID string, req *dto.UpdateButtonRequest) (*dto.ButtonResponse, error) {
	button, err := s.findOwned(patientID, buttonID)
	if err != nil {
		return nil, err
	}

	if req.Label != nil {
		button.Label = *req.Label
	}
	if req.Description != nil {
		button.Description = *req.Description
	}
	if req.Color != nil {
		button.Color = *req.Color
	}
	if req.IconType != nil {
		button.IconType = *req.IconType
	}
	if req.Urgent != nil {
		button.Urgent = *req.Urgent
	}
	if req.OrderIndex != nil {
		button.OrderIndex = *req.OrderIndex
	}

	if err := s.buttonRepo.Update(button); err != nil {
		if apperrors.Is(err, repositories.ErrButtonNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.StoreFailure(err)
	}
	return buildButtonResponse(button), nil
}

func (s *buttonService) DeleteButton(patientID, buttonID string) error {
	if _, err := s.findOwned(patientID, buttonID); err != nil {
		return err
	}
	if err := s.buttonRepo.Delete(buttonID); err != nil {
		return apperrors.StoreFailure(err)
	}
	return nil
}

// findOwned находит кнопку и проверяет, что она принадлежит пациенту.
// Чужая кнопка отдается как 404, не 403, чтобы не раскрывать ее наличие.
func (s *buttonService) findOwned(patientID, buttonID string) (*models.CustomButton, error) {
	button, err := s.buttonRepo.FindByID(buttonID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrButtonNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.StoreFailure(err)
	}
	if button.PatientID != patientID {
		return nil, apperrors.ErrNotFound(repositories.ErrButtonNotFound)
	}
	return button, nil
}

func buildButtonResponse(b *models.CustomButton) *dto.ButtonResponse {
	return &dto.ButtonResponse{
		ID:          b.ID,
		Label:       b.Label,
		Description: b.Description,
		Color:       b.Color,
		IconType:    b.IconType,
		Urgent:      b.Urgent,
		OrderIndex:  b.OrderIndex,
	}
}
