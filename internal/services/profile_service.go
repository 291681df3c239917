package services

import (
	"assist_backend/internal/repositories"
	"assist_backend/internal/services/dto"
	"assist_backend/pkg/apperrors"
)

type ProfileService interface {
	// Me возвращает профиль текущего пользователя
	Me(userID string) (*dto.ProfileResponse, error)
	UpdateFullName(userID, fullName string) (*dto.ProfileResponse, error)
}

type profileService struct {
	userRepo    repositories.UserRepository
	profileRepo repositories.ProfileRepository
}

func NewProfileService(
	userRepo repositories.UserRepository,
	profileRepo repositories.ProfileRepository,
) ProfileService {
	return &profileService{
		userRepo:    userRepo,
		profileRepo: profileRepo,
	}
}

func (s *profileService) Me(userID string) (*dto.ProfileResponse, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.StoreFailure(err)
	}

	resp := &dto.ProfileResponse{
		ID:        user.ID,
		Email:     user.Email,
		Role:      user.Role,
		CreatedAt: user.CreatedAt,
	}
	if user.Profile != nil {
		resp.FullName = user.Profile.FullName
	}
	return resp, nil
}

func (s *profileService) UpdateFullName(userID, fullName string) (*dto.ProfileResponse, error) {
	if err := s.profileRepo.UpdateFullName(userID, fullName); err != nil {
		if apperrors.Is(err, repositories.ErrProfileNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.StoreFailure(err)
	}
	return s.Me(userID)
}
