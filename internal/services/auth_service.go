package services

import (
	"crypto/rand"
	"encoding/hex"
	"time"

	"assist_backend/internal/auth"
	"assist_backend/internal/email"
	"assist_backend/internal/logger"
	"assist_backend/internal/models"
	"assist_backend/internal/repositories"
	"assist_backend/internal/services/dto"
	"assist_backend/pkg/apperrors"
)

const refreshTokenTTL = 30 * 24 * time.Hour

type AuthService interface {
	Register(req *dto.RegisterRequest) error
	Login(req *dto.LoginRequest) (*dto.LoginResponse, error)
	RefreshToken(refreshToken string) (*dto.LoginResponse, error)
	Logout(refreshToken string) error
	VerifyEmail(token string) error

	// CleanupExpiredTokens удаляет протухшие refresh-токены.
	// Вызывается фоновым janitor-ом при работе сервера.
	CleanupExpiredTokens() error
}

type AuthServiceImpl struct {
	userRepo     repositories.UserRepository
	profileRepo  repositories.ProfileRepository
	settingsRepo repositories.SettingsRepository
	buttonRepo   repositories.ButtonRepository
	emailProv    email.Provider
}

func NewAuthService(
	userRepo repositories.UserRepository,
	profileRepo repositories.ProfileRepository,
	settingsRepo repositories.SettingsRepository,
	buttonRepo repositories.ButtonRepository,
	emailProv email.Provider,
) AuthService {
	return &AuthServiceImpl{
		userRepo:     userRepo,
		profileRepo:  profileRepo,
		settingsRepo: settingsRepo,
		buttonRepo:   buttonRepo,
		emailProv:    emailProv,
	}
}

// Register - регистрация нового пользователя.
// Создает User + Profile, настройки по умолчанию и стартовые кнопки
// для пациента, затем отправляет письмо верификации.
func (s *AuthServiceImpl) Register(req *dto.RegisterRequest) error {
	if err := auth.ValidatePassword(req.Password); err != nil {
		return apperrors.ErrWeakPassword
	}

	if req.Role != models.UserRolePatient && req.Role != models.UserRoleCaregiver {
		return apperrors.ErrInvalidUserRole
	}

	hashedPassword, err := auth.HashPassword(req.Password)
	if err != nil {
		return apperrors.InternalError(err)
	}

	verificationToken := generateRandomToken()

	user := &models.User{
		Email:             req.Email,
		PasswordHash:      hashedPassword,
		Role:              req.Role,
		Status:            models.UserStatusPending,
		IsVerified:        false,
		VerificationToken: verificationToken,
	}

	if err := s.userRepo.Create(user); err != nil {
		if apperrors.Is(err, repositories.ErrUserAlreadyExists) {
			return apperrors.ErrEmailAlreadyExists
		}
		return apperrors.StoreFailure(err)
	}

	profile := &models.Profile{
		UserID:   user.ID,
		FullName: req.FullName,
		Role:     req.Role,
	}
	if err := s.profileRepo.Create(profile); err != nil {
		// Профиль обязателен - откатываем пользователя
		s.userRepo.Delete(user.ID)
		return apperrors.StoreFailure(err)
	}

	// Настройки по умолчанию - не критично, если не создались
	defaults := &models.AccessibilitySettings{UserID: user.ID, FontSize: "normal"}
	if err := s.settingsRepo.Upsert(defaults); err != nil {
		logger.Warn("failed to create default settings", "error", err, "user_id", user.ID)
	}

	if req.Role == models.UserRolePatient {
		s.seedStarterButtons(user.ID)
	}

	// Письмо верификации - best effort
	go func() {
		if err := s.emailProv.SendVerification(user.Email, verificationToken); err != nil {
			logger.Error("failed to send verification email", "error", err, "email", user.Email)
		}
	}()

	logger.Info("user registered", "user_id", user.ID, "role", user.Role)
	return nil
}

// Login - аутентификация пользователя
func (s *AuthServiceImpl) Login(req *dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := s.userRepo.FindByEmail(req.Email)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, apperrors.StoreFailure(err)
	}

	if !auth.CheckPasswordHash(req.Password, user.PasswordHash) {
		return nil, apperrors.ErrInvalidCredentials
	}

	if user.Status == models.UserStatusSuspended {
		return nil, apperrors.NewForbiddenError("Account is suspended")
	}

	// Вход только после подтверждения почты
	if !user.IsVerified {
		return nil, apperrors.ErrUserNotVerified
	}

	accessToken, err := auth.GenerateToken(user.ID, string(user.Role))
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	refreshToken, err := s.createRefreshToken(user.ID)
	if err != nil {
		return nil, apperrors.StoreFailure(err)
	}

	return &dto.LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         s.buildUserResponse(user),
	}, nil
}

// RefreshToken - обновление access token по refresh token (с ротацией)
func (s *AuthServiceImpl) RefreshToken(refreshToken string) (*dto.LoginResponse, error) {
	token, err := s.userRepo.FindRefreshToken(refreshToken)
	if err != nil {
		return nil, apperrors.ErrInvalidToken
	}

	if time.Now().After(token.ExpiresAt) {
		s.userRepo.DeleteRefreshToken(refreshToken)
		return nil, apperrors.ErrInvalidToken
	}

	user, err := s.userRepo.FindByID(token.UserID)
	if err != nil {
		return nil, apperrors.ErrInvalidToken
	}

	accessToken, err := auth.GenerateToken(user.ID, string(user.Role))
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	// Ротация: старый токен удаляется, выдается новый
	if err := s.userRepo.DeleteRefreshToken(refreshToken); err != nil {
		return nil, apperrors.StoreFailure(err)
	}
	newRefreshToken, err := s.createRefreshToken(user.ID)
	if err != nil {
		return nil, apperrors.StoreFailure(err)
	}

	return &dto.LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: newRefreshToken,
		User:         s.buildUserResponse(user),
	}, nil
}

func (s *AuthServiceImpl) Logout(refreshToken string) error {
	return s.userRepo.DeleteRefreshToken(refreshToken)
}

// VerifyEmail активирует аккаунт по токену из письма
func (s *AuthServiceImpl) VerifyEmail(token string) error {
	user, err := s.userRepo.FindByVerificationToken(token)
	if err != nil {
		return apperrors.ErrInvalidToken
	}

	if err := s.userRepo.VerifyUser(user.ID); err != nil {
		return apperrors.StoreFailure(err)
	}

	logger.Info("email verified", "user_id", user.ID)
	return nil
}

func (s *AuthServiceImpl) CleanupExpiredTokens() error {
	if err := s.userRepo.CleanExpiredRefreshTokens(); err != nil {
		return apperrors.StoreFailure(err)
	}
	return nil
}

func (s *AuthServiceImpl) createRefreshToken(userID string) (string, error) {
	token := generateRandomToken()
	rt := &models.RefreshToken{
		UserID:    userID,
		Token:     token,
		ExpiresAt: time.Now().Add(refreshTokenTTL),
	}
	if err := s.userRepo.CreateRefreshToken(rt); err != nil {
		return "", err
	}
	return token, nil
}

func (s *AuthServiceImpl) buildUserResponse(user *models.User) *dto.ProfileResponse {
	resp := &dto.ProfileResponse{
		ID:        user.ID,
		Email:     user.Email,
		Role:      user.Role,
		CreatedAt: user.CreatedAt,
	}
	if user.Profile != nil {
		resp.FullName = user.Profile.FullName
	}
	return resp
}

// seedStarterButtons создает пациенту стартовый набор кнопок
func (s *AuthServiceImpl) seedStarterButtons(patientID string) {
	starters := []models.CustomButton{
		{PatientID: patientID, Label: "Need Water", Description: "Please bring me some water", Color: "blue", IconType: "droplet", OrderIndex: 0},
		{PatientID: patientID, Label: "Need Help", Description: "I need assistance", Color: "green", IconType: "hand", OrderIndex: 1},
		{PatientID: patientID, Label: "Bathroom", Description: "I need to use the bathroom", Color: "purple", IconType: "door", OrderIndex: 2},
		{PatientID: patientID, Label: "Emergency", Description: "Emergency! Come now", Color: "red", IconType: "alert", Urgent: true, OrderIndex: 3},
	}
	for i := range starters {
		if err := s.buttonRepo.Create(&starters[i]); err != nil {
			logger.Warn("failed to seed starter button", "error", err, "label", starters[i].Label)
		}
	}
}

func generateRandomToken() string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		// crypto/rand не должен падать; паника лучше слабого токена
		panic(err)
	}
	return hex.EncodeToString(b)
}
