package services

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"

	"assist_backend/internal/logger"
	"assist_backend/internal/metrics"
	"assist_backend/internal/models"
	"assist_backend/internal/repositories"
	"assist_backend/internal/services/dto"
	"assist_backend/pkg/apperrors"
)

type LinkingService interface {
	// IssueCode выдает пациенту 6-значный код со сроком жизни TTL.
	// Несколько действующих кодов одного пациента могут сосуществовать.
	IssueCode(patientID string) (*dto.IssueCodeResponse, error)

	// RedeemCode гасит код от имени опекуна и создает связь пациент-опекун.
	RedeemCode(caregiverID string, req *dto.RedeemCodeRequest) (*dto.RedeemCodeResponse, error)

	ListCaregivers(patientID string) ([]*dto.LinkedProfileResponse, error)
	ListPatients(caregiverID string) ([]*dto.LinkedProfileResponse, error)
}

type linkingService struct {
	linkingRepo repositories.LinkingRepository
	userRepo    repositories.UserRepository
	profileRepo repositories.ProfileRepository
	codeTTL     time.Duration
}

func NewLinkingService(
	linkingRepo repositories.LinkingRepository,
	userRepo repositories.UserRepository,
	profileRepo repositories.ProfileRepository,
	codeTTL time.Duration,
) LinkingService {
	return &linkingService{
		linkingRepo: linkingRepo,
		userRepo:    userRepo,
		profileRepo: profileRepo,
		codeTTL:     codeTTL,
	}
}

func (s *linkingService) IssueCode(patientID string) (*dto.IssueCodeResponse, error) {
	// Проверка роли на границе операции: коды выдает только пациент
	if err := s.requireRole(patientID, models.UserRolePatient); err != nil {
		return nil, err
	}

	code, err := GenerateLinkCode()
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	expiresAt := time.Now().Add(s.codeTTL)

	lc := &models.LinkingCode{
		PatientID: patientID,
		Code:      code,
		ExpiresAt: expiresAt,
	}
	if err := s.linkingRepo.CreateCode(lc); err != nil {
		return nil, apperrors.StoreFailure(err)
	}

	metrics.CodesIssued.Inc()
	logger.Info("linking code issued", "patient_id", patientID, "expires_at", expiresAt)

	return &dto.IssueCodeResponse{
		Code:      code,
		ExpiresAt: expiresAt,
	}, nil
}

func (s *linkingService) RedeemCode(caregiverID string, req *dto.RedeemCodeRequest) (*dto.RedeemCodeResponse, error) {
	// Гасить коды может только опекун
	if err := s.requireRole(caregiverID, models.UserRoleCaregiver); err != nil {
		return nil, err
	}

	normalized := strings.ToUpper(strings.TrimSpace(req.Code))

	lc, err := s.linkingRepo.FindByCode(normalized)
	if err != nil {
		if apperrors.Is(err, repositories.ErrCodeNotFound) {
			return nil, apperrors.ErrCodeNotFound
		}
		return nil, apperrors.StoreFailure(err)
	}

	now := time.Now()
	if !now.Before(lc.ExpiresAt) {
		return nil, apperrors.ErrCodeExpired
	}
	if lc.UsedBy != nil {
		return nil, apperrors.ErrCodeAlreadyUsed
	}

	// Атомарное погашение: связь и штамп used_by в одной транзакции.
	// Гонку двух опекунов решает условный UPDATE в репозитории.
	if err := s.linkingRepo.RedeemCode(lc.ID, lc.PatientID, caregiverID, now); err != nil {
		switch {
		case apperrors.Is(err, repositories.ErrPairExists):
			return nil, apperrors.ErrAlreadyLinked
		case apperrors.Is(err, repositories.ErrCodeTaken):
			return nil, apperrors.ErrCodeAlreadyUsed
		default:
			return nil, apperrors.StoreFailure(err)
		}
	}

	metrics.CodesRedeemed.Inc()
	logger.Info("linking code redeemed",
		"patient_id", lc.PatientID, "caregiver_id", caregiverID)

	resp := &dto.RedeemCodeResponse{
		PatientID:   lc.PatientID,
		CaregiverID: caregiverID,
	}
	if profile, err := s.profileRepo.FindByUserID(lc.PatientID); err == nil {
		resp.PatientName = profile.FullName
	}

	return resp, nil
}

func (s *linkingService) ListCaregivers(patientID string) ([]*dto.LinkedProfileResponse, error) {
	ids, err := s.linkingRepo.FindCaregiverIDs(patientID)
	if err != nil {
		return nil, apperrors.StoreFailure(err)
	}
	return s.buildLinkedProfiles(ids)
}

func (s *linkingService) ListPatients(caregiverID string) ([]*dto.LinkedProfileResponse, error) {
	ids, err := s.linkingRepo.FindPatientIDs(caregiverID)
	if err != nil {
		return nil, apperrors.StoreFailure(err)
	}
	return s.buildLinkedProfiles(ids)
}

func (s *linkingService) buildLinkedProfiles(userIDs []string) ([]*dto.LinkedProfileResponse, error) {
	profiles, err := s.profileRepo.FindByUserIDs(userIDs)
	if err != nil {
		return nil, apperrors.StoreFailure(err)
	}

	byID := make(map[string]string, len(profiles))
	for _, p := range profiles {
		byID[p.UserID] = p.FullName
	}

	// Порядок списка повторяет порядок создания связей
	result := make([]*dto.LinkedProfileResponse, 0, len(userIDs))
	for _, id := range userIDs {
		result = append(result, &dto.LinkedProfileResponse{
			UserID:   id,
			FullName: byID[id],
		})
	}
	return result, nil
}

func (s *linkingService) requireRole(userID string, role models.UserRole) error {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return apperrors.NewUnauthorizedError("Unknown user")
		}
		return apperrors.StoreFailure(err)
	}
	if user.Role != role {
		return apperrors.ErrInvalidUserRole
	}
	return nil
}

// GenerateLinkCode возвращает 6-значный цифровой код из криптографически
// стойкого источника. Формат совместим с вводом на экране погашения
// (ровно 6 цифр, ведущие нули сохраняются).
func GenerateLinkCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1_000_000))
	if err != nil {
		return "", fmt.Errorf("failed to read random source: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
