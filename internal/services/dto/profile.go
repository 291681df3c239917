package dto

import (
	"time"

	"assist_backend/internal/models"
)

// ProfileResponse - публичное представление пользователя
type ProfileResponse struct {
	ID        string          `json:"id"`
	Email     string          `json:"email,omitempty"`
	FullName  string          `json:"full_name"`
	Role      models.UserRole `json:"role"`
	CreatedAt time.Time       `json:"created_at"`
}

// LinkedProfileResponse - элемент списка привязанных пациентов/опекунов
type LinkedProfileResponse struct {
	UserID   string `json:"user_id"`
	FullName string `json:"full_name"`
}
