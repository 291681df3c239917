package dto

import (
	"time"

	"assist_backend/internal/models"
)

// CreateRequestRequest - нажатие кнопки быстрого действия
type CreateRequestRequest struct {
	ButtonID    *string `json:"button_id,omitempty"`
	ButtonLabel string  `json:"button_label" binding:"required,max=120"`
	RequestText string  `json:"request_text" binding:"max=2000"`
	Urgent      bool    `json:"urgent"`
}

// CompleteRequestRequest - завершение заявки опекуном
type CompleteRequestRequest struct {
	ResponseText *string `json:"response_text,omitempty" binding:"omitempty,max=2000"`
}

// HistoryQuery - параметры истории заявок пациента
type HistoryQuery struct {
	Limit int `form:"limit" binding:"omitempty,min=1,max=50"`
}

// RequestResponse - представление заявки
type RequestResponse struct {
	ID           string               `json:"id"`
	PatientID    string               `json:"patient_id"`
	CaregiverID  string               `json:"caregiver_id"`
	ButtonLabel  string               `json:"button_label"`
	RequestText  string               `json:"request_text,omitempty"`
	Status       models.RequestStatus `json:"status"`
	Urgent       bool                 `json:"urgent"`
	ResponseText *string              `json:"response_text,omitempty"`
	CreatedAt    time.Time            `json:"created_at"`
	CompletedAt  *time.Time           `json:"completed_at,omitempty"`
}

// PendingCountResponse - бейдж незавершенных заявок
type PendingCountResponse struct {
	Pending int64 `json:"pending"`
}

// QueueResponse - очередь опекуна
type QueueResponse struct {
	Requests []*RequestResponse `json:"requests"`
	Total    int                `json:"total"`
}
