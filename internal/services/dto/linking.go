package dto

import "time"

// IssueCodeResponse - выданный код связывания
type IssueCodeResponse struct {
	Code      string    `json:"code"`
	ExpiresAt time.Time `json:"expires_at"`
}

// RedeemCodeRequest - запрос погашения кода опекуном
type RedeemCodeRequest struct {
	Code string `json:"code" binding:"required,len=6"`
}

// RedeemCodeResponse - результат успешного связывания
type RedeemCodeResponse struct {
	PatientID   string `json:"patient_id"`
	CaregiverID string `json:"caregiver_id"`
	PatientName string `json:"patient_name,omitempty"`
}
