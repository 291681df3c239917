package models

import "time"

// Request - заявка пациента опекуну, созданная нажатием кнопки.
type Request struct {
	BaseModel
	PatientID    string        `gorm:"not null;index"`
	CaregiverID  string        `gorm:"not null;index"`
	ButtonID     *string       `gorm:"index"`
	ButtonLabel  string        `gorm:"not null"`
	RequestText  string        `gorm:"type:text"`
	Status       RequestStatus `gorm:"type:varchar(20);default:'pending';index"`
	Urgent       bool          `gorm:"default:false"`
	ResponseText *string       `gorm:"type:text"`
	CompletedAt  *time.Time
}
