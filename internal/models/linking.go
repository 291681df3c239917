package models

import "time"

// LinkingCode - одноразовый код, которым пациент привязывает опекуна.
// Код пригоден к погашению, пока used_by IS NULL и срок не истек.
// Строки никогда не удаляются - остаются как журнал.
type LinkingCode struct {
	BaseModel
	PatientID string    `gorm:"not null;index"`
	Code      string    `gorm:"type:varchar(6);not null;index"`
	ExpiresAt time.Time `gorm:"not null"`
	UsedBy    *string
	UsedAt    *time.Time
}

// PatientCaregiver - связь пациент-опекун, уникальная на пару.
// Создается только успешным погашением кода. Операции удаления нет.
type PatientCaregiver struct {
	BaseModel
	PatientID   string `gorm:"not null;index;uniqueIndex:idx_patient_caregiver_pair"`
	CaregiverID string `gorm:"not null;index;uniqueIndex:idx_patient_caregiver_pair"`
}
