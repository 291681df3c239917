package models

type UserStatus string
type UserRole string
type RequestStatus string

const (
	UserStatusPending   UserStatus = "pending"
	UserStatusActive    UserStatus = "active"
	UserStatusSuspended UserStatus = "suspended"

	UserRolePatient   UserRole = "patient"
	UserRoleCaregiver UserRole = "caregiver"

	// Жизненный цикл заявки: pending -> completed (терминальный).
	// Состояний cancelled/rejected нет, заявка не переоткрывается.
	RequestStatusPending   RequestStatus = "pending"
	RequestStatusCompleted RequestStatus = "completed"
)
