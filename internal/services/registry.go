package services

import (
	"assist_backend/internal/email"
)

// ServiceContainer содержит все сервисы приложения.
type ServiceContainer struct {
	AuthService     AuthService
	ProfileService  ProfileService
	LinkingService  LinkingService
	RequestService  RequestService
	ChatService     ChatService
	ButtonService   ButtonService
	SettingsService SettingsService
	EmailService    email.Provider
}
