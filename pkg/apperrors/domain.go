package apperrors

import (
	"net/http"
)

/*
Фабрики и предопределенные переменные для доменных ошибок:
связывание (linking), заявки (requests), чат (chat).
*/

// ErrNotFound - фабрика для ошибки "не найдено" (404)
// Используется, когда ошибка репозитория (типа gorm.ErrRecordNotFound)
// должна быть преобразована в AppError.
func ErrNotFound(err error) *AppError {
	return Wrap(err, CodeNotFound, "resource", "Resource not found", http.StatusNotFound)
}

// --- Linking ---

// ErrCodeNotFound - код связывания не найден.
var ErrCodeNotFound = New(
	CodeNotFound,
	"linking",
	"Invalid code",
	http.StatusNotFound,
)

// ErrCodeExpired - срок действия кода истек (24 часа).
var ErrCodeExpired = New(
	CodeCodeExpired,
	"linking",
	"Code has expired",
	http.StatusGone,
)

// ErrCodeAlreadyUsed - код уже был погашен другим опекуном.
var ErrCodeAlreadyUsed = New(
	CodeCodeAlreadyUsed,
	"linking",
	"Code has already been used",
	http.StatusConflict,
)

// ErrAlreadyLinked - пара пациент-опекун уже существует.
var ErrAlreadyLinked = New(
	CodeAlreadyLinked,
	"linking",
	"Already linked to this patient",
	http.StatusConflict,
)

// --- Requests ---

// ErrNoCaregiverLinked - у пациента нет ни одного привязанного опекуна.
var ErrNoCaregiverLinked = New(
	CodeNoCaregiverLinked,
	"requests",
	"No caregivers linked. Please link a caregiver first",
	http.StatusPreconditionFailed,
)

// ErrRequestNotFound - заявка не найдена.
var ErrRequestNotFound = New(
	CodeNotFound,
	"requests",
	"Request not found",
	http.StatusNotFound,
)

// ErrRequestAlreadyCompleted - заявка уже завершена (повторное завершение).
var ErrRequestAlreadyCompleted = New(
	CodeConflict,
	"requests",
	"Request is already completed",
	http.StatusConflict,
)

// ErrNotAssignedCaregiver - завершить заявку может только назначенный опекун.
var ErrNotAssignedCaregiver = New(
	CodeForbidden,
	"requests",
	"Only the assigned caregiver may complete this request",
	http.StatusForbidden,
)

// --- Chat ---

// ErrThreadAccessDenied - пользователь не является стороной заявки.
var ErrThreadAccessDenied = New(
	CodeForbidden,
	"chat",
	"Access to this thread denied",
	http.StatusForbidden,
)

// --- Auth & Users ---

var ErrInvalidCredentials = New(
	CodeInvalidCredentials,
	"auth",
	"Invalid email or password",
	http.StatusUnauthorized,
)

var ErrInvalidToken = New(
	CodeInvalidToken,
	"auth",
	"Invalid or expired token",
	http.StatusUnauthorized,
)

var ErrEmailAlreadyExists = New(
	CodeAlreadyExists,
	"auth",
	"User with this email already exists",
	http.StatusConflict,
)

var ErrWeakPassword = New(
	CodeValidationFailed,
	"auth",
	"Password must be at least 8 characters long",
	http.StatusBadRequest,
)

// ErrInvalidUserRole - используется, когда операция не предусмотрена для роли пользователя.
var ErrInvalidUserRole = New(
	CodeInvalidOperation,
	"business_logic",
	"Invalid user role for this operation",
	http.StatusBadRequest,
)

var ErrUserNotVerified = New(
	CodeForbidden,
	"auth",
	"Email is not verified",
	http.StatusForbidden,
)
