package models

// Profile - публичный профиль пользователя.
// Роль фиксируется при регистрации и не меняется.
type Profile struct {
	BaseModel
	UserID   string   `gorm:"uniqueIndex;not null"`
	FullName string   `gorm:"not null"`
	Role     UserRole `gorm:"type:varchar(20);not null"`
}
