package models

// AccessibilitySettings - набор настроек доступности пользователя.
// Обновляется только владельцем (upsert).
type AccessibilitySettings struct {
	BaseModel
	UserID           string `gorm:"uniqueIndex;not null"`
	FontSize         string `gorm:"default:'normal'"` // normal, large, extra-large
	HighContrast     bool   `gorm:"default:false"`
	ReduceMotion     bool   `gorm:"default:false"`
	ScreenReaderMode bool   `gorm:"default:false"`
	DarkMode         bool   `gorm:"default:false"`
}
