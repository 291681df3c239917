package dto

// SaveSettingsRequest - сохранение настроек доступности владельцем
type SaveSettingsRequest struct {
	FontSize         string `json:"font_size" binding:"omitempty,oneof=normal large extra-large"`
	HighContrast     bool   `json:"high_contrast"`
	ReduceMotion     bool   `json:"reduce_motion"`
	ScreenReaderMode bool   `json:"screen_reader_mode"`
	DarkMode         bool   `json:"dark_mode"`
}

// SettingsResponse - текущие настройки доступности
type SettingsResponse struct {
	FontSize         string `json:"font_size"`
	HighContrast     bool   `json:"high_contrast"`
	ReduceMotion     bool   `json:"reduce_motion"`
	ScreenReaderMode bool   `json:"screen_reader_mode"`
	DarkMode         bool   `json:"dark_mode"`
}
