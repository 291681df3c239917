package models

// CustomButton - кнопка быстрого действия пациента.
// Нажатие создает Request с label/description этой кнопки.
type CustomButton struct {
	BaseModel
	PatientID   string `gorm:"not null;index"`
	Label       string `gorm:"not null"`
	Description string
	Color       string `gorm:"default:'blue'"` // blue, green, red, purple, yellow, pink
	IconType    string
	Urgent      bool `gorm:"default:false"`
	OrderIndex  int  `gorm:"default:0"`
}
