package dto

// CreateButtonRequest - создание кнопки быстрого действия
type CreateButtonRequest struct {
	Label       string `json:"label" binding:"required,max=120"`
	Description string `json:"description" binding:"max=500"`
	Color       string `json:"color" binding:"omitempty,oneof=blue green red purple yellow pink"`
	IconType    string `json:"icon_type" binding:"max=50"`
	Urgent      bool   `json:"urgent"`
	OrderIndex  int    `json:"order_index"`
}

// UpdateButtonRequest - изменение кнопки
type UpdateButtonRequest struct {
	Label       *string `json:"label,omitempty" binding:"omitempty,max=120"`
	Description *string `json:"description,omitempty" binding:"omitempty,max=500"`
	Color       *string `json:"color,omitempty" binding:"omitempty,oneof=blue green red purple yellow pink"`
	IconType    *string `json:"icon_type,omitempty" binding:"omitempty,max=50"`
	Urgent      *bool   `json:"urgent,omitempty"`
	OrderIndex  *int    `json:"order_index,omitempty"`
}

// ButtonResponse - представление кнопки
type ButtonResponse struct {
	ID          string `json:"id"`
	Label       string `json:"label"`
	Description string `json:"description,omitempty"`
	Color       string `json:"color"`
	IconType    string `json:"icon_type,omitempty"`
	Urgent      bool   `json:"urgent"`
	OrderIndex  int    `json:"order_index"`
}
