package model

type Client struct {
	DTO
	Name     string `gorm:"not null" json:"name"`
	Email    string `gorm:"unique;not null" json:"email"`
	Phone    string `gorm:"not null" json:"phone"`
	Document string `gorm:"uniqueIndex;not null" json:"document"`
	Password string `gorm:"not null" json:"-"`

	IsActive bool `gorm:"default:true" json:"isActive"`
}

type RegisterClientInput struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone" validate:"required"`
	Document string `json:"document" validate:"required"`
	Password string `json:"password" validate:"required,min=6"`
}

type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}
