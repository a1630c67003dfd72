package model

import "time"

type TicketType struct {
	DTO
	EventId uint   `gorm:"not null;index" json:"eventId"`
	Event   Event  `gorm:"foreignKey:EventId" json:"-"`
	Name    string `gorm:"not null" json:"name"`

	Price float64 `gorm:"not null" json:"price"`

	// Stock is the immutable initial allotment. Available + Sold == Stock always:
	// reserving carves units out of Available (and into Sold) in the same update.
	Stock     int `gorm:"not null" json:"stock"`
	Available int `gorm:"not null" json:"available"`
	Sold      int `gorm:"not null;default:0" json:"sold"`

	SaleStart time.Time `json:"saleStart"`
	SaleEnd   time.Time `json:"saleEnd"`
	IsActive  bool      `gorm:"default:true" json:"isActive"`
}

type CreateTicketTypeInput struct {
	EventId   uint      `json:"eventId" validate:"required,gt=0"`
	Name      string    `json:"name" validate:"required"`
	Price     float64   `json:"price" validate:"required,gte=0"`
	Stock     int       `json:"stock" validate:"required,gt=0"`
	SaleStart time.Time `json:"saleStart" validate:"required"`
	SaleEnd   time.Time `json:"saleEnd" validate:"required,gtfield=SaleStart"`
}

type FilterTicketTypeInput struct {
	Pagination
	EventId  uint  `json:"eventId" validate:"omitempty,gt=0"`
	IsActive *bool `json:"isActive"`
}
