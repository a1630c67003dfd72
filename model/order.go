package model

import "time"

const (
	OrderPending  = "PENDING"
	OrderApproved = "APPROVED"
	OrderRejected = "REJECTED"
	OrderVoided   = "VOIDED"
)

const (
	DiscountNone   = "NONE"
	DiscountPromo  = "PROMO"
	DiscountPoints = "POINTS"
)

type Order struct {
	DTO
	PublicCode string `gorm:"unique;size:20" json:"publicCode"`
	ClientId   uint   `gorm:"not null;index" json:"clientId"`
	Client     Client `gorm:"foreignKey:ClientId" json:"-"`

	Status   string  `gorm:"not null;default:'PENDING'" json:"status"`
	Subtotal float64 `json:"subtotal"`
	Discount float64 `json:"discount"`
	Total    float64 `json:"total"`

	// PROMO and POINTS are mutually exclusive
	DiscountSource string `gorm:"not null;default:'NONE'" json:"discountSource"`

	ExpiresAt   time.Time  `gorm:"not null" json:"expiresAt"`
	ApprovedAt  *time.Time `json:"approvedAt,omitempty"`
	CancelledAt *time.Time `json:"cancelledAt,omitempty"`

	Items []OrderItem `gorm:"foreignKey:OrderId" json:"items,omitempty"`
}

type OrderItem struct {
	DTO
	OrderId      uint       `gorm:"not null;index" json:"orderId"`
	TicketTypeId uint       `gorm:"not null" json:"ticketTypeId"`
	TicketType   TicketType `gorm:"foreignKey:TicketTypeId" json:"-"`

	Quantity   int     `gorm:"not null" json:"quantity"`
	UnitPrice  float64 `gorm:"not null" json:"unitPrice"`
	Discount   float64 `json:"discount"`
	FinalPrice float64 `json:"finalPrice"`

	Tickets []Ticket `gorm:"foreignKey:OrderItemId" json:"tickets,omitempty"`
}

type CreateOrderItemInput struct {
	TicketTypeId uint            `json:"ticketTypeId" validate:"required,gt=0"`
	Quantity     int             `json:"quantity" validate:"required,gt=0"`
	Attendees    []AttendeeInput `json:"attendees" validate:"required,dive"`
}

type CreateOrderInput struct {
	Items []CreateOrderItemInput `json:"items" validate:"required,min=1,dive"`
}

type ApplyPromoInput struct {
	Amount float64 `json:"amount" validate:"required,gt=0"`
}

type FilterOrderInput struct {
	Pagination
	Status    string     `json:"status" validate:"omitempty,oneof=PENDING APPROVED REJECTED VOIDED"`
	StartDate *time.Time `json:"startDate" validate:"omitempty"`
	EndDate   *time.Time `json:"endDate" validate:"omitempty"`
}
