package model

import "time"

const (
	TicketAvailable   = "AVAILABLE"
	TicketReserved    = "RESERVED"
	TicketSold        = "SOLD"
	TicketTransferred = "TRANSFERRED"
)

type Ticket struct {
	DTO
	TicketCode string `gorm:"size:30;uniqueIndex" json:"ticketCode"`
	Status     string `gorm:"not null;default:'AVAILABLE'" json:"status"`

	// Price snapshot taken when the ticket is reserved, independent of later
	// ticket type price changes.
	Price float64 `json:"price"`

	TicketTypeId uint  `gorm:"not null;index" json:"ticketTypeId"`
	OrderItemId  *uint `gorm:"default:null;index" json:"orderItemId"`
	ClientId     *uint `gorm:"default:null" json:"clientId"` // owner, set at sale

	TransferCount  int        `gorm:"not null;default:0" json:"transferCount"`
	LastTransferAt *time.Time `json:"lastTransferAt,omitempty"`

	AttendeeName     string `json:"attendeeName"`
	AttendeeDocument string `json:"attendeeDocument"`

	TicketType TicketType `gorm:"foreignKey:TicketTypeId" json:"-"`
	Client     *Client    `gorm:"foreignKey:ClientId" json:"-"`
}

type AttendeeInput struct {
	Name     string `json:"name" validate:"required"`
	Document string `json:"document" validate:"required"`
}

type AssignAttendeeInput struct {
	Name     string `json:"name" validate:"required"`
	Document string `json:"document" validate:"required"`
}
