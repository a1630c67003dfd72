package model

import "time"

// TransferRecord is an append-only audit row, never updated after creation.
type TransferRecord struct {
	DTO
	PublicCode    string    `gorm:"unique;size:20" json:"publicCode"`
	TicketId      uint      `gorm:"not null;index" json:"ticketId"`
	FromClientId  uint      `gorm:"not null" json:"fromClientId"`
	ToClientId    uint      `gorm:"not null" json:"toClientId"`
	TransferredAt time.Time `gorm:"not null" json:"transferredAt"`
}

type TransferInput struct {
	ReceiverEmail    string `json:"receiverEmail" validate:"required,email"`
	ReceiverName     string `json:"receiverName" validate:"required"`
	ReceiverDocument string `json:"receiverDocument" validate:"required"`
	ReceiverPhone    string `json:"receiverPhone" validate:"required"`
}

// TransferPreview is returned by verification so the caller can show the
// outcome before committing.
type TransferPreview struct {
	TicketCode     string `json:"ticketCode"`
	ReceiverName   string `json:"receiverName"`
	ReceiverEmail  string `json:"receiverEmail"`
	TransfersUsed  int    `json:"transfersUsed"`
	MaxTransfers   int    `json:"maxTransfers"`
	CooldownHours  int    `json:"cooldownHours"`
	TransferNumber int    `json:"transferNumber"`
}
