package model

import "time"

const (
	EventUpcoming = "UPCOMING"
	EventOngoing  = "ONGOING"
	EventEnded    = "ENDED"
)

type Event struct {
	DTO
	Name      string    `gorm:"not null" json:"name"`
	Slug      string    `gorm:"uniqueIndex" json:"slug"`
	Venue     string    `json:"venue"`
	StartTime time.Time `gorm:"not null" json:"startTime"`
	EndTime   time.Time `gorm:"not null" json:"endTime"`
	Status    string    `gorm:"not null;default:'UPCOMING'" json:"status"`

	// Transfer policy, enforced per ticket of this event
	MaxTransfers  int `gorm:"not null;default:2" json:"maxTransfers"`
	CooldownHours int `gorm:"not null;default:48" json:"cooldownHours"`

	TicketTypes []TicketType `gorm:"foreignKey:EventId" json:"ticketTypes,omitempty"`
}

type CreateEventInput struct {
	Name          string    `json:"name" validate:"required"`
	Venue         string    `json:"venue" validate:"required"`
	StartTime     time.Time `json:"startTime" validate:"required"`
	EndTime       time.Time `json:"endTime" validate:"required,gtfield=StartTime"`
	MaxTransfers  int       `json:"maxTransfers" validate:"gte=0"`
	CooldownHours int       `json:"cooldownHours" validate:"gte=0"`
}
