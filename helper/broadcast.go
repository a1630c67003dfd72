package helper

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"ticket_manager/database"
	"ticket_manager/model"
)

type TypeAvailability struct {
	TicketTypeId uint    `json:"ticketTypeId"`
	Name         string  `json:"name"`
	Price        float64 `json:"price"`
	Available    int     `json:"available"`
	Sold         int     `json:"sold"`
	IsActive     bool    `json:"isActive"`
}

// EventChannel is the redis pub/sub channel carrying availability snapshots
// for one event. Websocket subscribers listen on it.
func EventChannel(eventID uint) string {
	return fmt.Sprintf("event:%d", eventID)
}

// BroadcastAvailability publishes the current per-type availability of each
// event to its channel. Best effort: no redis, no broadcast.
func BroadcastAvailability(eventIDs ...uint) {
	if database.Redis == nil || len(eventIDs) == 0 {
		return
	}

	for _, eventID := range eventIDs {
		snapshot, err := AvailabilitySnapshot(eventID)
		if err != nil {
			log.Printf("Availability snapshot for event %d failed: %v", eventID, err)
			continue
		}
		payload, err := json.Marshal(snapshot)
		if err != nil {
			continue
		}
		if err := database.Redis.Publish(context.Background(), EventChannel(eventID), payload).Err(); err != nil {
			log.Printf("Availability broadcast for event %d failed: %v", eventID, err)
		}
	}
}

func AvailabilitySnapshot(eventID uint) ([]TypeAvailability, error) {
	var types []model.TicketType
	if err := database.DB.
		Where("event_id = ?", eventID).
		Order("id asc").
		Find(&types).Error; err != nil {
		return nil, err
	}

	snapshot := make([]TypeAvailability, 0, len(types))
	for _, tt := range types {
		snapshot = append(snapshot, TypeAvailability{
			TicketTypeId: tt.ID,
			Name:         tt.Name,
			Price:        tt.Price,
			Available:    tt.Available,
			Sold:         tt.Sold,
			IsActive:     tt.IsActive,
		})
	}
	return snapshot, nil
}
