package database

import (
	"log"
	"ticket_manager/model"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// SeedData bootstraps a demo event with ticket pools and two clients.
// Runs only on an empty database.
func SeedData(db *gorm.DB) {
	var count int64
	db.Model(&model.Event{}).Count(&count)
	if count > 0 {
		return
	}

	now := time.Now()
	event := model.Event{
		Name:          "Sunset Arena Festival",
		Slug:          "sunset-arena-festival",
		Venue:         "Arena Central",
		StartTime:     now.AddDate(0, 1, 0),
		EndTime:       now.AddDate(0, 1, 1),
		Status:        model.EventUpcoming,
		MaxTransfers:  2,
		CooldownHours: 48,
	}
	if err := db.Create(&event).Error; err != nil {
		log.Printf("Seed event failed: %v", err)
		return
	}

	types := []model.TicketType{
		{EventId: event.ID, Name: "General", Price: 50, Stock: 200, Available: 200, SaleStart: now, SaleEnd: event.StartTime, IsActive: true},
		{EventId: event.ID, Name: "VIP", Price: 150, Stock: 50, Available: 50, SaleStart: now, SaleEnd: event.StartTime, IsActive: true},
	}
	for i := range types {
		if err := db.Create(&types[i]).Error; err != nil {
			log.Printf("Seed ticket type failed: %v", err)
			continue
		}
		// Pre-materialize the ticket pool for the allotment
		tickets := make([]model.Ticket, 0, types[i].Stock)
		for j := 0; j < types[i].Stock; j++ {
			tickets = append(tickets, model.Ticket{
				TicketCode:   "TKT-" + uuid.New().String()[:13],
				Status:       model.TicketAvailable,
				TicketTypeId: types[i].ID,
			})
		}
		if err := db.CreateInBatches(&tickets, 500).Error; err != nil {
			log.Printf("Seed ticket pool failed: %v", err)
		}
	}

	hash, _ := bcrypt.GenerateFromPassword([]byte("123456"), bcrypt.DefaultCost)
	clients := []model.Client{
		{Name: "Ana Gomez", Email: "ana@example.com", Phone: "555-0101", Document: "10000001", Password: string(hash), IsActive: true},
		{Name: "Bruno Diaz", Email: "bruno@example.com", Phone: "555-0102", Document: "10000002", Password: string(hash), IsActive: true},
	}
	if err := db.Create(&clients).Error; err != nil {
		log.Printf("Seed clients failed: %v", err)
	}

	log.Println("Seed data created")
}
