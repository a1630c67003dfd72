package helper

import (
	"fmt"
	"testing"
	"ticket_manager/database"
	"ticket_manager/model"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB opens a fresh in-memory database per test and wires it into the
// package-level handle so the sweeper and broadcast helpers see it too.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// One connection keeps the in-memory database alive and serializes
	// concurrent transactions the way postgres row locks would.
	sqlDB.SetMaxOpenConns(1)

	database.Migrate(db)
	database.DB = db
	return db
}

func seedClient(t *testing.T, db *gorm.DB, name, email, document, phone string) *model.Client {
	t.Helper()
	c := &model.Client{
		Name:     name,
		Email:    email,
		Phone:    phone,
		Document: document,
		Password: "not-a-real-hash",
		IsActive: true,
	}
	require.NoError(t, db.Create(c).Error)
	return c
}

func seedEvent(t *testing.T, db *gorm.DB, maxTransfers, cooldownHours int) *model.Event {
	t.Helper()
	e := &model.Event{
		Name:          "Test Event",
		Slug:          fmt.Sprintf("test-event-%d", time.Now().UnixNano()),
		Venue:         "Test Arena",
		StartTime:     time.Now().Add(24 * time.Hour),
		EndTime:       time.Now().Add(30 * time.Hour),
		Status:        model.EventUpcoming,
		MaxTransfers:  maxTransfers,
		CooldownHours: cooldownHours,
	}
	require.NoError(t, db.Create(e).Error)
	return e
}

// seedTicketType creates an on-sale type with its pre-materialized pool.
func seedTicketType(t *testing.T, db *gorm.DB, eventID uint, price float64, stock int) *model.TicketType {
	t.Helper()
	tt := &model.TicketType{
		EventId:   eventID,
		Name:      "General",
		Price:     price,
		Stock:     stock,
		Available: stock,
		SaleStart: time.Now().Add(-time.Hour),
		SaleEnd:   time.Now().Add(time.Hour),
		IsActive:  true,
	}
	require.NoError(t, db.Create(tt).Error)
	require.NoError(t, CreateTicketPool(db, tt))
	return tt
}

func attendees(n int) []model.AttendeeInput {
	out := make([]model.AttendeeInput, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, model.AttendeeInput{
			Name:     fmt.Sprintf("Guest %d", i+1),
			Document: fmt.Sprintf("DOC-%03d", i+1),
		})
	}
	return out
}

func orderInput(ticketTypeID uint, qty int) model.CreateOrderInput {
	return model.CreateOrderInput{
		Items: []model.CreateOrderItemInput{
			{TicketTypeId: ticketTypeID, Quantity: qty, Attendees: attendees(qty)},
		},
	}
}

func reloadType(t *testing.T, db *gorm.DB, id uint) model.TicketType {
	t.Helper()
	var tt model.TicketType
	require.NoError(t, db.First(&tt, id).Error)
	return tt
}

func reloadOrder(t *testing.T, db *gorm.DB, id uint) model.Order {
	t.Helper()
	var o model.Order
	require.NoError(t, db.Preload("Items").First(&o, id).Error)
	return o
}

func reloadTicket(t *testing.T, db *gorm.DB, id uint) model.Ticket {
	t.Helper()
	var tk model.Ticket
	require.NoError(t, db.First(&tk, id).Error)
	return tk
}
