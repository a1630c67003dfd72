package helper

import (
	"errors"
	"log"
	"sort"
	"strings"
	"ticket_manager/database"
	"ticket_manager/model"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OrderTTL bounds how long a PENDING order may hold its reservation. Tunable
// via ORDER_TTL_MINUTES in main; the sweeper enforces it.
var OrderTTL = 15 * time.Minute

func GenerateOrderCode() string {
	return "ORD-" + strings.ToUpper(uuid.New().String()[:8])
}

// CreateOrder reserves stock and tickets for every requested item inside one
// transaction. Any failing item rolls the whole order back, so no partial
// reservation ever persists.
func CreateOrder(db *gorm.DB, clientID uint, input model.CreateOrderInput) (*model.Order, error) {
	now := time.Now()

	// Attendee lists are checked up front: one non-blank identity per unit.
	for _, item := range input.Items {
		if len(item.Attendees) != item.Quantity {
			return nil, ErrAttendeeMismatch
		}
		for _, a := range item.Attendees {
			if strings.TrimSpace(a.Name) == "" || strings.TrimSpace(a.Document) == "" {
				return nil, ErrAttendeeMismatch
			}
		}
	}

	var client model.Client
	if err := db.First(&client, "id = ? AND is_active = true", clientID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, err
	}

	// Lock ticket types in ascending id order so two orders touching the same
	// types never take their row locks in opposite order.
	items := make([]model.CreateOrderItemInput, len(input.Items))
	copy(items, input.Items)
	sort.Slice(items, func(i, j int) bool { return items[i].TicketTypeId < items[j].TicketTypeId })

	order := model.Order{
		PublicCode:     GenerateOrderCode(),
		ClientId:       clientID,
		Status:         model.OrderPending,
		DiscountSource: model.DiscountNone,
		ExpiresAt:      now.Add(OrderTTL),
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&order).Error; err != nil {
			return err
		}

		subtotal := 0.0
		for _, item := range items {
			var tt model.TicketType
			if err := tx.First(&tt, item.TicketTypeId).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrTicketTypeNotFound
				}
				return err
			}
			if !tt.IsActive || now.Before(tt.SaleStart) || now.After(tt.SaleEnd) {
				return ErrSaleWindowClosed
			}

			if err := ReserveStock(tx, tt.ID, item.Quantity); err != nil {
				return err
			}

			oi := model.OrderItem{
				OrderId:      order.ID,
				TicketTypeId: tt.ID,
				Quantity:     item.Quantity,
				UnitPrice:    tt.Price,
				FinalPrice:   tt.Price * float64(item.Quantity),
			}
			if err := tx.Create(&oi).Error; err != nil {
				return err
			}

			tickets, err := ReserveTickets(tx, tt.ID, item.Quantity, oi.ID, tt.Price, item.Attendees)
			if err != nil {
				return err
			}
			oi.Tickets = tickets
			subtotal += oi.FinalPrice
			order.Items = append(order.Items, oi)
		}

		order.Subtotal = subtotal
		order.Total = subtotal
		return tx.Model(&model.Order{}).
			Where("id = ?", order.ID).
			Updates(map[string]any{"subtotal": subtotal, "total": subtotal}).Error
	})
	if err != nil {
		return nil, err
	}

	BroadcastAvailability(orderEventIDs(&order)...)
	return &order, nil
}

// ConfirmPayment flips a PENDING order to APPROVED and its tickets to SOLD.
// Confirming an already APPROVED order is a no-op, not an error.
func ConfirmPayment(db *gorm.DB, orderID uint) (*model.Order, error) {
	var order model.Order

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("Items").Preload("Client").First(&order, orderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrOrderNotFound
			}
			return err
		}
		if order.Status == model.OrderApproved {
			return nil
		}

		now := time.Now()
		res := tx.Model(&model.Order{}).
			Where("id = ? AND status = ?", orderID, model.OrderPending).
			Updates(map[string]any{"status": model.OrderApproved, "approved_at": now})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrOrderNotPending
		}

		for _, item := range order.Items {
			if err := ConfirmTickets(tx, item.ID, order.ClientId, item.Quantity); err != nil {
				return err
			}
		}
		order.Status = model.OrderApproved
		order.ApprovedAt = &now
		return nil
	})
	if err != nil {
		return nil, err
	}

	Notify(Notification{
		Type:      NotifyOrderConfirmed,
		Email:     order.Client.Email,
		OrderCode: order.PublicCode,
		Amount:    order.Total,
	})
	return &order, nil
}

// CancelOrder rejects a PENDING order and returns its tickets and stock.
func CancelOrder(db *gorm.DB, orderID uint) (*model.Order, error) {
	order, err := rejectOrder(db, orderID)
	if err != nil {
		return nil, err
	}

	Notify(Notification{
		Type:      NotifyOrderCancelled,
		Email:     order.Client.Email,
		OrderCode: order.PublicCode,
		Amount:    order.Total,
	})
	BroadcastAvailability(orderEventIDs(order)...)
	return order, nil
}

// rejectOrder is the shared PENDING -> REJECTED transition used by both user
// cancellation and the expiration sweeper. The status guard makes the loser of
// a race with confirmPayment (or a second cancel) fail with ErrOrderNotPending
// instead of double-releasing anything.
func rejectOrder(db *gorm.DB, orderID uint) (*model.Order, error) {
	var order model.Order

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("Items").Preload("Client").First(&order, orderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrOrderNotFound
			}
			return err
		}

		now := time.Now()
		res := tx.Model(&model.Order{}).
			Where("id = ? AND status = ?", orderID, model.OrderPending).
			Updates(map[string]any{"status": model.OrderRejected, "cancelled_at": now})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrOrderNotPending
		}

		for _, item := range order.Items {
			if err := ReleaseTickets(tx, item.ID); err != nil {
				return err
			}
			if err := ReleaseStock(tx, item.TicketTypeId, item.Quantity); err != nil {
				return err
			}
		}
		order.Status = model.OrderRejected
		order.CancelledAt = &now
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// VoidOrder is the administrative post-sale reversal: APPROVED -> VOIDED,
// sold tickets forced back to the pool, stock restored.
func VoidOrder(db *gorm.DB, orderID uint) (*model.Order, error) {
	var order model.Order

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("Items").Preload("Client").First(&order, orderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrOrderNotFound
			}
			return err
		}

		now := time.Now()
		res := tx.Model(&model.Order{}).
			Where("id = ? AND status = ?", orderID, model.OrderApproved).
			Updates(map[string]any{"status": model.OrderVoided, "cancelled_at": now})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrOrderNotApproved
		}

		for _, item := range order.Items {
			if err := ForceReleaseSold(tx, item.ID); err != nil {
				return err
			}
			if err := ReleaseStock(tx, item.TicketTypeId, item.Quantity); err != nil {
				return err
			}
		}
		order.Status = model.OrderVoided
		order.CancelledAt = &now
		return nil
	})
	if err != nil {
		return nil, err
	}

	Notify(Notification{
		Type:      NotifyOrderCancelled,
		Email:     order.Client.Email,
		OrderCode: order.PublicCode,
		Amount:    order.Total,
	})
	BroadcastAvailability(orderEventIDs(&order)...)
	return &order, nil
}

// ApplyPromoDiscount sets a promotional discount on a PENDING order. Fails if
// a points redemption was already applied: the two sources are mutually
// exclusive.
func ApplyPromoDiscount(db *gorm.DB, orderID uint, amount float64) (*model.Order, error) {
	var order model.Order

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&order, orderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrOrderNotFound
			}
			return err
		}
		if order.Status != model.OrderPending {
			return ErrOrderNotPending
		}
		if order.DiscountSource == model.DiscountPoints {
			return ErrDiscountConflict
		}
		if amount > order.Subtotal {
			amount = order.Subtotal
		}

		res := tx.Model(&model.Order{}).
			Where("id = ? AND status = ? AND discount_source <> ?", orderID, model.OrderPending, model.DiscountPoints).
			Updates(map[string]any{
				"discount":        amount,
				"total":           order.Subtotal - amount,
				"discount_source": model.DiscountPromo,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrOrderNotPending
		}
		order.Discount = amount
		order.Total = order.Subtotal - amount
		order.DiscountSource = model.DiscountPromo
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// ApplyRedemptionDiscount covers the whole remaining total with points. The
// amount is computed here, never trusted from the caller, and it zeroes the
// order.
func ApplyRedemptionDiscount(db *gorm.DB, orderID uint) (*model.Order, error) {
	var order model.Order

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&order, orderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrOrderNotFound
			}
			return err
		}
		if order.Status != model.OrderPending {
			return ErrOrderNotPending
		}
		if order.DiscountSource == model.DiscountPromo {
			return ErrDiscountConflict
		}

		res := tx.Model(&model.Order{}).
			Where("id = ? AND status = ? AND discount_source <> ?", orderID, model.OrderPending, model.DiscountPromo).
			Updates(map[string]any{
				"discount":        order.Subtotal,
				"total":           0,
				"discount_source": model.DiscountPoints,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrOrderNotPending
		}
		order.Discount = order.Subtotal
		order.Total = 0
		order.DiscountSource = model.DiscountPoints
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// ExpireOrders is the sweeper tick: every PENDING order past its expiration is
// rejected and its reservation reclaimed. Each order is handled in its own
// transaction so one failure never aborts the whole sweep, and an order that
// got confirmed or cancelled while we scanned is simply skipped.
func ExpireOrders() {
	db := database.DB
	now := time.Now()

	var expired []model.Order
	if err := db.
		Where("status = ? AND expires_at < ?", model.OrderPending, now).
		Find(&expired).Error; err != nil {
		log.Printf("Sweep query failed: %v", err)
		return
	}
	if len(expired) == 0 {
		return
	}

	swept := 0
	for _, o := range expired {
		order, err := rejectOrder(db, o.ID)
		if err != nil {
			if errors.Is(err, ErrOrderNotPending) || errors.Is(err, ErrOrderNotFound) {
				continue // lost the race to a user transition
			}
			log.Printf("Sweep failed for order %s: %v", o.PublicCode, err)
			continue
		}
		swept++
		Notify(Notification{
			Type:      NotifyOrderExpired,
			Email:     order.Client.Email,
			OrderCode: order.PublicCode,
			Amount:    order.Total,
		})
		BroadcastAvailability(orderEventIDs(order)...)
	}
	if swept > 0 {
		log.Printf("Expired %d overdue orders", swept)
	}
}

// orderEventIDs resolves the distinct events touched by an order so the
// availability broadcast can fan out per event channel.
func orderEventIDs(order *model.Order) []uint {
	typeIDs := make([]uint, 0, len(order.Items))
	for _, item := range order.Items {
		typeIDs = append(typeIDs, item.TicketTypeId)
	}
	if len(typeIDs) == 0 {
		return nil
	}

	var eventIDs []uint
	if err := database.DB.Model(&model.TicketType{}).
		Distinct("event_id").
		Where("id IN ?", typeIDs).
		Pluck("event_id", &eventIDs).Error; err != nil {
		log.Printf("Event lookup for broadcast failed: %v", err)
		return nil
	}
	return eventIDs
}
