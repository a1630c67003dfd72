package helper

import (
	"log"
	"strings"
	"ticket_manager/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

func GenerateTicketCode() string {
	return "TKT-" + strings.ToUpper(uuid.New().String()[:13])
}

// CreateTicketPool pre-materializes one AVAILABLE ticket per unit of the
// type's allotment. Must run in the same transaction that creates the type.
func CreateTicketPool(tx *gorm.DB, tt *model.TicketType) error {
	tickets := make([]model.Ticket, 0, tt.Stock)
	for i := 0; i < tt.Stock; i++ {
		tickets = append(tickets, model.Ticket{
			TicketCode:   GenerateTicketCode(),
			Status:       model.TicketAvailable,
			TicketTypeId: tt.ID,
		})
	}
	return tx.CreateInBatches(&tickets, 500).Error
}

// ReserveTickets picks n AVAILABLE tickets of the type in ascending id order
// and flips each to RESERVED with a guarded per-row update, snapshotting the
// unit price and the attendee assigned to it. Any row that changed state under
// us aborts the caller's transaction so no partial reservation survives.
func ReserveTickets(tx *gorm.DB, ticketTypeID uint, n int, orderItemID uint, unitPrice float64, attendees []model.AttendeeInput) ([]model.Ticket, error) {
	var candidates []model.Ticket
	if err := tx.
		Where("ticket_type_id = ? AND status = ?", ticketTypeID, model.TicketAvailable).
		Order("id asc").
		Limit(n).
		Find(&candidates).Error; err != nil {
		return nil, err
	}
	// The stock ledger already granted n units; fewer physical tickets means
	// we lost a selection race with a concurrent order.
	if len(candidates) < n {
		return nil, ErrTicketConflict
	}

	for i := range candidates {
		res := tx.Model(&model.Ticket{}).
			Where("id = ? AND status = ?", candidates[i].ID, model.TicketAvailable).
			Updates(map[string]any{
				"status":            model.TicketReserved,
				"order_item_id":     orderItemID,
				"price":             unitPrice,
				"attendee_name":     attendees[i].Name,
				"attendee_document": attendees[i].Document,
			})
		if res.Error != nil {
			return nil, res.Error
		}
		if res.RowsAffected == 0 {
			return nil, ErrTicketConflict
		}
		candidates[i].Status = model.TicketReserved
		candidates[i].OrderItemId = &orderItemID
		candidates[i].Price = unitPrice
		candidates[i].AttendeeName = attendees[i].Name
		candidates[i].AttendeeDocument = attendees[i].Document
	}
	return candidates, nil
}

// ReleaseTickets returns an order item's RESERVED tickets to the pool and
// detaches them. A ticket that is not RESERVED anymore is logged and skipped,
// so the call is idempotent.
func ReleaseTickets(tx *gorm.DB, orderItemID uint) error {
	var tickets []model.Ticket
	if err := tx.Where("order_item_id = ?", orderItemID).Find(&tickets).Error; err != nil {
		return err
	}

	for _, t := range tickets {
		res := tx.Model(&model.Ticket{}).
			Where("id = ? AND status = ?", t.ID, model.TicketReserved).
			Updates(map[string]any{
				"status":            model.TicketAvailable,
				"order_item_id":     nil,
				"client_id":         nil,
				"attendee_name":     "",
				"attendee_document": "",
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			log.Printf("Ticket %s not RESERVED on release, skipped", t.TicketCode)
		}
	}
	return nil
}

// ConfirmTickets moves an item's RESERVED tickets to SOLD and binds the buyer
// as owner. Valid only from RESERVED; a shortfall means a concurrent
// transition got there first.
func ConfirmTickets(tx *gorm.DB, orderItemID uint, clientID uint, quantity int) error {
	res := tx.Model(&model.Ticket{}).
		Where("order_item_id = ? AND status = ?", orderItemID, model.TicketReserved).
		Updates(map[string]any{
			"status":    model.TicketSold,
			"client_id": clientID,
		})
	if res.Error != nil {
		return res.Error
	}
	if int(res.RowsAffected) != quantity {
		return ErrTicketConflict
	}
	return nil
}

// ForceReleaseSold is the admin void path: SOLD or TRANSFERRED tickets go back
// to AVAILABLE as fresh pool units, transfer history counters included.
func ForceReleaseSold(tx *gorm.DB, orderItemID uint) error {
	return tx.Model(&model.Ticket{}).
		Where("order_item_id = ? AND status IN ?", orderItemID, []string{model.TicketSold, model.TicketTransferred}).
		Updates(map[string]any{
			"status":            model.TicketAvailable,
			"order_item_id":     nil,
			"client_id":         nil,
			"attendee_name":     "",
			"attendee_document": "",
			"transfer_count":    0,
			"last_transfer_at":  nil,
		}).Error
}

// AssignAttendee is a pure metadata write, independent of ticket state.
func AssignAttendee(db *gorm.DB, ticketID uint, input model.AssignAttendeeInput) error {
	res := db.Model(&model.Ticket{}).
		Where("id = ?", ticketID).
		Updates(map[string]any{
			"attendee_name":     input.Name,
			"attendee_document": input.Document,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrTicketNotFound
	}
	return nil
}
