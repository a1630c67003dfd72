package helper

import (
	"errors"
	"fmt"
	"strings"
	"ticket_manager/model"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

func GenerateTransferCode() string {
	return "TRF-" + strings.ToUpper(uuid.New().String()[:8])
}

// loadTransferContext pulls the ticket, its event policy and the receiver in
// one place so verification and execution validate the exact same state.
func loadTransferContext(tx *gorm.DB, ticketID uint, input model.TransferInput) (*model.Ticket, *model.Event, *model.Client, error) {
	var ticket model.Ticket
	if err := tx.Preload("TicketType").First(&ticket, ticketID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, nil, ErrTicketNotFound
		}
		return nil, nil, nil, err
	}

	var event model.Event
	if err := tx.First(&event, ticket.TicketType.EventId).Error; err != nil {
		return nil, nil, nil, err
	}

	var receiver model.Client
	if err := tx.First(&receiver, "email = ? AND is_active = true", input.ReceiverEmail).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Unregistered destinations are rejected, never silently created.
			return &ticket, &event, nil, ErrClientNotFound
		}
		return nil, nil, nil, err
	}

	return &ticket, &event, &receiver, nil
}

// validateTransfer runs the full rule set. Order matters only for the error
// the caller sees first; all rules must hold.
func validateTransfer(ticket *model.Ticket, event *model.Event, senderID uint, receiver *model.Client, input model.TransferInput, now time.Time) error {
	if ticket.Status != model.TicketSold && ticket.Status != model.TicketTransferred {
		return ErrNotTransferable
	}
	if ticket.ClientId == nil || *ticket.ClientId != senderID {
		return ErrNotTicketOwner
	}
	if receiver == nil {
		return ErrClientNotFound
	}
	// Declared identity must match the registered account exactly; this guards
	// against mistyped recipients.
	if receiver.Name != input.ReceiverName ||
		receiver.Document != input.ReceiverDocument ||
		receiver.Phone != input.ReceiverPhone {
		return ErrReceiverIdentityMismatch
	}
	if ticket.TransferCount >= event.MaxTransfers {
		return ErrTransferLimitReached
	}
	if ticket.LastTransferAt != nil {
		readyAt := ticket.LastTransferAt.Add(time.Duration(event.CooldownHours) * time.Hour)
		if now.Before(readyAt) {
			return &CooldownError{Remaining: readyAt.Sub(now)}
		}
	}
	return nil
}

// VerifyTransfer checks every transfer rule without committing anything and
// returns a preview the caller can show before executing.
func VerifyTransfer(db *gorm.DB, ticketID uint, senderID uint, input model.TransferInput) (*model.TransferPreview, error) {
	ticket, event, receiver, err := loadTransferContext(db, ticketID, input)
	if err != nil {
		return nil, err
	}
	if err := validateTransfer(ticket, event, senderID, receiver, input, time.Now()); err != nil {
		return nil, err
	}

	return &model.TransferPreview{
		TicketCode:     ticket.TicketCode,
		ReceiverName:   receiver.Name,
		ReceiverEmail:  receiver.Email,
		TransfersUsed:  ticket.TransferCount,
		MaxTransfers:   event.MaxTransfers,
		CooldownHours:  event.CooldownHours,
		TransferNumber: ticket.TransferCount + 1,
	}, nil
}

// ExecuteTransfer re-validates everything inside one transaction (closing the
// gap against a stale verify), reassigns ownership and appends the audit row.
// Counters on the ticket type are never touched: a transfer conserves stock.
func ExecuteTransfer(db *gorm.DB, ticketID uint, senderID uint, input model.TransferInput) (*model.TransferRecord, error) {
	var record model.TransferRecord
	var receiverEmail, ticketCode string

	err := db.Transaction(func(tx *gorm.DB) error {
		ticket, event, receiver, err := loadTransferContext(tx, ticketID, input)
		if err != nil {
			return err
		}
		ticketCode = ticket.TicketCode
		now := time.Now()
		if err := validateTransfer(ticket, event, senderID, receiver, input, now); err != nil {
			return err
		}

		// Optimistic guard on owner and counter: if either moved since we
		// read the row, someone else transferred first.
		res := tx.Model(&model.Ticket{}).
			Where("id = ? AND client_id = ? AND transfer_count = ? AND status IN ?",
				ticket.ID, senderID, ticket.TransferCount,
				[]string{model.TicketSold, model.TicketTransferred}).
			Updates(map[string]any{
				"client_id":        receiver.ID,
				"status":           model.TicketTransferred,
				"transfer_count":   ticket.TransferCount + 1,
				"last_transfer_at": now,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrTicketConflict
		}

		record = model.TransferRecord{
			PublicCode:    GenerateTransferCode(),
			TicketId:      ticket.ID,
			FromClientId:  senderID,
			ToClientId:    receiver.ID,
			TransferredAt: now,
		}
		receiverEmail = receiver.Email
		return tx.Create(&record).Error
	})
	if err != nil {
		return nil, err
	}

	Notify(Notification{
		Type:       NotifyTicketTransferred,
		Email:      receiverEmail,
		TicketCode: ticketCode,
	})
	return &record, nil
}

// TransferHistory lists a ticket's transfer records, oldest first.
func TransferHistory(db *gorm.DB, ticketID uint) ([]model.TransferRecord, error) {
	var count int64
	if err := db.Model(&model.Ticket{}).Where("id = ?", ticketID).Count(&count).Error; err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, ErrTicketNotFound
	}

	var records []model.TransferRecord
	if err := db.
		Where("ticket_id = ?", ticketID).
		Order("transferred_at asc, id asc").
		Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// RemainingCooldown formats the wait left on a cooldown error for responses.
func RemainingCooldown(err error) string {
	var cd *CooldownError
	if errors.As(err, &cd) {
		return fmt.Sprintf("%.0f minutes", cd.Remaining.Minutes())
	}
	return ""
}
