package helper

import (
	"errors"
	"fmt"
	"time"
)

// Not found
var (
	ErrOrderNotFound      = errors.New("order not found")
	ErrTicketNotFound     = errors.New("ticket not found")
	ErrTicketTypeNotFound = errors.New("ticket type not found")
	ErrClientNotFound     = errors.New("client not found")
)

// Business rule violations
var (
	ErrInsufficientStock        = errors.New("not enough tickets available")
	ErrSaleWindowClosed         = errors.New("ticket type is not on sale")
	ErrAttendeeMismatch         = errors.New("attendee list does not match quantity")
	ErrOrderNotPending          = errors.New("order is no longer pending")
	ErrOrderNotApproved         = errors.New("order is not approved")
	ErrDiscountConflict         = errors.New("another discount is already applied")
	ErrNotTransferable          = errors.New("ticket has not been sold yet")
	ErrNotTicketOwner           = errors.New("sender does not own this ticket")
	ErrReceiverIdentityMismatch = errors.New("receiver identity fields do not match")
	ErrTransferLimitReached     = errors.New("transfer limit reached for this ticket")
)

// ErrTicketConflict means we lost a race on a ticket or counter row. Callers
// may retry the whole operation; the engine does not retry internally.
var ErrTicketConflict = errors.New("ticket state changed concurrently")

// CooldownError reports how long the sender still has to wait.
type CooldownError struct {
	Remaining time.Duration
}

func (e *CooldownError) Error() string {
	return fmt.Sprintf("transfer cooldown active, retry in %s", e.Remaining.Round(time.Minute))
}

func IsNotFound(err error) bool {
	return errors.Is(err, ErrOrderNotFound) ||
		errors.Is(err, ErrTicketNotFound) ||
		errors.Is(err, ErrTicketTypeNotFound) ||
		errors.Is(err, ErrClientNotFound)
}

func IsBusinessRule(err error) bool {
	var cd *CooldownError
	if errors.As(err, &cd) {
		return true
	}
	return errors.Is(err, ErrInsufficientStock) ||
		errors.Is(err, ErrSaleWindowClosed) ||
		errors.Is(err, ErrAttendeeMismatch) ||
		errors.Is(err, ErrOrderNotPending) ||
		errors.Is(err, ErrOrderNotApproved) ||
		errors.Is(err, ErrDiscountConflict) ||
		errors.Is(err, ErrNotTransferable) ||
		errors.Is(err, ErrNotTicketOwner) ||
		errors.Is(err, ErrReceiverIdentityMismatch) ||
		errors.Is(err, ErrTransferLimitReached) ||
		errors.Is(err, ErrTicketConflict)
}
