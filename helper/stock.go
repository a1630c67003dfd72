package helper

import (
	"ticket_manager/model"

	"gorm.io/gorm"
)

// ReserveStock carves qty units out of a ticket type's available counter in a
// single guarded UPDATE. Sold is incremented in the same statement so that
// available + sold == stock holds at every instant. Two concurrent callers can
// never both succeed on the last unit: the WHERE clause loses for one of them.
func ReserveStock(tx *gorm.DB, ticketTypeID uint, qty int) error {
	res := tx.Model(&model.TicketType{}).
		Where("id = ? AND available >= ?", ticketTypeID, qty).
		Updates(map[string]any{
			"available": gorm.Expr("available - ?", qty),
			"sold":      gorm.Expr("sold + ?", qty),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrInsufficientStock
	}
	return nil
}

// ReleaseStock returns qty units to the pool on cancellation, expiration or a
// post-sale void. The sold guard keeps available from ever exceeding stock.
func ReleaseStock(tx *gorm.DB, ticketTypeID uint, qty int) error {
	res := tx.Model(&model.TicketType{}).
		Where("id = ? AND sold >= ?", ticketTypeID, qty).
		Updates(map[string]any{
			"available": gorm.Expr("available + ?", qty),
			"sold":      gorm.Expr("sold - ?", qty),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrTicketConflict
	}
	return nil
}
