package helper

import (
	"ticket_manager/model"
	"ticket_manager/utils"

	"gorm.io/gorm"
)

// ListOrders returns a client's orders, newest first, with optional status and
// date filters and teacher-style limit/page pagination.
func ListOrders(db *gorm.DB, clientID uint, filter model.FilterOrderInput) (*model.ResponseCustom, error) {
	query := db.Model(&model.Order{}).Where("client_id = ?", clientID)
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.StartDate != nil {
		query = query.Where("created_at >= ?", *filter.StartDate)
	}
	if filter.EndDate != nil {
		query = query.Where("created_at <= ?", *filter.EndDate)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	var orders []model.Order
	if err := utils.ApplyPagination(query, filter.Limit, filter.Page).
		Preload("Items").
		Preload("Items.Tickets").
		Order("created_at desc").
		Find(&orders).Error; err != nil {
		return nil, err
	}

	return &model.ResponseCustom{
		Rows:       orders,
		Limit:      filter.Limit,
		Page:       filter.Page,
		TotalCount: total,
	}, nil
}

// ListTicketTypes returns the ticket types of an event, ascending id, with an
// optional active filter and pagination.
func ListTicketTypes(db *gorm.DB, filter model.FilterTicketTypeInput) (*model.ResponseCustom, error) {
	query := db.Model(&model.TicketType{})
	if filter.EventId != 0 {
		query = query.Where("event_id = ?", filter.EventId)
	}
	if filter.IsActive != nil {
		query = query.Where("is_active = ?", *filter.IsActive)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	var types []model.TicketType
	if err := utils.ApplyPagination(query, filter.Limit, filter.Page).
		Order("id asc").
		Find(&types).Error; err != nil {
		return nil, err
	}

	return &model.ResponseCustom{
		Rows:       types,
		Limit:      filter.Limit,
		Page:       filter.Page,
		TotalCount: total,
	}, nil
}
