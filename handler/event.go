package handler

import (
	"ticket_manager/database"
	"ticket_manager/helper"
	"ticket_manager/model"
	"ticket_manager/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/jinzhu/copier"
	"gorm.io/gorm"
)

func GetEvents(c *fiber.Ctx) error {
	var events []model.Event
	if err := database.DB.
		Preload("TicketTypes").
		Where("status <> ?", model.EventEnded).
		Order("start_time asc").
		Find(&events).Error; err != nil {
		return utils.ErrorResponse(c, 500, "Cannot load events", err)
	}

	return utils.SuccessResponse(c, 200, events)
}

func GetEventBySlug(c *fiber.Ctx) error {
	eventSlug := c.Params("slug")

	var event model.Event
	if err := database.DB.
		Preload("TicketTypes").
		Where("slug = ?", eventSlug).
		First(&event).Error; err != nil {
		return utils.ErrorResponse(c, 404, "Event not found", err)
	}

	return utils.SuccessResponse(c, 200, event)
}

func CreateEvent(c *fiber.Ctx) error {
	input, ok := c.Locals("input").(model.CreateEventInput)
	if !ok {
		return utils.ErrorResponse(c, 500, "Cannot parse request data", nil)
	}

	newEvent := new(model.Event)
	copier.Copy(&newEvent, &input)
	newEvent.Status = model.EventUpcoming
	newEvent.Slug = helper.GenerateUniqueEventSlug(database.DB, input.Name)

	if err := database.DB.Create(&newEvent).Error; err != nil {
		return utils.ErrorResponse(c, 500, "Create failed", err)
	}

	return utils.SuccessResponse(c, 201, newEvent)
}

// CreateTicketType creates the offering and pre-materializes its ticket pool
// in the same transaction, so the pool can never diverge from the allotment.
func CreateTicketType(c *fiber.Ctx) error {
	input, ok := c.Locals("input").(model.CreateTicketTypeInput)
	if !ok {
		return utils.ErrorResponse(c, 500, "Cannot parse request data", nil)
	}

	var event model.Event
	if err := database.DB.First(&event, input.EventId).Error; err != nil {
		return utils.ErrorResponse(c, 404, "Event not found", err)
	}

	newType := new(model.TicketType)
	copier.Copy(&newType, &input)
	newType.Available = input.Stock
	newType.Sold = 0
	newType.IsActive = true

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&newType).Error; err != nil {
			return err
		}
		return helper.CreateTicketPool(tx, newType)
	})
	if err != nil {
		return utils.ErrorResponse(c, 500, "Create failed", err)
	}

	return utils.SuccessResponse(c, 201, newType)
}

func GetTicketTypes(c *fiber.Ctx) error {
	eventId := c.Locals("inputId").(int)

	filter := model.FilterTicketTypeInput{EventId: uint(eventId)}
	if v := c.Query("isActive"); v != "" {
		filter.IsActive = utils.Ptr(v == "true")
	}
	if v := c.QueryInt("limit"); v > 0 {
		filter.Limit = utils.Ptr(v)
	}
	if v := c.QueryInt("page"); v > 0 {
		filter.Page = utils.Ptr(v)
	}

	result, err := helper.ListTicketTypes(database.DB, filter)
	if err != nil {
		return utils.ErrorResponse(c, 500, "Cannot load ticket types", err)
	}

	return utils.SuccessResponse(c, 200, result)
}

func GetEventAvailability(c *fiber.Ctx) error {
	eventId := c.Locals("inputId").(int)

	snapshot, err := helper.AvailabilitySnapshot(uint(eventId))
	if err != nil {
		return utils.ErrorResponse(c, 500, "Cannot load availability", err)
	}

	return utils.SuccessResponse(c, 200, snapshot)
}
