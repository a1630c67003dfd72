package handler

import (
	"encoding/base64"
	"ticket_manager/database"
	"ticket_manager/helper"
	"ticket_manager/model"
	"ticket_manager/utils"

	"github.com/gofiber/fiber/v2"
)

func GetTicketByCode(c *fiber.Ctx) error {
	ticketCode := c.Params("ticketCode")

	var ticket model.Ticket
	if err := database.DB.
		Preload("TicketType").
		Where("ticket_code = ?", ticketCode).
		First(&ticket).Error; err != nil {
		return utils.ErrorResponse(c, 404, "Ticket not found", err)
	}

	return utils.SuccessResponse(c, 200, ticket)
}

func GetMyTickets(c *fiber.Ctx) error {
	claim, err := helper.GetInfoClientFromToken(c)
	if err != nil {
		return utils.ErrorResponse(c, 401, "Please sign in", err)
	}

	var tickets []model.Ticket
	if err := database.DB.
		Preload("TicketType").
		Where("client_id = ? AND status IN ?", claim.ClientId, []string{model.TicketSold, model.TicketTransferred}).
		Order("created_at desc").
		Find(&tickets).Error; err != nil {
		return utils.ErrorResponse(c, 500, "Cannot load tickets", err)
	}

	return utils.SuccessResponse(c, 200, tickets)
}

func GetTicketQRCode(c *fiber.Ctx) error {
	ticketId := c.Locals("inputId").(int)

	var ticket model.Ticket
	if err := database.DB.First(&ticket, ticketId).Error; err != nil {
		return utils.ErrorResponse(c, 404, "Ticket not found", err)
	}

	qrBytes, err := utils.TicketQRCode(ticket.TicketCode, 400)
	if err != nil {
		return utils.ErrorResponse(c, 500, "Cannot render QR code", err)
	}

	return utils.SuccessResponse(c, 200, fiber.Map{
		"ticketId":   ticket.ID,
		"ticketCode": ticket.TicketCode,
		"qrCode":     "data:image/png;base64," + base64.StdEncoding.EncodeToString(qrBytes),
	})
}

// AssignAttendee rewrites the attendee metadata on a ticket the caller owns
// or reserved. Pure metadata, independent of ticket state.
func AssignAttendee(c *fiber.Ctx) error {
	ticketId := c.Locals("inputId").(int)
	input := c.Locals("input").(model.AssignAttendeeInput)

	if err := helper.AssignAttendee(database.DB, uint(ticketId), input); err != nil {
		return utils.ErrorResponse(c, statusFor(err), err.Error(), err)
	}

	return utils.SuccessResponse(c, 200, fiber.Map{"message": "Attendee updated"})
}
