package handler

import (
	"errors"
	"ticket_manager/database"
	"ticket_manager/helper"
	"ticket_manager/model"
	"ticket_manager/utils"

	"github.com/gofiber/fiber/v2"
)

// transferError adds the remaining cooldown to the response when that is the
// reason for rejection, so the caller can display the wait.
func transferError(c *fiber.Ctx, err error) error {
	var cd *helper.CooldownError
	if errors.As(err, &cd) {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"message":       err.Error(),
			"remainingWait": helper.RemainingCooldown(err),
		})
	}
	return utils.ErrorResponse(c, statusFor(err), err.Error(), err)
}

// VerifyTransfer dry-runs the transfer rules and returns a preview.
func VerifyTransfer(c *fiber.Ctx) error {
	ticketId := c.Locals("inputId").(int)
	input := c.Locals("input").(model.TransferInput)

	claim, err := helper.GetInfoClientFromToken(c)
	if err != nil {
		return utils.ErrorResponse(c, 401, "Please sign in", err)
	}

	preview, err := helper.VerifyTransfer(database.DB, uint(ticketId), claim.ClientId, input)
	if err != nil {
		return transferError(c, err)
	}

	return utils.SuccessResponse(c, 200, preview)
}

func ExecuteTransfer(c *fiber.Ctx) error {
	ticketId := c.Locals("inputId").(int)
	input := c.Locals("input").(model.TransferInput)

	claim, err := helper.GetInfoClientFromToken(c)
	if err != nil {
		return utils.ErrorResponse(c, 401, "Please sign in", err)
	}

	record, err := helper.ExecuteTransfer(database.DB, uint(ticketId), claim.ClientId, input)
	if err != nil {
		return transferError(c, err)
	}

	return utils.SuccessResponse(c, 200, fiber.Map{
		"transfer": record,
		"message":  "Ticket transferred",
	})
}

func GetTransferHistory(c *fiber.Ctx) error {
	ticketId := c.Locals("inputId").(int)

	records, err := helper.TransferHistory(database.DB, uint(ticketId))
	if err != nil {
		return utils.ErrorResponse(c, statusFor(err), err.Error(), err)
	}

	return utils.SuccessResponse(c, 200, records)
}
