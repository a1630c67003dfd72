package handler

import (
	"encoding/base64"
	"log"
	"ticket_manager/database"
	"ticket_manager/helper"
	"ticket_manager/model"
	"ticket_manager/utils"
	"time"

	"github.com/gofiber/fiber/v2"
)

// statusFor maps engine errors to HTTP statuses. Concurrency losses surface
// as business-rule rejections, never as server errors.
func statusFor(err error) int {
	switch {
	case helper.IsNotFound(err):
		return fiber.StatusNotFound
	case helper.IsBusinessRule(err):
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}

func CreateOrder(c *fiber.Ctx) error {
	input, ok := c.Locals("input").(model.CreateOrderInput)
	if !ok {
		return utils.ErrorResponse(c, 500, "Cannot parse request data", nil)
	}

	claim, err := helper.GetInfoClientFromToken(c)
	if err != nil {
		return utils.ErrorResponse(c, 401, "Please sign in", err)
	}

	order, err := helper.CreateOrder(database.DB, claim.ClientId, input)
	if err != nil {
		return utils.ErrorResponse(c, statusFor(err), err.Error(), err)
	}

	return utils.SuccessResponse(c, 201, fiber.Map{
		"order":     order,
		"expiresAt": order.ExpiresAt,
		"message":   "Order created, complete payment before it expires",
	})
}

// ConfirmOrder is the payment collaborator's callback: flips the order to
// APPROVED and the tickets to SOLD. Safe to call twice.
func ConfirmOrder(c *fiber.Ctx) error {
	orderId := c.Locals("inputId").(int)

	order, err := helper.ConfirmPayment(database.DB, uint(orderId))
	if err != nil {
		return utils.ErrorResponse(c, statusFor(err), err.Error(), err)
	}

	return utils.SuccessResponse(c, 200, order)
}

func CancelOrder(c *fiber.Ctx) error {
	orderId := c.Locals("inputId").(int)

	claim, err := helper.GetInfoClientFromToken(c)
	if err != nil {
		return utils.ErrorResponse(c, 401, "Please sign in", err)
	}

	var order model.Order
	if err := database.DB.First(&order, orderId).Error; err != nil {
		return utils.ErrorResponse(c, 404, "Order not found", err)
	}
	if order.ClientId != claim.ClientId {
		return utils.ErrorResponse(c, 403, "Order does not belong to you", nil)
	}

	cancelled, err := helper.CancelOrder(database.DB, order.ID)
	if err != nil {
		return utils.ErrorResponse(c, statusFor(err), err.Error(), err)
	}

	return utils.SuccessResponse(c, 200, fiber.Map{
		"order":   cancelled,
		"message": "Order cancelled, tickets returned to the pool",
	})
}

// VoidOrder is administrative: reverses an APPROVED order post-sale.
func VoidOrder(c *fiber.Ctx) error {
	orderId := c.Locals("inputId").(int)

	order, err := helper.VoidOrder(database.DB, uint(orderId))
	if err != nil {
		return utils.ErrorResponse(c, statusFor(err), err.Error(), err)
	}

	return utils.SuccessResponse(c, 200, order)
}

func ApplyPromoDiscount(c *fiber.Ctx) error {
	orderId := c.Locals("inputId").(int)
	input := c.Locals("input").(model.ApplyPromoInput)

	order, err := helper.ApplyPromoDiscount(database.DB, uint(orderId), input.Amount)
	if err != nil {
		return utils.ErrorResponse(c, statusFor(err), err.Error(), err)
	}

	return utils.SuccessResponse(c, 200, order)
}

func ApplyRedemptionDiscount(c *fiber.Ctx) error {
	orderId := c.Locals("inputId").(int)

	order, err := helper.ApplyRedemptionDiscount(database.DB, uint(orderId))
	if err != nil {
		return utils.ErrorResponse(c, statusFor(err), err.Error(), err)
	}

	return utils.SuccessResponse(c, 200, order)
}

func GetMyOrders(c *fiber.Ctx) error {
	claim, err := helper.GetInfoClientFromToken(c)
	if err != nil {
		return utils.ErrorResponse(c, 401, "Please sign in", err)
	}

	filter := model.FilterOrderInput{Status: c.Query("status")}
	if v := c.QueryInt("limit"); v > 0 {
		filter.Limit = utils.Ptr(v)
	}
	if v := c.QueryInt("page"); v > 0 {
		filter.Page = utils.Ptr(v)
	}

	result, err := helper.ListOrders(database.DB, claim.ClientId, filter)
	if err != nil {
		return utils.ErrorResponse(c, 500, "Cannot load orders", err)
	}

	return utils.SuccessResponse(c, 200, result)
}

func GetOrderDetail(c *fiber.Ctx) error {
	orderCode := c.Params("orderCode")

	var order model.Order
	if err := database.DB.
		Preload("Items").
		Preload("Items.TicketType").
		Preload("Items.Tickets").
		Where("public_code = ?", orderCode).
		First(&order).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Order not found", err)
	}

	// One QR per ticket so each attendee can check in independently
	tickets := []fiber.Map{}
	for _, item := range order.Items {
		for _, ticket := range item.Tickets {
			qrBase64 := ""
			qrBytes, err := utils.TicketQRCode(ticket.TicketCode, 256)
			if err != nil {
				log.Printf("QR for ticket %s failed: %v", ticket.TicketCode, err)
			} else {
				qrBase64 = "data:image/png;base64," + base64.StdEncoding.EncodeToString(qrBytes)
			}
			tickets = append(tickets, fiber.Map{
				"ticketCode":   ticket.TicketCode,
				"ticketType":   item.TicketType.Name,
				"attendeeName": ticket.AttendeeName,
				"status":       ticket.Status,
				"qrCode":       qrBase64,
			})
		}
	}

	return utils.SuccessResponse(c, 200, fiber.Map{
		"orderCode":      order.PublicCode,
		"status":         order.Status,
		"subtotal":       order.Subtotal,
		"discount":       order.Discount,
		"total":          order.Total,
		"discountSource": order.DiscountSource,
		"expiresAt":      order.ExpiresAt.Format(time.RFC3339),
		"tickets":        tickets,
	})
}
