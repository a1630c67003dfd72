package validate

import (
	"ticket_manager/constants"
	"ticket_manager/model"
	"ticket_manager/utils"

	"github.com/gofiber/fiber/v2"
)

func CreateOrder() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var input model.CreateOrderInput
		if err := c.BodyParser(&input); err != nil {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.ERROR_INPUT, err)
		}
		if err := validate.Struct(input); err != nil {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, err.Error(), err)
		}
		for _, item := range input.Items {
			if len(item.Attendees) != item.Quantity {
				return utils.ErrorResponse(c, fiber.StatusBadRequest, "Attendee count must match quantity", nil)
			}
		}

		c.Locals("input", input)
		return c.Next()
	}
}

func ApplyPromo() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var input model.ApplyPromoInput
		if err := c.BodyParser(&input); err != nil {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.ERROR_INPUT, err)
		}
		if err := validate.Struct(input); err != nil {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, err.Error(), err)
		}

		c.Locals("input", input)
		return c.Next()
	}
}
