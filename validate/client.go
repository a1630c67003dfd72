package validate

import (
	"ticket_manager/constants"
	"ticket_manager/model"
	"ticket_manager/utils"

	"github.com/gofiber/fiber/v2"
)

func RegisterClient() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var input model.RegisterClientInput
		if err := c.BodyParser(&input); err != nil {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.ERROR_INPUT, err)
		}
		if err := validate.Struct(input); err != nil {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, err.Error(), err)
		}

		c.Locals("RegisterClient", input)
		return c.Next()
	}
}
