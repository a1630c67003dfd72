package handler

import (
	"errors"
	"strings"
	"ticket_manager/constants"
	"ticket_manager/database"
	"ticket_manager/helper"
	"ticket_manager/model"
	"ticket_manager/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/jinzhu/copier"
)

func RegisterClient(c *fiber.Ctx) error {
	db := database.DB

	clientInput, ok := c.Locals("RegisterClient").(model.RegisterClientInput)
	if !ok {
		return utils.ErrorResponseHaveKey(c, fiber.StatusInternalServerError, constants.ERROR_PARSE_DATA_TO_LOCLS, nil, "general")
	}

	emailTaken, err := helper.CheckByEmailClient(clientInput.Email, nil)
	if err != nil {
		return utils.ErrorResponseHaveKey(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err, "email")
	}
	if emailTaken {
		return utils.ErrorResponseHaveKey(c, fiber.StatusConflict, constants.EMAIL_EXISTS, nil, "email")
	}

	documentTaken, err := helper.CheckByDocumentClient(clientInput.Document, nil)
	if err != nil {
		return utils.ErrorResponseHaveKey(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err, "document")
	}
	if documentTaken {
		return utils.ErrorResponseHaveKey(c, fiber.StatusConflict, constants.DOCUMENT_EXISTS, nil, "document")
	}

	hash, err := helper.HashPassword(clientInput.Password)
	if err != nil {
		return utils.ErrorResponseHaveKey(c, fiber.StatusInternalServerError, constants.CAN_NOT_HASH_PASSWORD, err, "password")
	}

	newClient := new(model.Client)
	copier.Copy(&newClient, &clientInput)
	newClient.Password = hash
	newClient.IsActive = true

	if err := db.Create(&newClient).Error; err != nil {
		if strings.Contains(err.Error(), "duplicate key value violates unique constraint") {
			return utils.ErrorResponseHaveKey(c, fiber.StatusConflict, constants.EMAIL_EXISTS, nil, "email")
		}
		return utils.ErrorResponseHaveKey(c, fiber.StatusInternalServerError, constants.ERROR_CREATE, err, "general")
	}

	return utils.SuccessResponse(c, fiber.StatusOK, newClient)
}

func ClientLogin(c *fiber.Ctx) error {
	loginInput := new(model.LoginInput)
	if err := c.BodyParser(loginInput); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.MISSING_LOGIN_INPUT, err)
	}
	if loginInput.Email == "" || loginInput.Password == "" {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, constants.MISSING_LOGIN_INPUT, errors.New("email and password are required"))
	}

	client, err := helper.GetClientByEmail(loginInput.Email)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}
	if client == nil || !client.IsActive {
		return utils.ErrorResponse(c, fiber.StatusConflict, constants.INVALID_EMAIL, errors.New("client not exists"))
	}
	if !helper.CheckPasswordHash(loginInput.Password, client.Password) {
		return utils.ErrorResponse(c, fiber.StatusUnauthorized, constants.INVALID_PASSWORD, errors.New("wrong password"))
	}

	tokens, err := helper.GenerateClientToken(client)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, constants.ERROR_INTERNAL_ERROR, err)
	}

	return utils.SuccessResponse(c, fiber.StatusOK, fiber.Map{
		"client": client,
		"tokens": tokens,
	})
}

func Me(c *fiber.Ctx) error {
	claim, err := helper.GetInfoClientFromToken(c)
	if err != nil {
		return utils.ErrorResponse(c, 401, "Please sign in", err)
	}

	var client model.Client
	if err := database.DB.First(&client, claim.ClientId).Error; err != nil {
		return utils.ErrorResponse(c, 404, constants.CLIENT_NOT_FOUND, err)
	}

	return utils.SuccessResponse(c, 200, client)
}
