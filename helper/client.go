package helper

import (
	"errors"
	"ticket_manager/config"
	"ticket_manager/database"
	"ticket_manager/model"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

func GetClientByEmail(email string) (*model.Client, error) {
	db := database.DB
	var client model.Client
	if err := db.Where("email = ?", email).First(&client).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &client, nil
}

func CheckByEmailClient(email string, id *uint) (bool, error) {
	db := database.DB
	var count int64
	query := db.Model(&model.Client{}).Where("email = ?", email)
	if id != nil {
		query = query.Where("id != ?", *id)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func CheckByDocumentClient(document string, id *uint) (bool, error) {
	db := database.DB
	var count int64
	query := db.Model(&model.Client{}).Where("document = ?", document)
	if id != nil {
		query = query.Where("id != ?", *id)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func GenerateClientToken(client *model.Client) (model.TokenData, error) {
	secret := []byte(config.Config("JWT_SECRET"))

	access := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"clientId": client.ID,
		"email":    client.Email,
		"exp":      time.Now().Add(24 * time.Hour).Unix(),
	})
	accessToken, err := access.SignedString(secret)
	if err != nil {
		return model.TokenData{}, err
	}

	refresh := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"clientId": client.ID,
		"exp":      time.Now().Add(7 * 24 * time.Hour).Unix(),
	})
	refreshToken, err := refresh.SignedString(secret)
	if err != nil {
		return model.TokenData{}, err
	}

	return model.TokenData{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

// GetInfoClientFromToken reads the claims Protected() stored in locals.
func GetInfoClientFromToken(c *fiber.Ctx) (model.TokenClaim, error) {
	token, ok := c.Locals("user").(*jwt.Token)
	if !ok || token == nil {
		return model.TokenClaim{}, errors.New("missing token")
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return model.TokenClaim{}, errors.New("invalid claims")
	}

	claim := model.TokenClaim{}
	if id, ok := claims["clientId"].(float64); ok {
		claim.ClientId = uint(id)
	}
	if email, ok := claims["email"].(string); ok {
		claim.Email = email
	}
	if claim.ClientId == 0 {
		return claim, errors.New("invalid token claims")
	}
	return claim, nil
}
