package controller

import (
	"strconv"

	"sportlink-service/apperr"
	"sportlink-service/pagination"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// currentUserID extracts the authenticated user id from the JWT placed in
// locals by the JWT middleware.
func currentUserID(c *fiber.Ctx) (uint, error) {
	token, ok := c.Locals("user").(*jwt.Token)
	if !ok {
		return 0, apperr.New(apperr.CodeAuthRequired, "authentication required")
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, apperr.New(apperr.CodeAuthRequired, "authentication required")
	}
	idStr, ok := claims["id"].(string)
	if !ok {
		return 0, apperr.New(apperr.CodeAuthRequired, "authentication required")
	}
	id, err := strconv.ParseUint(idStr, 10, 64)
	if err != nil {
		return 0, apperr.New(apperr.CodeAuthRequired, "authentication required")
	}
	return uint(id), nil
}

func pageParams(c *fiber.Ctx) pagination.Params {
	return pagination.Params{
		Cursor: uint(c.QueryInt("cursor")),
		Limit:  c.QueryInt("limit"),
	}.Clamp()
}

func paramID(c *fiber.Ctx, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Params(name), 10, 64)
	if err != nil {
		return 0, apperr.New(apperr.CodeValidation, "invalid id")
	}
	return uint(id), nil
}
