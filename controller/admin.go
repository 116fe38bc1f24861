package controller

import (
	"sportlink-service/apperr"
	"sportlink-service/service"

	"github.com/gofiber/fiber/v2"
)

// AdminController is the moderation surface, guarded by the casbin RBAC
// middleware.
type AdminController struct {
	users    *service.UserService
	messages *service.MessageService
}

func NewAdminController(users *service.UserService, messages *service.MessageService) *AdminController {
	return &AdminController{users: users, messages: messages}
}

func (a *AdminController) Users(c *fiber.Ctx) error {
	page, err := a.users.List(pageParams(c))
	if err != nil {
		return apperr.Respond(c, err)
	}
	return apperr.OK(c, page)
}

func (a *AdminController) Ban(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return apperr.Respond(c, err)
	}

	user, err := a.users.SetBanned(id, true)
	if err != nil {
		return apperr.Respond(c, err)
	}
	return apperr.OK(c, user)
}

func (a *AdminController) Unban(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return apperr.Respond(c, err)
	}

	user, err := a.users.SetBanned(id, false)
	if err != nil {
		return apperr.Respond(c, err)
	}
	return apperr.OK(c, user)
}

func (a *AdminController) DeleteMessage(c *fiber.Ctx) error {
	adminID, err := currentUserID(c)
	if err != nil {
		return apperr.Respond(c, err)
	}

	messageID, err := paramID(c, "id")
	if err != nil {
		return apperr.Respond(c, err)
	}

	if err := a.messages.Delete(adminID, messageID, true); err != nil {
		return apperr.Respond(c, err)
	}

	return apperr.OK(c, nil)
}
