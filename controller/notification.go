package controller

import (
	"sportlink-service/apperr"
	"sportlink-service/service"

	"github.com/gofiber/fiber/v2"
)

type NotificationController struct {
	notifications *service.NotificationService
}

func NewNotificationController(notifications *service.NotificationService) *NotificationController {
	return &NotificationController{notifications: notifications}
}

type MarkReadInput struct {
	Ids []uint `json:"ids"`
}

func (n *NotificationController) List(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return apperr.Respond(c, err)
	}

	page, err := n.notifications.List(userID, pageParams(c))
	if err != nil {
		return apperr.Respond(c, err)
	}

	return apperr.OK(c, page)
}

func (n *NotificationController) Unread(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return apperr.Respond(c, err)
	}

	count, err := n.notifications.UnreadCount(userID)
	if err != nil {
		return apperr.Respond(c, err)
	}

	return apperr.OK(c, fiber.Map{
		"unread": count,
	})
}

func (n *NotificationController) MarkRead(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return apperr.Respond(c, err)
	}

	input := new(MarkReadInput)
	if err := c.BodyParser(input); err != nil {
		return apperr.Respond(c, apperr.New(apperr.CodeValidation, "review your input"))
	}

	if err := n.notifications.MarkRead(userID, input.Ids); err != nil {
		return apperr.Respond(c, err)
	}

	return apperr.OK(c, nil)
}
