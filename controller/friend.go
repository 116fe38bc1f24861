package controller

import (
	"sportlink-service/apperr"
	"sportlink-service/service"

	"github.com/gofiber/fiber/v2"
)

type FriendController struct {
	friends *service.FriendService
}

func NewFriendController(friends *service.FriendService) *FriendController {
	return &FriendController{friends: friends}
}

type FriendRequestInput struct {
	Username string `json:"username"`
}

type FriendRespondInput struct {
	Action string `json:"action"`
}

func (f *FriendController) List(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return apperr.Respond(c, err)
	}

	friends, err := f.friends.List(userID)
	if err != nil {
		return apperr.Respond(c, err)
	}

	return apperr.OK(c, friends)
}

func (f *FriendController) Request(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return apperr.Respond(c, err)
	}

	input := new(FriendRequestInput)
	if err := c.BodyParser(input); err != nil {
		return apperr.Respond(c, apperr.New(apperr.CodeValidation, "review your input"))
	}
	if input.Username == "" {
		return apperr.Respond(c, apperr.New(apperr.CodeValidation, "username is required"))
	}

	request, err := f.friends.Request(userID, input.Username)
	if err != nil {
		return apperr.Respond(c, err)
	}

	return apperr.OK(c, request)
}

func (f *FriendController) Respond(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return apperr.Respond(c, err)
	}

	requestID, err := paramID(c, "id")
	if err != nil {
		return apperr.Respond(c, err)
	}

	input := new(FriendRespondInput)
	if err := c.BodyParser(input); err != nil {
		return apperr.Respond(c, apperr.New(apperr.CodeValidation, "review your input"))
	}

	var accept bool
	switch input.Action {
	case "accept":
		accept = true
	case "reject":
		accept = false
	default:
		return apperr.Respond(c, apperr.New(apperr.CodeValidation, "action must be accept or reject"))
	}

	request, err := f.friends.Respond(requestID, userID, accept)
	if err != nil {
		return apperr.Respond(c, err)
	}

	return apperr.OK(c, request)
}
