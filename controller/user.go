package controller

import (
	"sportlink-service/apperr"
	"sportlink-service/service"

	"github.com/gofiber/fiber/v2"
)

type UserController struct {
	users         *service.UserService
	relationships *service.RelationshipService
}

func NewUserController(users *service.UserService, relationships *service.RelationshipService) *UserController {
	return &UserController{users: users, relationships: relationships}
}

func (u *UserController) Profile(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return apperr.Respond(c, err)
	}

	userModel, err := u.users.ByID(userID)
	if err != nil {
		return apperr.Respond(c, err)
	}

	return apperr.OK(c, fiber.Map{
		"id":           userModel.ID,
		"created":      userModel.CreatedAt.Unix(),
		"username":     userModel.Username,
		"email":        userModel.Email,
		"role":         userModel.Role,
		"display_name": userModel.DisplayName,
		"avatar_url":   userModel.AvatarURL,
		"bio":          userModel.Bio,
		"sport":        userModel.Sport,
		"position":     userModel.Position,
		"team_name":    userModel.TeamName,
		"otp":          userModel.Otp_enabled,
	})
}

func (u *UserController) UpdateProfile(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return apperr.Respond(c, err)
	}

	input := new(service.ProfileUpdate)
	if err := c.BodyParser(input); err != nil {
		return apperr.Respond(c, apperr.New(apperr.CodeValidation, "review your input"))
	}

	userModel, err := u.users.UpdateProfile(userID, *input)
	if err != nil {
		return apperr.Respond(c, err)
	}

	return apperr.OK(c, userModel)
}

// PublicProfile is the athlete page anyone authenticated can view.
func (u *UserController) PublicProfile(c *fiber.Ctx) error {
	userModel, err := u.users.ByUsername(c.Params("username"))
	if err != nil {
		return apperr.Respond(c, err)
	}

	userID, err := currentUserID(c)
	if err != nil {
		return apperr.Respond(c, err)
	}

	following, err := u.relationships.IsFollowing(userID, userModel.ID)
	if err != nil {
		return apperr.Respond(c, err)
	}
	mutual, err := u.relationships.Mutual(userID, userModel.ID)
	if err != nil {
		return apperr.Respond(c, err)
	}

	return apperr.OK(c, fiber.Map{
		"id":           userModel.ID,
		"username":     userModel.Username,
		"display_name": userModel.DisplayName,
		"avatar_url":   userModel.AvatarURL,
		"bio":          userModel.Bio,
		"sport":        userModel.Sport,
		"position":     userModel.Position,
		"team_name":    userModel.TeamName,
		"following":    following,
		"mutual":       mutual,
	})
}

func (u *UserController) Follow(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return apperr.Respond(c, err)
	}

	followee, err := u.relationships.Follow(userID, c.Params("username"))
	if err != nil {
		return apperr.Respond(c, err)
	}

	return apperr.OK(c, fiber.Map{
		"following": followee.Username,
	})
}

func (u *UserController) Unfollow(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return apperr.Respond(c, err)
	}

	if err := u.relationships.Unfollow(userID, c.Params("username")); err != nil {
		return apperr.Respond(c, err)
	}

	return apperr.OK(c, nil)
}
