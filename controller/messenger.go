package controller

import (
	"encoding/base64"
	"fmt"

	"sportlink-service/apperr"
	"sportlink-service/service"

	"github.com/gofiber/fiber/v2"
)

type MessengerController struct {
	messages      *service.MessageService
	conversations *service.ConversationService
}

func NewMessengerController(messages *service.MessageService, conversations *service.ConversationService) *MessengerController {
	return &MessengerController{messages: messages, conversations: conversations}
}

type SendMessageInput struct {
	ReceiverUsername string `json:"receiverUsername"`
	Content          string `json:"content"`
	ImageURL         string `json:"imageUrl"`
	ImageData        string `json:"imageData"`
}

type SendToConversationInput struct {
	Content   string `json:"content"`
	ImageURL  string `json:"imageUrl"`
	ImageData string `json:"imageData"`
}

type CreateGroupInput struct {
	Name            string   `json:"name"`
	MemberUsernames []string `json:"memberUsernames"`
}

// resolveImage stores inline image data and rewrites it to a served URL.
func (m *MessengerController) resolveImage(imageURL, imageData string) (string, error) {
	if imageData == "" {
		return imageURL, nil
	}
	image, err := m.messages.StoreImage(imageData)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("/v1/messenger/image/%d", image.ID), nil
}

func (m *MessengerController) Send(c *fiber.Ctx) error {
	senderID, err := currentUserID(c)
	if err != nil {
		return apperr.Respond(c, err)
	}

	input := new(SendMessageInput)
	if err := c.BodyParser(input); err != nil {
		return apperr.Respond(c, apperr.New(apperr.CodeValidation, "review your input"))
	}

	imageURL, err := m.resolveImage(input.ImageURL, input.ImageData)
	if err != nil {
		return apperr.Respond(c, err)
	}

	result, err := m.messages.Send(senderID, input.ReceiverUsername, input.Content, imageURL)
	if err != nil {
		return apperr.Respond(c, err)
	}

	return apperr.OK(c, result)
}

func (m *MessengerController) SendToConversation(c *fiber.Ctx) error {
	senderID, err := currentUserID(c)
	if err != nil {
		return apperr.Respond(c, err)
	}

	conversationID, err := paramID(c, "id")
	if err != nil {
		return apperr.Respond(c, err)
	}

	input := new(SendToConversationInput)
	if err := c.BodyParser(input); err != nil {
		return apperr.Respond(c, apperr.New(apperr.CodeValidation, "review your input"))
	}

	imageURL, err := m.resolveImage(input.ImageURL, input.ImageData)
	if err != nil {
		return apperr.Respond(c, err)
	}

	result, err := m.messages.SendToConversation(senderID, conversationID, input.Content, imageURL)
	if err != nil {
		return apperr.Respond(c, err)
	}

	return apperr.OK(c, result)
}

func (m *MessengerController) Conversations(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return apperr.Respond(c, err)
	}

	page, err := m.conversations.ListForUser(userID, pageParams(c))
	if err != nil {
		return apperr.Respond(c, err)
	}

	return apperr.OK(c, page)
}

func (m *MessengerController) Messages(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return apperr.Respond(c, err)
	}

	conversationID, err := paramID(c, "id")
	if err != nil {
		return apperr.Respond(c, err)
	}

	page, err := m.messages.ListMessages(userID, conversationID, pageParams(c))
	if err != nil {
		return apperr.Respond(c, err)
	}

	return apperr.OK(c, page)
}

func (m *MessengerController) CreateGroup(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return apperr.Respond(c, err)
	}

	input := new(CreateGroupInput)
	if err := c.BodyParser(input); err != nil {
		return apperr.Respond(c, apperr.New(apperr.CodeValidation, "review your input"))
	}

	group, err := m.conversations.CreateGroup(userID, input.Name, input.MemberUsernames)
	if err != nil {
		return apperr.Respond(c, err)
	}

	view, err := m.conversations.View(group)
	if err != nil {
		return apperr.Respond(c, err)
	}

	return apperr.OK(c, view)
}

func (m *MessengerController) DeleteMessage(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return apperr.Respond(c, err)
	}

	messageID, err := paramID(c, "id")
	if err != nil {
		return apperr.Respond(c, err)
	}

	if err := m.messages.Delete(userID, messageID, false); err != nil {
		return apperr.Respond(c, err)
	}

	return apperr.OK(c, nil)
}

func (m *MessengerController) Image(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return apperr.Respond(c, err)
	}

	image, err := m.messages.GetImage(id)
	if err != nil {
		return apperr.Respond(c, err)
	}

	data, _ := base64.StdEncoding.DecodeString(image.Data)
	c.Set("Content-Type", "image/png")
	return c.Send(data)
}
