package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"

	"sportlink-service/apperr"
	"sportlink-service/event"
	"sportlink-service/model"
	"sportlink-service/pagination"

	"gorm.io/gorm"
)

// Emitter delivers realtime payloads to a user's room.
type Emitter interface {
	Emit(room string, event string, message any)
}

type MessageService struct {
	db            *gorm.DB
	users         *UserService
	relationships *RelationshipService
	conversations *ConversationService
	notifications *NotificationService

	bus      *event.Bus // optional
	realtime Emitter    // optional
}

func NewMessageService(
	db *gorm.DB,
	users *UserService,
	relationships *RelationshipService,
	conversations *ConversationService,
	notifications *NotificationService,
	bus *event.Bus,
	realtime Emitter,
) *MessageService {
	return &MessageService{
		db:            db,
		users:         users,
		relationships: relationships,
		conversations: conversations,
		notifications: notifications,
		bus:           bus,
		realtime:      realtime,
	}
}

type SendResult struct {
	Message      MessageView      `json:"message"`
	Conversation ConversationView `json:"conversation"`
}

// Send appends a direct message addressed by username, resolving (or
// creating) the canonical conversation for the pair.
func (s *MessageService) Send(senderID uint, receiverUsername, content, imageURL string) (*SendResult, error) {
	if strings.TrimSpace(receiverUsername) == "" {
		return nil, apperr.New(apperr.CodeInvalidUsername, "receiver username is required")
	}
	if err := validateContent(content, imageURL); err != nil {
		return nil, err
	}

	if _, err := s.users.ByID(senderID); err != nil {
		return nil, apperr.New(apperr.CodeSenderNotFound, "sender not found")
	}

	receiver, err := s.users.ByUsername(receiverUsername)
	if err != nil {
		return nil, apperr.New(apperr.CodeReceiverNotFound, "receiver not found")
	}
	if receiver.ID == senderID {
		return nil, apperr.New(apperr.CodeInvalidOperation, "cannot message yourself")
	}

	if err := s.relationships.CanMessage(senderID, receiver.ID); err != nil {
		return nil, err
	}

	convo, err := s.conversations.DirectBetween(senderID, receiver.ID)
	if err != nil {
		return nil, err
	}

	msg, err := s.append(convo, senderID, content, imageURL, []uint{receiver.ID}, model.NotificationMessage)
	if err != nil {
		return nil, err
	}

	return s.result(convo, msg)
}

// SendToConversation appends a message into an existing conversation the
// sender participates in (direct or group).
func (s *MessageService) SendToConversation(senderID, conversationID uint, content, imageURL string) (*SendResult, error) {
	if err := validateContent(content, imageURL); err != nil {
		return nil, err
	}

	convo, err := s.conversations.Get(conversationID, senderID)
	if err != nil {
		return nil, err
	}

	recipients := make([]uint, 0, len(convo.Participants))
	for _, p := range convo.Participants {
		if p.UserID != senderID {
			recipients = append(recipients, p.UserID)
		}
	}

	notifType := model.NotificationMessage
	if convo.IsGroup {
		notifType = model.NotificationGroupMessage
	}

	msg, err := s.append(convo, senderID, content, imageURL, recipients, notifType)
	if err != nil {
		return nil, err
	}

	return s.result(convo, msg)
}

func validateContent(content, imageURL string) error {
	if strings.TrimSpace(content) == "" && imageURL == "" {
		return apperr.New(apperr.CodeEmptyContent, "message needs text content or an image")
	}
	return nil
}

// append persists the message, bumps conversation recency and fans out one
// notification row per recipient, all inside a single transaction. Event and
// realtime delivery happen after commit.
func (s *MessageService) append(convo *model.Conversation, senderID uint, content, imageURL string, recipients []uint, notifType string) (*model.Message, error) {
	sender, err := s.users.ByID(senderID)
	if err != nil {
		return nil, err
	}

	msg := &model.Message{
		ConversationID: convo.ID,
		SenderID:       senderID,
		Content:        content,
		ImageURL:       imageURL,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(msg).Error; err != nil {
			return err
		}

		if err := tx.Model(&model.Conversation{}).
			Where("id = ?", convo.ID).
			Update("last_activity", msg.CreatedAt).Error; err != nil {
			return err
		}

		notifications := make([]model.Notification, 0, len(recipients))
		for _, recipient := range recipients {
			notifications = append(notifications, model.Notification{
				Type:        notifType,
				ActorID:     senderID,
				RecipientID: recipient,
				TargetID:    msg.ID,
				Message:     fmt.Sprintf("New message from %s", sender.Username),
			})
		}
		return s.notifications.FanOut(tx, notifications)
	})
	if err != nil {
		return nil, apperr.New(apperr.CodeSendFailed, "failed to send message")
	}

	convo.LastActivity = msg.CreatedAt
	msg.Sender = *sender

	s.deliver(msg, recipients)
	return msg, nil
}

func (s *MessageService) deliver(msg *model.Message, recipients []uint) {
	view := messageView(*msg)

	if s.realtime != nil {
		for _, recipient := range recipients {
			s.realtime.Emit(strconv.FormatUint(uint64(recipient), 10), "message", view)
		}
	}

	if s.bus != nil {
		payload, _ := json.Marshal(view)
		if err := s.bus.Emit("api", "notification.fanout", payload, true); err != nil {
			log.Printf("failed to publish fanout event: %v", err)
		}
	}
}

func (s *MessageService) result(convo *model.Conversation, msg *model.Message) (*SendResult, error) {
	convoView, err := s.conversations.View(convo)
	if err != nil {
		return nil, err
	}
	return &SendResult{
		Message:      messageView(*msg),
		Conversation: convoView,
	}, nil
}

// ListMessages pages a conversation's messages newest first. The cursor is a
// message id; the page starts immediately after it.
func (s *MessageService) ListMessages(userID, conversationID uint, p pagination.Params) (pagination.Page[MessageView], error) {
	if _, err := s.conversations.Get(conversationID, userID); err != nil {
		return pagination.Page[MessageView]{}, err
	}

	p = p.Clamp()
	q := s.db.
		Where("conversation_id = ? AND deleted = ?", conversationID, false).
		Order("id DESC").
		Limit(p.Limit + 1).
		Preload("Sender")
	if p.Cursor != 0 {
		q = q.Where("id < ?", p.Cursor)
	}

	var rows []model.Message
	if err := q.Find(&rows).Error; err != nil {
		return pagination.Page[MessageView]{}, err
	}

	views := make([]MessageView, 0, len(rows))
	for i := range rows {
		views = append(views, messageView(rows[i]))
	}

	return pagination.Slice(views, p.Limit, func(v MessageView) uint { return v.Id }), nil
}

// Delete soft-deletes a message. Senders can delete their own; moderators can
// delete any.
func (s *MessageService) Delete(userID, messageID uint, moderator bool) error {
	msg := new(model.Message)
	if err := s.db.First(msg, messageID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.New(apperr.CodeMessageNotFound, "message not found")
		}
		return err
	}

	if !moderator && msg.SenderID != userID {
		return apperr.New(apperr.CodeForbidden, "cannot delete another user's message")
	}

	return s.db.Model(msg).Update("deleted", true).Error
}

// StoreImage persists inline image data and returns the row; the caller
// derives the public URL from its id.
func (s *MessageService) StoreImage(data string) (*model.Image, error) {
	if data == "" {
		return nil, apperr.New(apperr.CodeValidation, "image data is required")
	}
	image := &model.Image{Data: data}
	if err := s.db.Create(image).Error; err != nil {
		return nil, err
	}
	return image, nil
}

func (s *MessageService) GetImage(id uint) (*model.Image, error) {
	image := new(model.Image)
	if err := s.db.First(image, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.New(apperr.CodeMessageNotFound, "image not found")
		}
		return nil, err
	}
	return image, nil
}
