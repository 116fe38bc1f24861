package router

import (
	"errors"
	"strconv"

	"sportlink-service/apperr"
	"sportlink-service/pagination"
	"sportlink-service/service"
	"sportlink-service/socketio"
	"sportlink-service/utils"

	"github.com/zishang520/socket.io/v2/socket"
)

// SocketServices are the shared services the realtime surface calls; socket
// events go through the same gate and append logic as REST.
type SocketServices struct {
	Conversations *service.ConversationService
	Messages      *service.MessageService
	Notifications *service.NotificationService
}

type InitConnection struct {
	Conversations []service.ConversationView `json:"conversations"`
	UserStatus    []UserStatus               `json:"userStatus"`
}

type UserStatus struct {
	Id     uint `json:"id"`
	Status bool `json:"status"`
}

type SocketError struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func socketError(err error) SocketError {
	appErr := &apperr.Error{}
	if errors.As(err, &appErr) {
		return SocketError{Error: appErr.Message, Code: string(appErr.Code)}
	}
	return SocketError{Error: "internal error", Code: string(apperr.CodeInternal)}
}

func Socket(server *socketio.Server, svc SocketServices) {
	server.IO().On("connection", func(clients ...interface{}) {
		client := clients[0].(*socket.Socket)

		userID := func() (uint, bool) {
			claims, ok := client.Data().(*utils.TokenMetadata)
			if !ok || claims == nil {
				return 0, false
			}
			id, err := strconv.ParseUint(claims.Id, 10, 64)
			if err != nil {
				return 0, false
			}
			return uint(id), true
		}

		peerStatuses := func(views []service.ConversationView, self uint) []UserStatus {
			statuses := []UserStatus{}
			for _, view := range views {
				if view.IsGroup {
					continue
				}
				for _, p := range view.Participants {
					if p.Id == self {
						continue
					}
					statuses = append(statuses, UserStatus{
						Id:     p.Id,
						Status: server.Online(strconv.FormatUint(uint64(p.Id), 10)),
					})
				}
			}
			return statuses
		}

		client.On("init", func(args ...interface{}) {
			conversations := []service.ConversationView{}
			userStatus := []UserStatus{}

			if id, ok := userID(); ok {
				page, err := svc.Conversations.ListForUser(id, pagination.Params{})
				if err == nil {
					conversations = page.Items
					userStatus = peerStatuses(page.Items, id)
				}
			}

			client.Emit("init", InitConnection{
				Conversations: conversations,
				UserStatus:    userStatus,
			})
		})

		client.On("conversation_list", func(args ...interface{}) {
			id, ok := userID()
			if !ok {
				return
			}

			page, err := svc.Conversations.ListForUser(id, pagination.Params{})
			if err != nil {
				client.Emit("conversation_list", socketError(err))
				return
			}

			client.Emit("conversation_list", page.Items)
		})

		client.On("conversation_messages", func(args ...interface{}) {
			id, ok := userID()
			if !ok || len(args) < 1 {
				return
			}
			conversationID, _ := strconv.ParseUint(args[0].(string), 10, 64)

			page, err := svc.Messages.ListMessages(id, uint(conversationID), pagination.Params{})
			if err != nil {
				client.Emit("conversation_messages", socketError(err))
				return
			}

			client.Emit("conversation_messages", page)
		})

		// Open (or reuse) a direct thread by username and append a message.
		// Recipient rooms receive the message from the append itself.
		client.On("direct_message", func(args ...interface{}) {
			id, ok := userID()
			if !ok || len(args) < 2 {
				return
			}
			username := args[0].(string)
			content := args[1].(string)
			imageURL := ""
			if len(args) > 2 {
				imageURL, _ = args[2].(string)
			}

			result, err := svc.Messages.Send(id, username, content, imageURL)
			if err != nil {
				client.Emit("direct_message", socketError(err))
				return
			}

			client.Emit("direct_message", result)
		})

		client.On("send_message", func(args ...interface{}) {
			id, ok := userID()
			if !ok || len(args) < 2 {
				return
			}
			conversationID, _ := strconv.ParseUint(args[0].(string), 10, 64)
			content := args[1].(string)
			imageURL := ""
			if len(args) > 2 {
				imageURL, _ = args[2].(string)
			}

			result, err := svc.Messages.SendToConversation(id, uint(conversationID), content, imageURL)
			if err != nil {
				client.Emit("send_message", socketError(err))
				return
			}

			client.Emit("send_message", result)
		})

		// Opening a thread clears its unread message notifications.
		client.On("read_conversation", func(args ...interface{}) {
			id, ok := userID()
			if !ok || len(args) < 1 {
				return
			}
			conversationID, _ := strconv.ParseUint(args[0].(string), 10, 64)

			if _, err := svc.Conversations.Get(uint(conversationID), id); err != nil {
				client.Emit("read_conversation", socketError(err))
				return
			}
			if err := svc.Notifications.MarkConversationRead(id, uint(conversationID)); err != nil {
				client.Emit("read_conversation", socketError(err))
				return
			}

			client.Emit("read_conversation", map[string]uint{"conversation": uint(conversationID)})
		})

		client.On("user_status", func(args ...interface{}) {
			id, ok := userID()
			if !ok {
				return
			}

			page, err := svc.Conversations.ListForUser(id, pagination.Params{})
			if err != nil {
				return
			}

			client.Emit("user_status", peerStatuses(page.Items, id))
		})
	})
}
