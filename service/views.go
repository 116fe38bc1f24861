package service

import (
	"time"

	"sportlink-service/model"
)

// Wire representations shared by the REST and socket surfaces.

type UserPublic struct {
	Id          uint   `json:"id"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
	AvatarURL   string `json:"avatar_url"`
}

func publicUser(u model.User) UserPublic {
	return UserPublic{
		Id:          u.ID,
		Username:    u.Username,
		DisplayName: u.DisplayName,
		AvatarURL:   u.AvatarURL,
	}
}

type MessageView struct {
	Id           uint       `json:"id"`
	Created      time.Time  `json:"created"`
	Conversation uint       `json:"conversation"`
	Sender       UserPublic `json:"sender"`
	Content      string     `json:"content"`
	ImageURL     string     `json:"image_url"`
}

func messageView(m model.Message) MessageView {
	return MessageView{
		Id:           m.ID,
		Created:      m.CreatedAt,
		Conversation: m.ConversationID,
		Sender:       publicUser(m.Sender),
		Content:      m.Content,
		ImageURL:     m.ImageURL,
	}
}

type ConversationView struct {
	Id           uint         `json:"id"`
	Name         string       `json:"name"`
	AvatarURL    string       `json:"avatar_url"`
	Description  string       `json:"description"`
	IsGroup      bool         `json:"is_group"`
	LastActivity time.Time    `json:"last_activity"`
	Participants []UserPublic `json:"participants"`
	LastMessage  *MessageView `json:"last_message"`
}

func conversationView(convo model.Conversation, last *model.Message) ConversationView {
	view := ConversationView{
		Id:           convo.ID,
		Name:         convo.Name,
		AvatarURL:    convo.AvatarURL,
		Description:  convo.Description,
		IsGroup:      convo.IsGroup,
		LastActivity: convo.LastActivity,
		Participants: []UserPublic{},
	}
	for _, p := range convo.Participants {
		view.Participants = append(view.Participants, publicUser(p.User))
	}
	if last != nil {
		v := messageView(*last)
		view.LastMessage = &v
	}
	return view
}
