package model

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

// Conversation is either a two-party direct thread or a named group. Direct
// conversations carry a PairKey so the database enforces at most one thread
// per unordered participant pair; groups leave it NULL.
type Conversation struct {
	gorm.Model
	Name        string  `json:"name"`
	AvatarURL   string  `json:"avatar_url"`
	Description string  `json:"description"`
	IsGroup     bool    `gorm:"not null;default:false" json:"is_group"`
	PairKey     *string `gorm:"uniqueIndex" json:"-"`

	LastActivity time.Time `gorm:"index" json:"last_activity"`

	Participants []ConversationParticipant `gorm:"foreignKey:ConversationID" json:"participants"`
}

// PairKey normalizes an unordered user pair into the canonical key stored on
// direct conversations.
func PairKey(a, b uint) string {
	if a > b {
		a, b = b, a
	}
	return fmt.Sprintf("%d:%d", a, b)
}

type ConversationParticipant struct {
	ID             uint      `json:"id" gorm:"primaryKey"`
	ConversationID uint      `json:"conversation_id" gorm:"index;uniqueIndex:idx_conversation_user;not null"`
	UserID         uint      `json:"user_id" gorm:"index;uniqueIndex:idx_conversation_user;not null"`
	Admin          bool      `json:"admin" gorm:"not null;default:false"`
	CreatedAt      time.Time `json:"created_at"`

	User User `gorm:"foreignKey:UserID" json:"user"`
}

// Message rows are immutable once created except for the Deleted flag.
type Message struct {
	gorm.Model
	ConversationID uint   `gorm:"index;not null" json:"conversation_id"`
	SenderID       uint   `gorm:"index;not null" json:"sender_id"`
	Content        string `json:"content"`
	ImageURL       string `json:"image_url"`
	Deleted        bool   `gorm:"not null;default:false" json:"deleted"`

	Sender User `gorm:"foreignKey:SenderID" json:"sender"`
}

type Image struct {
	gorm.Model
	Data string `gorm:"not null" json:"data"`
}
