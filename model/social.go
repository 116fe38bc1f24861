package model

import "time"

// Follow is a directed edge in the follow graph. Two users are "mutual" when
// the edge exists in both directions. No soft delete: unfollow removes the
// row, so the composite unique index never collides on re-follow.
type Follow struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	FollowerID uint      `json:"follower_id" gorm:"index;uniqueIndex:idx_follower_followee;not null"`
	FolloweeID uint      `json:"followee_id" gorm:"index;uniqueIndex:idx_follower_followee;not null"`
	CreatedAt  time.Time `json:"created_at"`
}

const (
	FriendRequestPending  = "PENDING"
	FriendRequestAccepted = "ACCEPTED"
	FriendRequestRejected = "REJECTED"
)

// FriendRequest tracks a pending relationship request. ACCEPTED and REJECTED
// are terminal; accepting creates the follow edges in both directions.
type FriendRequest struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	FromID    uint      `json:"from_id" gorm:"index;not null"`
	ToID      uint      `json:"to_id" gorm:"index;not null"`
	Status    string    `json:"status" gorm:"size:16;not null;default:PENDING"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	From User `gorm:"foreignKey:FromID" json:"from"`
	To   User `gorm:"foreignKey:ToID" json:"to"`
}

const (
	NotificationMessage       = "message"
	NotificationGroupMessage  = "group_message"
	NotificationGroupCreated  = "group_created"
	NotificationFriendRequest = "friend_request"
	NotificationFriendAccept  = "friend_accept"
	NotificationFollow        = "follow"
)

// Notification is one fan-out record per recipient of an authored action.
type Notification struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Type        string    `json:"type" gorm:"size:32;index;not null"`
	ActorID     uint      `json:"actor_id" gorm:"index"`
	RecipientID uint      `json:"recipient_id" gorm:"index;not null"`
	TargetID    uint      `json:"target_id"`
	Message     string    `json:"message"`
	Read        bool      `json:"read" gorm:"not null;default:false;index"`
	CreatedAt   time.Time `json:"created_at"`
}
