package service

import (
	"errors"
	"testing"

	"sportlink-service/apperr"
	"sportlink-service/database"
	"sportlink-service/model"
	"sportlink-service/pagination"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

type testServices struct {
	db            *gorm.DB
	users         *UserService
	relationships *RelationshipService
	friends       *FriendService
	conversations *ConversationService
	notifications *NotificationService
	messages      *MessageService
}

func newTestServices(t *testing.T) *testServices {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	database.Migrate(db)

	users := NewUserService(db)
	relationships := NewRelationshipService(db, users)
	friends := NewFriendService(db, users)
	conversations := NewConversationService(db, users)
	notifications := NewNotificationService(db)
	messages := NewMessageService(db, users, relationships, conversations, notifications, nil, nil)

	return &testServices{
		db:            db,
		users:         users,
		relationships: relationships,
		friends:       friends,
		conversations: conversations,
		notifications: notifications,
		messages:      messages,
	}
}

func seedUser(t *testing.T, db *gorm.DB, username string) *model.User {
	t.Helper()
	user := &model.User{
		Username: username,
		Email:    username + "@example.com",
		Password: "hash",
		Role:     "user",
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to seed user %s: %v", username, err)
	}
	return user
}

// befriend creates the follow edge in both directions.
func befriend(t *testing.T, db *gorm.DB, a, b uint) {
	t.Helper()
	edges := []model.Follow{
		{FollowerID: a, FolloweeID: b},
		{FollowerID: b, FolloweeID: a},
	}
	if err := db.Create(&edges).Error; err != nil {
		t.Fatalf("failed to create follow edges: %v", err)
	}
}

func pageOf(cursor uint, limit int) pagination.Params {
	return pagination.Params{Cursor: cursor, Limit: limit}
}

func assertCode(t *testing.T, err error, code apperr.Code) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error with code %s, got nil", code)
	}
	appErr := &apperr.Error{}
	if !errors.As(err, &appErr) {
		t.Fatalf("expected error with code %s, got %v", code, err)
	}
	if appErr.Code != code {
		t.Errorf("expected code %s, got %s", code, appErr.Code)
	}
}
