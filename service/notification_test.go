package service

import (
	"fmt"
	"testing"

	"sportlink-service/model"
)

func seedNotifications(t *testing.T, s *testServices, recipient uint, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		err := s.db.Create(&model.Notification{
			Type:        model.NotificationMessage,
			RecipientID: recipient,
			Message:     fmt.Sprintf("notification %d", i),
		}).Error
		if err != nil {
			t.Fatalf("failed to seed notification: %v", err)
		}
	}
}

func TestNotificationListPagination(t *testing.T) {
	s := newTestServices(t)
	alice := seedUser(t, s.db, "alice")
	seedNotifications(t, s, alice.ID, 25)

	first, err := s.notifications.List(alice.ID, pageOf(0, 20))
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(first.Items) != 20 || !first.HasMore {
		t.Fatalf("expected full first page with hasMore, got %d items", len(first.Items))
	}

	second, err := s.notifications.List(alice.ID, pageOf(first.NextCursor, 20))
	if err != nil {
		t.Fatalf("second page failed: %v", err)
	}
	if len(second.Items) != 5 || second.HasMore {
		t.Fatalf("expected final page of 5, got %d items (hasMore=%v)", len(second.Items), second.HasMore)
	}
}

func TestNotificationMarkRead(t *testing.T) {
	s := newTestServices(t)
	alice := seedUser(t, s.db, "alice")
	bob := seedUser(t, s.db, "bob")
	seedNotifications(t, s, alice.ID, 3)
	seedNotifications(t, s, bob.ID, 1)

	unread, err := s.notifications.UnreadCount(alice.ID)
	if err != nil {
		t.Fatalf("unread count failed: %v", err)
	}
	if unread != 3 {
		t.Fatalf("expected 3 unread, got %d", unread)
	}

	page, err := s.notifications.List(alice.ID, pageOf(0, 10))
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}

	// Mark one, then the rest.
	if err := s.notifications.MarkRead(alice.ID, []uint{page.Items[0].ID}); err != nil {
		t.Fatalf("mark read failed: %v", err)
	}
	unread, _ = s.notifications.UnreadCount(alice.ID)
	if unread != 2 {
		t.Errorf("expected 2 unread, got %d", unread)
	}

	if err := s.notifications.MarkRead(alice.ID, nil); err != nil {
		t.Fatalf("mark all read failed: %v", err)
	}
	unread, _ = s.notifications.UnreadCount(alice.ID)
	if unread != 0 {
		t.Errorf("expected 0 unread, got %d", unread)
	}

	// Another user's notifications are untouched.
	unread, _ = s.notifications.UnreadCount(bob.ID)
	if unread != 1 {
		t.Errorf("expected bob's notification untouched, got %d unread", unread)
	}
}

func TestMarkConversationRead(t *testing.T) {
	s := newTestServices(t)
	alice := seedUser(t, s.db, "alice")
	bob := seedUser(t, s.db, "bob")
	carol := seedUser(t, s.db, "carol")
	befriend(t, s.db, alice.ID, bob.ID)
	befriend(t, s.db, carol.ID, bob.ID)

	fromAlice, err := s.messages.Send(alice.ID, "bob", "hi", "")
	if err != nil {
		t.Fatalf("send failed: %v", err)
	}
	if _, err := s.messages.Send(carol.ID, "bob", "hey", ""); err != nil {
		t.Fatalf("send failed: %v", err)
	}

	if err := s.notifications.MarkConversationRead(bob.ID, fromAlice.Conversation.Id); err != nil {
		t.Fatalf("mark conversation read failed: %v", err)
	}

	// Only the opened thread's notification is cleared.
	unread, err := s.notifications.UnreadCount(bob.ID)
	if err != nil {
		t.Fatalf("unread count failed: %v", err)
	}
	if unread != 1 {
		t.Errorf("expected 1 unread from the other thread, got %d", unread)
	}
}
