package service

import (
	"testing"

	"sportlink-service/apperr"
	"sportlink-service/model"
)

func TestDirectBetweenCreatesOnce(t *testing.T) {
	s := newTestServices(t)
	alice := seedUser(t, s.db, "alice")
	bob := seedUser(t, s.db, "bob")

	first, err := s.conversations.DirectBetween(alice.ID, bob.ID)
	if err != nil {
		t.Fatalf("first lookup failed: %v", err)
	}
	if len(first.Participants) != 2 {
		t.Fatalf("expected 2 participants, got %d", len(first.Participants))
	}

	// Same pair in the other order resolves to the same conversation.
	second, err := s.conversations.DirectBetween(bob.ID, alice.ID)
	if err != nil {
		t.Fatalf("second lookup failed: %v", err)
	}
	if first.ID != second.ID {
		t.Errorf("expected one canonical conversation, got %d and %d", first.ID, second.ID)
	}

	var count int64
	s.db.Model(&model.Conversation{}).Count(&count)
	if count != 1 {
		t.Errorf("expected 1 conversation row, got %d", count)
	}
}

func TestDirectBetweenSurvivesCreateRace(t *testing.T) {
	s := newTestServices(t)
	alice := seedUser(t, s.db, "alice")
	bob := seedUser(t, s.db, "bob")

	// Simulate a concurrent winner: the canonical row already exists when
	// our create runs into the unique pair key.
	key := model.PairKey(alice.ID, bob.ID)
	winner := &model.Conversation{
		PairKey: &key,
		Participants: []model.ConversationParticipant{
			{UserID: alice.ID},
			{UserID: bob.ID},
		},
	}
	if err := s.db.Create(winner).Error; err != nil {
		t.Fatalf("failed to seed winner: %v", err)
	}

	convo, err := s.conversations.DirectBetween(alice.ID, bob.ID)
	if err != nil {
		t.Fatalf("lookup failed: %v", err)
	}
	if convo.ID != winner.ID {
		t.Errorf("expected winner conversation %d, got %d", winner.ID, convo.ID)
	}
}

func TestCreateGroupRequiresTwoOtherMembers(t *testing.T) {
	s := newTestServices(t)
	alice := seedUser(t, s.db, "alice")
	seedUser(t, s.db, "bob")

	_, err := s.conversations.CreateGroup(alice.ID, "strikers", []string{"bob"})
	assertCode(t, err, apperr.CodeValidation)

	// The creator in the member list does not count toward the minimum.
	_, err = s.conversations.CreateGroup(alice.ID, "strikers", []string{"bob", "alice"})
	assertCode(t, err, apperr.CodeValidation)
}

func TestCreateGroupUnresolvedMember(t *testing.T) {
	s := newTestServices(t)
	alice := seedUser(t, s.db, "alice")
	seedUser(t, s.db, "bob")

	_, err := s.conversations.CreateGroup(alice.ID, "strikers", []string{"bob", "ghost"})
	assertCode(t, err, apperr.CodeUserNotFound)
}

func TestCreateGroupIdempotent(t *testing.T) {
	s := newTestServices(t)
	alice := seedUser(t, s.db, "alice")
	seedUser(t, s.db, "bob")
	seedUser(t, s.db, "carol")

	first, err := s.conversations.CreateGroup(alice.ID, "strikers", []string{"bob", "carol"})
	if err != nil {
		t.Fatalf("group create failed: %v", err)
	}
	if !first.IsGroup {
		t.Error("expected a group conversation")
	}
	if len(first.Participants) != 3 {
		t.Errorf("expected 3 participants, got %d", len(first.Participants))
	}

	adminOK := false
	for _, p := range first.Participants {
		if p.UserID == alice.ID && p.Admin {
			adminOK = true
		}
	}
	if !adminOK {
		t.Error("creator must be group admin")
	}

	// Same name + same participant set reuses the group.
	second, err := s.conversations.CreateGroup(alice.ID, "strikers", []string{"bob", "carol"})
	if err != nil {
		t.Fatalf("repeat group create failed: %v", err)
	}
	if first.ID != second.ID {
		t.Errorf("expected group reuse, got %d and %d", first.ID, second.ID)
	}

	// Same name with a different set is a new group.
	seedUser(t, s.db, "dave")
	third, err := s.conversations.CreateGroup(alice.ID, "strikers", []string{"bob", "dave"})
	if err != nil {
		t.Fatalf("different-set group create failed: %v", err)
	}
	if third.ID == first.ID {
		t.Error("different participant set must create a new group")
	}
}

func TestCreateGroupFansOutNotifications(t *testing.T) {
	s := newTestServices(t)
	alice := seedUser(t, s.db, "alice")
	bob := seedUser(t, s.db, "bob")
	carol := seedUser(t, s.db, "carol")

	if _, err := s.conversations.CreateGroup(alice.ID, "strikers", []string{"bob", "carol"}); err != nil {
		t.Fatalf("group create failed: %v", err)
	}

	var count int64
	s.db.Model(&model.Notification{}).
		Where("type = ?", model.NotificationGroupCreated).
		Count(&count)
	if count != 2 {
		t.Errorf("expected 2 group notifications, got %d", count)
	}

	for _, recipient := range []uint{bob.ID, carol.ID} {
		var n int64
		s.db.Model(&model.Notification{}).
			Where("recipient_id = ? AND actor_id = ?", recipient, alice.ID).
			Count(&n)
		if n != 1 {
			t.Errorf("expected 1 notification for user %d, got %d", recipient, n)
		}
	}
}

func TestGetRejectsNonParticipant(t *testing.T) {
	s := newTestServices(t)
	alice := seedUser(t, s.db, "alice")
	bob := seedUser(t, s.db, "bob")
	mallory := seedUser(t, s.db, "mallory")

	convo, err := s.conversations.DirectBetween(alice.ID, bob.ID)
	if err != nil {
		t.Fatalf("failed to create conversation: %v", err)
	}

	_, err = s.conversations.Get(convo.ID, mallory.ID)
	assertCode(t, err, apperr.CodeForbidden)

	_, err = s.conversations.Get(9999, alice.ID)
	assertCode(t, err, apperr.CodeConversationNotFound)
}

func TestListForUserOrdersByRecency(t *testing.T) {
	s := newTestServices(t)
	alice := seedUser(t, s.db, "alice")
	bob := seedUser(t, s.db, "bob")
	carol := seedUser(t, s.db, "carol")

	befriend(t, s.db, alice.ID, bob.ID)
	befriend(t, s.db, alice.ID, carol.ID)

	if _, err := s.messages.Send(alice.ID, "bob", "hi bob", ""); err != nil {
		t.Fatalf("send failed: %v", err)
	}
	withCarol, err := s.messages.Send(alice.ID, "carol", "hi carol", "")
	if err != nil {
		t.Fatalf("send failed: %v", err)
	}

	page, err := s.conversations.ListForUser(alice.ID, pageOf(0, 10))
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(page.Items) != 2 {
		t.Fatalf("expected 2 conversations, got %d", len(page.Items))
	}
	if page.Items[0].Id != withCarol.Conversation.Id {
		t.Errorf("most recent conversation must come first")
	}
	if page.Items[0].LastMessage == nil || page.Items[0].LastMessage.Content != "hi carol" {
		t.Errorf("conversation list must include the last message")
	}

	// A new message in the older thread moves it back to the top.
	withBob, err := s.messages.Send(alice.ID, "bob", "bob again", "")
	if err != nil {
		t.Fatalf("send failed: %v", err)
	}
	page, err = s.conversations.ListForUser(alice.ID, pageOf(0, 10))
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if page.Items[0].Id != withBob.Conversation.Id {
		t.Errorf("conversation ordering must follow last activity")
	}
}
