package service

import (
	"testing"

	"sportlink-service/apperr"
	"sportlink-service/model"
)

func TestFriendRequestLifecycle(t *testing.T) {
	s := newTestServices(t)
	alice := seedUser(t, s.db, "alice")
	bob := seedUser(t, s.db, "bob")

	request, err := s.friends.Request(alice.ID, "bob")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if request.Status != model.FriendRequestPending {
		t.Errorf("expected PENDING, got %s", request.Status)
	}

	accepted, err := s.friends.Respond(request.ID, bob.ID, true)
	if err != nil {
		t.Fatalf("respond failed: %v", err)
	}
	if accepted.Status != model.FriendRequestAccepted {
		t.Errorf("expected ACCEPTED, got %s", accepted.Status)
	}

	// Accepting creates the follow edge in both directions.
	mutual, err := s.relationships.Mutual(alice.ID, bob.ID)
	if err != nil {
		t.Fatalf("mutual check failed: %v", err)
	}
	if !mutual {
		t.Error("accepted friends must be mutual followers")
	}

	friends, err := s.friends.List(alice.ID)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(friends) != 1 || friends[0].Username != "bob" {
		t.Errorf("expected [bob] in friend list, got %v", friends)
	}
}

func TestFriendRequestTerminalStatesImmutable(t *testing.T) {
	s := newTestServices(t)
	alice := seedUser(t, s.db, "alice")
	bob := seedUser(t, s.db, "bob")

	request, err := s.friends.Request(alice.ID, "bob")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}

	if _, err := s.friends.Respond(request.ID, bob.ID, true); err != nil {
		t.Fatalf("respond failed: %v", err)
	}

	// A second response, either way, is rejected.
	_, err = s.friends.Respond(request.ID, bob.ID, true)
	assertCode(t, err, apperr.CodeAlreadyHandled)
	_, err = s.friends.Respond(request.ID, bob.ID, false)
	assertCode(t, err, apperr.CodeAlreadyHandled)
}

func TestFriendRequestRejectIsTerminal(t *testing.T) {
	s := newTestServices(t)
	alice := seedUser(t, s.db, "alice")
	bob := seedUser(t, s.db, "bob")

	request, err := s.friends.Request(alice.ID, "bob")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}

	rejected, err := s.friends.Respond(request.ID, bob.ID, false)
	if err != nil {
		t.Fatalf("reject failed: %v", err)
	}
	if rejected.Status != model.FriendRequestRejected {
		t.Errorf("expected REJECTED, got %s", rejected.Status)
	}

	_, err = s.friends.Respond(request.ID, bob.ID, true)
	assertCode(t, err, apperr.CodeAlreadyHandled)

	// Rejection does not create follow edges.
	mutual, err := s.relationships.Mutual(alice.ID, bob.ID)
	if err != nil {
		t.Fatalf("mutual check failed: %v", err)
	}
	if mutual {
		t.Error("rejected request must not create a relationship")
	}

	// But it does not block a fresh request either.
	if _, err := s.friends.Request(alice.ID, "bob"); err != nil {
		t.Errorf("new request after rejection must be allowed: %v", err)
	}
}

func TestFriendRequestGuards(t *testing.T) {
	s := newTestServices(t)
	alice := seedUser(t, s.db, "alice")
	bob := seedUser(t, s.db, "bob")
	mallory := seedUser(t, s.db, "mallory")

	_, err := s.friends.Request(alice.ID, "alice")
	assertCode(t, err, apperr.CodeInvalidOperation)

	_, err = s.friends.Request(alice.ID, "ghost")
	assertCode(t, err, apperr.CodeUserNotFound)

	request, err := s.friends.Request(alice.ID, "bob")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}

	// Duplicate while pending, in either direction.
	_, err = s.friends.Request(alice.ID, "bob")
	assertCode(t, err, apperr.CodeValidation)
	_, err = s.friends.Request(bob.ID, "alice")
	assertCode(t, err, apperr.CodeValidation)

	// Only the addressee can respond.
	_, err = s.friends.Respond(request.ID, mallory.ID, true)
	assertCode(t, err, apperr.CodeForbidden)
	_, err = s.friends.Respond(request.ID, alice.ID, true)
	assertCode(t, err, apperr.CodeForbidden)

	_, err = s.friends.Respond(9999, bob.ID, true)
	assertCode(t, err, apperr.CodeRequestNotFound)
}

func TestFriendRequestNotifications(t *testing.T) {
	s := newTestServices(t)
	alice := seedUser(t, s.db, "alice")
	bob := seedUser(t, s.db, "bob")

	request, err := s.friends.Request(alice.ID, "bob")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}

	var count int64
	s.db.Model(&model.Notification{}).
		Where("type = ? AND recipient_id = ?", model.NotificationFriendRequest, bob.ID).
		Count(&count)
	if count != 1 {
		t.Errorf("expected 1 friend_request notification, got %d", count)
	}

	if _, err := s.friends.Respond(request.ID, bob.ID, true); err != nil {
		t.Fatalf("respond failed: %v", err)
	}

	s.db.Model(&model.Notification{}).
		Where("type = ? AND recipient_id = ?", model.NotificationFriendAccept, alice.ID).
		Count(&count)
	if count != 1 {
		t.Errorf("expected 1 friend_accept notification, got %d", count)
	}
}
