package service

import (
	"testing"

	"sportlink-service/apperr"
	"sportlink-service/model"
)

func TestFollowAndMutual(t *testing.T) {
	s := newTestServices(t)
	alice := seedUser(t, s.db, "alice")
	bob := seedUser(t, s.db, "bob")

	if _, err := s.relationships.Follow(alice.ID, "bob"); err != nil {
		t.Fatalf("follow failed: %v", err)
	}

	mutual, err := s.relationships.Mutual(alice.ID, bob.ID)
	if err != nil {
		t.Fatalf("mutual check failed: %v", err)
	}
	if mutual {
		t.Error("one-directional follow must not be mutual")
	}

	if _, err := s.relationships.Follow(bob.ID, "alice"); err != nil {
		t.Fatalf("follow back failed: %v", err)
	}

	mutual, err = s.relationships.Mutual(alice.ID, bob.ID)
	if err != nil {
		t.Fatalf("mutual check failed: %v", err)
	}
	if !mutual {
		t.Error("expected mutual relationship after both follows")
	}
}

func TestFollowIsIdempotent(t *testing.T) {
	s := newTestServices(t)
	alice := seedUser(t, s.db, "alice")
	seedUser(t, s.db, "bob")

	for i := 0; i < 2; i++ {
		if _, err := s.relationships.Follow(alice.ID, "bob"); err != nil {
			t.Fatalf("follow #%d failed: %v", i+1, err)
		}
	}

	var count int64
	s.db.Model(&model.Follow{}).Count(&count)
	if count != 1 {
		t.Errorf("expected 1 follow edge, got %d", count)
	}
}

func TestFollowSelfRejected(t *testing.T) {
	s := newTestServices(t)
	alice := seedUser(t, s.db, "alice")

	_, err := s.relationships.Follow(alice.ID, "alice")
	assertCode(t, err, apperr.CodeInvalidOperation)
}

func TestCanMessageRequiresMutual(t *testing.T) {
	s := newTestServices(t)
	alice := seedUser(t, s.db, "alice")
	bob := seedUser(t, s.db, "bob")

	assertCode(t, s.relationships.CanMessage(alice.ID, bob.ID), apperr.CodeForbidden)

	befriend(t, s.db, alice.ID, bob.ID)
	if err := s.relationships.CanMessage(alice.ID, bob.ID); err != nil {
		t.Errorf("mutual users must be allowed to message: %v", err)
	}
}

func TestCanMessageSelfRejected(t *testing.T) {
	s := newTestServices(t)
	alice := seedUser(t, s.db, "alice")

	assertCode(t, s.relationships.CanMessage(alice.ID, alice.ID), apperr.CodeInvalidOperation)
}

func TestCanMessageGrandfathersExistingConversation(t *testing.T) {
	s := newTestServices(t)
	alice := seedUser(t, s.db, "alice")
	bob := seedUser(t, s.db, "bob")

	befriend(t, s.db, alice.ID, bob.ID)
	if _, err := s.conversations.DirectBetween(alice.ID, bob.ID); err != nil {
		t.Fatalf("failed to create conversation: %v", err)
	}

	// Relationship breaks, the existing thread stays writable.
	if err := s.relationships.Unfollow(bob.ID, "alice"); err != nil {
		t.Fatalf("unfollow failed: %v", err)
	}

	if err := s.relationships.CanMessage(alice.ID, bob.ID); err != nil {
		t.Errorf("existing conversation must keep the pair messageable: %v", err)
	}
}
