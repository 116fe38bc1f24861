package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"sportlink-service/apperr"
	"sportlink-service/model"
	"sportlink-service/pagination"

	"gorm.io/gorm"
)

type ConversationService struct {
	db    *gorm.DB
	users *UserService
}

func NewConversationService(db *gorm.DB, users *UserService) *ConversationService {
	return &ConversationService{db: db, users: users}
}

// DirectBetween returns the single canonical two-party conversation for an
// unordered pair, creating it if absent. The unique index on pair_key makes
// concurrent first-messages safe: the loser re-reads the winner's row.
func (s *ConversationService) DirectBetween(a, b uint) (*model.Conversation, error) {
	key := model.PairKey(a, b)

	convo, err := s.byPairKey(key)
	if err == nil {
		return convo, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	created := &model.Conversation{
		PairKey:      &key,
		LastActivity: time.Now(),
		Participants: []model.ConversationParticipant{
			{UserID: a},
			{UserID: b},
		},
	}
	if err := s.db.Create(created).Error; err != nil {
		// Lost the create race; the canonical row exists now.
		if convo, readErr := s.byPairKey(key); readErr == nil {
			return convo, nil
		}
		return nil, err
	}

	return s.load(created.ID)
}

func (s *ConversationService) byPairKey(key string) (*model.Conversation, error) {
	convo := new(model.Conversation)
	err := s.db.
		Where("pair_key = ?", key).
		Preload("Participants.User").
		First(convo).Error
	if err != nil {
		return nil, err
	}
	return convo, nil
}

func (s *ConversationService) load(id uint) (*model.Conversation, error) {
	convo := new(model.Conversation)
	err := s.db.Preload("Participants.User").First(convo, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.New(apperr.CodeConversationNotFound, "conversation not found")
		}
		return nil, err
	}
	return convo, nil
}

// CreateGroup creates a named group conversation with the creator as admin.
// Requires at least two other resolvable members. Creating an identical group
// (same name, same participant set) returns the existing one.
func (s *ConversationService) CreateGroup(creatorID uint, name string, memberUsernames []string) (*model.Conversation, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperr.New(apperr.CodeValidation, "group name is required")
	}

	memberIDs := make(map[uint]bool)
	for _, username := range memberUsernames {
		member, err := s.users.ByUsername(username)
		if err != nil {
			return nil, err
		}
		if member.ID != creatorID {
			memberIDs[member.ID] = true
		}
	}
	if len(memberIDs) < 2 {
		return nil, apperr.New(apperr.CodeValidation, "a group needs at least two other members")
	}

	wanted := map[uint]bool{creatorID: true}
	for id := range memberIDs {
		wanted[id] = true
	}

	// Idempotent create: same name + same participant set reuses the group.
	var candidates []model.Conversation
	if err := s.db.
		Where("is_group = ? AND name = ?", true, name).
		Preload("Participants.User").
		Find(&candidates).Error; err != nil {
		return nil, err
	}
	for i := range candidates {
		if sameParticipants(&candidates[i], wanted) {
			return &candidates[i], nil
		}
	}

	creator, err := s.users.ByID(creatorID)
	if err != nil {
		return nil, err
	}

	participants := []model.ConversationParticipant{{UserID: creatorID, Admin: true}}
	for id := range memberIDs {
		participants = append(participants, model.ConversationParticipant{UserID: id})
	}

	group := &model.Conversation{
		Name:         name,
		IsGroup:      true,
		LastActivity: time.Now(),
		Participants: participants,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(group).Error; err != nil {
			return err
		}

		notifications := make([]model.Notification, 0, len(memberIDs))
		for id := range memberIDs {
			notifications = append(notifications, model.Notification{
				Type:        model.NotificationGroupCreated,
				ActorID:     creatorID,
				RecipientID: id,
				TargetID:    group.ID,
				Message:     fmt.Sprintf("%s added you to %s", creator.Username, name),
			})
		}
		return tx.Create(&notifications).Error
	})
	if err != nil {
		return nil, err
	}

	return s.load(group.ID)
}

func sameParticipants(convo *model.Conversation, wanted map[uint]bool) bool {
	if len(convo.Participants) != len(wanted) {
		return false
	}
	for _, p := range convo.Participants {
		if !wanted[p.UserID] {
			return false
		}
	}
	return true
}

// Get loads a conversation the user participates in.
func (s *ConversationService) Get(conversationID, userID uint) (*model.Conversation, error) {
	convo, err := s.load(conversationID)
	if err != nil {
		return nil, err
	}
	for _, p := range convo.Participants {
		if p.UserID == userID {
			return convo, nil
		}
	}
	return nil, apperr.New(apperr.CodeForbidden, "not a participant of this conversation")
}

// ListForUser returns the user's conversations most-recent-first. The cursor
// is a conversation id; ordering is keyset on (last_activity, id) so pages
// stay stable while new messages arrive in other threads.
func (s *ConversationService) ListForUser(userID uint, p pagination.Params) (pagination.Page[ConversationView], error) {
	p = p.Clamp()

	q := s.db.
		Joins("JOIN conversation_participants cp ON cp.conversation_id = conversations.id").
		Where("cp.user_id = ?", userID)

	if p.Cursor != 0 {
		after := new(model.Conversation)
		if err := s.db.First(after, p.Cursor).Error; err == nil {
			q = q.Where(
				"conversations.last_activity < ? OR (conversations.last_activity = ? AND conversations.id < ?)",
				after.LastActivity, after.LastActivity, after.ID,
			)
		}
	}

	var convos []model.Conversation
	err := q.
		Order("conversations.last_activity DESC, conversations.id DESC").
		Limit(p.Limit + 1).
		Preload("Participants.User").
		Find(&convos).Error
	if err != nil {
		return pagination.Page[ConversationView]{}, err
	}

	views := make([]ConversationView, 0, len(convos))
	for i := range convos {
		last, err := s.lastMessage(convos[i].ID)
		if err != nil {
			return pagination.Page[ConversationView]{}, err
		}
		views = append(views, conversationView(convos[i], last))
	}

	return pagination.Slice(views, p.Limit, func(v ConversationView) uint { return v.Id }), nil
}

func (s *ConversationService) lastMessage(conversationID uint) (*model.Message, error) {
	msg := new(model.Message)
	err := s.db.
		Where("conversation_id = ? AND deleted = ?", conversationID, false).
		Order("id DESC").
		Preload("Sender").
		First(msg).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return msg, nil
}

// View renders a conversation with its last message.
func (s *ConversationService) View(convo *model.Conversation) (ConversationView, error) {
	last, err := s.lastMessage(convo.ID)
	if err != nil {
		return ConversationView{}, err
	}
	return conversationView(*convo, last), nil
}
